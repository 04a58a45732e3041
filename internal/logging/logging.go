package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/agentx-labs/binplugin/internal/branding"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	// ColorPrefix is cyan, used for the plugin tag in front of every line.
	ColorPrefix = lipgloss.Color("#06B6D4")

	// ColorSuccess is green, used for completed file operations.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorMuted is gray, used for debug output.
	ColorMuted = lipgloss.Color("#6B7280")
)

var (
	prefixStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrefix)

	successStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)
)

// Options configures New.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// Prefix defaults to the plugin tag, e.g. "[binplugin]".
	Prefix string
	// Timestamps adds a timestamp to each line.
	Timestamps bool
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) (*log.Logger, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("parsing log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = Tag()
	}

	logger := log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportTimestamp: opts.Timestamps,
	})

	styles := log.DefaultStyles()
	styles.Prefix = prefixStyle
	styles.Levels[log.DebugLevel] = styles.Levels[log.DebugLevel].Foreground(ColorMuted)
	logger.SetStyles(styles)

	return logger, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// Tag returns the bracketed plugin name used as the log prefix.
func Tag() string {
	return "[" + branding.PluginName() + "]"
}

// Success renders msg in the success color.
func Success(msg string) string {
	return successStyle.Render(msg)
}
