package esbuildhost

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// BuildError carries the error messages esbuild reported.
type BuildError struct {
	Messages []api.Message
}

func (e *BuildError) Error() string {
	lines := make([]string, len(e.Messages))
	for i, msg := range e.Messages {
		lines[i] = formatMessage(msg)
	}
	return fmt.Sprintf("esbuild reported %d error(s):\n  %s", len(e.Messages), strings.Join(lines, "\n  "))
}

func formatMessage(msg api.Message) string {
	text := msg.Text
	if msg.PluginName != "" {
		text = "[plugin " + msg.PluginName + "] " + text
	}
	if loc := msg.Location; loc != nil {
		return fmt.Sprintf("%s:%d:%d: %s", loc.File, loc.Line, loc.Column, text)
	}
	return text
}
