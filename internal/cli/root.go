package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/agentx-labs/binplugin/internal/branding"
	"github.com/agentx-labs/binplugin/internal/config"
	"github.com/agentx-labs/binplugin/internal/logging"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	logLevel   string
	timestamps bool

	logger  = logging.Discard()
	printer = message.NewPrinter(language.English)

	// userFs holds the user config file.
	userFs afero.Fs = afero.NewOsFs()
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides the log_level setting)")
	rootCmd.PersistentFlags().BoolVar(&timestamps, "timestamps", false, "Prefix log lines with a timestamp (overrides the timestamps setting)")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` bundles command-line entry points with esbuild, keeps their
shebang line on top of the output and marks the written files executable.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		store, err := config.OpenUserStore(userFs, config.FilePath())
		if err != nil {
			return err
		}

		settings := store.Settings()
		if cmd.Flags().Changed("log-level") {
			settings.LogLevel = logLevel
		}
		if cmd.Flags().Changed("timestamps") {
			settings.Timestamps = timestamps
		}
		l, err := logging.New(cmd.ErrOrStderr(), logging.Options{Level: settings.LogLevel, Timestamps: settings.Timestamps})
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

// Execute runs the root command with build info injected via ldflags.
// Interrupts cancel the command's context.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		log.New(os.Stderr).Error(err)
	}
	return err
}
