package cli

import (
	"fmt"
	"io"

	"github.com/agentx-labs/binplugin/internal/shebang"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>...",
	Short: "Print the shebang each file would contribute",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspectFiles(cmd.OutOrStdout(), afero.NewOsFs(), args)
	},
}

func inspectFiles(w io.Writer, fsys afero.Fs, paths []string) error {
	for _, path := range paths {
		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		line, ok := shebang.Capture(string(data))
		if !ok {
			line = "-"
		}
		fmt.Fprintf(w, "%s\t%s\n", path, line)
	}
	return nil
}
