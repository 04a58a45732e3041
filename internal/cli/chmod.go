package cli

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/binplugin/internal/pipeline"
	"github.com/agentx-labs/binplugin/internal/shebang"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(chmodCmd)
}

var chmodCmd = &cobra.Command{
	Use:   "chmod <dir>",
	Short: "Make already built shebang files executable",
	Long: `Add execute bits to every .js, .mjs and .cjs file under dir whose first
line is a shebang. Use this after a build made by another tool.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		osfs := afero.NewOsFs()
		dir := args[0]

		bundle, err := scanChunks(osfs, dir)
		if err != nil {
			return err
		}
		changed, err := shebang.MakeExecutable(osfs, dir, bundle, logger)
		if err != nil {
			return err
		}
		printer.Fprintf(cmd.OutOrStdout(), "Made %d of %d script(s) executable.\n", len(changed), len(bundle))
		return nil
	},
}

// scanChunks reads every script under dir into a bundle keyed by its
// slash-separated path relative to dir.
func scanChunks(fsys afero.Fs, dir string) (pipeline.Bundle, error) {
	bundle := pipeline.Bundle{}

	err := afero.Walk(fsys, dir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !isScript(path) {
			return nil
		}

		data, err := afero.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		bundle[name] = &pipeline.OutputEntry{FileName: name, Kind: pipeline.KindChunk, Code: string(data)}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	return bundle, nil
}

func isScript(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".mjs", ".cjs":
		return true
	}
	return false
}
