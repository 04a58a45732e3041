package cli

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/agentx-labs/binplugin/internal/branding"
	"github.com/agentx-labs/binplugin/internal/config"
	"github.com/agentx-labs/binplugin/internal/esbuildhost"
	"github.com/agentx-labs/binplugin/internal/pipeline"
	"github.com/agentx-labs/binplugin/internal/shebang"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	buildRoot      string
	buildOutdir    string
	buildFormat    string
	buildPlatform  string
	buildSourcemap bool
	buildMinify    bool
	buildSplitting bool
	buildExternal  []string
)

func init() {
	buildCmd.Flags().StringVar(&buildRoot, "root", ".", "Project directory; entry points and options are resolved from here")
	buildCmd.Flags().StringVarP(&buildOutdir, "outdir", "o", "dist", "Output directory")
	buildCmd.Flags().StringVar(&buildFormat, "format", "esm", "Output format: esm, cjs or iife")
	buildCmd.Flags().StringVar(&buildPlatform, "platform", "node", "Target platform: node, browser or neutral")
	buildCmd.Flags().BoolVar(&buildSourcemap, "sourcemap", false, "Write external source maps")
	buildCmd.Flags().BoolVar(&buildMinify, "minify", false, "Minify the output")
	buildCmd.Flags().BoolVar(&buildSplitting, "splitting", false, "Split shared code into chunks (esm only)")
	buildCmd.Flags().StringSliceVar(&buildExternal, "external", nil, "Modules to leave out of the bundle")

	// Bound to the project options by name.
	buildCmd.Flags().String(config.KeyShebang, "", "Replace every captured shebang with this line")
	buildCmd.Flags().Bool(config.KeyExecutable, true, "Add execute bits to written shebang files")
	buildCmd.Flags().Bool(config.KeyHires, true, "Emit one source map segment per character")

	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build <entry>...",
	Short: "Bundle entry points and keep their shebangs",
	Long: `Bundle the given entry points with esbuild. A shebang on the first line of
a source module is put back on top of the chunk it ends up in, and the written
file gets its execute bits.

Options come from the project options file, the environment variables
` + branding.EnvVar(config.KeyShebang) + `, ` + branding.EnvVar(config.KeyExecutable) + ` and ` + branding.EnvVar(config.KeyHires) + `, and the flags below,
in increasing priority.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := filepath.Abs(buildRoot)
		if err != nil {
			return fmt.Errorf("resolving project root: %w", err)
		}

		project, err := config.LoadOptions(root, cmd.Flags())
		if err != nil {
			return err
		}
		if project.File != "" {
			logger.Debug("loaded options", "file", project.File)
		}

		bundle, err := esbuildhost.Build(cmd.Context(), esbuildhost.Options{
			EntryPoints:   args,
			Outdir:        buildOutdir,
			AbsWorkingDir: root,
			Format:        buildFormat,
			Platform:      buildPlatform,
			Sourcemap:     buildSourcemap,
			Minify:        buildMinify,
			Splitting:     buildSplitting,
			External:      buildExternal,
			Logger:        logger,
			Fs:            afero.NewOsFs(),
		}, shebang.New(project.Options))
		if err != nil {
			return err
		}

		printBundle(cmd, bundle)
		return nil
	},
}

func printBundle(cmd *cobra.Command, bundle pipeline.Bundle) {
	out := cmd.OutOrStdout()

	names := make([]string, 0, len(bundle))
	for name := range bundle {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		entry := bundle[name]
		size := len(entry.Source)
		if entry.Kind == pipeline.KindChunk {
			size = len(entry.Code)
		}
		printer.Fprintf(out, "  %-32s %8d bytes\n", name, size)
	}
	printer.Fprintf(out, "Built %d file(s) into %s\n", len(bundle), buildOutdir)
}
