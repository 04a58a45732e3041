package cli

import (
	"fmt"
	"path/filepath"

	"github.com/agentx-labs/binplugin/internal/branding"
	"github.com/agentx-labs/binplugin/internal/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage user settings and project options",
	Long: `Read and write user settings stored at ~/` + branding.HomeDir() + `/config.yaml,
and check project option files (` + branding.ConfigName() + `.yaml) against their schema.

User settings:
  ` + config.KeyLogLevel + `    debug, info, warn or error (env ` + branding.EnvVar(config.KeyLogLevel) + `)
  ` + config.KeyTimestamps + `   true or false (env ` + branding.EnvVar(config.KeyTimestamps) + `)`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a user setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		store, err := config.OpenUserStore(userFs, config.FilePath())
		if err != nil {
			return err
		}
		if err := store.Set(key, value); err != nil {
			return fmt.Errorf("setting %q: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the resolved value of a user setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := config.OpenUserStore(userFs, config.FilePath())
		if err != nil {
			return err
		}
		value, err := store.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a project options file",
	Long: `Validate a project options file against the options schema. Without an
argument the ` + branding.ConfigName() + `.{yaml,yml,json,toml} file of the current directory is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			found, err := findProjectFile(afero.NewOsFs(), ".")
			if err != nil {
				return err
			}
			path = found
		}
		return runValidate(cmd, path)
	},
}

func runValidate(cmd *cobra.Command, path string) error {
	out := cmd.OutOrStdout()

	result, err := config.ValidateFile(path)
	if err != nil {
		fmt.Fprintf(out, "  [FAIL] %v\n", err)
		return fmt.Errorf("options validation failed: %w", err)
	}
	if result.Valid {
		fmt.Fprintf(out, "  [ OK ] %s\n", path)
		return nil
	}

	fmt.Fprintf(out, "  [FAIL] %d validation issue(s):\n", len(result.Issues))
	for _, issue := range result.Issues {
		fmt.Fprintf(out, "    - %s\n", issue)
	}
	return fmt.Errorf("%s has %d validation issue(s)", path, len(result.Issues))
}

// findProjectFile returns the first project options file in dir.
func findProjectFile(fs afero.Fs, dir string) (string, error) {
	for _, ext := range []string{".yaml", ".yml", ".json", ".toml"} {
		path := filepath.Join(dir, branding.ConfigName()+ext)
		if ok, err := afero.Exists(fs, path); err != nil {
			return "", err
		} else if ok {
			return path, nil
		}
	}
	return "", fmt.Errorf("no %s options file in %s", branding.ConfigName(), dir)
}
