// Package branding provides compile-time identity values for the CLI and
// the plugin.
//
// branding.yaml is embedded with //go:embed, so renaming the tool is a
// one-file change followed by a rebuild.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	PluginName  string `yaml:"plugin_name"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	ConfigName  string `yaml:"config_name"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:     "binplugin",
			DisplayName: "binplugin",
			Description: "Preserve shebangs through bundling",
			PluginName:  "binplugin",
			HomeDir:     ".binplugin",
			EnvPrefix:   "BINPLUGIN",
			ConfigName:  "binplugin",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "binplugin").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// PluginName returns the name the plugin registers with a pipeline host.
func PluginName() string { load(); return defaults.PluginName }

// HomeDir returns the dot-directory name under $HOME (e.g., ".binplugin").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "BINPLUGIN").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// ConfigName returns the base name of the project config file, without extension.
func ConfigName() string { load(); return defaults.ConfigName }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("executable") → "BINPLUGIN_EXECUTABLE".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
