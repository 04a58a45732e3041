// Package config loads plugin options and user-level settings.
//
// Project options live in binplugin.yaml (or .yml, .json, .toml) next to
// the sources being bundled. The file is checked against an embedded JSON
// Schema before use, then overlaid with BINPLUGIN_* environment variables
// and any command-line flags bound by the caller. User-level settings are
// stored at ~/.binplugin/config.yaml and read through Get and Set.
package config
