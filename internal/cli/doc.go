// Package cli defines the Cobra command tree for the binplugin CLI. Each file
// in this package registers one top-level command (build, chmod, inspect,
// etc.) with the root command. Command implementations delegate to internal
// packages for the actual work and only handle flag parsing and output.
package cli
