// Package logging builds the charmbracelet/log loggers used by the CLI and
// handed to pipeline plugins through their resolved configuration.
package logging
