package esbuildhost

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/spf13/afero"
)

// Options configures Build.
type Options struct {
	EntryPoints []string
	// Outdir is resolved against AbsWorkingDir when relative.
	Outdir string
	// AbsWorkingDir defaults to the current directory.
	AbsWorkingDir string
	// Format is esm, cjs or iife. Empty lets esbuild pick.
	Format string
	// Platform is node, browser or neutral. Empty means node.
	Platform  string
	Sourcemap bool
	Minify    bool
	Splitting bool
	External  []string

	Logger *log.Logger
	Fs     afero.Fs
}

func parseFormat(s string) (api.Format, error) {
	switch strings.ToLower(s) {
	case "":
		return api.FormatDefault, nil
	case "esm":
		return api.FormatESModule, nil
	case "cjs":
		return api.FormatCommonJS, nil
	case "iife":
		return api.FormatIIFE, nil
	default:
		return api.FormatDefault, fmt.Errorf("unknown format %q (want esm, cjs or iife)", s)
	}
}

func parsePlatform(s string) (api.Platform, error) {
	switch strings.ToLower(s) {
	case "", "node":
		return api.PlatformNode, nil
	case "browser":
		return api.PlatformBrowser, nil
	case "neutral":
		return api.PlatformNeutral, nil
	default:
		return api.PlatformNode, fmt.Errorf("unknown platform %q (want node, browser or neutral)", s)
	}
}

// loaderFor picks the esbuild loader for contents handed back from OnLoad.
func loaderFor(path string) api.Loader {
	switch {
	case strings.HasSuffix(path, ".tsx"):
		return api.LoaderTSX
	case strings.HasSuffix(path, ".ts"), strings.HasSuffix(path, ".mts"), strings.HasSuffix(path, ".cts"):
		return api.LoaderTS
	case strings.HasSuffix(path, ".jsx"):
		return api.LoaderJSX
	default:
		return api.LoaderJS
	}
}
