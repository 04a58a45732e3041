package esbuildhost

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/binplugin/internal/branding"
	"github.com/agentx-labs/binplugin/internal/logging"
	"github.com/agentx-labs/binplugin/internal/pipeline"
	"github.com/agentx-labs/binplugin/internal/sourcemap"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/spf13/afero"
)

// loadFilter matches the JavaScript and TypeScript sources transform hooks see.
const loadFilter = `\.[cm]?[jt]sx?$`

// host carries one build's state.
type host struct {
	ctx    context.Context
	wd     string
	outdir string
	driver *pipeline.Driver
}

// Build bundles opts.EntryPoints with esbuild, runs plugins' hooks around
// it, writes the outputs under opts.Outdir and returns them.
func Build(ctx context.Context, opts Options, plugins ...pipeline.Plugin) (pipeline.Bundle, error) {
	if len(opts.EntryPoints) == 0 {
		return nil, fmt.Errorf("no entry points")
	}
	if opts.Outdir == "" {
		return nil, fmt.Errorf("no output directory")
	}

	format, err := parseFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	platform, err := parsePlatform(opts.Platform)
	if err != nil {
		return nil, err
	}

	wd := opts.AbsWorkingDir
	if wd == "" {
		if wd, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
	}
	if wd, err = filepath.Abs(wd); err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}
	outdir := opts.Outdir
	if !filepath.IsAbs(outdir) {
		outdir = filepath.Join(wd, outdir)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	driver, err := pipeline.NewDriver(&pipeline.ResolvedConfig{Root: wd, Logger: logger, Fs: fs}, plugins...)
	if err != nil {
		return nil, err
	}
	h := &host{ctx: ctx, wd: wd, outdir: outdir, driver: driver}

	sourceMap := api.SourceMapNone
	if opts.Sourcemap {
		sourceMap = api.SourceMapExternal
	}

	result := api.Build(api.BuildOptions{
		EntryPoints:       opts.EntryPoints,
		AbsWorkingDir:     wd,
		Outdir:            outdir,
		Bundle:            true,
		Write:             false,
		Metafile:          true,
		Format:            format,
		Platform:          platform,
		Splitting:         opts.Splitting,
		External:          opts.External,
		Sourcemap:         sourceMap,
		MinifyWhitespace:  opts.Minify,
		MinifyIdentifiers: opts.Minify,
		MinifySyntax:      opts.Minify,
		LogLevel:          api.LogLevelSilent,
		Plugins: []api.Plugin{{
			Name:  branding.PluginName(),
			Setup: h.setup,
		}},
	})
	for _, msg := range result.Warnings {
		logger.Warn(formatMessage(msg))
	}
	if len(result.Errors) > 0 {
		return nil, &BuildError{Messages: result.Errors}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	meta, err := ParseMetafile(result.Metafile)
	if err != nil {
		return nil, err
	}
	bundle, err := h.render(result.OutputFiles, meta, opts.Sourcemap)
	if err != nil {
		return nil, err
	}

	if err := pipeline.WriteFiles(fs, outdir, bundle); err != nil {
		return nil, err
	}
	if err := driver.WriteBundle(ctx, pipeline.OutputOptions{Dir: outdir}, bundle); err != nil {
		return nil, err
	}
	return bundle, nil
}

func (h *host) setup(build api.PluginBuild) {
	build.OnLoad(api.OnLoadOptions{Filter: loadFilter, Namespace: "file"}, h.load)
}

// load runs the transform hooks over one source file. Contents go back to
// esbuild only when a hook changed them.
func (h *host) load(args api.OnLoadArgs) (api.OnLoadResult, error) {
	data, err := afero.ReadFile(h.driver.Config().Fs, args.Path)
	if err != nil {
		return api.OnLoadResult{}, fmt.Errorf("reading %s: %w", args.Path, err)
	}

	code := string(data)
	res, err := h.driver.Transform(h.ctx, h.moduleID(args.Path), code)
	if err != nil {
		return api.OnLoadResult{}, err
	}
	if res.Code == code {
		return api.OnLoadResult{}, nil
	}

	contents := res.Code
	if res.Map != nil {
		encoded, err := res.Map.JSON()
		if err != nil {
			return api.OnLoadResult{}, fmt.Errorf("encoding source map for %s: %w", args.Path, err)
		}
		contents += "\n" + sourcemap.Comment("data:application/json;base64,"+base64.StdEncoding.EncodeToString(encoded)) + "\n"
	}
	return api.OnLoadResult{Contents: &contents, Loader: loaderFor(args.Path)}, nil
}

// moduleID names a source file the way esbuild's metafile does.
func (h *host) moduleID(p string) string {
	rel, err := filepath.Rel(h.wd, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

// render turns esbuild's output files into a bundle, running the render
// hooks over every JavaScript chunk.
func (h *host) render(files []api.OutputFile, meta *Metafile, withMaps bool) (pipeline.Bundle, error) {
	maps := make(map[string][]byte)
	bundle := make(pipeline.Bundle, len(files))

	for _, f := range files {
		if strings.HasSuffix(f.Path, ".map") {
			maps[strings.TrimSuffix(f.Path, ".map")] = f.Contents
		}
	}

	for _, f := range files {
		name, err := filepath.Rel(h.outdir, f.Path)
		if err != nil {
			return nil, fmt.Errorf("locating output %s: %w", f.Path, err)
		}
		name = filepath.ToSlash(name)

		if strings.HasSuffix(f.Path, ".map") {
			continue
		}
		out, isChunk := meta.Outputs[h.moduleID(f.Path)]
		if !isChunk || !isScript(name) {
			bundle[name] = &pipeline.OutputEntry{FileName: name, Kind: pipeline.KindAsset, Source: f.Contents}
			continue
		}

		var upstream *sourcemap.Map
		if data, ok := maps[f.Path]; ok {
			if upstream, err = sourcemap.Parse(data); err != nil {
				return nil, fmt.Errorf("reading source map of %s: %w", name, err)
			}
		}

		code := string(f.Contents)
		if strings.HasPrefix(code, "#!") {
			code = dropFirstLine(code)
			if upstream != nil {
				if upstream, err = sourcemap.DropLines(upstream, 1); err != nil {
					return nil, fmt.Errorf("adjusting source map of %s: %w", name, err)
				}
			}
		}

		chunk := &pipeline.ChunkInfo{
			FileName:       name,
			ModuleIDs:      out.Inputs,
			FacadeModuleID: out.EntryPoint,
			IsEntry:        out.EntryPoint != "",
		}
		res, err := h.driver.RenderChunk(h.ctx, chunk, code)
		if err != nil {
			return nil, err
		}

		entry := &pipeline.OutputEntry{FileName: name, Kind: pipeline.KindChunk, Code: res.Code}
		bundle[name] = entry

		if !withMaps || upstream == nil {
			continue
		}
		final := upstream
		if res.Map != nil {
			if final, err = sourcemap.Compose(res.Map, upstream); err != nil {
				return nil, fmt.Errorf("composing source map of %s: %w", name, err)
			}
		}
		final.File = path.Base(name)
		entry.Map = final

		data, err := final.JSON()
		if err != nil {
			return nil, fmt.Errorf("encoding source map of %s: %w", name, err)
		}
		mapName := name + ".map"
		entry.Code += "\n" + sourcemap.Comment(path.Base(mapName)) + "\n"
		bundle[mapName] = &pipeline.OutputEntry{FileName: mapName, Kind: pipeline.KindAsset, Source: data}
	}
	return bundle, nil
}

func isScript(name string) bool {
	switch path.Ext(name) {
	case ".js", ".mjs", ".cjs":
		return true
	}
	return false
}

// dropFirstLine removes the first line and its line break.
func dropFirstLine(code string) string {
	i := strings.IndexByte(code, '\n')
	if i < 0 {
		return ""
	}
	return code[i+1:]
}
