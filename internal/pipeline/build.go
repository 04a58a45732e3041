package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/agentx-labs/binplugin/internal/sourcemap"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// ChunkPlan tells the reference host which modules make up a chunk.
type ChunkPlan struct {
	FileName string
	Modules  []string
	// Facade is the chunk's entry module, if any.
	Facade string
}

// BuildInput is everything the reference host needs for one build.
type BuildInput struct {
	Modules []Module
	Chunks  []ChunkPlan
	Assets  map[string][]byte
	// Dir is the output directory. Relative paths are resolved against the
	// working directory. When empty nothing is written, but write hooks still
	// run.
	Dir string
	// Sourcemap emits a "<chunk>.map" asset for every chunk whose render
	// hooks produced a map.
	Sourcemap bool
}

// Build runs a complete build: every module is transformed (concurrently),
// the modules of each planned chunk are joined in plan order, the chunk is
// rendered, the bundle is written to cfg.Fs under Dir, and finally the
// write hooks run.
//
// A module's leading hashbang line is dropped when it is joined into a
// chunk, the way bundlers drop it from non-entry positions.
func (d *Driver) Build(ctx context.Context, in BuildInput) (Bundle, error) {
	dir := in.Dir
	if dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("resolving output directory %s: %w", dir, err)
		}
		dir = abs
	}

	transformed, err := d.transformAll(ctx, in.Modules)
	if err != nil {
		return nil, err
	}

	bundle := make(Bundle, len(in.Chunks)+len(in.Assets))
	for _, plan := range in.Chunks {
		parts := make([]string, 0, len(plan.Modules))
		for _, id := range plan.Modules {
			code, ok := transformed[id]
			if !ok {
				return nil, fmt.Errorf("chunk %s: unknown module %s", plan.FileName, id)
			}
			parts = append(parts, stripHashbang(code))
		}

		chunk := &ChunkInfo{
			FileName:       plan.FileName,
			ModuleIDs:      plan.Modules,
			FacadeModuleID: plan.Facade,
			IsEntry:        plan.Facade != "",
		}
		res, err := d.RenderChunk(ctx, chunk, strings.Join(parts, "\n"))
		if err != nil {
			return nil, err
		}

		entry := &OutputEntry{FileName: plan.FileName, Kind: KindChunk, Code: res.Code, Map: res.Map}
		bundle[plan.FileName] = entry

		if in.Sourcemap && res.Map != nil {
			data, err := res.Map.JSON()
			if err != nil {
				return nil, fmt.Errorf("encoding source map for %s: %w", plan.FileName, err)
			}
			mapName := plan.FileName + ".map"
			entry.Code += "\n" + sourcemap.Comment(filepath.Base(mapName)) + "\n"
			bundle[mapName] = &OutputEntry{FileName: mapName, Kind: KindAsset, Source: data}
		}
	}
	for name, data := range in.Assets {
		bundle[name] = &OutputEntry{FileName: name, Kind: KindAsset, Source: data}
	}

	if dir != "" {
		if err := WriteFiles(d.cfg.Fs, dir, bundle); err != nil {
			return nil, err
		}
	}

	if err := d.WriteBundle(ctx, OutputOptions{Dir: dir}, bundle); err != nil {
		return nil, err
	}
	return bundle, nil
}

func (d *Driver) transformAll(ctx context.Context, modules []Module) (map[string]string, error) {
	var (
		mu  sync.Mutex
		out = make(map[string]string, len(modules))
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, mod := range modules {
		g.Go(func() error {
			res, err := d.Transform(gctx, mod.ID, mod.Code)
			if err != nil {
				return err
			}
			mu.Lock()
			out[mod.ID] = res.Code
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteFiles writes every entry of bundle under dir, creating directories as
// needed. Chunks are written from Code, assets from Source.
func WriteFiles(fs afero.Fs, dir string, bundle Bundle) error {
	for name, entry := range bundle {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating output directory for %s: %w", name, err)
		}

		data := entry.Source
		if entry.Kind == KindChunk {
			data = []byte(entry.Code)
		}
		if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

// stripHashbang removes a leading "#!" line, keeping the line break so line
// numbers stay put.
func stripHashbang(code string) string {
	if !strings.HasPrefix(code, "#!") {
		return code
	}
	if i := strings.IndexAny(code, "\r\n"); i >= 0 {
		return code[i:]
	}
	return ""
}
