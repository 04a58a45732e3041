package pipeline

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/agentx-labs/binplugin/internal/sourcemap"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

type transformEntry struct {
	plugin string
	hook   *TransformHook
}

type renderEntry struct {
	plugin string
	hook   *RenderHook
}

type writeEntry struct {
	plugin string
	hook   *WriteHook
}

// Driver runs the hooks of a set of plugins for one build.
type Driver struct {
	cfg        *ResolvedConfig
	store      *MetaStore
	transforms []transformEntry
	renders    []renderEntry
	writes     []writeEntry
}

// NewDriver checks every plugin against ContractVersion, calls Setup and
// orders the collected hooks. A nil logger or filesystem in cfg is replaced
// by a discarding logger and the OS filesystem.
func NewDriver(cfg *ResolvedConfig, plugins ...Plugin) (*Driver, error) {
	resolved := ResolvedConfig{}
	if cfg != nil {
		resolved = *cfg
	}
	if resolved.Logger == nil {
		resolved.Logger = log.New(io.Discard)
	}
	if resolved.Fs == nil {
		resolved.Fs = afero.NewOsFs()
	}

	d := &Driver{cfg: &resolved, store: NewMetaStore()}

	for _, p := range plugins {
		if err := CheckCompatible(p, ContractVersion); err != nil {
			return nil, err
		}
		hooks, err := p.Setup(d.cfg)
		if err != nil {
			return nil, fmt.Errorf("setting up plugin %s: %w", p.Name(), err)
		}
		if hooks.Transform != nil {
			d.transforms = append(d.transforms, transformEntry{p.Name(), hooks.Transform})
		}
		if hooks.RenderChunk != nil {
			d.renders = append(d.renders, renderEntry{p.Name(), hooks.RenderChunk})
		}
		if hooks.WriteBundle != nil {
			d.writes = append(d.writes, writeEntry{p.Name(), hooks.WriteBundle})
		}
	}

	slices.SortStableFunc(d.transforms, func(a, b transformEntry) int { return cmp.Compare(a.hook.Order, b.hook.Order) })
	slices.SortStableFunc(d.renders, func(a, b renderEntry) int { return cmp.Compare(a.hook.Order, b.hook.Order) })
	slices.SortStableFunc(d.writes, func(a, b writeEntry) int { return cmp.Compare(a.hook.Order, b.hook.Order) })

	return d, nil
}

// Config returns the configuration handed to the plugins.
func (d *Driver) Config() *ResolvedConfig { return d.cfg }

// Modules exposes the metadata recorded so far.
func (d *Driver) Modules() *MetaStore { return d.store }

// Transform runs every transform hook over one module. Each hook sees the
// code returned by the previous one; maps are composed so the result maps
// back onto the original source. Safe for concurrent use across modules.
func (d *Driver) Transform(ctx context.Context, id, code string) (*TransformResult, error) {
	var m *sourcemap.Map

	for _, t := range d.transforms {
		res, err := t.hook.Handler(ctx, &TransformArgs{ID: id, Code: code})
		if err != nil {
			return nil, fmt.Errorf("plugin %s: transforming %s: %w", t.plugin, id, err)
		}
		if res == nil {
			continue
		}
		if len(res.Meta) > 0 {
			d.store.Merge(id, res.Meta)
		}
		code = res.Code
		if m, err = stack(m, res.Map); err != nil {
			return nil, fmt.Errorf("plugin %s: transforming %s: %w", t.plugin, id, err)
		}
	}

	result := &TransformResult{Code: code, Map: m}
	if info, ok := d.store.ModuleInfo(id); ok {
		result.Meta = info.Meta
	}
	return result, nil
}

// RenderChunk runs every render hook over a finished chunk.
func (d *Driver) RenderChunk(ctx context.Context, chunk *ChunkInfo, code string) (*RenderResult, error) {
	var m *sourcemap.Map

	for _, r := range d.renders {
		res, err := r.hook.Handler(ctx, &RenderArgs{Code: code, Chunk: chunk, Modules: d.store})
		if err != nil {
			return nil, fmt.Errorf("plugin %s: rendering %s: %w", r.plugin, chunk.FileName, err)
		}
		if res == nil {
			continue
		}
		code = res.Code
		if m, err = stack(m, res.Map); err != nil {
			return nil, fmt.Errorf("plugin %s: rendering %s: %w", r.plugin, chunk.FileName, err)
		}
	}

	return &RenderResult{Code: code, Map: m}, nil
}

// WriteBundle runs the write hooks once the bundle is on disk. Consecutive
// non-sequential hooks run concurrently; a sequential hook waits for the
// ones before it and blocks the ones after it. The first error is returned.
func (d *Driver) WriteBundle(ctx context.Context, out OutputOptions, bundle Bundle) error {
	var group []writeEntry

	flush := func() error {
		if len(group) == 0 {
			return nil
		}
		g, gctx := errgroup.WithContext(ctx)
		for _, w := range group {
			g.Go(func() error {
				if err := w.hook.Handler(gctx, out, bundle); err != nil {
					return fmt.Errorf("plugin %s: writing bundle: %w", w.plugin, err)
				}
				return nil
			})
		}
		group = nil
		return g.Wait()
	}

	for _, w := range d.writes {
		if !w.hook.Sequential {
			group = append(group, w)
			continue
		}
		if err := flush(); err != nil {
			return err
		}
		if err := w.hook.Handler(ctx, out, bundle); err != nil {
			return fmt.Errorf("plugin %s: writing bundle: %w", w.plugin, err)
		}
	}
	return flush()
}

// stack puts next on top of the accumulated map.
func stack(acc, next *sourcemap.Map) (*sourcemap.Map, error) {
	if next == nil {
		return acc, nil
	}
	if acc == nil {
		return next, nil
	}
	return sourcemap.Compose(next, acc)
}
