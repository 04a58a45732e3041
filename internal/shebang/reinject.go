package shebang

import (
	"context"
	"slices"

	"github.com/agentx-labs/binplugin/internal/pipeline"
	"github.com/agentx-labs/binplugin/internal/sourcemap"
)

// Resolution is the outcome of looking up a chunk's shebang.
type Resolution struct {
	// Shebang is empty when no contributing module carries one.
	Shebang string
	// ModuleID is the module the shebang was taken from.
	ModuleID string
	// Distinct lists every different shebang seen, in visiting order.
	Distinct []string
}

// Ambiguous reports whether contributing modules disagree on the shebang.
func (r Resolution) Ambiguous() bool {
	return len(r.Distinct) > 1
}

// Resolve visits the chunk's module ids and then its facade module id, and
// keeps the shebang of the last one that has one.
func Resolve(chunk *pipeline.ChunkInfo, modules pipeline.ModuleLookup) Resolution {
	candidates := chunk.ModuleIDs
	if chunk.FacadeModuleID != "" {
		candidates = append(slices.Clip(candidates), chunk.FacadeModuleID)
	}

	var res Resolution
	for _, id := range candidates {
		info, ok := modules.ModuleInfo(id)
		if !ok {
			continue
		}
		line, ok := info.Meta[MetaKey].(string)
		if !ok || line == "" {
			continue
		}
		res.Shebang, res.ModuleID = line, id
		if !slices.Contains(res.Distinct, line) {
			res.Distinct = append(res.Distinct, line)
		}
	}
	return res
}

// Reinject prepends shebang and a line break to code. The returned map
// points every line of the result back at code, one line lower.
func Reinject(code, shebang, fileName string, hires bool) *pipeline.RenderResult {
	prefix := shebang + "\n"
	return &pipeline.RenderResult{
		Code: prefix + code,
		Map: sourcemap.Prepend(code, prefix, sourcemap.Options{
			File:   fileName,
			Source: fileName,
			Hires:  hires,
		}),
	}
}

// renderChunk puts the resolved shebang back on top of the chunk.
func (b *build) renderChunk(_ context.Context, args *pipeline.RenderArgs) (*pipeline.RenderResult, error) {
	res := Resolve(args.Chunk, args.Modules)
	if res.Shebang == "" {
		return nil, nil
	}

	if res.Ambiguous() {
		b.logger.Warn("chunk merges modules with different shebangs, using the last one",
			"chunk", args.Chunk.FileName,
			"module", res.ModuleID,
			"shebang", res.Shebang,
			"candidates", res.Distinct)
	}

	line := b.opts.Shebang.Apply(res.Shebang)
	if !b.opts.Shebang.IsLiteral() && !IsShebang(line) {
		b.logger.Warn("shebang override does not start with #!", "chunk", args.Chunk.FileName, "shebang", line)
	}

	return Reinject(args.Code, line, args.Chunk.FileName, b.opts.hires()), nil
}
