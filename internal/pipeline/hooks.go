package pipeline

import (
	"context"

	"github.com/agentx-labs/binplugin/internal/sourcemap"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// Order positions a hook relative to the same hook of other plugins.
type Order int

const (
	OrderPre    Order = -1
	OrderNormal Order = 0
	OrderPost   Order = 1
)

func (o Order) String() string {
	switch o {
	case OrderPre:
		return "pre"
	case OrderPost:
		return "post"
	default:
		return "normal"
	}
}

// Meta is the metadata a plugin attaches to a module.
type Meta map[string]any

// ModuleInfo is what render hooks can learn about a contributing module.
type ModuleInfo struct {
	ID   string
	Meta Meta
}

// ModuleLookup resolves module ids to their recorded metadata.
type ModuleLookup interface {
	ModuleInfo(id string) (*ModuleInfo, bool)
}

// Module is a single source unit as loaded by the host.
type Module struct {
	ID   string
	Code string
}

// ChunkInfo describes a finished chunk to render hooks.
type ChunkInfo struct {
	FileName string
	// ModuleIDs lists the contributing modules in the host's iteration order.
	ModuleIDs []string
	// FacadeModuleID is the chunk's entry module, empty for shared chunks.
	FacadeModuleID string
	IsEntry        bool
}

// EntryKind distinguishes code chunks from assets in a Bundle.
type EntryKind int

const (
	KindChunk EntryKind = iota
	KindAsset
)

// OutputEntry is one file of a written bundle.
type OutputEntry struct {
	FileName string
	Kind     EntryKind
	// Code is set for chunks.
	Code string
	// Map is the chunk's source map, if one was generated.
	Map *sourcemap.Map
	// Source is set for assets.
	Source []byte
}

// Bundle maps output file names, relative to the output directory, to entries.
type Bundle map[string]*OutputEntry

// OutputOptions describes where a bundle was written.
type OutputOptions struct {
	// Dir is empty when the build had no directory target.
	Dir string
}

// ResolvedConfig is produced by the host before any hook runs.
type ResolvedConfig struct {
	// Root is the project root used to resolve relative paths.
	Root   string
	Logger *log.Logger
	// Fs is the filesystem the host writes output files to.
	Fs afero.Fs
}

// Plugin is implemented by every pipeline plugin. Setup is called once per
// build and returns the hooks the plugin contributes; anything a hook needs
// from the resolved configuration must be captured there.
type Plugin interface {
	Name() string
	Setup(cfg *ResolvedConfig) (Hooks, error)
}

// Hooks groups the optional hooks of a plugin.
type Hooks struct {
	Transform   *TransformHook
	RenderChunk *RenderHook
	WriteBundle *WriteHook
}

// TransformArgs is the input of a transform hook.
type TransformArgs struct {
	ID   string
	Code string
}

// TransformResult replaces the module's code with Code and records Meta for
// the module. A nil result means the hook did not apply.
type TransformResult struct {
	Code string
	Map  *sourcemap.Map
	Meta Meta
}

// TransformHook runs on every module's source text.
type TransformHook struct {
	Order   Order
	Handler func(ctx context.Context, args *TransformArgs) (*TransformResult, error)
}

// RenderArgs is the input of a render hook.
type RenderArgs struct {
	Code    string
	Chunk   *ChunkInfo
	Modules ModuleLookup
}

// RenderResult replaces the chunk's code. A nil result leaves it untouched.
type RenderResult struct {
	Code string
	Map  *sourcemap.Map
}

// RenderHook runs on every finished chunk.
type RenderHook struct {
	Order   Order
	Handler func(ctx context.Context, args *RenderArgs) (*RenderResult, error)
}

// WriteHook runs once after the whole bundle is on disk. Sequential hooks do
// not overlap with any other write hook.
type WriteHook struct {
	Order      Order
	Sequential bool
	Handler    func(ctx context.Context, out OutputOptions, bundle Bundle) error
}
