package shebang

import (
	"github.com/agentx-labs/binplugin/internal/branding"
	"github.com/agentx-labs/binplugin/internal/logging"
	"github.com/agentx-labs/binplugin/internal/pipeline"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// contractRange is the range of pipeline contract versions the hooks follow.
const contractRange = ">=1.0.0, <2.0.0"

// Plugin preserves shebangs and makes shebang chunks executable.
type Plugin struct {
	opts Options
}

// New returns the plugin configured with opts.
func New(opts Options) *Plugin {
	return &Plugin{opts: opts}
}

// Name implements pipeline.Plugin.
func (p *Plugin) Name() string { return branding.PluginName() }

// Requires implements pipeline.Versioned.
func (p *Plugin) Requires() string { return contractRange }

// build carries the state one build's hooks share.
type build struct {
	opts   Options
	logger *log.Logger
	fs     afero.Fs
}

// Setup implements pipeline.Plugin.
func (p *Plugin) Setup(cfg *pipeline.ResolvedConfig) (pipeline.Hooks, error) {
	b := &build{opts: p.opts, logger: cfg.Logger, fs: cfg.Fs}
	if b.logger == nil {
		b.logger = logging.Discard()
	}
	if b.fs == nil {
		b.fs = afero.NewOsFs()
	}

	if o := p.opts.Shebang; o.IsLiteral() && !IsShebang(o.Apply("")) {
		b.logger.Warn("shebang override does not start with #!", "shebang", o.Apply(""))
	}

	return pipeline.Hooks{
		Transform: &pipeline.TransformHook{
			Order:   pipeline.OrderPre,
			Handler: b.transform,
		},
		RenderChunk: &pipeline.RenderHook{
			Order:   pipeline.OrderPost,
			Handler: b.renderChunk,
		},
		WriteBundle: &pipeline.WriteHook{
			Order:      pipeline.OrderPost,
			Sequential: true,
			Handler:    b.writeBundle,
		},
	}, nil
}
