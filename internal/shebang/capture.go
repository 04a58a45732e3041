package shebang

import (
	"context"
	"strings"

	"github.com/agentx-labs/binplugin/internal/pipeline"
)

// MetaKey is the module metadata key holding a captured shebang.
const MetaKey = "shebang"

// lineTerminators are the characters that end a line in JavaScript source.
const lineTerminators = "\n\r\u2028\u2029"

// Capture returns the first line of code when it starts with "#!".
func Capture(code string) (string, bool) {
	if !IsShebang(code) {
		return "", false
	}
	if i := strings.IndexAny(code, lineTerminators); i >= 0 {
		return code[:i], true
	}
	return code, true
}

// transform records a module's shebang without touching its code.
func (b *build) transform(_ context.Context, args *pipeline.TransformArgs) (*pipeline.TransformResult, error) {
	line, ok := Capture(args.Code)
	if !ok {
		return nil, nil
	}

	b.logger.Debug("captured shebang", "module", args.ID, "shebang", line)
	return &pipeline.TransformResult{
		Code: args.Code,
		Meta: pipeline.Meta{MetaKey: line},
	}, nil
}
