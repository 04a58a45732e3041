package shebang

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/agentx-labs/binplugin/internal/logging"
	"github.com/agentx-labs/binplugin/internal/pipeline"
	"github.com/agentx-labs/binplugin/internal/platform"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// MakeExecutable adds the execute bits to every chunk of bundle whose code
// starts with "#!", resolving file names under dir. Files are handled
// concurrently; the first filesystem error is returned once every file has
// been attempted. It returns the absolute paths it changed, sorted. An empty
// dir is a no-op.
func MakeExecutable(fs afero.Fs, dir string, bundle pipeline.Bundle, logger *log.Logger) ([]string, error) {
	if dir == "" {
		return nil, nil
	}
	if logger == nil {
		logger = logging.Discard()
	}

	var (
		g       errgroup.Group
		mu      sync.Mutex
		changed []string
	)

	for name, entry := range bundle {
		if entry.Kind != pipeline.KindChunk || !strings.HasPrefix(entry.Code, "#!") {
			continue
		}

		g.Go(func() error {
			path, err := filepath.Abs(filepath.Join(dir, filepath.FromSlash(name)))
			if err != nil {
				return fmt.Errorf("resolving %s: %w", name, err)
			}
			if _, err := platform.AddExecBits(fs, path); err != nil {
				return err
			}

			logger.Info(logging.Success(fmt.Sprintf("Added shebang and executable bits to %q.", entry.FileName)))

			mu.Lock()
			changed = append(changed, path)
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	slices.Sort(changed)
	return changed, err
}

// writeBundle is the write hook.
func (b *build) writeBundle(_ context.Context, out pipeline.OutputOptions, bundle pipeline.Bundle) error {
	if !b.opts.executable() {
		return nil
	}
	_, err := MakeExecutable(b.fs, out.Dir, bundle, b.logger)
	return err
}
