package emitter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/valorkin/mf-loadable-adapter/internal/ctxlog"
	"github.com/valorkin/mf-loadable-adapter/internal/stats"
)

// StatsBuild replays the build phases from a stats JSON file and the
// directory the bundler wrote its output to.
type StatsBuild struct {
	StatsPath string
	OutputDir string
	Logger    *slog.Logger
}

var _ Build = (*StatsBuild)(nil)

// Run drives phases through the build lifecycle in order. A phase error
// stops the build.
func (b *StatsBuild) Run(ctx context.Context, phases ...Phases) error {
	logger := ctxlog.Default(b.Logger).With("component", "stats-build")

	graph, err := stats.ReadFile(b.StatsPath)
	if err != nil {
		return err
	}
	logger.Debug("Stats loaded.", "modules", len(graph.Modules), "chunks", len(graph.Chunks), "assets", len(graph.Assets))

	for _, p := range phases {
		if err := p.OnGraphReady(ctx, graph); err != nil {
			return fmt.Errorf("graph phase failed: %w", err)
		}
	}

	comp := newDirCompilation(b.OutputDir)
	for _, p := range phases {
		if err := p.OnAssetsEmit(ctx, comp); err != nil {
			return fmt.Errorf("assets phase failed: %w", err)
		}
	}
	written, err := comp.flush()
	if err != nil {
		return err
	}
	logger.Debug("Assets written.", "files", written)

	for _, p := range phases {
		if err := p.OnBuildComplete(ctx, BuildResult{Stats: graph, OutputDir: b.OutputDir}); err != nil {
			return fmt.Errorf("completion phase failed: %w", err)
		}
	}
	return nil
}

// dirCompilation buffers emitted assets and writes them to dir on flush.
// Existing files in dir count as assets of the compilation.
type dirCompilation struct {
	dir     string
	pending map[string][]byte
}

func newDirCompilation(dir string) *dirCompilation {
	return &dirCompilation{dir: dir, pending: make(map[string][]byte)}
}

func (c *dirCompilation) Asset(name string) ([]byte, bool) {
	if data, ok := c.pending[name]; ok {
		return data, true
	}
	data, err := os.ReadFile(filepath.Join(c.dir, name))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *dirCompilation) EmitAsset(name string, data []byte) error {
	if _, exists := c.Asset(name); exists {
		return fmt.Errorf("asset %s already exists", name)
	}
	c.pending[name] = data
	return nil
}

func (c *dirCompilation) UpdateAsset(name string, data []byte) error {
	if _, exists := c.Asset(name); !exists {
		return fmt.Errorf("asset %s does not exist", name)
	}
	c.pending[name] = data
	return nil
}

func (c *dirCompilation) flush() (int, error) {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}
	names := make([]string, 0, len(c.pending))
	for name := range c.pending {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(c.dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil && !errors.Is(err, os.ErrExist) {
			return 0, fmt.Errorf("failed to create directory for %s: %w", name, err)
		}
		if err := os.WriteFile(path, c.pending[name], 0644); err != nil {
			return 0, fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	c.pending = make(map[string][]byte)
	return len(names), nil
}
