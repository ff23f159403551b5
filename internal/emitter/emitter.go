package emitter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/valorkin/mf-loadable-adapter/internal/ctxlog"
	"github.com/valorkin/mf-loadable-adapter/internal/manifest"
	"github.com/valorkin/mf-loadable-adapter/internal/registry"
	"github.com/valorkin/mf-loadable-adapter/internal/stats"
)

// ErrNoFederationPlugin is returned when the registry holds no module
// federation container. It is a fatal configuration error: the build must stop.
var ErrNoFederationPlugin = errors.New("no ModuleFederationPlugin found")

var extensionRegex = regexp.MustCompile(`\.[^/.]+$`)

// Compilation is the view of an in-progress build the emitter writes into.
type Compilation interface {
	Asset(name string) ([]byte, bool)
	EmitAsset(name string, data []byte) error
	UpdateAsset(name string, data []byte) error
}

// BuildResult describes a finished build.
type BuildResult struct {
	Stats     *stats.Stats
	OutputDir string
}

// Phases is implemented by build plugins.
type Phases interface {
	OnGraphReady(ctx context.Context, graph *stats.Stats) error
	OnAssetsEmit(ctx context.Context, comp Compilation) error
	OnBuildComplete(ctx context.Context, result BuildResult) error
}

// Build is implemented by host build tools.
type Build interface {
	Run(ctx context.Context, phases ...Phases) error
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithFileName sets the manifest asset name.
func WithFileName(name string) Option {
	return func(e *Emitter) {
		if name != "" {
			e.fileName = name
		}
	}
}

// WithLogger sets the emitter's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Emitter) {
		e.logger = logger
	}
}

// Emitter writes the federation manifest of one build.
type Emitter struct {
	container registry.Container
	integrity *registry.Integrity
	fileName  string
	logger    *slog.Logger

	// exposed maps a normalized import path to its exposed key.
	exposed map[string]string
	pending *manifest.Manifest
}

var _ Phases = (*Emitter)(nil)

// New creates an Emitter for the container registered in reg.
func New(reg *registry.Registry, opts ...Option) (*Emitter, error) {
	c, ok := reg.Federation()
	if !ok || c.Kind != registry.KindModuleFederation {
		return nil, ErrNoFederationPlugin
	}

	e := &Emitter{
		container: c,
		fileName:  manifest.DefaultFileName,
		exposed:   make(map[string]string, len(c.Exposes)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = ctxlog.Default(e.logger).With("component", "emitter", "container", c.Name)

	if i, ok := reg.Integrity(); ok {
		e.integrity = &i
	}
	// Imports are usually extensionless, but "./src/Widget.tsx" must match
	// too. The literal import wins over a stripped alias.
	for key, entry := range c.Exposes {
		if alias := stripExtension(entry.Import); alias != entry.Import {
			if _, taken := e.exposed[alias]; !taken {
				e.exposed[alias] = key
			}
		}
	}
	for key, entry := range c.Exposes {
		e.exposed[entry.Import] = key
	}
	return e, nil
}

// FileName returns the manifest asset name.
func (e *Emitter) FileName() string { return e.fileName }

// Manifest returns the manifest computed during OnGraphReady, or nil.
func (e *Emitter) Manifest() *manifest.Manifest { return e.pending }

// OnGraphReady computes the manifest from the finalized graph.
func (e *Emitter) OnGraphReady(ctx context.Context, graph *stats.Stats) error {
	e.pending = e.BuildManifest(graph)
	e.logger.Debug("Federation manifest computed.", "exposes", len(e.pending.Exposes))
	return nil
}

// OnAssetsEmit emits the manifest asset, replacing any previous version.
func (e *Emitter) OnAssetsEmit(ctx context.Context, comp Compilation) error {
	if e.pending == nil {
		return fmt.Errorf("manifest not computed: OnGraphReady was not run")
	}
	data, err := e.pending.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	if _, exists := comp.Asset(e.fileName); exists {
		err = comp.UpdateAsset(e.fileName, data)
	} else {
		err = comp.EmitAsset(e.fileName, data)
	}
	if err != nil {
		return fmt.Errorf("failed to emit %s: %w", e.fileName, err)
	}
	e.logger.Info("Federation manifest emitted.", "file", e.fileName, "bytes", len(data))
	return nil
}

// OnBuildComplete splices integrity digests into the written manifest. It
// does nothing unless an integrity capability is registered.
func (e *Emitter) OnBuildComplete(ctx context.Context, result BuildResult) error {
	if e.integrity == nil {
		return nil
	}

	digests := integrityMap(result.Stats)
	if e.integrity.Algorithm != "" {
		if err := computeMissing(digests, result, e.integrity.Algorithm); err != nil {
			return err
		}
	}

	path := filepath.Join(result.OutputDir, e.fileName)
	m, err := manifest.ReadFile(path)
	if err != nil {
		return err
	}
	m.ApplyIntegrity(digests)
	if err := manifest.WriteFile(path, m); err != nil {
		return err
	}
	e.logger.Info("Federation manifest augmented with integrity.", "file", path, "digests", len(digests))
	return nil
}

// BuildManifest computes the manifest of graph without side effects.
func (e *Emitter) BuildManifest(graph *stats.Stats) *manifest.Manifest {
	m := &manifest.Manifest{
		Name:    e.container.ManifestName(),
		Exposes: make(map[string][]manifest.ChunkRef),
	}

	for _, mod := range graph.Modules {
		if mod.IssuerName != stats.ContainerEntryIssuer {
			continue
		}
		exposedAs, ok := e.exposed[stripExtension(mod.Name)]
		if !ok {
			continue
		}

		files := e.moduleFiles(graph, mod)
		refs := make([]manifest.ChunkRef, 0, len(files))
		for _, f := range files {
			refs = append(refs, manifest.ChunkRef{Chunk: f, ID: mod.ID})
		}
		m.Exposes[strings.TrimPrefix(exposedAs, "./")] = refs
	}
	return m
}

// moduleFiles walks the chunks owning mod, restricted to the container's
// runtime. Sibling chunk files precede the owning chunk's own files.
func (e *Emitter) moduleFiles(graph *stats.Stats, mod stats.Module) []string {
	var files []string
	for _, id := range mod.Chunks {
		chunk, ok := graph.Chunk(id)
		if !ok {
			e.logger.Warn("Module references an unknown chunk; skipping it.", "module", mod.Name, "chunk", id)
			continue
		}
		if !chunk.Runtime.Contains(e.container.Name) {
			continue
		}
		for _, sid := range chunk.Siblings {
			sibling, ok := graph.Chunk(sid)
			if !ok {
				e.logger.Warn("Chunk references an unknown sibling; skipping it.", "chunk", chunk.ID, "sibling", sid)
				continue
			}
			files = append(files, sibling.Files...)
		}
		files = append(files, chunk.Files...)
	}
	return files
}

func stripExtension(name string) string {
	return extensionRegex.ReplaceAllString(name, "")
}
