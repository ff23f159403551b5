package config

import (
	"time"

	"github.com/valorkin/mf-loadable-adapter/internal/registry"
)

// Default values applied by ApplyDefaults.
const (
	DefaultManifestFileName = "federation-stats.json"
	DefaultFetchTimeout     = 10 * time.Second
)

// Model is the unified representation of the adapters' configuration.
type Model struct {
	Remotes   []*Remote
	Container *Container
	Manifest  *Manifest
	Integrity *Integrity
	Fetch     *Fetch
}

// Remote is one federation remote consumed at render time.
type Remote struct {
	Name        string
	ManifestURL string
	PublicHost  string
}

// Container is the federation container of the build that emits a manifest.
type Container struct {
	Name        string
	Kind        registry.Kind
	LibraryName string
	// Target is the bundler build target, used by the source transform.
	Target  string
	Exposes map[string]string
}

// Manifest configures the emitted manifest asset.
type Manifest struct {
	FileName string
}

// Integrity enables integrity augmentation of the emitted manifest.
type Integrity struct {
	Enabled bool
	// Compute names the digest algorithm used for files whose stats carry no
	// integrity. Empty disables computing.
	Compute string
}

// Fetch configures manifest retrieval at render time.
type Fetch struct {
	Timeout     time.Duration
	Concurrency int
}

// ApplyDefaults fills unset optional blocks.
func (m *Model) ApplyDefaults() {
	if m.Manifest == nil {
		m.Manifest = &Manifest{}
	}
	if m.Manifest.FileName == "" {
		m.Manifest.FileName = DefaultManifestFileName
	}
	if m.Fetch == nil {
		m.Fetch = &Fetch{}
	}
	if m.Fetch.Timeout == 0 {
		m.Fetch.Timeout = DefaultFetchTimeout
	}
	if m.Container != nil && m.Container.Kind == "" {
		m.Container.Kind = registry.KindModuleFederation
	}
}

// Registry registers the configured build capabilities.
func (m *Model) Registry() *registry.Registry {
	reg := registry.New()
	if m.Container != nil {
		exposes := make(map[string]registry.ExposeEntry, len(m.Container.Exposes))
		for key, imp := range m.Container.Exposes {
			exposes[key] = registry.ExposeEntry{Import: imp}
		}
		reg.RegisterFederation(registry.Container{
			Kind:        m.Container.Kind,
			Name:        m.Container.Name,
			LibraryName: m.Container.LibraryName,
			Exposes:     exposes,
		})
	}
	if m.Integrity != nil && m.Integrity.Enabled {
		reg.RegisterIntegrity(registry.Integrity{Algorithm: m.Integrity.Compute})
	}
	return reg
}
