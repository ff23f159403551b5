package registry

import (
	"log/slog"
	"strings"
)

// Kind identifies the federation plugin variant a build runs with.
type Kind string

const (
	KindModuleFederation    Kind = "module"
	KindNodeFederation      Kind = "node"
	KindUniversalFederation Kind = "universal"
)

// Valid reports whether k is a known federation variant.
func (k Kind) Valid() bool {
	switch k {
	case KindModuleFederation, KindNodeFederation, KindUniversalFederation:
		return true
	}
	return false
}

// ParseKind maps a configuration string to a Kind. The empty string is the
// standard module federation plugin.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if k == "" {
		k = KindModuleFederation
	}
	return k, k.Valid()
}

// ExposeEntry is one exposed module. Exposes accept either a bare import
// path or an object with an import field; both normalize to this form.
type ExposeEntry struct {
	Import string
}

// Container is the federation container configuration of a build.
type Container struct {
	Kind        Kind
	Name        string
	LibraryName string
	Exposes     map[string]ExposeEntry
}

// ManifestName is the name recorded in the emitted manifest: the library
// name when set, otherwise the container name.
func (c Container) ManifestName() string {
	if c.LibraryName != "" {
		return c.LibraryName
	}
	return c.Name
}

// Integrity enables subresource integrity augmentation of the manifest.
type Integrity struct {
	// Algorithm, when set (sha256, sha384, sha512), computes digests for
	// output files whose stats entry carries none.
	Algorithm string
}

// Plugin is the interface build integrations implement to be registered.
type Plugin interface {
	Register(r *Registry)
}

// Registry holds the capabilities registered for a single build.
type Registry struct {
	federation *Container
	integrity  *Integrity
}

// New creates an empty Registry and applies the given plugins.
func New(plugins ...Plugin) *Registry {
	r := &Registry{}
	for _, p := range plugins {
		p.Register(r)
	}
	return r
}

// RegisterFederation registers the build's federation container.
func (r *Registry) RegisterFederation(c Container) {
	if r.federation != nil {
		panic("federation container '" + r.federation.Name + "' already registered")
	}
	slog.Debug("Registering federation container.", "name", c.Name, "kind", c.Kind, "exposes", len(c.Exposes))
	r.federation = &c
}

// RegisterIntegrity registers the subresource integrity capability.
func (r *Registry) RegisterIntegrity(i Integrity) {
	if r.integrity != nil {
		panic("integrity capability already registered")
	}
	slog.Debug("Registering integrity capability.", "algorithm", i.Algorithm)
	r.integrity = &i
}

// Federation returns the registered container, if any.
func (r *Registry) Federation() (Container, bool) {
	if r == nil || r.federation == nil {
		return Container{}, false
	}
	return *r.federation, true
}

// Integrity returns the registered integrity capability, if any.
func (r *Registry) Integrity() (Integrity, bool) {
	if r == nil || r.integrity == nil {
		return Integrity{}, false
	}
	return *r.integrity, true
}

// ContainerPlugin registers a fixed container.
type ContainerPlugin Container

// Register implements Plugin.
func (p ContainerPlugin) Register(r *Registry) { r.RegisterFederation(Container(p)) }

// IntegrityPlugin registers a fixed integrity capability.
type IntegrityPlugin Integrity

// Register implements Plugin.
func (p IntegrityPlugin) Register(r *Registry) { r.RegisterIntegrity(Integrity(p)) }
