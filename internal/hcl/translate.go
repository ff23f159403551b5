package hcl

import (
	"fmt"
	"time"

	"github.com/valorkin/mf-loadable-adapter/internal/config"
	"github.com/valorkin/mf-loadable-adapter/internal/registry"
	"github.com/valorkin/mf-loadable-adapter/internal/schema"
)

// translateFile converts one decoded file into a partial model.
func translateFile(f *schema.File) (*config.Model, error) {
	m := &config.Model{}
	for _, r := range f.Remotes {
		m.Remotes = append(m.Remotes, &config.Remote{
			Name:        r.Name,
			ManifestURL: r.ManifestURL,
			PublicHost:  r.PublicHost,
		})
	}

	switch len(f.Containers) {
	case 0:
	case 1:
		c, err := translateContainer(f.Containers[0])
		if err != nil {
			return nil, err
		}
		m.Container = c
	default:
		return nil, fmt.Errorf("%w: container block defined more than once", config.ErrInvalid)
	}

	if len(f.Manifests) > 1 || len(f.Integrity) > 1 || len(f.Fetch) > 1 {
		return nil, fmt.Errorf("%w: manifest, integrity and fetch blocks may each appear once", config.ErrInvalid)
	}
	if len(f.Manifests) == 1 {
		m.Manifest = &config.Manifest{FileName: f.Manifests[0].FileName}
	}
	if len(f.Integrity) == 1 {
		i := f.Integrity[0]
		m.Integrity = &config.Integrity{Enabled: i.Enabled == nil || *i.Enabled, Compute: i.Compute}
	}
	if len(f.Fetch) == 1 {
		fe, err := translateFetch(f.Fetch[0])
		if err != nil {
			return nil, err
		}
		m.Fetch = fe
	}
	return m, nil
}

// translateContainer merges the map and block forms of exposed modules.
func translateContainer(s *schema.Container) (*config.Container, error) {
	kind, ok := registry.ParseKind(s.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: container %q: unknown kind %q", config.ErrInvalid, s.Name, s.Kind)
	}
	c := &config.Container{
		Name:        s.Name,
		Kind:        kind,
		LibraryName: s.LibraryName,
		Target:      s.Target,
		Exposes:     make(map[string]string, len(s.Exposes)+len(s.Expose)),
	}
	for key, imp := range s.Exposes {
		c.Exposes[key] = imp
	}
	for _, e := range s.Expose {
		if _, dup := c.Exposes[e.Key]; dup {
			return nil, fmt.Errorf("%w: container %q: expose %q defined more than once", config.ErrInvalid, s.Name, e.Key)
		}
		c.Exposes[e.Key] = e.Import
	}
	return c, nil
}

func translateFetch(s *schema.Fetch) (*config.Fetch, error) {
	f := &config.Fetch{Concurrency: s.Concurrency}
	if s.Timeout != "" {
		d, err := time.ParseDuration(s.Timeout)
		if err != nil {
			return nil, fmt.Errorf("%w: fetch timeout: %w", config.ErrInvalid, err)
		}
		f.Timeout = d
	}
	return f, nil
}
