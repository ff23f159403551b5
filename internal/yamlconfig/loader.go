// Package yamlconfig provides the YAML implementation of the config.Loader
// interface. Values may reference environment variables as ${NAME}.
package yamlconfig

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/valorkin/mf-loadable-adapter/internal/config"
	"github.com/valorkin/mf-loadable-adapter/internal/ctxlog"
	"github.com/valorkin/mf-loadable-adapter/internal/fsutil"
	"github.com/valorkin/mf-loadable-adapter/internal/registry"
	yaml "gopkg.in/yaml.v2"
)

type file struct {
	Remotes   []remote   `yaml:"remotes"`
	Container *container `yaml:"container"`
	Manifest  *struct {
		FileName string `yaml:"file_name"`
	} `yaml:"manifest"`
	Integrity *struct {
		Enabled *bool  `yaml:"enabled"`
		Compute string `yaml:"compute"`
	} `yaml:"integrity"`
	Fetch *struct {
		Timeout     string `yaml:"timeout"`
		Concurrency int    `yaml:"concurrency"`
	} `yaml:"fetch"`
}

type remote struct {
	Name        string `yaml:"name"`
	ManifestURL string `yaml:"manifest_url"`
	PublicHost  string `yaml:"public_host"`
}

type container struct {
	Name        string                 `yaml:"name"`
	Kind        string                 `yaml:"kind"`
	LibraryName string                 `yaml:"library_name"`
	Target      string                 `yaml:"target"`
	Exposes     map[string]exposeValue `yaml:"exposes"`
}

// exposeValue accepts a bare import path or an {import: path} mapping.
type exposeValue struct {
	Import string
}

func (e *exposeValue) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var path string
	if err := unmarshal(&path); err == nil {
		e.Import = path
		return nil
	}
	var obj struct {
		Import string `yaml:"import"`
	}
	if err := unmarshal(&obj); err != nil {
		return fmt.Errorf("expose must be an import path or {import: path}: %w", err)
	}
	e.Import = obj.Import
	return nil
}

// Loader is the YAML implementation of config.Loader.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new YAML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Extensions implements config.Loader.
func (l *Loader) Extensions() []string { return []string{".yaml", ".yml"} }

// Load reads every YAML file found in paths into one partial model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFiles(paths, l.Extensions()...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered YAML files.", "count", len(files))

	parts := make([]*config.Model, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		var f file
		if err := yaml.UnmarshalStrict([]byte(os.ExpandEnv(string(data))), &f); err != nil {
			return nil, fmt.Errorf("failed to decode YAML file %s: %w", path, err)
		}
		part, err := translate(&f)
		if err != nil {
			return nil, fmt.Errorf("in %s: %w", path, err)
		}
		parts = append(parts, part)
	}
	return config.Merge(parts...)
}

func translate(f *file) (*config.Model, error) {
	m := &config.Model{}
	for _, r := range f.Remotes {
		m.Remotes = append(m.Remotes, &config.Remote{Name: r.Name, ManifestURL: r.ManifestURL, PublicHost: r.PublicHost})
	}
	if c := f.Container; c != nil {
		kind, ok := registry.ParseKind(c.Kind)
		if !ok {
			return nil, fmt.Errorf("%w: container %q: unknown kind %q", config.ErrInvalid, c.Name, c.Kind)
		}
		exposes := make(map[string]string, len(c.Exposes))
		for key, v := range c.Exposes {
			exposes[key] = v.Import
		}
		m.Container = &config.Container{
			Name:        c.Name,
			Kind:        kind,
			LibraryName: c.LibraryName,
			Target:      c.Target,
			Exposes:     exposes,
		}
	}
	if f.Manifest != nil {
		m.Manifest = &config.Manifest{FileName: f.Manifest.FileName}
	}
	if i := f.Integrity; i != nil {
		m.Integrity = &config.Integrity{Enabled: i.Enabled == nil || *i.Enabled, Compute: i.Compute}
	}
	if fe := f.Fetch; fe != nil {
		m.Fetch = &config.Fetch{Concurrency: fe.Concurrency}
		if fe.Timeout != "" {
			d, err := time.ParseDuration(fe.Timeout)
			if err != nil {
				return nil, fmt.Errorf("%w: fetch timeout: %w", config.ErrInvalid, err)
			}
			m.Fetch.Timeout = d
		}
	}
	return m, nil
}
