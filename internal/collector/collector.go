package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/valorkin/mf-loadable-adapter/internal/ctxlog"
	"github.com/valorkin/mf-loadable-adapter/internal/manifest"
	"github.com/valorkin/mf-loadable-adapter/internal/tags"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNoRemotes is returned when a collector is built without remotes.
	ErrNoRemotes = errors.New("at least one remote is required")
	// ErrInvalidRemote is returned for a remote missing a required field.
	ErrInvalidRemote = errors.New("invalid remote")
	// ErrDuplicateRemote is returned when two remotes share a name.
	ErrDuplicateRemote = errors.New("duplicate remote name")
)

// RemoteDescriptor locates one federation remote.
type RemoteDescriptor struct {
	Name        string
	ManifestURL string
	PublicHost  string
}

// Fetcher retrieves a remote manifest.
type Fetcher interface {
	Manifest(ctx context.Context, url string) (*manifest.Manifest, error)
}

// ComponentRef is a rendered component id split into its owning remote and
// exposed key.
type ComponentRef struct {
	Remote string
	Key    string
}

// Option configures a Collector.
type Option func(*Collector)

// WithConcurrency caps in-flight manifest requests. Zero means one request
// per remote.
func WithConcurrency(n int) Option {
	return func(c *Collector) { c.limit = n }
}

// WithLogger sets the collector's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Collector) { c.logger = logger }
}

// Collector resolves rendered components to remote assets. It is immutable
// after New and safe for concurrent use.
type Collector struct {
	remotes    []RemoteDescriptor
	prefix     *regexp.Regexp
	publicHost map[string]string
	fetcher    Fetcher
	limit      int
	logger     *slog.Logger
}

// New validates remotes and precomputes the id matcher and lookup maps.
func New(remotes []RemoteDescriptor, fetcher Fetcher, opts ...Option) (*Collector, error) {
	if len(remotes) == 0 {
		return nil, ErrNoRemotes
	}
	if fetcher == nil {
		return nil, errors.New("collector: fetcher is required")
	}

	c := &Collector{
		remotes:    append([]RemoteDescriptor(nil), remotes...),
		publicHost: make(map[string]string, len(remotes)),
		fetcher:    fetcher,
	}
	names := make([]string, 0, len(remotes))
	for i, r := range remotes {
		switch {
		case r.Name == "":
			return nil, fmt.Errorf("%w: remote #%d has no name", ErrInvalidRemote, i)
		case r.ManifestURL == "":
			return nil, fmt.Errorf("%w: remote %q has no manifest url", ErrInvalidRemote, r.Name)
		case r.PublicHost == "":
			return nil, fmt.Errorf("%w: remote %q has no public host", ErrInvalidRemote, r.Name)
		}
		if _, dup := c.publicHost[r.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRemote, r.Name)
		}
		c.publicHost[r.Name] = strings.TrimRight(r.PublicHost, "/")
		names = append(names, regexp.QuoteMeta(r.Name))
	}
	// Longest first so "shop-admin" wins over "shop" for "shop-admin-Cart".
	sort.SliceStable(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	c.prefix = regexp.MustCompile(`^(` + strings.Join(names, "|") + `)-`)

	for _, opt := range opts {
		opt(c)
	}
	c.logger = ctxlog.Default(c.logger).With("component", "collector")
	return c, nil
}

// Remotes returns a copy of the configured remotes.
func (c *Collector) Remotes() []RemoteDescriptor {
	return append([]RemoteDescriptor(nil), c.remotes...)
}

// IsFederated reports whether id is "<remote>-<key>" for a configured remote.
func (c *Collector) IsFederated(id string) bool {
	_, ok := c.split(id)
	return ok
}

// Split keeps the federated ids in order and splits each into remote and key.
func (c *Collector) Split(ids []string) []ComponentRef {
	var refs []ComponentRef
	for _, id := range ids {
		if ref, ok := c.split(id); ok {
			refs = append(refs, ref)
		}
	}
	return refs
}

func (c *Collector) split(id string) (ComponentRef, bool) {
	m := c.prefix.FindStringSubmatch(id)
	if m == nil {
		return ComponentRef{}, false
	}
	return ComponentRef{Remote: m[1], Key: id[len(m[0]):]}, true
}

// Collect fetches every remote manifest and resolves the federated ids to
// assets. Fetch failures and lookup misses are logged and leave the affected
// components out; Collect never fails.
func (c *Collector) Collect(ctx context.Context, ids []string) *Result {
	refs := c.Split(ids)
	fetched := c.fetchAll(ctx)

	byName := make(map[string]*manifest.Manifest, len(fetched))
	var count int
	for i, m := range fetched {
		if m == nil {
			continue
		}
		count++
		if _, taken := byName[m.Name]; !taken {
			byName[m.Name] = m
		}
		// A manifest named after its library still belongs to the remote it
		// was fetched from.
		if _, taken := byName[c.remotes[i].Name]; !taken {
			byName[c.remotes[i].Name] = m
		}
	}

	res := &Result{}
	for _, ref := range refs {
		if count == 0 {
			c.logger.Warn("Could not find a remote for component.", "remote", ref.Remote, "key", ref.Key)
			continue
		}
		m, ok := byName[ref.Remote]
		if !ok {
			c.logger.Warn("No manifest available for remote; skipping component.", "remote", ref.Remote, "key", ref.Key)
			continue
		}
		chunks, ok := m.Exposes[ref.Key]
		if !ok {
			c.logger.Warn("Remote does not expose component; skipping it.", "remote", ref.Remote, "key", ref.Key)
			continue
		}
		host := c.publicHost[ref.Remote]
		for _, chunk := range chunks {
			url := host + "/" + chunk.Chunk
			res.Chunks = append(res.Chunks, chunk)
			res.assets = append(res.assets, tags.Asset{URL: url, Kind: Classify(url), Integrity: chunk.Integrity})
		}
	}
	c.logger.Debug("Chunks collected.", "components", len(refs), "manifests", count, "assets", len(res.assets))
	return res
}

// fetchAll returns one manifest per remote, nil where the fetch failed.
func (c *Collector) fetchAll(ctx context.Context) []*manifest.Manifest {
	out := make([]*manifest.Manifest, len(c.remotes))
	var g errgroup.Group
	if c.limit > 0 {
		g.SetLimit(c.limit)
	}
	for i, r := range c.remotes {
		g.Go(func() error {
			m, err := c.fetcher.Manifest(ctx, r.ManifestURL)
			if err != nil {
				c.logger.Error("Can't fetch remote manifest.", "remote", r.Name, "url", r.ManifestURL, "error", err)
				return nil
			}
			out[i] = m
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Classify maps a file name or URL to its asset kind. ".js" and ".mjs" are
// scripts, everything else is a style.
func Classify(name string) tags.Kind {
	name, _, _ = strings.Cut(name, "?")
	switch strings.ToLower(path.Ext(name)) {
	case ".js", ".mjs":
		return tags.KindScript
	default:
		return tags.KindStyle
	}
}
