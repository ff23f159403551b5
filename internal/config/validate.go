package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalid is returned for configuration that cannot be used.
var ErrInvalid = errors.New("invalid configuration")

var integrityAlgorithms = map[string]bool{"sha256": true, "sha384": true, "sha512": true}

// Validate reports every problem of the model at once.
func (m *Model) Validate() error {
	var errs []string

	seen := make(map[string]bool, len(m.Remotes))
	for i, r := range m.Remotes {
		if r.Name == "" {
			errs = append(errs, fmt.Sprintf("remote #%d: name is required", i))
			continue
		}
		if seen[r.Name] {
			errs = append(errs, fmt.Sprintf("remote %q: defined more than once", r.Name))
		}
		seen[r.Name] = true
		if err := checkURL(r.ManifestURL); err != nil {
			errs = append(errs, fmt.Sprintf("remote %q: manifest_url %v", r.Name, err))
		}
		if err := checkURL(r.PublicHost); err != nil {
			errs = append(errs, fmt.Sprintf("remote %q: public_host %v", r.Name, err))
		}
	}

	if c := m.Container; c != nil {
		if c.Name == "" {
			errs = append(errs, "container: name is required")
		}
		if c.Kind != "" && !c.Kind.Valid() {
			errs = append(errs, fmt.Sprintf("container %q: unknown kind %q", c.Name, c.Kind))
		}
		for key, imp := range c.Exposes {
			if imp == "" {
				errs = append(errs, fmt.Sprintf("container %q: expose %q has no import", c.Name, key))
			}
		}
	}

	if i := m.Integrity; i != nil && i.Compute != "" && !integrityAlgorithms[i.Compute] {
		errs = append(errs, fmt.Sprintf("integrity: unsupported compute algorithm %q", i.Compute))
	}
	if f := m.Fetch; f != nil {
		if f.Timeout < 0 {
			errs = append(errs, "fetch: timeout must not be negative")
		}
		if f.Concurrency < 0 {
			errs = append(errs, "fetch: concurrency must not be negative")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n- %s", ErrInvalid, strings.Join(errs, "\n- "))
	}
	return nil
}

func checkURL(raw string) error {
	if raw == "" {
		return errors.New("is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("must be an absolute url, got %q", raw)
	}
	return nil
}
