package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/valorkin/mf-loadable-adapter/internal/ctxlog"
)

var integrityAlgorithms = map[string]bool{"sha256": true, "sha384": true, "sha512": true}

// Validate checks the registered capabilities for consistency. Absence of a
// federation container is not an error here; consumers that require one
// report it themselves.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	if c, ok := r.Federation(); ok {
		if c.Name == "" {
			errs = append(errs, "federation container: name is required")
		}
		if !c.Kind.Valid() {
			errs = append(errs, fmt.Sprintf("federation container '%s': unknown kind '%s'", c.Name, c.Kind))
		}
		for key, entry := range c.Exposes {
			if entry.Import == "" {
				errs = append(errs, fmt.Sprintf("federation container '%s': expose '%s' has no import", c.Name, key))
			}
		}
		if len(c.Exposes) == 0 {
			logger.Warn("Federation container exposes no modules; the manifest will be empty.", "container", c.Name)
		}
	}

	if i, ok := r.Integrity(); ok && i.Algorithm != "" && !integrityAlgorithms[i.Algorithm] {
		errs = append(errs, fmt.Sprintf("integrity: unsupported algorithm '%s'", i.Algorithm))
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
