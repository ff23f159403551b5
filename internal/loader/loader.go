// Package loader rewrites weak module references into eager requires for the
// async-node server target, which cannot resolve them lazily.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/valorkin/mf-loadable-adapter/internal/ctxlog"
	"github.com/valorkin/mf-loadable-adapter/internal/registry"
)

// TargetAsyncNode is the only explicit build target the transform applies to.
const TargetAsyncNode = "async-node"

var weakRegex = regexp.MustCompile(`require\.resolveWeak\((?:'([^'\n]+)'|"([^"\n]+)")\)`)

// Env is the build configuration a source file is compiled under.
type Env struct {
	// Federation is the registered federation variant, empty when none is.
	Federation registry.Kind
	Target     string
}

// Active reports whether sources built under env are rewritten.
func (env Env) Active() bool {
	if !env.Federation.Valid() {
		return false
	}
	return env.Target == "" || env.Target == TargetAsyncNode
}

// Transform prepends require("<id>") for every require.resolveWeak("<id>")
// in source, in source order and keeping duplicates. Otherwise source is
// returned unchanged.
func Transform(source string, env Env) string {
	if !env.Active() {
		return source
	}
	matches := weakRegex.FindAllStringSubmatch(source, -1)
	if len(matches) == 0 {
		return source
	}

	var b strings.Builder
	for _, m := range matches {
		id := m[1]
		if id == "" {
			id = m[2]
		}
		b.WriteString(`require("`)
		b.WriteString(id)
		b.WriteString("\")\n")
	}
	b.WriteString(source)
	return b.String()
}

// TransformFile rewrites path in place and reports whether it changed.
func TransformFile(path string, env Env) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	out := Transform(string(data), env)
	if out == string(data) {
		return false, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

// TransformGlob rewrites every file under root matching the doublestar
// pattern and returns the changed paths.
func TransformGlob(ctx context.Context, root, pattern string, env Env) ([]string, error) {
	logger := ctxlog.FromContext(ctx).With("component", "loader")
	if !env.Active() {
		logger.Info("Weak reference transform inactive for this build.", "federation", env.Federation, "target", env.Target)
		return nil, nil
	}

	matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	var changed []string
	for _, rel := range matches {
		if err := ctx.Err(); err != nil {
			return changed, err
		}
		path := filepath.Join(root, filepath.FromSlash(rel))
		ok, err := TransformFile(path, env)
		if err != nil {
			return changed, err
		}
		if ok {
			logger.Debug("Weak references rewritten.", "file", path)
			changed = append(changed, path)
		}
	}
	logger.Info("Weak reference transform complete.", "matched", len(matches), "changed", len(changed))
	return changed, nil
}
