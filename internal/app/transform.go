package app

import (
	"context"

	"github.com/valorkin/mf-loadable-adapter/internal/loader"
)

// Transform rewrites weak module references in the server build output
// under root for the configured container.
func (a *App) Transform(ctx context.Context, root, pattern string) ([]string, error) {
	var env loader.Env
	if c, ok := a.registry.Federation(); ok {
		env.Federation = c.Kind
	}
	if a.config.Container != nil {
		env.Target = a.config.Container.Target
	}
	return loader.TransformGlob(ctx, root, pattern, env)
}
