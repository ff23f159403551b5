package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads every file of the loader's format found in paths and
	// translates it into a partial model. Files of other formats are ignored.
	Load(ctx context.Context, paths ...string) (*Model, error)

	// Extensions lists the file extensions the loader reads.
	Extensions() []string
}
