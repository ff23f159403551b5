// Package config defines the format-agnostic configuration model of the
// adapters and the Loader interface that format-specific packages implement.
//
// Loaders return partial models, one per format. They are combined with
// Merge, completed with ApplyDefaults and checked with Validate before use.
// Concrete implementations live in the hcl and yamlconfig packages.
package config
