package app

import (
	"errors"
	"fmt"
)

// Command names an application operation.
type Command string

const (
	CommandEmit      Command = "emit"
	CommandTags      Command = "tags"
	CommandTransform Command = "transform"
	CommandServe     Command = "serve"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command     Command
	ConfigPaths []string // hcl and yaml files or directories

	LogFormat string
	LogLevel  string

	// emit
	StatsPath string
	OutputDir string

	// tags
	ComponentIDs []string
	HTMLPath     string
	LoadMode     string

	// transform
	SourceRoot    string
	SourcePattern string

	// serve
	ListenAddr string
}

// NewConfig validates cfg for its command.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ConfigPaths) == 0 {
		return nil, errors.New("at least one configuration path is required")
	}

	switch cfg.Command {
	case CommandEmit:
		if cfg.StatsPath == "" || cfg.OutputDir == "" {
			return nil, errors.New("emit requires a stats file and an output directory")
		}
	case CommandTags:
		if cfg.HTMLPath == "" && len(cfg.ComponentIDs) == 0 {
			return nil, errors.New("tags requires component ids or a rendered html file")
		}
	case CommandTransform:
		if cfg.SourceRoot == "" || cfg.SourcePattern == "" {
			return nil, errors.New("transform requires a source root and a pattern")
		}
	case CommandServe:
		if cfg.ListenAddr == "" {
			return nil, errors.New("serve requires a listen address")
		}
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}

	return &cfg, nil
}
