package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/valorkin/mf-loadable-adapter/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const usage = `
mfadapter - Module Federation manifest and chunk tooling for server rendering.

Usage:
  mfadapter <command> [options] [arguments]

Commands:
  emit       Write the federation manifest of a finished build.
  tags       Print the script and style tags of rendered federated components.
  transform  Rewrite weak module references in server build output.
  serve      Run the tag rendering HTTP sidecar.

Run 'mfadapter <command> -h' for the options of a command.
`

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*s = append(*s, part)
		}
	}
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		fmt.Fprint(output, usage)
		return nil, true, nil
	}

	cmd := app.Command(args[0])
	flagSet := flag.NewFlagSet("mfadapter "+args[0], flag.ContinueOnError)
	flagSet.SetOutput(output)

	var configPaths stringList
	flagSet.Var(&configPaths, "config", "Configuration file or directory (.hcl, .yaml). Repeatable; defaults to the current directory.")
	flagSet.Var(&configPaths, "c", "Configuration file or directory (shorthand).")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	cfg := app.Config{Command: cmd}
	var argsHelp string
	switch cmd {
	case app.CommandEmit:
		flagSet.StringVar(&cfg.StatsPath, "stats", "", "Path to the bundler stats JSON of the build.")
		flagSet.StringVar(&cfg.OutputDir, "out", "", "Build output directory the manifest is written to.")
	case app.CommandTags:
		flagSet.StringVar(&cfg.HTMLPath, "html", "", "Rendered HTML carrying the loadable required-chunks payload.")
		flagSet.StringVar(&cfg.LoadMode, "load-mode", "defer", "Script load mode. Options: 'defer' or 'async'.")
		argsHelp = " [COMPONENT_ID...]"
	case app.CommandTransform:
		flagSet.StringVar(&cfg.SourceRoot, "root", "", "Server build output directory.")
		flagSet.StringVar(&cfg.SourcePattern, "pattern", "**/*.js", "Doublestar pattern of files to rewrite, relative to -root.")
	case app.CommandServe:
		flagSet.StringVar(&cfg.ListenAddr, "addr", ":8080", "Listen address of the tag server.")
	default:
		fmt.Fprint(output, usage)
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q", args[0])}
	}

	flagSet.Usage = func() {
		fmt.Fprintf(output, "\nUsage:\n  mfadapter %s [options]%s\n\nOptions:\n", cmd, argsHelp)
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.", "command", cmd)

	if cmd == app.CommandTags {
		cfg.ComponentIDs = flagSet.Args()
	} else if flagSet.NArg() > 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %s", strings.Join(flagSet.Args(), " "))}
	}

	if len(configPaths) == 0 {
		configPaths = stringList{"."}
	}
	cfg.ConfigPaths = configPaths

	cfg.LogFormat = strings.ToLower(*logFormatFlag)
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	cfg.LogLevel = strings.ToLower(*logLevelFlag)
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
