package config

import (
	"flag"
)

// parseFlags defines the global flags on fs, parses args and applies the
// flags that were set. If sources is non-nil, it tracks the source of each
// value.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("todotxt", flag.ContinueOnError)
	}

	var (
		todoFile, doneFile, schemaFile string
		outputFormat                   string
		strict                         bool
		logLevel, logFormat            string
		logTimestamps, logCaller       bool
	)

	// Paths
	fs.StringVar(&todoFile, "todo", cfg.TodoFile, "Path to todo.txt file")
	fs.StringVar(&doneFile, "done", cfg.DoneFile, "Path to done.txt file for archived tasks")
	fs.StringVar(&schemaFile, "schema", cfg.SchemaFile, "Path to JSON schema (default: embedded)")

	// Output
	fs.StringVar(&outputFormat, "format", cfg.OutputFormat, "Output format (text, json)")
	fs.BoolVar(&strict, "strict", cfg.Strict, "Treat validation warnings as errors")

	// Logging
	fs.StringVar(&logLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&logFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&logTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&logCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Map flag names to source field names
	flagToSource := map[string]string{
		"todo":           "todo_file",
		"done":           "done_file",
		"schema":         "schema_file",
		"format":         "output_format",
		"strict":         "strict",
		"log-level":      "log_level",
		"log-format":     "log_format",
		"log-timestamps": "log_timestamps",
		"log-caller":     "log_caller",
	}

	// Apply only the flags that were set so lower layers survive
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "todo":
			cfg.TodoFile = todoFile
		case "done":
			cfg.DoneFile = doneFile
		case "schema":
			cfg.SchemaFile = schemaFile
		case "format":
			cfg.OutputFormat = outputFormat
		case "strict":
			cfg.Strict = strict
		case "log-level":
			cfg.LogLevel = logLevel
		case "log-format":
			cfg.LogFormat = logFormat
		case "log-timestamps":
			cfg.LogTimestamps = logTimestamps
		case "log-caller":
			cfg.LogCaller = logCaller
		}
		if sources == nil {
			return
		}
		if fieldName, ok := flagToSource[f.Name]; ok {
			sources[fieldName] = SourceFlag
		}
	})

	return nil
}
