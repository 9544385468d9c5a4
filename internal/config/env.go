package config

import (
	"os"
	"strings"
)

// loadFromEnv overrides config from environment variables and updates
// source tracking. TODO_FILE and DONE_FILE follow the todo.sh convention
// and lose to their TODOTXT_* counterparts.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	setEnv := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := firstEnv("TODOTXT_TODO", "TODO_FILE"); v != "" {
		cfg.TodoFile = v
		setEnv("todo_file")
	}
	if v := firstEnv("TODOTXT_DONE", "DONE_FILE"); v != "" {
		cfg.DoneFile = v
		setEnv("done_file")
	}
	if v := os.Getenv("TODOTXT_SCHEMA"); v != "" {
		cfg.SchemaFile = v
		setEnv("schema_file")
	}
	if v := os.Getenv("TODOTXT_OUTPUT"); v != "" {
		cfg.OutputFormat = strings.ToLower(v)
		setEnv("output_format")
	}
	if v := os.Getenv("TODOTXT_STRICT"); v != "" {
		cfg.Strict = boolFromString(v)
		setEnv("strict")
	}

	// Logging configuration
	if v := os.Getenv("TODOTXT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(v)
		setEnv("log_level")
	}
	if v := os.Getenv("TODOTXT_LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(v)
		setEnv("log_format")
	}
	if v := os.Getenv("TODOTXT_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		setEnv("log_timestamps")
	}
	if v := os.Getenv("TODOTXT_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		setEnv("log_caller")
	}
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
