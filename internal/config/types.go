package config

import (
	"fmt"
	"strings"

	"github.com/nibzard/todotxt-go/internal/logging"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultTodoFile     = "todo.txt"
	DefaultDoneFile     = "done.txt"
	DefaultOutputFormat = OutputText
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

// Output formats for commands that print tasks.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config holds the full configuration for todotxt.
type Config struct {
	// Paths
	TodoFile   string `toml:"todo_file"`
	DoneFile   string `toml:"done_file"`
	SchemaFile string `toml:"schema_file"` // Empty means the embedded schema

	// Output
	OutputFormat string `toml:"output_format"`

	// Treat validation warnings as errors
	Strict bool `toml:"strict"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// Validate checks enumerated fields. Log level and format are matched
// case-insensitively and stored in lower case.
func (c *Config) Validate() error {
	switch c.OutputFormat {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("invalid output_format %q (want %s or %s)", c.OutputFormat, OutputText, OutputJSON)
	}
	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if !logging.ValidFormat(c.LogFormat) {
		return fmt.Errorf("invalid log_format %q", c.LogFormat)
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	return nil
}

// JSONOutput reports whether commands should print JSON.
func (c *Config) JSONOutput() bool {
	return c.OutputFormat == OutputJSON
}
