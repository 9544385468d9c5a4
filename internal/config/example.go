package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todotxt configuration file
# Paths can be overridden by environment variables or CLI flags

# Task file (relative to the working directory, ~ is expanded)
todo_file = "todo.txt"

# Archive for completed tasks
done_file = "done.txt"

# JSON schema for validate (empty uses the embedded schema)
# schema_file = "todo.schema.json"

# Output format: text or json
output_format = "text"

# Treat validation warnings as errors
strict = false

# Logging: debug, info, warn, error
log_level = "info"
# text, json or logfmt
log_format = "text"
log_timestamps = false
log_caller = false
`
}
