package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/todotxt-go/internal/utils"
)

//go:embed schema.json
var embeddedSchema []byte

// EmbeddedSchemaURL identifies the built-in schema.
const EmbeddedSchemaURL = "https://github.com/nibzard/todotxt-go/todo.schema.json"

// EmbeddedSchema returns a copy of the built-in JSON Schema.
func EmbeddedSchema() []byte {
	out := make([]byte, len(embeddedSchema))
	copy(out, embeddedSchema)
	return out
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // Dotted path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SchemaPath is the path to a JSON Schema file. If empty, the embedded
	// schema is used.
	SchemaPath string
	// Minimal skips JSON Schema validation and runs only the fallback checks.
	Minimal bool
	// Strict turns warnings into errors.
	Strict bool
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

func newResult() *ValidationResult {
	return &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}
}

// Err joins all errors, or returns nil when the result is valid.
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return errors.Join(r.Errors...)
}

// Validate validates the document.
func (d *Document) Validate(opts ValidationOptions) *ValidationResult {
	result := newResult()

	if !opts.Minimal {
		data, err := json.Marshal(d)
		if err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Err: fmt.Errorf("failed to marshal document for validation: %w", err),
			})
			return result
		}
		if validateWithSchema(result, data, opts.SchemaPath) {
			d.checkSemantics(result)
			return finish(result, opts)
		}
		result.Warnings = append(result.Warnings, "JSON Schema validation not available, using minimal checks")
	}

	d.validateMinimal(result)
	d.checkSemantics(result)
	return finish(result, opts)
}

// ValidateJSON validates a raw JSON document. Unlike Document.Validate it
// also reports values that would not decode, such as a lowercase priority.
func ValidateJSON(data []byte, opts ValidationOptions) *ValidationResult {
	result := newResult()

	if !opts.Minimal {
		if validateWithSchema(result, data, opts.SchemaPath) {
			return finish(result, opts)
		}
		result.Warnings = append(result.Warnings, "JSON Schema validation not available, using minimal checks")
	}

	doc, err := ReadDocument(bytes.NewReader(data))
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err)
		return result
	}
	doc.validateMinimal(result)
	return finish(result, opts)
}

func finish(result *ValidationResult, opts ValidationOptions) *ValidationResult {
	if opts.Strict && len(result.Warnings) > 0 {
		result.Valid = false
		for _, w := range result.Warnings {
			result.Errors = append(result.Errors, errors.New(w))
		}
	}
	return result
}

// validateMinimal performs minimal validation without JSON Schema.
func (d *Document) validateMinimal(result *ValidationResult) {
	if d.SchemaVersion != SchemaVersion {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "schema_version",
			Err:  fmt.Errorf("expected %d, got %d", SchemaVersion, d.SchemaVersion),
		})
	}

	if d.Tasks == nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "tasks",
			Err:  fmt.Errorf("missing required field"),
		})
		return
	}

	for i := range d.Tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		if err := validateTaskMinimal(&d.Tasks[i], path); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, err)
		}
	}
}

// validateTaskMinimal performs minimal task validation.
func validateTaskMinimal(task *ExportedTask, path string) *ValidationError {
	if task.Line < 1 {
		return &ValidationError{
			Path: path + ".line",
			Err:  fmt.Errorf("must be at least 1, got %d", task.Line),
		}
	}

	if task.Priority != nil && !task.Priority.Valid() {
		return &ValidationError{
			Path: path + ".priority",
			Err:  fmt.Errorf("must be a letter A-Z, got %q", byte(*task.Priority)),
		}
	}

	for j, p := range task.Projects {
		if p == "" || strings.Contains(p, " ") {
			return &ValidationError{
				Path: fmt.Sprintf("%s.projects[%d]", path, j),
				Err:  fmt.Errorf("invalid project tag %q", p),
			}
		}
	}
	for j, c := range task.Contexts {
		if c == "" || strings.Contains(c, " ") {
			return &ValidationError{
				Path: fmt.Sprintf("%s.contexts[%d]", path, j),
				Err:  fmt.Errorf("invalid context tag %q", c),
			}
		}
	}

	for k, v := range task.KeyValues {
		if k == "" || v == "" || strings.ContainsAny(k, ": ") || strings.ContainsAny(v, ": ") {
			return &ValidationError{
				Path: path + ".key_values." + k,
				Err:  fmt.Errorf("invalid key:value pair %q:%q", k, v),
			}
		}
	}

	return nil
}

// checkSemantics adds warnings for tasks that are well-formed but unusual.
func (d *Document) checkSemantics(result *ValidationResult) {
	for i, t := range d.Tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		if t.CompletionDate != nil && !t.Completed {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: completion date on a task that is not completed (line %d)", path, t.Line))
		}
		if t.Completed && t.CompletionDate == nil && t.Priority == nil && t.CreationDate != nil {
			// Rendered as "x DATE ...", which reads back as the completion date.
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: completed with a creation date but no completion date; the date will read back as the completion date (line %d)", path, t.Line))
		}
		if t.CompletionDate != nil && t.CreationDate != nil && t.CompletionDate.Before(*t.CreationDate) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: completed %s before it was created %s (line %d)", path, t.CompletionDate, t.CreationDate, t.Line))
		}
	}
}

// validateWithSchema runs JSON Schema validation of data. It returns false
// when no schema could be compiled; the reason is recorded as a warning.
func validateWithSchema(result *ValidationResult, data []byte, schemaPath string) bool {
	schema, ok := compileSchema(result, schemaPath)
	if !ok {
		return false
	}
	result.UsedSchema = true

	var obj interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("failed to unmarshal document for validation: %w", err),
		})
		return true
	}

	if err := schema.Validate(obj); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}
	return true
}

func compileSchema(result *ValidationResult, schemaPath string) (*jsonschema.Schema, bool) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true

	if schemaPath == "" {
		if err := compiler.AddResource(EmbeddedSchemaURL, bytes.NewReader(embeddedSchema)); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("invalid embedded schema: %v", err))
			return nil, false
		}
		schema, err := compiler.Compile(EmbeddedSchemaURL)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("invalid embedded schema: %v", err))
			return nil, false
		}
		return schema, true
	}

	absPath, err := filepath.Abs(schemaPath)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid schema path: %v", err))
		return nil, false
	}

	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("schema file not found: %s", absPath))
		} else {
			result.Warnings = append(result.Warnings, fmt.Sprintf("failed to read schema file: %v", err))
		}
		return nil, false
	}

	schema, err := compiler.Compile(absPath)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid schema file: %v", err))
		return nil, false
	}
	return schema, true
}

func appendSchemaErrors(result *ValidationResult, err error) {
	if err == nil {
		return
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.Errors = append(result.Errors, err)
		return
	}

	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}
