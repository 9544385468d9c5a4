package todo

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/nibzard/todotxt-go/internal/todotxt"
)

// SchemaVersion is the version of exported JSON documents.
const SchemaVersion = 1

// Document is the JSON export of a todo.txt file.
type Document struct {
	SchemaVersion int            `json:"schema_version"`
	Source        string         `json:"source,omitempty"`
	Tasks         []ExportedTask `json:"tasks"`
}

// ExportedTask is a task with the line it came from.
type ExportedTask struct {
	Line int `json:"line"`
	todotxt.Task
}

// Export converts f to a JSON document.
func (f *File) Export() *Document {
	doc := &Document{
		SchemaVersion: SchemaVersion,
		Source:        f.Source,
		Tasks:         make([]ExportedTask, 0, len(f.Entries)),
	}
	for _, e := range f.Entries {
		doc.Tasks = append(doc.Tasks, ExportedTask{Line: e.Line, Task: normalized(e.Task)})
	}
	return doc
}

// normalized fills nil collections so they export as [] and {}.
func normalized(t todotxt.Task) todotxt.Task {
	if t.Projects == nil {
		t.Projects = []string{}
	}
	if t.Contexts == nil {
		t.Contexts = []string{}
	}
	if t.KeyValues == nil {
		t.KeyValues = map[string]string{}
	}
	return t
}

// WriteJSON writes the document to w with 2-space indentation.
func (d *Document) WriteJSON(w io.Writer) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	// Add trailing newline
	data = append(data, '\n')

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// ReadDocument decodes a JSON document from r.
func ReadDocument(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &doc, nil
}

// LoadDocument reads a JSON document from path.
func LoadDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()
	return ReadDocument(f)
}

// File converts the document back into a todo.txt file, ordered by line.
// Each task goes through Render and Parse so the result matches a reload.
func (d *Document) File() *File {
	tasks := make([]ExportedTask, len(d.Tasks))
	copy(tasks, d.Tasks)
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Line < tasks[j].Line
	})

	f := &File{Source: d.Source, Entries: make([]Entry, 0, len(tasks))}
	for _, t := range tasks {
		f.Entries = append(f.Entries, Entry{
			Line: t.Line,
			Task: todotxt.Parse(todotxt.Render(t.Task)),
		})
	}
	return f
}
