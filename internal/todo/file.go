package todo

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/nibzard/todotxt-go/internal/todotxt"
)

const (
	// maxLineSize bounds a single todo.txt line.
	maxLineSize = 1 << 20

	filePerms = 0644
)

// Entry is one task and the line it was read from.
type Entry struct {
	Line int
	Task todotxt.Task
}

// File is an in-memory todo.txt file.
type File struct {
	Source  string
	Entries []Entry
}

// Load reads and parses a todo.txt file from path.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open todo file: %w", err)
	}
	defer f.Close()

	file, err := Read(f, path)
	if err != nil {
		return nil, fmt.Errorf("read todo file %s: %w", path, err)
	}
	return file, nil
}

// Read parses todo.txt content from r. source names the content in exports
// and error messages.
func Read(r io.Reader, source string) (*File, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	file := &File{Source: source, Entries: make([]Entry, 0)}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		file.Entries = append(file.Entries, Entry{
			Line: lineNo,
			Task: todotxt.Parse(line),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
	}
	return file, nil
}

// Write renders every task to w, one per line.
func (f *File) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, e := range f.Entries {
		if _, err := bw.WriteString(todotxt.Render(e.Task)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Save writes the file to path. The previous content stays in place until
// the new content is fully written.
func (f *File) Save(path string) error {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return fmt.Errorf("render todo file: %w", err)
	}
	return replaceFile(path, &buf)
}

// replaceFile swaps the content of path for r through a temp file in the
// same directory.
func replaceFile(path string, r io.Reader) error {
	_, statErr := os.Stat(path)
	created := errors.Is(statErr, os.ErrNotExist)

	if err := atomic.WriteFile(path, r); err != nil {
		return fmt.Errorf("write todo file: %w", err)
	}

	// atomic.WriteFile does not set permissions for new files.
	if created {
		if err := os.Chmod(path, filePerms); err != nil {
			return fmt.Errorf("set todo file permissions: %w", err)
		}
	}
	return nil
}

// Append renders entries at the end of the file at path, creating it if
// needed.
func Append(path string, entries []Entry) error {
	out, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, filePerms)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	part := &File{Entries: entries}
	if err := part.Write(out); err != nil {
		out.Close()
		return fmt.Errorf("append to %s: %w", path, err)
	}
	return out.Close()
}

// Get returns the entry read from line, or nil if there is none.
func (f *File) Get(line int) *Entry {
	for i := range f.Entries {
		if f.Entries[i].Line == line {
			return &f.Entries[i]
		}
	}
	return nil
}

// Add appends a task after the last line. The task is normalized through
// Render and Parse so it matches what a reload of the saved file yields.
func (f *File) Add(task todotxt.Task) Entry {
	next := 1
	if n := len(f.Entries); n > 0 {
		next = f.Entries[n-1].Line + 1
	}
	e := Entry{Line: next, Task: todotxt.Parse(todotxt.Render(task))}
	f.Entries = append(f.Entries, e)
	return e
}

// Complete marks the task on line as done on the given date.
func (f *File) Complete(line int, on todotxt.Date) error {
	e := f.Get(line)
	if e == nil {
		return fmt.Errorf("task on line %d not found", line)
	}
	if e.Task.Completed {
		return fmt.Errorf("task on line %d is already completed", line)
	}

	task := e.Task
	if task.CreationDate != nil && task.Priority == nil && task.CompletionDate == nil {
		// Without a priority the creation date was read from the first word
		// of the line and is still there.
		if first, rest, _ := strings.Cut(task.Description, " "); first == task.CreationDate.String() {
			task.Description = rest
		}
	}
	task.Completed = true
	task.CompletionDate = &on
	e.Task = todotxt.Parse(todotxt.Render(task))
	return nil
}

// Archive removes completed tasks from f and returns them.
func (f *File) Archive() []Entry {
	kept := make([]Entry, 0, len(f.Entries))
	var done []Entry
	for _, e := range f.Entries {
		if e.Task.Completed {
			done = append(done, e)
			continue
		}
		kept = append(kept, e)
	}
	f.Entries = kept
	return done
}
