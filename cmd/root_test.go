// Package cmd provides tests for CLI command handlers.
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nibzard/todotxt-go/internal/todo"
	"github.com/nibzard/todotxt-go/internal/ui"
)

const sampleTodo = `(B) Schedule dentist @phone
x 2011-03-02 2011-03-01 Review pull request +TodoTxtTouch due:2016-05-30

(A) Call Mom +Family
Buy milk @store
`

// setup isolates config lookup in a temp project directory holding
// todo.txt, and pins the clock.
func setup(t *testing.T, content string) string {
	t.Helper()
	home := t.TempDir()
	dir := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, key := range []string{
		"TODOTXT_TODO", "TODO_FILE", "TODOTXT_DONE", "DONE_FILE",
		"TODOTXT_SCHEMA", "TODOTXT_OUTPUT", "TODOTXT_STRICT",
		"TODOTXT_LOG_LEVEL", "TODOTXT_LOG_FORMAT",
		"TODOTXT_LOG_TIMESTAMPS", "TODOTXT_LOG_CALLER",
	} {
		t.Setenv(key, "")
	}
	chdir(t, dir)

	if content != "" {
		if err := os.WriteFile(filepath.Join(dir, "todo.txt"), []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}

	prev := now
	now = func() time.Time { return time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC) }
	t.Cleanup(func() { now = prev })
	return dir
}

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(testContext(t), args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	return string(data)
}

func TestRun(t *testing.T) {
	t.Run("shows help with -h flag", func(t *testing.T) {
		setup(t, "")
		out, _, err := runCLI(t, "", "-h")
		if err != nil {
			t.Fatalf("expected no error with -h, got %v", err)
		}
		if !strings.Contains(out, "Commands:") || !strings.Contains(out, "-todo") {
			t.Errorf("expected usage with global flags, got %q", out)
		}
	})

	t.Run("shows help with help command", func(t *testing.T) {
		setup(t, "")
		out, _, err := runCLI(t, "", "help")
		if err != nil {
			t.Fatalf("expected no error with help command, got %v", err)
		}
		if !strings.Contains(out, "archive") {
			t.Errorf("expected command list, got %q", out)
		}
	})

	t.Run("shows version", func(t *testing.T) {
		setup(t, "")
		for _, args := range [][]string{{"-v"}, {"--version"}, {"version"}} {
			out, _, err := runCLI(t, "", args...)
			if err != nil {
				t.Fatalf("%v: unexpected error %v", args, err)
			}
			if out != "todotxt version dev\n" {
				t.Errorf("%v: got %q", args, out)
			}
		}
	})

	t.Run("unknown command returns error", func(t *testing.T) {
		setup(t, "")
		_, stderr, err := runCLI(t, "", "unknown-command")
		if err == nil || !strings.Contains(err.Error(), "unknown command") {
			t.Errorf("expected 'unknown command' error, got %v", err)
		}
		if !strings.Contains(stderr, "Unknown command: unknown-command") {
			t.Errorf("expected message on stderr, got %q", stderr)
		}
	})

	t.Run("invalid global flag value", func(t *testing.T) {
		setup(t, "")
		_, _, err := runCLI(t, "", "-format", "yaml", "ls")
		if err == nil || !strings.Contains(err.Error(), "output_format") {
			t.Errorf("expected output_format error, got %v", err)
		}
	})
}

func TestLsCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []string
		notWant []string
	}{
		{
			name: "default command lists everything",
			args: nil,
			want: []string{"  1 (B) Schedule dentist @phone", "  4 (A) Call Mom +Family", "4 of 4 tasks shown"},
		},
		{
			name:    "project filter",
			args:    []string{"ls", "-project", "+Family"},
			want:    []string{"Call Mom", "1 of 4 tasks shown"},
			notWant: []string{"dentist"},
		},
		{
			name:    "context filter",
			args:    []string{"ls", "-context", "store"},
			want:    []string{"  5 Buy milk @store"},
			notWant: []string{"Call Mom"},
		},
		{
			name: "done filter",
			args: []string{"ls", "-done"},
			want: []string{"  2 x 2011-03-02 2011-03-01 Review pull request +TodoTxtTouch due:2016-05-30"},
		},
		{
			name:    "pending filter",
			args:    []string{"ls", "-pending"},
			want:    []string{"3 of 4 tasks shown"},
			notWant: []string{"Review"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup(t, sampleTodo)
			out, _, err := runCLI(t, "", tt.args...)
			if err != nil {
				t.Fatalf("ls failed: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(out, nw) {
					t.Errorf("output should not contain %q:\n%s", nw, out)
				}
			}
		})
	}
}

func TestLsSortByPriority(t *testing.T) {
	setup(t, sampleTodo)
	out, _, err := runCLI(t, "", "ls", "-p", "-pending")
	if err != nil {
		t.Fatalf("ls failed: %v", err)
	}
	want := "  4 (A) Call Mom +Family\n  1 (B) Schedule dentist @phone\n  5 Buy milk @store\n"
	if !strings.HasPrefix(out, want) {
		t.Errorf("got:\n%s\nwant prefix:\n%s", out, want)
	}
}

func TestLsConflictingFilters(t *testing.T) {
	setup(t, sampleTodo)
	if _, _, err := runCLI(t, "", "ls", "-done", "-pending"); err == nil {
		t.Error("expected error for -done with -pending")
	}
}

func TestLsMissingFile(t *testing.T) {
	setup(t, "")
	_, _, err := runCLI(t, "", "ls")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestParseCommand(t *testing.T) {
	setup(t, "")
	out, _, err := runCLI(t, "", "parse", "-e", "x 2011-03-02 2011-03-01 Review +TodoTxtTouch @github due:2016-05-30")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	for _, want := range []string{
		"line 1: Review +TodoTxtTouch @github due:2016-05-30",
		"  completed: true",
		"  completion date: 2011-03-02",
		"  creation date: 2011-03-01",
		"  projects: TodoTxtTouch",
		"  contexts: github",
		"  due: 2016-05-30",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "priority:") {
		t.Errorf("unexpected priority line:\n%s", out)
	}
}

func TestParseCommandJSONFromStdin(t *testing.T) {
	setup(t, "")
	out, _, err := runCLI(t, sampleTodo, "-format", "json", "parse", "-")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	var doc todo.Document
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if doc.Source != "stdin" || len(doc.Tasks) != 4 {
		t.Fatalf("got source %q with %d tasks", doc.Source, len(doc.Tasks))
	}
	if doc.Tasks[2].Line != 4 || doc.Tasks[2].Priority == nil || *doc.Tasks[2].Priority != 'A' {
		t.Errorf("Tasks[2]: got %+v", doc.Tasks[2])
	}
}

func TestRenderCommand(t *testing.T) {
	setup(t, sampleTodo)
	exported, _, err := runCLI(t, "", "-format", "json", "parse")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	out, _, err := runCLI(t, exported, "render", "-")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	want := strings.Replace(sampleTodo, "\n\n", "\n", 1)
	if out != want {
		t.Errorf("render:\ngot:\n%s\nwant:\n%s", out, want)
	}

	if _, _, err := runCLI(t, "", "render"); err == nil {
		t.Error("expected error without a file argument")
	}
}

func TestValidateCommand(t *testing.T) {
	setup(t, sampleTodo)
	out, _, err := runCLI(t, "", "validate")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(out, "4 tasks valid (schema)") {
		t.Errorf("got %q", out)
	}

	out, _, err = runCLI(t, "", "validate", "-minimal")
	if err != nil {
		t.Fatalf("validate -minimal failed: %v", err)
	}
	if !strings.Contains(out, "(minimal checks)") {
		t.Errorf("got %q", out)
	}
}

func TestValidateCommandStrict(t *testing.T) {
	setup(t, "x 2011-03-01 2011-03-05 Finished before it started\n")

	_, stderr, err := runCLI(t, "", "validate")
	if err != nil {
		t.Fatalf("warnings alone should pass: %v", err)
	}
	if !strings.Contains(stderr, "before it was created") {
		t.Errorf("expected warning on stderr, got %q", stderr)
	}

	if _, _, err := runCLI(t, "", "-strict", "validate"); err == nil {
		t.Error("expected strict validation to fail")
	}
}

func TestAddCommand(t *testing.T) {
	dir := setup(t, sampleTodo)
	out, _, err := runCLI(t, "", "add", "-date", "Buy", "bread", "+Groceries")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if out != "  6 2026-10-15 Buy bread +Groceries\n" {
		t.Errorf("add output: got %q", out)
	}

	content := readFile(t, filepath.Join(dir, "todo.txt"))
	if !strings.HasSuffix(content, "Buy milk @store\n2026-10-15 Buy bread +Groceries\n") {
		t.Errorf("todo.txt:\n%s", content)
	}
}

func TestAddCommandCreatesFile(t *testing.T) {
	dir := setup(t, "")
	if _, _, err := runCLI(t, "", "add", "(A) First task"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if got := readFile(t, filepath.Join(dir, "todo.txt")); got != "(A) First task\n" {
		t.Errorf("todo.txt: got %q", got)
	}

	if _, _, err := runCLI(t, "", "add"); err == nil {
		t.Error("expected error without text")
	}
}

func TestDoCommand(t *testing.T) {
	dir := setup(t, sampleTodo)
	out, _, err := runCLI(t, "", "do", "1", "5")
	if err != nil {
		t.Fatalf("do failed: %v", err)
	}
	if !strings.Contains(out, "x 2026-10-15 (B) Schedule dentist @phone") {
		t.Errorf("do output: got %q", out)
	}

	content := readFile(t, filepath.Join(dir, "todo.txt"))
	for _, want := range []string{
		"x 2026-10-15 (B) Schedule dentist @phone\n",
		"x 2026-10-15 Buy milk @store\n",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("todo.txt missing %q:\n%s", want, content)
		}
	}

	tests := [][]string{{"do"}, {"do", "abc"}, {"do", "99"}}
	for _, args := range tests {
		if _, _, err := runCLI(t, "", args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestArchiveCommand(t *testing.T) {
	dir := setup(t, sampleTodo)
	out, _, err := runCLI(t, "", "archive")
	if err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	if !strings.Contains(out, "Archived 1 task(s)") {
		t.Errorf("archive output: got %q", out)
	}

	done := readFile(t, filepath.Join(dir, "done.txt"))
	if done != "x 2011-03-02 2011-03-01 Review pull request +TodoTxtTouch due:2016-05-30\n" {
		t.Errorf("done.txt: got %q", done)
	}
	content := readFile(t, filepath.Join(dir, "todo.txt"))
	if strings.Contains(content, "Review") {
		t.Errorf("todo.txt still has the done task:\n%s", content)
	}

	out, _, err = runCLI(t, "", "archive")
	if err != nil {
		t.Fatalf("second archive failed: %v", err)
	}
	if out != "Nothing to archive.\n" {
		t.Errorf("second archive: got %q", out)
	}
}

func TestNextCommand(t *testing.T) {
	setup(t, sampleTodo)
	out, _, err := runCLI(t, "", "next")
	if err != nil {
		t.Fatalf("next failed: %v", err)
	}
	if out != "  4 (A) Call Mom +Family\n" {
		t.Errorf("next: got %q", out)
	}

	setup(t, "x Done already\n")
	out, _, err = runCLI(t, "", "next")
	if err != nil {
		t.Fatalf("next failed: %v", err)
	}
	if out != "No pending tasks.\n" {
		t.Errorf("next: got %q", out)
	}
}

func TestConfigCommand(t *testing.T) {
	setup(t, "")
	out, _, err := runCLI(t, "", "config")
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	if !strings.Contains(out, `todo_file = "todo.txt"`) {
		t.Errorf("expected example config, got %q", out)
	}

	out, _, err = runCLI(t, "", "-format", "json", "config", "-sources")
	if err != nil {
		t.Fatalf("config -sources failed: %v", err)
	}
	var formatLine string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "output_format") {
			formatLine = line
		}
	}
	if !strings.Contains(formatLine, `"json"`) || !strings.HasSuffix(formatLine, "# flag") {
		t.Errorf("output_format line: got %q", formatLine)
	}
}

func TestConfigFileOverridesTodoPath(t *testing.T) {
	dir := setup(t, "")
	if err := os.WriteFile(filepath.Join(dir, "work.txt"), []byte("(C) From work\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "todotxt.toml"), []byte(`todo_file = "work.txt"`), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	out, _, err := runCLI(t, "", "next")
	if err != nil {
		t.Fatalf("next failed: %v", err)
	}
	if out != "  1 (C) From work\n" {
		t.Errorf("next: got %q", out)
	}
}

func TestTUICommandRequiresTTY(t *testing.T) {
	setup(t, sampleTodo)
	if ui.IsTTY(os.Stdout) {
		t.Skip("stdout is a terminal")
	}
	if _, _, err := runCLI(t, "", "tui"); err == nil {
		t.Error("expected TTY error")
	}
}

// chdir changes the working directory for the duration of the test
// (Go 1.21 equivalent of testing.T.Chdir).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

// testContext returns a context canceled when the test finishes
// (Go 1.21 equivalent of testing.T.Context).
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
