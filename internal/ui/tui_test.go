package ui

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/todotxt-go/internal/config"
	"github.com/nibzard/todotxt-go/internal/todo"
)

const sample = `(B) Schedule dentist @phone
x 2011-03-02 2011-03-01 Review pull request +TodoTxtTouch
(A) Call Mom +Family
Buy milk @store
`

func writeTodo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "todo.txt")
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBuildTUIData(t *testing.T) {
	f, err := todo.Read(strings.NewReader(sample), "todo.txt")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	data := buildTUIData(f)
	if data.counts.Pending != 3 || data.counts.Done != 1 || data.counts.Prioritized != 2 {
		t.Errorf("counts: got %+v", data.counts)
	}
	if data.next == nil || data.next.Line != 3 {
		t.Errorf("next: got %+v, want line 3", data.next)
	}
	if len(data.entries) != 4 {
		t.Errorf("entries: got %d, want 4", len(data.entries))
	}
}

func TestModelFilters(t *testing.T) {
	m := newTUIModel(&config.Config{}, writeTodo(t), time.Second)
	m.Init()

	tests := []struct {
		key   string
		want  filter
		lines []int
	}{
		{"1", filterPending, []int{1, 3, 4}},
		{"2", filterDone, []int{2}},
		{"3", filterPrioritized, []int{1, 3}},
		{"0", filterAll, []int{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		m.Update(key(tt.key))
		if m.filter != tt.want {
			t.Errorf("key %s: filter got %v, want %v", tt.key, m.filter, tt.want)
		}
		var lines []int
		for _, e := range m.visible() {
			lines = append(lines, e.Line)
		}
		if len(lines) != len(tt.lines) {
			t.Errorf("key %s: lines got %v, want %v", tt.key, lines, tt.lines)
			continue
		}
		for i := range lines {
			if lines[i] != tt.lines[i] {
				t.Errorf("key %s: lines got %v, want %v", tt.key, lines, tt.lines)
				break
			}
		}
	}
}

func TestModelView(t *testing.T) {
	m := newTUIModel(&config.Config{DoneFile: "/tmp/done.txt"}, writeTodo(t), time.Second)
	m.Init()

	view := m.View()
	for _, want := range []string{
		"Pending: 3  Done: 1  Prioritized: 2  Total: 4",
		"Next Task",
		"(A) Call Mom +Family",
		"x   2  x 2011-03-02 2011-03-01 Review pull request +TodoTxtTouch",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Configuration") {
		t.Error("Configuration should be hidden by default")
	}

	m.Update(key("c"))
	if !strings.Contains(m.View(), "Done File: /tmp/done.txt") {
		t.Error("Expected configuration after toggling")
	}

	m.Update(key("2"))
	if !strings.Contains(m.View(), "Filter: done (0 to clear)") {
		t.Error("Expected filter indicator")
	}

	m.Update(key("?"))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("Expected help screen")
	}
}

func TestModelLoadError(t *testing.T) {
	m := newTUIModel(&config.Config{}, filepath.Join(t.TempDir(), "missing.txt"), time.Second)
	m.Init()

	if m.loadErr == nil {
		t.Fatal("Expected load error")
	}
	if !strings.Contains(m.View(), "Error loading todo file") {
		t.Errorf("View should report the error:\n%s", m.View())
	}
}

func TestModelRefreshOnTick(t *testing.T) {
	path := writeTodo(t)
	m := newTUIModel(&config.Config{}, path, time.Second)
	m.Init()

	if err := os.WriteFile(path, []byte("Only task\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	_, cmd := m.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Error("Expected another tick to be scheduled")
	}
	if m.data.counts.Total != 1 {
		t.Errorf("Total after refresh: got %d, want 1", m.data.counts.Total)
	}
}

func TestQuitKey(t *testing.T) {
	m := newTUIModel(&config.Config{}, writeTodo(t), time.Second)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("Buffer should not be a TTY")
	}
}

func TestRunTUIRequiresTTY(t *testing.T) {
	if IsTTY(os.Stdout) {
		t.Skip("stdout is a terminal")
	}
	if err := RunTUI(testContext(t), &config.Config{}, writeTodo(t)); err == nil {
		t.Error("Expected TTY error")
	}
}

// testContext returns a context canceled when the test finishes
// (Go 1.21 equivalent of testing.T.Context).
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
