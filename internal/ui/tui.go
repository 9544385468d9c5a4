// Package ui provides optional terminal interfaces.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/todotxt-go/internal/config"
	"github.com/nibzard/todotxt-go/internal/todo"
	"github.com/nibzard/todotxt-go/internal/todotxt"
)

// DefaultRefreshInterval is how often the viewer reloads the todo file.
const DefaultRefreshInterval = time.Second

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	refresh time.Duration
}

// WithRefreshInterval sets how often the file is reloaded.
func WithRefreshInterval(d time.Duration) TUIOption {
	return func(c *tuiConfig) {
		if d > 0 {
			c.refresh = d
		}
	}
}

// RunTUI starts the viewer for the todo file at todoPath.
func RunTUI(ctx context.Context, cfg *config.Config, todoPath string, opts ...TUIOption) error {
	c := &tuiConfig{refresh: DefaultRefreshInterval}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(cfg, todoPath, c.refresh)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// filter selects which entries the list shows.
type filter int

const (
	filterAll filter = iota
	filterPending
	filterDone
	filterPrioritized
)

func (f filter) String() string {
	switch f {
	case filterPending:
		return "pending"
	case filterDone:
		return "done"
	case filterPrioritized:
		return "prioritized"
	default:
		return "all"
	}
}

type tuiModel struct {
	cfg          *config.Config
	todoPath     string
	loadErr      error
	data         *tuiData
	tickInterval time.Duration
	filter       filter
	showHelp     bool // Show help screen
	showConfig   bool // Toggle configuration display
}

type tuiData struct {
	counts  todo.Counts
	next    *todo.Entry
	entries []todo.Entry
}

type tickMsg time.Time

func newTUIModel(cfg *config.Config, todoPath string, interval time.Duration) *tuiModel {
	path := todoPath
	if !filepath.IsAbs(path) && cfg != nil {
		path = filepath.Join(cfg.ProjectRoot, path)
	}
	return &tuiModel{
		cfg:          cfg,
		todoPath:     path,
		tickInterval: interval,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
		case "c":
			m.showConfig = !m.showConfig
		case "h", "?":
			m.showHelp = !m.showHelp
		case "0":
			m.filter = filterAll
		case "1":
			m.filter = filterPending
		case "2":
			m.filter = filterDone
		case "3":
			m.filter = filterPrioritized
		}
		return m, nil
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}

	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	if m.filter != filterAll {
		b.WriteString(fmt.Sprintf("Filter: %s (0 to clear)\n\n", m.filter))
	}

	if m.loadErr != nil {
		b.WriteString("Error loading todo file:\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}
	if m.data == nil {
		b.WriteString("Loading...\n\n")
		writeFooter(&b, m.tickInterval)
		return b.String()
	}

	writeOverview(&b, m.data.counts)
	writeNextTask(&b, m.data.next)
	writeTasks(&b, m.visible())
	if m.showConfig {
		writeConfig(&b, m.cfg, m.todoPath)
	}
	writeFooter(&b, m.tickInterval)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *tuiModel) refresh() {
	todoFile, err := todo.Load(m.todoPath)
	if err != nil {
		m.loadErr = err
		m.data = nil
		return
	}
	m.loadErr = nil
	m.data = buildTUIData(todoFile)
}

// visible returns the entries matching the current filter.
func (m *tuiModel) visible() []todo.Entry {
	if m.data == nil {
		return nil
	}
	f := &todo.File{Entries: m.data.entries}
	switch m.filter {
	case filterPending:
		return f.Pending()
	case filterDone:
		return f.Done()
	case filterPrioritized:
		return f.Prioritized()
	default:
		return m.data.entries
	}
}

func buildTUIData(todoFile *todo.File) *tuiData {
	entries := make([]todo.Entry, len(todoFile.Entries))
	copy(entries, todoFile.Entries)
	return &tuiData{
		counts:  todoFile.Counts(),
		next:    todoFile.Next(),
		entries: entries,
	}
}

func writeTitle(b *strings.Builder) {
	title := "todo.txt"
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeOverview(b *strings.Builder, counts todo.Counts) {
	b.WriteString("Task Overview\n\n")
	b.WriteString(fmt.Sprintf("  Pending: %d  Done: %d  Prioritized: %d  Total: %d\n\n",
		counts.Pending, counts.Done, counts.Prioritized, counts.Total))
}

func writeNextTask(b *strings.Builder, next *todo.Entry) {
	b.WriteString("Next Task\n\n")
	if next == nil {
		b.WriteString("  No pending tasks remaining.\n\n")
		return
	}
	b.WriteString(formatEntry(*next))
	b.WriteString("\n\n")
}

func writeTasks(b *strings.Builder, entries []todo.Entry) {
	b.WriteString("Tasks\n\n")
	if len(entries) == 0 {
		b.WriteString("  No tasks.\n\n")
		return
	}
	for _, e := range entries {
		b.WriteString(formatEntry(e))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeConfig(b *strings.Builder, cfg *config.Config, todoPath string) {
	b.WriteString("Configuration\n\n")
	b.WriteString(fmt.Sprintf("  Todo File: %s\n", todoPath))
	if cfg != nil {
		b.WriteString(fmt.Sprintf("  Done File: %s\n", cfg.DoneFile))
	}
	b.WriteString("\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Refresh data\n")
	b.WriteString("  c            Toggle configuration display\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  1            Show pending tasks\n")
	b.WriteString("  2            Show done tasks\n")
	b.WriteString("  3            Show prioritized tasks\n")
	b.WriteString("  0            Clear filter\n\n")
}

func writeFooter(b *strings.Builder, interval time.Duration) {
	b.WriteString(fmt.Sprintf("Press h for help | q to quit | Refreshing every %s\n", interval))
}

func formatEntry(e todo.Entry) string {
	statusIcon := " "
	if e.Task.Completed {
		statusIcon = "x"
	}
	return fmt.Sprintf("  %s %3d  %s", statusIcon, e.Line, todotxt.Render(e.Task))
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
