// Package cmd implements the CLI command structure for todotxt.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todotxt-go/internal/config"
	"github.com/nibzard/todotxt-go/internal/logging"
	"github.com/nibzard/todotxt-go/internal/todo"
	"github.com/nibzard/todotxt-go/internal/todotxt"
	"github.com/nibzard/todotxt-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// now is replaced in tests.
var now = time.Now

// stdinPath selects standard input in place of a file path.
const stdinPath = "-"

// app carries what every command needs.
type app struct {
	cfg    *config.ConfigWithSources
	logger *log.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// Run executes the todotxt CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdin, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("todotxt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config

	a := &app{
		cfg:    cws,
		logger: logging.NewFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return a.versionCommand()
	}
	for _, file := range cws.Files {
		a.logger.Debug("Loaded config", "file", file)
	}

	// Determine the subcommand; ls is the default
	subcommand := "ls"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "parse":
		return a.parseCommand(remainingArgs)
	case "render":
		return a.renderCommand(remainingArgs)
	case "validate":
		return a.validateCommand(remainingArgs)
	case "ls", "list":
		return a.lsCommand(remainingArgs)
	case "next":
		return a.nextCommand(remainingArgs)
	case "add", "a":
		return a.addCommand(remainingArgs)
	case "do":
		return a.doCommand(remainingArgs)
	case "archive":
		return a.archiveCommand(remainingArgs)
	case "tui":
		return a.tuiCommand(ctx, remainingArgs)
	case "config":
		return a.configCommand(remainingArgs)
	case "version":
		return a.versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// newFlagSet returns a subcommand flag set writing errors to stderr.
func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("todotxt "+name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// todoPath picks the optional positional file argument over the configured
// todo file.
func (a *app) todoPath(args []string) (string, error) {
	if len(args) > 1 {
		return "", fmt.Errorf("unexpected arguments: %v", args[1:])
	}
	if len(args) == 1 {
		return args[0], nil
	}
	return a.cfg.Config.TodoFile, nil
}

// load reads a todo.txt file, or standard input for "-".
func (a *app) load(path string) (*todo.File, error) {
	var (
		file *todo.File
		err  error
	)
	if path == stdinPath {
		file, err = todo.Read(a.stdin, "stdin")
	} else {
		file, err = todo.Load(path)
	}
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Parsed todo file", "source", file.Source, "tasks", len(file.Entries))
	return file, nil
}

// loadOrEmpty is load for commands that create the todo file on first use.
func (a *app) loadOrEmpty(path string) (*todo.File, error) {
	file, err := a.load(path)
	if errors.Is(err, os.ErrNotExist) {
		a.logger.Info("Creating todo file", "path", path)
		return &todo.File{Source: path}, nil
	}
	return file, err
}

func (a *app) save(file *todo.File, path string) error {
	if path == stdinPath {
		return file.Write(a.stdout)
	}
	return file.Save(path)
}

// parseCommand prints the structure of every task in a todo.txt file.
func (a *app) parseCommand(args []string) error {
	fs := a.newFlagSet("parse")
	expr := fs.String("e", "", "Parse this line instead of a file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var file *todo.File
	if *expr != "" {
		if fs.NArg() > 0 {
			return fmt.Errorf("unexpected arguments: %v", fs.Args())
		}
		file = &todo.File{Source: "-e", Entries: []todo.Entry{{Line: 1, Task: todotxt.Parse(*expr)}}}
	} else {
		path, err := a.todoPath(fs.Args())
		if err != nil {
			return err
		}
		if file, err = a.load(path); err != nil {
			return err
		}
	}

	if a.cfg.Config.JSONOutput() {
		return file.Export().WriteJSON(a.stdout)
	}
	for _, e := range file.Entries {
		printTaskDetail(a.stdout, e)
	}
	return nil
}

// renderCommand converts a JSON document back to todo.txt lines.
func (a *app) renderCommand(args []string) error {
	fs := a.newFlagSet("render")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("render requires exactly one JSON file (or - for stdin)")
	}

	var (
		doc *todo.Document
		err error
	)
	if path := fs.Arg(0); path == stdinPath {
		doc, err = todo.ReadDocument(a.stdin)
	} else {
		doc, err = todo.LoadDocument(path)
	}
	if err != nil {
		return err
	}
	return doc.File().Write(a.stdout)
}

// validateCommand parses a todo.txt file and validates its JSON export.
func (a *app) validateCommand(args []string) error {
	fs := a.newFlagSet("validate")
	minimal := fs.Bool("minimal", false, "Skip JSON schema validation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := a.todoPath(fs.Args())
	if err != nil {
		return err
	}
	file, err := a.load(path)
	if err != nil {
		return err
	}

	cfg := a.cfg.Config
	result := file.Export().Validate(todo.ValidationOptions{
		SchemaPath: cfg.SchemaFile,
		Minimal:    *minimal,
		Strict:     cfg.Strict,
	})
	for _, w := range result.Warnings {
		a.logger.Warn(w)
	}
	if !result.Valid {
		for _, e := range result.Errors {
			a.logger.Error("Validation failed", "err", e)
		}
		return fmt.Errorf("%s: %d validation error(s)", file.Source, len(result.Errors))
	}

	mode := "minimal checks"
	if result.UsedSchema {
		mode = "schema"
	}
	fmt.Fprintf(a.stdout, "%s: %d tasks valid (%s)\n", file.Source, len(file.Entries), mode)
	return nil
}

// lsCommand lists tasks, optionally filtered.
func (a *app) lsCommand(args []string) error {
	fs := a.newFlagSet("ls")
	projectTag := fs.String("project", "", "Only tasks tagged +project")
	contextTag := fs.String("context", "", "Only tasks tagged @context")
	done := fs.Bool("done", false, "Only completed tasks")
	pending := fs.Bool("pending", false, "Only pending tasks")
	byPriority := fs.Bool("p", false, "Sort by priority")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *done && *pending {
		return fmt.Errorf("-done and -pending are mutually exclusive")
	}
	path, err := a.todoPath(fs.Args())
	if err != nil {
		return err
	}
	file, err := a.load(path)
	if err != nil {
		return err
	}

	entries := file.Filter(func(t todotxt.Task) bool {
		if *projectTag != "" && !t.HasProject(strings.TrimPrefix(*projectTag, "+")) {
			return false
		}
		if *contextTag != "" && !t.HasContext(strings.TrimPrefix(*contextTag, "@")) {
			return false
		}
		if *done && !t.Completed {
			return false
		}
		if *pending && t.Completed {
			return false
		}
		return true
	})
	if *byPriority {
		sortByPriority(entries)
	}

	if a.cfg.Config.JSONOutput() {
		return (&todo.File{Source: file.Source, Entries: entries}).Export().WriteJSON(a.stdout)
	}
	printTaskList(a.stdout, entries)
	c := file.Counts()
	fmt.Fprintf(a.stdout, "--\n%d of %d tasks shown\n", len(entries), c.Total)
	return nil
}

// nextCommand prints the task to work on next.
func (a *app) nextCommand(args []string) error {
	path, err := a.todoPath(args)
	if err != nil {
		return err
	}
	file, err := a.load(path)
	if err != nil {
		return err
	}
	next := file.Next()
	if next == nil {
		fmt.Fprintln(a.stdout, "No pending tasks.")
		return nil
	}
	printTaskList(a.stdout, []todo.Entry{*next})
	return nil
}

// addCommand appends a task to the todo file.
func (a *app) addCommand(args []string) error {
	fs := a.newFlagSet("add")
	dated := fs.Bool("date", false, "Prefix today's date as the creation date")
	if err := fs.Parse(args); err != nil {
		return err
	}
	text := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if text == "" {
		return fmt.Errorf("add requires task text")
	}

	path := a.cfg.Config.TodoFile
	file, err := a.loadOrEmpty(path)
	if err != nil {
		return err
	}

	task := todotxt.Parse(text)
	if *dated && task.CreationDate == nil {
		today := todotxt.DateOf(now())
		task.CreationDate = &today
	}
	entry := file.Add(task)
	if err := a.save(file, path); err != nil {
		return err
	}
	a.logger.Info("Added task", "line", entry.Line)
	printTaskList(a.stdout, []todo.Entry{entry})
	return nil
}

// doCommand completes the tasks on the given lines.
func (a *app) doCommand(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("do requires at least one line number")
	}
	path := a.cfg.Config.TodoFile
	file, err := a.load(path)
	if err != nil {
		return err
	}

	today := todotxt.DateOf(now())
	var completed []todo.Entry
	for _, arg := range args {
		line, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid line number %q", arg)
		}
		if err := file.Complete(line, today); err != nil {
			return err
		}
		completed = append(completed, *file.Get(line))
	}
	if err := a.save(file, path); err != nil {
		return err
	}
	a.logger.Info("Completed tasks", "count", len(completed))
	printTaskList(a.stdout, completed)
	return nil
}

// archiveCommand moves completed tasks to the done file.
func (a *app) archiveCommand(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %v", args)
	}
	cfg := a.cfg.Config
	file, err := a.load(cfg.TodoFile)
	if err != nil {
		return err
	}

	done := file.Archive()
	if len(done) == 0 {
		fmt.Fprintln(a.stdout, "Nothing to archive.")
		return nil
	}
	// Append first so a failed save never loses tasks.
	if err := todo.Append(cfg.DoneFile, done); err != nil {
		return err
	}
	if err := file.Save(cfg.TodoFile); err != nil {
		return err
	}
	a.logger.Info("Archived tasks", "count", len(done), "done_file", cfg.DoneFile)
	fmt.Fprintf(a.stdout, "Archived %d task(s) to %s\n", len(done), cfg.DoneFile)
	return nil
}

// tuiCommand launches the TUI.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	fs := a.newFlagSet("tui")
	interval := fs.Duration("refresh", ui.DefaultRefreshInterval, "Reload interval")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, err := a.todoPath(fs.Args())
	if err != nil {
		return err
	}
	return ui.RunTUI(ctx, a.cfg.Config, path, ui.WithRefreshInterval(*interval))
}

// configCommand prints an example config or the effective configuration.
func (a *app) configCommand(args []string) error {
	fs := a.newFlagSet("config")
	showSources := fs.Bool("sources", false, "Show effective values and where they came from")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*showSources {
		fmt.Fprint(a.stdout, config.ExampleConfig())
		return nil
	}

	cfg := a.cfg.Config
	values := map[string]string{
		"todo_file":      cfg.TodoFile,
		"done_file":      cfg.DoneFile,
		"schema_file":    cfg.SchemaFile,
		"output_format":  cfg.OutputFormat,
		"strict":         strconv.FormatBool(cfg.Strict),
		"log_level":      cfg.LogLevel,
		"log_format":     cfg.LogFormat,
		"log_timestamps": strconv.FormatBool(cfg.LogTimestamps),
		"log_caller":     strconv.FormatBool(cfg.LogCaller),
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(a.stdout, "%-15s = %-40q # %s\n", k, values[k], a.cfg.Sources[k])
	}
	if file := a.cfg.GetConfigFile(); file != "" {
		fmt.Fprintf(a.stdout, "\nConfig file: %s\n", file)
	}
	return nil
}

// versionCommand prints version information.
func (a *app) versionCommand() error {
	fmt.Fprintf(a.stdout, "todotxt version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "todotxt - Parse, validate and manage todo.txt files")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  todotxt [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  ls [file]         List tasks (default command)")
	fmt.Fprintln(w, "  parse [file|-]    Show the parsed fields of every task")
	fmt.Fprintln(w, "  render <json|->   Convert a JSON export back to todo.txt")
	fmt.Fprintln(w, "  validate [file]   Validate the JSON export of a todo.txt file")
	fmt.Fprintln(w, "  next [file]       Show the next task to work on")
	fmt.Fprintln(w, "  add <text>        Add a task to the todo file")
	fmt.Fprintln(w, "  do <line>...      Complete tasks by line number")
	fmt.Fprintln(w, "  archive           Move completed tasks to the done file")
	fmt.Fprintln(w, "  tui [file]        Launch terminal UI")
	fmt.Fprintln(w, "  config            Show example configuration")
	fmt.Fprintln(w, "  version           Show version information")
	fmt.Fprintln(w, "  help              Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options (use with 'ls' command):")
	fmt.Fprintln(w, "  -project string   Only tasks tagged +project")
	fmt.Fprintln(w, "  -context string   Only tasks tagged @context")
	fmt.Fprintln(w, "  -done, -pending   Only completed or pending tasks")
	fmt.Fprintln(w, "  -p                Sort by priority")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Other Options:")
	fmt.Fprintln(w, "  parse -e string   Parse a single line")
	fmt.Fprintln(w, "  validate -minimal Skip JSON schema validation")
	fmt.Fprintln(w, "  add -date         Prefix today's date")
	fmt.Fprintln(w, "  config -sources   Show effective values and their sources")
	fmt.Fprintln(w, "  tui -refresh dur  Reload interval (default 1s)")
}

// printTaskList prints entries with their line numbers.
func printTaskList(w io.Writer, entries []todo.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%3d %s\n", e.Line, todotxt.Render(e.Task))
	}
}

// printTaskDetail prints every parsed field of an entry.
func printTaskDetail(w io.Writer, e todo.Entry) {
	t := e.Task
	fmt.Fprintf(w, "line %d: %s\n", e.Line, t.Description)
	fmt.Fprintf(w, "  completed: %v\n", t.Completed)
	if t.Priority != nil {
		fmt.Fprintf(w, "  priority: %s\n", t.Priority)
	}
	if t.CompletionDate != nil {
		fmt.Fprintf(w, "  completion date: %s\n", t.CompletionDate)
	}
	if t.CreationDate != nil {
		fmt.Fprintf(w, "  creation date: %s\n", t.CreationDate)
	}
	if len(t.Projects) > 0 {
		fmt.Fprintf(w, "  projects: %s\n", strings.Join(t.Projects, ", "))
	}
	if len(t.Contexts) > 0 {
		fmt.Fprintf(w, "  contexts: %s\n", strings.Join(t.Contexts, ", "))
	}
	if len(t.KeyValues) > 0 {
		keys := make([]string, 0, len(t.KeyValues))
		for k := range t.KeyValues {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %s: %s\n", k, t.KeyValues[k])
		}
	}
}

// sortByPriority orders entries by priority, unprioritized last, then by line.
func sortByPriority(entries []todo.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		pi, pj := entries[i].Task.Priority, entries[j].Task.Priority
		switch {
		case pi != nil && pj != nil && *pi != *pj:
			return *pi < *pj
		case pi != nil && pj == nil:
			return true
		case pi == nil && pj != nil:
			return false
		}
		return entries[i].Line < entries[j].Line
	})
}
