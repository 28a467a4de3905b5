package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lmeriaux/todo/internal/config"
	"github.com/lmeriaux/todo/internal/model"
	"github.com/lmeriaux/todo/internal/storage"
	"github.com/lmeriaux/todo/internal/store"
	"github.com/lmeriaux/todo/internal/tui"
	"github.com/lmeriaux/todo/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	Group bool // list grouped by pending/done
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	cfg, err := config.Load()
	if err != nil {
		ui.SetTheme(config.DefaultTheme)
		ui.Fail("config: " + err.Error())
		return 1
	}
	ui.SetTheme(cfg.Theme)

	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		PrintHelp()
		return 0
	}

	backend, err := openBackend(cfg)
	if err != nil {
		ui.Fail("storage: " + err.Error())
		return 1
	}
	defer backend.Close()
	st := store.New(backend, store.WithLogger(newLogger(cfg)))

	switch cmd {
	case "ls":
		return doList(st, cfg, a, opt)

	case "add":
		if len(a) == 0 {
			ui.Fail("usage: todo add [--due DATE] [--cat CATEGORY] [--prio PRIORITY] <title...>")
			return 2
		}
		return doAdd(st, a)

	case "done":
		id, code := resolveIndexArg(st, "done", a)
		if code != 0 {
			return code
		}
		st.ToggleComplete(id)
		ui.OK("toggled")
		return 0

	case "rm":
		id, code := resolveIndexArg(st, "rm", a)
		if code != 0 {
			return code
		}
		st.Delete(id)
		ui.OK("removed")
		return 0

	case "edit":
		return doEdit(st, a)

	case "mv":
		return doMove(st, a)

	case "tui":
		if err := tui.Run(st, cfg.DefaultSort); err != nil {
			ui.Fail("tui: " + err.Error())
			return 1
		}
		return 0
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func PrintHelp() {
	fmt.Printf(`todo - a tiny task list

Usage:
  todo <subcommand> [args]

Subcommands:
  add [flags] <title...>   Add a new item (title can be multiple words)
      --due DATE           Due date: 2006-01-02 or 2006-01-02T15:04
      --cat CATEGORY       personal, work, shopping, health, other
      --prio PRIORITY      low, medium (default), high
  ls [flags]               List items
      --cat FILTER         all (default) or a category
      --status FILTER      all (default), active, done
      --sort KEY           manual, due, prio, created
  done <index>             Toggle done for item at 1-based index
  rm <index>               Remove item at 1-based index
  edit <index> <title...>  Rename item at 1-based index
  mv <from> <to>           Move item to another position
  tui                      Interactive list

Examples:
  todo add --due 2026-09-01 --cat work --prio high "File expense report"
  todo ls --status active --sort due
  todo done 2
  todo mv 3 1
`)
}

// newLogger builds the shared logger from config.
func newLogger(cfg *config.Config) *log.Logger {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.WarnLevel
	}
	formatter := log.TextFormatter
	if cfg.LogFormat == "json" {
		formatter = log.JSONFormatter
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:     level,
		Formatter: formatter,
		Prefix:    "todo",
	})
}

func openBackend(cfg *config.Config) (storage.Backend, error) {
	if cfg.Backend == "sqlite" {
		return storage.NewSQLite(cfg.DataFile)
	}
	return storage.NewFile(cfg.DataFile), nil
}

// -------------- subcommand impls ----------------

func doList(st *store.Store, cfg *config.Config, args []string, opt Options) int {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	catFlag := fs.String("cat", "all", "category filter")
	statusFlag := fs.String("status", "all", "status filter")
	sortFlag := fs.String("sort", cfg.DefaultSort, "sort key")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var cat *model.Category
	if *catFlag != "all" {
		c, err := model.ParseCategory(*catFlag)
		if err != nil {
			ui.Fail("ls: " + err.Error())
			return 2
		}
		cat = &c
	}
	status, err := store.ParseStatusFilter(*statusFlag)
	if err != nil {
		ui.Fail("ls: " + err.Error())
		return 2
	}
	sortKey, err := store.ParseSortKey(*sortFlag)
	if err != nil {
		ui.Fail("ls: " + err.Error())
		return 2
	}

	all := st.Snapshot()
	items := store.SortBy(store.FilterByStatus(store.FilterByCategory(all, cat), status), sortKey)

	// Header + progress over the whole collection, not the filtered view
	d, p := stats(all)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(ui.Current().Title, "Todos"),
		ui.C(ui.Current().Success, "✔"), d,
		ui.C(ui.Current().Pending, "•"), p,
		ui.C(ui.Current().Accent, "Total"), len(all),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, ui.C(ui.Current().Muted, ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	if opt.Group {
		lines = append(lines, groupLines(items)...)
	} else {
		lines = append(lines, flatLines(items)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(ui.Current().Muted, "Tip: add with `todo add \"Buy milk\"`"))
	ui.Panel(lines)
	return 0
}

func doAdd(st *store.Store, args []string) int {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	dueFlag := fs.String("due", "", "due date")
	catFlag := fs.String("cat", "", "category")
	prioFlag := fs.String("prio", "", "priority")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	title := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if title == "" {
		ui.Fail("add: empty title")
		return 2
	}

	var due *time.Time
	if *dueFlag != "" {
		d, err := parseDue(*dueFlag)
		if err != nil {
			ui.Fail("add: " + err.Error())
			return 2
		}
		due = &d
	}
	var cat *model.Category
	if *catFlag != "" {
		c, err := model.ParseCategory(*catFlag)
		if err != nil {
			ui.Fail("add: " + err.Error())
			return 2
		}
		cat = &c
	}
	var prio model.Priority
	if *prioFlag != "" {
		p, err := model.ParsePriority(*prioFlag)
		if err != nil {
			ui.Fail("add: " + err.Error())
			return 2
		}
		prio = p
	}

	if _, err := st.Create(title, due, cat, prio); err != nil {
		ui.Fail("add: " + err.Error())
		return 2
	}
	ui.OK("added")
	return 0
}

func doEdit(st *store.Store, args []string) int {
	if len(args) < 2 {
		ui.Fail("usage: todo edit <index> <title...>")
		return 2
	}
	id, code := resolveIndex(st, "edit", args[0])
	if code != 0 {
		return code
	}
	title := strings.TrimSpace(strings.Join(args[1:], " "))
	if title == "" {
		ui.Fail("edit: empty title")
		return 2
	}
	st.Update(id, store.Patch{Title: &title})
	ui.OK("renamed")
	return 0
}

func doMove(st *store.Store, args []string) int {
	if len(args) != 2 {
		ui.Fail("usage: todo mv <from> <to>")
		return 2
	}
	movedID, code := resolveIndex(st, "mv", args[0])
	if code != 0 {
		return code
	}
	targetID, code := resolveIndex(st, "mv", args[1])
	if code != 0 {
		return code
	}
	st.Reorder(movedID, targetID)
	ui.OK("moved")
	return 0
}

// resolveIndexArg expects exactly one argument: a 1-based index into the
// manual-order listing.
func resolveIndexArg(st *store.Store, cmd string, args []string) (string, int) {
	if len(args) != 1 {
		ui.Fail(fmt.Sprintf("usage: todo %s <index>", cmd))
		return "", 2
	}
	return resolveIndex(st, cmd, args[0])
}

// resolveIndex maps a 1-based index into the manual-order listing to the
// item's id. The store itself is id-keyed; indexes are CLI convenience.
func resolveIndex(st *store.Store, cmd, arg string) (string, int) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		ui.Fail(cmd + ": not a number: " + arg)
		return "", 2
	}
	items := store.SortBy(st.Snapshot(), store.SortManual)
	if n < 1 || n > len(items) {
		ui.Fail(fmt.Sprintf("index out of range: have %d, got %d", len(items), n))
		fmt.Fprintln(os.Stderr, ui.C("\033[90m", "Hint: run `todo ls` to see valid indexes"))
		return "", 2
	}
	return items[n-1].ID, 0
}

func parseDue(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01-02T15:04", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid due date %q, use 2006-01-02 or 2006-01-02T15:04", s)
}

// -------------- rendering helpers --------------

func stats(items []model.Item) (done, pending int) {
	for _, it := range items {
		if it.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

func flatLines(items []model.Item) []string {
	if len(items) == 0 {
		return []string{ui.C(ui.Current().Muted, "no items")}
	}
	now := time.Now()
	out := make([]string, 0, len(items))
	for i, it := range items {
		out = append(out, ui.ItemLine(i+1, it, now))
	}
	return out
}

func groupLines(items []model.Item) []string {
	pend := store.FilterByStatus(items, store.StatusActive)
	done := store.FilterByStatus(items, store.StatusCompleted)

	var lines []string
	lines = append(lines, ui.C(ui.Current().Accent, "Pending"))
	if len(pend) == 0 {
		lines = append(lines, ui.C(ui.Current().Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(ui.Current().Accent, "Done"))
	if len(done) == 0 {
		lines = append(lines, ui.C(ui.Current().Muted, "(none)"))
	} else {
		lines = append(lines, flatLines(done)...)
	}
	return lines
}
