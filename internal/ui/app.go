// Package ui is the interactive terminal viewer for path length searches.
package ui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/pathlen/internal/pathlength"
	"github.com/sadopc/pathlen/internal/report"
	"github.com/sadopc/pathlen/internal/search"
	"github.com/sadopc/pathlen/internal/ui/components"
	"github.com/sadopc/pathlen/internal/ui/style"
)

// AppState represents the application state.
type AppState int

const (
	StateSearching AppState = iota
	StateBrowsing
	StateHelp
	StateExporting
)

// SearchDoneMsg is sent when a search ends, completed or not.
type SearchDoneMsg struct {
	Paths     []pathlength.PathInfo
	Err       error
	Cancelled bool
	ScanID    string
	Started   time.Time
}

// ExportDoneMsg is sent when export completes.
type ExportDoneMsg struct {
	Path string
	Err  error
}

type tickMsg time.Time

// App is the root Bubble Tea model.
type App struct {
	Options    pathlength.Options
	FS         search.FileSystem
	ImportPath string
	// ExportCSVPath and ExportJSONPath are the targets of the export keys.
	ExportCSVPath  string
	ExportJSONPath string
	Version        string

	state  AppState
	width  int
	height int

	results    []pathlength.PathInfo
	summary    pathlength.Summary
	sorted     bool
	sortConfig report.SortConfig
	cancelled  bool
	scanID     string
	searchedAt time.Time

	cursor int
	offset int

	counters       *search.Counters
	progress       search.Progress
	spinner        spinner.Model
	searchCancel   context.CancelFunc
	searchCancelMu sync.Mutex

	theme  style.Theme
	keys   KeyMap
	layout style.Layout

	statusMsg string
	fatalErr  error
}

func (a *App) setSearchCancel(cancel context.CancelFunc) {
	a.searchCancelMu.Lock()
	a.searchCancel = cancel
	a.searchCancelMu.Unlock()
}

func (a *App) callSearchCancel() {
	a.searchCancelMu.Lock()
	if a.searchCancel != nil {
		a.searchCancel()
	}
	a.searchCancelMu.Unlock()
}

// NewApp creates an App that searches fsys (nil = local disk) with opts.
func NewApp(opts pathlength.Options, fsys search.FileSystem) *App {
	theme := style.DefaultTheme()
	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(theme.SpinnerStyle),
	)
	return &App{
		Options:        opts,
		FS:             fsys,
		ExportCSVPath:  "pathlen-export.csv",
		ExportJSONPath: "pathlen-export.json",
		state:          StateSearching,
		sortConfig:     report.DefaultSort(),
		counters:       &search.Counters{},
		spinner:        sp,
		theme:          theme,
		keys:           DefaultKeyMap(),
	}
}

// NewAppFromImport creates an App that shows a previously exported result.
func NewAppFromImport(importPath string) *App {
	a := NewApp(pathlength.DefaultOptions(), nil)
	a.ImportPath = importPath
	return a
}

func (a *App) Init() tea.Cmd {
	if a.ImportPath != "" {
		return a.importCmd()
	}
	return tea.Batch(a.searchCmd(), a.tickCmd(), a.spinner.Tick)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout = style.NewLayout(msg.Width, msg.Height)
		return a, nil

	case SearchDoneMsg:
		return a.handleSearchDone(msg)

	case importedMsg:
		a.Options = msg.result.Options
		return a.handleSearchDone(SearchDoneMsg{
			Paths:     msg.result.Paths,
			Cancelled: msg.result.Cancelled,
			ScanID:    msg.result.ScanID,
			Started:   msg.result.Timestamp,
		})

	case tickMsg:
		if a.state == StateSearching {
			a.progress = a.counters.Snapshot()
			return a, a.tickCmd()
		}
		return a, nil

	case spinner.TickMsg:
		if a.state != StateSearching {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case ExportDoneMsg:
		a.state = StateBrowsing
		if msg.Err != nil {
			a.statusMsg = fmt.Sprintf("Export failed: %v", msg.Err)
		} else {
			a.statusMsg = fmt.Sprintf("Exported to %s", msg.Path)
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleSearchDone(msg SearchDoneMsg) (tea.Model, tea.Cmd) {
	var te *search.TraversalError
	if msg.Err != nil && !errors.As(msg.Err, &te) {
		// Nothing was searched: bad root, bounds or pattern.
		a.fatalErr = msg.Err
		return a, tea.Quit
	}

	a.fatalErr = nil
	a.results = msg.Paths
	a.summary = pathlength.SummarizeSlice(msg.Paths)
	a.cancelled = msg.Cancelled
	a.scanID = msg.ScanID
	a.searchedAt = msg.Started
	a.progress = a.counters.Snapshot()
	a.cursor = 0
	a.offset = 0
	a.state = StateBrowsing
	if a.sorted {
		report.Sort(a.results, a.sortConfig)
	}

	switch {
	case te != nil:
		a.statusMsg = fmt.Sprintf("Search stopped: %v", msg.Err)
	case msg.Cancelled:
		a.statusMsg = "search cancelled"
	default:
		a.statusMsg = ""
	}
	return a, tea.ClearScreen
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.ForceQuit) {
		a.callSearchCancel()
		return a, tea.Quit
	}

	switch a.state {
	case StateSearching:
		if key.Matches(msg, a.keys.Cancel) {
			// The search goroutine reports what it found so far.
			a.callSearchCancel()
		}
		return a, nil

	case StateHelp:
		if key.Matches(msg, a.keys.Help) || msg.String() == "esc" {
			a.state = StateBrowsing
			return a, tea.ClearScreen
		}
		return a, nil

	case StateBrowsing:
		return a.handleBrowsingKey(msg)
	}

	return a, nil
}

func (a *App) handleBrowsingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.statusMsg = ""
	page := a.layout.ContentHeight()

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.state = StateHelp
		return a, tea.ClearScreen

	case key.Matches(msg, a.keys.Up):
		a.moveCursor(-1)
	case key.Matches(msg, a.keys.Down):
		a.moveCursor(1)
	case key.Matches(msg, a.keys.PageUp):
		a.moveCursor(-page)
	case key.Matches(msg, a.keys.PageDown):
		a.moveCursor(page)
	case key.Matches(msg, a.keys.Top):
		a.moveCursor(-len(a.results))
	case key.Matches(msg, a.keys.Bottom):
		a.moveCursor(len(a.results))

	case key.Matches(msg, a.keys.SortLength):
		a.toggleSort(report.SortByLength)
	case key.Matches(msg, a.keys.SortPath):
		a.toggleSort(report.SortByPath)

	case key.Matches(msg, a.keys.ExportCSV):
		return a, a.exportCSVCmd()
	case key.Matches(msg, a.keys.ExportJSON):
		return a, a.exportJSONCmd()

	case key.Matches(msg, a.keys.Research):
		if a.ImportPath != "" {
			a.statusMsg = "Search is disabled in import mode"
			return a, nil
		}
		a.cursor = 0
		a.offset = 0
		a.state = StateSearching
		return a, tea.Batch(tea.ClearScreen, a.searchCmd(), a.tickCmd(), a.spinner.Tick)
	}

	return a, nil
}

func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	switch a.state {
	case StateSearching:
		return components.RenderSearchProgress(a.theme, a.spinner.View(), a.Options.RootDirectory, a.progress, a.width, a.height)

	case StateHelp:
		return components.RenderHelp(a.theme, a.keys.HelpSections(), a.width, a.height)

	case StateBrowsing, StateExporting:
		return a.renderBrowsing()
	}

	return ""
}

func (a *App) renderBrowsing() string {
	header := components.RenderHeader(a.theme, a.Options.RootDirectory, a.summary, a.Options.Unit, a.width)
	sortBar := components.RenderSortBar(a.theme, components.SortInfo{
		Sorted: a.sorted,
		Config: a.sortConfig,
		Min:    a.Options.MinimumPathLength,
		Max:    a.Options.MaximumPathLength,
		Unit:   a.Options.Unit,
	}, a.width)

	rv := &components.ResultsView{
		Theme:   a.theme,
		Layout:  a.layout,
		Items:   a.results,
		Cursor:  a.cursor,
		Offset:  a.offset,
		Longest: a.summary.Longest,
	}
	rv.EnsureVisible()
	a.offset = rv.Offset
	content := rv.Render()

	statusBar := components.RenderStatusBar(a.theme, components.StatusInfo{
		Summary:   a.summary,
		Cursor:    a.cursor,
		Cancelled: a.cancelled,
		Message:   a.statusMsg,
	}, a.width)

	return header + "\n" + sortBar + "\n" + content + "\n" + statusBar
}

func (a *App) moveCursor(delta int) {
	a.cursor += delta
	if a.cursor >= len(a.results) {
		a.cursor = len(a.results) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// toggleSort switches to field, or reverses the order when field is
// already active. Lengths start longest first, paths start A to Z.
func (a *App) toggleSort(field report.SortField) {
	switch {
	case a.sorted && a.sortConfig.Field == field:
		if a.sortConfig.Order == report.SortDesc {
			a.sortConfig.Order = report.SortAsc
		} else {
			a.sortConfig.Order = report.SortDesc
		}
	case field == report.SortByLength:
		a.sortConfig = report.SortConfig{Field: field, Order: report.SortDesc}
	default:
		a.sortConfig = report.SortConfig{Field: field, Order: report.SortAsc}
	}
	a.sorted = true
	report.Sort(a.results, a.sortConfig)
	a.cursor = 0
	a.offset = 0
}

// searchCmd runs the search in a background goroutine. Progress is read
// from a.counters on every tick.
func (a *App) searchCmd() tea.Cmd {
	opts := a.Options
	fsys := a.FS
	counters := a.counters
	return func() tea.Msg {
		started := time.Now()
		ctx, cancel := context.WithCancel(context.Background())
		a.setSearchCancel(cancel)
		defer cancel()

		checker := &pathlength.Checker{Retriever: &search.Retriever{FS: fsys, Counters: counters}}
		seq, err := checker.PathsWithLengths(ctx, opts)
		if err != nil {
			return SearchDoneMsg{Err: err}
		}
		paths, err := pathlength.Collect(seq)
		return SearchDoneMsg{
			Paths:     paths,
			Err:       err,
			Cancelled: ctx.Err() != nil,
			ScanID:    report.NewScanID(),
			Started:   started,
		}
	}
}

func (a *App) importCmd() tea.Cmd {
	path := a.ImportPath
	return func() tea.Msg {
		res, err := report.ImportJSON(path)
		if err != nil {
			return SearchDoneMsg{Err: err}
		}
		return importedMsg{res}
	}
}

type importedMsg struct{ result *report.Result }

func (a *App) tickCmd() tea.Cmd {
	return tea.Tick(60*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// FatalError returns a fatal search/import error, if any.
func (a *App) FatalError() error { return a.fatalErr }

// Result returns the current results as an exportable value.
func (a *App) Result() *report.Result {
	return &report.Result{
		Options:   a.Options,
		Paths:     a.results,
		Cancelled: a.cancelled,
		ScanID:    a.scanID,
		Timestamp: a.searchedAt,
	}
}

func (a *App) exportCSVCmd() tea.Cmd {
	path := a.ExportCSVPath
	if path == "" {
		path = "pathlen-export.csv"
	}
	paths := append([]pathlength.PathInfo(nil), a.results...)

	a.state = StateExporting
	return func() tea.Msg {
		return ExportDoneMsg{Path: path, Err: report.ExportCSV(paths, path, true)}
	}
}

func (a *App) exportJSONCmd() tea.Cmd {
	path := a.ExportJSONPath
	if path == "" {
		path = "pathlen-export.json"
	}
	res := a.Result()
	res.Paths = append([]pathlength.PathInfo(nil), a.results...)
	version := a.Version

	a.state = StateExporting
	return func() tea.Msg {
		return ExportDoneMsg{Path: path, Err: report.ExportJSON(res, path, version)}
	}
}
