package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/pathlen/internal/config"
	"github.com/sadopc/pathlen/internal/pathlength"
	"github.com/sadopc/pathlen/internal/remote"
	"github.com/sadopc/pathlen/internal/report"
	"github.com/sadopc/pathlen/internal/search"
	"github.com/sadopc/pathlen/internal/ui"
	"golang.org/x/term"
)

var (
	version = "dev"
)

const (
	defaultSSHPort    = 22
	defaultSSHTimeout = 15 * time.Second
	exitInterrupted   = 130

	formatText = "text"
	formatCSV  = "csv"
	formatJSON = "json"
)

var errInterrupted = errors.New("search cancelled")

// cliFlags holds the raw flag values. Only flags the user actually set
// override the config file.
type cliFlags struct {
	configPath string
	minLen     int
	maxLen     int
	unit       string
	pattern    string
	types      string
	topOnly    bool
	replace    string
	urlEncode  bool
	strategy   string
	output     string
	format     string
	sort       string
	noLength   bool
	exportPath string
	importPath string
	tui        bool
	sshPort    int
	sshBatch   bool
	sshTimeout int
	verbose    bool
}

// outputConfig controls how results are printed.
type outputConfig struct {
	Type          config.OutputType
	Format        string
	Sort          report.SortConfig
	Sorted        bool
	IncludeLength bool
}

// settings is the merged configuration: defaults, then the config file,
// then flags, then the positional target, then key=value parameters.
type settings struct {
	Options pathlength.Options
	Output  outputConfig
	SSH     remote.Config
}

func main() {
	var f cliFlags
	flag.StringVar(&f.configPath, "config", "", "Read defaults from a TOML file")
	flag.IntVar(&f.minLen, "min", 0, "Minimum path length, inclusive (negative = no minimum)")
	flag.IntVar(&f.maxLen, "max", pathlength.MaxPathLengthLimit, "Maximum path length, inclusive (negative = no maximum)")
	flag.StringVar(&f.unit, "unit", "runes", "Length unit: runes, utf16, bytes, graphemes or columns")
	flag.StringVar(&f.pattern, "pattern", "*", "Glob matched against entry names")
	flag.StringVar(&f.types, "types", "all", "Entry types to list: files, directories or all")
	flag.BoolVar(&f.topOnly, "top", false, "List direct children of the root only")
	flag.StringVar(&f.replace, "replace", "", "Replace the root directory text in every path with this value")
	flag.BoolVar(&f.urlEncode, "url-encode", false, "Percent-encode paths before measuring them")
	flag.StringVar(&f.strategy, "strategy", "fast", "Traversal strategy: fast (stop on unreadable dirs) or safe (skip them)")
	flag.StringVar(&f.output, "output", "paths", "Output: paths, min, max or summary")
	flag.StringVar(&f.format, "format", formatText, "Path output format: text, csv or json")
	flag.StringVar(&f.sort, "sort", "", "Sort paths by length or path (prefix - or + to force the order)")
	flag.BoolVar(&f.noLength, "no-length", false, "Print paths without their lengths")
	flag.StringVar(&f.exportPath, "export", "", "Export results to JSON file (use '-' for stdout)")
	flag.StringVar(&f.importPath, "import", "", "Read results from a JSON export instead of searching")
	flag.BoolVar(&f.tui, "tui", false, "Browse results in the interactive viewer")
	flag.IntVar(&f.sshPort, "ssh-port", defaultSSHPort, "SSH port for remote searches")
	flag.BoolVar(&f.sshBatch, "ssh-batch", false, "Disable SSH password prompts (key/agent auth only)")
	flag.IntVar(&f.sshTimeout, "ssh-timeout", int(defaultSSHTimeout/time.Second), "SSH connection timeout in seconds")
	flag.BoolVar(&f.verbose, "v", false, "Log search diagnostics to stderr")
	showVersion := flag.Bool("version", false, "Show version")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pathlen - List paths and their lengths\n\n")
		fmt.Fprintf(os.Stderr, "Usage: pathlen [options] [path|user@host [remote-path]] [Key=Value ...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nParameters:\n")
		fmt.Fprintf(os.Stderr, "  RootDirectory, RootDirectoryReplacement (null = none), SearchOption (TopDirectory|AllDirectories),\n")
		fmt.Fprintf(os.Stderr, "  TypesToInclude (OnlyFiles|OnlyDirectories|All), SearchPattern, MinLength, MaxLength,\n")
		fmt.Fprintf(os.Stderr, "  Output (Paths|MinLength|MaxLength), UrlEncodePaths, Strategy\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pathlen -min 260 C:\\Projects         Paths of 260 characters or more\n")
		fmt.Fprintf(os.Stderr, "  pathlen -output max .                 Length of the longest path\n")
		fmt.Fprintf(os.Stderr, "  pathlen -format csv -sort length .    CSV, longest first\n")
		fmt.Fprintf(os.Stderr, "  pathlen RootDirectory=/srv MinLength=200 Output=MaxLength\n")
		fmt.Fprintf(os.Stderr, "  pathlen -replace X: /mnt/share        Measure paths as seen from a mapped drive\n")
		fmt.Fprintf(os.Stderr, "  pathlen -export scan.json .           Export results to JSON\n")
		fmt.Fprintf(os.Stderr, "  pathlen -import scan.json -tui        Browse exported results\n")
		fmt.Fprintf(os.Stderr, "  pathlen -ssh-port 2222 user@host /var Search a remote host over SFTP\n")
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("pathlen %s\n", version)
		os.Exit(0)
	}

	set := make(map[string]bool)
	flag.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	err := run(f, set, flag.Args())
	switch {
	case err == nil:
	case errors.Is(err, errInterrupted):
		fmt.Fprintln(os.Stderr, "Search cancelled")
		os.Exit(exitInterrupted)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(f cliFlags, set map[string]bool, args []string) error {
	logger := newLogger(f.verbose)
	targets, params := splitPositional(args)

	var file *config.File
	if f.configPath != "" {
		var err error
		if file, err = config.Load(f.configPath); err != nil {
			return err
		}
		logger.Debug("loaded config file", "path", f.configPath)
	}

	if f.importPath != "" {
		if len(targets) > 0 {
			return errors.New("-import cannot be used with search targets")
		}
		s, err := resolveSettings(f, set, file, searchTarget{}, params)
		if err != nil {
			return err
		}
		return runImport(os.Stdout, f, s.Output)
	}

	target, err := resolveSearchTarget(targets)
	if err != nil {
		return err
	}
	s, err := resolveSettings(f, set, file, target, params)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var fsys search.FileSystem
	if target.Remote {
		s.SSH.Target = target.SSHDestination
		logger.Debug("connecting", "target", s.SSH.Target, "port", s.SSH.Port, "batch", s.SSH.BatchMode)
		rfs, err := remote.Connect(ctx, s.SSH)
		if err != nil {
			return err
		}
		defer rfs.Close()

		root, err := rfs.ResolveRoot(s.Options.RootDirectory)
		if err != nil {
			return err
		}
		s.Options.RootDirectory = root
		fsys = rfs
	}

	if f.tui {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("-tui requires a terminal")
		}
		app := ui.NewApp(s.Options, fsys)
		if f.exportPath != "" && f.exportPath != "-" {
			app.ExportJSONPath = f.exportPath
		}
		return runTUI(app)
	}

	return runSearch(ctx, os.Stdout, s, fsys, f.exportPath, logger)
}

func resolveSettings(f cliFlags, set map[string]bool, file *config.File, target searchTarget, params []string) (settings, error) {
	s := settings{
		Options: pathlength.DefaultOptions(),
		Output:  outputConfig{IncludeLength: true},
		SSH:     remote.Config{Port: defaultSSHPort, Timeout: defaultSSHTimeout},
	}
	outputName, formatName, sortName := "paths", formatText, ""

	if file != nil {
		if err := file.Apply(&s.Options); err != nil {
			return s, fmt.Errorf("config: %w", err)
		}
		if file.Output.Type != nil {
			outputName = *file.Output.Type
		}
		if file.Output.Format != nil {
			formatName = *file.Output.Format
		}
		if file.Output.Sort != nil {
			sortName = *file.Output.Sort
		}
		if file.Output.NoLength != nil {
			s.Output.IncludeLength = !*file.Output.NoLength
		}
		if file.SSH.Port != nil {
			s.SSH.Port = *file.SSH.Port
		}
		if file.SSH.Batch != nil {
			s.SSH.BatchMode = *file.SSH.Batch
		}
		timeout, err := file.SSHTimeout(s.SSH.Timeout)
		if err != nil {
			return s, fmt.Errorf("config: %w", err)
		}
		s.SSH.Timeout = timeout
	}

	opts := &s.Options
	if set["min"] {
		opts.MinimumPathLength = f.minLen
	}
	if set["max"] {
		opts.MaximumPathLength = f.maxLen
	}
	if set["unit"] {
		u, err := pathlength.ParseLengthUnit(f.unit)
		if err != nil {
			return s, err
		}
		opts.Unit = u
	}
	if set["pattern"] {
		opts.SearchPattern = f.pattern
	}
	if set["types"] {
		t, err := search.ParseFileSystemTypes(f.types)
		if err != nil {
			return s, err
		}
		opts.TypesToGet = t
	}
	if set["top"] {
		opts.Recursive = !f.topOnly
	}
	if set["replace"] {
		opts.RootDirectoryReplacement = search.Replace(f.replace)
	}
	if set["url-encode"] {
		opts.URLEncodePaths = f.urlEncode
	}
	if set["strategy"] {
		st, err := search.ParseStrategy(f.strategy)
		if err != nil {
			return s, err
		}
		opts.Strategy = st
	}
	if set["output"] {
		outputName = f.output
	}
	if set["format"] {
		formatName = f.format
	}
	if set["sort"] {
		sortName = f.sort
	}
	if set["no-length"] {
		s.Output.IncludeLength = !f.noLength
	}
	if set["ssh-port"] {
		s.SSH.Port = f.sshPort
	}
	if set["ssh-batch"] {
		s.SSH.BatchMode = f.sshBatch
	}
	if set["ssh-timeout"] {
		if f.sshTimeout < 0 {
			return s, errors.New("ssh-timeout must be >= 0")
		}
		s.SSH.Timeout = time.Duration(f.sshTimeout) * time.Second
	}

	switch {
	case target.Remote:
		opts.RootDirectory = target.RemotePath
	case target.LocalPath != "":
		opts.RootDirectory = target.LocalPath
	}

	outputType, err := config.ParseOutputType(outputName)
	if err != nil {
		return s, err
	}
	args, err := config.ParseArgs(params, s.Options)
	if err != nil {
		return s, err
	}
	s.Options = args.Options
	if args.Set["Output"] {
		outputType = args.Output
	}
	if s.Options.RootDirectory == "" {
		s.Options.RootDirectory = "."
	}
	s.Output.Type = outputType

	switch format := strings.ToLower(strings.TrimSpace(formatName)); format {
	case formatText, formatCSV, formatJSON:
		s.Output.Format = format
	default:
		return s, fmt.Errorf("unknown format %q (want text, csv or json)", formatName)
	}

	sortCfg, sorted, err := report.ParseSort(sortName)
	if err != nil {
		return s, err
	}
	s.Output.Sort, s.Output.Sorted = sortCfg, sorted

	if s.SSH.Port < 1 || s.SSH.Port > 65535 {
		return s, errors.New("ssh-port must be between 1 and 65535")
	}
	return s, nil
}

// runSearch performs one search and prints or exports its result. Lines
// printed before a traversal error or an interrupt stay printed.
func runSearch(ctx context.Context, w io.Writer, s settings, fsys search.FileSystem, exportPath string, logger *slog.Logger) error {
	counters := &search.Counters{}
	checker := &pathlength.Checker{Retriever: &search.Retriever{FS: fsys, Counters: counters}}

	opts := s.Options
	logger.Info("search starting",
		"root", opts.RootDirectory,
		"pattern", opts.SearchPattern,
		"recursive", opts.Recursive,
		"types", opts.TypesToGet,
		"strategy", opts.Strategy,
		"unit", opts.Unit,
		"min", opts.MinimumPathLength,
		"max", opts.MaximumPathLength)

	seq, err := checker.PathsWithLengths(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		p := counters.Snapshot()
		logger.Info("search finished",
			"visited", p.Visited,
			"dirs", p.DirsListed,
			"matched", p.Matched,
			"skipped", p.Skipped,
			"duration", p.Duration)
	}()

	collect := exportPath != "" || s.Output.Sorted ||
		(s.Output.Type == config.OutputPaths && s.Output.Format == formatJSON)

	var searchErr error
	if !collect {
		searchErr = writeOutput(w, seq, s.Output)
	} else {
		started := time.Now()
		paths, err := pathlength.Collect(seq)
		res := &report.Result{
			Options:   opts,
			Paths:     paths,
			Cancelled: ctx.Err() != nil,
			ScanID:    report.NewScanID(),
			Timestamp: started,
		}
		switch {
		case err != nil:
			// Partial results are shown but never exported.
			if exportPath == "" {
				if perr := printResult(w, res, s.Output); perr != nil {
					return perr
				}
			}
			searchErr = err
		case exportPath != "":
			if err := exportResult(w, res, exportPath); err != nil {
				return err
			}
		default:
			if err := printResult(w, res, s.Output); err != nil {
				return err
			}
		}
	}

	if searchErr != nil {
		return searchErr
	}
	if ctx.Err() != nil {
		return errInterrupted
	}
	return nil
}

func runImport(w io.Writer, f cliFlags, out outputConfig) error {
	if f.tui {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("-tui requires a terminal")
		}
		return runTUI(ui.NewAppFromImport(f.importPath))
	}

	res, err := report.ImportJSON(f.importPath)
	if err != nil {
		return fmt.Errorf("importing: %w", err)
	}
	if f.exportPath != "" {
		return exportResult(w, res, f.exportPath)
	}
	return printResult(w, res, out)
}

func runTUI(app *ui.App) error {
	app.Version = version
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return app.FatalError()
}

// printResult renders an already collected result.
func printResult(w io.Writer, res *report.Result, out outputConfig) error {
	if out.Sorted {
		report.Sort(res.Paths, out.Sort)
	}
	if out.Type == config.OutputPaths && out.Format == formatJSON {
		return report.WriteJSON(w, res, version)
	}
	return writeOutput(w, report.Seq(res.Paths), out)
}

func writeOutput(w io.Writer, seq iter.Seq2[pathlength.PathInfo, error], out outputConfig) error {
	if out.Type != config.OutputPaths {
		sum, err := pathlength.Summarize(seq)
		if err != nil {
			return err
		}
		return writeSummary(w, sum, out.Type)
	}

	var err error
	if out.Format == formatCSV {
		_, err = report.WriteCSV(w, seq, out.IncludeLength)
	} else {
		_, err = report.WriteText(w, seq, out.IncludeLength)
	}
	return err
}

// writeSummary prints the shortest or longest length, or all three summary
// values. An empty result prints zeros.
func writeSummary(w io.Writer, sum pathlength.Summary, t config.OutputType) error {
	var err error
	switch t {
	case config.OutputMinLength:
		_, err = fmt.Fprintln(w, sum.Shortest)
	case config.OutputMaxLength:
		_, err = fmt.Fprintln(w, sum.Longest)
	default:
		_, err = fmt.Fprintf(w, "count: %d\nshortest: %d\nlongest: %d\n", sum.Count, sum.Shortest, sum.Longest)
	}
	return err
}

func exportResult(w io.Writer, res *report.Result, path string) error {
	if err := report.ExportJSON(res, path, version); err != nil {
		return fmt.Errorf("export error: %w", err)
	}
	if path != "-" {
		fmt.Fprintf(w, "Exported to %s\n", path)
	}
	return nil
}

func newLogger(verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}
