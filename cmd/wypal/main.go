// Command wypal cleans AI-generated text and shows what changed.
//
// Usage:
//
//	wypal draft.md
//	pbpaste | wypal --changes
//	wypal --diff --line-mode -C 2 notes.txt
//	wypal -o cleaned/ a.md b.txt
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dacharyc/wypal"
	"github.com/dacharyc/wypal/store"
	"github.com/dacharyc/wypal/store/sqlite"
	flag "github.com/spf13/pflag"
)

// Version is set at build time via -ldflags
var Version = "dev"

// Color for the line marker in line mode
const defaultChangeColor = "\033[0;33;1m" // bold yellow

// Exit codes
const (
	exitOK      = 0 // success; with --check, nothing would change
	exitChanged = 1 // --check: cleaning would change the text
	exitError   = 2 // error occurred
)

// cliFlags holds all parsed command-line flags
type cliFlags struct {
	preset      *string
	enable      *string
	disable     *string
	rulesFile   *string
	emDash      *string
	changes     *bool
	diff        *bool
	views       *bool
	html        *bool
	lineByLine  *bool
	context     *int
	lineNumbers *int
	patch       *bool
	statistics  *bool
	colorSpec   *string
	noColor     *bool
	algorithm   *string
	outDir      *string
	statePath   *string
	check       *bool
	interactive *bool
	verbose     *bool
	help        *bool
	version     *bool
}

// prescanProfile extracts --profile value before flag parsing
func prescanProfile() string {
	for i, arg := range os.Args[1:] {
		if arg == "--profile" && i+1 < len(os.Args)-1 {
			return os.Args[i+2]
		}
		if strings.HasPrefix(arg, "--profile=") {
			return strings.TrimPrefix(arg, "--profile=")
		}
	}
	return ""
}

// defineFlags sets up all command-line flags with config defaults
func defineFlags(cfg config) cliFlags {
	_ = flag.String("profile", "", "use settings from ~/.wypalrc.<profile>")

	f := cliFlags{
		preset:      flag.StringP("preset", "p", cfg.preset, "rule preset: "+strings.Join(wypal.PresetNames(), ", ")),
		enable:      flag.StringP("enable", "e", cfg.enable, "comma separated rules to switch on"),
		disable:     flag.StringP("disable", "x", cfg.disable, "comma separated rules to switch off"),
		rulesFile:   flag.StringP("rules", "r", cfg.rulesFile, "YAML or JSON file of rule flags"),
		emDash:      flag.StringP("em-dash", "m", cfg.emDash, "em dash strategy: auto, comma, hyphen, colon, period, remove"),
		changes:     flag.BoolP("changes", "c", cfg.changes, "print the change report to stderr"),
		diff:        flag.BoolP("diff", "d", cfg.diff, "print an inline token diff instead of the cleaned text"),
		views:       flag.Bool("views", cfg.views, "print before and after views instead of the cleaned text"),
		html:        flag.Bool("html", cfg.html, "render diffs and views as HTML spans"),
		lineByLine:  flag.Bool("line-mode", cfg.lineByLine, "diff line by line (implies --diff)"),
		context:     flag.IntP("context", "C", cfg.context, "show N lines of context around changes (implies --line-mode)"),
		lineNumbers: flag.IntP("line-numbers", "L", cfg.lineNumbers, "show line numbers with specified width (0 for auto-width)"),
		patch:       flag.Bool("patch", cfg.patch, "print a patch from the input to the cleaned text"),
		statistics:  flag.BoolP("statistics", "s", cfg.statistics, "print statistics to stderr"),
		colorSpec:   flag.String("color", cfg.colorSpec, "set colors for removed/added text (format: rm_fg[:rm_bg],add_fg[:add_bg], or 'list')"),
		noColor:     flag.Bool("no-color", cfg.noColor, "disable colored output"),
		algorithm:   flag.StringP("algorithm", "A", cfg.algorithm, "diff algorithm: lcs or histogram"),
		outDir:      flag.StringP("out-dir", "o", cfg.outDir, "write <name>-cleaned.txt files into this directory"),
		statePath:   flag.String("state", cfg.statePath, "save and restore the last input (.db/.sqlite for SQLite, JSON otherwise)"),
		check:       flag.Bool("check", false, "exit 1 if cleaning would change any input"),
		interactive: flag.BoolP("interactive", "I", false, "clean paragraphs read from stdin with undo and redo"),
		verbose:     flag.Bool("verbose", cfg.verbose, "log debug details to stderr"),
		help:        flag.BoolP("help", "h", false, "show help"),
		version:     flag.BoolP("version", "v", false, "show version"),
	}

	flag.Lookup("color").NoOptDefVal = "default"
	flag.Lookup("line-numbers").NoOptDefVal = "0"

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [file...]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nClean AI-generated text. Reads stdin when no files are given.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nRules (in execution order):\n")
		fmt.Fprintf(os.Stderr, "  %s\n", joinRuleNames(wypal.RuleNames()))
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s draft.md\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -p light -x links --changes draft.md\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --diff --line-mode -C 2 notes.txt\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -o cleaned/ a.md b.txt\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nExit codes:\n")
		fmt.Fprintf(os.Stderr, "  0  success\n")
		fmt.Fprintf(os.Stderr, "  1  --check: cleaning would change the text\n")
		fmt.Fprintf(os.Stderr, "  2  error occurred\n")
	}

	return f
}

// configFromFlags collects parsed flag values back into a config.
func configFromFlags(f cliFlags) config {
	return config{
		preset:      *f.preset,
		enable:      *f.enable,
		disable:     *f.disable,
		rulesFile:   *f.rulesFile,
		emDash:      *f.emDash,
		changes:     *f.changes,
		diff:        *f.diff,
		views:       *f.views,
		html:        *f.html,
		lineByLine:  *f.lineByLine,
		context:     *f.context,
		lineNumbers: *f.lineNumbers,
		patch:       *f.patch,
		statistics:  *f.statistics,
		colorSpec:   *f.colorSpec,
		noColor:     *f.noColor,
		algorithm:   *f.algorithm,
		outDir:      *f.outDir,
		statePath:   *f.statePath,
		verbose:     *f.verbose,
	}
}

func joinRuleNames(names []wypal.RuleName) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return strings.Join(parts, ", ")
}

// showColorList prints available colors
func showColorList() {
	fmt.Println("Available colors:")
	colors := wypal.ColorNames()
	fmt.Printf("  %s\n", strings.Join(colors[:8], ", "))
	fmt.Printf("  %s\n", strings.Join(colors[8:], ", "))
	fmt.Println("\nUsage: --color removed_color[:removed_bg],added_color[:added_bg]")
	fmt.Println("Example: --color red,green")
}

// parseColors parses the color specification and returns removed/added colors
func parseColors(colorSpec string) (removedColor, addedColor string, err error) {
	removedColor = wypal.ANSIRemovedColor
	addedColor = wypal.ANSIAddedColor
	if colorSpec != "" && colorSpec != "default" {
		return wypal.ParseColorSpec(colorSpec)
	}
	return removedColor, addedColor, nil
}

// fail reports err and returns the error exit code.
func fail(err error) int {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return exitError
}

func main() {
	os.Exit(run())
}

// run does the work of main and returns the exit code, so deferred
// cleanup runs before the process exits.
func run() int {
	// Pre-scan for --profile flag before defining other flags
	profile := prescanProfile()

	configPath, err := findConfigFile(profile)
	if err != nil {
		return fail(err)
	}
	fileCfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config %s: %v\n", configPath, err)
		return exitError
	}

	f := defineFlags(fileCfg)
	flag.Parse()

	if *f.version {
		fmt.Printf("wypal version %s\n", Version)
		return exitOK
	}

	if *f.help {
		flag.Usage()
		return exitOK
	}

	if *f.colorSpec == "list" {
		showColorList()
		return exitOK
	}

	cfg := configFromFlags(f)

	level := slog.LevelWarn
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	rules, err := buildRuleConfig(cfg)
	if err != nil {
		return fail(err)
	}
	if cfg.emDash != "" && !wypal.EmDashStrategy(strings.ToLower(cfg.emDash)).Valid() {
		logger.Warn("unknown em dash strategy, using auto", "strategy", cfg.emDash)
	}

	algorithm, ok := wypal.ParseAlgorithm(cfg.algorithm)
	if !ok {
		return fail(fmt.Errorf("invalid algorithm %q (use lcs or histogram)", cfg.algorithm))
	}

	removedColor, addedColor, err := parseColors(cfg.colorSpec)
	if err != nil {
		return fail(err)
	}
	useColor := !cfg.noColor && !cfg.html && os.Getenv("NO_COLOR") == "" &&
		(isTerminal(os.Stdout) || cfg.colorSpec != "")

	r := newRenderer(cfg, wypal.DiffOptions{Algorithm: algorithm}, wypal.FormatOptions{
		UseColor:     useColor,
		RemovedColor: removedColor,
		AddedColor:   addedColor,
		ColorReset:   wypal.ANSIReset,
		HTML:         cfg.html,
	})

	ctx := context.Background()

	var (
		st        store.Store
		saved     store.State
		haveSaved bool
	)
	if cfg.statePath != "" {
		s, closeStore, err := openStore(cfg.statePath)
		if err != nil {
			return fail(err)
		}
		defer closeStore()
		st = s

		saved, haveSaved, err = st.Load(ctx)
		if err != nil {
			return fail(err)
		}
		if haveSaved && !rulesSelected(cfg, flag.CommandLine.Changed) {
			rules = saved.Options
			logger.Debug("restored saved options", "path", cfg.statePath)
		}
	}
	logger.Debug("rules", "enabled", joinRuleNames(rules.EnabledRules()), "emDash", rules.EmDashStrategy)

	cleaner := wypal.NewCleaner(wypal.DefaultCacheSize)

	if *f.interactive {
		sess := newSession(cleaner, rules, r, st)
		if err := sess.run(ctx, os.Stdin, os.Stdout); err != nil {
			return fail(err)
		}
		return exitOK
	}

	a := app{
		cleaner: cleaner,
		rules:   rules,
		r:       r,
		cfg:     cfg,
		check:   *f.check,
		logger:  logger,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}

	var changed bool
	if flag.NArg() == 0 {
		source, err := readInput(os.Stdin, saved, haveSaved && isTerminal(os.Stdin))
		if err != nil {
			return fail(err)
		}
		changed = a.process("<stdin>", source)
		if st != nil {
			if err := st.Save(ctx, store.State{Input: source, Options: rules}); err != nil {
				return fail(err)
			}
		}
	} else {
		changed, err = a.processFiles(flag.Args())
		if err != nil {
			return fail(err)
		}
	}
	logger.Debug("done", "cached", cleaner.Len())

	if a.check && changed {
		return exitChanged
	}
	return exitOK
}

// rulesSelected reports whether the rc file or the command line chose
// rules. Saved options only apply when nothing did.
func rulesSelected(cfg config, changed func(name string) bool) bool {
	for _, name := range []string{"preset", "enable", "disable", "rules", "em-dash"} {
		if changed(name) {
			return true
		}
	}
	return cfg.preset != defaultConfig().preset || cfg.enable != "" ||
		cfg.disable != "" || cfg.rulesFile != "" || cfg.emDash != ""
}

// openStore picks the SQLite store for .db and .sqlite paths and the JSON
// file store for anything else.
func openStore(path string) (store.Store, func(), error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		s, err := sqlite.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open state %s: %w", path, err)
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return store.NewFileStore(path), func() {}, nil
	}
}

// readInput returns the saved input when useSaved is set, and reads r
// otherwise.
func readInput(r io.Reader, saved store.State, useSaved bool) (string, error) {
	if useSaved {
		return saved.Input, nil
	}
	text, err := readStdin(r)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return text, nil
}

// app runs the cleaner over command-line inputs.
type app struct {
	cleaner *wypal.Cleaner
	rules   wypal.RuleConfig
	r       renderer
	cfg     config
	check   bool
	logger  *slog.Logger
	stdout  io.Writer
	stderr  io.Writer
}

// process cleans one input and writes the selected output. It reports
// whether cleaning changed the text.
func (a app) process(name, source string) bool {
	start := time.Now()
	res := a.cleaner.Clean(source, a.rules)
	elapsed := time.Since(start)
	a.logger.Debug("cleaned", "input", name, "changes", len(res.Changes), "elapsed", elapsed)

	changed := res.Changed(source)
	if a.check {
		if changed {
			fmt.Fprintln(a.stdout, name)
		}
	} else {
		a.r.render(a.stdout, source, res)
	}

	if a.cfg.changes {
		printChanges(a.stderr, res.Changes)
	}
	if a.cfg.statistics {
		printStatistics(a.stderr, wypal.ComputeStatistics(source, res), elapsed,
			wypal.ComputeDiffStatistics(wypal.DiffStrings(source, res.Text, a.r.diffOpts)))
	}
	return changed
}

// processFiles cleans each file. With an output directory each result is
// written to <name>-cleaned.txt and only .txt and .md inputs are accepted.
func (a app) processFiles(paths []string) (bool, error) {
	if a.cfg.outDir != "" {
		if err := os.MkdirAll(a.cfg.outDir, 0o755); err != nil {
			return false, fmt.Errorf("create output directory: %w", err)
		}
	}

	var anyChanged bool
	for i, path := range paths {
		if a.cfg.outDir != "" && !isBatchInput(path) {
			fmt.Fprintf(a.stderr, "Skipping %s: only .txt and .md files are supported\n", path)
			continue
		}

		source, err := readFile(path)
		if err != nil {
			return anyChanged, fmt.Errorf("reading %s: %w", path, err)
		}

		if a.cfg.outDir == "" || a.check {
			if len(paths) > 1 && !a.check {
				if i > 0 {
					fmt.Fprintln(a.stdout)
				}
				fmt.Fprintf(a.stdout, "==> %s <==\n", path)
			}
			if a.process(path, source) {
				anyChanged = true
			}
			continue
		}

		res := a.cleaner.Clean(source, a.rules)
		if res.Changed(source) {
			anyChanged = true
		}
		dest := filepath.Join(a.cfg.outDir, cleanedName(path))
		if err := os.WriteFile(dest, []byte(res.Text), 0o644); err != nil {
			return anyChanged, fmt.Errorf("writing %s: %w", dest, err)
		}
		a.logger.Debug("wrote", "input", path, "output", dest, "changes", len(res.Changes))
		if a.cfg.changes {
			fmt.Fprintf(a.stderr, "%s:\n", path)
			printChanges(a.stderr, res.Changes)
		}
	}
	return anyChanged, nil
}

// isBatchInput reports whether path has an extension batch mode accepts.
func isBatchInput(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return true
	}
	return false
}

// cleanedName maps "notes/draft.md" to "draft-cleaned.txt".
func cleanedName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "-cleaned.txt"
}

// printChanges prints the change report, one description per line
func printChanges(w io.Writer, changes []string) {
	if len(changes) == 0 {
		fmt.Fprintln(w, "No changes")
		return
	}
	for _, c := range changes {
		fmt.Fprintf(w, "- %s\n", c)
	}
}

// printStatistics prints cleaning and diff statistics
func printStatistics(w io.Writer, st wypal.Statistics, elapsed time.Duration, ds wypal.DiffStatistics) {
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "characters removed: %d\n", st.CharactersRemoved)
	fmt.Fprintf(w, "words processed:    %d\n", st.WordsProcessed)
	fmt.Fprintf(w, "readability gain:   %d%%\n", st.ReadabilityGain)
	fmt.Fprintf(w, "AI confidence:      %d%%\n", st.AIConfidence)
	fmt.Fprintf(w, "processing time:    %s\n", elapsed.Round(time.Microsecond))
	fmt.Fprintf(w, "old: %d words  %d %d%% common  %d %d%% removed\n",
		ds.OldWords,
		ds.CommonWords, percent(ds.CommonWords, ds.OldWords),
		ds.RemovedWords, percent(ds.RemovedWords, ds.OldWords))
	fmt.Fprintf(w, "new: %d words  %d %d%% common  %d %d%% added\n",
		ds.NewWords,
		ds.CommonWords, percent(ds.CommonWords, ds.NewWords),
		ds.AddedWords, percent(ds.AddedWords, ds.NewWords))
}

// percent calculates percentage, handling division by zero
func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return (part * 100) / total
}

// readFile reads an entire file into a string
func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// readStdin reads all of r into a string
func readStdin(r io.Reader) (string, error) {
	reader := bufio.NewReader(r)
	var sb strings.Builder
	for {
		line, err := reader.ReadString('\n')
		sb.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

// isTerminal returns true if the file is a terminal
func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
