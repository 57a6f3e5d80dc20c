// flake renders Playwright flakiness reports as a spec × configuration matrix.
//
// Usage:
//
//	flake report.json
//	flake -format markdown shard-*.json.gz >> "$GITHUB_STEP_SUMMARY"
//	cat report.json | flake -only flaky
//
// Input is a JSON array of file entries, optionally gzip-compressed, read
// from the named files or from stdin when none (or "-") is given. Several
// reports are concatenated in argument order.
//
// Output modes (auto-detected):
//
//	terminal  styled Unicode output (default when TTY)
//	llm       terse plain text for AI consumption (default when piped)
//	json      visualization patterns as JSON
//	markdown  GitHub-flavored markdown
//	matrix    raw matrix JSON: [["spec", configs...], [spec, cells...], ...]
//	sarif     SARIF 2.1.0, one result per bad or flaky spec
//	tui       interactive browser
//
// Exit codes: 0 all specs good, 1 bad or flaky specs present, 2 usage or
// input error, 3 duplicate configuration within a spec.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/dkoosis/flake/internal/config"
	"github.com/dkoosis/flake/internal/detect"
	"github.com/dkoosis/flake/internal/logging"
	"github.com/dkoosis/flake/internal/tui"
	"github.com/dkoosis/flake/internal/version"
	"github.com/dkoosis/flake/pkg/flakyjson"
	"github.com/dkoosis/flake/pkg/mapper"
	"github.com/dkoosis/flake/pkg/matrix"
	"github.com/dkoosis/flake/pkg/render"
	"github.com/dkoosis/flake/pkg/sarif"
)

const (
	exitOK        = 0
	exitUnstable  = 1
	exitUsage     = 2
	exitDuplicate = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("flake", flag.ContinueOnError)
	fs.SetOutput(stderr)
	formatFlag := fs.String("format", config.DefaultFormat, "Output format: auto, terminal, llm, json, markdown, matrix, sarif, tui")
	themeFlag := fs.String("theme", config.DefaultTheme, "Theme: default, orca, mono")
	noColorFlag := fs.Bool("no-color", false, "Disable colors")
	onlyFlag := fs.String("only", config.DefaultOnly, "Rows to show: all, bad, flaky (bad and flaky)")
	logLevelFlag := fs.String("log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error")
	logFormatFlag := fs.String("log-format", config.DefaultLogFormat, "Log format: text, json")
	configFlag := fs.String("config", "", "Config file (default: .flake.yaml, then $XDG_CONFIG_HOME/flake/.flake.yaml)")
	versionFlag := fs.Bool("version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	if *versionFlag {
		fmt.Fprintf(stdout, "flake %s (%s, %s)\n", version.Version, version.CommitHash, version.BuildDate)
		return exitOK
	}

	flags := config.Flags{
		ConfigPath: *configFlag,
		Format:     *formatFlag,
		Theme:      *themeFlag,
		NoColor:    *noColorFlag,
		Only:       *onlyFlag,
		LogLevel:   *logLevelFlag,
		LogFormat:  *logFormatFlag,
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			flags.FormatSet = true
		case "theme":
			flags.ThemeSet = true
		case "no-color":
			flags.NoColorSet = true
		case "only":
			flags.OnlySet = true
		case "log-level":
			flags.LogLevelSet = true
		case "log-format":
			flags.LogFormatSet = true
		}
	})

	cfg, err := config.Resolve(flags)
	if err != nil {
		fmt.Fprintf(stderr, "flake: %v\n", err)
		return exitUsage
	}

	logging.Init(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat, stderr)
	log := logging.New("cli")
	log.Debug("config resolved",
		slog.String("path", cfg.Path),
		slog.String("format", cfg.Format), slog.String("format_source", string(cfg.FormatSource)),
		slog.String("theme", cfg.Theme), slog.String("theme_source", string(cfg.ThemeSource)),
		slog.Bool("no_color", cfg.NoColor), slog.String("no_color_source", string(cfg.NoColorSource)),
		slog.String("only", cfg.Only), slog.String("only_source", string(cfg.OnlySource)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	entries, err := loadAll(ctx, fs.Args(), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "flake: %v\n", err)
		return exitUsage
	}
	specs, tests := flakyjson.CountTests(entries)
	log.Debug("input loaded", slog.Int("entries", len(entries)), slog.Int("specs", specs), slog.Int("tests", tests))

	m, err := matrix.FromEntries(entries)
	if err != nil {
		fmt.Fprintf(stderr, "flake: %v\n", err)
		var dup *matrix.DuplicateConfigurationError
		if errors.As(err, &dup) {
			return exitDuplicate
		}
		return exitUsage
	}

	mode := resolveFormat(cfg.Format, stdout)
	theme := render.ThemeByName(cfg.Theme)
	if cfg.NoColor {
		theme = render.MonoTheme()
	}

	switch mode {
	case "tui":
		if !isTTYWriter(stdout) {
			fmt.Fprintf(stderr, "flake: -format tui needs a terminal on stdout\n")
			return exitUsage
		}
		if err := tui.Run(ctx, m, theme); err != nil {
			fmt.Fprintf(stderr, "flake: %v\n", err)
			return exitUsage
		}
	case "sarif":
		if _, err := sarif.FromMatrix(filtered(m, cfg), version.Version).WriteTo(stdout); err != nil {
			fmt.Fprintf(stderr, "flake: writing SARIF: %v\n", err)
			return exitUsage
		}
	case "matrix":
		data, err := json.MarshalIndent(filtered(m, cfg), "", "  ")
		if err != nil {
			fmt.Fprintf(stderr, "flake: encoding matrix: %v\n", err)
			return exitUsage
		}
		fmt.Fprintf(stdout, "%s\n", data)
	default:
		patterns := mapper.FromMatrix(m, mapper.Options{Only: cfg.OnlyCategories()})
		fmt.Fprint(stdout, selectRenderer(mode, theme, stdout).Render(patterns))
	}

	return exitCode(m)
}

// filtered applies the -only row filter.
func filtered(m *matrix.Matrix, cfg *config.Resolved) *matrix.Matrix {
	if only := cfg.OnlyCategories(); only != nil {
		return m.Filter(only...)
	}
	return m
}

// loadAll reads every named report concurrently and concatenates the
// entries in argument order. No names, or "-", reads stdin.
func loadAll(ctx context.Context, names []string, stdin io.Reader) ([]flakyjson.RawEntry, error) {
	if len(names) == 0 {
		names = []string{"-"}
	}

	stdinUsed := false
	for _, name := range names {
		if name != "-" {
			continue
		}
		if stdinUsed {
			return nil, errors.New("stdin (-) given more than once")
		}
		stdinUsed = true
	}

	results := make([][]flakyjson.RawEntry, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, name := range names {
		g.Go(func() error {
			entries, err := loadOne(ctx, name, stdin)
			if err != nil {
				return err
			}
			results[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []flakyjson.RawEntry
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

func loadOne(ctx context.Context, name string, stdin io.Reader) ([]flakyjson.RawEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	var err error
	label := name
	if name == "-" {
		label = "stdin"
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", label, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%s: no input", label)
	}

	var entries []flakyjson.RawEntry
	switch detect.Sniff(data) {
	case detect.Gzip:
		entries, err = flakyjson.ParseGzip(bytes.NewReader(data))
	case detect.Report:
		entries, err = flakyjson.ParseBytes(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	default:
		return nil, fmt.Errorf("%s: unrecognized input format (expected a JSON report array, optionally gzipped)", label)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", label, err)
	}
	logging.New("load").Debug("report parsed", slog.String("source", label), slog.Int("entries", len(entries)))
	return entries, nil
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termWidth returns the terminal width for w, defaulting to 80.
func termWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
			return tw
		}
	}
	return 80
}

func selectRenderer(mode string, theme render.Theme, w io.Writer) render.Renderer {
	switch mode {
	case "json":
		return render.NewJSON()
	case "llm":
		return render.NewLLM()
	case "markdown":
		return render.NewMarkdown()
	default:
		return render.NewTerminal(theme, termWidth(w))
	}
}

func resolveFormat(format string, w io.Writer) string {
	if format != "auto" {
		return format
	}
	// Auto-detect: TTY = terminal, piped = llm
	if isTTYWriter(w) {
		return "terminal"
	}
	return "llm"
}

// exitCode returns 0 when every spec is good, 1 otherwise. The row filter
// does not affect it.
func exitCode(m *matrix.Matrix) int {
	s := m.Stats()
	if s.Specs.Bad > 0 || s.Specs.Flaky > 0 {
		return exitUnstable
	}
	return exitOK
}
