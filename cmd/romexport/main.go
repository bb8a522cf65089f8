package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/wippyai/rom-export/config"
	"github.com/wippyai/rom-export/export"
)

var (
	okStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#90EE90"))

	warnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFD166"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))
)

type options struct {
	source      string
	output      string
	config      string
	only        string
	verbose     bool
	interactive bool
}

func main() {
	var opts options
	flag.StringVar(&opts.source, "source", "", "Path to the unpacked ROM contents")
	flag.StringVar(&opts.output, "output", "", "Output directory (default <output_root>/<timestamp>)")
	flag.StringVar(&opts.config, "config", "", "YAML configuration file")
	flag.StringVar(&opts.only, "only", "", "Exporters to run (comma-separated: "+exporterNames()+")")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose logging")
	flag.BoolVar(&opts.interactive, "i", false, "Interactive mode with TUI")
	flag.Parse()

	if opts.source == "" {
		fmt.Fprintln(os.Stderr, "Usage: romexport -source <dir> [-output dir] [-config file.yaml] [-only trainers,moves]")
		fmt.Fprintln(os.Stderr, "       romexport -source <dir> -i  (interactive mode)")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, opts, os.Stdout)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, stdout io.Writer) error {
	logger, err := newLogger(opts)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	export.SetLogger(logger)

	cfg, err := config.Load(opts.config)
	if err != nil {
		return err
	}

	info, err := os.Stat(opts.source)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("source folder not found: %s", opts.source)
	}

	exporters, err := export.Lookup(splitList(opts.only)...)
	if err != nil {
		return err
	}

	outDir := opts.output
	if outDir == "" {
		outDir = export.DefaultOutputDir(cfg.OutputRoot, time.Now())
	}
	env := export.Env{
		SourceRoot: opts.source,
		OutputDir:  outDir,
		Config:     cfg,
		Logger:     logger,
	}

	if opts.interactive {
		return runInteractive(ctx, env, exporters)
	}

	p := printer{w: stdout, styled: isTerminal(stdout)}
	_, err = export.RunAll(ctx, env, exporters, p.result)
	p.footer(env)
	return err
}

// newLogger builds a console logger on stderr. Interactive runs log nothing
// unless -v is set, since the TUI owns the terminal.
func newLogger(opts options) (*zap.Logger, error) {
	if opts.interactive && !opts.verbose {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if opts.verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = !opts.verbose
	return cfg.Build()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func exporterNames() string {
	var names []string
	for _, x := range export.Exporters() {
		names = append(names, x.Name())
	}
	return strings.Join(names, ",")
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type printer struct {
	w      io.Writer
	styled bool
}

func (p printer) result(r export.Result) {
	fmt.Fprintln(p.w, p.render(r))
}

func (p printer) render(r export.Result) string {
	line := export.StatusLine(r)
	if !p.styled {
		return line
	}
	tag := "[" + r.Status() + "]"
	return statusStyle(r.Status()).Render(tag) + strings.TrimPrefix(line, tag)
}

func (p printer) footer(env export.Env) {
	dir := env.OutputDir
	if p.styled {
		dir = pathStyle.Render(dir)
	}
	fmt.Fprintf(p.w, "\nOutput: %s\n", dir)
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case "OK":
		return okStyle
	case "WARN":
		return warnStyle
	default:
		return errorStyle
	}
}
