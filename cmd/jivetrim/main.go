package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxmatters/jivetrim/internal/batch"
	"github.com/linuxmatters/jivetrim/internal/cli"
	"github.com/linuxmatters/jivetrim/internal/config"
	"github.com/linuxmatters/jivetrim/internal/ui"
	"github.com/mattn/go-isatty"
)

// version is set via ldflags at build time
// Local dev builds: "dev"
// Release builds: git tag (e.g. "v0.1.0")
var version = "dev"

var CLI struct {
	Dir      string       `arg:"" name:"dir" help:"Directory of .wav and .flac clips" default:"." optional:""`
	Pipeline config.Flags `embed:""`

	Output   string          `short:"o" help:"Output directory (default: <dir>/trimmed)" placeholder:"dir"`
	Config   kong.ConfigFlag `help:"TOML config file" placeholder:"path"`
	Plain    bool            `help:"Print one line per file instead of the interactive display"`
	DebugLog string          `name:"debug-log" help:"Write JSON diagnostics to a file" placeholder:"path"`
	Version  bool            `help:"Show version information"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("jivetrim"),
		kong.Description(cli.AppDescription),
		kong.Vars{"version": version},
		kong.UsageOnError(),
		kong.Configuration(config.TOMLLoader, config.DefaultConfigPath),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	// Handle version flag
	if CLI.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	cfg := CLI.Pipeline.Config()
	if err := cfg.Validate(); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	if info, err := os.Stat(CLI.Dir); err != nil || !info.IsDir() {
		cli.PrintError(fmt.Sprintf("input directory does not exist: %s", CLI.Dir))
		ctx.PrintUsage(false)
		os.Exit(1)
	}

	outputDir := CLI.Output
	if outputDir == "" {
		outputDir = filepath.Join(CLI.Dir, config.DefaultOutputDir)
	}

	logger, closeLog, err := openDebugLog(CLI.DebugLog)
	if err != nil {
		cli.PrintError(fmt.Sprintf("opening debug log: %v", err))
		os.Exit(1)
	}
	defer closeLog()

	files, err := batch.Discover(CLI.Dir)
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
	if len(files) == 0 {
		cli.PrintWarning(fmt.Sprintf("no .wav or .flac files found in %s", CLI.Dir))
		return
	}

	opts := batch.Options{
		InputDir:  CLI.Dir,
		OutputDir: outputDir,
		Config:    cfg,
		Logger:    logger,
	}

	plain := CLI.Plain || !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())
	if plain {
		err = runPlain(opts)
	} else {
		err = runInteractive(opts, files)
	}

	// Per-file failures are reported in the summary and don't change the exit code
	if err != nil && !errors.Is(err, context.Canceled) {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

// openDebugLog returns a JSON logger writing to path, or a discarding logger
// when path is empty
func openDebugLog(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Info("jivetrim starting", "version", version, "dir", CLI.Dir)
	return logger, func() { f.Close() }, nil
}

func runPlain(opts batch.Options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cli.PrintBanner()
	cli.PrintInfo("Input", opts.InputDir)
	cli.PrintInfo("Output", opts.OutputDir)
	fmt.Println()

	reporter := cli.NewReporter(os.Stdout, opts.Config.Duration)
	opts.OnEvent = reporter.Event

	summary, err := batch.Run(ctx, opts)
	if summary != nil {
		reporter.Summary(summary)
	}
	switch {
	case errors.Is(err, context.Canceled):
		cli.PrintWarning("interrupted, remaining files were skipped")
	case err == nil:
		cli.PrintSuccess(fmt.Sprintf("Done! Output: %s", opts.OutputDir))
	}
	return err
}

func runInteractive(opts batch.Options, files []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := ui.NewModel(files, opts.OutputDir, opts.Config.Duration)
	p := tea.NewProgram(model)

	opts.OnEvent = func(e batch.Event) {
		p.Send(ui.EventMsg{Event: e})
	}

	var runErr error
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		var summary *batch.Summary
		summary, runErr = batch.Run(ctx, opts)
		p.Send(ui.DoneMsg{Summary: summary, Err: runErr})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-finished
		return fmt.Errorf("running UI: %w", err)
	}

	// Let the file in flight finish so no partial output is left behind
	if model.Interrupted() {
		cancel()
		<-finished
		cli.PrintWarning("interrupted, remaining files were skipped")
		return context.Canceled
	}

	<-finished
	return runErr
}
