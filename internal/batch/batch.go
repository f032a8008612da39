// Package batch trims and fits every audio file in a directory, one file at
// a time, isolating per-file failures.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/linuxmatters/jivetrim/internal/audio"
	"github.com/linuxmatters/jivetrim/internal/config"
	"github.com/linuxmatters/jivetrim/internal/processor"
)

// EventKind identifies a progress event
type EventKind int

const (
	EventStart EventKind = iota
	EventDone
	EventFailed
)

// Event reports progress for one file
type Event struct {
	Kind  EventKind
	Index int // zero-based position in the batch
	Total int

	InputPath  string
	OutputPath string

	// Header of the input, set for EventStart when it could be read
	Metadata *audio.Metadata

	// Set for EventDone
	Result *processor.Result

	// Set for EventFailed
	Err error

	Elapsed time.Duration
}

// FileError records a file that could not be processed
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", filepath.Base(e.Path), e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Summary tallies a completed batch
type Summary struct {
	Total     int
	Processed int
	Silent    int // processed files with no audible content
	Untrimmed int // processed files returned without trimming
	Failed    int
	Failures  []*FileError
	Elapsed   time.Duration
}

// Options configures a batch run
type Options struct {
	InputDir string

	// OutputDir defaults to InputDir/trimmed
	OutputDir string

	Config config.Config

	// Logger receives structured diagnostics; nil discards them
	Logger *slog.Logger

	// OnEvent, if set, is called synchronously for every progress event
	OnEvent func(Event)
}

// Discover lists the supported audio files directly inside dir, in lexical
// order. Hidden files and directories are skipped.
func Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !audio.IsSupported(name) {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	slices.Sort(files)
	return files, nil
}

// Run processes every file Discover finds. A failing file is recorded in the
// summary and the batch continues. The returned error is non-nil only when
// the batch could not start or ctx was cancelled between files.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	start := time.Now()

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = filepath.Join(opts.InputDir, config.DefaultOutputDir)
	}

	files, err := Discover(opts.InputDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	emit := func(e Event) {
		if opts.OnEvent != nil {
			opts.OnEvent(e)
		}
	}

	summary := &Summary{Total: len(files)}
	logger.Info("batch started", "input", opts.InputDir, "output", outputDir, "files", len(files),
		"algorithm", opts.Config.Algorithm, "threshold_db", opts.Config.ThresholdDB, "duration", opts.Config.Duration)

	for i, inPath := range files {
		if err := ctx.Err(); err != nil {
			summary.Elapsed = time.Since(start)
			logger.Warn("batch cancelled", "remaining", len(files)-i)
			return summary, err
		}

		outPath := filepath.Join(outputDir, filepath.Base(inPath))
		fileStart := time.Now()

		// A bad header is reported by ProcessFile
		meta, err := audio.Probe(inPath)
		if err == nil {
			logger.Debug("processing file", "file", inPath, "format", meta.Format.String(),
				"sample_rate", meta.SampleRate, "channels", meta.Channels, "bit_depth", meta.BitDepth, "samples", meta.NumSamples)
		} else {
			logger.Debug("processing file", "file", inPath, "probe_error", err)
		}
		emit(Event{Kind: EventStart, Index: i, Total: len(files), InputPath: inPath, OutputPath: outPath, Metadata: meta})

		res, err := ProcessFile(inPath, outPath, opts.Config)
		elapsed := time.Since(fileStart)

		if err != nil {
			fe := &FileError{Path: inPath, Err: err}
			summary.Failed++
			summary.Failures = append(summary.Failures, fe)
			logger.Error("file failed", "file", inPath, "error", err)
			emit(Event{Kind: EventFailed, Index: i, Total: len(files), InputPath: inPath, OutputPath: outPath, Err: err, Elapsed: elapsed})
			continue
		}

		summary.Processed++
		if res.Silent {
			summary.Silent++
		}
		if !res.Trimmed {
			summary.Untrimmed++
		}

		logger.Info("file processed", "file", inPath, "output", outPath,
			"samples", res.InputSamples, "span", res.Span.String(), "target", res.TargetSamples,
			"silent", res.Silent, "trimmed", res.Trimmed, "elapsed", elapsed)
		emit(Event{Kind: EventDone, Index: i, Total: len(files), InputPath: inPath, OutputPath: outPath, Result: res, Elapsed: elapsed})
	}

	summary.Elapsed = time.Since(start)
	logger.Info("batch finished", "processed", summary.Processed, "failed", summary.Failed, "elapsed", summary.Elapsed)
	return summary, nil
}

// ProcessFile decodes inPath, trims and fits it, and writes outPath in the
// same container.
func ProcessFile(inPath, outPath string, cfg config.Config) (*processor.Result, error) {
	w, err := audio.Load(inPath)
	if err != nil {
		return nil, err
	}

	res, err := processor.Process(w, cfg)
	if err != nil {
		return nil, err
	}

	if err := audio.Save(outPath, res.Output); err != nil {
		return nil, err
	}

	return res, nil
}
