package processor

import (
	"fmt"

	"github.com/linuxmatters/jivetrim/internal/audio"
	"github.com/linuxmatters/jivetrim/internal/config"
)

// Result holds the outcome of processing one waveform
type Result struct {
	// Output has exactly TargetSamples samples per channel
	Output *audio.Waveform

	// Span kept by the trimmer, in input sample positions
	Span    Span
	Silent  bool
	Trimmed bool

	InputSamples  int
	TargetSamples int

	// Peak of the input in dBFS
	PeakDB float64
}

// Padded reports whether the trimmed audio was shorter than the target
func (r *Result) Padded() bool {
	return r.Span.Len() < r.TargetSamples
}

// Truncated reports whether the trimmed audio was cut to fit the target
func (r *Result) Truncated() bool {
	return r.Span.Len() > r.TargetSamples
}

// Process trims silence from w and fits it to the configured duration.
// Silent and untrimmable audio is still fitted to the target length.
func Process(w *audio.Waveform, cfg config.Config) (*Result, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	target := cfg.TargetSamples(w.SampleRate)
	if target < 1 {
		return nil, fmt.Errorf("target length of %.3fs at %d Hz is less than one sample", cfg.Duration, w.SampleRate)
	}

	trimmer, err := NewTrimmer(cfg, w.SampleRate)
	if err != nil {
		return nil, err
	}

	trimmed := trimmer.Trim(w)

	return &Result{
		Output:        FitLength(trimmed.Waveform, target),
		Span:          trimmed.Span,
		Silent:        trimmed.Silent,
		Trimmed:       trimmed.Trimmed,
		InputSamples:  w.Len(),
		TargetSamples: target,
		PeakDB:        config.LinearToDB(w.Peak()),
	}, nil
}
