package processor

import (
	"fmt"

	"github.com/linuxmatters/jivetrim/internal/audio"
	"github.com/linuxmatters/jivetrim/internal/config"
)

// Span is a half-open sample range [Start, End) applied to every channel
type Span struct {
	Start int
	End   int
}

// Len returns the number of samples in the span
func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("[%d, %d)", s.Start, s.End)
}

// TrimResult describes the outcome of a trim
type TrimResult struct {
	// Waveform is the trimmed audio, or the input itself when nothing was trimmed
	Waveform *audio.Waveform

	// Span is the range kept, in input sample positions
	Span Span

	// Silent is set when no sample or frame reached the threshold
	Silent bool

	// Trimmed is false when the input was returned untouched
	Trimmed bool
}

// Trimmer removes leading and trailing silence
type Trimmer interface {
	Trim(w *audio.Waveform) TrimResult
}

// NewTrimmer builds the trimmer selected by cfg.Algorithm for audio at sampleRate.
func NewTrimmer(cfg config.Config, sampleRate int) (Trimmer, error) {
	switch cfg.Algorithm {
	case config.AlgorithmRMS:
		return NewRMSTrimmer(cfg, sampleRate), nil
	case config.AlgorithmPeak:
		return NewPeakTrimmer(cfg), nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q", cfg.Algorithm)
	}
}

// untouched returns w as the result, spanning the whole input
func untouched(w *audio.Waveform, silent bool) TrimResult {
	return TrimResult{
		Waveform: w,
		Span:     Span{Start: 0, End: w.Len()},
		Silent:   silent,
	}
}

// RMSTrimmer keeps the frames between the first and last frame whose RMS
// meets the threshold.
type RMSTrimmer struct {
	threshold   float64
	frameLength int
	hopLength   int
	trimStart   bool
	trimEnd     bool
}

// NewRMSTrimmer creates an RMS trimmer; the hop is derived from cfg.HopMS at sampleRate
func NewRMSTrimmer(cfg config.Config, sampleRate int) *RMSTrimmer {
	return &RMSTrimmer{
		threshold:   cfg.Threshold(),
		frameLength: cfg.FrameLength,
		hopLength:   cfg.HopSamples(sampleRate),
		trimStart:   cfg.TrimStart,
		trimEnd:     cfg.TrimEnd,
	}
}

// Trim implements Trimmer
func (t *RMSTrimmer) Trim(w *audio.Waveform) TrimResult {
	firstFrame, lastFrame := -1, -1
	frame := 0
	for rms := range WaveformRMS(w, t.frameLength, t.hopLength) {
		if rms >= t.threshold {
			if firstFrame < 0 {
				firstFrame = frame
			}
			lastFrame = frame
		}
		frame++
	}

	if firstFrame < 0 {
		return untouched(w, true)
	}

	n := w.Len()
	span := Span{Start: 0, End: n}
	if t.trimStart {
		span.Start = min(firstFrame*t.hopLength, n)
	}
	if t.trimEnd {
		span.End = min((lastFrame+1)*t.hopLength, n)
	}

	return TrimResult{
		Waveform: w.Slice(span.Start, span.End),
		Span:     span,
		Trimmed:  span.Start > 0 || span.End < n,
	}
}

// PeakTrimmer keeps the region between the first and last sample whose
// amplitude meets the threshold on any channel, widened by a padding margin.
type PeakTrimmer struct {
	threshold float64
	padding   int
	trimStart bool
	trimEnd   bool
}

// NewPeakTrimmer creates a per-sample trimmer
func NewPeakTrimmer(cfg config.Config) *PeakTrimmer {
	return &PeakTrimmer{
		threshold: cfg.Threshold(),
		padding:   cfg.Padding,
		trimStart: cfg.TrimStart,
		trimEnd:   cfg.TrimEnd,
	}
}

// Trim implements Trimmer. At least two samples must reach the threshold;
// otherwise the input is returned untouched.
func (t *PeakTrimmer) Trim(w *audio.Waveform) TrimResult {
	first, last, count := -1, -1, 0
	for i, loud := range PeakMask(w, t.threshold) {
		if !loud {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
		count++
	}

	if count < 2 {
		return untouched(w, count == 0)
	}

	n := w.Len()
	span := Span{Start: 0, End: n}
	if t.trimStart {
		span.Start = max(0, first-t.padding)
	}
	if t.trimEnd {
		span.End = min(n, last+t.padding)
	}

	return TrimResult{
		Waveform: w.Slice(span.Start, span.End),
		Span:     span,
		Trimmed:  span.Start > 0 || span.End < n,
	}
}
