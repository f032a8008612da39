package audio

import (
	"errors"
	"testing"
	"time"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"clip.wav", FormatWAV},
		{"CLIP.WAV", FormatWAV},
		{"dir/clip.wave", FormatWAV},
		{"clip.flac", FormatFLAC},
		{"clip.Flac", FormatFLAC},
		{"clip.mp3", FormatUnknown},
		{"clip", FormatUnknown},
	}

	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestWaveformValidate(t *testing.T) {
	w := NewWaveform(2, 10, 44100)
	if err := w.Validate(); err != nil {
		t.Errorf("valid waveform rejected: %v", err)
	}

	ragged := NewWaveform(2, 10, 44100)
	ragged.Channels[1] = make([]float64, 9)
	if err := ragged.Validate(); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch for ragged channels, got %v", err)
	}

	empty := &Waveform{SampleRate: 44100}
	if err := empty.Validate(); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch for no channels, got %v", err)
	}

	noRate := NewWaveform(1, 10, 0)
	if err := noRate.Validate(); err == nil {
		t.Error("expected error for zero sample rate")
	}
}

func TestWaveformSlice(t *testing.T) {
	w := NewWaveform(2, 10, 8000)
	for i := 0; i < 10; i++ {
		w.Channels[0][i] = float64(i)
		w.Channels[1][i] = float64(-i)
	}

	s := w.Slice(3, 7)
	if s.Len() != 4 {
		t.Fatalf("Len = %d, want 4", s.Len())
	}
	if s.Channels[0][0] != 3 || s.Channels[1][3] != -6 {
		t.Errorf("unexpected slice contents: %v", s.Channels)
	}
	if s.SampleRate != 8000 || s.Format != w.Format || s.BitDepth != w.BitDepth {
		t.Error("slice did not carry format metadata")
	}
	if w.Len() != 10 {
		t.Error("Slice modified the source waveform")
	}
}

func TestWaveformMono(t *testing.T) {
	w := NewWaveform(2, 3, 8000)
	w.Channels[0] = []float64{1, 0.5, -1}
	w.Channels[1] = []float64{0, 0.5, 1}

	mono := w.Mono()
	want := []float64{0.5, 0.5, 0}
	for i := range want {
		if mono[i] != want[i] {
			t.Errorf("Mono()[%d] = %f, want %f", i, mono[i], want[i])
		}
	}

	single := NewWaveform(1, 3, 8000)
	single.Channels[0] = []float64{0.1, 0.2, 0.3}
	if got := single.Mono(); &got[0] != &single.Channels[0][0] {
		t.Error("Mono() of a single channel should not copy")
	}
}

func TestWaveformDurationAndPeak(t *testing.T) {
	w := NewWaveform(2, 16000, 8000)
	w.Channels[1][5] = -0.75
	w.Channels[0][9] = 0.5

	if got := w.Duration(); got != 2*time.Second {
		t.Errorf("Duration = %v, want 2s", got)
	}
	if got := w.Peak(); got != 0.75 {
		t.Errorf("Peak = %f, want 0.75", got)
	}
}
