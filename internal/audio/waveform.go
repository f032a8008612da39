// Package audio provides the Waveform type and the WAV/FLAC decoders and
// encoders used to read and write it.
package audio

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrShapeMismatch is returned when the channels of a waveform differ in length.
	ErrShapeMismatch = errors.New("channel lengths differ")

	// ErrUnsupportedFormat is returned for containers other than WAV and FLAC,
	// and for sample encodings a container cannot carry.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrInvalidFile is returned when a file is not a valid instance of its container.
	ErrInvalidFile = errors.New("invalid audio file")

	// ErrTooShort is returned when a container cannot hold a waveform this short.
	ErrTooShort = errors.New("waveform too short for container")
)

// Waveform holds decoded PCM audio in channel-major layout.
// Mono audio is the one-channel case.
type Waveform struct {
	// Channels[c][i] is sample i of channel c, normalised to [-1.0, 1.0]
	Channels [][]float64

	SampleRate int
	BitDepth   int    // Source bit depth, reused when encoding
	Format     Format // Source container, reused when encoding
}

// NewWaveform allocates a silent waveform of the given shape.
func NewWaveform(numChannels, length, sampleRate int) *Waveform {
	channels := make([][]float64, numChannels)
	for c := range channels {
		channels[c] = make([]float64, length)
	}
	return &Waveform{
		Channels:   channels,
		SampleRate: sampleRate,
		BitDepth:   16,
		Format:     FormatWAV,
	}
}

// NumChannels returns the channel count
func (w *Waveform) NumChannels() int {
	return len(w.Channels)
}

// Len returns the number of samples per channel.
func (w *Waveform) Len() int {
	if len(w.Channels) == 0 {
		return 0
	}
	return len(w.Channels[0])
}

// Duration returns the playback length at the waveform's sample rate.
func (w *Waveform) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(w.Len()) / float64(w.SampleRate) * float64(time.Second))
}

// Validate checks the shape invariants: at least one channel, all channels
// the same length, and a positive sample rate.
func (w *Waveform) Validate() error {
	if len(w.Channels) == 0 {
		return fmt.Errorf("%w: no channels", ErrShapeMismatch)
	}
	n := len(w.Channels[0])
	for c, ch := range w.Channels[1:] {
		if len(ch) != n {
			return fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d", ErrShapeMismatch, c+1, len(ch), n)
		}
	}
	if w.SampleRate <= 0 {
		return fmt.Errorf("invalid sample rate: %d", w.SampleRate)
	}
	return nil
}

// Slice returns a waveform restricted to samples [start, end) of every channel.
// The returned waveform shares sample storage with w.
func (w *Waveform) Slice(start, end int) *Waveform {
	channels := make([][]float64, len(w.Channels))
	for c, ch := range w.Channels {
		channels[c] = ch[start:end]
	}
	out := *w
	out.Channels = channels
	return &out
}

// Mono returns the per-sample average across channels. For a single channel
// the channel itself is returned without copying.
func (w *Waveform) Mono() []float64 {
	if len(w.Channels) == 1 {
		return w.Channels[0]
	}

	n := w.Len()
	mono := make([]float64, n)
	if len(w.Channels) == 0 {
		return mono
	}

	scale := 1.0 / float64(len(w.Channels))
	for _, ch := range w.Channels {
		for i := 0; i < n; i++ {
			mono[i] += ch[i]
		}
	}
	for i := range mono {
		mono[i] *= scale
	}
	return mono
}

// Peak returns the largest absolute sample value across all channels.
func (w *Waveform) Peak() float64 {
	var peak float64
	for _, ch := range w.Channels {
		for _, s := range ch {
			if s < 0 {
				s = -s
			}
			if s > peak {
				peak = s
			}
		}
	}
	return peak
}
