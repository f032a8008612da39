package audio

import (
	"errors"
	"fmt"
	"io"
)

// readChunkFrames is the number of sample frames requested per ReadChunk call
// when loading a whole file.
const readChunkFrames = 8192

// AudioDecoder defines the interface for all audio format decoders
type AudioDecoder interface {
	// ReadChunk reads up to numFrames samples per channel, channel-major.
	// Returns io.EOF when no samples remain.
	ReadChunk(numFrames int) ([][]float64, error)

	// SampleRate returns the audio sample rate in Hz
	SampleRate() int

	// NumChannels returns the number of audio channels (1=mono, 2=stereo)
	NumChannels() int

	// BitDepth returns the bits per sample of the source
	BitDepth() int

	// Format returns the source container
	Format() Format

	// Close closes the decoder and releases resources
	Close() error
}

// ReadAll drains a decoder into a Waveform. Zero-length files produce a
// waveform whose channels are empty.
func ReadAll(d AudioDecoder) (*Waveform, error) {
	numChans := d.NumChannels()
	if numChans < 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidFile, numChans)
	}

	w := &Waveform{
		Channels:   make([][]float64, numChans),
		SampleRate: d.SampleRate(),
		BitDepth:   d.BitDepth(),
		Format:     d.Format(),
	}

	for {
		chunk, err := d.ReadChunk(readChunkFrames)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(chunk) != numChans {
			return nil, fmt.Errorf("%w: decoder returned %d channels, expected %d", ErrShapeMismatch, len(chunk), numChans)
		}
		for c := range chunk {
			w.Channels[c] = append(w.Channels[c], chunk[c]...)
		}
	}

	for c := range w.Channels {
		if w.Channels[c] == nil {
			w.Channels[c] = []float64{}
		}
	}

	return w, nil
}

// Load decodes an entire WAV or FLAC file.
func Load(filename string) (*Waveform, error) {
	d, err := OpenDecoder(filename)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	w, err := ReadAll(d)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filename, err)
	}
	return w, nil
}
