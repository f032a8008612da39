package audio

import (
	"fmt"
	"io"

	"github.com/mewkiz/flac"
)

// FLACDecoder implements AudioDecoder for FLAC files
type FLACDecoder struct {
	stream      *flac.Stream
	sampleRate  int
	numChannels int
	bitDepth    int
	scale       pcmScale

	// Samples decoded from the last FLAC frame but not yet returned
	pending [][]float64
	eof     bool
}

// NewFLACDecoder creates a new FLAC decoder
func NewFLACDecoder(filename string) (*FLACDecoder, error) {
	// Parse FLAC stream - reads signature and StreamInfo block
	stream, err := flac.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	info := stream.Info
	if info.NChannels == 0 || info.SampleRate == 0 || info.BitsPerSample == 0 {
		stream.Close()
		return nil, fmt.Errorf("%w: %d channels at %d Hz, %d bits", ErrInvalidFile, info.NChannels, info.SampleRate, info.BitsPerSample)
	}

	numChannels := int(info.NChannels)
	bitDepth := int(info.BitsPerSample)

	// The encoder cannot write these back
	if !flacBitDepths[bitDepth] {
		stream.Close()
		return nil, fmt.Errorf("%w: %d-bit FLAC", ErrUnsupportedFormat, bitDepth)
	}

	return &FLACDecoder{
		stream:      stream,
		sampleRate:  int(info.SampleRate),
		numChannels: numChannels,
		bitDepth:    bitDepth,
		scale:       flacScale(bitDepth),
		pending:     make([][]float64, numChannels),
	}, nil
}

// ReadChunk reads the next chunk of samples
func (d *FLACDecoder) ReadChunk(numFrames int) ([][]float64, error) {
	// Read FLAC frames until we have enough samples
	for !d.eof && len(d.pending[0]) < numFrames {
		// Parse next frame including audio samples
		frame, err := d.stream.ParseNext()
		if err != nil {
			if err == io.EOF {
				d.eof = true
				break
			}
			return nil, fmt.Errorf("failed to parse FLAC frame: %w", err)
		}

		// FLAC frames contain one subframe per channel
		if len(frame.Subframes) != d.numChannels {
			return nil, fmt.Errorf("%w: FLAC frame has %d subframes, stream has %d channels",
				ErrShapeMismatch, len(frame.Subframes), d.numChannels)
		}

		for ch, subframe := range frame.Subframes {
			for _, s := range subframe.Samples {
				d.pending[ch] = append(d.pending[ch], d.scale.toFloat(int(s)))
			}
		}
	}

	n := min(numFrames, len(d.pending[0]))
	if n == 0 {
		return nil, io.EOF
	}

	channels := make([][]float64, d.numChannels)
	for ch := range channels {
		channels[ch] = append([]float64(nil), d.pending[ch][:n]...)
		d.pending[ch] = d.pending[ch][n:]
	}

	return channels, nil
}

// SampleRate returns the sample rate
func (d *FLACDecoder) SampleRate() int {
	return d.sampleRate
}

// NumChannels returns the number of audio channels
func (d *FLACDecoder) NumChannels() int {
	return d.numChannels
}

// BitDepth returns the bits per sample
func (d *FLACDecoder) BitDepth() int {
	return d.bitDepth
}

// Format returns FormatFLAC
func (d *FLACDecoder) Format() Format {
	return FormatFLAC
}

// Close closes the decoder and releases resources
func (d *FLACDecoder) Close() error {
	if d.stream != nil {
		err := d.stream.Close()
		d.stream = nil
		return err
	}
	return nil
}
