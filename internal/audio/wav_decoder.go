package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVDecoder implements AudioDecoder for WAV files
type WAVDecoder struct {
	decoder    *wav.Decoder
	file       *os.File
	sampleRate int
	bitDepth   int
	numChans   int
	scale      pcmScale
}

// NewWAVDecoder creates a new WAV decoder
func NewWAVDecoder(filename string) (*WAVDecoder, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	decoder := wav.NewDecoder(f)
	if err := openWAV(decoder); err != nil {
		f.Close()
		return nil, err
	}

	bitDepth := int(decoder.BitDepth)

	return &WAVDecoder{
		decoder:    decoder,
		file:       f,
		sampleRate: int(decoder.SampleRate),
		bitDepth:   bitDepth,
		numChans:   int(decoder.NumChans),
		scale:      wavScale(bitDepth),
	}, nil
}

// openWAV reads the header and seeks d to the PCM data. go-audio's
// IsValidFile is not used because it rejects an empty data chunk, and it
// accepts float WAVs whose samples it would then decode as integers.
func openWAV(d *wav.Decoder) error {
	d.ReadInfo()
	if err := d.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	if d.NumChans == 0 || d.SampleRate == 0 {
		return fmt.Errorf("%w: %d channels at %d Hz", ErrInvalidFile, d.NumChans, d.SampleRate)
	}

	switch d.WavAudioFormat {
	case wavFormatPCM, wavFormatExtensible:
	default:
		return fmt.Errorf("%w: WAV format tag %#x is not integer PCM", ErrInvalidFile, d.WavAudioFormat)
	}

	switch d.BitDepth {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidFile, d.BitDepth)
	}

	if err := d.FwdToPCM(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	return nil
}

// ReadChunk reads the next chunk of samples
func (d *WAVDecoder) ReadChunk(numFrames int) ([][]float64, error) {
	// PCM data is interleaved, so request numFrames × numChannels values
	intBuf := &audio.IntBuffer{
		Data: make([]int, numFrames*d.numChans),
		Format: &audio.Format{
			NumChannels: d.numChans,
			SampleRate:  d.sampleRate,
		},
	}

	n, err := d.decoder.PCMBuffer(intBuf)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read PCM buffer: %w", err)
	}

	// A trailing partial frame is dropped
	numTimeSamples := n / d.numChans
	if numTimeSamples == 0 {
		return nil, io.EOF
	}

	channels := make([][]float64, d.numChans)
	for ch := range channels {
		channels[ch] = make([]float64, numTimeSamples)
	}

	for i := 0; i < numTimeSamples; i++ {
		for ch := 0; ch < d.numChans; ch++ {
			channels[ch][i] = d.scale.toFloat(intBuf.Data[i*d.numChans+ch])
		}
	}

	return channels, nil
}

// SampleRate returns the sample rate
func (d *WAVDecoder) SampleRate() int {
	return d.sampleRate
}

// NumChannels returns the number of audio channels
func (d *WAVDecoder) NumChannels() int {
	return d.numChans
}

// BitDepth returns the bits per sample
func (d *WAVDecoder) BitDepth() int {
	return d.bitDepth
}

// Format returns FormatWAV
func (d *WAVDecoder) Format() Format {
	return FormatWAV
}

// Close closes the decoder and releases resources
func (d *WAVDecoder) Close() error {
	if d.file != nil {
		err := d.file.Close()
		d.file = nil
		return err
	}
	return nil
}
