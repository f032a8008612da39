package audio

import (
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"
	"github.com/mewkiz/flac"
)

// Metadata holds information about an audio file
type Metadata struct {
	Format     Format
	SampleRate int
	Channels   int
	BitDepth   int
	NumSamples int64 // per channel
}

// Duration returns the playback length
func (m *Metadata) Duration() time.Duration {
	if m.SampleRate <= 0 {
		return 0
	}
	return time.Duration(m.NumSamples) * time.Second / time.Duration(m.SampleRate)
}

func (m *Metadata) String() string {
	return fmt.Sprintf("%s %dch %d Hz %d-bit %.2fs", m.Format, m.Channels, m.SampleRate, m.BitDepth, m.Duration().Seconds())
}

// Probe reads the stream header without decoding any audio
func Probe(filename string) (*Metadata, error) {
	switch FormatFromPath(filename) {
	case FormatWAV:
		return probeWAV(filename)
	case FormatFLAC:
		return probeFLAC(filename)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
}

func probeWAV(filename string) (*Metadata, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if err := openWAV(d); err != nil {
		return nil, err
	}

	m := &Metadata{
		Format:     FormatWAV,
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
	}
	if frameBytes := int64(m.Channels * (m.BitDepth / 8)); frameBytes > 0 {
		m.NumSamples = d.PCMLen() / frameBytes
	}
	return m, nil
}

func probeFLAC(filename string) (*Metadata, error) {
	stream, err := flac.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	defer stream.Close()

	return &Metadata{
		Format:     FormatFLAC,
		SampleRate: int(stream.Info.SampleRate),
		Channels:   int(stream.Info.NChannels),
		BitDepth:   int(stream.Info.BitsPerSample),
		NumSamples: int64(stream.Info.NSamples),
	}, nil
}
