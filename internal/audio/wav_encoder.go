package audio

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAV format tags
const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

// EncodeWAV writes w as interleaved integer PCM.
func EncodeWAV(out io.WriteSeeker, w *Waveform) error {
	bitDepth := outputBitDepth(w)
	numChans := w.NumChannels()
	scale := wavScale(bitDepth)

	encoder := wav.NewEncoder(out, w.SampleRate, bitDepth, numChans, wavFormatPCM)

	n := w.Len()
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChans,
			SampleRate:  w.SampleRate,
		},
		SourceBitDepth: bitDepth,
	}

	for start := 0; start < n; start += encodeChunkFrames {
		end := min(start+encodeChunkFrames, n)

		// Channel-major to interleaved (channels-last)
		buf.Data = buf.Data[:0]
		for i := start; i < end; i++ {
			for _, ch := range w.Channels {
				buf.Data = append(buf.Data, scale.toInt(ch[i]))
			}
		}

		if err := encoder.Write(buf); err != nil {
			return fmt.Errorf("writing WAV data: %w", err)
		}
	}

	// An empty buffer still writes the header and an empty data chunk
	if n == 0 {
		if err := encoder.Write(buf); err != nil {
			return fmt.Errorf("writing WAV header: %w", err)
		}
	}

	// Close writes the final chunk sizes into the header
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("finalising WAV header: %w", err)
	}
	return nil
}
