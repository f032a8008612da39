package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// encodeChunkFrames is the number of sample frames written per block
const encodeChunkFrames = 4096

// Save writes w to filename in the waveform's own container and bit depth.
// The data is written to a temporary file in the same directory and renamed
// into place, so a failed write never leaves a partial output behind.
func Save(filename string, w *Waveform) error {
	if err := w.Validate(); err != nil {
		return err
	}

	var encode func(io.WriteSeeker, *Waveform) error
	switch w.Format {
	case FormatWAV:
		encode = EncodeWAV
	case FormatFLAC:
		encode = EncodeFLAC
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, w.Format)
	}

	tmp, err := os.CreateTemp(filepath.Dir(filename), ".jivetrim-*."+w.Format.String())
	if err != nil {
		return fmt.Errorf("creating temporary output: %w", err)
	}
	tmpName := tmp.Name()

	// Hide Close from the encoders; the FLAC encoder closes writers that implement io.Closer
	if err := encode(struct{ io.WriteSeeker }{tmp}, w); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("encoding %s: %w", filepath.Base(filename), err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, filename); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming output: %w", err)
	}

	return nil
}

// outputBitDepth falls back to 16-bit when the source depth is unknown
func outputBitDepth(w *Waveform) int {
	if w.BitDepth <= 0 {
		return 16
	}
	return w.BitDepth
}
