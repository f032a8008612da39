package audio

import (
	"math"

	"github.com/go-audio/audio"
)

// pcmScale maps between integer PCM and normalised float samples
type pcmScale struct {
	max    float64 // integer magnitude that maps to 1.0
	offset int     // zero point for unsigned encodings
}

// wavScale handles WAV's unsigned 8-bit encoding; wider depths are signed.
func wavScale(bitDepth int) pcmScale {
	if bitDepth == 8 {
		return pcmScale{max: 127, offset: 128}
	}
	return pcmScale{max: float64(audio.IntMaxSignedValue(bitDepth))}
}

// flacScale handles FLAC, which is signed at every depth
func flacScale(bitDepth int) pcmScale {
	return pcmScale{max: float64(int64(1)<<(bitDepth-1) - 1)}
}

func (p pcmScale) toFloat(v int) float64 {
	return float64(v-p.offset) / p.max
}

// toInt clips to the representable range
func (p pcmScale) toInt(s float64) int {
	v := math.Round(s * p.max)
	if v < -p.max-1 {
		v = -p.max - 1
	}
	if v > p.max {
		v = p.max
	}
	return int(v) + p.offset
}
