package processor

import "github.com/linuxmatters/jivetrim/internal/audio"

// FitLength returns a waveform of exactly target samples per channel.
// Longer input is truncated from the end; shorter input is padded at the end
// with zeros. Input already of the target length is returned as-is.
// A negative target is treated as zero.
func FitLength(w *audio.Waveform, target int) *audio.Waveform {
	target = max(target, 0)
	n := w.Len()

	switch {
	case n == target:
		return w
	case n > target:
		return w.Slice(0, target)
	}

	channels := make([][]float64, w.NumChannels())
	for c, ch := range w.Channels {
		padded := make([]float64, target)
		copy(padded, ch)
		channels[c] = padded
	}

	out := *w
	out.Channels = channels
	return &out
}
