// Package processor implements silence trimming and fixed-length
// normalisation of decoded waveforms.
package processor

import (
	"iter"
	"math"
	"slices"

	"github.com/linuxmatters/jivetrim/internal/audio"
)

// NumFrames returns how many hop-aligned frames FrameRMS yields for n samples.
// The signal is centre-padded by frameLength/2 on both sides.
func NumFrames(n, frameLength, hopLength int) int {
	if n <= 0 || frameLength <= 0 || hopLength <= 0 {
		return 0
	}
	padded := n + 2*(frameLength/2)
	if padded < frameLength {
		return 0
	}
	return (padded-frameLength)/hopLength + 1
}

// FrameRMS lazily yields the root-mean-square amplitude of each frame.
//
// Frame i covers samples [i*hop - frameLength/2, i*hop - frameLength/2 + frameLength)
// of the input; positions outside the input count as zeros. The sequence is
// finite and can be ranged over any number of times.
func FrameRMS(samples []float64, frameLength, hopLength int) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		numFrames := NumFrames(len(samples), frameLength, hopLength)
		half := frameLength / 2

		for i := 0; i < numFrames; i++ {
			start := i*hopLength - half
			end := start + frameLength

			var sumSquares float64
			for j := max(start, 0); j < min(end, len(samples)); j++ {
				sumSquares += samples[j] * samples[j]
			}

			if !yield(math.Sqrt(sumSquares / float64(frameLength))) {
				return
			}
		}
	}
}

// RMS collects FrameRMS into a slice
func RMS(samples []float64, frameLength, hopLength int) []float64 {
	return slices.Collect(FrameRMS(samples, frameLength, hopLength))
}

// WaveformRMS profiles a waveform after mixing it down to mono.
func WaveformRMS(w *audio.Waveform, frameLength, hopLength int) iter.Seq[float64] {
	return FrameRMS(w.Mono(), frameLength, hopLength)
}

// PeakMask reports, per sample, whether any channel's absolute amplitude
// meets the threshold.
func PeakMask(w *audio.Waveform, threshold float64) []bool {
	mask := make([]bool, w.Len())
	for _, ch := range w.Channels {
		for i, s := range ch {
			if math.Abs(s) >= threshold {
				mask[i] = true
			}
		}
	}
	return mask
}
