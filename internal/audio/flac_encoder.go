package audio

import (
	"fmt"
	"io"
	"iter"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

// flacChannels maps a channel count to its FLAC channel assignment
var flacChannels = map[int]frame.Channels{
	1: frame.ChannelsMono,
	2: frame.ChannelsLR,
	3: frame.ChannelsLRC,
	4: frame.ChannelsLRLsRs,
	5: frame.ChannelsLRCLsRs,
	6: frame.ChannelsLRCLfeLsRs,
	7: frame.ChannelsLRCLfeCsSlSr,
	8: frame.ChannelsLRCLfeLsRsSlSr,
}

// flacMinBlockSize is the smallest block STREAMINFO may declare. The encoder
// records the shortest frame written, so every frame must reach it.
const flacMinBlockSize = 16

// flacBitDepths are the sample sizes a frame header can encode
var flacBitDepths = map[int]bool{8: true, 12: true, 16: true, 20: true, 24: true}

// EncodeFLAC writes w as verbatim FLAC frames. Verbatim subframes keep the
// encoder simple; the output is lossless but not compressed.
func EncodeFLAC(out io.WriteSeeker, w *Waveform) error {
	numChans := w.NumChannels()
	channels, ok := flacChannels[numChans]
	if !ok {
		return fmt.Errorf("%w: FLAC supports 1-8 channels, got %d", ErrShapeMismatch, numChans)
	}

	bitDepth := outputBitDepth(w)
	if !flacBitDepths[bitDepth] {
		return fmt.Errorf("%w: FLAC cannot encode %d-bit samples", ErrUnsupportedFormat, bitDepth)
	}
	scale := flacScale(bitDepth)

	n := w.Len()
	if n < flacMinBlockSize {
		return fmt.Errorf("%w: FLAC needs at least %d samples per channel, got %d", ErrTooShort, flacMinBlockSize, n)
	}

	info := &meta.StreamInfo{
		BlockSizeMin:  flacMinBlockSize,
		BlockSizeMax:  encodeChunkFrames,
		SampleRate:    uint32(w.SampleRate),
		NChannels:     uint8(numChans),
		BitsPerSample: uint8(bitDepth),
		NSamples:      uint64(n),
	}

	enc, err := flac.NewEncoder(out, info)
	if err != nil {
		return fmt.Errorf("creating FLAC encoder: %w", err)
	}

	for start, end := range flacBlocks(n) {
		subframes := make([]*frame.Subframe, numChans)
		for ch, samples := range w.Channels {
			block := make([]int32, end-start)
			for i := range block {
				block[i] = int32(scale.toInt(samples[start+i]))
			}
			subframes[ch] = &frame.Subframe{
				SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
				Samples:   block,
				NSamples:  len(block),
			}
		}

		f := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: false,
				BlockSize:         uint16(end - start),
				SampleRate:        uint32(w.SampleRate),
				Channels:          channels,
				BitsPerSample:     uint8(bitDepth),
				Num:               uint64(start),
			},
			Subframes: subframes,
		}

		if err := enc.WriteFrame(f); err != nil {
			enc.Close()
			return fmt.Errorf("writing FLAC frame at sample %d: %w", start, err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalising FLAC stream: %w", err)
	}
	return nil
}

// flacBlocks splits n samples into [start, end) blocks of at most
// encodeChunkFrames. A tail shorter than flacMinBlockSize borrows from the
// block before it. n must be at least flacMinBlockSize.
func flacBlocks(n int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for start := 0; start < n; {
			size := min(encodeChunkFrames, n-start)
			if rest := n - start - size; rest > 0 && rest < flacMinBlockSize {
				size -= flacMinBlockSize - rest
			}
			if !yield(start, start+size) {
				return
			}
			start += size
		}
	}
}
