package audio

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// sineWaveform builds a stereo test signal with a different tone per channel
func sineWaveform(length, sampleRate, bitDepth int, format Format) *Waveform {
	w := NewWaveform(2, length, sampleRate)
	w.BitDepth = bitDepth
	w.Format = format
	for i := 0; i < length; i++ {
		t := float64(i) / float64(sampleRate)
		w.Channels[0][i] = 0.5 * math.Sin(2*math.Pi*440*t)
		w.Channels[1][i] = 0.25 * math.Sin(2*math.Pi*220*t)
	}
	return w
}

func assertClose(t *testing.T, want, got *Waveform, tolerance float64) {
	t.Helper()

	if got.SampleRate != want.SampleRate {
		t.Errorf("SampleRate = %d, want %d", got.SampleRate, want.SampleRate)
	}
	if got.NumChannels() != want.NumChannels() {
		t.Fatalf("NumChannels = %d, want %d", got.NumChannels(), want.NumChannels())
	}
	if got.Len() != want.Len() {
		t.Fatalf("Len = %d, want %d", got.Len(), want.Len())
	}
	if got.BitDepth != want.BitDepth {
		t.Errorf("BitDepth = %d, want %d", got.BitDepth, want.BitDepth)
	}
	if got.Format != want.Format {
		t.Errorf("Format = %s, want %s", got.Format, want.Format)
	}

	for c := range want.Channels {
		for i := range want.Channels[c] {
			if diff := math.Abs(got.Channels[c][i] - want.Channels[c][i]); diff > tolerance {
				t.Fatalf("channel %d sample %d: got %f, want %f", c, i, got.Channels[c][i], want.Channels[c][i])
			}
		}
	}
}

func TestWAVRoundTrip(t *testing.T) {
	for _, bitDepth := range []int{8, 16, 24, 32} {
		w := sineWaveform(10000, 22050, bitDepth, FormatWAV)
		path := filepath.Join(t.TempDir(), "tone.wav")

		if err := Save(path, w); err != nil {
			t.Fatalf("%d-bit: Save failed: %v", bitDepth, err)
		}

		got, err := Load(path)
		if err != nil {
			t.Fatalf("%d-bit: Load failed: %v", bitDepth, err)
		}

		// One quantisation step of the coarsest depth
		tolerance := 2.0 / wavScale(bitDepth).max
		assertClose(t, w, got, tolerance)
	}
}

func TestFLACRoundTrip(t *testing.T) {
	// Length deliberately not a multiple of the block size
	w := sineWaveform(encodeChunkFrames*2+123, 44100, 16, FormatFLAC)
	path := filepath.Join(t.TempDir(), "tone.flac")

	if err := Save(path, w); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	assertClose(t, w, got, 2.0/flacScale(16).max)
}

func TestFLACRoundTripShortTail(t *testing.T) {
	// Tails under the FLAC minimum block size
	lengths := []int{encodeChunkFrames + 1, encodeChunkFrames + 4, encodeChunkFrames + 15, encodeChunkFrames*2 + 15}

	for _, bitDepth := range []int{8, 16, 24} {
		for _, n := range lengths {
			w := sineWaveform(n, 8000, bitDepth, FormatFLAC)
			path := filepath.Join(t.TempDir(), "tail.flac")

			if err := Save(path, w); err != nil {
				t.Fatalf("%d-bit n=%d: Save failed: %v", bitDepth, n, err)
			}

			got, err := Load(path)
			if err != nil {
				t.Fatalf("%d-bit n=%d: Load failed: %v", bitDepth, n, err)
			}
			assertClose(t, w, got, 2.0/flacScale(bitDepth).max)
		}
	}
}

func TestFLACBlocks(t *testing.T) {
	for _, n := range []int{16, 100, encodeChunkFrames, encodeChunkFrames + 1, encodeChunkFrames + 16, encodeChunkFrames*3 + 7} {
		next := 0
		for start, end := range flacBlocks(n) {
			if start != next {
				t.Fatalf("n=%d: block starts at %d, want %d", n, start, next)
			}
			if size := end - start; size < flacMinBlockSize || size > encodeChunkFrames {
				t.Errorf("n=%d: block [%d, %d) has size %d", n, start, end, size)
			}
			next = end
		}
		if next != n {
			t.Errorf("n=%d: blocks end at %d", n, next)
		}
	}
}

func TestFLACRejectsTinyWaveform(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []int{0, 1, flacMinBlockSize - 1} {
		w := sineWaveform(n, 8000, 16, FormatFLAC)
		if err := Save(filepath.Join(dir, "tiny.flac"), w); !errors.Is(err, ErrTooShort) {
			t.Errorf("n=%d: expected ErrTooShort, got %v", n, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no output files, got %v", entries)
	}
}

func TestFLACRejects32Bit(t *testing.T) {
	w := sineWaveform(100, 8000, 32, FormatFLAC)
	err := Save(filepath.Join(t.TempDir(), "wide.flac"), w)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

// writeFLACHeader writes a STREAMINFO-only FLAC stream with no frames
func writeFLACHeader(t *testing.T, path string, sampleRate, channels, bitDepth int) {
	t.Helper()

	b := []byte("fLaC")
	b = append(b, 0x80, 0, 0, 34) // last block, STREAMINFO, 34 bytes
	b = binary.BigEndian.AppendUint16(b, 16)
	b = binary.BigEndian.AppendUint16(b, 4096)
	b = append(b, make([]byte, 6)...) // frame sizes unknown
	packed := uint64(sampleRate)<<44 | uint64(channels-1)<<41 | uint64(bitDepth-1)<<36
	b = binary.BigEndian.AppendUint64(b, packed)
	b = append(b, make([]byte, 16)...) // MD5

	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFLACDecoderRejects32Bit(t *testing.T) {
	dir := t.TempDir()

	ok := filepath.Join(dir, "ok.flac")
	writeFLACHeader(t, ok, 8000, 1, 16)
	d, err := NewFLACDecoder(ok)
	if err != nil {
		t.Fatalf("NewFLACDecoder failed on 16-bit header: %v", err)
	}
	d.Close()

	wide := filepath.Join(dir, "wide.flac")
	writeFLACHeader(t, wide, 8000, 1, 32)
	if _, err := NewFLACDecoder(wide); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

// writeWAVFile writes a canonical 44-byte header followed by data
func writeWAVFile(t *testing.T, path string, formatTag uint16, channels, sampleRate, bitDepth int, data []byte) {
	t.Helper()

	blockAlign := channels * bitDepth / 8
	b := []byte("RIFF")
	b = binary.LittleEndian.AppendUint32(b, uint32(36+len(data)))
	b = append(b, "WAVEfmt "...)
	b = binary.LittleEndian.AppendUint32(b, 16)
	b = binary.LittleEndian.AppendUint16(b, formatTag)
	b = binary.LittleEndian.AppendUint16(b, uint16(channels))
	b = binary.LittleEndian.AppendUint32(b, uint32(sampleRate))
	b = binary.LittleEndian.AppendUint32(b, uint32(sampleRate*blockAlign))
	b = binary.LittleEndian.AppendUint16(b, uint16(blockAlign))
	b = binary.LittleEndian.AppendUint16(b, uint16(bitDepth))
	b = append(b, "data"...)
	b = binary.LittleEndian.AppendUint32(b, uint32(len(data)))
	b = append(b, data...)

	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadRejectsFloatWAV(t *testing.T) {
	const wavFormatFloat = 3

	var data []byte
	for range 1000 {
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(0.01))
	}
	path := filepath.Join(t.TempDir(), "float.wav")
	writeWAVFile(t, path, wavFormatFloat, 1, 8000, 32, data)

	if _, err := Load(path); !errors.Is(err, ErrInvalidFile) {
		t.Errorf("Load: expected ErrInvalidFile, got %v", err)
	}
	if _, err := Probe(path); !errors.Is(err, ErrInvalidFile) {
		t.Errorf("Probe: expected ErrInvalidFile, got %v", err)
	}
}

func TestLoadExtensibleWAV(t *testing.T) {
	data := binary.LittleEndian.AppendUint16(nil, uint16(16384))
	data = binary.LittleEndian.AppendUint16(data, uint16(0xC000)) // -16384
	path := filepath.Join(t.TempDir(), "ext.wav")
	writeWAVFile(t, path, wavFormatExtensible, 1, 8000, 16, data)

	w, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if w.Len() != 2 {
		t.Fatalf("Len = %d, want 2", w.Len())
	}
	if math.Abs(w.Channels[0][0]-16384.0/32767) > 1e-9 || math.Abs(w.Channels[0][1]+16384.0/32767) > 1e-9 {
		t.Errorf("samples = %v", w.Channels[0])
	}
}

func TestZeroLengthWAV(t *testing.T) {
	dir := t.TempDir()

	// Hand-built, as other tools write it
	path := filepath.Join(dir, "empty.wav")
	writeWAVFile(t, path, wavFormatPCM, 2, 22050, 16, nil)

	w, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if w.Len() != 0 || w.NumChannels() != 2 || w.SampleRate != 22050 {
		t.Errorf("got %d samples %dch %d Hz, want 0 samples 2ch 22050 Hz", w.Len(), w.NumChannels(), w.SampleRate)
	}

	m, err := Probe(path)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if m.NumSamples != 0 {
		t.Errorf("NumSamples = %d, want 0", m.NumSamples)
	}

	// And written by Save
	saved := filepath.Join(dir, "saved.wav")
	if err := Save(saved, NewWaveform(1, 0, 8000)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Load(saved)
	if err != nil {
		t.Fatalf("Load of saved file failed: %v", err)
	}
	if got.Len() != 0 || got.SampleRate != 8000 {
		t.Errorf("got %d samples at %d Hz, want 0 at 8000 Hz", got.Len(), got.SampleRate)
	}
}

func TestMonoWAVRoundTrip(t *testing.T) {
	w := NewWaveform(1, 500, 8000)
	for i := range w.Channels[0] {
		w.Channels[0][i] = float64(i%100) / 100
	}
	path := filepath.Join(t.TempDir(), "mono.wav")

	if err := Save(path, w); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertClose(t, w, got, 2.0/32767)
}

func TestSaveLeavesNoTemporaryFiles(t *testing.T) {
	dir := t.TempDir()
	w := sineWaveform(1000, 8000, 16, FormatWAV)

	if err := Save(filepath.Join(dir, "out.wav"), w); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "out.wav" {
		t.Errorf("expected only out.wav in output dir, got %v", entries)
	}
}

func TestSaveRejectsRaggedWaveform(t *testing.T) {
	w := NewWaveform(2, 100, 8000)
	w.Channels[1] = w.Channels[1][:50]

	err := Save(filepath.Join(t.TempDir(), "bad.wav"), w)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.wav")
	if err := os.WriteFile(path, []byte("this is not a RIFF file"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for corrupt WAV, got nil")
	}
}

func TestLoadNonexistentFile(t *testing.T) {
	if _, err := Load("nonexistent.wav"); err == nil {
		t.Error("expected error for nonexistent file, got nil")
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load("clip.mp3")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestWAVDecoderChunks(t *testing.T) {
	w := sineWaveform(5000, 16000, 16, FormatWAV)
	path := filepath.Join(t.TempDir(), "chunks.wav")
	if err := Save(path, w); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	d, err := NewWAVDecoder(path)
	if err != nil {
		t.Fatalf("NewWAVDecoder failed: %v", err)
	}
	defer d.Close()

	total := 0
	for {
		chunk, err := d.ReadChunk(1024)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadChunk failed: %v", err)
		}
		if len(chunk) != 2 {
			t.Fatalf("expected 2 channels per chunk, got %d", len(chunk))
		}
		if len(chunk[0]) > 1024 {
			t.Errorf("chunk larger than requested: %d", len(chunk[0]))
		}
		total += len(chunk[0])
	}

	if total != 5000 {
		t.Errorf("read %d frames, want 5000", total)
	}

	// Reading past the end keeps returning EOF
	if _, err := d.ReadChunk(1024); err != io.EOF {
		t.Errorf("expected EOF after end of data, got %v", err)
	}
}

func TestDecoderCloseTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "close.wav")
	if err := Save(path, sineWaveform(100, 8000, 16, FormatWAV)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	d, err := NewWAVDecoder(path)
	if err != nil {
		t.Fatalf("NewWAVDecoder failed: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("first Close failed: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
