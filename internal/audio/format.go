package audio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies an audio container
type Format int

const (
	FormatUnknown Format = iota
	FormatWAV
	FormatFLAC
)

// String returns the conventional file extension without the dot
func (f Format) String() string {
	switch f {
	case FormatWAV:
		return "wav"
	case FormatFLAC:
		return "flac"
	default:
		return "unknown"
	}
}

// FormatFromPath detects the container from the file extension (case insensitive).
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return FormatWAV
	case ".flac":
		return FormatFLAC
	default:
		return FormatUnknown
	}
}

// IsSupported reports whether path has an extension jivetrim can read and write.
func IsSupported(path string) bool {
	return FormatFromPath(path) != FormatUnknown
}

// OpenDecoder opens the decoder matching the file's extension
func OpenDecoder(filename string) (AudioDecoder, error) {
	switch FormatFromPath(filename) {
	case FormatWAV:
		return NewWAVDecoder(filename)
	case FormatFLAC:
		return NewFLACDecoder(filename)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}
