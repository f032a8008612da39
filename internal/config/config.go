package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Algorithm selects how silence is detected
type Algorithm string

const (
	// AlgorithmRMS thresholds the RMS of overlapping frames
	AlgorithmRMS Algorithm = "rms"

	// AlgorithmPeak thresholds every sample and keeps a padding margin
	AlgorithmPeak Algorithm = "peak"
)

// Defaults
const (
	DefaultThresholdDB = -40.0
	DefaultHopMS       = 10
	DefaultFrameLength = 2048
	DefaultPadding     = 32
	DefaultDuration    = 8.0

	// DefaultOutputDir is created under the input directory
	DefaultOutputDir = "trimmed"
)

// Config holds every tunable of the trim pipeline. It is passed by value to
// the components that need it.
type Config struct {
	Algorithm Algorithm `validate:"oneof=rms peak"`

	// Silence threshold in dBFS, inclusive
	ThresholdDB float64 `validate:"gte=-120,lte=0"`

	// RMS analysis stride in milliseconds and window in samples
	HopMS       int `validate:"gte=1,lte=1000"`
	FrameLength int `validate:"gte=16,lte=65536"`

	// Samples kept either side of the audible region (peak algorithm)
	Padding int `validate:"gte=0"`

	// Target clip length in seconds
	Duration float64 `validate:"gt=0,lte=3600"`

	TrimStart bool
	TrimEnd   bool

	// When non-zero every output is Duration × ReferenceSampleRate samples
	// long regardless of its own sample rate. Zero derives the target from
	// each file's sample rate.
	ReferenceSampleRate int `validate:"gte=0,lte=768000"`
}

// Default returns the configuration used when no flags are given
func Default() Config {
	return Config{
		Algorithm:   AlgorithmRMS,
		ThresholdDB: DefaultThresholdDB,
		HopMS:       DefaultHopMS,
		FrameLength: DefaultFrameLength,
		Padding:     DefaultPadding,
		Duration:    DefaultDuration,
		TrimStart:   true,
		TrimEnd:     true,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field is within range
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", fe.Field(), fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be >= %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("%s must be <= %s, got %v", fe.Field(), fe.Param(), fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be > %s, got %v", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// Threshold returns the silence threshold as a linear amplitude
func (c Config) Threshold() float64 {
	return DBToLinear(c.ThresholdDB)
}

// HopSamples converts the hop size to samples at the given rate, never less than one.
func (c Config) HopSamples(sampleRate int) int {
	hop := int(math.Round(float64(sampleRate) * float64(c.HopMS) / 1000))
	return max(hop, 1)
}

// TargetSamples returns the exact output length for a file at sampleRate.
func (c Config) TargetSamples(sampleRate int) int {
	if c.ReferenceSampleRate > 0 {
		sampleRate = c.ReferenceSampleRate
	}
	return int(math.Round(c.Duration * float64(sampleRate)))
}

// DBToLinear converts decibels to linear amplitude: 10^(dB/20)
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to decibels, -Inf for silence
func LinearToDB(v float64) float64 {
	return 20 * math.Log10(v)
}
