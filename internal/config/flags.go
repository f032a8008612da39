package config

// Flags is the kong grammar for the pipeline options. Embed it in a CLI
// struct with `embed:""`. Defaults mirror Default().
type Flags struct {
	Algorithm           string  `help:"Silence detection: rms (framed RMS) or peak (per-sample with padding)" enum:"rms,peak" default:"rms" group:"Trimming"`
	ThresholdDB         float64 `name:"threshold-db" help:"Silence threshold in dBFS" default:"-40" group:"Trimming"`
	HopMS               int     `name:"hop-ms" help:"RMS hop size in milliseconds" default:"10" group:"Trimming"`
	FrameLength         int     `name:"frame-length" help:"RMS frame length in samples" default:"2048" group:"Trimming"`
	Padding             int     `help:"Samples kept either side of audible audio (peak)" default:"32" group:"Trimming"`
	Duration            float64 `short:"d" help:"Target clip length in seconds" default:"8" group:"Length"`
	TrimStart           bool    `name:"trim-start" help:"Trim leading silence" default:"true" negatable:"" group:"Trimming"`
	TrimEnd             bool    `name:"trim-end" help:"Trim trailing silence" default:"true" negatable:"" group:"Trimming"`
	ReferenceSampleRate int     `name:"reference-sample-rate" help:"Size every output for this sample rate (0 uses each file's own rate)" default:"0" group:"Length"`
}

// Config converts parsed flags into a Config
func (f Flags) Config() Config {
	return Config{
		Algorithm:           Algorithm(f.Algorithm),
		ThresholdDB:         f.ThresholdDB,
		HopMS:               f.HopMS,
		FrameLength:         f.FrameLength,
		Padding:             f.Padding,
		Duration:            f.Duration,
		TrimStart:           f.TrimStart,
		TrimEnd:             f.TrimEnd,
		ReferenceSampleRate: f.ReferenceSampleRate,
	}
}
