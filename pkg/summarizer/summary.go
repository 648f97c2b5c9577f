// Package summarizer provides summary generation for keying runs.
package summarizer

import "time"

// Summary contains all data collected during one keying run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// How the run ended
	Outcome Outcome

	// Source information
	Source SourceInfo

	// Key settings
	Key KeySettings

	// Decoded and keyed frame
	Frame FrameInfo

	// Raw output details
	Output OutputInfo
}

// Outcome describes the final state of the run.
type Outcome struct {
	State       string
	FailedStage string
	Error       string
}

// Failed reports whether the run stopped with an error.
func (o Outcome) Failed() bool {
	return o.FailedStage != "" || o.Error != ""
}

// SourceInfo describes the decoded input.
type SourceInfo struct {
	Path        string
	Format      string
	Codec       string
	Decoder     string
	PacketsRead int
}

// KeySettings contains the chromakey configuration.
type KeySettings struct {
	PixelFormat string
	Color       string
	Similarity  float64
	Blend       float64
	YUV         bool
}

// FrameInfo contains the frame dimensions and the formats before and after keying.
type FrameInfo struct {
	Width         int
	Height        int
	DecodedFormat string
	KeyedFormat   string
}

// OutputInfo contains information about the raw output file.
type OutputInfo struct {
	Path         string
	BytesWritten int64
	Planes       []PlaneInfo
}

// PlaneInfo is the layout of one plane in the output file.
type PlaneInfo struct {
	Index  int
	Stride int
	Rows   int
	Bytes  int
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithOutcome sets the final state and, for failed runs, the failing stage and error.
func (b *Builder) WithOutcome(state, failedStage, err string) *Builder {
	b.summary.Outcome = Outcome{
		State:       state,
		FailedStage: failedStage,
		Error:       err,
	}
	return b
}

// WithSource sets source information.
func (b *Builder) WithSource(source SourceInfo) *Builder {
	b.summary.Source = source
	return b
}

// WithKey sets the key settings.
func (b *Builder) WithKey(key KeySettings) *Builder {
	b.summary.Key = key
	return b
}

// WithFrame sets frame information.
func (b *Builder) WithFrame(width, height int, decodedFormat, keyedFormat string) *Builder {
	b.summary.Frame = FrameInfo{
		Width:         width,
		Height:        height,
		DecodedFormat: decodedFormat,
		KeyedFormat:   keyedFormat,
	}
	return b
}

// WithOutput sets output information.
func (b *Builder) WithOutput(output OutputInfo) *Builder {
	b.summary.Output = output
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
