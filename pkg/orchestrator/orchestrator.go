// Package orchestrator coordinates the load, key and raw output stages.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"

	"github.com/asticode/go-astikit"
	"github.com/ideamans/go-l10n"
	"github.com/user/chromakey/pkg/lifecycle"
	"github.com/user/chromakey/pkg/media"
	"github.com/user/chromakey/pkg/pipeline"
	"github.com/user/chromakey/pkg/ports"
	"github.com/user/chromakey/pkg/swscale"
)

// Stage names used as error prefixes.
const (
	StageDecode     = "decode input"
	StageOpenOutput = "open output"
	StageKey        = "key frame"
	StageWrite      = "write output"
)

// Config contains all configuration for one run.
type Config struct {
	InputPath  string
	OutputPath string

	// MaxPackets bounds the packets read before a frame must be decoded.
	MaxPackets int

	// PixelFormats is the format constraint applied before keying.
	PixelFormats string
	Color        string
	Similarity   float64
	Blend        float64
	YUV          bool
	TimeBase     media.Rational
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		MaxPackets:   1,
		PixelFormats: "yuva422p",
		Color:        "green",
		Similarity:   0.3,
		Blend:        0.3,
		TimeBase:     media.Rational{Num: 1, Den: 25},
	}
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	loadStage   pipeline.Stage[pipeline.LoadInput, pipeline.LoadResult]
	keyStage    pipeline.Stage[pipeline.KeyInput, pipeline.KeyResult]
	rawOutStage pipeline.Stage[pipeline.RawOutInput, pipeline.RawOutResult]
	fs          ports.FileSystem
	sink        ports.DebugSink
	logger      ports.Logger
}

// New creates a new Orchestrator.
func New(
	loadStage pipeline.Stage[pipeline.LoadInput, pipeline.LoadResult],
	keyStage pipeline.Stage[pipeline.KeyInput, pipeline.KeyResult],
	rawOutStage pipeline.Stage[pipeline.RawOutInput, pipeline.RawOutResult],
	fs ports.FileSystem,
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		loadStage:   loadStage,
		keyStage:    keyStage,
		rawOutStage: rawOutStage,
		fs:          fs,
		sink:        sink,
		logger:      logger,
	}
}

// Run decodes the first frame of config.InputPath, keys it and writes its
// raw planes to config.OutputPath. The result is filled in as far as the run
// got, and its State is StateFailed when an error is returned. A failure
// after the output has been opened leaves a partial file behind.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	run := newTracker(o.logger.WithComponent("state"))
	result := RunResult{
		InputPath:  config.InputPath,
		OutputPath: config.OutputPath,
		Color:      config.Color,
		Similarity: config.Similarity,
		Blend:      config.Blend,
	}

	frames := astikit.NewCloser()
	defer frames.Close()

	fail := func(stage string, err error) (RunResult, error) {
		run.enter(pipeline.StateFailed)
		result.setState(run.state)
		result.FailedStage = stage
		result.Error = err.Error()
		o.saveRunJSON(result)
		return result, fmt.Errorf("%s: %w", stage, err)
	}

	o.logger.Info(l10n.F("Keying %s into %s", config.InputPath, config.OutputPath))

	// 1. Decode the first frame
	loaded, err := o.loadStage.Execute(ctx, pipeline.LoadInput{
		Path:       config.InputPath,
		MaxPackets: config.MaxPackets,
		OnState:    run.enter,
	})
	if err != nil {
		o.logger.Debug("Failed to decode input: %s", err)
		return fail(StageDecode, err)
	}
	frames.Add(loaded.Frame.Unref)
	result.SourceFormat = loaded.SourceFormat
	result.Codec = loaded.Stream.CodecID.String()
	result.Decoder = loaded.DecoderName
	result.Width = loaded.Frame.Width
	result.Height = loaded.Frame.Height
	result.DecodedFormat = loaded.Frame.Format.String()
	result.PacketsRead = loaded.PacketsRead
	o.logger.Info(l10n.F("Decoded %dx%d %s frame from %s (%s)",
		loaded.Frame.Width, loaded.Frame.Height, loaded.Frame.Format, loaded.SourceFormat, loaded.Stream.CodecID))
	o.saveImage(loaded.Frame, o.sink.SaveDecoded)

	// 2. Open the output
	out, err := o.fs.Create(config.OutputPath)
	if err != nil {
		err = fmt.Errorf("%w: %s: %v", media.ErrOutputOpen, config.OutputPath, err)
		o.logger.Debug("Failed to open output: %s", err)
		return fail(StageOpenOutput, err)
	}
	closeOut := lifecycle.New(out, func(w io.WriteCloser) error { return w.Close() })
	defer closeOut.Release()

	// 3. Key the frame
	keyed, err := o.keyStage.Execute(ctx, pipeline.KeyInput{
		Frame:        loaded.Frame,
		PixelFormats: config.PixelFormats,
		Color:        config.Color,
		Similarity:   config.Similarity,
		Blend:        config.Blend,
		YUV:          config.YUV,
		TimeBase:     config.TimeBase,
		OnState:      run.enter,
	})
	if keyed.GraphDump != "" && o.sink.Enabled() {
		o.warnIfFailed(o.sink.SaveGraph(keyed.GraphDump))
	}
	if err != nil {
		o.logger.Debug("Failed to key frame: %s", err)
		o.logger.Debug("Output is incomplete, %s was not removed", config.OutputPath)
		return fail(StageKey, err)
	}
	frames.Add(keyed.Frame.Unref)
	result.KeyedFormat = keyed.Frame.Format.String()
	o.logger.Info(l10n.F("Keyed frame to %s with color %s", keyed.Frame.Format, config.Color))
	o.saveImage(keyed.Frame, o.sink.SaveKeyed)

	// 4. Write the raw planes
	written, err := o.rawOutStage.Execute(ctx, pipeline.RawOutInput{
		Frame:  keyed.Frame,
		Output: out,
	})
	result.BytesWritten = written.BytesWritten
	result.Planes = written.Planes
	if err == nil {
		err = closeOut.Release()
	}
	if err != nil {
		o.logger.Debug("Failed to write output: %s", err)
		o.logger.Debug("Output is incomplete, %s was not removed", config.OutputPath)
		return fail(StageWrite, err)
	}
	o.logger.Info(l10n.F("Wrote %d bytes to %s", written.BytesWritten, config.OutputPath))

	run.enter(pipeline.StateDone)
	result.setState(run.state)
	o.saveRunJSON(result)

	o.logger.Info(l10n.T("Pipeline completed successfully"))
	return result, nil
}

func (o *Orchestrator) saveImage(f *media.Frame, save func(image.Image) error) {
	if !o.sink.Enabled() {
		return
	}
	img, err := swscale.ToImage(f)
	if err != nil {
		o.warnIfFailed(err)
		return
	}
	o.warnIfFailed(save(img))
}

func (o *Orchestrator) saveRunJSON(result RunResult) {
	if !o.sink.Enabled() {
		return
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		o.warnIfFailed(err)
		return
	}
	o.warnIfFailed(o.sink.SaveRunJSON(data))
}

func (o *Orchestrator) warnIfFailed(err error) {
	if err != nil {
		o.logger.Warn(l10n.F("Failed to save debug output: %s", err))
	}
}

// tracker records the run's state and logs every transition.
type tracker struct {
	state  pipeline.State
	logger ports.Logger
}

func newTracker(logger ports.Logger) *tracker {
	return &tracker{state: pipeline.StateIdle, logger: logger}
}

func (t *tracker) enter(s pipeline.State) {
	if t.state.Terminal() {
		return
	}
	t.logger.Debug("State: %s -> %s", t.state, s)
	t.state = s
}

// RunResult contains the results of a run for debug output and summaries.
type RunResult struct {
	State       pipeline.State `json:"-"`
	StateName   string         `json:"state"`
	FailedStage string         `json:"failed_stage,omitempty"`
	Error       string         `json:"error,omitempty"`

	InputPath  string `json:"input"`
	OutputPath string `json:"output"`

	// Source information
	SourceFormat string `json:"source_format,omitempty"`
	Codec        string `json:"codec,omitempty"`
	Decoder      string `json:"decoder,omitempty"`
	PacketsRead  int    `json:"packets_read,omitempty"`

	// Frame information
	Width         int    `json:"width,omitempty"`
	Height        int    `json:"height,omitempty"`
	DecodedFormat string `json:"decoded_format,omitempty"`
	KeyedFormat   string `json:"keyed_format,omitempty"`

	// Key settings
	Color      string  `json:"color"`
	Similarity float64 `json:"similarity"`
	Blend      float64 `json:"blend"`

	// Output information
	BytesWritten int64                  `json:"bytes_written"`
	Planes       []pipeline.PlaneLayout `json:"planes,omitempty"`
}

func (r *RunResult) setState(s pipeline.State) {
	r.State = s
	r.StateName = s.String()
}
