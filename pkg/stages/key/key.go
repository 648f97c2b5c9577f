// Package key implements the stage that runs a frame through the
// buffer -> format -> chromakey -> buffersink filter graph.
package key

import (
	"context"
	"fmt"
	"strconv"

	"github.com/user/chromakey/pkg/filter"
	"github.com/user/chromakey/pkg/media"
	"github.com/user/chromakey/pkg/pipeline"
	"github.com/user/chromakey/pkg/ports"
)

// DefaultTimeBase is declared on the source stage when the input has none.
var DefaultTimeBase = media.Rational{Num: 1, Den: 25}

// Stage keys one frame through a freshly built filter graph.
type Stage struct {
	logger ports.Logger
}

// New creates a new key stage.
func New(logger ports.Logger) *Stage {
	return &Stage{
		logger: logger.WithComponent("filter"),
	}
}

// Execute builds and configures the graph, pushes input.Frame with
// FlagKeepRef|FlagPush and pulls the keyed frame. input.Frame stays valid.
func (s *Stage) Execute(ctx context.Context, input pipeline.KeyInput) (pipeline.KeyResult, error) {
	result := pipeline.KeyResult{}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	if input.Frame.Empty() {
		return result, fmt.Errorf("%w: no frame to key", media.ErrGraphExec)
	}

	g := filter.NewGraph()
	defer g.Free()

	src, sink, err := s.build(g, input)
	if err != nil {
		return result, err
	}
	input.OnState.Enter(pipeline.StateGraphBuilt)

	if err := g.Configure(); err != nil {
		return result, err
	}
	result.GraphDump = g.Dump()
	input.OnState.Enter(pipeline.StateGraphConfigured)
	s.logger.Debug("Configured filter graph with %d stages", len(g.Stages()))

	if err := g.PushFrame(src, input.Frame, filter.FlagKeepRef|filter.FlagPush); err != nil {
		return result, err
	}
	input.OnState.Enter(pipeline.StateFramePushed)

	frame, err := g.PullFrame(sink)
	if err != nil {
		return result, err
	}
	result.Frame = frame
	input.OnState.Enter(pipeline.StateFramePulled)
	s.logger.Debug("Pulled %dx%d %s frame", frame.Width, frame.Height, frame.Format)

	return result, nil
}

// build adds the four stages and links them in a chain.
func (s *Stage) build(g *filter.Graph, input pipeline.KeyInput) (src, sink *filter.Stage, err error) {
	chain := []struct {
		kind, name, args string
	}{
		{"buffer", "in", sourceArgs(input)},
		{"format", "format", "pix_fmts=" + input.PixelFormats},
		{"chromakey", "chromakey", keyArgs(input)},
		{"buffersink", "out", ""},
	}

	stages := make([]*filter.Stage, 0, len(chain))
	for _, def := range chain {
		st, err := g.AddStage(def.kind, def.name, def.args)
		if err != nil {
			return nil, nil, err
		}
		s.logger.Debug("Added %s stage %q: %s", def.kind, def.name, def.args)
		stages = append(stages, st)
	}
	for i := 1; i < len(stages); i++ {
		if err := g.Link(stages[i-1], 0, stages[i], 0); err != nil {
			return nil, nil, err
		}
	}
	return stages[0], stages[len(stages)-1], nil
}

func sourceArgs(input pipeline.KeyInput) string {
	f := input.Frame
	tb := input.TimeBase
	if !tb.Valid() {
		tb = DefaultTimeBase
	}
	sar := f.SampleAspectRatio
	if !sar.Valid() {
		sar = media.Rational{Num: 1, Den: 1}
	}
	return fmt.Sprintf("width=%d:height=%d:pix_fmt=%s:time_base=%s:sar=%s",
		f.Width, f.Height, f.Format, tb, sar)
}

func keyArgs(input pipeline.KeyInput) string {
	args := fmt.Sprintf("color=%s:similarity=%s:blend=%s",
		input.Color, formatFloat(input.Similarity), formatFloat(input.Blend))
	if input.YUV {
		args += ":yuv=1"
	}
	return args
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
