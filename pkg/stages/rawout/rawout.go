// Package rawout implements the stage that writes a frame's planes verbatim.
package rawout

import (
	"context"
	"fmt"

	"github.com/user/chromakey/pkg/media"
	"github.com/user/chromakey/pkg/pipeline"
	"github.com/user/chromakey/pkg/ports"
)

// Stage writes every plane the frame's pixel format defines, in plane order.
// Each plane contributes Stride*rows bytes, alignment padding included, so
// the output is only meaningful together with the reported layout.
type Stage struct {
	logger ports.Logger
}

// New creates a new raw output stage.
func New(logger ports.Logger) *Stage {
	return &Stage{
		logger: logger.WithComponent("rawout"),
	}
}

// Execute writes input.Frame to input.Output. An error part way through
// leaves the bytes already written in place.
func (s *Stage) Execute(ctx context.Context, input pipeline.RawOutInput) (pipeline.RawOutResult, error) {
	result := pipeline.RawOutResult{}

	if input.Frame.Empty() {
		return result, fmt.Errorf("no frame to write")
	}
	if input.Output == nil {
		return result, fmt.Errorf("no output to write to")
	}

	for i := 0; i < input.Frame.PlaneCount(); i++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		data := input.Frame.PlaneBytes(i)
		layout := pipeline.PlaneLayout{
			Index:  i,
			Stride: input.Frame.Planes[i].Stride,
			Rows:   input.Frame.PlaneHeight(i),
			Bytes:  len(data),
		}

		n, err := input.Output.Write(data)
		result.BytesWritten += int64(n)
		if err != nil {
			return result, fmt.Errorf("write plane %d: %w", i, err)
		}
		result.Planes = append(result.Planes, layout)
		s.logger.Debug("Wrote plane %d: %d rows of %d bytes", i, layout.Rows, layout.Stride)
	}

	return result, nil
}

// ExpectedSize returns the number of bytes Execute writes for f.
func ExpectedSize(f *media.Frame) int64 {
	var n int64
	for i := 0; i < f.PlaneCount(); i++ {
		n += int64(len(f.PlaneBytes(i)))
	}
	return n
}
