package filter

import (
	"fmt"
	"slices"

	"github.com/user/chromakey/pkg/media"
	"github.com/user/chromakey/pkg/swscale"
)

var formatKind = &Kind{
	Name:        "format",
	Description: "Convert the input video to one of the specified pixel formats.",
	Inputs:      1,
	Outputs:     1,
	Options: []Option{
		{Name: "pix_fmts", Type: OptionPixelFormats, Help: "'|'-separated list of pixel formats"},
	},
	create: newFormat,
}

// formatConstraint restricts its output to a list of pixel formats,
// converting when the input is not in the list.
type formatConstraint struct {
	formats []media.PixelFormat
	out     LinkProps
}

func newFormat(v Values) (processor, error) {
	formats := v.PixelFormats("pix_fmts")
	if len(formats) == 0 {
		return nil, fmt.Errorf("option %q is required", "pix_fmts")
	}
	return &formatConstraint{formats: formats}, nil
}

func (f *formatConstraint) configure(inputs []LinkProps) ([]LinkProps, error) {
	out := inputs[0]
	if !slices.Contains(f.formats, out.Format) {
		out.Format = f.formats[0]
	}
	f.out = out
	return []LinkProps{out}, nil
}

func (f *formatConstraint) filter(frame *media.Frame) (*media.Frame, error) {
	if frame == nil || frame.Format == f.out.Format {
		return frame, nil
	}
	converted, err := swscale.Convert(frame, f.out.Format)
	frame.Unref()
	if err != nil {
		return nil, err
	}
	return converted, nil
}
