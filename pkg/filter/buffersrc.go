package filter

import (
	"fmt"

	"github.com/user/chromakey/pkg/media"
)

var bufferKind = &Kind{
	Name:        "buffer",
	Description: "Buffer video frames, and make them accessible to the filterchain.",
	Inputs:      0,
	Outputs:     1,
	Options: []Option{
		{Name: "width", Type: OptionInt, Min: 1, Max: 1 << 16, Help: "frame width"},
		{Name: "height", Type: OptionInt, Min: 1, Max: 1 << 16, Help: "frame height"},
		{Name: "pix_fmt", Type: OptionPixelFormat, Help: "pixel format"},
		{Name: "time_base", Type: OptionRational, Help: "time base of pushed frames"},
		{Name: "sar", Type: OptionRational, Default: "1/1", Help: "sample aspect ratio"},
	},
	create: newBufferSource,
}

// bufferSource holds frames pushed by the application until they are filtered.
type bufferSource struct {
	props LinkProps
	queue []*media.Frame
	eof   bool
}

func newBufferSource(v Values) (processor, error) {
	for _, name := range []string{"width", "height", "pix_fmt", "time_base"} {
		if !v.Has(name) {
			return nil, fmt.Errorf("option %q is required", name)
		}
	}
	return &bufferSource{props: LinkProps{
		Format:            v.PixelFormat("pix_fmt"),
		Width:             v.Int("width"),
		Height:            v.Int("height"),
		TimeBase:          v.Rational("time_base"),
		SampleAspectRatio: v.Rational("sar"),
	}}, nil
}

func (s *bufferSource) configure([]LinkProps) ([]LinkProps, error) {
	return []LinkProps{s.props}, nil
}

func (s *bufferSource) filter(f *media.Frame) (*media.Frame, error) {
	return f, nil
}

// accept checks a pushed frame against the declared parameters.
func (s *bufferSource) accept(f *media.Frame) error {
	if f.Empty() {
		return fmt.Errorf("frame has no data")
	}
	if f.Width != s.props.Width || f.Height != s.props.Height || f.Format != s.props.Format {
		return fmt.Errorf("frame %dx%d %s does not match declared %dx%d %s",
			f.Width, f.Height, f.Format, s.props.Width, s.props.Height, s.props.Format)
	}
	return nil
}

func (s *bufferSource) free() {
	for _, f := range s.queue {
		f.Unref()
	}
	s.queue = nil
}
