package filter

import "github.com/user/chromakey/pkg/media"

var bufferSinkKind = &Kind{
	Name:        "buffersink",
	Description: "Buffer video frames, and make them available to the end of the filter graph.",
	Inputs:      1,
	Outputs:     0,
	create: func(Values) (processor, error) {
		return &bufferSink{}, nil
	},
}

// bufferSink collects filtered frames until the application pulls them.
type bufferSink struct {
	props LinkProps
	queue []*media.Frame
	eof   bool
}

func (s *bufferSink) configure(inputs []LinkProps) ([]LinkProps, error) {
	s.props = inputs[0]
	return nil, nil
}

func (s *bufferSink) filter(f *media.Frame) (*media.Frame, error) {
	if f == nil {
		s.eof = true
		return nil, nil
	}
	s.queue = append(s.queue, f)
	return nil, nil
}

func (s *bufferSink) pop() *media.Frame {
	if len(s.queue) == 0 {
		return nil
	}
	f := s.queue[0]
	s.queue = s.queue[1:]
	return f
}

func (s *bufferSink) free() {
	for _, f := range s.queue {
		f.Unref()
	}
	s.queue = nil
}
