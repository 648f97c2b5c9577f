package filter

import (
	"fmt"

	"github.com/user/chromakey/pkg/media"
)

// PushFlags control how PushFrame takes the frame.
type PushFlags int

const (
	// FlagKeepRef leaves the caller's frame valid by pushing a new reference.
	// Without it the frame's content is moved into the graph and the
	// caller's frame is left empty.
	FlagKeepRef PushFlags = 1 << iota
	// FlagPush filters the frame through to the sinks before returning.
	FlagPush
)

// PushFrame queues frame on the source stage src. A nil frame marks the end
// of the stream.
func (g *Graph) PushFrame(src *Stage, frame *media.Frame, flags PushFlags) error {
	if err := g.usable(src); err != nil {
		return err
	}
	buf, ok := src.proc.(*bufferSource)
	if !ok {
		return fmt.Errorf("%w: %q is not a buffer source", media.ErrGraphExec, src.name)
	}
	if buf.eof {
		return fmt.Errorf("%w: %q: frame pushed after end of stream", media.ErrGraphExec, src.name)
	}

	if frame == nil {
		buf.eof = true
		buf.queue = append(buf.queue, nil)
	} else {
		if err := buf.accept(frame); err != nil {
			return fmt.Errorf("%w: %q: %v", media.ErrGraphExec, src.name, err)
		}
		var f *media.Frame
		if flags&FlagKeepRef != 0 {
			f = frame.Ref()
		} else {
			f = frame.MoveRef()
		}
		if !f.TimeBase.Valid() {
			f.TimeBase = buf.props.TimeBase
		}
		buf.queue = append(buf.queue, f)
	}

	if flags&FlagPush != 0 {
		return g.run()
	}
	return nil
}

// PullFrame returns the next frame available at the sink stage. It returns
// media.ErrNoFrameAvailable when nothing has been produced yet and
// media.ErrEndOfStream once the end of stream has reached the sink.
func (g *Graph) PullFrame(sink *Stage) (*media.Frame, error) {
	if err := g.usable(sink); err != nil {
		return nil, err
	}
	bs, ok := sink.proc.(*bufferSink)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a buffer sink", media.ErrGraphExec, sink.name)
	}

	if len(bs.queue) == 0 {
		if err := g.run(); err != nil {
			return nil, err
		}
	}
	if f := bs.pop(); f != nil {
		return f, nil
	}
	if bs.eof {
		return nil, media.ErrEndOfStream
	}
	return nil, media.ErrNoFrameAvailable
}

func (g *Graph) usable(s *Stage) error {
	switch {
	case g.freed:
		return fmt.Errorf("%w: graph has been freed", media.ErrGraphExec)
	case !g.configured:
		return fmt.Errorf("%w: graph is not configured", media.ErrGraphExec)
	case s == nil || s.graph != g:
		return fmt.Errorf("%w: stage does not belong to the graph", media.ErrGraphExec)
	}
	return nil
}

// run filters every queued source frame through to the sinks.
func (g *Graph) run() error {
	for _, s := range g.stages {
		buf, ok := s.proc.(*bufferSource)
		if !ok {
			continue
		}
		for len(buf.queue) > 0 {
			f := buf.queue[0]
			buf.queue = buf.queue[1:]
			if err := g.deliver(s.outputs[0], f); err != nil {
				return err
			}
		}
	}
	return nil
}

// deliver hands f to the stage at the end of l and forwards the result.
func (g *Graph) deliver(l *Link, f *media.Frame) error {
	dst := l.Dst
	out, err := dst.proc.filter(f)
	if err != nil {
		return fmt.Errorf("%w: %q (%s): %v", media.ErrGraphExec, dst.name, dst.kind.Name, err)
	}
	if len(dst.outputs) == 0 {
		return nil
	}
	if out == nil && f != nil {
		return nil
	}
	return g.deliver(dst.outputs[0], out)
}
