package media

import (
	"fmt"
	"sync/atomic"
)

// FrameAlign is the byte alignment applied to plane strides by AllocFrame.
const FrameAlign = 32

// Buffer is a reference-counted byte buffer backing one frame plane.
type Buffer struct {
	data []byte
	refs atomic.Int32
}

func newBuffer(size int) *Buffer {
	b := &Buffer{data: make([]byte, size)}
	b.refs.Store(1)
	return b
}

func (b *Buffer) ref() *Buffer {
	b.refs.Add(1)
	return b
}

func (b *Buffer) unref() {
	if b.refs.Add(-1) == 0 {
		b.data = nil
	}
}

// Refs returns the number of live references to the buffer.
func (b *Buffer) Refs() int {
	return int(b.refs.Load())
}

// Plane is one row-major pixel buffer of a frame.
type Plane struct {
	// Data holds Stride*rows bytes.
	Data []byte
	// Stride is the number of bytes per row, including alignment padding.
	Stride int

	buf *Buffer
}

// Frame is a decoded picture. Plane i is nil when the pixel format does not
// define it. Strides are only meaningful for Format.
type Frame struct {
	Width  int
	Height int
	Format PixelFormat

	PTS               int64
	TimeBase          Rational
	SampleAspectRatio Rational
	KeyFrame          bool

	Planes [MaxPlanes]*Plane
}

// NewFrame returns an empty frame that owns no buffers.
func NewFrame() *Frame {
	return &Frame{Format: PixelFormatNone}
}

// AllocFrame allocates a frame with fresh, zeroed planes for the format.
func AllocFrame(format PixelFormat, width, height int) (*Frame, error) {
	desc, ok := format.Descriptor()
	if !ok {
		return nil, fmt.Errorf("alloc frame: unknown pixel format %d", format)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("alloc frame: invalid size %dx%d", width, height)
	}

	f := &Frame{
		Width:             width,
		Height:            height,
		Format:            format,
		SampleAspectRatio: Rational{Num: 1, Den: 1},
	}
	for i := 0; i < desc.Planes; i++ {
		stride := alignUp(desc.PlaneWidth(i, width)*desc.PixelStep[i], FrameAlign)
		buf := newBuffer(stride * desc.PlaneHeight(i, height))
		f.Planes[i] = &Plane{Data: buf.data, Stride: stride, buf: buf}
	}
	return f, nil
}

// Empty reports whether the frame holds no picture data.
func (f *Frame) Empty() bool {
	if f == nil {
		return true
	}
	for _, p := range f.Planes {
		if p != nil {
			return false
		}
	}
	return true
}

// PlaneCount returns the number of planes the frame's format defines.
func (f *Frame) PlaneCount() int {
	desc, ok := f.Format.Descriptor()
	if !ok {
		return 0
	}
	return desc.Planes
}

// PlaneHeight returns the number of rows stored in plane i.
func (f *Frame) PlaneHeight(i int) int {
	desc, ok := f.Format.Descriptor()
	if !ok || i < 0 || i >= desc.Planes {
		return 0
	}
	return desc.PlaneHeight(i, f.Height)
}

// PlaneBytes returns the Stride*PlaneHeight bytes of plane i, or nil.
func (f *Frame) PlaneBytes(i int) []byte {
	if i < 0 || i >= MaxPlanes || f.Planes[i] == nil {
		return nil
	}
	p := f.Planes[i]
	n := p.Stride * f.PlaneHeight(i)
	if n > len(p.Data) {
		n = len(p.Data)
	}
	return p.Data[:n]
}

// Ref returns a new frame that shares f's buffers.
func (f *Frame) Ref() *Frame {
	dst := *f
	dst.Planes = [MaxPlanes]*Plane{}
	for i, p := range f.Planes {
		if p == nil {
			continue
		}
		np := *p
		if p.buf != nil {
			np.buf = p.buf.ref()
		}
		dst.Planes[i] = &np
	}
	return &dst
}

// MoveRef transfers f's content into a new frame and resets f.
func (f *Frame) MoveRef() *Frame {
	dst := *f
	f.reset()
	return &dst
}

// Unref drops all references held by the frame and resets it.
// Calling Unref on an empty or nil frame is a no-op.
func (f *Frame) Unref() {
	if f == nil {
		return
	}
	for _, p := range f.Planes {
		if p != nil && p.buf != nil {
			p.buf.unref()
		}
	}
	f.reset()
}

func (f *Frame) reset() {
	*f = Frame{Format: PixelFormatNone}
}

// IsWritable reports whether every plane is exclusively owned by f.
// Wrapped planes are never writable.
func (f *Frame) IsWritable() bool {
	for _, p := range f.Planes {
		if p != nil && (p.buf == nil || p.buf.Refs() > 1) {
			return false
		}
	}
	return true
}

// MakeWritable copies shared planes so that f can be modified without
// affecting other references.
func (f *Frame) MakeWritable() {
	for i, p := range f.Planes {
		if p == nil || (p.buf != nil && p.buf.Refs() <= 1) {
			continue
		}
		buf := newBuffer(len(p.Data))
		copy(buf.data, p.Data)
		if p.buf != nil {
			p.buf.unref()
		}
		f.Planes[i] = &Plane{Data: buf.data, Stride: p.Stride, buf: buf}
	}
}

// CopyProps copies timing and aspect metadata from src.
func (f *Frame) CopyProps(src *Frame) {
	f.PTS = src.PTS
	f.TimeBase = src.TimeBase
	f.SampleAspectRatio = src.SampleAspectRatio
	f.KeyFrame = src.KeyFrame
}

// WrapPlane builds a plane over caller-owned memory. The frame does not
// reference-count it.
func WrapPlane(data []byte, stride int) *Plane {
	return &Plane{Data: data, Stride: stride}
}

func alignUp(v, a int) int {
	return (v + a - 1) / a * a
}
