package codec

import (
	"fmt"

	"github.com/user/chromakey/pkg/media"
	"github.com/user/chromakey/pkg/swscale"
)

// Parameters are the codec parameters copied from a stream.
type Parameters struct {
	CodecID   media.CodecID
	CodecTag  string
	Width     int
	Height    int
	TimeBase  media.Rational
	Extradata []byte
}

// Context is a decoder instance. Fields may be changed until Open is called.
type Context struct {
	Parameters

	// PixelFormat is the format frames are delivered in. When it is
	// PixelFormatNone, SwPixelFormat is used, and when both are unset the
	// decoder's native format is kept.
	PixelFormat   media.PixelFormat
	SwPixelFormat media.PixelFormat
	// SkipAlpha makes the decoder ignore alpha in the bitstream; alpha
	// planes of the output are then fully opaque.
	SkipAlpha bool

	decoder  Decoder
	opened   bool
	draining bool
	pending  []*media.Frame
}

// AllocContext returns an unopened context for dec.
func AllocContext(dec Decoder) *Context {
	return &Context{
		Parameters:    Parameters{CodecID: dec.ID()},
		PixelFormat:   media.PixelFormatNone,
		SwPixelFormat: media.PixelFormatNone,
		decoder:       dec,
	}
}

// ParametersToContext copies the codec parameters of stream into c.
func (c *Context) ParametersToContext(stream *media.StreamDescriptor) error {
	if c.opened {
		return fmt.Errorf("%w: context already open", media.ErrDecoderOpen)
	}
	if stream.CodecID != c.decoder.ID() {
		return fmt.Errorf("%w: stream codec %s does not match decoder %s",
			media.ErrDecoderOpen, stream.CodecID, c.decoder.Name())
	}
	c.Parameters = Parameters{
		CodecID:   stream.CodecID,
		CodecTag:  stream.CodecTag,
		Width:     stream.Width,
		Height:    stream.Height,
		TimeBase:  stream.TimeBase,
		Extradata: append([]byte(nil), stream.Extradata...),
	}
	return nil
}

// Open validates the requested output format and readies the context.
func (c *Context) Open() error {
	if c.opened {
		return fmt.Errorf("%w: context already open", media.ErrDecoderOpen)
	}
	for _, f := range []media.PixelFormat{c.PixelFormat, c.SwPixelFormat} {
		if f != media.PixelFormatNone && !swscale.Supported(f) {
			return fmt.Errorf("%w: %s cannot output pixel format %s", media.ErrDecoderOpen, c.decoder.Name(), f)
		}
	}
	c.opened = true
	return nil
}

// Decoder returns the decoder the context was allocated for.
func (c *Context) Decoder() Decoder { return c.decoder }

// OutputFormat returns the pixel format frames will be delivered in, or
// PixelFormatNone when the native format is kept.
func (c *Context) OutputFormat() media.PixelFormat {
	if c.PixelFormat != media.PixelFormatNone {
		return c.PixelFormat
	}
	return c.SwPixelFormat
}

// SendPacket submits a packet for decoding. A nil packet starts draining.
// It returns media.ErrAgain while a decoded frame is waiting to be received.
func (c *Context) SendPacket(pkt *media.Packet) error {
	if !c.opened {
		return fmt.Errorf("%w: context not open", media.ErrDecode)
	}
	if c.draining {
		return media.ErrEndOfStream
	}
	if pkt == nil {
		c.draining = true
		return nil
	}
	if len(c.pending) > 0 {
		return media.ErrAgain
	}

	img, err := c.decoder.Decode(c.Parameters, pkt.Data)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", media.ErrDecode, c.decoder.Name(), err)
	}
	if img == nil {
		return nil
	}

	format := c.OutputFormat()
	if format == media.PixelFormatNone {
		format = nativeFormat(img)
	}
	frame, err := swscale.FromImage(img, format)
	if err != nil {
		return fmt.Errorf("%w: %v", media.ErrDecode, err)
	}
	if c.SkipAlpha {
		setOpaque(frame)
	}
	frame.PTS = pkt.PTS
	frame.TimeBase = c.TimeBase
	frame.KeyFrame = pkt.IsKey()
	c.pending = append(c.pending, frame)
	return nil
}

// ReceiveFrame returns the next decoded frame. It returns media.ErrAgain when
// more input is needed and media.ErrEndOfStream once drained.
func (c *Context) ReceiveFrame() (*media.Frame, error) {
	if !c.opened {
		return nil, fmt.Errorf("%w: context not open", media.ErrDecode)
	}
	if len(c.pending) > 0 {
		f := c.pending[0]
		c.pending = c.pending[1:]
		return f, nil
	}
	if c.draining {
		return nil, media.ErrEndOfStream
	}
	return nil, media.ErrAgain
}

// Close drops buffered frames. It is safe to call more than once.
func (c *Context) Close() error {
	if c == nil {
		return nil
	}
	for _, f := range c.pending {
		f.Unref()
	}
	c.pending = nil
	c.opened = false
	return nil
}

func setOpaque(f *media.Frame) {
	if !f.Format.IsPlanarYUV() || !f.Format.HasAlpha() {
		return
	}
	alpha := f.PlaneBytes(3)
	for i := range alpha {
		alpha[i] = 0xFF
	}
}
