package codec

import (
	"errors"
	"fmt"

	"github.com/user/chromakey/pkg/media"
)

// ForcedPixelFormat is the format OpenDecoder requests from every decoder.
const ForcedPixelFormat = media.PixelFormatYUVA420P

// OpenDecoder finds a decoder for stream, copies the stream parameters,
// forces ForcedPixelFormat output with alpha decoding enabled, and opens it.
func OpenDecoder(stream *media.StreamDescriptor) (*Context, error) {
	dec, ok := FindDecoder(stream.CodecID)
	if !ok {
		return nil, fmt.Errorf("%w: no decoder for %s (stream %d, tag %q)",
			media.ErrUnsupportedCodec, stream.CodecID, stream.Index, stream.CodecTag)
	}

	c := AllocContext(dec)
	if err := c.ParametersToContext(stream); err != nil {
		return nil, err
	}
	c.PixelFormat = ForcedPixelFormat
	c.SwPixelFormat = ForcedPixelFormat
	c.SkipAlpha = false

	if err := c.Open(); err != nil {
		return nil, err
	}
	return c, nil
}

// DecodeOneFrame sends pkt and receives exactly one frame.
// Any failure to produce a frame is reported as media.ErrDecode.
func DecodeOneFrame(c *Context, pkt *media.Packet) (*media.Frame, error) {
	if err := c.SendPacket(pkt); err != nil {
		if errors.Is(err, media.ErrDecode) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: send packet: %v", media.ErrDecode, err)
	}
	frame, err := c.ReceiveFrame()
	if err != nil {
		return nil, fmt.Errorf("%w: receive frame: %v", media.ErrDecode, err)
	}
	return frame, nil
}
