// Package load implements the stage that decodes the first video frame of a file.
package load

import (
	"context"
	"errors"
	"fmt"

	"github.com/asticode/go-astikit"
	"github.com/user/chromakey/pkg/codec"
	"github.com/user/chromakey/pkg/container"
	"github.com/user/chromakey/pkg/media"
	"github.com/user/chromakey/pkg/pipeline"
	"github.com/user/chromakey/pkg/ports"
)

// Stage opens a media file and decodes one frame of its best video stream.
type Stage struct {
	logger ports.Logger
}

// New creates a new load stage.
func New(logger ports.Logger) *Stage {
	return &Stage{
		logger: logger.WithComponent("load"),
	}
}

// Execute opens input.Path and returns its first decoded video frame in
// codec.ForcedPixelFormat. The source and decoder are closed before
// Execute returns; the frame belongs to the caller.
func (s *Stage) Execute(ctx context.Context, input pipeline.LoadInput) (result pipeline.LoadResult, err error) {
	res := astikit.NewCloser()
	defer func() {
		if cerr := res.Close(); cerr != nil {
			s.logger.Warn("Failed to release decoder resources: %s", cerr)
		}
	}()

	if err := ctx.Err(); err != nil {
		return result, err
	}

	src, err := container.OpenSource(input.Path)
	if err != nil {
		return result, err
	}
	res.AddWithError(src.Close)
	input.OnState.Enter(pipeline.StateSourceOpened)
	result.SourceFormat = src.FormatName()
	s.logger.Debug("Opened %s (%s, %d streams)", input.Path, src.FormatName(), len(src.Streams()))

	stream, err := src.FindBestStream(media.MediaTypeVideo)
	if err != nil {
		return result, err
	}
	result.Stream = *stream
	input.OnState.Enter(pipeline.StateStreamSelected)
	s.logger.Debug("Selected stream %d: %s %dx%d", stream.Index, stream.CodecID, stream.Width, stream.Height)

	dec, err := codec.OpenDecoder(stream)
	if err != nil {
		return result, err
	}
	res.AddWithError(dec.Close)
	result.DecoderName = dec.Decoder().Name()
	input.OnState.Enter(pipeline.StateDecoderOpened)
	s.logger.Debug("Opened decoder %s with output %s", dec.Decoder().Name(), dec.OutputFormat())

	var frame *media.Frame
	if input.MaxPackets < 2 {
		frame, err = s.decodeFirstPacket(src, dec, stream.Index)
		result.PacketsRead = 1
	} else {
		frame, result.PacketsRead, err = s.decodeUntilFrame(ctx, src, dec, stream.Index, input.MaxPackets)
	}
	if err != nil {
		return result, err
	}
	result.Frame = frame
	input.OnState.Enter(pipeline.StateFrameDecoded)
	s.logger.Debug("Decoded %dx%d %s frame after %d packets", frame.Width, frame.Height, frame.Format, result.PacketsRead)

	return result, nil
}

// decodeFirstPacket reads exactly one packet and requires it to produce a frame.
func (s *Stage) decodeFirstPacket(src *container.Source, dec *codec.Context, streamIndex int) (*media.Frame, error) {
	pkt, err := src.ReadPacket()
	if err != nil {
		if errors.Is(err, media.ErrEndOfStream) {
			return nil, fmt.Errorf("%w: %s contains no packets", media.ErrDecode, src.Path())
		}
		return nil, err
	}
	defer pkt.Unref()

	if pkt.StreamIndex != streamIndex {
		return nil, fmt.Errorf("%w: first packet belongs to stream %d, not %d",
			media.ErrDecode, pkt.StreamIndex, streamIndex)
	}
	return codec.DecodeOneFrame(dec, pkt)
}

// decodeUntilFrame feeds up to maxPackets packets of the selected stream to the
// decoder and returns the first frame it produces, draining it at the end.
func (s *Stage) decodeUntilFrame(ctx context.Context, src *container.Source, dec *codec.Context, streamIndex, maxPackets int) (*media.Frame, int, error) {
	read := 0
	for read < maxPackets {
		if err := ctx.Err(); err != nil {
			return nil, read, err
		}

		pkt, err := src.ReadPacket()
		if errors.Is(err, media.ErrEndOfStream) {
			break
		}
		if err != nil {
			return nil, read, err
		}
		read++

		if pkt.StreamIndex != streamIndex {
			pkt.Unref()
			continue
		}

		err = dec.SendPacket(pkt)
		pkt.Unref()
		if err != nil && !errors.Is(err, media.ErrAgain) {
			return nil, read, err
		}

		frame, err := dec.ReceiveFrame()
		if err == nil {
			return frame, read, nil
		}
		if !errors.Is(err, media.ErrAgain) {
			return nil, read, fmt.Errorf("%w: receive frame: %v", media.ErrDecode, err)
		}
		s.logger.Debug("Packet %d produced no frame, reading on", read)
	}

	if err := dec.SendPacket(nil); err == nil {
		if frame, err := dec.ReceiveFrame(); err == nil {
			return frame, read, nil
		}
	}
	return nil, read, fmt.Errorf("%w: no frame after %d packets", media.ErrDecode, read)
}
