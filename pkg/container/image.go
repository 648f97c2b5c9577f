package container

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/user/chromakey/pkg/media"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// imagePipe is a single-image container: the whole file is one packet.
type imagePipe struct {
	name    string
	codecID media.CodecID
	match   func(header []byte) bool
}

func imagePipeFormats() []InputFormat {
	return []InputFormat{
		imagePipe{name: "png_pipe", codecID: media.CodecIDPNG, match: func(h []byte) bool {
			return bytes.HasPrefix(h, []byte("\x89PNG\r\n\x1a\n"))
		}},
		imagePipe{name: "jpeg_pipe", codecID: media.CodecIDMJPEG, match: func(h []byte) bool {
			return bytes.HasPrefix(h, []byte{0xFF, 0xD8, 0xFF})
		}},
		imagePipe{name: "gif_pipe", codecID: media.CodecIDGIF, match: func(h []byte) bool {
			return bytes.HasPrefix(h, []byte("GIF87a")) || bytes.HasPrefix(h, []byte("GIF89a"))
		}},
		imagePipe{name: "bmp_pipe", codecID: media.CodecIDBMP, match: func(h []byte) bool {
			return len(h) >= 18 && bytes.HasPrefix(h, []byte("BM"))
		}},
		imagePipe{name: "tiff_pipe", codecID: media.CodecIDTIFF, match: func(h []byte) bool {
			return bytes.HasPrefix(h, []byte("II*\x00")) || bytes.HasPrefix(h, []byte("MM\x00*"))
		}},
		imagePipe{name: "webp_pipe", codecID: media.CodecIDWebP, match: func(h []byte) bool {
			return len(h) >= 12 && bytes.Equal(h[0:4], []byte("RIFF")) && bytes.Equal(h[8:12], []byte("WEBP"))
		}},
	}
}

func (p imagePipe) Name() string { return p.name }

func (p imagePipe) Probe(header []byte) int {
	if p.match(header) {
		return ProbeScoreMax - 1
	}
	return ProbeScoreNone
}

func (p imagePipe) Open(r io.ReadSeeker) (Demuxer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p.name, err)
	}

	stream := &media.StreamDescriptor{
		Index:       0,
		MediaType:   media.MediaTypeVideo,
		CodecID:     p.codecID,
		CodecTag:    p.name,
		PixelFormat: media.PixelFormatNone,
		TimeBase:    media.Rational{Num: 1, Den: 25},
	}
	// A header that cannot be parsed leaves the size at zero; stream
	// selection then reports that codec parameters are unavailable.
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		stream.Width = cfg.Width
		stream.Height = cfg.Height
		stream.PixelFormat = pixelFormatForModel(cfg.ColorModel)
	}

	return &imagePipeDemuxer{stream: stream, data: data}, nil
}

// pixelFormatForModel maps a decoder color model to the nearest native format.
func pixelFormatForModel(m color.Model) media.PixelFormat {
	switch m {
	case color.GrayModel, color.Gray16Model:
		return media.PixelFormatGray8
	case color.YCbCrModel:
		return media.PixelFormatYUV420P
	}
	return media.PixelFormatRGBA
}

type imagePipeDemuxer struct {
	stream *media.StreamDescriptor
	data   []byte
	read   bool
}

func (d *imagePipeDemuxer) Streams() []*media.StreamDescriptor {
	return []*media.StreamDescriptor{d.stream}
}

func (d *imagePipeDemuxer) ReadPacket() (*media.Packet, error) {
	if d.read || d.data == nil {
		return nil, media.ErrEndOfStream
	}
	d.read = true
	return &media.Packet{
		StreamIndex: 0,
		Data:        d.data,
		Duration:    1,
		Flags:       media.PacketFlagKey,
	}, nil
}

func (d *imagePipeDemuxer) Close() error {
	d.data = nil
	return nil
}
