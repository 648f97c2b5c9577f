package codec

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/user/chromakey/pkg/media"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// stillDecoder decodes packets that hold one complete image file.
type stillDecoder struct {
	id     media.CodecID
	decode func(io.Reader) (image.Image, error)
}

func stillDecoders() []Decoder {
	return []Decoder{
		stillDecoder{id: media.CodecIDPNG, decode: png.Decode},
		stillDecoder{id: media.CodecIDMJPEG, decode: jpeg.Decode},
		stillDecoder{id: media.CodecIDGIF, decode: gif.Decode},
		stillDecoder{id: media.CodecIDBMP, decode: bmp.Decode},
		stillDecoder{id: media.CodecIDTIFF, decode: tiff.Decode},
		stillDecoder{id: media.CodecIDWebP, decode: webp.Decode},
	}
}

func (d stillDecoder) ID() media.CodecID { return d.id }

func (d stillDecoder) Name() string { return d.id.String() }

func (d stillDecoder) Decode(_ Parameters, data []byte) (image.Image, error) {
	return d.decode(bytes.NewReader(data))
}
