package codec

import (
	"image"

	"github.com/user/chromakey/pkg/media"
)

// nativeFormat returns the pixel format closest to how img stores pixels.
func nativeFormat(img image.Image) media.PixelFormat {
	switch m := img.(type) {
	case *image.Gray:
		return media.PixelFormatGray8
	case *image.YCbCr:
		switch m.SubsampleRatio {
		case image.YCbCrSubsampleRatio444:
			return media.PixelFormatYUV444P
		case image.YCbCrSubsampleRatio422:
			return media.PixelFormatYUV422P
		default:
			return media.PixelFormatYUV420P
		}
	case *image.NYCbCrA:
		switch m.SubsampleRatio {
		case image.YCbCrSubsampleRatio444:
			return media.PixelFormatYUVA444P
		case image.YCbCrSubsampleRatio422:
			return media.PixelFormatYUVA422P
		default:
			return media.PixelFormatYUVA420P
		}
	}
	return media.PixelFormatRGBA
}
