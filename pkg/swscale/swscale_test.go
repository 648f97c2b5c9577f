package swscale

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/user/chromakey/pkg/media"
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestRGBToYUV_Reference(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		y, u, v uint8
	}{
		{"black", 0, 0, 0, 16, 128, 128},
		{"white", 255, 255, 255, 235, 128, 128},
		{"red", 255, 0, 0, 82, 90, 240},
		{"lime", 0, 255, 0, 144, 54, 34},
		{"blue", 0, 0, 255, 41, 240, 110},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y, u, v := rgbToYUV(tt.r, tt.g, tt.b)
			if y != tt.y || u != tt.u || v != tt.v {
				t.Errorf("rgbToYUV(%d,%d,%d) = (%d,%d,%d), want (%d,%d,%d)",
					tt.r, tt.g, tt.b, y, u, v, tt.y, tt.u, tt.v)
			}
		})
	}
}

func TestYUVToRGB_Extremes(t *testing.T) {
	if r, g, b := yuvToRGB(16, 128, 128); r != 0 || g != 0 || b != 0 {
		t.Errorf("expected black, got %d,%d,%d", r, g, b)
	}
	if r, g, b := yuvToRGB(235, 128, 128); r != 255 || g != 255 || b != 255 {
		t.Errorf("expected white, got %d,%d,%d", r, g, b)
	}
}

func TestFromImage_YUVA420P(t *testing.T) {
	img := solidImage(4, 4, color.NRGBA{R: 255, G: 255, B: 255, A: 128})
	f, err := FromImage(img, media.PixelFormatYUVA420P)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	if f.Width != 4 || f.Height != 4 || f.Format != media.PixelFormatYUVA420P {
		t.Fatalf("unexpected frame %dx%d %s", f.Width, f.Height, f.Format)
	}
	if got := f.Planes[0].Data[0]; got != 235 {
		t.Errorf("expected Y=235, got %d", got)
	}
	if got := f.Planes[1].Data[0]; got != 128 {
		t.Errorf("expected U=128, got %d", got)
	}
	if got := f.Planes[3].Data[f.Planes[3].Stride*3+3]; got != 128 {
		t.Errorf("expected alpha=128, got %d", got)
	}
}

func TestConvert_ChromaAverage(t *testing.T) {
	src, _ := media.AllocFrame(media.PixelFormatYUV444P, 2, 1)
	src.Planes[0].Data[0], src.Planes[0].Data[1] = 100, 100
	src.Planes[1].Data[0], src.Planes[1].Data[1] = 100, 201
	src.Planes[2].Data[0], src.Planes[2].Data[1] = 50, 50

	dst, err := Convert(src, media.PixelFormatYUVA422P)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if got := dst.Planes[1].Data[0]; got != 151 {
		t.Errorf("expected averaged U=151, got %d", got)
	}
	if got := dst.Planes[3].Data[1]; got != 255 {
		t.Errorf("missing alpha must become opaque, got %d", got)
	}
}

func TestConvert_SameFormatShares(t *testing.T) {
	src, _ := media.AllocFrame(media.PixelFormatYUVA422P, 4, 4)
	dst, err := Convert(src, media.PixelFormatYUVA422P)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if &dst.Planes[0].Data[0] != &src.Planes[0].Data[0] {
		t.Error("same-format conversion should share plane data")
	}
	if src.IsWritable() {
		t.Error("source should be shared after same-format conversion")
	}
}

func TestConvert_KeepsProps(t *testing.T) {
	src, _ := media.AllocFrame(media.PixelFormatRGBA, 2, 2)
	src.PTS = 7
	src.TimeBase = media.Rational{Num: 1, Den: 25}

	dst, err := Convert(src, media.PixelFormatYUV420P)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if dst.PTS != 7 || dst.TimeBase != src.TimeBase {
		t.Errorf("props not copied: pts=%d tb=%s", dst.PTS, dst.TimeBase)
	}
}

func TestRoundTrip_RGB24(t *testing.T) {
	img := solidImage(3, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	f, err := FromImage(img, media.PixelFormatRGB24)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	out, err := ToImage(f)
	if err != nil {
		t.Fatalf("ToImage: %v", err)
	}
	if got := out.NRGBAAt(2, 1); got != (color.NRGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("unexpected pixel %v", got)
	}
}

func TestGrayRoundTrip(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 2))
	gray.Pix[0] = 0
	gray.Pix[1] = 255
	f, err := FromImage(gray, media.PixelFormatYUV444P)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	g, err := Convert(f, media.PixelFormatGray8)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if g.Planes[0].Data[0] != 0 || g.Planes[0].Data[1] != 255 {
		t.Errorf("expected 0 and 255, got %d and %d", g.Planes[0].Data[0], g.Planes[0].Data[1])
	}
}

func TestFromImage_Unsupported(t *testing.T) {
	_, err := FromImage(solidImage(1, 1, color.NRGBA{}), media.PixelFormatNone)
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "pixel format none") {
		t.Errorf("expected the format name in %q", err)
	}
}
