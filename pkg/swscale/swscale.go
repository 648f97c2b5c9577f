// Package swscale converts frames between pixel formats and to and from
// Go images. YUV formats use BT.601 limited-range coefficients.
package swscale

import (
	"fmt"
	"image"

	"github.com/user/chromakey/pkg/media"
	"golang.org/x/image/draw"
)

// Supported reports whether the package can convert to and from f.
func Supported(f media.PixelFormat) bool {
	return f.Valid()
}

// yuva444 is the full-resolution intermediate every conversion passes through.
type yuva444 struct {
	width, height int
	y, u, v, a    []byte
}

func newYUVA444(w, h int) *yuva444 {
	n := w * h
	return &yuva444{width: w, height: h, y: make([]byte, n), u: make([]byte, n), v: make([]byte, n), a: make([]byte, n)}
}

// Convert returns src converted to format. Missing alpha becomes opaque and
// chroma is downsampled by averaging. Converting to the same format returns
// a new reference to src.
func Convert(src *media.Frame, format media.PixelFormat) (*media.Frame, error) {
	if src.Empty() {
		return nil, fmt.Errorf("swscale: empty source frame")
	}
	if !Supported(src.Format) || !Supported(format) {
		return nil, fmt.Errorf("swscale: unsupported conversion %s -> %s", src.Format, format)
	}
	if src.Format == format {
		return src.Ref(), nil
	}

	var dst *media.Frame
	var err error
	if !isYUV(src.Format) && !isYUV(format) {
		dst, err = fromNRGBA(toNRGBA(src), format)
	} else {
		dst, err = fromYUVA444(toYUVA444(src), format)
	}
	if err != nil {
		return nil, err
	}
	dst.CopyProps(src)
	return dst, nil
}

// FromImage converts img to a frame of the given format.
func FromImage(img image.Image, format media.PixelFormat) (*media.Frame, error) {
	if !Supported(format) {
		return nil, fmt.Errorf("swscale: unsupported pixel format %s", format)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("swscale: empty image")
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}

	return fromNRGBA(nrgba, format)
}

// ToImage converts a frame to an NRGBA image.
func ToImage(f *media.Frame) (*image.NRGBA, error) {
	if f.Empty() || !Supported(f.Format) {
		return nil, fmt.Errorf("swscale: cannot convert frame of format %s", f.Format)
	}
	if isYUV(f.Format) {
		return yuva444ToNRGBA(toYUVA444(f)), nil
	}
	return toNRGBA(f), nil
}

func isYUV(f media.PixelFormat) bool {
	d, ok := f.Descriptor()
	return ok && d.YUV
}

func toYUVA444(f *media.Frame) *yuva444 {
	desc, _ := f.Format.Descriptor()
	if !desc.YUV {
		return nrgbaToYUVA444(toNRGBA(f))
	}

	p := newYUVA444(f.Width, f.Height)

	for y := 0; y < f.Height; y++ {
		luma := f.Planes[0].Data[y*f.Planes[0].Stride:]
		row := p.y[y*p.width : (y+1)*p.width]
		copy(row, luma[:f.Width])
	}

	if desc.Planes == 1 {
		// gray: full-range values stored in a single plane
		for i, g := range p.y {
			p.y[i] = grayToLuma(g)
			p.u[i] = 128
			p.v[i] = 128
			p.a[i] = 0xFF
		}
		return p
	}

	for y := 0; y < f.Height; y++ {
		cy := y >> desc.Log2ChromaH
		for x := 0; x < f.Width; x++ {
			cx := x >> desc.Log2ChromaW
			i := y*p.width + x
			p.u[i] = f.Planes[1].Data[cy*f.Planes[1].Stride+cx]
			p.v[i] = f.Planes[2].Data[cy*f.Planes[2].Stride+cx]
			if desc.Alpha {
				p.a[i] = f.Planes[3].Data[y*f.Planes[3].Stride+x]
			} else {
				p.a[i] = 0xFF
			}
		}
	}
	return p
}

func fromYUVA444(p *yuva444, format media.PixelFormat) (*media.Frame, error) {
	desc, _ := format.Descriptor()
	if !desc.YUV {
		return fromNRGBA(yuva444ToNRGBA(p), format)
	}

	f, err := media.AllocFrame(format, p.width, p.height)
	if err != nil {
		return nil, err
	}

	for y := 0; y < p.height; y++ {
		row := f.Planes[0].Data[y*f.Planes[0].Stride:]
		src := p.y[y*p.width : (y+1)*p.width]
		if desc.Planes == 1 {
			for x, v := range src {
				row[x] = lumaToGray(v)
			}
		} else {
			copy(row, src)
		}
	}
	if desc.Planes == 1 {
		return f, nil
	}

	cw := desc.PlaneWidth(1, p.width)
	ch := desc.PlaneHeight(1, p.height)
	bw, bh := 1<<desc.Log2ChromaW, 1<<desc.Log2ChromaH
	for cy := 0; cy < ch; cy++ {
		for cx := 0; cx < cw; cx++ {
			var su, sv, n int
			for dy := 0; dy < bh; dy++ {
				y := cy*bh + dy
				if y >= p.height {
					break
				}
				for dx := 0; dx < bw; dx++ {
					x := cx*bw + dx
					if x >= p.width {
						break
					}
					i := y*p.width + x
					su += int(p.u[i])
					sv += int(p.v[i])
					n++
				}
			}
			f.Planes[1].Data[cy*f.Planes[1].Stride+cx] = uint8((su + n/2) / n)
			f.Planes[2].Data[cy*f.Planes[2].Stride+cx] = uint8((sv + n/2) / n)
		}
	}

	if desc.Alpha {
		for y := 0; y < p.height; y++ {
			copy(f.Planes[3].Data[y*f.Planes[3].Stride:], p.a[y*p.width:(y+1)*p.width])
		}
	}
	return f, nil
}

func nrgbaToYUVA444(img *image.NRGBA) *yuva444 {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	p := newYUVA444(w, h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			i := y*w + x
			px := row[x*4 : x*4+4]
			p.y[i], p.u[i], p.v[i] = rgbToYUV(px[0], px[1], px[2])
			p.a[i] = px[3]
		}
	}
	return p
}

func yuva444ToNRGBA(p *yuva444) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.width, p.height))
	for y := 0; y < p.height; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < p.width; x++ {
			i := y*p.width + x
			px := row[x*4 : x*4+4]
			px[0], px[1], px[2] = yuvToRGB(p.y[i], p.u[i], p.v[i])
			px[3] = p.a[i]
		}
	}
	return img
}

// toNRGBA converts a packed RGB frame. YUV frames go through toYUVA444.
func toNRGBA(f *media.Frame) *image.NRGBA {
	if isYUV(f.Format) {
		return yuva444ToNRGBA(toYUVA444(f))
	}
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	plane := f.Planes[0]
	for y := 0; y < f.Height; y++ {
		src := plane.Data[y*plane.Stride:]
		dst := img.Pix[y*img.Stride:]
		switch f.Format {
		case media.PixelFormatRGBA:
			copy(dst[:f.Width*4], src[:f.Width*4])
		case media.PixelFormatRGB24:
			for x := 0; x < f.Width; x++ {
				dst[x*4+0] = src[x*3+0]
				dst[x*4+1] = src[x*3+1]
				dst[x*4+2] = src[x*3+2]
				dst[x*4+3] = 0xFF
			}
		}
	}
	return img
}

func fromNRGBA(img *image.NRGBA, format media.PixelFormat) (*media.Frame, error) {
	if isYUV(format) {
		return fromYUVA444(nrgbaToYUVA444(img), format)
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	f, err := media.AllocFrame(format, w, h)
	if err != nil {
		return nil, err
	}
	plane := f.Planes[0]
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride:]
		dst := plane.Data[y*plane.Stride:]
		switch format {
		case media.PixelFormatRGBA:
			copy(dst[:w*4], src[:w*4])
		case media.PixelFormatRGB24:
			for x := 0; x < w; x++ {
				dst[x*3+0] = src[x*4+0]
				dst[x*3+1] = src[x*4+1]
				dst[x*3+2] = src[x*4+2]
			}
		}
	}
	return f, nil
}
