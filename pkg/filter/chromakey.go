package filter

import (
	"fmt"
	"math"

	"github.com/user/chromakey/pkg/media"
)

var chromakeyKind = &Kind{
	Name:        "chromakey",
	Description: "Turns a certain color into transparency. Operates on YUV colors.",
	Inputs:      1,
	Outputs:     1,
	Options: []Option{
		{Name: "color", Type: OptionColor, Default: "black", Help: "set the chromakey key color"},
		{Name: "similarity", Type: OptionFloat, Default: "0.01", Min: 0.00001, Max: 1, Help: "set the chromakey similarity value"},
		{Name: "blend", Type: OptionFloat, Default: "0", Min: 0, Max: 1, Help: "set the chromakey key blend value"},
		{Name: "yuv", Type: OptionBool, Default: "false", Help: "color parameter is in yuv instead of rgb"},
	},
	create: newChromakey,
}

// chromakeyMatte writes an alpha plane from each pixel's chroma distance to
// the key color.
type chromakeyMatte struct {
	Color      RGBA
	Similarity float64
	Blend      float64
	YUV        bool

	keyU, keyV int
}

func newChromakey(v Values) (processor, error) {
	c := &chromakeyMatte{
		Color:      v.Color("color"),
		Similarity: v.Float("similarity"),
		Blend:      v.Float("blend"),
		YUV:        v.Bool("yuv"),
	}
	if c.YUV {
		c.keyU, c.keyV = int(c.Color.G), int(c.Color.B)
	} else {
		c.keyU, c.keyV = keyChroma(c.Color)
	}
	return c, nil
}

// keyChroma converts the key color to U and V with 10-bit fixed point
// full-range coefficients.
func keyChroma(c RGBA) (u, v int) {
	r, g, b := int(c.R), int(c.G), int(c.B)
	u = ((-fixnum(0.16874)*r - fixnum(0.33126)*g + fixnum(0.5)*b + (1 << 9) - 1) >> 10) + 128
	v = ((fixnum(0.5)*r - fixnum(0.41869)*g - fixnum(0.08131)*b + (1 << 9) - 1) >> 10) + 128
	return u, v
}

func fixnum(x float64) int {
	return int(math.RoundToEven(x * (1 << 10)))
}

func (c *chromakeyMatte) configure(inputs []LinkProps) ([]LinkProps, error) {
	in := inputs[0]
	if !in.Format.IsPlanarYUV() || !in.Format.HasAlpha() {
		return nil, fmt.Errorf("unsupported pixel format %s: an alpha-capable planar YUV format is required", in.Format)
	}
	return []LinkProps{in}, nil
}

func (c *chromakeyMatte) filter(f *media.Frame) (*media.Frame, error) {
	if f == nil {
		return nil, nil
	}
	desc, ok := f.Format.Descriptor()
	if !ok || !desc.YUV || !desc.Alpha || desc.Planes < 4 {
		f.Unref()
		return nil, fmt.Errorf("unsupported pixel format %s", f.Format)
	}

	f.MakeWritable()
	uPlane, vPlane, aPlane := f.Planes[1], f.Planes[2], f.Planes[3]
	cw := desc.PlaneWidth(1, f.Width)
	ch := desc.PlaneHeight(1, f.Height)

	var u, v [9]int
	for y := 0; y < f.Height; y++ {
		alpha := aPlane.Data[y*aPlane.Stride:]
		for x := 0; x < f.Width; x++ {
			for yo := 0; yo < 3; yo++ {
				cy := clampInt((y+yo-1)>>desc.Log2ChromaH, 0, ch-1)
				for xo := 0; xo < 3; xo++ {
					cx := clampInt((x+xo-1)>>desc.Log2ChromaW, 0, cw-1)
					u[yo*3+xo] = int(uPlane.Data[cy*uPlane.Stride+cx])
					v[yo*3+xo] = int(vPlane.Data[cy*vPlane.Stride+cx])
				}
			}
			alpha[x] = c.alpha(&u, &v)
		}
	}
	return f, nil
}

// alpha maps the mean chroma distance of a neighborhood to an alpha value.
func (c *chromakeyMatte) alpha(u, v *[9]int) uint8 {
	var diff float64
	for i := 0; i < 9; i++ {
		du := u[i] - c.keyU
		dv := v[i] - c.keyV
		diff += math.Sqrt(float64(du*du+dv*dv) / (255.0 * 255.0 * 2))
	}
	diff /= 9.0

	if c.Blend > 0.0001 {
		return uint8(clampFloat((diff-c.Similarity)/c.Blend, 0, 1) * 255.0)
	}
	if diff > c.Similarity {
		return 255
	}
	return 0
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
