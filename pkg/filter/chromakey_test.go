package filter

import (
	"testing"

	"github.com/user/chromakey/pkg/media"
)

func newMatte(t *testing.T, args string) *chromakeyMatte {
	t.Helper()
	v, err := parseOptions(chromakeyKind.Options, args)
	if err != nil {
		t.Fatalf("parseOptions: %v", err)
	}
	p, err := newChromakey(v)
	if err != nil {
		t.Fatalf("newChromakey: %v", err)
	}
	return p.(*chromakeyMatte)
}

func TestKeyChroma(t *testing.T) {
	tests := []struct {
		name string
		c    RGBA
		u, v int
	}{
		{"green", RGBA{G: 0x80, A: 0xFF}, 86, 74},
		{"white", RGBA{0xFF, 0xFF, 0xFF, 0xFF}, 128, 128},
		{"black", RGBA{A: 0xFF}, 128, 128},
	}
	for _, tt := range tests {
		u, v := keyChroma(tt.c)
		if u != tt.u || v != tt.v {
			t.Errorf("%s: keyChroma = (%d,%d), want (%d,%d)", tt.name, u, v, tt.u, tt.v)
		}
	}
}

func TestChromakey_YUVColor(t *testing.T) {
	m := newMatte(t, "color=0x102030:yuv=1")
	if m.keyU != 0x20 || m.keyV != 0x30 {
		t.Errorf("yuv mode should take U and V from the color, got (%d,%d)", m.keyU, m.keyV)
	}
}

func TestChromakey_Alpha(t *testing.T) {
	tests := []struct {
		name  string
		args  string
		u, v  uint8
		alpha uint8
	}{
		{"exact key is transparent", "color=0x008080:yuv=1", 128, 128, 0},
		{"far color is opaque", "color=0x000000:yuv=1", 128, 128, 255},
		{"blend gives partial alpha", "color=0x000000:yuv=1:similarity=0.3:blend=0.3", 128, 128, 171},
		{"within similarity with blend", "color=0x008080:yuv=1:similarity=0.3:blend=0.3", 130, 126, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMatte(t, tt.args)
			f := solidFrame(t, media.PixelFormatYUVA444P, 4, 4, 100, tt.u, tt.v)
			out, err := m.filter(f)
			if err != nil {
				t.Fatalf("filter: %v", err)
			}
			for i, a := range out.PlaneBytes(3) {
				if i%out.Planes[3].Stride >= out.Width {
					continue
				}
				if a != tt.alpha {
					t.Fatalf("alpha[%d] = %d, want %d", i, a, tt.alpha)
				}
			}
		})
	}
}

func TestChromakey_Neighborhood(t *testing.T) {
	m := newMatte(t, "color=0x008080:yuv=1:similarity=0.00001")
	f := solidFrame(t, media.PixelFormatYUVA444P, 5, 5, 0, 128, 128)
	center := 2*f.Planes[1].Stride + 2
	f.Planes[1].Data[center] = 0
	f.Planes[2].Data[center] = 0

	out, err := m.filter(f)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	alphaAt := func(x, y int) uint8 { return out.Planes[3].Data[y*out.Planes[3].Stride+x] }

	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			near := x >= 1 && x <= 3 && y >= 1 && y <= 3
			want := uint8(0)
			if near {
				want = 255
			}
			if got := alphaAt(x, y); got != want {
				t.Errorf("alpha(%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestChromakey_Subsampled(t *testing.T) {
	m := newMatte(t, "color=0x008080:yuv=1")
	f := solidFrame(t, media.PixelFormatYUVA420P, 5, 3, 0, 128, 128)
	out, err := m.filter(f)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			if a := out.Planes[3].Data[y*out.Planes[3].Stride+x]; a != 0 {
				t.Errorf("alpha(%d,%d) = %d, want 0", x, y, a)
			}
		}
	}
}

func TestChromakey_CopiesSharedFrame(t *testing.T) {
	m := newMatte(t, "color=0x008080:yuv=1")
	f := solidFrame(t, media.PixelFormatYUVA444P, 2, 2, 0, 128, 128)
	shared := f.Ref()

	if _, err := m.filter(shared); err != nil {
		t.Fatalf("filter: %v", err)
	}
	if f.Planes[3].Data[0] != 0xFF {
		t.Error("keying a shared frame must not write through to other references")
	}
}

func TestChromakey_RejectsNoAlpha(t *testing.T) {
	m := newMatte(t, "")
	if _, err := m.configure([]LinkProps{{Format: media.PixelFormatYUV444P, Width: 2, Height: 2}}); err == nil {
		t.Error("expected configure to reject a format without alpha")
	}
	if _, err := m.configure([]LinkProps{{Format: media.PixelFormatRGBA, Width: 2, Height: 2}}); err == nil {
		t.Error("expected configure to reject packed RGB")
	}
}
