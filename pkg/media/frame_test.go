package media

import (
	"testing"
)

func TestAllocFrame_Strides(t *testing.T) {
	tests := []struct {
		name    string
		format  PixelFormat
		width   int
		height  int
		planes  int
		strides []int
		rows    []int
	}{
		{"yuva422p 64x64", PixelFormatYUVA422P, 64, 64, 4, []int{64, 32, 32, 64}, []int{64, 64, 64, 64}},
		{"yuva420p 64x64", PixelFormatYUVA420P, 64, 64, 4, []int{64, 32, 32, 64}, []int{64, 32, 32, 64}},
		{"yuv420p odd size", PixelFormatYUV420P, 33, 17, 3, []int{64, 32, 32}, []int{17, 9, 9}},
		{"rgba 10x2", PixelFormatRGBA, 10, 2, 1, []int{64}, []int{2}},
		{"rgb24 8x8", PixelFormatRGB24, 8, 8, 1, []int{32}, []int{8}},
		{"gray 100x1", PixelFormatGray8, 100, 1, 1, []int{128}, []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := AllocFrame(tt.format, tt.width, tt.height)
			if err != nil {
				t.Fatalf("AllocFrame: %v", err)
			}
			if got := f.PlaneCount(); got != tt.planes {
				t.Fatalf("expected %d planes, got %d", tt.planes, got)
			}
			for i := 0; i < MaxPlanes; i++ {
				if i >= tt.planes {
					if f.Planes[i] != nil {
						t.Errorf("plane %d should be nil", i)
					}
					continue
				}
				if f.Planes[i].Stride != tt.strides[i] {
					t.Errorf("plane %d: expected stride %d, got %d", i, tt.strides[i], f.Planes[i].Stride)
				}
				if f.PlaneHeight(i) != tt.rows[i] {
					t.Errorf("plane %d: expected %d rows, got %d", i, tt.rows[i], f.PlaneHeight(i))
				}
				if len(f.PlaneBytes(i)) != tt.strides[i]*tt.rows[i] {
					t.Errorf("plane %d: expected %d bytes, got %d", i, tt.strides[i]*tt.rows[i], len(f.PlaneBytes(i)))
				}
			}
		})
	}
}

func TestAllocFrame_Invalid(t *testing.T) {
	if _, err := AllocFrame(PixelFormatNone, 4, 4); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := AllocFrame(PixelFormatRGBA, 0, 4); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestFrame_RefUnref(t *testing.T) {
	f, err := AllocFrame(PixelFormatYUVA420P, 8, 8)
	if err != nil {
		t.Fatalf("AllocFrame: %v", err)
	}
	f.Planes[0].Data[0] = 42

	ref := f.Ref()
	if f.IsWritable() {
		t.Error("frame with a second reference should not be writable")
	}
	if ref.Planes[0].Data[0] != 42 {
		t.Error("reference should share plane data")
	}

	ref.Unref()
	if !ref.Empty() {
		t.Error("unref'd frame should be empty")
	}
	ref.Unref() // second call is a no-op

	if !f.IsWritable() {
		t.Error("frame should be writable after the other reference is dropped")
	}
	if f.Planes[0].Data[0] != 42 {
		t.Error("original data should survive unref of the reference")
	}
}

func TestFrame_MakeWritable(t *testing.T) {
	f, _ := AllocFrame(PixelFormatYUVA444P, 4, 4)
	f.Planes[3].Data[0] = 255

	ref := f.Ref()
	ref.MakeWritable()
	ref.Planes[3].Data[0] = 0

	if f.Planes[3].Data[0] != 255 {
		t.Error("writing to a made-writable reference must not modify the original")
	}
	if !ref.IsWritable() || !f.IsWritable() {
		t.Error("both frames should be exclusively owned after MakeWritable")
	}
}

func TestFrame_MoveRef(t *testing.T) {
	f, _ := AllocFrame(PixelFormatGray8, 4, 4)
	moved := f.MoveRef()

	if !f.Empty() {
		t.Error("source frame should be empty after MoveRef")
	}
	if moved.Width != 4 || moved.Format != PixelFormatGray8 {
		t.Errorf("unexpected moved frame %dx%d %s", moved.Width, moved.Height, moved.Format)
	}
}

func TestFrame_WrappedPlaneNotWritable(t *testing.T) {
	data := make([]byte, 16)
	f := &Frame{Width: 4, Height: 4, Format: PixelFormatGray8}
	f.Planes[0] = WrapPlane(data, 4)

	if f.IsWritable() {
		t.Error("wrapped planes should not be writable")
	}
	f.MakeWritable()
	f.Planes[0].Data[0] = 9
	if data[0] != 0 {
		t.Error("caller memory must not change after MakeWritable")
	}
}

func TestPixelFormatByName(t *testing.T) {
	for _, f := range PixelFormats() {
		if got := PixelFormatByName(f.String()); got != f {
			t.Errorf("round trip of %s gave %s", f, got)
		}
	}
	if PixelFormatByName("gray8") != PixelFormatGray8 {
		t.Error("expected gray8 alias")
	}
	if PixelFormatByName("nv12") != PixelFormatNone {
		t.Error("expected none for unsupported format")
	}
	if !PixelFormatYUVA422P.HasAlpha() || PixelFormatYUV422P.HasAlpha() {
		t.Error("unexpected alpha flags")
	}
}

func TestParseRational(t *testing.T) {
	tests := []struct {
		in      string
		want    Rational
		wantErr bool
	}{
		{"1/25", Rational{1, 25}, false},
		{"30", Rational{30, 1}, false},
		{" 1001/30000 ", Rational{1001, 30000}, false},
		{"1/0", Rational{}, true},
		{"abc", Rational{}, true},
	}
	for _, tt := range tests {
		got, err := ParseRational(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRational(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRational(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
