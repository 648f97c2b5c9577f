package media

// PixelFormat identifies the memory layout of a decoded picture.
type PixelFormat int32

// Supported pixel formats. All formats use 8 bits per component.
const (
	PixelFormatNone     PixelFormat = -1
	PixelFormatYUV420P  PixelFormat = 0 // Planar YUV 4:2:0
	PixelFormatYUV422P  PixelFormat = 1 // Planar YUV 4:2:2
	PixelFormatYUV444P  PixelFormat = 2 // Planar YUV 4:4:4
	PixelFormatYUVA420P PixelFormat = 3 // Planar YUV 4:2:0 with alpha plane
	PixelFormatYUVA422P PixelFormat = 4 // Planar YUV 4:2:2 with alpha plane
	PixelFormatYUVA444P PixelFormat = 5 // Planar YUV 4:4:4 with alpha plane
	PixelFormatGray8    PixelFormat = 6 // 8-bit grayscale
	PixelFormatRGB24    PixelFormat = 7 // Packed RGB 8:8:8
	PixelFormatRGBA     PixelFormat = 8 // Packed RGBA 8:8:8:8
)

// MaxPlanes is the number of plane slots a Frame carries.
const MaxPlanes = 4

// PixelFormatDescriptor describes how a pixel format lays out its components.
type PixelFormatDescriptor struct {
	Name string

	// Planes is the number of memory planes the format defines.
	Planes int

	// Log2ChromaW and Log2ChromaH are the shift amounts applied to the
	// luma width/height to get the chroma plane dimensions.
	Log2ChromaW int
	Log2ChromaH int

	Alpha bool
	YUV   bool

	// PixelStep is the number of bytes per pixel in each plane.
	PixelStep [MaxPlanes]int
}

var pixelFormats = map[PixelFormat]PixelFormatDescriptor{
	PixelFormatYUV420P:  {Name: "yuv420p", Planes: 3, Log2ChromaW: 1, Log2ChromaH: 1, YUV: true, PixelStep: [MaxPlanes]int{1, 1, 1}},
	PixelFormatYUV422P:  {Name: "yuv422p", Planes: 3, Log2ChromaW: 1, YUV: true, PixelStep: [MaxPlanes]int{1, 1, 1}},
	PixelFormatYUV444P:  {Name: "yuv444p", Planes: 3, YUV: true, PixelStep: [MaxPlanes]int{1, 1, 1}},
	PixelFormatYUVA420P: {Name: "yuva420p", Planes: 4, Log2ChromaW: 1, Log2ChromaH: 1, Alpha: true, YUV: true, PixelStep: [MaxPlanes]int{1, 1, 1, 1}},
	PixelFormatYUVA422P: {Name: "yuva422p", Planes: 4, Log2ChromaW: 1, Alpha: true, YUV: true, PixelStep: [MaxPlanes]int{1, 1, 1, 1}},
	PixelFormatYUVA444P: {Name: "yuva444p", Planes: 4, Alpha: true, YUV: true, PixelStep: [MaxPlanes]int{1, 1, 1, 1}},
	PixelFormatGray8:    {Name: "gray", Planes: 1, YUV: true, PixelStep: [MaxPlanes]int{1}},
	PixelFormatRGB24:    {Name: "rgb24", Planes: 1, PixelStep: [MaxPlanes]int{3}},
	PixelFormatRGBA:     {Name: "rgba", Planes: 1, Alpha: true, PixelStep: [MaxPlanes]int{4}},
}

// aliases accepted by PixelFormatByName in addition to canonical names.
var pixelFormatAliases = map[string]PixelFormat{
	"gray8": PixelFormatGray8,
	"y8":    PixelFormatGray8,
	"rgb":   PixelFormatRGB24,
}

// Descriptor returns the layout descriptor for the format.
// The second result is false for unknown formats.
func (p PixelFormat) Descriptor() (PixelFormatDescriptor, bool) {
	d, ok := pixelFormats[p]
	return d, ok
}

// Valid reports whether the format is a known pixel format.
func (p PixelFormat) Valid() bool {
	_, ok := pixelFormats[p]
	return ok
}

// String returns the canonical format name, or "none".
func (p PixelFormat) String() string {
	if d, ok := pixelFormats[p]; ok {
		return d.Name
	}
	return "none"
}

// HasAlpha reports whether the format carries an alpha component.
func (p PixelFormat) HasAlpha() bool {
	d, ok := pixelFormats[p]
	return ok && d.Alpha
}

// IsPlanarYUV reports whether the format stores Y, U and V in separate planes.
func (p PixelFormat) IsPlanarYUV() bool {
	d, ok := pixelFormats[p]
	return ok && d.YUV && d.Planes >= 3
}

// PixelFormatByName looks up a pixel format by its canonical name or alias.
// It returns PixelFormatNone when the name is unknown.
func PixelFormatByName(name string) PixelFormat {
	for f, d := range pixelFormats {
		if d.Name == name {
			return f
		}
	}
	if f, ok := pixelFormatAliases[name]; ok {
		return f
	}
	return PixelFormatNone
}

// PixelFormats returns every supported format in enumeration order.
func PixelFormats() []PixelFormat {
	out := make([]PixelFormat, 0, len(pixelFormats))
	for f := PixelFormatYUV420P; f <= PixelFormatRGBA; f++ {
		if _, ok := pixelFormats[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// PlaneWidth returns the width in pixels of plane i for a picture of the given width.
func (d PixelFormatDescriptor) PlaneWidth(i, width int) int {
	if d.YUV && (i == 1 || i == 2) {
		return ceilShift(width, d.Log2ChromaW)
	}
	return width
}

// PlaneHeight returns the number of rows of plane i for a picture of the given height.
func (d PixelFormatDescriptor) PlaneHeight(i, height int) int {
	if d.YUV && (i == 1 || i == 2) {
		return ceilShift(height, d.Log2ChromaH)
	}
	return height
}

func ceilShift(v, shift int) int {
	return (v + (1 << shift) - 1) >> shift
}
