// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/user/chromakey/pkg/ports"
)

const (
	// checkerCell is the edge length of one checkerboard square in preview pixels.
	checkerCell = 8
	// minPreviewSize is the edge length small frames are enlarged to.
	minPreviewSize = 256
	captionHeight  = 20
)

var (
	checkerLight = color.RGBA{R: 0xCC, G: 0xCC, B: 0xCC, A: 0xFF}
	checkerDark  = color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xFF}
	captionBg    = color.RGBA{R: 0x1A, G: 0x1A, B: 0x2E, A: 0xFF}
)

// Sink saves debug output of one run to its own directory.
type Sink struct {
	dir      string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a sink writing to a fresh run directory under baseDir.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return NewInDir(filepath.Join(baseDir, uuid.NewString()), fs, renderer)
}

// NewInDir creates a sink writing directly to dir.
func NewInDir(dir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		dir:      dir,
		fs:       fs,
		renderer: renderer,
	}
}

// Dir returns the directory debug files are written to.
func (s *Sink) Dir() string {
	return s.dir
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveDecoded saves the decoded frame as decoded.png.
func (s *Sink) SaveDecoded(img image.Image) error {
	return s.savePNG("decoded.png", img)
}

// SaveKeyed saves keyed.png with the frame's transparency shown over a
// checkerboard.
func (s *Sink) SaveKeyed(img image.Image) error {
	return s.savePNG("keyed.png", s.preview(img))
}

// SaveGraph saves the filter graph description as graph.txt.
func (s *Sink) SaveGraph(dump string) error {
	return s.fs.WriteFile(filepath.Join(s.dir, "graph.txt"), []byte(dump))
}

// SaveRunJSON saves the run summary as run.json.
func (s *Sink) SaveRunJSON(data []byte) error {
	return s.fs.WriteFile(filepath.Join(s.dir, "run.json"), data)
}

func (s *Sink) savePNG(name string, img image.Image) error {
	data, err := s.renderer.EncodePNG(img)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return s.fs.WriteFile(filepath.Join(s.dir, name), data)
}

// preview composes img over a checkerboard, enlarged when small, with a
// caption giving the original size.
func (s *Sink) preview(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if scale := previewScale(w, h); scale > 1 {
		img = s.renderer.ResizeImage(img, w*scale, h*scale)
		w, h = w*scale, h*scale
	}

	canvas := s.renderer.CreateCanvas(w, h+captionHeight, checkerLight)
	for y := 0; y < h; y += checkerCell {
		for x := (y / checkerCell % 2) * checkerCell; x < w; x += 2 * checkerCell {
			canvas.DrawRect(x, y, checkerCell, checkerCell, checkerDark)
		}
	}
	canvas.DrawImage(img, 0, 0)

	canvas.DrawRect(0, h, w, captionHeight, captionBg)
	canvas.DrawText(fmt.Sprintf("%dx%d", b.Dx(), b.Dy()), w/2, h+captionHeight/2, ports.TextStyle{
		FontSize: 13,
		Color:    color.White,
		Align:    ports.AlignCenter,
	})
	return canvas.ToImage()
}

// previewScale returns the integer factor that brings the longer edge to at
// least minPreviewSize.
func previewScale(w, h int) int {
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= 0 || longest >= minPreviewSize {
		return 1
	}
	return (minPreviewSize + longest - 1) / longest
}

var _ ports.DebugSink = (*Sink)(nil)
