package rawout

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/user/chromakey/pkg/adapters/logger"
	"github.com/user/chromakey/pkg/media"
	"github.com/user/chromakey/pkg/pipeline"
)

func TestStage_Execute(t *testing.T) {
	tests := []struct {
		name       string
		format     media.PixelFormat
		w, h       int
		wantPlanes []pipeline.PlaneLayout
	}{
		{
			name:   "yuva422p 64x64",
			format: media.PixelFormatYUVA422P,
			w:      64,
			h:      64,
			wantPlanes: []pipeline.PlaneLayout{
				{Index: 0, Stride: 64, Rows: 64, Bytes: 4096},
				{Index: 1, Stride: 32, Rows: 64, Bytes: 2048},
				{Index: 2, Stride: 32, Rows: 64, Bytes: 2048},
				{Index: 3, Stride: 64, Rows: 64, Bytes: 4096},
			},
		},
		{
			name:   "yuva420p odd size keeps padding",
			format: media.PixelFormatYUVA420P,
			w:      5,
			h:      3,
			wantPlanes: []pipeline.PlaneLayout{
				{Index: 0, Stride: 32, Rows: 3, Bytes: 96},
				{Index: 1, Stride: 32, Rows: 2, Bytes: 64},
				{Index: 2, Stride: 32, Rows: 2, Bytes: 64},
				{Index: 3, Stride: 32, Rows: 3, Bytes: 96},
			},
		},
		{
			name:   "gray has one plane",
			format: media.PixelFormatGray8,
			w:      40,
			h:      2,
			wantPlanes: []pipeline.PlaneLayout{
				{Index: 0, Stride: 64, Rows: 2, Bytes: 128},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := media.AllocFrame(tt.format, tt.w, tt.h)
			if err != nil {
				t.Fatalf("AllocFrame: %v", err)
			}
			defer f.Unref()
			for i := 0; i < f.PlaneCount(); i++ {
				for j := range f.Planes[i].Data {
					f.Planes[i].Data[j] = byte(i + 1)
				}
			}

			var buf bytes.Buffer
			stage := New(logger.NewNoop())
			result, err := stage.Execute(context.Background(), pipeline.RawOutInput{Frame: f, Output: &buf})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(result.Planes) != len(tt.wantPlanes) {
				t.Fatalf("expected %d planes, got %d", len(tt.wantPlanes), len(result.Planes))
			}
			var total int64
			offset := 0
			for i, want := range tt.wantPlanes {
				if result.Planes[i] != want {
					t.Errorf("plane %d: expected %+v, got %+v", i, want, result.Planes[i])
				}
				for j := offset; j < offset+want.Bytes; j++ {
					if buf.Bytes()[j] != byte(i+1) {
						t.Fatalf("plane %d: byte %d out of order", i, j)
					}
				}
				offset += want.Bytes
				total += int64(want.Bytes)
			}
			if result.BytesWritten != total || int64(buf.Len()) != total {
				t.Errorf("expected %d bytes, reported %d, wrote %d", total, result.BytesWritten, buf.Len())
			}
			if ExpectedSize(f) != total {
				t.Errorf("ExpectedSize: expected %d, got %d", total, ExpectedSize(f))
			}
		})
	}
}

type failingWriter struct {
	limit   int
	written int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.written+len(p) > w.limit {
		n := w.limit - w.written
		w.written = w.limit
		return n, errors.New("disk full")
	}
	w.written += len(p)
	return len(p), nil
}

func TestStage_WriteError(t *testing.T) {
	f, err := media.AllocFrame(media.PixelFormatYUVA444P, 32, 1)
	if err != nil {
		t.Fatalf("AllocFrame: %v", err)
	}
	defer f.Unref()

	w := &failingWriter{limit: 40}
	stage := New(logger.NewNoop())
	result, err := stage.Execute(context.Background(), pipeline.RawOutInput{Frame: f, Output: w})
	if err == nil {
		t.Fatal("expected error")
	}
	if result.BytesWritten != 40 {
		t.Errorf("expected 40 bytes reported, got %d", result.BytesWritten)
	}
	if len(result.Planes) != 1 {
		t.Errorf("expected 1 complete plane, got %d", len(result.Planes))
	}
}

func TestStage_Invalid(t *testing.T) {
	stage := New(logger.NewNoop())
	if _, err := stage.Execute(context.Background(), pipeline.RawOutInput{Frame: media.NewFrame(), Output: &bytes.Buffer{}}); err == nil {
		t.Error("expected error for empty frame")
	}

	f, _ := media.AllocFrame(media.PixelFormatGray8, 2, 2)
	defer f.Unref()
	if _, err := stage.Execute(context.Background(), pipeline.RawOutInput{Frame: f}); err == nil {
		t.Error("expected error for missing output")
	}
}
