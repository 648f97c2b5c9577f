package summarizer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/user/chromakey/pkg/mocks"
)

func TestNewSummary(t *testing.T) {
	before := time.Now()
	summary := NewSummary()
	after := time.Now()

	if summary.GeneratedAt.Before(before) || summary.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt should be between %v and %v, got %v",
			before, after, summary.GeneratedAt)
	}
}

func TestBuilder(t *testing.T) {
	summary := NewBuilder().
		WithOutcome("done", "", "").
		WithSource(SourceInfo{Path: "in.png", Format: "png_pipe", Codec: "png", Decoder: "png", PacketsRead: 1}).
		WithKey(KeySettings{PixelFormat: "yuva422p", Color: "green", Similarity: 0.3, Blend: 0.3}).
		WithFrame(64, 32, "yuva420p", "yuva422p").
		WithOutput(OutputInfo{Path: "out.raw", BytesWritten: 6144}).
		Build()

	if summary.Outcome.State != "done" || summary.Outcome.Failed() {
		t.Errorf("unexpected outcome %+v", summary.Outcome)
	}
	if summary.Source.Format != "png_pipe" || summary.Source.PacketsRead != 1 {
		t.Errorf("unexpected source %+v", summary.Source)
	}
	if summary.Key.Color != "green" {
		t.Errorf("unexpected key settings %+v", summary.Key)
	}
	if summary.Frame.Width != 64 || summary.Frame.Height != 32 || summary.Frame.KeyedFormat != "yuva422p" {
		t.Errorf("unexpected frame %+v", summary.Frame)
	}
	if summary.Output.BytesWritten != 6144 {
		t.Errorf("expected 6144 bytes, got %d", summary.Output.BytesWritten)
	}
}

func TestOutcome_Failed(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    bool
	}{
		{Outcome{State: "done"}, false},
		{Outcome{State: "failed", FailedStage: "decode input"}, true},
		{Outcome{State: "failed", Error: "boom"}, true},
	}
	for _, tt := range tests {
		if got := tt.outcome.Failed(); got != tt.want {
			t.Errorf("%+v: expected %v, got %v", tt.outcome, tt.want, got)
		}
	}
}

func TestWriter_Write(t *testing.T) {
	mockFS := mocks.NewFileSystem()
	formatter := FormatFunc(func(s *Summary) string { return "state=" + s.Outcome.State })
	w := NewWriter(formatter, mockFS)

	if err := w.Write("reports/summary.md", NewBuilder().WithOutcome("done", "", "").Build()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, ok := mockFS.GetFile("reports/summary.md")
	if !ok {
		t.Fatal("expected summary file to be written")
	}
	if string(data) != "state=done" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestWriter_WriteError(t *testing.T) {
	mockFS := mocks.NewFileSystem()
	mockFS.WriteFileFunc = func(path string, data []byte) error {
		return errors.New("read-only file system")
	}
	w := NewWriter(NewMarkdownFormatter(), mockFS)

	err := w.Write("summary.md", NewSummary())
	if err == nil || !strings.Contains(err.Error(), "read-only") {
		t.Errorf("expected write error, got %v", err)
	}
}
