package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/chromakey/pkg/orchestrator"
	"github.com/user/chromakey/pkg/pipeline"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"chromakey"}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_KeyImage(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir)
	output := filepath.Join(dir, "out.raw")
	summary := filepath.Join(dir, "report", "summary.md")

	code, stdout, stderr := runCLI(t, "--summary", summary, input, output)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d\nstdout: %s\nstderr: %s", code, stdout, stderr)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(data) != wantRawSize {
		t.Errorf("expected %d bytes, got %d", wantRawSize, len(data))
	}

	// The alpha plane comes last. Green on the left is keyed out, red on
	// the right stays mostly opaque.
	alpha := data[len(data)-64*64:]
	if alpha[0] != 0 || alpha[63] < 100 {
		t.Errorf("unexpected alpha: left %d, right %d", alpha[0], alpha[63])
	}

	report, err := os.ReadFile(summary)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if !strings.Contains(string(report), "| 64x64 |") {
		t.Errorf("summary does not describe the frame:\n%s", report)
	}
}

func TestRun_Debug(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir)
	debugDir := filepath.Join(dir, "debug")

	code, _, stderr := runCLI(t, "--debug", "--debug-dir", debugDir, "--quiet", input, filepath.Join(dir, "out.raw"))
	if code != 0 {
		t.Fatalf("expected exit 0, got %d\nstderr: %s", code, stderr)
	}

	runs, err := os.ReadDir(debugDir)
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected one run directory, got %v (%v)", runs, err)
	}
	for _, name := range []string{"decoded.png", "keyed.png", "graph.txt", "run.json"} {
		if _, err := os.Stat(filepath.Join(debugDir, runs[0].Name(), name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}

func TestRun_Failures(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir)
	missing := filepath.Join(dir, "does-not-exist.png")

	badConfig := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badConfig, []byte("similarity: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		args       []string
		wantPrefix string
		wantText   string
	}{
		{
			name:     "missing arguments",
			args:     []string{input},
			wantText: "chromakey",
		},
		{
			name:       "missing input",
			args:       []string{missing, filepath.Join(dir, "a.raw")},
			wantPrefix: orchestrator.StageDecode + ": ",
			wantText:   missing,
		},
		{
			name:       "unwritable output",
			args:       []string{input, filepath.Join(dir, "no-such-dir", "b.raw")},
			wantPrefix: orchestrator.StageOpenOutput + ": ",
			wantText:   "no-such-dir",
		},
		{
			name:       "invalid flag value",
			args:       []string{"--color", "notacolor", input, filepath.Join(dir, "c.raw")},
			wantPrefix: "config: ",
			wantText:   "notacolor",
		},
		{
			name:       "invalid config file",
			args:       []string{"--config", badConfig, input, filepath.Join(dir, "d.raw")},
			wantPrefix: "config: ",
			wantText:   "similarity",
		},
		{
			name:       "format the key cannot use",
			args:       []string{"--pix-fmt", "yuv420p", input, filepath.Join(dir, "e.raw")},
			wantPrefix: orchestrator.StageKey + ": ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, append([]string{"--quiet"}, tt.args...)...)
			if code != 1 {
				t.Fatalf("expected exit 1, got %d", code)
			}
			last := strings.TrimSpace(stderr)
			if i := strings.LastIndex(last, "\n"); i >= 0 {
				last = last[i+1:]
			}
			if !strings.HasPrefix(last, tt.wantPrefix) {
				t.Errorf("expected diagnostic prefix %q, got %q", tt.wantPrefix, last)
			}
			if !strings.Contains(last, tt.wantText) {
				t.Errorf("expected diagnostic to contain %q, got %q", tt.wantText, last)
			}
		})
	}
}

func TestRun_KeyFailureIsOneLine(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir)

	code, _, stderr := runCLI(t, "--pix-fmt", "yuv422p", input, filepath.Join(dir, "out.raw"))
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	diag := strings.TrimSpace(stderr)
	if strings.Contains(diag, "\n") || !strings.HasPrefix(diag, orchestrator.StageKey+": ") {
		t.Errorf("expected a single %q diagnostic, got:\n%s", orchestrator.StageKey, stderr)
	}
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runCLI(t, "version")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout, version) {
		t.Errorf("expected version %q in %q", version, stdout)
	}
}

func TestSummaryFromResult(t *testing.T) {
	cfg := orchestrator.DefaultConfig()
	cfg.InputPath = "in.png"
	cfg.OutputPath = "out.raw"
	result := orchestrator.RunResult{
		StateName:    "done",
		SourceFormat: "png_pipe",
		Width:        4,
		Height:       2,
		KeyedFormat:  "yuva422p",
		BytesWritten: 256,
		Planes:       []pipeline.PlaneLayout{{Index: 0, Stride: 32, Rows: 2, Bytes: 64}},
	}

	s := summaryFromResult(result, cfg)
	if s.Outcome.State != "done" || s.Outcome.Failed() {
		t.Errorf("unexpected outcome %+v", s.Outcome)
	}
	if s.Source.Path != "in.png" || s.Output.Path != "out.raw" || s.Key.PixelFormat != "yuva422p" {
		t.Errorf("unexpected summary %+v", s)
	}
	if len(s.Output.Planes) != 1 || s.Output.Planes[0].Bytes != 64 {
		t.Errorf("unexpected planes %+v", s.Output.Planes)
	}
}
