package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/user/chromakey/pkg/ports"
)

func TestConsoleLogger_Routing(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewConsoleWriters(ports.LevelDebug, &out, &errOut)

	l.Debug("debug %d", 1)
	l.Info("info %s", "msg")
	l.Warn("warn")
	l.Error("error %s", "msg")

	if got := out.String(); got != "debug 1\ninfo msg\n" {
		t.Errorf("unexpected stdout %q", got)
	}
	if got := errOut.String(); got != "warn\nerror msg\n" {
		t.Errorf("unexpected stderr %q", got)
	}
}

func TestConsoleLogger_Levels(t *testing.T) {
	tests := []struct {
		level     ports.LogLevel
		wantLines int
	}{
		{level: ports.LevelDebug, wantLines: 4},
		{level: ports.LevelInfo, wantLines: 3},
		{level: ports.LevelWarn, wantLines: 2},
		{level: ports.LevelError, wantLines: 1},
		{level: ports.LevelQuiet, wantLines: 0},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			l := NewConsoleWriters(tt.level, &buf, &buf)
			l.Debug("d")
			l.Info("i")
			l.Warn("w")
			l.Error("e")

			if got := strings.Count(buf.String(), "\n"); got != tt.wantLines {
				t.Errorf("expected %d lines, got %d: %q", tt.wantLines, got, buf.String())
			}
		})
	}
}

func TestConsoleLogger_WithComponent(t *testing.T) {
	var out bytes.Buffer
	root := NewConsoleWriters(ports.LevelInfo, &out, &out)
	root.WithComponent("load").Info("opened %s", "a.png")
	root.Info("plain")

	if got := out.String(); got != "[load] opened a.png\nplain\n" {
		t.Errorf("unexpected output %q", got)
	}
}
