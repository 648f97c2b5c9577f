// Package nullsink provides a no-op debug sink implementation.
package nullsink

import (
	"image"

	"github.com/user/chromakey/pkg/ports"
)

// Sink is a no-op implementation of ports.DebugSink.
// It discards all debug output.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

func (s *Sink) SaveDecoded(img image.Image) error { return nil }

func (s *Sink) SaveKeyed(img image.Image) error { return nil }

func (s *Sink) SaveGraph(dump string) error { return nil }

func (s *Sink) SaveRunJSON(data []byte) error { return nil }

var _ ports.DebugSink = (*Sink)(nil)
