package mocks

import (
	"image"
	"sync"

	"github.com/user/chromakey/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink that keeps
// everything it is given.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	Decoded image.Image
	Keyed   image.Image
	Graph   string
	RunJSON []byte

	// SaveErr is returned by every Save method when set.
	SaveErr error
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{enabled: enabled}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveDecoded(img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Decoded = img
	return m.SaveErr
}

func (m *DebugSink) SaveKeyed(img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Keyed = img
	return m.SaveErr
}

func (m *DebugSink) SaveGraph(dump string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Graph = dump
	return m.SaveErr
}

func (m *DebugSink) SaveRunJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RunJSON = data
	return m.SaveErr
}

var _ ports.DebugSink = (*DebugSink)(nil)

// NullSink is a no-op implementation of ports.DebugSink.
type NullSink struct{}

func (m *NullSink) Enabled() bool                     { return false }
func (m *NullSink) SaveDecoded(img image.Image) error { return nil }
func (m *NullSink) SaveKeyed(img image.Image) error   { return nil }
func (m *NullSink) SaveGraph(dump string) error       { return nil }
func (m *NullSink) SaveRunJSON(data []byte) error     { return nil }

var _ ports.DebugSink = (*NullSink)(nil)
