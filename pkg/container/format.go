// Package container probes input files and demultiplexes them into packets.
package container

import (
	"io"
	"sort"
	"sync"

	"github.com/user/chromakey/pkg/media"
)

// Probe scores.
const (
	ProbeScoreMax  = 100
	ProbeScoreNone = 0
)

// InputFormat recognizes and opens one container format.
type InputFormat interface {
	// Name returns the short format name, e.g. "png_pipe".
	Name() string
	// Probe returns how confident the format is that header belongs to it.
	Probe(header []byte) int
	// Open reads the container header from r and returns a demuxer.
	Open(r io.ReadSeeker) (Demuxer, error)
}

// Demuxer reads packets from an opened container.
type Demuxer interface {
	Streams() []*media.StreamDescriptor
	// ReadPacket returns the next packet of any stream, or media.ErrEndOfStream.
	ReadPacket() (*media.Packet, error)
	Close() error
}

var (
	registryMu   sync.RWMutex
	formats      = map[string]InputFormat{}
	registerOnce sync.Once
)

// Register adds a format to the registry, replacing one with the same name.
func Register(f InputFormat) {
	registryMu.Lock()
	defer registryMu.Unlock()
	formats[f.Name()] = f
}

// RegisterAll registers the built-in formats. It runs once per process.
func RegisterAll() {
	registerOnce.Do(func() {
		for _, f := range imagePipeFormats() {
			Register(f)
		}
		Register(mp4Format{})
	})
}

// Lookup returns the registered format with the given name.
func Lookup(name string) (InputFormat, bool) {
	RegisterAll()
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := formats[name]
	return f, ok
}

// Formats returns the registered formats sorted by name.
func Formats() []InputFormat {
	RegisterAll()
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]InputFormat, 0, len(formats))
	for _, f := range formats {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// ProbeFormat returns the format that scores header highest, or nil when
// no format scores above zero.
func ProbeFormat(header []byte) (InputFormat, int) {
	var best InputFormat
	bestScore := ProbeScoreNone
	for _, f := range Formats() {
		if score := f.Probe(header); score > bestScore {
			best, bestScore = f, score
		}
	}
	return best, bestScore
}
