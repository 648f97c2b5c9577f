// Package codec turns compressed packets into decoded frames.
package codec

import (
	"image"
	"sync"

	"github.com/user/chromakey/pkg/media"
)

// Decoder decodes the packets of one codec into images.
type Decoder interface {
	ID() media.CodecID
	Name() string
	// Decode decodes one packet. A nil image with a nil error means the
	// decoder needs more data before it can produce a picture.
	Decode(params Parameters, data []byte) (image.Image, error)
}

var (
	registryMu   sync.RWMutex
	decoders     = map[media.CodecID]Decoder{}
	registerOnce sync.Once
)

// Register adds a decoder, replacing any registered for the same codec.
func Register(d Decoder) {
	registryMu.Lock()
	defer registryMu.Unlock()
	decoders[d.ID()] = d
}

// RegisterAll registers the built-in decoders. It runs once per process.
// External-process decoders are only registered when ffmpeg is available.
func RegisterAll() {
	registerOnce.Do(func() {
		for _, d := range stillDecoders() {
			Register(d)
		}
		if path, err := findFFmpeg(); err == nil {
			for _, d := range externalDecoders(path) {
				Register(d)
			}
		}
	})
}

// FindDecoder looks up the decoder for a codec.
func FindDecoder(id media.CodecID) (Decoder, bool) {
	RegisterAll()
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := decoders[id]
	return d, ok
}
