package filter

import (
	"sort"
	"sync"

	"github.com/user/chromakey/pkg/media"
)

// LinkProps are the negotiated properties of the frames crossing a link.
type LinkProps struct {
	Format            media.PixelFormat
	Width             int
	Height            int
	TimeBase          media.Rational
	SampleAspectRatio media.Rational
}

// processor is the per-kind behavior of a stage. Each kind has its own
// configuration struct implementing it.
type processor interface {
	// configure receives the properties of every input link and returns
	// the properties of every output link.
	configure(inputs []LinkProps) ([]LinkProps, error)
	// filter processes one frame. A nil frame signals end of stream and is
	// forwarded as nil. A nil result for a non-nil frame drops the frame.
	filter(frame *media.Frame) (*media.Frame, error)
}

// Kind describes a stage type that can be instantiated in a graph.
type Kind struct {
	Name        string
	Description string
	Inputs      int
	Outputs     int
	Options     []Option
	create      func(v Values) (processor, error)
}

var (
	registryMu   sync.RWMutex
	kinds        = map[string]*Kind{}
	registerOnce sync.Once
)

func register(k *Kind) {
	registryMu.Lock()
	defer registryMu.Unlock()
	kinds[k.Name] = k
}

// RegisterAll registers the built-in stage kinds. It runs once per process.
func RegisterAll() {
	registerOnce.Do(func() {
		register(bufferKind)
		register(bufferSinkKind)
		register(formatKind)
		register(chromakeyKind)
	})
}

// LookupKind returns the stage kind with the given name.
func LookupKind(name string) (*Kind, bool) {
	RegisterAll()
	registryMu.RLock()
	defer registryMu.RUnlock()
	k, ok := kinds[name]
	return k, ok
}

// Kinds returns the registered kinds sorted by name.
func Kinds() []*Kind {
	RegisterAll()
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]*Kind, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
