package pipeline

import (
	"io"

	"github.com/user/chromakey/pkg/media"
)

// =============================================================================
// Run State
// =============================================================================

// State is a step of a single chromakey run. A run only moves forward and
// ends in StateDone or StateFailed.
type State int

const (
	StateIdle State = iota
	StateSourceOpened
	StateStreamSelected
	StateDecoderOpened
	StateFrameDecoded
	StateGraphBuilt
	StateGraphConfigured
	StateFramePushed
	StateFramePulled
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateIdle:            "idle",
	StateSourceOpened:    "source-opened",
	StateStreamSelected:  "stream-selected",
	StateDecoderOpened:   "decoder-opened",
	StateFrameDecoded:    "frame-decoded",
	StateGraphBuilt:      "graph-built",
	StateGraphConfigured: "graph-configured",
	StateFramePushed:     "frame-pushed",
	StateFramePulled:     "frame-pulled",
	StateDone:            "done",
	StateFailed:          "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transition can follow s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// StateFunc is notified each time a stage reaches a new state.
type StateFunc func(State)

// Enter calls f with s when f is set.
func (f StateFunc) Enter(s State) {
	if f != nil {
		f(s)
	}
}

// =============================================================================
// Load Stage Types
// =============================================================================

// LoadInput contains parameters for decoding the first frame of a file.
type LoadInput struct {
	Path string

	// MaxPackets bounds how many packets are read while looking for a
	// decodable frame. Values below 2 read exactly one packet.
	MaxPackets int

	OnState StateFunc
}

// LoadResult holds the decoded frame and where it came from.
// The caller owns Frame and must Unref it.
type LoadResult struct {
	Frame        *media.Frame
	Stream       media.StreamDescriptor
	SourceFormat string
	DecoderName  string
	PacketsRead  int
}

// =============================================================================
// Key Stage Types
// =============================================================================

// KeyInput contains the frame to key and the filter settings.
type KeyInput struct {
	Frame *media.Frame

	// PixelFormats is the format constraint applied before keying,
	// one name or a "|" separated list.
	PixelFormats string

	Color      string
	Similarity float64
	Blend      float64
	YUV        bool

	TimeBase media.Rational

	OnState StateFunc
}

// KeyResult holds the keyed frame. The caller owns Frame and must Unref it.
type KeyResult struct {
	Frame *media.Frame

	// GraphDump is the text description of the configured graph.
	GraphDump string
}

// =============================================================================
// Raw Output Stage Types
// =============================================================================

// RawOutInput contains the frame whose planes are written to Output.
type RawOutInput struct {
	Frame  *media.Frame
	Output io.Writer
}

// PlaneLayout describes one plane as it was written.
type PlaneLayout struct {
	Index  int `json:"index"`
	Stride int `json:"stride"`
	Rows   int `json:"rows"`
	Bytes  int `json:"bytes"`
}

// RawOutResult reports what was written.
type RawOutResult struct {
	BytesWritten int64
	Planes       []PlaneLayout
}
