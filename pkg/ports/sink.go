package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results of a run.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveDecoded saves the frame as it came out of the decoder.
	SaveDecoded(img image.Image) error

	// SaveKeyed saves the keyed frame composited for viewing.
	SaveKeyed(img image.Image) error

	// SaveGraph saves the text description of the configured filter graph.
	SaveGraph(dump string) error

	// SaveRunJSON saves the run summary as JSON.
	SaveRunJSON(data []byte) error
}
