package media

import "errors"

// Error kinds. Every failure returned by the container, codec and filter
// packages wraps exactly one of these, so callers can use errors.Is.
var (
	ErrOpen             = errors.New("could not open media")
	ErrNoStream         = errors.New("no decodable video stream")
	ErrUnsupportedCodec = errors.New("unsupported codec")
	ErrDecoderOpen      = errors.New("could not open decoder")
	ErrDecode           = errors.New("decode failed")
	ErrStageCreation    = errors.New("could not create filter stage")
	ErrLink             = errors.New("could not link filter stages")
	ErrGraphConfig      = errors.New("could not configure filter graph")
	ErrGraphExec        = errors.New("filter graph execution failed")
	ErrNoFrameAvailable = errors.New("no frame available")
	ErrOutputOpen       = errors.New("could not open output")
	ErrEndOfStream      = errors.New("end of stream")
	ErrAgain            = errors.New("resource temporarily unavailable")
)

// Kind returns the error kind wrapped by err, or nil if err wraps none.
func Kind(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

var kinds = []error{
	ErrOpen, ErrNoStream, ErrUnsupportedCodec, ErrDecoderOpen, ErrDecode,
	ErrStageCreation, ErrLink, ErrGraphConfig, ErrGraphExec, ErrNoFrameAvailable,
	ErrOutputOpen, ErrEndOfStream, ErrAgain,
}
