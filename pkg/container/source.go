package container

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/user/chromakey/pkg/codec"
	"github.com/user/chromakey/pkg/media"
)

// probeSize is the number of header bytes handed to InputFormat.Probe.
const probeSize = 64

// Source is an opened media file.
type Source struct {
	path    string
	file    *os.File
	format  InputFormat
	demuxer Demuxer
	closed  bool
}

// OpenSource opens path, probes its container format and reads its header.
func OpenSource(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", media.ErrOpen, err)
	}

	src, err := open(path, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return src, nil
}

func open(path string, f *os.File) (*Source, error) {
	header := make([]byte, probeSize)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: read %s: %v", media.ErrOpen, path, err)
	}
	header = header[:n]

	format, _ := ProbeFormat(header)
	if format == nil {
		return nil, fmt.Errorf("%w: %s: unrecognized container format", media.ErrOpen, path)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seek %s: %v", media.ErrOpen, path, err)
	}

	demuxer, err := format.Open(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s (%s): %v", media.ErrOpen, path, format.Name(), err)
	}

	return &Source{path: path, file: f, format: format, demuxer: demuxer}, nil
}

// Path returns the path the source was opened from.
func (s *Source) Path() string { return s.path }

// FormatName returns the name of the probed container format.
func (s *Source) FormatName() string { return s.format.Name() }

// Streams returns the stream descriptors read from the container header.
func (s *Source) Streams() []*media.StreamDescriptor {
	if s.closed {
		return nil
	}
	return s.demuxer.Streams()
}

// FindBestStream picks the stream of the given type to decode. Streams with an
// available decoder win, then larger pictures, then lower indexes.
func (s *Source) FindBestStream(mediaType media.MediaType) (*media.StreamDescriptor, error) {
	var best *media.StreamDescriptor
	bestDecodable := false
	found := false

	for _, st := range s.Streams() {
		if st.MediaType != mediaType {
			continue
		}
		found = true
		if !st.HasCodecParameters() {
			continue
		}
		_, decodable := codec.FindDecoder(st.CodecID)
		if best == nil || betterStream(st, decodable, best, bestDecodable) {
			best, bestDecodable = st, decodable
		}
	}

	switch {
	case !found:
		return nil, fmt.Errorf("%w: %s has no %s stream", media.ErrNoStream, s.path, mediaType)
	case best == nil:
		return nil, fmt.Errorf("%w: could not read codec parameters of %s", media.ErrNoStream, s.path)
	}
	return best, nil
}

func betterStream(a *media.StreamDescriptor, aDecodable bool, b *media.StreamDescriptor, bDecodable bool) bool {
	if aDecodable != bDecodable {
		return aDecodable
	}
	if pa, pb := a.Width*a.Height, b.Width*b.Height; pa != pb {
		return pa > pb
	}
	return a.Index < b.Index
}

// ReadPacket returns the next packet of any stream.
// It returns media.ErrEndOfStream when the container is exhausted.
func (s *Source) ReadPacket() (*media.Packet, error) {
	if s.closed {
		return nil, media.ErrEndOfStream
	}
	pkt, err := s.demuxer.ReadPacket()
	if err != nil {
		if errors.Is(err, media.ErrEndOfStream) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: read packet: %v", media.ErrDecode, err)
	}
	return pkt, nil
}

// Close releases the demuxer and the file. It is safe to call more than once.
func (s *Source) Close() error {
	if s == nil || s.closed {
		return nil
	}
	s.closed = true
	return errors.Join(s.demuxer.Close(), s.file.Close())
}
