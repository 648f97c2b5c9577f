package media

// MediaType classifies an elementary stream.
type MediaType int

const (
	MediaTypeUnknown MediaType = iota - 1
	MediaTypeVideo
	MediaTypeAudio
	MediaTypeData
)

func (t MediaType) String() string {
	switch t {
	case MediaTypeVideo:
		return "video"
	case MediaTypeAudio:
		return "audio"
	case MediaTypeData:
		return "data"
	default:
		return "unknown"
	}
}

// CodecID identifies a compressed bitstream format.
type CodecID int

const (
	CodecIDNone CodecID = iota
	CodecIDPNG
	CodecIDMJPEG
	CodecIDGIF
	CodecIDBMP
	CodecIDTIFF
	CodecIDWebP
	CodecIDH264
	CodecIDHEVC
	CodecIDAV1
	CodecIDAAC
)

var codecNames = map[CodecID]string{
	CodecIDNone:  "none",
	CodecIDPNG:   "png",
	CodecIDMJPEG: "mjpeg",
	CodecIDGIF:   "gif",
	CodecIDBMP:   "bmp",
	CodecIDTIFF:  "tiff",
	CodecIDWebP:  "webp",
	CodecIDH264:  "h264",
	CodecIDHEVC:  "hevc",
	CodecIDAV1:   "av1",
	CodecIDAAC:   "aac",
}

func (c CodecID) String() string {
	if n, ok := codecNames[c]; ok {
		return n
	}
	return "unknown"
}

// StreamDescriptor describes one stream of an opened source.
// It is immutable once returned by the container layer.
type StreamDescriptor struct {
	Index     int
	MediaType MediaType
	CodecID   CodecID
	// CodecTag is the container-level fourcc or format name the codec was derived from.
	CodecTag string

	Width       int
	Height      int
	PixelFormat PixelFormat
	TimeBase    Rational

	// Extradata carries codec configuration, e.g. an AVCDecoderConfigurationRecord.
	Extradata []byte
}

// HasCodecParameters reports whether the stream exposes usable picture parameters.
func (s *StreamDescriptor) HasCodecParameters() bool {
	return s != nil && s.CodecID != CodecIDNone && s.Width > 0 && s.Height > 0
}
