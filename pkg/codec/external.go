package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"github.com/Eyevinn/mp4ff/avc"
	"github.com/user/chromakey/pkg/media"
)

// ErrFFmpegNotFound is returned when no ffmpeg executable can be located.
var ErrFFmpegNotFound = errors.New("codec: ffmpeg not found in PATH")

var (
	ffmpegPathMu     sync.RWMutex
	customFFmpegPath string
)

// SetFFmpegPath sets a custom ffmpeg executable for the external decoders.
// It must be called before the first decoder lookup.
func SetFFmpegPath(path string) {
	ffmpegPathMu.Lock()
	defer ffmpegPathMu.Unlock()
	customFFmpegPath = path
}

// findFFmpeg searches for ffmpeg in the custom path, PATH and common locations.
func findFFmpeg() (string, error) {
	ffmpegPathMu.RLock()
	custom := customFFmpegPath
	ffmpegPathMu.RUnlock()

	if custom != "" {
		if _, err := os.Stat(custom); err == nil {
			return custom, nil
		}
		return "", fmt.Errorf("%w: custom path %s not found", ErrFFmpegNotFound, custom)
	}

	execName := "ffmpeg"
	if runtime.GOOS == "windows" {
		execName = "ffmpeg.exe"
	}
	if path, err := exec.LookPath(execName); err == nil {
		return path, nil
	}

	var commonPaths []string
	if runtime.GOOS == "windows" {
		commonPaths = []string{
			`C:\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files\ffmpeg\bin\ffmpeg.exe`,
		}
	} else {
		commonPaths = []string{
			"/usr/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/opt/homebrew/bin/ffmpeg",
			"/snap/bin/ffmpeg",
		}
	}
	for _, p := range commonPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", ErrFFmpegNotFound
}

// externalDecoder decodes video bitstream packets by running ffmpeg on a
// temporary elementary-stream file and reading back a PNG.
type externalDecoder struct {
	id          media.CodecID
	inputFormat string
	ffmpegPath  string
	// bitstream builds the elementary stream ffmpeg reads from the codec
	// configuration and one sample.
	bitstream func(extradata, sample []byte) []byte
	mu        sync.Mutex
}

func externalDecoders(ffmpegPath string) []Decoder {
	return []Decoder{
		&externalDecoder{id: media.CodecIDH264, inputFormat: "h264", ffmpegPath: ffmpegPath, bitstream: byteStream},
		&externalDecoder{id: media.CodecIDHEVC, inputFormat: "hevc", ffmpegPath: ffmpegPath, bitstream: byteStream},
		&externalDecoder{id: media.CodecIDAV1, inputFormat: "obu", ffmpegPath: ffmpegPath, bitstream: obuStream},
	}
}

func (d *externalDecoder) ID() media.CodecID { return d.id }

func (d *externalDecoder) Name() string { return d.inputFormat + " (ffmpeg)" }

func (d *externalDecoder) Decode(params Parameters, data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty packet")
	}
	return d.run(d.bitstream(params.Extradata, data))
}

// byteStream converts a length-prefixed sample to Annex B and prepends the
// parameter sets.
func byteStream(parameterSets, sample []byte) []byte {
	if !hasStartCode(sample) {
		sample = avc.ConvertSampleToByteStream(sample)
	}
	out := make([]byte, 0, len(parameterSets)+len(sample))
	out = append(out, parameterSets...)
	return append(out, sample...)
}

// temporalDelimiter is the OBU that starts every temporal unit.
var temporalDelimiter = []byte{0x12, 0x00}

// obuStream builds a low-overhead AV1 bitstream: temporal delimiter, the
// configuration OBUs (sequence header), then the sample's OBUs.
func obuStream(configOBUs, sample []byte) []byte {
	out := make([]byte, 0, len(temporalDelimiter)+len(configOBUs)+len(sample))
	out = append(out, temporalDelimiter...)
	out = append(out, configOBUs...)
	return append(out, sample...)
}

func hasStartCode(b []byte) bool {
	return bytes.HasPrefix(b, []byte{0, 0, 1}) || bytes.HasPrefix(b, []byte{0, 0, 0, 1})
}

func (d *externalDecoder) run(stream []byte) (image.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	inputFile, err := os.CreateTemp("", "chromakey_*."+d.inputFormat)
	if err != nil {
		return nil, fmt.Errorf("create input temp file: %w", err)
	}
	inputPath := inputFile.Name()
	defer os.Remove(inputPath)

	if _, err := inputFile.Write(stream); err != nil {
		inputFile.Close()
		return nil, fmt.Errorf("write packet data: %w", err)
	}
	inputFile.Close()

	outputFile, err := os.CreateTemp("", "chromakey_*.png")
	if err != nil {
		return nil, fmt.Errorf("create output temp file: %w", err)
	}
	outputPath := outputFile.Name()
	outputFile.Close()
	defer os.Remove(outputPath)

	var stderr bytes.Buffer
	cmd := exec.Command(d.ffmpegPath,
		"-y",
		"-loglevel", "error",
		"-f", d.inputFormat,
		"-i", inputPath,
		"-frames:v", "1",
		"-f", "image2",
		outputPath,
	)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, ffmpegError(err, stderr.Bytes())
	}

	imgFile, err := os.Open(outputPath)
	if err != nil {
		return nil, fmt.Errorf("open decoded image: %w", err)
	}
	defer imgFile.Close()

	img, err := png.Decode(imgFile)
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	return img, nil
}

// ffmpegError folds the ffmpeg stderr into err on a single line.
func ffmpegError(err error, stderr []byte) error {
	msg := strings.Join(strings.Fields(string(stderr)), " ")
	if msg == "" {
		return fmt.Errorf("ffmpeg decode failed: %w", err)
	}
	return fmt.Errorf("ffmpeg decode failed: %w: %s", err, msg)
}
