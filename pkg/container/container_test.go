package container

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Eyevinn/mp4ff/hevc"
	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/user/chromakey/pkg/media"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	img.SetNRGBA(0, 0, color.NRGBA{G: 0xFF, A: 0xFF})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// fragmentedMP4 builds an ftyp+moov+moof+mdat file with one "png " track
// whose samples are the given payloads.
func fragmentedMP4(t *testing.T, w, h int, samples ...[]byte) []byte {
	t.Helper()
	return fragmentedMP4WithFlags(t, w, h, mp4.SyncSampleFlags, samples...)
}

func fragmentedMP4WithFlags(t *testing.T, w, h int, flags uint32, samples ...[]byte) []byte {
	t.Helper()
	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(25, "video", "en")
	trak := init.Moov.Trak
	trak.Mdia.Minf.Stbl.Stsd.AddChild(mp4.CreateVisualSampleEntryBox("png ", uint16(w), uint16(h), nil))
	trak.Tkhd.Width = mp4.Fixed32(w << 16)
	trak.Tkhd.Height = mp4.Fixed32(h << 16)

	frag, err := mp4.CreateFragment(1, trak.Tkhd.TrackID)
	if err != nil {
		t.Fatalf("create fragment: %v", err)
	}
	for i, data := range samples {
		frag.AddFullSample(mp4.FullSample{
			Sample: mp4.Sample{
				Flags: flags,
				Size:  uint32(len(data)),
				Dur:   1,
			},
			DecodeTime: uint64(i),
			Data:       data,
		})
	}

	var buf bytes.Buffer
	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso2", "mp41"})
	if err := ftyp.Encode(&buf); err != nil {
		t.Fatalf("encode ftyp: %v", err)
	}
	if err := init.Moov.Encode(&buf); err != nil {
		t.Fatalf("encode moov: %v", err)
	}
	if err := frag.Encode(&buf); err != nil {
		t.Fatalf("encode fragment: %v", err)
	}
	return buf.Bytes()
}

func TestProbeFormat(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		want   string
	}{
		{"png", []byte("\x89PNG\r\n\x1a\n\x00\x00"), "png_pipe"},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, "jpeg_pipe"},
		{"gif", []byte("GIF89a...."), "gif_pipe"},
		{"tiff", []byte("II*\x00\x08\x00"), "tiff_pipe"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "webp_pipe"},
		{"mp4", []byte("\x00\x00\x00\x18ftypisom"), "mp4"},
		{"unknown", []byte("hello world"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := ProbeFormat(tt.header)
			got := ""
			if f != nil {
				got = f.Name()
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestOpenSource_PNG(t *testing.T) {
	data := encodePNG(t, 16, 8)
	src, err := OpenSource(writeFile(t, "in.png", data))
	if err != nil {
		t.Fatalf("OpenSource: %v", err)
	}
	defer src.Close()

	if src.FormatName() != "png_pipe" {
		t.Errorf("expected png_pipe, got %s", src.FormatName())
	}

	stream, err := src.FindBestStream(media.MediaTypeVideo)
	if err != nil {
		t.Fatalf("FindBestStream: %v", err)
	}
	if stream.Width != 16 || stream.Height != 8 || stream.CodecID != media.CodecIDPNG {
		t.Errorf("unexpected stream %+v", stream)
	}

	pkt, err := src.ReadPacket()
	if err != nil {
		t.Fatalf("ReadPacket: %v", err)
	}
	if !bytes.Equal(pkt.Data, data) || !pkt.IsKey() {
		t.Error("image pipe packet should be the whole file and a key frame")
	}
	if _, err := src.ReadPacket(); !errors.Is(err, media.ErrEndOfStream) {
		t.Errorf("expected ErrEndOfStream, got %v", err)
	}
}

func TestOpenSource_Errors(t *testing.T) {
	if _, err := OpenSource(filepath.Join(t.TempDir(), "missing.png")); !errors.Is(err, media.ErrOpen) {
		t.Errorf("missing file: expected ErrOpen, got %v", err)
	}
	if _, err := OpenSource(writeFile(t, "text.txt", []byte("plain text"))); !errors.Is(err, media.ErrOpen) {
		t.Errorf("unknown format: expected ErrOpen, got %v", err)
	}
	if _, err := OpenSource(writeFile(t, "empty.png", nil)); !errors.Is(err, media.ErrOpen) {
		t.Errorf("empty file: expected ErrOpen, got %v", err)
	}
}

func TestFindBestStream_NoParameters(t *testing.T) {
	// valid signature but truncated header: size cannot be read
	src, err := OpenSource(writeFile(t, "trunc.png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00")))
	if err != nil {
		t.Fatalf("OpenSource: %v", err)
	}
	defer src.Close()

	if _, err := src.FindBestStream(media.MediaTypeVideo); !errors.Is(err, media.ErrNoStream) {
		t.Errorf("expected ErrNoStream, got %v", err)
	}
	if _, err := src.FindBestStream(media.MediaTypeAudio); !errors.Is(err, media.ErrNoStream) {
		t.Errorf("expected ErrNoStream for audio, got %v", err)
	}
}

func TestOpenSource_FragmentedMP4(t *testing.T) {
	first := encodePNG(t, 4, 2)
	second := encodePNG(t, 4, 2)
	src, err := OpenSource(writeFile(t, "in.mp4", fragmentedMP4(t, 4, 2, first, second)))
	if err != nil {
		t.Fatalf("OpenSource: %v", err)
	}
	defer src.Close()

	if src.FormatName() != "mp4" {
		t.Errorf("expected mp4, got %s", src.FormatName())
	}
	stream, err := src.FindBestStream(media.MediaTypeVideo)
	if err != nil {
		t.Fatalf("FindBestStream: %v", err)
	}
	if stream.CodecID != media.CodecIDPNG || stream.Width != 4 || stream.Height != 2 {
		t.Errorf("unexpected stream %+v", stream)
	}
	if stream.TimeBase != (media.Rational{Num: 1, Den: 25}) {
		t.Errorf("expected time base 1/25, got %s", stream.TimeBase)
	}

	for i, want := range [][]byte{first, second} {
		pkt, err := src.ReadPacket()
		if err != nil {
			t.Fatalf("packet %d: %v", i, err)
		}
		if !bytes.Equal(pkt.Data, want) || pkt.PTS != int64(i) {
			t.Errorf("packet %d: unexpected data or pts %d", i, pkt.PTS)
		}
	}
	if _, err := src.ReadPacket(); !errors.Is(err, media.ErrEndOfStream) {
		t.Errorf("expected ErrEndOfStream, got %v", err)
	}
}

func TestOpenSource_FragmentedKeyFlags(t *testing.T) {
	tests := []struct {
		name  string
		flags uint32
		key   bool
	}{
		{"sync", mp4.SyncSampleFlags, true},
		{"sync with degradation priority", mp4.SyncSampleFlags | 0x0000ffff, true},
		{"non-sync", mp4.NonSyncSampleFlags, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := fragmentedMP4WithFlags(t, 4, 2, tt.flags, encodePNG(t, 4, 2))
			src, err := OpenSource(writeFile(t, "in.mp4", data))
			if err != nil {
				t.Fatalf("OpenSource: %v", err)
			}
			defer src.Close()

			pkt, err := src.ReadPacket()
			if err != nil {
				t.Fatalf("ReadPacket: %v", err)
			}
			if pkt.IsKey() != tt.key {
				t.Errorf("flags %#08x: expected key %v", tt.flags, tt.key)
			}
		})
	}
}

func TestStreamFromTrak_HEVCParameterSets(t *testing.T) {
	vps := []byte{0x40, 0x01, 0x0c}
	sps := []byte{0x42, 0x01, 0x01}
	pps := []byte{0x44, 0x01, 0xc1}
	sei := []byte{0x4e, 0x01, 0x05}
	hvcC := &mp4.HvcCBox{DecConfRec: hevc.DecConfRec{
		NaluArrays: []hevc.NaluArray{
			hevc.NewNaluArray(true, hevc.NALU_VPS, [][]byte{vps}),
			hevc.NewNaluArray(true, hevc.NALU_SPS, [][]byte{sps}),
			hevc.NewNaluArray(true, hevc.NALU_PPS, [][]byte{pps}),
			hevc.NewNaluArray(false, hevc.NALU_SEI_PREFIX, [][]byte{sei}),
		},
	}}

	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(25, "video", "en")
	trak := init.Moov.Trak
	trak.Mdia.Minf.Stbl.Stsd.AddChild(mp4.CreateVisualSampleEntryBox("hvc1", 64, 64, hvcC))

	s := streamFromTrak(0, trak)
	if s.CodecID != media.CodecIDHEVC || s.CodecTag != "hvc1" {
		t.Fatalf("unexpected stream %+v", s)
	}

	startCode := []byte{0, 0, 0, 1}
	var want []byte
	for _, nalu := range [][]byte{vps, sps, pps} {
		want = append(want, startCode...)
		want = append(want, nalu...)
	}
	if !bytes.Equal(s.Extradata, want) {
		t.Errorf("expected extradata %x, got %x", want, s.Extradata)
	}
}

func TestBetterStream(t *testing.T) {
	small := &media.StreamDescriptor{Index: 0, Width: 10, Height: 10}
	large := &media.StreamDescriptor{Index: 1, Width: 20, Height: 20}
	other := &media.StreamDescriptor{Index: 2, Width: 20, Height: 20}

	if !betterStream(small, true, large, false) {
		t.Error("decodable stream should win over a larger undecodable one")
	}
	if !betterStream(large, true, small, true) {
		t.Error("larger stream should win")
	}
	if betterStream(other, true, large, true) {
		t.Error("lower index should win on ties")
	}
}

func TestSource_CloseIdempotent(t *testing.T) {
	src, err := OpenSource(writeFile(t, "in.png", encodePNG(t, 2, 2)))
	if err != nil {
		t.Fatalf("OpenSource: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, err := src.ReadPacket(); !errors.Is(err, media.ErrEndOfStream) {
		t.Errorf("expected ErrEndOfStream after close, got %v", err)
	}
}

func TestCodecFromFourCC(t *testing.T) {
	tests := map[string]media.CodecID{
		"avc1": media.CodecIDH264,
		"hev1": media.CodecIDHEVC,
		"av01": media.CodecIDAV1,
		"png ": media.CodecIDPNG,
		"mp4a": media.CodecIDAAC,
		"xxxx": media.CodecIDNone,
	}
	for fourcc, want := range tests {
		if got := codecFromFourCC(fourcc); got != want {
			t.Errorf("%q: got %s, want %s", fourcc, got, want)
		}
	}
}
