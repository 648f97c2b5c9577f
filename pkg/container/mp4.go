package container

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/Eyevinn/mp4ff/hevc"
	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/user/chromakey/pkg/media"
)

// mp4Format demuxes ISO-BMFF files, progressive or fragmented.
type mp4Format struct{}

func (mp4Format) Name() string { return "mp4" }

func (mp4Format) Probe(header []byte) int {
	if len(header) < 8 {
		return ProbeScoreNone
	}
	switch string(header[4:8]) {
	case "ftyp":
		return ProbeScoreMax
	case "moov", "styp":
		return ProbeScoreMax / 2
	}
	return ProbeScoreNone
}

func (mp4Format) Open(r io.ReadSeeker) (Demuxer, error) {
	file, err := mp4.DecodeFile(r)
	if err != nil {
		return nil, fmt.Errorf("decode mp4: %w", err)
	}

	moov := file.Moov
	if file.IsFragmented() && file.Init != nil && file.Init.Moov != nil {
		moov = file.Init.Moov
	}
	if moov == nil {
		return nil, fmt.Errorf("no moov box found")
	}

	d := &mp4Demuxer{reader: r}
	trackIndex := map[uint32]int{}
	for i, trak := range moov.Traks {
		d.streams = append(d.streams, streamFromTrak(i, trak))
		if trak.Tkhd != nil {
			trackIndex[trak.Tkhd.TrackID] = i
		}
	}

	if file.IsFragmented() {
		if err := d.indexFragments(file, moov, trackIndex); err != nil {
			return nil, err
		}
	} else {
		for i, trak := range moov.Traks {
			if err := d.indexProgressive(i, trak); err != nil {
				return nil, err
			}
		}
		// Interleave by file position like a sequential read of mdat would.
		sort.SliceStable(d.samples, func(a, b int) bool {
			return d.samples[a].offset < d.samples[b].offset
		})
	}

	return d, nil
}

// streamFromTrak derives stream parameters from the track headers and the
// first sample entry.
func streamFromTrak(index int, trak *mp4.TrakBox) *media.StreamDescriptor {
	s := &media.StreamDescriptor{
		Index:       index,
		MediaType:   media.MediaTypeUnknown,
		PixelFormat: media.PixelFormatNone,
		TimeBase:    media.Rational{Num: 1, Den: 1000},
	}
	if trak.Mdia == nil {
		return s
	}
	if trak.Mdia.Hdlr != nil {
		switch trak.Mdia.Hdlr.HandlerType {
		case "vide":
			s.MediaType = media.MediaTypeVideo
		case "soun":
			s.MediaType = media.MediaTypeAudio
		default:
			s.MediaType = media.MediaTypeData
		}
	}
	if trak.Mdia.Mdhd != nil && trak.Mdia.Mdhd.Timescale > 0 {
		s.TimeBase = media.Rational{Num: 1, Den: int(trak.Mdia.Mdhd.Timescale)}
	}
	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return s
	}

	if children := trak.Mdia.Minf.Stbl.Stsd.Children; len(children) > 0 {
		s.CodecTag = children[0].Type()
		s.CodecID = codecFromFourCC(s.CodecTag)
		if entry, ok := children[0].(*mp4.VisualSampleEntryBox); ok {
			s.Width = int(entry.Width)
			s.Height = int(entry.Height)
			switch {
			case entry.AvcC != nil:
				s.Extradata = parameterSetsAnnexB(entry.AvcC)
			case entry.HvcC != nil:
				s.Extradata = hevcParameterSetsAnnexB(entry.HvcC)
			case entry.Av1C != nil:
				s.Extradata = append([]byte(nil), entry.Av1C.ConfigOBUs...)
			}
		}
	}
	if s.Width == 0 && trak.Tkhd != nil {
		s.Width = int(uint32(trak.Tkhd.Width) >> 16)
		s.Height = int(uint32(trak.Tkhd.Height) >> 16)
	}
	return s
}

func codecFromFourCC(fourcc string) media.CodecID {
	switch fourcc {
	case "avc1", "avc3":
		return media.CodecIDH264
	case "hvc1", "hev1":
		return media.CodecIDHEVC
	case "av01":
		return media.CodecIDAV1
	case "jpeg", "mjpa", "mjpg":
		return media.CodecIDMJPEG
	case "png ":
		return media.CodecIDPNG
	case "mp4a":
		return media.CodecIDAAC
	}
	return media.CodecIDNone
}

// parameterSetsAnnexB returns the SPS and PPS of avcC with start codes,
// ready to prepend to a key frame.
func parameterSetsAnnexB(avcC *mp4.AvcCBox) []byte {
	var buf bytes.Buffer
	for _, sps := range avcC.SPSnalus {
		buf.Write([]byte{0, 0, 0, 1})
		buf.Write(sps)
	}
	for _, pps := range avcC.PPSnalus {
		buf.Write([]byte{0, 0, 0, 1})
		buf.Write(pps)
	}
	return buf.Bytes()
}

// hevcParameterSetsAnnexB does the same for the VPS, SPS and PPS arrays of hvcC.
func hevcParameterSetsAnnexB(hvcC *mp4.HvcCBox) []byte {
	var buf bytes.Buffer
	for _, arr := range hvcC.NaluArrays {
		switch arr.NaluType() {
		case hevc.NALU_VPS, hevc.NALU_SPS, hevc.NALU_PPS:
		default:
			continue
		}
		for _, nalu := range arr.Nalus {
			buf.Write([]byte{0, 0, 0, 1})
			buf.Write(nalu)
		}
	}
	return buf.Bytes()
}

type mp4Sample struct {
	stream   int
	offset   uint64
	size     uint32
	data     []byte
	pts      int64
	duration int64
	key      bool
}

type mp4Demuxer struct {
	reader  io.ReadSeeker
	streams []*media.StreamDescriptor
	samples []mp4Sample
	next    int
	closed  bool
}

func (d *mp4Demuxer) indexProgressive(stream int, trak *mp4.TrakBox) error {
	if trak.Mdia == nil || trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil {
		return nil
	}
	stbl := trak.Mdia.Minf.Stbl
	if stbl.Stsz == nil || stbl.Stsc == nil {
		return nil
	}

	syncSamples := make(map[uint32]bool)
	if stbl.Stss != nil {
		for _, nr := range stbl.Stss.SampleNumber {
			syncSamples[nr] = true
		}
	}

	for nr := uint32(1); nr <= stbl.Stsz.SampleNumber; nr++ {
		offset, err := sampleOffset(stbl, nr)
		if err != nil {
			return fmt.Errorf("track %d sample %d: %w", stream, nr, err)
		}
		sample := mp4Sample{
			stream: stream,
			offset: offset,
			size:   stbl.Stsz.GetSampleSize(int(nr)),
			key:    stbl.Stss == nil || syncSamples[nr],
		}
		if stbl.Stts != nil {
			decodeTime, dur := stbl.Stts.GetDecodeTime(nr)
			sample.pts = int64(decodeTime)
			sample.duration = int64(dur)
		}
		d.samples = append(d.samples, sample)
	}
	return nil
}

// sampleOffset returns the absolute file offset of a sample.
func sampleOffset(stbl *mp4.StblBox, sampleNr uint32) (uint64, error) {
	chunkNr, firstSampleInChunk, err := stbl.Stsc.ChunkNrFromSampleNr(int(sampleNr))
	if err != nil {
		return 0, fmt.Errorf("get chunk nr: %w", err)
	}

	var chunkOffset uint64
	switch {
	case stbl.Stco != nil:
		chunkOffset, err = stbl.Stco.GetOffset(chunkNr)
		if err != nil {
			return 0, fmt.Errorf("get chunk offset: %w", err)
		}
	case stbl.Co64 != nil:
		if chunkNr < 1 || chunkNr > len(stbl.Co64.ChunkOffset) {
			return 0, fmt.Errorf("chunk nr out of range")
		}
		chunkOffset = stbl.Co64.ChunkOffset[chunkNr-1]
	default:
		return 0, fmt.Errorf("no stco or co64 box")
	}

	offset := chunkOffset
	for s := uint32(firstSampleInChunk); s < sampleNr; s++ {
		offset += uint64(stbl.Stsz.GetSampleSize(int(s)))
	}
	return offset, nil
}

func (d *mp4Demuxer) indexFragments(file *mp4.File, moov *mp4.MoovBox, trackIndex map[uint32]int) error {
	trexs := map[uint32]*mp4.TrexBox{}
	if moov.Mvex != nil {
		for _, t := range moov.Mvex.Trexs {
			trexs[t.TrackID] = t
		}
	}

	for _, seg := range file.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil || frag.Moof.Traf == nil || frag.Moof.Traf.Tfhd == nil {
				continue
			}
			trackID := frag.Moof.Traf.Tfhd.TrackID
			stream, ok := trackIndex[trackID]
			if !ok {
				continue
			}
			samples, err := frag.GetFullSamples(trexs[trackID])
			if err != nil {
				return fmt.Errorf("get samples: %w", err)
			}
			for _, s := range samples {
				d.samples = append(d.samples, mp4Sample{
					stream:   stream,
					data:     s.Data,
					size:     uint32(len(s.Data)),
					pts:      int64(s.DecodeTime),
					duration: int64(s.Dur),
					key:      mp4.IsSyncSampleFlags(s.Flags),
				})
			}
		}
	}
	return nil
}

func (d *mp4Demuxer) Streams() []*media.StreamDescriptor {
	return d.streams
}

func (d *mp4Demuxer) ReadPacket() (*media.Packet, error) {
	if d.closed || d.next >= len(d.samples) {
		return nil, media.ErrEndOfStream
	}
	s := d.samples[d.next]
	d.next++

	data := s.data
	if data == nil {
		if _, err := d.reader.Seek(int64(s.offset), io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek to sample: %w", err)
		}
		data = make([]byte, s.size)
		if _, err := io.ReadFull(d.reader, data); err != nil {
			return nil, fmt.Errorf("read sample: %w", err)
		}
	}

	pkt := &media.Packet{
		StreamIndex: s.stream,
		Data:        data,
		PTS:         s.pts,
		Duration:    s.duration,
	}
	if s.key {
		pkt.Flags |= media.PacketFlagKey
	}
	return pkt, nil
}

func (d *mp4Demuxer) Close() error {
	d.closed = true
	d.samples = nil
	return nil
}
