package media

// PacketFlags carries per-packet properties.
type PacketFlags uint8

const (
	// PacketFlagKey marks a packet that can be decoded on its own.
	PacketFlagKey PacketFlags = 1 << iota
)

// Packet is a unit of compressed data demultiplexed from one stream.
type Packet struct {
	StreamIndex int
	Data        []byte
	PTS         int64
	Duration    int64
	Flags       PacketFlags
}

// IsKey reports whether the packet is marked as a key frame.
func (p *Packet) IsKey() bool {
	return p.Flags&PacketFlagKey != 0
}

// Unref drops the packet payload. Safe to call more than once.
func (p *Packet) Unref() {
	if p == nil {
		return
	}
	*p = Packet{}
}
