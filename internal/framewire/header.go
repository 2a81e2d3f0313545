package framewire

import (
	"encoding/binary"
)

// Version is the only dump layout written and accepted.
const Version uint8 = 1

const magic = "C2DM"

// Header opens a dump file. It is followed by Codewords records, each K data
// bytes and a flag bitmap of (K+7)/8 bytes, least significant bit first.
// Layout:
//
//	MAGIC     4B   "C2DM"
//	VERSION   u8
//	TRACK     u8
//	N, K      u8, u8
//	POLICY    u8
//	FLAGS     u8   reserved
//	DELAY     u16  delay step
//	CODEWORDS u32
//	STATS     4 x u32
//
// Multi-byte fields are little endian.
type Header struct {
	Version   uint8
	Track     uint8
	N         uint8 // codeword length
	K         uint8 // data symbols per codeword
	Policy    uint8 // 0=pass-through,1=zero-fill
	Flags     uint8 // reserved
	Delay     uint16
	Codewords uint32
	Stats     [4]uint32 // passed, corrected, failed, flushed
}

const HeaderLen = 4 + 1 + 1 + 1 + 1 + 1 + 1 + 2 + 4 + 4*4

func (h *Header) MarshalBinary(b []byte) []byte {
	if len(b) < HeaderLen {
		b = make([]byte, HeaderLen)
	}
	copy(b[0:4], magic)
	b[4] = h.Version
	b[5] = h.Track
	b[6] = h.N
	b[7] = h.K
	b[8] = h.Policy
	b[9] = h.Flags
	binary.LittleEndian.PutUint16(b[10:12], h.Delay)
	binary.LittleEndian.PutUint32(b[12:16], h.Codewords)
	for i, s := range h.Stats {
		binary.LittleEndian.PutUint32(b[16+4*i:20+4*i], s)
	}
	return b[:HeaderLen]
}

// UnmarshalBinary reports false for a short buffer or a wrong magic.
func (h *Header) UnmarshalBinary(b []byte) bool {
	if len(b) < HeaderLen || string(b[0:4]) != magic {
		return false
	}
	h.Version = b[4]
	h.Track = b[5]
	h.N = b[6]
	h.K = b[7]
	h.Policy = b[8]
	h.Flags = b[9]
	h.Delay = binary.LittleEndian.Uint16(b[10:12])
	h.Codewords = binary.LittleEndian.Uint32(b[12:16])
	for i := range h.Stats {
		h.Stats[i] = binary.LittleEndian.Uint32(b[16+4*i : 20+4*i])
	}
	return true
}

// RecordLen is the size of one codeword record for the header's K.
func (h *Header) RecordLen() int {
	k := int(h.K)
	return k + (k+7)/8
}
