package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version byte = 1

	KindEncoded byte = 1 // value is an envelope
	KindDecoded byte = 2 // value is revealed text
)

var (
	ErrCorrupt = errors.New("tagtext: corrupt memo entry")
	magic4     = [...]byte{'T', 'A', 'G', 'T'}
)

const hdr = 4 + 1 + 1 + 4

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Encode frames a memoized result:
//
//	magic(4) | ver(1) | kind(1) | vlen(u32 be) | value(vlen)
func Encode(kind byte, value string) []byte {
	var buf bytes.Buffer
	buf.Grow(hdr + len(value))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kind)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(value)))
	buf.Write(u4[:])

	buf.WriteString(value)
	return buf.Bytes()
}

// Decode returns the value framed by Encode. The frame must be exactly
// the announced length and carry the expected kind.
func Decode(kind byte, b []byte) (string, error) {
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kind {
		return "", ErrCorrupt
	}
	off := 6
	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen != len(b)-off {
		return "", ErrCorrupt
	}
	return string(b[off:]), nil
}
