package reader

import (
	"encoding/binary"
)

// testEntry describes a central directory header to encode by hand.
type testEntry struct {
	name     string
	extra    []byte
	comment  string
	flags    uint16
	modTime  uint16
	modDate  uint16
	comp     uint32
	uncomp   uint32
	extAttrs uint32
	offset   uint32
}

func (e testEntry) bytes() []byte {
	b := make([]byte, directoryHeaderLen, directoryHeaderLen+len(e.name)+len(e.extra)+len(e.comment))
	le := binary.LittleEndian
	le.PutUint32(b[0:], directoryHeaderSignature)
	le.PutUint16(b[4:], 20)
	le.PutUint16(b[6:], 20)
	le.PutUint16(b[8:], e.flags)
	le.PutUint16(b[10:], 8)
	le.PutUint16(b[12:], e.modTime)
	le.PutUint16(b[14:], e.modDate)
	le.PutUint32(b[16:], 0xdeadbeef)
	le.PutUint32(b[20:], e.comp)
	le.PutUint32(b[24:], e.uncomp)
	le.PutUint16(b[28:], uint16(len(e.name)))
	le.PutUint16(b[30:], uint16(len(e.extra)))
	le.PutUint16(b[32:], uint16(len(e.comment)))
	le.PutUint32(b[38:], e.extAttrs)
	le.PutUint32(b[42:], e.offset)
	b = append(b, e.name...)
	b = append(b, e.extra...)
	return append(b, e.comment...)
}

func eocdBytes(entries uint16, dirSize, dirOffset uint32, commentLen uint16) []byte {
	b := make([]byte, directoryEndLen)
	le := binary.LittleEndian
	le.PutUint32(b[0:], directoryEndSignature)
	le.PutUint16(b[8:], entries)
	le.PutUint16(b[10:], entries)
	le.PutUint32(b[12:], dirSize)
	le.PutUint32(b[16:], dirOffset)
	le.PutUint16(b[20:], commentLen)
	return b
}

// buildZip lays out body, a central directory of entries, the end record and
// comment. It returns the file and the offset of the directory.
func buildZip(body []byte, entries []testEntry, comment []byte) ([]byte, int) {
	out := append([]byte{}, body...)
	dirOffset := len(out)
	for _, e := range entries {
		out = append(out, e.bytes()...)
	}
	dirSize := len(out) - dirOffset
	out = append(out, eocdBytes(uint16(len(entries)), uint32(dirSize), uint32(dirOffset), uint16(len(comment)))...)
	return append(out, comment...), dirOffset
}
