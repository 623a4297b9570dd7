package reader

import (
	"encoding/binary"

	"golang.org/x/text/encoding/charmap"
)

// DecodeDirectoryEnd decodes the fixed 22-byte EOCD layout from the start of b.
//
// A signature mismatch is not an error: the locator decodes many candidates
// that are not records at all, so callers check IsGood themselves.
func DecodeDirectoryEnd(b []byte) (*DirectoryEnd, error) {
	if len(b) < directoryEndLen {
		return nil, ErrShortBuffer
	}
	r := readBuf(b[:directoryEndLen])
	return &DirectoryEnd{
		Signature:       r.uint32(),
		DiskNumber:      r.uint16(),
		StartDiskNumber: r.uint16(),
		EntriesOnDisk:   r.uint16(),
		EntriesTotal:    r.uint16(),
		DirectorySize:   r.uint32(),
		DirectoryOffset: r.uint32(),
		CommentLength:   r.uint16(),
	}, nil
}

// IsGood reports whether the record carries the EOCD magic.
func (d *DirectoryEnd) IsGood() bool { return d.Signature == directoryEndSignature }

// Offset is the absolute file offset the record was found at.
func (d *DirectoryEnd) Offset() int64 { return d.offset }

// ScannedCommentLen is the number of bytes that follow the record in the file.
// It is what the locator accepted as the comment length, which may differ
// from CommentLength in a malformed or appended-to file.
func (d *DirectoryEnd) ScannedCommentLen() int { return d.scannedCommentLen }

// Comment returns the archive comment that trails the record.
func (d *DirectoryEnd) Comment() string { return decodeText(d.comment, false) }

// DecodeDirectoryHeader decodes one central directory file header starting at b[0].
//
// When the signature does not match only the fixed fields are filled in and no
// error is returned; the trailing name, extra and comment regions are sliced
// out of b only for a good header, and ErrShortBuffer is returned if b ends
// before them.
func DecodeDirectoryHeader(b []byte) (*DirectoryHeader, error) {
	if len(b) < directoryHeaderLen {
		return nil, ErrShortBuffer
	}
	r := readBuf(b[:directoryHeaderLen])
	h := &DirectoryHeader{
		Signature:        r.uint32(),
		VersionMadeBy:    r.uint16(),
		VersionNeeded:    r.uint16(),
		Flags:            r.uint16(),
		CompressionType:  r.uint16(),
		ModTime:          r.uint16(),
		ModDate:          r.uint16(),
		CRC:              r.uint32(),
		CompSize:         r.uint32(),
		UncompSize:       r.uint32(),
		FileNameLength:   r.uint16(),
		ExtraFieldLength: r.uint16(),
		CommentLength:    r.uint16(),
		DiskNumberStart:  r.uint16(),
		InternalAttrs:    r.uint16(),
		ExternalAttrs:    r.uint32(),
		HeaderOffset:     r.uint32(),
	}
	if !h.IsGood() {
		return h, nil
	}
	if len(b) < h.Len() {
		return nil, ErrShortBuffer
	}

	rest := readBuf(b[directoryHeaderLen:h.Len()])
	h.FileName = rest.sub(int(h.FileNameLength))
	h.ExtraField = rest.sub(int(h.ExtraFieldLength))
	h.RawComment = rest.sub(int(h.CommentLength))
	return h, nil
}

// IsGood reports whether the header carries the central directory magic.
func (h *DirectoryHeader) IsGood() bool { return h.Signature == directoryHeaderSignature }

// Len is the number of bytes the header occupies, which is also the distance
// to the next header in the directory.
func (h *DirectoryHeader) Len() int {
	return directoryHeaderLen + int(h.FileNameLength) + int(h.ExtraFieldLength) + int(h.CommentLength)
}

// Name returns the decoded file name.
func (h *DirectoryHeader) Name() string { return decodeText(h.FileName, h.IsUTF8()) }

// Comment returns the decoded file comment.
func (h *DirectoryHeader) Comment() string { return decodeText(h.RawComment, h.IsUTF8()) }

// IsUTF8 reports whether general purpose bit 11 marks name and comment as UTF-8.
func (h *DirectoryHeader) IsUTF8() bool { return h.Flags&flagUTF8 != 0 }

// IsDir follows the MS-DOS directory attribute most archivers set in the low
// byte of the external attributes. It is a convention, not a guarantee.
func (h *DirectoryHeader) IsDir() bool { return h.ExternalAttrs&attrDirBit != 0 }

func (h *DirectoryHeader) CompressedSize() uint64 { return uint64(h.CompSize) }
func (h *DirectoryHeader) UncompressedSize() uint64 { return uint64(h.UncompSize) }
func (h *DirectoryHeader) Method() uint16 { return h.CompressionType }
func (h *DirectoryHeader) CRC32() uint32 { return h.CRC }

// LocalHeaderOffset is where the entry's local file header starts.
func (h *DirectoryHeader) LocalHeaderOffset() int64 { return int64(h.HeaderOffset) }

// Timestamp renders the modification time as YYYY-MM-DDTHH:MM:SS.
func (h *DirectoryHeader) Timestamp() string { return FormatDOSTime(h.ModDate, h.ModTime) }

func decodeText(b []byte, utf8 bool) string {
	if utf8 || isASCII(b) {
		return string(b)
	}
	s, err := charmap.CodePage437.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}

type readBuf []byte

func (b *readBuf) uint16() uint16 {
	v := binary.LittleEndian.Uint16(*b)
	*b = (*b)[2:]
	return v
}

func (b *readBuf) uint32() uint32 {
	v := binary.LittleEndian.Uint32(*b)
	*b = (*b)[4:]
	return v
}

func (b *readBuf) sub(n int) readBuf {
	b2 := (*b)[:n:n]
	*b = (*b)[n:]
	return b2
}
