package reader

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat indicates the file's format not conforming to zip specification
	ErrFormat = errors.New("zip: not a valid zip file")
	// ErrShortBuffer indicates a decoder was handed fewer bytes than the record needs
	ErrShortBuffer = errors.New("zip: buffer too short for record")
)

const (
	directoryEndLen    = 22
	directoryHeaderLen = 46

	directoryEndSignature    = 0x06054b50
	directoryHeaderSignature = 0x02014b50

	// MaxCommentLen is the largest comment a 16-bit length field can describe.
	MaxCommentLen = 0xffff

	flagUTF8   = 0x800
	attrDirBit = 0x20
	msdosEpoch = 1980
)

// FormatError reports where in the file a zip structure failed to parse.
type FormatError struct {
	// Offset is the absolute file offset of the failing structure.
	Offset int64
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("zip: %s (offset: %d)", e.Reason, e.Offset)
}

// Is makes errors.Is(err, ErrFormat) hold for every FormatError.
func (e *FormatError) Is(target error) bool { return target == ErrFormat }

func formatErrorf(offset int64, format string, args ...interface{}) error {
	return &FormatError{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}

// DirectoryEnd describes an EOCD record
type DirectoryEnd struct {
	Signature       uint32
	DiskNumber      uint16
	StartDiskNumber uint16
	EntriesOnDisk   uint16
	EntriesTotal    uint16
	DirectorySize   uint32
	DirectoryOffset uint32 // relative to file
	CommentLength   uint16

	// offset is where the record was found; scannedCommentLen is the number of
	// bytes between the end of the record and the end of the file.
	offset            int64
	scannedCommentLen int
	comment           []byte
}

// DirectoryHeader describes one central directory file header.
// See the zip spec for details.
type DirectoryHeader struct {
	Signature        uint32
	VersionMadeBy    uint16
	VersionNeeded    uint16
	Flags            uint16
	CompressionType  uint16
	ModTime          uint16
	ModDate          uint16
	CRC              uint32 // read, never verified
	CompSize         uint32
	UncompSize       uint32
	FileNameLength   uint16
	ExtraFieldLength uint16
	CommentLength    uint16
	DiskNumberStart  uint16
	InternalAttrs    uint16
	ExternalAttrs    uint32
	HeaderOffset     uint32

	FileName   []byte
	ExtraField []byte
	RawComment []byte
}
