package reader

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// ReadDirectory reads exactly size bytes at offset and decodes them as
// back-to-back central directory file headers, in on-disk order.
//
// Every header must carry the directory magic and fit inside the region.
// Failures are FormatErrors carrying the absolute offset of the bad header.
func ReadDirectory(r io.ReadSeeker, offset, size int64) ([]*DirectoryHeader, error) {
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	headers := make([]*DirectoryHeader, 0)
	for pos := 0; pos < len(buf); {
		h, err := DecodeDirectoryHeader(buf[pos:])
		if err != nil {
			return nil, formatErrorf(offset+int64(pos), "central directory header runs past the directory end (%d bytes left)", len(buf)-pos)
		}
		if !h.IsGood() {
			return nil, formatErrorf(offset+int64(pos), "central directory header signature mismatch, got 0x%08x", h.Signature)
		}
		headers = append(headers, h)
		pos += h.Len()
	}

	log.WithFields(log.Fields{
		"offset":  offset,
		"size":    size,
		"entries": len(headers),
	}).Debug("read central directory")
	return headers, nil
}
