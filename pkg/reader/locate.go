package reader

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// FindDirectoryEnd locates the EOCD record of a zip file of the given size.
//
// The record is the last fixed-size structure in the file and is followed only
// by its comment, whose length is unknown until the record is found. The
// search assumes a comment length of 0, then 1, and so on, decoding 22 bytes
// at size-22-n each time, and accepts the first candidate carrying the EOCD
// magic. It gives up once n has covered MaxCommentLen or the candidate reaches
// the start of the file.
//
// A comment that happens to contain the magic closer to the end than the real
// record wins the search. The zip format offers no way to tell the two apart.
func FindDirectoryEnd(r io.ReadSeeker, size int64) (*DirectoryEnd, error) {
	if size < directoryEndLen {
		return nil, formatErrorf(0, "file too small to hold an end of central directory record (%d bytes)", size)
	}

	var buf [directoryEndLen]byte
	for commentLen := 0; ; commentLen++ {
		offset := size - int64(directoryEndLen+commentLen)
		if _, err := r.Seek(offset, io.SeekStart); err != nil {
			return nil, err
		}
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}

		d, err := DecodeDirectoryEnd(buf[:])
		if err != nil {
			return nil, err
		}
		if d.IsGood() {
			d.offset = offset
			d.scannedCommentLen = commentLen
			d.comment = make([]byte, commentLen)
			if _, err := io.ReadFull(r, d.comment); err != nil {
				return nil, err
			}
			log.WithFields(log.Fields{
				"offset":      offset,
				"commentLen":  commentLen,
				"entries":     d.EntriesTotal,
				"directoryAt": d.DirectoryOffset,
			}).Debug("found end of central directory")
			return d, nil
		}

		if commentLen == MaxCommentLen || offset == 0 {
			return nil, formatErrorf(offset, "end of central directory signature not found after %d candidates", commentLen+1)
		}
	}
}

// CheckCommentLength reports a FormatError when the record's own comment
// length disagrees with the number of bytes found after it.
func (d *DirectoryEnd) CheckCommentLength() error {
	if int(d.CommentLength) != d.scannedCommentLen {
		return formatErrorf(d.offset, "comment length field is %d but %d bytes follow the record", d.CommentLength, d.scannedCommentLen)
	}
	return nil
}

// CheckBounds reports a FormatError when the central directory described by
// the record does not end at or before the record itself.
func (d *DirectoryEnd) CheckBounds() error {
	if end := int64(d.DirectoryOffset) + int64(d.DirectorySize); end > d.offset {
		return formatErrorf(d.offset, "central directory [%d, %d) runs past the end record", d.DirectoryOffset, end)
	}
	return nil
}
