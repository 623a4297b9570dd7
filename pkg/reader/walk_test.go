package reader

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var walkEntries = []testEntry{
	{name: "a.txt", uncomp: 12, comp: 10},
	{name: "docs/", extAttrs: 0x20},
	{name: "docs/readme.md", extra: []byte{1, 2, 3, 4}, comment: "read me first", uncomp: 1 << 20},
	{name: "z.bin", modDate: 0x0021},
}

func TestReadDirectory(t *testing.T) {
	b, dirOffset := buildZip([]byte("pretend local headers and data"), walkEntries, nil)
	d, err := FindDirectoryEnd(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)
	require.Equal(t, uint32(dirOffset), d.DirectoryOffset)

	headers, err := ReadDirectory(bytes.NewReader(b), int64(d.DirectoryOffset), int64(d.DirectorySize))
	require.NoError(t, err)
	require.Len(t, headers, len(walkEntries))

	consumed := 0
	for i, h := range headers {
		e := walkEntries[i]
		assert.Equal(t, e.name, h.Name())
		assert.Equal(t, e.comment, h.Comment())
		assert.Equal(t, uint64(e.uncomp), h.UncompressedSize())
		assert.Equal(t, uint64(e.comp), h.CompressedSize())
		consumed += h.Len()
	}
	assert.Equal(t, int(d.DirectorySize), consumed)

	assert.False(t, headers[0].IsDir())
	assert.True(t, headers[1].IsDir())
	assert.Equal(t, "1980-01-01T00:00:00", headers[3].Timestamp())
}

func TestReadDirectory_Empty(t *testing.T) {
	b, _ := buildZip(nil, nil, nil)

	headers, err := ReadDirectory(bytes.NewReader(b), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, headers)
}

func TestReadDirectory_BadSignature(t *testing.T) {
	body := []byte("0123456789")
	b, dirOffset := buildZip(body, walkEntries, nil)
	d, err := FindDirectoryEnd(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)

	// corrupt the third header.
	third := dirOffset + len(walkEntries[0].bytes()) + len(walkEntries[1].bytes())
	b[third+2] = 0xff

	headers, err := ReadDirectory(bytes.NewReader(b), int64(d.DirectoryOffset), int64(d.DirectorySize))
	assert.Nil(t, headers)
	require.ErrorIs(t, err, ErrFormat)

	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, int64(third), fe.Offset)
	assert.Contains(t, fe.Error(), "signature mismatch")
}

func TestReadDirectory_LengthOverrunsDirectory(t *testing.T) {
	b, dirOffset := buildZip(nil, walkEntries[:2], nil)
	d, err := FindDirectoryEnd(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)

	// the second header claims a comment that would run into the end record.
	second := dirOffset + len(walkEntries[0].bytes())
	binary.LittleEndian.PutUint16(b[second+32:], 500)

	_, err = ReadDirectory(bytes.NewReader(b), int64(d.DirectoryOffset), int64(d.DirectorySize))
	require.ErrorIs(t, err, ErrFormat)

	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, int64(second), fe.Offset)
}

func TestReadDirectory_TrailingGarbage(t *testing.T) {
	b, dirOffset := buildZip(nil, walkEntries[:1], nil)
	size := len(walkEntries[0].bytes())

	// a directory size that leaves a few stray bytes after the last header.
	_, err := ReadDirectory(bytes.NewReader(b), int64(dirOffset), int64(size+10))
	require.ErrorIs(t, err, ErrFormat)

	var fe *FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, int64(dirOffset+size), fe.Offset)
}

func TestReadDirectory_ArchiveZip(t *testing.T) {
	modified := time.Date(2020, time.February, 29, 18, 0, 4, 0, time.UTC)
	files := []struct {
		name, comment, data string
	}{
		{name: "hello.txt", comment: "greeting", data: "hello, world"},
		{name: "nested/path/data.csv", data: "a,b,c\n1,2,3\n"},
		{name: "empty", comment: "nothing here"},
	}

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, f := range files {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: f.name, Comment: f.comment, Method: zip.Deflate, Modified: modified})
		require.NoError(t, err)
		_, err = w.Write([]byte(f.data))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	b := buf.Bytes()
	d, err := FindDirectoryEnd(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)
	headers, err := ReadDirectory(bytes.NewReader(b), int64(d.DirectoryOffset), int64(d.DirectorySize))
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)
	require.Len(t, headers, len(zr.File))

	for i, f := range zr.File {
		h := headers[i]
		assert.Equal(t, f.Name, h.Name())
		assert.Equal(t, f.Comment, h.Comment())
		assert.Equal(t, f.UncompressedSize64, h.UncompressedSize())
		assert.Equal(t, f.CompressedSize64, h.CompressedSize())
		assert.Equal(t, f.CRC32, h.CRC32())
		assert.Equal(t, f.Method, h.Method())
		assert.Equal(t, "2020-02-29T18:00:04", h.Timestamp())
		assert.NotEmpty(t, h.ExtraField, "archive/zip records the modification time in an extra field")
	}
}
