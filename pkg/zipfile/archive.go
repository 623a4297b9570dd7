package zipfile

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/alec-rabold/zipbuddy/pkg/aws"
	"github.com/alec-rabold/zipbuddy/pkg/reader"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	log "github.com/sirupsen/logrus"
)

// Archive holds the parsed metadata of one zip file and the source it was
// read from. It is not safe for concurrent use.
type Archive struct {
	r       io.ReadSeeker
	closer  io.Closer
	size    int64
	end     *reader.DirectoryEnd
	entries []*reader.DirectoryHeader
}

// Options customises how an archive is opened.
type Options struct {
	// Strict rejects archives whose EOCD comment length field disagrees with
	// the number of bytes actually following the record.
	Strict bool

	// AWSRegion and AWSProfile configure the S3 client used for s3:// locations.
	AWSRegion  string
	AWSProfile string
	// S3API replaces the S3 client built from AWSRegion and AWSProfile.
	S3API s3iface.S3API
	// BlockSize is the ranged GET size for s3:// locations.
	BlockSize int64
}

// Open opens the named local file and parses its central directory.
// The returned Archive owns the file; release it with Close.
func Open(name string, optFns ...func(*Options)) (*Archive, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	a, err := NewArchive(f, fi.Size(), optFns...)
	if err != nil {
		f.Close()
		return nil, err
	}
	a.closer = f
	return a, nil
}

// OpenLocation opens either a local path or an s3://bucket/key URI.
func OpenLocation(ctx context.Context, location string, optFns ...func(*Options)) (*Archive, error) {
	if !strings.HasPrefix(location, "s3://") {
		return Open(location, optFns...)
	}

	opts := newOptions(optFns)
	bucket, key, err := aws.ParseS3URI(location)
	if err != nil {
		return nil, err
	}
	var client *aws.Client
	if opts.S3API != nil {
		client = aws.NewClientWithAPI(opts.S3API)
	} else if client, err = aws.NewClient(opts.AWSRegion, opts.AWSProfile); err != nil {
		return nil, err
	}
	obj, err := client.NewObjectReader(ctx, bucket, key, opts.BlockSize)
	if err != nil {
		return nil, err
	}
	return NewArchive(obj, obj.Size(), optFns...)
}

// NewArchive parses the central directory of the zip data in r, which is
// size bytes long. Nothing is returned unless both the end record and every
// directory entry parse.
func NewArchive(r io.ReadSeeker, size int64, optFns ...func(*Options)) (*Archive, error) {
	opts := newOptions(optFns)

	end, err := reader.FindDirectoryEnd(r, size)
	if err != nil {
		return nil, err
	}
	if opts.Strict {
		if err = end.CheckCommentLength(); err != nil {
			return nil, err
		}
	}
	if err = end.CheckBounds(); err != nil {
		return nil, err
	}

	entries, err := reader.ReadDirectory(r, int64(end.DirectoryOffset), int64(end.DirectorySize))
	if err != nil {
		return nil, err
	}
	if len(entries) != int(end.EntriesTotal) {
		log.Warnf("end record counts %d entries but the directory holds %d", end.EntriesTotal, len(entries))
	}

	return &Archive{
		r:       r,
		size:    size,
		end:     end,
		entries: entries,
	}, nil
}

func newOptions(optFns []func(*Options)) *Options {
	opts := &Options{BlockSize: aws.DefaultBlockSize}
	for _, fn := range optFns {
		fn(opts)
	}
	return opts
}

// DirectoryEnd returns the located EOCD record. Callers must not modify it.
func (a *Archive) DirectoryEnd() *reader.DirectoryEnd { return a.end }

// Entries returns the central directory entries in on-disk order.
func (a *Archive) Entries() []*reader.DirectoryHeader {
	entries := make([]*reader.DirectoryHeader, len(a.entries))
	copy(entries, a.entries)
	return entries
}

// Size is the total size of the zip data in bytes.
func (a *Archive) Size() int64 { return a.size }

// RawReader rewinds the underlying source to offset 0 and returns it.
func (a *Archive) RawReader() (io.ReadSeeker, error) {
	if _, err := a.r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return a.r, nil
}

// Close releases the underlying file, if the archive owns one.
func (a *Archive) Close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}
