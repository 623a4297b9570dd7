package aws

import (
	"context"
	"errors"
	"fmt"
	"io"

	sdkaws "github.com/aws/aws-sdk-go/aws"
	log "github.com/sirupsen/logrus"
)

// DefaultBlockSize is how many bytes ObjectReader fetches per ranged GET.
const DefaultBlockSize = 64 * 1024

var errNegativeOffset = errors.New("aws: seek to negative offset")

// ObjectReader implements io.ReadSeeker over an S3 object with ranged GETs.
//
// Reads are served from one cached, block-aligned window, so the many small
// reads of a backward signature scan cost one request per block rather than
// one per read.
type ObjectReader struct {
	c           *Client
	ctx         context.Context
	bucket, key string
	size, off   int64
	blockSize   int64

	block      []byte
	blockStart int64
}

// NewObjectReader sizes the object with a HEAD request. A blockSize of 0 or
// less selects DefaultBlockSize.
func (c *Client) NewObjectReader(ctx context.Context, bucket, key string, blockSize int64) (*ObjectReader, error) {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	head, err := c.GetHeadObject(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("determine size of s3://%s/%s: %w", bucket, key, err)
	}
	return &ObjectReader{
		c:         c,
		ctx:       ctx,
		bucket:    bucket,
		key:       key,
		size:      sdkaws.Int64Value(head.ContentLength),
		blockSize: blockSize,
	}, nil
}

// Size is the object size reported by the initial HEAD request.
func (r *ObjectReader) Size() int64 { return r.size }

func (r *ObjectReader) Read(p []byte) (n int, err error) {
	if r.off >= r.size {
		return 0, io.EOF
	}
	for n < len(p) && r.off < r.size {
		if r.block == nil || r.off < r.blockStart || r.off >= r.blockStart+int64(len(r.block)) {
			if err = r.fetch(r.off); err != nil {
				return n, err
			}
		}
		m := copy(p[n:], r.block[r.off-r.blockStart:])
		n += m
		r.off += int64(m)
	}
	return n, nil
}

func (r *ObjectReader) fetch(off int64) error {
	start := off - off%r.blockSize
	end := start + r.blockSize
	if end > r.size {
		end = r.size
	}
	byteRange := fmt.Sprintf("bytes=%d-%d", start, end-1)
	out, err := r.c.GetS3ObjectWithRange(r.ctx, r.bucket, r.key, byteRange)
	if err != nil {
		return err
	}
	defer out.Body.Close()

	block := make([]byte, end-start)
	if _, err := io.ReadFull(out.Body, block); err != nil {
		return fmt.Errorf("read s3://%s/%s %s: %w", r.bucket, r.key, byteRange, err)
	}
	log.WithFields(log.Fields{
		"bucket": r.bucket,
		"key":    r.key,
		"range":  byteRange,
	}).Debug("fetched object block")
	r.block, r.blockStart = block, start
	return nil
}

// Seek sets the offset for the next Read. Seeking past the end is allowed and
// makes the next Read return io.EOF.
func (r *ObjectReader) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = r.off + offset
	case io.SeekEnd:
		abs = r.size + offset
	default:
		return r.off, fmt.Errorf("aws: invalid whence %d", whence)
	}
	if abs < 0 {
		return r.off, errNegativeOffset
	}
	r.off = abs
	return abs, nil
}
