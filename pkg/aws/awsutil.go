package aws

import (
	"context"
	"fmt"
	"strings"

	sdkaws "github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	log "github.com/sirupsen/logrus"
)

// Client is an abstraction layer for interacting with AWS services.
type Client struct {
	s3 s3iface.S3API
}

// NewClient creates a new AWS client from the shared config and environment.
// Empty region or profile leave the SDK defaults in place.
func NewClient(region, profile string) (*Client, error) {
	opts := session.Options{
		SharedConfigState: session.SharedConfigEnable,
		Profile:           profile,
	}
	if region != "" {
		opts.Config.Region = sdkaws.String(region)
	}
	sess, err := session.NewSessionWithOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}
	return NewClientWithAPI(s3.New(sess)), nil
}

// NewClientWithAPI wraps an existing S3 API implementation.
func NewClientWithAPI(api s3iface.S3API) *Client {
	return &Client{s3: api}
}

// GetHeadObject returns the object's metadata.
func (c *Client) GetHeadObject(ctx context.Context, bucket, key string) (*s3.HeadObjectOutput, error) {
	output, err := c.s3.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		log.Debugf("error getting S3 head object (bucket: %s)(key: %s), err: %v", bucket, key, err)
		return nil, err
	}
	return output, nil
}

// GetS3ObjectWithRange fetches an HTTP byte range (e.g. "bytes=0-21") of the object.
// The caller closes the returned body.
func (c *Client) GetS3ObjectWithRange(ctx context.Context, bucket, key, byteRange string) (*s3.GetObjectOutput, error) {
	output, err := c.s3.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Range:  &byteRange,
	})
	if err != nil {
		log.Debugf("error getting S3 object (bucket: %s)(key: %s)(range: %s), err: %v", bucket, key, byteRange, err)
		return nil, err
	}
	return output, nil
}

// ParseS3URI splits s3://bucket/key into its parts. Both must be non-empty.
func ParseS3URI(text string) (bucket, key string, err error) {
	if !strings.HasPrefix(text, "s3://") {
		return "", "", fmt.Errorf("%q does not start with s3://", text)
	}
	parts := strings.SplitN(strings.TrimPrefix(text, "s3://"), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%q is not in format s3://bucket/key", text)
	}
	return parts[0], parts[1], nil
}
