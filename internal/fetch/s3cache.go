package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/nelusnegur/mprobe-go/pkg/log"
)

// ArchiveCache stores and retrieves raw downloaded job archives by job
// id, so a re-run against the same job skips the network round trip.
type ArchiveCache interface {
	Get(ctx context.Context, jobID string) (io.ReadCloser, error)
	Put(ctx context.Context, jobID string, body io.Reader) error
}

// S3Cache is an ArchiveCache backed by an S3 bucket.
type S3Cache struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Cache builds an S3Cache from the default AWS credential chain
// (environment, shared config, or container/instance role).
func NewS3Cache(ctx context.Context, bucket, prefix string) (*S3Cache, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch: load AWS config: %w", err)
	}
	return &S3Cache{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: prefix,
	}, nil
}

func (c *S3Cache) key(jobID string) string {
	if c.prefix == "" {
		return jobID + ".tar.gz"
	}
	return c.prefix + "/" + jobID + ".tar.gz"
}

// Get returns the cached archive for jobID, or an error satisfying
// errors.Is(err, ErrCacheMiss) if nothing was stored for it yet.
func (c *S3Cache) Get(ctx context.Context, jobID string) (io.ReadCloser, error) {
	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.key(jobID)),
	})
	if err != nil {
		var notFound *smithyhttp.ResponseError
		if errors.As(err, &notFound) && notFound.HTTPStatusCode() == 404 {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("fetch: get s3://%s/%s: %w", c.bucket, c.key(jobID), err)
	}
	return out.Body, nil
}

// Put uploads body as the cached archive for jobID.
func (c *S3Cache) Put(ctx context.Context, jobID string, body io.Reader) error {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(c.key(jobID)),
		Body:        body,
		ContentType: aws.String("application/gzip"),
	})
	if err != nil {
		return fmt.Errorf("fetch: put s3://%s/%s: %w", c.bucket, c.key(jobID), err)
	}
	log.Debugf("fetch: cached job %s to s3://%s/%s", jobID, c.bucket, c.key(jobID))
	return nil
}

// ErrCacheMiss is returned by ArchiveCache.Get when no archive is cached
// for the requested job id.
var ErrCacheMiss = errors.New("fetch: no cached archive for job")
