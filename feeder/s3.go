package feeder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/mhermher/savvy/errs"
)

// S3API is the subset of the S3 client used by S3Source.
type S3API interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var _ S3API = (*s3.Client)(nil)

// S3Config holds configuration for the S3 client.
type S3Config struct {
	// Region is the AWS region of the bucket.
	Region string
	// Endpoint is an optional custom endpoint (MinIO, LocalStack, ...).
	Endpoint string
	// UsePathStyle enables path-style addressing (required for MinIO).
	UsePathStyle bool
}

// NewS3Client builds an S3 client from the default AWS credential chain.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	return s3.NewFromConfig(awsCfg, s3Opts...), nil
}

// S3Source serves an S3 object as a PageSource using ranged GetObject
// requests.
type S3Source struct {
	client     S3API
	bucket     string
	key        string
	size       int64
	maxRetries int
	backoff    time.Duration
}

var _ PageSource = (*S3Source)(nil)

// NewS3Source resolves the object size with HeadObject.
func NewS3Source(ctx context.Context, client S3API, bucket, key string) (*S3Source, error) {
	s := &S3Source{
		client:     client,
		bucket:     bucket,
		key:        key,
		maxRetries: 3,
		backoff:    100 * time.Millisecond,
	}

	err := s.retryWithBackoff(ctx, func() error {
		out, err := client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return translateS3Error(err)
		}
		s.size = aws.ToInt64(out.ContentLength)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("head s3://%s/%s: %w", bucket, key, err)
	}

	return s, nil
}

func (s *S3Source) Size() int64 {
	return s.size
}

func (s *S3Source) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if off < 0 || off >= s.size {
		return 0, io.EOF
	}

	end := off + int64(len(p)) - 1
	if end >= s.size {
		end = s.size - 1
	}
	want := int(end - off + 1)

	var n int
	err := s.retryWithBackoff(ctx, func() error {
		out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s.key),
			Range:  aws.String(byteRange(off, end)),
		})
		if err != nil {
			return translateS3Error(err)
		}
		defer out.Body.Close()

		n, err = io.ReadFull(out.Body, p[:want])

		return err
	})
	if err != nil {
		return n, fmt.Errorf("get s3://%s/%s %s: %w", s.bucket, s.key, byteRange(off, end), err)
	}
	if want < len(p) {
		return n, io.EOF
	}

	return n, nil
}

func byteRange(first, last int64) string {
	return fmt.Sprintf("bytes=%d-%d", first, last)
}

func translateS3Error(err error) error {
	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return fmt.Errorf("%w: %v", errs.ErrObjectNotFound, err)
	}

	return err
}

// retryWithBackoff executes the operation with exponential backoff retry.
func (s *S3Source) retryWithBackoff(ctx context.Context, operation func() error) error {
	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = operation()
		if lastErr == nil {
			return nil
		}

		if errors.Is(lastErr, errs.ErrObjectNotFound) {
			return lastErr
		}

		if attempt < s.maxRetries {
			backoff := time.Duration(math.Pow(2, float64(attempt))) * s.backoff
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return lastErr
}
