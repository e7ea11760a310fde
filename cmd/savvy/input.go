package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mhermher/savvy/compress"
	"github.com/mhermher/savvy/config"
	"github.com/mhermher/savvy/errs"
	"github.com/mhermher/savvy/feeder"
	"github.com/mhermher/savvy/format"
)

// source is an opened input.
type source interface {
	feeder.Feeder
	Close() error
}

// blobSource is a paged S3 object; it holds no handle.
type blobSource struct {
	*feeder.BlobFeeder
}

func (blobSource) Close() error { return nil }

// opener resolves input arguments to feeders. The S3 client is created on
// first use and shared by every worker.
type opener struct {
	pageSize int
	client   func() (feeder.S3API, error)
}

func newOpener(ctx context.Context, cfg *config.Config) *opener {
	return &opener{
		pageSize: cfg.Reader.PageSize,
		client: sync.OnceValues(func() (feeder.S3API, error) {
			return feeder.NewS3Client(ctx, feeder.S3Config{
				Region:       cfg.S3.Region,
				Endpoint:     cfg.S3.Endpoint,
				UsePathStyle: cfg.S3.UsePathStyle,
			})
		}),
	}
}

func (o *opener) open(ctx context.Context, input string) (source, error) {
	bucket, key, ok, err := parseS3URI(input)
	if err != nil {
		return nil, err
	}
	if !ok {
		return compress.Open(input)
	}

	client, err := o.client()
	if err != nil {
		return nil, err
	}

	src, err := feeder.NewS3Source(ctx, client, bucket, key)
	if err != nil {
		return nil, err
	}

	prefix := make([]byte, min(int64(compress.SniffSize), src.Size()))
	if _, err := src.ReadAt(ctx, prefix, 0); err != nil {
		return nil, err
	}

	t, ok := compress.Sniff(prefix)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedContainer, input)
	}

	// Wrapped objects are streamed whole; plain ones are read page by page.
	if t != format.ContainerNone {
		return compress.OpenReader(feeder.NewSourceReader(ctx, src))
	}

	blob, err := feeder.NewBlobFeeder(ctx, src, feeder.WithPageSize(o.pageSize))
	if err != nil {
		return nil, err
	}

	return blobSource{blob}, nil
}

// parseS3URI splits s3://bucket/key. ok is false for anything else.
func parseS3URI(uri string) (bucket, key string, ok bool, err error) {
	rest, found := strings.CutPrefix(uri, "s3://")
	if !found {
		return "", "", false, nil
	}

	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", false, errors.New("invalid S3 URI, want s3://bucket/key: " + uri)
	}

	return bucket, key, true, nil
}
