package dataset

import (
	"context"
	"fmt"
	"io"
)

// ObjectOpener streams an object out of a bucket.
type ObjectOpener interface {
	Name() string
	Open(ctx context.Context, object string) (io.ReadCloser, error)
}

// GCSSource reads the flat marketplace export from a Cloud Storage object.
type GCSSource struct {
	bucket ObjectOpener
	object string
}

func NewGCSSource(bucket ObjectOpener, object string) *GCSSource {
	return &GCSSource{bucket: bucket, object: object}
}

func (s *GCSSource) Name() string {
	return "gcs"
}

func (s *GCSSource) Load(ctx context.Context, policy CustomerKeyPolicy) (*Batch, error) {
	body, err := s.bucket.Open(ctx, s.object)
	if err != nil {
		return nil, fmt.Errorf("open gs://%s/%s: %w", s.bucket.Name(), s.object, err)
	}
	defer body.Close()

	return ReadCSV(ctx, body, policy)
}
