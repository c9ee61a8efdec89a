package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	googleopt "google.golang.org/api/option"
)

// GCSStore keeps blobs as objects under a prefix in a GCS bucket.
type GCSStore struct {
	gcs    *storage.Client
	bucket string
	prefix string
}

func NewGCS(ctx context.Context, bucket, prefix string) (*GCSStore, error) {
	gcs, err := storage.NewClient(ctx, googleopt.WithGRPCConnectionPool(1))
	if err != nil {
		return nil, fmt.Errorf("while creating GCS client: %w", err)
	}
	return &GCSStore{
		gcs:    gcs,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

func (s *GCSStore) object(name string) *storage.ObjectHandle {
	return s.gcs.Bucket(s.bucket).Object(s.prefix + name)
}

func (s *GCSStore) Get(ctx context.Context, name string) ([]byte, bool, error) {
	if err := checkName(name); err != nil {
		return nil, false, err
	}

	r, err := s.object(name).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("while opening reader for object: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, false, fmt.Errorf("while reading from object: %w", err)
	}
	return data, true, nil
}

func (s *GCSStore) Put(ctx context.Context, name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}

	w := s.object(name).NewWriter(ctx)
	w.ChunkSize = 0
	w.ContentType = contentType(name)

	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("while writing object: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("while closing object writer: %w", err)
	}
	return nil
}

func (s *GCSStore) Close() error {
	return s.gcs.Close()
}

func contentType(name string) string {
	if strings.HasSuffix(name, ".png") {
		return "image/png"
	}
	return "application/octet-stream"
}
