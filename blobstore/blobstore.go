// Package blobstore stores named blobs (checkpoints and images) on the local
// disk, in a badger database, or in a GCS bucket.
package blobstore

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Store interface {
	// Get returns the named blob, and whether it exists.
	Get(ctx context.Context, name string) ([]byte, bool, error)

	// Put creates or replaces the named blob.
	Put(ctx context.Context, name string, data []byte) error

	Close() error
}

// Open picks a backend by the form of spec:
//
//	gs://bucket/prefix   GCS objects under prefix
//	badger:/path/to/dir  a badger database
//	/path/to/dir         plain files, creating the directory if needed
func Open(ctx context.Context, spec string) (Store, error) {
	var (
		s       Store
		backend string
		err     error
	)

	switch {
	case strings.HasPrefix(spec, "gs://"):
		backend = "gcs"
		bucket, prefix := splitGCSPath(strings.TrimPrefix(spec, "gs://"))
		if bucket == "" {
			return nil, fmt.Errorf("no bucket in %q", spec)
		}
		s, err = NewGCS(ctx, bucket, prefix)
	case strings.HasPrefix(spec, "badger:"):
		backend = "badger"
		s, err = NewBadger(strings.TrimPrefix(spec, "badger:"))
	default:
		backend = "file"
		s, err = NewFile(spec)
	}
	if err != nil {
		return nil, fmt.Errorf("while opening %s store %q: %w", backend, spec, err)
	}

	return &tracedStore{inner: s, backend: backend}, nil
}

func splitGCSPath(p string) (bucket, prefix string) {
	i := strings.Index(p, "/")
	if i < 0 {
		return p, ""
	}
	prefix = strings.Trim(p[i+1:], "/")
	if prefix != "" {
		prefix += "/"
	}
	return p[:i], prefix
}

// checkName rejects names that could escape the store.
func checkName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("bad blob name %q", name)
	}
	return nil
}

// tracedStore adds a span around every operation.
type tracedStore struct {
	inner   Store
	backend string
}

func (t *tracedStore) Get(ctx context.Context, name string) ([]byte, bool, error) {
	tracer := otel.Tracer("lumen/blobstore")
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Store.Get")
	defer span.End()

	span.SetAttributes(attribute.String("backend", t.backend), attribute.String("name", name))

	data, found, err := t.inner.Get(ctx, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}

	span.SetAttributes(attribute.Bool("found", found), attribute.Int("bytes", len(data)))
	span.SetStatus(codes.Ok, "")
	return data, found, nil
}

func (t *tracedStore) Put(ctx context.Context, name string, data []byte) error {
	tracer := otel.Tracer("lumen/blobstore")
	var span trace.Span
	ctx, span = tracer.Start(ctx, "Store.Put")
	defer span.End()

	span.SetAttributes(attribute.String("backend", t.backend), attribute.String("name", name), attribute.Int("bytes", len(data)))

	if err := t.inner.Put(ctx, name, data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (t *tracedStore) Close() error {
	return t.inner.Close()
}
