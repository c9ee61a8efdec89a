// Package checkpoint saves and restores renders through a blob store.
package checkpoint

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"lumen/blobstore"
	"lumen/framedb"
)

// FrameDBName is the blob name the accumulation for render name is kept
// under.
func FrameDBName(name string) string {
	return name + ".framedb"
}

func PNGName(name string) string {
	return name + ".png"
}

// Save stores db under name.
func Save(ctx context.Context, store blobstore.Store, name string, db *framedb.DB) error {
	tracer := otel.Tracer("lumen/checkpoint")
	var span trace.Span
	ctx, span = tracer.Start(ctx, "checkpoint.Save")
	defer span.End()

	span.SetAttributes(attribute.String("name", name), attribute.Int64("frames", int64(db.Frames)))

	data, err := db.Marshal()
	if err != nil {
		err := fmt.Errorf("while marshaling frame database: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := store.Put(ctx, FrameDBName(name), data); err != nil {
		err := fmt.Errorf("while storing frame database: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Load restores the frame database saved under name, reporting whether one
// exists.
func Load(ctx context.Context, store blobstore.Store, name string) (*framedb.DB, bool, error) {
	tracer := otel.Tracer("lumen/checkpoint")
	var span trace.Span
	ctx, span = tracer.Start(ctx, "checkpoint.Load")
	defer span.End()

	span.SetAttributes(attribute.String("name", name))

	data, found, err := store.Get(ctx, FrameDBName(name))
	if err != nil {
		err := fmt.Errorf("while fetching frame database: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	if !found {
		span.SetStatus(codes.Ok, "")
		return nil, false, nil
	}

	db, err := framedb.Unmarshal(data)
	if err != nil {
		err := fmt.Errorf("while unmarshaling frame database: %w", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}

	span.SetAttributes(attribute.Int64("frames", int64(db.Frames)))
	span.SetStatus(codes.Ok, "")
	return db, true, nil
}

// SavePNG stores img, PNG encoded, alongside the frame database.
func SavePNG(ctx context.Context, store blobstore.Store, name string, img image.Image) error {
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		return fmt.Errorf("while encoding png: %w", err)
	}
	if err := store.Put(ctx, PNGName(name), buf.Bytes()); err != nil {
		return fmt.Errorf("while storing png: %w", err)
	}
	return nil
}
