package framedb

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"
)

const (
	dataLayoutVersion = 1

	// Headers are a handful of varints and a scene name.
	maxHeaderLength = 1 << 16

	// 16k x 16k.
	maxPixels = 1 << 28
)

// Header field numbers.
const (
	fieldRows          protowire.Number = 1
	fieldCols          protowire.Number = 2
	fieldLayoutVersion protowire.Number = 3
	fieldFrames        protowire.Number = 4
	fieldSeed          protowire.Number = 5
	fieldScene         protowire.Number = 6
)

type header struct {
	rows, cols    uint64
	layoutVersion uint64
	frames        uint64
	seed          int64
	scene         string
}

func (h *header) marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldRows, protowire.VarintType)
	b = protowire.AppendVarint(b, h.rows)
	b = protowire.AppendTag(b, fieldCols, protowire.VarintType)
	b = protowire.AppendVarint(b, h.cols)
	b = protowire.AppendTag(b, fieldLayoutVersion, protowire.VarintType)
	b = protowire.AppendVarint(b, h.layoutVersion)
	b = protowire.AppendTag(b, fieldFrames, protowire.VarintType)
	b = protowire.AppendVarint(b, h.frames)
	b = protowire.AppendTag(b, fieldSeed, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeZigZag(h.seed))
	if h.scene != "" {
		b = protowire.AppendTag(b, fieldScene, protowire.BytesType)
		b = protowire.AppendString(b, h.scene)
	}
	return b
}

func (h *header) unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("while reading field tag: %w", protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldScene && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return fmt.Errorf("while reading scene name: %w", protowire.ParseError(n))
			}
			h.scene = v
			b = b[n:]
			continue
		case typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return fmt.Errorf("while reading field %d: %w", num, protowire.ParseError(n))
			}
			switch num {
			case fieldRows:
				h.rows = v
			case fieldCols:
				h.cols = v
			case fieldLayoutVersion:
				h.layoutVersion = v
			case fieldFrames:
				h.frames = v
			case fieldSeed:
				h.seed = protowire.DecodeZigZag(v)
			}
			b = b[n:]
			continue
		}

		// Unknown field.
		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return fmt.Errorf("while skipping field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return nil
}

// Write serializes db: an 8-byte little-endian header length, the header,
// then the zlib-compressed sums and counts.
func (db *DB) Write(w io.Writer) error {
	hdr := &header{
		rows:          uint64(db.Rows),
		cols:          uint64(db.Cols),
		layoutVersion: dataLayoutVersion,
		frames:        db.Frames,
		seed:          db.Seed,
		scene:         db.Scene,
	}
	hdrBytes := hdr.marshal()

	headerLengthBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(headerLengthBytes, uint64(len(hdrBytes)))
	if _, err := w.Write(headerLengthBytes); err != nil {
		return fmt.Errorf("while writing header length: %w", err)
	}

	if _, err := w.Write(hdrBytes); err != nil {
		return fmt.Errorf("while writing header: %w", err)
	}

	zipWriter := zlib.NewWriter(w)

	if err := binary.Write(zipWriter, binary.LittleEndian, db.Sums); err != nil {
		return fmt.Errorf("while writing sums: %w", err)
	}

	if err := binary.Write(zipWriter, binary.LittleEndian, db.Counts); err != nil {
		return fmt.Errorf("while writing counts: %w", err)
	}

	if err := zipWriter.Close(); err != nil {
		return fmt.Errorf("while closing zip writer: %w", err)
	}

	return nil
}

// Read is the inverse of Write.
func Read(in io.Reader) (*DB, error) {
	var headerLength uint64
	if err := binary.Read(in, binary.LittleEndian, &headerLength); err != nil {
		return nil, fmt.Errorf("while reading header length: %w", err)
	}
	if headerLength > maxHeaderLength {
		return nil, fmt.Errorf("header length %d is too large", headerLength)
	}

	headerBytes := make([]byte, int(headerLength))
	if _, err := io.ReadFull(in, headerBytes); err != nil {
		return nil, fmt.Errorf("while reading header bytes: %w", err)
	}

	hdr := &header{}
	if err := hdr.unmarshal(headerBytes); err != nil {
		return nil, fmt.Errorf("while unmarshaling header: %w", err)
	}

	if hdr.layoutVersion != dataLayoutVersion {
		return nil, fmt.Errorf("bad data layout version: %v", hdr.layoutVersion)
	}
	if hdr.rows == 0 || hdr.cols == 0 || hdr.rows > maxPixels || hdr.cols > maxPixels || hdr.rows*hdr.cols > maxPixels {
		return nil, fmt.Errorf("bad dimensions %dx%d", hdr.rows, hdr.cols)
	}

	db := New(int(hdr.rows), int(hdr.cols))
	db.Frames = hdr.frames
	db.Seed = hdr.seed
	db.Scene = hdr.scene

	zipReader, err := zlib.NewReader(in)
	if err != nil {
		return nil, fmt.Errorf("while opening zip reader: %w", err)
	}
	defer zipReader.Close()

	if err := binary.Read(zipReader, binary.LittleEndian, db.Sums); err != nil {
		return nil, fmt.Errorf("while reading sums: %w", err)
	}

	if err := binary.Read(zipReader, binary.LittleEndian, db.Counts); err != nil {
		return nil, fmt.Errorf("while reading counts: %w", err)
	}

	// The adler32 trailer is only checked once the stream hits EOF.
	extra, err := io.Copy(io.Discard, zipReader)
	if err != nil {
		return nil, fmt.Errorf("while finishing zip stream: %w", err)
	}
	if extra != 0 {
		return nil, fmt.Errorf("%d unexpected bytes after pixel data", extra)
	}

	return db, nil
}

func (db *DB) Marshal() ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := db.Write(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Unmarshal(b []byte) (*DB, error) {
	return Read(bytes.NewReader(b))
}
