// Package decode wraps input streams with optional decompression so that
// the digest covers the uncompressed payload.
package decode

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Format selects how an input stream is decoded before hashing.
type Format uint8

const (
	// None hashes the raw bytes.
	None Format = iota
	// Auto sniffs the stream's magic number and falls back to None.
	Auto
	// Gzip decodes an RFC 1952 stream.
	Gzip
	// Zstd decodes a Zstandard frame stream.
	Zstd
	// LZ4 decodes an LZ4 frame stream.
	LZ4
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// String returns the configuration name of a format.
func (f Format) String() string {
	switch f {
	case None:
		return "none"
	case Auto:
		return "auto"
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", f)
	}
}

// ParseFormat parses a format from its configuration name. The empty
// string means None.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "", "none":
		return None, nil
	case "auto":
		return Auto, nil
	case "gzip", "gz":
		return Gzip, nil
	case "zstd", "zst":
		return Zstd, nil
	case "lz4":
		return LZ4, nil
	default:
		return None, fmt.Errorf("unknown decompression format: %q", name)
	}
}

// Detect reports the format whose magic number prefixes header, or None.
func Detect(header []byte) Format {
	switch {
	case bytes.HasPrefix(header, zstdMagic):
		return Zstd
	case bytes.HasPrefix(header, lz4Magic):
		return LZ4
	case bytes.HasPrefix(header, gzipMagic):
		return Gzip
	default:
		return None
	}
}

// NewReader returns a reader yielding the decoded content of r. Closing
// the returned reader releases decoder resources but does not close r.
func NewReader(r io.Reader, format Format) (io.ReadCloser, error) {
	if format == Auto {
		buffered := bufio.NewReader(r)
		header, err := buffered.Peek(len(zstdMagic))
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("sniffing input format: %w", err)
		}
		format = Detect(header)
		r = buffered
	}

	switch format {
	case None:
		return io.NopCloser(r), nil

	case Gzip:
		reader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return reader, nil

	case Zstd:
		decoder, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return decoder.IOReadCloser(), nil

	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil

	default:
		return nil, fmt.Errorf("unsupported decompression format: %s", format)
	}
}
