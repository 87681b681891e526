// Package manifest reads and writes checksum lists: the sha256sum text
// format and a CBOR encoding of the same entries.
package manifest

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	apperrors "filesum/internal/errors"
	"filesum/internal/hash"
)

// Format selects a manifest encoding.
type Format uint8

const (
	// Text is the sha256sum-compatible line format.
	Text Format = iota
	// CBOR is a deterministic CBOR document.
	CBOR
)

// String returns the configuration name of a format.
func (f Format) String() string {
	switch f {
	case Text:
		return "text"
	case CBOR:
		return "cbor"
	default:
		return fmt.Sprintf("unknown(%d)", f)
	}
}

// ParseFormat parses a format name. The empty string means Text.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "", "text":
		return Text, nil
	case "cbor":
		return CBOR, nil
	default:
		return Text, fmt.Errorf("unknown manifest format: %q", name)
	}
}

// FormatForPath guesses the format from a file extension.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".cbor") {
		return CBOR
	}
	return Text
}

// Entry records the expected digest of one file.
type Entry struct {
	Digest hash.Digest `cbor:"digest"`
	Name   string      `cbor:"name"`
	// Binary marks entries written with sha256sum's '*' mode flag.
	Binary bool `cbor:"binary,omitempty"`
}

// Read decodes all entries from r.
func Read(r io.Reader, format Format) ([]Entry, error) {
	switch format {
	case Text:
		return parseText(r)
	case CBOR:
		return decodeCBOR(r)
	default:
		return nil, fmt.Errorf("reading manifest: unsupported format %s: %w", format, apperrors.ErrManifest)
	}
}

// Write encodes entries to w.
func Write(w io.Writer, entries []Entry, format Format) error {
	switch format {
	case Text:
		for _, entry := range entries {
			if _, err := io.WriteString(w, FormatLine(entry)+"\n"); err != nil {
				return fmt.Errorf("write manifest line: %w", err)
			}
		}
		return nil
	case CBOR:
		return encodeCBOR(w, entries)
	default:
		return fmt.Errorf("writing manifest: unsupported format %s", format)
	}
}
