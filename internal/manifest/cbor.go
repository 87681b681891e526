package manifest

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	apperrors "filesum/internal/errors"
)

const documentVersion = 1

type document struct {
	Version   int     `cbor:"version"`
	Algorithm string  `cbor:"algorithm"`
	Entries   []Entry `cbor:"entries"`
}

// Digests encode as hex text strings so CBOR manifests stay greppable in
// diagnostic dumps.
var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("manifest: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("manifest: CBOR decoder initialization failed: " + err.Error())
	}
}

func encodeCBOR(w io.Writer, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	doc := document{Version: documentVersion, Algorithm: "sha256", Entries: entries}
	if err := encMode.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return nil
}

func decodeCBOR(r io.Reader) ([]Entry, error) {
	var doc document
	if err := decMode.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode manifest: %w: %w", err, apperrors.ErrManifest)
	}
	if doc.Version != documentVersion {
		return nil, fmt.Errorf("unsupported manifest version %d: %w", doc.Version, apperrors.ErrManifest)
	}
	if doc.Algorithm != "sha256" {
		return nil, fmt.Errorf("unsupported manifest algorithm %q: %w", doc.Algorithm, apperrors.ErrManifest)
	}
	return doc.Entries, nil
}
