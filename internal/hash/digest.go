package hash

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// Digest is a finished SHA-256 value as eight state words.
type Digest [8]uint32

// Bytes returns the digest in its canonical big-endian byte form.
func (d Digest) Bytes() [Size]byte {
	var out [Size]byte
	for i, word := range d {
		binary.BigEndian.PutUint32(out[i*4:], word)
	}
	return out
}

// String returns the 64-character lowercase hex form.
func (d Digest) String() string {
	b := d.Bytes()
	return hex.EncodeToString(b[:])
}

// MarshalText implements encoding.TextMarshaler.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := ParseDigest(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDigest parses the hex form produced by String. Upper-case hex is
// accepted.
func ParseDigest(s string) (Digest, error) {
	if len(s) != Size*2 {
		return Digest{}, fmt.Errorf("digest is %d characters, want %d", len(s), Size*2)
	}
	var raw [Size]byte
	if _, err := hex.Decode(raw[:], []byte(s)); err != nil {
		return Digest{}, fmt.Errorf("parsing digest: %w", err)
	}
	var d Digest
	for i := range d {
		d[i] = binary.BigEndian.Uint32(raw[i*4:])
	}
	return d, nil
}
