// Package hash implements the SHA-256 digest as a streaming session.
//
// A Session is created with New, fed with Update (or Write) any number of
// times, and closed with Finalize, which returns the Digest. A session
// hashes exactly one stream: using it after Finalize panics.
package hash

import "errors"

const (
	// Size is the digest length in bytes.
	Size = 32
	// BlockSize is the number of bytes consumed by one compression.
	BlockSize = 64
)

// ErrFinalized is the panic value raised when a session is used after
// Finalize.
var ErrFinalized = errors.New("hash: session already finalized")

// Session accumulates input for a single SHA-256 computation.
type Session struct {
	state      [8]uint32
	pending    [BlockSize]byte
	pendingLen int
	length     uint64
	finalized  bool
}

// New returns a fresh session.
func New() *Session {
	return &Session{state: initial}
}

// Update appends p to the hashed stream. Complete blocks are compressed
// immediately; fewer than BlockSize bytes stay pending between calls.
func (s *Session) Update(p []byte) {
	if s.finalized {
		panic(ErrFinalized)
	}
	s.length += uint64(len(p))

	if s.pendingLen > 0 {
		n := copy(s.pending[s.pendingLen:], p)
		s.pendingLen += n
		p = p[n:]
		if s.pendingLen < BlockSize {
			return
		}
		compress(&s.state, &s.pending)
		s.pendingLen = 0
	}

	for len(p) >= BlockSize {
		compress(&s.state, (*[BlockSize]byte)(p[:BlockSize]))
		p = p[BlockSize:]
	}

	s.pendingLen = copy(s.pending[:], p)
}

// Write implements io.Writer. It never returns an error.
func (s *Session) Write(p []byte) (int, error) {
	s.Update(p)
	return len(p), nil
}

// Len reports the number of bytes hashed so far.
func (s *Session) Len() uint64 { return s.length }

// Finalize pads the stream, compresses the trailing block(s) and returns
// the digest. The session cannot be used afterwards.
func (s *Session) Finalize() Digest {
	if s.finalized {
		panic(ErrFinalized)
	}
	s.finalized = true
	return finish(s.state, s.pending[:s.pendingLen], s.length)
}

// Sum returns the digest of data.
func Sum(data []byte) Digest {
	s := New()
	s.Update(data)
	return s.Finalize()
}
