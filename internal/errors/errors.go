// Package errors defines application errors and exit code mapping.
package errors

import sterrors "errors"

var (
	// ErrUsage indicates a command usage failure.
	ErrUsage = sterrors.New("usage error")
	// ErrUnreadable indicates an input that could not be opened or read.
	ErrUnreadable = sterrors.New("input not readable")
	// ErrMismatch indicates a file whose digest differs from its manifest entry.
	ErrMismatch = sterrors.New("digest mismatch")
	// ErrManifest indicates a malformed checksum manifest.
	ErrManifest = sterrors.New("malformed manifest")
)

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case sterrors.Is(err, ErrUsage):
		return 2
	case sterrors.Is(err, ErrManifest):
		return 4
	case sterrors.Is(err, ErrMismatch):
		return 1
	case sterrors.Is(err, ErrUnreadable):
		return 3
	default:
		return 1
	}
}
