package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	apperrors "filesum/internal/errors"
)

// ReadFile reads a manifest from path.
func ReadFile(path string, format Format) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w: %w", err, apperrors.ErrUnreadable)
	}
	defer func() { _ = file.Close() }()
	return Read(file, format)
}

// WriteFileAtomic writes entries to path through a synced temp file and a
// rename, so readers never observe a partial manifest.
func WriteFileAtomic(path string, entries []Entry, format Format) error {
	var buffer bytes.Buffer
	if err := Write(&buffer, entries, format); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".filesum-manifest-*.tmp")
	if err != nil {
		return fmt.Errorf("create manifest temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()
	if _, err := tmp.Write(buffer.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write manifest temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync manifest temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close manifest temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod manifest temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename manifest temp file: %w", err)
	}
	return nil
}
