// Package filehash feeds files and streams through a hash.Session in
// fixed-size chunks.
package filehash

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"filesum/internal/decode"
	apperrors "filesum/internal/errors"
	"filesum/internal/hash"
)

// DefaultChunkSize is the read size used when Options.ChunkSize is zero.
const DefaultChunkSize = 64 * 1024

// StdinName is the path that selects standard input.
const StdinName = "-"

// Progress receives byte counts read from one source.
type Progress interface {
	Update(read uint64)
	Done(read uint64)
}

// Options configures how sources are read.
type Options struct {
	// ChunkSize is the size of each read. Zero means DefaultChunkSize.
	ChunkSize int
	// Decode selects decompression applied before hashing.
	Decode decode.Format
	// NewProgress, when set, is called once per source with its size in
	// bytes (zero when unknown).
	NewProgress func(path string, size uint64) Progress
	// Logger receives per-source debug records. Nil discards them.
	Logger *slog.Logger
	// Stdin replaces os.Stdin for StdinName.
	Stdin io.Reader
}

// Result is the outcome of hashing one source.
type Result struct {
	Path   string
	Digest hash.Digest
	// Bytes is the number of bytes hashed, after decompression.
	Bytes uint64
	Err   error
}

func (o Options) chunkSize() int {
	if o.ChunkSize <= 0 {
		return DefaultChunkSize
	}
	return o.ChunkSize
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// HashReader hashes everything read from r. Read errors are wrapped with
// ErrUnreadable and no digest is returned.
func HashReader(ctx context.Context, r io.Reader, opts Options) (hash.Digest, uint64, error) {
	decoded, err := decode.NewReader(r, opts.Decode)
	if err != nil {
		return hash.Digest{}, 0, fmt.Errorf("%w: %w", err, apperrors.ErrUnreadable)
	}
	defer func() { _ = decoded.Close() }()

	session := hash.New()
	buffer := make([]byte, opts.chunkSize())
	for {
		if err := ctx.Err(); err != nil {
			return hash.Digest{}, 0, err
		}
		n, readErr := decoded.Read(buffer)
		if n > 0 {
			session.Update(buffer[:n])
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return hash.Digest{}, 0, fmt.Errorf("reading: %w: %w", readErr, apperrors.ErrUnreadable)
		}
	}

	length := session.Len()
	return session.Finalize(), length, nil
}

// HashFile hashes the file at path, or standard input when path is "-".
func HashFile(ctx context.Context, path string, opts Options) (hash.Digest, uint64, error) {
	var (
		source io.Reader
		size   uint64
	)
	if path == StdinName {
		source = opts.Stdin
		if source == nil {
			source = os.Stdin
		}
	} else {
		file, err := os.Open(path)
		if err != nil {
			return hash.Digest{}, 0, fmt.Errorf("opening %s: %w: %w", path, err, apperrors.ErrUnreadable)
		}
		defer func() { _ = file.Close() }()

		info, err := file.Stat()
		if err != nil {
			return hash.Digest{}, 0, fmt.Errorf("stat %s: %w: %w", path, err, apperrors.ErrUnreadable)
		}
		if info.IsDir() {
			return hash.Digest{}, 0, fmt.Errorf("%s is a directory: %w", path, apperrors.ErrUnreadable)
		}
		size = uint64(info.Size())
		adviseSequential(file)
		source = file
	}

	var progress Progress
	if opts.NewProgress != nil {
		progress = opts.NewProgress(path, size)
		counter := &countingReader{r: source, onRead: progress.Update}
		source = counter
		defer func() { progress.Done(counter.read) }()
	}

	digest, length, err := HashReader(ctx, source, opts)
	if err != nil {
		if path != StdinName {
			return hash.Digest{}, 0, fmt.Errorf("hashing %s: %w", path, err)
		}
		return hash.Digest{}, 0, fmt.Errorf("hashing standard input: %w", err)
	}
	opts.logger().Debug("hashed", "path", path, "bytes", length, "digest", digest.String())
	return digest, length, nil
}

// HashAll hashes every path with at most jobs sources in flight. Results
// keep the order of paths; per-source failures are reported in
// Result.Err and do not stop the others.
func HashAll(ctx context.Context, paths []string, opts Options, jobs int) []Result {
	results := make([]Result, len(paths))
	if jobs < 1 {
		jobs = 1
	}

	var group errgroup.Group
	group.SetLimit(jobs)
	for i, path := range paths {
		group.Go(func() error {
			digest, length, err := HashFile(ctx, path, opts)
			results[i] = Result{Path: path, Digest: digest, Bytes: length, Err: err}
			if err != nil {
				opts.logger().Warn("hash failed", "path", path, "error", err)
			}
			return nil
		})
	}
	_ = group.Wait()
	return results
}

type countingReader struct {
	r      io.Reader
	read   uint64
	onRead func(uint64)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.read += uint64(n)
		c.onRead(c.read)
	}
	return n, err
}
