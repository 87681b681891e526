package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/pflag"

	apperrors "filesum/internal/errors"
	"filesum/internal/filehash"
	"filesum/internal/manifest"
)

func (r *RootCommand) runCheck(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("check", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var flags hashFlags
	flags.register(fs)
	quiet := fs.BoolP("quiet", "q", false, "do not print OK for each verified file")
	format := fs.String("format", "", "manifest format: text or cbor (default by extension)")
	dir := fs.String("dir", "", "resolve relative entry names against this directory")
	if handled, err := r.parseFlags(fs, "filesum check [flags] MANIFEST", args); handled || err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("check requires exactly one manifest path: %w", apperrors.ErrUsage)
	}
	manifestPath := fs.Arg(0)

	cfg, err := flags.settings(fs)
	if err != nil {
		return err
	}
	manifestFormat := manifest.FormatForPath(manifestPath)
	if fs.Changed("format") {
		if manifestFormat, err = manifest.ParseFormat(*format); err != nil {
			return fmt.Errorf("%w: %w", err, apperrors.ErrUsage)
		}
	}
	opts, err := r.hashOptions(cfg)
	if err != nil {
		return err
	}

	var entries []manifest.Entry
	if manifestPath == filehash.StdinName {
		entries, err = manifest.Read(r.in, manifestFormat)
	} else {
		entries, err = manifest.ReadFile(manifestPath, manifestFormat)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", manifestPath, err)
	}

	paths := make([]string, len(entries))
	for i, entry := range entries {
		paths[i] = entry.Name
		if *dir != "" && !filepath.IsAbs(entry.Name) {
			paths[i] = filepath.Join(*dir, entry.Name)
		}
	}

	results := filehash.HashAll(ctx, paths, opts, cfg.Jobs)
	var mismatched, unreadable int
	for i, result := range results {
		name := entries[i].Name
		status := "OK"
		switch {
		case result.Err != nil:
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			unreadable++
			status = "FAILED open or read"
			if _, err := fmt.Fprintf(r.errOut, "filesum: %v\n", result.Err); err != nil {
				return fmt.Errorf("write error output: %w", err)
			}
		case result.Digest != entries[i].Digest:
			mismatched++
			status = "FAILED"
		case *quiet:
			continue
		}
		if _, err := fmt.Fprintf(r.out, "%s: %s\n", name, status); err != nil {
			return fmt.Errorf("write check output: %w", err)
		}
	}

	var errs []error
	if mismatched > 0 {
		errs = append(errs, fmt.Errorf("%d computed checksum(s) did NOT match: %w", mismatched, apperrors.ErrMismatch))
	}
	if unreadable > 0 {
		errs = append(errs, fmt.Errorf("%d listed file(s) could not be read: %w", unreadable, apperrors.ErrUnreadable))
	}
	return errors.Join(errs...)
}
