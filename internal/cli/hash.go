package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	apperrors "filesum/internal/errors"
	"filesum/internal/filehash"
	"filesum/internal/manifest"
)

func (r *RootCommand) runHash(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("hash", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var flags hashFlags
	flags.register(fs)
	output := fs.StringP("output", "o", "", "write a checksum manifest to this path")
	format := fs.String("format", "", "manifest format: text or cbor")
	binary := fs.BoolP("binary", "b", false, "mark manifest entries as binary mode")
	if handled, err := r.parseFlags(fs, "filesum hash [flags] [FILE...]", args); handled || err != nil {
		return err
	}

	cfg, err := flags.settings(fs)
	if err != nil {
		return err
	}
	if fs.Changed("format") {
		cfg.ManifestFormat = *format
	}
	manifestFormat, err := manifest.ParseFormat(cfg.ManifestFormat)
	if err != nil {
		return fmt.Errorf("%w: %w", err, apperrors.ErrUsage)
	}
	if *output != "" && !fs.Changed("format") && manifest.FormatForPath(*output) == manifest.CBOR {
		manifestFormat = manifest.CBOR
	}
	opts, err := r.hashOptions(cfg)
	if err != nil {
		return err
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		inputs = []string{filehash.StdinName}
	}

	results := filehash.HashAll(ctx, inputs, opts, cfg.Jobs)
	entries := make([]manifest.Entry, 0, len(results))
	failed := 0
	for _, result := range results {
		if result.Err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			failed++
			if _, err := fmt.Fprintf(r.errOut, "filesum: %v\n", result.Err); err != nil {
				return fmt.Errorf("write error output: %w", err)
			}
			continue
		}
		entries = append(entries, manifest.Entry{Digest: result.Digest, Name: result.Path, Binary: *binary})
	}

	switch {
	case *output != "":
		if failed == 0 {
			if err := manifest.WriteFileAtomic(*output, entries, manifestFormat); err != nil {
				return err
			}
		}
	case len(inputs) == 1 && manifestFormat == manifest.Text:
		if failed == 0 {
			if _, err := fmt.Fprintln(r.out, entries[0].Digest); err != nil {
				return fmt.Errorf("write digest: %w", err)
			}
		}
	default:
		if err := manifest.Write(r.out, entries, manifestFormat); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d inputs could not be hashed: %w", failed, len(inputs), apperrors.ErrUnreadable)
	}
	return nil
}
