package cli

import (
	"fmt"

	"github.com/spf13/pflag"

	"filesum/internal/config"
	"filesum/internal/decode"
	apperrors "filesum/internal/errors"
	"filesum/internal/filehash"
	"filesum/internal/logging"
	"filesum/internal/progress"
)

// hashFlags are the reading options shared by hash and check.
type hashFlags struct {
	configPath string
	chunkSize  int
	decompress string
	jobs       int
	progress   bool
	logLevel   string
}

func (h *hashFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&h.configPath, "config", "", "path to a YAML config file (default $"+config.EnvVar+")")
	fs.IntVar(&h.chunkSize, "chunk-size", 0, "read size in bytes")
	fs.StringVarP(&h.decompress, "decompress", "d", "", "decode input first: none, auto, gzip, zstd, lz4")
	fs.IntVarP(&h.jobs, "jobs", "j", 0, "number of files hashed concurrently")
	fs.BoolVar(&h.progress, "progress", false, "report progress on stderr")
	fs.StringVar(&h.logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// settings loads the config file and applies explicitly set flags over it.
func (h *hashFlags) settings(fs *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(h.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w: %w", err, apperrors.ErrUsage)
	}
	if fs.Changed("chunk-size") {
		cfg.ChunkSize = h.chunkSize
	}
	if fs.Changed("decompress") {
		cfg.Decompress = h.decompress
	}
	if fs.Changed("jobs") {
		cfg.Jobs = h.jobs
	}
	if fs.Changed("progress") {
		cfg.Progress = h.progress
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = h.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", err, apperrors.ErrUsage)
	}
	return cfg, nil
}

// hashOptions turns settings into filehash options.
func (r *RootCommand) hashOptions(cfg *config.Config) (filehash.Options, error) {
	format, err := decode.ParseFormat(cfg.Decompress)
	if err != nil {
		return filehash.Options{}, fmt.Errorf("%w: %w", err, apperrors.ErrUsage)
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return filehash.Options{}, fmt.Errorf("%w: %w", err, apperrors.ErrUsage)
	}
	logger := r.logger(level)

	opts := filehash.Options{
		ChunkSize: cfg.ChunkSize,
		Decode:    format,
		Logger:    logger,
		Stdin:     r.in,
	}
	if cfg.Progress {
		// Reporters share errOut, so only a single file in flight may draw.
		if cfg.Jobs > 1 {
			logger.Warn("progress reporting disabled with parallel jobs", "jobs", cfg.Jobs)
		} else {
			opts.NewProgress = func(path string, size uint64) filehash.Progress {
				return progress.NewReporter(r.errOut, path, size)
			}
		}
	}
	return opts, nil
}
