// Package cli implements filesum command-line parsing and commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	apperrors "filesum/internal/errors"
	"filesum/internal/logging"
)

// Command represents an executable CLI command.
type Command struct {
	name    string
	summary string
	run     func(ctx context.Context, args []string) error
}

// Name returns the command name.
func (c Command) Name() string { return c.name }

// RootCommand handles argument parsing for the filesum CLI.
type RootCommand struct {
	out      io.Writer
	errOut   io.Writer
	in       io.Reader
	commands []Command
	args     []string
}

// NewRootCommand creates the filesum root command.
func NewRootCommand(out io.Writer, errOut io.Writer, in io.Reader) *RootCommand {
	root := &RootCommand{out: out, errOut: errOut, in: in}
	root.commands = []Command{
		{name: "check", summary: "Verify files against a checksum manifest", run: root.runCheck},
		{name: "hash", summary: "Print the SHA-256 digest of files or stdin", run: root.runHash},
		NewVersionCommand(out),
	}
	return root
}

// NewOSRootCommand creates a command wired to process standard streams.
func NewOSRootCommand() *RootCommand {
	return NewRootCommand(os.Stdout, os.Stderr, os.Stdin)
}

// SetArgs sets command arguments.
func (r *RootCommand) SetArgs(args []string) { r.args = args }

// Commands returns configured subcommands.
func (r *RootCommand) Commands() []Command { return r.commands }

// Execute parses and runs commands.
func (r *RootCommand) Execute() error {
	return r.ExecuteContext(context.Background())
}

// ExecuteContext parses and runs commands; ctx cancels in-flight hashing.
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	if len(r.args) == 0 {
		return r.printHelp()
	}
	switch r.args[0] {
	case "-h", "--help", "help":
		return r.printHelp()
	}
	for _, command := range r.commands {
		if command.name == r.args[0] {
			return command.run(ctx, r.args[1:])
		}
	}

	if _, err := fmt.Fprintf(r.errOut, "unknown command %q\n", r.args[0]); err != nil {
		return fmt.Errorf("write unknown command error: %w", err)
	}
	if err := r.printHelp(); err != nil {
		return err
	}
	return fmt.Errorf("unknown command: %s: %w", r.args[0], apperrors.ErrUsage)
}

func (r *RootCommand) printHelp() error {
	help := "filesum computes and verifies SHA-256 file digests\n\nUsage:\n  filesum [command]\n\nAvailable Commands:\n"
	for _, command := range r.commands {
		help += fmt.Sprintf("  %-8s %s\n", command.name, command.summary)
	}
	help += "\nFlags:\n  -h, --help  help for filesum\n"
	if _, err := fmt.Fprint(r.out, help); err != nil {
		return fmt.Errorf("write help output: %w", err)
	}
	return nil
}

// parseFlags parses args into fs. A help request prints the flag usage and
// reports handled=true.
func (r *RootCommand) parseFlags(fs *pflag.FlagSet, usage string, args []string) (handled bool, err error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			if _, werr := fmt.Fprintf(r.out, "Usage:\n  %s\n\nFlags:\n%s", usage, fs.FlagUsages()); werr != nil {
				return true, fmt.Errorf("write help output: %w", werr)
			}
			return true, nil
		}
		return false, fmt.Errorf("parse %s flags: %w: %w", fs.Name(), err, apperrors.ErrUsage)
	}
	return false, nil
}

func (r *RootCommand) logger(level slog.Level) *slog.Logger {
	if r.errOut == os.Stderr {
		return logging.NewStderr(level)
	}
	return logging.New(r.errOut, level)
}
