package manifest

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	apperrors "filesum/internal/errors"
	"filesum/internal/hash"
)

// FormatLine renders one entry the way sha256sum does. Names holding a
// backslash, newline or carriage return are escaped and the line gets a
// leading backslash.
func FormatLine(entry Entry) string {
	name, escaped := escapeName(entry.Name)
	mode := " "
	if entry.Binary {
		mode = "*"
	}
	line := entry.Digest.String() + " " + mode + name
	if escaped {
		return `\` + line
	}
	return line
}

// ParseLine parses one sha256sum line.
func ParseLine(line string) (Entry, error) {
	escaped := strings.HasPrefix(line, `\`)
	if escaped {
		line = line[1:]
	}

	const digestLength = hash.Size * 2
	if len(line) < digestLength+3 || line[digestLength] != ' ' {
		return Entry{}, fmt.Errorf("want \"<digest>  <name>\"")
	}
	digest, err := hash.ParseDigest(line[:digestLength])
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{Digest: digest}
	switch line[digestLength+1] {
	case ' ':
	case '*':
		entry.Binary = true
	default:
		return Entry{}, fmt.Errorf("invalid mode character %q", line[digestLength+1])
	}

	entry.Name = line[digestLength+2:]
	if escaped {
		entry.Name, err = unescapeName(entry.Name)
		if err != nil {
			return Entry{}, err
		}
	}
	return entry, nil
}

func parseText(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for number := 1; scanner.Scan(); number++ {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entry, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %w", number, err, apperrors.ErrManifest)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return entries, nil
}
