package manifest

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "filesum/internal/errors"
	"filesum/internal/hash"
)

const abcDigest = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"

func sampleEntries() []Entry {
	return []Entry{
		{Digest: hash.Sum([]byte("abc")), Name: "abc.txt"},
		{Digest: hash.Sum(nil), Name: "dir/empty", Binary: true},
		{Digest: hash.Sum([]byte("odd")), Name: "odd\\name\nwith newline"},
	}
}

func TestFormatLine(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  string
	}{
		{"text mode", Entry{Digest: hash.Sum([]byte("abc")), Name: "a b.txt"}, abcDigest + "  a b.txt"},
		{"binary mode", Entry{Digest: hash.Sum([]byte("abc")), Name: "x", Binary: true}, abcDigest + " *x"},
		{"escaped", Entry{Digest: hash.Sum([]byte("abc")), Name: "a\\b\nc"}, `\` + abcDigest + `  a\\b\nc`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := FormatLine(test.entry); got != test.want {
				t.Fatalf("FormatLine = %q, want %q", got, test.want)
			}
		})
	}
}

func TestParseLineRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"too short", "abcd  file"},
		{"no name", abcDigest + "  "},
		{"bad separator", abcDigest + "xxfile"},
		{"bad mode", abcDigest + " ?file"},
		{"bad hex", strings.Repeat("g", 64) + "  file"},
		{"bad escape", `\` + abcDigest + `  a\tb`},
		{"trailing backslash", `\` + abcDigest + `  a\`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := ParseLine(test.line); err == nil {
				t.Fatalf("ParseLine(%q) should fail", test.line)
			}
		})
	}
}

func TestTextRoundTrip(t *testing.T) {
	var buffer bytes.Buffer
	if err := Write(&buffer, sampleEntries(), Text); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read(&buffer, Text)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := sampleEntries()
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestReadTextSkipsBlankAndCommentLines(t *testing.T) {
	input := "# generated\n\n" + abcDigest + "  abc.txt\r\n"
	entries, err := Read(strings.NewReader(input), Text)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "abc.txt" {
		t.Fatalf("entries = %+v, want one abc.txt entry", entries)
	}
}

func TestReadTextReportsLineNumber(t *testing.T) {
	input := abcDigest + "  ok\nnot a checksum line\n"
	_, err := Read(strings.NewReader(input), Text)
	if !errors.Is(err, apperrors.ErrManifest) {
		t.Fatalf("Read error = %v, want ErrManifest", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("Read error = %v, want line number", err)
	}
}

func TestCBORRoundTrip(t *testing.T) {
	var buffer bytes.Buffer
	if err := Write(&buffer, sampleEntries(), CBOR); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.Contains(buffer.Bytes(), []byte(abcDigest)) {
		t.Fatal("CBOR manifest should carry digests as hex text")
	}
	got, err := Read(&buffer, CBOR)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := sampleEntries()
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCBORDeterministic(t *testing.T) {
	var first, second bytes.Buffer
	if err := Write(&first, sampleEntries(), CBOR); err != nil {
		t.Fatalf("first Write: %v", err)
	}
	if err := Write(&second, sampleEntries(), CBOR); err != nil {
		t.Fatalf("second Write: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatal("CBOR encoding is not deterministic")
	}
}

func TestReadCBORRejectsGarbage(t *testing.T) {
	_, err := Read(strings.NewReader("definitely not cbor"), CBOR)
	if !errors.Is(err, apperrors.ErrManifest) {
		t.Fatalf("Read error = %v, want ErrManifest", err)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "SHA256SUMS")
	if err := WriteFileAtomic(path, sampleEntries(), Text); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	entries, err := ReadFile(path, Text)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	leftovers, err := filepath.Glob(filepath.Join(dir, "nested", ".filesum-manifest-*"))
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(leftovers) != 0 {
		t.Fatalf("temp files left behind: %v", leftovers)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent"), Text)
	if !errors.Is(err, apperrors.ErrUnreadable) {
		t.Fatalf("ReadFile error = %v, want ErrUnreadable", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("ReadFile error = %v, want os.ErrNotExist", err)
	}
}

func TestFormats(t *testing.T) {
	if FormatForPath("sums.CBOR") != CBOR || FormatForPath("SHA256SUMS") != Text {
		t.Fatal("FormatForPath picked the wrong format")
	}
	if format, err := ParseFormat("cbor"); err != nil || format != CBOR {
		t.Fatalf("ParseFormat(cbor) = %v, %v", format, err)
	}
	if _, err := ParseFormat("json"); err == nil {
		t.Fatal("ParseFormat(json) should fail")
	}
}
