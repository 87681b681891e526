package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestReporterThrottlesUpdates(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var out bytes.Buffer
	reporter := newReporter(&out, "big.iso", 4096, clock.now)

	reporter.Update(1024)
	if out.Len() != 0 {
		t.Fatalf("update inside the throttle window printed %q", out.String())
	}

	clock.t = clock.t.Add(time.Second)
	reporter.Update(2048)
	if !strings.Contains(out.String(), "big.iso 2.0KB/4.0KB") {
		t.Fatalf("missing progress line: %q", out.String())
	}

	out.Reset()
	reporter.Update(4096)
	if !strings.Contains(out.String(), "4.0KB/4.0KB") {
		t.Fatalf("completion update should bypass throttling: %q", out.String())
	}
}

func TestReporterDone(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var out bytes.Buffer
	reporter := newReporter(&out, "-", 0, clock.now)
	clock.t = clock.t.Add(2 * time.Second)
	reporter.Done(3 * 1024 * 1024)

	line := out.String()
	if !strings.HasSuffix(line, "\n") || !strings.Contains(line, "- hashed 3.0MB in 2s avg:1.5MB/s") {
		t.Fatalf("unexpected summary %q", line)
	}
}

func TestHumanBytes(t *testing.T) {
	tests := map[uint64]string{
		0:                "0.0B",
		1023:             "1023.0B",
		1024:             "1.0KB",
		5 * 1024 * 1024:  "5.0MB",
		1 << 40:          "1.0TB",
		(1 << 40) * 2048: "2048.0TB",
	}
	for in, want := range tests {
		if got := humanBytes(in); got != want {
			t.Errorf("humanBytes(%d) = %q, want %q", in, got, want)
		}
	}
}
