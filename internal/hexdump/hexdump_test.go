package hexdump

import (
	"strings"
	"testing"
)

func TestFeedEmitsNoLineUntilRowFull(t *testing.T) {
	d := New()
	lines := d.Feed([]byte{0x01, 0x02, 0x03})
	if len(lines) != 0 {
		t.Fatalf("expected no completed rows, got %v", lines)
	}
}

func TestFeedAcrossInvocationsCompletesOneRow(t *testing.T) {
	d := New()
	d.Feed([]byte{0x01, 0x02, 0x03})
	lines := d.Feed(make([]byte, 13)) // 3 + 13 = 16, completes the row
	if len(lines) != 1 {
		t.Fatalf("expected exactly one completed row, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "01 02 03") {
		t.Fatalf("row missing fed bytes: %q", lines[0])
	}
}

func TestFlushRendersPartialRow(t *testing.T) {
	d := New()
	d.Feed([]byte{0x01, 0x02, 0x03})
	line := d.Flush()
	if !strings.Contains(line, "01 02 03") {
		t.Fatalf("flushed row missing bytes: %q", line)
	}
	if !strings.Contains(line, "|...|") {
		t.Fatalf("expected ascii gutter with dots, got %q", line)
	}
}

func TestFlushOnEmptyDumperReturnsEmptyString(t *testing.T) {
	d := New()
	if line := d.Flush(); line != "" {
		t.Fatalf("expected empty flush, got %q", line)
	}
}

func TestOffsetAdvancesAcrossRows(t *testing.T) {
	d := New()
	full := make([]byte, bytesPerRow)
	d.Feed(full)
	d.Feed([]byte{0xff})
	line := d.Flush()
	if !strings.HasPrefix(line, "00000010") {
		t.Fatalf("expected second row offset 0x10, got %q", line)
	}
}
