package layout

import (
	"bytes"
	"testing"
)

func TestCorrelate(t *testing.T) {
	haystack := bytes.Repeat([]byte{0}, 0x100)
	haystack[0x15] = 'X'

	ranges := []Range{
		{Kind: KindSegment, Name: "__TEXT", Index: 0, FileOffset: 0x0, FileSize: 0x100, Addr: 0x1000, HasAddr: true},
		{Kind: KindSection, Name: "__text", Index: 0, FileOffset: 0x10, FileSize: 0x10, Addr: 0x1010, HasAddr: true},
	}

	reports, err := Correlate(haystack, []byte("X"), ranges)
	if err != nil {
		t.Fatalf("Correlate() error = %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("Correlate() returned %d reports, want 1", len(reports))
	}

	report := reports[0]
	if report.Offset != 0x15 {
		t.Errorf("report offset = %#x, want 0x15", report.Offset)
	}
	if len(report.Ranges) != 2 {
		t.Fatalf("report has %d ranges, want 2", len(report.Ranges))
	}

	// Both containers normalize the match to the same virtual address.
	for i, loc := range report.Ranges {
		if !loc.HasAddr || loc.Addr != 0x1015 {
			t.Errorf("ranges[%d] addr = %#x, want 0x1015", i, loc.Addr)
		}
	}
	if report.Ranges[0].Kind != KindSegment || report.Ranges[1].Kind != KindSection {
		t.Error("containing ranges should keep build order (segment before section)")
	}
}

func TestCorrelateMultipleMatches(t *testing.T) {
	haystack := []byte("libfoo libbar libfoo")
	ranges := []Range{
		{Kind: KindSection, Name: ".rodata", Index: 0, FileOffset: 0, FileSize: uint64(len(haystack)), Addr: 0x2000, HasAddr: true},
	}

	reports, err := Correlate(haystack, []byte("libfoo"), ranges)
	if err != nil {
		t.Fatalf("Correlate() error = %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("Correlate() returned %d reports, want 2", len(reports))
	}
	if reports[0].Offset != 0 || reports[1].Offset != 14 {
		t.Errorf("offsets = %#x, %#x, want 0x0, 0xe", reports[0].Offset, reports[1].Offset)
	}
	if reports[1].Ranges[0].Addr != 0x200e {
		t.Errorf("second match addr = %#x, want 0x200e", reports[1].Ranges[0].Addr)
	}
}

func TestCorrelateNoRanges(t *testing.T) {
	reports, err := Correlate([]byte("needle in data"), []byte("needle"), nil)
	if err != nil {
		t.Fatalf("Correlate() error = %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("Correlate() returned %d reports, want 1", len(reports))
	}
	if len(reports[0].Ranges) != 0 {
		t.Errorf("report should carry no ranges, got %d", len(reports[0].Ranges))
	}
}
