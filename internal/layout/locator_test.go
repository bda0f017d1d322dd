package layout

import "testing"

func testRanges() []Range {
	return []Range{
		{Kind: KindProgramHeader, Name: "PT_LOAD", Index: 0, FileOffset: 0x0, FileSize: 0x1000, Addr: 0x400000, HasAddr: true},
		{Kind: KindSection, Name: ".text", Index: 1, FileOffset: 0x100, FileSize: 0x200, Addr: 0x400100, HasAddr: true},
		{Kind: KindSection, Name: ".comment", Index: 2, FileOffset: 0x800, FileSize: 0x40},
		{Kind: KindSection, Name: ".bss", Index: 3, FileOffset: 0x900, FileSize: 0},
	}
}

func TestContaining(t *testing.T) {
	ranges := testRanges()

	tests := []struct {
		name       string
		offset     uint64
		wantLabels []string
	}{
		{
			name:       "Offset inside segment and section",
			offset:     0x150,
			wantLabels: []string{"PT_LOAD(0)", ".text(1)"},
		},
		{
			name:       "Offset only inside segment",
			offset:     0x50,
			wantLabels: []string{"PT_LOAD(0)"},
		},
		{
			name:       "Offset past every range",
			offset:     0x2000,
			wantLabels: nil,
		},
		{
			name:       "Zero-size range is never a container",
			offset:     0x900,
			wantLabels: []string{"PT_LOAD(0)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Containing(ranges, tt.offset)
			if len(got) != len(tt.wantLabels) {
				t.Fatalf("Containing() returned %d ranges, want %d", len(got), len(tt.wantLabels))
			}
			for i, loc := range got {
				if loc.Label() != tt.wantLabels[i] {
					t.Errorf("Containing()[%d] = %v, want %v", i, loc.Label(), tt.wantLabels[i])
				}
			}
		})
	}
}

func TestContainingNormalizesAddr(t *testing.T) {
	got := Containing(testRanges(), 0x150)
	if len(got) != 2 {
		t.Fatalf("Containing() returned %d ranges, want 2", len(got))
	}

	// Segment: 0x400000 + 0x150; section: 0x400100 + (0x150 - 0x100).
	if !got[0].HasAddr || got[0].Addr != 0x400150 {
		t.Errorf("segment addr = %#x, want 0x400150", got[0].Addr)
	}
	if !got[1].HasAddr || got[1].Addr != 0x400150 {
		t.Errorf("section addr = %#x, want 0x400150", got[1].Addr)
	}
}

func TestContainingUnmappedRange(t *testing.T) {
	got := Containing(testRanges(), 0x820)
	if len(got) != 2 {
		t.Fatalf("Containing() returned %d ranges, want 2", len(got))
	}
	if got[1].Label() != ".comment(2)" {
		t.Fatalf("Containing()[1] = %v, want .comment(2)", got[1].Label())
	}
	if got[1].HasAddr {
		t.Error("unmapped section should report HasAddr = false")
	}
	if got[1].Addr != 0 {
		t.Errorf("unmapped section addr = %#x, want 0", got[1].Addr)
	}
}
