package layout

import "testing"

func TestRangeContains(t *testing.T) {
	tests := []struct {
		name   string
		r      Range
		offset uint64
		want   bool
	}{
		{
			name:   "Start of range",
			r:      Range{FileOffset: 0x100, FileSize: 0x40},
			offset: 0x100,
			want:   true,
		},
		{
			name:   "Inside range",
			r:      Range{FileOffset: 0x100, FileSize: 0x40},
			offset: 0x13f,
			want:   true,
		},
		{
			name:   "End is exclusive",
			r:      Range{FileOffset: 0x100, FileSize: 0x40},
			offset: 0x140,
			want:   false,
		},
		{
			name:   "Before range",
			r:      Range{FileOffset: 0x100, FileSize: 0x40},
			offset: 0xff,
			want:   false,
		},
		{
			name:   "Zero-size range matches nothing",
			r:      Range{FileOffset: 0x100, FileSize: 0},
			offset: 0x100,
			want:   false,
		},
		{
			name:   "Range starting at zero",
			r:      Range{FileOffset: 0, FileSize: 0x10},
			offset: 0,
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.r.Contains(tt.offset)
			if got != tt.want {
				t.Errorf("Contains(%#x) = %v, want %v", tt.offset, got, tt.want)
			}
		})
	}
}

func TestRangeLabel(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		want string
	}{
		{
			name: "Section",
			r:    Range{Kind: KindSection, Name: ".text", Index: 14},
			want: ".text(14)",
		},
		{
			name: "Program header",
			r:    Range{Kind: KindProgramHeader, Name: "PT_LOAD", Index: 2},
			want: "PT_LOAD(2)",
		},
		{
			name: "Unreadable name",
			r:    Range{Kind: KindSection, Name: "<unreadable>", Index: 0},
			want: "<unreadable>(0)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.r.Label()
			if got != tt.want {
				t.Errorf("Label() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindSegment, "Segment"},
		{KindSection, "Section"},
		{KindProgramHeader, "ProgramHeader"},
		{KindLoadCommand, "LoadCommand"},
		{Kind(99), "Kind(99)"},
	}

	for _, tt := range tests {
		got := tt.kind.String()
		if got != tt.want {
			t.Errorf("Kind(%d).String() = %v, want %v", int(tt.kind), got, tt.want)
		}
	}
}
