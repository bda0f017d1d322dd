package xref

import "testing"

func TestRelocationTarget(t *testing.T) {
	tests := []struct {
		name string
		rel  Relocation
		want string
	}{
		{
			name: "Zero addend renders bare name",
			rel:  Relocation{Name: "printf", Addend: 0},
			want: "printf",
		},
		{
			name: "Positive addend",
			rel:  Relocation{Name: ".rodata", Addend: 0x18},
			want: ".rodata+0x18",
		},
		{
			name: "Negative addend",
			rel:  Relocation{Name: "_start", Addend: -4},
			want: "_start-0x4",
		},
		{
			name: "ABS target with addend",
			rel:  Relocation{Name: "ABS", Addend: 0x8},
			want: "ABS+0x8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.rel.Target()
			if got != tt.want {
				t.Errorf("Target() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveRelocation(t *testing.T) {
	sym := &Symbol{Name: "memcpy"}

	rel := ResolveRelocation(0x3000, "R_X86_64_PLT32", sym, -4)
	if rel.Name != "memcpy" || rel.Target() != "memcpy-0x4" {
		t.Errorf("Target() = %v, want memcpy-0x4", rel.Target())
	}
	if rel.Type != "R_X86_64_PLT32" || rel.Offset != 0x3000 {
		t.Errorf("Type/Offset = %v/%#x, want R_X86_64_PLT32/0x3000", rel.Type, rel.Offset)
	}
}

func TestResolveRelocationNullSymbol(t *testing.T) {
	rel := ResolveRelocation(0x100, "R_X86_64_RELATIVE", nil, 0x4028)
	if rel.Name != "ABS" {
		t.Errorf("Name = %v, want ABS", rel.Name)
	}
	if rel.Target() != "ABS+0x4028" {
		t.Errorf("Target() = %v, want ABS+0x4028", rel.Target())
	}
}

func TestResolveRelocationNamelessSymbol(t *testing.T) {
	rel := ResolveRelocation(0x200, "R_X86_64_64", &Symbol{Name: ""}, 0)
	if rel.Name != "ABS" {
		t.Errorf("Name = %v, want ABS", rel.Name)
	}
}
