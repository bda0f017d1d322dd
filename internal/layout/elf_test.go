package layout

import (
	"debug/elf"
	"testing"
)

func TestElfRanges(t *testing.T) {
	f := &elf.File{
		Progs: []*elf.Prog{
			{ProgHeader: elf.ProgHeader{Type: elf.PT_LOAD, Off: 0x0, Filesz: 0x1000, Vaddr: 0x400000}},
			{ProgHeader: elf.ProgHeader{Type: elf.PT_DYNAMIC, Off: 0xe00, Filesz: 0x100, Vaddr: 0x400e00}},
		},
		Sections: []*elf.Section{
			{SectionHeader: elf.SectionHeader{Name: "", Type: elf.SHT_NULL}},
			{SectionHeader: elf.SectionHeader{Name: ".text", Type: elf.SHT_PROGBITS, Flags: elf.SHF_ALLOC | elf.SHF_EXECINSTR, Offset: 0x100, Size: 0x200, Addr: 0x400100}},
			{SectionHeader: elf.SectionHeader{Name: ".bss", Type: elf.SHT_NOBITS, Flags: elf.SHF_ALLOC | elf.SHF_WRITE, Offset: 0x300, Size: 0x80, Addr: 0x400300}},
			{SectionHeader: elf.SectionHeader{Name: "", Type: elf.SHT_PROGBITS, Offset: 0x400, Size: 0x10}},
		},
	}

	ranges := ElfRanges(f)
	if len(ranges) != 6 {
		t.Fatalf("ElfRanges() returned %d ranges, want 6", len(ranges))
	}

	// Program headers come first, in table order.
	if ranges[0].Kind != KindProgramHeader || ranges[0].Label() != "PT_LOAD(0)" {
		t.Errorf("ranges[0] = %v %v, want PT_LOAD(0)", ranges[0].Kind, ranges[0].Label())
	}
	if ranges[1].Label() != "PT_DYNAMIC(1)" {
		t.Errorf("ranges[1] = %v, want PT_DYNAMIC(1)", ranges[1].Label())
	}
	if !ranges[0].HasAddr || ranges[0].Addr != 0x400000 {
		t.Errorf("ranges[0] addr = %#x, want 0x400000", ranges[0].Addr)
	}

	// Sections follow with their table indices.
	text := ranges[3]
	if text.Kind != KindSection || text.Label() != ".text(1)" {
		t.Errorf("ranges[3] = %v, want .text(1)", text.Label())
	}
	if !text.Contains(0x1ff) || text.Contains(0x300) {
		t.Error(".text should span [0x100, 0x300)")
	}

	// SHT_NOBITS occupies no file bytes.
	bss := ranges[4]
	if bss.FileSize != 0 {
		t.Errorf(".bss file size = %#x, want 0", bss.FileSize)
	}
	if !bss.HasAddr {
		t.Error(".bss is SHF_ALLOC and should keep its virtual address")
	}

	// A non-NULL section with an empty name renders as unreadable; the
	// NULL section keeps its legitimately empty name.
	if ranges[2].Name != "" {
		t.Errorf("NULL section name = %q, want empty", ranges[2].Name)
	}
	if ranges[5].Name != "<unreadable>" {
		t.Errorf("unnamed section name = %q, want <unreadable>", ranges[5].Name)
	}
}

func TestElfRangesDeterministic(t *testing.T) {
	f := &elf.File{
		Progs: []*elf.Prog{
			{ProgHeader: elf.ProgHeader{Type: elf.PT_LOAD, Off: 0, Filesz: 0x100, Vaddr: 0x1000}},
		},
		Sections: []*elf.Section{
			{SectionHeader: elf.SectionHeader{Name: ".data", Type: elf.SHT_PROGBITS, Offset: 0x40, Size: 0x20, Addr: 0x1040}},
		},
	}

	first := ElfRanges(f)
	second := ElfRanges(f)
	if len(first) != len(second) {
		t.Fatalf("range counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("ranges[%d] differs between builds: %+v vs %+v", i, first[i], second[i])
		}
	}
}
