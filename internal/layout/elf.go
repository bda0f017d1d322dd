package layout

import "debug/elf"

// ElfRanges builds the structural range model for an ELF file: one range per
// program header followed by one range per section header, both in table
// order. The result is deterministic for a given file.
func ElfRanges(f *elf.File) []Range {
	ranges := make([]Range, 0, len(f.Progs)+len(f.Sections))

	for i, prog := range f.Progs {
		ranges = append(ranges, Range{
			Kind:       KindProgramHeader,
			Name:       prog.Type.String(),
			Index:      i,
			FileOffset: prog.Off,
			FileSize:   prog.Filesz,
			Addr:       prog.Vaddr,
			HasAddr:    true,
		})
	}

	for i, sec := range f.Sections {
		name := sec.Name
		if name == "" && sec.Type != elf.SHT_NULL {
			name = "<unreadable>"
		}
		// SHT_NOBITS occupies no file bytes regardless of sh_size.
		size := sec.Size
		if sec.Type == elf.SHT_NOBITS {
			size = 0
		}
		ranges = append(ranges, Range{
			Kind:       KindSection,
			Name:       name,
			Index:      i,
			FileOffset: sec.Offset,
			FileSize:   size,
			Addr:       sec.Addr,
			HasAddr:    sec.Addr != 0 || sec.Flags&elf.SHF_ALLOC != 0,
		})
	}

	return ranges
}
