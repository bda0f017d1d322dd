package elf

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"fmt"

	"github.com/ZacharyZcR/BinScope/internal/xref"
)

// RelocGroup is one relocation section's entries, resolved against the
// symbol table it links to.
type RelocGroup struct {
	// Name is the relocation section's own name, e.g. ".rela.plt".
	Name string
	// Target is the section the relocations apply to (sh_info), rendered
	// with the shared index policy; empty for dynamic relocation sections.
	Target string
	Relocs []xref.Relocation
}

// extractRelocations walks every SHT_REL/SHT_RELA section and resolves its
// entries. Malformed sections are skipped; out-of-range symbol indices
// resolve to ABS rather than aborting.
func (a *Analyzer) extractRelocations(f *elf.File, info *Info) {
	for _, sec := range f.Sections {
		if sec.Type != elf.SHT_REL && sec.Type != elf.SHT_RELA {
			continue
		}
		data, err := sec.Data()
		if err != nil {
			continue
		}

		syms := linkedSymbols(f, sec, info)
		relocs := decodeRelocs(f, sec.Type, data, syms)
		if len(relocs) == 0 {
			continue
		}

		target := ""
		if sec.Info != 0 {
			target = xref.SectionLabel(int(sec.Info), int(elf.SHN_ABS), info.SectionNames)
		}

		info.RelocGroups = append(info.RelocGroups, RelocGroup{
			Name:   sec.Name,
			Target: target,
			Relocs: relocs,
		})
	}
}

// linkedSymbols picks the symbol table a relocation section links to via
// sh_link: the dynamic table for .dynsym, the static table otherwise.
func linkedSymbols(f *elf.File, sec *elf.Section, info *Info) []xref.Symbol {
	if int(sec.Link) < len(f.Sections) && f.Sections[sec.Link].Name == ".dynsym" {
		return info.DynSymbols
	}
	return info.Symbols
}

func decodeRelocs(f *elf.File, typ elf.SectionType, data []byte, syms []xref.Symbol) []xref.Relocation {
	var relocs []xref.Relocation
	r := bytes.NewReader(data)

	for {
		var off uint64
		var symIdx uint32
		var relType uint32
		var addend int64

		if f.Class == elf.ELFCLASS64 {
			if typ == elf.SHT_RELA {
				var rela elf.Rela64
				if err := binary.Read(r, f.ByteOrder, &rela); err != nil {
					break
				}
				off, symIdx, relType, addend = rela.Off, elf.R_SYM64(rela.Info), elf.R_TYPE64(rela.Info), rela.Addend
			} else {
				var rel elf.Rel64
				if err := binary.Read(r, f.ByteOrder, &rel); err != nil {
					break
				}
				off, symIdx, relType = rel.Off, elf.R_SYM64(rel.Info), elf.R_TYPE64(rel.Info)
			}
		} else {
			if typ == elf.SHT_RELA {
				var rela elf.Rela32
				if err := binary.Read(r, f.ByteOrder, &rela); err != nil {
					break
				}
				off, symIdx, relType, addend = uint64(rela.Off), elf.R_SYM32(rela.Info), elf.R_TYPE32(rela.Info), int64(rela.Addend)
			} else {
				var rel elf.Rel32
				if err := binary.Read(r, f.ByteOrder, &rel); err != nil {
					break
				}
				off, symIdx, relType = uint64(rel.Off), elf.R_SYM32(rel.Info), elf.R_TYPE32(rel.Info)
			}
		}

		relocs = append(relocs, xref.ResolveRelocation(
			off,
			relocTypeName(f.Machine, relType),
			symbolAt(syms, symIdx),
			addend,
		))
	}
	return relocs
}

// symbolAt maps an r_sym index into the resolved symbol slice. debug/elf
// strips the null symbol at index 0, so entry n lives at slice position n-1.
// Index 0 and out-of-range indices yield nil (rendered as ABS).
func symbolAt(syms []xref.Symbol, idx uint32) *xref.Symbol {
	if idx == 0 || int(idx) > len(syms) {
		return nil
	}
	return &syms[idx-1]
}

// relocTypeName renders a relocation type for the file's machine.
func relocTypeName(machine elf.Machine, t uint32) string {
	switch machine {
	case elf.EM_X86_64:
		return elf.R_X86_64(t).String()
	case elf.EM_386:
		return elf.R_386(t).String()
	case elf.EM_AARCH64:
		return elf.R_AARCH64(t).String()
	case elf.EM_ARM:
		return elf.R_ARM(t).String()
	case elf.EM_PPC64:
		return elf.R_PPC64(t).String()
	case elf.EM_RISCV:
		return elf.R_RISCV(t).String()
	case elf.EM_MIPS:
		return elf.R_MIPS(t).String()
	default:
		return fmt.Sprintf("R_(%d)", t)
	}
}
