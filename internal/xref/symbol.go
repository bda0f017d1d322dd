// Package xref resolves symbol table entries and relocations against their
// owning string and section tables, producing fully-named records even for
// anonymous section-relative symbols or out-of-range table indices.
package xref

import (
	"debug/elf"
	"fmt"
	"strings"
)

// sttGNUIFunc mirrors elf.STT_GNU_IFUNC, which is only exported by
// debug/elf from Go 1.23 on.
const sttGNUIFunc elf.SymType = 10

// Binding classifies a symbol's linkage scope.
type Binding int

const (
	BindLocal Binding = iota
	BindGlobal
	BindWeak
	BindOther
)

// Kind classifies what a symbol refers to.
type Kind int

const (
	KindObject Kind = iota
	KindFunc
	KindIFunc
	KindSection
	KindOther
)

// Symbol is a symbol table entry resolved into display form.
type Symbol struct {
	Value   uint64
	Size    uint64
	Binding Binding
	Kind    Kind
	// BindName and KindName are the raw STB_/STT_ names with the prefix
	// stripped, e.g. "LOCAL", "FUNC".
	BindName string
	KindName string
	// Name is the resolved symbol name. Section-typed symbols with an empty
	// name string take the owning section's name instead.
	Name string
	// Section is the owning section rendered by SectionLabel.
	Section string
	Other   byte
}

// SectionLabel renders a section table index according to the shared
// index-resolution policy: index 0 is "no section", the format's absolute
// sentinel renders as ABS, an index past the table end renders as BAD_IDX so
// the anomaly stays visible without aborting, and everything else renders as
// name(index).
func SectionLabel(idx, abs int, names []string) string {
	switch {
	case idx == 0:
		return ""
	case idx == abs:
		return "ABS"
	case idx >= len(names):
		return fmt.Sprintf("BAD_IDX(%d)", idx)
	default:
		return fmt.Sprintf("%s(%d)", names[idx], idx)
	}
}

// ResolveSymbol resolves one ELF symbol against the section name table.
// The absolute-index sentinel is elf.SHN_ABS for ELF; callers on another
// format supply that format's reserved value.
func ResolveSymbol(sym elf.Symbol, abs int, sectionNames []string) Symbol {
	bind := elf.ST_BIND(sym.Info)
	typ := elf.ST_TYPE(sym.Info)
	idx := int(sym.Section)

	out := Symbol{
		Value:    sym.Value,
		Size:     sym.Size,
		Binding:  binding(bind),
		Kind:     kind(typ),
		BindName: strings.TrimPrefix(bind.String(), "STB_"),
		KindName: strings.TrimPrefix(typ.String(), "STT_"),
		Name:     sym.Name,
		Section:  SectionLabel(idx, abs, sectionNames),
		Other:    sym.Other,
	}

	if out.Name == "" && out.Kind == KindSection {
		if idx > 0 && idx < len(sectionNames) {
			out.Name = sectionNames[idx]
		} else {
			out.Name = SectionLabel(idx, abs, sectionNames)
		}
	}

	return out
}

func binding(b elf.SymBind) Binding {
	switch b {
	case elf.STB_LOCAL:
		return BindLocal
	case elf.STB_GLOBAL:
		return BindGlobal
	case elf.STB_WEAK:
		return BindWeak
	default:
		return BindOther
	}
}

func kind(t elf.SymType) Kind {
	switch t {
	case elf.STT_OBJECT:
		return KindObject
	case elf.STT_FUNC:
		return KindFunc
	case sttGNUIFunc:
		return KindIFunc
	case elf.STT_SECTION:
		return KindSection
	default:
		return KindOther
	}
}
