package xref

import "fmt"

// Relocation is a relocation entry resolved against its symbol table.
type Relocation struct {
	Offset uint64
	Type   string
	// Name is the resolved target name: the symbol's name, the owning
	// section's name for anonymous section-relative symbols, or ABS for a
	// nameless non-section symbol (including the null symbol at index 0).
	Name   string
	Addend int64
}

// Target renders the relocation target with its addend suffix. A zero addend
// is never rendered; negative addends keep their sign.
func (r Relocation) Target() string {
	switch {
	case r.Addend == 0:
		return r.Name
	case r.Addend < 0:
		return fmt.Sprintf("%s-0x%x", r.Name, uint64(-r.Addend))
	default:
		return fmt.Sprintf("%s+0x%x", r.Name, r.Addend)
	}
}

// ResolveRelocation builds a Relocation from an already-resolved symbol.
// sym is nil when the entry references the null symbol (index 0) or an index
// past the symbol table, which is recorded as an ABS target rather than
// aborting the listing.
func ResolveRelocation(offset uint64, typeName string, sym *Symbol, addend int64) Relocation {
	name := "ABS"
	if sym != nil && sym.Name != "" {
		name = sym.Name
	}
	return Relocation{
		Offset: offset,
		Type:   typeName,
		Name:   name,
		Addend: addend,
	}
}
