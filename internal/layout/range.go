// Package layout builds a normalized structural model of a binary file:
// every segment, section, program header and load command becomes a named
// byte range, so raw file offsets can be correlated back to the structures
// that contain them.
package layout

import "fmt"

// Kind identifies the structural entity a Range was built from.
type Kind int

const (
	KindSegment Kind = iota
	KindSection
	KindProgramHeader
	KindLoadCommand
)

// String returns the display name of the range kind.
func (k Kind) String() string {
	switch k {
	case KindSegment:
		return "Segment"
	case KindSection:
		return "Section"
	case KindProgramHeader:
		return "ProgramHeader"
	case KindLoadCommand:
		return "LoadCommand"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Range is a named byte interval [FileOffset, FileOffset+FileSize) within a
// binary file, optionally mapped to a virtual address base.
type Range struct {
	Kind       Kind
	Name       string
	Index      int // position within the owning table (phdr index, shdr index, ...)
	FileOffset uint64
	FileSize   uint64
	Addr       uint64 // virtual address base, valid only when HasAddr
	HasAddr    bool
}

// Contains reports whether the raw file offset falls inside the range.
// Zero-size ranges never contain any offset.
func (r Range) Contains(offset uint64) bool {
	return offset >= r.FileOffset && offset < r.FileOffset+r.FileSize
}

// Label returns the range's display label, e.g. ".text(14)" or "PT_LOAD(2)".
func (r Range) Label() string {
	return fmt.Sprintf("%s(%d)", r.Name, r.Index)
}
