package layout

// Located is a Range that contains a queried file offset, annotated with the
// virtual address the offset normalizes to inside that range.
type Located struct {
	Range
	// Addr is r.Addr + (offset - r.FileOffset) when the range has a virtual
	// address base; otherwise HasAddr is false and only the raw file offset
	// is meaningful.
	Addr    uint64
	HasAddr bool
}

// Containing returns every range whose file interval contains the offset, in
// the same relative order the ranges were built in. Callers that only want
// the innermost match take the last entry.
func Containing(ranges []Range, offset uint64) []Located {
	var found []Located
	for _, r := range ranges {
		if !r.Contains(offset) {
			continue
		}
		loc := Located{Range: r}
		if r.HasAddr {
			loc.Addr = r.Addr + (offset - r.FileOffset)
			loc.HasAddr = true
		}
		found = append(found, loc)
	}
	return found
}
