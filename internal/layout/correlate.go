package layout

// MatchReport pairs one pattern match offset with every structural range
// containing it.
type MatchReport struct {
	Offset uint64
	Ranges []Located
}

// Correlate searches haystack for needle and resolves each match offset
// against the structural model. Reports come back in ascending offset order;
// within a report the containing ranges preserve the model's build order.
// With no ranges built the reports simply carry empty range lists.
func Correlate(haystack, needle []byte, ranges []Range) ([]MatchReport, error) {
	offsets, err := FindAll(haystack, needle)
	if err != nil {
		return nil, err
	}

	reports := make([]MatchReport, 0, len(offsets))
	for _, off := range offsets {
		reports = append(reports, MatchReport{
			Offset: off,
			Ranges: Containing(ranges, off),
		})
	}
	return reports, nil
}
