package layout

import (
	"bytes"
	"fmt"
)

// FindAll scans haystack for every exact occurrence of needle and returns the
// match offsets in ascending order. Overlapping matches are all reported. An
// empty needle is a caller error, not a match-everything degenerate; no match
// yields an empty result, not an error.
func FindAll(haystack, needle []byte) ([]uint64, error) {
	if len(needle) == 0 {
		return nil, fmt.Errorf("搜索模式不能为空")
	}

	var offsets []uint64
	pos := 0
	for pos <= len(haystack)-len(needle) {
		i := bytes.Index(haystack[pos:], needle)
		if i < 0 {
			break
		}
		offsets = append(offsets, uint64(pos+i))
		// Step one byte so overlapping occurrences are found too.
		pos += i + 1
	}
	return offsets, nil
}
