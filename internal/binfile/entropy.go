package binfile

import "math"

// Entropy calculates Shannon entropy for a data block. The value ranges from
// 0 (completely uniform) to 8 (completely random). High entropy (>7.0) often
// indicates compressed or encrypted content.
func Entropy(data []byte) float64 {
	if len(data) == 0 {
		return 0.0
	}

	var freq [256]int
	for _, b := range data {
		freq[b]++
	}

	// Shannon entropy: H = -Σ(p(x) * log2(p(x)))
	var entropy float64
	dataLen := float64(len(data))

	for _, count := range freq {
		if count == 0 {
			continue
		}
		p := float64(count) / dataLen
		entropy -= p * math.Log2(p)
	}

	return entropy
}

// SliceEntropy calculates entropy for the byte interval
// [offset, offset+size) of data, clamped to the buffer's bounds.
func SliceEntropy(data []byte, offset, size uint64) float64 {
	if offset >= uint64(len(data)) || size == 0 {
		return 0.0
	}
	end := offset + size
	if end > uint64(len(data)) {
		end = uint64(len(data))
	}
	return Entropy(data[offset:end])
}
