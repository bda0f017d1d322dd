package pe

import (
	"debug/pe"
	"encoding/binary"
	"fmt"
	"io"
)

// ChecksumInfo contains PE checksum verification results.
type ChecksumInfo struct {
	Stored   uint32
	Computed uint32
	Valid    bool
}

// VerifyChecksum recalculates the PE checksum and compares it with the
// stored value. A stored checksum of 0 means the file is not checksummed
// (common outside system binaries) and counts as valid.
func VerifyChecksum(f *pe.File, r io.ReaderAt, filesize int64) (*ChecksumInfo, error) {
	var storedChecksum uint32

	if oh32, ok := f.OptionalHeader.(*pe.OptionalHeader32); ok {
		storedChecksum = oh32.CheckSum
	} else if oh64, ok := f.OptionalHeader.(*pe.OptionalHeader64); ok {
		storedChecksum = oh64.CheckSum
	}

	if storedChecksum == 0 {
		return &ChecksumInfo{Valid: true}, nil
	}

	checksumOffset, err := checksumFieldOffset(r)
	if err != nil {
		return nil, err
	}

	computed, err := CalculatePEChecksum(r, filesize, checksumOffset)
	if err != nil {
		return nil, err
	}

	return &ChecksumInfo{
		Stored:   storedChecksum,
		Computed: computed,
		Valid:    computed == storedChecksum,
	}, nil
}

// checksumFieldOffset locates the CheckSum field inside the optional header.
func checksumFieldOffset(r io.ReaderAt) (int64, error) {
	dosHeader := make([]byte, 64)
	if _, err := r.ReadAt(dosHeader, 0); err != nil {
		return 0, fmt.Errorf("读取DOS头失败: %w", err)
	}
	peHeaderOffset := int64(binary.LittleEndian.Uint32(dosHeader[60:64]))

	// Signature(4) + COFF header(20) + offset of CheckSum in the optional
	// header (64 for both PE32 and PE32+).
	return peHeaderOffset + 4 + 20 + 64, nil
}

// CalculatePEChecksum computes the standard PE checksum over the file,
// skipping the 4-byte CheckSum field itself. A negative checksumOffset
// disables the skip (used by tests).
func CalculatePEChecksum(r io.ReaderAt, filesize int64, checksumOffset int64) (uint32, error) {
	var checksum uint64
	buf := make([]byte, 4)

	for offset := int64(0); offset < filesize; offset += 4 {
		if checksumOffset >= 0 && offset >= checksumOffset && offset < checksumOffset+4 {
			continue
		}

		n, err := r.ReadAt(buf, offset)
		if err != nil && err != io.EOF {
			return 0, err
		}
		// Pad a partial read at end of file.
		for i := n; i < 4; i++ {
			buf[i] = 0
		}

		checksum += uint64(binary.LittleEndian.Uint32(buf))

		// Fold high 32 bits into low 32 bits.
		if checksum > 0xFFFFFFFF {
			checksum = (checksum & 0xFFFFFFFF) + (checksum >> 32)
		}
	}

	checksum = (checksum & 0xFFFF) + (checksum >> 16)
	checksum += checksum >> 16
	checksum &= 0xFFFF

	checksum += uint64(filesize)

	return uint32(checksum), nil
}
