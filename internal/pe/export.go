package pe

import (
	"bytes"
	"debug/pe"
	"encoding/binary"
	"fmt"
	"io"
)

// ExportDirectory represents the PE export directory table.
type ExportDirectory struct {
	Characteristics       uint32
	TimeDateStamp         uint32
	MajorVersion          uint16
	MinorVersion          uint16
	Name                  uint32
	Base                  uint32
	NumberOfFunctions     uint32
	NumberOfNames         uint32
	AddressOfFunctions    uint32
	AddressOfNames        uint32
	AddressOfNameOrdinals uint32
}

// parseExports extracts exported function names from a PE file.
func parseExports(f *pe.File, r io.ReaderAt) ([]string, error) {
	// Export data directory is entry 0.
	var exportDirRVA, exportDirSize uint32

	if oh32, ok := f.OptionalHeader.(*pe.OptionalHeader32); ok {
		if len(oh32.DataDirectory) > 0 {
			exportDirRVA = oh32.DataDirectory[0].VirtualAddress
			exportDirSize = oh32.DataDirectory[0].Size
		}
	} else if oh64, ok := f.OptionalHeader.(*pe.OptionalHeader64); ok {
		if len(oh64.DataDirectory) > 0 {
			exportDirRVA = oh64.DataDirectory[0].VirtualAddress
			exportDirSize = oh64.DataDirectory[0].Size
		}
	}

	if exportDirRVA == 0 || exportDirSize == 0 {
		return nil, nil // No exports
	}

	exportDirOffset, err := rvaToOffset(f, exportDirRVA)
	if err != nil {
		return nil, fmt.Errorf("无法定位导出表: %w", err)
	}

	var exportDir ExportDirectory
	sr := io.NewSectionReader(r, int64(exportDirOffset), int64(exportDirSize))
	if err := binary.Read(sr, binary.LittleEndian, &exportDir); err != nil {
		return nil, fmt.Errorf("读取导出目录失败: %w", err)
	}

	if exportDir.NumberOfNames == 0 {
		return nil, nil
	}

	namePointersOffset, err := rvaToOffset(f, exportDir.AddressOfNames)
	if err != nil {
		return nil, err
	}

	namePointers := make([]uint32, exportDir.NumberOfNames)
	sr = io.NewSectionReader(r, int64(namePointersOffset), int64(exportDir.NumberOfNames*4))
	if err := binary.Read(sr, binary.LittleEndian, &namePointers); err != nil {
		return nil, fmt.Errorf("读取导出名称指针失败: %w", err)
	}

	// Individual bad name pointers are skipped, not fatal.
	var exports []string
	for _, nameRVA := range namePointers {
		nameOffset, err := rvaToOffset(f, nameRVA)
		if err != nil {
			continue
		}
		name, err := readCString(r, int64(nameOffset))
		if err != nil {
			continue
		}
		exports = append(exports, name)
	}

	return exports, nil
}

// rvaToOffset converts an RVA to a file offset via the section table.
func rvaToOffset(f *pe.File, rva uint32) (uint32, error) {
	for _, section := range f.Sections {
		if rva >= section.VirtualAddress && rva < section.VirtualAddress+section.VirtualSize {
			return rva - section.VirtualAddress + section.Offset, nil
		}
	}
	return 0, fmt.Errorf("RVA 0x%X 不在任何节区内", rva)
}

// readCString reads a NUL-terminated string of at most 256 bytes.
func readCString(r io.ReaderAt, offset int64) (string, error) {
	buf := make([]byte, 256)
	n, err := r.ReadAt(buf, offset)
	if n == 0 && err != nil {
		return "", err
	}
	if i := bytes.IndexByte(buf[:n], 0); i >= 0 {
		return string(buf[:i]), nil
	}
	return string(buf[:n]), nil
}
