// Package macho extracts a structural view from Mach-O files: header, load
// commands, segments with nested sections, symbol table, imports and linked
// libraries, plus the normalized range model used for offset correlation.
// Fat binaries are analyzed per architecture slice.
package macho

import (
	"bytes"
	"debug/macho"
	"encoding/binary"
	"fmt"

	"github.com/ZacharyZcR/BinScope/internal/binfile"
	"github.com/ZacharyZcR/BinScope/internal/layout"
	"github.com/ZacharyZcR/BinScope/internal/xref"
)

// TypeCategory is a coarse classification of the mach header filetype.
type TypeCategory int

const (
	TypeOther TypeCategory = iota
	TypeObject
	TypeExec
	TypeDylib
	TypeCore
)

// Info contains analyzed Mach-O file information for one architecture slice.
type Info struct {
	FilePath     string
	FileSize     int64
	CPU          string
	Type         string
	TypeCategory TypeCategory
	ByteOrder    string
	Is64         bool
	Entry        uint64
	Flags        uint32

	// ArchOffset/ArchSize delimit this slice inside a fat file; both are
	// zero for a thin binary.
	ArchOffset uint64
	ArchSize   uint64

	LoadCommands []string
	Segments     []SegmentInfo
	Symbols      []SymbolInfo
	Imports      []string
	Libraries    []string

	// Ranges is the normalized structural model for this slice; offsets are
	// relative to the slice start.
	Ranges []layout.Range
}

// SegmentInfo contains one segment load command with its nested sections.
type SegmentInfo struct {
	Index    int
	Name     string
	Addr     uint64
	Memsz    uint64
	Offset   uint64
	Filesz   uint64
	Prot     string
	MaxProt  string
	Sections []SectionInfo
}

// SectionInfo contains one section entry.
type SectionInfo struct {
	Index   int
	Name    string
	Segment string
	Addr    uint64
	Size    uint64
	Offset  uint32
	Align   uint32
	Reloff  uint32
	Nreloc  uint32
	Flags   uint32
	Entropy float64
}

// SymbolInfo contains one symbol table entry.
type SymbolInfo struct {
	Name    string
	Type    string
	Stab    bool
	Extern  bool
	Section string
	Desc    uint16
	Value   uint64
}

// Analyzer extracts information from one Mach-O architecture slice.
type Analyzer struct {
	reader  *binfile.Reader
	data    []byte
	archOff uint64
}

// NewAnalyzer creates an analyzer for a thin Mach-O file.
func NewAnalyzer(r *binfile.Reader) *Analyzer {
	return &Analyzer{reader: r, data: r.Data()}
}

// Analyze extracts all information from a thin Mach-O file.
func (a *Analyzer) Analyze() (*Info, error) {
	f, err := macho.NewFile(bytes.NewReader(a.data))
	if err != nil {
		return nil, fmt.Errorf("解析Mach-O文件失败: %w", err)
	}
	return a.analyzeFile(f), nil
}

// AnalyzeFat extracts per-architecture information from a fat Mach-O file.
func AnalyzeFat(r *binfile.Reader) ([]*Info, error) {
	ff, err := macho.NewFatFile(bytes.NewReader(r.Data()))
	if err != nil {
		return nil, fmt.Errorf("解析Mach-O fat文件失败: %w", err)
	}

	infos := make([]*Info, 0, len(ff.Arches))
	for _, arch := range ff.Arches {
		end := uint64(arch.Offset) + uint64(arch.Size)
		if end > uint64(len(r.Data())) {
			// Truncated slice: skip rather than fail the whole file.
			continue
		}
		a := &Analyzer{
			reader:  r,
			data:    r.Data()[arch.Offset:end],
			archOff: uint64(arch.Offset),
		}
		info := a.analyzeFile(arch.File)
		info.ArchOffset = uint64(arch.Offset)
		info.ArchSize = uint64(arch.Size)
		infos = append(infos, info)
	}
	return infos, nil
}

func (a *Analyzer) analyzeFile(f *macho.File) *Info {
	info := &Info{
		FilePath:     a.reader.Path(),
		FileSize:     a.reader.Size(),
		CPU:          cpuName(f.Cpu),
		Type:         typeName(f.Type),
		TypeCategory: typeCategory(f.Type),
		Is64:         f.Magic == macho.Magic64,
		Entry:        findEntry(f),
		Flags:        f.Flags,
	}
	if f.ByteOrder == binary.LittleEndian {
		info.ByteOrder = "little-endian"
	} else {
		info.ByteOrder = "big-endian"
	}

	a.extractLoadCommands(f, info)
	a.extractSegments(f, info)
	a.extractSymbols(f, info)

	if imports, err := f.ImportedSymbols(); err == nil {
		info.Imports = imports
	}
	if libs, err := f.ImportedLibraries(); err == nil {
		info.Libraries = libs
	}

	info.Ranges = layout.MachoRanges(f)

	return info
}

func (a *Analyzer) extractLoadCommands(f *macho.File, info *Info) {
	for _, load := range f.Loads {
		raw := load.Raw()
		if len(raw) < 4 || f.ByteOrder == nil {
			info.LoadCommands = append(info.LoadCommands, "<unreadable>")
			continue
		}
		info.LoadCommands = append(info.LoadCommands, layout.LoadCmdName(f.ByteOrder.Uint32(raw[0:4])))
	}
}

func (a *Analyzer) extractSegments(f *macho.File, info *Info) {
	segIdx := 0
	for _, load := range f.Loads {
		seg, ok := load.(*macho.Segment)
		if !ok {
			continue
		}
		segInfo := SegmentInfo{
			Index:   segIdx,
			Name:    seg.Name,
			Addr:    seg.Addr,
			Memsz:   seg.Memsz,
			Offset:  seg.Offset,
			Filesz:  seg.Filesz,
			Prot:    vmProt(seg.Prot),
			MaxProt: vmProt(seg.Maxprot),
		}

		for i, sec := range f.Sections {
			if sec.Seg != seg.Name {
				continue
			}
			segInfo.Sections = append(segInfo.Sections, SectionInfo{
				Index:   i,
				Name:    sec.Name,
				Segment: sec.Seg,
				Addr:    sec.Addr,
				Size:    sec.Size,
				Offset:  sec.Offset,
				Align:   sec.Align,
				Reloff:  sec.Reloff,
				Nreloc:  sec.Nreloc,
				Flags:   sec.Flags,
				Entropy: binfile.SliceEntropy(a.data, uint64(sec.Offset), sec.Size),
			})
		}

		info.Segments = append(info.Segments, segInfo)
		segIdx++
	}
}

func (a *Analyzer) extractSymbols(f *macho.File, info *Info) {
	if f.Symtab == nil {
		return
	}

	// Section numbers in nlist entries are 1-based; build a matching name
	// table so the shared index policy applies (0 renders empty, past-end
	// renders BAD_IDX). Mach-O has no absolute-index sentinel.
	names := make([]string, len(f.Sections)+1)
	for i, sec := range f.Sections {
		names[i+1] = sec.Name
	}

	for _, sym := range f.Symtab.Syms {
		info.Symbols = append(info.Symbols, SymbolInfo{
			Name:    sym.Name,
			Type:    symTypeName(sym.Type),
			Stab:    sym.Type&nStab != 0,
			Extern:  sym.Type&nExt != 0,
			Section: xref.SectionLabel(int(sym.Sect), -1, names),
			Desc:    sym.Desc,
			Value:   sym.Value,
		})
	}
}

// nlist n_type bits.
const (
	nStab = 0xe0
	nExt  = 0x01
	nType = 0x0e

	nUndf = 0x0
	nAbs  = 0x2
	nIndr = 0xa
	nPbud = 0xc
	nSect = 0xe
)

func symTypeName(t uint8) string {
	if t&nStab != 0 {
		return "STAB"
	}
	switch t & nType {
	case nUndf:
		return "UNDF"
	case nAbs:
		return "ABS"
	case nIndr:
		return "INDR"
	case nPbud:
		return "PBUD"
	case nSect:
		return "SECT"
	default:
		return fmt.Sprintf("(%#x)", t&nType)
	}
}

// vmProt renders a vm_prot_t in the 3-character R/W/X form.
func vmProt(prot uint32) string {
	perms := [3]byte{'-', '-', '-'}
	if prot&0x1 != 0 {
		perms[0] = 'R'
	}
	if prot&0x2 != 0 {
		perms[1] = 'W'
	}
	if prot&0x4 != 0 {
		perms[2] = 'X'
	}
	return string(perms[:])
}
