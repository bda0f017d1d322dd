// Package elf extracts a structural view from ELF files: header fields,
// program headers, sections, symbol tables, relocations and dynamic linking
// metadata, plus the normalized range model used for offset correlation.
package elf

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/ZacharyZcR/BinScope/internal/binfile"
	"github.com/ZacharyZcR/BinScope/internal/layout"
	"github.com/ZacharyZcR/BinScope/internal/xref"
)

// TypeCategory is a coarse classification of e_type for display dispatch.
type TypeCategory int

const (
	TypeOther TypeCategory = iota
	TypeRel
	TypeExec
	TypeDyn
	TypeCore
)

// ProgCategory is a coarse classification of a program header type.
type ProgCategory int

const (
	ProgOther ProgCategory = iota
	ProgLoad
	ProgInterp
	ProgDynamic
)

// Info contains analyzed ELF file information.
type Info struct {
	FilePath     string
	FileSize     int64
	Class        string
	ByteOrder    string
	Type         string
	TypeCategory TypeCategory
	Machine      string
	OSABI        string
	Entry        uint64
	Is64         bool
	LittleEndian bool

	Header       HeaderInfo
	ProgHeaders  []ProgHeaderInfo
	Sections     []SectionInfo
	SectionNames []string

	Symbols     []xref.Symbol
	DynSymbols  []xref.Symbol
	RelocGroups []RelocGroup

	Dynamic     []DynEntry
	Libraries   []string
	Soname      string
	Interpreter string

	// Ranges is the normalized structural model consumed by the offset
	// locator and the correlation reporter.
	Ranges []layout.Range
}

// HeaderInfo carries the raw ELF header fields debug/elf does not expose.
type HeaderInfo struct {
	PhOff     uint64
	ShOff     uint64
	Flags     uint32
	EhSize    uint16
	PhEntSize uint16
	PhNum     uint16
	ShEntSize uint16
	ShNum     uint16
	ShStrNdx  uint16
}

// ProgHeaderInfo contains one program header entry.
type ProgHeaderInfo struct {
	Index    int
	Type     string
	Category ProgCategory
	Flags    string
	RawFlags uint32
	Offset   uint64
	Vaddr    uint64
	Paddr    uint64
	Filesz   uint64
	Memsz    uint64
	Align    uint64
}

// SectionInfo contains one section header entry.
type SectionInfo struct {
	Index    int
	Name     string
	Type     string
	Flags    string
	RawFlags uint64
	Offset   uint64
	Addr     uint64
	Size     uint64
	Link     string
	Info     uint32
	Entsize  uint64
	Align    uint64
	Entropy  float64
}

// Analyzer extracts information from ELF files.
type Analyzer struct {
	reader *binfile.Reader
}

// NewAnalyzer creates a new analyzer for the given reader.
func NewAnalyzer(r *binfile.Reader) *Analyzer {
	return &Analyzer{reader: r}
}

// Analyze extracts all information from the ELF file.
func (a *Analyzer) Analyze() (*Info, error) {
	f, err := elf.NewFile(bytes.NewReader(a.reader.Data()))
	if err != nil {
		return nil, fmt.Errorf("解析ELF文件失败: %w", err)
	}

	info := &Info{
		FilePath:     a.reader.Path(),
		FileSize:     a.reader.Size(),
		Class:        strings.TrimPrefix(f.Class.String(), "ELFCLASS"),
		Type:         f.Type.String(),
		TypeCategory: typeCategory(f.Type),
		Machine:      f.Machine.String(),
		OSABI:        f.OSABI.String(),
		Entry:        f.Entry,
		Is64:         f.Class == elf.ELFCLASS64,
		LittleEndian: f.Data == elf.ELFDATA2LSB,
	}
	if info.LittleEndian {
		info.ByteOrder = "little-endian"
	} else {
		info.ByteOrder = "big-endian"
	}

	if err := a.extractRawHeader(f, info); err != nil {
		return nil, err
	}

	a.extractProgHeaders(f, info)
	a.extractSections(f, info)
	a.extractSymbols(f, info)
	a.extractRelocations(f, info)
	a.extractDynamic(f, info)

	info.Ranges = layout.ElfRanges(f)

	return info, nil
}

// extractRawHeader re-reads the raw ELF header for the offset and count
// fields that debug/elf.FileHeader leaves out.
func (a *Analyzer) extractRawHeader(f *elf.File, info *Info) error {
	r := bytes.NewReader(a.reader.Data())

	if f.Class == elf.ELFCLASS64 {
		var hdr elf.Header64
		if err := binary.Read(r, f.ByteOrder, &hdr); err != nil {
			return fmt.Errorf("读取ELF头失败: %w", err)
		}
		info.Header = HeaderInfo{
			PhOff:     hdr.Phoff,
			ShOff:     hdr.Shoff,
			Flags:     hdr.Flags,
			EhSize:    hdr.Ehsize,
			PhEntSize: hdr.Phentsize,
			PhNum:     hdr.Phnum,
			ShEntSize: hdr.Shentsize,
			ShNum:     hdr.Shnum,
			ShStrNdx:  hdr.Shstrndx,
		}
		return nil
	}

	var hdr elf.Header32
	if err := binary.Read(r, f.ByteOrder, &hdr); err != nil {
		return fmt.Errorf("读取ELF头失败: %w", err)
	}
	info.Header = HeaderInfo{
		PhOff:     uint64(hdr.Phoff),
		ShOff:     uint64(hdr.Shoff),
		Flags:     hdr.Flags,
		EhSize:    hdr.Ehsize,
		PhEntSize: hdr.Phentsize,
		PhNum:     hdr.Phnum,
		ShEntSize: hdr.Shentsize,
		ShNum:     hdr.Shnum,
		ShStrNdx:  hdr.Shstrndx,
	}
	return nil
}

func (a *Analyzer) extractProgHeaders(f *elf.File, info *Info) {
	for i, prog := range f.Progs {
		info.ProgHeaders = append(info.ProgHeaders, ProgHeaderInfo{
			Index:    i,
			Type:     prog.Type.String(),
			Category: progCategory(prog.Type),
			Flags:    progPermissions(prog.Flags),
			RawFlags: uint32(prog.Flags),
			Offset:   prog.Off,
			Vaddr:    prog.Vaddr,
			Paddr:    prog.Paddr,
			Filesz:   prog.Filesz,
			Memsz:    prog.Memsz,
			Align:    prog.Align,
		})

		if prog.Type == elf.PT_INTERP {
			data, err := io.ReadAll(prog.Open())
			if err == nil {
				info.Interpreter = strings.TrimRight(string(data), "\x00")
			}
		}
	}
}

func (a *Analyzer) extractSections(f *elf.File, info *Info) {
	info.SectionNames = sectionNames(f)

	for i, sec := range f.Sections {
		entropy := 0.0
		if sec.Type != elf.SHT_NOBITS && sec.Size > 0 {
			entropy = binfile.SliceEntropy(a.reader.Data(), sec.Offset, sec.Size)
		}

		info.Sections = append(info.Sections, SectionInfo{
			Index:    i,
			Name:     sec.Name,
			Type:     sec.Type.String(),
			Flags:    sectionFlags(sec.Flags),
			RawFlags: uint64(sec.Flags),
			Offset:   sec.Offset,
			Addr:     sec.Addr,
			Size:     sec.Size,
			Link:     xref.SectionLabel(int(sec.Link), int(elf.SHN_ABS), info.SectionNames),
			Info:     sec.Info,
			Entsize:  sec.Entsize,
			Align:    sec.Addralign,
			Entropy:  entropy,
		})
	}
}

func (a *Analyzer) extractSymbols(f *elf.File, info *Info) {
	// Absent symbol tables are normal for stripped binaries; the listing
	// just stays empty.
	if syms, err := f.Symbols(); err == nil {
		info.Symbols = resolveSymbols(syms, info.SectionNames)
	}
	if syms, err := f.DynamicSymbols(); err == nil {
		info.DynSymbols = resolveSymbols(syms, info.SectionNames)
	}
}

func (a *Analyzer) extractDynamic(f *elf.File, info *Info) {
	info.Dynamic = parseDynamic(f)

	if libs, err := f.ImportedLibraries(); err == nil {
		info.Libraries = libs
	}
	if sonames, err := f.DynString(elf.DT_SONAME); err == nil && len(sonames) > 0 {
		info.Soname = sonames[0]
	}
}

func resolveSymbols(syms []elf.Symbol, sectionNames []string) []xref.Symbol {
	out := make([]xref.Symbol, 0, len(syms))
	for _, sym := range syms {
		out = append(out, xref.ResolveSymbol(sym, int(elf.SHN_ABS), sectionNames))
	}
	return out
}

func sectionNames(f *elf.File) []string {
	names := make([]string, len(f.Sections))
	for i, sec := range f.Sections {
		names[i] = sec.Name
	}
	return names
}

func typeCategory(t elf.Type) TypeCategory {
	switch t {
	case elf.ET_REL:
		return TypeRel
	case elf.ET_EXEC:
		return TypeExec
	case elf.ET_DYN:
		return TypeDyn
	case elf.ET_CORE:
		return TypeCore
	default:
		return TypeOther
	}
}

func progCategory(t elf.ProgType) ProgCategory {
	switch t {
	case elf.PT_LOAD:
		return ProgLoad
	case elf.PT_INTERP:
		return ProgInterp
	case elf.PT_DYNAMIC:
		return ProgDynamic
	default:
		return ProgOther
	}
}

// progPermissions renders p_flags in the 3-character R/W/X form.
func progPermissions(flags elf.ProgFlag) string {
	perms := [3]byte{'-', '-', '-'}
	if flags&elf.PF_R != 0 {
		perms[0] = 'R'
	}
	if flags&elf.PF_W != 0 {
		perms[1] = 'W'
	}
	if flags&elf.PF_X != 0 {
		perms[2] = 'X'
	}
	return string(perms[:])
}

// sectionFlags renders sh_flags as space-separated names without the SHF_
// prefix, e.g. "WRITE ALLOC".
func sectionFlags(flags elf.SectionFlag) string {
	if flags == 0 {
		return ""
	}
	s := flags.String()
	s = strings.ReplaceAll(s, "SHF_", "")
	return strings.ReplaceAll(s, "+", " ")
}
