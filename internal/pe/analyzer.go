// Package pe extracts a structural view from PE files: basic header info,
// sections with permissions and entropy, imports, exports, base relocation
// summary, checksum and signature presence. PE structures carry RVAs rather
// than a file-offset/vaddr correlation, so no range model is built here.
package pe

import (
	"bytes"
	"debug/pe"
	"fmt"
	"strings"

	"github.com/ZacharyZcR/BinScope/internal/binfile"
)

// Info contains analyzed PE file information.
type Info struct {
	FilePath     string
	FileSize     int64
	Architecture string
	Subsystem    string
	EntryPoint   uint64
	ImageBase    uint64
	Checksum     *ChecksumInfo
	Signature    *SignatureInfo
	Relocations  *RelocationInfo
	Sections     []SectionInfo
	Imports      []ImportInfo
	Exports      []string
}

// SectionInfo contains information about a PE section.
type SectionInfo struct {
	Name            string
	VirtualAddress  uint32
	VirtualSize     uint32
	Size            uint32
	Offset          uint32
	Characteristics uint32
	Permissions     string
	Entropy         float64
}

// ImportInfo contains information about an imported DLL and its functions.
type ImportInfo struct {
	DLL       string
	Functions []string
}

// Analyzer extracts information from PE files.
type Analyzer struct {
	reader *binfile.Reader
}

// NewAnalyzer creates a new analyzer for the given reader.
func NewAnalyzer(r *binfile.Reader) *Analyzer {
	return &Analyzer{reader: r}
}

// Analyze extracts all information from the PE file.
func (a *Analyzer) Analyze() (*Info, error) {
	f, err := pe.NewFile(bytes.NewReader(a.reader.Data()))
	if err != nil {
		return nil, fmt.Errorf("解析PE文件失败: %w", err)
	}

	info := &Info{
		FilePath: a.reader.Path(),
		FileSize: a.reader.Size(),
	}

	a.extractBasicInfo(f, info)
	a.extractSections(f, info)
	a.extractImports(f, info)
	a.extractExports(f, info)
	a.extractRelocations(f, info)
	a.verifyChecksum(f, info)
	a.checkSignature(f, info)

	return info, nil
}

func (a *Analyzer) extractBasicInfo(f *pe.File, info *Info) {
	switch f.Machine {
	case pe.IMAGE_FILE_MACHINE_I386:
		info.Architecture = "x86 (32位)"
	case pe.IMAGE_FILE_MACHINE_AMD64:
		info.Architecture = "x64 (64位)"
	case pe.IMAGE_FILE_MACHINE_ARM:
		info.Architecture = "ARM"
	case pe.IMAGE_FILE_MACHINE_ARM64:
		info.Architecture = "ARM64"
	default:
		info.Architecture = fmt.Sprintf("未知 (0x%X)", f.Machine)
	}

	if opt, ok := f.OptionalHeader.(*pe.OptionalHeader32); ok {
		info.EntryPoint = uint64(opt.AddressOfEntryPoint)
		info.ImageBase = uint64(opt.ImageBase)
		info.Subsystem = getSubsystem(opt.Subsystem)
	} else if opt, ok := f.OptionalHeader.(*pe.OptionalHeader64); ok {
		info.EntryPoint = uint64(opt.AddressOfEntryPoint)
		info.ImageBase = opt.ImageBase
		info.Subsystem = getSubsystem(opt.Subsystem)
	}
}

func (a *Analyzer) extractSections(f *pe.File, info *Info) {
	for _, section := range f.Sections {
		info.Sections = append(info.Sections, SectionInfo{
			Name:            section.Name,
			VirtualAddress:  section.VirtualAddress,
			VirtualSize:     section.VirtualSize,
			Size:            section.Size,
			Offset:          section.Offset,
			Characteristics: section.Characteristics,
			Permissions:     getSectionPermissions(section.Characteristics),
			Entropy:         binfile.SliceEntropy(a.reader.Data(), uint64(section.Offset), uint64(section.Size)),
		})
	}
}

func (a *Analyzer) extractImports(f *pe.File, info *Info) {
	symbols, err := f.ImportedSymbols()
	if err != nil {
		return
	}

	// Symbols arrive as "FunctionName:DLL.dll"; group them per DLL while
	// preserving first-seen DLL order.
	dllMap := make(map[string][]string)
	var order []string
	for _, symbol := range symbols {
		parts := strings.Split(symbol, ":")
		if len(parts) != 2 {
			continue
		}
		if _, seen := dllMap[parts[1]]; !seen {
			order = append(order, parts[1])
		}
		dllMap[parts[1]] = append(dllMap[parts[1]], parts[0])
	}

	for _, dll := range order {
		info.Imports = append(info.Imports, ImportInfo{
			DLL:       dll,
			Functions: dllMap[dll],
		})
	}
}

func (a *Analyzer) extractExports(f *pe.File, info *Info) {
	exports, err := parseExports(f, bytes.NewReader(a.reader.Data()))
	if err != nil {
		// Malformed export directories stay silent; the listing is empty.
		return
	}
	info.Exports = exports
}

func (a *Analyzer) extractRelocations(f *pe.File, info *Info) {
	relocs, err := ParseRelocations(f, bytes.NewReader(a.reader.Data()))
	if err != nil {
		return
	}
	info.Relocations = relocs
}

func (a *Analyzer) verifyChecksum(f *pe.File, info *Info) {
	checksum, err := VerifyChecksum(f, bytes.NewReader(a.reader.Data()), a.reader.Size())
	if err != nil {
		return
	}
	info.Checksum = checksum
}

func (a *Analyzer) checkSignature(f *pe.File, info *Info) {
	info.Signature = CheckSignature(f)
}

func getSubsystem(subsystem uint16) string {
	switch subsystem {
	case pe.IMAGE_SUBSYSTEM_WINDOWS_GUI:
		return "Windows GUI"
	case pe.IMAGE_SUBSYSTEM_WINDOWS_CUI:
		return "Windows 控制台"
	case pe.IMAGE_SUBSYSTEM_NATIVE:
		return "Native"
	default:
		return fmt.Sprintf("未知 (0x%X)", subsystem)
	}
}

func getSectionPermissions(c uint32) string {
	perms := [3]byte{'-', '-', '-'}
	if c&pe.IMAGE_SCN_MEM_READ != 0 {
		perms[0] = 'R'
	}
	if c&pe.IMAGE_SCN_MEM_WRITE != 0 {
		perms[1] = 'W'
	}
	if c&pe.IMAGE_SCN_MEM_EXECUTE != 0 {
		perms[2] = 'X'
	}
	return string(perms[:])
}
