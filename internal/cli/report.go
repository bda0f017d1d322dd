// Package cli formats and prints analysis reports.
package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/ianlancetaylor/demangle"

	"github.com/ZacharyZcR/BinScope/internal/archive"
	"github.com/ZacharyZcR/BinScope/internal/elf"
	"github.com/ZacharyZcR/BinScope/internal/layout"
	"github.com/ZacharyZcR/BinScope/internal/macho"
	"github.com/ZacharyZcR/BinScope/internal/pe"
	"github.com/ZacharyZcR/BinScope/internal/xref"
)

// Reporter formats and prints analysis results.
type Reporter struct {
	verbose  bool
	demangle bool
}

// NewReporter creates a new reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// SetVerbose enables verbose mode (no list truncation).
func (r *Reporter) SetVerbose(verbose bool) {
	r.verbose = verbose
}

// SetDemangle enables C++/Rust symbol demangling on display.
func (r *Reporter) SetDemangle(enabled bool) {
	r.demangle = enabled
}

// symName renders a symbol name, demangled when enabled.
func (r *Reporter) symName(name string) string {
	if r.demangle && name != "" {
		return demangle.Filter(name)
	}
	return name
}

func printHeader() {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Println("\n╔════════════════════════════════════════╗")
	cyan.Println("║          BinScope 分析报告             ║")
	cyan.Println("╚════════════════════════════════════════╝")
}

func sectionTitle(format string, args ...interface{}) {
	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Printf("\n"+format+"\n", args...)
}

// limit applies the truncation policy to a list length.
func (r *Reporter) limit(total, max int) int {
	if r.verbose || total <= max {
		return total
	}
	return max
}

func printTruncated(total, shown int, what string) {
	if total > shown {
		gray := color.New(color.FgHiBlack)
		gray.Printf("  ... (还有 %d 个%s)\n", total-shown, what)
	}
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// ---------------------------------------------------------------------------
// ELF

// PrintELF outputs the complete ELF analysis report.
func (r *Reporter) PrintELF(info *elf.Info) {
	printHeader()
	r.printELFBasicInfo(info)
	r.printELFProgHeaders(info)
	r.printELFSections(info)
	r.printSymbolTable("符号表", info.Symbols)
	r.printSymbolTable("动态符号表", info.DynSymbols)
	r.printELFRelocations(info)
	r.printELFDynamic(info)
	r.printLibraries(info.Libraries)
}

func (r *Reporter) printELFBasicInfo(info *elf.Info) {
	sectionTitle("【基本信息】")

	typeColor := color.New(color.FgWhite, color.Bold)
	switch info.TypeCategory {
	case elf.TypeRel:
		typeColor = color.New(color.FgYellow, color.Bold)
	case elf.TypeExec:
		typeColor = color.New(color.FgRed, color.Bold)
	case elf.TypeDyn:
		typeColor = color.New(color.FgBlue, color.Bold)
	case elf.TypeCore:
		typeColor = color.New(color.FgHiBlack, color.Bold)
	}

	fmt.Printf("  %-12s: %s\n", "文件路径", info.FilePath)
	fmt.Printf("  %-12s: %s\n", "文件大小", formatSize(info.FileSize))
	fmt.Printf("  %-12s: ELF%s %s %s ", "格式", info.Class, info.Machine, info.ByteOrder)
	typeColor.Println(info.Type)
	fmt.Printf("  %-12s: %s\n", "OS/ABI", info.OSABI)
	fmt.Printf("  %-12s: ", "入口点")
	color.New(color.FgRed).Printf("0x%X\n", info.Entry)
	if info.Interpreter != "" {
		fmt.Printf("  %-12s: %s\n", "解释器", info.Interpreter)
	}
	if info.Soname != "" {
		fmt.Printf("  %-12s: %s\n", "Soname", info.Soname)
	}

	h := info.Header
	fmt.Printf("  e_phoff: 0x%x  e_shoff: 0x%x  e_flags: 0x%x  e_ehsize: %d\n",
		h.PhOff, h.ShOff, h.Flags, h.EhSize)
	fmt.Printf("  e_phentsize: %d  e_phnum: %d  e_shentsize: %d  e_shnum: %d  e_shstrndx: %d\n",
		h.PhEntSize, h.PhNum, h.ShEntSize, h.ShNum, h.ShStrNdx)
}

func (r *Reporter) printELFProgHeaders(info *elf.Info) {
	sectionTitle("【程序头】(共 %d 个)", len(info.ProgHeaders))
	if len(info.ProgHeaders) == 0 {
		fmt.Println("  未发现程序头")
		return
	}

	fmt.Println(strings.Repeat("-", 100))
	fmt.Printf("  %-4s %-16s %-6s %-12s %-12s %-12s %-12s %-8s\n",
		"Idx", "类型", "权限", "偏移", "虚拟地址", "文件大小", "内存大小", "对齐")
	fmt.Println(strings.Repeat("-", 100))

	for _, ph := range info.ProgHeaders {
		typeColor := color.New(color.FgWhite)
		switch ph.Category {
		case elf.ProgLoad:
			typeColor = color.New(color.FgRed)
		case elf.ProgInterp:
			typeColor = color.New(color.FgYellow)
		case elf.ProgDynamic:
			typeColor = color.New(color.FgCyan)
		}

		fmt.Printf("  %-4d ", ph.Index)
		typeColor.Printf("%-16s", ph.Type)
		fmt.Printf(" %-6s 0x%-10x 0x%-10x 0x%-10x 0x%-10x 0x%x\n",
			ph.Flags, ph.Offset, ph.Vaddr, ph.Filesz, ph.Memsz, ph.Align)
	}
	fmt.Println(strings.Repeat("-", 100))
}

func (r *Reporter) printELFSections(info *elf.Info) {
	sectionTitle("【节区头】(共 %d 个)", len(info.Sections))
	if len(info.Sections) == 0 {
		fmt.Println("  未发现节区")
		return
	}

	fmt.Println(strings.Repeat("-", 110))
	fmt.Printf("  %-4s %-20s %-14s %-12s %-12s %-10s %-16s %s\n",
		"Idx", "名称", "类型", "偏移", "地址", "大小", "链接", "熵值")
	fmt.Println(strings.Repeat("-", 110))

	for _, sec := range info.Sections {
		name := sec.Name
		if name == "" {
			name = "(null)"
		}
		fmt.Printf("  %-4d %-20s %-14s 0x%-10x 0x%-10x 0x%-8x %-16s %.2f\n",
			sec.Index, name, strings.TrimPrefix(sec.Type, "SHT_"),
			sec.Offset, sec.Addr, sec.Size, sec.Link, sec.Entropy)
		if sec.Flags != "" {
			gray := color.New(color.FgHiBlack)
			gray.Printf("       %s\n", sec.Flags)
		}
	}
	fmt.Println(strings.Repeat("-", 110))
}

func (r *Reporter) printSymbolTable(title string, syms []xref.Symbol) {
	sectionTitle("【%s】(共 %d 个)", title, len(syms))
	if len(syms) == 0 {
		fmt.Println("  未发现符号")
		return
	}

	shown := r.limit(len(syms), 25)
	for i := 0; i < shown; i++ {
		sym := syms[i]

		bindColor := color.New(color.FgWhite)
		switch sym.Binding {
		case xref.BindLocal:
			bindColor = color.New(color.FgCyan)
		case xref.BindGlobal:
			bindColor = color.New(color.FgRed)
		case xref.BindWeak:
			bindColor = color.New(color.FgMagenta)
		}

		kindColor := color.New(color.FgWhite)
		switch sym.Kind {
		case xref.KindObject:
			kindColor = color.New(color.FgYellow)
		case xref.KindFunc:
			kindColor = color.New(color.FgRed)
		case xref.KindIFunc:
			kindColor = color.New(color.FgCyan)
		}

		fmt.Printf("  %16x ", sym.Value)
		bindColor.Printf("%-8s", sym.BindName)
		fmt.Print(" ")
		kindColor.Printf("%-9s", sym.KindName)
		fmt.Print(" ")
		color.New(color.FgYellow, color.Bold).Print(r.symName(sym.Name))
		fmt.Print(" ")
		color.New(color.FgGreen).Printf("(0x%x)", sym.Size)
		if sym.Section != "" {
			fmt.Printf(" %s", sym.Section)
		}
		fmt.Println()
	}
	printTruncated(len(syms), shown, "符号")
}

func (r *Reporter) printELFRelocations(info *elf.Info) {
	total := 0
	for _, g := range info.RelocGroups {
		total += len(g.Relocs)
	}
	sectionTitle("【重定位】(共 %d 条)", total)
	if total == 0 {
		fmt.Println("  未发现重定位")
		return
	}

	for _, group := range info.RelocGroups {
		green := color.New(color.FgGreen)
		if group.Target != "" {
			green.Printf("  %s -> %s (%d 条)\n", group.Name, group.Target, len(group.Relocs))
		} else {
			green.Printf("  %s (%d 条)\n", group.Name, len(group.Relocs))
		}

		shown := r.limit(len(group.Relocs), 20)
		for i := 0; i < shown; i++ {
			rel := group.Relocs[i]
			if rel.Name != "ABS" {
				rel.Name = r.symName(rel.Name)
			}
			fmt.Printf("  %16x ", rel.Offset)
			fmt.Printf("%-24s ", rel.Type)
			color.New(color.FgYellow).Println(rel.Target())
		}
		printTruncated(len(group.Relocs), shown, "重定位")
	}
}

func (r *Reporter) printELFDynamic(info *elf.Info) {
	sectionTitle("【动态段】(共 %d 项)", len(info.Dynamic))
	if len(info.Dynamic) == 0 {
		fmt.Println("  未发现动态段")
		return
	}

	for _, entry := range info.Dynamic {
		color.New(color.FgCyan).Printf("  %-20s ", entry.Tag)
		switch entry.Kind {
		case elf.DynString:
			color.New(color.FgYellow, color.Bold).Println(entry.Str)
		case elf.DynAddr:
			color.New(color.FgRed).Printf("0x%x\n", entry.Value)
		case elf.DynSize:
			color.New(color.FgGreen).Printf("0x%x\n", entry.Value)
		default:
			fmt.Printf("0x%x\n", entry.Value)
		}
	}
}

func (r *Reporter) printLibraries(libs []string) {
	sectionTitle("【依赖库】(共 %d 个)", len(libs))
	if len(libs) == 0 {
		fmt.Println("  未发现依赖库")
		return
	}
	blue := color.New(color.FgBlue)
	for _, lib := range libs {
		blue.Printf("  %s\n", lib)
	}
}

// ---------------------------------------------------------------------------
// Mach-O

// PrintMachO outputs the complete report for one Mach-O architecture slice.
func (r *Reporter) PrintMachO(info *macho.Info) {
	printHeader()
	r.printMachOBasicInfo(info)
	r.printMachOLoadCommands(info)
	r.printMachOSegments(info)
	r.printMachOSymbols(info)
	r.printMachOImports(info)
	r.printLibraries(info.Libraries)
}

func (r *Reporter) printMachOBasicInfo(info *macho.Info) {
	sectionTitle("【基本信息】")

	typeColor := color.New(color.FgWhite, color.Bold)
	switch info.TypeCategory {
	case macho.TypeObject:
		typeColor = color.New(color.FgYellow, color.Bold)
	case macho.TypeExec:
		typeColor = color.New(color.FgRed, color.Bold)
	case macho.TypeDylib:
		typeColor = color.New(color.FgBlue, color.Bold)
	case macho.TypeCore:
		typeColor = color.New(color.FgHiBlack, color.Bold)
	}

	fmt.Printf("  %-12s: %s\n", "文件路径", info.FilePath)
	fmt.Printf("  %-12s: %s\n", "文件大小", formatSize(info.FileSize))
	fmt.Printf("  %-12s: Mach-O %s %s ", "格式", info.CPU, info.ByteOrder)
	typeColor.Println(info.Type)
	if info.ArchSize != 0 {
		fmt.Printf("  %-12s: 偏移 0x%X, 大小 %s\n", "Fat切片",
			info.ArchOffset, formatSize(int64(info.ArchSize)))
	}
	fmt.Printf("  %-12s: ", "入口点")
	color.New(color.FgRed).Printf("0x%X\n", info.Entry)
	fmt.Printf("  %-12s: 0x%x\n", "标志", info.Flags)
}

func (r *Reporter) printMachOLoadCommands(info *macho.Info) {
	sectionTitle("【加载命令】(共 %d 个)", len(info.LoadCommands))
	for i, cmd := range info.LoadCommands {
		cmdColor := color.New(color.FgWhite)
		switch {
		case strings.HasPrefix(cmd, "LC_SEGMENT"):
			cmdColor = color.New(color.FgRed)
		case cmd == "LC_SYMTAB" || cmd == "LC_LOAD_DYLINKER":
			cmdColor = color.New(color.FgYellow)
		case cmd == "LC_DYSYMTAB":
			cmdColor = color.New(color.FgGreen)
		case strings.Contains(cmd, "DYLIB"):
			cmdColor = color.New(color.FgBlue)
		case strings.HasPrefix(cmd, "LC_DYLD_INFO"):
			cmdColor = color.New(color.FgCyan)
		case cmd == "LC_MAIN" || cmd == "LC_UNIXTHREAD":
			cmdColor = color.New(color.FgRed)
		}
		fmt.Printf("  %-4d ", i)
		cmdColor.Println(cmd)
	}
}

func (r *Reporter) printMachOSegments(info *macho.Info) {
	sectionTitle("【段】(共 %d 个)", len(info.Segments))
	for _, seg := range info.Segments {
		color.New(color.FgGreen, color.Bold).Printf("  %d: %s", seg.Index, seg.Name)
		fmt.Printf("  地址: ")
		color.New(color.FgRed).Printf("0x%x", seg.Addr)
		fmt.Printf("  偏移: ")
		color.New(color.FgYellow).Printf("0x%x", seg.Offset)
		fmt.Printf("  文件大小: ")
		color.New(color.FgGreen).Printf("0x%x", seg.Filesz)
		fmt.Printf("  权限: %s/%s  (%d 个节区)\n", seg.Prot, seg.MaxProt, len(seg.Sections))

		for _, sec := range seg.Sections {
			fmt.Printf("    %-4d ", sec.Index)
			color.New(color.FgYellow, color.Bold).Printf("%-18s", sec.Name)
			fmt.Print(" 地址: ")
			color.New(color.FgRed).Printf("0x%-10x", sec.Addr)
			fmt.Print(" 大小: ")
			color.New(color.FgGreen).Printf("0x%-8x", sec.Size)
			fmt.Print(" 偏移: ")
			color.New(color.FgYellow).Printf("0x%-8x", uint64(sec.Offset))
			fmt.Printf(" 对齐: 2^%d", sec.Align)
			if sec.Nreloc > 0 {
				fmt.Printf(" 重定位: %d", sec.Nreloc)
			}
			fmt.Printf(" 熵值: %.2f\n", sec.Entropy)
		}
	}
}

func (r *Reporter) printMachOSymbols(info *macho.Info) {
	sectionTitle("【符号表】(共 %d 个)", len(info.Symbols))
	if len(info.Symbols) == 0 {
		fmt.Println("  未发现符号")
		return
	}

	shown := r.limit(len(info.Symbols), 25)
	for i := 0; i < shown; i++ {
		sym := info.Symbols[i]

		typeColor := color.New(color.FgWhite)
		switch {
		case sym.Stab:
			typeColor = color.New(color.FgHiBlack)
		case sym.Extern:
			typeColor = color.New(color.FgRed)
		}

		fmt.Printf("  %16x ", sym.Value)
		typeColor.Printf("%-5s", sym.Type)
		fmt.Print(" ")
		color.New(color.FgYellow, color.Bold).Print(r.symName(sym.Name))
		if sym.Section != "" {
			fmt.Printf(" %s", sym.Section)
		}
		fmt.Println()
	}
	printTruncated(len(info.Symbols), shown, "符号")
}

func (r *Reporter) printMachOImports(info *macho.Info) {
	sectionTitle("【导入符号】(共 %d 个)", len(info.Imports))
	if len(info.Imports) == 0 {
		fmt.Println("  未发现导入符号")
		return
	}

	shown := r.limit(len(info.Imports), 20)
	for i := 0; i < shown; i++ {
		fmt.Printf("  %s\n", r.symName(info.Imports[i]))
	}
	printTruncated(len(info.Imports), shown, "符号")
}

// ---------------------------------------------------------------------------
// PE

// PrintPE outputs the complete PE analysis report.
func (r *Reporter) PrintPE(info *pe.Info) {
	printHeader()
	r.printPEBasicInfo(info)
	r.printPESections(info)
	r.printPEImports(info)
	r.printPEExports(info)
}

func (r *Reporter) printPEBasicInfo(info *pe.Info) {
	sectionTitle("【基本信息】")

	fmt.Printf("  %-12s: %s\n", "文件路径", info.FilePath)
	fmt.Printf("  %-12s: %s\n", "文件大小", formatSize(info.FileSize))
	fmt.Printf("  %-12s: PE %s\n", "格式", info.Architecture)
	fmt.Printf("  %-12s: %s\n", "子系统", info.Subsystem)
	fmt.Printf("  %-12s: ", "入口点")
	color.New(color.FgRed).Printf("0x%X\n", info.EntryPoint)
	fmt.Printf("  %-12s: 0x%X\n", "镜像基址", info.ImageBase)

	if info.Checksum != nil {
		fmt.Printf("  %-12s: ", "校验和")
		if info.Checksum.Stored == 0 {
			color.New(color.FgHiBlack).Print("未设置")
		} else if info.Checksum.Valid {
			color.New(color.FgGreen).Printf("✓ 有效 (0x%08X)", info.Checksum.Stored)
		} else {
			color.New(color.FgRed, color.Bold).Printf("✗ 无效 (存储: 0x%08X, 计算: 0x%08X)",
				info.Checksum.Stored, info.Checksum.Computed)
		}
		fmt.Println()
	}

	if info.Signature != nil {
		fmt.Printf("  %-12s: ", "数字签名")
		if info.Signature.IsSigned {
			color.New(color.FgGreen).Printf("存在 (偏移: 0x%X, 大小: %d 字节)",
				info.Signature.Offset, info.Signature.Size)
		} else {
			color.New(color.FgHiBlack).Print("无")
		}
		fmt.Println()
	}

	if info.Relocations != nil && info.Relocations.HasRelocations {
		fmt.Printf("  %-12s: %d 个块, %d 条目\n", "基址重定位",
			info.Relocations.BlockCount, info.Relocations.TotalEntries)
	}
}

func (r *Reporter) printPESections(info *pe.Info) {
	sectionTitle("【节区信息】(共 %d 个)", len(info.Sections))
	if len(info.Sections) == 0 {
		fmt.Println("  未发现节区")
		return
	}

	fmt.Println(strings.Repeat("-", 100))
	fmt.Printf("  %-10s %-12s %-15s %-15s %-8s %s\n",
		"名称", "虚拟地址", "虚拟大小", "原始大小", "权限", "熵值")
	fmt.Println(strings.Repeat("-", 100))

	for _, section := range info.Sections {
		permColor := color.New(color.FgWhite)
		if section.Permissions == "RWX" {
			permColor = color.New(color.FgRed, color.Bold)
		} else if strings.Contains(section.Permissions, "X") {
			permColor = color.New(color.FgYellow)
		}

		fmt.Printf("  %-10s 0x%08X   %-15s %-15s ",
			section.Name,
			section.VirtualAddress,
			formatSize(int64(section.VirtualSize)),
			formatSize(int64(section.Size)),
		)
		permColor.Printf("%-8s", section.Permissions)
		fmt.Printf(" %.2f\n", section.Entropy)
	}
	fmt.Println(strings.Repeat("-", 100))
}

func (r *Reporter) printPEImports(info *pe.Info) {
	sectionTitle("【导入表】(共 %d 个DLL)", len(info.Imports))
	if len(info.Imports) == 0 {
		fmt.Println("  未发现导入")
		return
	}

	for i, imp := range info.Imports {
		color.New(color.FgGreen).Printf("  %3d. %s (%d 个函数)\n", i+1, imp.DLL, len(imp.Functions))

		shown := r.limit(len(imp.Functions), 10)
		for j := 0; j < shown; j++ {
			fmt.Printf("       - %s\n", imp.Functions[j])
		}
		if len(imp.Functions) > shown {
			color.New(color.FgHiBlack).Printf("       ... (还有 %d 个函数)\n", len(imp.Functions)-shown)
		}
	}
}

func (r *Reporter) printPEExports(info *pe.Info) {
	sectionTitle("【导出表】(共 %d 个函数)", len(info.Exports))
	if len(info.Exports) == 0 {
		fmt.Println("  未发现导出")
		return
	}

	shown := r.limit(len(info.Exports), 20)
	for i := 0; i < shown; i++ {
		color.New(color.FgGreen).Printf("  %3d. %s\n", i+1, r.symName(info.Exports[i]))
	}
	printTruncated(len(info.Exports), shown, "函数")
}

// ---------------------------------------------------------------------------
// Archive

// PrintArchive outputs the archive member listing.
func (r *Reporter) PrintArchive(info *archive.Info) {
	printHeader()
	sectionTitle("【归档成员】(共 %d 个)", len(info.Members))
	if len(info.Members) == 0 {
		fmt.Println("  未发现成员")
		return
	}

	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("  %-32s %-12s %-10s %s\n", "名称", "大小", "模式", "修改时间")
	fmt.Println(strings.Repeat("-", 80))
	for _, m := range info.Members {
		fmt.Printf("  %-32s %-12s %-10o %s\n",
			m.Name, formatSize(m.Size), m.Mode, m.ModTime.Format("2006-01-02 15:04:05"))
	}
	fmt.Println(strings.Repeat("-", 80))
}

// ---------------------------------------------------------------------------
// Correlation

// PrintMatches renders pattern match reports. baseOffset shifts displayed
// file offsets when the haystack was a fat-file architecture slice.
func (r *Reporter) PrintMatches(pattern string, reports []layout.MatchReport, baseOffset uint64) {
	sectionTitle("【匹配结果】%q (共 %d 处)", pattern, len(reports))
	if len(reports) == 0 {
		fmt.Println("  未找到匹配")
		return
	}

	for _, report := range reports {
		color.New(color.FgYellow).Printf("  0x%x\n", baseOffset+report.Offset)
		printLocated(report.Ranges)
	}
}

// PrintLocation renders the containing ranges for one queried file offset.
func (r *Reporter) PrintLocation(offset uint64, located []layout.Located) {
	sectionTitle("【偏移定位】0x%x", offset)
	if len(located) == 0 {
		fmt.Println("  该偏移不在任何已知结构范围内")
		return
	}
	printLocated(located)
}

func printLocated(located []layout.Located) {
	for _, loc := range located {
		fmt.Printf("  ├── %s ∈ ", loc.Label())
		if loc.HasAddr {
			color.New(color.FgRed).Printf("0x%x", loc.Addr)
		} else {
			color.New(color.FgHiBlack).Print("(无内存映射)")
		}
		fmt.Println()
	}
}
