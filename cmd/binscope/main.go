// Package main provides the BinScope CLI tool.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/ZacharyZcR/BinScope/internal/archive"
	"github.com/ZacharyZcR/BinScope/internal/binfile"
	"github.com/ZacharyZcR/BinScope/internal/cli"
	"github.com/ZacharyZcR/BinScope/internal/elf"
	"github.com/ZacharyZcR/BinScope/internal/layout"
	"github.com/ZacharyZcR/BinScope/internal/macho"
	"github.com/ZacharyZcR/BinScope/internal/pe"
)

var (
	verbose    = flag.Bool("v", false, "详细模式：显示所有符号/导入/导出（不截断）")
	demangleFn = flag.Bool("D", false, "还原C++/Rust符号名（demangle）")
	searchText = flag.String("s", "", "在文件中搜索字符串，并关联命中位置所属的结构")
	searchHex  = flag.String("hex", "", "在文件中搜索十六进制字节序列 (例如: deadbeef 或 de ad be ef)")
	locateAt   = flag.String("at", "", "定位文件偏移所属的结构 (十六进制，例如: 0x2a00)")
	noColor    = flag.Bool("no-color", false, "禁用彩色输出")
)

func main() {
	flag.Parse()

	if *noColor {
		color.NoColor = true
	}

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		red := color.New(color.FgRed, color.Bold)
		_, _ = red.Fprintf(os.Stderr, "\n错误: %v\n\n", err)
		os.Exit(1)
	}
}

func run(filepath string) error {
	reader, err := binfile.Open(filepath)
	if err != nil {
		return err
	}

	reporter := cli.NewReporter()
	reporter.SetVerbose(*verbose)
	reporter.SetDemangle(*demangleFn)

	needle, err := parsePattern()
	if err != nil {
		return err
	}

	switch reader.Format() {
	case binfile.FormatELF:
		return analyzeELF(reader, reporter, needle)
	case binfile.FormatMachO, binfile.FormatMachOFat:
		return analyzeMachO(reader, reporter, needle)
	case binfile.FormatPE:
		return analyzePE(reader, reporter, needle)
	case binfile.FormatArchive:
		return analyzeArchive(reader, reporter, needle)
	default:
		return fmt.Errorf("不支持的文件格式: %s", reader.Format())
	}
}

// parsePattern builds the search needle from -s or -hex; both empty means no
// search was requested.
func parsePattern() ([]byte, error) {
	if *searchText != "" && *searchHex != "" {
		return nil, fmt.Errorf("-s 和 -hex 不能同时指定")
	}
	if *searchText != "" {
		return []byte(*searchText), nil
	}
	if *searchHex != "" {
		cleaned := strings.NewReplacer(" ", "", "0x", "", "0X", "").Replace(*searchHex)
		needle, err := hex.DecodeString(cleaned)
		if err != nil {
			return nil, fmt.Errorf("十六进制模式格式错误: %s", *searchHex)
		}
		return needle, nil
	}
	return nil, nil
}

func parseOffset(s string) (uint64, error) {
	offset, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("偏移格式错误: %s (应为十六进制，例如: 0x2a00)", s)
	}
	return offset, nil
}

func patternLabel() string {
	if *searchText != "" {
		return *searchText
	}
	return *searchHex
}

func analyzeELF(reader *binfile.Reader, reporter *cli.Reporter, needle []byte) error {
	analyzer := elf.NewAnalyzer(reader)
	info, err := analyzer.Analyze()
	if err != nil {
		return err
	}

	reporter.PrintELF(info)

	if needle != nil {
		reports, err := layout.Correlate(reader.Data(), needle, info.Ranges)
		if err != nil {
			return err
		}
		reporter.PrintMatches(patternLabel(), reports, 0)
	}

	if *locateAt != "" {
		offset, err := parseOffset(*locateAt)
		if err != nil {
			return err
		}
		reporter.PrintLocation(offset, layout.Containing(info.Ranges, offset))
	}

	return nil
}

func analyzeMachO(reader *binfile.Reader, reporter *cli.Reporter, needle []byte) error {
	var infos []*macho.Info
	if reader.Format() == binfile.FormatMachOFat {
		fatInfos, err := macho.AnalyzeFat(reader)
		if err != nil {
			return err
		}
		infos = fatInfos
	} else {
		info, err := macho.NewAnalyzer(reader).Analyze()
		if err != nil {
			return err
		}
		infos = []*macho.Info{info}
	}

	for _, info := range infos {
		reporter.PrintMachO(info)

		// Searches and offset lookups run per slice; the slice offset puts
		// reported file offsets back in whole-file terms.
		data := reader.Data()
		if info.ArchSize != 0 {
			data = data[info.ArchOffset : info.ArchOffset+info.ArchSize]
		}

		if needle != nil {
			reports, err := layout.Correlate(data, needle, info.Ranges)
			if err != nil {
				return err
			}
			reporter.PrintMatches(patternLabel(), reports, info.ArchOffset)
		}

		if *locateAt != "" {
			offset, err := parseOffset(*locateAt)
			if err != nil {
				return err
			}
			if offset >= info.ArchOffset && offset < info.ArchOffset+uint64(len(data)) {
				sliceOffset := offset - info.ArchOffset
				reporter.PrintLocation(offset, layout.Containing(info.Ranges, sliceOffset))
			}
		}
	}

	return nil
}

func analyzePE(reader *binfile.Reader, reporter *cli.Reporter, needle []byte) error {
	analyzer := pe.NewAnalyzer(reader)
	info, err := analyzer.Analyze()
	if err != nil {
		return err
	}

	reporter.PrintPE(info)
	warnUnsupportedSearch(needle)
	return nil
}

func analyzeArchive(reader *binfile.Reader, reporter *cli.Reporter, needle []byte) error {
	info, err := archive.Analyze(reader)
	if err != nil {
		return err
	}

	reporter.PrintArchive(info)
	warnUnsupportedSearch(needle)
	return nil
}

func warnUnsupportedSearch(needle []byte) {
	if needle == nil && *locateAt == "" {
		return
	}
	yellow := color.New(color.FgYellow)
	_, _ = yellow.Println("\n⚠️  该文件格式不支持模式搜索和偏移定位")
}

func printUsage() {
	cyan := color.New(color.FgCyan, color.Bold)
	_, _ = cyan.Println("\nBinScope - 二进制文件结构分析工具 (ELF / Mach-O / PE / 归档)")

	fmt.Println("\n用法:")
	fmt.Println("  binscope [选项] <文件路径>")
	fmt.Println("\n选项:")
	fmt.Println("  -v           详细模式：显示所有符号/导入/导出（不限制数量）")
	fmt.Println("  -D           还原C++/Rust符号名（demangle）")
	fmt.Println("  -s <字符串>  搜索字符串，报告每处命中所属的段/节区及虚拟地址")
	fmt.Println("  -hex <字节>  搜索十六进制字节序列 (例如: deadbeef)")
	fmt.Println("  -at <偏移>   定位文件偏移所属的结构 (十六进制)")
	fmt.Println("  -no-color    禁用彩色输出")

	fmt.Println("\n示例:")
	fmt.Println("  binscope /bin/ls")
	fmt.Println("  binscope -v /usr/lib/libc.so.6")
	fmt.Println("  binscope -D a.out")
	fmt.Println("  binscope -s /etc/ld.so.cache /bin/cat")
	fmt.Println("  binscope -hex \"7f 45 4c 46\" firmware.bin")
	fmt.Println("  binscope -at 0x2a00 /bin/ls")
	fmt.Println("  binscope libfoo.a")
	fmt.Println()
}
