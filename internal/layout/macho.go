package layout

import (
	"debug/macho"
	"fmt"
)

// Mach-O section types that occupy no file bytes.
const (
	sectZerofill            = 0x1
	sectGBZerofill          = 0xc
	sectThreadLocalZerofill = 0x12
)

// MachoRanges builds the structural range model for a Mach-O file: one range
// per load command in command order (segments carry their file extent and
// vmaddr, other commands span their own header bytes), followed by one range
// per section in table order.
func MachoRanges(f *macho.File) []Range {
	ranges := make([]Range, 0, len(f.Loads)+len(f.Sections))

	// Load commands start immediately after the mach header.
	cmdOffset := uint64(machHeaderSize(f))

	for i, load := range f.Loads {
		raw := load.Raw()
		if seg, ok := load.(*macho.Segment); ok {
			name := seg.Name
			if name == "" {
				name = "<unreadable>"
			}
			ranges = append(ranges, Range{
				Kind:       KindSegment,
				Name:       name,
				Index:      i,
				FileOffset: seg.Offset,
				FileSize:   seg.Filesz,
				Addr:       seg.Addr,
				HasAddr:    true,
			})
		} else {
			ranges = append(ranges, Range{
				Kind:       KindLoadCommand,
				Name:       loadCmdLabel(f, raw),
				Index:      i,
				FileOffset: cmdOffset,
				FileSize:   uint64(len(raw)),
			})
		}
		cmdOffset += uint64(len(raw))
	}

	for i, sec := range f.Sections {
		name := sec.Name
		if name == "" {
			name = "<unreadable>"
		}
		size := sec.Size
		switch sec.Flags & 0xff {
		case sectZerofill, sectGBZerofill, sectThreadLocalZerofill:
			size = 0
		}
		ranges = append(ranges, Range{
			Kind:       KindSection,
			Name:       name,
			Index:      i,
			FileOffset: uint64(sec.Offset),
			FileSize:   size,
			Addr:       sec.Addr,
			HasAddr:    true,
		})
	}

	return ranges
}

// machHeaderSize returns the size in bytes of the mach header.
func machHeaderSize(f *macho.File) int {
	if f.Magic == macho.Magic64 {
		return 32
	}
	return 28
}

// loadCmdLabel decodes a load command's cmd field and renders its LC_ name.
// Malformed command bytes yield "<unreadable>" instead of failing the build.
func loadCmdLabel(f *macho.File, raw []byte) string {
	if len(raw) < 4 || f.ByteOrder == nil {
		return "<unreadable>"
	}
	return LoadCmdName(f.ByteOrder.Uint32(raw[0:4]))
}

// LoadCmdName returns the LC_ constant name for a load command value.
func LoadCmdName(cmd uint32) string {
	if name, ok := loadCmdNames[cmd]; ok {
		return name
	}
	return fmt.Sprintf("LC_(%#x)", cmd)
}

const reqDyld = 0x80000000

var loadCmdNames = map[uint32]string{
	0x1:            "LC_SEGMENT",
	0x2:            "LC_SYMTAB",
	0x4:            "LC_THREAD",
	0x5:            "LC_UNIXTHREAD",
	0xb:            "LC_DYSYMTAB",
	0xc:            "LC_LOAD_DYLIB",
	0xd:            "LC_ID_DYLIB",
	0xe:            "LC_LOAD_DYLINKER",
	0xf:            "LC_ID_DYLINKER",
	0x11:           "LC_ROUTINES",
	0x12:           "LC_SUB_FRAMEWORK",
	0x14:           "LC_SUB_CLIENT",
	0x19:           "LC_SEGMENT_64",
	0x1a:           "LC_ROUTINES_64",
	0x1b:           "LC_UUID",
	0x1d:           "LC_CODE_SIGNATURE",
	0x1e:           "LC_SEGMENT_SPLIT_INFO",
	0x20:           "LC_LAZY_LOAD_DYLIB",
	0x21:           "LC_ENCRYPTION_INFO",
	0x22:           "LC_DYLD_INFO",
	0x24:           "LC_VERSION_MIN_MACOSX",
	0x25:           "LC_VERSION_MIN_IPHONEOS",
	0x26:           "LC_FUNCTION_STARTS",
	0x27:           "LC_DYLD_ENVIRONMENT",
	0x29:           "LC_DATA_IN_CODE",
	0x2a:           "LC_SOURCE_VERSION",
	0x2b:           "LC_DYLIB_CODE_SIGN_DRS",
	0x2c:           "LC_ENCRYPTION_INFO_64",
	0x32:           "LC_BUILD_VERSION",
	0x18 | reqDyld: "LC_LOAD_WEAK_DYLIB",
	0x1c | reqDyld: "LC_RPATH",
	0x1f | reqDyld: "LC_REEXPORT_DYLIB",
	0x22 | reqDyld: "LC_DYLD_INFO_ONLY",
	0x23 | reqDyld: "LC_LOAD_UPWARD_DYLIB",
	0x28 | reqDyld: "LC_MAIN",
	0x33 | reqDyld: "LC_DYLD_EXPORTS_TRIE",
	0x34 | reqDyld: "LC_DYLD_CHAINED_FIXUPS",
}
