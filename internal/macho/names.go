package macho

import (
	"debug/macho"
	"fmt"
)

var cpuNames = map[macho.Cpu]string{
	macho.Cpu386:   "x86",
	macho.CpuAmd64: "x86_64",
	macho.CpuArm:   "arm",
	macho.CpuArm64: "arm64",
	macho.CpuPpc:   "ppc",
	macho.CpuPpc64: "ppc64",
}

func cpuName(cpu macho.Cpu) string {
	if name, ok := cpuNames[cpu]; ok {
		return name
	}
	return cpu.String()
}

// Mach header filetype values beyond those named by debug/macho.
const (
	typeCoreFile = 0x4
	typeDylinker = 0x7
	typeDsym     = 0xa
	typeKext     = 0xb
)

func typeName(t macho.Type) string {
	switch t {
	case macho.TypeObj:
		return "OBJECT"
	case macho.TypeExec:
		return "EXECUTE"
	case macho.TypeDylib:
		return "DYLIB"
	case macho.TypeBundle:
		return "BUNDLE"
	case typeCoreFile:
		return "CORE"
	case typeDylinker:
		return "DYLINKER"
	case typeDsym:
		return "DSYM"
	case typeKext:
		return "KEXT_BUNDLE"
	default:
		return fmt.Sprintf("(%#x)", uint32(t))
	}
}

func typeCategory(t macho.Type) TypeCategory {
	switch t {
	case macho.TypeObj:
		return TypeObject
	case macho.TypeExec:
		return TypeExec
	case macho.TypeDylib:
		return TypeDylib
	case typeCoreFile:
		return TypeCore
	default:
		return TypeOther
	}
}
