package elf

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
)

// DynKind classifies how a dynamic entry's value should be rendered.
type DynKind int

const (
	DynOther DynKind = iota
	DynString
	DynAddr
	DynSize
)

// DynEntry is one entry of the .dynamic section with its value resolved.
type DynEntry struct {
	Tag   string
	Value uint64
	// Str carries the resolved .dynstr string for string-class tags;
	// unresolvable offsets yield "<unreadable>".
	Str  string
	Kind DynKind
}

var dynStringTags = map[elf.DynTag]bool{
	elf.DT_NEEDED:  true,
	elf.DT_SONAME:  true,
	elf.DT_RPATH:   true,
	elf.DT_RUNPATH: true,
}

var dynAddrTags = map[elf.DynTag]bool{
	elf.DT_PLTGOT:     true,
	elf.DT_HASH:       true,
	elf.DT_STRTAB:     true,
	elf.DT_SYMTAB:     true,
	elf.DT_RELA:       true,
	elf.DT_INIT:       true,
	elf.DT_FINI:       true,
	elf.DT_REL:        true,
	elf.DT_DEBUG:      true,
	elf.DT_JMPREL:     true,
	elf.DT_INIT_ARRAY: true,
	elf.DT_FINI_ARRAY: true,
	elf.DT_GNU_HASH:   true,
	elf.DT_VERNEED:    true,
	elf.DT_VERSYM:     true,
}

var dynSizeTags = map[elf.DynTag]bool{
	elf.DT_PLTRELSZ:     true,
	elf.DT_RELASZ:       true,
	elf.DT_RELAENT:      true,
	elf.DT_STRSZ:        true,
	elf.DT_SYMENT:       true,
	elf.DT_RELSZ:        true,
	elf.DT_RELENT:       true,
	elf.DT_INIT_ARRAYSZ: true,
	elf.DT_FINI_ARRAYSZ: true,
	elf.DT_VERNEEDNUM:   true,
}

// parseDynamic decodes the .dynamic section into tagged entries, resolving
// string-class values against .dynstr. The listing stops at DT_NULL.
func parseDynamic(f *elf.File) []DynEntry {
	dynSec := f.SectionByType(elf.SHT_DYNAMIC)
	if dynSec == nil {
		return nil
	}
	data, err := dynSec.Data()
	if err != nil {
		return nil
	}

	strtab := dynamicStrings(f, dynSec)

	var entries []DynEntry
	r := bytes.NewReader(data)
	for {
		var tag elf.DynTag
		var val uint64

		if f.Class == elf.ELFCLASS64 {
			var dyn elf.Dyn64
			if err := binary.Read(r, f.ByteOrder, &dyn); err != nil {
				break
			}
			tag, val = elf.DynTag(dyn.Tag), dyn.Val
		} else {
			var dyn elf.Dyn32
			if err := binary.Read(r, f.ByteOrder, &dyn); err != nil {
				break
			}
			tag, val = elf.DynTag(dyn.Tag), uint64(dyn.Val)
		}

		if tag == elf.DT_NULL {
			break
		}

		entry := DynEntry{
			Tag:   tag.String(),
			Value: val,
			Kind:  dynKind(tag),
		}
		if entry.Kind == DynString {
			entry.Str = tableString(strtab, val)
		}
		entries = append(entries, entry)
	}
	return entries
}

// dynamicStrings returns the string table the .dynamic section links to.
func dynamicStrings(f *elf.File, dynSec *elf.Section) []byte {
	if int(dynSec.Link) < len(f.Sections) {
		if data, err := f.Sections[dynSec.Link].Data(); err == nil {
			return data
		}
	}
	if sec := f.Section(".dynstr"); sec != nil {
		if data, err := sec.Data(); err == nil {
			return data
		}
	}
	return nil
}

// tableString reads the NUL-terminated string at off. Offsets outside the
// table render as "<unreadable>" so malformed entries stay visible without
// aborting the listing.
func tableString(strtab []byte, off uint64) string {
	if off >= uint64(len(strtab)) {
		return "<unreadable>"
	}
	end := bytes.IndexByte(strtab[off:], 0)
	if end < 0 {
		return "<unreadable>"
	}
	return string(strtab[off : off+uint64(end)])
}

func dynKind(tag elf.DynTag) DynKind {
	switch {
	case dynStringTags[tag]:
		return DynString
	case dynAddrTags[tag]:
		return DynAddr
	case dynSizeTags[tag]:
		return DynSize
	default:
		return DynOther
	}
}
