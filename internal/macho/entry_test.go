package macho

import (
	"debug/macho"
	"encoding/binary"
	"testing"
)

func machFile(magic uint32, loads ...macho.Load) *macho.File {
	return &macho.File{
		FileHeader: macho.FileHeader{Magic: magic},
		ByteOrder:  binary.LittleEndian,
		Loads:      loads,
	}
}

func TestFindEntryMain(t *testing.T) {
	// LC_MAIN carries a file offset relative to __TEXT's vmaddr.
	raw := make([]byte, 24)
	binary.LittleEndian.PutUint32(raw[0:4], cmdMain)
	binary.LittleEndian.PutUint32(raw[4:8], 24)
	binary.LittleEndian.PutUint64(raw[8:16], 0x4f30)

	text := &macho.Segment{
		SegmentHeader: macho.SegmentHeader{Name: "__TEXT", Addr: 0x100000000},
	}

	f := machFile(macho.Magic64, text, macho.LoadBytes(raw))

	got := findEntry(f)
	if got != 0x100004f30 {
		t.Errorf("findEntry() = %#x, want 0x100004f30", got)
	}
}

func TestFindEntryMainWithoutText(t *testing.T) {
	raw := make([]byte, 24)
	binary.LittleEndian.PutUint32(raw[0:4], cmdMain)
	binary.LittleEndian.PutUint64(raw[8:16], 0x1000)

	f := machFile(macho.Magic64, macho.LoadBytes(raw))
	if got := findEntry(f); got != 0 {
		t.Errorf("findEntry() without __TEXT = %#x, want 0", got)
	}
}

func TestFindEntryUnixThread64(t *testing.T) {
	// x86_64 thread state: RIP lives at byte 144 of the command.
	raw := make([]byte, 184)
	binary.LittleEndian.PutUint32(raw[0:4], cmdUnixThread)
	binary.LittleEndian.PutUint64(raw[144:152], 0x100001060)

	f := machFile(macho.Magic64, macho.LoadBytes(raw))
	if got := findEntry(f); got != 0x100001060 {
		t.Errorf("findEntry() = %#x, want 0x100001060", got)
	}
}

func TestFindEntryUnixThread32(t *testing.T) {
	// i386 thread state: EIP lives at byte 56 of the command.
	raw := make([]byte, 80)
	binary.LittleEndian.PutUint32(raw[0:4], cmdUnixThread)
	binary.LittleEndian.PutUint32(raw[56:60], 0x2040)

	f := machFile(macho.Magic32, macho.LoadBytes(raw))
	if got := findEntry(f); got != 0x2040 {
		t.Errorf("findEntry() = %#x, want 0x2040", got)
	}
}

func TestFindEntryNone(t *testing.T) {
	raw := make([]byte, 24)
	binary.LittleEndian.PutUint32(raw[0:4], 0x1b) // LC_UUID

	f := machFile(macho.Magic64, macho.LoadBytes(raw))
	if got := findEntry(f); got != 0 {
		t.Errorf("findEntry() = %#x, want 0", got)
	}
}
