package macho

import "debug/macho"

// Load command values used for entry point recovery.
const (
	cmdUnixThread = 0x5
	cmdMain       = 0x28 | 0x80000000
)

// findEntry recovers the program entry point from LC_MAIN (entry offset
// relative to __TEXT) or LC_UNIXTHREAD (instruction pointer inside the saved
// thread state). Files without either command report 0.
func findEntry(f *macho.File) uint64 {
	for _, load := range f.Loads {
		raw := load.Raw()
		if len(raw) < 8 || f.ByteOrder == nil {
			continue
		}
		cmd := f.ByteOrder.Uint32(raw[0:4])

		switch cmd {
		case cmdMain:
			if len(raw) < 16 {
				continue
			}
			text := f.Segment("__TEXT")
			if text == nil {
				continue
			}
			return text.Addr + f.ByteOrder.Uint64(raw[8:16])

		case cmdUnixThread:
			// Instruction pointer position within the thread state blob
			// (x86_64 RIP / i386 EIP).
			if f.Magic == macho.Magic64 {
				const ip = 144
				if len(raw) >= ip+8 {
					return f.ByteOrder.Uint64(raw[ip : ip+8])
				}
			} else {
				const ip = 56
				if len(raw) >= ip+4 {
					return uint64(f.ByteOrder.Uint32(raw[ip : ip+4]))
				}
			}
		}
	}
	return 0
}
