package elf

import (
	"debug/elf"
	"testing"
)

func TestTableString(t *testing.T) {
	strtab := []byte("\x00libc.so.6\x00libm.so.6\x00")

	tests := []struct {
		name string
		off  uint64
		want string
	}{
		{
			name: "First string",
			off:  1,
			want: "libc.so.6",
		},
		{
			name: "Second string",
			off:  11,
			want: "libm.so.6",
		},
		{
			name: "Mid-string offset",
			off:  5,
			want: ".so.6",
		},
		{
			name: "Offset past table end",
			off:  100,
			want: "<unreadable>",
		},
		{
			name: "Empty string at leading NUL",
			off:  0,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tableString(strtab, tt.off)
			if got != tt.want {
				t.Errorf("tableString(%d) = %q, want %q", tt.off, got, tt.want)
			}
		})
	}
}

func TestTableStringUnterminated(t *testing.T) {
	strtab := []byte("truncated")
	if got := tableString(strtab, 0); got != "<unreadable>" {
		t.Errorf("tableString() = %q, want <unreadable>", got)
	}
}

func TestDynKind(t *testing.T) {
	tests := []struct {
		name string
		tag  elf.DynTag
		want DynKind
	}{
		{
			name: "Needed library is a string",
			tag:  elf.DT_NEEDED,
			want: DynString,
		},
		{
			name: "Soname is a string",
			tag:  elf.DT_SONAME,
			want: DynString,
		},
		{
			name: "String table is an address",
			tag:  elf.DT_STRTAB,
			want: DynAddr,
		},
		{
			name: "String table size is a size",
			tag:  elf.DT_STRSZ,
			want: DynSize,
		},
		{
			name: "Flags fall through to other",
			tag:  elf.DT_FLAGS,
			want: DynOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dynKind(tt.tag)
			if got != tt.want {
				t.Errorf("dynKind(%v) = %v, want %v", tt.tag, got, tt.want)
			}
		})
	}
}
