package pe

import (
	"bytes"
	"strings"
	"testing"
)

func TestReadCString(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		offset int64
		want   string
	}{
		{
			name:   "Simple string",
			data:   "CreateFileW\x00ReadFile\x00",
			offset: 0,
			want:   "CreateFileW",
		},
		{
			name:   "Second string",
			data:   "CreateFileW\x00ReadFile\x00",
			offset: 12,
			want:   "ReadFile",
		},
		{
			name:   "Empty string",
			data:   "\x00abc",
			offset: 0,
			want:   "",
		},
		{
			name:   "Unterminated string at end of file",
			data:   "kernel32",
			offset: 0,
			want:   "kernel32",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readCString(bytes.NewReader([]byte(tt.data)), tt.offset)
			if err != nil {
				t.Fatalf("readCString() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("readCString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadCStringTruncatesAt256(t *testing.T) {
	long := strings.Repeat("A", 300)
	got, err := readCString(bytes.NewReader([]byte(long)), 0)
	if err != nil {
		t.Fatalf("readCString() error = %v", err)
	}
	if len(got) != 256 {
		t.Errorf("readCString() returned %d bytes, want 256", len(got))
	}
}

func TestReadCStringPastEnd(t *testing.T) {
	if _, err := readCString(bytes.NewReader([]byte("abc\x00")), 100); err == nil {
		t.Error("readCString() past end of data should return an error")
	}
}
