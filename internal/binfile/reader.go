// Package binfile loads a binary file into memory and identifies its format
// by magic bytes. Parsing of the identified format is left to the per-format
// analyzer packages.
package binfile

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
)

// Format identifies the container format of a binary file.
type Format int

const (
	FormatUnknown Format = iota
	FormatELF
	FormatMachO
	FormatMachOFat
	FormatPE
	FormatArchive
)

// String returns the display name of the format.
func (f Format) String() string {
	switch f {
	case FormatELF:
		return "ELF"
	case FormatMachO:
		return "Mach-O"
	case FormatMachOFat:
		return "Mach-O (fat)"
	case FormatPE:
		return "PE"
	case FormatArchive:
		return "Archive"
	default:
		return "Unknown"
	}
}

var (
	elfMagic     = []byte{0x7f, 'E', 'L', 'F'}
	fatMagic     = []byte{0xca, 0xfe, 0xba, 0xbe}
	archiveMagic = []byte("!<arch>\n")

	machoMagics = [][]byte{
		{0xfe, 0xed, 0xfa, 0xce},
		{0xfe, 0xed, 0xfa, 0xcf},
		{0xce, 0xfa, 0xed, 0xfe},
		{0xcf, 0xfa, 0xed, 0xfe},
	}
)

// Reader holds a binary file's immutable byte buffer plus its detected
// format. All downstream components read from this one buffer.
type Reader struct {
	path   string
	data   []byte
	format Format
}

// Open reads the whole file into memory and detects its format.
func Open(path string) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "打开文件失败")
	}

	format, err := Detect(data)
	if err != nil {
		return nil, err
	}

	return &Reader{path: path, data: data, format: format}, nil
}

// Detect identifies the container format from the file's leading magic.
func Detect(data []byte) (Format, error) {
	if len(data) < 4 {
		return FormatUnknown, errors.Errorf("文件过小 (%d 字节)，无法识别格式", len(data))
	}
	magic := data[:4]

	switch {
	case bytes.Equal(magic, elfMagic):
		return FormatELF, nil
	case bytes.Equal(magic, fatMagic):
		return FormatMachOFat, nil
	case magic[0] == 'M' && magic[1] == 'Z':
		return FormatPE, nil
	case len(data) >= len(archiveMagic) && bytes.Equal(data[:len(archiveMagic)], archiveMagic):
		return FormatArchive, nil
	}

	for _, m := range machoMagics {
		if bytes.Equal(magic, m) {
			return FormatMachO, nil
		}
	}

	return FormatUnknown, errors.Errorf("无法识别的文件格式 (magic: % x)", magic)
}

// Path returns the file path.
func (r *Reader) Path() string {
	return r.path
}

// Data returns the raw file contents.
func (r *Reader) Data() []byte {
	return r.data
}

// Size returns the file size in bytes.
func (r *Reader) Size() int64 {
	return int64(len(r.data))
}

// Format returns the detected container format.
func (r *Reader) Format() Format {
	return r.format
}
