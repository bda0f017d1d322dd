package pe

import "debug/pe"

// SignatureInfo records Authenticode signature presence. The security
// directory entry stores a raw file offset, not an RVA.
type SignatureInfo struct {
	IsSigned bool
	Offset   uint32
	Size     uint32
}

// CheckSignature inspects the security data directory (entry 4) for an
// attached certificate blob.
func CheckSignature(f *pe.File) *SignatureInfo {
	info := &SignatureInfo{}

	if oh32, ok := f.OptionalHeader.(*pe.OptionalHeader32); ok {
		if len(oh32.DataDirectory) > 4 {
			info.Offset = oh32.DataDirectory[4].VirtualAddress
			info.Size = oh32.DataDirectory[4].Size
		}
	} else if oh64, ok := f.OptionalHeader.(*pe.OptionalHeader64); ok {
		if len(oh64.DataDirectory) > 4 {
			info.Offset = oh64.DataDirectory[4].VirtualAddress
			info.Size = oh64.DataDirectory[4].Size
		}
	}

	info.IsSigned = info.Offset != 0 && info.Size != 0
	return info
}
