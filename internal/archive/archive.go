// Package archive lists the members of a static archive (ar) file. Archive
// members have no memory mapping, so no range model or correlation is built.
package archive

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/blakesmith/ar"

	"github.com/ZacharyZcR/BinScope/internal/binfile"
)

// Member describes one archive member.
type Member struct {
	Name    string
	Size    int64
	Mode    int64
	ModTime time.Time
}

// Info contains the analyzed archive listing.
type Info struct {
	FilePath string
	FileSize int64
	Members  []Member
}

// Analyze walks the archive and collects its member headers. A corrupt
// header ends the listing with the members read so far.
func Analyze(r *binfile.Reader) (*Info, error) {
	info := &Info{
		FilePath: r.Path(),
		FileSize: r.Size(),
	}

	rdr := ar.NewReader(bytes.NewReader(r.Data()))
	for {
		hdr, err := rdr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if len(info.Members) > 0 {
				break
			}
			return nil, fmt.Errorf("解析归档文件失败: %w", err)
		}
		info.Members = append(info.Members, Member{
			Name:    hdr.Name,
			Size:    hdr.Size,
			Mode:    hdr.Mode,
			ModTime: hdr.ModTime,
		})
	}

	return info, nil
}
