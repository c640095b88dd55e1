// Package bundle packs database thumbnails into archives and reads them back
package bundle

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"
)

// MaxFileSize bounds a single archive member
const MaxFileSize = 64 << 20

// File is one archive member
type File struct {
	Name string
	Data []byte
}

// Pack writes files into a TAR archive in the given order
func Pack(files []File, modTime time.Time) ([]byte, error) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	for _, f := range files {
		header := &tar.Header{
			Name:     f.Name,
			Mode:     0o644,
			Size:     int64(len(f.Data)),
			ModTime:  modTime,
			Typeflag: tar.TypeReg,
			Format:   tar.FormatPAX,
		}
		if err := tw.WriteHeader(header); err != nil {
			return nil, fmt.Errorf("writing tar header for %s: %w", f.Name, err)
		}
		if _, err := tw.Write(f.Data); err != nil {
			return nil, fmt.Errorf("writing tar data for %s: %w", f.Name, err)
		}
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("closing tar writer: %w", err)
	}
	return buf.Bytes(), nil
}

// Unpack reads every regular file from a TAR archive. Directories and other
// member types are ignored.
func Unpack(data []byte) ([]File, error) {
	tr := tar.NewReader(bytes.NewReader(data))

	var files []File
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading tar header: %w", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		if header.Size < 0 || header.Size > MaxFileSize {
			return nil, fmt.Errorf("invalid file size for %s: %d", header.Name, header.Size)
		}

		content := make([]byte, header.Size)
		if _, err := io.ReadFull(tr, content); err != nil {
			return nil, fmt.Errorf("reading tar data for %s: %w", header.Name, err)
		}
		files = append(files, File{Name: header.Name, Data: content})
	}

	return files, nil
}
