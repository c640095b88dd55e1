package bundle

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"time"
)

// zipEpoch is the earliest time an MS-DOS timestamp can hold
var zipEpoch = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// PackZip writes files into a ZIP archive in the given order. Members are
// stored uncompressed; PNG data does not shrink further. Times before 1980
// are clamped to 1980-01-01.
func PackZip(files []File, modTime time.Time) ([]byte, error) {
	if modTime.Before(zipEpoch) {
		modTime = zipEpoch
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		header := &zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Store,
			Modified: modTime.UTC(),
		}
		header.SetMode(0o644)
		w, err := zw.CreateHeader(header)
		if err != nil {
			return nil, fmt.Errorf("writing zip header for %s: %w", f.Name, err)
		}
		if _, err := w.Write(f.Data); err != nil {
			return nil, fmt.Errorf("writing zip data for %s: %w", f.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing zip writer: %w", err)
	}
	return buf.Bytes(), nil
}

// UnpackZip reads every regular file from a ZIP archive in directory order
func UnpackZip(data []byte) ([]File, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("reading zip directory: %w", err)
	}

	var files []File
	for _, zf := range zr.File {
		if !zf.Mode().IsRegular() {
			continue
		}
		if zf.UncompressedSize64 > MaxFileSize {
			return nil, fmt.Errorf("invalid file size for %s: %d", zf.Name, zf.UncompressedSize64)
		}

		rc, err := zf.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", zf.Name, err)
		}
		content, err := io.ReadAll(io.LimitReader(rc, MaxFileSize+1))
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading zip data for %s: %w", zf.Name, err)
		}
		if len(content) > MaxFileSize {
			return nil, fmt.Errorf("invalid file size for %s: more than %d bytes", zf.Name, MaxFileSize)
		}
		files = append(files, File{Name: zf.Name, Data: content})
	}
	return files, nil
}
