// Package compress registers the compression transforms used by archive
// chains. Import it for its side effects.
package compress

import (
	"compress/gzip"
	"io"

	"github.com/provide-io/labelsdb/pkg/operations"
)

// MaxDecompressedSize bounds a decompressed archive. A full database exported
// as PNG is far below this.
const MaxDecompressedSize = 1 << 30

func init() {
	operations.Register(NewGzipOperation())
}

// NewGzipOperation returns GZIP at best compression
func NewGzipOperation() operations.Operation {
	return &operations.Codec{
		OpID: operations.OP_GZIP,
		NewWriter: func(w io.Writer) (io.WriteCloser, error) {
			zw, err := gzip.NewWriterLevel(w, gzip.BestCompression)
			if err != nil {
				return nil, err
			}
			return zw, nil
		},
		NewReader: func(r io.Reader) (io.ReadCloser, error) {
			zr, err := gzip.NewReader(r)
			if err != nil {
				return nil, err
			}
			return zr, nil
		},
		MaxOutput: MaxDecompressedSize,
	}
}
