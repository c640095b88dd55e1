package compress

import (
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/provide-io/labelsdb/pkg/operations"
)

func init() {
	operations.Register(NewBzip2Operation())
}

// NewBzip2Operation returns BZIP2 at level 9
func NewBzip2Operation() operations.Operation {
	return &operations.Codec{
		OpID: operations.OP_BZIP2,
		NewWriter: func(w io.Writer) (io.WriteCloser, error) {
			bw, err := bzip2.NewWriter(w, &bzip2.WriterConfig{Level: 9})
			if err != nil {
				return nil, err
			}
			return bw, nil
		},
		NewReader: func(r io.Reader) (io.ReadCloser, error) {
			br, err := bzip2.NewReader(r, &bzip2.ReaderConfig{})
			if err != nil {
				return nil, err
			}
			return br, nil
		},
		MaxOutput: MaxDecompressedSize,
	}
}
