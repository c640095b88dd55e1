package operations

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// DefaultMaxOutput bounds Codec.Reverse when MaxOutput is unset
const DefaultMaxOutput = 1 << 30

// Codec turns a streaming compressor into an Operation
type Codec struct {
	OpID      uint8
	NewWriter func(w io.Writer) (io.WriteCloser, error)
	NewReader func(r io.Reader) (io.ReadCloser, error)

	// MaxOutput caps the decompressed size; zero means DefaultMaxOutput
	MaxOutput int64
}

func (c *Codec) ID() uint8 { return c.OpID }

func (c *Codec) Name() string { return GetName(c.OpID) }

func (c *Codec) label() string { return strings.ToLower(c.Name()) }

// Apply compresses input in one pass
func (c *Codec) Apply(input []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := c.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("creating %s writer: %w", c.label(), err)
	}
	if _, err := w.Write(input); err != nil {
		w.Close()
		return nil, fmt.Errorf("writing %s data: %w", c.label(), err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing %s writer: %w", c.label(), err)
	}
	return buf.Bytes(), nil
}

// Reverse decompresses input, refusing output larger than MaxOutput
func (c *Codec) Reverse(input []byte) ([]byte, error) {
	r, err := c.NewReader(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("creating %s reader: %w", c.label(), err)
	}
	defer r.Close()

	limit := c.MaxOutput
	if limit <= 0 {
		limit = DefaultMaxOutput
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s data: %w", c.label(), err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%s data exceeds %d bytes", c.label(), limit)
	}
	return data, nil
}
