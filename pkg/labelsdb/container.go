package labelsdb

import "sort"

// Entry pairs a signature with its stored (BGRA) pixel block
type Entry struct {
	Signature Signature
	Pixels    []byte // PixelBytes long, reverse-channel order
}

// Container is a decoded labels database.
//
// Entries keep encounter order after Decode and caller order after mutation.
// Only Encode sorts them.
type Container struct {
	Header  [HeaderSize]byte
	Entries []Entry
}

// NewContainer creates an empty container from a header template.
// A nil header yields an all-zero header.
func NewContainer(header []byte) (*Container, error) {
	c := &Container{}
	if header == nil {
		return c, nil
	}
	if len(header) != HeaderSize {
		return nil, &ValidationError{Kind: BadHeaderLength, Got: len(header), Want: HeaderSize}
	}
	copy(c.Header[:], header)
	return c, nil
}

// Clone returns a deep copy of the container
func (c *Container) Clone() *Container {
	out := &Container{Header: c.Header}
	if c.Entries != nil {
		out.Entries = make([]Entry, len(c.Entries))
		for i, e := range c.Entries {
			out.Entries[i] = Entry{Signature: e.Signature, Pixels: cloneBytes(e.Pixels)}
		}
	}
	return out
}

// SortedEntries returns the entries in on-disk order: ascending by unsigned
// signature value, stable for duplicates. The pixel slices are shared.
func (c *Container) SortedEntries() []Entry {
	sorted := make([]Entry, len(c.Entries))
	copy(sorted, c.Entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Signature < sorted[j].Signature
	})
	return sorted
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
