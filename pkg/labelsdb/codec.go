package labelsdb

import "encoding/binary"

// Decode parses a labels database.
//
// Signatures are read from the index region until the terminator or the
// last slot. One block per signature is then read from the image region in
// that same order; only the leading PixelBytes of each block are kept.
// The input is never modified and no partial container is returned.
func Decode(data []byte) (*Container, error) {
	if len(data) < ImagesStart {
		return nil, &FormatError{Kind: TooSmall, Size: len(data), Want: ImagesStart}
	}

	c := &Container{}
	copy(c.Header[:], data[:HeaderSize])

	var signatures []Signature
	for i := 0; i < IndexCapacity; i++ {
		off := IndexStart + i*SlotSize
		val := binary.LittleEndian.Uint32(data[off : off+SlotSize])
		if val == Terminator {
			break
		}
		signatures = append(signatures, Signature(val))
	}

	c.Entries = make([]Entry, 0, len(signatures))
	pos := ImagesStart
	for i, sig := range signatures {
		if pos+BlockStride > len(data) {
			return nil, &FormatError{Kind: Truncated, Index: i, Size: len(data), Want: pos + BlockStride}
		}
		c.Entries = append(c.Entries, Entry{
			Signature: sig,
			Pixels:    cloneBytes(data[pos : pos+PixelBytes]),
		})
		pos += BlockStride
	}

	return c, nil
}

// Encode serializes a container.
//
// Entries are written in ascending signature order, unused index slots hold
// the terminator and every block's padding is zero. The output is exactly
// EncodedSize(len(c.Entries)) bytes. Identical content always yields
// identical bytes.
func Encode(c *Container) ([]byte, error) {
	if len(c.Entries) > IndexCapacity {
		return nil, &FormatError{Kind: CapacityExceeded, Size: len(c.Entries), Want: IndexCapacity}
	}

	seen := make(map[Signature]struct{}, len(c.Entries))
	for i, e := range c.Entries {
		if _, dup := seen[e.Signature]; dup {
			return nil, &FormatError{Kind: DuplicateSignature, Index: i, Signature: e.Signature}
		}
		seen[e.Signature] = struct{}{}
		if len(e.Pixels) != PixelBytes {
			return nil, &ValidationError{Kind: BadPixelLength, Got: len(e.Pixels), Want: PixelBytes}
		}
	}

	sorted := c.SortedEntries()

	buf := make([]byte, EncodedSize(len(sorted)))
	copy(buf[:HeaderSize], c.Header[:])

	for i := 0; i < IndexCapacity; i++ {
		off := IndexStart + i*SlotSize
		val := Terminator
		if i < len(sorted) {
			val = uint32(sorted[i].Signature)
		}
		binary.LittleEndian.PutUint32(buf[off:off+SlotSize], val)
	}

	// make() already zeroed the padding
	pos := ImagesStart
	for _, e := range sorted {
		copy(buf[pos:pos+PixelBytes], e.Pixels)
		pos += BlockStride
	}

	return buf, nil
}
