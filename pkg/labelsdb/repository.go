package labelsdb

// UpsertResult tells whether Upsert added or replaced an entry
type UpsertResult int

const (
	Inserted UpsertResult = iota
	Updated
)

func (r UpsertResult) String() string {
	if r == Updated {
		return "updated"
	}
	return "inserted"
}

// Repository owns one container for an editing session.
//
// Entries stay in edit order: updates keep their position, inserts append
// and removals close the gap. Lookups are linear scans; the index capacity
// bounds them at 4096 entries.
type Repository struct {
	container *Container
}

// NewRepository takes ownership of c. The caller must not mutate c afterwards.
// A nil container starts an empty session with a zero header.
func NewRepository(c *Container) *Repository {
	if c == nil {
		c = &Container{}
	}
	return &Repository{container: c}
}

func (r *Repository) find(sig Signature) int {
	for i, e := range r.container.Entries {
		if e.Signature == sig {
			return i
		}
	}
	return -1
}

// Upsert replaces the pixels of an existing signature in place or appends a
// new entry. The pixel block is copied.
func (r *Repository) Upsert(sig Signature, pixels []byte) (UpsertResult, error) {
	if len(pixels) != PixelBytes {
		return Inserted, &ValidationError{Kind: BadPixelLength, Got: len(pixels), Want: PixelBytes, Signature: sig}
	}
	if uint32(sig) == Terminator {
		// Would read back as the end of the index
		return Inserted, &ValidationError{Kind: BadSignature, Input: FormatSignature(sig), Signature: sig}
	}

	if idx := r.find(sig); idx >= 0 {
		r.container.Entries[idx].Pixels = cloneBytes(pixels)
		return Updated, nil
	}

	if len(r.container.Entries) >= IndexCapacity {
		return Inserted, &FormatError{Kind: CapacityExceeded, Size: len(r.container.Entries) + 1, Want: IndexCapacity}
	}
	r.container.Entries = append(r.container.Entries, Entry{Signature: sig, Pixels: cloneBytes(pixels)})
	return Inserted, nil
}

// Remove deletes the entry for sig, keeping the order of the rest.
// An absent signature reports ErrNotFound and changes nothing.
func (r *Repository) Remove(sig Signature) error {
	idx := r.find(sig)
	if idx < 0 {
		return &ValidationError{Kind: NotFound, Signature: sig}
	}
	entries := r.container.Entries
	copy(entries[idx:], entries[idx+1:])
	entries[len(entries)-1] = Entry{}
	r.container.Entries = entries[:len(entries)-1]
	return nil
}

// Lookup returns a copy of the pixels stored for sig
func (r *Repository) Lookup(sig Signature) ([]byte, bool) {
	idx := r.find(sig)
	if idx < 0 {
		return nil, false
	}
	return cloneBytes(r.container.Entries[idx].Pixels), true
}

// Entries returns a copy of the entries in edit order. Not sorted.
func (r *Repository) Entries() []Entry {
	return r.container.Clone().Entries
}

// Signatures returns the signatures in edit order
func (r *Repository) Signatures() []Signature {
	sigs := make([]Signature, len(r.container.Entries))
	for i, e := range r.container.Entries {
		sigs[i] = e.Signature
	}
	return sigs
}

// Count returns the number of entries
func (r *Repository) Count() int {
	return len(r.container.Entries)
}

// Header returns the preserved header bytes
func (r *Repository) Header() [HeaderSize]byte {
	return r.container.Header
}

// Container returns a snapshot of the current state
func (r *Repository) Container() *Container {
	return r.container.Clone()
}

// Encode serializes the current state without changing it
func (r *Repository) Encode() ([]byte, error) {
	return Encode(r.container)
}
