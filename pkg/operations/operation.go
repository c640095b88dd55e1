// Package operations defines the archive layouts used for bulk thumbnail
// export and import ("zip", "tar", "tar.gz", "tar.bz2", ...).
//
// A layout is a Chain: one bundle operation that turns files into a single
// blob, followed by byte transforms (compression) registered by other
// packages.
package operations

import (
	"fmt"
	"sort"
	"sync"
)

// Operation identifiers
const (
	OP_NONE = 0x00

	// Bundle operations (0x01-0x0F) are handled by the bundle package and
	// never registered
	OP_TAR = 0x01
	OP_ZIP = 0x02

	// Byte transforms (0x10-0x2F)
	OP_GZIP  = 0x10
	OP_BZIP2 = 0x13
)

var opNames = map[uint8]string{
	OP_NONE:  "NONE",
	OP_TAR:   "TAR",
	OP_ZIP:   "ZIP",
	OP_GZIP:  "GZIP",
	OP_BZIP2: "BZIP2",
}

// Operation is a reversible transform over a whole packed archive
type Operation interface {
	ID() uint8
	Name() string
	Apply(input []byte) ([]byte, error)
	Reverse(input []byte) ([]byte, error)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[uint8]Operation)
)

// Register makes op available to chains. Registering a bundle ID or the same
// ID twice panics.
func Register(op Operation) {
	registryMu.Lock()
	defer registryMu.Unlock()

	id := op.ID()
	if isBundle(id) || id == OP_NONE {
		panic(fmt.Sprintf("operations: cannot register reserved id 0x%02x", id))
	}
	if _, dup := registry[id]; dup {
		panic(fmt.Sprintf("operations: Register called twice for %s", GetName(id)))
	}
	registry[id] = op
}

// Get returns the registered transform for id
func Get(id uint8) (Operation, error) {
	registryMu.RLock()
	op, ok := registry[id]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown operation: 0x%02x", id)
	}
	return op, nil
}

// Registered lists registered transform IDs in ascending order
func Registered() []uint8 {
	registryMu.RLock()
	defer registryMu.RUnlock()

	ids := make([]uint8, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// GetName returns the upper-case name of an operation ID
func GetName(id uint8) string {
	if name, ok := opNames[id]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN_%02x", id)
}

func isBundle(id uint8) bool {
	return id == OP_TAR || id == OP_ZIP
}
