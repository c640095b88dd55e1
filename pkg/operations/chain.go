package operations

import (
	"fmt"
	"strings"
)

// Chain is an archive layout: a bundle operation (TAR or ZIP) followed by
// zero or more compression operations, in application order. ZIP compresses
// its own members and takes no further operations.
type Chain []uint8

// Bundle returns the bundle operation, or OP_NONE for an empty chain
func (c Chain) Bundle() uint8 {
	if len(c) == 0 {
		return OP_NONE
	}
	return c[0]
}

// Compression returns the operations applied after bundling
func (c Chain) Compression() []uint8 {
	if len(c) == 0 {
		return nil
	}
	return c[1:]
}

// String returns the common name of the chain ("tar.gz") or its pipe form
func (c Chain) String() string {
	key := chainKey(c)
	if name, ok := commonChains[key]; ok {
		return name
	}

	names := make([]string, len(c))
	for i, op := range c {
		names[i] = strings.ToLower(GetName(op))
	}
	return strings.Join(names, "|")
}

// Extension returns the file extension for archives built with this chain
func (c Chain) Extension() string {
	if ext, ok := chainExtensions[chainKey(c)]; ok {
		return ext
	}
	return ".tar"
}

// ParseChain parses "zip", "tar", "tar.gz", "tgz", "tar.bz2", "tbz2" or a
// pipe separated list such as "tar|gzip". The chain must start with a bundle
// operation.
func ParseChain(opString string) (Chain, error) {
	opString = strings.ToLower(strings.TrimSpace(opString))
	if opString == "" {
		return nil, fmt.Errorf("empty operation chain")
	}

	var ops Chain
	if named, ok := namedChains[opString]; ok {
		ops = append(ops, named...)
	} else {
		for _, part := range strings.Split(opString, "|") {
			part = strings.TrimSpace(strings.ToUpper(part))
			if part == "" {
				continue
			}
			op, ok := namedOperations[part]
			if !ok {
				return nil, fmt.Errorf("unsupported operation: %s", part)
			}
			ops = append(ops, op)
		}
	}

	if err := ops.validate(); err != nil {
		return nil, fmt.Errorf("chain %q: %w", opString, err)
	}
	return ops, nil
}

// DetectChain infers the chain from an archive file name
func DetectChain(filename string) (Chain, error) {
	lower := strings.ToLower(filename)
	for _, suffix := range detectOrder {
		if strings.HasSuffix(lower, suffix) {
			return ParseChain(suffixChains[suffix])
		}
	}
	return nil, fmt.Errorf("cannot infer archive format from %q", filename)
}

func (c Chain) validate() error {
	if len(c) == 0 || !isBundle(c[0]) {
		return fmt.Errorf("must start with tar or zip")
	}
	if c[0] == OP_ZIP && len(c) > 1 {
		return fmt.Errorf("zip takes no further operations")
	}
	if len(c) > 8 {
		return fmt.Errorf("maximum 8 operations allowed, got %d", len(c))
	}
	for _, op := range c[1:] {
		if isBundle(op) {
			return fmt.Errorf("%s may only appear first", strings.ToLower(GetName(op)))
		}
		if _, err := Get(op); err != nil {
			return err
		}
	}
	return nil
}

// ApplyChain applies a chain of operations to data
func ApplyChain(data []byte, operations []uint8) ([]byte, error) {
	current := data

	for _, opID := range operations {
		op, err := Get(opID)
		if err != nil {
			return nil, fmt.Errorf("operation 0x%02x: %w", opID, err)
		}

		result, err := op.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("applying %s: %w", op.Name(), err)
		}

		current = result
	}

	return current, nil
}

// ReverseChain reverses a chain of operations on data
func ReverseChain(data []byte, operations []uint8) ([]byte, error) {
	current := data

	for i := len(operations) - 1; i >= 0; i-- {
		opID := operations[i]
		op, err := Get(opID)
		if err != nil {
			return nil, fmt.Errorf("operation 0x%02x: %w", opID, err)
		}

		result, err := op.Reverse(current)
		if err != nil {
			return nil, fmt.Errorf("reversing %s: %w", op.Name(), err)
		}

		current = result
	}

	return current, nil
}

func chainKey(ops []uint8) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = fmt.Sprintf("%02x", op)
	}
	return strings.Join(parts, "-")
}

var commonChains = map[string]string{
	"02":    "zip",
	"01":    "tar",
	"01-10": "tar.gz",
	"01-13": "tar.bz2",
}

var chainExtensions = map[string]string{
	"02":    ".zip",
	"01":    ".tar",
	"01-10": ".tar.gz",
	"01-13": ".tar.bz2",
}

var namedChains = map[string][]uint8{
	"zip":     {OP_ZIP},
	"tar":     {OP_TAR},
	"tar.gz":  {OP_TAR, OP_GZIP},
	"tar.bz2": {OP_TAR, OP_BZIP2},

	// Alternative names
	"tgz":  {OP_TAR, OP_GZIP},
	"tbz2": {OP_TAR, OP_BZIP2},
}

var namedOperations = map[string]uint8{
	"TAR":   OP_TAR,
	"ZIP":   OP_ZIP,
	"GZIP":  OP_GZIP,
	"BZIP2": OP_BZIP2,
}

// Longest suffixes first so ".tar.gz" wins over ".gz"
var detectOrder = []string{".tar.bz2", ".tar.gz", ".tbz2", ".tgz", ".tar", ".zip"}

var suffixChains = map[string]string{
	".tar.bz2": "tar.bz2",
	".tar.gz":  "tar.gz",
	".tbz2":    "tar.bz2",
	".tgz":     "tar.gz",
	".tar":     "tar",
	".zip":     "zip",
}
