package labelsdb

import (
	"fmt"
	"strconv"
	"strings"
)

// Signature is the opaque 32-bit key of an entry, usually a CRC32 of the
// game image it labels. The codec never computes or checks it.
type Signature uint32

// String renders the signature as 8 upper-case hex digits
func (s Signature) String() string {
	return FormatSignature(s)
}

// FormatSignature renders a signature as 8 upper-case hex digits
func FormatSignature(s Signature) string {
	return fmt.Sprintf("%08X", uint32(s))
}

// ParseSignature parses 8 hex digits with an optional 0x prefix
func ParseSignature(s string) (Signature, error) {
	raw := strings.TrimSpace(s)
	hex := raw
	if strings.HasPrefix(hex, "0x") || strings.HasPrefix(hex, "0X") {
		hex = hex[2:]
	}
	if len(hex) != 8 {
		return 0, &ValidationError{Kind: BadSignature, Input: s}
	}
	for _, c := range hex {
		if !isHexDigit(c) {
			return 0, &ValidationError{Kind: BadSignature, Input: s}
		}
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, &ValidationError{Kind: BadSignature, Input: s}
	}
	return Signature(v), nil
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
