package labelsdb

import (
	"errors"
	"fmt"
)

var (
	// Format errors 📦
	ErrTooSmall           = errors.New("file too small to be a labels database")
	ErrTruncated          = errors.New("truncated image data")
	ErrCapacityExceeded   = errors.New("index capacity exceeded")
	ErrDuplicateSignature = errors.New("duplicate signature")

	// Validation errors 🔍
	ErrBadPixelLength  = errors.New("invalid pixel block length")
	ErrBadDimensions   = errors.New("invalid bitmap dimensions")
	ErrBadHeaderLength = errors.New("invalid header length")
	ErrBadSignature    = errors.New("invalid signature")
	ErrNotFound        = errors.New("signature not found")
)

// FormatErrorKind enumerates byte-level layout violations
type FormatErrorKind int

const (
	TooSmall FormatErrorKind = iota
	Truncated
	CapacityExceeded
	DuplicateSignature
)

func (k FormatErrorKind) String() string {
	switch k {
	case TooSmall:
		return "too_small"
	case Truncated:
		return "truncated"
	case CapacityExceeded:
		return "capacity_exceeded"
	case DuplicateSignature:
		return "duplicate_signature"
	default:
		return "unknown"
	}
}

func (k FormatErrorKind) sentinel() error {
	switch k {
	case TooSmall:
		return ErrTooSmall
	case Truncated:
		return ErrTruncated
	case CapacityExceeded:
		return ErrCapacityExceeded
	case DuplicateSignature:
		return ErrDuplicateSignature
	default:
		return nil
	}
}

// FormatError reports a container that cannot be decoded or encoded.
//
// Only the fields relevant to Kind are set:
//   - TooSmall: Size (buffer length), Want (minimum length)
//   - Truncated: Index (entry that failed), Size, Want (bytes needed)
//   - CapacityExceeded: Size (entry count), Want (IndexCapacity)
//   - DuplicateSignature: Index (second occurrence), Signature
type FormatError struct {
	Kind      FormatErrorKind
	Index     int
	Size      int
	Want      int
	Signature Signature
}

func (e *FormatError) Error() string {
	switch e.Kind {
	case TooSmall:
		return fmt.Sprintf("%v: got %d bytes, need at least %d", ErrTooSmall, e.Size, e.Want)
	case Truncated:
		return fmt.Sprintf("%v: entry %d needs %d bytes, buffer has %d", ErrTruncated, e.Index, e.Want, e.Size)
	case CapacityExceeded:
		return fmt.Sprintf("%v: %d entries, capacity %d", ErrCapacityExceeded, e.Size, e.Want)
	case DuplicateSignature:
		return fmt.Sprintf("%v: %s at entry %d", ErrDuplicateSignature, e.Signature, e.Index)
	default:
		return "format error"
	}
}

// Is lets errors.Is match a FormatError against its kind's sentinel
func (e *FormatError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// ValidationErrorKind enumerates caller input problems
type ValidationErrorKind int

const (
	BadPixelLength ValidationErrorKind = iota
	BadDimensions
	BadHeaderLength
	BadSignature
	NotFound
)

func (k ValidationErrorKind) String() string {
	switch k {
	case BadPixelLength:
		return "bad_pixel_length"
	case BadDimensions:
		return "bad_dimensions"
	case BadHeaderLength:
		return "bad_header_length"
	case BadSignature:
		return "bad_signature"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

func (k ValidationErrorKind) sentinel() error {
	switch k {
	case BadPixelLength:
		return ErrBadPixelLength
	case BadDimensions:
		return ErrBadDimensions
	case BadHeaderLength:
		return ErrBadHeaderLength
	case BadSignature:
		return ErrBadSignature
	case NotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// ValidationError reports wrong-sized or malformed caller input.
// Got and Want carry lengths (bytes or pixels), Input the rejected text for
// BadSignature, Signature the key for NotFound.
type ValidationError struct {
	Kind      ValidationErrorKind
	Got       int
	Want      int
	Input     string
	Signature Signature
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case BadSignature:
		return fmt.Sprintf("%v: %q is not 8 hex digits", ErrBadSignature, e.Input)
	case NotFound:
		return fmt.Sprintf("%v: %s", ErrNotFound, e.Signature)
	default:
		return fmt.Sprintf("%v: got %d, want %d", e.Kind.sentinel(), e.Got, e.Want)
	}
}

// Is lets errors.Is match a ValidationError against its kind's sentinel
func (e *ValidationError) Is(target error) bool {
	return target == e.Kind.sentinel()
}
