// Package labelsdb reads and writes labels databases: a fixed-layout file
// holding 74x86 thumbnails keyed by 32-bit signatures.
//
// Layout (little-endian):
//
//	0x0000  header       256 bytes, opaque, kept verbatim
//	0x0100  index        4096 uint32 signature slots, sorted, 0xFFFFFFFF padded
//	0x4100  image blocks 25600 bytes per entry in index order:
//	                     25456 bytes BGRA pixels + 144 bytes zero padding
//
// The package does no I/O and no logging. Callers load bytes, Decode them,
// edit through a Repository and Encode the result.
package labelsdb
