package labelsdb

// Core format constants that never change

const (
	// Fixed region offsets
	HeaderSize  = 0x100  // Opaque header, preserved verbatim
	IndexStart  = 0x100  // First signature slot
	ImagesStart = 0x4100 // First image block

	IndexRegionSize = ImagesStart - IndexStart // 0x4000
	SlotSize        = 4                        // One little-endian uint32 per slot
	IndexCapacity   = IndexRegionSize / SlotSize

	// Thumbnail geometry
	ImageWidth    = 74
	ImageHeight   = 86
	BytesPerPixel = 4
	PixelBytes    = ImageWidth * ImageHeight * BytesPerPixel // 25456

	// Image blocks are padded to a fixed stride
	BlockStride  = 25600
	BlockPadding = BlockStride - PixelBytes // 144, zero on write

	// Terminator marks unused index slots
	Terminator uint32 = 0xFFFFFFFF
)

// EncodedSize returns the exact length of an encoded container holding n entries
func EncodedSize(n int) int {
	return ImagesStart + BlockStride*n
}
