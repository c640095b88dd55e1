package labelsdb

// Display bitmaps are RGBA, byte per channel, alpha last. Pixel blocks store
// the same pixels as BGRA. Swapping red and blue is its own inverse, so both
// directions share one transform.

// ToPixelBlock converts a 74x86 RGBA bitmap into a stored pixel block
func ToPixelBlock(rgba []byte) ([]byte, error) {
	if err := checkBitmap(rgba); err != nil {
		return nil, err
	}
	return swapRedBlue(rgba), nil
}

// ToDisplayBitmap converts a stored pixel block back into RGBA
func ToDisplayBitmap(block []byte) ([]byte, error) {
	if err := checkBitmap(block); err != nil {
		return nil, err
	}
	return swapRedBlue(block), nil
}

func checkBitmap(b []byte) error {
	const pixels = ImageWidth * ImageHeight
	if len(b)%BytesPerPixel != 0 || len(b)/BytesPerPixel != pixels {
		return &ValidationError{Kind: BadDimensions, Got: len(b) / BytesPerPixel, Want: pixels}
	}
	return nil
}

func swapRedBlue(src []byte) []byte {
	out := make([]byte, len(src))
	for i := 0; i < len(src); i += BytesPerPixel {
		out[i+0] = src[i+2]
		out[i+1] = src[i+1]
		out[i+2] = src[i+0]
		out[i+3] = src[i+3]
	}
	return out
}
