package labelsdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBitmap() []byte {
	b := make([]byte, PixelBytes)
	for i := 0; i < len(b); i += BytesPerPixel {
		b[i+0] = byte(i)      // R
		b[i+1] = byte(i >> 3) // G
		b[i+2] = byte(i >> 5) // B
		b[i+3] = byte(i >> 7) // A
	}
	return b
}

func TestToPixelBlockSwapsRedAndBlue(t *testing.T) {
	rgba := make([]byte, PixelBytes)
	rgba[0], rgba[1], rgba[2], rgba[3] = 0x11, 0x22, 0x33, 0x44

	block, err := ToPixelBlock(rgba)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x33, 0x22, 0x11, 0x44}, block[:4])
	assert.Equal(t, byte(0x11), rgba[0], "input must not change")
}

func TestPixelConversionInvolution(t *testing.T) {
	rgba := testBitmap()

	block, err := ToPixelBlock(rgba)
	require.NoError(t, err)
	back, err := ToDisplayBitmap(block)
	require.NoError(t, err)
	assert.Equal(t, rgba, back)
}

func TestPixelConversionDimensions(t *testing.T) {
	for _, n := range []int{0, PixelBytes - 4, PixelBytes + 4, PixelBytes - 1} {
		_, err := ToPixelBlock(make([]byte, n))
		assert.ErrorIs(t, err, ErrBadDimensions, "len %d", n)

		_, err = ToDisplayBitmap(make([]byte, n))
		assert.ErrorIs(t, err, ErrBadDimensions, "len %d", n)
	}
}
