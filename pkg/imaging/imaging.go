// Package imaging turns ordinary image files into the 74x86 display bitmaps
// the labels database stores, and back into PNG.
package imaging

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/nfnt/resize"
	"github.com/provide-io/labelsdb/pkg/labelsdb"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Resampler names
const (
	CatmullRom = "catmullrom"
	BiLinear   = "bilinear"
	Nearest    = "nearest"
	Lanczos3   = "lanczos3"

	DefaultResampler = CatmullRom
)

// Resampler scales an image to exactly w x h into a non-premultiplied RGBA
// canvas that starts out fully transparent
type Resampler interface {
	Name() string
	Resample(src image.Image, w, h int) *image.NRGBA
}

type scalerResampler struct {
	name   string
	scaler draw.Scaler
}

func (r scalerResampler) Name() string { return r.name }

func (r scalerResampler) Resample(src image.Image, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	r.scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

type lanczosResampler struct{}

func (lanczosResampler) Name() string { return Lanczos3 }

func (lanczosResampler) Resample(src image.Image, w, h int) *image.NRGBA {
	scaled := resize.Resize(uint(w), uint(h), src, resize.Lanczos3)
	return toNRGBA(scaled)
}

var resamplers = map[string]Resampler{
	CatmullRom: scalerResampler{name: CatmullRom, scaler: draw.CatmullRom},
	BiLinear:   scalerResampler{name: BiLinear, scaler: draw.BiLinear},
	Nearest:    scalerResampler{name: Nearest, scaler: draw.NearestNeighbor},
	Lanczos3:   lanczosResampler{},
}

// ResamplerNames lists the accepted resampler names
func ResamplerNames() []string {
	return []string{CatmullRom, BiLinear, Nearest, Lanczos3}
}

// GetResampler looks up a resampler by name. An empty name selects the default.
func GetResampler(name string) (Resampler, error) {
	if name == "" {
		name = DefaultResampler
	}
	r, ok := resamplers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown resampler %q (want one of %s)", name, strings.Join(ResamplerNames(), ", "))
	}
	return r, nil
}

// Decode reads any registered image format (PNG, JPEG, GIF, BMP, WebP)
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// ToDisplayBitmap renders img as a 74x86 RGBA bitmap. Images already at that
// size are copied pixel for pixel; anything else goes through r.
func ToDisplayBitmap(img image.Image, r Resampler) []byte {
	b := img.Bounds()
	var canvas *image.NRGBA
	if b.Dx() == labelsdb.ImageWidth && b.Dy() == labelsdb.ImageHeight {
		canvas = toNRGBA(img)
	} else {
		if r == nil {
			r = resamplers[DefaultResampler]
		}
		canvas = r.Resample(img, labelsdb.ImageWidth, labelsdb.ImageHeight)
	}
	return canvas.Pix
}

// FromDisplayBitmap wraps a 74x86 RGBA bitmap as an image
func FromDisplayBitmap(rgba []byte) (*image.NRGBA, error) {
	if len(rgba) != labelsdb.PixelBytes {
		return nil, &labelsdb.ValidationError{
			Kind: labelsdb.BadDimensions,
			Got:  len(rgba) / labelsdb.BytesPerPixel,
			Want: labelsdb.ImageWidth * labelsdb.ImageHeight,
		}
	}
	img := image.NewNRGBA(image.Rect(0, 0, labelsdb.ImageWidth, labelsdb.ImageHeight))
	copy(img.Pix, rgba)
	return img, nil
}

// ReadPixelBlock decodes an image file into a stored pixel block
func ReadPixelBlock(r io.Reader, res Resampler) ([]byte, error) {
	img, _, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return labelsdb.ToPixelBlock(ToDisplayBitmap(img, res))
}

// WritePNG encodes a stored pixel block as a PNG
func WritePNG(w io.Writer, block []byte) error {
	rgba, err := labelsdb.ToDisplayBitmap(block)
	if err != nil {
		return err
	}
	img, err := FromDisplayBitmap(rgba)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == 4*n.Rect.Dx() {
		out := image.NewNRGBA(n.Rect)
		copy(out.Pix, n.Pix)
		return out
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
