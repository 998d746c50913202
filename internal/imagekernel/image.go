// Package imagekernel converts between decoded images and the flat RGB
// palettes the assignment optimizer and morph simulation operate on, and
// implements the crop-and-scale transform that brings an arbitrary source
// image to the square working resolution.
package imagekernel

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/san-kum/pixelmorph/internal/mathkernel"

	xdraw "golang.org/x/image/draw"
)

// Palette is a row-major sequence of N = side*side RGB triples.
type Palette []mathkernel.RGB

// ExtractPalette walks img row-major and returns its RGB values. img must
// already be square; use Apply first if it is not.
func ExtractPalette(img image.Image) Palette {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pal := make(Palette, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			pal[y*w+x] = mathkernel.RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
		}
	}
	return pal
}

// ToImage renders a palette of side*side colors back to an *image.NRGBA.
func ToImage(pal Palette, side int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			c := pal[y*side+x]
			img.Set(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
		}
	}
	return img
}

// ProjectAssignment writes the target-side image produced by applying a
// permutation: for target position t, the output color is
// source[assignments[t]].
func ProjectAssignment(source Palette, assignments []int, side int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	for t, s := range assignments {
		x := t % side
		y := t / side
		c := source[s]
		img.Set(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
	}
	return img
}

// CropScale describes a crop-and-scale operation: scale >= 1 zooms in
// around a normalized center (x, y) each in [-1, 1].
type CropScale struct {
	Scale float64
	X, Y  float64
}

// DefaultCropScale is an identity-ish crop: no zoom, centered.
func DefaultCropScale() CropScale { return CropScale{Scale: 1, X: 0, Y: 0} }

// Apply crops src per cs and resamples the crop to a side x side square
// using a high-quality bilinear resampler.
func Apply(src image.Image, cs CropScale, side int) *image.NRGBA {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	base := w
	if h < base {
		base = h
	}
	scale := cs.Scale
	if scale < 1 {
		scale = 1
	}

	cropSide := int(mathkernel.ClampFloat(float64(base)/scale, 1, float64(base)))

	maxOffX := w - cropSide
	if maxOffX < 0 {
		maxOffX = 0
	}
	maxOffY := h - cropSide
	if maxOffY < 0 {
		maxOffY = 0
	}

	xn := mathkernel.ClampFloat(cs.X, -1, 1)*0.5 + 0.5
	yn := mathkernel.ClampFloat(cs.Y, -1, 1)*0.5 + 0.5

	x0 := bounds.Min.X + int(xn*float64(maxOffX))
	y0 := bounds.Min.Y + int(yn*float64(maxOffY))

	cropRect := image.Rect(x0, y0, x0+cropSide, y0+cropSide)
	cropped := image.NewNRGBA(image.Rect(0, 0, cropSide, cropSide))
	draw.Draw(cropped, cropped.Bounds(), src, cropRect.Min, draw.Src)

	out := image.NewNRGBA(image.Rect(0, 0, side, side))
	xdraw.BiLinear.Scale(out, out.Bounds(), cropped, cropped.Bounds(), xdraw.Over, nil)
	return out
}

// Decode reads a PNG (or any image/* registered decoder) from r.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("imagekernel: decode: %w", err)
	}
	return img, nil
}

// Encode writes img as a PNG to w.
func Encode(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("imagekernel: encode: %w", err)
	}
	return nil
}
