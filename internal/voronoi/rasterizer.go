// Package voronoi renders an S x S image from a list of (position, color)
// seeds by coloring each pixel with its nearest seed, breaking position
// ties by seed index.
package voronoi

import (
	"image"
	"math"
)

// Seed is one (position, color) pair; Color channels are normalized
// floats in [0,1].
type Seed struct {
	X, Y       float64
	R, G, B, A float64
}

// cellSize is the bucket width such that a grid of roughly N buckets
// covers an S x S arena: c = ceil(sqrt(S^2/N)).
func cellSize(side, n int) float64 {
	if n <= 0 {
		return float64(side)
	}
	return math.Ceil(math.Sqrt(float64(side*side) / float64(n)))
}

func toPixel(c Seed) color4 {
	return color4{
		R: clampByte(c.R * 255),
		G: clampByte(c.G * 255),
		B: clampByte(c.B * 255),
		A: clampByte(c.A * 255),
	}
}

type color4 struct{ R, G, B, A uint8 }

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func setPixel(img *image.NRGBA, x, y int, c color4) {
	o := img.PixOffset(x, y)
	img.Pix[o] = c.R
	img.Pix[o+1] = c.G
	img.Pix[o+2] = c.B
	img.Pix[o+3] = c.A
}

// Render builds an S x S image where each pixel takes the color of its
// nearest seed, using a spatial bucket grid so each pixel only examines
// seeds in a 5x5 bucket window instead of all N seeds. If that window is
// empty, the pixel falls back to a brute-force scan of every seed.
func Render(seeds []Seed, side int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	if len(seeds) == 0 {
		return img
	}

	c := cellSize(side, len(seeds))
	cols := int(math.Ceil(float64(side)/c)) + 1
	if cols < 1 {
		cols = 1
	}

	buckets := make([][]int, cols*cols)
	bucketOf := func(x, y float64) (int, int) {
		bx := int(x / c)
		by := int(y / c)
		if bx < 0 {
			bx = 0
		}
		if bx >= cols {
			bx = cols - 1
		}
		if by < 0 {
			by = 0
		}
		if by >= cols {
			by = cols - 1
		}
		return bx, by
	}
	for i, s := range seeds {
		bx, by := bucketOf(s.X, s.Y)
		buckets[by*cols+bx] = append(buckets[by*cols+bx], i)
	}

	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			px := float64(x) + 0.5
			py := float64(y) + 0.5
			best, ok := nearestInWindow(seeds, buckets, cols, c, px, py, 2)
			if !ok {
				best = nearestBrute(seeds, px, py)
			}
			setPixel(img, x, y, toPixel(seeds[best]))
		}
	}
	return img
}

// RenderBrute is the reference implementation: it examines every seed for
// every pixel. Used by tests to check Render's agreement.
func RenderBrute(seeds []Seed, side int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	if len(seeds) == 0 {
		return img
	}
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			px := float64(x) + 0.5
			py := float64(y) + 0.5
			best := nearestBrute(seeds, px, py)
			setPixel(img, x, y, toPixel(seeds[best]))
		}
	}
	return img
}

func nearestInWindow(seeds []Seed, buckets [][]int, cols int, c float64, px, py float64, radius int) (int, bool) {
	bx := int(px / c)
	by := int(py / c)

	best := -1
	bestD := math.Inf(1)

	for dy := -radius; dy <= radius; dy++ {
		ny := by + dy
		if ny < 0 || ny >= cols {
			continue
		}
		for dx := -radius; dx <= radius; dx++ {
			nx := bx + dx
			if nx < 0 || nx >= cols {
				continue
			}
			for _, idx := range buckets[ny*cols+nx] {
				s := seeds[idx]
				ddx := s.X - px
				ddy := s.Y - py
				d := ddx*ddx + ddy*ddy
				if d < bestD || (d == bestD && idx < best) {
					bestD = d
					best = idx
				}
			}
		}
	}
	return best, best >= 0
}

func nearestBrute(seeds []Seed, px, py float64) int {
	best := 0
	bestD := math.Inf(1)
	for i, s := range seeds {
		ddx := s.X - px
		ddy := s.Y - py
		d := ddx*ddx + ddy*ddy
		if d < bestD || (d == bestD && i < best) {
			bestD = d
			best = i
		}
	}
	return best
}
