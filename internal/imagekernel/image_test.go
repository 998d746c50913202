package imagekernel

import (
	"image"
	"image/color"
	"testing"
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestExtractPaletteSize(t *testing.T) {
	img := solidImage(4, 4, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	pal := ExtractPalette(img)
	if len(pal) != 16 {
		t.Fatalf("expected 16 entries, got %d", len(pal))
	}
	for _, c := range pal {
		if c.R != 10 || c.G != 20 || c.B != 30 {
			t.Fatalf("unexpected color %+v", c)
		}
	}
}

func TestToImageRoundTrip(t *testing.T) {
	pal := Palette{
		{R: 1, G: 2, B: 3}, {R: 4, G: 5, B: 6},
		{R: 7, G: 8, B: 9}, {R: 10, G: 11, B: 12},
	}
	img := ToImage(pal, 2)
	back := ExtractPalette(img)
	for i := range pal {
		if back[i] != pal[i] {
			t.Errorf("index %d: expected %+v, got %+v", i, pal[i], back[i])
		}
	}
}

func TestProjectAssignmentIdentity(t *testing.T) {
	pal := Palette{{R: 1}, {R: 2}, {R: 3}, {R: 4}}
	assignments := []int{0, 1, 2, 3}
	img := ProjectAssignment(pal, assignments, 2)
	back := ExtractPalette(img)
	for i := range pal {
		if back[i].R != pal[i].R {
			t.Errorf("index %d: expected R=%d got R=%d", i, pal[i].R, back[i].R)
		}
	}
}

func TestProjectAssignmentPermutation(t *testing.T) {
	pal := Palette{{R: 1}, {R: 2}, {R: 3}, {R: 4}}
	// target 0 gets source 3, target 1 gets source 0, etc.
	assignments := []int{3, 0, 1, 2}
	img := ProjectAssignment(pal, assignments, 2)
	back := ExtractPalette(img)
	expected := []uint8{4, 1, 2, 3}
	for i, e := range expected {
		if back[i].R != e {
			t.Errorf("index %d: expected R=%d got R=%d", i, e, back[i].R)
		}
	}
}

func TestApplyIdentityCropIsSameSize(t *testing.T) {
	src := solidImage(16, 16, color.NRGBA{R: 50, G: 60, B: 70, A: 255})
	out := Apply(src, DefaultCropScale(), 16)
	if out.Bounds().Dx() != 16 || out.Bounds().Dy() != 16 {
		t.Fatalf("expected 16x16 output, got %dx%d", out.Bounds().Dx(), out.Bounds().Dy())
	}
	c := out.NRGBAAt(8, 8)
	if c.R != 50 || c.G != 60 || c.B != 70 {
		t.Errorf("expected solid color preserved, got %+v", c)
	}
}

func TestApplyNonSquareCropsToSide(t *testing.T) {
	src := solidImage(32, 16, color.NRGBA{R: 1, G: 1, B: 1, A: 255})
	out := Apply(src, DefaultCropScale(), 8)
	if out.Bounds().Dx() != 8 || out.Bounds().Dy() != 8 {
		t.Fatalf("expected 8x8 output, got %dx%d", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestApplyZoom(t *testing.T) {
	src := solidImage(64, 64, color.NRGBA{R: 5, G: 5, B: 5, A: 255})
	out := Apply(src, CropScale{Scale: 2, X: 0, Y: 0}, 32)
	if out.Bounds().Dx() != 32 {
		t.Fatalf("expected 32 wide, got %d", out.Bounds().Dx())
	}
}
