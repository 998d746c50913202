package presetstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/pixelmorph/internal/imagekernel"
	"github.com/san-kum/pixelmorph/internal/mathkernel"
)

func samplePalette(side int) imagekernel.Palette {
	pal := make(imagekernel.Palette, side*side)
	for i := range pal {
		pal[i] = mathkernel.RGB{R: uint8(i % 256), G: uint8((i * 3) % 256), B: uint8((i * 7) % 256)}
	}
	return pal
}

func identity(n int) []int {
	a := make([]int, n)
	for i := range a {
		a[i] = i
	}
	return a
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := New(filepath.Join(dir, "presets"))
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	side := 4
	p := &Preset{
		Name:        "demo",
		Width:       side,
		Height:      side,
		Source:      samplePalette(side),
		Assignments: identity(side * side),
	}

	if err := s.Save(p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.Load("demo")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Width != p.Width || loaded.Height != p.Height {
		t.Fatalf("dimensions mismatch: got %dx%d, want %dx%d", loaded.Width, loaded.Height, p.Width, p.Height)
	}
	for i := range p.Assignments {
		if loaded.Assignments[i] != p.Assignments[i] {
			t.Fatalf("assignment %d mismatch: got %d, want %d", i, loaded.Assignments[i], p.Assignments[i])
		}
	}
	for i := range p.Source {
		if loaded.Source[i] != p.Source[i] {
			t.Fatalf("pixel %d mismatch: got %v, want %v", i, loaded.Source[i], p.Source[i])
		}
	}
}

func TestSaveRejectsWrongAssignmentLength(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	_ = s.Init()

	p := &Preset{Name: "bad", Width: 2, Height: 2, Source: samplePalette(2), Assignments: []int{0, 1}}
	if err := s.Save(p); err == nil {
		t.Error("expected error for mismatched assignment length")
	}
}

func TestIndexTracksSavedPresets(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	_ = s.Init()

	for _, name := range []string{"a", "b"} {
		p := &Preset{Name: name, Width: 2, Height: 2, Source: samplePalette(2), Assignments: identity(4)}
		if err := s.Save(p); err != nil {
			t.Fatalf("Save(%s): %v", name, err)
		}
	}

	names, err := s.Index()
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 indexed names, got %v", names)
	}
}

func TestRemoveDropsFromIndex(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	_ = s.Init()

	p := &Preset{Name: "gone", Width: 2, Height: 2, Source: samplePalette(2), Assignments: identity(4)}
	_ = s.Save(p)

	if err := s.Remove("gone"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	names, _ := s.Index()
	for _, n := range names {
		if n == "gone" {
			t.Error("expected removed preset to be absent from index")
		}
	}
	if _, err := s.Load("gone"); err == nil {
		t.Error("expected Load to fail after Remove")
	}
}

func TestIndexFallsBackToDirectoryProbeWithoutIndexFile(t *testing.T) {
	dir := t.TempDir()
	s := New(dir)
	_ = s.Init()

	p := &Preset{Name: "probed", Width: 2, Height: 2, Source: samplePalette(2), Assignments: identity(4)}
	_ = s.Save(p)

	// Simulate an absent index.json by pointing a fresh store at the same
	// directory but removing the index file it wrote.
	idx := filepath.Join(dir, "index.json")
	if err := os.Remove(idx); err != nil {
		t.Fatalf("removing index.json: %v", err)
	}

	names, err := s.Index()
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	found := false
	for _, n := range names {
		if n == "probed" {
			found = true
		}
	}
	if !found {
		t.Error("expected probed directory to be discovered without an index file")
	}
}
