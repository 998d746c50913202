package tui

import "testing"

func TestNewCanvasStartsBlank(t *testing.T) {
	c := NewCanvas(4, 3)
	for _, row := range c.Grid {
		for _, r := range row {
			if r != 0x2800 {
				t.Fatalf("expected blank braille cell, got %x", r)
			}
		}
	}
}

func TestSetLightsExpectedSubPixel(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(0, 0)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected top-left sub-pixel set, got %x", c.Grid[0][0])
	}
}

func TestSetOutOfBoundsIsIgnored(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(-1, -1)
	c.Set(100, 100)
	for _, row := range c.Grid {
		for _, r := range row {
			if r != 0x2800 {
				t.Fatal("out-of-bounds Set should not modify the grid")
			}
		}
	}
}

func TestClearResetsAllCells(t *testing.T) {
	c := NewCanvas(3, 3)
	c.Set(0, 0)
	c.Set(4, 4)
	c.Clear()
	for _, row := range c.Grid {
		for _, r := range row {
			if r != 0x2800 {
				t.Fatal("expected Clear to blank every cell")
			}
		}
	}
}

func TestDrawLineSetsEndpoints(t *testing.T) {
	c := NewCanvas(10, 10)
	c.DrawLine(0, 0, 8, 0)
	if c.Grid[0][0] == 0x2800 {
		t.Error("expected line start to be set")
	}
	if c.Grid[0][4] == 0x2800 {
		t.Error("expected line end column to be set")
	}
}

func TestThemeCycleCoversAllNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != len(Themes) {
		t.Fatalf("expected %d names, got %d", len(Themes), len(names))
	}
	for _, n := range names {
		if GetTheme(n).Name != n {
			t.Errorf("GetTheme(%q) returned theme named %q", n, GetTheme(n).Name)
		}
	}
}

func TestGetThemeUnknownFallsBackToCyberpunk(t *testing.T) {
	got := GetTheme("does-not-exist")
	if got.Name != ThemeCyberpunk.Name {
		t.Errorf("expected fallback to cyberpunk, got %q", got.Name)
	}
}
