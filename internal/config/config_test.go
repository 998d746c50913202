package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/pixelmorph/internal/assign"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Algorithm != string(assign.Genetic) {
		t.Errorf("expected genetic algorithm, got %s", cfg.Algorithm)
	}
	if cfg.ProximityImportance != DefaultProximityImportance {
		t.Errorf("expected proximity importance %d, got %d", DefaultProximityImportance, cfg.ProximityImportance)
	}
	if cfg.SideLen != DefaultSideLen {
		t.Errorf("expected sidelen %d, got %d", DefaultSideLen, cfg.SideLen)
	}
}

func TestToSettingsRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ID = "round-trip"
	s := cfg.ToSettings()

	if s.ID != "round-trip" || s.Algorithm != assign.Genetic || s.SideLen != cfg.SideLen {
		t.Errorf("unexpected settings from ToSettings: %+v", s)
	}

	back := FromSettings(s)
	if back.ID != cfg.ID || back.Algorithm != cfg.Algorithm || back.SideLen != cfg.SideLen {
		t.Errorf("FromSettings did not round-trip: %+v vs %+v", back, cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ID = "saved"
	cfg.Name = "my preset"

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ID != cfg.ID || loaded.Name != cfg.Name || loaded.SideLen != cfg.SideLen {
		t.Errorf("loaded config %+v does not match saved %+v", loaded, cfg)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(os.TempDir(), "does-not-exist-pixelmorph.yaml")); err == nil {
		t.Error("expected error loading a missing file")
	}
}

func TestGetNamedPreset(t *testing.T) {
	cfg := GetNamedPreset("genetic", "balanced")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.ProximityImportance != 13 {
		t.Errorf("expected proximity importance 13, got %d", cfg.ProximityImportance)
	}
}

func TestGetNamedPresetNotFound(t *testing.T) {
	if GetNamedPreset("genetic", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetNamedPreset("nonexistent", "balanced") != nil {
		t.Error("expected nil for nonexistent algorithm")
	}
}

func TestListNamedPresets(t *testing.T) {
	names := ListNamedPresets("genetic")
	if len(names) == 0 {
		t.Error("expected presets for genetic")
	}
	if ListNamedPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent algorithm")
	}
}
