// Package presetstore persists and loads Preset bundles: a source image
// plus the assignment permutation that rearranges it into a target.
// Layout on disk mirrors a directory-per-entry run store: presets/<name>/
// holds source.png and assignments.json, and an optional presets/index.json
// lists known names for loaders that don't want to probe the filesystem.
package presetstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/san-kum/pixelmorph/internal/imagekernel"
)

// Preset is the serializable bundle described in the external interfaces:
// a name, the source image's dimensions, its RGB palette, and the
// assignment permutation produced by a solve session.
type Preset struct {
	Name        string               `json:"name"`
	Width       int                  `json:"width"`
	Height      int                  `json:"height"`
	Source      imagekernel.Palette  `json:"-"`
	Assignments []int                `json:"assignments"`
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) presetDir(name string) string {
	return filepath.Join(s.baseDir, name)
}

// Save writes source.png and assignments.json into presets/<name>/,
// then appends name to the index if it isn't already listed.
func (s *Store) Save(p *Preset) error {
	dir := s.presetDir(p.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	img := imagekernel.ToImage(p.Source, p.Width)
	f, err := os.Create(filepath.Join(dir, "source.png"))
	if err != nil {
		return err
	}
	defer f.Close()
	if err := imagekernel.Encode(f, img); err != nil {
		return err
	}

	if len(p.Assignments) != p.Width*p.Height {
		return fmt.Errorf("presetstore: assignments length %d does not match %d pixels", len(p.Assignments), p.Width*p.Height)
	}

	assignPath := filepath.Join(dir, "assignments.json")
	data, err := json.MarshalIndent(p.Assignments, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(assignPath, data, 0644); err != nil {
		return err
	}

	return s.addToIndex(p.Name)
}

// Load reads presets/<name>/source.png and assignments.json back into a
// Preset, validating that the assignment array has one non-negative,
// in-range entry per pixel.
func (s *Store) Load(name string) (*Preset, error) {
	dir := s.presetDir(name)

	f, err := os.Open(filepath.Join(dir, "source.png"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := imagekernel.Decode(f)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	data, err := os.ReadFile(filepath.Join(dir, "assignments.json"))
	if err != nil {
		return nil, err
	}
	var assignments []int
	if err := json.Unmarshal(data, &assignments); err != nil {
		return nil, err
	}

	n := width * height
	if len(assignments) != n {
		return nil, fmt.Errorf("presetstore: preset %q has %d assignments, want %d", name, len(assignments), n)
	}
	for _, a := range assignments {
		if a < 0 || a >= n {
			return nil, fmt.Errorf("presetstore: preset %q has out-of-range assignment %d", name, a)
		}
	}

	return &Preset{
		Name:        name,
		Width:       width,
		Height:      height,
		Source:      imagekernel.ExtractPalette(img),
		Assignments: assignments,
	}, nil
}

// Remove deletes presets/<name>/ and drops it from the index.
func (s *Store) Remove(name string) error {
	if err := os.RemoveAll(s.presetDir(name)); err != nil {
		return err
	}
	return s.removeFromIndex(name)
}

func (s *Store) indexPath() string {
	return filepath.Join(s.baseDir, "index.json")
}

// Index returns the known preset names. If presets/index.json is absent,
// it falls back to probing the filesystem for subdirectories, per the
// external interface's "absent, the loader probes a default list".
func (s *Store) Index() ([]string, error) {
	data, err := os.ReadFile(s.indexPath())
	if err == nil {
		var names []string
		if err := json.Unmarshal(data, &names); err != nil {
			return nil, err
		}
		return names, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

func (s *Store) addToIndex(name string) error {
	names, err := s.Index()
	if err != nil {
		return err
	}
	found := false
	for _, n := range names {
		if n == name {
			found = true
			break
		}
	}
	if !found {
		names = append(names, name)
	}
	return s.writeIndex(names)
}

func (s *Store) removeFromIndex(name string) error {
	names, err := s.Index()
	if err != nil {
		return err
	}
	kept := make([]string, 0, len(names))
	for _, n := range names {
		if n != name {
			kept = append(kept, n)
		}
	}
	return s.writeIndex(kept)
}

func (s *Store) writeIndex(names []string) error {
	data, err := json.MarshalIndent(names, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.indexPath(), data, 0644)
}
