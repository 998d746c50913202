package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pixelmorph/internal/assign"
	"github.com/san-kum/pixelmorph/internal/imagekernel"
)

const (
	DefaultProximityImportance = 13
	DefaultSideLen             = 256
)

// Config is the on-disk shape of generation settings: assign.Settings
// plus the fields that only make sense persisted (the algorithm name as
// a string, crop scales), loaded and saved as YAML.
type Config struct {
	ID                  string        `yaml:"id"`
	Name                string        `yaml:"name"`
	ProximityImportance int           `yaml:"proximity_importance"`
	Algorithm           string        `yaml:"algorithm"`
	SideLen             int           `yaml:"sidelen"`
	SourceCropScale     CropScaleYAML `yaml:"source_crop_scale"`
	TargetCropScale     CropScaleYAML `yaml:"target_crop_scale"`
}

type CropScaleYAML struct {
	Scale float64 `yaml:"scale"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
}

func DefaultConfig() *Config {
	d := imagekernel.DefaultCropScale()
	return &Config{
		ID:                  "default",
		Name:                "untitled",
		ProximityImportance: DefaultProximityImportance,
		Algorithm:           string(assign.Genetic),
		SideLen:             DefaultSideLen,
		SourceCropScale:     CropScaleYAML{Scale: d.Scale, X: d.X, Y: d.Y},
		TargetCropScale:     CropScaleYAML{Scale: d.Scale, X: d.X, Y: d.Y},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ToSettings converts the persisted shape into the assign package's
// runtime Settings, the form the solver actually consumes.
func (c *Config) ToSettings() assign.Settings {
	return assign.Settings{
		ID:                  c.ID,
		Name:                c.Name,
		ProximityImportance: c.ProximityImportance,
		Algorithm:           assign.Algorithm(c.Algorithm),
		SideLen:             c.SideLen,
		SourceCropScale:     imagekernel.CropScale{Scale: c.SourceCropScale.Scale, X: c.SourceCropScale.X, Y: c.SourceCropScale.Y},
		TargetCropScale:     imagekernel.CropScale{Scale: c.TargetCropScale.Scale, X: c.TargetCropScale.X, Y: c.TargetCropScale.Y},
	}
}

// FromSettings builds the persisted shape from a runtime Settings value.
func FromSettings(s assign.Settings) *Config {
	return &Config{
		ID:                  s.ID,
		Name:                s.Name,
		ProximityImportance: s.ProximityImportance,
		Algorithm:           string(s.Algorithm),
		SideLen:             s.SideLen,
		SourceCropScale:     CropScaleYAML{Scale: s.SourceCropScale.Scale, X: s.SourceCropScale.X, Y: s.SourceCropScale.Y},
		TargetCropScale:     CropScaleYAML{Scale: s.TargetCropScale.Scale, X: s.TargetCropScale.X, Y: s.TargetCropScale.Y},
	}
}
