package config

// NamedPresets groups built-in generation-setting bundles by algorithm, so
// a CLI user can pick "genetic/thorough" instead of spelling out every
// field. These are distinct from on-disk image presets (see
// internal/presetstore): a NamedPreset is just a settings bundle, never a
// saved source image and assignment.
var NamedPresets = map[string]map[string]*Config{
	"genetic": {
		"quick": {
			ProximityImportance: 8, Algorithm: "genetic", SideLen: 128,
			SourceCropScale: CropScaleYAML{Scale: 1, X: 0, Y: 0},
			TargetCropScale: CropScaleYAML{Scale: 1, X: 0, Y: 0},
		},
		"balanced": {
			ProximityImportance: 13, Algorithm: "genetic", SideLen: 256,
			SourceCropScale: CropScaleYAML{Scale: 1, X: 0, Y: 0},
			TargetCropScale: CropScaleYAML{Scale: 1, X: 0, Y: 0},
		},
		"thorough": {
			ProximityImportance: 22, Algorithm: "genetic", SideLen: 512,
			SourceCropScale: CropScaleYAML{Scale: 1, X: 0, Y: 0},
			TargetCropScale: CropScaleYAML{Scale: 1, X: 0, Y: 0},
		},
	},
	"optimal": {
		"tiny": {
			ProximityImportance: 13, Algorithm: "optimal", SideLen: 64,
			SourceCropScale: CropScaleYAML{Scale: 1, X: 0, Y: 0},
			TargetCropScale: CropScaleYAML{Scale: 1, X: 0, Y: 0},
		},
		"small": {
			ProximityImportance: 13, Algorithm: "optimal", SideLen: 128,
			SourceCropScale: CropScaleYAML{Scale: 1, X: 0, Y: 0},
			TargetCropScale: CropScaleYAML{Scale: 1, X: 0, Y: 0},
		},
	},
}

func GetNamedPreset(algorithm, preset string) *Config {
	byAlgorithm, ok := NamedPresets[algorithm]
	if !ok {
		return nil
	}
	cfg, ok := byAlgorithm[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListNamedPresets(algorithm string) []string {
	byAlgorithm, ok := NamedPresets[algorithm]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(byAlgorithm))
	for name := range byAlgorithm {
		names = append(names, name)
	}
	return names
}
