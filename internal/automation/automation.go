// Package automation runs a YAML-scripted batch of solve sessions: load a
// source (and optional custom target) image, solve it with the given
// settings, and save the result as a named preset — the headless
// equivalent of repeatedly using the CLI's solve command by hand.
package automation

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pixelmorph/internal/assign"
	"github.com/san-kum/pixelmorph/internal/imagekernel"
	"github.com/san-kum/pixelmorph/internal/presetstore"
)

// Scenario is a scripted batch of solve steps.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep describes one solve: where the source (and optional
// custom target) image comes from, what settings to solve with, and
// what name to save the result under.
type ScenarioStep struct {
	SourcePath          string  `yaml:"source"`
	TargetPath          string  `yaml:"target,omitempty"`
	SettingsID          string  `yaml:"settings_id"`
	ProximityImportance int     `yaml:"proximity_importance"`
	Algorithm           string  `yaml:"algorithm"`
	SideLen             int     `yaml:"sidelen"`
	SaveAs              string  `yaml:"save_as"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func loadPalette(path string, side int) (imagekernel.Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := imagekernel.Decode(f)
	if err != nil {
		return nil, err
	}
	scaled := imagekernel.Apply(img, imagekernel.DefaultCropScale(), side)
	return imagekernel.ExtractPalette(scaled), nil
}

// RunScenario executes every step in order, saving each result into store.
// A step failure aborts the scenario but returns the presets produced by
// steps that already completed.
func RunScenario(ctx context.Context, scenario *Scenario, store *presetstore.Store) ([]*presetstore.Preset, error) {
	results := make([]*presetstore.Preset, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		fmt.Printf("Running step %d/%d: %s\n", i+1, len(scenario.Steps), step.SaveAs)

		source, err := loadPalette(step.SourcePath, step.SideLen)
		if err != nil {
			return results, fmt.Errorf("step %d: loading source: %w", i+1, err)
		}

		target := source
		if step.TargetPath != "" {
			target, err = loadPalette(step.TargetPath, step.SideLen)
			if err != nil {
				return results, fmt.Errorf("step %d: loading target: %w", i+1, err)
			}
		}

		weights := assign.UniformWeights(len(source))
		settings := assign.Settings{
			ID:                  step.SettingsID,
			Name:                step.SaveAs,
			ProximityImportance: step.ProximityImportance,
			Algorithm:           assign.Algorithm(step.Algorithm),
			SideLen:             step.SideLen,
		}

		result, err := solveSync(ctx, source, target, weights, settings)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		preset := &presetstore.Preset{
			Name:        step.SaveAs,
			Width:       step.SideLen,
			Height:      step.SideLen,
			Source:      result.Source,
			Assignments: result.Assignments,
		}
		if store != nil {
			if err := store.Save(preset); err != nil {
				return results, fmt.Errorf("step %d: saving preset: %w", i+1, err)
			}
		}

		results = append(results, preset)
	}

	return results, nil
}

func solveSync(ctx context.Context, source, target imagekernel.Palette, weights []float64, settings assign.Settings) (*assign.Result, error) {
	out := assign.Solve(ctx, source, target, weights, settings)
	for msg := range out {
		switch msg.Type {
		case assign.MsgDone:
			return msg.Result, nil
		case assign.MsgError:
			return nil, msg.Err
		case assign.MsgCancelled:
			return nil, context.Canceled
		}
	}
	return nil, fmt.Errorf("automation: solve session ended without a terminal message")
}
