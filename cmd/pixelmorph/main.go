// Command pixelmorph rearranges a source image's pixels into a target
// layout and animates the rearrangement as a physics-driven morph. It
// wraps the assignment optimizer, the morph simulation, the Voronoi
// rasterizer, and the drawing solver behind a Cobra CLI, mirroring the
// teacher binary's command-tree shape: a root command that drops into an
// interactive picker by default, plus explicit subcommands for scripted
// use.
package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/pixelmorph/internal/assign"
	"github.com/san-kum/pixelmorph/internal/automation"
	"github.com/san-kum/pixelmorph/internal/config"
	"github.com/san-kum/pixelmorph/internal/drawsolver"
	"github.com/san-kum/pixelmorph/internal/imagekernel"
	"github.com/san-kum/pixelmorph/internal/morph"
	"github.com/san-kum/pixelmorph/internal/optim"
	"github.com/san-kum/pixelmorph/internal/orchestrator"
	"github.com/san-kum/pixelmorph/internal/presetstore"
	"github.com/san-kum/pixelmorph/internal/store"
	"github.com/san-kum/pixelmorph/internal/tui"
)

var (
	dataDir string

	// solve flags
	solveTarget              string
	solveID                  string
	solveName                string
	solveProximityImportance int
	solveAlgorithm           string
	solveSideLen             int
	solveNamedPreset         string

	// play flags
	playReverse bool
	playFrames  int
	playOut     string

	// draw flags
	drawProximityImportance int
	drawSaveAs              string
	drawID                  string

	// tune flags
	tuneTarget       string
	tuneSideLen      int
	tuneAlgorithm    string
	tuneID           string
	tuneProxMin      int
	tuneProxMax      int
	tuneProxStep     int
	tuneTraceOut     string
	tuneSaveSettings string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pixelmorph",
		Short: "rearrange a source image into a target layout, then morph between them",
		RunE:  runDefault,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".pixelmorph", "data directory (presets, tuning runs)")

	solveCmd := &cobra.Command{
		Use:   "solve <source-image>",
		Short: "solve an assignment permutation from a source (and optional target) image",
		Args:  cobra.ExactArgs(1),
		RunE:  runSolve,
	}
	solveCmd.Flags().StringVar(&solveTarget, "target", "", "target image path (defaults to the source, i.e. an identity target)")
	solveCmd.Flags().StringVar(&solveID, "id", "solve", "settings id, seeds the solver's PRNG for reproducibility")
	solveCmd.Flags().StringVar(&solveName, "name", "", "preset name to save under (defaults to the source file's base name)")
	solveCmd.Flags().IntVar(&solveProximityImportance, "proximity-importance", config.DefaultProximityImportance, "spatial weight in the cost heuristic (1..50)")
	solveCmd.Flags().StringVar(&solveAlgorithm, "algorithm", string(assign.Genetic), "solver: genetic or optimal")
	solveCmd.Flags().IntVar(&solveSideLen, "sidelen", config.DefaultSideLen, "working resolution side length (64..2048, multiple of 64)")
	solveCmd.Flags().StringVar(&solveNamedPreset, "preset", "", "named settings bundle (see 'pixelmorph presets settings')")

	playCmd := &cobra.Command{
		Use:   "play <preset>",
		Short: "run the morph animation for a saved preset",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlay,
	}
	playCmd.Flags().BoolVar(&playReverse, "reverse", false, "play from destination back to source")
	playCmd.Flags().IntVar(&playFrames, "frames", 0, "headless mode: render exactly N frames as PNGs instead of an interactive TUI")
	playCmd.Flags().StringVar(&playOut, "out", "frames", "headless mode: directory to write captured PNG frames into")

	drawCmd := &cobra.Command{
		Use:   "draw <preset>",
		Short: "interactively paint strokes while a background solver keeps the assignment coherent",
		Args:  cobra.ExactArgs(1),
		RunE:  runDraw,
	}
	drawCmd.Flags().IntVar(&drawProximityImportance, "proximity-importance", config.DefaultProximityImportance, "spatial weight for the drawing solver's heuristic")
	drawCmd.Flags().StringVar(&drawSaveAs, "save-as", "", "preset name to save the drawn result under (defaults to overwriting the source preset)")
	drawCmd.Flags().StringVar(&drawID, "id", "draw", "settings id, seeds the drawing solver's PRNG")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "inspect the on-disk preset store",
	}
	presetsListCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved presets",
		RunE:  runPresetsList,
	}
	presetsShowCmd := &cobra.Command{
		Use:   "show <preset>",
		Short: "show a saved preset's dimensions",
		Args:  cobra.ExactArgs(1),
		RunE:  runPresetsShow,
	}
	presetsRmCmd := &cobra.Command{
		Use:   "rm <preset>",
		Short: "delete a saved preset",
		Args:  cobra.ExactArgs(1),
		RunE:  runPresetsRm,
	}
	presetsSettingsCmd := &cobra.Command{
		Use:   "settings <genetic|optimal>",
		Short: "list named generation-settings bundles for an algorithm",
		Args:  cobra.ExactArgs(1),
		RunE:  runPresetsSettings,
	}
	presetsCmd.AddCommand(presetsListCmd, presetsShowCmd, presetsRmCmd, presetsSettingsCmd)

	tuneCmd := &cobra.Command{
		Use:   "tune <source-image>",
		Short: "grid-search proximityImportance to minimize total assignment cost",
		Args:  cobra.ExactArgs(1),
		RunE:  runTune,
	}
	tuneCmd.Flags().StringVar(&tuneTarget, "target", "", "target image path (defaults to the source)")
	tuneCmd.Flags().IntVar(&tuneSideLen, "sidelen", 64, "working resolution for tuning trials (kept small; tuning re-solves once per value)")
	tuneCmd.Flags().StringVar(&tuneAlgorithm, "algorithm", string(assign.Optimal), "solver used for each trial: genetic or optimal")
	tuneCmd.Flags().StringVar(&tuneID, "id", "tune", "settings id shared by every trial")
	tuneCmd.Flags().IntVar(&tuneProxMin, "proximity-min", 1, "lower bound of the proximityImportance sweep")
	tuneCmd.Flags().IntVar(&tuneProxMax, "proximity-max", 50, "upper bound of the proximityImportance sweep")
	tuneCmd.Flags().IntVar(&tuneProxStep, "proximity-step", 3, "step size of the proximityImportance sweep")
	tuneCmd.Flags().StringVar(&tuneTraceOut, "trace-out", "", "write the full sweep trace to this JSON path")
	tuneCmd.Flags().StringVar(&tuneSaveSettings, "save-settings", "", "write the winning settings to this YAML path")

	batchCmd := &cobra.Command{
		Use:   "batch <scenario.yaml>",
		Short: "run a scripted batch of solve steps",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	rootCmd.AddCommand(solveCmd, playCmd, drawCmd, presetsCmd, tuneCmd, batchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func presetsDir() string { return filepath.Join(dataDir, "presets") }

func openStore() (*presetstore.Store, error) {
	s := presetstore.New(presetsDir())
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("opening preset store: %w", err)
	}
	return s, nil
}

// runDefault drops into the interactive preset picker, the same "no
// subcommand given" behavior the teacher's root command falls back to.
func runDefault(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	names, err := s.Index()
	if err != nil {
		return fmt.Errorf("listing presets: %w", err)
	}
	if len(names) == 0 {
		fmt.Println("no saved presets yet — run `pixelmorph solve <image>` first")
		return nil
	}

	chosen, err := tui.RunPresetMenu(names)
	if err != nil {
		return err
	}
	if chosen == "" {
		return nil
	}

	orch := orchestrator.New(s)
	if err := orch.LoadPresetByName(chosen); err != nil {
		return err
	}
	return tui.RunPlay(orch.Simulation(), chosen)
}

func loadPaletteFromPath(path string, side int) (imagekernel.Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	img, err := imagekernel.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	scaled := imagekernel.Apply(img, imagekernel.DefaultCropScale(), side)
	return imagekernel.ExtractPalette(scaled), nil
}

func presetBaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func runSolve(cmd *cobra.Command, args []string) error {
	sourcePath := args[0]

	if solveNamedPreset != "" {
		named := config.GetNamedPreset(solveAlgorithm, solveNamedPreset)
		if named == nil {
			return fmt.Errorf("unknown named preset %q for algorithm %q (try `pixelmorph presets settings %s`)", solveNamedPreset, solveAlgorithm, solveAlgorithm)
		}
		if !cmd.Flags().Changed("proximity-importance") {
			solveProximityImportance = named.ProximityImportance
		}
		if !cmd.Flags().Changed("sidelen") {
			solveSideLen = named.SideLen
		}
		if !cmd.Flags().Changed("algorithm") {
			solveAlgorithm = named.Algorithm
		}
	}

	name := solveName
	if name == "" {
		name = presetBaseName(sourcePath)
	}

	source, err := loadPaletteFromPath(sourcePath, solveSideLen)
	if err != nil {
		return err
	}

	target := source
	if solveTarget != "" {
		target, err = loadPaletteFromPath(solveTarget, solveSideLen)
		if err != nil {
			return err
		}
	}

	weights := assign.UniformWeights(len(source))
	settings := assign.Settings{
		ID:                  solveID,
		Name:                name,
		ProximityImportance: solveProximityImportance,
		Algorithm:           assign.Algorithm(solveAlgorithm),
		SideLen:             solveSideLen,
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	orch := orchestrator.New(s)

	ctx := context.Background()
	out := orch.StartSolve(ctx, source, target, weights, settings)

	fmt.Printf("solving %s (%s, %dx%d, proximity=%d)...\n", name, settings.Algorithm, settings.SideLen, settings.SideLen, settings.ProximityImportance)

	for msg := range out {
		switch msg.Type {
		case assign.MsgProgress:
			fmt.Printf("\rprogress: %5.1f%%", msg.Progress*100)
		case assign.MsgDone:
			fmt.Println()
			preset, err := orch.AdoptResult(name, msg.Result)
			if err != nil {
				return err
			}
			fmt.Printf("saved preset %q (%dx%d)\n", preset.Name, preset.Width, preset.Height)
			return nil
		case assign.MsgError:
			fmt.Println()
			return fmt.Errorf("solve failed: %w", msg.Err)
		case assign.MsgCancelled:
			fmt.Println()
			return fmt.Errorf("solve cancelled")
		}
	}
	return fmt.Errorf("solve session ended without a terminal message")
}

func runPlay(cmd *cobra.Command, args []string) error {
	name := args[0]
	s, err := openStore()
	if err != nil {
		return err
	}

	if playFrames > 0 {
		return runPlayHeadless(s, name)
	}

	preset, err := s.Load(name)
	if err != nil {
		return fmt.Errorf("loading preset %q: %w", name, err)
	}
	sim := morph.NewSimulation(preset.Width, preset.Name)
	if err := sim.SetAssignments(preset.Assignments); err != nil {
		return err
	}
	sim.PreparePlay(playReverse)

	return tui.RunPlay(sim, name)
}

func runPlayHeadless(s *presetstore.Store, name string) error {
	orch := orchestrator.New(s)
	if err := orch.LoadPresetByName(name); err != nil {
		return err
	}
	orch.Simulation().PreparePlay(playReverse)

	if err := os.MkdirAll(playOut, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	frameIdx := 0
	orch.SetCaptureHook(func(img *image.NRGBA) {
		path := filepath.Join(playOut, fmt.Sprintf("frame-%05d.png", frameIdx))
		f, err := os.Create(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not write %s: %v\n", path, err)
			return
		}
		defer f.Close()
		if err := imagekernel.Encode(f, img); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not encode %s: %v\n", path, err)
		}
		frameIdx++
	})

	for i := 0; i < playFrames; i++ {
		orch.StepFrame()
		if err := orch.CaptureFrame(); err != nil {
			return err
		}
	}

	fmt.Printf("wrote %d frames to %s\n", frameIdx, playOut)
	return nil
}

func runDraw(cmd *cobra.Command, args []string) error {
	name := args[0]
	s, err := openStore()
	if err != nil {
		return err
	}
	preset, err := s.Load(name)
	if err != nil {
		return fmt.Errorf("loading preset %q: %w", name, err)
	}

	weights := assign.UniformWeights(len(preset.Source))
	settings := drawsolver.Settings{
		ID:                  drawID,
		ProximityImportance: drawProximityImportance,
		SideLen:             preset.Width,
	}

	ctx := context.Background()
	final, err := tui.RunDraw(ctx, preset.Source, preset.Source, weights, settings, preset.Assignments, 1)
	if err != nil {
		return err
	}

	saveAs := drawSaveAs
	if saveAs == "" {
		saveAs = name
	}
	preset.Name = saveAs
	preset.Assignments = final
	if err := s.Save(preset); err != nil {
		return fmt.Errorf("saving drawn preset: %w", err)
	}
	fmt.Printf("saved preset %q\n", saveAs)
	return nil
}

func runPresetsList(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	names, err := s.Index()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("no saved presets")
		return nil
	}
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}

func runPresetsShow(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	p, err := s.Load(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("name:        %s\n", p.Name)
	fmt.Printf("dimensions:  %dx%d\n", p.Width, p.Height)
	fmt.Printf("pixels:      %d\n", p.Width*p.Height)
	return nil
}

func runPresetsRm(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	if err := s.Remove(args[0]); err != nil {
		return err
	}
	fmt.Printf("removed preset %q\n", args[0])
	return nil
}

func runPresetsSettings(cmd *cobra.Command, args []string) error {
	algorithm := args[0]
	names := config.ListNamedPresets(algorithm)
	if len(names) == 0 {
		fmt.Printf("no named settings bundles for algorithm %q\n", algorithm)
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPROXIMITY\tSIDELEN")
	for _, name := range names {
		c := config.GetNamedPreset(algorithm, name)
		fmt.Fprintf(w, "%s\t%d\t%d\n", name, c.ProximityImportance, c.SideLen)
	}
	return w.Flush()
}

func runTune(cmd *cobra.Command, args []string) error {
	sourcePath := args[0]

	source, err := loadPaletteFromPath(sourcePath, tuneSideLen)
	if err != nil {
		return err
	}
	target := source
	if tuneTarget != "" {
		target, err = loadPaletteFromPath(tuneTarget, tuneSideLen)
		if err != nil {
			return err
		}
	}
	weights := assign.UniformWeights(len(source))

	base := assign.Settings{
		ID:        tuneID,
		Algorithm: assign.Algorithm(tuneAlgorithm),
		SideLen:   tuneSideLen,
	}

	ctx := context.Background()

	values := make([]float64, 0)
	for v := tuneProxMin; v <= tuneProxMax; v += tuneProxStep {
		values = append(values, float64(v))
	}
	if len(values) == 0 {
		return fmt.Errorf("tune: empty proximity-importance sweep (check --proximity-min/max/step)")
	}

	trace := &store.Trace{}
	bestCost := 0.0
	bestProximity := tuneProxMin
	fmt.Printf("tuning proximityImportance over [%d, %d] step %d (%s, %dx%d)...\n", tuneProxMin, tuneProxMax, tuneProxStep, base.Algorithm, tuneSideLen, tuneSideLen)

	for i, v := range values {
		trial := base
		trial.ProximityImportance = int(v)

		cost, _, err := optim.EvaluateSettings(ctx, source, target, weights, trial)
		if err != nil {
			return fmt.Errorf("trial proximityImportance=%d: %w", trial.ProximityImportance, err)
		}

		// Swaps has no meaning for a parameter sweep trace; kept at 0 to
		// match store.Trace's per-generation shape used elsewhere.
		trace.Generation = append(trace.Generation, trial.ProximityImportance)
		trace.Cost = append(trace.Cost, cost)
		trace.Swaps = append(trace.Swaps, 0)

		if i == 0 || cost < bestCost {
			bestCost = cost
			bestProximity = trial.ProximityImportance
		}
		fmt.Printf("  proximityImportance=%-3d cost=%.2f\n", trial.ProximityImportance, cost)
	}

	fmt.Printf("\nbest: proximityImportance=%d cost=%.2f\n", bestProximity, bestCost)

	runsDir := filepath.Join(dataDir, "tuning")
	runStore := store.New(runsDir)
	if err := runStore.Init(); err != nil {
		return fmt.Errorf("opening tuning run store: %w", err)
	}
	runID, err := runStore.Save(string(base.Algorithm), tuneID, tuneSideLen, bestProximity, trace)
	if err != nil {
		return fmt.Errorf("saving tuning run: %w", err)
	}
	fmt.Printf("run id: %s\n", runID)

	if len(trace.Cost) > 1 {
		chart := asciigraph.Plot(trace.Cost, asciigraph.Height(10), asciigraph.Width(60), asciigraph.Caption("cost vs proximityImportance"))
		fmt.Println()
		fmt.Println(chart)
	}

	if tuneTraceOut != "" {
		if err := store.ExportJSON(tuneTraceOut, string(base.Algorithm), tuneID, tuneSideLen, bestProximity, trace); err != nil {
			return fmt.Errorf("exporting trace: %w", err)
		}
		fmt.Printf("wrote trace to %s\n", tuneTraceOut)
	}

	if tuneSaveSettings != "" {
		winning := base
		winning.ProximityImportance = bestProximity
		cfg := config.FromSettings(winning)
		if err := config.Save(tuneSaveSettings, cfg); err != nil {
			return fmt.Errorf("saving winning settings: %w", err)
		}
		fmt.Printf("wrote winning settings to %s\n", tuneSaveSettings)
	}

	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	scenarioPath := args[0]
	scenario, err := automation.LoadScenario(scenarioPath)
	if err != nil {
		return fmt.Errorf("loading scenario: %w", err)
	}

	s, err := openStore()
	if err != nil {
		return err
	}

	fmt.Printf("running scenario %q: %s\n", scenario.Name, scenario.Description)
	results, err := automation.RunScenario(context.Background(), scenario, s)
	if err != nil {
		return fmt.Errorf("scenario failed after %d/%d steps: %w", len(results), len(scenario.Steps), err)
	}

	fmt.Printf("completed %d steps:\n", len(results))
	for _, r := range results {
		fmt.Printf("  %s (%dx%d)\n", r.Name, r.Width, r.Height)
	}
	return nil
}
