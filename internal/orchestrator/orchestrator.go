// Package orchestrator ties the assignment optimizer, the morph
// simulation, and the drawing solver into the single stateful session a
// host (a CLI command, a TUI program) drives: it owns the loaded preset,
// the live morph.Simulation and its positions, the current mode, and the
// invariant that at most one optimizer or drawing session runs at a time
// — starting a new one cancels whatever was running.
package orchestrator

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/san-kum/pixelmorph/internal/assign"
	"github.com/san-kum/pixelmorph/internal/drawsolver"
	"github.com/san-kum/pixelmorph/internal/imagekernel"
	"github.com/san-kum/pixelmorph/internal/morph"
	"github.com/san-kum/pixelmorph/internal/presetstore"
	"github.com/san-kum/pixelmorph/internal/voronoi"
)

// Mode mirrors the GuiState mode field: transform (animation loop) or
// draw (interactive painting).
type Mode int

const (
	ModeTransform Mode = iota
	ModeDraw
)

// Orchestrator owns exactly one live preset, one live simulation, and one
// active background session (an optimizer solve or a drawing solve).
// Nothing here is safe to call concurrently with Step/RenderFrame from a
// different goroutine without external synchronization beyond what the
// mutex gives the session-management calls; the animation loop itself is
// expected to run on a single UI-owned goroutine, per the concurrency
// model's single-threaded-per-context rule.
type Orchestrator struct {
	store *presetstore.Store

	mu           sync.Mutex
	cancelActive context.CancelFunc
	sessionID    int

	sim    *morph.Simulation
	active *presetstore.Preset
	mode   Mode

	captureHook func(img *image.NRGBA)
}

// New builds an orchestrator backed by store for preset persistence.
// store may be nil for a purely in-memory session (tests, `tune`-style
// commands that never touch disk).
func New(store *presetstore.Store) *Orchestrator {
	return &Orchestrator{store: store}
}

// SetCaptureHook installs the frame-capture callback invoked once per
// rendered frame while CaptureFrame is called during an animation loop.
// A nil hook disables capture.
func (o *Orchestrator) SetCaptureHook(fn func(img *image.NRGBA)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.captureHook = fn
}

// Simulation returns the live simulation, or nil if no preset is loaded.
func (o *Orchestrator) Simulation() *morph.Simulation { return o.sim }

// Active returns the currently loaded preset, or nil.
func (o *Orchestrator) Active() *presetstore.Preset { return o.active }

// Mode reports the current mode.
func (o *Orchestrator) Mode() Mode { return o.mode }

// LoadPreset makes p the live preset: it builds a fresh simulation if the
// side length changed (cells cannot be resized in place), otherwise
// reuses the existing cell array so stroke ids and destination-force
// strengths survive, applies p's assignments, and restarts playback from
// the source (which resets every cell's age).
func (o *Orchestrator) LoadPreset(p *presetstore.Preset) error {
	if p.Width != p.Height {
		return fmt.Errorf("orchestrator: preset %q is not square (%dx%d)", p.Name, p.Width, p.Height)
	}
	side := p.Width

	if o.sim == nil || o.sim.Side != side {
		o.sim = morph.NewSimulation(side, p.Name)
	}
	if err := o.sim.SetAssignments(p.Assignments); err != nil {
		return fmt.Errorf("orchestrator: loading preset %q: %w", p.Name, err)
	}
	o.sim.PreparePlay(false)

	o.active = p
	o.mode = ModeTransform
	return nil
}

// LoadPresetByName loads a preset by name from the backing store.
func (o *Orchestrator) LoadPresetByName(name string) error {
	if o.store == nil {
		return fmt.Errorf("orchestrator: no preset store configured")
	}
	p, err := o.store.Load(name)
	if err != nil {
		return fmt.Errorf("orchestrator: loading preset %q: %w", name, err)
	}
	return o.LoadPreset(p)
}

// StepFrame advances the animation loop by one frame. It is a no-op
// outside transform mode or before a preset is loaded.
func (o *Orchestrator) StepFrame() {
	if o.mode != ModeTransform || o.sim == nil {
		return
	}
	o.sim.Step()
}

// RenderFrame rasterizes the live simulation's positions, colored by the
// active preset's source palette (cells are indexed by source position
// for their whole lifetime, so Positions[i] is always the current world
// position of source pixel i), into an RGBA image via the Voronoi
// rasterizer.
func (o *Orchestrator) RenderFrame() (*image.NRGBA, error) {
	if o.sim == nil || o.active == nil {
		return nil, fmt.Errorf("orchestrator: no active simulation to render")
	}
	seeds := make([]voronoi.Seed, len(o.sim.Positions))
	for i, pos := range o.sim.Positions {
		c := o.active.Source[i]
		seeds[i] = voronoi.Seed{
			X: pos.X, Y: pos.Y,
			R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255, A: 1,
		}
	}
	return voronoi.Render(seeds, o.sim.Side), nil
}

// CaptureFrame renders the current frame and, if a capture hook is
// installed, hands it the RGBA buffer. It is the orchestrator half of the
// frame-capture contract; the hook itself is opaque (it may accumulate
// frames into a GIF, downsample, or discard).
func (o *Orchestrator) CaptureFrame() error {
	o.mu.Lock()
	hook := o.captureHook
	o.mu.Unlock()
	if hook == nil {
		return nil
	}
	img, err := o.RenderFrame()
	if err != nil {
		return err
	}
	hook(img)
	return nil
}

// cancelActiveSession stops whatever background session (solve or draw)
// is currently running, enforcing the "exactly one active session"
// invariant before a new one starts.
func (o *Orchestrator) cancelActiveSession() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancelActive != nil {
		o.cancelActive()
		o.cancelActive = nil
	}
}

// StartSolve begins a new optimizer session against source/target,
// cancelling any session already in flight. The returned channel must be
// drained to a terminal message (Done, Error, or Cancelled) by the
// caller; on Done, call AdoptResult to switch the live preset to the
// solved result.
func (o *Orchestrator) StartSolve(ctx context.Context, source, target imagekernel.Palette, weights []float64, settings assign.Settings) <-chan assign.Message {
	o.cancelActiveSession()

	runCtx, cancel := context.WithCancel(ctx)
	o.mu.Lock()
	o.cancelActive = cancel
	o.mu.Unlock()

	return assign.Solve(runCtx, source, target, weights, settings)
}

// AdoptResult saves a solved result as a named preset (if a store is
// configured) and switches the live simulation to it, per the "on
// completion append new preset and switch to it" responsibility.
func (o *Orchestrator) AdoptResult(name string, result *assign.Result) (*presetstore.Preset, error) {
	preset := &presetstore.Preset{
		Name:        name,
		Width:       result.Side,
		Height:      result.Side,
		Source:      result.Source,
		Assignments: result.Assignments,
	}
	if o.store != nil {
		if err := o.store.Save(preset); err != nil {
			return nil, fmt.Errorf("orchestrator: saving preset %q: %w", name, err)
		}
	}
	if err := o.LoadPreset(preset); err != nil {
		return nil, err
	}
	return preset, nil
}

// EnterDraw pauses the animation loop and launches a drawing solver
// session seeded with the active preset's current permutation,
// cancelling any session already in flight. The caller drives the
// returned control channel with brush edits and drains messages from the
// returned channel until it closes.
func (o *Orchestrator) EnterDraw(ctx context.Context, settings drawsolver.Settings) (<-chan drawsolver.Message, chan<- drawsolver.Control, error) {
	if o.active == nil {
		return nil, nil, fmt.Errorf("orchestrator: no active preset to draw on")
	}

	o.cancelActiveSession()

	runCtx, cancel := context.WithCancel(ctx)
	o.mu.Lock()
	o.cancelActive = cancel
	o.sessionID++
	myID := o.sessionID
	o.mu.Unlock()

	o.mode = ModeDraw

	weights := assign.UniformWeights(len(o.active.Source))
	control := make(chan drawsolver.Control, 4)
	out := drawsolver.Solve(runCtx, o.active.Source, o.active.Source, weights, settings, o.active.Assignments, control, myID)
	return out, control, nil
}

// ExitDraw cancels the drawing session, records its final permutation
// onto the active preset, and returns to transform mode with the
// simulation retargeted to that permutation.
func (o *Orchestrator) ExitDraw(assignments []int) error {
	o.cancelActiveSession()
	o.mode = ModeTransform
	if o.active == nil || o.sim == nil {
		return fmt.Errorf("orchestrator: not in a drawable session")
	}
	o.active.Assignments = assignments
	if err := o.sim.SetAssignments(assignments); err != nil {
		return fmt.Errorf("orchestrator: applying drawn assignments: %w", err)
	}
	return nil
}

// Cancel stops any in-flight optimizer or drawing session without
// changing mode or the active preset.
func (o *Orchestrator) Cancel() {
	o.cancelActiveSession()
}
