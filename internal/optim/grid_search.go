// Package optim searches the solver's tunable parameters for the setting
// that minimizes total assignment cost on a fixed source/target pair,
// reusing the same recursive grid walk the teacher used to sweep
// model parameters.
package optim

import (
	"context"
	"errors"
	"math"

	"github.com/san-kum/pixelmorph/internal/assign"
	"github.com/san-kum/pixelmorph/internal/imagekernel"
	"github.com/san-kum/pixelmorph/internal/mathkernel"
)

var ErrSolveIncomplete = errors.New("optim: solve session ended without a terminal message")

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search evaluates every point in the parameter grid by running a solve
// session with that point's settings against source/target/weights, and
// returns the parameters (by name, matching paramNames) that produced the
// lowest total heuristic cost.
func (g *GridSearch) Search(ctx context.Context, source, target imagekernel.Palette, weights []float64, base assign.Settings) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestParams map[string]float64
	var searchErr error

	g.searchRecursive(ctx, 0, make(map[string]float64), source, target, weights, base, &best, &bestParams, &searchErr)

	if searchErr != nil {
		return nil, 0, searchErr
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	source, target imagekernel.Palette,
	weights []float64,
	base assign.Settings,
	best *float64,
	bestParams *map[string]float64,
	searchErr *error,
) {
	if *searchErr != nil {
		return
	}

	if depth == len(g.paramNames) {
		settings := applyParams(base, current)
		cost, err := evaluate(ctx, source, target, weights, settings)
		if err != nil {
			*searchErr = err
			return
		}
		if cost < *best {
			*best = cost
			snapshot := make(map[string]float64, len(current))
			for k, v := range current {
				snapshot[k] = v
			}
			*bestParams = snapshot
		}
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val
		g.searchRecursive(ctx, depth+1, newParams, source, target, weights, base, best, bestParams, searchErr)
	}
}

func applyParams(base assign.Settings, params map[string]float64) assign.Settings {
	s := base
	if v, ok := params["proximityImportance"]; ok {
		s.ProximityImportance = int(v)
	}
	return s
}

func evaluate(ctx context.Context, source, target imagekernel.Palette, weights []float64, settings assign.Settings) (float64, error) {
	cost, _, err := EvaluateSettings(ctx, source, target, weights, settings)
	return cost, err
}

// EvaluateSettings runs one full solve session to completion and returns
// its total heuristic cost alongside the resulting permutation. It is the
// single-point building block Search sweeps over; callers that want the
// whole sweep's trace (not just its minimum) call this directly, one
// settings value at a time.
func EvaluateSettings(ctx context.Context, source, target imagekernel.Palette, weights []float64, settings assign.Settings) (float64, []int, error) {
	out := assign.Solve(ctx, source, target, weights, settings)
	for msg := range out {
		switch msg.Type {
		case assign.MsgDone:
			cost := totalCost(source, target, weights, settings.SideLen, float64(settings.ProximityImportance), msg.Result.Assignments)
			return cost, msg.Result.Assignments, nil
		case assign.MsgError:
			return 0, nil, msg.Err
		case assign.MsgCancelled:
			return 0, nil, context.Canceled
		}
	}
	return 0, nil, ErrSolveIncomplete
}

func totalCost(source, target imagekernel.Palette, weights []float64, side int, wSpatial float64, assignments []int) float64 {
	sum := 0.0
	for t, s := range assignments {
		tp := mathkernel.Point{X: t % side, Y: t / side}
		sp := mathkernel.Point{X: s % side, Y: s / side}
		sum += mathkernel.Heuristic(sp, tp, source[s], target[t], weights[t], wSpatial)
	}
	return sum
}
