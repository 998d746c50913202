package assign

import (
	"context"

	"github.com/san-kum/pixelmorph/internal/imagekernel"
	"github.com/san-kum/pixelmorph/internal/mathkernel"
)

// runGreedy implements the deterministic "optimal" placeholder solver: for
// each target position in row-major order, pick the cheapest unconsumed
// source index. O(N^2); intended for side <= ~256.
//
// The reference behavior pads any leftover indices with an identity fill
// if fewer than N were consumed, which can duplicate indices. This
// implementation instead asserts full consumption and reports
// ErrIncompleteAssignment — see the Open Questions in the design notes.
func runGreedy(ctx context.Context, source, target imagekernel.Palette, weights []float64, settings Settings, out chan<- Message) {
	side := settings.SideLen
	n := side * side
	wSpatial := float64(settings.ProximityImportance)

	consumed := make([]bool, n)
	assignments := make([]int, n)
	remaining := n

	for t := 0; t < n; t++ {
		if t%100 == 0 {
			select {
			case <-ctx.Done():
				out <- Message{Type: MsgCancelled}
				return
			default:
			}
		}

		tp := pointOf(t, side)
		best := -1
		bestCost := 0.0

		for s := 0; s < n; s++ {
			if consumed[s] {
				continue
			}
			sp := pointOf(s, side)
			cost := mathkernel.Heuristic(sp, tp, source[s], target[t], weights[t], wSpatial)
			if best == -1 || cost < bestCost {
				best = s
				bestCost = cost
			}
		}

		if best == -1 {
			out <- Message{Type: MsgError, Err: ErrIncompleteAssignment}
			return
		}

		consumed[best] = true
		assignments[t] = best
		remaining--

		if t%100 == 0 {
			out <- Message{Type: MsgProgress, Progress: float64(t) / float64(n)}
		}
	}

	if remaining != 0 {
		out <- Message{Type: MsgError, Err: ErrIncompleteAssignment}
		return
	}

	out <- Message{
		Type: MsgDone,
		Result: &Result{
			Source:      source,
			Side:        side,
			Assignments: assignments,
		},
	}
}
