package assign

import (
	"context"
	"math"

	"github.com/san-kum/pixelmorph/internal/imagekernel"
	"github.com/san-kum/pixelmorph/internal/mathkernel"
)

// geneticState holds the current permutation under construction. owner[t]
// is the source index currently filling target position t; h[t] is the
// heuristic cost of that placement.
type geneticState struct {
	side     int
	owner    []int
	h        []float64
	source   imagekernel.Palette
	target   imagekernel.Palette
	weights  []float64
	wSpatial float64
}

func pointOf(idx, side int) mathkernel.Point {
	return mathkernel.Point{X: idx % side, Y: idx / side}
}

func newGeneticState(source, target imagekernel.Palette, weights []float64, side int, wSpatial float64) *geneticState {
	n := side * side
	gs := &geneticState{
		side:     side,
		owner:    make([]int, n),
		h:        make([]float64, n),
		source:   source,
		target:   target,
		weights:  weights,
		wSpatial: wSpatial,
	}
	for p := 0; p < n; p++ {
		gs.owner[p] = p
		pt := pointOf(p, side)
		gs.h[p] = mathkernel.Heuristic(pt, pt, source[p], target[p], weights[p], wSpatial)
	}
	return gs
}

func (gs *geneticState) totalCost() float64 {
	sum := 0.0
	for _, c := range gs.h {
		sum += c
	}
	return sum
}

// trySwap attempts to improve positions a and b by exchanging their
// owners, accepting only if the combined cost strictly decreases. It
// returns whether the swap was accepted.
func (gs *geneticState) trySwap(a, b int) bool {
	if a == b {
		return false
	}
	side := gs.side
	ap := pointOf(a, side)
	bp := pointOf(b, side)

	ownerA := gs.owner[a]
	ownerB := gs.owner[b]
	srcA := pointOf(ownerA, side)
	srcB := pointOf(ownerB, side)
	colorA := gs.source[ownerA]
	colorB := gs.source[ownerB]

	hPrimeA := mathkernel.Heuristic(srcA, bp, colorA, gs.target[b], gs.weights[b], gs.wSpatial)
	hPrimeB := mathkernel.Heuristic(srcB, ap, colorB, gs.target[a], gs.weights[a], gs.wSpatial)

	delta := (gs.h[a] - hPrimeB) + (gs.h[b] - hPrimeA)
	if delta <= 0 {
		return false
	}

	gs.owner[a], gs.owner[b] = ownerB, ownerA
	gs.h[a] = hPrimeB
	gs.h[b] = hPrimeA
	return true
}

func (gs *geneticState) preview() imagekernel.Palette {
	side := gs.side
	pal := make(imagekernel.Palette, side*side)
	for t, s := range gs.owner {
		pal[t] = gs.source[s]
	}
	return pal
}

// runGenetic performs the stochastic hill-climbing local search described
// in the assignment optimizer design: generations of pairwise swap trials
// over a shrinking search radius, terminating once the radius has
// collapsed and no meaningful swaps remain.
func runGenetic(ctx context.Context, source, target imagekernel.Palette, weights []float64, settings Settings, out chan<- Message) {
	side := settings.SideLen
	n := side * side
	wSpatial := float64(settings.ProximityImportance)

	gs := newGeneticState(source, target, weights, side, wSpatial)
	prng := mathkernel.NewPRNG(settings.ID)

	maxDist := float64(side)
	trialsPerGeneration := 128 * n
	checkEvery := 4096

	for {
		swapsMade := 0
		radius := int(maxDist)

		for i := 0; i < trialsPerGeneration; i++ {
			if i%checkEvery == 0 {
				select {
				case <-ctx.Done():
					out <- Message{Type: MsgCancelled}
					return
				default:
				}
			}

			a := prng.Range(0, n)
			ap := pointOf(a, side)

			bx := mathkernel.ClampInt(ap.X+prng.Range(-radius, radius+1), 0, side-1)
			by := mathkernel.ClampInt(ap.Y+prng.Range(-radius, radius+1), 0, side-1)
			b := by*side + bx

			if gs.trySwap(a, b) {
				swapsMade++
			}
		}

		maxDist = math.Max(2, math.Floor(maxDist*0.99))
		progress := 1 - maxDist/float64(side)

		out <- Message{Type: MsgProgress, Progress: progress}
		out <- Message{Type: MsgPreview, PreviewSide: side, Preview: gs.preview()}

		select {
		case <-ctx.Done():
			out <- Message{Type: MsgCancelled}
			return
		default:
		}

		if maxDist < 4 && swapsMade < 10 {
			break
		}
	}

	assignments := make([]int, n)
	copy(assignments, gs.owner)

	out <- Message{
		Type: MsgDone,
		Result: &Result{
			Source:      source,
			Side:        side,
			Assignments: assignments,
		},
	}
}
