package drawsolver

import (
	"context"
	"math"

	"github.com/san-kum/pixelmorph/internal/imagekernel"
	"github.com/san-kum/pixelmorph/internal/mathkernel"
)

// strokeReward is added to a swap trial's heuristic when the destination
// position has a same-strokeId neighbor, making that placement
// overwhelmingly favorable so painted strokes stay contiguous.
const strokeReward = -1e10

// yieldEvery is how many generations pass between control-channel drains,
// matching the "at least once per 10 generations" suspension requirement.
const yieldEvery = 10

func pointOf(idx, side int) mathkernel.Point {
	return mathkernel.Point{X: idx % side, Y: idx / side}
}

// maxDistFor implements the age-based search radius: fresh edits (age
// near 0) get a wide radius that narrows exponentially as the pixel goes
// untouched.
func maxDistFor(age, side int) int {
	d := math.Round(float64(side) / 4 * math.Pow(0.99, float64(age)/30))
	if d < 0 {
		d = 0
	}
	return int(d)
}

type drawState struct {
	side       int
	owner      []int
	h          []float64
	source     imagekernel.Palette
	target     imagekernel.Palette
	weights    []float64
	wSpatial   float64
	strokeID   []int
	lastEdited []int
}

func newDrawState(source, target imagekernel.Palette, weights []float64, side int, wSpatial float64, initial []int) *drawState {
	n := side * side
	ds := &drawState{
		side:       side,
		owner:      make([]int, n),
		h:          make([]float64, n),
		source:     source,
		target:     target,
		weights:    weights,
		wSpatial:   wSpatial,
		strokeID:   make([]int, n),
		lastEdited: make([]int, n),
	}
	copy(ds.owner, initial)
	for p := 0; p < n; p++ {
		pt := pointOf(p, side)
		srcPt := pointOf(ds.owner[p], side)
		ds.h[p] = mathkernel.Heuristic(srcPt, pt, source[ds.owner[p]], target[p], weights[p], wSpatial)
	}
	return ds
}

func (ds *drawState) applyEdits(edits []Edit) {
	for _, e := range edits {
		if e.Position < 0 || e.Position >= len(ds.strokeID) {
			continue
		}
		ds.strokeID[e.Position] = e.StrokeID
		ds.lastEdited[e.Position] = e.LastEdited
	}
}

// hasSameStrokeNeighbor reports whether any of pos's 4-neighbors on the
// grid carries matchID, a non-zero stroke identity.
func (ds *drawState) hasSameStrokeNeighbor(pos, matchID int) bool {
	if matchID == 0 {
		return false
	}
	side := ds.side
	p := pointOf(pos, side)

	offsets := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for _, off := range offsets {
		nx, ny := p.X+off[0], p.Y+off[1]
		if nx < 0 || nx >= side || ny < 0 || ny >= side {
			continue
		}
		if ds.strokeID[ny*side+nx] == matchID {
			return true
		}
	}
	return false
}

// trySwap mirrors the genetic solver's swap trial, adding the asymmetric
// max-distance rejection and stroke reward. It returns whether the swap
// was accepted.
func (ds *drawState) trySwap(a, b int) bool {
	if a == b {
		return false
	}
	side := ds.side
	ap := pointOf(a, side)
	bp := pointOf(b, side)

	ageB := -ds.lastEdited[b]
	maxD := maxDistFor(ageB, side)
	if absInt(bp.X-ap.X) > maxD || absInt(bp.Y-ap.Y) > maxD {
		return false
	}

	ownerA := ds.owner[a]
	ownerB := ds.owner[b]
	srcA := pointOf(ownerA, side)
	srcB := pointOf(ownerB, side)
	colorA := ds.source[ownerA]
	colorB := ds.source[ownerB]

	hPrimeA := mathkernel.Heuristic(srcA, bp, colorA, ds.target[b], ds.weights[b], ds.wSpatial)
	if ds.hasSameStrokeNeighbor(b, ds.strokeID[a]) {
		hPrimeA += strokeReward
	}

	hPrimeB := mathkernel.Heuristic(srcB, ap, colorB, ds.target[a], ds.weights[a], ds.wSpatial)
	if ds.hasSameStrokeNeighbor(a, ds.strokeID[b]) {
		hPrimeB += strokeReward
	}

	delta := (ds.h[a] - hPrimeB) + (ds.h[b] - hPrimeA)
	if delta <= 0 {
		return false
	}

	ds.owner[a], ds.owner[b] = ownerB, ownerA
	ds.h[a] = hPrimeB
	ds.h[b] = hPrimeA
	return true
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Solve runs the never-terminating drawing solver. It seeds from
// initialAssignments (the permutation in force when draw mode was
// entered), drains control on every yieldEvery'th generation to pick up
// new edits and check for session staleness, and reports the evolving
// permutation via MsgAssignmentsUpdate.
func Solve(ctx context.Context, source, target imagekernel.Palette, weights []float64, settings Settings, initialAssignments []int, control <-chan Control, myID int) <-chan Message {
	out := make(chan Message, 8)

	go func() {
		defer close(out)

		side := settings.SideLen
		n := side * side
		wSpatial := float64(settings.ProximityImportance)

		ds := newDrawState(source, target, weights, side, wSpatial, initialAssignments)
		prng := mathkernel.NewPRNG(settings.ID)

		trialsPerGeneration := 128 * n
		checkEvery := 4096
		generation := 0

		for {
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
				ageA := -ds.lastEdited[a]
				radius := maxDistFor(ageA, side)
				if radius < 1 {
					radius = 1
				}

				bx := mathkernel.ClampInt(ap.X+prng.Range(-radius, radius+1), 0, side-1)
				by := mathkernel.ClampInt(ap.Y+prng.Range(-radius, radius+1), 0, side-1)
				b := by*side + bx

				ds.trySwap(a, b)
			}

			generation++

			assignments := make([]int, n)
			copy(assignments, ds.owner)
			out <- Message{Type: MsgAssignmentsUpdate, Assignments: assignments}

			if generation%yieldEvery == 0 {
				drained := true
				for drained {
					select {
					case msg, ok := <-control:
						if !ok {
							drained = false
							break
						}
						if msg.CurrentID != myID {
							out <- Message{Type: MsgCancelled}
							return
						}
						ds.applyEdits(msg.Edits)
					default:
						drained = false
					}
				}
			}

			select {
			case <-ctx.Done():
				out <- Message{Type: MsgCancelled}
				return
			default:
			}
		}
	}()

	return out
}
