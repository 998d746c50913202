package morph

import (
	"fmt"

	"github.com/san-kum/pixelmorph/internal/compute"
	"github.com/san-kum/pixelmorph/internal/mathkernel"
)

// Simulation owns one Cell per source pixel on a Side x Side grid and steps
// them toward their assigned destinations under the force model in cell.go.
// Cells are indexed by source position for their whole lifetime; only Dst
// changes when a new assignment arrives.
type Simulation struct {
	Side     int
	GridSide int
	Cells    []Cell

	// Positions holds each cell's current location, separate from Cell so
	// the spatial grid and the force pass can read/write plain Vec2s without
	// touching the rest of the cell's state.
	Positions []Vec2

	Reversed bool

	rng *mathkernel.PRNG
}

// NewSimulation builds an identity simulation: every cell starts and ends at
// its own pixel center, with a per-cell destination-force strength drawn
// from a seeded PRNG so cells don't all accelerate in lockstep.
func NewSimulation(side int, seed string) *Simulation {
	n := side * side
	cells := make([]Cell, n)
	positions := make([]Vec2, n)
	rng := mathkernel.NewPRNG(seed)

	for i := 0; i < n; i++ {
		c := center(i, side)
		cells[i] = Cell{
			Src:      c,
			Dst:      c,
			DstForce: rng.RangeFloat(0.2, 1.0),
		}
		positions[i] = c
	}

	return &Simulation{
		Side:      side,
		GridSide:  side,
		Cells:     cells,
		Positions: positions,
		rng:       rng,
	}
}

// Step advances every cell by one frame: builds a fresh spatial grid from
// the current positions, accumulates forces in parallel, then integrates.
func (s *Simulation) Step() {
	g := buildGrid(s.Positions, s.Side, s.GridSide)
	pixelSize := float64(s.Side) / float64(s.GridSide)
	backend := compute.GetBackend()
	n := len(s.Cells)

	backend.ParallelFor(n, func(i int) {
		c := &s.Cells[i]
		pos := s.Positions[i]

		c.destinationForce(pos, s.Side)
		wallForce(&c.Acc, pos, s.Side, pixelSize)

		jitter := Vec2{X: 0.01 * float64(i%2*2-1), Y: 0.01 * float64((i/2)%2*2-1)}
		var sumW float64
		var sumWV Vec2
		g.neighbors(pos, i, func(j int) {
			w := neighborForce(&c.Acc, pos, s.Positions[j], pixelSize, jitter)
			if c.StrokeID != 0 && c.StrokeID == s.Cells[j].StrokeID {
				strokeForce(&c.Acc, pos, s.Positions[j], w)
			}
			sumW += w
			sumWV = sumWV.Add(s.Cells[j].Vel.Scale(w))
		})
		if sumW > 0 {
			avg := sumWV.Scale(1 / sumW)
			c.Acc = c.Acc.Add(avg.Sub(c.Vel).Scale(AlignmentFactor))
		}
	})

	backend.ParallelFor(n, func(i int) {
		s.Cells[i].integrate(&s.Positions[i])
	})
}

// PreparePlay readies the simulation for a playback pass in the requested
// direction. If the simulation is already playing in that direction, this
// is a restart: every cell teleports back to its source position and its
// age resets. Otherwise it flips direction: every cell teleports to its
// (about-to-become-former) destination, Src and Dst swap, ages reset, and
// Reversed toggles.
func (s *Simulation) PreparePlay(wantReverse bool) {
	if s.Reversed == wantReverse {
		for i := range s.Cells {
			c := &s.Cells[i]
			s.Positions[i] = c.Src
			c.Age = 0
			c.Vel = Vec2{}
			c.Acc = Vec2{}
		}
		return
	}

	for i := range s.Cells {
		c := &s.Cells[i]
		s.Positions[i] = c.Dst
		c.Src, c.Dst = c.Dst, c.Src
		c.Age = 0
		c.Vel = Vec2{}
		c.Acc = Vec2{}
	}
	s.Reversed = !s.Reversed
}

// SetAssignments retargets every cell from a solved assignment:
// assignments[t] is the source index that should end up at target position
// t. Cells are indexed by source, so the lookup runs over target positions
// and replaces the owning source cell's Src/Dst with fresh centers —
// Age, StrokeID, and DstForce survive the retarget since they track the
// cell's identity, not its current placement.
func (s *Simulation) SetAssignments(assignments []int) error {
	n := len(s.Cells)
	if len(assignments) != n {
		return fmt.Errorf("morph: assignments length %d does not match %d cells", len(assignments), n)
	}

	for targetIdx, sourceIdx := range assignments {
		if sourceIdx < 0 || sourceIdx >= n {
			return fmt.Errorf("morph: assignment at target %d references out-of-range source %d", targetIdx, sourceIdx)
		}
		c := &s.Cells[sourceIdx]
		c.Src = center(sourceIdx, s.Side)
		c.Dst = center(targetIdx, s.Side)
		c.Vel = Vec2{}
		c.Acc = Vec2{}
	}
	return nil
}

// Bounds reports the arena side length cells are confined to.
func (s *Simulation) Bounds() int { return s.Side }
