// Package metrics observes a running morph.Simulation frame by frame and
// reduces it to a handful of scalar diagnostics, in the same
// accumulate-then-reduce shape across all three metrics: Observe folds one
// frame in, Value reports the running reduction, Reset clears it.
package metrics

import (
	"math"

	"github.com/san-kum/pixelmorph/internal/morph"
)

// Metric observes a Simulation snapshot once per frame and reduces the
// observations to a single scalar.
type Metric interface {
	Name() string
	Observe(sim *morph.Simulation)
	Value() float64
	Reset()
}

// AssignmentCost tracks the mean per-cell squared distance to destination
// across observed frames — a proxy for how much morph work remains.
type AssignmentCost struct {
	name    string
	sum     float64
	samples int
}

func NewAssignmentCost() *AssignmentCost {
	return &AssignmentCost{name: "assignment_cost"}
}

func (a *AssignmentCost) Name() string { return a.name }

func (a *AssignmentCost) Observe(sim *morph.Simulation) {
	if len(sim.Cells) == 0 {
		return
	}
	frameSum := 0.0
	for i, c := range sim.Cells {
		d := c.Dst.Sub(sim.Positions[i])
		frameSum += d.X*d.X + d.Y*d.Y
	}
	a.sum += frameSum / float64(len(sim.Cells))
	a.samples++
}

func (a *AssignmentCost) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sum / float64(a.samples)
}

func (a *AssignmentCost) Reset() {
	a.sum = 0
	a.samples = 0
}

// ContainmentViolation tracks the fraction of observed frames in which at
// least one cell strayed outside the arena by more than
// morph.MaxVelocity — the tolerance the containment invariant allows for
// a single frame's overshoot.
type ContainmentViolation struct {
	name       string
	violations int
	samples    int
}

func NewContainmentViolation() *ContainmentViolation {
	return &ContainmentViolation{name: "containment_violation"}
}

func (c *ContainmentViolation) Name() string { return c.name }

func (c *ContainmentViolation) Observe(sim *morph.Simulation) {
	c.samples++
	margin := morph.MaxVelocity
	side := float64(sim.Side)
	for _, pos := range sim.Positions {
		if pos.X < -margin || pos.X > side+margin || pos.Y < -margin || pos.Y > side+margin {
			c.violations++
			return
		}
	}
}

func (c *ContainmentViolation) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.violations) / float64(c.samples)
}

func (c *ContainmentViolation) Reset() {
	c.violations = 0
	c.samples = 0
}

// SettlingDistance tracks the largest per-cell distance to destination
// seen across observed frames, reporting how far the slowest cell still
// has to travel.
type SettlingDistance struct {
	name    string
	maxDist float64
	samples int
}

func NewSettlingDistance() *SettlingDistance {
	return &SettlingDistance{name: "settling_distance"}
}

func (s *SettlingDistance) Name() string { return s.name }

func (s *SettlingDistance) Observe(sim *morph.Simulation) {
	s.samples++
	for i, c := range sim.Cells {
		d := c.Dst.Sub(sim.Positions[i])
		dist := math.Sqrt(d.X*d.X + d.Y*d.Y)
		if dist > s.maxDist {
			s.maxDist = dist
		}
	}
}

func (s *SettlingDistance) Value() float64 {
	return s.maxDist
}

func (s *SettlingDistance) Reset() {
	s.maxDist = 0
	s.samples = 0
}
