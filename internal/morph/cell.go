// Package morph implements the particle system that animates a morph
// between two pixel layouts: one Cell per source pixel, with destination
// attraction, neighbor repulsion and velocity alignment, wall repulsion,
// and stroke cohesion, integrated with a spatial grid for O(1) neighbor
// queries.
package morph

import (
	"math"

	"github.com/san-kum/pixelmorph/internal/mathkernel"
)

const (
	// PersonalSpace is the minimum inter-cell distance, expressed as a
	// fraction of the nominal grid spacing, below which neighbor repulsion
	// activates.
	PersonalSpace = 0.95

	// MaxVelocity bounds a cell's speed in pixels per frame.
	MaxVelocity = 6.0

	// Damping is applied to velocity every integration step.
	Damping = 0.97

	// AlignmentFactor scales both neighbor velocity alignment and stroke
	// cohesion attraction.
	AlignmentFactor = 0.8

	// framesPerSecond is the nominal frame rate the destination force's
	// age-to-elapsed-time conversion assumes.
	framesPerSecond = 60.0
)

// Vec2 is a 2-D floating point vector, used for positions, velocities, and
// accelerations.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Mag() float64         { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

// Clamped returns v scaled down so its magnitude does not exceed max; v is
// returned unchanged if already within bounds.
func (v Vec2) Clamped(max float64) Vec2 {
	m := v.Mag()
	if m <= max || m == 0 {
		return v
	}
	return v.Scale(max / m)
}

// Cell is one particle: the per-pixel physics state tracked across frames.
// Src and Dst are immutable after assignment (until a new assignment
// replaces them); the rest mutates every step.
type Cell struct {
	Src, Dst Vec2
	Vel      Vec2
	Acc      Vec2
	Age      int
	DstForce float64
	StrokeID int
}

// center returns the pixel-center coordinate of a row-major index on a
// side x side grid.
func center(idx, side int) Vec2 {
	return Vec2{X: float64(idx%side) + 0.5, Y: float64(idx/side) + 0.5}
}

// destinationForce accumulates the non-linear pull toward the cell's
// destination: the pull strengthens with age (so released cells
// accelerate into place) and with the square of the remaining distance.
func (c *Cell) destinationForce(pos Vec2, side int) {
	elapsed := float64(c.Age) / framesPerSecond

	var f float64
	if c.DstForce == 0 {
		f = 0.1
	} else {
		f = mathkernel.FactorCurve(elapsed * c.DstForce)
	}

	d := c.Dst.Sub(pos)
	mag := d.Mag()
	c.Acc = c.Acc.Add(d.Scale(mag * f / float64(side)))
}

// wallForce pushes a cell back into the arena when it strays within half
// a personal-space margin of an edge.
func wallForce(acc *Vec2, pos Vec2, side int, pixelSize float64) {
	half := pixelSize * PersonalSpace * 0.5
	s := float64(side)

	if pos.X < half {
		acc.X += (half - pos.X) / half
	} else if pos.X > s-half {
		acc.X -= (pos.X - (s - half)) / half
	}

	if pos.Y < half {
		acc.Y += (half - pos.Y) / half
	} else if pos.Y > s-half {
		acc.Y -= (pos.Y - (s - half)) / half
	}
}

// neighborForce applies repulsion between cell i and a nearby cell j and
// returns the alignment weight contributed by j, used by the caller to
// later blend velocities. jitter is used only in the degenerate r==0 case
// to break an exact overlap.
func neighborForce(accI *Vec2, posI, posJ Vec2, pixelSize float64, jitter Vec2) float64 {
	d := posJ.Sub(posI)
	r := d.Mag()
	personal := pixelSize * PersonalSpace

	switch {
	case r > 0 && r < personal:
		w := (1 / r) * (personal - r) / personal
		accI.X -= d.X * w
		accI.Y -= d.Y * w
		return w
	case r == 0:
		accI.X += jitter.X
		accI.Y += jitter.Y
		return 0
	default:
		return 0
	}
}

// strokeForce adds cohesion attraction between two cells sharing the same
// non-zero stroke identity, weighted by the neighbor's alignment weight.
func strokeForce(accI *Vec2, posI, posJ Vec2, weight float64) {
	d := posJ.Sub(posI)
	accI.X += d.X * weight * AlignmentFactor
	accI.Y += d.Y * weight * AlignmentFactor
}

// integrate applies one semi-implicit Euler step with damping and a
// velocity clamp, then resets the acceleration accumulator and advances
// age.
func (c *Cell) integrate(pos *Vec2) {
	c.Vel = c.Vel.Add(c.Acc)
	c.Acc = Vec2{}
	c.Vel = c.Vel.Scale(Damping)
	c.Vel = c.Vel.Clamped(MaxVelocity)
	*pos = pos.Add(c.Vel)
	c.Age++
}
