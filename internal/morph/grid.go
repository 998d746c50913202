package morph

import "github.com/san-kum/pixelmorph/internal/mathkernel"

// grid buckets cell indices by position on a gridSide x gridSide grid of
// square buckets, each pixelSize wide, so that neighbor queries only need
// to scan a 3x3 window of buckets instead of every other cell.
type grid struct {
	side      int
	pixelSize float64
	buckets   [][]int
}

func bucketIndex(pos Vec2, pixelSize float64, gridSide int) int {
	bx := mathkernel.ClampInt(int(pos.X/pixelSize), 0, gridSide-1)
	by := mathkernel.ClampInt(int(pos.Y/pixelSize), 0, gridSide-1)
	return by*gridSide + bx
}

// buildGrid buckets every position in positions into a gridSide x
// gridSide grid covering [0, arenaSide) on both axes.
func buildGrid(positions []Vec2, arenaSide, gridSide int) *grid {
	pixelSize := float64(arenaSide) / float64(gridSide)
	g := &grid{
		side:      gridSide,
		pixelSize: pixelSize,
		buckets:   make([][]int, gridSide*gridSide),
	}
	for i, pos := range positions {
		idx := bucketIndex(pos, pixelSize, gridSide)
		g.buckets[idx] = append(g.buckets[idx], i)
	}
	return g
}

// neighbors invokes fn for every cell index in the 3x3 bucket window
// around pos, excluding self.
func (g *grid) neighbors(pos Vec2, self int, fn func(j int)) {
	bx := mathkernel.ClampInt(int(pos.X/g.pixelSize), 0, g.side-1)
	by := mathkernel.ClampInt(int(pos.Y/g.pixelSize), 0, g.side-1)

	for dy := -1; dy <= 1; dy++ {
		ny := by + dy
		if ny < 0 || ny >= g.side {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			nx := bx + dx
			if nx < 0 || nx >= g.side {
				continue
			}
			for _, j := range g.buckets[ny*g.side+nx] {
				if j != self {
					fn(j)
				}
			}
		}
	}
}
