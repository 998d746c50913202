package morph

import (
	"math"
	"testing"
)

func TestNewSimulationIdentity(t *testing.T) {
	s := NewSimulation(4, "seed-a")
	for i, c := range s.Cells {
		want := center(i, 4)
		if c.Src != want || c.Dst != want {
			t.Fatalf("cell %d: Src=%v Dst=%v, want %v", i, c.Src, c.Dst, want)
		}
		if s.Positions[i] != want {
			t.Fatalf("position %d = %v, want %v", i, s.Positions[i], want)
		}
	}
}

func TestStepKeepsCellsWithinArena(t *testing.T) {
	s := NewSimulation(6, "seed-containment")
	perm := []int{}
	for i := 35; i >= 0; i-- {
		perm = append(perm, i)
	}
	if err := s.SetAssignments(perm); err != nil {
		t.Fatalf("SetAssignments: %v", err)
	}

	for frame := 0; frame < 300; frame++ {
		s.Step()
	}

	margin := MaxVelocity
	for i, pos := range s.Positions {
		if pos.X < -margin || pos.X > float64(s.Side)+margin ||
			pos.Y < -margin || pos.Y > float64(s.Side)+margin {
			t.Fatalf("cell %d left the arena: %v", i, pos)
		}
	}
}

func TestStepSettlesTowardDestinationUnderIdentity(t *testing.T) {
	s := NewSimulation(5, "seed-settle")
	for frame := 0; frame < 200; frame++ {
		s.Step()
	}
	for i, pos := range s.Positions {
		want := s.Cells[i].Dst
		d := pos.Sub(want)
		if d.Mag() > 1.0 {
			t.Errorf("cell %d at %v did not settle near destination %v", i, pos, want)
		}
	}
}

func TestSetAssignmentsRejectsWrongLength(t *testing.T) {
	s := NewSimulation(3, "seed-len")
	if err := s.SetAssignments([]int{0, 1}); err == nil {
		t.Error("expected error for mismatched assignment length")
	}
}

func TestSetAssignmentsRejectsOutOfRange(t *testing.T) {
	s := NewSimulation(2, "seed-range")
	bad := []int{0, 1, 2, 99}
	if err := s.SetAssignments(bad); err == nil {
		t.Error("expected error for out-of-range source index")
	}
}

func TestSetAssignmentsRetargetsBySourceIndex(t *testing.T) {
	s := NewSimulation(2, "seed-retarget")
	// target 0 is fed by source 3, target 3 is fed by source 0, identity elsewhere.
	a := []int{3, 1, 2, 0}
	if err := s.SetAssignments(a); err != nil {
		t.Fatalf("SetAssignments: %v", err)
	}
	if s.Cells[3].Dst != center(0, 2) {
		t.Errorf("source 3 Dst = %v, want %v", s.Cells[3].Dst, center(0, 2))
	}
	if s.Cells[0].Dst != center(3, 2) {
		t.Errorf("source 0 Dst = %v, want %v", s.Cells[0].Dst, center(3, 2))
	}
	if s.Cells[3].Src != center(3, 2) {
		t.Errorf("source 3 Src = %v, want %v", s.Cells[3].Src, center(3, 2))
	}
}

func TestPreparePlayRestartTeleportsToSource(t *testing.T) {
	s := NewSimulation(3, "seed-restart")
	_ = s.SetAssignments([]int{8, 7, 6, 5, 4, 3, 2, 1, 0})
	for frame := 0; frame < 50; frame++ {
		s.Step()
	}
	s.PreparePlay(false)
	for i, pos := range s.Positions {
		if pos != s.Cells[i].Src {
			t.Errorf("cell %d at %v, want teleported to source %v", i, pos, s.Cells[i].Src)
		}
		if s.Cells[i].Age != 0 {
			t.Errorf("cell %d age = %d, want reset to 0", i, s.Cells[i].Age)
		}
	}
}

func TestPreparePlayReverseSwapsSrcDst(t *testing.T) {
	s := NewSimulation(3, "seed-reverse")
	_ = s.SetAssignments([]int{8, 7, 6, 5, 4, 3, 2, 1, 0})
	origSrc := make([]Vec2, len(s.Cells))
	origDst := make([]Vec2, len(s.Cells))
	for i, c := range s.Cells {
		origSrc[i], origDst[i] = c.Src, c.Dst
	}

	s.PreparePlay(true)

	for i, c := range s.Cells {
		if c.Src != origDst[i] || c.Dst != origSrc[i] {
			t.Errorf("cell %d: Src/Dst not swapped, got Src=%v Dst=%v", i, c.Src, c.Dst)
		}
	}
	if !s.Reversed {
		t.Error("expected Reversed to flip to true")
	}

	s.PreparePlay(false)
	if s.Reversed {
		t.Error("expected Reversed to flip back to false")
	}
	for i, c := range s.Cells {
		if c.Src != origSrc[i] || c.Dst != origDst[i] {
			t.Errorf("cell %d: Src/Dst not restored, got Src=%v Dst=%v", i, c.Src, c.Dst)
		}
	}
}

func TestStepIsDeterministicForSameSeed(t *testing.T) {
	run := func(seed string) []Vec2 {
		s := NewSimulation(4, seed)
		_ = s.SetAssignments([]int{15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0})
		for frame := 0; frame < 30; frame++ {
			s.Step()
		}
		out := make([]Vec2, len(s.Positions))
		copy(out, s.Positions)
		return out
	}

	a := run("same-seed")
	b := run("same-seed")

	for i := range a {
		if math.Abs(a[i].X-b[i].X) > 1e-12 || math.Abs(a[i].Y-b[i].Y) > 1e-12 {
			t.Fatalf("cell %d diverged between runs: %v vs %v", i, a[i], b[i])
		}
	}
}
