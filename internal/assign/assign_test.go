package assign

import (
	"context"
	"testing"
	"time"

	"github.com/san-kum/pixelmorph/internal/imagekernel"
	"github.com/san-kum/pixelmorph/internal/mathkernel"
)

func drain(t *testing.T, ch <-chan Message, timeout time.Duration) []Message {
	t.Helper()
	var msgs []Message
	deadline := time.After(timeout)
	for {
		select {
		case m, ok := <-ch:
			if !ok {
				return msgs
			}
			msgs = append(msgs, m)
		case <-deadline:
			t.Fatal("timed out draining session")
		}
	}
}

func isBijection(t *testing.T, assignments []int, n int) {
	t.Helper()
	seen := make([]bool, n)
	for _, s := range assignments {
		if s < 0 || s >= n {
			t.Fatalf("index %d out of range", s)
		}
		if seen[s] {
			t.Fatalf("index %d appears more than once", s)
		}
		seen[s] = true
	}
}

func TestGreedySwapOfTwo(t *testing.T) {
	source := imagekernel.Palette{{R: 255}, {G: 255}, {B: 255}, {R: 1, G: 1, B: 1}}
	target := imagekernel.Palette{{G: 255}, {R: 255}, {B: 255}, {R: 1, G: 1, B: 1}}
	weights := UniformWeights(4)

	settings := Settings{ID: "t", Algorithm: Optimal, SideLen: 2, ProximityImportance: 13}

	msgs := drain(t, Solve(context.Background(), source, target, weights, settings), 5*time.Second)
	var result *Result
	for _, m := range msgs {
		if m.Type == MsgDone {
			result = m.Result
		}
		if m.Type == MsgError {
			t.Fatalf("unexpected error: %v", m.Err)
		}
	}
	if result == nil {
		t.Fatal("expected a done message")
	}

	expected := []int{1, 0, 2, 3}
	for i, e := range expected {
		if result.Assignments[i] != e {
			t.Errorf("target %d: expected source %d, got %d", i, e, result.Assignments[i])
		}
	}
	isBijection(t, result.Assignments, 4)
}

func TestGreedyBijection(t *testing.T) {
	side := 6
	n := side * side
	source := make(imagekernel.Palette, n)
	target := make(imagekernel.Palette, n)
	prng := mathkernel.NewPRNG("fixture")
	for i := range source {
		source[i] = mathkernel.RGB{R: uint8(prng.Range(0, 255)), G: uint8(prng.Range(0, 255)), B: uint8(prng.Range(0, 255))}
		target[i] = mathkernel.RGB{R: uint8(prng.Range(0, 255)), G: uint8(prng.Range(0, 255)), B: uint8(prng.Range(0, 255))}
	}
	settings := Settings{ID: "fixture", Algorithm: Optimal, SideLen: side, ProximityImportance: 13}

	msgs := drain(t, Solve(context.Background(), source, target, UniformWeights(n), settings), 10*time.Second)
	var result *Result
	for _, m := range msgs {
		if m.Type == MsgDone {
			result = m.Result
		}
	}
	if result == nil {
		t.Fatal("expected a done message")
	}
	isBijection(t, result.Assignments, n)
}

func TestGeneticIdentityInput(t *testing.T) {
	side := 4
	n := side * side
	source := make(imagekernel.Palette, n)
	for i := range source {
		source[i] = mathkernel.RGB{R: uint8(i % 256), G: uint8((i * 4) % 256), B: 128}
	}
	target := make(imagekernel.Palette, n)
	copy(target, source)

	settings := Settings{ID: "identity", Algorithm: Genetic, SideLen: side, ProximityImportance: 13}

	msgs := drain(t, Solve(context.Background(), source, target, UniformWeights(n), settings), 30*time.Second)

	var result *Result
	for _, m := range msgs {
		if m.Type == MsgError {
			t.Fatalf("unexpected error: %v", m.Err)
		}
		if m.Type == MsgDone {
			result = m.Result
		}
	}
	if result == nil {
		t.Fatal("expected a done message")
	}
	isBijection(t, result.Assignments, n)

	total := 0.0
	for t, s := range result.Assignments {
		sp := pointOf(s, side)
		tp := pointOf(t, side)
		total += mathkernel.Heuristic(sp, tp, source[s], target[t], 255, 13)
	}
	if total != 0 {
		t.Errorf("expected zero total heuristic for identity input, got %f", total)
	}
}

func TestGeneticDeterminism(t *testing.T) {
	side := 4
	n := side * side
	source := make(imagekernel.Palette, n)
	target := make(imagekernel.Palette, n)
	prng := mathkernel.NewPRNG("determinism-fixture")
	for i := range source {
		source[i] = mathkernel.RGB{R: uint8(prng.Range(0, 255))}
		target[i] = mathkernel.RGB{R: uint8(prng.Range(0, 255))}
	}
	settings := Settings{ID: "run-a", Algorithm: Genetic, SideLen: side, ProximityImportance: 13}

	run := func() []int {
		msgs := drain(t, Solve(context.Background(), source, target, UniformWeights(n), settings), 30*time.Second)
		for _, m := range msgs {
			if m.Type == MsgDone {
				return m.Result.Assignments
			}
		}
		t.Fatal("no done message")
		return nil
	}

	a := run()
	b := run()

	if len(a) != len(b) {
		t.Fatalf("length mismatch")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("determinism broken at index %d: %d != %d", i, a[i], b[i])
		}
	}
}

func TestGeneticCancellation(t *testing.T) {
	side := 16
	n := side * side
	source := make(imagekernel.Palette, n)
	target := make(imagekernel.Palette, n)
	prng := mathkernel.NewPRNG("cancel-fixture")
	for i := range source {
		source[i] = mathkernel.RGB{R: uint8(prng.Range(0, 255))}
		target[i] = mathkernel.RGB{R: uint8(prng.Range(0, 255))}
	}
	settings := Settings{ID: "cancel", Algorithm: Genetic, SideLen: side, ProximityImportance: 13}

	ctx, cancel := context.WithCancel(context.Background())
	ch := Solve(ctx, source, target, UniformWeights(n), settings)
	cancel()

	msgs := drain(t, ch, 5*time.Second)
	sawCancelled := false
	for _, m := range msgs {
		if m.Type == MsgCancelled {
			sawCancelled = true
		}
	}
	if !sawCancelled {
		t.Error("expected a cancelled message")
	}
}

func TestValidateSizeMismatch(t *testing.T) {
	source := imagekernel.Palette{{}, {}}
	target := imagekernel.Palette{{}}
	settings := Settings{ID: "x", Algorithm: Genetic, SideLen: 1}

	msgs := drain(t, Solve(context.Background(), source, target, UniformWeights(2), settings), 5*time.Second)
	if len(msgs) != 1 || msgs[0].Type != MsgError {
		t.Fatalf("expected a single error message, got %v", msgs)
	}
}

func TestValidateNotPerfectSquare(t *testing.T) {
	pal := make(imagekernel.Palette, 10)
	settings := Settings{ID: "x", Algorithm: Genetic, SideLen: 4}

	msgs := drain(t, Solve(context.Background(), pal, pal, UniformWeights(10), settings), 5*time.Second)
	if len(msgs) != 1 || msgs[0].Type != MsgError {
		t.Fatalf("expected a single error message, got %v", msgs)
	}
}
