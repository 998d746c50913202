package optim

import (
	"context"
	"testing"

	"github.com/san-kum/pixelmorph/internal/assign"
	"github.com/san-kum/pixelmorph/internal/imagekernel"
	"github.com/san-kum/pixelmorph/internal/mathkernel"
)

func scrambledFixture(side int) (imagekernel.Palette, imagekernel.Palette, []float64) {
	n := side * side
	source := make(imagekernel.Palette, n)
	target := make(imagekernel.Palette, n)
	for i := range source {
		source[i] = mathkernel.RGB{R: uint8(i * 17 % 256), G: uint8(i * 31 % 256), B: uint8(i * 53 % 256)}
	}
	for i := range target {
		target[i] = source[n-1-i]
	}
	return source, target, assign.UniformWeights(n)
}

func TestGridSearchFindsLowerCostProximity(t *testing.T) {
	source, target, weights := scrambledFixture(4)
	base := assign.Settings{ID: "optim-test", Algorithm: assign.Optimal, SideLen: 4}

	gs := NewGridSearch([]string{"proximityImportance"}, [][]float64{{1, 13, 30}})

	params, cost, err := gs.Search(context.Background(), source, target, weights, base)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if params == nil {
		t.Fatal("expected a best-parameter result")
	}
	if cost < 0 {
		t.Errorf("expected non-negative cost, got %f", cost)
	}
	if _, ok := params["proximityImportance"]; !ok {
		t.Error("expected proximityImportance in best params")
	}
}

func TestGridSearchPropagatesSolveError(t *testing.T) {
	source, target, weights := scrambledFixture(4)
	// Mismatched weights length forces a validation error inside Solve.
	badWeights := weights[:len(weights)-1]
	base := assign.Settings{ID: "optim-bad", Algorithm: assign.Optimal, SideLen: 4}

	gs := NewGridSearch([]string{"proximityImportance"}, [][]float64{{13}})
	_, _, err := gs.Search(context.Background(), source, target, badWeights, base)
	if err == nil {
		t.Error("expected an error from mismatched weights")
	}
}
