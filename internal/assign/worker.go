package assign

import (
	"context"

	"github.com/san-kum/pixelmorph/internal/imagekernel"
)

// Solve starts a solve session and returns the channel of protocol
// messages it emits. The session runs in its own goroutine; the caller
// must drain the channel until a terminal message (Done, Error, or
// Cancelled) arrives exactly once. Cancelling ctx requests cooperative
// cancellation; the session checks it at the suspension points documented
// per-solver.
func Solve(ctx context.Context, source, target imagekernel.Palette, weights []float64, settings Settings) <-chan Message {
	out := make(chan Message, 8)

	go func() {
		defer close(out)

		if err := validate(source, target, weights, settings); err != nil {
			out <- Message{Type: MsgError, Err: err}
			return
		}

		switch settings.Algorithm {
		case Genetic:
			runGenetic(ctx, source, target, weights, settings, out)
		case Optimal:
			runGreedy(ctx, source, target, weights, settings, out)
		default:
			out <- Message{Type: MsgError, Err: ErrUnknownAlgorithm}
		}
	}()

	return out
}

func validate(source, target imagekernel.Palette, weights []float64, settings Settings) error {
	if len(source) != len(target) {
		return ErrSizeMismatch
	}
	if len(weights) != len(source) {
		return ErrSizeMismatch
	}
	if settings.SideLen*settings.SideLen != len(source) {
		return ErrNotPerfectSquare
	}
	switch settings.Algorithm {
	case Genetic, Optimal:
	default:
		return ErrUnknownAlgorithm
	}
	return nil
}

// UniformWeights returns a weight slice of n entries all set to 255, the
// value used when a custom target is absent and the source is its own
// target.
func UniformWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 255
	}
	return w
}
