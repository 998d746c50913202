package compute

// Backend runs independent per-index work, choosing serial or parallel
// execution as it sees fit.
type Backend interface {
	Name() string
	Available() bool

	// ParallelFor calls fn(i) for every i in [0, n). Implementations may
	// run this serially or split it across workers; fn must not depend on
	// execution order and must not write to shared state other than via
	// its own index-local slice.
	ParallelFor(n int, fn func(i int))

	Cleanup()
}

var activeBackend Backend

func init() {
	activeBackend = AutoSelectBackend()
}

func SetBackend(b Backend) {
	if activeBackend != nil {
		activeBackend.Cleanup()
	}
	activeBackend = b
}

func GetBackend() Backend {
	return activeBackend
}

// AutoSelectBackend returns the best backend available on this machine.
// Only the CPU backend exists today; the indirection is kept so a future
// backend slots in without changing any caller.
func AutoSelectBackend() Backend {
	return NewCPUBackend()
}
