// Package compute provides a pluggable parallel-execution backend for the
// morph simulation's per-frame force and integration passes. The
// assignment solvers do not use it.
//
// Only a CPU backend is implemented: chunked goroutines above a size
// threshold, a plain serial loop below it. The Backend interface is kept
// pluggable so a future backend (e.g. a GPU compute shader) can be added
// without touching callers — callers only ever see Backend, never
// *CPUBackend directly.
package compute
