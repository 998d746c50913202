package compute

import (
	"sync/atomic"
	"testing"
)

func TestParallelForSmallSerial(t *testing.T) {
	b := NewCPUBackend()
	var sum int64
	b.ParallelFor(10, func(i int) {
		atomic.AddInt64(&sum, int64(i))
	})
	if sum != 45 {
		t.Errorf("expected 45, got %d", sum)
	}
}

func TestParallelForLargeChunked(t *testing.T) {
	b := NewCPUBackend()
	n := 10000
	seen := make([]int32, n)
	b.ParallelFor(n, func(i int) {
		atomic.AddInt32(&seen[i], 1)
	})
	for i, v := range seen {
		if v != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, v)
		}
	}
}

func TestGetBackendDefault(t *testing.T) {
	b := GetBackend()
	if b == nil {
		t.Fatal("expected a default backend")
	}
	if !b.Available() {
		t.Error("expected default backend to be available")
	}
}
