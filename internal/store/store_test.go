package store

import (
	"os"
	"path/filepath"
	"testing"
)

func sampleTrace() *Trace {
	return &Trace{
		Generation: []int{0, 1, 2},
		Cost:       []float64{100.0, 80.0, 65.5},
		Swaps:      []int{40, 22, 9},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("genetic", "seed-42", 64, 13, sampleTrace())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Algorithm != "genetic" {
		t.Errorf("expected algorithm 'genetic', got %q", meta.Algorithm)
	}
	if meta.SideLen != 64 {
		t.Errorf("expected sidelen 64, got %d", meta.SideLen)
	}
	if meta.FinalCost != 65.5 {
		t.Errorf("expected final cost 65.5, got %f", meta.FinalCost)
	}

	trace, err := st.LoadTrace(runID)
	if err != nil {
		t.Fatalf("load trace failed: %v", err)
	}
	if len(trace.Generation) != 3 {
		t.Errorf("expected 3 generations, got %d", len(trace.Generation))
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save("optimal", "seed-7", 32, 13, sampleTrace()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("genetic", "seed-1", 16, 13, sampleTrace())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(runDir, "generations.csv")); os.IsNotExist(err) {
		t.Error("generations.csv not created")
	}
}

func TestExportJSON(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "export.json")

	if err := ExportJSON(path, "genetic", "seed-1", 16, 13, sampleTrace()); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("expected export file to be created")
	}
}
