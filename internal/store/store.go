// Package store persists solve-session traces to disk: one run directory
// per solve, holding a metadata.json summary and a generations.csv history
// of per-generation cost and swap counts, mirroring a directory-per-run
// layout so a CLI can list and reload past runs.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata summarizes one solve session for listing without reloading
// its full generation history.
type RunMetadata struct {
	ID                  string    `json:"id"`
	Algorithm           string    `json:"algorithm"`
	SettingsID          string    `json:"settings_id"`
	Timestamp           time.Time `json:"timestamp"`
	SideLen             int       `json:"sidelen"`
	ProximityImportance int       `json:"proximity_importance"`
	Generations         int       `json:"generations"`
	FinalCost           float64   `json:"final_cost"`
}

// Trace is the per-generation history of a genetic solve: Generation[i],
// Cost[i], and Swaps[i] all describe the state after generation i.
type Trace struct {
	Generation []int
	Cost       []float64
	Swaps      []int
}

// Save writes metadata.json and generations.csv into baseDir/<runID>/ and
// returns the generated run ID.
func (s *Store) Save(algorithm, settingsID string, sideLen, proximityImportance int, trace *Trace) (string, error) {
	runID := fmt.Sprintf("%s_%s", algorithm, settingsID)
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	finalCost := 0.0
	if len(trace.Cost) > 0 {
		finalCost = trace.Cost[len(trace.Cost)-1]
	}

	meta := RunMetadata{
		ID:                   runID,
		Algorithm:            algorithm,
		SettingsID:           settingsID,
		SideLen:              sideLen,
		ProximityImportance:  proximityImportance,
		Generations:          len(trace.Generation),
		FinalCost:            finalCost,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "generations.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"generation", "cost", "swaps"}); err != nil {
		return "", err
	}
	for i := range trace.Generation {
		row := []string{
			strconv.Itoa(trace.Generation[i]),
			strconv.FormatFloat(trace.Cost[i], 'f', 6, 64),
			strconv.Itoa(trace.Swaps[i]),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadTrace(runID string) (*Trace, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "generations.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return &Trace{}, nil
	}

	trace := &Trace{}
	for _, rec := range records[1:] {
		if len(rec) < 3 {
			continue
		}
		gen, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}
		cost, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			continue
		}
		swaps, err := strconv.Atoi(rec[2])
		if err != nil {
			continue
		}
		trace.Generation = append(trace.Generation, gen)
		trace.Cost = append(trace.Cost, cost)
		trace.Swaps = append(trace.Swaps, swaps)
	}
	return trace, nil
}
