package store

import (
	"encoding/json"
	"os"
)

// ExportData is the flat JSON shape written by ExportJSON/ExportJSONStdout:
// a solve run's configuration alongside its full generation trace.
type ExportData struct {
	Algorithm           string    `json:"algorithm"`
	SettingsID          string    `json:"settings_id"`
	SideLen             int       `json:"sidelen"`
	ProximityImportance int       `json:"proximity_importance"`
	Generation          []int     `json:"generation"`
	Cost                []float64 `json:"cost"`
	Swaps               []int     `json:"swaps"`
}

func newExportData(algorithm, settingsID string, sideLen, proximityImportance int, trace *Trace) ExportData {
	return ExportData{
		Algorithm:           algorithm,
		SettingsID:          settingsID,
		SideLen:             sideLen,
		ProximityImportance: proximityImportance,
		Generation:          trace.Generation,
		Cost:                trace.Cost,
		Swaps:               trace.Swaps,
	}
}

func ExportJSON(path, algorithm, settingsID string, sideLen, proximityImportance int, trace *Trace) error {
	data := newExportData(algorithm, settingsID, sideLen, proximityImportance, trace)

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSONStdout(algorithm, settingsID string, sideLen, proximityImportance int, trace *Trace) error {
	data := newExportData(algorithm, settingsID, sideLen, proximityImportance, trace)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
