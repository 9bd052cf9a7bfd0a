// Package testutil provides shared test infrastructure for the combat simulator.
// It consolidates golden dataset types and helpers used across sim/ and
// sim/calibration/ test packages.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Scenarios []GoldenScenario `json:"scenarios"`
}

// GoldenScenario is one reference map with its expected results.
type GoldenScenario struct {
	Name       string            `json:"name"`
	Map        []string          `json:"map"`
	Outcome    GoldenOutcome     `json:"outcome"`              // at default attack power for both factions
	Calibrated *GoldenCalibrated `json:"calibrated,omitempty"` // nil when no reference calibration exists
}

// GoldenOutcome is the expected terminal state of a run.
type GoldenOutcome struct {
	Winner      string `json:"winner"`
	Rounds      int    `json:"rounds"`
	RemainingHP int    `json:"remaining_hp"`
	Score       int    `json:"score"`
}

// GoldenCalibrated is the expected result of the minimal-power search.
type GoldenCalibrated struct {
	Power       int `json:"power"`
	Rounds      int `json:"rounds"`
	RemainingHP int `json:"remaining_hp"`
	Score       int `json:"score"`
}

// MapText joins the scenario's rows into parser input.
func (s GoldenScenario) MapText() string {
	return strings.Join(s.Map, "\n") + "\n"
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file, from sim/internal/testutil/ up to testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}
	if len(dataset.Scenarios) == 0 {
		t.Fatal("Golden dataset has no scenarios")
	}

	return &dataset
}
