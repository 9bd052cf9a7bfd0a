package calibration

import (
	"fmt"

	"github.com/skirmish-sim/skirmish/sim"
)

// Answer pairs the outcome at the arena's own powers with the calibrated result.
type Answer struct {
	Default    sim.Outcome `json:"default"`
	Calibrated Result      `json:"calibrated"`
}

// Solve runs the arena as parsed, then searches the minimal faction-A power.
// A *MonotonicityError is returned together with a populated Answer.
func Solve(arena *sim.Arena, cfg Config) (Answer, error) {
	def, err := sim.Simulate(arena, cfg.Engine)
	if err != nil {
		return Answer{}, fmt.Errorf("default run: %w", err)
	}
	searcher, err := NewSearcher(arena, cfg, NewMemo())
	if err != nil {
		return Answer{}, err
	}
	res, err := searcher.Search()
	return Answer{Default: def, Calibrated: res}, err
}
