package calibration

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/skirmish-sim/skirmish/sim"
)

// ViolationKind classifies a monotonicity violation between two trials.
type ViolationKind string

const (
	// SurvivorDrop: more power left fewer faction-A survivors.
	SurvivorDrop ViolationKind = "survivor-drop"
	// AcceptanceFlip: a power was accepted but a higher one rejected.
	AcceptanceFlip ViolationKind = "acceptance-flip"
)

// Violation pairs a lower-power trial with a higher-power trial that breaks
// the monotonicity assumption.
type Violation struct {
	Kind   ViolationKind `json:"kind"`
	Lower  Trial         `json:"lower"`
	Higher Trial         `json:"higher"`
}

func (v Violation) String() string {
	switch v.Kind {
	case SurvivorDrop:
		return fmt.Sprintf("%s: power %d keeps %d faction-A survivors, power %d keeps %d",
			v.Kind, v.Lower.Power, v.Lower.Outcome.Survivors[sim.FactionA],
			v.Higher.Power, v.Higher.Outcome.Survivors[sim.FactionA])
	default:
		return fmt.Sprintf("%s: power %d accepted, power %d rejected", v.Kind, v.Lower.Power, v.Higher.Power)
	}
}

// CheckMonotonicity scans trials in ascending power. It reports every adjacent
// pair whose faction-A survivor count drops, and every rejected trial that
// follows the first accepted one.
func CheckMonotonicity(trials []Trial) []Violation {
	sorted := make([]Trial, len(trials))
	copy(sorted, trials)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Power < sorted[j].Power })

	var violations []Violation
	var firstAccepted *Trial
	for i := range sorted {
		cur := sorted[i]
		if i > 0 {
			prev := sorted[i-1]
			if cur.Outcome.Survivors[sim.FactionA] < prev.Outcome.Survivors[sim.FactionA] {
				violations = append(violations, Violation{Kind: SurvivorDrop, Lower: prev, Higher: cur})
			}
		}
		switch {
		case cur.Accepted && firstAccepted == nil:
			firstAccepted = &sorted[i]
		case !cur.Accepted && firstAccepted != nil:
			violations = append(violations, Violation{Kind: AcceptanceFlip, Lower: *firstAccepted, Higher: cur})
		}
	}
	return violations
}

// Sweep simulates every power in [from, to] on up to workers goroutines and
// returns the trials in ascending power. Trials share the memo, so a later
// Search over the same searcher reuses them. Cancelling ctx stops new trials.
func (s *Searcher) Sweep(ctx context.Context, from, to, workers int) ([]Trial, error) {
	if from < 1 || to < from {
		return nil, fmt.Errorf("invalid sweep range [%d, %d]", from, to)
	}
	if workers < 1 {
		workers = 1
	}

	powers := make(chan int)
	trials := make([]Trial, to-from+1)
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) { errOnce.Do(func() { firstErr = err }) }

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range powers {
				t, err := s.Trial(p)
				if err != nil {
					fail(err)
					continue
				}
				trials[p-from] = t
			}
		}()
	}

feed:
	for p := from; p <= to; p++ {
		if err := ctx.Err(); err != nil {
			fail(err)
			break
		}
		select {
		case <-ctx.Done():
			fail(ctx.Err())
			break feed
		case powers <- p:
		}
	}
	close(powers)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return trials, nil
}
