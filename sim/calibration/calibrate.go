// Package calibration finds the minimal faction-A attack power that satisfies
// an acceptance condition (by default: faction A wins without losses).
package calibration

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/skirmish-sim/skirmish/sim"
)

const (
	// DefaultLowerBound is the first power tried: one above the default attack power.
	DefaultLowerBound   = sim.DefaultAttackPower + 1
	DefaultMaxDoublings = 16
)

// ErrNoQualifyingPower means doubling never reached an accepted power.
var ErrNoQualifyingPower = errors.New("no attack power satisfies the acceptance condition")

// Config holds search parameters.
type Config struct {
	LowerBound   int    // smallest power considered (must be >= 1)
	MaxDoublings int    // doublings of the upper bound before giving up
	Accept       string // acceptance expression over TrialEnv ("" = DefaultAcceptance)
	Engine       sim.EngineConfig
}

// DefaultConfig starts at power 4 and gives up above 4<<16.
func DefaultConfig() Config {
	return Config{
		LowerBound:   DefaultLowerBound,
		MaxDoublings: DefaultMaxDoublings,
		Accept:       DefaultAcceptance,
		Engine:       sim.DefaultEngineConfig(),
	}
}

// Trial is the memoized result of simulating one power.
type Trial struct {
	Power    int         `json:"power"`
	Outcome  sim.Outcome `json:"outcome"`
	Accepted bool        `json:"accepted"`
}

// Result is the outcome of a completed search.
type Result struct {
	Power    int         `json:"power"` // minimal accepted power
	Score    int         `json:"score"`
	Outcome  sim.Outcome `json:"outcome"`
	Tried    []int       `json:"tried"`              // powers in the order the search asked for them
	Warnings []string    `json:"warnings,omitempty"` // monotonicity violations seen in the memo
}

// MonotonicityError reports an accepted power below a rejected one: the
// bracketing search cannot be trusted for this arena.
type MonotonicityError struct {
	Accepted int
	Rejected int
}

func (e *MonotonicityError) Error() string {
	return fmt.Sprintf("acceptance is not monotonic: power %d accepted but higher power %d rejected",
		e.Accepted, e.Rejected)
}

// Searcher runs trials of one arena at varying faction-A power.
type Searcher struct {
	arena  *sim.Arena
	cfg    Config
	accept *Condition
	memo   *Memo
	log    *logrus.Entry
}

// NewSearcher validates cfg and compiles its acceptance condition. A nil memo
// gets a fresh one.
func NewSearcher(arena *sim.Arena, cfg Config, memo *Memo) (*Searcher, error) {
	if cfg.LowerBound < 1 {
		return nil, fmt.Errorf("calibration lower bound must be >= 1, got %d", cfg.LowerBound)
	}
	if cfg.MaxDoublings < 0 {
		return nil, fmt.Errorf("calibration max doublings must be >= 0, got %d", cfg.MaxDoublings)
	}
	if cfg.MaxDoublings >= 63 || cfg.LowerBound > math.MaxInt>>cfg.MaxDoublings {
		return nil, fmt.Errorf("calibration lower bound %d doubled %d times overflows int",
			cfg.LowerBound, cfg.MaxDoublings)
	}
	accept, err := CompileCondition(cfg.Accept)
	if err != nil {
		return nil, err
	}
	if memo == nil {
		memo = NewMemo()
	}
	return &Searcher{
		arena:  arena,
		cfg:    cfg,
		accept: accept,
		memo:   memo,
		log:    logrus.WithField("component", "calibration"),
	}, nil
}

func (s *Searcher) Memo() *Memo { return s.memo }

// Trial simulates the arena with faction A at the given power, reusing the
// memo when that power was already simulated. Each simulation is independent.
func (s *Searcher) Trial(power int) (Trial, error) {
	out, ok := s.memo.Get(power)
	if !ok {
		var err error
		out, err = sim.Simulate(s.arena.WithPower(sim.FactionA, power), s.cfg.Engine)
		if err != nil {
			return Trial{}, fmt.Errorf("trial at power %d: %w", power, err)
		}
		s.memo.Put(power, out)
	}
	accepted, err := s.accept.Accepts(NewTrialEnv(power, out))
	if err != nil {
		return Trial{}, err
	}
	if !ok {
		s.log.Infof("Trial power=%d: winner=%s survivors A=%d B=%d rounds=%d score=%d accepted=%v",
			power, out.Winner, out.Survivors[sim.FactionA], out.Survivors[sim.FactionB], out.Rounds, out.Score, accepted)
	}
	return Trial{Power: power, Outcome: out, Accepted: accepted}, nil
}

// Search doubles an upper bound from LowerBound until a trial is accepted,
// then bisects between the last rejected and the first accepted power. The
// search assumes acceptance is monotonic in power; afterwards the memo is
// audited and a *MonotonicityError is returned alongside the result when the
// assumption was observed to fail.
func (s *Searcher) Search() (Result, error) {
	var tried []int
	trial := func(power int) (Trial, error) {
		tried = append(tried, power)
		return s.Trial(power)
	}

	rejected := s.cfg.LowerBound - 1 // assumed rejected; never simulated
	high := s.cfg.LowerBound
	var best Trial
	for doublings := 0; ; doublings++ {
		t, err := trial(high)
		if err != nil {
			return Result{}, err
		}
		if t.Accepted {
			best = t
			break
		}
		if doublings == s.cfg.MaxDoublings {
			return Result{}, fmt.Errorf("%w: tried up to power %d (%q)", ErrNoQualifyingPower, high, s.accept)
		}
		rejected = high
		high *= 2
	}

	for high-rejected > 1 {
		mid := rejected + (high-rejected)/2
		t, err := trial(mid)
		if err != nil {
			return Result{}, err
		}
		if t.Accepted {
			high, best = mid, t
		} else {
			rejected = mid
		}
	}

	res := Result{
		Power:   best.Power,
		Score:   best.Outcome.Score,
		Outcome: best.Outcome,
		Tried:   tried,
	}
	s.log.Infof("Minimal power %d after %d trials: score=%d", res.Power, len(tried), res.Score)

	trials, err := s.memoTrials()
	if err != nil {
		return res, err
	}
	var flip *Violation
	for _, v := range CheckMonotonicity(trials) {
		res.Warnings = append(res.Warnings, v.String())
		s.log.Warnf("Monotonicity: %s", v)
		if v.Kind == AcceptanceFlip && flip == nil {
			flip = &v
		}
	}
	if flip != nil {
		return res, &MonotonicityError{Accepted: flip.Lower.Power, Rejected: flip.Higher.Power}
	}
	return res, nil
}

// memoTrials re-evaluates acceptance for every memoized power, in ascending order.
func (s *Searcher) memoTrials() ([]Trial, error) {
	powers := s.memo.Powers()
	trials := make([]Trial, 0, len(powers))
	for _, p := range powers {
		t, err := s.Trial(p)
		if err != nil {
			return nil, err
		}
		trials = append(trials, t)
	}
	return trials, nil
}
