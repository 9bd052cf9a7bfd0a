package calibration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skirmish-sim/skirmish/sim"
	"github.com/skirmish-sim/skirmish/sim/internal/testutil"
)

func trialOf(power, survivorsA int, accepted bool) Trial {
	return Trial{
		Power:    power,
		Accepted: accepted,
		Outcome:  sim.Outcome{Survivors: map[sim.Faction]int{sim.FactionA: survivorsA}},
	}
}

func TestCheckMonotonicity(t *testing.T) {
	tests := []struct {
		name   string
		trials []Trial
		want   []ViolationKind
	}{
		{
			name:   "monotonic",
			trials: []Trial{trialOf(4, 1, false), trialOf(8, 3, true), trialOf(6, 2, true)},
			want:   nil,
		},
		{
			name:   "survivor drop only",
			trials: []Trial{trialOf(4, 3, false), trialOf(5, 2, false)},
			want:   []ViolationKind{SurvivorDrop},
		},
		{
			name:   "acceptance flip with drop",
			trials: []Trial{trialOf(9, 1, false), trialOf(7, 3, true)},
			want:   []ViolationKind{SurvivorDrop, AcceptanceFlip},
		},
		{
			name:   "every rejection after first acceptance",
			trials: []Trial{trialOf(1, 2, true), trialOf(2, 2, false), trialOf(3, 2, false)},
			want:   []ViolationKind{AcceptanceFlip, AcceptanceFlip},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []ViolationKind
			for _, v := range CheckMonotonicity(tt.trials) {
				got = append(got, v.Kind)
				assert.Less(t, v.Lower.Power, v.Higher.Power)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckMonotonicity_DoesNotReorderInput(t *testing.T) {
	trials := []Trial{trialOf(9, 1, true), trialOf(2, 1, false)}

	CheckMonotonicity(trials)

	assert.Equal(t, 9, trials[0].Power)
}

func TestSweep_TrialsInAscendingPower(t *testing.T) {
	// GIVEN the corridor duel, accepted from power 3 upward
	s, err := NewSearcher(corridorArena(t), DefaultConfig(), nil)
	require.NoError(t, err)

	// WHEN powers 1..8 are swept on three workers
	trials, err := s.Sweep(context.Background(), 1, 8, 3)
	require.NoError(t, err)

	// THEN trials come back ordered, with a single threshold
	require.Len(t, trials, 8)
	for i, tr := range trials {
		assert.Equal(t, i+1, tr.Power)
		assert.Equal(t, tr.Power >= 3, tr.Accepted, "power %d", tr.Power)
	}
	assert.Empty(t, CheckMonotonicity(trials))
	assert.Equal(t, 8, s.Memo().Len())
}

func TestSweep_FillsMemoForLaterSearch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LowerBound = 1
	s, err := NewSearcher(corridorArena(t), cfg, nil)
	require.NoError(t, err)
	_, err = s.Sweep(context.Background(), 1, 4, 2)
	require.NoError(t, err)

	res, err := s.Search()
	require.NoError(t, err)

	assert.Equal(t, 3, res.Power)
	assert.Equal(t, 4, s.Memo().Len())
}

func TestSweep_CancelledContext(t *testing.T) {
	s, err := NewSearcher(corridorArena(t), DefaultConfig(), nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Sweep(ctx, 1, 50, 4)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, s.Memo().Len())
}

func TestSweep_InvalidRange(t *testing.T) {
	s, err := NewSearcher(corridorArena(t), DefaultConfig(), nil)
	require.NoError(t, err)

	_, err = s.Sweep(context.Background(), 5, 4, 1)
	assert.Error(t, err)
	_, err = s.Sweep(context.Background(), 0, 4, 1)
	assert.Error(t, err)
}

func TestSweep_MultiCombatantScenario_Monotonic(t *testing.T) {
	// GIVEN a reference map with several faction-A combatants
	dataset := testutil.LoadGoldenDataset(t)
	var sc *testutil.GoldenScenario
	for i := range dataset.Scenarios {
		if dataset.Scenarios[i].Name == "mixed-open" {
			sc = &dataset.Scenarios[i]
		}
	}
	require.NotNil(t, sc)
	require.NotNil(t, sc.Calibrated)
	arena, err := sim.ParseArenaString(sc.MapText(), sim.DefaultArenaConfig())
	require.NoError(t, err)
	require.Greater(t, arena.Count(sim.FactionA), 1)
	s, err := NewSearcher(arena, DefaultConfig(), nil)
	require.NoError(t, err)

	// WHEN powers 4..20 are swept
	trials, err := s.Sweep(context.Background(), 4, 20, 4)
	require.NoError(t, err)

	// THEN more power never costs survivors or acceptance
	assert.Empty(t, CheckMonotonicity(trials))
	// AND the first accepted power is the calibrated one
	for _, tr := range trials {
		if tr.Accepted {
			assert.Equal(t, sc.Calibrated.Power, tr.Power)
			assert.Equal(t, sc.Calibrated.Score, tr.Outcome.Score)
			break
		}
	}
}
