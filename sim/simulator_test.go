package sim

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skirmish-sim/skirmish/sim/internal/testutil"
	"github.com/skirmish-sim/skirmish/sim/trace"
)

// corridor is the smallest duel: the elf acts first each round.
var corridor = []string{"####", "#EG#", "####"}

func TestSimulate_GoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	for _, sc := range dataset.Scenarios {
		t.Run(sc.Name, func(t *testing.T) {
			// GIVEN a reference map at default attack power
			arena, err := ParseArenaString(sc.MapText(), DefaultArenaConfig())
			require.NoError(t, err)

			// WHEN combat runs to the end
			out, err := Simulate(arena, DefaultEngineConfig())
			require.NoError(t, err)

			// THEN rounds, hit points and score match the reference exactly
			assert.Equal(t, sc.Outcome.Winner, out.Winner.String())
			assert.Equal(t, sc.Outcome.Rounds, out.Rounds)
			assert.Equal(t, sc.Outcome.RemainingHP, out.RemainingHP)
			assert.Equal(t, sc.Outcome.Score, out.Score)
		})
	}
}

func TestSimulate_Corridor_ElfStrikesFirst(t *testing.T) {
	// GIVEN two adjacent combatants at power 3: the elf needs 67 hits and lands them first
	out, err := Simulate(mustParse(t, corridor...), DefaultEngineConfig())
	require.NoError(t, err)

	// THEN the elf survives round 67 with 200 - 66*3 hit points
	assert.Equal(t, FactionA, out.Winner)
	assert.Equal(t, 67, out.Rounds)
	assert.Equal(t, 2, out.RemainingHP)
	assert.Equal(t, 134, out.Score)
	assert.True(t, out.Flawless(FactionA))
	assert.Equal(t, 1, out.Losses[FactionB])
}

func TestSimulate_Corridor_WeakElfLoses(t *testing.T) {
	// GIVEN the elf at power 2 (100 hits needed against the goblin's 67)
	out, err := Simulate(mustParseWith(t, withPowerA(2), corridor...), DefaultEngineConfig())
	require.NoError(t, err)

	// THEN the goblin wins in round 67 with 200 - 67*2 hit points
	assert.Equal(t, FactionB, out.Winner)
	assert.Equal(t, 67, out.Rounds)
	assert.Equal(t, 66, out.RemainingHP)
	assert.Equal(t, 67*66, out.Score)
	assert.Equal(t, 0, out.Survivors[FactionA])
}

func TestStep_DeadCombatantSkipsRestOfRound(t *testing.T) {
	// GIVEN an elf that kills in one blow, acting before its victim
	s, err := NewSimulator(mustParseWith(t, withPowerA(200), corridor...), EngineConfig{TraceLevel: trace.TraceLevelDecisions})
	require.NoError(t, err)

	// WHEN one round is played
	done, err := s.Step()
	require.NoError(t, err)

	// THEN the goblin died before its turn and never struck back
	assert.False(t, done)
	require.Len(t, s.Trace.Attacks, 1)
	assert.True(t, s.Trace.Attacks[0].Killed)
	elf, _ := s.State.Combatant(0)
	assert.Equal(t, DefaultHitPoints, elf.HP)
	assert.Equal(t, 1, s.State.Rounds, "the round in which the goblin died still completes")

	// AND the next round ends combat without counting
	done, err = s.Step()
	require.NoError(t, err)
	assert.True(t, done)
	out, err := s.Outcome()
	require.NoError(t, err)
	assert.Equal(t, 1, out.Rounds)
	assert.Equal(t, 200, out.Score)
}

func TestStep_CombatEndingMidRound_DoesNotCount(t *testing.T) {
	// GIVEN two elves flanking a goblin; the first elf kills it in one blow
	s, err := NewSimulator(mustParseWith(t, withPowerA(200), "#####", "#EGE#", "#####"), DefaultEngineConfig())
	require.NoError(t, err)

	// WHEN the first round is played
	done, err := s.Step()
	require.NoError(t, err)

	// THEN the second elf finds no enemy: combat ends and round 1 does not count
	assert.True(t, done)
	out, err := s.Outcome()
	require.NoError(t, err)
	assert.Equal(t, 0, out.Rounds)
	assert.Equal(t, 0, out.Score)
	assert.Equal(t, 400, out.RemainingHP)
	assert.Equal(t, FactionA, out.Winner)
}

func TestStep_MovementFollowsReadingOrder(t *testing.T) {
	// GIVEN eight goblins closing in on one elf
	s, err := NewSimulator(mustParse(t,
		"#########",
		"#G..G..G#",
		"#.......#",
		"#.......#",
		"#G..E..G#",
		"#.......#",
		"#.......#",
		"#G..G..G#",
		"#########",
	), DefaultEngineConfig())
	require.NoError(t, err)

	want := [][]string{
		{
			"#########",
			"#.G...G.#",
			"#...G...#",
			"#...E..G#",
			"#.G.....#",
			"#.......#",
			"#G..G..G#",
			"#.......#",
			"#########",
		},
		{
			"#########",
			"#..G.G..#",
			"#...G...#",
			"#.G.E.G.#",
			"#.......#",
			"#G..G..G#",
			"#.......#",
			"#.......#",
			"#########",
		},
		{
			"#########",
			"#.......#",
			"#..GGG..#",
			"#..GEG..#",
			"#G..G...#",
			"#......G#",
			"#.......#",
			"#.......#",
			"#########",
		},
	}

	// WHEN three rounds are played
	for i, rows := range want {
		done, err := s.Step()
		require.NoError(t, err)
		require.False(t, done)

		// THEN every combatant sits where the tie-break rules put it
		assert.Equal(t, strings.Join(rows, "\n")+"\n", s.State.Render(), "after round %d", i+1)
	}
}

func TestSimulate_Deterministic(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	arena, err := ParseArenaString(dataset.Scenarios[0].MapText(), DefaultArenaConfig())
	require.NoError(t, err)
	cfg := EngineConfig{MaxRounds: DefaultMaxRounds, TraceLevel: trace.TraceLevelDecisions}

	// WHEN the same seed is simulated twice
	s1, err := NewSimulator(arena, cfg)
	require.NoError(t, err)
	out1, err := s1.Run()
	require.NoError(t, err)
	s2, err := NewSimulator(arena, cfg)
	require.NoError(t, err)
	out2, err := s2.Run()
	require.NoError(t, err)

	// THEN everything but the run ID is identical
	assert.NotEqual(t, out1.RunID, out2.RunID)
	out2.RunID = out1.RunID
	assert.Equal(t, out1, out2)
	assert.Equal(t, s1.Trace.Moves, s2.Trace.Moves)
	assert.Equal(t, s1.Trace.Attacks, s2.Trace.Attacks)

	// AND the seed itself was never mutated
	for _, c := range arena.Combatants {
		assert.Equal(t, DefaultHitPoints, c.HP)
	}
}

func TestSimulate_TraceSummaryMatchesOutcome(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	sc := dataset.Scenarios[0]
	arena, err := ParseArenaString(sc.MapText(), DefaultArenaConfig())
	require.NoError(t, err)

	s, err := NewSimulator(arena, EngineConfig{TraceLevel: trace.TraceLevelDecisions})
	require.NoError(t, err)
	out, err := s.Run()
	require.NoError(t, err)

	summary := trace.Summarize(s.Trace)
	assert.Equal(t, out.Rounds, summary.CompletedRounds)
	assert.Equal(t, out.Losses[FactionA]+out.Losses[FactionB], summary.TotalKills)
	require.NotEmpty(t, s.Trace.Rounds)
	last := s.Trace.Rounds[len(s.Trace.Rounds)-1]
	assert.False(t, last.Complete, "the terminating round is recorded as incomplete")
	assert.Equal(t, sc.Outcome.RemainingHP, last.TotalHP)
}

func TestRun_RoundLimit_InvariantError(t *testing.T) {
	s, err := NewSimulator(mustParse(t, corridor...), EngineConfig{MaxRounds: 10})
	require.NoError(t, err)

	_, err = s.Run()

	var ie *InvariantError
	require.True(t, errors.As(err, &ie), "got %v", err)
	assert.Equal(t, InvariantRoundLimit, ie.Invariant)
	assert.Equal(t, 11, ie.Round)
}

func TestOutcome_BeforeTermination_ErrNotTerminated(t *testing.T) {
	s, err := NewSimulator(mustParse(t, corridor...), DefaultEngineConfig())
	require.NoError(t, err)

	_, err = s.Outcome()

	assert.ErrorIs(t, err, ErrNotTerminated)
	assert.Equal(t, StatusRunning, s.Status())
}

func TestStep_AfterTermination_IsNoop(t *testing.T) {
	s, err := NewSimulator(mustParseWith(t, withPowerA(200), corridor...), DefaultEngineConfig())
	require.NoError(t, err)
	_, err = s.Run()
	require.NoError(t, err)

	done, err := s.Step()

	assert.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, StatusTerminated, s.Status())
	assert.Equal(t, 1, s.State.Rounds)
}

func TestOnRound_ObservesEveryRound(t *testing.T) {
	type call struct {
		round    int
		complete bool
	}
	var calls []call
	s, err := NewSimulator(mustParseWith(t, withPowerA(200), corridor...), DefaultEngineConfig())
	require.NoError(t, err)
	s.OnRound = func(_ *Simulator, round int, complete bool) {
		calls = append(calls, call{round, complete})
	}

	_, err = s.Run()
	require.NoError(t, err)

	assert.Equal(t, []call{{1, true}, {2, false}}, calls)
}
