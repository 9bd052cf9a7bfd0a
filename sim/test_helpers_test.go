package sim

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// mustParse builds an arena from map rows with the default faction settings.
func mustParse(t *testing.T, rows ...string) *Arena {
	t.Helper()
	return mustParseWith(t, DefaultArenaConfig(), rows...)
}

func mustParseWith(t *testing.T, cfg ArenaConfig, rows ...string) *Arena {
	t.Helper()
	arena, err := ParseArenaString(strings.Join(rows, "\n"), cfg)
	require.NoError(t, err)
	return arena
}

func mustState(t *testing.T, arena *Arena) *CombatState {
	t.Helper()
	st, err := NewCombatState(arena)
	require.NoError(t, err)
	return st
}

// occupantAt returns the living combatant at (row, col) or fails the test.
func occupantAt(t *testing.T, st *CombatState, row, col int) *Combatant {
	t.Helper()
	c, ok := st.Occupant(Position{Row: row, Col: col})
	require.True(t, ok, "expected a combatant at (%d,%d)", row, col)
	return c
}

// withPowerA returns the default config with faction A hitting for power.
func withPowerA(power int) ArenaConfig {
	cfg := DefaultArenaConfig()
	cfg.A.AttackPower = power
	return cfg
}
