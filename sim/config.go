package sim

import (
	"fmt"

	"github.com/skirmish-sim/skirmish/sim/trace"
)

const (
	DefaultHitPoints   = 200
	DefaultAttackPower = 3
	DefaultMarkerA     = 'E'
	DefaultMarkerB     = 'G'
	// DefaultMaxRounds bounds a run; real maps finish in a few hundred rounds.
	DefaultMaxRounds = 100000
)

// FactionConfig groups the parse marker and starting stats of one faction.
type FactionConfig struct {
	Marker      byte // map character placing a combatant of this faction
	HitPoints   int  // starting hit points (must be > 0)
	AttackPower int  // damage dealt per attack (must be > 0)
}

// ArenaConfig groups both factions' settings for ParseArena.
type ArenaConfig struct {
	A FactionConfig
	B FactionConfig
}

// For returns the settings of faction f.
func (c ArenaConfig) For(f Faction) FactionConfig {
	switch f {
	case FactionA:
		return c.A
	case FactionB:
		return c.B
	default:
		panic(fmt.Sprintf("ArenaConfig.For: unknown faction %d", uint8(f)))
	}
}

// DefaultArenaConfig returns 'E' (faction A) versus 'G' (faction B), both at
// 200 hit points and attack power 3.
func DefaultArenaConfig() ArenaConfig {
	return ArenaConfig{
		A: FactionConfig{Marker: DefaultMarkerA, HitPoints: DefaultHitPoints, AttackPower: DefaultAttackPower},
		B: FactionConfig{Marker: DefaultMarkerB, HitPoints: DefaultHitPoints, AttackPower: DefaultAttackPower},
	}
}

// Validate rejects markers that collide with terrain or each other and non-positive stats.
func (c ArenaConfig) Validate() error {
	for _, f := range Factions {
		fc := c.For(f)
		switch fc.Marker {
		case '#', '.', 0:
			return fmt.Errorf("faction %s: marker %q is reserved", f, fc.Marker)
		}
		if fc.HitPoints <= 0 {
			return fmt.Errorf("faction %s: hit points must be > 0, got %d", f, fc.HitPoints)
		}
		if fc.AttackPower <= 0 {
			return fmt.Errorf("faction %s: attack power must be > 0, got %d", f, fc.AttackPower)
		}
	}
	if c.A.Marker == c.B.Marker {
		return fmt.Errorf("factions share marker %q", c.A.Marker)
	}
	return nil
}

// EngineConfig groups round-loop settings for NewSimulator.
type EngineConfig struct {
	MaxRounds  int              // safety bound on completed rounds (0 = unbounded)
	TraceLevel trace.TraceLevel // decision trace verbosity ("" or "none" records nothing)
}

// DefaultEngineConfig returns the bounded, untraced configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{MaxRounds: DefaultMaxRounds}
}
