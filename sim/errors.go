package sim

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyMap       = errors.New("map has no rows")
	ErrRaggedRows     = errors.New("map rows have inconsistent lengths")
	ErrUnknownCell    = errors.New("unrecognized map character")
	ErrMissingFaction = errors.New("faction has no combatants")
	ErrNotTerminated  = errors.New("combat has not terminated")
)

// ParseError locates a malformed map. Line and Col are 1-based; zero means
// the error concerns the map as a whole.
type ParseError struct {
	Line int
	Col  int
	Err  error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line == 0:
		return fmt.Sprintf("parse map: %v", e.Err)
	case e.Col == 0:
		return fmt.Sprintf("parse map: line %d: %v", e.Line, e.Err)
	default:
		return fmt.Sprintf("parse map: line %d col %d: %v", e.Line, e.Col, e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

// Invariant names a logic rule the engine relies on.
type Invariant string

const (
	InvariantDuplicateOccupancy Invariant = "duplicate-occupancy"
	InvariantAttackDead         Invariant = "attack-on-dead-combatant"
	InvariantAttackAlly         Invariant = "attack-on-ally"
	InvariantIllegalStep        Invariant = "step-onto-blocked-cell"
	InvariantRoundLimit         Invariant = "round-limit-exceeded"
)

// InvariantError aborts a run. It always points at an engine bug, never at bad input.
type InvariantError struct {
	Round       int // completed rounds when the violation was detected
	CombatantID CombatantID
	Invariant   Invariant
	Detail      string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant %s violated in round %d by combatant %d: %s",
		e.Invariant, e.Round, e.CombatantID, e.Detail)
}
