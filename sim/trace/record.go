// Package trace provides decision-trace recording for combat runs.
// It stores pure data types and does not import sim/.
package trace

// Cell is a grid coordinate (0-based row and column).
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// MoveRecord captures a single pathfinding step.
type MoveRecord struct {
	Round       int    `json:"round"` // 1-based round in which the move happened
	CombatantID int    `json:"combatant_id"`
	Faction     string `json:"faction"`
	From        Cell   `json:"from"`
	To          Cell   `json:"to"`
}

// AttackRecord captures a single resolved attack.
type AttackRecord struct {
	Round           int    `json:"round"`
	AttackerID      int    `json:"attacker_id"`
	AttackerFaction string `json:"attacker_faction"`
	DefenderID      int    `json:"defender_id"`
	Damage          int    `json:"damage"`
	RemainingHP     int    `json:"remaining_hp"` // may be negative on the killing blow
	Killed          bool   `json:"killed"`
}

// RoundRecord captures the state at the end of a round.
type RoundRecord struct {
	Round    int            `json:"round"`
	Complete bool           `json:"complete"` // false when combat ended mid-round
	Living   map[string]int `json:"living"`   // faction -> living combatants
	TotalHP  int            `json:"total_hp"`
}
