package sim

import "fmt"

// Faction identifies one of the two opposing sides. The set is closed.
type Faction uint8

const (
	// FactionA is the side whose attack power calibration tunes.
	FactionA Faction = iota
	// FactionB is the opposing side with fixed attack power.
	FactionB
)

// Factions lists both sides in a stable order.
var Factions = [2]Faction{FactionA, FactionB}

func (f Faction) String() string {
	switch f {
	case FactionA:
		return "A"
	case FactionB:
		return "B"
	default:
		return fmt.Sprintf("Faction(%d)", uint8(f))
	}
}

// Opponent returns the opposing faction.
func (f Faction) Opponent() Faction {
	switch f {
	case FactionA:
		return FactionB
	case FactionB:
		return FactionA
	default:
		panic(fmt.Sprintf("Opponent: unknown faction %d", uint8(f)))
	}
}

// MarshalText lets Faction serve as a JSON value and map key.
func (f Faction) MarshalText() ([]byte, error) {
	switch f {
	case FactionA, FactionB:
		return []byte(f.String()), nil
	default:
		return nil, fmt.Errorf("unknown faction %d", uint8(f))
	}
}

func (f *Faction) UnmarshalText(text []byte) error {
	switch string(text) {
	case "A":
		*f = FactionA
	case "B":
		*f = FactionB
	default:
		return fmt.Errorf("unknown faction %q", string(text))
	}
	return nil
}

// CombatantID is stable for the lifetime of an arena and all runs cloned from it.
// IDs are assigned in reading order of the initial positions.
type CombatantID int

// Combatant is one fighter on the grid.
type Combatant struct {
	ID      CombatantID `json:"id"`
	Faction Faction     `json:"faction"`
	Pos     Position    `json:"pos"`
	HP      int         `json:"hp"`
	Power   int         `json:"power"`
}

func (c *Combatant) Alive() bool { return c.HP > 0 }

// IsEnemy reports whether o fights for the other side.
func (c *Combatant) IsEnemy(o *Combatant) bool { return c.Faction != o.Faction }

func (c *Combatant) String() string {
	return fmt.Sprintf("%s#%d@%v(hp=%d)", c.Faction, c.ID, c.Pos, c.HP)
}
