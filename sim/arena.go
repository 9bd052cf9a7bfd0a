package sim

import (
	"fmt"
	"sort"
)

// Arena is the immutable seed of a simulation: terrain, the initial combatants
// and the markers used to render them. Every run clones it; nothing mutates it.
type Arena struct {
	Grid       *Grid
	Combatants []Combatant // sorted by reading order; IDs equal slice indices
	Markers    [2]byte     // indexed by Faction
}

// NewArena validates the initial placement and assigns IDs in reading order.
func NewArena(grid *Grid, combatants []Combatant, markers [2]byte) (*Arena, error) {
	units := make([]Combatant, len(combatants))
	copy(units, combatants)
	sort.SliceStable(units, func(i, j int) bool { return units[i].Pos.Less(units[j].Pos) })

	seen := make(map[Position]bool, len(units))
	for i := range units {
		u := &units[i]
		u.ID = CombatantID(i)
		if !grid.IsOpen(u.Pos) {
			return nil, fmt.Errorf("combatant %d placed on blocked cell %v", i, u.Pos)
		}
		if seen[u.Pos] {
			return nil, &InvariantError{CombatantID: u.ID, Invariant: InvariantDuplicateOccupancy,
				Detail: fmt.Sprintf("two combatants placed at %v", u.Pos)}
		}
		if !u.Alive() {
			return nil, fmt.Errorf("combatant %d at %v starts with %d hit points", i, u.Pos, u.HP)
		}
		seen[u.Pos] = true
	}
	return &Arena{Grid: grid, Combatants: units, Markers: markers}, nil
}

// Count returns the number of seeded combatants of faction f.
func (a *Arena) Count(f Faction) int {
	n := 0
	for i := range a.Combatants {
		if a.Combatants[i].Faction == f {
			n++
		}
	}
	return n
}

// WithPower returns a copy of the arena in which every combatant of faction f
// attacks with the given power. The grid is shared; it is never written after parse.
func (a *Arena) WithPower(f Faction, power int) *Arena {
	units := make([]Combatant, len(a.Combatants))
	copy(units, a.Combatants)
	for i := range units {
		if units[i].Faction == f {
			units[i].Power = power
		}
	}
	return &Arena{Grid: a.Grid, Combatants: units, Markers: a.Markers}
}

// Marker returns the map character of faction f.
func (a *Arena) Marker(f Faction) byte {
	return a.Markers[f]
}
