package sim

import (
	"fmt"
	"sort"
	"strings"
)

// CombatState is the mutable state of one run. The living list is authoritative;
// the occupancy index is derived from it and changes in the same call as every
// move and every death.
type CombatState struct {
	arena     *Arena
	units     []*Combatant // every combatant of the run, dead or alive, indexed by ID
	living    []*Combatant // combatants with HP > 0, in no particular order
	occupancy []*Combatant // cell index -> living occupant or nil
	Rounds    int          // completed rounds
}

// NewCombatState clones the arena's combatants into a fresh state.
func NewCombatState(arena *Arena) (*CombatState, error) {
	s := &CombatState{
		arena:     arena,
		units:     make([]*Combatant, len(arena.Combatants)),
		living:    make([]*Combatant, 0, len(arena.Combatants)),
		occupancy: make([]*Combatant, arena.Grid.Size()),
	}
	for i := range arena.Combatants {
		c := arena.Combatants[i]
		s.units[i] = &c
		if !c.Alive() {
			continue
		}
		if !arena.Grid.IsOpen(c.Pos) {
			return nil, &InvariantError{CombatantID: c.ID, Invariant: InvariantIllegalStep,
				Detail: fmt.Sprintf("seeded on blocked cell %v", c.Pos)}
		}
		idx := arena.Grid.index(c.Pos)
		if other := s.occupancy[idx]; other != nil {
			return nil, &InvariantError{CombatantID: c.ID, Invariant: InvariantDuplicateOccupancy,
				Detail: fmt.Sprintf("cell %v already held by combatant %d", c.Pos, other.ID)}
		}
		s.occupancy[idx] = s.units[i]
		s.living = append(s.living, s.units[i])
	}
	return s, nil
}

func (s *CombatState) Grid() *Grid   { return s.arena.Grid }
func (s *CombatState) Arena() *Arena { return s.arena }

// Occupant returns the living combatant at p, if any.
func (s *CombatState) Occupant(p Position) (*Combatant, bool) {
	if !s.arena.Grid.InBounds(p) {
		return nil, false
	}
	c := s.occupancy[s.arena.Grid.index(p)]
	return c, c != nil
}

// IsFree reports whether p is open terrain with no living occupant.
func (s *CombatState) IsFree(p Position) bool {
	if !s.arena.Grid.IsOpen(p) {
		return false
	}
	return s.occupancy[s.arena.Grid.index(p)] == nil
}

// Combatant returns the combatant with the given ID, dead or alive.
func (s *CombatState) Combatant(id CombatantID) (*Combatant, bool) {
	if int(id) < 0 || int(id) >= len(s.units) {
		return nil, false
	}
	return s.units[id], true
}

// Living returns the living combatants in reading order of their positions.
// The slice is a snapshot; later moves and deaths do not reorder it.
func (s *CombatState) Living() []*Combatant {
	out := make([]*Combatant, len(s.living))
	copy(out, s.living)
	sort.Slice(out, func(i, j int) bool { return out[i].Pos.Less(out[j].Pos) })
	return out
}

// LivingCount returns the number of living combatants of faction f.
func (s *CombatState) LivingCount(f Faction) int {
	n := 0
	for _, c := range s.living {
		if c.Faction == f {
			n++
		}
	}
	return n
}

// HasEnemy reports whether any living combatant opposes faction f.
func (s *CombatState) HasEnemy(f Faction) bool {
	for _, c := range s.living {
		if c.Faction != f {
			return true
		}
	}
	return false
}

// TotalHP sums the hit points of all living combatants.
func (s *CombatState) TotalHP() int {
	total := 0
	for _, c := range s.living {
		total += c.HP
	}
	return total
}

// move relocates c to an adjacent free cell, updating occupancy with it.
func (s *CombatState) move(c *Combatant, to Position) error {
	if !c.Pos.Adjacent(to) || !s.IsFree(to) {
		return &InvariantError{Round: s.Rounds, CombatantID: c.ID, Invariant: InvariantIllegalStep,
			Detail: fmt.Sprintf("step %v -> %v", c.Pos, to)}
	}
	g := s.arena.Grid
	s.occupancy[g.index(c.Pos)] = nil
	s.occupancy[g.index(to)] = c
	c.Pos = to
	return nil
}

// remove drops a dead combatant from the living list and the occupancy index.
func (s *CombatState) remove(c *Combatant) {
	for i, l := range s.living {
		if l == c {
			s.living = append(s.living[:i], s.living[i+1:]...)
			break
		}
	}
	idx := s.arena.Grid.index(c.Pos)
	if s.occupancy[idx] == c {
		s.occupancy[idx] = nil
	}
}

// Render draws the grid with living combatants as their faction markers.
func (s *CombatState) Render() string {
	g := s.arena.Grid
	var b strings.Builder
	b.Grow(g.Size() + g.Rows())
	for row := 0; row < g.Rows(); row++ {
		for col := 0; col < g.Cols(); col++ {
			p := Position{Row: row, Col: col}
			switch c, ok := s.Occupant(p); {
			case ok:
				b.WriteByte(s.arena.Marker(c.Faction))
			case g.IsOpen(p):
				b.WriteByte('.')
			default:
				b.WriteByte('#')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
