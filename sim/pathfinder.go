package sim

// unreached marks cells a breadth-first search did not visit.
const unreached = -1

// distancesFrom runs a breadth-first search from origin over free cells and
// returns step counts per cell index. The origin itself is always traversable,
// even when occupied by the combatant searching from it.
func (s *CombatState) distancesFrom(origin Position) []int {
	g := s.arena.Grid
	dist := make([]int, g.Size())
	for i := range dist {
		dist[i] = unreached
	}
	dist[g.index(origin)] = 0
	queue := []Position{origin}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		d := dist[g.index(cur)]
		for _, n := range cur.Neighbors() {
			if !s.IsFree(n) || dist[g.index(n)] != unreached {
				continue
			}
			dist[g.index(n)] = d + 1
			queue = append(queue, n)
		}
	}
	return dist
}

// targetCells lists free cells adjacent to any living enemy of c, in no order.
func (s *CombatState) targetCells(c *Combatant) []Position {
	var cells []Position
	for _, e := range s.living {
		if !c.IsEnemy(e) {
			continue
		}
		for _, n := range e.Pos.Neighbors() {
			if n == c.Pos || s.IsFree(n) {
				cells = append(cells, n)
			}
		}
	}
	return cells
}

// NextStep returns the cell c should step into: the first step of a shortest
// path to the nearest free cell beside an enemy. Equally near targets are
// ranked by reading order, then equally good first steps by reading order.
// ok is false when no enemy lives, no target is reachable, or c already
// stands beside an enemy.
func (s *CombatState) NextStep(c *Combatant) (step Position, ok bool) {
	targets := s.targetCells(c)
	if len(targets) == 0 {
		return Position{}, false
	}

	g := s.arena.Grid
	fromStart := s.distancesFrom(c.Pos)
	var target Position
	best := unreached
	for _, t := range targets {
		d := fromStart[g.index(t)]
		if d == unreached {
			continue
		}
		if best == unreached || d < best || (d == best && t.Less(target)) {
			target, best = t, d
		}
	}
	if best <= 0 {
		return Position{}, false
	}

	toTarget := s.distancesFrom(target)
	best = unreached
	for _, n := range c.Pos.Neighbors() {
		if !s.IsFree(n) {
			continue
		}
		d := toTarget[g.index(n)]
		if d == unreached {
			continue
		}
		// Neighbors come in reading order, so a strict comparison keeps the first of equals.
		if best == unreached || d < best {
			step, best = n, d
		}
	}
	return step, best != unreached
}

// attackTarget picks the adjacent living enemy with the fewest hit points,
// breaking ties by reading order of the enemy's position.
func (s *CombatState) attackTarget(c *Combatant) (*Combatant, bool) {
	var target *Combatant
	for _, n := range c.Pos.Neighbors() {
		o, ok := s.Occupant(n)
		if !ok || !c.IsEnemy(o) {
			continue
		}
		if target == nil || o.HP < target.HP {
			target = o
		}
	}
	return target, target != nil
}
