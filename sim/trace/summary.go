package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	CompletedRounds int
	TotalMoves      int
	TotalAttacks    int
	TotalKills      int
	DamageByFaction map[string]int // attacker faction -> damage dealt
	KillsByFaction  map[string]int // attacker faction -> kills
	MovesByFaction  map[string]int
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		DamageByFaction: make(map[string]int),
		KillsByFaction:  make(map[string]int),
		MovesByFaction:  make(map[string]int),
	}
	if st == nil {
		return summary
	}

	for _, r := range st.Rounds {
		if r.Complete {
			summary.CompletedRounds++
		}
	}

	summary.TotalMoves = len(st.Moves)
	for _, m := range st.Moves {
		summary.MovesByFaction[m.Faction]++
	}

	summary.TotalAttacks = len(st.Attacks)
	for _, a := range st.Attacks {
		summary.DamageByFaction[a.AttackerFaction] += a.Damage
		if a.Killed {
			summary.TotalKills++
			summary.KillsByFaction[a.AttackerFaction]++
		}
	}

	return summary
}
