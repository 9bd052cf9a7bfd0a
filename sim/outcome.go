package sim

// Outcome summarizes a terminated run.
type Outcome struct {
	RunID       string          `json:"run_id"`
	Winner      Faction         `json:"winner"`
	Rounds      int             `json:"rounds"`       // completed rounds
	RemainingHP int             `json:"remaining_hp"` // summed over living combatants
	Score       int             `json:"score"`        // Rounds * RemainingHP
	Survivors   map[Faction]int `json:"survivors"`
	Losses      map[Faction]int `json:"losses"`
}

// Outcome reports the score of a terminated run, or ErrNotTerminated.
func (sim *Simulator) Outcome() (Outcome, error) {
	winner, ok := sim.Winner()
	if !ok {
		return Outcome{}, ErrNotTerminated
	}
	st := sim.State
	out := Outcome{
		RunID:       sim.ID,
		Winner:      winner,
		Rounds:      st.Rounds,
		RemainingHP: st.TotalHP(),
		Survivors:   make(map[Faction]int, len(Factions)),
		Losses:      make(map[Faction]int, len(Factions)),
	}
	out.Score = out.Rounds * out.RemainingHP
	for _, f := range Factions {
		living := st.LivingCount(f)
		out.Survivors[f] = living
		out.Losses[f] = st.Arena().Count(f) - living
	}
	return out, nil
}

// Flawless reports whether faction f won without losing a single combatant.
func (o Outcome) Flawless(f Faction) bool {
	return o.Winner == f && o.Losses[f] == 0
}
