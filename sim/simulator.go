// sim/simulator.go
package sim

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/skirmish-sim/skirmish/sim/trace"
)

// Status is the lifecycle state of a Simulator.
type Status string

const (
	StatusRunning    Status = "running"
	StatusTerminated Status = "terminated"
)

// RoundObserver is called after every round, including the final one cut
// short when combat ended mid-round (complete is then false).
type RoundObserver func(sim *Simulator, round int, complete bool)

// Simulator drives the round loop of a single combat run.
type Simulator struct {
	ID        string // unique per run; tags logs, trace and service frames
	State     *CombatState
	Trace     *trace.SimulationTrace // nil unless EngineConfig.TraceLevel records
	MaxRounds int
	// OnRound, when set, observes each round. It must not mutate State.
	OnRound RoundObserver

	status Status
	winner Faction
	log    *logrus.Entry
}

// NewSimulator clones the arena into a fresh combat state.
func NewSimulator(arena *Arena, cfg EngineConfig) (*Simulator, error) {
	state, err := NewCombatState(arena)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	s := &Simulator{
		ID:        id,
		State:     state,
		MaxRounds: cfg.MaxRounds,
		status:    StatusRunning,
		log:       logrus.WithField("run", id),
	}
	if cfg.TraceLevel.Enabled() {
		s.Trace = trace.NewSimulationTrace(trace.TraceConfig{Level: cfg.TraceLevel, RunID: id})
	}
	return s, nil
}

func (sim *Simulator) Status() Status { return sim.status }

// Winner returns the surviving faction once combat has terminated.
func (sim *Simulator) Winner() (Faction, bool) {
	return sim.winner, sim.status == StatusTerminated
}

// Run plays rounds until one faction remains and returns the outcome.
func (sim *Simulator) Run() (Outcome, error) {
	for {
		done, err := sim.Step()
		if err != nil {
			return Outcome{}, err
		}
		if done {
			break
		}
	}
	out, err := sim.Outcome()
	if err != nil {
		return Outcome{}, err
	}
	sim.log.Infof("[round %04d] Combat ended: winner=%s hp=%d score=%d",
		out.Rounds, out.Winner, out.RemainingHP, out.Score)
	return out, nil
}

// Step plays one round and reports whether combat is over. The turn order is
// the reading order of living combatants when the round starts; it is not
// revised as combatants move or die. A combatant finding no living enemy on
// its turn ends combat at once, and that round does not count.
func (sim *Simulator) Step() (bool, error) {
	if sim.status == StatusTerminated {
		return true, nil
	}
	st := sim.State
	round := st.Rounds + 1
	order := st.Living()
	sim.log.Debugf("[round %04d] Start: %d living", round, len(order))

	for _, c := range order {
		if !c.Alive() {
			continue
		}
		if !st.HasEnemy(c.Faction) {
			sim.status = StatusTerminated
			sim.winner = c.Faction
			sim.log.Debugf("[round %04d] %v finds no enemy; round does not count", round, c)
			sim.endRound(round, false)
			return true, nil
		}
		if err := sim.takeTurn(c, round); err != nil {
			return false, err
		}
	}

	st.Rounds++
	sim.endRound(round, true)
	if sim.MaxRounds > 0 && st.Rounds > sim.MaxRounds {
		return false, &InvariantError{Round: st.Rounds, CombatantID: -1, Invariant: InvariantRoundLimit,
			Detail: "combat still running after the configured round limit"}
	}
	return false, nil
}

// takeTurn moves c one step toward the nearest enemy unless it already stands
// beside one, then attacks the weakest adjacent enemy if any.
func (sim *Simulator) takeTurn(c *Combatant, round int) error {
	st := sim.State
	if _, adjacent := st.attackTarget(c); !adjacent {
		if step, ok := st.NextStep(c); ok {
			from := c.Pos
			if err := st.move(c, step); err != nil {
				return err
			}
			sim.log.Tracef("[round %04d] %s#%d moves %v -> %v", round, c.Faction, c.ID, from, step)
			if sim.Trace != nil {
				sim.Trace.RecordMove(trace.MoveRecord{
					Round:       round,
					CombatantID: int(c.ID),
					Faction:     c.Faction.String(),
					From:        traceCell(from),
					To:          traceCell(step),
				})
			}
		}
	}

	target, ok := st.attackTarget(c)
	if !ok {
		return nil
	}
	res, err := st.resolveAttack(c, target)
	if err != nil {
		return err
	}
	sim.log.Tracef("[round %04d] %s#%d hits %s#%d for %d (hp=%d)",
		round, c.Faction, c.ID, target.Faction, target.ID, res.Damage, res.RemainingHP)
	if res.Killed {
		sim.log.Debugf("[round %04d] %s#%d killed at %v", round, target.Faction, target.ID, target.Pos)
	}
	if sim.Trace != nil {
		sim.Trace.RecordAttack(trace.AttackRecord{
			Round:           round,
			AttackerID:      int(c.ID),
			AttackerFaction: c.Faction.String(),
			DefenderID:      int(target.ID),
			Damage:          res.Damage,
			RemainingHP:     res.RemainingHP,
			Killed:          res.Killed,
		})
	}
	return nil
}

func (sim *Simulator) endRound(round int, complete bool) {
	st := sim.State
	if sim.Trace != nil {
		sim.Trace.RecordRound(trace.RoundRecord{
			Round:    round,
			Complete: complete,
			Living: map[string]int{
				FactionA.String(): st.LivingCount(FactionA),
				FactionB.String(): st.LivingCount(FactionB),
			},
			TotalHP: st.TotalHP(),
		})
	}
	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		sim.log.Tracef("[round %04d] End (complete=%v):\n%s", round, complete, st.Render())
	}
	if sim.OnRound != nil {
		sim.OnRound(sim, round, complete)
	}
}

func traceCell(p Position) trace.Cell {
	return trace.Cell{Row: p.Row, Col: p.Col}
}

// Simulate runs a fresh simulation of the arena to termination.
func Simulate(arena *Arena, cfg EngineConfig) (Outcome, error) {
	s, err := NewSimulator(arena, cfg)
	if err != nil {
		return Outcome{}, err
	}
	return s.Run()
}
