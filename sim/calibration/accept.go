package calibration

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/skirmish-sim/skirmish/sim"
)

// DefaultAcceptance accepts a trial when faction A wins without losing anyone.
const DefaultAcceptance = `Winner == "A" && LossesA == 0`

// TrialEnv is the environment acceptance expressions are evaluated against.
type TrialEnv struct {
	Power       int
	Score       int
	Rounds      int
	RemainingHP int
	Winner      string // "A" or "B"
	SurvivorsA  int
	SurvivorsB  int
	LossesA     int
	LossesB     int
	InitialA    int
	InitialB    int
}

// NewTrialEnv flattens an outcome at the given power for expression evaluation.
func NewTrialEnv(power int, out sim.Outcome) TrialEnv {
	return TrialEnv{
		Power:       power,
		Score:       out.Score,
		Rounds:      out.Rounds,
		RemainingHP: out.RemainingHP,
		Winner:      out.Winner.String(),
		SurvivorsA:  out.Survivors[sim.FactionA],
		SurvivorsB:  out.Survivors[sim.FactionB],
		LossesA:     out.Losses[sim.FactionA],
		LossesB:     out.Losses[sim.FactionB],
		InitialA:    out.Survivors[sim.FactionA] + out.Losses[sim.FactionA],
		InitialB:    out.Survivors[sim.FactionB] + out.Losses[sim.FactionB],
	}
}

// Condition is a compiled boolean acceptance expression.
type Condition struct {
	src     string
	program *vm.Program
}

// CompileCondition compiles src against TrialEnv. An empty src means DefaultAcceptance.
func CompileCondition(src string) (*Condition, error) {
	if src == "" {
		src = DefaultAcceptance
	}
	prog, err := expr.Compile(src, expr.Env(TrialEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile acceptance %q: %w", src, err)
	}
	return &Condition{src: src, program: prog}, nil
}

func (c *Condition) String() string { return c.src }

// Accepts evaluates the condition. Safe for concurrent use.
func (c *Condition) Accepts(env TrialEnv) (bool, error) {
	result, err := vm.Run(c.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate acceptance %q: %w", c.src, err)
	}
	ok, isBool := result.(bool)
	if !isBool {
		return false, fmt.Errorf("acceptance %q returned %T, want bool", c.src, result)
	}
	return ok, nil
}
