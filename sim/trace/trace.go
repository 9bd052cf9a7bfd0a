package trace

// TraceLevel controls the verbosity of combat tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelRounds captures one record per finished or cut-short round.
	TraceLevelRounds TraceLevel = "rounds"
	// TraceLevelDecisions captures every move and attack in addition to rounds.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelRounds:    true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// Enabled reports whether the level records anything at all.
func (l TraceLevel) Enabled() bool {
	return l == TraceLevelRounds || l == TraceLevelDecisions
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
	RunID string // identifies the simulation run the records belong to
}

// SimulationTrace collects records during one combat run.
type SimulationTrace struct {
	Config  TraceConfig
	Moves   []MoveRecord
	Attacks []AttackRecord
	Rounds  []RoundRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:  config,
		Moves:   make([]MoveRecord, 0),
		Attacks: make([]AttackRecord, 0),
		Rounds:  make([]RoundRecord, 0),
	}
}

// RecordMove appends a move record. Ignored below TraceLevelDecisions.
func (st *SimulationTrace) RecordMove(record MoveRecord) {
	if st.Config.Level != TraceLevelDecisions {
		return
	}
	st.Moves = append(st.Moves, record)
}

// RecordAttack appends an attack record. Ignored below TraceLevelDecisions.
func (st *SimulationTrace) RecordAttack(record AttackRecord) {
	if st.Config.Level != TraceLevelDecisions {
		return
	}
	st.Attacks = append(st.Attacks, record)
}

// RecordRound appends a round record.
func (st *SimulationTrace) RecordRound(record RoundRecord) {
	if !st.Config.Level.Enabled() {
		return
	}
	st.Rounds = append(st.Rounds, record)
}
