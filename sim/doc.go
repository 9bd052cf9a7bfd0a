// Package sim provides the deterministic, turn-based grid combat engine.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - arena.go, parse.go: the immutable seed (terrain + initial combatants) every run clones
//   - state.go: CombatState, the living list and the occupancy index derived from it
//   - pathfinder.go: nearest-target search with reading-order tie-breaks
//   - simulator.go: the round loop (turn order, move, attack, termination)
//   - outcome.go: score of a terminated run
//
// # Rules
//
// Each round, living combatants act once in reading order (row, then column) of
// their positions at round start. A combatant beside an enemy attacks without
// moving; otherwise it steps toward the nearest free cell next to an enemy and
// then attacks if it can. The weakest adjacent enemy is attacked, ties again in
// reading order. Dead combatants vanish at once and skip any remaining turn.
// Combat ends when a combatant finds no enemy on its turn; the score is the
// number of completed rounds times the hit points left standing.
//
// # Sub-packages
//
//   - sim/calibration/: minimal attack-power search over repeated simulations
//   - sim/trace/: move, attack and round recording
package sim
