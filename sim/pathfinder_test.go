package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStep_NearestTargetByReadingOrder(t *testing.T) {
	// GIVEN three targets at distance 2: (1,3), (2,2) and (3,1)
	st := mustState(t, mustParse(t,
		"#######",
		"#E..G.#",
		"#...#.#",
		"#.G.#G#",
		"#######",
	))
	elf := occupantAt(t, st, 1, 1)

	// WHEN the elf looks for a step
	step, ok := st.NextStep(elf)

	// THEN it heads for (1,3), the first target in reading order
	require.True(t, ok)
	assert.Equal(t, Position{1, 2}, step)
}

func TestNextStep_FirstStepByReadingOrder(t *testing.T) {
	// GIVEN a target at (2,4) reachable via (1,3) or (2,2) in equally many steps
	st := mustState(t, mustParse(t,
		"#######",
		"#.E...#",
		"#.....#",
		"#...G.#",
		"#######",
	))
	elf := occupantAt(t, st, 1, 2)

	step, ok := st.NextStep(elf)

	// THEN the step preferred in reading order wins: right before down
	require.True(t, ok)
	assert.Equal(t, Position{1, 3}, step)
}

func TestNextStep_SymmetricMap_UpBeforeLeft(t *testing.T) {
	// GIVEN an enemy diagonal up-left, reachable via up or via left
	st := mustState(t, mustParse(t,
		"#####",
		"#G..#",
		"#...#",
		"#..E#",
		"#####",
	))
	elf := occupantAt(t, st, 3, 3)

	step, ok := st.NextStep(elf)

	// THEN the target (1,2) is preferred over (2,1), and "up" is the first step
	require.True(t, ok)
	assert.Equal(t, Position{2, 3}, step)
}

func TestNextStep_AlreadyAdjacent_NoMove(t *testing.T) {
	st := mustState(t, mustParse(t, "#####", "#EG.#", "#####"))

	_, ok := st.NextStep(occupantAt(t, st, 1, 1))

	assert.False(t, ok)
}

func TestNextStep_Unreachable_NoMove(t *testing.T) {
	// GIVEN an enemy sealed off by a wall
	st := mustState(t, mustParse(t, "#####", "#E#G#", "#####"))

	_, ok := st.NextStep(occupantAt(t, st, 1, 1))

	assert.False(t, ok)
}

func TestNextStep_BlockedByAlly_NoMove(t *testing.T) {
	// GIVEN a one-wide corridor where an ally stands between the elf and the only target cell
	st := mustState(t, mustParse(t, "######", "#EE.G#", "######"))
	rear := occupantAt(t, st, 1, 1)

	_, ok := st.NextStep(rear)

	// THEN the rear elf cannot path through its ally
	assert.False(t, ok)

	// AND the front elf advances
	step, ok := st.NextStep(occupantAt(t, st, 1, 2))
	require.True(t, ok)
	assert.Equal(t, Position{1, 3}, step)
}

func TestNextStep_NoLivingEnemy_NoMove(t *testing.T) {
	g := NewGrid(1, 4)
	arena, err := NewArena(g, []Combatant{{Faction: FactionA, Pos: Position{0, 0}, HP: 1, Power: 1}}, [2]byte{'E', 'G'})
	require.NoError(t, err)
	st := mustState(t, arena)

	_, ok := st.NextStep(occupantAt(t, st, 0, 0))

	assert.False(t, ok)
}

func TestAttackTarget_FewestHitPointsThenReadingOrder(t *testing.T) {
	// GIVEN an elf surrounded on four sides
	st := mustState(t, mustParse(t,
		"#####",
		"#.G.#",
		"#GEG#",
		"#.G.#",
		"#####",
	))
	elf := occupantAt(t, st, 2, 2)
	up, left := occupantAt(t, st, 1, 2), occupantAt(t, st, 2, 1)
	right, down := occupantAt(t, st, 2, 3), occupantAt(t, st, 3, 2)

	// WHEN the bottom goblin is weakest
	up.HP, left.HP, right.HP, down.HP = 10, 5, 5, 3
	target, ok := st.attackTarget(elf)
	require.True(t, ok)
	assert.Same(t, down, target)

	// WHEN left, right and down tie
	down.HP = 5
	target, _ = st.attackTarget(elf)
	assert.Same(t, left, target, "ties go to the first enemy in reading order")

	// WHEN all four tie
	up.HP = 5
	target, _ = st.attackTarget(elf)
	assert.Same(t, up, target)
}

func TestAttackTarget_IgnoresAllies(t *testing.T) {
	st := mustState(t, mustParse(t, "#####", "#EE.#", "#..G#", "#####"))

	_, ok := st.attackTarget(occupantAt(t, st, 1, 1))

	assert.False(t, ok)
}
