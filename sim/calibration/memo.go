package calibration

import (
	"sort"
	"sync"

	"github.com/skirmish-sim/skirmish/sim"
)

// Memo remembers the outcome of every simulated power so no power is
// simulated twice. It is owned by the caller and may be shared between
// searches over the same arena; it must not be shared across arenas.
type Memo struct {
	mu       sync.Mutex
	outcomes map[int]sim.Outcome
}

func NewMemo() *Memo {
	return &Memo{outcomes: make(map[int]sim.Outcome)}
}

func (m *Memo) Get(power int) (sim.Outcome, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out, ok := m.outcomes[power]
	return out, ok
}

func (m *Memo) Put(power int, out sim.Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[power] = out
}

func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.outcomes)
}

// Powers returns every memoized power in ascending order.
func (m *Memo) Powers() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	powers := make([]int, 0, len(m.outcomes))
	for p := range m.outcomes {
		powers = append(powers, p)
	}
	sort.Ints(powers)
	return powers
}
