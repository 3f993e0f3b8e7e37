// Package result holds the outcome table a preimage search run produces,
// plus a checkpoint format for resuming a long-running search.
package result

import (
	"sort"
	"sync"
	"time"
)

// Attempt records the outcome of one (hash, difficulty, target) preimage
// search: whether a consistent input was found, and how long the solver
// took to decide either way.
type Attempt struct {
	HashName     string
	Difficulty   int
	NumInputBits int
	Solved       bool
	Preimage     []bool // the recovered input bits, LSB first; nil if unsolved
	Elapsed      time.Duration
}

// Table stores discovered search attempts, safe for concurrent Add calls
// from a worker pool.
type Table struct {
	mu       sync.Mutex
	attempts []Attempt
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{}
}

// Add inserts an attempt into the table.
func (t *Table) Add(a Attempt) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.attempts = append(t.attempts, a)
}

// Attempts returns a copy of all recorded attempts, sorted by hash name
// then ascending difficulty.
func (t *Table) Attempts() []Attempt {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Attempt, len(t.attempts))
	copy(out, t.attempts)
	sort.Slice(out, func(i, j int) bool {
		if out[i].HashName != out[j].HashName {
			return out[i].HashName < out[j].HashName
		}
		return out[i].Difficulty < out[j].Difficulty
	})
	return out
}

// Len returns the number of recorded attempts.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.attempts)
}

// Solved returns how many recorded attempts succeeded.
func (t *Table) Solved() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, a := range t.attempts {
		if a.Solved {
			n++
		}
	}
	return n
}
