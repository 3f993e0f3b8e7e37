// Package dagsolver implements the DAG-aware backtracking solver (C8): it
// searches directly over a gate DAG instead of compiling to CNF first,
// using chronological backtracking with unit-propagation-style deduction
// through each gate's own clause form.
package dagsolver

import (
	"errors"
	"sort"

	"github.com/oisee/preimage-dag/pkg/bitgraph"
)

// ErrUnsat is returned by Solve when the gate DAG together with the given
// observations has no satisfying assignment — a distinct outcome from a
// caller's domain error (§7).
var ErrUnsat = errors.New("dagsolver: unsatisfiable")

// litStats scores one variable for the decision-literal ordering: the more
// gates reference it, the earlier it is tried, since fixing it propagates
// the furthest.
type litStats struct {
	variable            int
	preferredAssignment bool // always false; kept for future heuristics
	numReferencedGates  int
}

func (s litStats) score() int { return s.numReferencedGates }

// stackItem is one decision frame: the literal guessed, every variable its
// propagation implied (so popping can undo exactly those), and whether this
// frame has already tried both polarities.
type stackItem struct {
	litGuess  int
	implied   map[int]bool
	secondTry bool
}

// Solver runs chronological backtracking search over a fixed gate DAG.
// Construct with New and reuse across multiple Solve calls against
// different observations; each Solve call resets solver-internal state.
type Solver struct {
	numVars int
	gates   []bitgraph.Gate

	literals []int // index 1..numVars; 0=unset, 1=true, -1=false
	stack    []stackItem

	lit2gates       map[int][]int // variable -> indices into gates referencing it
	literalOrdering []int         // variable indices, descending score, tie-break ascending index
}

// New builds a Solver over a fixed gate DAG of numVars variables.
func New(numVars int, gates []bitgraph.Gate) *Solver {
	s := &Solver{numVars: numVars, gates: gates}
	s.initialize()
	return s
}

func (s *Solver) initialize() {
	s.literals = make([]int, s.numVars+1)
	s.stack = nil

	s.lit2gates = make(map[int][]int)
	note := func(v, gi int) { s.lit2gates[v] = append(s.lit2gates[v], gi) }
	for gi, g := range s.gates {
		note(bitgraph.Abs(g.Output), gi)
		for _, in := range g.Inputs {
			note(bitgraph.Abs(in), gi)
		}
	}

	stats := make([]litStats, s.numVars)
	for v := 1; v <= s.numVars; v++ {
		stats[v-1] = litStats{variable: v, numReferencedGates: len(s.lit2gates[v])}
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].score() != stats[j].score() {
			return stats[i].score() > stats[j].score()
		}
		return stats[i].variable < stats[j].variable
	})
	s.literalOrdering = make([]int, len(stats))
	for i, st := range stats {
		s.literalOrdering[i] = st.variable
	}
}

// Solve searches for a full assignment to the gate DAG consistent with
// observed (variable -> concrete value). Returns ErrUnsat if none exists,
// and a *bitgraph.DomainError if an observed key is outside 1..numVars.
func (s *Solver) Solve(observed map[int]bool) (map[int]bool, error) {
	vars := make([]int, 0, len(observed))
	for v := range observed {
		if v <= 0 || v > s.numVars {
			return nil, &bitgraph.DomainError{Op: "dagsolver.Solve", Msg: "observed variable outside 1..numVars"}
		}
		vars = append(vars, v)
	}

	s.literals = make([]int, s.numVars+1)
	s.stack = nil
	sort.Ints(vars)

	for _, v := range vars {
		val := observed[v]
		want := -1
		if val {
			want = 1
		}
		if s.literals[v] != 0 {
			if s.literals[v] != want {
				return nil, ErrUnsat
			}
			continue
		}
		lit := v
		if !val {
			lit = -v
		}
		s.pushStack(lit)
		if !s.propagate(v) {
			return nil, ErrUnsat
		}
	}

	// Observation frames are never flipped: backtracking down to them means
	// the search is exhausted.
	base := len(s.stack)
	for {
		lit := s.pickLiteral()
		if lit == 0 {
			break // every variable assigned: solved
		}
		s.pushStack(lit)
		ok := s.propagate(bitgraph.Abs(lit))
		for !ok {
			for len(s.stack) > base && s.stack[len(s.stack)-1].secondTry {
				s.popStack()
			}
			if len(s.stack) == base {
				return nil, ErrUnsat
			}
			top := s.stack[len(s.stack)-1]
			negLit := -top.litGuess
			s.popStack()
			s.pushStack(negLit)
			s.stack[len(s.stack)-1].secondTry = true
			ok = s.propagate(bitgraph.Abs(negLit))
		}
	}

	solution := make(map[int]bool, s.numVars)
	for v := 1; v <= s.numVars; v++ {
		if s.literals[v] != 0 {
			solution[v] = s.literals[v] > 0
		}
	}
	return solution, nil
}

// pickLiteral returns the first still-unassigned variable in
// literalOrdering, guessed false (preferredAssignment is always false), or
// 0 if every variable is already assigned.
func (s *Solver) pickLiteral() int {
	for _, v := range s.literalOrdering {
		if s.literals[v] == 0 {
			return -v
		}
	}
	return 0
}

func (s *Solver) pushStack(lit int) {
	v := bitgraph.Abs(lit)
	want := 1
	if lit < 0 {
		want = -1
	}
	if s.literals[v] != 0 {
		panic("dagsolver: pushStack on an already-assigned variable")
	}
	s.literals[v] = want
	s.stack = append(s.stack, stackItem{litGuess: lit, implied: make(map[int]bool)})
}

// popStack removes the top frame, clearing both its guessed literal and
// everything that literal's propagation implied.
func (s *Solver) popStack() {
	top := s.stack[len(s.stack)-1]
	s.literals[bitgraph.Abs(top.litGuess)] = 0
	for v := range top.implied {
		s.literals[v] = 0
	}
	s.stack = s.stack[:len(s.stack)-1]
}

// propagate runs unit-propagation starting from the gates referencing
// startVar, in BFS order, re-enqueuing any gate referencing a variable that
// becomes newly solved. Returns false on conflict.
func (s *Solver) propagate(startVar int) bool {
	queue := append([]int{}, s.lit2gates[startVar]...)
	for len(queue) > 0 {
		gi := queue[0]
		queue = queue[1:]
		newly, ok := s.partialSolve(s.gates[gi])
		if !ok {
			return false
		}
		if len(newly) == 0 {
			continue
		}
		top := &s.stack[len(s.stack)-1]
		for _, v := range newly {
			top.implied[v] = true
			queue = append(queue, s.lit2gates[v]...)
		}
	}
	return true
}

// litVal returns the current value of signed literal lit: 1 if true, -1 if
// false, 0 if its variable is still unassigned.
func (s *Solver) litVal(lit int) int {
	v := s.literals[bitgraph.Abs(lit)]
	if v == 0 {
		return 0
	}
	if lit < 0 {
		return -v
	}
	return v
}

// setVar forces variable v to val. Returns ok=false on conflict with an
// existing assignment; isNew reports whether this call actually assigned a
// previously-unset variable.
func (s *Solver) setVar(v int, val bool) (ok bool, isNew bool) {
	want := -1
	if val {
		want = 1
	}
	if s.literals[v] != 0 {
		return s.literals[v] == want, false
	}
	s.literals[v] = want
	return true, true
}

// partialSolve deduces forced values from one gate by running unit
// propagation over the gate's own CNF clauses (bitgraph.Gate.CNF) against
// the current assignment: any clause left with exactly one unassigned
// literal and every other literal false forces that literal true. This is
// logically equivalent to a bespoke per-gate-type deduction table — the
// clause set already captures the gate's full truth table (§4.2) — and
// reuses the same bitgraph.Gate.CNF clause table the cnf package builds on, instead of
// duplicating it as five separate hand-written rule sets.
func (s *Solver) partialSolve(g bitgraph.Gate) (newlySolved []int, ok bool) {
	for _, clause := range g.CNF() {
		satisfied := false
		unknownCount := 0
		unknownLit := 0
		for _, lit := range clause {
			switch s.litVal(lit) {
			case 1:
				satisfied = true
			case 0:
				unknownCount++
				unknownLit = lit
			}
			if satisfied {
				break
			}
		}
		if satisfied {
			continue
		}
		if unknownCount == 0 {
			return nil, false
		}
		if unknownCount == 1 {
			v := bitgraph.Abs(unknownLit)
			want := unknownLit > 0
			okSet, isNew := s.setVar(v, want)
			if !okSet {
				return nil, false
			}
			if isNew {
				newlySolved = append(newlySolved, v)
			}
		}
	}
	return newlySolved, true
}
