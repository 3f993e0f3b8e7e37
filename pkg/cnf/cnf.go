// Package cnf implements the CNF clause-set model (C7): construction from a
// gate list, satisfied-clause counting, approximation ratio, and a
// unit-propagation simplifier with a literal mapping back to the original
// numbering.
package cnf

import (
	"errors"
	"fmt"
	"sort"

	"github.com/oisee/preimage-dag/pkg/bitgraph"
)

// CNF is a clause set over NumVars variables 1..NumVars. Each clause is a
// set of nonzero signed literals (no duplicate variable within a clause is
// assumed, matching every gate's CNF() output).
type CNF struct {
	NumVars int
	Clauses [][]int
}

// FromGates expands every gate's CNF() clauses into one clause set (§4.2/§4.5).
func FromGates(numVars int, gates []bitgraph.Gate) *CNF {
	c := &CNF{NumVars: numVars}
	for _, g := range gates {
		c.Clauses = append(c.Clauses, g.CNF()...)
	}
	return c
}

// FromClauses wraps a raw clause list, e.g. one parsed from DIMACS input.
func FromClauses(numVars int, clauses [][]int) *CNF {
	return &CNF{NumVars: numVars, Clauses: clauses}
}

// NumSatClauses counts how many clauses are satisfied under assignment
// (var -> value, 1-based positive keys only). Every clause must have at
// least one literal whose variable is present in assignment, or this is a
// caller error (a bitgraph.DomainError); a literal whose variable is absent
// from assignment does not satisfy its clause.
func (c *CNF) NumSatClauses(assignment map[int]bool) (int, error) {
	sat := 0
	for ci, clause := range c.Clauses {
		satisfied := false
		assigned := false
		for _, lit := range clause {
			val, ok := assignment[bitgraph.Abs(lit)]
			if !ok {
				continue
			}
			assigned = true
			want := lit > 0
			if val == want {
				satisfied = true
				break
			}
		}
		if !assigned {
			return 0, &bitgraph.DomainError{Op: "cnf.NumSatClauses", Msg: fmt.Sprintf("clause %d has no assigned variable", ci)}
		}
		if satisfied {
			sat++
		}
	}
	return sat, nil
}

// ApproximationRatio is NumSatClauses / len(Clauses), the fraction of
// clauses an assignment satisfies — useful for grading a near-miss
// assignment from an incomplete/heuristic search.
func (c *CNF) ApproximationRatio(assignment map[int]bool) (float64, error) {
	if len(c.Clauses) == 0 {
		return 1, nil
	}
	sat, err := c.NumSatClauses(assignment)
	if err != nil {
		return 0, err
	}
	return float64(sat) / float64(len(c.Clauses)), nil
}

// ErrUnsat is returned by Simplify when unit propagation derives an empty
// clause — the assignment is provably inconsistent with c.
var ErrUnsat = errors.New("cnf: unsatisfiable under given assignment")

// Simplification is the result of propagating a partial assignment through
// a CNF: the remaining clauses, renumbered to a consecutive 1..NumVars
// range, plus the map back to the original variable numbering.
type Simplification struct {
	NumVars                int
	Clauses                [][]int
	VarSimplifiedToOriginal map[int]int
}

// Simplify propagates assignment (var -> value, 1-based) through c via unit
// propagation: clauses containing a satisfied literal are dropped, false
// literals are deleted from their clause, and any newly-forced unit clause
// is propagated in turn. Returns ErrUnsat if an empty clause is derived.
func (c *CNF) Simplify(assignment map[int]bool) (*Simplification, error) {
	alive := make([]bool, len(c.Clauses))
	clauseLits := make([]map[int]bool, len(c.Clauses))
	lit2clauses := make(map[int][]int)
	for i, clause := range c.Clauses {
		alive[i] = true
		set := make(map[int]bool, len(clause))
		for _, lit := range clause {
			set[lit] = true
			lit2clauses[lit] = append(lit2clauses[lit], i)
		}
		clauseLits[i] = set
	}

	processed := make(map[int]bool)
	var queue []int
	for v, val := range assignment {
		if val {
			queue = append(queue, v)
		} else {
			queue = append(queue, -v)
		}
	}
	sort.Ints(queue) // deterministic propagation order

	for len(queue) > 0 {
		lit := queue[0]
		queue = queue[1:]
		if processed[lit] {
			continue
		}
		processed[lit] = true

		for _, ci := range lit2clauses[lit] {
			alive[ci] = false
		}
		for _, ci := range lit2clauses[-lit] {
			if !alive[ci] {
				continue
			}
			delete(clauseLits[ci], -lit)
			switch len(clauseLits[ci]) {
			case 0:
				return nil, ErrUnsat
			case 1:
				var remaining int
				for l := range clauseLits[ci] {
					remaining = l
				}
				if !processed[remaining] {
					queue = append(queue, remaining)
				}
			}
		}
	}

	var survivors [][]int
	seenVar := make(map[int]bool)
	var vars []int
	for i, a := range alive {
		if !a {
			continue
		}
		lits := make([]int, 0, len(clauseLits[i]))
		for l := range clauseLits[i] {
			lits = append(lits, l)
			v := bitgraph.Abs(l)
			if !seenVar[v] {
				seenVar[v] = true
				vars = append(vars, v)
			}
		}
		sort.Ints(lits)
		survivors = append(survivors, lits)
	}
	sort.Ints(vars)

	old2new := make(map[int]int, len(vars))
	new2old := make(map[int]int, len(vars))
	for i, old := range vars {
		old2new[old] = i + 1
		new2old[i+1] = old
	}
	for _, lits := range survivors {
		for i, l := range lits {
			if l < 0 {
				lits[i] = -old2new[-l]
			} else {
				lits[i] = old2new[l]
			}
		}
	}

	return &Simplification{
		NumVars:                 len(vars),
		Clauses:                 survivors,
		VarSimplifiedToOriginal: new2old,
	}, nil
}
