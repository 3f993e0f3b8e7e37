package cnf

import (
	"errors"
	"testing"

	"github.com/oisee/preimage-dag/pkg/bitgraph"
)

func and3() *CNF {
	g := bitgraph.Gate{Type: bitgraph.GateAnd, Output: 3, Inputs: []int{1, -2}}
	return FromGates(3, []bitgraph.Gate{g})
}

func TestNumSatClauses(t *testing.T) {
	c := and3()
	n, err := c.NumSatClauses(map[int]bool{1: true, 2: true, 3: false})
	if err != nil {
		t.Fatalf("NumSatClauses: %v", err)
	}
	if n != len(c.Clauses) {
		t.Fatalf("got %d/%d satisfied, want all satisfied for a consistent assignment", n, len(c.Clauses))
	}
}

func TestNumSatClausesUnassignedVariable(t *testing.T) {
	c := and3()
	if _, err := c.NumSatClauses(map[int]bool{1: true}); err == nil {
		t.Fatalf("expected DomainError for unassigned variable")
	}
}

func TestApproximationRatioPartialMiss(t *testing.T) {
	c := and3()
	// 1=true,2=true,3=true contradicts AND(3;1,-2): clause {-3,-2} is violated.
	ratio, err := c.ApproximationRatio(map[int]bool{1: true, 2: true, 3: true})
	if err != nil {
		t.Fatalf("ApproximationRatio: %v", err)
	}
	if ratio >= 1.0 {
		t.Fatalf("ratio = %v, want < 1 for an inconsistent assignment", ratio)
	}
}

func TestSimplifyDerivesUnsat(t *testing.T) {
	c := and3()
	_, err := c.Simplify(map[int]bool{1: true, 2: true, 3: true})
	if !errors.Is(err, ErrUnsat) {
		t.Fatalf("Simplify = %v, want ErrUnsat", err)
	}
}

func TestSimplifyConsistentAssignmentEmptiesClauses(t *testing.T) {
	c := and3()
	simp, err := c.Simplify(map[int]bool{1: true, 2: true, 3: false})
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if len(simp.Clauses) != 0 {
		t.Fatalf("expected all clauses resolved, got %v", simp.Clauses)
	}
}

func TestSimplifyPartialPropagatesForcedUnit(t *testing.T) {
	// AND(3;1,-2): fixing 3=true forces 1=true and 2=false via unit propagation.
	c := and3()
	simp, err := c.Simplify(map[int]bool{3: true})
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if len(simp.Clauses) != 0 {
		t.Fatalf("expected full propagation to resolve every clause, got %v", simp.Clauses)
	}
}
