package circuit

import (
	"strings"
	"testing"

	"github.com/oisee/preimage-dag/pkg/bitgraph"
)

// buildChain mirrors test_sym_representation.cpp's PruneAndReindex fixture:
// inputs {1,2,3}, gates {AND(4;1,-2), AND(5;3,-4)}, output {4}. Gate 5 (and
// the otherwise-unreferenced input 3) is unreachable from the chosen output
// and must be pruned away.
func buildChain() (gates []bitgraph.Gate, inputIndices, outputIndices []int) {
	gates = []bitgraph.Gate{
		{Type: bitgraph.GateAnd, Output: 4, Inputs: []int{1, -2}},
		{Type: bitgraph.GateAnd, Output: 5, Inputs: []int{3, -4}},
	}
	inputIndices = []int{1, 2, 3}
	outputIndices = []int{4} // only y is observed
	return
}

func TestNewPrunesUnreachableGates(t *testing.T) {
	gates, inputIdx, outputIdx := buildChain()
	rep := New(gates, inputIdx, outputIdx)
	if len(rep.Gates) != 1 {
		t.Fatalf("expected 1 surviving gate after pruning, got %d: %+v", len(rep.Gates), rep.Gates)
	}
}

func TestNewReindexesConsecutively(t *testing.T) {
	gates, inputIdx, outputIdx := buildChain()
	rep := New(gates, inputIdx, outputIdx)
	// surviving vars are exactly {1, 2, 4}: input 3 is referenced only by the
	// pruned gate 5, so it is not part of the surviving set (PruneAndReindex).
	if rep.NumVars != 3 {
		t.Fatalf("NumVars = %d, want 3", rep.NumVars)
	}
	want := []int{1, 2, 0}
	for i, idx := range rep.InputIndices {
		if idx != want[i] {
			t.Fatalf("InputIndices = %v, want %v", rep.InputIndices, want)
		}
	}
	for _, g := range rep.Gates {
		if g.Output > rep.NumVars {
			t.Fatalf("gate output %d exceeds NumVars %d", g.Output, rep.NumVars)
		}
	}
}

func TestDAGRoundTrip(t *testing.T) {
	gates, inputIdx, outputIdx := buildChain()
	rep := New(gates, inputIdx, outputIdx)
	text := rep.ToDAG()
	parsed, err := FromDAG(text)
	if err != nil {
		t.Fatalf("FromDAG: %v", err)
	}
	if parsed.NumVars != rep.NumVars {
		t.Fatalf("NumVars round trip: got %d want %d", parsed.NumVars, rep.NumVars)
	}
	if len(parsed.Gates) != len(rep.Gates) {
		t.Fatalf("gate count round trip: got %d want %d", len(parsed.Gates), len(rep.Gates))
	}
	if parsed.ToDAG() != text {
		t.Fatalf("round-tripped DAG text differs:\ngot:\n%s\nwant:\n%s", parsed.ToDAG(), text)
	}
}

func TestFromDAGRejectsBadHeader(t *testing.T) {
	if _, err := FromDAG("NOTVARS 3\n"); err == nil {
		t.Fatalf("expected StructuralError for bad header")
	}
}

func TestFromDAGRejectsOutOfRangeGate(t *testing.T) {
	bad := "VARS 2\nINPUTS 0\n\nOUTPUTS 0\n\nGATES 1\nA 5 1 2\n"
	if _, err := FromDAG(bad); err == nil {
		t.Fatalf("expected StructuralError for out-of-range gate output")
	}
}

func TestFromDAGRejectsCycle(t *testing.T) {
	bad := "VARS 3\nINPUTS 0\n\nOUTPUTS 0\n\nGATES 1\nA 1 2 3\n"
	if _, err := FromDAG(bad); err == nil {
		t.Fatalf("expected StructuralError for acyclicity violation")
	}
}

func TestToCNFMatchesGateCount(t *testing.T) {
	gates, inputIdx, outputIdx := buildChain()
	rep := New(gates, inputIdx, outputIdx)
	c := rep.ToCNF()
	// each AND gate contributes exactly 3 clauses (§4.2)
	if len(c.Clauses) != 3*len(rep.Gates) {
		t.Fatalf("got %d clauses, want %d", len(c.Clauses), 3*len(rep.Gates))
	}
}

func TestToDAGContainsExpectedSections(t *testing.T) {
	gates, inputIdx, outputIdx := buildChain()
	rep := New(gates, inputIdx, outputIdx)
	text := rep.ToDAG()
	for _, tag := range []string{"VARS", "INPUTS", "OUTPUTS", "GATES"} {
		if !strings.Contains(text, tag) {
			t.Fatalf("ToDAG output missing %q section:\n%s", tag, text)
		}
	}
}
