package bitgraph

import (
	"reflect"
	"testing"
)

func TestAndConstantFold(t *testing.T) {
	r := NewRegistry()
	a := r.NewInput(true)
	if got := r.And(a, Zero()); got.Unknown || got.Val {
		t.Fatalf("a AND 0 = %+v, want known false", got)
	}
	if got := r.And(a, One()); !(got.Unknown && got.Index == a.Index) {
		t.Fatalf("a AND 1 = %+v, want a unchanged", got)
	}
	if r.NumGates() != 0 {
		t.Fatalf("constant folding should not allocate gates, got %d", r.NumGates())
	}
}

func TestAndIdentityAbsorption(t *testing.T) {
	r := NewRegistry()
	a := r.NewInput(true)
	if got := r.And(a, a); got.Index != a.Index {
		t.Fatalf("a AND a = %+v, want a", got)
	}
	notA := r.Not(a)
	if got := r.And(a, notA); got.Unknown || got.Val {
		t.Fatalf("a AND ~a = %+v, want known false", got)
	}
	if r.NumGates() != 0 {
		t.Fatalf("identity absorption should not allocate gates, got %d", r.NumGates())
	}
}

func TestOrIdentityAbsorption(t *testing.T) {
	r := NewRegistry()
	a := r.NewInput(false)
	notA := r.Not(a)
	if got := r.Or(a, notA); got.Unknown || !got.Val {
		t.Fatalf("a OR ~a = %+v, want known true", got)
	}
	if got := r.Or(a, a); got.Index != a.Index {
		t.Fatalf("a OR a = %+v, want a", got)
	}
}

func TestXorSameOppositeSign(t *testing.T) {
	r := NewRegistry()
	a := r.NewInput(true)
	notA := r.Not(a)
	if got := r.Xor(a, a); got.Unknown || got.Val {
		t.Fatalf("a XOR a = %+v, want known false", got)
	}
	if got := r.Xor(a, notA); got.Unknown || !got.Val {
		t.Fatalf("a XOR ~a = %+v, want known true", got)
	}
}

func TestOnlyAndGatesRewritesOr(t *testing.T) {
	r := NewRegistry()
	r.OnlyAndGates = true
	a := r.NewInput(true)
	b := r.NewInput(false)
	got := r.Or(a, b)
	for _, g := range r.Gates() {
		if g.Type != GateAnd {
			t.Fatalf("only_and_gates: found non-AND gate %v", g.Type)
		}
	}
	if got.Val != (a.Val || b.Val) {
		t.Fatalf("OR concrete value wrong: got %v want %v", got.Val, a.Val || b.Val)
	}
}

func TestGateEmissionAllocatesConsecutiveIndices(t *testing.T) {
	r := NewRegistry()
	a := r.NewInput(true)
	b := r.NewInput(false)
	c := r.And(a, b) // a,b unrelated -> real gate
	if !c.Unknown || c.Index <= b.Index {
		t.Fatalf("expected a fresh gate output index greater than operands, got %+v", c)
	}
	if r.NumGates() != 1 {
		t.Fatalf("expected exactly 1 gate, got %d", r.NumGates())
	}
}

func TestFullAdderTruthTable(t *testing.T) {
	r := NewRegistry()
	for _, a := range []bool{false, true} {
		for _, b := range []bool{false, true} {
			for _, cin := range []bool{false, true} {
				av := r.NewInput(a)
				bv := r.NewInput(b)
				cv := r.NewInput(cin)
				sum, carry := r.FullAdder(av, bv, cv)
				wantSum := a != b
				wantSum = wantSum != cin
				n := 0
				for _, v := range []bool{a, b, cin} {
					if v {
						n++
					}
				}
				wantCarry := n >= 2
				if sum.Val != wantSum {
					t.Errorf("sum(%v,%v,%v) = %v, want %v", a, b, cin, sum.Val, wantSum)
				}
				if carry.Val != wantCarry {
					t.Errorf("carry(%v,%v,%v) = %v, want %v", a, b, cin, carry.Val, wantCarry)
				}
			}
		}
	}
}

func TestGateStringRoundTrip(t *testing.T) {
	g := Gate{Type: GateMaj3, Output: 5, Inputs: []int{1, -2, 3}}
	parsed, err := ParseGate(g.String())
	if err != nil {
		t.Fatalf("ParseGate: %v", err)
	}
	if !reflect.DeepEqual(parsed, g) {
		t.Fatalf("round trip mismatch: got %+v want %+v", parsed, g)
	}
}

func TestAndGateCNF(t *testing.T) {
	g := Gate{Type: GateAnd, Output: 3, Inputs: []int{1, -2}}
	clauses := g.CNF()
	want := [][]int{{-3, 1}, {-3, -2}, {3, -1, 2}}
	if len(clauses) != len(want) {
		t.Fatalf("got %d clauses, want %d", len(clauses), len(want))
	}
	for i := range want {
		for j := range want[i] {
			if clauses[i][j] != want[i][j] {
				t.Fatalf("clause %d: got %v want %v", i, clauses[i], want[i])
			}
		}
	}
}
