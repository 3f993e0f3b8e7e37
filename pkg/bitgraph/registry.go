package bitgraph

// Registry is the gate log for one symbolic run (C3): a monotonically
// increasing 1-based counter plus an append-only sequence of gates in
// construction order. Spec.md models this as thread-local global state;
// here it is an explicit instance threaded through a symbolic run instead,
// which the spec permits ("any equivalent construct is acceptable so long
// as the uniqueness-within-run invariant holds and concurrent runs do not
// interleave") and which lets callers run many symbolic executions
// concurrently, one Registry per goroutine, with no shared mutable state.
type Registry struct {
	nextIndex    int
	gates        []Gate
	OnlyAndGates bool
}

// NewRegistry returns a Registry ready for a fresh symbolic run.
func NewRegistry() *Registry {
	return &Registry{nextIndex: 1}
}

// Reset clears the registry for reuse, equivalent to starting a new run.
func (r *Registry) Reset() {
	r.nextIndex = 1
	r.gates = nil
}

// Gates returns the gate log in emission order.
func (r *Registry) Gates() []Gate { return r.gates }

// NumGates returns the number of gates emitted so far.
func (r *Registry) NumGates() int { return len(r.gates) }

// NewInput allocates a fresh unknown variable with no gate, used to build
// the symbolic input vector (C5 step 2). val is the concrete bit this
// input actually holds, carried alongside the symbolic index.
func (r *Registry) NewInput(val bool) Lit {
	idx := r.nextIndex
	r.nextIndex++
	return Lit{Val: val, Unknown: true, Index: idx}
}

func (r *Registry) emit(t GateType, val bool, inputs ...int) Lit {
	idx := r.nextIndex
	r.nextIndex++
	r.gates = append(r.gates, Gate{Type: t, Output: idx, Inputs: inputs})
	return Lit{Val: val, Unknown: true, Index: idx}
}

// Not negates a literal. Free: it flips the sign of an existing index
// without allocating a new variable or gate.
func (r *Registry) Not(a Lit) Lit {
	if a.Unknown {
		return Lit{Val: !a.Val, Unknown: true, Index: -a.Index}
	}
	return Const(!a.Val)
}

// And implements a AND b with constant-folding and identity absorption (§4.1).
func (r *Registry) And(a, b Lit) Lit {
	if !a.Unknown && !a.Val {
		return Zero()
	}
	if !b.Unknown && !b.Val {
		return Zero()
	}
	if a.Unknown && b.Unknown {
		if sameSign(a, b) {
			return a
		}
		if oppositeSign(a, b) {
			return Zero()
		}
		return r.emit(GateAnd, a.Val && b.Val, a.Index, b.Index)
	} else if a.Unknown {
		return a // b is the constant 1
	} else if b.Unknown {
		return b // a is the constant 1
	}
	return Const(a.Val && b.Val)
}

// Or implements a OR b.
func (r *Registry) Or(a, b Lit) Lit {
	if !a.Unknown && a.Val {
		return One()
	}
	if !b.Unknown && b.Val {
		return One()
	}
	if a.Unknown && b.Unknown {
		if sameSign(a, b) {
			return a
		}
		if oppositeSign(a, b) {
			return One()
		}
		if r.OnlyAndGates {
			return r.Not(r.And(r.Not(a), r.Not(b)))
		}
		return r.emit(GateOr, a.Val || b.Val, a.Index, b.Index)
	} else if a.Unknown {
		return a // b is the constant 0
	} else if b.Unknown {
		return b // a is the constant 0
	}
	return Const(a.Val || b.Val)
}

// Xor implements a XOR b.
func (r *Registry) Xor(a, b Lit) Lit {
	if a.Unknown && b.Unknown {
		if sameSign(a, b) {
			return Zero()
		}
		if oppositeSign(a, b) {
			return One()
		}
		if r.OnlyAndGates {
			tmp1 := r.Not(r.And(a, b))
			tmp2 := r.Not(r.And(a, tmp1))
			tmp3 := r.Not(r.And(b, tmp1))
			return r.Not(r.And(tmp2, tmp3))
		}
		return r.emit(GateXor, a.Val != b.Val, a.Index, b.Index)
	} else if a.Unknown {
		if !b.Val {
			return a
		}
		return r.Not(a)
	} else if b.Unknown {
		if !a.Val {
			return b
		}
		return r.Not(b)
	}
	return Const(a.Val != b.Val)
}

// classify3 splits three literals into their known concrete values and
// their still-unknown members, in argument order — mirrors the original
// C++ Bit::majority3/xor3 case analysis (known.size() == 0/1/2/3).
func classify3(a, b, c Lit) (knowns []bool, unknowns []Lit) {
	for _, l := range [...]Lit{a, b, c} {
		if l.Unknown {
			unknowns = append(unknowns, l)
		} else {
			knowns = append(knowns, l.Val)
		}
	}
	return
}

// Xor3 implements a XOR b XOR c elementwise (used to build ripple-carry sums).
func (r *Registry) Xor3(a, b, c Lit) Lit {
	val := a.Val != b.Val
	val = val != c.Val

	knowns, unknowns := classify3(a, b, c)
	switch len(knowns) {
	case 0:
		if sameSign(a, b) {
			return c
		}
		if sameSign(a, c) {
			return b
		}
		if sameSign(b, c) {
			return a
		}
		if oppositeSign(a, b) {
			return r.Not(c)
		}
		if oppositeSign(a, c) {
			return r.Not(b)
		}
		if oppositeSign(b, c) {
			return r.Not(a)
		}
		if r.OnlyAndGates {
			return r.Xor(r.Xor(a, b), c)
		}
		return r.emit(GateXor3, val, a.Index, b.Index, c.Index)
	case 1:
		if !knowns[0] {
			return r.Xor(unknowns[0], unknowns[1])
		}
		return r.Not(r.Xor(unknowns[0], unknowns[1]))
	case 2:
		return r.Xor(unknowns[0], Const(knowns[0] != knowns[1]))
	default:
		return Const(val)
	}
}

// Maj3 implements the elementwise majority-of-three function (used as the
// ripple-carry output carry).
func (r *Registry) Maj3(a, b, c Lit) Lit {
	sum := 0
	if a.Val {
		sum++
	}
	if b.Val {
		sum++
	}
	if c.Val {
		sum++
	}
	val := sum > 1

	knowns, unknowns := classify3(a, b, c)
	switch len(knowns) {
	case 0:
		if sameSign(a, b) {
			return a
		}
		if sameSign(a, c) {
			return a
		}
		if sameSign(b, c) {
			return b
		}
		if oppositeSign(a, b) {
			return c
		}
		if oppositeSign(a, c) {
			return b
		}
		if oppositeSign(b, c) {
			return a
		}
		if r.OnlyAndGates {
			ab := r.Not(r.And(r.Not(a), r.Not(b)))
			ac := r.Not(r.And(r.Not(a), r.Not(c)))
			bc := r.Not(r.And(r.Not(b), r.Not(c)))
			return r.And(r.And(ab, ac), bc)
		}
		return r.emit(GateMaj3, val, a.Index, b.Index, c.Index)
	case 1:
		if !knowns[0] {
			// 0 0 0=0, 0 0 1=0, 0 1 0=0, 0 1 1=1 --> AND
			return r.And(unknowns[0], unknowns[1])
		}
		// 1 0 0=0, 1 0 1=1, 1 1 0=1, 1 1 1=1 --> OR
		return r.Or(unknowns[0], unknowns[1])
	case 2:
		if knowns[0] == knowns[1] {
			return Const(knowns[0])
		}
		return unknowns[0] // Maj3(0, 1, x) = x
	default:
		return Const(val)
	}
}

// HalfAdder returns sum, carry for a + b with no carry-in.
func (r *Registry) HalfAdder(a, b Lit) (sum, carry Lit) {
	return r.FullAdder(a, b, Zero())
}

// FullAdder returns sum, carry for a + b + carryIn. Composed from xor3/
// majority3 — never open-coded with five separate gates (§4.1).
func (r *Registry) FullAdder(a, b, carryIn Lit) (sum, carry Lit) {
	sum = r.Xor3(a, b, carryIn)
	carry = r.Maj3(a, b, carryIn)
	return
}
