package hashes

import (
	"github.com/oisee/preimage-dag/pkg/bitgraph"
	"github.com/oisee/preimage-dag/pkg/symvec"
)

// SameIO is the identity function: output equals input bit-for-bit. Useful
// for smoke-testing the solver pipeline end-to-end without paying any real
// hash's gate cost — every preimage search against it should trivially
// succeed.
type SameIO struct {
	NumBits int
}

func (h SameIO) Name() string           { return "same_io" }
func (h SameIO) NumInputBits() int      { return h.NumBits }
func (h SameIO) DefaultDifficulty() int { return 1 }
func (h SameIO) Apply(reg *bitgraph.Registry, input symvec.Vec, difficulty int) (symvec.Vec, error) {
	return input, nil
}

// Not complements every input bit. Like SameIO, a reversible permutation:
// every target is solvable.
type Not struct {
	NumBits int
}

func (h Not) Name() string           { return "not" }
func (h Not) NumInputBits() int      { return h.NumBits }
func (h Not) DefaultDifficulty() int { return 1 }
func (h Not) Apply(reg *bitgraph.Registry, input symvec.Vec, difficulty int) (symvec.Vec, error) {
	return input.Not(reg), nil
}

// quarterConstants returns the four fixed mixing constants hash_funcs.cpp
// XORs into each quarter, truncated to width bits.
func quarterConstants(width int) [4]symvec.Vec {
	raw := [4]uint64{
		0xDEADBEEF12345678,
		0xFADBADB00BEAD321,
		0x1123579A00423CDF,
		0x0987654321FEDCBA,
	}
	var out [4]symvec.Vec
	for i, v := range raw {
		out[i] = symvec.FromUint64(width, v)
	}
	return out
}

// splitQuarters validates that width divides evenly into four quarters
// narrow enough to mask with a uint64, mirroring the n4 = n/4 bookkeeping
// hash_funcs.cpp relies on throughout LossyPseudoHash/NonLossyPseudoHash.
func splitQuarters(op string, width int) (n4 int, err error) {
	if width%4 != 0 {
		return 0, &bitgraph.DomainError{Op: op, Msg: "width must be a multiple of 4 to split into quarters"}
	}
	n4 = width / 4
	if n4 >= 64 {
		return 0, &bitgraph.DomainError{Op: op, Msg: "quarter width too large to mask"}
	}
	return n4, nil
}

// pseudoQuarterMix runs one hash_funcs.cpp LossyPseudoHash/NonLossyPseudoHash
// round: split h into four n4-bit-masked quarters (each XORed against a
// fixed constant), optionally fold them through the lossy a=a|b; b=b&c;
// c=c^d mix (each using the pre-mix values of a,b,c,d), then reassemble via
// a | (b<<n4) | (c<<2n4) | (d<<3n4).
func pseudoQuarterMix(reg *bitgraph.Registry, h symvec.Vec, n4 int, lossy bool) (symvec.Vec, error) {
	consts := quarterConstants(h.Width())
	mask := symvec.FromUint64(h.Width(), (uint64(1)<<uint(n4))-1)

	var q [4]symvec.Vec
	for i := 0; i < 4; i++ {
		shifted := h.Shr(n4 * i)
		masked, err := shifted.And(reg, mask)
		if err != nil {
			return symvec.Vec{}, err
		}
		mixed, err := masked.Xor(reg, consts[i])
		if err != nil {
			return symvec.Vec{}, err
		}
		q[i] = mixed
	}
	a, b, c, d := q[0], q[1], q[2], q[3]

	if lossy {
		na, err := a.Or(reg, b)
		if err != nil {
			return symvec.Vec{}, err
		}
		nb, err := b.And(reg, c)
		if err != nil {
			return symvec.Vec{}, err
		}
		nc, err := c.Xor(reg, d)
		if err != nil {
			return symvec.Vec{}, err
		}
		a, b, c = na, nb, nc
	}

	out := a
	shiftedB := b.Shl(n4)
	out, err := out.Or(reg, shiftedB)
	if err != nil {
		return symvec.Vec{}, err
	}
	shiftedC := c.Shl(2 * n4)
	out, err = out.Or(reg, shiftedC)
	if err != nil {
		return symvec.Vec{}, err
	}
	shiftedD := d.Shl(3 * n4)
	out, err = out.Or(reg, shiftedD)
	if err != nil {
		return symvec.Vec{}, err
	}
	return out, nil
}

// LossyPseudo mirrors hash_funcs.cpp's LossyPseudoHash: split the vector
// into four n/4-bit quarters, XOR each against a fixed constant, fold them
// through a=a|b; b=b&c; c=c^d (the OR and AND steps destroy information),
// then reassemble. Repeated per difficulty round. Irreversible by
// construction, so it is used to exercise the solver's UNSAT path against
// an unreachable target.
type LossyPseudo struct {
	NumBits int
}

func (h LossyPseudo) Name() string           { return "lossy_pseudo" }
func (h LossyPseudo) NumInputBits() int      { return h.NumBits }
func (h LossyPseudo) DefaultDifficulty() int { return 3 }

func (h LossyPseudo) Apply(reg *bitgraph.Registry, input symvec.Vec, difficulty int) (symvec.Vec, error) {
	n4, err := splitQuarters("hashes.LossyPseudo", input.Width())
	if err != nil {
		return symvec.Vec{}, err
	}
	cur := input
	for round := 0; round < difficulty; round++ {
		cur, err = pseudoQuarterMix(reg, cur, n4, true)
		if err != nil {
			return symvec.Vec{}, err
		}
	}
	return cur, nil
}

// NonLossyPseudo mirrors hash_funcs.cpp's NonLossyPseudoHash: the same
// quarter-split, constant-XOR and reassembly as LossyPseudo, but without
// the a=a|b; b=b&c; c=c^d mixing step. Named for the step it omits, not for
// any proven bijectivity — the per-quarter constant-XOR is its own inverse,
// but reassembly ORs four full-width, independently shifted vectors
// together, so overlapping set bits can still collide. Used alongside
// LossyPseudo for contrast, not as a guaranteed-solvable target.
type NonLossyPseudo struct {
	NumBits int
}

func (h NonLossyPseudo) Name() string           { return "non_lossy_pseudo" }
func (h NonLossyPseudo) NumInputBits() int      { return h.NumBits }
func (h NonLossyPseudo) DefaultDifficulty() int { return 3 }

func (h NonLossyPseudo) Apply(reg *bitgraph.Registry, input symvec.Vec, difficulty int) (symvec.Vec, error) {
	n4, err := splitQuarters("hashes.NonLossyPseudo", input.Width())
	if err != nil {
		return symvec.Vec{}, err
	}
	cur := input
	for round := 0; round < difficulty; round++ {
		cur, err = pseudoQuarterMix(reg, cur, n4, false)
		if err != nil {
			return symvec.Vec{}, err
		}
	}
	return cur, nil
}
