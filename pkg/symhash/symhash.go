// Package symhash drives one symbolic execution of a hash body (C5): it
// resets a fresh gate registry, builds the unknown input vector, runs the
// hash, and records the signed input/output indices that circuit.New prunes
// and reindexes into an immutable representation.
package symhash

import (
	"github.com/oisee/preimage-dag/pkg/bitgraph"
	"github.com/oisee/preimage-dag/pkg/symvec"
)

// Hash is a hash function expressed purely in terms of symvec/bitgraph
// operations, so it can run either concretely (all input bits known) or
// symbolically (input bits unknown) with no code change — the same
// property sym_sha256.cpp's SymHash subclasses rely on.
type Hash interface {
	// Name identifies the hash for CLI/reporting purposes.
	Name() string
	// NumInputBits is the width of the input this hash body expects.
	NumInputBits() int
	// DefaultDifficulty is the round count used when the caller does not
	// override it (§6 "difficulty" parameter — e.g. reduced-round attacks).
	DefaultDifficulty() int
	// Apply computes the digest of input at the given difficulty (round
	// count), against reg.
	Apply(reg *bitgraph.Registry, input symvec.Vec, difficulty int) (symvec.Vec, error)
}

// Run is a convenience path for a concrete (non-symbolic) evaluation: every
// input bit is a known constant, so the registry never allocates a gate.
func Run(h Hash, inputVal []bool, difficulty int) (symvec.Vec, error) {
	reg := bitgraph.NewRegistry()
	input := symvec.FromBits(constBits(inputVal))
	return h.Apply(reg, input, difficulty)
}

func constBits(vals []bool) []bitgraph.Lit {
	out := make([]bitgraph.Lit, len(vals))
	for i, v := range vals {
		out[i] = bitgraph.Const(v)
	}
	return out
}

// Result is the raw output of a symbolic run: the registry's full gate log
// plus the signed index each input/output bit resolved to (0 meaning the
// bit was constant-folded away entirely — §3's "absent" sentinel).
type Result struct {
	Registry      *bitgraph.Registry
	InputIndices  []int
	OutputIndices []int
	// OutputBits is the concrete digest value this run actually produced,
	// LSB first — every Lit carries its real value alongside its symbolic
	// index, so this is available even though the run is symbolic.
	OutputBits []bool
}

// RunSymbolic resets reg, allocates one fresh unknown input bit per entry of
// seedVals (its concrete value, used so the caller can later verify a
// solved preimage against the real hash output), runs h, and records the
// signed input/output indices (C5 steps 1-3).
func RunSymbolic(reg *bitgraph.Registry, h Hash, seedVals []bool, difficulty int) (Result, error) {
	reg.Reset()
	input := symvec.NewUnknownBits(reg, seedVals)
	inputIndices := signedIndices(input)

	output, err := h.Apply(reg, input, difficulty)
	if err != nil {
		return Result{}, err
	}
	outputIndices := signedIndices(output)
	outputBits := make([]bool, output.Width())
	for i, b := range output.Bits {
		outputBits[i] = b.Val
	}

	return Result{
		Registry:      reg,
		InputIndices:  inputIndices,
		OutputIndices: outputIndices,
		OutputBits:    outputBits,
	}, nil
}

// signedIndices maps each bit of v to its signed registry index, or 0 if
// the bit was constant-folded away (never allocated a variable).
func signedIndices(v symvec.Vec) []int {
	out := make([]int, v.Width())
	for i, b := range v.Bits {
		if !b.Unknown {
			out[i] = 0
			continue
		}
		out[i] = b.Index
	}
	return out
}
