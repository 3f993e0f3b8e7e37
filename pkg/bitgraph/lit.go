package bitgraph

// Lit is the scalar symbolic bit value (C1): either a constant {0,1} or a
// signed reference into a Registry's gate log. Val always carries the
// concrete truth value of the bit, whether it is known or symbolic — this
// lets a hash body run symbolically while still producing the real
// concrete output (needed to verify a solved preimage and to support
// concrete-only calls with no unknown bits at all).
type Lit struct {
	Val     bool
	Unknown bool
	Index   int // signed; meaningful only when Unknown
}

// Zero is the known-false constant.
func Zero() Lit { return Lit{Val: false} }

// One is the known-true constant.
func One() Lit { return Lit{Val: true} }

// Const wraps a known concrete boolean.
func Const(b bool) Lit { return Lit{Val: b} }

// sameSign reports whether a and b are the identical signed literal.
func sameSign(a, b Lit) bool {
	return a.Unknown && b.Unknown && a.Index == b.Index
}

// oppositeSign reports whether a and b are negations of the same variable.
func oppositeSign(a, b Lit) bool {
	return a.Unknown && b.Unknown && a.Index == -b.Index
}

// Abs returns the absolute value of a signed literal (its variable index).
func Abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
