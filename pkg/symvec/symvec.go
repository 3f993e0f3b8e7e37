// Package symvec implements the symbolic bit-vector (C4): a fixed-width
// sequence of bitgraph.Lit values, least-significant bit first, with the
// arithmetic and logical operators a hash body is written in terms of.
package symvec

import (
	"fmt"
	"strings"

	"github.com/oisee/preimage-dag/pkg/bitgraph"
)

// Vec is an immutable fixed-width bit-vector. Bits[0] is the least
// significant bit, matching sym_bit_vec.cpp's layout.
type Vec struct {
	Bits []bitgraph.Lit
}

// domainErrorf builds a *bitgraph.DomainError tagged with this package's op.
func domainErrorf(op, format string, args ...any) error {
	return &bitgraph.DomainError{Op: "symvec." + op, Msg: fmt.Sprintf(format, args...)}
}

// Width returns the number of bits in v.
func (v Vec) Width() int { return len(v.Bits) }

// FromBits wraps an existing LSB-first slice of literals.
func FromBits(bits []bitgraph.Lit) Vec {
	return Vec{Bits: bits}
}

// FromUint64 builds a width-bit constant vector from an unsigned integer,
// truncating any bits above width.
func FromUint64(width int, val uint64) Vec {
	bits := make([]bitgraph.Lit, width)
	for i := 0; i < width; i++ {
		bits[i] = bitgraph.Const((val>>uint(i))&1 == 1)
	}
	return Vec{Bits: bits}
}

// FromBytesBE builds a vector from a big-endian byte slice: data[0] becomes
// the most significant 8 bits. This mirrors how sym_sha256.cpp assembles its
// digest words before concatenation.
func FromBytesBE(data []byte) Vec {
	bits := make([]bitgraph.Lit, 0, len(data)*8)
	for i := len(data) - 1; i >= 0; i-- {
		b := data[i]
		for j := 0; j < 8; j++ {
			bits = append(bits, bitgraph.Const((b>>uint(j))&1 == 1))
		}
	}
	return Vec{Bits: bits}
}

// NewUnknown allocates width fresh, individually unknown input bits, LSB
// first, seeded from val's bits (C5 step 2 — building the symbolic input).
func NewUnknown(reg *bitgraph.Registry, width int, val uint64) Vec {
	bits := make([]bitgraph.Lit, width)
	for i := 0; i < width; i++ {
		bits[i] = reg.NewInput((val>>uint(i))&1 == 1)
	}
	return Vec{Bits: bits}
}

// NewUnknownBits allocates one fresh unknown input bit per entry of vals,
// LSB first (vals[0] becomes bit 0). Used for inputs wider than 64 bits.
func NewUnknownBits(reg *bitgraph.Registry, vals []bool) Vec {
	bits := make([]bitgraph.Lit, len(vals))
	for i, val := range vals {
		bits[i] = reg.NewInput(val)
	}
	return Vec{Bits: bits}
}

// IntVal returns the concrete unsigned value of v, truncated to 64 bits.
// Every Lit carries its concrete value regardless of whether it is
// symbolic, so this is always well defined.
func (v Vec) IntVal() uint64 {
	var out uint64
	for i, b := range v.Bits {
		if i >= 64 {
			break
		}
		if b.Val {
			out |= 1 << uint(i)
		}
	}
	return out
}

// BytesBE returns the concrete value of v as big-endian bytes, most
// significant bit of v in the top bit of the first byte. Width must be a
// multiple of 8.
func (v Vec) BytesBE() ([]byte, error) {
	if v.Width()%8 != 0 {
		return nil, domainErrorf("BytesBE", "width %d is not a multiple of 8", v.Width())
	}
	n := v.Width() / 8
	out := make([]byte, n)
	for i, b := range v.Bits {
		if b.Val {
			byteIdx := n - 1 - i/8
			out[byteIdx] |= 1 << uint(i%8)
		}
	}
	return out, nil
}

// BinString renders the concrete value MSB-first.
func (v Vec) BinString() string {
	var sb strings.Builder
	for i := v.Width() - 1; i >= 0; i-- {
		if v.Bits[i].Val {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Extract returns the half-open sub-range [lo, hi) of bits.
func (v Vec) Extract(lo, hi int) (Vec, error) {
	if lo < 0 || hi > v.Width() || lo > hi {
		return Vec{}, domainErrorf("Extract", "invalid range [%d,%d) for width %d", lo, hi, v.Width())
	}
	out := make([]bitgraph.Lit, hi-lo)
	copy(out, v.Bits[lo:hi])
	return Vec{Bits: out}, nil
}

// Concat appends other's bits above v's — v occupies the low bits, other
// the high bits, matching sym_bit_vec.cpp's concat semantics.
func (v Vec) Concat(other Vec) Vec {
	out := make([]bitgraph.Lit, 0, v.Width()+other.Width())
	out = append(out, v.Bits...)
	out = append(out, other.Bits...)
	return Vec{Bits: out}
}

// Resize truncates v to n bits or zero-extends it, never changing the
// meaning of bits that survive.
func (v Vec) Resize(n int) Vec {
	if n <= v.Width() {
		out := make([]bitgraph.Lit, n)
		copy(out, v.Bits[:n])
		return Vec{Bits: out}
	}
	out := make([]bitgraph.Lit, n)
	copy(out, v.Bits)
	for i := v.Width(); i < n; i++ {
		out[i] = bitgraph.Zero()
	}
	return Vec{Bits: out}
}

// Rotr rotates v right by n bits (modulo width).
func (v Vec) Rotr(n int) Vec {
	w := v.Width()
	if w == 0 {
		return v
	}
	n = ((n % w) + w) % w
	if n == 0 {
		out := make([]bitgraph.Lit, w)
		copy(out, v.Bits)
		return Vec{Bits: out}
	}
	out := make([]bitgraph.Lit, w)
	for i := 0; i < w; i++ {
		out[i] = v.Bits[(i+n)%w]
	}
	return Vec{Bits: out}
}

// Shl shifts v left by n bits: the low n bits become zero, the top n bits
// are dropped, width is unchanged.
func (v Vec) Shl(n int) Vec {
	w := v.Width()
	out := make([]bitgraph.Lit, w)
	for i := 0; i < w; i++ {
		if i < n {
			out[i] = bitgraph.Zero()
		} else {
			out[i] = v.Bits[i-n]
		}
	}
	return Vec{Bits: out}
}

// Shr shifts v right by n bits: the high n bits become zero, the bottom n
// bits are dropped, width is unchanged.
func (v Vec) Shr(n int) Vec {
	w := v.Width()
	out := make([]bitgraph.Lit, w)
	for i := 0; i < w; i++ {
		if i+n < w {
			out[i] = v.Bits[i+n]
		} else {
			out[i] = bitgraph.Zero()
		}
	}
	return Vec{Bits: out}
}

func sameWidth(op string, a, b Vec) error {
	if a.Width() != b.Width() {
		return domainErrorf(op, "width mismatch: %d vs %d", a.Width(), b.Width())
	}
	return nil
}

// Not complements every bit of v.
func (v Vec) Not(reg *bitgraph.Registry) Vec {
	out := make([]bitgraph.Lit, v.Width())
	for i, b := range v.Bits {
		out[i] = reg.Not(b)
	}
	return Vec{Bits: out}
}

// And computes the elementwise AND of v and other. Both must share width.
func (v Vec) And(reg *bitgraph.Registry, other Vec) (Vec, error) {
	if err := sameWidth("And", v, other); err != nil {
		return Vec{}, err
	}
	out := make([]bitgraph.Lit, v.Width())
	for i := range out {
		out[i] = reg.And(v.Bits[i], other.Bits[i])
	}
	return Vec{Bits: out}, nil
}

// Or computes the elementwise OR of v and other.
func (v Vec) Or(reg *bitgraph.Registry, other Vec) (Vec, error) {
	if err := sameWidth("Or", v, other); err != nil {
		return Vec{}, err
	}
	out := make([]bitgraph.Lit, v.Width())
	for i := range out {
		out[i] = reg.Or(v.Bits[i], other.Bits[i])
	}
	return Vec{Bits: out}, nil
}

// Xor computes the elementwise XOR of v and other.
func (v Vec) Xor(reg *bitgraph.Registry, other Vec) (Vec, error) {
	if err := sameWidth("Xor", v, other); err != nil {
		return Vec{}, err
	}
	out := make([]bitgraph.Lit, v.Width())
	for i := range out {
		out[i] = reg.Xor(v.Bits[i], other.Bits[i])
	}
	return Vec{Bits: out}, nil
}

// Add computes v + other via ripple-carry full adders, dropping any
// overflow beyond the shared width (matches unsigned wraparound).
func (v Vec) Add(reg *bitgraph.Registry, other Vec) (Vec, error) {
	if err := sameWidth("Add", v, other); err != nil {
		return Vec{}, err
	}
	out := make([]bitgraph.Lit, v.Width())
	carry := bitgraph.Zero()
	for i := range out {
		out[i], carry = reg.FullAdder(v.Bits[i], other.Bits[i], carry)
	}
	return Vec{Bits: out}, nil
}

// Majority3 computes the elementwise majority of three equal-width vectors.
func Majority3(reg *bitgraph.Registry, a, b, c Vec) (Vec, error) {
	if err := sameWidth("Majority3", a, b); err != nil {
		return Vec{}, err
	}
	if err := sameWidth("Majority3", a, c); err != nil {
		return Vec{}, err
	}
	out := make([]bitgraph.Lit, a.Width())
	for i := range out {
		out[i] = reg.Maj3(a.Bits[i], b.Bits[i], c.Bits[i])
	}
	return Vec{Bits: out}, nil
}

// Xor3 computes the elementwise XOR of three equal-width vectors.
func Xor3(reg *bitgraph.Registry, a, b, c Vec) (Vec, error) {
	if err := sameWidth("Xor3", a, b); err != nil {
		return Vec{}, err
	}
	if err := sameWidth("Xor3", a, c); err != nil {
		return Vec{}, err
	}
	out := make([]bitgraph.Lit, a.Width())
	for i := range out {
		out[i] = reg.Xor3(a.Bits[i], b.Bits[i], c.Bits[i])
	}
	return Vec{Bits: out}, nil
}
