package symvec

import (
	"testing"

	"github.com/oisee/preimage-dag/pkg/bitgraph"
)

func TestFromUint64AndIntVal(t *testing.T) {
	v := FromUint64(8, 0xA5)
	if v.IntVal() != 0xA5 {
		t.Fatalf("IntVal() = %#x, want 0xa5", v.IntVal())
	}
	if got := v.BinString(); got != "10100101" {
		t.Fatalf("BinString() = %q, want 10100101", got)
	}
}

func TestFromBytesBERoundTrip(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	v := FromBytesBE(data)
	if v.Width() != 32 {
		t.Fatalf("width = %d, want 32", v.Width())
	}
	out, err := v.BytesBE()
	if err != nil {
		t.Fatalf("BytesBE: %v", err)
	}
	for i := range data {
		if out[i] != data[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, out[i], data[i])
		}
	}
}

func TestExtractAndConcat(t *testing.T) {
	v := FromUint64(16, 0xBEEF)
	lo, err := v.Extract(0, 8)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	hi, err := v.Extract(8, 16)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if lo.IntVal() != 0xEF {
		t.Fatalf("lo = %#x, want 0xef", lo.IntVal())
	}
	if hi.IntVal() != 0xBE {
		t.Fatalf("hi = %#x, want 0xbe", hi.IntVal())
	}
	joined := lo.Concat(hi)
	if joined.IntVal() != 0xBEEF {
		t.Fatalf("joined = %#x, want 0xbeef", joined.IntVal())
	}
}

func TestExtractOutOfRange(t *testing.T) {
	v := FromUint64(8, 0)
	if _, err := v.Extract(4, 9); err == nil {
		t.Fatalf("expected error for out-of-range extract")
	}
}

func TestResizeTruncateAndExtend(t *testing.T) {
	v := FromUint64(8, 0xFF)
	trunc := v.Resize(4)
	if trunc.IntVal() != 0xF {
		t.Fatalf("truncated = %#x, want 0xf", trunc.IntVal())
	}
	ext := v.Resize(16)
	if ext.IntVal() != 0xFF {
		t.Fatalf("extended = %#x, want 0xff", ext.IntVal())
	}
	if ext.Width() != 16 {
		t.Fatalf("extended width = %d, want 16", ext.Width())
	}
}

func TestRotr(t *testing.T) {
	v := FromUint64(8, 0x01)
	r := v.Rotr(1)
	if r.IntVal() != 0x80 {
		t.Fatalf("rotr(1) of 0x01 = %#x, want 0x80", r.IntVal())
	}
	full := v.Rotr(8)
	if full.IntVal() != v.IntVal() {
		t.Fatalf("rotr(width) should be identity")
	}
}

func TestShlShr(t *testing.T) {
	v := FromUint64(8, 0x01)
	if got := v.Shl(4).IntVal(); got != 0x10 {
		t.Fatalf("shl(4) = %#x, want 0x10", got)
	}
	v2 := FromUint64(8, 0x80)
	if got := v2.Shr(4).IntVal(); got != 0x08 {
		t.Fatalf("shr(4) = %#x, want 0x08", got)
	}
	if got := v.Shl(8).IntVal(); got != 0 {
		t.Fatalf("shl(width) should drop all bits, got %#x", got)
	}
}

func TestWidthMismatchErrors(t *testing.T) {
	reg := bitgraph.NewRegistry()
	a := FromUint64(8, 1)
	b := FromUint64(4, 1)
	if _, err := a.And(reg, b); err == nil {
		t.Fatalf("expected width mismatch error from And")
	}
	if _, err := a.Add(reg, b); err == nil {
		t.Fatalf("expected width mismatch error from Add")
	}
}

func TestAddRippleCarryWraps(t *testing.T) {
	reg := bitgraph.NewRegistry()
	a := FromUint64(8, 0xFF)
	b := FromUint64(8, 0x01)
	sum, err := a.Add(reg, b)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if sum.IntVal() != 0 {
		t.Fatalf("0xFF + 0x01 (mod 256) = %#x, want 0", sum.IntVal())
	}
}

func TestBitwiseOpsConcrete(t *testing.T) {
	reg := bitgraph.NewRegistry()
	a := FromUint64(8, 0xF0)
	b := FromUint64(8, 0xFF)
	and, _ := a.And(reg, b)
	or, _ := a.Or(reg, b)
	xor, _ := a.Xor(reg, b)
	if and.IntVal() != 0xF0 {
		t.Fatalf("and = %#x, want 0xf0", and.IntVal())
	}
	if or.IntVal() != 0xFF {
		t.Fatalf("or = %#x, want 0xff", or.IntVal())
	}
	if xor.IntVal() != 0x0F {
		t.Fatalf("xor = %#x, want 0x0f", xor.IntVal())
	}
}

func TestMajority3AndXor3Concrete(t *testing.T) {
	reg := bitgraph.NewRegistry()
	a := FromUint64(4, 0b1100)
	b := FromUint64(4, 0b1010)
	c := FromUint64(4, 0b1001)
	maj, err := Majority3(reg, a, b, c)
	if err != nil {
		t.Fatalf("Majority3: %v", err)
	}
	// bitwise majority of 1100,1010,1001 = 1000
	if maj.IntVal() != 0b1000 {
		t.Fatalf("majority3 = %04b, want 1000", maj.IntVal())
	}
	xor3, err := Xor3(reg, a, b, c)
	if err != nil {
		t.Fatalf("Xor3: %v", err)
	}
	if xor3.IntVal() != 0b1111 {
		t.Fatalf("xor3 = %04b, want 1111", xor3.IntVal())
	}
}

func TestNewUnknownBitsAllocatesDistinctIndices(t *testing.T) {
	reg := bitgraph.NewRegistry()
	v := NewUnknownBits(reg, []bool{true, false, true})
	seen := map[int]bool{}
	for _, b := range v.Bits {
		if !b.Unknown {
			t.Fatalf("expected all bits unknown")
		}
		if seen[b.Index] {
			t.Fatalf("duplicate index %d", b.Index)
		}
		seen[b.Index] = true
	}
	if v.IntVal() != 0b101 {
		t.Fatalf("IntVal() = %b, want 101", v.IntVal())
	}
}
