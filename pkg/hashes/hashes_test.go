package hashes

import (
	"testing"

	"github.com/oisee/preimage-dag/pkg/symhash"
)

func hexDigest(t *testing.T, h symhash.Hash, input []bool, difficulty int) string {
	t.Helper()
	out, err := symhash.Run(h, input, difficulty)
	if err != nil {
		t.Fatalf("Run(%s): %v", h.Name(), err)
	}
	b, err := out.BytesBE()
	if err != nil {
		t.Fatalf("BytesBE: %v", err)
	}
	const hexdigits = "0123456789abcdef"
	buf := make([]byte, len(b)*2)
	for i, v := range b {
		buf[2*i] = hexdigits[v>>4]
		buf[2*i+1] = hexdigits[v&0xf]
	}
	return string(buf)
}

func TestSHA256EmptyMessage(t *testing.T) {
	h := SHA256{NumBytes: 0}
	got := hexDigest(t, h, nil, h.DefaultDifficulty())
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got != want {
		t.Fatalf("sha256(\"\") = %s, want %s", got, want)
	}
}

func TestMD5EmptyMessage(t *testing.T) {
	h := MD5{NumBytes: 0}
	got := hexDigest(t, h, nil, h.DefaultDifficulty())
	want := "d41d8cd98f00b204e9800998ecf8427e"
	if got != want {
		t.Fatalf("md5(\"\") = %s, want %s", got, want)
	}
}

func TestSameIOIsIdentity(t *testing.T) {
	h := SameIO{NumBits: 8}
	input := []bool{true, false, true, true, false, false, true, false}
	out, err := symhash.Run(h, input, h.DefaultDifficulty())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, b := range input {
		if out.Bits[i].Val != b {
			t.Fatalf("bit %d = %v, want %v", i, out.Bits[i].Val, b)
		}
	}
}

func TestNotComplementsEveryBit(t *testing.T) {
	h := Not{NumBits: 8}
	input := []bool{true, false, true, true, false, false, true, false}
	out, err := symhash.Run(h, input, h.DefaultDifficulty())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, b := range input {
		if out.Bits[i].Val == b {
			t.Fatalf("bit %d unchanged, want complemented", i)
		}
	}
}

func TestLossyPseudoPreservesWidth(t *testing.T) {
	h := LossyPseudo{NumBits: 16}
	input := make([]bool, 16)
	out, err := symhash.Run(h, input, 2)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Width() != 16 {
		t.Fatalf("width = %d, want 16 (quarter-split/reassemble never changes width)", out.Width())
	}
}

func TestLossyPseudoRejectsWidthNotMultipleOfFour(t *testing.T) {
	h := LossyPseudo{NumBits: 6}
	if _, err := symhash.Run(h, make([]bool, 6), h.DefaultDifficulty()); err == nil {
		t.Fatalf("expected a DomainError for a width not divisible into quarters")
	}
}

// TestLossyPseudoAndNonLossyPseudoDiffer hand-verifies one round against the
// all-zero 4-bit input: LossyPseudo's extra a=a|b; b=b&c; c=c^d mixing step
// changes the result relative to NonLossyPseudo, which skips it.
func TestLossyPseudoAndNonLossyPseudoDiffer(t *testing.T) {
	input := make([]bool, 4)

	lossy := LossyPseudo{NumBits: 4}
	lossyOut, err := symhash.Run(lossy, input, 1)
	if err != nil {
		t.Fatalf("Run(lossy): %v", err)
	}
	wantLossy := []bool{true, true, true, true}
	for i, b := range wantLossy {
		if lossyOut.Bits[i].Val != b {
			t.Fatalf("lossy bit %d = %v, want %v (full trace: %v)", i, lossyOut.Bits[i].Val, b, wantLossy)
		}
	}

	nonLossy := NonLossyPseudo{NumBits: 4}
	nonLossyOut, err := symhash.Run(nonLossy, input, 1)
	if err != nil {
		t.Fatalf("Run(non-lossy): %v", err)
	}
	wantNonLossy := []bool{false, true, true, true}
	for i, b := range wantNonLossy {
		if nonLossyOut.Bits[i].Val != b {
			t.Fatalf("non-lossy bit %d = %v, want %v (full trace: %v)", i, nonLossyOut.Bits[i].Val, b, wantNonLossy)
		}
	}
}

func TestNonLossyPseudoPreservesWidth(t *testing.T) {
	h := NonLossyPseudo{NumBits: 16}
	input := make([]bool, 16)
	input[0] = true
	out, err := symhash.Run(h, input, h.DefaultDifficulty())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Width() != 16 {
		t.Fatalf("width = %d, want 16", out.Width())
	}
}

func TestNonLossyPseudoIsDeterministic(t *testing.T) {
	h := NonLossyPseudo{NumBits: 16}
	input := []bool{true, false, true, false, true, true, false, false, true, true, true, false, false, false, true, false}
	a := hexDigest(t, h, input, h.DefaultDifficulty())
	b := hexDigest(t, h, input, h.DefaultDifficulty())
	if a != b {
		t.Fatalf("non-deterministic output: %s vs %s", a, b)
	}
}
