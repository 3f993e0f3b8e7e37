package hashes

import (
	"github.com/oisee/preimage-dag/pkg/bitgraph"
	"github.com/oisee/preimage-dag/pkg/symvec"
)

var rmdR = [80]int{
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
	7, 4, 13, 1, 10, 6, 15, 3, 12, 0, 9, 5, 2, 14, 11, 8,
	3, 10, 14, 4, 9, 15, 8, 1, 2, 7, 0, 6, 13, 11, 5, 12,
	1, 9, 11, 10, 0, 8, 12, 4, 13, 3, 7, 15, 14, 5, 6, 2,
	4, 0, 5, 9, 7, 12, 2, 10, 14, 1, 3, 8, 11, 6, 15, 13,
}

var rmdRp = [80]int{
	5, 14, 7, 0, 9, 2, 11, 4, 13, 6, 15, 8, 1, 10, 3, 12,
	6, 11, 3, 7, 0, 13, 5, 10, 14, 15, 8, 12, 4, 9, 1, 2,
	15, 5, 1, 3, 7, 14, 6, 9, 11, 8, 12, 2, 10, 0, 4, 13,
	8, 6, 4, 1, 3, 11, 15, 0, 5, 12, 2, 13, 9, 7, 10, 14,
	12, 15, 10, 4, 1, 5, 8, 7, 6, 2, 13, 14, 0, 3, 9, 11,
}

var rmdS = [80]uint{
	11, 14, 15, 12, 5, 8, 7, 9, 11, 13, 14, 15, 6, 7, 9, 8,
	7, 6, 8, 13, 11, 9, 7, 15, 7, 12, 15, 9, 11, 7, 13, 12,
	11, 13, 6, 7, 14, 9, 13, 15, 14, 8, 13, 6, 5, 12, 7, 5,
	11, 12, 14, 15, 14, 15, 9, 8, 9, 14, 5, 6, 8, 6, 5, 12,
	9, 15, 5, 11, 6, 8, 13, 12, 5, 12, 13, 14, 11, 8, 5, 6,
}

var rmdSp = [80]uint{
	8, 9, 9, 11, 13, 15, 15, 5, 7, 7, 8, 11, 14, 14, 12, 6,
	9, 13, 15, 7, 12, 8, 9, 11, 7, 7, 12, 7, 6, 15, 13, 11,
	9, 7, 15, 11, 8, 6, 6, 14, 12, 13, 5, 14, 13, 13, 7, 5,
	15, 5, 8, 11, 14, 14, 6, 14, 6, 9, 12, 9, 12, 5, 15, 8,
	8, 5, 12, 9, 12, 5, 14, 6, 8, 13, 6, 5, 15, 13, 11, 11,
}

var rmdK = [5]uint32{0x00000000, 0x5a827999, 0x6ed9eba1, 0x8f1bbcdc, 0xa953fd4e}
var rmdKp = [5]uint32{0x50a28be6, 0x5c4dd124, 0x6d703ef3, 0x7a6d76e9, 0x00000000}

// RIPEMD160 is a single-block (message length <= 55 bytes) symbolic
// RIPEMD-160 body, parameterized by a shared round count for both parallel
// lines ("difficulty", spec.md §6/§8 scenario 5).
type RIPEMD160 struct {
	NumBytes int
}

func (h RIPEMD160) Name() string           { return "ripemd160" }
func (h RIPEMD160) NumInputBits() int      { return h.NumBytes * 8 }
func (h RIPEMD160) DefaultDifficulty() int { return 80 }

func rmdF(round int, x, y, z symvec.Vec, reg *bitgraph.Registry) (symvec.Vec, error) {
	switch round {
	case 0:
		xy, err := x.Xor(reg, y)
		if err != nil {
			return symvec.Vec{}, err
		}
		return xy.Xor(reg, z)
	case 1:
		xy, err := x.And(reg, y)
		if err != nil {
			return symvec.Vec{}, err
		}
		notXZ, err := x.Not(reg).And(reg, z)
		if err != nil {
			return symvec.Vec{}, err
		}
		return xy.Or(reg, notXZ)
	case 2:
		xOrNotY, err := x.Or(reg, y.Not(reg))
		if err != nil {
			return symvec.Vec{}, err
		}
		return xOrNotY.Xor(reg, z)
	case 3:
		xz, err := x.And(reg, z)
		if err != nil {
			return symvec.Vec{}, err
		}
		yNotZ, err := y.And(reg, z.Not(reg))
		if err != nil {
			return symvec.Vec{}, err
		}
		return xz.Or(reg, yNotZ)
	default:
		yOrNotZ, err := y.Or(reg, z.Not(reg))
		if err != nil {
			return symvec.Vec{}, err
		}
		return x.Xor(reg, yOrNotZ)
	}
}

// Apply computes the single-block RIPEMD-160 digest of input, running
// rounds/80 capped by difficulty on both parallel lines (a difficulty below
// 80 is a reduced-round variant, as with the other hash bodies here).
func (h RIPEMD160) Apply(reg *bitgraph.Registry, input symvec.Vec, difficulty int) (symvec.Vec, error) {
	if input.Width() != h.NumInputBits() {
		return symvec.Vec{}, &bitgraph.DomainError{Op: "hashes.RIPEMD160.Apply", Msg: "input width does not match NumInputBits"}
	}
	if h.NumBytes > 55 {
		return symvec.Vec{}, &bitgraph.DomainError{Op: "hashes.RIPEMD160.Apply", Msg: "message too long for a single 512-bit block (max 55 bytes)"}
	}
	if difficulty <= 0 || difficulty > 80 {
		difficulty = 80
	}

	msgBytes, err := input.BytesBE()
	if err != nil {
		return symvec.Vec{}, err
	}
	block := padSingleBlockLE(msgBytes)
	blockVec := symvec.FromBytesBE(block)

	x := make([]symvec.Vec, 16)
	for i := 0; i < 16; i++ {
		x[i] = byteSwap32(wordAt(blockVec, i))
	}

	h0 := symvec.FromUint64(32, 0x67452301)
	h1 := symvec.FromUint64(32, 0xefcdab89)
	h2 := symvec.FromUint64(32, 0x98badcfe)
	h3 := symvec.FromUint64(32, 0x10325476)
	h4 := symvec.FromUint64(32, 0xc3d2e1f0)

	a, b, c, d, e := h0, h1, h2, h3, h4
	ap, bp, cp, dp, ep := h0, h1, h2, h3, h4

	for i := 0; i < difficulty; i++ {
		round := i / 16
		f, err := rmdF(round, b, c, d, reg)
		if err != nil {
			return symvec.Vec{}, err
		}
		k := symvec.FromUint64(32, uint64(rmdK[round]))
		sum, err := addAll(reg, a, f, x[rmdR[i]], k)
		if err != nil {
			return symvec.Vec{}, err
		}
		t, err := sum.Rotr(32 - int(rmdS[i])).Add(reg, e)
		if err != nil {
			return symvec.Vec{}, err
		}
		a, e, d, c, b = e, d, c.Rotr(32-10), b, t

		fp, err := rmdF(4-round, bp, cp, dp, reg)
		if err != nil {
			return symvec.Vec{}, err
		}
		kp := symvec.FromUint64(32, uint64(rmdKp[round]))
		sump, err := addAll(reg, ap, fp, x[rmdRp[i]], kp)
		if err != nil {
			return symvec.Vec{}, err
		}
		tp, err := sump.Rotr(32 - int(rmdSp[i])).Add(reg, ep)
		if err != nil {
			return symvec.Vec{}, err
		}
		ap, ep, dp, cp, bp = ep, dp, cp.Rotr(32-10), bp, tp
	}

	t, err := addAll(reg, h1, c, dp)
	if err != nil {
		return symvec.Vec{}, err
	}
	newH1, err := addAll(reg, h2, d, ep)
	if err != nil {
		return symvec.Vec{}, err
	}
	newH2, err := addAll(reg, h3, e, ap)
	if err != nil {
		return symvec.Vec{}, err
	}
	newH3, err := addAll(reg, h4, a, bp)
	if err != nil {
		return symvec.Vec{}, err
	}
	newH4, err := addAll(reg, h0, b, cp)
	if err != nil {
		return symvec.Vec{}, err
	}
	newH0 := t

	digest := byteSwap32(newH4)
	digest = digest.Concat(byteSwap32(newH3))
	digest = digest.Concat(byteSwap32(newH2))
	digest = digest.Concat(byteSwap32(newH1))
	digest = digest.Concat(byteSwap32(newH0))
	return digest, nil
}
