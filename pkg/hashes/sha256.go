package hashes

import (
	"github.com/oisee/preimage-dag/pkg/bitgraph"
	"github.com/oisee/preimage-dag/pkg/symvec"
)

// sha256IV are the eight standard initial hash words.
var sha256IV = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

// sha256K are the 64 round constants (first 32 bits of the fractional parts
// of the cube roots of the first 64 primes).
var sha256K = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

// SHA256 is a single-block (message length <= 55 bytes) symbolic SHA-256
// body, parameterized by round count ("difficulty" — spec.md's reduced-
// round attack lever, §6/§8 scenario 5). Multi-block streaming is a
// spec.md Non-goal; callers needing longer messages supply a NumBytes that
// still fits in one 512-bit padded block.
type SHA256 struct {
	// NumBytes is the message length in bytes; NumInputBits() ==
	// NumBytes*8. Must be <= 55 so padding fits a single block.
	NumBytes int
}

func (h SHA256) Name() string          { return "sha256" }
func (h SHA256) NumInputBits() int     { return h.NumBytes * 8 }
func (h SHA256) DefaultDifficulty() int { return 64 }

// Apply computes the single-block SHA-256 digest of input at the given
// round count (capped at 64), following sym_sha256.cpp's transform/digest
// sequence: byte-pad the message, run the compression function, assemble
// the eight output words big-endian into a 256-bit digest.
func (h SHA256) Apply(reg *bitgraph.Registry, input symvec.Vec, difficulty int) (symvec.Vec, error) {
	if input.Width() != h.NumInputBits() {
		return symvec.Vec{}, &bitgraph.DomainError{Op: "hashes.SHA256.Apply", Msg: "input width does not match NumInputBits"}
	}
	if h.NumBytes > 55 {
		return symvec.Vec{}, &bitgraph.DomainError{Op: "hashes.SHA256.Apply", Msg: "message too long for a single 512-bit block (max 55 bytes)"}
	}
	if difficulty <= 0 || difficulty > 64 {
		difficulty = 64
	}

	msgBytes, err := input.BytesBE()
	if err != nil {
		return symvec.Vec{}, err
	}
	block := padSingleBlock(msgBytes)
	blockVec := symvec.FromBytesBE(block)

	words := make([]symvec.Vec, 64)
	for i := 0; i < 16; i++ {
		words[i] = wordAt(blockVec, i)
	}
	for i := 16; i < 64; i++ {
		s0 := gamma0(reg, words[i-15])
		s1 := gamma1(reg, words[i-2])
		w, err := addAll(reg, words[i-16], s0, words[i-7], s1)
		if err != nil {
			return symvec.Vec{}, err
		}
		words[i] = w
	}

	var state [8]symvec.Vec
	for i, iv := range sha256IV {
		state[i] = symvec.FromUint64(32, uint64(iv))
	}
	a, b, c, d, e, f, g, hh := state[0], state[1], state[2], state[3], state[4], state[5], state[6], state[7]

	for t := 0; t < difficulty; t++ {
		s1 := sigma1(reg, e)
		chV, err := ch(reg, e, f, g)
		if err != nil {
			return symvec.Vec{}, err
		}
		k := symvec.FromUint64(32, uint64(sha256K[t]))
		t1, err := addAll(reg, hh, s1, chV, k, words[t])
		if err != nil {
			return symvec.Vec{}, err
		}
		s0 := sigma0(reg, a)
		majV, err := symvec.Majority3(reg, a, b, c)
		if err != nil {
			return symvec.Vec{}, err
		}
		t2, err := addAll(reg, s0, majV)
		if err != nil {
			return symvec.Vec{}, err
		}

		newE, err := d.Add(reg, t1)
		if err != nil {
			return symvec.Vec{}, err
		}
		newA, err := t1.Add(reg, t2)
		if err != nil {
			return symvec.Vec{}, err
		}
		hh, g, f = g, f, e
		e = newE
		d, c, b = c, b, a
		a = newA
	}

	out := [8]symvec.Vec{}
	finals := [8]symvec.Vec{a, b, c, d, e, f, g, hh}
	for i := range out {
		sum, err := state[i].Add(reg, finals[i])
		if err != nil {
			return symvec.Vec{}, err
		}
		out[i] = sum
	}

	digest := out[7]
	for i := 6; i >= 0; i-- {
		digest = digest.Concat(out[i])
	}
	return digest, nil
}

func padSingleBlock(msg []byte) []byte {
	block := make([]byte, 64)
	copy(block, msg)
	block[len(msg)] = 0x80
	bitLen := uint64(len(msg)) * 8
	for i := 0; i < 8; i++ {
		block[63-i] = byte(bitLen >> (8 * uint(i)))
	}
	return block
}

// wordAt extracts 32-bit word i (0 = most significant) from a big-endian
// bit vector built by symvec.FromBytesBE.
func wordAt(block symvec.Vec, i int) symvec.Vec {
	hi := block.Width() - 32*i
	lo := hi - 32
	w, err := block.Extract(lo, hi)
	if err != nil {
		panic(err) // block width is always a compile-time-known 512
	}
	return w
}

func ch(reg *bitgraph.Registry, x, y, z symvec.Vec) (symvec.Vec, error) {
	yz, err := y.Xor(reg, z)
	if err != nil {
		return symvec.Vec{}, err
	}
	xyz, err := x.And(reg, yz)
	if err != nil {
		return symvec.Vec{}, err
	}
	return z.Xor(reg, xyz)
}

func sigma0(reg *bitgraph.Registry, x symvec.Vec) symvec.Vec {
	v, _ := symvec.Xor3(reg, x.Rotr(2), x.Rotr(13), x.Rotr(22))
	return v
}

func sigma1(reg *bitgraph.Registry, x symvec.Vec) symvec.Vec {
	v, _ := symvec.Xor3(reg, x.Rotr(6), x.Rotr(11), x.Rotr(25))
	return v
}

func gamma0(reg *bitgraph.Registry, x symvec.Vec) symvec.Vec {
	v, _ := symvec.Xor3(reg, x.Rotr(7), x.Rotr(18), x.Shr(3))
	return v
}

func gamma1(reg *bitgraph.Registry, x symvec.Vec) symvec.Vec {
	v, _ := symvec.Xor3(reg, x.Rotr(17), x.Rotr(19), x.Shr(10))
	return v
}

func addAll(reg *bitgraph.Registry, first symvec.Vec, rest ...symvec.Vec) (symvec.Vec, error) {
	acc := first
	var err error
	for _, v := range rest {
		acc, err = acc.Add(reg, v)
		if err != nil {
			return symvec.Vec{}, err
		}
	}
	return acc, nil
}
