package hashes

import (
	"github.com/oisee/preimage-dag/pkg/bitgraph"
	"github.com/oisee/preimage-dag/pkg/symvec"
)

var md5K = [64]uint32{
	0xd76aa478, 0xe8c7b756, 0x242070db, 0xc1bdceee,
	0xf57c0faf, 0x4787c62a, 0xa8304613, 0xfd469501,
	0x698098d8, 0x8b44f7af, 0xffff5bb1, 0x895cd7be,
	0x6b901122, 0xfd987193, 0xa679438e, 0x49b40821,
	0xf61e2562, 0xc040b340, 0x265e5a51, 0xe9b6c7aa,
	0xd62f105d, 0x02441453, 0xd8a1e681, 0xe7d3fbc8,
	0x21e1cde6, 0xc33707d6, 0xf4d50d87, 0x455a14ed,
	0xa9e3e905, 0xfcefa3f8, 0x676f02d9, 0x8d2a4c8a,
	0xfffa3942, 0x8771f681, 0x6d9d6122, 0xfde5380c,
	0xa4beea44, 0x4bdecfa9, 0xf6bb4b60, 0xbebfbc70,
	0x289b7ec6, 0xeaa127fa, 0xd4ef3085, 0x04881d05,
	0xd9d4d039, 0xe6db99e5, 0x1fa27cf8, 0xc4ac5665,
	0xf4292244, 0x432aff97, 0xab9423a7, 0xfc93a039,
	0x655b59c3, 0x8f0ccc92, 0xffeff47d, 0x85845dd1,
	0x6fa87e4f, 0xfe2ce6e0, 0xa3014314, 0x4e0811a1,
	0xf7537e82, 0xbd3af235, 0x2ad7d2bb, 0xeb86d391,
}

var md5Shift = [64]uint{
	7, 12, 17, 22, 7, 12, 17, 22, 7, 12, 17, 22, 7, 12, 17, 22,
	5, 9, 14, 20, 5, 9, 14, 20, 5, 9, 14, 20, 5, 9, 14, 20,
	4, 11, 16, 23, 4, 11, 16, 23, 4, 11, 16, 23, 4, 11, 16, 23,
	6, 10, 15, 21, 6, 10, 15, 21, 6, 10, 15, 21, 6, 10, 15, 21,
}

// MD5 is a single-block (message length <= 55 bytes) symbolic MD5 body,
// parameterized by round count ("difficulty", spec.md §6/§8 scenario 5).
type MD5 struct {
	NumBytes int
}

func (h MD5) Name() string           { return "md5" }
func (h MD5) NumInputBits() int      { return h.NumBytes * 8 }
func (h MD5) DefaultDifficulty() int { return 64 }

// Apply computes the single-block MD5 digest of input at the given round
// count (capped at 64), following RFC 1321's little-endian word and
// digest-byte convention.
func (h MD5) Apply(reg *bitgraph.Registry, input symvec.Vec, difficulty int) (symvec.Vec, error) {
	if input.Width() != h.NumInputBits() {
		return symvec.Vec{}, &bitgraph.DomainError{Op: "hashes.MD5.Apply", Msg: "input width does not match NumInputBits"}
	}
	if h.NumBytes > 55 {
		return symvec.Vec{}, &bitgraph.DomainError{Op: "hashes.MD5.Apply", Msg: "message too long for a single 512-bit block (max 55 bytes)"}
	}
	if difficulty <= 0 || difficulty > 64 {
		difficulty = 64
	}

	msgBytes, err := input.BytesBE()
	if err != nil {
		return symvec.Vec{}, err
	}
	block := padSingleBlockLE(msgBytes)
	blockVec := symvec.FromBytesBE(block)

	m := make([]symvec.Vec, 16)
	for i := 0; i < 16; i++ {
		m[i] = byteSwap32(wordAt(blockVec, i))
	}

	a := symvec.FromUint64(32, 0x67452301)
	b := symvec.FromUint64(32, 0xefcdab89)
	c := symvec.FromUint64(32, 0x98badcfe)
	d := symvec.FromUint64(32, 0x10325476)
	a0, b0, c0, d0 := a, b, c, d

	for i := 0; i < difficulty; i++ {
		var f symvec.Vec
		var g int
		switch {
		case i < 16:
			bc, err := b.And(reg, c)
			if err != nil {
				return symvec.Vec{}, err
			}
			notB := b.Not(reg)
			notBD, err := notB.And(reg, d)
			if err != nil {
				return symvec.Vec{}, err
			}
			f, err = bc.Or(reg, notBD)
			if err != nil {
				return symvec.Vec{}, err
			}
			g = i
		case i < 32:
			db, err := d.And(reg, b)
			if err != nil {
				return symvec.Vec{}, err
			}
			notD := d.Not(reg)
			notDC, err := notD.And(reg, c)
			if err != nil {
				return symvec.Vec{}, err
			}
			f, err = db.Or(reg, notDC)
			if err != nil {
				return symvec.Vec{}, err
			}
			g = (5*i + 1) % 16
		case i < 48:
			bc, err := b.Xor(reg, c)
			if err != nil {
				return symvec.Vec{}, err
			}
			f, err = bc.Xor(reg, d)
			if err != nil {
				return symvec.Vec{}, err
			}
			g = (3*i + 5) % 16
		default:
			notD := d.Not(reg)
			bOrNotD, err := b.Or(reg, notD)
			if err != nil {
				return symvec.Vec{}, err
			}
			f, err = c.Xor(reg, bOrNotD)
			if err != nil {
				return symvec.Vec{}, err
			}
			g = (7 * i) % 16
		}

		k := symvec.FromUint64(32, uint64(md5K[i]))
		sum, err := addAll(reg, f, a, k, m[g])
		if err != nil {
			return symvec.Vec{}, err
		}
		rotated := sum.Rotr(32 - int(md5Shift[i]))
		newB, err := b.Add(reg, rotated)
		if err != nil {
			return symvec.Vec{}, err
		}
		a, d, c, b = d, c, b, newB
	}

	outA, err := a0.Add(reg, a)
	if err != nil {
		return symvec.Vec{}, err
	}
	outB, err := b0.Add(reg, b)
	if err != nil {
		return symvec.Vec{}, err
	}
	outC, err := c0.Add(reg, c)
	if err != nil {
		return symvec.Vec{}, err
	}
	outD, err := d0.Add(reg, d)
	if err != nil {
		return symvec.Vec{}, err
	}

	digest := byteSwap32(outD)
	digest = digest.Concat(byteSwap32(outC))
	digest = digest.Concat(byteSwap32(outB))
	digest = digest.Concat(byteSwap32(outA))
	return digest, nil
}

func padSingleBlockLE(msg []byte) []byte {
	block := make([]byte, 64)
	copy(block, msg)
	block[len(msg)] = 0x80
	bitLen := uint64(len(msg)) * 8
	for i := 0; i < 8; i++ {
		block[56+i] = byte(bitLen >> (8 * uint(i)))
	}
	return block
}
