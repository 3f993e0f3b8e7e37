package hashes

import "github.com/oisee/preimage-dag/pkg/symvec"

// byteSwap32 reverses the byte order of a 32-bit word: bit positions
// [0:8],[8:16],[16:24],[24:32] (LSB-first) are emitted most-significant-
// byte-first becomes least-significant-byte-first, or vice versa. Used to
// convert between this package's internal big-endian word convention and a
// little-endian wire format (MD5's message words and digest bytes).
func byteSwap32(w symvec.Vec) symvec.Vec {
	b0, _ := w.Extract(0, 8)
	b1, _ := w.Extract(8, 16)
	b2, _ := w.Extract(16, 24)
	b3, _ := w.Extract(24, 32)
	return b3.Concat(b2).Concat(b1).Concat(b0)
}
