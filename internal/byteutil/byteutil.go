// Copyright (C) 2019 ProtonTech AG
// This file contains necessary tools for the sm2, sm3 and sm4 packages.
//
// These functions are not meant to be exported, since they
// are optimized for specific input nature.

package byteutil

// XorBytes sets dst[i] = x[i] ^ y[i] for the length of the shorter input and
// returns the number of bytes written. dst must be at least that long.
func XorBytes(dst, x, y []byte) int {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	if len(dst) < n {
		panic("byteutil: dst too short in XorBytes")
	}
	for i := 0; i < n; i++ {
		dst[i] = x[i] ^ y[i]
	}
	return n
}

// SliceForAppend takes a slice and a requested number of bytes. It returns a
// slice with the contents of the given slice followed by that many bytes and a
// second slice that aliases into it and contains only the extra bytes. If the
// original slice has sufficient capacity then no allocation is performed.
func SliceForAppend(in []byte, n int) (head, tail []byte) {
	if total := len(in) + n; cap(in) >= total {
		head = in[:total]
	} else {
		head = make([]byte, total)
		copy(head, in)
	}
	tail = head[len(in):]
	return
}

// IsZero reports whether every byte of b is zero. The running time depends
// only on len(b).
func IsZero(b []byte) bool {
	var acc byte
	for _, v := range b {
		acc |= v
	}
	return acc == 0
}

// Zeroize overwrites b with zeros. Used on every exit path that holds
// secret material: key streams, recovered plaintexts, round keys.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ZeroizeWords is Zeroize for 32-bit word buffers.
func ZeroizeWords(w []uint32) {
	for i := range w {
		w[i] = 0
	}
}
