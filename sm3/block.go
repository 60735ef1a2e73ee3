// Copyright (C) 2019 ProtonTech AG

package sm3

import (
	"encoding/binary"
	"math/bits"
)

const (
	t0 = 0x79cc4519 // rounds 0-15
	t1 = 0x7a879d8a // rounds 16-63
)

func p0(x uint32) uint32 {
	return x ^ bits.RotateLeft32(x, 9) ^ bits.RotateLeft32(x, 17)
}

func p1(x uint32) uint32 {
	return x ^ bits.RotateLeft32(x, 15) ^ bits.RotateLeft32(x, 23)
}

// block runs the compression function over every 64-byte block in p.
func block(d *digest, p []byte) {
	var w [68]uint32
	h0, h1, h2, h3, h4, h5, h6, h7 := d.h[0], d.h[1], d.h[2], d.h[3], d.h[4], d.h[5], d.h[6], d.h[7]
	for len(p) >= BlockSize {
		for i := 0; i < 16; i++ {
			w[i] = binary.BigEndian.Uint32(p[4*i:])
		}
		for j := 16; j < 68; j++ {
			w[j] = p1(w[j-16]^w[j-9]^bits.RotateLeft32(w[j-3], 15)) ^
				bits.RotateLeft32(w[j-13], 7) ^ w[j-6]
		}

		a, b, c, dd, e, f, g, h := h0, h1, h2, h3, h4, h5, h6, h7
		for j := 0; j < 64; j++ {
			var tj, ff, gg uint32
			if j < 16 {
				tj = t0
				ff = a ^ b ^ c
				gg = e ^ f ^ g
			} else {
				tj = t1
				ff = (a & b) | (a & c) | (b & c)
				gg = (e & f) | (^e & g)
			}
			a12 := bits.RotateLeft32(a, 12)
			ss1 := bits.RotateLeft32(a12+e+bits.RotateLeft32(tj, j%32), 7)
			ss2 := ss1 ^ a12
			tt1 := ff + dd + ss2 + (w[j] ^ w[j+4])
			tt2 := gg + h + ss1 + w[j]

			dd = c
			c = bits.RotateLeft32(b, 9)
			b = a
			a = tt1
			h = g
			g = bits.RotateLeft32(f, 19)
			f = e
			e = p0(tt2)
		}

		h0 ^= a
		h1 ^= b
		h2 ^= c
		h3 ^= dd
		h4 ^= e
		h5 ^= f
		h6 ^= g
		h7 ^= h

		p = p[BlockSize:]
	}
	d.h[0], d.h[1], d.h[2], d.h[3], d.h[4], d.h[5], d.h[6], d.h[7] = h0, h1, h2, h3, h4, h5, h6, h7
}
