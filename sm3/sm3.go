// Copyright (C) 2019 ProtonTech AG

// Package sm3 implements the SM3 cryptographic hash function as defined in
// GB/T 32905-2016. SM3 produces a 256-bit digest from 512-bit message blocks
// with Merkle-Damgård strengthening.
package sm3

import (
	"encoding/binary"
	"hash"

	"github.com/ProtonMail/go-gmsm/errors"
)

const (
	// Size is the size of an SM3 digest in bytes.
	Size = 32
	// BlockSize is the block size of SM3 in bytes.
	BlockSize = 64
)

const (
	iv0 = 0x7380166f
	iv1 = 0x4914b2b9
	iv2 = 0x172442d7
	iv3 = 0xda8a0600
	iv4 = 0xa96f30bc
	iv5 = 0x163138aa
	iv6 = 0xe38dee4d
	iv7 = 0xb0fb0e4e
)

// digest is the streaming SM3 state. Bytes that do not yet fill a block are
// buffered in x.
type digest struct {
	h   [8]uint32
	x   [BlockSize]byte
	nx  int
	len uint64
}

// New returns a hash.Hash computing the SM3 digest. The returned value also
// implements encoding.BinaryMarshaler and encoding.BinaryUnmarshaler so that
// its internal state can be saved and restored.
func New() hash.Hash {
	d := new(digest)
	d.Reset()
	return d
}

func (d *digest) Reset() {
	d.h = [8]uint32{iv0, iv1, iv2, iv3, iv4, iv5, iv6, iv7}
	d.nx = 0
	d.len = 0
}

func (d *digest) Size() int { return Size }

func (d *digest) BlockSize() int { return BlockSize }

func (d *digest) Write(p []byte) (n int, err error) {
	n = len(p)
	d.len += uint64(n)
	if d.nx > 0 {
		c := copy(d.x[d.nx:], p)
		d.nx += c
		if d.nx == BlockSize {
			block(d, d.x[:])
			d.nx = 0
		}
		p = p[c:]
	}
	if len(p) >= BlockSize {
		m := len(p) &^ (BlockSize - 1)
		block(d, p[:m])
		p = p[m:]
	}
	if len(p) > 0 {
		d.nx = copy(d.x[:], p)
	}
	return
}

// Sum appends the current digest to in. The running state is not changed,
// so writing may continue afterwards.
func (d *digest) Sum(in []byte) []byte {
	d0 := *d
	sum := d0.checkSum()
	return append(in, sum[:]...)
}

func (d *digest) checkSum() [Size]byte {
	bitLen := d.len << 3

	// Append 0x80, then zeros up to 56 mod 64, then the bit length.
	var tmp [BlockSize + 8]byte
	tmp[0] = 0x80
	var t uint64
	if d.len%BlockSize < 56 {
		t = 56 - d.len%BlockSize
	} else {
		t = BlockSize + 56 - d.len%BlockSize
	}
	binary.BigEndian.PutUint64(tmp[t:], bitLen)
	d.Write(tmp[:t+8])

	if d.nx != 0 {
		panic("sm3: buffered bytes after final block")
	}

	var out [Size]byte
	for i, v := range d.h {
		binary.BigEndian.PutUint32(out[i*4:], v)
	}
	return out
}

const (
	magic         = "sm3\x03"
	marshaledSize = len(magic) + 8*4 + BlockSize + 8
)

func (d *digest) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, marshaledSize)
	b = append(b, magic...)
	for _, v := range d.h {
		b = binary.BigEndian.AppendUint32(b, v)
	}
	b = append(b, d.x[:d.nx]...)
	b = append(b, make([]byte, len(d.x)-d.nx)...)
	b = binary.BigEndian.AppendUint64(b, d.len)
	return b, nil
}

func (d *digest) UnmarshalBinary(b []byte) error {
	if len(b) < len(magic) || string(b[:len(magic)]) != magic {
		return errors.StructuralError("sm3: invalid hash state identifier")
	}
	if len(b) != marshaledSize {
		return errors.NewLengthError("sm3: hash state", marshaledSize, len(b))
	}
	b = b[len(magic):]
	for i := range d.h {
		d.h[i] = binary.BigEndian.Uint32(b)
		b = b[4:]
	}
	copy(d.x[:], b[:BlockSize])
	b = b[BlockSize:]
	d.len = binary.BigEndian.Uint64(b)
	d.nx = int(d.len % BlockSize)
	return nil
}

// Sum returns the SM3 digest of data.
func Sum(data []byte) [Size]byte {
	var d digest
	d.Reset()
	d.Write(data)
	return d.checkSum()
}

// SumMultiple returns the SM3 digest of the concatenation of chunks without
// copying them into one buffer.
func SumMultiple(chunks ...[]byte) [Size]byte {
	var d digest
	d.Reset()
	for _, c := range chunks {
		d.Write(c)
	}
	return d.checkSum()
}
