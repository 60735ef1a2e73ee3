// Copyright (C) 2019 ProtonTech AG

// Package sm4 implements the SM4 block cipher (GB/T 32907-2016) together
// with the ECB, CBC and CTR modes of operation and PKCS#7 or zero padding.
package sm4

import (
	"crypto/cipher"
	"encoding/binary"
	"math/bits"

	"github.com/ProtonMail/go-gmsm/errors"
	"github.com/ProtonMail/go-gmsm/internal/byteutil"
)

const (
	// BlockSize is the SM4 block size in bytes.
	BlockSize = 16
	// KeySize is the SM4 key size in bytes.
	KeySize = 16

	rounds = 32
)

type sm4Cipher struct {
	enc [rounds]uint32
	dec [rounds]uint32
}

// NewCipher creates and returns a new cipher.Block for the 16-byte key.
func NewCipher(key []byte) (cipher.Block, error) {
	if len(key) != KeySize {
		return nil, errors.NewLengthError("sm4: key", KeySize, len(key))
	}
	c := new(sm4Cipher)
	expandKey(key, &c.enc, &c.dec)
	return c, nil
}

func (c *sm4Cipher) BlockSize() int { return BlockSize }

func (c *sm4Cipher) Encrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("sm4: input not full block")
	}
	if len(dst) < BlockSize {
		panic("sm4: output not full block")
	}
	cryptBlock(&c.enc, dst, src)
}

func (c *sm4Cipher) Decrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("sm4: input not full block")
	}
	if len(dst) < BlockSize {
		panic("sm4: output not full block")
	}
	cryptBlock(&c.dec, dst, src)
}

// tau applies the S-box to each byte of a word.
func tau(a uint32) uint32 {
	return uint32(sbox[a>>24])<<24 |
		uint32(sbox[a>>16&0xff])<<16 |
		uint32(sbox[a>>8&0xff])<<8 |
		uint32(sbox[a&0xff])
}

// transform is the round function L(τ(a)).
func transform(a uint32) uint32 {
	b := tau(a)
	return b ^ bits.RotateLeft32(b, 2) ^ bits.RotateLeft32(b, 10) ^
		bits.RotateLeft32(b, 18) ^ bits.RotateLeft32(b, 24)
}

// tPrime is the key schedule transform L'(τ(a)).
func tPrime(a uint32) uint32 {
	b := tau(a)
	return b ^ bits.RotateLeft32(b, 13) ^ bits.RotateLeft32(b, 23)
}

func expandKey(key []byte, enc, dec *[rounds]uint32) {
	var k [4]uint32
	for i := range k {
		k[i] = binary.BigEndian.Uint32(key[4*i:]) ^ fk[i]
	}
	for i := 0; i < rounds; i++ {
		rk := k[0] ^ tPrime(k[1]^k[2]^k[3]^ck[i])
		enc[i] = rk
		dec[rounds-1-i] = rk
		k[0], k[1], k[2], k[3] = k[1], k[2], k[3], rk
	}
	byteutil.ZeroizeWords(k[:])
}

func cryptBlock(rk *[rounds]uint32, dst, src []byte) {
	x0 := binary.BigEndian.Uint32(src[0:])
	x1 := binary.BigEndian.Uint32(src[4:])
	x2 := binary.BigEndian.Uint32(src[8:])
	x3 := binary.BigEndian.Uint32(src[12:])
	for i := 0; i < rounds; i += 4 {
		x0 ^= transform(x1 ^ x2 ^ x3 ^ rk[i])
		x1 ^= transform(x2 ^ x3 ^ x0 ^ rk[i+1])
		x2 ^= transform(x3 ^ x0 ^ x1 ^ rk[i+2])
		x3 ^= transform(x0 ^ x1 ^ x2 ^ rk[i+3])
	}
	// Output is the reverse of the final four words.
	binary.BigEndian.PutUint32(dst[0:], x3)
	binary.BigEndian.PutUint32(dst[4:], x2)
	binary.BigEndian.PutUint32(dst[8:], x1)
	binary.BigEndian.PutUint32(dst[12:], x0)
}
