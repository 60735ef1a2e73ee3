// Copyright (C) 2019 ProtonTech AG

package sm4

import (
	"crypto/cipher"
)

// ecb processes each block independently. It leaks equality of plaintext
// blocks and should only be used for interoperability.
type ecb struct {
	b       cipher.Block
	encrypt bool
}

// NewECBEncrypter returns a BlockMode which encrypts in electronic codebook
// mode using b.
func NewECBEncrypter(b cipher.Block) cipher.BlockMode {
	return &ecb{b: b, encrypt: true}
}

// NewECBDecrypter returns a BlockMode which decrypts in electronic codebook
// mode using b.
func NewECBDecrypter(b cipher.Block) cipher.BlockMode {
	return &ecb{b: b}
}

func (x *ecb) BlockSize() int { return x.b.BlockSize() }

func (x *ecb) CryptBlocks(dst, src []byte) {
	bs := x.b.BlockSize()
	if len(src)%bs != 0 {
		panic("sm4/ecb: input not full blocks")
	}
	if len(dst) < len(src) {
		panic("sm4/ecb: output smaller than input")
	}
	for len(src) > 0 {
		if x.encrypt {
			x.b.Encrypt(dst[:bs], src[:bs])
		} else {
			x.b.Decrypt(dst[:bs], src[:bs])
		}
		src = src[bs:]
		dst = dst[bs:]
	}
}
