// Copyright (C) 2019 ProtonTech AG

package sm2

import (
	"encoding/binary"

	"github.com/ProtonMail/go-gmsm/internal/byteutil"
	"github.com/ProtonMail/go-gmsm/sm3"
)

// KDF stretches z into klen bytes as SM3(z ‖ ct₁) ‖ SM3(z ‖ ct₂) ‖ …, where
// each counter is a 4-byte big-endian block index starting at 1.
func KDF(z []byte, klen int) []byte {
	out := make([]byte, 0, klen+sm3.Size)
	var ct [4]byte
	h := sm3.New()
	for i := uint32(1); len(out) < klen; i++ {
		binary.BigEndian.PutUint32(ct[:], i)
		h.Reset()
		h.Write(z)
		h.Write(ct[:])
		out = h.Sum(out)
	}
	// Clear the excess digest bytes beyond klen.
	byteutil.Zeroize(out[klen:cap(out)])
	return out[:klen]
}
