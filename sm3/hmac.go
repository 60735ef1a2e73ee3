// Copyright (C) 2019 ProtonTech AG

package sm3

import (
	"crypto/hmac"
	"hash"
)

// NewHMAC returns a keyed HMAC-SM3 (RFC 2104) hash.
func NewHMAC(key []byte) hash.Hash {
	return hmac.New(New, key)
}

// HMAC returns the HMAC-SM3 tag of data under key.
func HMAC(key, data []byte) []byte {
	mac := NewHMAC(key)
	mac.Write(data)
	return mac.Sum(nil)
}
