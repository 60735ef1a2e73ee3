// Copyright (C) 2019 ProtonTech AG

package sm4

import (
	"crypto/subtle"
	"fmt"

	"github.com/ProtonMail/go-gmsm/errors"
	"github.com/ProtonMail/go-gmsm/internal/byteutil"
)

// Pad returns a padded copy of data. PKCS#7 always adds between 1 and
// BlockSize bytes. Zero padding fills the last partial block with zero bytes
// and adds nothing to aligned input. PaddingNone returns data unchanged.
func Pad(data []byte, padding Padding) ([]byte, error) {
	switch padding {
	case PaddingPKCS7:
		n := BlockSize - len(data)%BlockSize
		// The capped slice forces a fresh allocation.
		out, tail := byteutil.SliceForAppend(data[:len(data):len(data)], n)
		for i := range tail {
			tail[i] = byte(n)
		}
		return out, nil
	case PaddingZero:
		n := (BlockSize - len(data)%BlockSize) % BlockSize
		out := make([]byte, len(data)+n)
		copy(out, data)
		return out, nil
	case PaddingNone:
		return append([]byte(nil), data...), nil
	}
	return nil, errors.UnsupportedError("sm4: " + padding.String())
}

// Unpad removes padding from data and returns a subslice of it.
//
// Zero padding cannot be told apart from zero bytes at the end of the
// plaintext: up to BlockSize-1 trailing zero bytes are removed, so messages
// that end in zero bytes do not round-trip under PaddingZero.
func Unpad(data []byte, padding Padding) ([]byte, error) {
	switch padding {
	case PaddingPKCS7:
		return unpadPKCS7(data)
	case PaddingZero:
		end := len(data)
		for end > 0 && len(data)-end < BlockSize-1 && data[end-1] == 0 {
			end--
		}
		return data[:end], nil
	case PaddingNone:
		return data, nil
	}
	return nil, errors.UnsupportedError("sm4: " + padding.String())
}

func unpadPKCS7(data []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%BlockSize != 0 {
		return nil, fmt.Errorf("sm4: %d bytes: %w", len(data), errors.ErrInvalidInputLength)
	}
	n := int(data[len(data)-1])
	if n == 0 || n > BlockSize {
		return nil, errors.ErrInvalidPadding
	}
	// Check every byte of the final block so that the time taken does not
	// depend on the padding length.
	good := 1
	last := data[len(data)-BlockSize:]
	for i := range last {
		inPad := subtle.ConstantTimeLessOrEq(BlockSize-n, i)
		eq := subtle.ConstantTimeByteEq(last[i], byte(n))
		good &= subtle.ConstantTimeSelect(inPad, eq, 1)
	}
	if good != 1 {
		return nil, errors.ErrInvalidPadding
	}
	return data[:len(data)-n], nil
}
