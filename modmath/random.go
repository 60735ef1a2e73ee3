// Copyright (C) 2019 ProtonTech AG

package modmath

import (
	cryptorand "crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/ProtonMail/go-gmsm/errors"
	"github.com/ProtonMail/go-gmsm/internal/byteutil"
)

// maxRejections bounds RandomRange so that a broken source which keeps
// producing out-of-range values fails instead of spinning forever. For any
// range the acceptance probability is at least 1/2.
const maxRejections = 128

func reader(r io.Reader) io.Reader {
	if r == nil {
		return cryptorand.Reader
	}
	return r
}

// RandomBits returns a uniformly random integer of exactly bits bits, that is
// a value in [2^(bits-1), 2^bits). A nil rand means crypto/rand.Reader.
func RandomBits(rand io.Reader, bits int) (*big.Int, error) {
	if bits <= 0 {
		return nil, fmt.Errorf("modmath: randombits: %d bits: %w", bits, errors.ErrUnsupported)
	}
	buf := make([]byte, (bits+7)/8)
	defer byteutil.Zeroize(buf)
	if _, err := io.ReadFull(reader(rand), buf); err != nil {
		return nil, fmt.Errorf("modmath: randombits: reading random source: %w", err)
	}
	excess := uint(len(buf)*8 - bits)
	buf[0] &= 0xff >> excess
	buf[0] |= 0x80 >> excess
	return FromBytes(buf), nil
}

// RandomRange returns a uniformly random integer in [min, max). Candidates
// are drawn with the bit length of the range and rejected when they fall
// outside it, which avoids the bias of reducing modulo the range.
func RandomRange(rand io.Reader, min, max *big.Int) (*big.Int, error) {
	span := Sub(max, min)
	if span.Sign() <= 0 {
		return nil, fmt.Errorf("modmath: randomrange: empty range: %w", errors.ErrUnsupported)
	}
	bits := span.BitLen()
	buf := make([]byte, (bits+7)/8)
	defer byteutil.Zeroize(buf)
	excess := uint(len(buf)*8 - bits)

	r := reader(rand)
	candidate := new(big.Int)
	for i := 0; i < maxRejections; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("modmath: randomrange: reading random source: %w: %w", errors.ErrRandomSource, err)
		}
		buf[0] &= 0xff >> excess
		candidate.SetBytes(buf)
		if candidate.Cmp(span) < 0 {
			return candidate.Add(candidate, min), nil
		}
	}
	return nil, fmt.Errorf("modmath: randomrange: %d out-of-range values: %w", maxRejections, errors.ErrRandomSource)
}

// RandomScalar returns a uniformly random integer in [1, n-1], the range of
// private keys and ephemeral scalars for a group of order n.
func RandomScalar(rand io.Reader, n *big.Int) (*big.Int, error) {
	if n.Cmp(big.NewInt(2)) < 0 {
		return nil, fmt.Errorf("modmath: randomscalar: order too small: %w", errors.ErrUnsupported)
	}
	return RandomRange(rand, one, n)
}
