// Copyright (C) 2019 ProtonTech AG

// Package modmath implements the arbitrary-precision integer arithmetic used
// by the SM2 curve engine: ordinary and modular arithmetic, the extended
// Euclidean algorithm, square-and-multiply exponentiation, fixed-width
// big-endian serialization, and unbiased random sampling.
//
// Values are *big.Int. Every function returns a freshly allocated result and
// never mutates its arguments, so values can be shared freely between
// goroutines once created. Results computed modulo m are always the least
// non-negative residue, in [0, |m|).
package modmath

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/ProtonMail/go-gmsm/errors"
)

var one = big.NewInt(1)

// Add returns a + b.
func Add(a, b *big.Int) *big.Int {
	return new(big.Int).Add(a, b)
}

// Sub returns a - b.
func Sub(a, b *big.Int) *big.Int {
	return new(big.Int).Sub(a, b)
}

// Mul returns a * b.
func Mul(a, b *big.Int) *big.Int {
	return new(big.Int).Mul(a, b)
}

// Div returns the quotient a / b truncated towards zero.
func Div(a, b *big.Int) (*big.Int, error) {
	if b.Sign() == 0 {
		return nil, fmt.Errorf("modmath: div: %w", errors.ErrDivisionByZero)
	}
	return new(big.Int).Quo(a, b), nil
}

// Mod returns a mod m in [0, |m|), also for negative a.
func Mod(a, m *big.Int) (*big.Int, error) {
	if m.Sign() == 0 {
		return nil, fmt.Errorf("modmath: mod: %w", errors.ErrDivisionByZero)
	}
	// big.Int.Mod is the Euclidean modulus and already non-negative.
	return new(big.Int).Mod(a, m), nil
}

// ModAdd returns (a + b) mod m.
func ModAdd(a, b, m *big.Int) (*big.Int, error) {
	return Mod(Add(a, b), m)
}

// ModSub returns (a - b) mod m.
func ModSub(a, b, m *big.Int) (*big.Int, error) {
	return Mod(Sub(a, b), m)
}

// ModMul returns (a * b) mod m.
func ModMul(a, b, m *big.Int) (*big.Int, error) {
	return Mod(Mul(a, b), m)
}

// ModPow returns base^exp mod m, computed left to right by square and
// multiply. The exponent must be non-negative.
func ModPow(base, exp, m *big.Int) (*big.Int, error) {
	if exp.Sign() < 0 {
		return nil, fmt.Errorf("modmath: modpow: negative exponent: %w", errors.ErrUnsupported)
	}
	b, err := Mod(base, m)
	if err != nil {
		return nil, err
	}
	mod := new(big.Int).Abs(m)
	result := big.NewInt(1)
	for i := exp.BitLen() - 1; i >= 0; i-- {
		result.Mul(result, result)
		result.Mod(result, mod)
		if exp.Bit(i) == 1 {
			result.Mul(result, b)
			result.Mod(result, mod)
		}
	}
	// Covers m = 1 with a zero exponent.
	return result.Mod(result, mod), nil
}

// GCD returns the non-negative greatest common divisor of a and b.
func GCD(a, b *big.Int) *big.Int {
	g, _, _ := ExtendedGCD(a, b)
	return g
}

// ExtendedGCD returns g = gcd(a, b) together with Bézout coefficients x and y
// such that a*x + b*y = g. g is never negative.
func ExtendedGCD(a, b *big.Int) (g, x, y *big.Int) {
	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldS, s := big.NewInt(1), big.NewInt(0)
	oldT, t := big.NewInt(0), big.NewInt(1)

	q := new(big.Int)
	tmp := new(big.Int)
	for r.Sign() != 0 {
		q.Quo(oldR, r)

		tmp.Mul(q, r)
		oldR, r = r, tmp.Sub(oldR, tmp)
		tmp = new(big.Int)

		tmp.Mul(q, s)
		oldS, s = s, tmp.Sub(oldS, tmp)
		tmp = new(big.Int)

		tmp.Mul(q, t)
		oldT, t = t, tmp.Sub(oldT, tmp)
		tmp = new(big.Int)
	}
	if oldR.Sign() < 0 {
		oldR.Neg(oldR)
		oldS.Neg(oldS)
		oldT.Neg(oldT)
	}
	return oldR, oldS, oldT
}

// ModInverse returns the x in [0, |m|) with a*x ≡ 1 (mod m), using the
// extended Euclidean algorithm.
func ModInverse(a, m *big.Int) (*big.Int, error) {
	if m.Sign() == 0 {
		return nil, fmt.Errorf("modmath: modinverse: %w", errors.ErrDivisionByZero)
	}
	mod := new(big.Int).Abs(m)
	if mod.Cmp(one) == 0 {
		return new(big.Int), nil
	}
	r := new(big.Int).Mod(a, mod)
	g, x, _ := ExtendedGCD(r, mod)
	if g.Cmp(one) != 0 {
		return nil, fmt.Errorf("modmath: modinverse: %w", errors.ErrNoInverse)
	}
	return x.Mod(x, mod), nil
}

// ShiftLeft returns a << n.
func ShiftLeft(a *big.Int, n uint) *big.Int {
	return new(big.Int).Lsh(a, n)
}

// ShiftRight returns a >> n.
func ShiftRight(a *big.Int, n uint) *big.Int {
	return new(big.Int).Rsh(a, n)
}

// And returns a & b.
func And(a, b *big.Int) *big.Int {
	return new(big.Int).And(a, b)
}

// Or returns a | b.
func Or(a, b *big.Int) *big.Int {
	return new(big.Int).Or(a, b)
}

// Xor returns a ^ b.
func Xor(a, b *big.Int) *big.Int {
	return new(big.Int).Xor(a, b)
}

// ToBytes returns the big-endian encoding of the non-negative value v. With
// length <= 0 the minimal encoding is returned, where zero encodes as a single
// zero byte. Otherwise the result is left-padded to exactly length bytes.
func ToBytes(v *big.Int, length int) ([]byte, error) {
	if v.Sign() < 0 {
		return nil, fmt.Errorf("modmath: tobytes: negative value: %w", errors.ErrUnsupported)
	}
	if length <= 0 {
		if v.Sign() == 0 {
			return []byte{0}, nil
		}
		return v.Bytes(), nil
	}
	if need := (v.BitLen() + 7) / 8; need > length {
		return nil, fmt.Errorf("modmath: tobytes: %w: need %d bytes, have %d", errors.ErrValueTooLarge, need, length)
	}
	return v.FillBytes(make([]byte, length)), nil
}

// FromBytes decodes an unsigned big-endian integer. Empty input yields zero.
func FromBytes(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// ToHex returns the lowercase hex form of ToBytes(v, length).
func ToHex(v *big.Int, length int) (string, error) {
	b, err := ToBytes(v, length)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// FromHex decodes an unsigned big-endian hex string, in either case.
func FromHex(s string) (*big.Int, error) {
	if len(s)%2 != 0 {
		return nil, errors.StructuralError("modmath: odd length hex string")
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.StructuralError("modmath: " + err.Error())
	}
	return FromBytes(b), nil
}
