// Copyright (C) 2019 ProtonTech AG

package modmath

import (
	"bytes"
	goerrors "errors"
	"math/big"
	mathrand "math/rand"
	"testing"

	"github.com/ProtonMail/go-gmsm/errors"
	"github.com/stretchr/testify/require"
)

// sm2p256v1 field prime, a convenient large prime modulus for property tests.
var testPrime, _ = new(big.Int).SetString("fffffffeffffffffffffffffffffffffffffffff00000000ffffffffffffffff", 16)

func n(v int64) *big.Int { return big.NewInt(v) }

func requireInt(t *testing.T, want, got *big.Int) {
	t.Helper()
	require.Truef(t, want.Cmp(got) == 0, "want %v, got %v", want, got)
}

func TestPlainArithmetic(t *testing.T) {
	a, b := n(-17), n(5)
	requireInt(t, n(-12), Add(a, b))
	requireInt(t, n(-22), Sub(a, b))
	requireInt(t, n(-85), Mul(a, b))

	q, err := Div(a, b)
	require.NoError(t, err)
	requireInt(t, n(-3), q)

	_, err = Div(a, n(0))
	require.ErrorIs(t, err, errors.ErrDivisionByZero)

	// Arguments are never mutated.
	requireInt(t, n(-17), a)
	requireInt(t, n(5), b)
}

func TestModIsNonNegative(t *testing.T) {
	tests := []struct {
		a, m, want int64
	}{
		{-17, 5, 3},
		{17, 5, 2},
		{-5, 5, 0},
		{0, 7, 0},
		{-1, 7, 6},
		{-17, -5, 3},
	}
	for _, test := range tests {
		got, err := Mod(n(test.a), n(test.m))
		require.NoError(t, err)
		requireInt(t, n(test.want), got)
	}
	_, err := Mod(n(3), n(0))
	require.ErrorIs(t, err, errors.ErrDivisionByZero)

	for _, f := range []func(a, b, m *big.Int) (*big.Int, error){ModAdd, ModSub, ModMul} {
		r, err := f(n(-40), n(3), n(11))
		require.NoError(t, err)
		require.True(t, r.Sign() >= 0 && r.Cmp(n(11)) < 0)
	}
	r, _ := ModSub(n(2), n(9), n(11))
	requireInt(t, n(4), r)
}

func TestModPow(t *testing.T) {
	tests := []struct {
		base, exp, m, want int64
	}{
		{4, 13, 497, 445},
		{2, 0, 7, 1},
		{5, 0, 1, 0},
		{-2, 3, 7, 6},
		{3, 1, 7, 3},
	}
	for _, test := range tests {
		got, err := ModPow(n(test.base), n(test.exp), n(test.m))
		require.NoError(t, err)
		requireInt(t, n(test.want), got)
	}

	_, err := ModPow(n(2), n(-1), n(7))
	require.ErrorIs(t, err, errors.ErrUnsupported)
	_, err = ModPow(n(2), n(3), n(0))
	require.ErrorIs(t, err, errors.ErrDivisionByZero)

	// Agrees with math/big on large operands.
	rng := mathrand.New(mathrand.NewSource(1))
	for i := 0; i < 20; i++ {
		base := new(big.Int).Rand(rng, testPrime)
		exp := new(big.Int).Rand(rng, testPrime)
		got, err := ModPow(base, exp, testPrime)
		require.NoError(t, err)
		require.Equal(t, 0, got.Cmp(new(big.Int).Exp(base, exp, testPrime)))
	}
}

func TestExtendedGCD(t *testing.T) {
	tests := []struct{ a, b, g int64 }{
		{240, 46, 2},
		{46, 240, 2},
		{17, 5, 1},
		{0, 9, 9},
		{-12, 18, 6},
		{12, -18, 6},
	}
	for _, test := range tests {
		g, x, y := ExtendedGCD(n(test.a), n(test.b))
		requireInt(t, n(test.g), g)
		lhs := Add(Mul(n(test.a), x), Mul(n(test.b), y))
		requireInt(t, g, lhs)
	}
	requireInt(t, n(2), GCD(n(240), n(46)))
}

func TestModInverse(t *testing.T) {
	inv, err := ModInverse(n(3), n(11))
	require.NoError(t, err)
	requireInt(t, n(4), inv)

	inv, err = ModInverse(n(-3), n(11))
	require.NoError(t, err)
	requireInt(t, n(7), inv)

	_, err = ModInverse(n(6), n(9))
	require.ErrorIs(t, err, errors.ErrNoInverse)

	_, err = ModInverse(n(6), n(0))
	require.ErrorIs(t, err, errors.ErrDivisionByZero)

	inv, err = ModInverse(n(5), n(1))
	require.NoError(t, err)
	require.Equal(t, 0, inv.Sign())

	rng := mathrand.New(mathrand.NewSource(2))
	for i := 0; i < 50; i++ {
		a := new(big.Int).Rand(rng, testPrime)
		if a.Sign() == 0 {
			continue
		}
		inv, err := ModInverse(a, testPrime)
		require.NoError(t, err)
		prod, _ := ModMul(a, inv, testPrime)
		require.Equal(t, 0, prod.Cmp(big.NewInt(1)))
		require.Equal(t, 0, inv.Cmp(new(big.Int).ModInverse(a, testPrime)))
	}
}

func TestBitOperations(t *testing.T) {
	requireInt(t, n(40), ShiftLeft(n(5), 3))
	requireInt(t, n(2), ShiftRight(n(21), 3))
	requireInt(t, n(0b1000), And(n(0b1100), n(0b1010)))
	requireInt(t, n(0b1110), Or(n(0b1100), n(0b1010)))
	requireInt(t, n(0b0110), Xor(n(0b1100), n(0b1010)))
}

func TestToBytes(t *testing.T) {
	tests := []struct {
		v      *big.Int
		length int
		want   []byte
	}{
		{n(0), 0, []byte{0}},
		{n(0), 4, []byte{0, 0, 0, 0}},
		{n(0x0102), 0, []byte{1, 2}},
		{n(0x0102), 4, []byte{0, 0, 1, 2}},
		{n(0xff), 1, []byte{0xff}},
	}
	for _, test := range tests {
		got, err := ToBytes(test.v, test.length)
		require.NoError(t, err)
		if !bytes.Equal(got, test.want) {
			t.Errorf("ToBytes(%v, %d) = %x, want %x", test.v, test.length, got, test.want)
		}
	}

	_, err := ToBytes(n(0x100), 1)
	require.ErrorIs(t, err, errors.ErrValueTooLarge)
	require.ErrorIs(t, err, errors.ErrInvalidLength)

	_, err = ToBytes(n(-1), 4)
	require.ErrorIs(t, err, errors.ErrUnsupported)

	require.Equal(t, 0, FromBytes(nil).Sign())
	requireInt(t, n(0x0102), FromBytes([]byte{0, 0, 1, 2}))
}

func TestHex(t *testing.T) {
	v, err := FromHex("00FFfe")
	require.NoError(t, err)
	requireInt(t, n(0xfffe), v)

	s, err := ToHex(n(0xfffe), 4)
	require.NoError(t, err)
	require.Equal(t, "0000fffe", s)

	v, err = FromHex("")
	require.NoError(t, err)
	require.Equal(t, 0, v.Sign())

	for _, bad := range []string{"abc", "zz"} {
		_, err = FromHex(bad)
		if !goerrors.Is(err, errors.ErrInvalidEncoding) {
			t.Errorf("FromHex(%q) error = %v, want invalid encoding", bad, err)
		}
	}
}
