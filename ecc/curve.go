// Copyright (C) 2019 ProtonTech AG

// Package ecc implements affine point arithmetic on the SM2 recommended
// elliptic curve sm2p256v1 (GB/T 32918.5), y² = x³ + ax + b over GF(p).
//
// The point at infinity is represented by an explicit flag rather than by a
// sentinel coordinate, so no affine point is ever mistaken for the identity.
package ecc

import (
	"math/big"
)

// CurveParams holds the domain parameters of a short Weierstrass curve with
// cofactor one. Values returned by this package are shared and must not be
// modified.
type CurveParams struct {
	Name    string
	P       *big.Int // field prime
	A, B    *big.Int // curve coefficients
	Gx, Gy  *big.Int // base point
	N       *big.Int // order of the base point
	H       *big.Int // cofactor
	BitSize int
}

func mustHex(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("ecc: bad curve constant " + s)
	}
	return v
}

var sm2p256v1 = &CurveParams{
	Name:    "sm2p256v1",
	P:       mustHex("fffffffeffffffffffffffffffffffffffffffff00000000ffffffffffffffff"),
	A:       mustHex("fffffffeffffffffffffffffffffffffffffffff00000000fffffffffffffffc"),
	B:       mustHex("28e9fa9e9d9f5e344d5a9e4bcf6509a7f39789f515ab8f92ddbcbd414d940e93"),
	Gx:      mustHex("32c4ae2c1f1981195f9904466a39c9948fe30bbff2660be1715a4589334c74c7"),
	Gy:      mustHex("bc3736a2f4f6779c59bdcee36b692153d0a9877cc62a474002df32e52139f0a0"),
	N:       mustHex("fffffffeffffffffffffffffffffffff7203df6b21c6052b53bbf40939d54123"),
	H:       big.NewInt(1),
	BitSize: 256,
}

// Curve performs point arithmetic over a fixed set of domain parameters. The
// zero value is not usable; obtain one with SM2P256.
type Curve struct {
	params *CurveParams
}

var sm2Curve = Curve{params: sm2p256v1}

// SM2P256 returns the sm2p256v1 curve. It is safe for concurrent use.
func SM2P256() Curve {
	return sm2Curve
}

// Params returns the domain parameters of the curve.
func (c Curve) Params() *CurveParams {
	return c.params
}

// ByteSize is the length in bytes of a field element or scalar.
func (c Curve) ByteSize() int {
	return (c.params.BitSize + 7) / 8
}

// BasePoint returns the generator G.
func (c Curve) BasePoint() Point {
	return NewPoint(c.params.Gx, c.params.Gy)
}
