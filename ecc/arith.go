// Copyright (C) 2019 ProtonTech AG

package ecc

import (
	"fmt"
	"math/big"

	"github.com/cloudflare/circl/math"

	"github.com/ProtonMail/go-gmsm/errors"
	"github.com/ProtonMail/go-gmsm/modmath"
)

// windowSize is the width of the signed-digit recoding used by ScalarMult.
// Every digit below the top one is odd and lies in ±[1, 2^(windowSize-1)).
const windowSize = 5

// reduce returns v mod p in [0, p).
func (c Curve) reduce(v *big.Int) *big.Int {
	return v.Mod(v, c.params.P)
}

// inverse returns v^-1 mod p. The field prime makes every non-zero element
// invertible, so failure means the caller broke an invariant.
func (c Curve) inverse(v *big.Int) *big.Int {
	inv, err := modmath.ModInverse(v, c.params.P)
	if err != nil {
		panic(fmt.Sprintf("ecc: inverting field element: %v", err))
	}
	return inv
}

// Add returns p1 + p2. Coordinates are expected to be reduced modulo the
// field prime, as they are for any point produced by this package.
func (c Curve) Add(p1, p2 Point) Point {
	if p1.inf {
		return p2.clone()
	}
	if p2.inf {
		return p1.clone()
	}
	if p1.X.Cmp(p2.X) == 0 {
		if p1.Y.Cmp(p2.Y) == 0 {
			return c.Double(p1)
		}
		// p2 = -p1
		return Infinity()
	}

	// λ = (y2 - y1) / (x2 - x1)
	num := c.reduce(new(big.Int).Sub(p2.Y, p1.Y))
	den := c.reduce(new(big.Int).Sub(p2.X, p1.X))
	lambda := c.reduce(num.Mul(num, c.inverse(den)))

	return c.chord(lambda, p1, p2.X)
}

// Double returns 2p.
func (c Curve) Double(p Point) Point {
	if p.inf || p.Y.Sign() == 0 {
		return Infinity()
	}

	// λ = (3x² + a) / 2y
	num := new(big.Int).Mul(p.X, p.X)
	num.Mul(num, big.NewInt(3))
	num.Add(num, c.params.A)
	c.reduce(num)
	den := c.reduce(new(big.Int).Lsh(p.Y, 1))
	lambda := c.reduce(num.Mul(num, c.inverse(den)))

	return c.chord(lambda, p, p.X)
}

// chord completes an addition or doubling given the slope through p and a
// second point with abscissa x2.
func (c Curve) chord(lambda *big.Int, p Point, x2 *big.Int) Point {
	// x3 = λ² - x1 - x2
	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, p.X)
	x3.Sub(x3, x2)
	c.reduce(x3)

	// y3 = λ(x1 - x3) - y1
	y3 := new(big.Int).Sub(p.X, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, p.Y)
	c.reduce(y3)

	return Point{X: x3, Y: y3}
}

// Negate returns -p.
func (c Curve) Negate(p Point) Point {
	if p.inf {
		return Infinity()
	}
	y := c.reduce(new(big.Int).Neg(p.Y))
	return Point{X: new(big.Int).Set(p.X), Y: y}
}

// IsOnCurve reports whether p satisfies the curve equation. The point at
// infinity is on every curve. Affine coordinates outside [0, p) are rejected.
func (c Curve) IsOnCurve(p Point) bool {
	if p.inf {
		return true
	}
	if p.X == nil || p.Y == nil {
		return false
	}
	if p.X.Sign() < 0 || p.X.Cmp(c.params.P) >= 0 ||
		p.Y.Sign() < 0 || p.Y.Cmp(c.params.P) >= 0 {
		return false
	}

	// y² = x³ + ax + b
	lhs := c.reduce(new(big.Int).Mul(p.Y, p.Y))

	rhs := new(big.Int).Mul(p.X, p.X)
	rhs.Mul(rhs, p.X)
	ax := new(big.Int).Mul(c.params.A, p.X)
	rhs.Add(rhs, ax)
	rhs.Add(rhs, c.params.B)
	c.reduce(rhs)

	return lhs.Cmp(rhs) == 0
}

// ScalarMult returns k·p. The scalar is reduced modulo the group order, so
// k = 0 and multiples of n yield the point at infinity. A negative scalar
// fails with ErrInvalidScalar and a point that is not on the curve fails
// with ErrPointNotOnCurve.
//
// The scalar is recoded into signed digits of fixed width so that the
// sequence of doublings and additions does not depend on its bit pattern.
func (c Curve) ScalarMult(k *big.Int, p Point) (Point, error) {
	if k == nil || k.Sign() < 0 {
		return Point{}, fmt.Errorf("ecc: scalarmult: %w", errors.ErrInvalidScalar)
	}
	if !c.IsOnCurve(p) {
		return Point{}, fmt.Errorf("ecc: scalarmult: %w", errors.ErrPointNotOnCurve)
	}
	if p.inf {
		return Infinity(), nil
	}

	n := c.params.N
	scalar := new(big.Int).Mod(k, n)
	if scalar.Sign() == 0 {
		return Infinity(), nil
	}
	// The recoding needs an odd scalar. The order is odd, so adding it fixes
	// the parity without changing the result.
	if scalar.Bit(0) == 0 {
		scalar.Add(scalar, n)
	}
	digits := math.SignedDigit(scalar, windowSize, uint(n.BitLen()+1))
	scalar.SetInt64(0)

	// table[i] = (2i+1)·p
	table := make([]Point, 1<<(windowSize-2))
	table[0] = p.clone()
	twoP := c.Double(p)
	for i := 1; i < len(table); i++ {
		table[i] = c.Add(table[i-1], twoP)
	}

	q := Infinity()
	for i := len(digits) - 1; i >= 0; i-- {
		for j := 0; j < windowSize-1; j++ {
			q = c.Double(q)
		}
		switch d := digits[i]; {
		case d > 0:
			q = c.Add(q, table[d>>1])
		case d < 0:
			q = c.Add(q, c.Negate(table[(-d)>>1]))
		}
	}
	return q, nil
}

// ScalarBaseMult returns k·G.
func (c Curve) ScalarBaseMult(k *big.Int) (Point, error) {
	return c.ScalarMult(k, c.BasePoint())
}

func (p Point) clone() Point {
	if p.inf {
		return Infinity()
	}
	return NewPoint(p.X, p.Y)
}
