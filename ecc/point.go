// Copyright (C) 2019 ProtonTech AG

package ecc

import (
	"fmt"
	"math/big"
)

// Point is an affine curve point or the point at infinity. Points are values:
// arithmetic returns new points and never modifies its operands.
type Point struct {
	X, Y *big.Int
	inf  bool
}

// Infinity returns the group identity.
func Infinity() Point {
	return Point{inf: true}
}

// NewPoint returns the affine point (x, y). The coordinates are copied.
func NewPoint(x, y *big.Int) Point {
	return Point{X: new(big.Int).Set(x), Y: new(big.Int).Set(y)}
}

// IsInfinity reports whether p is the point at infinity.
func (p Point) IsInfinity() bool {
	return p.inf
}

// Equal reports whether p and q are the same point.
func (p Point) Equal(q Point) bool {
	if p.inf || q.inf {
		return p.inf == q.inf
	}
	return p.X.Cmp(q.X) == 0 && p.Y.Cmp(q.Y) == 0
}

func (p Point) String() string {
	if p.inf {
		return "(infinity)"
	}
	return fmt.Sprintf("(%x, %x)", p.X, p.Y)
}
