// Copyright (C) 2019 ProtonTech AG

package ecc

import (
	"fmt"
	"math/big"

	"github.com/ProtonMail/go-gmsm/errors"
	"github.com/ProtonMail/go-gmsm/modmath"
)

// uncompressedTag prefixes an uncompressed point encoding (SEC 1, 2.3.3).
const uncompressedTag = 0x04

// PointSize returns the length of an uncompressed point encoding.
func (c Curve) PointSize() int {
	return 1 + 2*c.ByteSize()
}

// Marshal encodes p as 0x04 ‖ X ‖ Y with fixed-width big-endian coordinates.
// The point at infinity has no such encoding, and points that are not on
// the curve are rejected with ErrPointNotOnCurve.
func (c Curve) Marshal(p Point) ([]byte, error) {
	if p.inf {
		return nil, errors.StructuralError("cannot encode the point at infinity")
	}
	if !c.IsOnCurve(p) {
		return nil, fmt.Errorf("ecc: marshal: %w", errors.ErrPointNotOnCurve)
	}
	size := c.ByteSize()
	out := make([]byte, c.PointSize())
	out[0] = uncompressedTag
	x, err := modmath.ToBytes(p.X, size)
	if err != nil {
		return nil, err
	}
	y, err := modmath.ToBytes(p.Y, size)
	if err != nil {
		return nil, err
	}
	copy(out[1:], x)
	copy(out[1+size:], y)
	return out, nil
}

// Unmarshal decodes an uncompressed point and checks that it lies on the
// curve.
func (c Curve) Unmarshal(data []byte) (Point, error) {
	if len(data) == 0 {
		return Point{}, errors.NewLengthError("ecc: point", c.PointSize(), 0)
	}
	if data[0] != uncompressedTag {
		return Point{}, fmt.Errorf("ecc: unmarshal: tag %#02x: %w", data[0], errors.ErrUnsupportedPointFormat)
	}
	if len(data) != c.PointSize() {
		return Point{}, errors.NewLengthError("ecc: point", c.PointSize(), len(data))
	}
	size := c.ByteSize()
	p := Point{
		X: new(big.Int).SetBytes(data[1 : 1+size]),
		Y: new(big.Int).SetBytes(data[1+size:]),
	}
	if !c.IsOnCurve(p) {
		return Point{}, fmt.Errorf("ecc: unmarshal: %w", errors.ErrPointNotOnCurve)
	}
	return p, nil
}
