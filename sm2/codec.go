// Copyright (C) 2019 ProtonTech AG

package sm2

import (
	"fmt"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	"github.com/ProtonMail/go-gmsm/ecc"
	"github.com/ProtonMail/go-gmsm/errors"
)

func join(order Order, c1, c2, c3 []byte) []byte {
	out := make([]byte, 0, len(c1)+len(c2)+len(c3))
	out = append(out, c1...)
	if order == OrderC1C2C3 {
		out = append(out, c2...)
		return append(out, c3...)
	}
	out = append(out, c3...)
	return append(out, c2...)
}

// split slices a raw ciphertext into its fields. The returned slices alias
// ct.
func split(order Order, ct []byte) (c1, c2, c3 []byte, err error) {
	if len(ct) > 0 && ct[0] != 0x04 {
		return nil, nil, nil, fmt.Errorf("sm2: ciphertext: %w", errors.ErrUnsupportedPointFormat)
	}
	if len(ct) < Overhead {
		return nil, nil, nil, errors.NewLengthError("sm2: ciphertext", Overhead, len(ct))
	}
	c1, rest := ct[:c1Size], ct[c1Size:]
	if order == OrderC1C2C3 {
		return c1, rest[:len(rest)-c3Size], rest[len(rest)-c3Size:], nil
	}
	return c1, rest[c3Size:], rest[:c3Size], nil
}

// ConvertOrder rewrites a raw ciphertext from one field layout to the other.
// The input is not otherwise validated.
func ConvertOrder(ct []byte, from, to Order) ([]byte, error) {
	if err := from.check(); err != nil {
		return nil, err
	}
	if err := to.check(); err != nil {
		return nil, err
	}
	c1, c2, c3, err := split(from, ct)
	if err != nil {
		return nil, err
	}
	return join(to, c1, c2, c3), nil
}

// MarshalASN1 converts a raw ciphertext in the given layout to the DER form
// of GM/T 0009:
//
//	SM2Cipher ::= SEQUENCE {
//	    XCoordinate INTEGER,
//	    YCoordinate INTEGER,
//	    HASH        OCTET STRING (SIZE(32)),
//	    CipherText  OCTET STRING
//	}
func MarshalASN1(ct []byte, order Order) ([]byte, error) {
	if err := order.check(); err != nil {
		return nil, err
	}
	c1, c2, c3, err := split(order, ct)
	if err != nil {
		return nil, err
	}
	size := curve.ByteSize()
	x := new(big.Int).SetBytes(c1[1 : 1+size])
	y := new(big.Int).SetBytes(c1[1+size:])

	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(x)
		b.AddASN1BigInt(y)
		b.AddASN1OctetString(c3)
		b.AddASN1OctetString(c2)
	})
	return b.Bytes()
}

// UnmarshalASN1 parses a DER ciphertext and returns it in the raw layout
// given by order. C1 must lie on the curve.
func UnmarshalASN1(der []byte, order Order) ([]byte, error) {
	if err := order.check(); err != nil {
		return nil, err
	}
	var (
		input  = cryptobyte.String(der)
		inner  cryptobyte.String
		x, y   = new(big.Int), new(big.Int)
		c2, c3 []byte
	)
	if !input.ReadASN1(&inner, asn1.SEQUENCE) || !input.Empty() ||
		!inner.ReadASN1Integer(x) ||
		!inner.ReadASN1Integer(y) ||
		!inner.ReadASN1Bytes(&c3, asn1.OCTET_STRING) ||
		!inner.ReadASN1Bytes(&c2, asn1.OCTET_STRING) ||
		!inner.Empty() {
		return nil, errors.StructuralError("sm2: malformed ASN.1 ciphertext")
	}
	if len(c3) != c3Size {
		return nil, errors.NewLengthError("sm2: ciphertext digest", c3Size, len(c3))
	}

	p := ecc.NewPoint(x, y)
	if !curve.IsOnCurve(p) {
		return nil, fmt.Errorf("sm2: ASN.1 ciphertext: %w", errors.ErrPointNotOnCurve)
	}
	c1, err := curve.Marshal(p)
	if err != nil {
		return nil, err
	}
	return join(order, c1, c2, c3), nil
}
