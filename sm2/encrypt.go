// Copyright (C) 2019 ProtonTech AG

package sm2

import (
	"crypto/subtle"
	"fmt"
	"io"
	"strings"

	"github.com/ProtonMail/go-gmsm/ecc"
	"github.com/ProtonMail/go-gmsm/errors"
	"github.com/ProtonMail/go-gmsm/internal/byteutil"
	"github.com/ProtonMail/go-gmsm/modmath"
	"github.com/ProtonMail/go-gmsm/sm3"
)

const (
	c1Size = PublicKeySize
	c3Size = sm3.Size

	// Overhead is the number of bytes a ciphertext adds to its plaintext.
	Overhead = c1Size + c3Size
)

// Order is the layout of the fields following C1 in a ciphertext. The two
// layouts are not interoperable; ConvertOrder translates between them.
type Order uint8

// Supported ciphertext layouts.
const (
	// OrderC1C3C2 places the digest before the payload, as required by
	// GB/T 32918.4-2016 and GM/T 0009.
	OrderC1C3C2 = Order(1)
	// OrderC1C2C3 is the layout of the 2010 draft, still produced by some
	// older implementations.
	OrderC1C2C3 = Order(2)
)

func (o Order) String() string {
	switch o {
	case OrderC1C3C2:
		return "C1C3C2"
	case OrderC1C2C3:
		return "C1C2C3"
	}
	return fmt.Sprintf("Order(%d)", uint8(o))
}

// ParseOrder maps a case-insensitive layout name to its Order.
func ParseOrder(s string) (Order, error) {
	switch strings.ToUpper(s) {
	case "C1C3C2":
		return OrderC1C3C2, nil
	case "C1C2C3":
		return OrderC1C2C3, nil
	}
	return 0, errors.UnsupportedError("sm2: ciphertext order " + s)
}

func (o Order) check() error {
	if o != OrderC1C3C2 && o != OrderC1C2C3 {
		return errors.UnsupportedError("sm2: " + o.String())
	}
	return nil
}

// EncrypterOpts configures Encrypt and Decrypt.
// A nil EncrypterOpts is valid and selects OrderC1C3C2.
type EncrypterOpts struct {
	Order Order
}

func (opts *EncrypterOpts) order() (Order, error) {
	if opts == nil || opts.Order == 0 {
		return OrderC1C3C2, nil
	}
	if err := opts.Order.check(); err != nil {
		return 0, err
	}
	return opts.Order, nil
}

// Encrypt encrypts msg to pub. The ephemeral scalar is drawn from rand, or
// from crypto/rand.Reader if rand is nil. The result is C1 ‖ C3 ‖ C2 or
// C1 ‖ C2 ‖ C3 depending on opts, and is Overhead bytes longer than msg.
func Encrypt(rand io.Reader, pub *PublicKey, msg []byte, opts *EncrypterOpts) ([]byte, error) {
	order, err := opts.order()
	if err != nil {
		return nil, err
	}
	if err := pub.check(); err != nil {
		return nil, err
	}

	k, err := modmath.RandomScalar(rand, curve.Params().N)
	if err != nil {
		return nil, fmt.Errorf("sm2: generating ephemeral scalar: %w", err)
	}
	defer destroyInt(k)

	c1, err := curve.ScalarBaseMult(k)
	if err != nil {
		return nil, err
	}
	c1Bytes, err := curve.Marshal(c1)
	if err != nil {
		return nil, err
	}
	shared, err := curve.ScalarMult(k, pub.Point)
	if err != nil {
		return nil, err
	}
	z, err := sharedSecret(shared)
	if err != nil {
		return nil, err
	}
	defer byteutil.Zeroize(z)
	x2, y2 := z[:curve.ByteSize()], z[curve.ByteSize():]

	t := KDF(z, len(msg))
	defer byteutil.Zeroize(t)
	if len(msg) > 0 && byteutil.IsZero(t) {
		return nil, errors.ErrInvalidPlaintext
	}

	c2 := make([]byte, len(msg))
	byteutil.XorBytes(c2, msg, t)
	c3 := sm3.SumMultiple(x2, msg, y2)

	return join(order, c1Bytes, c2, c3[:]), nil
}

// Decrypt decrypts ct with priv. The plaintext is only returned once the
// embedded digest has been verified; on mismatch Decrypt fails with
// ErrIntegrityCheckFailed and the recovered bytes are wiped.
func Decrypt(priv *PrivateKey, ct []byte, opts *EncrypterOpts) ([]byte, error) {
	order, err := opts.order()
	if err != nil {
		return nil, err
	}
	if err := checkPrivate(priv); err != nil {
		return nil, err
	}
	c1Bytes, c2, c3, err := split(order, ct)
	if err != nil {
		return nil, err
	}
	c1, err := curve.Unmarshal(c1Bytes)
	if err != nil {
		return nil, err
	}

	shared, err := curve.ScalarMult(priv.D, c1)
	if err != nil {
		return nil, err
	}
	z, err := sharedSecret(shared)
	if err != nil {
		return nil, err
	}
	defer byteutil.Zeroize(z)
	x2, y2 := z[:curve.ByteSize()], z[curve.ByteSize():]

	t := KDF(z, len(c2))
	defer byteutil.Zeroize(t)
	if len(c2) > 0 && byteutil.IsZero(t) {
		return nil, errors.ErrIntegrityCheckFailed
	}

	msg := make([]byte, len(c2))
	byteutil.XorBytes(msg, c2, t)
	u := sm3.SumMultiple(x2, msg, y2)
	if subtle.ConstantTimeCompare(u[:], c3) != 1 {
		byteutil.Zeroize(msg)
		return nil, errors.ErrIntegrityCheckFailed
	}
	return msg, nil
}

// sharedSecret returns x2 ‖ y2, the fixed-width big-endian coordinates of
// the shared point.
func sharedSecret(p ecc.Point) ([]byte, error) {
	if p.IsInfinity() {
		return nil, errors.StructuralError("sm2: shared point is the point at infinity")
	}
	size := curve.ByteSize()
	z := make([]byte, 2*size)
	p.X.FillBytes(z[:size])
	p.Y.FillBytes(z[size:])
	return z, nil
}
