// Copyright (C) 2019 ProtonTech AG

// Package sm2 implements SM2 public key encryption as defined in
// GB/T 32918.4-2016 over the sm2p256v1 curve.
package sm2

import (
	"encoding/hex"
	"fmt"
	"io"
	"math/big"

	"github.com/ProtonMail/go-gmsm/ecc"
	"github.com/ProtonMail/go-gmsm/errors"
	"github.com/ProtonMail/go-gmsm/internal/byteutil"
	"github.com/ProtonMail/go-gmsm/modmath"
)

const (
	// PrivateKeySize is the length of an encoded private scalar.
	PrivateKeySize = 32
	// PublicKeySize is the length of an uncompressed public point.
	PublicKeySize = 65
)

var curve = ecc.SM2P256()

// PublicKey is an SM2 public key, a point Q on the curve.
type PublicKey struct {
	ecc.Point
}

// PrivateKey is an SM2 key pair. The invariant Q = D·G holds for every key
// returned by this package.
type PrivateKey struct {
	PublicKey
	D *big.Int
}

// GenerateKey draws a private scalar uniformly from [1, n-1] and derives the
// matching public key. A nil rand means crypto/rand.Reader.
func GenerateKey(rand io.Reader) (*PrivateKey, error) {
	d, err := modmath.RandomScalar(rand, curve.Params().N)
	if err != nil {
		return nil, fmt.Errorf("sm2: generating private key: %w", err)
	}
	return NewPrivateKey(d)
}

// NewPrivateKey returns the key pair for the private scalar d.
func NewPrivateKey(d *big.Int) (*PrivateKey, error) {
	pub, err := DerivePublicKey(d)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{PublicKey: *pub, D: new(big.Int).Set(d)}, nil
}

// DerivePublicKey computes Q = d·G.
func DerivePublicKey(d *big.Int) (*PublicKey, error) {
	if err := checkScalar(d); err != nil {
		return nil, err
	}
	q, err := curve.ScalarBaseMult(d)
	if err != nil {
		return nil, err
	}
	if q.IsInfinity() || !curve.IsOnCurve(q) {
		return nil, errors.ErrInvalidKeyPair
	}
	return &PublicKey{Point: q}, nil
}

func checkPrivate(priv *PrivateKey) error {
	if priv == nil {
		return fmt.Errorf("sm2: missing private key: %w", errors.ErrInvalidKey)
	}
	return checkScalar(priv.D)
}

func checkScalar(d *big.Int) error {
	if d == nil || d.Sign() <= 0 || d.Cmp(curve.Params().N) >= 0 {
		return fmt.Errorf("sm2: private scalar outside [1, n-1]: %w", errors.ErrInvalidKey)
	}
	return nil
}

// Validate checks that priv is internally consistent.
func Validate(priv *PrivateKey) error {
	if err := checkPrivate(priv); err != nil {
		return err
	}
	return ValidateKeyPair(priv, &priv.PublicKey)
}

// ValidateKeyPair checks that d lies in [1, n-1], that pub is on the curve
// and that pub = d·G.
func ValidateKeyPair(priv *PrivateKey, pub *PublicKey) error {
	if err := checkPrivate(priv); err != nil {
		return err
	}
	if err := pub.check(); err != nil {
		return err
	}
	q, err := DerivePublicKey(priv.D)
	if err != nil {
		return err
	}
	if !q.Equal(pub.Point) {
		return errors.ErrInvalidKeyPair
	}
	return nil
}

func (pub *PublicKey) check() error {
	if pub == nil || pub.IsInfinity() || !curve.IsOnCurve(pub.Point) {
		return fmt.Errorf("sm2: public key: %w", errors.ErrPointNotOnCurve)
	}
	return nil
}

// Bytes returns the 65-byte uncompressed encoding of the public point. It
// fails if the point is not a valid public key.
func (pub *PublicKey) Bytes() ([]byte, error) {
	if err := pub.check(); err != nil {
		return nil, err
	}
	return curve.Marshal(pub.Point)
}

// Hex returns the public point encoding as 130 lowercase hex characters.
func (pub *PublicKey) Hex() (string, error) {
	b, err := pub.Bytes()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// ParsePublicKey decodes an uncompressed point and checks that it lies on
// the curve.
func ParsePublicKey(data []byte) (*PublicKey, error) {
	p, err := curve.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &PublicKey{Point: p}, nil
}

// ParsePublicKeyHex is ParsePublicKey for hex input. Case is ignored.
func ParsePublicKeyHex(s string) (*PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.StructuralError("sm2: public key hex: " + err.Error())
	}
	return ParsePublicKey(b)
}

// Bytes returns the private scalar as 32 big-endian bytes. A scalar outside
// [1, n-1], including one wiped by Destroy, is rejected.
func (priv *PrivateKey) Bytes() ([]byte, error) {
	if err := checkPrivate(priv); err != nil {
		return nil, err
	}
	return modmath.ToBytes(priv.D, PrivateKeySize)
}

// Hex returns the private scalar as 64 lowercase hex characters.
func (priv *PrivateKey) Hex() (string, error) {
	if err := checkPrivate(priv); err != nil {
		return "", err
	}
	return modmath.ToHex(priv.D, PrivateKeySize)
}

// Public returns the public half of the key pair.
func (priv *PrivateKey) Public() *PublicKey {
	return &priv.PublicKey
}

// ParsePrivateKey decodes a 32-byte big-endian private scalar and derives
// its public key.
func ParsePrivateKey(data []byte) (*PrivateKey, error) {
	if len(data) != PrivateKeySize {
		return nil, errors.NewLengthError("sm2: private key", PrivateKeySize, len(data))
	}
	d := modmath.FromBytes(data)
	defer destroyInt(d)
	return NewPrivateKey(d)
}

// ParsePrivateKeyHex is ParsePrivateKey for hex input. Case is ignored.
func ParsePrivateKeyHex(s string) (*PrivateKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.StructuralError("sm2: private key hex: " + err.Error())
	}
	defer byteutil.Zeroize(b)
	return ParsePrivateKey(b)
}

// Destroy overwrites the private scalar. The key must not be used
// afterwards.
func (priv *PrivateKey) Destroy() {
	if priv != nil && priv.D != nil {
		destroyInt(priv.D)
	}
}

func destroyInt(v *big.Int) {
	words := v.Bits()
	for i := range words {
		words[i] = 0
	}
	v.SetInt64(0)
}
