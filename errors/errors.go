// Copyright (C) 2019 ProtonTech AG

// Package errors contains common error types for the SM2, SM3 and SM4
// packages.
//
// Every failure is reported through one of the sentinel values below. The
// finer-grained sentinels wrap a coarser family, so callers can test either
// level with errors.Is:
//
//	errors.Is(err, ErrInvalidPadding)  // the precise condition
//	errors.Is(err, ErrInvalidEncoding) // the family it belongs to
package errors

import (
	goerrors "errors"
	"fmt"
)

// Families.
var (
	// ErrInvalidLength is returned for a key, IV, block, or buffer of the
	// wrong size.
	ErrInvalidLength = goerrors.New("gmsm: invalid length")

	// ErrInvalidEncoding is returned for malformed input bytes or text.
	ErrInvalidEncoding = goerrors.New("gmsm: invalid encoding")

	// ErrUnsupported is returned for operations outside the supported
	// domain, such as negative exponents or unknown enum values.
	ErrUnsupported = goerrors.New("gmsm: unsupported operation")

	// ErrDivisionByZero is returned when a divisor or modulus is zero.
	ErrDivisionByZero = goerrors.New("gmsm: division by zero")

	// ErrNoInverse is returned when a modular inverse does not exist.
	ErrNoInverse = goerrors.New("gmsm: no modular inverse exists")

	// ErrPointNotOnCurve is returned when an externally supplied point does
	// not satisfy the curve equation.
	ErrPointNotOnCurve = goerrors.New("gmsm: point not on curve")

	// ErrIntegrityCheckFailed is returned when an SM2 ciphertext digest
	// does not match the recovered plaintext.
	ErrIntegrityCheckFailed = goerrors.New("gmsm: integrity check failed")

	// ErrInvalidKey is returned for key material that is structurally
	// valid but inconsistent.
	ErrInvalidKey = goerrors.New("gmsm: invalid key")

	// ErrRandomSource is returned when the random source fails or keeps
	// producing unusable values.
	ErrRandomSource = goerrors.New("gmsm: random source failure")
)

// Precise conditions.
var (
	ErrValueTooLarge          = fmt.Errorf("%w: value too large", ErrInvalidLength)
	ErrInvalidInputLength     = fmt.Errorf("%w: input not a multiple of the block size", ErrInvalidLength)
	ErrInvalidPadding         = fmt.Errorf("%w: bad padding", ErrInvalidEncoding)
	ErrUnsupportedPointFormat = fmt.Errorf("%w: unsupported point format", ErrInvalidEncoding)
	ErrInvalidScalar          = fmt.Errorf("%w: negative scalar", ErrUnsupported)
	ErrInvalidKeyPair         = fmt.Errorf("%w: public key does not match private key", ErrInvalidKey)
	ErrInvalidPlaintext       = fmt.Errorf("%w: degenerate key stream", ErrInvalidKey)
)

// LengthError is returned when a buffer does not have the size an operation
// requires. It carries the expected and actual sizes but never the contents.
type LengthError struct {
	Op   string
	Want int
	Got  int
	Err  error
}

// NewLengthError returns a LengthError in the ErrInvalidLength family.
func NewLengthError(op string, want, got int) *LengthError {
	return &LengthError{Op: op, Want: want, Got: got, Err: ErrInvalidLength}
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("%s: %v: got %d bytes, want %d", e.Op, e.Err, e.Got, e.Want)
}

func (e *LengthError) Unwrap() error {
	return e.Err
}

// UnsupportedError indicates that an enumerated value is not known to the
// package.
type UnsupportedError string

func (s UnsupportedError) Error() string {
	return "gmsm: unsupported: " + string(s)
}

func (s UnsupportedError) Unwrap() error {
	return ErrUnsupported
}

// StructuralError is returned when input is syntactically invalid.
type StructuralError string

func (s StructuralError) Error() string {
	return "gmsm: invalid data: " + string(s)
}

func (s StructuralError) Unwrap() error {
	return ErrInvalidEncoding
}
