// Copyright (C) 2019 ProtonTech AG

package sm4

import (
	"crypto/cipher"
	"fmt"

	"github.com/ProtonMail/go-gmsm/errors"
	"github.com/ProtonMail/go-gmsm/internal/byteutil"
)

// Stream encrypts or decrypts a message supplied in pieces. Update returns
// output as soon as whole blocks are available and Final flushes the rest,
// applying or removing padding. A Stream is not safe for concurrent use.
type Stream struct {
	encrypt bool
	padding Padding

	bm  cipher.BlockMode // ECB and CBC
	ctr cipher.Stream    // CTR

	buf  []byte
	done bool
}

// NewEncrypter returns a Stream that encrypts under key. The iv must be
// BlockSize bytes for CBC and CTR and is ignored for ECB.
func NewEncrypter(key, iv []byte, opts *Options) (*Stream, error) {
	return newStream(key, iv, opts, true)
}

// NewDecrypter returns a Stream that decrypts under key. The iv must be
// BlockSize bytes for CBC and CTR and is ignored for ECB.
func NewDecrypter(key, iv []byte, opts *Options) (*Stream, error) {
	return newStream(key, iv, opts, false)
}

func newStream(key, iv []byte, opts *Options, encrypt bool) (*Stream, error) {
	mode, err := opts.mode()
	if err != nil {
		return nil, err
	}
	padding, err := opts.padding()
	if err != nil {
		return nil, err
	}
	block, err := NewCipher(key)
	if err != nil {
		return nil, err
	}
	if mode != ModeECB && len(iv) != BlockSize {
		return nil, errors.NewLengthError("sm4: iv", BlockSize, len(iv))
	}

	s := &Stream{encrypt: encrypt, padding: padding}
	switch {
	case mode == ModeCTR:
		s.ctr = cipher.NewCTR(block, iv)
	case mode == ModeECB && encrypt:
		s.bm = NewECBEncrypter(block)
	case mode == ModeECB:
		s.bm = NewECBDecrypter(block)
	case encrypt:
		s.bm = cipher.NewCBCEncrypter(block, iv)
	default:
		s.bm = cipher.NewCBCDecrypter(block, iv)
	}
	return s, nil
}

var errFinalized = errors.UnsupportedError("sm4: stream already finalized")

// Update processes p and returns the output that is ready.
func (s *Stream) Update(p []byte) ([]byte, error) {
	if s.done {
		return nil, errFinalized
	}
	if s.ctr != nil {
		out := make([]byte, len(p))
		s.ctr.XORKeyStream(out, p)
		return out, nil
	}

	s.buf = append(s.buf, p...)
	n := len(s.buf) - len(s.buf)%BlockSize
	// When decrypting padded data the last block is held back until Final,
	// which is the only place where the padding can be removed.
	if !s.encrypt && s.padding != PaddingNone && n == len(s.buf) && n > 0 {
		n -= BlockSize
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]byte, n)
	s.bm.CryptBlocks(out, s.buf[:n])
	rest := copy(s.buf, s.buf[n:])
	byteutil.Zeroize(s.buf[rest:])
	s.buf = s.buf[:rest]
	return out, nil
}

// Final processes any buffered input and returns the remaining output. The
// Stream cannot be used afterwards.
func (s *Stream) Final() ([]byte, error) {
	if s.done {
		return nil, errFinalized
	}
	s.done = true
	defer byteutil.Zeroize(s.buf)
	if s.ctr != nil {
		return nil, nil
	}

	if s.encrypt {
		padded, err := Pad(s.buf, s.padding)
		if err != nil {
			return nil, err
		}
		if len(padded)%BlockSize != 0 {
			byteutil.Zeroize(padded)
			return nil, fmt.Errorf("sm4: %d trailing bytes: %w", len(padded)%BlockSize, errors.ErrInvalidInputLength)
		}
		s.bm.CryptBlocks(padded, padded)
		return padded, nil
	}

	if len(s.buf)%BlockSize != 0 {
		return nil, fmt.Errorf("sm4: %d trailing bytes: %w", len(s.buf)%BlockSize, errors.ErrInvalidInputLength)
	}
	out := make([]byte, len(s.buf))
	s.bm.CryptBlocks(out, s.buf)
	plain, err := Unpad(out, s.padding)
	if err != nil {
		byteutil.Zeroize(out)
		return nil, err
	}
	return plain, nil
}
