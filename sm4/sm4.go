// Copyright (C) 2019 ProtonTech AG

package sm4

import (
	"github.com/ProtonMail/go-gmsm/internal/byteutil"
)

// Encrypt encrypts plaintext under key in one call. With ECB or CBC the
// padded input must be a whole number of blocks; CTR ignores the padding
// option and produces ciphertext of the plaintext's length.
func Encrypt(key, iv, plaintext []byte, opts *Options) ([]byte, error) {
	s, err := NewEncrypter(key, iv, opts)
	if err != nil {
		return nil, err
	}
	return run(s, plaintext)
}

// Decrypt reverses Encrypt with the same key, iv and options.
func Decrypt(key, iv, ciphertext []byte, opts *Options) ([]byte, error) {
	s, err := NewDecrypter(key, iv, opts)
	if err != nil {
		return nil, err
	}
	return run(s, ciphertext)
}

func run(s *Stream, in []byte) ([]byte, error) {
	head, err := s.Update(in)
	if err != nil {
		return nil, err
	}
	tail, err := s.Final()
	if err != nil {
		byteutil.Zeroize(head)
		return nil, err
	}
	if len(head) == 0 {
		if tail == nil {
			return []byte{}, nil
		}
		return tail, nil
	}
	return append(head, tail...), nil
}
