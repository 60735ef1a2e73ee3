// Copyright (C) 2019 ProtonTech AG

package sm4

import (
	"bytes"
	"encoding/hex"
	goerrors "errors"
	mathrand "math/rand"
	"testing"

	"github.com/ProtonMail/go-gmsm/errors"
	"github.com/stretchr/testify/require"
)

func fromHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

var (
	testKey = fromHex("0123456789abcdeffedcba9876543210")
	testIV  = fromHex("000102030405060708090a0b0c0d0e0f")
)

// Test vectors from GB/T 32907-2016, Appendix A.
func TestBlockVectors(t *testing.T) {
	tests := []struct {
		plaintext, ciphertext string
	}{
		{"0123456789abcdeffedcba9876543210", "681edf34d206965e86b3e94f536e4246"},
		{"00000000000000000000000000000000", "2677f46b09c122cc975533105bd4a22a"},
	}
	c, err := NewCipher(testKey)
	require.NoError(t, err)
	for i, test := range tests {
		pt, ct := fromHex(test.plaintext), fromHex(test.ciphertext)
		got := make([]byte, BlockSize)
		c.Encrypt(got, pt)
		if !bytes.Equal(got, ct) {
			t.Errorf("#%d: Encrypt = %x, want %x", i, got, ct)
		}
		c.Decrypt(got, got)
		if !bytes.Equal(got, pt) {
			t.Errorf("#%d: Decrypt = %x, want %x", i, got, pt)
		}
	}
}

func TestMillionEncryptions(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}
	c, err := NewCipher(testKey)
	require.NoError(t, err)
	block := append([]byte(nil), testKey...)
	for i := 0; i < 1000000; i++ {
		c.Encrypt(block, block)
	}
	require.Equal(t, "595298c7c6fd271f0402f804c33d3f66", hex.EncodeToString(block))
}

func TestKeyLength(t *testing.T) {
	for _, n := range []int{0, 15, 17, 32} {
		_, err := NewCipher(make([]byte, n))
		var lerr *errors.LengthError
		if !goerrors.As(err, &lerr) {
			t.Fatalf("NewCipher(%d bytes): got %v, want LengthError", n, err)
		}
		require.Equal(t, KeySize, lerr.Want)
		require.Equal(t, n, lerr.Got)
		require.ErrorIs(t, err, errors.ErrInvalidLength)
	}
}

func TestModeVectors(t *testing.T) {
	tests := []struct {
		name       string
		opts       *Options
		iv         []byte
		plaintext  []byte
		ciphertext string
	}{
		{
			name:       "ecb zero block",
			opts:       &Options{Mode: ModeECB, Padding: PaddingNone},
			plaintext:  make([]byte, 16),
			ciphertext: "2677f46b09c122cc975533105bd4a22a",
		},
		{
			name:       "cbc two blocks",
			opts:       &Options{Mode: ModeCBC, Padding: PaddingNone},
			iv:         testIV,
			plaintext:  append(append([]byte(nil), testKey...), testKey...),
			ciphertext: "a9a268883a336315bac0c9c9ff350ab1b236a4a85616d4aabf0a83555c7d4115",
		},
		{
			name:       "cbc pkcs7",
			opts:       nil,
			iv:         testIV,
			plaintext:  []byte("hello world"),
			ciphertext: "bd73e45045b9139bf5d9f533719cfcfd",
		},
		{
			name:       "ctr partial block",
			opts:       &Options{Mode: ModeCTR},
			iv:         testIV,
			plaintext:  append(append([]byte(nil), testKey...), "abcd"...),
			ciphertext: "07bbd906b40da542d4514d1a97fccb7a0e656e2f",
		},
		{
			name:       "ctr counter wraps",
			opts:       &Options{Mode: ModeCTR, Padding: PaddingNone},
			iv:         bytes.Repeat([]byte{0xff}, 16),
			plaintext:  make([]byte, 32),
			ciphertext: "6811af7e097364e786fb45ce5d9a60f02677f46b09c122cc975533105bd4a22a",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ct, err := Encrypt(testKey, test.iv, test.plaintext, test.opts)
			require.NoError(t, err)
			require.Equal(t, test.ciphertext, hex.EncodeToString(ct))

			pt, err := Decrypt(testKey, test.iv, ct, test.opts)
			require.NoError(t, err)
			require.Equal(t, test.plaintext, pt)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	rng := mathrand.New(mathrand.NewSource(1))
	modes := []Mode{ModeECB, ModeCBC, ModeCTR}
	paddings := []Padding{PaddingPKCS7, PaddingZero, PaddingNone}
	for _, mode := range modes {
		for _, padding := range paddings {
			opts := &Options{Mode: mode, Padding: padding}
			for i := 0; i < 20; i++ {
				key := make([]byte, KeySize)
				iv := make([]byte, BlockSize)
				rng.Read(key)
				rng.Read(iv)

				n := rng.Intn(100)
				if padding == PaddingNone && mode != ModeCTR {
					n -= n % BlockSize
				}
				msg := make([]byte, n)
				rng.Read(msg)
				if padding == PaddingZero && n > 0 {
					// Trailing zeros are indistinguishable from padding.
					msg[n-1] |= 1
				}

				ct, err := Encrypt(key, iv, msg, opts)
				require.NoError(t, err, "%v/%v", mode, padding)
				if mode != ModeCTR {
					require.Zero(t, len(ct)%BlockSize)
				} else {
					require.Len(t, ct, n)
				}
				pt, err := Decrypt(key, iv, ct, opts)
				require.NoError(t, err, "%v/%v", mode, padding)
				require.Equal(t, msg, pt, "%v/%v", mode, padding)
			}
		}
	}
}

func TestCTRIsSymmetric(t *testing.T) {
	opts := &Options{Mode: ModeCTR}
	msg := []byte("counter mode encryption and decryption are the same operation")
	ct, err := Encrypt(testKey, testIV, msg, opts)
	require.NoError(t, err)
	again, err := Encrypt(testKey, testIV, ct, opts)
	require.NoError(t, err)
	require.Equal(t, msg, again)
}

func TestIVLength(t *testing.T) {
	for _, mode := range []Mode{ModeCBC, ModeCTR} {
		_, err := Encrypt(testKey, testIV[:8], []byte("x"), &Options{Mode: mode})
		require.ErrorIs(t, err, errors.ErrInvalidLength)
		_, err = Decrypt(testKey, nil, make([]byte, 16), &Options{Mode: mode})
		require.ErrorIs(t, err, errors.ErrInvalidLength)
	}
	// ECB does not use an IV.
	_, err := Encrypt(testKey, nil, make([]byte, 16), &Options{Mode: ModeECB})
	require.NoError(t, err)
}

func TestInputLength(t *testing.T) {
	for _, mode := range []Mode{ModeECB, ModeCBC} {
		_, err := Encrypt(testKey, testIV, make([]byte, 17), &Options{Mode: mode, Padding: PaddingNone})
		require.ErrorIs(t, err, errors.ErrInvalidInputLength)
		require.ErrorIs(t, err, errors.ErrInvalidLength)

		_, err = Decrypt(testKey, testIV, make([]byte, 20), &Options{Mode: mode})
		require.ErrorIs(t, err, errors.ErrInvalidInputLength)

		_, err = Decrypt(testKey, testIV, nil, &Options{Mode: mode, Padding: PaddingPKCS7})
		require.ErrorIs(t, err, errors.ErrInvalidInputLength)
	}
}

func TestUnknownEnums(t *testing.T) {
	_, err := Encrypt(testKey, testIV, nil, &Options{Mode: Mode(9)})
	require.ErrorIs(t, err, errors.ErrUnsupported)
	_, err = Encrypt(testKey, testIV, nil, &Options{Padding: Padding(9)})
	require.ErrorIs(t, err, errors.ErrUnsupported)
	_, err = Pad(nil, Padding(7))
	require.ErrorIs(t, err, errors.ErrUnsupported)
	_, err = Unpad(nil, Padding(7))
	require.ErrorIs(t, err, errors.ErrUnsupported)
}

func TestParse(t *testing.T) {
	for _, mode := range []Mode{ModeECB, ModeCBC, ModeCTR} {
		got, err := ParseMode(mode.String())
		require.NoError(t, err)
		require.Equal(t, mode, got)
	}
	got, err := ParseMode("ctr")
	require.NoError(t, err)
	require.Equal(t, ModeCTR, got)
	_, err = ParseMode("ofb")
	require.ErrorIs(t, err, errors.ErrUnsupported)

	for _, padding := range []Padding{PaddingPKCS7, PaddingZero, PaddingNone} {
		got, err := ParsePadding(padding.String())
		require.NoError(t, err)
		require.Equal(t, padding, got)
	}
	_, err = ParsePadding("iso10126")
	require.ErrorIs(t, err, errors.ErrUnsupported)
	require.Equal(t, "Mode(9)", Mode(9).String())
}

func TestPad(t *testing.T) {
	tests := []struct {
		in      int
		padding Padding
		out     int
	}{
		{0, PaddingPKCS7, 16},
		{15, PaddingPKCS7, 16},
		{16, PaddingPKCS7, 32},
		{0, PaddingZero, 0},
		{1, PaddingZero, 16},
		{16, PaddingZero, 16},
		{5, PaddingNone, 5},
	}
	for _, test := range tests {
		got, err := Pad(make([]byte, test.in), test.padding)
		require.NoError(t, err)
		require.Lenf(t, got, test.out, "Pad(%d bytes, %v)", test.in, test.padding)
	}

	padded, err := Pad([]byte("abc"), PaddingPKCS7)
	require.NoError(t, err)
	require.Equal(t, append([]byte("abc"), bytes.Repeat([]byte{13}, 13)...), padded)
}

func TestUnpadPKCS7(t *testing.T) {
	valid := append(bytes.Repeat([]byte{'a'}, 12), 4, 4, 4, 4)
	got, err := Unpad(valid, PaddingPKCS7)
	require.NoError(t, err)
	require.Equal(t, bytes.Repeat([]byte{'a'}, 12), got)

	full := bytes.Repeat([]byte{16}, 16)
	got, err = Unpad(full, PaddingPKCS7)
	require.NoError(t, err)
	require.Empty(t, got)

	bad := map[string][]byte{
		"zero final byte":   append(make([]byte, 15), 0),
		"final byte > 16":   append(make([]byte, 15), 17),
		"inconsistent pad":  append(bytes.Repeat([]byte{'a'}, 12), 4, 3, 4, 4),
		"final byte 0xff":   append(make([]byte, 15), 0xff),
		"pad past boundary": append(bytes.Repeat([]byte{'a'}, 15), 2),
	}
	for name, data := range bad {
		t.Run(name, func(t *testing.T) {
			_, err := Unpad(data, PaddingPKCS7)
			require.ErrorIs(t, err, errors.ErrInvalidPadding)
			require.ErrorIs(t, err, errors.ErrInvalidEncoding)
		})
	}
}

func TestUnpadZero(t *testing.T) {
	got, err := Unpad(append([]byte("abc"), make([]byte, 13)...), PaddingZero)
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), got)

	// At most BlockSize-1 bytes are stripped.
	got, err = Unpad(make([]byte, 16), PaddingZero)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestDecryptBadPadding(t *testing.T) {
	// The block decrypts to zeros, and 0x00 is not a PKCS#7 length.
	ct, err := Encrypt(testKey, nil, append(make([]byte, 15), 0), &Options{Mode: ModeECB, Padding: PaddingNone})
	require.NoError(t, err)
	_, err = Decrypt(testKey, nil, ct, &Options{Mode: ModeECB, Padding: PaddingPKCS7})
	require.ErrorIs(t, err, errors.ErrInvalidPadding)
}

func TestStreamMatchesOneShot(t *testing.T) {
	rng := mathrand.New(mathrand.NewSource(2))
	msg := make([]byte, 200)
	rng.Read(msg)
	msg[len(msg)-1] = 0x5a

	for _, opts := range []*Options{
		{Mode: ModeECB, Padding: PaddingPKCS7},
		{Mode: ModeCBC, Padding: PaddingPKCS7},
		{Mode: ModeCBC, Padding: PaddingZero},
		{Mode: ModeCTR},
	} {
		want, err := Encrypt(testKey, testIV, msg, opts)
		require.NoError(t, err)

		enc, err := NewEncrypter(testKey, testIV, opts)
		require.NoError(t, err)
		ct := feed(t, rng, enc, msg)
		require.Equal(t, want, ct, "%v/%v", opts.Mode, opts.Padding)

		dec, err := NewDecrypter(testKey, testIV, opts)
		require.NoError(t, err)
		pt := feed(t, rng, dec, ct)
		require.Equal(t, msg, pt, "%v/%v", opts.Mode, opts.Padding)
	}
}

func feed(t *testing.T, rng *mathrand.Rand, s *Stream, in []byte) []byte {
	t.Helper()
	var out []byte
	for len(in) > 0 {
		n := rng.Intn(40)
		if n > len(in) {
			n = len(in)
		}
		chunk, err := s.Update(in[:n])
		require.NoError(t, err)
		out = append(out, chunk...)
		in = in[n:]
	}
	last, err := s.Final()
	require.NoError(t, err)
	return append(out, last...)
}

func TestStreamFinalized(t *testing.T) {
	s, err := NewEncrypter(testKey, testIV, nil)
	require.NoError(t, err)
	_, err = s.Final()
	require.NoError(t, err)
	_, err = s.Update([]byte("late"))
	require.ErrorIs(t, err, errors.ErrUnsupported)
	_, err = s.Final()
	require.ErrorIs(t, err, errors.ErrUnsupported)
}

func TestStreamHoldsBackLastBlock(t *testing.T) {
	ct, err := Encrypt(testKey, testIV, []byte("0123456789abcdef0123"), nil)
	require.NoError(t, err)
	require.Len(t, ct, 32)

	dec, err := NewDecrypter(testKey, testIV, nil)
	require.NoError(t, err)
	out, err := dec.Update(ct)
	require.NoError(t, err)
	require.Equal(t, []byte("0123456789abcdef"), out)
	out, err = dec.Final()
	require.NoError(t, err)
	require.Equal(t, []byte("0123"), out)
}

func BenchmarkEncryptBlock(b *testing.B) {
	c, _ := NewCipher(testKey)
	buf := make([]byte, BlockSize)
	b.SetBytes(BlockSize)
	for i := 0; i < b.N; i++ {
		c.Encrypt(buf, buf)
	}
}
