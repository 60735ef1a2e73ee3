// Copyright (C) 2019 ProtonTech AG

package sm4

import (
	"fmt"
	"strings"

	"github.com/ProtonMail/go-gmsm/errors"
)

// Mode is an SM4 mode of operation.
type Mode uint8

// Supported modes of operation.
const (
	ModeECB = Mode(1)
	ModeCBC = Mode(2)
	ModeCTR = Mode(3)
)

func (m Mode) String() string {
	switch m {
	case ModeECB:
		return "ECB"
	case ModeCBC:
		return "CBC"
	case ModeCTR:
		return "CTR"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// ParseMode maps a case-insensitive mode name to its Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(s) {
	case "ECB":
		return ModeECB, nil
	case "CBC":
		return ModeCBC, nil
	case "CTR":
		return ModeCTR, nil
	}
	return 0, errors.UnsupportedError("sm4: mode " + s)
}

// Padding is a block padding scheme.
type Padding uint8

// Supported padding schemes.
const (
	PaddingPKCS7 = Padding(1)
	PaddingZero  = Padding(2)
	PaddingNone  = Padding(3)
)

func (p Padding) String() string {
	switch p {
	case PaddingPKCS7:
		return "PKCS7"
	case PaddingZero:
		return "Zero"
	case PaddingNone:
		return "None"
	}
	return fmt.Sprintf("Padding(%d)", uint8(p))
}

// ParsePadding maps a case-insensitive padding name to its Padding.
func ParsePadding(s string) (Padding, error) {
	switch strings.ToLower(s) {
	case "pkcs7", "pkcs#7":
		return PaddingPKCS7, nil
	case "zero":
		return PaddingZero, nil
	case "none":
		return PaddingNone, nil
	}
	return 0, errors.UnsupportedError("sm4: padding " + s)
}

// Options selects the mode of operation and padding scheme.
// A nil Options is valid and results in CBC with PKCS#7 padding.
type Options struct {
	Mode    Mode
	Padding Padding
}

var defaultOptions = &Options{
	Mode:    ModeCBC,
	Padding: PaddingPKCS7,
}

func (o *Options) mode() (Mode, error) {
	if o == nil || o.Mode == 0 {
		return defaultOptions.Mode, nil
	}
	switch o.Mode {
	case ModeECB, ModeCBC, ModeCTR:
		return o.Mode, nil
	}
	return 0, errors.UnsupportedError("sm4: " + o.Mode.String())
}

func (o *Options) padding() (Padding, error) {
	if o == nil || o.Padding == 0 {
		return defaultOptions.Padding, nil
	}
	switch o.Padding {
	case PaddingPKCS7, PaddingZero, PaddingNone:
		return o.Padding, nil
	}
	return 0, errors.UnsupportedError("sm4: " + o.Padding.String())
}
