// Copyright (C) 2019 ProtonTech AG

package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	envPublicKey  = "GMCRYPT_SM2_PUBLIC_KEY"
	envPrivateKey = "GMCRYPT_SM2_PRIVATE_KEY"
	envOrder      = "GMCRYPT_SM2_ORDER"
	envSM4Key     = "GMCRYPT_SM4_KEY"
	envSM4IV      = "GMCRYPT_SM4_IV"
	envSM4Mode    = "GMCRYPT_SM4_MODE"
	envSM4Padding = "GMCRYPT_SM4_PADDING"
	envHMACKey    = "GMCRYPT_SM3_HMAC_KEY"
)

// setting returns the flag value if set, otherwise the environment variable,
// otherwise def.
func setting(flag, env, def string) string {
	if flag != "" {
		return flag
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

// requireSetting is setting for values without a default.
func requireSetting(flag, env, name string) (string, error) {
	v := setting(flag, env, "")
	if v == "" {
		return "", fmt.Errorf("missing %s: pass --%s or set $%s", name, name, env)
	}
	return v, nil
}

func decodeHex(name, s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return b, nil
}

// readHex reads hex text from r, ignoring surrounding whitespace.
func readHex(r io.Reader) ([]byte, error) {
	text, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	out, err := hex.DecodeString(string(bytes.TrimSpace(text)))
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return out, nil
}
