// Copyright (C) 2019 ProtonTech AG

package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ProtonMail/go-gmsm/sm2"
)

func newKeygenCommand(cli *gmcryptCli) *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate an SM2 key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeygen(cli)
		},
	}
}

func runKeygen(cli *gmcryptCli) error {
	priv, err := sm2.GenerateKey(cli.rand)
	if err != nil {
		return err
	}
	defer priv.Destroy()

	privHex, err := priv.Hex()
	if err != nil {
		return err
	}
	pubHex, err := priv.PublicKey.Hex()
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"op": "sm2.keygen"}).Debug("Generated key pair")
	_, err = fmt.Fprintf(cli.out, "private: %s\npublic: %s\n", privHex, pubHex)
	return err
}

type sm2Options struct {
	key   string
	order string
	asn1  bool
}

func newSM2Command(cli *gmcryptCli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sm2",
		Short: "SM2 public key encryption",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(newSM2EncryptCommand(cli), newSM2DecryptCommand(cli))
	return cmd
}

func installSM2Flags(cmd *cobra.Command, opts *sm2Options, keyFlag, keyUsage string) {
	flags := cmd.Flags()
	flags.StringVar(&opts.key, keyFlag, "", keyUsage)
	flags.StringVar(&opts.order, "order", "", "Ciphertext layout, \"c1c3c2\" or \"c1c2c3\" (default c1c3c2)")
	flags.BoolVar(&opts.asn1, "asn1", false, "Use the DER ciphertext encoding")
}

func newSM2EncryptCommand(cli *gmcryptCli) *cobra.Command {
	opts := &sm2Options{}
	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt standard input to a public key, writing hex",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSM2Encrypt(cli, opts)
		},
	}
	installSM2Flags(cmd, opts, "public-key", "Recipient public key in hex (or $"+envPublicKey+")")
	return cmd
}

func newSM2DecryptCommand(cli *gmcryptCli) *cobra.Command {
	opts := &sm2Options{}
	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt hex ciphertext from standard input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSM2Decrypt(cli, opts)
		},
	}
	installSM2Flags(cmd, opts, "private-key", "Private key in hex (or $"+envPrivateKey+")")
	return cmd
}

func (opts *sm2Options) encrypterOpts() (*sm2.EncrypterOpts, error) {
	order, err := sm2.ParseOrder(setting(opts.order, envOrder, "c1c3c2"))
	if err != nil {
		return nil, err
	}
	return &sm2.EncrypterOpts{Order: order}, nil
}

func runSM2Encrypt(cli *gmcryptCli, opts *sm2Options) error {
	keyHex, err := requireSetting(opts.key, envPublicKey, "public-key")
	if err != nil {
		return err
	}
	pub, err := sm2.ParsePublicKeyHex(keyHex)
	if err != nil {
		return err
	}
	eopts, err := opts.encrypterOpts()
	if err != nil {
		return err
	}

	msg, err := io.ReadAll(cli.in)
	if err != nil {
		return err
	}
	ct, err := sm2.Encrypt(cli.rand, pub, msg, eopts)
	if err != nil {
		return err
	}
	if opts.asn1 {
		if ct, err = sm2.MarshalASN1(ct, eopts.Order); err != nil {
			return err
		}
	}
	logrus.WithFields(logrus.Fields{
		"op":    "sm2.encrypt",
		"order": eopts.Order,
		"asn1":  opts.asn1,
		"bytes": len(msg),
	}).Debug("Encrypted message")
	_, err = fmt.Fprintln(cli.out, hex.EncodeToString(ct))
	return err
}

func runSM2Decrypt(cli *gmcryptCli, opts *sm2Options) error {
	keyHex, err := requireSetting(opts.key, envPrivateKey, "private-key")
	if err != nil {
		return err
	}
	priv, err := sm2.ParsePrivateKeyHex(keyHex)
	if err != nil {
		return err
	}
	defer priv.Destroy()
	eopts, err := opts.encrypterOpts()
	if err != nil {
		return err
	}

	ct, err := readHex(cli.in)
	if err != nil {
		return err
	}
	if opts.asn1 {
		if ct, err = sm2.UnmarshalASN1(ct, eopts.Order); err != nil {
			return err
		}
	}
	msg, err := sm2.Decrypt(priv, ct, eopts)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"op":    "sm2.decrypt",
		"order": eopts.Order,
		"bytes": len(msg),
	}).Debug("Decrypted message")
	_, err = cli.out.Write(msg)
	return err
}
