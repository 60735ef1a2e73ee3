// Copyright (C) 2019 ProtonTech AG

package main

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ProtonMail/go-gmsm/internal/byteutil"
	"github.com/ProtonMail/go-gmsm/sm4"
)

const chunkSize = 32 * 1024

type sm4Options struct {
	key     string
	iv      string
	mode    string
	padding string
}

func newSM4Command(cli *gmcryptCli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sm4",
		Short: "SM4 block cipher encryption",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(
		newSM4CryptCommand(cli, "encrypt", "Encrypt standard input", true),
		newSM4CryptCommand(cli, "decrypt", "Decrypt standard input", false),
	)
	return cmd
}

func newSM4CryptCommand(cli *gmcryptCli, use, short string, encrypt bool) *cobra.Command {
	opts := &sm4Options{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSM4(cli, opts, encrypt)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.key, "key", "", "16-byte key in hex (or $"+envSM4Key+")")
	flags.StringVar(&opts.iv, "iv", "", "16-byte IV in hex for CBC and CTR (or $"+envSM4IV+")")
	flags.StringVar(&opts.mode, "mode", "", "Mode of operation: ecb, cbc or ctr (default cbc)")
	flags.StringVar(&opts.padding, "padding", "", "Padding: pkcs7, zero or none (default pkcs7)")
	return cmd
}

func (opts *sm4Options) parse() (key, iv []byte, options *sm4.Options, err error) {
	keyHex, err := requireSetting(opts.key, envSM4Key, "key")
	if err != nil {
		return nil, nil, nil, err
	}
	if key, err = decodeHex("key", keyHex); err != nil {
		return nil, nil, nil, err
	}
	if ivHex := setting(opts.iv, envSM4IV, ""); ivHex != "" {
		if iv, err = decodeHex("iv", ivHex); err != nil {
			return nil, nil, nil, err
		}
	}
	mode, err := sm4.ParseMode(setting(opts.mode, envSM4Mode, "cbc"))
	if err != nil {
		return nil, nil, nil, err
	}
	padding, err := sm4.ParsePadding(setting(opts.padding, envSM4Padding, "pkcs7"))
	if err != nil {
		return nil, nil, nil, err
	}
	return key, iv, &sm4.Options{Mode: mode, Padding: padding}, nil
}

func runSM4(cli *gmcryptCli, opts *sm4Options, encrypt bool) error {
	key, iv, options, err := opts.parse()
	if err != nil {
		return err
	}
	defer byteutil.Zeroize(key)

	newStream := sm4.NewDecrypter
	if encrypt {
		newStream = sm4.NewEncrypter
	}
	s, err := newStream(key, iv, options)
	if err != nil {
		return err
	}

	var total int64
	buf := make([]byte, chunkSize)
	for {
		n, rerr := cli.in.Read(buf)
		if n > 0 {
			total += int64(n)
			out, err := s.Update(buf[:n])
			if err != nil {
				return err
			}
			if _, err := cli.out.Write(out); err != nil {
				return err
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return rerr
		}
	}
	out, err := s.Final()
	if err != nil {
		return err
	}
	if _, err := cli.out.Write(out); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"op":      "sm4",
		"encrypt": encrypt,
		"mode":    options.Mode,
		"padding": options.Padding,
		"bytes":   total,
	}).Debug("Processed input")
	return nil
}
