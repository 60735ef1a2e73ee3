// Copyright (C) 2019 ProtonTech AG

package main

import (
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ProtonMail/go-gmsm/sm3"
)

type sm3Options struct {
	hmacKey string
}

func newSM3Command(cli *gmcryptCli) *cobra.Command {
	opts := &sm3Options{}
	cmd := &cobra.Command{
		Use:   "sm3 [FILE...]",
		Short: "Print SM3 digests of files or standard input",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSM3(cli, opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.hmacKey, "hmac-key", "", "Compute HMAC-SM3 with this hex key (or $"+envHMACKey+")")
	return cmd
}

func runSM3(cli *gmcryptCli, opts *sm3Options, files []string) error {
	newHash := sm3.New
	if keyHex := setting(opts.hmacKey, envHMACKey, ""); keyHex != "" {
		key, err := decodeHex("hmac-key", keyHex)
		if err != nil {
			return err
		}
		newHash = func() hash.Hash { return sm3.NewHMAC(key) }
	}

	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, name := range files {
		sum, n, err := digestFile(cli, newHash(), name)
		if err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{"op": "sm3", "file": name, "bytes": n}).Debug("Hashed input")
		if _, err := fmt.Fprintf(cli.out, "%x  %s\n", sum, name); err != nil {
			return err
		}
	}
	return nil
}

func digestFile(cli *gmcryptCli, h hash.Hash, name string) ([]byte, int64, error) {
	var r io.Reader = cli.in
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, 0, err
		}
		defer f.Close()
		r = f
	}
	n, err := io.Copy(h, r)
	if err != nil {
		return nil, n, err
	}
	return h.Sum(nil), n, nil
}
