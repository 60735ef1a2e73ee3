// Copyright (C) 2019 ProtonTech AG

// Command gmcrypt exposes the SM2, SM3 and SM4 primitives on the command
// line.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	envLogLevel = "GMCRYPT_LOG_LEVEL"
	envFile     = ".env"
)

// gmcryptCli carries the streams and entropy source used by every command.
type gmcryptCli struct {
	in   io.Reader
	out  io.Writer
	err  io.Writer
	rand io.Reader // nil means crypto/rand
}

type rootOptions struct {
	logLevel string
	envFile  string
}

func newRootCommand(cli *gmcryptCli) *cobra.Command {
	opts := &rootOptions{}
	var flags *pflag.FlagSet

	cmd := &cobra.Command{
		Use:           "gmcrypt COMMAND",
		Short:         "SM2 encryption, SM3 hashing and SM4 encryption",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return preRun(cli, opts, flags)
		},
	}
	cmd.SetIn(cli.in)
	cmd.SetOut(cli.out)
	cmd.SetErr(cli.err)

	flags = cmd.PersistentFlags()
	flags.StringVarP(&opts.logLevel, "log-level", "l", "", "Set the logging level (\"debug\", \"info\", \"warn\", \"error\"); defaults to $"+envLogLevel+" or \"warn\"")
	flags.StringVar(&opts.envFile, "env-file", envFile, "Read default settings from this dotenv file if it exists")

	cmd.AddCommand(
		newKeygenCommand(cli),
		newSM2Command(cli),
		newSM3Command(cli),
		newSM4Command(cli),
	)
	return cmd
}

func preRun(cli *gmcryptCli, opts *rootOptions, flags *pflag.FlagSet) error {
	if err := godotenv.Load(opts.envFile); err != nil {
		// A missing default file is normal; a file named explicitly must load.
		if flags.Changed("env-file") {
			return fmt.Errorf("loading %s: %w", opts.envFile, err)
		}
	}

	logrus.SetOutput(cli.err)
	level := opts.logLevel
	if level == "" {
		level = os.Getenv(envLogLevel)
	}
	if level == "" {
		level = "warn"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("unable to parse logging level: %s", level)
	}
	logrus.SetLevel(lvl)
	return nil
}

func main() {
	cli := &gmcryptCli{in: os.Stdin, out: os.Stdout, err: os.Stderr}
	if err := newRootCommand(cli).Execute(); err != nil {
		logrus.SetOutput(os.Stderr)
		logrus.Error(err)
		os.Exit(1)
	}
}
