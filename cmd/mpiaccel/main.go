/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Command mpiaccel evaluates big-number operations on the accelerator
// engine from the command line. Operands are decimal by default, or hex
// with --hex.
package main

import (
	"fmt"
	"os"

	"github.com/hwcrypto/mpiaccel/accel"
	"github.com/hwcrypto/mpiaccel/accel/factory"
	"github.com/hwcrypto/mpiaccel/common/flogging"
	"github.com/hwcrypto/mpiaccel/mpi"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	configFile string
	hexInput   bool
)

func main() {
	flogging.Init(flogging.Config{
		Format:  "console",
		LogSpec: os.Getenv("MPIACCEL_LOGGING_SPEC"),
	})

	cmd := rootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mpiaccel",
		Short: "Hardware-accelerated multi-precision arithmetic",
	}
	flags := pflag.NewFlagSet("mpiaccel", pflag.ContinueOnError)
	flags.StringVar(&configFile, "config", "", "path to a provider configuration file")
	flags.BoolVar(&hexInput, "hex", false, "parse operands as hexadecimal")
	cmd.PersistentFlags().AddFlagSet(flags)

	cmd.AddCommand(
		operationCommand("mul [X] [Y]", "Compute X * Y", 2,
			func(p *accel.Provider, z *mpi.Int, ops []*mpi.Int) error {
				return p.Mul(z, ops[0], ops[1])
			}),
		operationCommand("modmult [X] [Y] [M]", "Compute (X * Y) mod M", 3,
			func(p *accel.Provider, z *mpi.Int, ops []*mpi.Int) error {
				return p.ModMult(z, ops[0], ops[1], ops[2])
			}),
		operationCommand("modexp [X] [Y] [M]", "Compute X^Y mod M", 3,
			func(p *accel.Provider, z *mpi.Int, ops []*mpi.Int) error {
				return p.ModExp(z, ops[0], ops[1], ops[2], nil)
			}),
	)
	return cmd
}

func operationCommand(use, short string, arity int, run func(*accel.Provider, *mpi.Int, []*mpi.Int) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(arity),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := newProvider()
			if err != nil {
				return err
			}

			base := 10
			if hexInput {
				base = 16
			}
			ops := make([]*mpi.Int, arity)
			for i, arg := range args {
				ops[i] = mpi.New()
				if err := ops[i].SetString(arg, base); err != nil {
					return errors.Wrapf(err, "operand %d", i+1)
				}
			}

			z := mpi.New()
			if err := run(provider, z, ops); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), z.String())
			return nil
		},
	}
}

func newProvider() (*accel.Provider, error) {
	if configFile == "" {
		return factory.New(nil)
	}

	v := viper.New()
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "reading config %s", configFile)
	}
	return factory.NewFromViper(v)
}
