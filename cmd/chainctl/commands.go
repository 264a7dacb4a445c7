package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/congo-pay/congo_chain/internal/genesis"
	"github.com/congo-pay/congo_chain/internal/logging"
	"github.com/congo-pay/congo_chain/internal/runtime"
	"github.com/congo-pay/congo_chain/internal/types"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		logLevel  string
		logFormat string
	)
	rootCmd := &cobra.Command{
		Use:           "chainctl",
		Short:         "Execute pallet runtime blocks locally",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level for runtime diagnostics")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text or json")

	newRuntime := func() *runtime.Runtime {
		logger := logging.NewWithWriter(stderr, logLevel, logFormat)
		return runtime.New(runtime.WithReporter(runtime.NewLogReporter(logger)))
	}

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the two-block transfer and claim scenario and print the final state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(stdout, newRuntime())
		},
	}

	var (
		genesisFile string
		keepGoing   bool
	)
	execCmd := &cobra.Command{
		Use:   "exec [flags] block.json...",
		Short: "Execute JSON block files in order against a fresh runtime",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := genesis.Load(genesisFile)
			if err != nil {
				return err
			}
			rt := newRuntime()
			g.Apply(rt)
			return runExec(stdout, rt, args, keepGoing)
		},
	}
	execCmd.Flags().StringVar(&genesisFile, "genesis", "", "TOML genesis file")
	execCmd.Flags().BoolVar(&keepGoing, "keep-going", false, "Continue after a block is rejected")

	rootCmd.AddCommand(demoCmd, execCmd)
	return rootCmd
}

func runDemo(out io.Writer, rt *runtime.Runtime) error {
	const (
		alice   = types.AccountID("alice")
		bob     = types.AccountID("bob")
		charlie = types.AccountID("charlie")
	)
	rt.SetBalance(alice, types.NewBalance(100))

	claim := func(content string) types.Content { return types.ContentOf(content) }
	blocks := [][]runtime.Extrinsic{
		{
			{Caller: alice, Call: runtime.BalancesCall{Call: runtime.Transfer{To: bob, Amount: types.NewBalance(30)}}},
			{Caller: alice, Call: runtime.BalancesCall{Call: runtime.Transfer{To: charlie, Amount: types.NewBalance(20)}}},
		},
		{
			{Caller: alice, Call: runtime.ProofOfExistenceCall{Call: runtime.CreateClaim{Content: claim("claim content")}}},
			{Caller: bob, Call: runtime.ProofOfExistenceCall{Call: runtime.RevokeClaim{Content: claim("claim content")}}},
			{Caller: alice, Call: runtime.ProofOfExistenceCall{Call: runtime.RevokeClaim{Content: claim("claim content")}}},
			{Caller: charlie, Call: runtime.ProofOfExistenceCall{Call: runtime.CreateClaim{Content: claim("charlie claim content")}}},
		},
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	for _, exts := range blocks {
		block := runtime.Block{
			Header:     runtime.Header{BlockNumber: rt.BlockNumber() + 1},
			Extrinsics: exts,
		}
		receipt, err := rt.ExecuteBlock(block)
		if err != nil {
			return fmt.Errorf("invalid block: %w", err)
		}
		if err := enc.Encode(receipt); err != nil {
			return err
		}
	}
	return enc.Encode(rt.Snapshot())
}

func runExec(out io.Writer, rt *runtime.Runtime, paths []string, keepGoing bool) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	var errs []error
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		block, err := runtime.DecodeBlock(data)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		receipt, err := rt.ExecuteBlock(block)
		if err != nil {
			err = fmt.Errorf("%s: %w", path, err)
			if !keepGoing {
				return err
			}
			errs = append(errs, err)
			continue
		}
		if err := enc.Encode(receipt); err != nil {
			return err
		}
	}
	if err := enc.Encode(rt.Snapshot()); err != nil {
		return err
	}
	return errors.Join(errs...)
}
