package main

import (
	"fmt"
	"math/big"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pairswap/internal/router"
)

func main() {
	root := &cobra.Command{
		Use:          "pairswap",
		Short:        "Constant-product AMM core",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	root.AddCommand(newDemoCmd())
	root.AddCommand(newQuoteCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newDemoCmd() *cobra.Command {
	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted world: liquidity, swaps, claims, event flush",
		RunE:  runDemo,
	}

	demoCmd.Flags().Uint64("fee-bps", 25, "total swap fee in basis points")
	demoCmd.Flags().Uint64("voter-share-bps", 6000, "voter share of each fee in basis points")
	demoCmd.Flags().String("treasury", "", "treasury address (hex)")
	demoCmd.Flags().String("voter-claimant", "", "voter-fee claimant address (hex)")
	demoCmd.Flags().String("out", "./data/events.jsonl", "output JSONL path for events")
	demoCmd.Flags().String("pg-dsn", "", "Postgres DSN for event persistence (optional)")
	demoCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	return demoCmd
}

func newQuoteCmd() *cobra.Command {
	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a single hop against supplied reserves",
		RunE:  runQuote,
	}

	quoteCmd.Flags().String("amount-in", "", "exact input amount (quote output)")
	quoteCmd.Flags().String("amount-out", "", "exact output amount (quote input)")
	quoteCmd.Flags().String("reserve-in", "", "input-side reserve")
	quoteCmd.Flags().String("reserve-out", "", "output-side reserve")
	quoteCmd.Flags().Uint64("fee-bps", 25, "total swap fee in basis points")

	return quoteCmd
}

func runQuote(cmd *cobra.Command, _ []string) error {
	reserveIn, err := flagBig(cmd, "reserve-in")
	if err != nil {
		return err
	}
	reserveOut, err := flagBig(cmd, "reserve-out")
	if err != nil {
		return err
	}
	feeBps, _ := cmd.Flags().GetUint64("fee-bps")

	if raw, _ := cmd.Flags().GetString("amount-in"); raw != "" {
		amountIn, err := parseBig(raw)
		if err != nil {
			return err
		}
		out, err := router.GetAmountOut(amountIn, reserveIn, reserveOut, feeBps)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "amount_out=%s\n", out)
		return nil
	}
	if raw, _ := cmd.Flags().GetString("amount-out"); raw != "" {
		amountOut, err := parseBig(raw)
		if err != nil {
			return err
		}
		in, err := router.GetAmountIn(amountOut, reserveIn, reserveOut, feeBps)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "amount_in=%s\n", in)
		return nil
	}
	return fmt.Errorf("one of --amount-in or --amount-out is required")
}

func flagBig(cmd *cobra.Command, name string) (*big.Int, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return nil, fmt.Errorf("%s is required", name)
	}
	return parseBig(raw)
}

func parseBig(raw string) (*big.Int, error) {
	value, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer: %s", raw)
	}
	return value, nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
