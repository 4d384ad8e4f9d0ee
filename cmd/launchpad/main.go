package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/NuclearManD3/DeployBased/internal/config"
	"github.com/NuclearManD3/DeployBased/internal/enumerate"
)

func main() {
	root := &cobra.Command{
		Use:          "launchpad",
		Short:        "Token launchpad client for Base",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("network", "mainnet", "network (mainnet or testnet)")
	root.PersistentFlags().String("rpc", "", "RPC URL override")
	root.PersistentFlags().String("factory", "", "factory address override")
	root.PersistentFlags().String("swapper", "", "swapper router address")
	root.PersistentFlags().String("reserve", "USDC", "reserve token (USDC or WETH)")
	root.PersistentFlags().Uint32("fee-tier", 10000, "pool fee tier")
	root.PersistentFlags().Int64("batch-size", 25, "registry entries per call")
	root.PersistentFlags().Int64("fetch-limit", 50, "max registry entries per listing")
	root.PersistentFlags().String("cache", "./data/metadata.json", "metadata cache file path")
	root.PersistentFlags().String("pg-dsn", "", "Postgres DSN for the metadata cache (overrides the file store)")
	root.PersistentFlags().String("private-key", "", "hex private key for signing (env LAUNCHPAD_PRIVATE_KEY)")
	root.PersistentFlags().Int("max-retries", 5, "maximum retry attempts for reads")
	root.PersistentFlags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	tokensCmd := &cobra.Command{
		Use:   "tokens",
		Short: "List launched tokens, newest first",
		RunE:  runTokens,
	}
	root.AddCommand(tokensCmd)

	mytokensCmd := &cobra.Command{
		Use:   "mytokens",
		Short: "List tokens owned by an address, oldest first",
		RunE:  runMyTokens,
	}
	mytokensCmd.Flags().String("owner", "", "owner address (defaults to the signing key's address)")
	root.AddCommand(mytokensCmd)

	tokenCmd := &cobra.Command{
		Use:   "token <address>",
		Short: "Show token metadata, pool state, and current price",
		Args:  cobra.ExactArgs(1),
		RunE:  runToken,
	}
	root.AddCommand(tokenCmd)

	balanceCmd := &cobra.Command{
		Use:   "balance <token>",
		Short: "Show an address's balance of a token",
		Args:  cobra.ExactArgs(1),
		RunE:  runBalance,
	}
	balanceCmd.Flags().String("holder", "", "holder address (defaults to the signing key's address)")
	root.AddCommand(balanceCmd)

	registerTradeCommands(root)
	registerLaunchCommands(root)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runTokens(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	return listTokens(ctx, a, enumerate.Config{
		Factory:    a.factoryAddress(),
		Order:      enumerate.NewestFirst,
		BatchSize:  a.cfg.BatchSize,
		FetchLimit: a.cfg.FetchLimit,
		Retries:    a.cfg.MaxRetries,
		RetryDelay: a.cfg.RetryBackoff,
	})
}

func runMyTokens(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	owner, _ := cmd.Flags().GetString("owner")
	if owner == "" {
		from, err := a.signerAddress()
		if err != nil {
			return fmt.Errorf("owner: %w (pass --owner or set a private key)", err)
		}
		owner = from.Hex()
	}

	return listTokens(ctx, a, enumerate.Config{
		Factory:     a.factoryAddress(),
		Order:       enumerate.OldestFirst,
		BatchSize:   a.cfg.BatchSize,
		FetchLimit:  a.cfg.FetchLimit,
		OwnerFilter: owner,
		Retries:     a.cfg.MaxRetries,
		RetryDelay:  a.cfg.RetryBackoff,
	})
}

func listTokens(ctx context.Context, a *app, cfg enumerate.Config) error {
	registry := enumerate.NewRegistry(a.caller, a.logger)
	iter, err := registry.Begin(ctx, cfg)
	if err != nil {
		return err
	}
	defer iter.Close()

	fmt.Printf("%d tokens registered\n", iter.Total())
	for {
		rec, ok, err := iter.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		fmt.Printf("%-24s %-8s %s\n", truncate(rec.Label, 24), rec.Symbol, rec.Address)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
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

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	return config.Load(cfgFile, cmd.Flags())
}
