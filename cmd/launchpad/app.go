package main

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/NuclearManD3/DeployBased/internal/chain"
	"github.com/NuclearManD3/DeployBased/internal/config"
	"github.com/NuclearManD3/DeployBased/internal/launchpad"
	"github.com/NuclearManD3/DeployBased/internal/metacache"
	"github.com/NuclearManD3/DeployBased/internal/metacache/postgres"
	"github.com/NuclearManD3/DeployBased/internal/quote"
)

// app wires the chain client, cache, and readers every command needs.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	chain  *chain.Client
	caller *launchpad.Caller
	cache  *metacache.Cache
	meta   *launchpad.Metadata

	pgStore *postgres.Store
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	chainClient, err := chain.NewClient(ctx, cfg.Network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("connect rpc: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, chain: chainClient}

	var store metacache.Store
	if cfg.PostgresDSN != "" {
		pg, err := postgres.NewStore(ctx, cfg.PostgresDSN)
		if err != nil {
			chainClient.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			chainClient.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		a.pgStore = pg
		store = pg
	} else {
		store = metacache.NewFileStore(cfg.CachePath)
	}

	a.cache = metacache.New(ctx, store, logger)
	a.caller = launchpad.NewCaller(chainClient)
	a.meta = launchpad.NewMetadata(a.cache, a.caller, a.caller, logger)
	return a, nil
}

func (a *app) Close() {
	if a.pgStore != nil {
		a.pgStore.Close()
	}
	a.chain.Close()
	a.logger.Sync()
}

func (a *app) factoryAddress() common.Address {
	return common.HexToAddress(a.cfg.Network.Factory)
}

func (a *app) reserveAddress() common.Address {
	return common.HexToAddress(a.cfg.ReserveAddress())
}

func (a *app) swapperAddress() (common.Address, error) {
	if a.cfg.Swapper == "" {
		return common.Address{}, fmt.Errorf("swapper address is required (--swapper)")
	}
	return common.HexToAddress(a.cfg.Swapper), nil
}

func (a *app) signerAddress() (common.Address, error) {
	key, err := a.privateKey()
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}

func (a *app) privateKey() (*ecdsa.PrivateKey, error) {
	raw := strings.TrimPrefix(a.cfg.PrivateKey, "0x")
	if raw == "" {
		return nil, fmt.Errorf("private key is not set")
	}
	return crypto.HexToECDSA(raw)
}

// newWallet builds a Submitter signing with the configured private key.
func (a *app) newWallet(ctx context.Context) (*launchpad.Wallet, error) {
	key, err := a.privateKey()
	if err != nil {
		return nil, err
	}
	from := crypto.PubkeyToAddress(key.PublicKey)

	chainID, err := a.chain.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain id: %w", err)
	}
	signer := types.LatestSignerForChainID(chainID)

	sign := func(_ context.Context, tx *types.Transaction) (*types.Transaction, error) {
		return types.SignTx(tx, signer, key)
	}
	return launchpad.NewWallet(a.chain, from, sign, a.logger), nil
}

// newEngine builds the quote engine over the app's readers.
func (a *app) newEngine(submitter launchpad.Submitter) (*quote.Engine, error) {
	swapper, err := a.swapperAddress()
	if err != nil {
		return nil, err
	}
	return quote.NewEngine(quote.Config{
		Factory: a.factoryAddress(),
		Swapper: swapper,
		FeeTier: a.cfg.FeeTier,
	}, a.caller, a.caller, a.caller, submitter, a.logger), nil
}
