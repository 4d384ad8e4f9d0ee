package main

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/NuclearManD3/DeployBased/internal/launchpad"
)

func runToken(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	token := common.HexToAddress(args[0])
	meta, err := a.meta.TokenMetadata(ctx, token)
	if err != nil {
		return tradeError(err)
	}

	fmt.Printf("name:     %s\n", meta.Name)
	fmt.Printf("symbol:   %s\n", meta.Symbol)
	fmt.Printf("decimals: %d\n", meta.Decimals)
	fmt.Printf("owner:    %s\n", meta.Owner)
	fmt.Printf("supply:   %s\n", meta.TotalSupply)

	pool, err := a.caller.GetPool(ctx, a.factoryAddress(), token, a.reserveAddress(), a.cfg.FeeTier)
	if errors.Is(err, launchpad.ErrPoolNotFound) {
		fmt.Println("pool:     none at the configured fee tier")
		return nil
	}
	if err != nil {
		return tradeError(err)
	}

	poolMeta, err := a.meta.PoolMetadata(ctx, pool)
	if err != nil {
		return tradeError(err)
	}
	fmt.Printf("pool:     %s (fee %d)\n", poolMeta.Address, poolMeta.Fee)
	if poolMeta.Curve != nil {
		fmt.Printf("curve:    base %s, slope %s, limit %s\n",
			poolMeta.Curve.BasePrice, poolMeta.Curve.Slope, poolMeta.Curve.CurveLimit)
	}

	price, err := a.meta.CurrentPrice(ctx, pool)
	if err != nil {
		return tradeError(err)
	}
	reserveSymbol, err := a.meta.TokenSymbol(ctx, a.reserveAddress())
	if err != nil {
		reserveSymbol = a.cfg.ReserveToken
	}
	fmt.Printf("price:    %s %s per %s\n", price.FloatString(8), reserveSymbol, meta.Symbol)
	return nil
}

func runBalance(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	holderFlag, _ := cmd.Flags().GetString("holder")
	var holder common.Address
	if holderFlag != "" {
		holder = common.HexToAddress(holderFlag)
	} else {
		holder, err = a.signerAddress()
		if err != nil {
			return fmt.Errorf("holder: %w (pass --holder or set a private key)", err)
		}
	}

	token := common.HexToAddress(args[0])
	balance, err := a.meta.TokenBalance(ctx, token, holder)
	if err != nil {
		return tradeError(err)
	}
	symbol, err := a.meta.TokenSymbol(ctx, token)
	if err != nil {
		return tradeError(err)
	}
	fmt.Printf("%s %s\n", balance, symbol)
	return nil
}
