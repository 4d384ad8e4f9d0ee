package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/NuclearManD3/DeployBased/internal/fixedpoint"
	"github.com/NuclearManD3/DeployBased/internal/launchpad"
	"github.com/NuclearManD3/DeployBased/internal/model"
)

func registerTradeCommands(root *cobra.Command) {
	quoteCmd := &cobra.Command{
		Use:   "quote <token>",
		Short: "Quote a swap between the reserve token and a launch token",
		Args:  cobra.ExactArgs(1),
		RunE:  runQuote,
	}
	addTradeFlags(quoteCmd)
	root.AddCommand(quoteCmd)

	swapCmd := &cobra.Command{
		Use:   "swap <token>",
		Short: "Execute a swap between the reserve token and a launch token",
		Args:  cobra.ExactArgs(1),
		RunE:  runSwap,
	}
	addTradeFlags(swapCmd)
	root.AddCommand(swapCmd)
}

func addTradeFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("sell", false, "sell the launch token instead of buying it")
	cmd.Flags().String("amount", "", "trade amount in human units of the input token")
	cmd.Flags().Bool("exact-out", false, "treat --amount as the desired output instead of the input")
	cmd.MarkFlagRequired("amount")
}

// tradeLeg resolves the in/out token pair and converts the human amount
// into base units of whichever side --amount refers to.
func tradeLeg(ctx context.Context, a *app, cmd *cobra.Command, token common.Address) (tokenIn, tokenOut common.Address, amount *big.Int, exactIn bool, err error) {
	sell, _ := cmd.Flags().GetBool("sell")
	exactOut, _ := cmd.Flags().GetBool("exact-out")
	human, _ := cmd.Flags().GetString("amount")

	reserve := a.reserveAddress()
	if sell {
		tokenIn, tokenOut = token, reserve
	} else {
		tokenIn, tokenOut = reserve, token
	}
	exactIn = !exactOut

	amountToken := tokenIn
	if exactOut {
		amountToken = tokenOut
	}
	decimals, err := a.meta.TokenDecimals(ctx, amountToken)
	if err != nil {
		return tokenIn, tokenOut, nil, exactIn, err
	}
	raw, err := fixedpoint.ParseUnits(human, decimals)
	if err != nil {
		return tokenIn, tokenOut, nil, exactIn, fmt.Errorf("amount: %w", err)
	}
	return tokenIn, tokenOut, raw, exactIn, nil
}

func runQuote(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	token := common.HexToAddress(args[0])
	tokenIn, tokenOut, amount, exactIn, err := tradeLeg(ctx, a, cmd, token)
	if err != nil {
		return err
	}

	engine, err := a.newEngine(nil)
	if err != nil {
		return err
	}
	q, err := engine.Estimate(ctx, tokenIn, tokenOut, amount, exactIn)
	if err != nil {
		return tradeError(err)
	}
	return printQuote(ctx, a, q, tokenIn, tokenOut)
}

func runSwap(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	token := common.HexToAddress(args[0])
	tokenIn, tokenOut, amount, exactIn, err := tradeLeg(ctx, a, cmd, token)
	if err != nil {
		return err
	}

	wallet, err := a.newWallet(ctx)
	if err != nil {
		return err
	}
	engine, err := a.newEngine(wallet)
	if err != nil {
		return err
	}

	receipt, q, err := engine.Execute(ctx, wallet.From(), tokenIn, tokenOut, amount, exactIn)
	if err != nil {
		return tradeError(err)
	}
	if err := printQuote(ctx, a, q, tokenIn, tokenOut); err != nil {
		return err
	}
	fmt.Printf("swap confirmed in block %d (tx %s)\n", receipt.BlockNumber.Uint64(), receipt.TxHash.Hex())
	return nil
}

func printQuote(ctx context.Context, a *app, q model.SwapQuote, tokenIn, tokenOut common.Address) error {
	decIn, err := a.meta.TokenDecimals(ctx, tokenIn)
	if err != nil {
		return err
	}
	decOut, err := a.meta.TokenDecimals(ctx, tokenOut)
	if err != nil {
		return err
	}
	symIn, err := a.meta.TokenSymbol(ctx, tokenIn)
	if err != nil {
		return err
	}
	symOut, err := a.meta.TokenSymbol(ctx, tokenOut)
	if err != nil {
		return err
	}

	fmt.Printf("pool: %s\n", q.PoolAddress)
	fmt.Printf("in:   %s %s\n", fixedpoint.FormatUnits(q.TokensIn, decIn), symIn)
	fmt.Printf("out:  %s %s (after slippage bound)\n", fixedpoint.FormatUnits(q.TokensOut, decOut), symOut)
	return nil
}

// tradeError rewrites engine failures into the short user-facing form.
func tradeError(err error) error {
	if errors.Is(err, launchpad.ErrPoolNotFound) {
		return fmt.Errorf("no pool exists for this pair at the configured fee tier")
	}
	var readErr *launchpad.ReadError
	var txErr *launchpad.TxError
	if errors.As(err, &readErr) || errors.As(err, &txErr) {
		return errors.New(launchpad.UserMessage(err))
	}
	return err
}
