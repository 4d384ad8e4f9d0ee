package main

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/NuclearManD3/DeployBased/internal/config"
	"github.com/NuclearManD3/DeployBased/internal/curve"
	"github.com/NuclearManD3/DeployBased/internal/fixedpoint"
	"github.com/NuclearManD3/DeployBased/internal/launchpad"
)

func registerLaunchCommands(root *cobra.Command) {
	deployCmd := &cobra.Command{
		Use:   "deploy",
		Short: "Launch a new token with a bonding curve",
		RunE:  runDeploy,
	}
	deployCmd.Flags().String("name", "", "token name")
	deployCmd.Flags().String("symbol", "", "token symbol")
	deployCmd.Flags().String("description", "", "token description")
	deployCmd.Flags().Uint8("decimals", 18, "token decimals")
	deployCmd.Flags().String("supply", "", "total supply in whole tokens")
	deployCmd.Flags().String("start-price", "", "starting price in reserve units per token")
	deployCmd.Flags().String("switch-price", "", "price at the curve transition")
	deployCmd.Flags().String("curve-limit", "", "reserve raised on the linear segment")
	deployCmd.MarkFlagRequired("name")
	deployCmd.MarkFlagRequired("symbol")
	deployCmd.MarkFlagRequired("supply")
	deployCmd.MarkFlagRequired("start-price")
	deployCmd.MarkFlagRequired("switch-price")
	deployCmd.MarkFlagRequired("curve-limit")
	root.AddCommand(deployCmd)

	collectCmd := &cobra.Command{
		Use:   "collect <pool>",
		Short: "Collect accrued pool fees (pool owner only)",
		Args:  cobra.ExactArgs(1),
		RunE:  runCollect,
	}
	root.AddCommand(collectCmd)

	curveCmd := &cobra.Command{
		Use:   "curve",
		Short: "Preview a bonding curve without deploying",
		RunE:  runCurvePreview,
	}
	curveCmd.Flags().String("supply", "", "total supply in whole tokens")
	curveCmd.Flags().String("start-price", "", "starting price in reserve units per token")
	curveCmd.Flags().String("switch-price", "", "price at the curve transition")
	curveCmd.Flags().String("curve-limit", "", "reserve raised on the linear segment")
	curveCmd.Flags().Int64("steps", 50, "sample points per curve segment")
	curveCmd.MarkFlagRequired("supply")
	curveCmd.MarkFlagRequired("start-price")
	curveCmd.MarkFlagRequired("switch-price")
	curveCmd.MarkFlagRequired("curve-limit")
	root.AddCommand(curveCmd)
}

func launchParamsFromFlags(cmd *cobra.Command, cfg config.Config) launchpad.LaunchParams {
	name, _ := cmd.Flags().GetString("name")
	symbol, _ := cmd.Flags().GetString("symbol")
	description, _ := cmd.Flags().GetString("description")
	decimals, _ := cmd.Flags().GetUint8("decimals")
	supply, _ := cmd.Flags().GetString("supply")
	startPrice, _ := cmd.Flags().GetString("start-price")
	switchPrice, _ := cmd.Flags().GetString("switch-price")
	curveLimit, _ := cmd.Flags().GetString("curve-limit")

	return launchpad.LaunchParams{
		Name:            name,
		Symbol:          symbol,
		Description:     description,
		Decimals:        decimals,
		TotalSupply:     supply,
		StartingPrice:   startPrice,
		TransitionPrice: switchPrice,
		CurveLimit:      curveLimit,
		ReserveToken:    common.HexToAddress(cfg.ReserveAddress()),
		ReserveDecimals: config.ReserveDecimals[cfg.ReserveToken],
		Fee:             cfg.FeeTier,
	}
}

func runDeploy(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	params := launchParamsFromFlags(cmd, a.cfg)

	// Validate the curve before touching the wallet.
	call, cfg, err := launchpad.BuildLaunchCall(params)
	if err != nil {
		return err
	}
	fmt.Printf("curve: base %s, transition %s at limit %s\n",
		cfg.BasePrice.FloatString(8),
		cfg.TransitionPrice().FloatString(8),
		cfg.Limit.FloatString(2),
	)
	fmt.Printf("deploying %s (%s) with supply %s\n", call.Name, call.Symbol, params.TotalSupply)

	wallet, err := a.newWallet(ctx)
	if err != nil {
		return err
	}

	token, receipt, err := launchpad.Launch(ctx, wallet, a.factoryAddress(), params)
	if err != nil {
		return tradeError(err)
	}
	fmt.Printf("token deployed at %s (tx %s)\n", token.Hex(), receipt.TxHash.Hex())
	fmt.Printf("%s/address/%s\n", a.cfg.Network.ExplorerURL, token.Hex())
	return nil
}

func runCollect(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	wallet, err := a.newWallet(ctx)
	if err != nil {
		return err
	}

	pool := common.HexToAddress(args[0])
	receipt, err := launchpad.CollectFees(ctx, a.meta, wallet, pool, wallet.From())
	if err != nil {
		return tradeError(err)
	}
	fmt.Printf("fees collected (tx %s)\n", receipt.TxHash.Hex())
	return nil
}

func runCurvePreview(cmd *cobra.Command, _ []string) error {
	supply, _ := cmd.Flags().GetString("supply")
	startPrice, _ := cmd.Flags().GetString("start-price")
	switchPrice, _ := cmd.Flags().GetString("switch-price")
	curveLimit, _ := cmd.Flags().GetString("curve-limit")
	steps, _ := cmd.Flags().GetInt64("steps")

	parse := func(label, value string) (*big.Rat, error) {
		r, err := fixedpoint.ParseDecimal(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", label, err)
		}
		return r, nil
	}

	p0, err := parse("start-price", startPrice)
	if err != nil {
		return err
	}
	p1, err := parse("switch-price", switchPrice)
	if err != nil {
		return err
	}
	limit, err := parse("curve-limit", curveLimit)
	if err != nil {
		return err
	}
	total, err := parse("supply", supply)
	if err != nil {
		return err
	}

	cfg, err := curve.Derive(curve.Inputs{
		StartingPrice:   p0,
		TransitionPrice: p1,
		CurveLimit:      limit,
		TotalSupply:     total,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%-20s %s\n", "reserve raised", "price")
	sampler := curve.NewSampler(cfg, steps, 0)
	for {
		point, ok := sampler.Next()
		if !ok {
			return nil
		}
		fmt.Printf("%-20s %s\n", point.X.FloatString(2), point.Price.FloatString(8))
	}
}
