package launchpad

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/NuclearManD3/DeployBased/internal/curve"
	"github.com/NuclearManD3/DeployBased/internal/fixedpoint"
)

// LaunchParams carries the human-facing launch form inputs.
type LaunchParams struct {
	Name            string
	Symbol          string
	Description     string
	Decimals        uint8
	TotalSupply     string // launch token units
	StartingPrice   string // reserve units per launch unit
	TransitionPrice string
	CurveLimit      string // reserve units
	ReserveToken    common.Address
	ReserveDecimals uint8
	Fee             uint32
}

// BuildLaunchCall validates the launch inputs, derives the curve, and
// converts everything into deploy arguments. Any curve.ConfigError here
// blocks submission.
func BuildLaunchCall(p LaunchParams) (LaunchCall, *curve.Config, error) {
	startingPrice, err := fixedpoint.ParseDecimal(p.StartingPrice)
	if err != nil {
		return LaunchCall{}, nil, fmt.Errorf("starting price: %w", err)
	}
	transitionPrice, err := fixedpoint.ParseDecimal(p.TransitionPrice)
	if err != nil {
		return LaunchCall{}, nil, fmt.Errorf("transition price: %w", err)
	}
	curveLimit, err := fixedpoint.ParseDecimal(p.CurveLimit)
	if err != nil {
		return LaunchCall{}, nil, fmt.Errorf("curve limit: %w", err)
	}
	totalSupply, err := fixedpoint.ParseDecimal(p.TotalSupply)
	if err != nil {
		return LaunchCall{}, nil, fmt.Errorf("total supply: %w", err)
	}

	cfg, err := curve.Derive(curve.Inputs{
		StartingPrice:   startingPrice,
		TransitionPrice: transitionPrice,
		CurveLimit:      curveLimit,
		TotalSupply:     totalSupply,
	})
	if err != nil {
		return LaunchCall{}, nil, err
	}

	raw, err := cfg.RawArgs(totalSupply, p.Decimals, p.ReserveDecimals)
	if err != nil {
		return LaunchCall{}, nil, err
	}

	return LaunchCall{
		Name:          p.Name,
		Symbol:        p.Symbol,
		Description:   p.Description,
		Decimals:      p.Decimals,
		Reserve:       p.ReserveToken,
		Fee:           p.Fee,
		StartPrice:    raw.StartPrice,
		SwitchPrice:   raw.SwitchPrice,
		CurveLimit:    raw.CurveLimit,
		ReserveOffset: raw.ReserveOffset,
		TotalSupply:   raw.TotalSupply,
	}, cfg, nil
}

// Launch submits the deploy call and returns the new token address
// recovered from the TokenCreated event in the receipt.
func Launch(ctx context.Context, submitter Submitter, factory common.Address, p LaunchParams) (common.Address, *types.Receipt, error) {
	call, _, err := BuildLaunchCall(p)
	if err != nil {
		return common.Address{}, nil, err
	}

	receipt, err := submitter.LaunchToken(ctx, factory, call)
	if err != nil {
		return common.Address{}, nil, err
	}

	token, err := TokenCreatedFromReceipt(receipt)
	if err != nil {
		return common.Address{}, receipt, err
	}
	return token, receipt, nil
}

// TokenCreatedFromReceipt finds the TokenCreated event in a launch receipt
// and returns the indexed token address.
func TokenCreatedFromReceipt(receipt *types.Receipt) (common.Address, error) {
	parsed, err := FactoryABI()
	if err != nil {
		return common.Address{}, err
	}
	eventID := parsed.Events["TokenCreated"].ID

	for _, log := range receipt.Logs {
		if len(log.Topics) >= 2 && log.Topics[0] == eventID {
			return common.BytesToAddress(log.Topics[1].Bytes()), nil
		}
	}
	return common.Address{}, fmt.Errorf("TokenCreated event not found in receipt %s", receipt.TxHash.Hex())
}
