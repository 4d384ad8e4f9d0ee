package curve

import (
	"math/big"

	"github.com/NuclearManD3/DeployBased/internal/fixedpoint"
)

// RawArgs holds the fixed-point arguments submitted to the factory's
// launchToken call. Values are truncated here and nowhere earlier.
type RawArgs struct {
	StartPrice    *big.Int // 128-bit-fractional price encoding
	SwitchPrice   *big.Int // 128-bit-fractional price encoding
	CurveLimit    *big.Int // reserve-decimal scaled
	ReserveOffset *big.Int // reserve-decimal scaled
	TotalSupply   *big.Int // launch-decimal scaled
}

// RawArgs converts a derived config plus its total supply into deploy
// arguments for the given token decimal pair.
func (c *Config) RawArgs(totalSupply *big.Rat, launchDecimals, reserveDecimals uint8) (*RawArgs, error) {
	if totalSupply == nil || totalSupply.Sign() <= 0 {
		return nil, &ConfigError{Field: "total supply", Reason: "must be positive"}
	}

	startPrice, err := fixedpoint.PriceToRaw(c.BasePrice, launchDecimals, reserveDecimals)
	if err != nil {
		return nil, &ConfigError{Field: "starting price", Reason: err.Error()}
	}
	switchPrice, err := fixedpoint.PriceToRaw(c.TransitionPrice(), launchDecimals, reserveDecimals)
	if err != nil {
		return nil, &ConfigError{Field: "transition price", Reason: err.Error()}
	}

	return &RawArgs{
		StartPrice:    startPrice,
		SwitchPrice:   switchPrice,
		CurveLimit:    ratToRaw(c.Limit, reserveDecimals),
		ReserveOffset: ratToRaw(c.ReserveOffset, reserveDecimals),
		TotalSupply:   ratToRaw(totalSupply, launchDecimals),
	}, nil
}

func ratToRaw(value *big.Rat, decimals uint8) *big.Int {
	scaled := new(big.Rat).Mul(value, new(big.Rat).SetInt(fixedpoint.Pow10(int(decimals))))
	return new(big.Int).Quo(scaled.Num(), scaled.Denom())
}
