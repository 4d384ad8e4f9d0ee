package model

import "math/big"

// CurveParams holds the decimal-adjusted curve parameters read back from a
// pool, as decimal strings for stable persistence.
type CurveParams struct {
	BasePrice     string `json:"base_price"`
	Slope         string `json:"slope"`
	CurveLimit    string `json:"curve_limit"`
	ReserveOffset string `json:"reserve_offset"`
}

// PoolMetadata captures immutable pool attributes, cached permanently once
// the pool is created.
type PoolMetadata struct {
	Address      string       `json:"address"`
	Token0       string       `json:"token0"`
	Token1       string       `json:"token1"`
	Fee          uint32       `json:"fee"`
	ReserveToken string       `json:"reserve_token"`
	LaunchToken  string       `json:"launch_token"`
	Curve        *CurveParams `json:"curve,omitempty"`
}

// PoolLiveState is the mutable, time-varying pool state. Always fetched
// fresh, never cached.
type PoolLiveState struct {
	SqrtPriceX96 *big.Int
	Reserve0     *big.Int
	Reserve1     *big.Int
}

// SwapQuote is a bounded quote for one trade. Created per request, never
// persisted. TokensIn/TokensOut carry the slippage-adjusted executable
// bounds in raw units.
type SwapQuote struct {
	PoolAddress string
	ZeroForOne  bool
	TokensIn    *big.Int
	TokensOut   *big.Int
}
