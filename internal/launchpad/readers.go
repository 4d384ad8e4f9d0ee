// Package launchpad provides typed access to the launchpad contracts:
// factory, launch tokens, curve pools, and the swapper.
package launchpad

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// TokenDetail mirrors the factory's listManyTokenDetails tuple.
type TokenDetail struct {
	Token  common.Address
	Owner  common.Address
	Name   string
	Symbol string
}

// RawCurve carries the fixed-point curve parameters stored on a pool.
type RawCurve struct {
	BasePrice     *big.Int // 128-bit-fractional price encoding
	SwitchPrice   *big.Int // 128-bit-fractional price encoding
	CurveLimit    *big.Int // reserve-decimal scaled
	ReserveOffset *big.Int // reserve-decimal scaled
}

// SwapSimulation is the result of the pool's own quoting primitive.
type SwapSimulation struct {
	TokensIn        *big.Int
	TokensOut       *big.Int
	NewSqrtPriceX96 *big.Int
}

// TokenReader reads launch/reserve token state. One method per on-chain
// call the engine actually issues.
type TokenReader interface {
	Symbol(ctx context.Context, token common.Address) (string, error)
	Name(ctx context.Context, token common.Address) (string, error)
	Decimals(ctx context.Context, token common.Address) (uint8, error)
	Owner(ctx context.Context, token common.Address) (common.Address, error)
	TotalSupply(ctx context.Context, token common.Address) (*big.Int, error)
	BalanceOf(ctx context.Context, token, holder common.Address) (*big.Int, error)
	Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
}

// PoolReader reads curve pool state.
type PoolReader interface {
	Token0(ctx context.Context, pool common.Address) (common.Address, error)
	Token1(ctx context.Context, pool common.Address) (common.Address, error)
	Fee(ctx context.Context, pool common.Address) (uint32, error)
	PoolOwner(ctx context.Context, pool common.Address) (common.Address, error)
	ReserveToken(ctx context.Context, pool common.Address) (common.Address, error)
	LaunchToken(ctx context.Context, pool common.Address) (common.Address, error)
	SqrtPriceX96(ctx context.Context, pool common.Address) (*big.Int, error)
	Reserves(ctx context.Context, pool common.Address) (reserve0, reserve1 *big.Int, err error)
	CurveParams(ctx context.Context, pool common.Address) (RawCurve, error)
	ExpectedTokensOut(ctx context.Context, pool, inputToken common.Address, maxTokensIn, sqrtPriceX96, sqrtPriceLimitX96 *big.Int) (SwapSimulation, error)
	ExpectedTokensIn(ctx context.Context, pool, inputToken common.Address, maxTokensOut, sqrtPriceX96, sqrtPriceLimitX96 *big.Int) (SwapSimulation, error)
}

// FactoryReader reads the token registry.
type FactoryReader interface {
	TotalTokens(ctx context.Context, factory common.Address) (*big.Int, error)
	ListManyTokenDetails(ctx context.Context, factory common.Address, start, end int64) ([]TokenDetail, error)
	GetPool(ctx context.Context, factory, tokenA, tokenB common.Address, fee uint32) (common.Address, error)
}

// Submitter issues state-changing transactions and waits for confirmation.
// Each method maps to exactly one contract write.
type Submitter interface {
	Approve(ctx context.Context, token, spender common.Address, amount *big.Int) (*types.Receipt, error)
	SwapExactIn(ctx context.Context, swapper, pool common.Address, zeroForOne bool, amountIn, minimumOut *big.Int) (*types.Receipt, error)
	SwapExactOut(ctx context.Context, swapper, pool common.Address, zeroForOne bool, amountOut, maximumIn *big.Int) (*types.Receipt, error)
	Collect(ctx context.Context, pool, recipient common.Address, tickLower, tickUpper int32, amount0, amount1 *big.Int) (*types.Receipt, error)
	LaunchToken(ctx context.Context, factory common.Address, args LaunchCall) (*types.Receipt, error)
}

// LaunchCall bundles the launchToken arguments.
type LaunchCall struct {
	Name          string
	Symbol        string
	Description   string
	Decimals      uint8
	Reserve       common.Address
	Fee           uint32
	StartPrice    *big.Int
	SwitchPrice   *big.Int
	CurveLimit    *big.Int
	ReserveOffset *big.Int
	TotalSupply   *big.Int
}
