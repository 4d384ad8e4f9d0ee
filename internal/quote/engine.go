// Package quote produces executable swap quotes from live pool state and
// runs the approve-then-swap sequence.
package quote

import (
	"bytes"
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/NuclearManD3/DeployBased/internal/launchpad"
	"github.com/NuclearManD3/DeployBased/internal/model"
)

// Worst-case sqrt price bounds passed to the pool's quote simulation.
// These bound the simulation only; they are not a user slippage setting.
var (
	defaultSqrtLimitUp      = big.NewInt(0x1000276FF)
	defaultSqrtLimitDown, _ = new(big.Int).SetString("fffd8963efd1fc6a506488495d951d5263988d00", 16)
)

// Config holds the quoting environment for one network.
type Config struct {
	Factory common.Address
	Swapper common.Address
	FeeTier uint32

	// Slippage margins applied in integer arithmetic. Defaults: 98/100 on
	// quoted output, 102/100 on quoted input.
	SlippageOutNumerator *big.Int
	SlippageInNumerator  *big.Int
	SlippageDenominator  *big.Int

	SqrtPriceLimitUp   *big.Int
	SqrtPriceLimitDown *big.Int
}

func (c *Config) withDefaults() {
	if c.SlippageOutNumerator == nil {
		c.SlippageOutNumerator = big.NewInt(98)
	}
	if c.SlippageInNumerator == nil {
		c.SlippageInNumerator = big.NewInt(102)
	}
	if c.SlippageDenominator == nil {
		c.SlippageDenominator = big.NewInt(100)
	}
	if c.SqrtPriceLimitUp == nil {
		c.SqrtPriceLimitUp = defaultSqrtLimitUp
	}
	if c.SqrtPriceLimitDown == nil {
		c.SqrtPriceLimitDown = defaultSqrtLimitDown
	}
}

// Engine resolves pools and produces slippage-bounded quotes. Settlement
// math stays in the pool contract; the engine only bounds and executes.
type Engine struct {
	cfg       Config
	factory   launchpad.FactoryReader
	pools     launchpad.PoolReader
	tokens    launchpad.TokenReader
	submitter launchpad.Submitter
	logger    *zap.Logger
}

func NewEngine(cfg Config, factory launchpad.FactoryReader, pools launchpad.PoolReader, tokens launchpad.TokenReader, submitter launchpad.Submitter, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.withDefaults()
	return &Engine{
		cfg:       cfg,
		factory:   factory,
		pools:     pools,
		tokens:    tokens,
		submitter: submitter,
		logger:    logger,
	}
}

// ZeroForOne reports the trade direction by canonical address order.
func ZeroForOne(tokenIn, tokenOut common.Address) bool {
	return bytes.Compare(tokenIn.Bytes(), tokenOut.Bytes()) < 0
}

// Estimate produces a bounded quote for a trade. In exact-input mode the
// quoted output is reduced by the slippage margin; in exact-output mode
// the quoted input is raised by it.
func (e *Engine) Estimate(ctx context.Context, tokenIn, tokenOut common.Address, amount *big.Int, exactIn bool) (model.SwapQuote, error) {
	pool, err := e.factory.GetPool(ctx, e.cfg.Factory, tokenIn, tokenOut, e.cfg.FeeTier)
	if err != nil {
		return model.SwapQuote{}, err
	}

	sqrtPrice, err := e.pools.SqrtPriceX96(ctx, pool)
	if err != nil {
		return model.SwapQuote{}, err
	}

	zeroForOne := ZeroForOne(tokenIn, tokenOut)
	limit := e.cfg.SqrtPriceLimitUp
	if zeroForOne {
		limit = e.cfg.SqrtPriceLimitDown
	}

	quote := model.SwapQuote{
		PoolAddress: strings.ToLower(pool.Hex()),
		ZeroForOne:  zeroForOne,
	}

	if exactIn {
		sim, err := e.pools.ExpectedTokensOut(ctx, pool, tokenIn, amount, sqrtPrice, limit)
		if err != nil {
			return model.SwapQuote{}, err
		}
		quote.TokensIn = sim.TokensIn
		// tokensOut * 98 / 100: round the bound down, never up.
		quote.TokensOut = mulDiv(sim.TokensOut, e.cfg.SlippageOutNumerator, e.cfg.SlippageDenominator)
	} else {
		sim, err := e.pools.ExpectedTokensIn(ctx, pool, tokenIn, amount, sqrtPrice, limit)
		if err != nil {
			return model.SwapQuote{}, err
		}
		// tokensIn * 102 / 100: raise the spend bound.
		quote.TokensIn = mulDiv(sim.TokensIn, e.cfg.SlippageInNumerator, e.cfg.SlippageDenominator)
		quote.TokensOut = sim.TokensOut
	}

	e.logger.Debug("swap quote",
		zap.String("pool", quote.PoolAddress),
		zap.Bool("zero_for_one", quote.ZeroForOne),
		zap.String("tokens_in", quote.TokensIn.String()),
		zap.String("tokens_out", quote.TokensOut.String()),
	)
	return quote, nil
}

// Execute quotes the trade, ensures the swapper's allowance, and submits
// the swap. The allowance check and the swap are separate transactions; a
// concurrent spender can invalidate the allowance in between, in which
// case the swap reverts on-chain.
func (e *Engine) Execute(ctx context.Context, owner, tokenIn, tokenOut common.Address, amount *big.Int, exactIn bool) (*types.Receipt, model.SwapQuote, error) {
	quote, err := e.Estimate(ctx, tokenIn, tokenOut, amount, exactIn)
	if err != nil {
		return nil, model.SwapQuote{}, err
	}

	if err := e.ensureAllowance(ctx, owner, tokenIn, quote.TokensIn); err != nil {
		return nil, quote, err
	}

	pool := common.HexToAddress(quote.PoolAddress)
	var receipt *types.Receipt
	if exactIn {
		receipt, err = e.submitter.SwapExactIn(ctx, e.cfg.Swapper, pool, quote.ZeroForOne, quote.TokensIn, quote.TokensOut)
	} else {
		receipt, err = e.submitter.SwapExactOut(ctx, e.cfg.Swapper, pool, quote.ZeroForOne, quote.TokensOut, quote.TokensIn)
	}
	if err != nil {
		return nil, quote, err
	}
	return receipt, quote, nil
}

func (e *Engine) ensureAllowance(ctx context.Context, owner, token common.Address, amount *big.Int) error {
	allowance, err := e.tokens.Allowance(ctx, token, owner, e.cfg.Swapper)
	if err != nil {
		return err
	}
	if allowance.Cmp(amount) >= 0 {
		return nil
	}

	e.logger.Info("approving swapper",
		zap.String("token", token.Hex()),
		zap.String("amount", amount.String()),
	)
	_, err = e.submitter.Approve(ctx, token, e.cfg.Swapper, amount)
	return err
}

func mulDiv(x, num, den *big.Int) *big.Int {
	out := new(big.Int).Mul(x, num)
	return out.Quo(out, den)
}
