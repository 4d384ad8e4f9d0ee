package launchpad

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/NuclearManD3/DeployBased/internal/curve"
	"github.com/NuclearManD3/DeployBased/internal/fixedpoint"
	"github.com/NuclearManD3/DeployBased/internal/metacache"
	"github.com/NuclearManD3/DeployBased/internal/model"
)

// Cache field names. One entry per immutable attribute per address.
const (
	fieldSymbol   = "symbol"
	fieldName     = "name"
	fieldDecimals = "decimals"
	fieldOwner    = "owner"
	fieldSupply   = "supply"
	fieldToken0   = "token0"
	fieldToken1   = "token1"
	fieldFee      = "fee"
	fieldReserve  = "reserve"
	fieldLaunch   = "launch"

	fieldCurveBase   = "curve.base_price"
	fieldCurveSwitch = "curve.switch_price"
	fieldCurveLimit  = "curve.limit"
	fieldCurveOffset = "curve.offset"
)

// Metadata resolves token and pool attributes through the persistent
// cache, reading from chain only on a miss. Live pool state is never
// cached.
type Metadata struct {
	cache  *metacache.Cache
	tokens TokenReader
	pools  PoolReader
	logger *zap.Logger
}

func NewMetadata(cache *metacache.Cache, tokens TokenReader, pools PoolReader, logger *zap.Logger) *Metadata {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Metadata{cache: cache, tokens: tokens, pools: pools, logger: logger}
}

func (m *Metadata) TokenSymbol(ctx context.Context, token common.Address) (string, error) {
	return m.cache.Get(ctx, token.Hex(), fieldSymbol, func(ctx context.Context) (string, error) {
		return m.tokens.Symbol(ctx, token)
	})
}

func (m *Metadata) TokenName(ctx context.Context, token common.Address) (string, error) {
	return m.cache.Get(ctx, token.Hex(), fieldName, func(ctx context.Context) (string, error) {
		return m.tokens.Name(ctx, token)
	})
}

func (m *Metadata) TokenDecimals(ctx context.Context, token common.Address) (uint8, error) {
	value, err := m.cache.Get(ctx, token.Hex(), fieldDecimals, func(ctx context.Context) (string, error) {
		decimals, err := m.tokens.Decimals(ctx, token)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(int(decimals)), nil
	})
	if err != nil {
		return 0, err
	}
	decimals, err := strconv.ParseUint(value, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("cached decimals for %s: %w", token.Hex(), err)
	}
	return uint8(decimals), nil
}

// TokenOwner is treated as immutable: a cached owner is never refetched.
// Callers that need a fresh owner use FreshTokenOwner.
func (m *Metadata) TokenOwner(ctx context.Context, token common.Address) (string, error) {
	return m.cache.Get(ctx, token.Hex(), fieldOwner, func(ctx context.Context) (string, error) {
		owner, err := m.tokens.Owner(ctx, token)
		if err != nil {
			return "", err
		}
		return owner.Hex(), nil
	})
}

// FreshTokenOwner bypasses the cache and refreshes the stored owner.
func (m *Metadata) FreshTokenOwner(ctx context.Context, token common.Address) (string, error) {
	owner, err := m.tokens.Owner(ctx, token)
	if err != nil {
		return "", err
	}
	m.cache.Put(ctx, token.Hex(), fieldOwner, owner.Hex())
	return owner.Hex(), nil
}

// TokenSupply returns the total supply formatted with the token's
// decimals.
func (m *Metadata) TokenSupply(ctx context.Context, token common.Address) (string, error) {
	return m.cache.Get(ctx, token.Hex(), fieldSupply, func(ctx context.Context) (string, error) {
		decimals, err := m.TokenDecimals(ctx, token)
		if err != nil {
			return "", err
		}
		raw, err := m.tokens.TotalSupply(ctx, token)
		if err != nil {
			return "", err
		}
		return fixedpoint.FormatUnits(raw, decimals), nil
	})
}

// TokenBalance always reads fresh; balances are the caller's live state.
func (m *Metadata) TokenBalance(ctx context.Context, token, holder common.Address) (string, error) {
	decimals, err := m.TokenDecimals(ctx, token)
	if err != nil {
		return "", err
	}
	raw, err := m.tokens.BalanceOf(ctx, token, holder)
	if err != nil {
		return "", err
	}
	return fixedpoint.FormatUnits(raw, decimals), nil
}

// TokenMetadata aggregates the cached token record.
func (m *Metadata) TokenMetadata(ctx context.Context, token common.Address) (model.TokenMetadata, error) {
	meta := model.TokenMetadata{Address: strings.ToLower(token.Hex())}

	symbol, err := m.TokenSymbol(ctx, token)
	if err != nil {
		return meta, err
	}
	meta.Symbol = symbol

	name, err := m.TokenName(ctx, token)
	if err != nil {
		return meta, err
	}
	meta.Name = name

	decimals, err := m.TokenDecimals(ctx, token)
	if err != nil {
		return meta, err
	}
	meta.Decimals = decimals

	owner, err := m.TokenOwner(ctx, token)
	if err != nil {
		return meta, err
	}
	meta.Owner = owner

	supply, err := m.TokenSupply(ctx, token)
	if err != nil {
		return meta, err
	}
	meta.TotalSupply = supply

	return meta, nil
}

func (m *Metadata) poolAddressField(ctx context.Context, pool common.Address, field string, read func(context.Context, common.Address) (common.Address, error)) (common.Address, error) {
	value, err := m.cache.Get(ctx, pool.Hex(), field, func(ctx context.Context) (string, error) {
		addr, err := read(ctx, pool)
		if err != nil {
			return "", err
		}
		return addr.Hex(), nil
	})
	if err != nil {
		return common.Address{}, err
	}
	return common.HexToAddress(value), nil
}

func (m *Metadata) PoolToken0(ctx context.Context, pool common.Address) (common.Address, error) {
	return m.poolAddressField(ctx, pool, fieldToken0, m.pools.Token0)
}

func (m *Metadata) PoolToken1(ctx context.Context, pool common.Address) (common.Address, error) {
	return m.poolAddressField(ctx, pool, fieldToken1, m.pools.Token1)
}

func (m *Metadata) PoolOwner(ctx context.Context, pool common.Address) (common.Address, error) {
	return m.poolAddressField(ctx, pool, fieldOwner, m.pools.PoolOwner)
}

func (m *Metadata) PoolReserveToken(ctx context.Context, pool common.Address) (common.Address, error) {
	return m.poolAddressField(ctx, pool, fieldReserve, m.pools.ReserveToken)
}

func (m *Metadata) PoolLaunchToken(ctx context.Context, pool common.Address) (common.Address, error) {
	return m.poolAddressField(ctx, pool, fieldLaunch, m.pools.LaunchToken)
}

func (m *Metadata) PoolFee(ctx context.Context, pool common.Address) (uint32, error) {
	value, err := m.cache.Get(ctx, pool.Hex(), fieldFee, func(ctx context.Context) (string, error) {
		fee, err := m.pools.Fee(ctx, pool)
		if err != nil {
			return "", err
		}
		return strconv.FormatUint(uint64(fee), 10), nil
	})
	if err != nil {
		return 0, err
	}
	fee, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("cached fee for %s: %w", pool.Hex(), err)
	}
	return uint32(fee), nil
}

// rawCurve returns the pool's fixed-point curve parameters, cached as
// decimal strings.
func (m *Metadata) rawCurve(ctx context.Context, pool common.Address) (RawCurve, error) {
	var curve RawCurve
	fields := []struct {
		field string
		dest  **big.Int
	}{
		{fieldCurveBase, &curve.BasePrice},
		{fieldCurveSwitch, &curve.SwitchPrice},
		{fieldCurveLimit, &curve.CurveLimit},
		{fieldCurveOffset, &curve.ReserveOffset},
	}

	if _, ok := m.cache.Peek(pool.Hex(), fieldCurveBase); !ok {
		// One chain round per parameter set: fill all four fields on the
		// first miss.
		raw, err := m.pools.CurveParams(ctx, pool)
		if err != nil {
			return RawCurve{}, err
		}
		m.cache.Put(ctx, pool.Hex(), fieldCurveBase, raw.BasePrice.String())
		m.cache.Put(ctx, pool.Hex(), fieldCurveSwitch, raw.SwitchPrice.String())
		m.cache.Put(ctx, pool.Hex(), fieldCurveLimit, raw.CurveLimit.String())
		m.cache.Put(ctx, pool.Hex(), fieldCurveOffset, raw.ReserveOffset.String())
	}

	for _, f := range fields {
		value, ok := m.cache.Peek(pool.Hex(), f.field)
		if !ok {
			return RawCurve{}, fmt.Errorf("curve field %s missing for %s", f.field, pool.Hex())
		}
		parsed, ok := new(big.Int).SetString(value, 10)
		if !ok {
			return RawCurve{}, fmt.Errorf("cached curve field %s for %s is invalid", f.field, pool.Hex())
		}
		*f.dest = parsed
	}
	return curve, nil
}

// PoolCurve rebuilds the decimal-adjusted curve config for a pool.
func (m *Metadata) PoolCurve(ctx context.Context, pool common.Address) (*curve.Config, error) {
	raw, err := m.rawCurve(ctx, pool)
	if err != nil {
		return nil, err
	}

	launchToken, err := m.PoolLaunchToken(ctx, pool)
	if err != nil {
		return nil, err
	}
	reserveToken, err := m.PoolReserveToken(ctx, pool)
	if err != nil {
		return nil, err
	}
	launchDec, err := m.TokenDecimals(ctx, launchToken)
	if err != nil {
		return nil, err
	}
	reserveDec, err := m.TokenDecimals(ctx, reserveToken)
	if err != nil {
		return nil, err
	}

	p0 := fixedpoint.RawToPrice(raw.BasePrice, launchDec, reserveDec)
	p1 := fixedpoint.RawToPrice(raw.SwitchPrice, launchDec, reserveDec)
	reserveScale := new(big.Rat).SetInt(fixedpoint.Pow10(int(reserveDec)))
	limit := new(big.Rat).SetFrac(raw.CurveLimit, reserveScale.Num())
	offset := new(big.Rat).SetFrac(raw.ReserveOffset, reserveScale.Num())

	if limit.Sign() <= 0 {
		return nil, fmt.Errorf("pool %s has a zero curve limit", pool.Hex())
	}
	slope := new(big.Rat).Sub(p1, p0)
	slope.Quo(slope, limit)

	var supply *big.Rat
	if formatted, err := m.TokenSupply(ctx, launchToken); err == nil {
		if parsed, perr := fixedpoint.ParseDecimal(formatted); perr == nil {
			supply = parsed
		}
	} else {
		m.logger.Warn("launch token supply unavailable for curve",
			zap.String("pool", pool.Hex()), zap.Error(err))
	}

	return curve.FromChain(p0, slope, limit, offset, supply)
}

// PoolMetadata aggregates the cached pool record.
func (m *Metadata) PoolMetadata(ctx context.Context, pool common.Address) (model.PoolMetadata, error) {
	meta := model.PoolMetadata{Address: strings.ToLower(pool.Hex())}

	token0, err := m.PoolToken0(ctx, pool)
	if err != nil {
		return meta, err
	}
	meta.Token0 = strings.ToLower(token0.Hex())

	token1, err := m.PoolToken1(ctx, pool)
	if err != nil {
		return meta, err
	}
	meta.Token1 = strings.ToLower(token1.Hex())

	fee, err := m.PoolFee(ctx, pool)
	if err != nil {
		return meta, err
	}
	meta.Fee = fee

	reserveToken, err := m.PoolReserveToken(ctx, pool)
	if err != nil {
		return meta, err
	}
	meta.ReserveToken = strings.ToLower(reserveToken.Hex())

	launchToken, err := m.PoolLaunchToken(ctx, pool)
	if err != nil {
		return meta, err
	}
	meta.LaunchToken = strings.ToLower(launchToken.Hex())

	if cfg, err := m.PoolCurve(ctx, pool); err == nil {
		meta.Curve = &model.CurveParams{
			BasePrice:     cfg.BasePrice.FloatString(18),
			Slope:         cfg.Slope.FloatString(18),
			CurveLimit:    cfg.Limit.FloatString(18),
			ReserveOffset: cfg.ReserveOffset.FloatString(18),
		}
	} else {
		m.logger.Warn("curve parameters unavailable", zap.String("pool", pool.Hex()), zap.Error(err))
	}

	return meta, nil
}

// PoolLiveState reads the mutable pool state fresh.
func (m *Metadata) PoolLiveState(ctx context.Context, pool common.Address) (model.PoolLiveState, error) {
	sqrtPrice, err := m.pools.SqrtPriceX96(ctx, pool)
	if err != nil {
		return model.PoolLiveState{}, err
	}
	reserve0, reserve1, err := m.pools.Reserves(ctx, pool)
	if err != nil {
		return model.PoolLiveState{}, err
	}
	return model.PoolLiveState{SqrtPriceX96: sqrtPrice, Reserve0: reserve0, Reserve1: reserve1}, nil
}

// CurrentPrice converts the pool's live sqrt price into a human price in
// reserve units per launch unit.
func (m *Metadata) CurrentPrice(ctx context.Context, pool common.Address) (*big.Rat, error) {
	sqrtPrice, err := m.pools.SqrtPriceX96(ctx, pool)
	if err != nil {
		return nil, err
	}

	token0, err := m.PoolToken0(ctx, pool)
	if err != nil {
		return nil, err
	}
	token1, err := m.PoolToken1(ctx, pool)
	if err != nil {
		return nil, err
	}
	dec0, err := m.TokenDecimals(ctx, token0)
	if err != nil {
		return nil, err
	}
	dec1, err := m.TokenDecimals(ctx, token1)
	if err != nil {
		return nil, err
	}
	reserveToken, err := m.PoolReserveToken(ctx, pool)
	if err != nil {
		return nil, err
	}

	reserveIsToken0 := reserveToken == token0
	return fixedpoint.PriceFromSqrtX96(sqrtPrice, dec0, dec1, reserveIsToken0)
}
