package launchpad

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/NuclearManD3/DeployBased/internal/chain"
)

// Caller implements TokenReader, PoolReader, and FactoryReader over a chain
// client using packed eth_call reads.
type Caller struct {
	chain *chain.Client
}

func NewCaller(chainClient *chain.Client) *Caller {
	return &Caller{chain: chainClient}
}

func (c *Caller) call(ctx context.Context, contract common.Address, contractABI abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &contract, Data: data}
	resp, err := c.chain.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, &ReadError{Contract: contract.Hex(), Method: method, Err: err}
	}
	values, err := contractABI.Unpack(method, resp)
	if err != nil {
		return nil, &ReadError{Contract: contract.Hex(), Method: method, Err: err}
	}
	return values, nil
}

func (c *Caller) callERC20(ctx context.Context, token common.Address, method string, args ...interface{}) ([]interface{}, error) {
	parsed, err := ERC20ABI()
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}
	return c.call(ctx, token, parsed, method, args...)
}

func (c *Caller) callPool(ctx context.Context, pool common.Address, method string, args ...interface{}) ([]interface{}, error) {
	parsed, err := PoolABI()
	if err != nil {
		return nil, fmt.Errorf("parse pool abi: %w", err)
	}
	return c.call(ctx, pool, parsed, method, args...)
}

func (c *Caller) callFactory(ctx context.Context, factory common.Address, method string, args ...interface{}) ([]interface{}, error) {
	parsed, err := FactoryABI()
	if err != nil {
		return nil, fmt.Errorf("parse factory abi: %w", err)
	}
	return c.call(ctx, factory, parsed, method, args...)
}

// --- TokenReader ---

func (c *Caller) Symbol(ctx context.Context, token common.Address) (string, error) {
	values, err := c.callERC20(ctx, token, "symbol")
	if err != nil {
		return "", err
	}
	return asString(values[0])
}

func (c *Caller) Name(ctx context.Context, token common.Address) (string, error) {
	values, err := c.callERC20(ctx, token, "name")
	if err != nil {
		return "", err
	}
	return asString(values[0])
}

func (c *Caller) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	values, err := c.callERC20(ctx, token, "decimals")
	if err != nil {
		return 0, err
	}
	return asUint8(values[0])
}

func (c *Caller) Owner(ctx context.Context, token common.Address) (common.Address, error) {
	values, err := c.callERC20(ctx, token, "owner")
	if err != nil {
		return common.Address{}, err
	}
	return asAddress(values[0])
}

func (c *Caller) TotalSupply(ctx context.Context, token common.Address) (*big.Int, error) {
	values, err := c.callERC20(ctx, token, "totalSupply")
	if err != nil {
		return nil, err
	}
	return asBigInt(values[0])
}

func (c *Caller) BalanceOf(ctx context.Context, token, holder common.Address) (*big.Int, error) {
	values, err := c.callERC20(ctx, token, "balanceOf", holder)
	if err != nil {
		return nil, err
	}
	return asBigInt(values[0])
}

func (c *Caller) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	values, err := c.callERC20(ctx, token, "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	return asBigInt(values[0])
}

// --- PoolReader ---

func (c *Caller) Token0(ctx context.Context, pool common.Address) (common.Address, error) {
	return c.poolAddressField(ctx, pool, "token0")
}

func (c *Caller) Token1(ctx context.Context, pool common.Address) (common.Address, error) {
	return c.poolAddressField(ctx, pool, "token1")
}

func (c *Caller) PoolOwner(ctx context.Context, pool common.Address) (common.Address, error) {
	return c.poolAddressField(ctx, pool, "owner")
}

func (c *Caller) ReserveToken(ctx context.Context, pool common.Address) (common.Address, error) {
	return c.poolAddressField(ctx, pool, "reserve")
}

func (c *Caller) LaunchToken(ctx context.Context, pool common.Address) (common.Address, error) {
	return c.poolAddressField(ctx, pool, "launch")
}

func (c *Caller) poolAddressField(ctx context.Context, pool common.Address, method string) (common.Address, error) {
	values, err := c.callPool(ctx, pool, method)
	if err != nil {
		return common.Address{}, err
	}
	return asAddress(values[0])
}

func (c *Caller) Fee(ctx context.Context, pool common.Address) (uint32, error) {
	values, err := c.callPool(ctx, pool, "fee")
	if err != nil {
		return 0, err
	}
	fee, err := asBigInt(values[0])
	if err != nil {
		return 0, err
	}
	return uint32(fee.Uint64()), nil
}

func (c *Caller) SqrtPriceX96(ctx context.Context, pool common.Address) (*big.Int, error) {
	values, err := c.callPool(ctx, pool, "slot0")
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, &ReadError{Contract: pool.Hex(), Method: "slot0", Err: fmt.Errorf("empty result")}
	}
	return asBigInt(values[0])
}

func (c *Caller) Reserves(ctx context.Context, pool common.Address) (*big.Int, *big.Int, error) {
	values, err := c.callPool(ctx, pool, "reserves")
	if err != nil {
		return nil, nil, err
	}
	if len(values) < 2 {
		return nil, nil, &ReadError{Contract: pool.Hex(), Method: "reserves", Err: fmt.Errorf("short result")}
	}
	reserve0, err := asBigInt(values[0])
	if err != nil {
		return nil, nil, err
	}
	reserve1, err := asBigInt(values[1])
	if err != nil {
		return nil, nil, err
	}
	return reserve0, reserve1, nil
}

func (c *Caller) CurveParams(ctx context.Context, pool common.Address) (RawCurve, error) {
	var curve RawCurve
	for _, field := range []struct {
		method string
		dest   **big.Int
	}{
		{"basePrice", &curve.BasePrice},
		{"switchPrice", &curve.SwitchPrice},
		{"curveLimit", &curve.CurveLimit},
		{"reserveOffset", &curve.ReserveOffset},
	} {
		values, err := c.callPool(ctx, pool, field.method)
		if err != nil {
			return RawCurve{}, err
		}
		value, err := asBigInt(values[0])
		if err != nil {
			return RawCurve{}, fmt.Errorf("%s: %w", field.method, err)
		}
		*field.dest = value
	}
	return curve, nil
}

func (c *Caller) ExpectedTokensOut(ctx context.Context, pool, inputToken common.Address, maxTokensIn, sqrtPriceX96, sqrtPriceLimitX96 *big.Int) (SwapSimulation, error) {
	values, err := c.callPool(ctx, pool, "computeExpectedTokensOut", inputToken, maxTokensIn, sqrtPriceX96, sqrtPriceLimitX96)
	if err != nil {
		return SwapSimulation{}, err
	}
	return asSimulation(pool, "computeExpectedTokensOut", values)
}

func (c *Caller) ExpectedTokensIn(ctx context.Context, pool, inputToken common.Address, maxTokensOut, sqrtPriceX96, sqrtPriceLimitX96 *big.Int) (SwapSimulation, error) {
	values, err := c.callPool(ctx, pool, "computeExpectedTokensIn", inputToken, maxTokensOut, sqrtPriceX96, sqrtPriceLimitX96)
	if err != nil {
		return SwapSimulation{}, err
	}
	return asSimulation(pool, "computeExpectedTokensIn", values)
}

// --- FactoryReader ---

func (c *Caller) TotalTokens(ctx context.Context, factory common.Address) (*big.Int, error) {
	values, err := c.callFactory(ctx, factory, "totalTokens")
	if err != nil {
		return nil, err
	}
	return asBigInt(values[0])
}

func (c *Caller) ListManyTokenDetails(ctx context.Context, factory common.Address, start, end int64) ([]TokenDetail, error) {
	values, err := c.callFactory(ctx, factory, "listManyTokenDetails", big.NewInt(start), big.NewInt(end))
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, &ReadError{Contract: factory.Hex(), Method: "listManyTokenDetails", Err: fmt.Errorf("empty result")}
	}
	details := *abi.ConvertType(values[0], new([]TokenDetail)).(*[]TokenDetail)
	return details, nil
}

func (c *Caller) GetPool(ctx context.Context, factory, tokenA, tokenB common.Address, fee uint32) (common.Address, error) {
	values, err := c.callFactory(ctx, factory, "getPool", tokenA, tokenB, big.NewInt(int64(fee)))
	if err != nil {
		return common.Address{}, err
	}
	pool, err := asAddress(values[0])
	if err != nil {
		return common.Address{}, err
	}
	if pool == (common.Address{}) {
		return common.Address{}, ErrPoolNotFound
	}
	return pool, nil
}

func asSimulation(pool common.Address, method string, values []interface{}) (SwapSimulation, error) {
	if len(values) < 3 {
		return SwapSimulation{}, &ReadError{Contract: pool.Hex(), Method: method, Err: fmt.Errorf("short result")}
	}
	tokensIn, err := asBigInt(values[0])
	if err != nil {
		return SwapSimulation{}, err
	}
	tokensOut, err := asBigInt(values[1])
	if err != nil {
		return SwapSimulation{}, err
	}
	newSqrt, err := asBigInt(values[2])
	if err != nil {
		return SwapSimulation{}, err
	}
	return SwapSimulation{TokensIn: tokensIn, TokensOut: tokensOut, NewSqrtPriceX96: newSqrt}, nil
}

func asAddress(value interface{}) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		return *v, nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address type %T", value)
	}
}

func asString(value interface{}) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("unsupported string type %T", value)
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}

func asUint8(value interface{}) (uint8, error) {
	switch v := value.(type) {
	case uint8:
		return v, nil
	case *big.Int:
		return uint8(v.Uint64()), nil
	default:
		return 0, fmt.Errorf("unsupported uint8 type %T", value)
	}
}
