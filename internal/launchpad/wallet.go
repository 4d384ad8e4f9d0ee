package launchpad

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/NuclearManD3/DeployBased/internal/chain"
)

// Wallet implements Submitter over a chain client and an injected signer.
// It never retries: a failed submission is surfaced as a TxError and left
// to the user.
type Wallet struct {
	chain  *chain.Client
	from   common.Address
	sign   chain.SignerFn
	logger *zap.Logger
}

func NewWallet(chainClient *chain.Client, from common.Address, sign chain.SignerFn, logger *zap.Logger) *Wallet {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Wallet{chain: chainClient, from: from, sign: sign, logger: logger}
}

// From returns the sending address.
func (w *Wallet) From() common.Address {
	return w.from
}

func (w *Wallet) submit(ctx context.Context, to common.Address, contractABI abi.ABI, method string, args ...interface{}) (*types.Receipt, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, &TxError{Method: method, Err: fmt.Errorf("pack: %w", err)}
	}

	tx, err := w.chain.Submit(ctx, w.from, to, data, w.sign)
	if err != nil {
		return nil, &TxError{Method: method, Err: err}
	}
	w.logger.Info("transaction submitted",
		zap.String("method", method),
		zap.String("to", to.Hex()),
		zap.String("tx", tx.Hash().Hex()),
	)

	receipt, err := w.chain.AwaitConfirmation(ctx, tx)
	if err != nil {
		return nil, &TxError{Method: method, Err: err}
	}
	w.logger.Info("transaction confirmed",
		zap.String("method", method),
		zap.String("tx", tx.Hash().Hex()),
		zap.Uint64("block", receipt.BlockNumber.Uint64()),
	)
	return receipt, nil
}

func (w *Wallet) Approve(ctx context.Context, token, spender common.Address, amount *big.Int) (*types.Receipt, error) {
	parsed, err := ERC20ABI()
	if err != nil {
		return nil, err
	}
	return w.submit(ctx, token, parsed, "approve", spender, amount)
}

func (w *Wallet) SwapExactIn(ctx context.Context, swapper, pool common.Address, zeroForOne bool, amountIn, minimumOut *big.Int) (*types.Receipt, error) {
	parsed, err := SwapperABI()
	if err != nil {
		return nil, err
	}
	return w.submit(ctx, swapper, parsed, "swapV3ExactIn", pool, zeroForOne, amountIn, minimumOut)
}

func (w *Wallet) SwapExactOut(ctx context.Context, swapper, pool common.Address, zeroForOne bool, amountOut, maximumIn *big.Int) (*types.Receipt, error) {
	parsed, err := SwapperABI()
	if err != nil {
		return nil, err
	}
	return w.submit(ctx, swapper, parsed, "swapV3ExactOut", pool, zeroForOne, amountOut, maximumIn)
}

func (w *Wallet) Collect(ctx context.Context, pool, recipient common.Address, tickLower, tickUpper int32, amount0, amount1 *big.Int) (*types.Receipt, error) {
	parsed, err := PoolABI()
	if err != nil {
		return nil, err
	}
	return w.submit(ctx, pool, parsed, "collect",
		recipient,
		big.NewInt(int64(tickLower)),
		big.NewInt(int64(tickUpper)),
		amount0,
		amount1,
	)
}

func (w *Wallet) LaunchToken(ctx context.Context, factory common.Address, args LaunchCall) (*types.Receipt, error) {
	parsed, err := FactoryABI()
	if err != nil {
		return nil, err
	}
	return w.submit(ctx, factory, parsed, "launchToken",
		args.Name,
		args.Symbol,
		args.Description,
		args.Decimals,
		args.Reserve,
		big.NewInt(int64(args.Fee)),
		args.StartPrice,
		args.SwitchPrice,
		args.CurveLimit,
		args.ReserveOffset,
		args.TotalSupply,
	)
}
