package launchpad

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Full-range tick bounds used for fee collection.
const (
	minTick int32 = -887272
	maxTick int32 = 887272
)

// Half of max uint128: the collect request amount the pool treats as
// "everything available".
var maxCollectAmount = new(big.Int).Lsh(big.NewInt(1), 127)

// CollectFees collects accrued pool fees to the caller. Only the pool
// owner may collect; the ownership check happens client-side so a
// non-owner fails before paying gas.
func CollectFees(ctx context.Context, meta *Metadata, submitter Submitter, pool, caller common.Address) (*types.Receipt, error) {
	owner, err := meta.PoolOwner(ctx, pool)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(owner.Hex(), caller.Hex()) {
		return nil, fmt.Errorf("caller %s is not the pool owner", caller.Hex())
	}

	return submitter.Collect(ctx, pool, caller, minTick, maxTick,
		new(big.Int).Set(maxCollectAmount),
		new(big.Int).Set(maxCollectAmount),
	)
}
