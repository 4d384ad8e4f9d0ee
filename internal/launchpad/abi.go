package launchpad

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const erc20ABIJSON = `[
  {"inputs": [], "name": "name", "outputs": [{"type": "string"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "symbol", "outputs": [{"type": "string"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "decimals", "outputs": [{"type": "uint8"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "owner", "outputs": [{"type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "totalSupply", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "holder", "type": "address"}], "name": "balanceOf", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "owner", "type": "address"}, {"name": "spender", "type": "address"}], "name": "allowance", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "spender", "type": "address"}, {"name": "value", "type": "uint256"}], "name": "approve", "outputs": [{"type": "bool"}], "stateMutability": "nonpayable", "type": "function"}
]`

const poolABIJSON = `[
  {"inputs": [], "name": "token0", "outputs": [{"type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "token1", "outputs": [{"type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "fee", "outputs": [{"type": "uint24"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "owner", "outputs": [{"type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "reserve", "outputs": [{"type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "launch", "outputs": [{"type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "basePrice", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "switchPrice", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "curveLimit", "outputs": [{"type": "uint128"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "reserveOffset", "outputs": [{"type": "uint128"}], "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "reserves", "outputs": [{"name": "reserve0", "type": "uint256"}, {"name": "reserve1", "type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [],
   "name": "slot0",
   "outputs": [
     {"name": "sqrtPriceX96", "type": "uint160"},
     {"name": "tick", "type": "int24"},
     {"name": "observationIndex", "type": "uint16"},
     {"name": "observationCardinality", "type": "uint16"},
     {"name": "observationCardinalityNext", "type": "uint16"},
     {"name": "feeProtocol", "type": "uint8"},
     {"name": "unlocked", "type": "bool"}
   ],
   "stateMutability": "view", "type": "function"},
  {"inputs": [
     {"name": "inputToken", "type": "address"},
     {"name": "maxTokensIn", "type": "uint256"},
     {"name": "sqrtPriceX96", "type": "uint160"},
     {"name": "sqrtPriceLimitX96", "type": "uint160"}
   ],
   "name": "computeExpectedTokensOut",
   "outputs": [
     {"name": "tokensIn", "type": "uint256"},
     {"name": "tokensOut", "type": "uint256"},
     {"name": "newSqrtPriceX96", "type": "uint160"}
   ],
   "stateMutability": "view", "type": "function"},
  {"inputs": [
     {"name": "inputToken", "type": "address"},
     {"name": "maxTokensOut", "type": "uint256"},
     {"name": "sqrtPriceX96", "type": "uint160"},
     {"name": "sqrtPriceLimitX96", "type": "uint160"}
   ],
   "name": "computeExpectedTokensIn",
   "outputs": [
     {"name": "tokensIn", "type": "uint256"},
     {"name": "tokensOut", "type": "uint256"},
     {"name": "newSqrtPriceX96", "type": "uint160"}
   ],
   "stateMutability": "view", "type": "function"},
  {"inputs": [
     {"name": "recipient", "type": "address"},
     {"name": "tickLower", "type": "int24"},
     {"name": "tickUpper", "type": "int24"},
     {"name": "amount0Requested", "type": "uint128"},
     {"name": "amount1Requested", "type": "uint128"}
   ],
   "name": "collect",
   "outputs": [
     {"name": "amount0", "type": "uint128"},
     {"name": "amount1", "type": "uint128"}
   ],
   "stateMutability": "nonpayable", "type": "function"}
]`

const factoryABIJSON = `[
  {"inputs": [], "name": "totalTokens", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"type": "uint256"}], "name": "tokens", "outputs": [{"type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "start", "type": "int256"}, {"name": "end", "type": "int256"}], "name": "listManyTokens", "outputs": [{"name": "array", "type": "address[]"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "start", "type": "int256"}, {"name": "end", "type": "int256"}],
   "name": "listManyTokenDetails",
   "outputs": [{
     "name": "array",
     "type": "tuple[]",
     "components": [
       {"name": "token", "type": "address"},
       {"name": "owner", "type": "address"},
       {"name": "name", "type": "string"},
       {"name": "symbol", "type": "string"}
     ]
   }],
   "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "tokenA", "type": "address"}, {"name": "tokenB", "type": "address"}, {"name": "fee", "type": "uint24"}], "name": "getPool", "outputs": [{"name": "pool", "type": "address"}], "stateMutability": "view", "type": "function"},
  {"inputs": [
     {"name": "name", "type": "string"},
     {"name": "symbol", "type": "string"},
     {"name": "description", "type": "string"},
     {"name": "decimals", "type": "uint8"},
     {"name": "reserve", "type": "address"},
     {"name": "fee", "type": "uint24"},
     {"name": "startPrice", "type": "uint256"},
     {"name": "switchPrice", "type": "uint256"},
     {"name": "curveLimit", "type": "uint96"},
     {"name": "reserveOffset", "type": "uint128"},
     {"name": "totalSupply", "type": "uint128"}
   ],
   "name": "launchToken",
   "outputs": [{"type": "address"}, {"type": "address"}],
   "stateMutability": "nonpayable", "type": "function"},
  {"anonymous": false,
   "inputs": [
     {"indexed": true, "name": "token", "type": "address"},
     {"indexed": false, "name": "decimals", "type": "uint8"},
     {"indexed": false, "name": "name", "type": "string"},
     {"indexed": false, "name": "symbol", "type": "string"}
   ],
   "name": "TokenCreated", "type": "event"}
]`

const swapperABIJSON = `[
  {"inputs": [
     {"name": "pool", "type": "address"},
     {"name": "zeroForOne", "type": "bool"},
     {"name": "amountIn", "type": "uint256"},
     {"name": "minimum", "type": "uint128"}
   ],
   "name": "swapV3ExactIn", "outputs": [], "stateMutability": "nonpayable", "type": "function"},
  {"inputs": [
     {"name": "pool", "type": "address"},
     {"name": "zeroForOne", "type": "bool"},
     {"name": "amountOut", "type": "uint256"},
     {"name": "maximum", "type": "uint128"}
   ],
   "name": "swapV3ExactOut", "outputs": [], "stateMutability": "nonpayable", "type": "function"}
]`

var (
	erc20ABI       abi.ABI
	erc20ABIOnce   sync.Once
	erc20ABIErr    error
	poolABI        abi.ABI
	poolABIOnce    sync.Once
	poolABIErr     error
	factoryABI     abi.ABI
	factoryABIOnce sync.Once
	factoryABIErr  error
	swapperABI     abi.ABI
	swapperABIOnce sync.Once
	swapperABIErr  error
)

// ERC20ABI returns the parsed launch/reserve token ABI.
func ERC20ABI() (abi.ABI, error) {
	erc20ABIOnce.Do(func() {
		erc20ABI, erc20ABIErr = abi.JSON(strings.NewReader(erc20ABIJSON))
	})
	return erc20ABI, erc20ABIErr
}

// PoolABI returns the parsed curve pool ABI.
func PoolABI() (abi.ABI, error) {
	poolABIOnce.Do(func() {
		poolABI, poolABIErr = abi.JSON(strings.NewReader(poolABIJSON))
	})
	return poolABI, poolABIErr
}

// FactoryABI returns the parsed launchpad factory ABI.
func FactoryABI() (abi.ABI, error) {
	factoryABIOnce.Do(func() {
		factoryABI, factoryABIErr = abi.JSON(strings.NewReader(factoryABIJSON))
	})
	return factoryABI, factoryABIErr
}

// SwapperABI returns the parsed swapper ABI.
func SwapperABI() (abi.ABI, error) {
	swapperABIOnce.Do(func() {
		swapperABI, swapperABIErr = abi.JSON(strings.NewReader(swapperABIJSON))
	})
	return swapperABI, swapperABIErr
}
