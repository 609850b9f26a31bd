package uniswapv3

import (
	"bytes"
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// Canonical Ethereum mainnet deployment parameters.
var (
	FactoryAddress   = common.HexToAddress("0x1F98431c8aD98523631AE4a59f267346ea31F984")
	PoolInitCodeHash = common.HexToHash("0xe34f199b19b2b4f47f68442619d555527d244f78a3297ea89325f843f87b8b54")
)

// Sqrt-price bounds from the protocol's TickMath specification. The swap
// price limit must stay strictly inside them, so the executor passes
// MinSqrtRatio+1 or MaxSqrtRatio-1 depending on direction. These are
// protocol-mandated sentinels, not tunables.
var (
	MinSqrtRatio = uint256.NewInt(4295128739)
	MaxSqrtRatio = uint256.MustFromDecimal("1461446703485210103287273052203988822378723970342")
)

// Pool is the external Uniswap V3 pool collaborator. Its pricing math is
// trusted once the pool's identity is authenticated.
type Pool interface {
	// Swap executes an exact-input swap when amountSpecified is positive.
	// The pool pays the output leg to recipient and synchronously re-enters
	// the executor's SwapCallback to collect the input leg before returning.
	// amount0 and amount1 are the pool's signed deltas: positive is owed to
	// the pool, negative was paid out by it.
	Swap(
		ctx context.Context,
		recipient common.Address,
		zeroForOne bool,
		amountSpecified *big.Int,
		sqrtPriceLimitX96 *uint256.Int,
		data []byte,
	) (amount0, amount1 *big.Int, err error)
}

// PoolResolver maps a pool address to its Pool collaborator.
type PoolResolver interface {
	Pool(address common.Address) (Pool, error)
}

// PoolAddress derives the canonical pool address for a token pair and fee
// tier using the factory's CREATE2 formula:
//
//	keccak256(0xff || factory || keccak256(abi.encode(token0, token1, fee)) || initCodeHash)[12:]
//
// with the tokens sorted ascending. Reproducing this formula exactly is what
// lets the executor authenticate a callback without any lookup table.
func PoolAddress(factory common.Address, initCodeHash common.Hash, tokenA, tokenB common.Address, fee uint32) common.Address {
	token0, token1 := sortTokens(tokenA, tokenB)

	// abi.encode(address, address, uint24): three 32-byte words, values right-aligned.
	var preimage [96]byte
	copy(preimage[12:32], token0[:])
	copy(preimage[44:64], token1[:])
	preimage[93] = byte(fee >> 16)
	preimage[94] = byte(fee >> 8)
	preimage[95] = byte(fee)

	var salt [32]byte
	copy(salt[:], crypto.Keccak256(preimage[:]))

	return crypto.CreateAddress2(factory, salt, initCodeHash[:])
}

func sortTokens(a, b common.Address) (common.Address, common.Address) {
	if bytes.Compare(a[:], b[:]) < 0 {
		return a, b
	}
	return b, a
}
