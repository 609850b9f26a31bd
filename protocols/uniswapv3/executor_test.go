package uniswapv3

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShadowyCreators/tycho-execution/executor"
	"github.com/ShadowyCreators/tycho-execution/pkg/assets"
)

var (
	executorAddr = common.HexToAddress("0x00000000000000000000000000000000000000e1")
	receiverAddr = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	attackerAddr = common.HexToAddress("0x0000000000000000000000000000000000000bad")
)

// fakePool simulates a V3 pool: it pays the output leg to the recipient,
// re-enters the executor's callback to collect the input leg, then reports
// its signed deltas.
type fakePool struct {
	addr     common.Address
	ledger   *assets.TokenLedger
	target   *Executor
	outToken common.Address

	amount0 *big.Int
	amount1 *big.Int
	err     error

	// presented as the callback caller; normally the pool's own address
	callbackCaller common.Address

	gotLimit      *uint256.Int
	gotZeroForOne bool
	called        bool
}

func (p *fakePool) Swap(
	_ context.Context,
	recipient common.Address,
	zeroForOne bool,
	amountSpecified *big.Int,
	sqrtPriceLimitX96 *uint256.Int,
	data []byte,
) (*big.Int, *big.Int, error) {
	p.called = true
	p.gotLimit = sqrtPriceLimitX96
	p.gotZeroForOne = zeroForOne

	if p.err != nil {
		return nil, nil, p.err
	}

	// Output leg first, then collect the input leg via the callback.
	out := new(big.Int).Neg(p.amount0)
	if zeroForOne {
		out = new(big.Int).Neg(p.amount1)
	}
	outAmount, _ := uint256.FromBig(out)
	p.ledger.Mint(p.outToken, recipient, outAmount)

	if err := p.target.SwapCallback(p.callbackCaller, p.amount0, p.amount1, data); err != nil {
		return nil, nil, err
	}
	return p.amount0, p.amount1, nil
}

type fakeResolver map[common.Address]Pool

func (r fakeResolver) Pool(address common.Address) (Pool, error) {
	p, ok := r[address]
	if !ok {
		return nil, fmt.Errorf("no pool at %s", address)
	}
	return p, nil
}

// newHarness wires an executor, ledger, and an authentic fake pool for the
// WETH/BAL 0.05% pair. WETH sorts after BAL, so WETH is token1.
func newHarness(t *testing.T) (*Executor, *assets.TokenLedger, *fakePool) {
	t.Helper()

	ledger := assets.NewTokenLedger()
	poolAddr := PoolAddress(FactoryAddress, PoolInitCodeHash, weth, bal, 500)

	pool := &fakePool{
		addr:           poolAddr,
		ledger:         ledger,
		outToken:       bal,
		callbackCaller: poolAddr,
	}

	exec, err := NewExecutor(&ExecutorConfig{
		Self:         executorAddr,
		Factory:      FactoryAddress,
		InitCodeHash: PoolInitCodeHash,
		Ledger:       ledger,
		Pools:        fakeResolver{poolAddr: pool},
	})
	require.NoError(t, err)
	pool.target = exec

	return exec, ledger, pool
}

func encodeSwapPayload(t *testing.T, p SwapParams) []byte {
	t.Helper()
	data, err := EncodeSwap(p)
	require.NoError(t, err)
	return data
}

func TestExecutorSwap(t *testing.T) {
	t.Run("SettlesCallbackAndReportsReceivedLeg", func(t *testing.T) {
		exec, ledger, pool := newHarness(t)

		// Swapping WETH (token1) for BAL (token0): the pool is owed 1000 on
		// leg 1 and pays out 900 on leg 0.
		pool.amount0 = big.NewInt(-900)
		pool.amount1 = big.NewInt(1000)
		ledger.Mint(weth, executorAddr, uint256.NewInt(1000))

		payload := encodeSwapPayload(t, SwapParams{
			TokenIn:    weth,
			TokenOut:   bal,
			Fee:        500,
			Receiver:   receiverAddr,
			Target:     pool.addr,
			ZeroForOne: false,
		})

		amountOut, err := exec.Swap(context.Background(), big.NewInt(1000), payload)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(900), amountOut, "amount out is the absolute value of the received leg")

		// Settlement moved exactly the owed amount of tokenIn to the pool.
		assert.True(t, ledger.BalanceOf(weth, executorAddr).IsZero(), "executor paid its full holding")
		assert.Equal(t, uint256.NewInt(1000), ledger.BalanceOf(weth, pool.addr))
		assert.Equal(t, uint256.NewInt(900), ledger.BalanceOf(bal, receiverAddr))
	})

	t.Run("DirectionalPriceLimits", func(t *testing.T) {
		exec, ledger, pool := newHarness(t)
		pool.amount0 = big.NewInt(-1)
		pool.amount1 = big.NewInt(1)
		ledger.Mint(weth, executorAddr, uint256.NewInt(1))

		payload := encodeSwapPayload(t, SwapParams{
			TokenIn: weth, TokenOut: bal, Fee: 500, Receiver: receiverAddr, Target: pool.addr,
		})
		_, err := exec.Swap(context.Background(), big.NewInt(1), payload)
		require.NoError(t, err)
		assert.False(t, pool.gotZeroForOne)
		assert.Equal(t, new(uint256.Int).SubUint64(MaxSqrtRatio, 1), pool.gotLimit,
			"one-for-zero swaps bound the price from above")

		pool.amount0 = big.NewInt(1)
		pool.amount1 = big.NewInt(-1)
		pool.outToken = weth
		ledger.Mint(bal, executorAddr, uint256.NewInt(1))

		payload = encodeSwapPayload(t, SwapParams{
			TokenIn: bal, TokenOut: weth, Fee: 500, Receiver: receiverAddr, Target: pool.addr, ZeroForOne: true,
		})
		_, err = exec.Swap(context.Background(), big.NewInt(1), payload)
		require.NoError(t, err)
		assert.True(t, pool.gotZeroForOne)
		assert.Equal(t, new(uint256.Int).AddUint64(MinSqrtRatio, 1), pool.gotLimit,
			"zero-for-one swaps bound the price from below")
	})

	t.Run("MalformedPayload_NoPoolCall", func(t *testing.T) {
		exec, _, pool := newHarness(t)

		_, err := exec.Swap(context.Background(), big.NewInt(1), make([]byte, 83))
		require.ErrorIs(t, err, executor.ErrInvalidDataLength)
		assert.False(t, pool.called, "length validation must reject before any external call")
	})

	t.Run("PoolErrorPropagatesVerbatim", func(t *testing.T) {
		exec, _, pool := newHarness(t)
		poolErr := errors.New("TLOK")
		pool.err = poolErr

		payload := encodeSwapPayload(t, SwapParams{
			TokenIn: weth, TokenOut: bal, Fee: 500, Receiver: receiverAddr, Target: pool.addr,
		})
		_, err := exec.Swap(context.Background(), big.NewInt(1), payload)
		assert.ErrorIs(t, err, poolErr)
	})

	t.Run("InsufficientFunding_AbortsSettlement", func(t *testing.T) {
		exec, ledger, pool := newHarness(t)
		pool.amount0 = big.NewInt(-900)
		pool.amount1 = big.NewInt(1000)
		ledger.Mint(weth, executorAddr, uint256.NewInt(999))

		payload := encodeSwapPayload(t, SwapParams{
			TokenIn: weth, TokenOut: bal, Fee: 500, Receiver: receiverAddr, Target: pool.addr,
		})
		_, err := exec.Swap(context.Background(), big.NewInt(1000), payload)
		require.ErrorIs(t, err, assets.ErrInsufficientBalance)
		assert.Equal(t, uint256.NewInt(999), ledger.BalanceOf(weth, executorAddr), "failed settlement moves nothing")
	})
}

func TestSwapCallback(t *testing.T) {
	validContext := func(t *testing.T) []byte {
		data, err := EncodeCallback(CallbackContext{TokenIn: weth, TokenOut: bal, Fee: 500})
		require.NoError(t, err)
		return data
	}

	t.Run("RejectsSpoofedCaller_NoFundsMove", func(t *testing.T) {
		exec, ledger, _ := newHarness(t)
		ledger.Mint(weth, executorAddr, uint256.NewInt(1000))

		err := exec.SwapCallback(attackerAddr, big.NewInt(1000), big.NewInt(-900), validContext(t))
		require.ErrorIs(t, err, ErrCallbackVerification)

		assert.Equal(t, uint256.NewInt(1000), ledger.BalanceOf(weth, executorAddr), "no token transfer on rejection")
		assert.True(t, ledger.BalanceOf(weth, attackerAddr).IsZero())
	})

	t.Run("RejectsWrongFeeContext", func(t *testing.T) {
		// A real pool address presented with a context for a different fee
		// tier derives to a different pool and must be refused.
		exec, ledger, pool := newHarness(t)
		ledger.Mint(weth, executorAddr, uint256.NewInt(1000))

		data, err := EncodeCallback(CallbackContext{TokenIn: weth, TokenOut: bal, Fee: 3000})
		require.NoError(t, err)

		err = exec.SwapCallback(pool.addr, big.NewInt(1000), big.NewInt(-900), data)
		require.ErrorIs(t, err, ErrCallbackVerification)
		assert.Equal(t, uint256.NewInt(1000), ledger.BalanceOf(weth, executorAddr))
	})

	t.Run("MalformedContext", func(t *testing.T) {
		exec, _, pool := newHarness(t)

		err := exec.SwapCallback(pool.addr, big.NewInt(1), big.NewInt(-1), make([]byte, 42))
		assert.ErrorIs(t, err, executor.ErrInvalidDataLength)
	})

	t.Run("NothingOwed", func(t *testing.T) {
		exec, _, pool := newHarness(t)

		err := exec.SwapCallback(pool.addr, big.NewInt(0), big.NewInt(-1), validContext(t))
		assert.ErrorIs(t, err, ErrNothingOwed)

		err = exec.SwapCallback(pool.addr, nil, nil, validContext(t))
		assert.ErrorIs(t, err, ErrNothingOwed)
	})

	t.Run("SettlesPositiveLegExactly", func(t *testing.T) {
		exec, ledger, pool := newHarness(t)
		ledger.Mint(weth, executorAddr, uint256.NewInt(1500))

		// token1 = WETH is owed here
		err := exec.SwapCallback(pool.addr, big.NewInt(-900), big.NewInt(1000), validContext(t))
		require.NoError(t, err)

		assert.Equal(t, uint256.NewInt(500), ledger.BalanceOf(weth, executorAddr))
		assert.Equal(t, uint256.NewInt(1000), ledger.BalanceOf(weth, pool.addr))
	})
}

func TestGuardedCall(t *testing.T) {
	t.Run("InnerErrorVerbatim", func(t *testing.T) {
		want := errors.New("inner revert reason")
		assert.ErrorIs(t, guardedCall(func() error { return want }), want)
	})

	t.Run("PanicWithReason", func(t *testing.T) {
		want := errors.New("panic reason")
		assert.ErrorIs(t, guardedCall(func() error { panic(want) }), want)
	})

	t.Run("PanicWithoutReason_GenericMarker", func(t *testing.T) {
		assert.ErrorIs(t, guardedCall(func() error { panic("boom") }), ErrCallbackFailed)
	})

	t.Run("NoError", func(t *testing.T) {
		assert.NoError(t, guardedCall(func() error { return nil }))
	})
}
