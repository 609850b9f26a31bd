package uniswapv3

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/ShadowyCreators/tycho-execution/executor"
	"github.com/ShadowyCreators/tycho-execution/pkg/assets"
)

var (
	// ErrCallbackVerification is returned when the callback caller does not
	// match the pool address derived from the carried-forward parameters.
	// Settlement is refused and no funds move.
	ErrCallbackVerification = errors.New("uniswap_v3: callback caller is not the expected pool")

	// ErrCallbackFailed is the generic marker for an inner callback failure
	// that produced no reason of its own.
	ErrCallbackFailed = errors.New("uniswap_v3: callback failed")

	// ErrNothingOwed is returned when a callback carries no positive delta,
	// leaving nothing to settle.
	ErrNothingOwed = errors.New("uniswap_v3: callback carries no amount owed")
)

// ExecutorConfig holds the configuration for the V3 executor.
type ExecutorConfig struct {
	// Self is the executor's own account; settlement is paid from its balance.
	Self common.Address

	// Factory and InitCodeHash parameterize the CREATE2 pool derivation used
	// to authenticate callbacks.
	Factory      common.Address
	InitCodeHash common.Hash

	Ledger assets.Ledger
	Pools  PoolResolver
}

func (c *ExecutorConfig) validate() error {
	if c.Self == (common.Address{}) {
		return errors.New("config: Self is required")
	}
	if c.Factory == (common.Address{}) {
		return errors.New("config: Factory is required")
	}
	if c.InitCodeHash == (common.Hash{}) {
		return errors.New("config: InitCodeHash is required")
	}
	if c.Ledger == nil {
		return errors.New("config: Ledger is required")
	}
	if c.Pools == nil {
		return errors.New("config: Pools is required")
	}
	return nil
}

// Executor performs exact-input swaps against Uniswap V3 pools and settles
// the pool's deferred-payment callback.
type Executor struct {
	self         common.Address
	factory      common.Address
	initCodeHash common.Hash
	ledger       assets.Ledger
	pools        PoolResolver
}

// NewExecutor creates a V3 executor from a validated config.
func NewExecutor(cfg *ExecutorConfig) (*Executor, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Executor{
		self:         cfg.Self,
		factory:      cfg.Factory,
		initCodeHash: cfg.InitCodeHash,
		ledger:       cfg.Ledger,
		pools:        cfg.Pools,
	}, nil
}

// Protocol implements executor.SwapExecutor.
func (e *Executor) Protocol() executor.Protocol {
	return executor.ProtocolUniswapV3
}

// Swap decodes the 84-byte payload and executes an exact-input swap against
// the target pool. The pool re-enters SwapCallback before Swap returns; the
// realized output is the absolute value of the received (non-positive) leg.
func (e *Executor) Swap(ctx context.Context, amountIn *big.Int, data []byte) (*big.Int, error) {
	params, err := DecodeSwap(data)
	if err != nil {
		return nil, err
	}

	pool, err := e.pools.Pool(params.Target)
	if err != nil {
		return nil, err
	}

	callbackData, err := EncodeCallback(CallbackContext{
		TokenIn:  params.TokenIn,
		TokenOut: params.TokenOut,
		Fee:      params.Fee,
	})
	if err != nil {
		return nil, err
	}

	amount0, amount1, err := pool.Swap(
		ctx,
		params.Receiver,
		params.ZeroForOne,
		new(big.Int).Set(amountIn),
		priceLimit(params.ZeroForOne),
		callbackData,
	)
	if err != nil {
		// Downstream failures propagate unmodified.
		return nil, err
	}
	if amount0 == nil || amount1 == nil {
		return nil, errors.New("uniswap_v3: pool returned nil delta")
	}

	// The caller receives the non-positive leg.
	received := amount0
	if params.ZeroForOne {
		received = amount1
	}
	return new(big.Int).Neg(received), nil
}

// SwapCallback is the pool's re-entry point during a swap. It authenticates
// the caller against the deterministically derived pool address and, only on
// success, pays the owed input amount from the executor's own balance.
//
// The handler runs through a restricted inner call: an inner failure with a
// reason propagates verbatim, one without a reason surfaces as
// ErrCallbackFailed.
func (e *Executor) SwapCallback(caller common.Address, amount0Delta, amount1Delta *big.Int, data []byte) error {
	return guardedCall(func() error {
		return e.handleCallback(caller, amount0Delta, amount1Delta, data)
	})
}

func (e *Executor) handleCallback(caller common.Address, amount0Delta, amount1Delta *big.Int, data []byte) error {
	cb, err := DecodeCallback(data)
	if err != nil {
		return err
	}

	expected := PoolAddress(e.factory, e.initCodeHash, cb.TokenIn, cb.TokenOut, cb.Fee)
	if expected != caller {
		return fmt.Errorf("%w: caller %s, expected %s", ErrCallbackVerification, caller, expected)
	}

	var owed *big.Int
	switch {
	case amount0Delta != nil && amount0Delta.Sign() > 0:
		owed = amount0Delta
	case amount1Delta != nil && amount1Delta.Sign() > 0:
		owed = amount1Delta
	default:
		return ErrNothingOwed
	}

	amount, overflow := uint256.FromBig(owed)
	if overflow {
		return fmt.Errorf("uniswap_v3: amount owed %s overflows uint256", owed)
	}
	return e.ledger.Transfer(cb.TokenIn, e.self, caller, amount)
}

// priceLimit returns the directional sqrt-price bound mandated by the
// protocol for an unconstrained exact-input swap.
func priceLimit(zeroForOne bool) *uint256.Int {
	if zeroForOne {
		return new(uint256.Int).AddUint64(MinSqrtRatio, 1)
	}
	return new(uint256.Int).SubUint64(MaxSqrtRatio, 1)
}

// guardedCall invokes fn, converting a panic into an error: a panic carrying
// an error with a reason propagates verbatim, anything else becomes the
// generic ErrCallbackFailed marker.
func guardedCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if inner, ok := r.(error); ok && inner.Error() != "" {
				err = inner
				return
			}
			err = ErrCallbackFailed
		}
	}()
	return fn()
}
