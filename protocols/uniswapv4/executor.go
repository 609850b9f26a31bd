package uniswapv4

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ShadowyCreators/tycho-execution/executor"
	"github.com/ShadowyCreators/tycho-execution/pkg/assets"
)

// ErrNotPoolManager is returned when the unlock callback is invoked by
// anyone other than the configured pool manager.
var ErrNotPoolManager = errors.New("uniswap_v4: unlock callback caller is not the pool manager")

// Router is the external collaborator that submits an encoded action plan to
// the pool manager's unlock entry point and executes it atomically. Any
// failure inside the plan aborts the whole invocation.
type Router interface {
	ExecuteActions(ctx context.Context, plan []byte) error
}

// ExecutorConfig holds the configuration for the V4 executor.
type ExecutorConfig struct {
	// Self is the executor's own account; output lands on its balance.
	Self common.Address

	// PoolManager is the only account allowed to invoke UnlockCallback.
	PoolManager common.Address

	Router Router
	Ledger assets.Ledger
}

func (c *ExecutorConfig) validate() error {
	if c.Self == (common.Address{}) {
		return errors.New("config: Self is required")
	}
	if c.PoolManager == (common.Address{}) {
		return errors.New("config: PoolManager is required")
	}
	if c.Router == nil {
		return errors.New("config: Router is required")
	}
	if c.Ledger == nil {
		return errors.New("config: Ledger is required")
	}
	return nil
}

// Executor performs exact-input swaps through the unified-liquidity router.
type Executor struct {
	self        common.Address
	poolManager common.Address
	router      Router
	ledger      assets.Ledger
}

// NewExecutor creates a V4 executor from a validated config.
func NewExecutor(cfg *ExecutorConfig) (*Executor, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Executor{
		self:        cfg.Self,
		poolManager: cfg.PoolManager,
		router:      cfg.Router,
		ledger:      cfg.Ledger,
	}, nil
}

// Protocol implements executor.SwapExecutor.
func (e *Executor) Protocol() executor.Protocol {
	return executor.ProtocolUniswapV4
}

// Swap decodes the payload, builds and submits the action plan, and reports
// the realized output as the executor's destination-balance delta. The
// zero-address token sentinel selects the native balance; the assets.Native
// sentinel is that same zero address, so no special casing is needed.
func (e *Executor) Swap(ctx context.Context, amountIn *big.Int, data []byte) (*big.Int, error) {
	params, err := Decode(data)
	if err != nil {
		return nil, err
	}

	plan, err := BuildExactInputPlan(params, amountIn)
	if err != nil {
		return nil, err
	}
	encoded, err := plan.Encode()
	if err != nil {
		return nil, err
	}

	before := e.ledger.BalanceOf(params.TokenOut, e.self)
	if err := e.router.ExecuteActions(ctx, encoded); err != nil {
		// Downstream failures propagate unmodified.
		return nil, err
	}
	after := e.ledger.BalanceOf(params.TokenOut, e.self)

	if after.Lt(before) {
		return nil, fmt.Errorf("uniswap_v4: destination balance decreased from %s to %s", before, after)
	}
	return after.Sub(after, before).ToBig(), nil
}

// UnlockCallback is the manager's re-entry point while the plan executes.
// Only the pool manager itself may invoke it; the manager already guarantees
// caller identity contract-wide, so no address derivation is needed. The
// plan data is handed back unchanged for the manager to act on.
func (e *Executor) UnlockCallback(caller common.Address, data []byte) ([]byte, error) {
	if caller != e.poolManager {
		return nil, fmt.Errorf("%w: caller %s", ErrNotPoolManager, caller)
	}
	return data, nil
}
