package balancerv2

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/ShadowyCreators/tycho-execution/executor"
	"github.com/ShadowyCreators/tycho-execution/pkg/assets"
	"github.com/ShadowyCreators/tycho-execution/pkg/poolkey"
)

// VaultAddress is the canonical vault deployment, shared across chains.
var VaultAddress = common.HexToAddress("0xBA12222222228d8Ba445958a75a0704d566BF2C8")

// ErrZeroPoolID is returned for a payload whose pool identifier is entirely
// zero; no real pool has that ID.
var ErrZeroPoolID = errors.New("balancer_v2: zero pool id")

// SwapKind selects how the vault interprets the swap amount.
type SwapKind uint8

const (
	GivenIn  SwapKind = 0
	GivenOut SwapKind = 1
)

// SingleSwap mirrors the vault's single-swap request.
type SingleSwap struct {
	PoolID   poolkey.PoolKey
	Kind     SwapKind
	AssetIn  common.Address
	AssetOut common.Address
	Amount   *big.Int
	UserData []byte
}

// FundManagement tells the vault whose balances to draw on and credit.
type FundManagement struct {
	Sender              common.Address
	FromInternalBalance bool
	Recipient           common.Address
	ToInternalBalance   bool
}

// Vault is the external Balancer V2 vault collaborator. For a GivenIn swap
// the returned amount is the calculated output; limit is the minimum output
// the vault may settle at.
type Vault interface {
	Swap(ctx context.Context, single SingleSwap, funds FundManagement, limit *big.Int) (*big.Int, error)
}

// ExecutorConfig holds the configuration for the Balancer V2 executor.
type ExecutorConfig struct {
	// Self is the executor's own account; the vault draws the input leg
	// from its balance via the allowance granted here.
	Self common.Address

	// VaultAddr is the spender for approvals; defaults to the canonical
	// deployment when zero.
	VaultAddr common.Address

	Vault  Vault
	Ledger assets.Ledger
}

func (c *ExecutorConfig) validate() error {
	if c.Self == (common.Address{}) {
		return errors.New("config: Self is required")
	}
	if c.Vault == nil {
		return errors.New("config: Vault is required")
	}
	if c.Ledger == nil {
		return errors.New("config: Ledger is required")
	}
	return nil
}

// Executor performs exact-input swaps through the Balancer V2 vault.
type Executor struct {
	self      common.Address
	vaultAddr common.Address
	vault     Vault
	ledger    assets.Ledger
}

// NewExecutor creates a Balancer V2 executor from a validated config.
func NewExecutor(cfg *ExecutorConfig) (*Executor, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	vaultAddr := cfg.VaultAddr
	if vaultAddr == (common.Address{}) {
		vaultAddr = VaultAddress
	}
	return &Executor{
		self:      cfg.Self,
		vaultAddr: vaultAddr,
		vault:     cfg.Vault,
		ledger:    cfg.Ledger,
	}, nil
}

// Protocol implements executor.SwapExecutor.
func (e *Executor) Protocol() executor.Protocol {
	return executor.ProtocolBalancerV2
}

// Swap decodes the 93-byte payload, grants the vault an unbounded allowance
// when the payload asks for it, and submits a GivenIn single swap drawing on
// the executor's balance with the output paid to the receiver.
func (e *Executor) Swap(ctx context.Context, amountIn *big.Int, data []byte) (*big.Int, error) {
	params, err := DecodeSwap(data)
	if err != nil {
		return nil, err
	}
	if params.PoolID.IsZero() {
		return nil, ErrZeroPoolID
	}

	if params.NeedsApproval {
		if err := e.ledger.Approve(params.TokenIn, e.self, e.vaultAddr, assets.MaxAllowance()); err != nil {
			return nil, err
		}
	}

	single := SingleSwap{
		PoolID:   params.PoolID,
		Kind:     GivenIn,
		AssetIn:  params.TokenIn,
		AssetOut: params.TokenOut,
		Amount:   new(big.Int).Set(amountIn),
		UserData: []byte{},
	}
	funds := FundManagement{
		Sender:    e.self,
		Recipient: params.Receiver,
	}

	// Downstream failures propagate unmodified.
	return e.vault.Swap(ctx, single, funds, new(big.Int))
}
