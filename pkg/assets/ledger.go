// Package assets abstracts token custody for the swap executors.
//
// An executor's own token balance is the only mutable shared resource in the
// system: it is funded by the upstream dispatcher before a swap, debited
// toward the pool during settlement, and credited by the pool's payout. The
// Ledger interface captures exactly those movements; transfer atomicity and
// revert-on-failure semantics are the implementation's responsibility.
package assets

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Native is the sentinel token address denoting the chain's native asset.
// A balance query against Native reads the holder's native-coin balance.
var Native = common.Address{}

// MaxAllowance returns the unbounded allowance granted when an executor
// pre-approves a vault or router for its input token.
func MaxAllowance() *uint256.Int {
	max := new(uint256.Int)
	return max.Not(max)
}

var (
	// ErrInsufficientBalance is returned when a transfer would overdraw the
	// sender. No partial movement happens.
	ErrInsufficientBalance = errors.New("assets: insufficient balance")
)

// Ledger is the token-custody collaborator an executor settles against.
//
// Implementations must be atomic per call: a failed Transfer moves nothing.
type Ledger interface {
	// BalanceOf returns the holder's balance of token. The Native sentinel
	// selects the native asset.
	BalanceOf(token, holder common.Address) *uint256.Int

	// Transfer moves amount of token from one holder to another.
	Transfer(token, from, to common.Address, amount *uint256.Int) error

	// Approve sets spender's allowance over owner's balance of token.
	Approve(token, owner, spender common.Address, amount *uint256.Int) error

	// Allowance returns spender's remaining allowance over owner's token balance.
	Allowance(token, owner, spender common.Address) *uint256.Int
}

// TokenLedger is an in-memory Ledger used by tests and local simulation.
// The zero-address token slot holds native balances, so the Native sentinel
// needs no special casing.
type TokenLedger struct {
	mu         sync.RWMutex
	balances   map[common.Address]map[common.Address]*uint256.Int
	allowances map[common.Address]map[common.Address]map[common.Address]*uint256.Int
}

// NewTokenLedger creates an empty in-memory ledger.
func NewTokenLedger() *TokenLedger {
	return &TokenLedger{
		balances:   make(map[common.Address]map[common.Address]*uint256.Int),
		allowances: make(map[common.Address]map[common.Address]map[common.Address]*uint256.Int),
	}
}

// Mint credits amount of token to holder. Test and simulation funding only;
// there is no on-chain analogue.
func (l *TokenLedger) Mint(token, holder common.Address, amount *uint256.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.credit(token, holder, amount)
}

// BalanceOf returns a defensive copy of the holder's balance.
func (l *TokenLedger) BalanceOf(token, holder common.Address) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	holders, ok := l.balances[token]
	if !ok {
		return new(uint256.Int)
	}
	bal, ok := holders[holder]
	if !ok {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(bal)
}

// Transfer moves amount from one holder to another, failing without any
// movement if the sender's balance is insufficient.
func (l *TokenLedger) Transfer(token, from, to common.Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	bal := l.balance(token, from)
	if bal.Lt(amount) {
		return fmt.Errorf("%w: token %s, holder %s has %s, needs %s",
			ErrInsufficientBalance, token, from, bal, amount)
	}
	bal.Sub(bal, amount)
	l.credit(token, to, amount)
	return nil
}

// Approve sets spender's allowance over owner's token balance.
func (l *TokenLedger) Approve(token, owner, spender common.Address, amount *uint256.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	owners, ok := l.allowances[token]
	if !ok {
		owners = make(map[common.Address]map[common.Address]*uint256.Int)
		l.allowances[token] = owners
	}
	spenders, ok := owners[owner]
	if !ok {
		spenders = make(map[common.Address]*uint256.Int)
		owners[owner] = spenders
	}
	spenders[spender] = new(uint256.Int).Set(amount)
	return nil
}

// Allowance returns a defensive copy of spender's allowance.
func (l *TokenLedger) Allowance(token, owner, spender common.Address) *uint256.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if spenders, ok := l.allowances[token][owner]; ok {
		if a, ok := spenders[spender]; ok {
			return new(uint256.Int).Set(a)
		}
	}
	return new(uint256.Int)
}

// balance returns the live (mutable) balance entry, creating it if absent.
// Callers must hold l.mu.
func (l *TokenLedger) balance(token, holder common.Address) *uint256.Int {
	holders, ok := l.balances[token]
	if !ok {
		holders = make(map[common.Address]*uint256.Int)
		l.balances[token] = holders
	}
	bal, ok := holders[holder]
	if !ok {
		bal = new(uint256.Int)
		holders[holder] = bal
	}
	return bal
}

func (l *TokenLedger) credit(token, holder common.Address, amount *uint256.Int) {
	bal := l.balance(token, holder)
	bal.Add(bal, amount)
}
