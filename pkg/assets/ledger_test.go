package assets

import (
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testToken = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	alice     = common.HexToAddress("0x0000000000000000000000000000000000000001")
	bob       = common.HexToAddress("0x0000000000000000000000000000000000000002")
)

func TestTokenLedger(t *testing.T) {
	t.Run("Transfer_MovesExactAmount", func(t *testing.T) {
		l := NewTokenLedger()
		l.Mint(testToken, alice, uint256.NewInt(100))

		require.NoError(t, l.Transfer(testToken, alice, bob, uint256.NewInt(40)))

		assert.Equal(t, uint256.NewInt(60), l.BalanceOf(testToken, alice))
		assert.Equal(t, uint256.NewInt(40), l.BalanceOf(testToken, bob))
	})

	t.Run("Transfer_InsufficientBalance_MovesNothing", func(t *testing.T) {
		l := NewTokenLedger()
		l.Mint(testToken, alice, uint256.NewInt(10))

		err := l.Transfer(testToken, alice, bob, uint256.NewInt(11))
		require.ErrorIs(t, err, ErrInsufficientBalance)

		assert.Equal(t, uint256.NewInt(10), l.BalanceOf(testToken, alice), "sender balance untouched")
		assert.True(t, l.BalanceOf(testToken, bob).IsZero(), "recipient balance untouched")
	})

	t.Run("NativeSentinel_IsJustAnotherToken", func(t *testing.T) {
		l := NewTokenLedger()
		l.Mint(Native, alice, uint256.NewInt(5))

		require.NoError(t, l.Transfer(Native, alice, bob, uint256.NewInt(5)))
		assert.Equal(t, uint256.NewInt(5), l.BalanceOf(Native, bob))
		assert.True(t, l.BalanceOf(testToken, bob).IsZero(), "native balance is isolated from ERC20 balances")
	})

	t.Run("Approve_And_Allowance", func(t *testing.T) {
		l := NewTokenLedger()

		assert.True(t, l.Allowance(testToken, alice, bob).IsZero())

		require.NoError(t, l.Approve(testToken, alice, bob, MaxAllowance()))
		assert.Equal(t, MaxAllowance(), l.Allowance(testToken, alice, bob))

		// Re-approval overwrites
		require.NoError(t, l.Approve(testToken, alice, bob, uint256.NewInt(7)))
		assert.Equal(t, uint256.NewInt(7), l.Allowance(testToken, alice, bob))
	})

	t.Run("BalanceOf_ReturnsDefensiveCopy", func(t *testing.T) {
		l := NewTokenLedger()
		l.Mint(testToken, alice, uint256.NewInt(100))

		bal := l.BalanceOf(testToken, alice)
		bal.SetUint64(0)

		assert.Equal(t, uint256.NewInt(100), l.BalanceOf(testToken, alice), "mutating the returned value must not affect the ledger")
	})

	t.Run("ConcurrentReads", func(t *testing.T) {
		l := NewTokenLedger()
		l.Mint(testToken, alice, uint256.NewInt(1))

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = l.BalanceOf(testToken, alice)
				_ = l.Allowance(testToken, alice, bob)
			}()
		}
		wg.Wait()
	})
}
