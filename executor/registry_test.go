package executor

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExecutor is a minimal SwapExecutor for registry and dispatch tests.
type stubExecutor struct {
	protocol  Protocol
	amountOut *big.Int
	err       error

	called  bool
	gotIn   *big.Int
	gotData []byte
}

func (s *stubExecutor) Protocol() Protocol { return s.protocol }

func (s *stubExecutor) Swap(_ context.Context, amountIn *big.Int, data []byte) (*big.Int, error) {
	s.called = true
	s.gotIn = amountIn
	s.gotData = data
	if s.err != nil {
		return nil, s.err
	}
	return s.amountOut, nil
}

func TestRegistry(t *testing.T) {
	t.Run("GetByProtocol", func(t *testing.T) {
		v3 := &stubExecutor{protocol: ProtocolUniswapV3}
		bal := &stubExecutor{protocol: ProtocolBalancerV2}

		reg, err := NewRegistry(v3, bal)
		require.NoError(t, err)

		got, ok := reg.Get(ProtocolUniswapV3)
		require.True(t, ok)
		assert.Same(t, v3, got)

		_, ok = reg.Get(ProtocolUniswapV4)
		assert.False(t, ok, "unregistered protocol must not resolve")
	})

	t.Run("DuplicateProtocol", func(t *testing.T) {
		_, err := NewRegistry(
			&stubExecutor{protocol: ProtocolUniswapV3},
			&stubExecutor{protocol: ProtocolUniswapV3},
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "uniswap_v3")
	})

	t.Run("AllReturnsACopy", func(t *testing.T) {
		reg, err := NewRegistry(&stubExecutor{protocol: ProtocolUniswapV3})
		require.NoError(t, err)

		all := reg.All()
		require.Len(t, all, 1)
		all[0] = nil

		again := reg.All()
		require.Len(t, again, 1)
		assert.NotNil(t, again[0], "mutating the returned slice must not affect the registry")
	})

	t.Run("Empty", func(t *testing.T) {
		reg, err := NewRegistry()
		require.NoError(t, err)
		assert.Empty(t, reg.All())
	})
}

func TestProtocol(t *testing.T) {
	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "uniswap_v3", ProtocolUniswapV3.String())
		assert.Equal(t, "uniswap_v4", ProtocolUniswapV4.String())
		assert.Equal(t, "balancer_v2", ProtocolBalancerV2.String())
		assert.Equal(t, "unknown", Protocol(200).String())
	})

	t.Run("ParseRoundTrip", func(t *testing.T) {
		for _, p := range []Protocol{ProtocolUniswapV3, ProtocolUniswapV4, ProtocolBalancerV2} {
			got, ok := ParseProtocol(p.String())
			require.True(t, ok)
			assert.Equal(t, p, got)
		}

		_, ok := ParseProtocol("curve")
		assert.False(t, ok)
	})
}
