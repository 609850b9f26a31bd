// Package executor defines the uniform dispatch surface shared by all
// protocol swap executors.
//
// Every executor decodes a tightly packed binary parameter blob, invokes its
// external pool or router, and reports the realized output amount. Callers go
// through the Dispatcher and never need to know which concrete protocol they
// are invoking.
package executor

import (
	"context"
	"math/big"
)

// Protocol identifies a concrete swap-executor variant.
type Protocol uint8

const (
	ProtocolUnknown Protocol = iota
	ProtocolUniswapV3
	ProtocolUniswapV4
	ProtocolBalancerV2
)

// String returns the canonical protocol system name.
func (p Protocol) String() string {
	switch p {
	case ProtocolUniswapV3:
		return "uniswap_v3"
	case ProtocolUniswapV4:
		return "uniswap_v4"
	case ProtocolBalancerV2:
		return "balancer_v2"
	default:
		return "unknown"
	}
}

// ParseProtocol resolves a protocol system name to its Protocol value.
func ParseProtocol(s string) (Protocol, bool) {
	switch s {
	case "uniswap_v3":
		return ProtocolUniswapV3, true
	case "uniswap_v4":
		return ProtocolUniswapV4, true
	case "balancer_v2":
		return ProtocolBalancerV2, true
	default:
		return ProtocolUnknown, false
	}
}

// SwapExecutor performs an exact-input swap for one protocol.
//
// data is the protocol's packed parameter blob; its layout is validated
// before any external call. Any failure from the external pool or router
// propagates unmodified, and no executor ever retries.
type SwapExecutor interface {
	// Protocol reports which variant this executor implements.
	Protocol() Protocol

	// Swap executes an exact-input swap of amountIn and returns the realized
	// output amount.
	Swap(ctx context.Context, amountIn *big.Int, data []byte) (*big.Int, error)
}
