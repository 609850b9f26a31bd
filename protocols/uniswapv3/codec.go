// Package uniswapv3 implements the swap executor for Uniswap V3 pools.
//
// The protocol uses a deferred-payment model: the pool pays the output leg
// first and synchronously re-enters the executor's swap callback to collect
// the input leg. The executor therefore has to authenticate the callback
// (by re-deriving the pool address from the carried-forward parameters) and
// settle the owed amount out of its own holdings.
package uniswapv3

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/ShadowyCreators/tycho-execution/executor"
	"github.com/ShadowyCreators/tycho-execution/pkg/wire"
)

// Packed layouts. Every field sits at a fixed offset; total length is
// validated before any field is read.
//
//	swap:     tokenIn(20) || tokenOut(20) || fee(3) || receiver(20) || target(20) || zeroForOne(1)
//	callback: tokenIn(20) || tokenOut(20) || fee(3)
const (
	encodedSwapLength     = 84
	encodedCallbackLength = 43
)

// SwapParams is the decoded form of the 84-byte packed swap payload.
type SwapParams struct {
	TokenIn    common.Address
	TokenOut   common.Address
	Fee        uint32 // 24-bit fee tier, hundredths of a bip
	Receiver   common.Address
	Target     common.Address // pool the swap executes against
	ZeroForOne bool
}

// CallbackContext carries the original swap parameters through the pool's
// re-entrant callback so the expected pool address can be re-derived. It
// lives only for the duration of a single callback.
type CallbackContext struct {
	TokenIn  common.Address
	TokenOut common.Address
	Fee      uint32
}

// EncodeSwap packs p into the 84-byte fixed layout.
func EncodeSwap(p SwapParams) ([]byte, error) {
	data := make([]byte, encodedSwapLength)
	copy(data[0:20], p.TokenIn[:])
	copy(data[20:40], p.TokenOut[:])
	if err := wire.PutUint24(data[40:43], p.Fee); err != nil {
		return nil, err
	}
	copy(data[43:63], p.Receiver[:])
	copy(data[63:83], p.Target[:])
	if p.ZeroForOne {
		data[83] = 1
	}
	return data, nil
}

// DecodeSwap unpacks an 84-byte payload. Any other length fails with
// executor.ErrInvalidDataLength before a single field is read.
func DecodeSwap(data []byte) (SwapParams, error) {
	if len(data) != encodedSwapLength {
		return SwapParams{}, &executor.InvalidDataLengthError{
			Protocol: executor.ProtocolUniswapV3,
			Length:   len(data),
			Want:     "exactly 84 bytes",
		}
	}

	return SwapParams{
		TokenIn:    common.Address(data[0:20]),
		TokenOut:   common.Address(data[20:40]),
		Fee:        wire.Uint24(data[40:43]),
		Receiver:   common.Address(data[43:63]),
		Target:     common.Address(data[63:83]),
		ZeroForOne: data[83] != 0,
	}, nil
}

// EncodeCallback packs the callback context into its 43-byte layout.
func EncodeCallback(c CallbackContext) ([]byte, error) {
	data := make([]byte, encodedCallbackLength)
	copy(data[0:20], c.TokenIn[:])
	copy(data[20:40], c.TokenOut[:])
	if err := wire.PutUint24(data[40:43], c.Fee); err != nil {
		return nil, err
	}
	return data, nil
}

// DecodeCallback unpacks a 43-byte callback context.
func DecodeCallback(data []byte) (CallbackContext, error) {
	if len(data) != encodedCallbackLength {
		return CallbackContext{}, &executor.InvalidDataLengthError{
			Protocol: executor.ProtocolUniswapV3,
			Length:   len(data),
			Want:     "exactly 43 bytes",
		}
	}

	return CallbackContext{
		TokenIn:  common.Address(data[0:20]),
		TokenOut: common.Address(data[20:40]),
		Fee:      wire.Uint24(data[40:43]),
	}, nil
}
