// Package balancerv2 implements the swap executor for the Balancer V2 vault.
//
// Pools are addressed by a bytes32 identifier and the vault settles both
// legs itself, so there is no deferred-payment callback: the executor only
// needs the one-off allowance grant and the vault's single-swap entry point.
package balancerv2

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/ShadowyCreators/tycho-execution/executor"
	"github.com/ShadowyCreators/tycho-execution/pkg/poolkey"
)

// Packed layout, exactly 93 bytes:
//
//	tokenIn(20) || tokenOut(20) || poolID(32) || receiver(20) || needsApproval(1)
const encodedSwapLength = 93

// SwapParams is the decoded form of the 93-byte packed swap payload.
type SwapParams struct {
	TokenIn       common.Address
	TokenOut      common.Address
	PoolID        poolkey.PoolKey
	Receiver      common.Address
	NeedsApproval bool
}

// EncodeSwap packs p into the 93-byte fixed layout.
func EncodeSwap(p SwapParams) []byte {
	data := make([]byte, encodedSwapLength)
	copy(data[0:20], p.TokenIn[:])
	copy(data[20:40], p.TokenOut[:])
	copy(data[40:72], p.PoolID[:])
	copy(data[72:92], p.Receiver[:])
	if p.NeedsApproval {
		data[92] = 1
	}
	return data
}

// DecodeSwap unpacks a 93-byte payload. Any other length fails with
// executor.ErrInvalidDataLength before a single field is read.
func DecodeSwap(data []byte) (SwapParams, error) {
	if len(data) != encodedSwapLength {
		return SwapParams{}, &executor.InvalidDataLengthError{
			Protocol: executor.ProtocolBalancerV2,
			Length:   len(data),
			Want:     "exactly 93 bytes",
		}
	}

	return SwapParams{
		TokenIn:       common.Address(data[0:20]),
		TokenOut:      common.Address(data[20:40]),
		PoolID:        poolkey.FromBytes32([32]byte(data[40:72])),
		Receiver:      common.Address(data[72:92]),
		NeedsApproval: data[92] != 0,
	}, nil
}
