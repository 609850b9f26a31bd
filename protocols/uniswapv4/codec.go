// Package uniswapv4 implements the swap executor for the unified-liquidity
// pool manager.
//
// Swaps are expressed as an action plan (swap, settle-all, take-all) executed
// atomically inside the manager's unlock callback. The executor measures its
// own destination-token balance around the router invocation; the realized
// output is the balance delta, which stays correct regardless of the router's
// internal accounting.
package uniswapv4

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/ShadowyCreators/tycho-execution/executor"
	"github.com/ShadowyCreators/tycho-execution/pkg/wire"
)

// Packed layout. A fixed 61-byte header is followed by one 26-byte record
// per pool hop; total length alone determines the hop count.
//
//	header:  tokenIn(20) || tokenOut(20) || zeroForOne(1) || callbackTarget(20)
//	record:  intermediaryToken(20) || fee(3) || tickSpacing(3)
const (
	headerLength  = 61
	segmentLength = 26
)

// PathSegment is one 26-byte pool hop record. IntermediateToken is the
// output currency of the hop; fee and tick spacing identify the pool on
// that pair.
type PathSegment struct {
	IntermediateToken common.Address
	Fee               uint32
	TickSpacing       int32
}

// SwapParams is the decoded form of a packed multi-hop swap payload.
type SwapParams struct {
	TokenIn        common.Address
	TokenOut       common.Address
	ZeroForOne     bool
	CallbackTarget common.Address
	Pools          []PathSegment
}

// Encode packs p into the 61+26n fixed layout in a single pass.
func Encode(p SwapParams) ([]byte, error) {
	data := make([]byte, headerLength+segmentLength*len(p.Pools))
	copy(data[0:20], p.TokenIn[:])
	copy(data[20:40], p.TokenOut[:])
	if p.ZeroForOne {
		data[40] = 1
	}
	copy(data[41:61], p.CallbackTarget[:])

	if err := encodeSegments(data[headerLength:], p.Pools); err != nil {
		return nil, err
	}
	return data, nil
}

// EncodePath packs an ordered hop list into consecutive 26-byte records.
// Output length is always an exact multiple of 26.
func EncodePath(pools []PathSegment) ([]byte, error) {
	data := make([]byte, segmentLength*len(pools))
	if err := encodeSegments(data, pools); err != nil {
		return nil, err
	}
	return data, nil
}

func encodeSegments(dst []byte, pools []PathSegment) error {
	for i, seg := range pools {
		record := dst[i*segmentLength:]
		copy(record[0:20], seg.IntermediateToken[:])
		if err := wire.PutUint24(record[20:23], seg.Fee); err != nil {
			return err
		}
		if err := wire.PutInt24(record[23:26], seg.TickSpacing); err != nil {
			return err
		}
	}
	return nil
}

// Decode unpacks a 61+26n payload. Any length below the header size, or one
// that leaves a partial pool record, fails with executor.ErrInvalidDataLength
// before any field is read.
func Decode(data []byte) (SwapParams, error) {
	if len(data) < headerLength || (len(data)-headerLength)%segmentLength != 0 {
		return SwapParams{}, &executor.InvalidDataLengthError{
			Protocol: executor.ProtocolUniswapV4,
			Length:   len(data),
			Want:     "61 + 26n bytes",
		}
	}

	n := (len(data) - headerLength) / segmentLength
	var pools []PathSegment
	if n > 0 {
		pools = make([]PathSegment, n)
	}
	for i := range pools {
		record := data[headerLength+i*segmentLength:]
		pools[i] = PathSegment{
			IntermediateToken: common.Address(record[0:20]),
			Fee:               wire.Uint24(record[20:23]),
			TickSpacing:       wire.Int24(record[23:26]),
		}
	}

	return SwapParams{
		TokenIn:        common.Address(data[0:20]),
		TokenOut:       common.Address(data[20:40]),
		ZeroForOne:     data[40] != 0,
		CallbackTarget: common.Address(data[41:61]),
		Pools:          pools,
	}, nil
}
