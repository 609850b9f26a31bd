// Package wire provides the packing primitives shared by the protocol codecs.
//
// All executor payloads use fixed-offset packed encoding: every field occupies
// a statically known offset and width, with no delimiters or length prefixes.
// The narrow integer fields (fee tiers, tick spacings) travel as 3-byte
// big-endian values and are widened here into native integer types.
package wire

import "fmt"

const (
	// Uint24Max is the largest value representable in a 3-byte unsigned field.
	Uint24Max = 1<<24 - 1

	// Int24Min and Int24Max bound the 3-byte signed field.
	Int24Min = -1 << 23
	Int24Max = 1<<23 - 1
)

// PutUint24 writes v into b[0:3] big-endian.
// Returns an error if v does not fit in 24 bits.
func PutUint24(b []byte, v uint32) error {
	if v > Uint24Max {
		return fmt.Errorf("wire: value %d overflows uint24", v)
	}
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
	return nil
}

// Uint24 reads a big-endian 3-byte unsigned value from b[0:3],
// zero-extending it into a uint32.
func Uint24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

// PutInt24 writes v into b[0:3] big-endian, two's complement.
// Returns an error if v does not fit in 24 bits.
func PutInt24(b []byte, v int32) error {
	if v < Int24Min || v > Int24Max {
		return fmt.Errorf("wire: value %d overflows int24", v)
	}
	u := uint32(v) & Uint24Max
	b[0] = byte(u >> 16)
	b[1] = byte(u >> 8)
	b[2] = byte(u)
	return nil
}

// Int24 reads a big-endian 3-byte signed value from b[0:3],
// sign-extending it into an int32.
func Int24(b []byte) int32 {
	u := Uint24(b)
	if u&(1<<23) != 0 {
		u |= 0xff000000
	}
	return int32(u)
}
