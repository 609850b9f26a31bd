// Package poolkey normalizes the pool identifiers used by the executor suite.
package poolkey

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// PoolKey is a fixed-size 32-byte container holding any protocol's pool identifier.
//
// Motivation:
// Uniswap V3 pools are identified by a 20-byte contract address, while Balancer V2
// and Uniswap V4 address pools by a bytes32 identifier. PoolKey normalizes both into
// a single, comparable, hashable type so executors and registries can treat pool
// identity uniformly.
//
// Encoding rules:
//   - Address-based identifiers are stored in Ethereum ABI form:
//     [0..11] = zero padding, [12..31] = address (right-aligned)
//   - bytes32 identifiers are stored verbatim in [0..31]
//
// PoolKey MUST NOT be treated as a generic ABI word; conversions must be explicit.
type PoolKey [32]byte

// Bytes returns the raw underlying 32-byte slice.
func (p PoolKey) Bytes() []byte {
	return p[:]
}

// String returns the "0x"-prefixed hex representation of the key.
func (p PoolKey) String() string {
	return "0x" + hex.EncodeToString(p[:])
}

// IsZero reports whether the key is entirely zero. A zero key never identifies
// a real pool and is rejected by the executors before any external call.
func (p PoolKey) IsZero() bool {
	return p == PoolKey{}
}

// MarshalJSON serializes the key as a hex string.
func (p PoolKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON parses a hex string (optional "0x" prefix) into the key.
// Decoded bytes are copied into the front of the key and the remainder is
// zero-padded; inputs longer than 32 bytes are rejected. No ABI-aware address
// decoding happens here.
func (p *PoolKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimPrefix(s, "0x")

	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(b) > 32 {
		return errors.New("pool key too long")
	}

	// Wipe existing data to prevent dirty reads if reusing the struct
	*p = PoolKey{}
	copy(p[:], b)

	return nil
}

// FromAddress converts a pool contract address into a PoolKey.
//
// Layout (Ethereum ABI alignment):
//
//	[0..11]  = 0x00 padding
//	[12..31] = address (20 bytes)
func FromAddress(addr common.Address) PoolKey {
	var key PoolKey
	copy(key[12:], addr[:])
	return key
}

// FromBytes32 stores a bytes32 pool identifier verbatim.
func FromBytes32(b [32]byte) PoolKey {
	return PoolKey(b)
}

// FromHash stores a 32-byte hash identifier verbatim.
func FromHash(h common.Hash) PoolKey {
	return PoolKey(h)
}

// ToAddress attempts to interpret the PoolKey as a pool contract address.
//
// The key is treated as an address only if the first 12 bytes are zero,
// matching the ABI encoding of an address in a 32-byte word. A hash
// identifier with 12 leading zero bytes would be misclassified, though this
// is statistically negligible for cryptographic hashes.
func (p PoolKey) ToAddress() (common.Address, error) {
	for _, b := range p[:12] {
		if b != 0 {
			return common.Address{}, errors.New("pool key is not an ABI-encoded Ethereum address")
		}
	}
	return common.Address(p[12:32]), nil
}
