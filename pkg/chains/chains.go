// Package chains holds the chain identifiers and canonical protocol
// deployments the encoder falls back to when a configuration file leaves
// them out.
package chains

import "github.com/ethereum/go-ethereum/common"

// Supported chain IDs.
const (
	Mainnet uint64 = 1
	Base    uint64 = 8453
)

// Deployments are the per-chain protocol contract addresses and constants.
type Deployments struct {
	UniswapV3Factory      common.Address
	UniswapV3InitCodeHash common.Hash
	UniswapV4PoolManager  common.Address
	UniswapV4Router       common.Address
	BalancerV2Vault       common.Address
}

var deployments = map[uint64]Deployments{
	Mainnet: {
		UniswapV3Factory:      common.HexToAddress("0x1F98431c8aD98523631AE4a59f267346ea31F984"),
		UniswapV3InitCodeHash: common.HexToHash("0xe34f199b19b2b4f47f68442619d555527d244f78a3297ea89325f843f87b8b54"),
		UniswapV4PoolManager:  common.HexToAddress("0x000000000004444c5dc75cB358380D2e3dE08A90"),
		UniswapV4Router:       common.HexToAddress("0x66a9893cC07D91D95644AEDD05D03f95e1dBA8Af"),
		BalancerV2Vault:       common.HexToAddress("0xBA12222222228d8Ba445958a75a0704d566BF2C8"),
	},
	Base: {
		UniswapV3Factory:      common.HexToAddress("0x33128a8fC17869897dcE68Ed026d694621f6FDfD"),
		UniswapV3InitCodeHash: common.HexToHash("0xe34f199b19b2b4f47f68442619d555527d244f78a3297ea89325f843f87b8b54"),
		UniswapV4PoolManager:  common.HexToAddress("0x498581fF718922c3f8e6A244956aF099B2652b2b"),
		UniswapV4Router:       common.HexToAddress("0x6fF5693b99212Da76ad316178A184AB56D299b43"),
		BalancerV2Vault:       common.HexToAddress("0xBA12222222228d8Ba445958a75a0704d566BF2C8"),
	},
}

// DeploymentsFor returns the canonical deployments for a chain ID.
func DeploymentsFor(chainID uint64) (Deployments, bool) {
	d, ok := deployments[chainID]
	return d, ok
}
