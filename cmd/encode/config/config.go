package config

import (
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/ShadowyCreators/tycho-execution/pkg/chains"
)

// Addresses are carried as hex strings in the file; yaml has no text
// unmarshaler for the 20-byte array types.

// UniswapV3Config holds the deployment constants needed to derive pool
// addresses deterministically.
type UniswapV3Config struct {
	Factory      string `yaml:"factory"`
	InitCodeHash string `yaml:"init_code_hash"`
}

// UniswapV4Config identifies the singleton pool manager and the router the
// encoded payload authorizes for the unlock callback.
type UniswapV4Config struct {
	PoolManager string `yaml:"pool_manager"`
	Router      string `yaml:"router"`
}

// BalancerV2Config identifies the vault deployment.
type BalancerV2Config struct {
	Vault string `yaml:"vault"`
}

// ChainConfig is the per-chain deployment configuration for the encoder.
type ChainConfig struct {
	ChainID    *big.Int         `yaml:"chain_id"`
	UniswapV3  UniswapV3Config  `yaml:"uniswap_v3"`
	UniswapV4  UniswapV4Config  `yaml:"uniswap_v4"`
	BalancerV2 BalancerV2Config `yaml:"balancer_v2"`
}

// V3Factory returns the configured Uniswap V3 factory address.
func (c *ChainConfig) V3Factory() common.Address {
	return common.HexToAddress(c.UniswapV3.Factory)
}

// V3InitCodeHash returns the configured pool init code hash.
func (c *ChainConfig) V3InitCodeHash() common.Hash {
	return common.HexToHash(c.UniswapV3.InitCodeHash)
}

// V4Router returns the configured Uniswap V4 router address.
func (c *ChainConfig) V4Router() common.Address {
	return common.HexToAddress(c.UniswapV4.Router)
}

// LoadConfig reads a configuration file from the given path and unmarshals it
// into a ChainConfig struct.
func LoadConfig(path string) (*ChainConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg ChainConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.ChainID == nil {
		return nil, fmt.Errorf("config %s: chain_id is required", path)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults fills omitted addresses from the chain's canonical
// deployments, when the chain is a known one.
func (c *ChainConfig) applyDefaults() {
	d, ok := chains.DeploymentsFor(c.ChainID.Uint64())
	if !ok {
		return
	}

	if c.UniswapV3.Factory == "" {
		c.UniswapV3.Factory = d.UniswapV3Factory.Hex()
	}
	if c.UniswapV3.InitCodeHash == "" {
		c.UniswapV3.InitCodeHash = d.UniswapV3InitCodeHash.Hex()
	}
	if c.UniswapV4.PoolManager == "" {
		c.UniswapV4.PoolManager = d.UniswapV4PoolManager.Hex()
	}
	if c.UniswapV4.Router == "" {
		c.UniswapV4.Router = d.UniswapV4Router.Hex()
	}
	if c.BalancerV2.Vault == "" {
		c.BalancerV2.Vault = d.BalancerV2Vault.Hex()
	}
}
