// Command encode turns JSON swap descriptions into the packed binary
// payloads the protocol executors consume.
//
// Requests are read from stdin as a JSON stream and results are written to
// stdout one JSON object per request, so the command works both one-shot and
// as a pipeline stage:
//
//	echo '{"protocol":"uniswap_v3",...}' | encode -config config.yaml
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/joho/godotenv"

	"github.com/ShadowyCreators/tycho-execution/cmd/encode/config"
	"github.com/ShadowyCreators/tycho-execution/executor"
	"github.com/ShadowyCreators/tycho-execution/pkg/poolkey"
	"github.com/ShadowyCreators/tycho-execution/protocols/balancerv2"
	"github.com/ShadowyCreators/tycho-execution/protocols/uniswapv3"
	"github.com/ShadowyCreators/tycho-execution/protocols/uniswapv4"
)

// pathSegment mirrors one multi-hop pool record of a Uniswap V4 request.
type pathSegment struct {
	IntermediateToken string `json:"intermediate_token"`
	Fee               uint32 `json:"fee"`
	TickSpacing       int32  `json:"tick_spacing"`
}

// swapRequest is the union of all per-protocol encode inputs. Fields the
// requested protocol does not use are ignored.
type swapRequest struct {
	Protocol   string `json:"protocol"`
	TokenIn    string `json:"token_in"`
	TokenOut   string `json:"token_out"`
	ZeroForOne bool   `json:"zero_for_one"`

	// uniswap_v3; target is derived from the configured factory when empty.
	Fee      uint32 `json:"fee,omitempty"`
	Receiver string `json:"receiver,omitempty"`
	Target   string `json:"target,omitempty"`

	// uniswap_v4; callback_target defaults to the configured router.
	CallbackTarget string        `json:"callback_target,omitempty"`
	Pools          []pathSegment `json:"pools,omitempty"`

	// balancer_v2
	PoolID        string `json:"pool_id,omitempty"`
	NeedsApproval bool   `json:"needs_approval,omitempty"`
}

type swapResponse struct {
	Protocol string `json:"protocol"`
	Data     string `json:"data,omitempty"`
	Error    string `json:"error,omitempty"`
}

func main() {
	// Local development overrides; a missing .env file is not an error.
	_ = godotenv.Load()

	configPath := flag.String("config", envOr("ENCODER_CONFIG", "config.yaml"), "Path to the chain configuration file.")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Error("Failed to load configuration", "path", *configPath, "error", err)
		os.Exit(1)
	}
	logger.Info("Encoder ready", "chain_id", cfg.ChainID)

	if err := run(cfg, logger, os.Stdin, os.Stdout); err != nil {
		logger.Error("Encoder failed", "error", err)
		os.Exit(1)
	}
}

// run encodes every request on the input stream. Malformed requests produce
// an error response and the stream continues; only a broken stream aborts.
func run(cfg *config.ChainConfig, logger *slog.Logger, in io.Reader, out io.Writer) error {
	dec := json.NewDecoder(in)
	enc := json.NewEncoder(out)

	for {
		var req swapRequest
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading request: %w", err)
		}

		resp := swapResponse{Protocol: req.Protocol}
		data, err := encodeRequest(cfg, req)
		if err != nil {
			logger.Error("Encoding failed", "protocol", req.Protocol, "error", err)
			resp.Error = err.Error()
		} else {
			resp.Data = hexutil.Encode(data)
		}

		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
	}
}

func encodeRequest(cfg *config.ChainConfig, req swapRequest) ([]byte, error) {
	protocol, ok := executor.ParseProtocol(req.Protocol)
	if !ok {
		return nil, fmt.Errorf("%w: %q", executor.ErrUnknownProtocol, req.Protocol)
	}

	switch protocol {
	case executor.ProtocolUniswapV3:
		return encodeUniswapV3(cfg, req)
	case executor.ProtocolUniswapV4:
		return encodeUniswapV4(cfg, req)
	case executor.ProtocolBalancerV2:
		return encodeBalancerV2(req)
	default:
		return nil, fmt.Errorf("%w: %q", executor.ErrUnknownProtocol, req.Protocol)
	}
}

func encodeUniswapV3(cfg *config.ChainConfig, req swapRequest) ([]byte, error) {
	params := uniswapv3.SwapParams{
		TokenIn:    common.HexToAddress(req.TokenIn),
		TokenOut:   common.HexToAddress(req.TokenOut),
		Fee:        req.Fee,
		Receiver:   common.HexToAddress(req.Receiver),
		ZeroForOne: req.ZeroForOne,
	}

	if req.Target != "" {
		params.Target = common.HexToAddress(req.Target)
	} else {
		params.Target = uniswapv3.PoolAddress(
			cfg.V3Factory(), cfg.V3InitCodeHash(),
			params.TokenIn, params.TokenOut, params.Fee,
		)
	}

	return uniswapv3.EncodeSwap(params)
}

func encodeUniswapV4(cfg *config.ChainConfig, req swapRequest) ([]byte, error) {
	params := uniswapv4.SwapParams{
		TokenIn:    common.HexToAddress(req.TokenIn),
		TokenOut:   common.HexToAddress(req.TokenOut),
		ZeroForOne: req.ZeroForOne,
	}

	if req.CallbackTarget != "" {
		params.CallbackTarget = common.HexToAddress(req.CallbackTarget)
	} else {
		params.CallbackTarget = cfg.V4Router()
	}

	for _, p := range req.Pools {
		params.Pools = append(params.Pools, uniswapv4.PathSegment{
			IntermediateToken: common.HexToAddress(p.IntermediateToken),
			Fee:               p.Fee,
			TickSpacing:       p.TickSpacing,
		})
	}

	return uniswapv4.Encode(params)
}

func encodeBalancerV2(req swapRequest) ([]byte, error) {
	id := poolkey.FromHash(common.HexToHash(req.PoolID))
	if id.IsZero() {
		return nil, balancerv2.ErrZeroPoolID
	}

	return balancerv2.EncodeSwap(balancerv2.SwapParams{
		TokenIn:       common.HexToAddress(req.TokenIn),
		TokenOut:      common.HexToAddress(req.TokenOut),
		PoolID:        id,
		Receiver:      common.HexToAddress(req.Receiver),
		NeedsApproval: req.NeedsApproval,
	}), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
