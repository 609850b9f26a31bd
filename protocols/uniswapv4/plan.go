package uniswapv4

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ShadowyCreators/tycho-execution/pkg/poolkey"
)

// ErrNoPools is returned when a decoded payload carries zero pool hops.
// The 61-byte header alone is a valid encoding but not a swappable one.
var ErrNoPools = errors.New("uniswap_v4: swap requires at least one pool hop")

// Router action identifiers, as mandated by the v4 periphery specification.
type Action byte

const (
	ActionSwapExactInSingle Action = 0x06
	ActionSwapExactIn       Action = 0x07
	ActionSettleAll         Action = 0x0c
	ActionTakeAll           Action = 0x0f
)

// PoolKey identifies a pool inside the singleton manager. Currencies are
// ordered; the zero address denotes the native asset and sorts first.
type PoolKey struct {
	Currency0   common.Address
	Currency1   common.Address
	Fee         uint32
	TickSpacing int32
	Hooks       common.Address
}

// ID returns the pool's bytes32 identifier: the keccak256 hash of the
// ABI-encoded key.
func (k PoolKey) ID() (poolkey.PoolKey, error) {
	encoded, err := poolKeyArguments.Pack(k.abi())
	if err != nil {
		return poolkey.PoolKey{}, err
	}
	return poolkey.FromHash(crypto.Keccak256Hash(encoded)), nil
}

// PathKey describes one hop of a multi-hop swap path.
type PathKey struct {
	IntermediateCurrency common.Address
	Fee                  uint32
	TickSpacing          int32
	Hooks                common.Address
	HookData             []byte
}

// Plan is an ordered action sequence plus one ABI-encoded parameter blob per
// action, executed atomically by the router's unlock entry point.
type Plan struct {
	Actions []Action
	Params  [][]byte
}

func (p *Plan) add(a Action, params []byte) {
	p.Actions = append(p.Actions, a)
	p.Params = append(p.Params, params)
}

// Encode serializes the plan as abi.encode(bytes actions, bytes[] params),
// the shape the router's execute entry point consumes.
func (p Plan) Encode() ([]byte, error) {
	actions := make([]byte, len(p.Actions))
	for i, a := range p.Actions {
		actions[i] = byte(a)
	}
	return planArguments.Pack(actions, p.Params)
}

// BuildExactInputPlan assembles the action plan for an exact-input swap:
// one swap action (single-hop against a synthesized pool key, or a path swap
// over the ordered hop list), then settle-all on the input currency and
// take-all on the output currency.
func BuildExactInputPlan(params SwapParams, amountIn *big.Int) (Plan, error) {
	if len(params.Pools) == 0 {
		return Plan{}, ErrNoPools
	}

	var plan Plan

	if len(params.Pools) == 1 {
		swapParams, err := exactInSingleArguments.Pack(abiExactInputSingle{
			PoolKey:          SinglePoolKey(params).abi(),
			ZeroForOne:       params.ZeroForOne,
			AmountIn:         new(big.Int).Set(amountIn),
			AmountOutMinimum: new(big.Int),
			HookData:         []byte{},
		})
		if err != nil {
			return Plan{}, err
		}
		plan.add(ActionSwapExactInSingle, swapParams)
	} else {
		path := BuildPath(params)
		abiPath := make([]abiPathKey, len(path))
		for i, k := range path {
			abiPath[i] = k.abi()
		}
		swapParams, err := exactInArguments.Pack(abiExactInput{
			CurrencyIn:       params.TokenIn,
			Path:             abiPath,
			AmountIn:         new(big.Int).Set(amountIn),
			AmountOutMinimum: new(big.Int),
		})
		if err != nil {
			return Plan{}, err
		}
		plan.add(ActionSwapExactIn, swapParams)
	}

	settleParams, err := currencyAmountArguments.Pack(params.TokenIn, new(big.Int).Set(amountIn))
	if err != nil {
		return Plan{}, err
	}
	plan.add(ActionSettleAll, settleParams)

	takeParams, err := currencyAmountArguments.Pack(params.TokenOut, new(big.Int))
	if err != nil {
		return Plan{}, err
	}
	plan.add(ActionTakeAll, takeParams)

	return plan, nil
}

// SinglePoolKey synthesizes the pool key for a single-hop swap: the token
// pair ordered by the direction flag, fee and tick spacing from the sole
// hop record, and no hook.
func SinglePoolKey(params SwapParams) PoolKey {
	currency0, currency1 := params.TokenIn, params.TokenOut
	if !params.ZeroForOne {
		currency0, currency1 = params.TokenOut, params.TokenIn
	}
	return PoolKey{
		Currency0:   currency0,
		Currency1:   currency1,
		Fee:         params.Pools[0].Fee,
		TickSpacing: params.Pools[0].TickSpacing,
	}
}

// BuildPath expands the hop records into router path keys, one per hop, in
// original order. Each hop's intermediate currency is the hop's output token.
func BuildPath(params SwapParams) []PathKey {
	path := make([]PathKey, len(params.Pools))
	for i, seg := range params.Pools {
		path[i] = PathKey{
			IntermediateCurrency: seg.IntermediateToken,
			Fee:                  seg.Fee,
			TickSpacing:          seg.TickSpacing,
			HookData:             []byte{},
		}
	}
	return path
}

// --- ABI plumbing ---

type abiPoolKey struct {
	Currency0   common.Address
	Currency1   common.Address
	Fee         *big.Int
	TickSpacing *big.Int
	Hooks       common.Address
}

type abiPathKey struct {
	IntermediateCurrency common.Address
	Fee                  *big.Int
	TickSpacing          *big.Int
	Hooks                common.Address
	HookData             []byte
}

type abiExactInputSingle struct {
	PoolKey          abiPoolKey
	ZeroForOne       bool
	AmountIn         *big.Int
	AmountOutMinimum *big.Int
	HookData         []byte
}

type abiExactInput struct {
	CurrencyIn       common.Address
	Path             []abiPathKey
	AmountIn         *big.Int
	AmountOutMinimum *big.Int
}

func (k PoolKey) abi() abiPoolKey {
	return abiPoolKey{
		Currency0:   k.Currency0,
		Currency1:   k.Currency1,
		Fee:         big.NewInt(int64(k.Fee)),
		TickSpacing: big.NewInt(int64(k.TickSpacing)),
		Hooks:       k.Hooks,
	}
}

func (k PathKey) abi() abiPathKey {
	hookData := k.HookData
	if hookData == nil {
		hookData = []byte{}
	}
	return abiPathKey{
		IntermediateCurrency: k.IntermediateCurrency,
		Fee:                  big.NewInt(int64(k.Fee)),
		TickSpacing:          big.NewInt(int64(k.TickSpacing)),
		Hooks:                k.Hooks,
		HookData:             hookData,
	}
}

var poolKeyComponents = []abi.ArgumentMarshaling{
	{Name: "currency0", Type: "address"},
	{Name: "currency1", Type: "address"},
	{Name: "fee", Type: "uint24"},
	{Name: "tickSpacing", Type: "int24"},
	{Name: "hooks", Type: "address"},
}

var pathKeyComponents = []abi.ArgumentMarshaling{
	{Name: "intermediateCurrency", Type: "address"},
	{Name: "fee", Type: "uint24"},
	{Name: "tickSpacing", Type: "int24"},
	{Name: "hooks", Type: "address"},
	{Name: "hookData", Type: "bytes"},
}

var (
	poolKeyArguments = abi.Arguments{
		{Type: mustNewType("tuple", poolKeyComponents)},
	}

	exactInSingleArguments = abi.Arguments{
		{Type: mustNewType("tuple", []abi.ArgumentMarshaling{
			{Name: "poolKey", Type: "tuple", Components: poolKeyComponents},
			{Name: "zeroForOne", Type: "bool"},
			{Name: "amountIn", Type: "uint128"},
			{Name: "amountOutMinimum", Type: "uint128"},
			{Name: "hookData", Type: "bytes"},
		})},
	}

	exactInArguments = abi.Arguments{
		{Type: mustNewType("tuple", []abi.ArgumentMarshaling{
			{Name: "currencyIn", Type: "address"},
			{Name: "path", Type: "tuple[]", Components: pathKeyComponents},
			{Name: "amountIn", Type: "uint128"},
			{Name: "amountOutMinimum", Type: "uint128"},
		})},
	}

	currencyAmountArguments = abi.Arguments{
		{Type: mustNewType("address", nil)},
		{Type: mustNewType("uint256", nil)},
	}

	planArguments = abi.Arguments{
		{Type: mustNewType("bytes", nil)},
		{Type: mustNewType("bytes[]", nil)},
	}
)

func mustNewType(t string, components []abi.ArgumentMarshaling) abi.Type {
	typ, err := abi.NewType(t, "", components)
	if err != nil {
		panic(err)
	}
	return typ
}
