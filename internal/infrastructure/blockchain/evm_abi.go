package blockchain

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Fallback ABIs used when no contract-specific ABI is registered for an
// address. They cover the ERC20 surface the approval path needs and the
// bridge surface the transfer and limit paths need.
var (
	FallbackERC20ABI = mustParseABI(`[
		{"inputs":[{"internalType":"address","name":"owner","type":"address"},{"internalType":"address","name":"spender","type":"address"}],"name":"allowance","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
		{"inputs":[{"internalType":"address","name":"spender","type":"address"},{"internalType":"uint256","name":"amount","type":"uint256"}],"name":"approve","outputs":[{"internalType":"bool","name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"},
		{"inputs":[{"internalType":"address","name":"account","type":"address"}],"name":"balanceOf","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
		{"inputs":[],"name":"decimals","outputs":[{"internalType":"uint8","name":"","type":"uint8"}],"stateMutability":"view","type":"function"}
	]`)
	FallbackBridgeABI = mustParseABI(`[
		{"inputs":[{"internalType":"address","name":"token","type":"address"},{"internalType":"uint256","name":"amount","type":"uint256"},{"internalType":"string","name":"targetChainId","type":"string"},{"internalType":"string","name":"targetAddress","type":"string"}],"name":"createReceipt","outputs":[],"stateMutability":"nonpayable","type":"function"},
		{"inputs":[{"internalType":"string","name":"targetChainId","type":"string"}],"name":"getFee","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
		{"inputs":[{"internalType":"address","name":"token","type":"address"},{"internalType":"string","name":"targetChainId","type":"string"}],"name":"getReceiptDailyLimit","outputs":[{"internalType":"uint256","name":"tokenAmount","type":"uint256"},{"internalType":"uint256","name":"refreshTime","type":"uint256"},{"internalType":"uint256","name":"dailyLimit","type":"uint256"}],"stateMutability":"view","type":"function"},
		{"inputs":[{"internalType":"address","name":"token","type":"address"},{"internalType":"string","name":"targetChainId","type":"string"}],"name":"getCurrentReceiptTokenBucketState","outputs":[{"internalType":"uint256","name":"currentTokenAmount","type":"uint256"},{"internalType":"uint256","name":"lastUpdatedTime","type":"uint256"},{"internalType":"uint256","name":"tokenCapacity","type":"uint256"},{"internalType":"uint256","name":"rate","type":"uint256"},{"internalType":"bool","name":"isEnabled","type":"bool"}],"stateMutability":"view","type":"function"},
		{"inputs":[{"internalType":"bytes32","name":"swapId","type":"bytes32"}],"name":"getSwapDailyLimit","outputs":[{"internalType":"uint256","name":"tokenAmount","type":"uint256"},{"internalType":"uint256","name":"refreshTime","type":"uint256"},{"internalType":"uint256","name":"dailyLimit","type":"uint256"}],"stateMutability":"view","type":"function"},
		{"inputs":[{"internalType":"bytes32","name":"swapId","type":"bytes32"}],"name":"getCurrentSwapTokenBucketState","outputs":[{"internalType":"uint256","name":"currentTokenAmount","type":"uint256"},{"internalType":"uint256","name":"lastUpdatedTime","type":"uint256"},{"internalType":"uint256","name":"tokenCapacity","type":"uint256"},{"internalType":"uint256","name":"rate","type":"uint256"},{"internalType":"bool","name":"isEnabled","type":"bool"}],"stateMutability":"view","type":"function"},
		{"inputs":[{"internalType":"address","name":"token","type":"address"}],"name":"getPoolLiquidity","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
	]`)

	// FallbackEVMABI is the default for unregistered addresses. A dispatcher
	// without per-token ABIs serves both the ERC20 and the bridge surface
	// from it, so token view calls resolve on any contract.
	FallbackEVMABI = mergeABIs(FallbackERC20ABI, FallbackBridgeABI)
)

func mergeABIs(parts ...abi.ABI) abi.ABI {
	merged := abi.ABI{
		Methods: make(map[string]abi.Method),
		Events:  make(map[string]abi.Event),
		Errors:  make(map[string]abi.Error),
	}
	for _, part := range parts {
		for name, m := range part.Methods {
			merged.Methods[name] = m
		}
		for name, e := range part.Events {
			merged.Events[name] = e
		}
		for name, e := range part.Errors {
			merged.Errors[name] = e
		}
	}
	return merged
}

// abiRegistry maps contract addresses (lowercased) to their parsed ABIs.
type abiRegistry struct {
	byAddress map[string]abi.ABI
	fallback  abi.ABI
}

func newABIRegistry(fallback abi.ABI) *abiRegistry {
	return &abiRegistry{
		byAddress: make(map[string]abi.ABI),
		fallback:  fallback,
	}
}

func (r *abiRegistry) register(address string, parsed abi.ABI) {
	r.byAddress[strings.ToLower(address)] = parsed
}

func (r *abiRegistry) resolve(address string) abi.ABI {
	if parsed, ok := r.byAddress[strings.ToLower(address)]; ok {
		return parsed
	}
	return r.fallback
}

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}
