package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "ELF", cfg.Contracts.FeeTokens["AELF"])
	assert.Equal(t, int64(300_000_000), cfg.Contracts.TONNativeFeeNano)

	// No keys configured leaves both signing families view-only.
	assert.Empty(t, cfg.Blockchain.EVMPrivateKey)
	assert.Empty(t, cfg.Blockchain.AccountChainPrivateKey)
}

func TestLoadSignerKeys(t *testing.T) {
	t.Setenv("EVM_PRIVATE_KEY", "aa")
	t.Setenv("AELF_PRIVATE_KEY", "bb")

	cfg := Load()
	assert.Equal(t, "aa", cfg.Blockchain.EVMPrivateKey)
	assert.Equal(t, "bb", cfg.Blockchain.AccountChainPrivateKey)
}

func TestGetEnvAsPairs(t *testing.T) {
	t.Setenv("BRIDGE_SWAP_IDS", "AELF|11155111|ELF=0xswap1,11155111|AELF|ELF=0xswap2")

	pairs := getEnvAsPairs("BRIDGE_SWAP_IDS")
	assert.Equal(t, "0xswap1", pairs["AELF|11155111|ELF"])
	assert.Equal(t, "0xswap2", pairs["11155111|AELF|ELF"])
}
