package blockchain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bridge-kita.backend/internal/infrastructure/blockchain"
)

func TestDispatcherPoolReusesPerTriple(t *testing.T) {
	pool := blockchain.NewDispatcherPool(blockchain.DispatcherDeps{})

	first, err := pool.Get("bridge-ton", "1100", "wallet-a")
	require.NoError(t, err)
	again, err := pool.Get("bridge-ton", "1100", "wallet-a")
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1, pool.Len())

	// A different account gets its own dispatcher.
	other, err := pool.Get("bridge-ton", "1100", "wallet-b")
	require.NoError(t, err)
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, pool.Len())
}

func TestDispatcherPoolEvictAccount(t *testing.T) {
	pool := blockchain.NewDispatcherPool(blockchain.DispatcherDeps{})

	_, err := pool.Get("bridge-ton", "1100", "wallet-a")
	require.NoError(t, err)
	_, err = pool.Get("token-ton", "2000", "wallet-a")
	require.NoError(t, err)
	kept, err := pool.Get("bridge-ton", "1100", "wallet-b")
	require.NoError(t, err)
	require.Equal(t, 3, pool.Len())

	pool.EvictAccount("wallet-a")
	assert.Equal(t, 1, pool.Len())

	// The surviving dispatcher is still served from cache.
	again, err := pool.Get("bridge-ton", "1100", "wallet-b")
	require.NoError(t, err)
	assert.Same(t, kept, again)

	// Evicted triples are rebuilt on next use.
	rebuilt, err := pool.Get("bridge-ton", "1100", "wallet-a")
	require.NoError(t, err)
	assert.NotNil(t, rebuilt)
	assert.Equal(t, 2, pool.Len())
}

func TestDispatcherPoolRejectsEmptyAddress(t *testing.T) {
	pool := blockchain.NewDispatcherPool(blockchain.DispatcherDeps{})
	_, err := pool.Get("", "1100", "wallet-a")
	require.Error(t, err)
	assert.Equal(t, 0, pool.Len())
}
