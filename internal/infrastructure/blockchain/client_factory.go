package blockchain

import (
	"fmt"
	"sync"
)

// ClientFactory manages per-endpoint blockchain clients
type ClientFactory struct {
	evmClients  map[string]*EVMClient
	aelfClients map[string]*AelfClient
	mu          sync.RWMutex
}

// NewClientFactory creates a new client factory
func NewClientFactory() *ClientFactory {
	return &ClientFactory{
		evmClients:  make(map[string]*EVMClient),
		aelfClients: make(map[string]*AelfClient),
	}
}

// GetEVMClient returns an EVM client for the given RPC URL.
// If a client already exists for the URL, it returns the cached client.
func (f *ClientFactory) GetEVMClient(rpcURL string) (*EVMClient, error) {
	f.mu.RLock()
	client, ok := f.evmClients[rpcURL]
	f.mu.RUnlock()
	if ok {
		return client, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// Double check
	if client, ok := f.evmClients[rpcURL]; ok {
		return client, nil
	}

	newClient, err := NewEVMClient(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create EVM client: %w", err)
	}

	f.evmClients[rpcURL] = newClient
	return newClient, nil
}

// RegisterEVMClient injects/overrides the cached client for a specific
// rpcURL. Useful for deterministic unit tests.
func (f *ClientFactory) RegisterEVMClient(rpcURL string, client *EVMClient) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evmClients[rpcURL] = client
}

// RegisterAelfClient caches an account-chain node client for an RPC URL.
func (f *ClientFactory) RegisterAelfClient(rpcURL string, client *AelfClient) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.aelfClients[rpcURL] = client
}

// GetAelfClient returns the cached account-chain client for an RPC URL.
func (f *ClientFactory) GetAelfClient(rpcURL string) (*AelfClient, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	client, ok := f.aelfClients[rpcURL]
	return client, ok
}
