package blockchain

import (
	"fmt"
	"sync"

	"bridge-kita.backend/internal/domain/entities"
)

// DispatcherPool caches dispatchers per (contract, chain, account) so
// repeated calls reuse the same adapter and its underlying clients.
// The account component keys wallet identity: reconnecting with a
// different account must not reuse a dispatcher bound to the old one.
type DispatcherPool struct {
	mu          sync.RWMutex
	dispatchers map[string]*Dispatcher
	deps        DispatcherDeps
}

func NewDispatcherPool(deps DispatcherDeps) *DispatcherPool {
	return &DispatcherPool{
		dispatchers: make(map[string]*Dispatcher),
		deps:        deps,
	}
}

func poolKey(contractAddress string, chainID entities.ChainID, account string) string {
	return fmt.Sprintf("%s|%s|%s", contractAddress, chainID, account)
}

// Get returns the cached dispatcher for the triple, constructing and
// caching one on first use.
func (p *DispatcherPool) Get(contractAddress string, chainID entities.ChainID, account string) (*Dispatcher, error) {
	key := poolKey(contractAddress, chainID, account)

	p.mu.RLock()
	d, ok := p.dispatchers[key]
	p.mu.RUnlock()
	if ok {
		return d, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if d, ok := p.dispatchers[key]; ok {
		return d, nil
	}
	d, err := NewDispatcher(contractAddress, chainID, p.deps)
	if err != nil {
		return nil, err
	}
	p.dispatchers[key] = d
	return d, nil
}

// EvictAccount drops every dispatcher bound to the account. Called on
// wallet disconnect so stale signers cannot be reused.
func (p *DispatcherPool) EvictAccount(account string) {
	suffix := "|" + account

	p.mu.Lock()
	defer p.mu.Unlock()
	for key := range p.dispatchers {
		if len(key) >= len(suffix) && key[len(key)-len(suffix):] == suffix {
			delete(p.dispatchers, key)
		}
	}
}

// Len reports the number of cached dispatchers.
func (p *DispatcherPool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.dispatchers)
}
