package blockchain

import (
	"context"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"

	"bridge-kita.backend/internal/domain/entities"
	domainerrors "bridge-kita.backend/internal/domain/errors"
	"bridge-kita.backend/internal/domain/repositories"
	"bridge-kita.backend/pkg/logger"
	"go.uber.org/zap"
)

// MethodDescriptor is one resolved account-chain contract method: its
// PascalCase name, the request message shape and the ordered field names the
// positional-parameter transform zips against.
type MethodDescriptor struct {
	Name        string
	RequestType string
	Fields      []string
	Input       protoreflect.MessageDescriptor
	Output      protoreflect.MessageDescriptor
}

// ByteStore persists raw descriptor sets across sessions. A stored entry may
// be poisoned (bytes that no longer decode); readers must treat that as a
// cache miss rather than an error.
type ByteStore interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// DescriptorCache resolves method descriptors per (chain, contract address).
// Decoded maps live in an in-process cache; raw bytes additionally go through
// an optional ByteStore so repeat resolutions skip the remote fetch. Entries
// are append-only for the life of the cache.
type DescriptorCache struct {
	svc   repositories.DescriptorService
	mem   *gocache.Cache
	store ByteStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewDescriptorCache creates a descriptor cache. store may be nil.
func NewDescriptorCache(svc repositories.DescriptorService, ttl time.Duration, store ByteStore) *DescriptorCache {
	return &DescriptorCache{
		svc:   svc,
		mem:   gocache.New(ttl, 2*ttl),
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

func descriptorKey(chainID entities.ChainID, address string) string {
	return fmt.Sprintf("descriptor:%s:%s", chainID, address)
}

// keyLock returns the per-key mutex so two first-accesses of the same
// contract do not issue duplicate remote fetches.
func (c *DescriptorCache) keyLock(key string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[key]
	if !ok {
		l = &sync.Mutex{}
		c.locks[key] = l
	}
	return l
}

// Resolve returns the method map for a contract, fetching and decoding the
// descriptor set on first access. callName attributes failures to the
// operation that triggered resolution.
func (c *DescriptorCache) Resolve(ctx context.Context, chainID entities.ChainID, address, callName string) (map[string]MethodDescriptor, error) {
	key := descriptorKey(chainID, address)

	if cached, ok := c.mem.Get(key); ok {
		if methods, ok := cached.(map[string]MethodDescriptor); ok {
			return methods, nil
		}
	}

	lock := c.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	// Re-check under the key lock; a concurrent caller may have filled it.
	if cached, ok := c.mem.Get(key); ok {
		if methods, ok := cached.(map[string]MethodDescriptor); ok {
			return methods, nil
		}
	}

	if c.store != nil {
		if raw, ok := c.store.GetBytes(ctx, key); ok {
			methods, err := decodeDescriptorSet(raw)
			if err == nil {
				c.mem.Set(key, methods, gocache.DefaultExpiration)
				return methods, nil
			}
			// Poisoned entry: a prior failure was persisted. Fall through to
			// a fresh fetch instead of surfacing the decode error.
			logger.Warn(ctx, "poisoned descriptor cache entry, refetching",
				zap.String("chain", string(chainID)), zap.String("contract", address), zap.Error(err))
		}
	}

	raw, err := c.svc.FetchDescriptorSet(ctx, chainID, address)
	if err != nil {
		return nil, domainerrors.DescriptorUnresolvable(string(chainID), address, callName, err)
	}
	methods, err := decodeDescriptorSet(raw)
	if err != nil {
		return nil, domainerrors.DescriptorUnresolvable(string(chainID), address, callName, err)
	}

	c.mem.Set(key, methods, gocache.DefaultExpiration)
	if c.store != nil {
		c.store.SetBytes(ctx, key, raw, 0)
	}
	return methods, nil
}

// Method resolves one method by its PascalCase name.
func (c *DescriptorCache) Method(ctx context.Context, chainID entities.ChainID, address, name string) (MethodDescriptor, error) {
	methods, err := c.Resolve(ctx, chainID, address, name)
	if err != nil {
		return MethodDescriptor{}, err
	}
	md, ok := methods[name]
	if !ok {
		return MethodDescriptor{}, domainerrors.DescriptorUnresolvable(string(chainID), address, name,
			fmt.Errorf("method not declared by contract descriptor"))
	}
	return md, nil
}

// decodeDescriptorSet decodes a binary FileDescriptorSet and records every
// declared service method keyed by its PascalCase name.
func decodeDescriptorSet(raw []byte) (map[string]MethodDescriptor, error) {
	var fds descriptorpb.FileDescriptorSet
	if err := proto.Unmarshal(raw, &fds); err != nil {
		return nil, fmt.Errorf("decode descriptor set: %w", err)
	}
	files, err := protodesc.NewFiles(&fds)
	if err != nil {
		return nil, fmt.Errorf("build descriptor registry: %w", err)
	}

	methods := make(map[string]MethodDescriptor)
	files.RangeFiles(func(fd protoreflect.FileDescriptor) bool {
		services := fd.Services()
		for i := 0; i < services.Len(); i++ {
			svc := services.Get(i)
			for j := 0; j < svc.Methods().Len(); j++ {
				m := svc.Methods().Get(j)
				input := m.Input()
				fields := make([]string, 0, input.Fields().Len())
				for k := 0; k < input.Fields().Len(); k++ {
					fields = append(fields, string(input.Fields().Get(k).Name()))
				}
				methods[string(m.Name())] = MethodDescriptor{
					Name:        string(m.Name()),
					RequestType: string(input.FullName()),
					Fields:      fields,
					Input:       input,
					Output:      m.Output(),
				}
			}
		}
		return true
	})
	if len(methods) == 0 {
		return nil, fmt.Errorf("descriptor set declares no service methods")
	}
	return methods, nil
}
