package repositories

import (
	"context"

	"bridge-kita.backend/internal/domain/entities"
)

// DescriptorService fetches the binary FileDescriptorSet describing an
// account-chain contract's service methods. Implementations talk to a remote
// indexing service; decode and caching live above this interface.
type DescriptorService interface {
	FetchDescriptorSet(ctx context.Context, chainID entities.ChainID, contractAddress string) ([]byte, error)
}
