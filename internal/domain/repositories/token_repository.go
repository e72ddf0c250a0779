package repositories

import (
	"context"

	"bridge-kita.backend/internal/domain/entities"
)

// TokenRepository is the token whitelist/registry.
type TokenRepository interface {
	GetBySymbol(ctx context.Context, chainID entities.ChainID, symbol string) (*entities.Token, error)
	GetByAddress(ctx context.Context, chainID entities.ChainID, address string) (*entities.Token, error)
	ListByChain(ctx context.Context, chainID entities.ChainID) ([]*entities.Token, error)
	Upsert(ctx context.Context, token *entities.Token) error
}
