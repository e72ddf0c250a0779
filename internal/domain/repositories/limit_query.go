package repositories

import (
	"context"

	"bridge-kita.backend/internal/domain/entities"
)

// ReceiptLimitQuery identifies the receipt-leg limit of a chain pair.
type ReceiptLimitQuery struct {
	FromChainID entities.ChainID
	ToChainID   entities.ChainID
	Symbol      string
}

// SwapLimitQuery identifies the swap-leg limit of a chain pair.
type SwapLimitQuery struct {
	FromChainID entities.ChainID
	ToChainID   entities.ChainID
	SwapID      string
	Symbol      string
}

// LimitQueryService is the remote indexing service answering daily-limit and
// token-bucket state with lower latency than on-chain views. A nil state with
// nil error means the service has no record for the pair.
type LimitQueryService interface {
	ReceiptLimit(ctx context.Context, q ReceiptLimitQuery) (*entities.LimitState, error)
	SwapLimit(ctx context.Context, q SwapLimitQuery) (*entities.LimitState, error)
}
