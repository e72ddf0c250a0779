package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Token represents a bridgeable token on a specific chain
type Token struct {
	ID      uuid.UUID `json:"id"`
	ChainID ChainID   `json:"chainId"`
	Symbol  string    `json:"symbol"`
	Name    string    `json:"name"`
	// Decimals must be known before any amount conversion; callers treat a
	// missing value as a hard error, never as a silent default.
	Decimals null.Int `json:"decimals"`
	// Address is the token contract address in the chain family's own format.
	// Empty for chain-native tokens without a contract.
	Address  string `json:"address,omitempty"`
	IsNative bool   `json:"isNative"`
	// IssuingChainID is set for account-chain tokens only: the shard the
	// token was issued on, carried in homogeneous cross-chain transfers.
	IssuingChainID null.String `json:"issuingChainId,omitempty"`
	IsActive       bool        `json:"isActive"`
	CreatedAt      time.Time   `json:"createdAt"`
}

// KnownDecimals reports whether the token's decimals value is usable.
func (t *Token) KnownDecimals() bool {
	return t != nil && t.Decimals.Valid && t.Decimals.Int >= 0
}
