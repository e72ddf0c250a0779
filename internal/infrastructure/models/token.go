package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Token is the whitelist row for one bridgeable token on one chain.
type Token struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ChainID string    `gorm:"type:varchar(32);not null;index:idx_tokens_chain_symbol,unique"`
	Symbol  string    `gorm:"type:varchar(20);not null;index:idx_tokens_chain_symbol,unique"`
	Name    string    `gorm:"type:varchar(100);not null"`
	// Decimals is nullable on purpose: an unsynced row must surface as a
	// hard error upstream, not as zero decimals.
	Decimals       *int    `gorm:"type:smallint"`
	Address        string  `gorm:"type:varchar(128);index"`
	IsNative       bool    `gorm:"default:false"`
	IssuingChainID *string `gorm:"type:varchar(32)"`
	IsActive       bool    `gorm:"default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}
