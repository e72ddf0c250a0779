package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransferAttempt is one cross-chain transfer orchestration record.
type TransferAttempt struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	FromChainID string    `gorm:"type:varchar(32);not null;index"`
	ToChainID   string    `gorm:"type:varchar(32);not null"`
	Symbol      string    `gorm:"type:varchar(20);not null"`
	// Amount is base units, stored as string to survive uint256 range.
	Amount        string `gorm:"type:varchar(100);not null"`
	Sender        string `gorm:"type:varchar(128);not null;index"`
	Recipient     string `gorm:"type:varchar(128);not null"`
	Memo          string `gorm:"type:text"`
	Status        string `gorm:"type:varchar(20);not null;default:'PENDING'"`
	TransactionID string `gorm:"type:varchar(128)"`
	FailureReason string `gorm:"type:text"`
	CreatedAt     time.Time
	CompletedAt   *time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}
