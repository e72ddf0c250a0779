package entities

import (
	"math/big"
	"time"

	"github.com/google/uuid"
)

// TransferStatus tracks one cross-chain transfer attempt
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "PENDING"
	TransferStatusSubmitted TransferStatus = "SUBMITTED"
	TransferStatusSucceeded TransferStatus = "SUCCEEDED"
	TransferStatusFailed    TransferStatus = "FAILED"
)

// TransferOrder is the input of one cross-chain transfer attempt. Amount is
// already converted to base units by the caller.
type TransferOrder struct {
	FromChainID ChainID  `json:"fromChainId"`
	ToChainID   ChainID  `json:"toChainId"`
	Symbol      string   `json:"symbol"`
	Amount      *big.Int `json:"amount"`
	Sender      string   `json:"sender"`
	Recipient   string   `json:"recipient"`
	Memo        string   `json:"memo,omitempty"`
}

// TransferAttempt records the outcome of an orchestration run.
type TransferAttempt struct {
	ID            uuid.UUID      `json:"id"`
	Order         TransferOrder  `json:"order"`
	Status        TransferStatus `json:"status"`
	TransactionID string         `json:"transactionId,omitempty"`
	FailureReason string         `json:"failureReason,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	CompletedAt   *time.Time     `json:"completedAt,omitempty"`
}
