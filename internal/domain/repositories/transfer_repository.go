package repositories

import (
	"context"

	"github.com/google/uuid"

	"bridge-kita.backend/internal/domain/entities"
)

// TransferRepository persists transfer attempts for audit and retry.
type TransferRepository interface {
	Create(ctx context.Context, attempt *entities.TransferAttempt) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TransferStatus, txID, failureReason string) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.TransferAttempt, error)
	ListBySender(ctx context.Context, sender string, limit int) ([]*entities.TransferAttempt, error)
}
