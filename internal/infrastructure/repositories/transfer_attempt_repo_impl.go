package repositories

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bridge-kita.backend/internal/domain/entities"
	domainerrors "bridge-kita.backend/internal/domain/errors"
	"bridge-kita.backend/internal/infrastructure/models"
	"bridge-kita.backend/pkg/utils"
)

// TransferAttemptRepository persists transfer orchestration records.
type TransferAttemptRepository struct {
	db *gorm.DB
}

func NewTransferAttemptRepository(db *gorm.DB) *TransferAttemptRepository {
	return &TransferAttemptRepository{db: db}
}

// Create stores a new attempt. A zero ID is assigned here; v7 ids keep the
// primary key roughly insertion-ordered.
func (r *TransferAttemptRepository) Create(ctx context.Context, attempt *entities.TransferAttempt) error {
	if attempt.ID == uuid.Nil {
		attempt.ID = utils.GenerateUUIDv7()
	}
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(r.toModel(attempt)).Error
}

// UpdateStatus moves an attempt to a new status; terminal statuses also set
// the completion time.
func (r *TransferAttemptRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TransferStatus, txID, failureReason string) error {
	updates := map[string]any{
		"status": string(status),
	}
	if txID != "" {
		updates["transaction_id"] = txID
	}
	if failureReason != "" {
		updates["failure_reason"] = failureReason
	}
	if status == entities.TransferStatusSucceeded || status == entities.TransferStatusFailed {
		updates["completed_at"] = time.Now().UTC()
	}

	res := r.db.WithContext(ctx).
		Model(&models.TransferAttempt{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// GetByID loads one attempt.
func (r *TransferAttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.TransferAttempt, error) {
	var m models.TransferAttempt
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// ListBySender returns a sender's most recent attempts.
func (r *TransferAttemptRepository) ListBySender(ctx context.Context, sender string, limit int) ([]*entities.TransferAttempt, error) {
	if limit <= 0 {
		limit = 20
	}
	var ms []models.TransferAttempt
	if err := r.db.WithContext(ctx).
		Where("sender = ?", sender).
		Order("created_at DESC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	attempts := make([]*entities.TransferAttempt, 0, len(ms))
	for i := range ms {
		attempts = append(attempts, r.toEntity(&ms[i]))
	}
	return attempts, nil
}

// GetStalePending returns attempts still PENDING past the cutoff, oldest
// first. Used by the abandonment sweeper.
func (r *TransferAttemptRepository) GetStalePending(ctx context.Context, olderThan time.Time, limit int) ([]*entities.TransferAttempt, error) {
	if limit <= 0 {
		limit = 100
	}
	var ms []models.TransferAttempt
	if err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", string(entities.TransferStatusPending), olderThan).
		Order("created_at ASC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}

	attempts := make([]*entities.TransferAttempt, 0, len(ms))
	for i := range ms {
		attempts = append(attempts, r.toEntity(&ms[i]))
	}
	return attempts, nil
}

// FailAttempts marks the attempts FAILED with a shared reason.
func (r *TransferAttemptRepository) FailAttempts(ctx context.Context, ids []uuid.UUID, reason string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.TransferAttempt{}).
		Where("id IN ?", ids).
		Updates(map[string]any{
			"status":         string(entities.TransferStatusFailed),
			"failure_reason": reason,
			"completed_at":   time.Now().UTC(),
		}).Error
}

func (r *TransferAttemptRepository) toModel(e *entities.TransferAttempt) *models.TransferAttempt {
	amount := "0"
	if e.Order.Amount != nil {
		amount = e.Order.Amount.String()
	}
	return &models.TransferAttempt{
		ID:            e.ID,
		FromChainID:   string(e.Order.FromChainID),
		ToChainID:     string(e.Order.ToChainID),
		Symbol:        e.Order.Symbol,
		Amount:        amount,
		Sender:        e.Order.Sender,
		Recipient:     e.Order.Recipient,
		Memo:          e.Order.Memo,
		Status:        string(e.Status),
		TransactionID: e.TransactionID,
		FailureReason: e.FailureReason,
		CreatedAt:     e.CreatedAt,
		CompletedAt:   e.CompletedAt,
	}
}

func (r *TransferAttemptRepository) toEntity(m *models.TransferAttempt) *entities.TransferAttempt {
	amount, ok := new(big.Int).SetString(m.Amount, 10)
	if !ok {
		amount = big.NewInt(0)
	}
	return &entities.TransferAttempt{
		ID: m.ID,
		Order: entities.TransferOrder{
			FromChainID: entities.ChainID(m.FromChainID),
			ToChainID:   entities.ChainID(m.ToChainID),
			Symbol:      m.Symbol,
			Amount:      amount,
			Sender:      m.Sender,
			Recipient:   m.Recipient,
			Memo:        m.Memo,
		},
		Status:        entities.TransferStatus(m.Status),
		TransactionID: m.TransactionID,
		FailureReason: m.FailureReason,
		CreatedAt:     m.CreatedAt,
		CompletedAt:   m.CompletedAt,
	}
}
