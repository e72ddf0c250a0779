package repositories

import (
	"context"
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bridge-kita.backend/internal/domain/entities"
	domainerrors "bridge-kita.backend/internal/domain/errors"
)

func newAttempt(sender string) *entities.TransferAttempt {
	return &entities.TransferAttempt{
		Order: entities.TransferOrder{
			FromChainID: "AELF",
			ToChainID:   "11155111",
			Symbol:      "ELF",
			Amount:      big.NewInt(1000000000),
			Sender:      sender,
			Recipient:   "0x1111111111111111111111111111111111111111",
		},
		Status: entities.TransferStatusPending,
	}
}

func TestTransferAttemptCreateAssignsID(t *testing.T) {
	db := newTestDB(t)
	createTransferAttemptTable(t, db)
	repo := NewTransferAttemptRepository(db)

	attempt := newAttempt("sender-a")
	require.NoError(t, repo.Create(context.Background(), attempt))
	assert.NotEqual(t, uuid.Nil, attempt.ID)
	assert.False(t, attempt.CreatedAt.IsZero())

	got, err := repo.GetByID(context.Background(), attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.TransferStatusPending, got.Status)
	assert.Equal(t, big.NewInt(1000000000), got.Order.Amount)
	assert.Equal(t, "sender-a", got.Order.Sender)
}

func TestTransferAttemptAmountSurvivesUint256Range(t *testing.T) {
	db := newTestDB(t)
	createTransferAttemptTable(t, db)
	repo := NewTransferAttemptRepository(db)

	huge, ok := new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)
	require.True(t, ok)

	attempt := newAttempt("sender-a")
	attempt.Order.Amount = huge
	require.NoError(t, repo.Create(context.Background(), attempt))

	got, err := repo.GetByID(context.Background(), attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, huge, got.Order.Amount)
}

func TestTransferAttemptUpdateStatusTerminalSetsCompletedAt(t *testing.T) {
	db := newTestDB(t)
	createTransferAttemptTable(t, db)
	repo := NewTransferAttemptRepository(db)

	attempt := newAttempt("sender-a")
	require.NoError(t, repo.Create(context.Background(), attempt))

	require.NoError(t, repo.UpdateStatus(context.Background(), attempt.ID, entities.TransferStatusSubmitted, "0xabc", ""))
	got, err := repo.GetByID(context.Background(), attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.TransferStatusSubmitted, got.Status)
	assert.Equal(t, "0xabc", got.TransactionID)
	assert.Nil(t, got.CompletedAt)

	require.NoError(t, repo.UpdateStatus(context.Background(), attempt.ID, entities.TransferStatusSucceeded, "", ""))
	got, err = repo.GetByID(context.Background(), attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.TransferStatusSucceeded, got.Status)
	require.NotNil(t, got.CompletedAt)
	// The transaction id from the submit step is preserved.
	assert.Equal(t, "0xabc", got.TransactionID)
}

func TestTransferAttemptUpdateStatusRecordsFailure(t *testing.T) {
	db := newTestDB(t)
	createTransferAttemptTable(t, db)
	repo := NewTransferAttemptRepository(db)

	attempt := newAttempt("sender-a")
	require.NoError(t, repo.Create(context.Background(), attempt))

	require.NoError(t, repo.UpdateStatus(context.Background(), attempt.ID, entities.TransferStatusFailed, "", "daily limit reached"))
	got, err := repo.GetByID(context.Background(), attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.TransferStatusFailed, got.Status)
	assert.Equal(t, "daily limit reached", got.FailureReason)
	assert.NotNil(t, got.CompletedAt)
}

func TestTransferAttemptUpdateStatusUnknownID(t *testing.T) {
	db := newTestDB(t)
	createTransferAttemptTable(t, db)
	repo := NewTransferAttemptRepository(db)

	err := repo.UpdateStatus(context.Background(), uuid.New(), entities.TransferStatusFailed, "", "x")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestTransferAttemptGetByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	createTransferAttemptTable(t, db)
	repo := NewTransferAttemptRepository(db)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestTransferAttemptListBySender(t *testing.T) {
	db := newTestDB(t)
	createTransferAttemptTable(t, db)
	repo := NewTransferAttemptRepository(db)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(context.Background(), newAttempt("sender-a")))
	}
	require.NoError(t, repo.Create(context.Background(), newAttempt("sender-b")))

	attempts, err := repo.ListBySender(context.Background(), "sender-a", 0)
	require.NoError(t, err)
	assert.Len(t, attempts, 3)
	for _, a := range attempts {
		assert.Equal(t, "sender-a", a.Order.Sender)
	}

	limited, err := repo.ListBySender(context.Background(), "sender-a", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}
