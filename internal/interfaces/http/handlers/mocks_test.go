package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"bridge-kita.backend/internal/domain/entities"
	"bridge-kita.backend/internal/domain/repositories"
	"bridge-kita.backend/internal/usecases"
)

type mockTransferService struct {
	mock.Mock
}

func (m *mockTransferService) Execute(ctx context.Context, order entities.TransferOrder) (*entities.TransferAttempt, error) {
	args := m.Called(ctx, order)
	attempt, _ := args.Get(0).(*entities.TransferAttempt)
	return attempt, args.Error(1)
}

func (m *mockTransferService) GetAttempt(ctx context.Context, id string) (*entities.TransferAttempt, error) {
	args := m.Called(ctx, id)
	attempt, _ := args.Get(0).(*entities.TransferAttempt)
	return attempt, args.Error(1)
}

func (m *mockTransferService) ListAttempts(ctx context.Context, sender string, limit int) ([]*entities.TransferAttempt, error) {
	args := m.Called(ctx, sender, limit)
	attempts, _ := args.Get(0).([]*entities.TransferAttempt)
	return attempts, args.Error(1)
}

type mockLimitService struct {
	mock.Mock
}

func (m *mockLimitService) GetReceiptLimit(ctx context.Context, q repositories.ReceiptLimitQuery, tokenAddress string) (*entities.LimitState, error) {
	args := m.Called(ctx, q, tokenAddress)
	state, _ := args.Get(0).(*entities.LimitState)
	return state, args.Error(1)
}

func (m *mockLimitService) GetSwapLimit(ctx context.Context, q repositories.SwapLimitQuery, tokenAddress string) (*entities.LimitState, error) {
	args := m.Called(ctx, q, tokenAddress)
	state, _ := args.Get(0).(*entities.LimitState)
	return state, args.Error(1)
}

type mockBalanceService struct {
	mock.Mock
}

func (m *mockBalanceService) GetBalance(ctx context.Context, chainID entities.ChainID, symbol, owner string) (*usecases.Balance, error) {
	args := m.Called(ctx, chainID, symbol, owner)
	balance, _ := args.Get(0).(*usecases.Balance)
	return balance, args.Error(1)
}

type mockTokenRepo struct {
	mock.Mock
}

func (m *mockTokenRepo) GetBySymbol(ctx context.Context, chainID entities.ChainID, symbol string) (*entities.Token, error) {
	args := m.Called(ctx, chainID, symbol)
	token, _ := args.Get(0).(*entities.Token)
	return token, args.Error(1)
}

func (m *mockTokenRepo) GetByAddress(ctx context.Context, chainID entities.ChainID, address string) (*entities.Token, error) {
	args := m.Called(ctx, chainID, address)
	token, _ := args.Get(0).(*entities.Token)
	return token, args.Error(1)
}

func (m *mockTokenRepo) ListByChain(ctx context.Context, chainID entities.ChainID) ([]*entities.Token, error) {
	args := m.Called(ctx, chainID)
	tokens, _ := args.Get(0).([]*entities.Token)
	return tokens, args.Error(1)
}

func (m *mockTokenRepo) Upsert(ctx context.Context, token *entities.Token) error {
	return m.Called(ctx, token).Error(0)
}
