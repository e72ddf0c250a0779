package usecases_test

import (
	"context"
	"math/big"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"bridge-kita.backend/internal/domain/entities"
	"bridge-kita.backend/internal/domain/repositories"
	"bridge-kita.backend/internal/infrastructure/blockchain"
	"bridge-kita.backend/internal/usecases"
)

// Mock ContractCaller
type MockContractCaller struct {
	mock.Mock
	contractType entities.ContractType
}

func (m *MockContractCaller) ContractType() entities.ContractType {
	return m.contractType
}

func (m *MockContractCaller) CallViewMethod(ctx context.Context, method string, params []any) (*entities.CallResult, error) {
	args := m.Called(ctx, method, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CallResult), args.Error(1)
}

func (m *MockContractCaller) CallSendMethod(ctx context.Context, method, account string, params []any, opts blockchain.SendOptions) (*entities.CallResult, error) {
	args := m.Called(ctx, method, account, params, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CallResult), args.Error(1)
}

func (m *MockContractCaller) CallSendPromiseMethod(ctx context.Context, method, account string, params []any, opts blockchain.SendOptions) (string, error) {
	args := m.Called(ctx, method, account, params, opts)
	return args.String(0), args.Error(1)
}

// singleCallerProvider serves the same caller for every contract.
func singleCallerProvider(caller usecases.ContractCaller) usecases.DispatcherProvider {
	return func(contractAddress string, chainID entities.ChainID, account string) (usecases.ContractCaller, error) {
		return caller, nil
	}
}

// routedProvider serves callers by contract address.
func routedProvider(callers map[string]usecases.ContractCaller) usecases.DispatcherProvider {
	return func(contractAddress string, chainID entities.ChainID, account string) (usecases.ContractCaller, error) {
		return callers[contractAddress], nil
	}
}

// Mock TokenRepository
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) GetBySymbol(ctx context.Context, chainID entities.ChainID, symbol string) (*entities.Token, error) {
	args := m.Called(ctx, chainID, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Token), args.Error(1)
}

func (m *MockTokenRepository) GetByAddress(ctx context.Context, chainID entities.ChainID, address string) (*entities.Token, error) {
	args := m.Called(ctx, chainID, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Token), args.Error(1)
}

func (m *MockTokenRepository) ListByChain(ctx context.Context, chainID entities.ChainID) ([]*entities.Token, error) {
	args := m.Called(ctx, chainID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Token), args.Error(1)
}

func (m *MockTokenRepository) Upsert(ctx context.Context, token *entities.Token) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// Mock TransferRepository
type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) Create(ctx context.Context, attempt *entities.TransferAttempt) error {
	args := m.Called(ctx, attempt)
	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockTransferRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TransferStatus, txID, failureReason string) error {
	args := m.Called(ctx, id, status, txID, failureReason)
	return args.Error(0)
}

func (m *MockTransferRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.TransferAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.TransferAttempt), args.Error(1)
}

func (m *MockTransferRepository) ListBySender(ctx context.Context, sender string, limit int) ([]*entities.TransferAttempt, error) {
	args := m.Called(ctx, sender, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.TransferAttempt), args.Error(1)
}

// Mock LimitQueryService
type MockLimitQueryService struct {
	mock.Mock
}

func (m *MockLimitQueryService) ReceiptLimit(ctx context.Context, q repositories.ReceiptLimitQuery) (*entities.LimitState, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LimitState), args.Error(1)
}

func (m *MockLimitQueryService) SwapLimit(ctx context.Context, q repositories.SwapLimitQuery) (*entities.LimitState, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LimitState), args.Error(1)
}

// Mock ApprovalService
type MockApprovalService struct {
	mock.Mock
}

func (m *MockApprovalService) EnsureApproval(ctx context.Context, in usecases.ApprovalInput) (usecases.ApprovalOutcome, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(usecases.ApprovalOutcome), args.Error(1)
}

// Mock LimitService
type MockLimitService struct {
	mock.Mock
}

func (m *MockLimitService) GetReceiptLimit(ctx context.Context, q repositories.ReceiptLimitQuery, tokenAddress string) (*entities.LimitState, error) {
	args := m.Called(ctx, q, tokenAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LimitState), args.Error(1)
}

func (m *MockLimitService) GetSwapLimit(ctx context.Context, q repositories.SwapLimitQuery, tokenAddress string) (*entities.LimitState, error) {
	args := m.Called(ctx, q, tokenAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LimitState), args.Error(1)
}

func (m *MockLimitService) CheckDestinationLiquidity(ctx context.Context, destChain entities.ChainID, tokenAddress, symbol string, amount *big.Int) error {
	args := m.Called(ctx, destChain, tokenAddress, symbol, amount)
	return args.Error(0)
}
