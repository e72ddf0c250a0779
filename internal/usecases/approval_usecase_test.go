package usecases_test

import (
	"context"
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bridge-kita.backend/internal/domain/entities"
	domainerrors "bridge-kita.backend/internal/domain/errors"
	"bridge-kita.backend/internal/usecases"
)

func evmApprovalInput(amount *big.Int) usecases.ApprovalInput {
	return usecases.ApprovalInput{
		ChainID:       "11155111",
		TokenContract: "0x1111111111111111111111111111111111111111",
		Symbol:        "ELF",
		Owner:         "0x2222222222222222222222222222222222222222",
		Spender:       "0x3333333333333333333333333333333333333333",
		Amount:        amount,
	}
}

func TestEnsureApprovalSkipsWhenAllowanceSufficient(t *testing.T) {
	caller := &MockContractCaller{contractType: entities.ContractTypeERC}
	caller.On("CallViewMethod", mock.Anything, "allowance", mock.Anything).
		Return(&entities.CallResult{Data: map[string]any{"value": big.NewInt(2000)}}, nil)
	caller.On("CallViewMethod", mock.Anything, "decimals", mock.Anything).
		Return(&entities.CallResult{Data: map[string]any{"value": uint8(8)}}, nil)

	u := usecases.NewApprovalUsecase(singleCallerProvider(caller))
	outcome, err := u.EnsureApproval(context.Background(), evmApprovalInput(big.NewInt(1000)))

	require.NoError(t, err)
	assert.Equal(t, usecases.ApprovalSuccess, outcome.Status)
	caller.AssertNotCalled(t, "CallSendMethod", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEnsureApprovalSubmitsMaxSentinelOnShortfall(t *testing.T) {
	caller := &MockContractCaller{contractType: entities.ContractTypeERC}
	caller.On("CallViewMethod", mock.Anything, "allowance", mock.Anything).
		Return(&entities.CallResult{Data: map[string]any{"value": big.NewInt(999)}}, nil)
	caller.On("CallViewMethod", mock.Anything, "decimals", mock.Anything).
		Return(&entities.CallResult{Data: map[string]any{"value": uint8(8)}}, nil)
	caller.On("CallSendMethod", mock.Anything, "approve", mock.Anything, mock.Anything, mock.Anything).
		Return(&entities.CallResult{TransactionID: "0xabc"}, nil)

	u := usecases.NewApprovalUsecase(singleCallerProvider(caller))
	outcome, err := u.EnsureApproval(context.Background(), evmApprovalInput(big.NewInt(1000)))

	require.NoError(t, err)
	assert.Equal(t, usecases.ApprovalSuccess, outcome.Status)
	assert.Equal(t, "0xabc", outcome.TransactionID)

	caller.AssertNumberOfCalls(t, "CallSendMethod", 1)
	sendArgs := caller.Calls[len(caller.Calls)-1].Arguments
	params := sendArgs.Get(3).([]any)
	wantMax := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	assert.Equal(t, 0, params[1].(*big.Int).Cmp(wantMax), "approve amount must be the uint256 maximum")
}

func TestEnsureApprovalAccountChainSentinel(t *testing.T) {
	caller := &MockContractCaller{contractType: entities.ContractTypeELF}
	caller.On("CallViewMethod", mock.Anything, "getAllowance", mock.Anything).
		Return(&entities.CallResult{Data: map[string]any{"allowance": "5"}}, nil)
	caller.On("CallViewMethod", mock.Anything, "getTokenInfo", mock.Anything).
		Return(&entities.CallResult{Data: map[string]any{"decimals": float64(8)}}, nil)
	caller.On("CallSendMethod", mock.Anything, "approve", mock.Anything, mock.Anything, mock.Anything).
		Return(&entities.CallResult{TransactionID: "txid"}, nil)

	u := usecases.NewApprovalUsecase(singleCallerProvider(caller))
	in := evmApprovalInput(big.NewInt(1000000000))
	in.ChainID = "AELF"
	in.TokenContract = "JRmBduh4nXWi1aXgdUsj5gJrzeZb2LxmrAbf7W99faZSvoAaE"
	outcome, err := u.EnsureApproval(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, usecases.ApprovalSuccess, outcome.Status)

	sendArgs := caller.Calls[len(caller.Calls)-1].Arguments
	named := sendArgs.Get(3).([]any)[0].(map[string]any)
	assert.Equal(t, big.NewInt(math.MaxInt64).String(), named["amount"])
}

func TestEnsureApprovalReportsUserDenial(t *testing.T) {
	caller := &MockContractCaller{contractType: entities.ContractTypeERC}
	caller.On("CallViewMethod", mock.Anything, "allowance", mock.Anything).
		Return(&entities.CallResult{Data: map[string]any{"value": big.NewInt(0)}}, nil)
	caller.On("CallViewMethod", mock.Anything, "decimals", mock.Anything).
		Return(&entities.CallResult{Data: map[string]any{"value": uint8(8)}}, nil)
	caller.On("CallSendMethod", mock.Anything, "approve", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domainerrors.UserDenied("user denied transaction signature"))

	u := usecases.NewApprovalUsecase(singleCallerProvider(caller))
	outcome, err := u.EnsureApproval(context.Background(), evmApprovalInput(big.NewInt(1000)))

	require.NoError(t, err)
	assert.Equal(t, usecases.ApprovalUserDenied, outcome.Status)
	assert.Error(t, outcome.Err)
}

func TestEnsureApprovalGenericFailure(t *testing.T) {
	caller := &MockContractCaller{contractType: entities.ContractTypeERC}
	caller.On("CallViewMethod", mock.Anything, "allowance", mock.Anything).
		Return(&entities.CallResult{Data: map[string]any{"value": big.NewInt(0)}}, nil)
	caller.On("CallViewMethod", mock.Anything, "decimals", mock.Anything).
		Return(&entities.CallResult{Data: map[string]any{"value": uint8(8)}}, nil)
	caller.On("CallSendMethod", mock.Anything, "approve", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domainerrors.InternalError(assert.AnError))

	u := usecases.NewApprovalUsecase(singleCallerProvider(caller))
	outcome, err := u.EnsureApproval(context.Background(), evmApprovalInput(big.NewInt(1000)))

	require.NoError(t, err)
	assert.Equal(t, usecases.ApprovalFailed, outcome.Status)
}

func TestEnsureApprovalPivotThreshold(t *testing.T) {
	// No explicit amount: threshold is multiplier x 10^decimals. Allowance
	// of exactly one whole token passes with the default multiplier.
	caller := &MockContractCaller{contractType: entities.ContractTypeERC}
	caller.On("CallViewMethod", mock.Anything, "allowance", mock.Anything).
		Return(&entities.CallResult{Data: map[string]any{"value": big.NewInt(100000000)}}, nil)
	caller.On("CallViewMethod", mock.Anything, "decimals", mock.Anything).
		Return(&entities.CallResult{Data: map[string]any{"value": uint8(8)}}, nil)

	u := usecases.NewApprovalUsecase(singleCallerProvider(caller))
	outcome, err := u.EnsureApproval(context.Background(), evmApprovalInput(nil))

	require.NoError(t, err)
	assert.Equal(t, usecases.ApprovalSuccess, outcome.Status)
	caller.AssertNotCalled(t, "CallSendMethod", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
