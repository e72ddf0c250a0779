package handlers

import (
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bridge-kita.backend/internal/domain/entities"
	domainerrors "bridge-kita.backend/internal/domain/errors"
)

func transferRouter(svc transferService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewTransferHandler(svc)
	r := gin.New()
	r.POST("/api/v1/transfers", h.CreateTransfer)
	r.GET("/api/v1/transfers/:id", h.GetTransfer)
	r.GET("/api/v1/transfers", h.ListTransfers)
	return r
}

const validTransferBody = `{
	"fromChainId": "AELF",
	"toChainId": "11155111",
	"symbol": "ELF",
	"amount": "1000000000",
	"sender": "sender-addr",
	"recipient": "0x1111111111111111111111111111111111111111"
}`

func TestCreateTransfer_Success(t *testing.T) {
	svc := new(mockTransferService)
	attempt := &entities.TransferAttempt{
		ID:            uuid.New(),
		Status:        entities.TransferStatusSucceeded,
		TransactionID: "0xabc",
	}
	svc.On("Execute", mock.Anything, mock.MatchedBy(func(order entities.TransferOrder) bool {
		return order.FromChainID == "AELF" &&
			order.ToChainID == "11155111" &&
			order.Symbol == "ELF" &&
			order.Amount.Cmp(big.NewInt(1000000000)) == 0
	})).Return(attempt, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", strings.NewReader(validTransferBody))
	transferRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), attempt.ID.String())
	assert.Contains(t, rec.Body.String(), "SUCCEEDED")
}

func TestCreateTransfer_MissingFields(t *testing.T) {
	svc := new(mockTransferService)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", strings.NewReader(`{"symbol":"ELF"}`))
	transferRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestCreateTransfer_RejectsBadAmount(t *testing.T) {
	svc := new(mockTransferService)

	for _, amount := range []string{"-5", "0", "1.5", "abc"} {
		body := strings.Replace(validTransferBody, `"1000000000"`, `"`+amount+`"`, 1)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", strings.NewReader(body))
		transferRouter(svc).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "amount %q", amount)
	}
	svc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestCreateTransfer_FailedAttemptCarriesRecord(t *testing.T) {
	svc := new(mockTransferService)
	attempt := &entities.TransferAttempt{
		ID:            uuid.New(),
		Status:        entities.TransferStatusFailed,
		FailureReason: "daily limit reached",
	}
	svc.On("Execute", mock.Anything, mock.Anything).
		Return(attempt, domainerrors.NewAppError(http.StatusTooManyRequests, "DAILY_LIMIT_REACHED",
			"daily limit reached, retry after the next refresh", nil))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", strings.NewReader(validTransferBody))
	transferRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "DAILY_LIMIT_REACHED")
	assert.Contains(t, rec.Body.String(), attempt.ID.String())
}

func TestCreateTransfer_ValidationErrorWithoutAttempt(t *testing.T) {
	svc := new(mockTransferService)
	svc.On("Execute", mock.Anything, mock.Anything).
		Return(nil, domainerrors.NotFound("token ELF is not registered on chain AELF"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", strings.NewReader(validTransferBody))
	transferRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestGetTransfer(t *testing.T) {
	svc := new(mockTransferService)
	id := uuid.New()
	svc.On("GetAttempt", mock.Anything, id.String()).
		Return(&entities.TransferAttempt{ID: id, Status: entities.TransferStatusSubmitted}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/transfers/"+id.String(), nil)
	transferRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SUBMITTED")
}

func TestGetTransfer_NotFound(t *testing.T) {
	svc := new(mockTransferService)
	svc.On("GetAttempt", mock.Anything, mock.Anything).
		Return(nil, domainerrors.NotFound("transfer attempt not found"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/transfers/"+uuid.NewString(), nil)
	transferRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTransfers(t *testing.T) {
	svc := new(mockTransferService)
	svc.On("ListAttempts", mock.Anything, "sender-addr", 5).
		Return([]*entities.TransferAttempt{
			{ID: uuid.New(), Status: entities.TransferStatusSucceeded},
			{ID: uuid.New(), Status: entities.TransferStatusFailed},
		}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/transfers?sender=sender-addr&limit=5", nil)
	transferRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SUCCEEDED")
	assert.Contains(t, rec.Body.String(), "FAILED")
}

func TestListTransfers_RequiresSender(t *testing.T) {
	svc := new(mockTransferService)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/transfers", nil)
	transferRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "ListAttempts", mock.Anything, mock.Anything, mock.Anything)
}
