package handlers

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bridge-kita.backend/internal/domain/entities"
	domainerrors "bridge-kita.backend/internal/domain/errors"
	"bridge-kita.backend/internal/interfaces/http/response"
)

// transferService is the slice of the transfer usecase the handler needs.
type transferService interface {
	Execute(ctx context.Context, order entities.TransferOrder) (*entities.TransferAttempt, error)
	GetAttempt(ctx context.Context, id string) (*entities.TransferAttempt, error)
	ListAttempts(ctx context.Context, sender string, limit int) ([]*entities.TransferAttempt, error)
}

// TransferHandler handles cross-chain transfer endpoints
type TransferHandler struct {
	transfers transferService
}

func NewTransferHandler(transfers transferService) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

type createTransferRequest struct {
	FromChainID string `json:"fromChainId" binding:"required"`
	ToChainID   string `json:"toChainId" binding:"required"`
	Symbol      string `json:"symbol" binding:"required"`
	// Amount is base units as a decimal string; uint256 range exceeds JSON
	// number precision.
	Amount    string `json:"amount" binding:"required"`
	Sender    string `json:"sender" binding:"required"`
	Recipient string `json:"recipient" binding:"required"`
	Memo      string `json:"memo"`
}

// CreateTransfer runs one cross-chain transfer orchestration
// POST /api/v1/transfers
func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	var req createTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		response.Error(c, domainerrors.BadRequest("amount must be a positive base-unit integer"))
		return
	}

	attempt, err := h.transfers.Execute(c.Request.Context(), entities.TransferOrder{
		FromChainID: entities.ChainID(req.FromChainID),
		ToChainID:   entities.ChainID(req.ToChainID),
		Symbol:      req.Symbol,
		Amount:      amount,
		Sender:      req.Sender,
		Recipient:   req.Recipient,
		Memo:        req.Memo,
	})
	if err != nil {
		// The attempt record, when present, carries the failure detail.
		if attempt != nil {
			c.JSON(statusOf(err), gin.H{"attempt": attempt, "code": codeOf(err)})
			return
		}
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"attempt": attempt})
}

// GetTransfer returns one attempt by id
// GET /api/v1/transfers/:id
func (h *TransferHandler) GetTransfer(c *gin.Context) {
	attempt, err := h.transfers.GetAttempt(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"attempt": attempt})
}

// ListTransfers returns a sender's recent attempts
// GET /api/v1/transfers?sender=...&limit=20
func (h *TransferHandler) ListTransfers(c *gin.Context) {
	sender := c.Query("sender")
	if sender == "" {
		response.Error(c, domainerrors.BadRequest("sender is required"))
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	attempts, err := h.transfers.ListAttempts(c.Request.Context(), sender, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"attempts": attempts})
}

func statusOf(err error) int {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

func codeOf(err error) string {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "INTERNAL"
}
