package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"bridge-kita.backend/internal/domain/entities"
	domainerrors "bridge-kita.backend/internal/domain/errors"
	"bridge-kita.backend/internal/domain/repositories"
	"bridge-kita.backend/internal/interfaces/http/response"
	"bridge-kita.backend/internal/usecases"
)

// limitService is the slice of the limit usecase the handler needs.
type limitService interface {
	GetReceiptLimit(ctx context.Context, q repositories.ReceiptLimitQuery, tokenAddress string) (*entities.LimitState, error)
	GetSwapLimit(ctx context.Context, q repositories.SwapLimitQuery, tokenAddress string) (*entities.LimitState, error)
}

// LimitHandler exposes the rate-limit state of a transfer lane
type LimitHandler struct {
	limits limitService
}

func NewLimitHandler(limits limitService) *LimitHandler {
	return &LimitHandler{limits: limits}
}

// GetReceiptLimit returns the receipt-leg limit state
// GET /api/v1/limits/receipt?fromChainId=&toChainId=&symbol=&tokenAddress=
func (h *LimitHandler) GetReceiptLimit(c *gin.Context) {
	from, to, symbol := c.Query("fromChainId"), c.Query("toChainId"), c.Query("symbol")
	if from == "" || to == "" || symbol == "" {
		response.Error(c, domainerrors.BadRequest("fromChainId, toChainId and symbol are required"))
		return
	}

	limit, err := h.limits.GetReceiptLimit(c.Request.Context(), repositories.ReceiptLimitQuery{
		FromChainID: entities.ChainID(from),
		ToChainID:   entities.ChainID(to),
		Symbol:      symbol,
	}, c.Query("tokenAddress"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"limit": limit})
}

// GetSwapLimit returns the swap-leg limit state read on the destination chain
// GET /api/v1/limits/swap?fromChainId=&toChainId=&symbol=&swapId=&tokenAddress=
func (h *LimitHandler) GetSwapLimit(c *gin.Context) {
	from, to, symbol := c.Query("fromChainId"), c.Query("toChainId"), c.Query("symbol")
	if from == "" || to == "" || symbol == "" {
		response.Error(c, domainerrors.BadRequest("fromChainId, toChainId and symbol are required"))
		return
	}

	limit, err := h.limits.GetSwapLimit(c.Request.Context(), repositories.SwapLimitQuery{
		FromChainID: entities.ChainID(from),
		ToChainID:   entities.ChainID(to),
		SwapID:      c.Query("swapId"),
		Symbol:      symbol,
	}, c.Query("tokenAddress"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"limit": limit})
}

// GetMergedLimit combines both legs into the effective constraint
// GET /api/v1/limits/merged?fromChainId=&toChainId=&symbol=&swapId=&tokenAddress=
func (h *LimitHandler) GetMergedLimit(c *gin.Context) {
	from, to, symbol := c.Query("fromChainId"), c.Query("toChainId"), c.Query("symbol")
	if from == "" || to == "" || symbol == "" {
		response.Error(c, domainerrors.BadRequest("fromChainId, toChainId and symbol are required"))
		return
	}

	receipt, err := h.limits.GetReceiptLimit(c.Request.Context(), repositories.ReceiptLimitQuery{
		FromChainID: entities.ChainID(from),
		ToChainID:   entities.ChainID(to),
		Symbol:      symbol,
	}, c.Query("tokenAddress"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var swap *entities.LimitState
	if swapID := c.Query("swapId"); swapID != "" {
		swap, err = h.limits.GetSwapLimit(c.Request.Context(), repositories.SwapLimitQuery{
			FromChainID: entities.ChainID(from),
			ToChainID:   entities.ChainID(to),
			SwapID:      swapID,
			Symbol:      symbol,
		}, c.Query("tokenAddress"))
		if err != nil {
			response.Error(c, err)
			return
		}
	}

	response.Success(c, http.StatusOK, gin.H{"limit": usecases.MergeLimits(receipt, swap)})
}
