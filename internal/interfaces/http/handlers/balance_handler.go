package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"bridge-kita.backend/internal/domain/entities"
	domainerrors "bridge-kita.backend/internal/domain/errors"
	"bridge-kita.backend/internal/interfaces/http/response"
	"bridge-kita.backend/internal/usecases"
)

type balanceService interface {
	GetBalance(ctx context.Context, chainID entities.ChainID, symbol, owner string) (*usecases.Balance, error)
}

// BalanceHandler handles balance query endpoints
type BalanceHandler struct {
	balances balanceService
}

func NewBalanceHandler(balances balanceService) *BalanceHandler {
	return &BalanceHandler{balances: balances}
}

// GetBalance returns a wallet's balance of one token
// GET /api/v1/balances?chainId=&symbol=&owner=
func (h *BalanceHandler) GetBalance(c *gin.Context) {
	chainID, symbol, owner := c.Query("chainId"), c.Query("symbol"), c.Query("owner")
	if chainID == "" || symbol == "" || owner == "" {
		response.Error(c, domainerrors.BadRequest("chainId, symbol and owner are required"))
		return
	}

	balance, err := h.balances.GetBalance(c.Request.Context(), entities.ChainID(chainID), symbol, owner)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"balance": balance})
}
