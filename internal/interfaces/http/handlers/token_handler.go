package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bridge-kita.backend/internal/domain/entities"
	domainerrors "bridge-kita.backend/internal/domain/errors"
	"bridge-kita.backend/internal/domain/repositories"
	"bridge-kita.backend/internal/interfaces/http/response"
)

// TokenHandler handles token registry endpoints
type TokenHandler struct {
	tokenRepo repositories.TokenRepository
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(tokenRepo repositories.TokenRepository) *TokenHandler {
	return &TokenHandler{tokenRepo: tokenRepo}
}

// ListTokens lists the active tokens on a chain
// GET /api/v1/tokens?chainId=...
func (h *TokenHandler) ListTokens(c *gin.Context) {
	chainID := c.Query("chainId")
	if chainID == "" {
		response.Error(c, domainerrors.BadRequest("chainId is required"))
		return
	}

	tokens, err := h.tokenRepo.ListByChain(c.Request.Context(), entities.ChainID(chainID))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tokens": tokens})
}

// GetToken returns one registered token by symbol
// GET /api/v1/tokens/:symbol?chainId=...
func (h *TokenHandler) GetToken(c *gin.Context) {
	chainID := c.Query("chainId")
	if chainID == "" {
		response.Error(c, domainerrors.BadRequest("chainId is required"))
		return
	}

	token, err := h.tokenRepo.GetBySymbol(c.Request.Context(), entities.ChainID(chainID), c.Param("symbol"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"token": token})
}
