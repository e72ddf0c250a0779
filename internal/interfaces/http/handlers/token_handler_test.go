package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/volatiletech/null/v8"

	"bridge-kita.backend/internal/domain/entities"
	domainerrors "bridge-kita.backend/internal/domain/errors"
)

func tokenRouter(repo *mockTokenRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewTokenHandler(repo)
	r := gin.New()
	r.GET("/api/v1/tokens", h.ListTokens)
	r.GET("/api/v1/tokens/:symbol", h.GetToken)
	return r
}

func TestListTokens(t *testing.T) {
	repo := new(mockTokenRepo)
	repo.On("ListByChain", mock.Anything, entities.ChainID("AELF")).
		Return([]*entities.Token{
			{ID: uuid.New(), ChainID: "AELF", Symbol: "ELF", Decimals: null.IntFrom(8)},
			{ID: uuid.New(), ChainID: "AELF", Symbol: "USDT", Decimals: null.IntFrom(6)},
		}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tokens?chainId=AELF", nil)
	tokenRouter(repo).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ELF")
	assert.Contains(t, rec.Body.String(), "USDT")
}

func TestListTokens_RequiresChainID(t *testing.T) {
	repo := new(mockTokenRepo)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tokens", nil)
	tokenRouter(repo).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "ListByChain", mock.Anything, mock.Anything)
}

func TestGetToken(t *testing.T) {
	repo := new(mockTokenRepo)
	repo.On("GetBySymbol", mock.Anything, entities.ChainID("11155111"), "USDT").
		Return(&entities.Token{ID: uuid.New(), ChainID: "11155111", Symbol: "USDT", Decimals: null.IntFrom(6)}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tokens/USDT?chainId=11155111", nil)
	tokenRouter(repo).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "USDT")
}

func TestGetToken_NotFound(t *testing.T) {
	repo := new(mockTokenRepo)
	repo.On("GetBySymbol", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domainerrors.ErrNotFound)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tokens/NOPE?chainId=AELF", nil)
	tokenRouter(repo).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
