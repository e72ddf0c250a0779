package services_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bridge-kita.backend/internal/domain/entities"
	domainerrors "bridge-kita.backend/internal/domain/errors"
	"bridge-kita.backend/internal/infrastructure/services"
)

func mapURLs(chainID entities.ChainID, url string) map[entities.ChainID]string {
	return map[entities.ChainID]string{chainID: url}
}

func TestDescriptorClient_FetchDescriptorSet(t *testing.T) {
	raw := []byte{0x0a, 0x04, 0x74, 0x65, 0x73, 0x74}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/blockChain/contractFileDescriptorSet", r.URL.Path)
		assert.Equal(t, "bridge-contract", r.URL.Query().Get("address"))
		json.NewEncoder(w).Encode(base64.StdEncoding.EncodeToString(raw))
	}))
	defer srv.Close()

	c := services.NewDescriptorClient(mapURLs("AELF", srv.URL))
	got, err := c.FetchDescriptorSet(context.Background(), "AELF", "bridge-contract")
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}

func TestDescriptorClient_UnknownChain(t *testing.T) {
	c := services.NewDescriptorClient(mapURLs("AELF", "http://localhost:0"))

	_, err := c.FetchDescriptorSet(context.Background(), "tDVV", "bridge-contract")
	require.Error(t, err)

	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestDescriptorClient_NodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "contract not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := services.NewDescriptorClient(mapURLs("AELF", srv.URL))
	_, err := c.FetchDescriptorSet(context.Background(), "AELF", "missing-contract")
	require.Error(t, err)

	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DESCRIPTOR_UNRESOLVABLE", appErr.Code)
	assert.Contains(t, err.Error(), "missing-contract")
}

func TestDescriptorClient_BadBase64(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode("not-valid-base64!!!")
	}))
	defer srv.Close()

	c := services.NewDescriptorClient(mapURLs("AELF", srv.URL))
	_, err := c.FetchDescriptorSet(context.Background(), "AELF", "bridge-contract")
	require.Error(t, err)

	var appErr *domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DESCRIPTOR_UNRESOLVABLE", appErr.Code)
}
