package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/shopspring/decimal"

	"bridge-kita.backend/internal/domain/entities"
	"bridge-kita.backend/internal/domain/repositories"
	"bridge-kita.backend/pkg/logger"
	"go.uber.org/zap"
)

// LimitClient queries the off-chain indexer for daily-limit and token-bucket
// state. The indexer mirrors on-chain state with lower read latency; callers
// fall back to on-chain views when a record is absent.
type LimitClient struct {
	baseURL string
	http    *http.Client
}

func NewLimitClient(baseURL string) *LimitClient {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 3 * time.Second
	rc.Logger = nil
	return &LimitClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    rc.StandardClient(),
	}
}

type limitRecord struct {
	Remain          decimal.Decimal `json:"remain"`
	MaxCapacity     decimal.Decimal `json:"maxCapacity"`
	CurrentCapacity decimal.Decimal `json:"currentCapacity"`
	FillRate        decimal.Decimal `json:"fillRate"`
	IsEnable        bool            `json:"isEnable"`
}

type limitResponse struct {
	Data []limitRecord `json:"data"`
}

// ReceiptLimit returns the receipt-leg state, or nil when the indexer has no
// record for the pair.
func (c *LimitClient) ReceiptLimit(ctx context.Context, q repositories.ReceiptLimitQuery) (*entities.LimitState, error) {
	return c.query(ctx, "/api/limits/receipt", map[string]string{
		"fromChainId": string(q.FromChainID),
		"toChainId":   string(q.ToChainID),
		"symbol":      q.Symbol,
	})
}

// SwapLimit returns the swap-leg state, or nil when the indexer has no
// record for the pair.
func (c *LimitClient) SwapLimit(ctx context.Context, q repositories.SwapLimitQuery) (*entities.LimitState, error) {
	return c.query(ctx, "/api/limits/swap", map[string]string{
		"fromChainId": string(q.FromChainID),
		"toChainId":   string(q.ToChainID),
		"swapId":      q.SwapID,
		"symbol":      q.Symbol,
	})
}

func (c *LimitClient) query(ctx context.Context, path string, params map[string]string) (*entities.LimitState, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("limit service %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed limitResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Data) == 0 {
		logger.Debug(ctx, "limit service has no record", zap.String("path", path))
		return nil, nil
	}
	rec := parsed.Data[0]
	return &entities.LimitState{
		Remain:          rec.Remain,
		MaxCapacity:     rec.MaxCapacity,
		CurrentCapacity: rec.CurrentCapacity,
		FillRate:        rec.FillRate,
		IsEnable:        rec.IsEnable,
	}, nil
}
