package blockchain

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"google.golang.org/protobuf/encoding/protowire"

	domainerrors "bridge-kita.backend/internal/domain/errors"
	"bridge-kita.backend/pkg/logger"
	"go.uber.org/zap"
)

// Account-chain transaction result statuses.
const (
	txStatusMined             = "MINED"
	txStatusPending           = "PENDING"
	txStatusPendingValidation = "PENDING_VALIDATION"
	txStatusNotExisted        = "NOTEXISTED"
	txStatusFailed            = "FAILED"
)

// sleep is a seam for the polling tests.
var sleep = time.Sleep

// TxResult is one transaction-result poll response from an account-chain node.
type TxResult struct {
	TransactionID string          `json:"TransactionId"`
	Status        string          `json:"Status"`
	Error         string          `json:"Error"`
	BlockNumber   int64           `json:"BlockNumber"`
	ReturnValue   string          `json:"ReturnValue"`
	Logs          json.RawMessage `json:"Logs"`
}

// ChainStatus carries the reference-block data raw transactions embed.
type ChainStatus struct {
	ChainID          string `json:"ChainId"`
	BestChainHeight  int64  `json:"BestChainHeight"`
	BestChainHash    string `json:"BestChainHash"`
	LastIrreversible int64  `json:"LastIrreversibleBlockHeight"`
}

// AelfClient talks to one account-chain node over its REST surface.
type AelfClient struct {
	baseURL      string
	http         *http.Client
	pollInterval time.Duration
	pollCeiling  int
}

// NewAelfClient creates a node client with transport-level retries.
func NewAelfClient(baseURL string, pollInterval time.Duration, pollCeiling int) *AelfClient {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 3 * time.Second
	rc.Logger = nil
	return &AelfClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		http:         rc.StandardClient(),
		pollInterval: pollInterval,
		pollCeiling:  pollCeiling,
	}
}

func (c *AelfClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *AelfClient) postJSON(ctx context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *AelfClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("node %s returned %d: %s", req.URL.Path, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// GetChainStatus returns the node's best-chain reference data.
func (c *AelfClient) GetChainStatus(ctx context.Context) (*ChainStatus, error) {
	var status ChainStatus
	if err := c.getJSON(ctx, "/api/blockChain/chainStatus", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ExecuteRawTransaction runs a read-only call against the node and returns
// the decoded JSON result fields.
func (c *AelfClient) ExecuteRawTransaction(ctx context.Context, rawTx []byte) (map[string]any, error) {
	var out json.RawMessage
	body := map[string]string{"RawTransaction": hex.EncodeToString(rawTx)}
	if err := c.postJSON(ctx, "/api/blockChain/executeRawTransaction", body, &out); err != nil {
		return nil, err
	}
	return decodeNodeResult(out)
}

// SendRawTransaction broadcasts a signed transaction; returns the tx id.
func (c *AelfClient) SendRawTransaction(ctx context.Context, signedTx []byte) (string, error) {
	var out struct {
		TransactionID string `json:"TransactionId"`
	}
	body := map[string]any{
		"RawTransaction": hex.EncodeToString(signedTx),
	}
	if err := c.postJSON(ctx, "/api/blockChain/sendTransaction", body, &out); err != nil {
		return "", err
	}
	if out.TransactionID == "" {
		return "", fmt.Errorf("node accepted transaction but returned no id")
	}
	return out.TransactionID, nil
}

// GetTransactionResult fetches the current status of a transaction.
func (c *AelfClient) GetTransactionResult(ctx context.Context, txID string) (*TxResult, error) {
	var res TxResult
	if err := c.getJSON(ctx, "/api/blockChain/transactionResult?transactionId="+txID, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// WaitForResult polls until the transaction reaches a terminal state.
// Transient states (pending, pending validation) retry with a fixed short
// backoff up to the configured ceiling; NotExisted and contract failures
// return immediately as terminal errors; any unrecognized status surfaces as
// a "Transaction: <status>" error.
func (c *AelfClient) WaitForResult(ctx context.Context, txID string) (*TxResult, error) {
	for attempt := 0; attempt < c.pollCeiling; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := c.GetTransactionResult(ctx, txID)
		if err != nil {
			// Node hiccups during polling count against the ceiling.
			logger.Warn(ctx, "transaction result poll failed",
				zap.String("txId", txID), zap.Int("attempt", attempt), zap.Error(err))
			sleep(c.pollInterval)
			continue
		}
		switch strings.ToUpper(res.Status) {
		case txStatusMined:
			return res, nil
		case txStatusNotExisted:
			return nil, domainerrors.TransactionFailed(txID, "NotExisted")
		case txStatusPending, txStatusPendingValidation:
			sleep(c.pollInterval)
		case txStatusFailed:
			return nil, domainerrors.TransactionFailed(txID, res.Error)
		default:
			return nil, domainerrors.TransactionStatus(res.Status)
		}
	}
	return nil, domainerrors.PollingExhausted(txID, c.pollCeiling)
}

// decodeNodeResult flattens a node execute result into named fields. Scalar
// results come back under "value".
func decodeNodeResult(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var asMap map[string]any
	if err := json.Unmarshal(raw, &asMap); err == nil {
		return asMap, nil
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		// Some results are JSON encoded twice by the node.
		if err := json.Unmarshal([]byte(asString), &asMap); err == nil {
			return asMap, nil
		}
		return map[string]any{"value": asString}, nil
	}
	var asAny any
	if err := json.Unmarshal(raw, &asAny); err != nil {
		return nil, fmt.Errorf("undecodable node result: %w", err)
	}
	return map[string]any{"value": asAny}, nil
}

// Raw transaction field numbers of the account-chain transaction message.
const (
	txFieldFrom           = 1
	txFieldTo             = 2
	txFieldRefBlockNumber = 3
	txFieldRefBlockPrefix = 4
	txFieldMethodName     = 5
	txFieldParams         = 6
	txFieldSignature      = 10000
)

// EncodeRawTransaction builds the unsigned wire form of an account-chain
// transaction: sender, target contract, reference block data, method name
// and the protobuf-encoded parameter message.
func EncodeRawTransaction(from, to string, status *ChainStatus, method string, params []byte) ([]byte, error) {
	fromBytes, err := AccountAddressToBytes(from)
	if err != nil {
		return nil, err
	}
	toBytes, err := AccountAddressToBytes(to)
	if err != nil {
		return nil, err
	}
	blockHash, err := hex.DecodeString(status.BestChainHash)
	if err != nil || len(blockHash) < 4 {
		return nil, fmt.Errorf("invalid reference block hash %q", status.BestChainHash)
	}

	var tx []byte
	tx = appendAddress(tx, txFieldFrom, fromBytes)
	tx = appendAddress(tx, txFieldTo, toBytes)
	tx = protowire.AppendTag(tx, txFieldRefBlockNumber, protowire.VarintType)
	tx = protowire.AppendVarint(tx, uint64(status.BestChainHeight))
	tx = protowire.AppendTag(tx, txFieldRefBlockPrefix, protowire.BytesType)
	tx = protowire.AppendBytes(tx, blockHash[:4])
	tx = protowire.AppendTag(tx, txFieldMethodName, protowire.BytesType)
	tx = protowire.AppendBytes(tx, []byte(method))
	if len(params) > 0 {
		tx = protowire.AppendTag(tx, txFieldParams, protowire.BytesType)
		tx = protowire.AppendBytes(tx, params)
	}
	return tx, nil
}

// AppendSignature attaches a signature to an encoded raw transaction.
func AppendSignature(rawTx, signature []byte) []byte {
	out := append([]byte{}, rawTx...)
	out = protowire.AppendTag(out, txFieldSignature, protowire.BytesType)
	out = protowire.AppendBytes(out, signature)
	return out
}

// appendAddress wraps raw address bytes into the nested address message
// (single bytes field) the transaction schema uses.
func appendAddress(buf []byte, field protowire.Number, addr []byte) []byte {
	var inner []byte
	inner = protowire.AppendTag(inner, 1, protowire.BytesType)
	inner = protowire.AppendBytes(inner, addr)
	buf = protowire.AppendTag(buf, field, protowire.BytesType)
	buf = protowire.AppendBytes(buf, inner)
	return buf
}
