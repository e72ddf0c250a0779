package blockchain

import (
	"context"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/xssnick/tonutils-go/tvm/cell"

	"bridge-kita.backend/internal/domain/entities"
	domainerrors "bridge-kita.backend/internal/domain/errors"
	"bridge-kita.backend/internal/domain/repositories"
	"bridge-kita.backend/pkg/logger"
	"go.uber.org/zap"
)

// Bridge contract op codes carried in the first 32 bits of a message body.
const (
	opCreateReceipt            = 0x0acceb71
	opCreateNativeTokenReceipt = 0x01ec0443
)

// tonTrue is how TON get-methods encode a true boolean.
const tonTrue = -1

// tonNow is a seam so tests get deterministic query ids.
var tonNow = time.Now

// tonViewLayouts names the stack slots of the bridge contract's get-methods
// so callers receive named fields instead of positional integers.
var tonViewLayouts = map[string][]string{
	"getReceiptDailyLimit":              {"tokenAmount", "refreshTime", "dailyLimit"},
	"getSwapDailyLimit":                 {"tokenAmount", "refreshTime", "dailyLimit"},
	"getCurrentReceiptTokenBucketState": {"currentTokenAmount", "lastUpdatedTime", "tokenCapacity", "rate", "isEnabled"},
	"getCurrentSwapTokenBucketState":    {"currentTokenAmount", "lastUpdatedTime", "tokenCapacity", "rate", "isEnabled"},
	"getPoolLiquidity":                  {"liquidity"},
}

// TONAdapter invokes the TON bridge contract through BOC-encoded messages.
// Views decode the contract's stack-based results into named fields; sends
// build cells, submit through the connected wallet and derive the tx id by
// hashing the returned BOC.
type TONAdapter struct {
	chainID   entities.ChainID
	address   string
	reader    TONReader
	connector repositories.TONConnector
}

// NewTONAdapter creates a TON adapter. connector may be nil; sends then fail
// with a wallet-not-connected error.
func NewTONAdapter(chainID entities.ChainID, contractAddress string, reader TONReader, connector repositories.TONConnector) *TONAdapter {
	return &TONAdapter{
		chainID:   chainID,
		address:   contractAddress,
		reader:    reader,
		connector: connector,
	}
}

func (a *TONAdapter) Kind() AdapterKind {
	return KindTON
}

func (a *TONAdapter) CallView(ctx context.Context, method string, params []any) (*entities.CallResult, error) {
	if a.reader == nil {
		return nil, domainerrors.BadRequest("TON reader is not configured")
	}
	stack, err := a.reader.RunGetMethod(ctx, a.address, method)
	if err != nil {
		return nil, err
	}

	layout, ok := tonViewLayouts[method]
	data := make(map[string]any, len(stack))
	for i, v := range stack {
		name := fmt.Sprintf("stack_%d", i)
		if ok && i < len(layout) {
			name = layout[i]
		}
		if name == "isEnabled" {
			data[name] = v.Int64() == tonTrue
			continue
		}
		data[name] = v.String()
	}
	return &entities.CallResult{Data: data}, nil
}

func (a *TONAdapter) CallSend(ctx context.Context, method, account string, params []any, opts SendOptions) (*entities.CallResult, error) {
	txID, err := a.submit(ctx, method, params, opts)
	if err != nil {
		return nil, err
	}
	// TON sends resolve on broadcast regardless of requested granularity:
	// the connector has no receipt-waiting capability.
	return &entities.CallResult{TransactionID: txID}, nil
}

func (a *TONAdapter) CallSendAsync(ctx context.Context, method, account string, params []any, opts SendOptions) (string, error) {
	return a.submit(ctx, method, params, opts)
}

func (a *TONAdapter) submit(ctx context.Context, method string, params []any, opts SendOptions) (string, error) {
	if a.connector == nil {
		return "", domainerrors.WalletNotConnected("TON")
	}
	body, err := a.buildPayload(method, params)
	if err != nil {
		return "", err
	}
	amount := opts.NativeAmount
	if amount == nil {
		amount = big.NewInt(0)
	}

	boc, err := a.connector.SendTransaction(ctx, repositories.TONMessage{
		To:      a.address,
		Amount:  amount,
		Payload: body.ToBOC(),
	})
	if err != nil {
		if containsAnyFold(err.Error(), tonDenialMarkers) {
			return "", domainerrors.UserDenied(err.Error())
		}
		return "", fmt.Errorf("send %s on %s: %w", method, a.address, err)
	}

	signed, err := cell.FromBOC(boc)
	if err != nil {
		return "", fmt.Errorf("returned BOC is not a valid cell: %w", err)
	}
	txID := hex.EncodeToString(signed.Hash())
	logger.Debug(ctx, "ton message submitted",
		zap.String("method", method), zap.String("contract", a.address), zap.String("txId", txID))
	return txID, nil
}

// buildPayload packs a bridge message body: op code, query id, the
// destination chain id as a 32-bit field and a 32-byte recipient buffer.
func (a *TONAdapter) buildPayload(method string, params []any) (*cell.Cell, error) {
	var op uint64
	switch method {
	case "createReceipt":
		op = opCreateReceipt
	case "createNativeTokenReceipt":
		op = opCreateNativeTokenReceipt
	default:
		return nil, domainerrors.BadRequest(fmt.Sprintf("unsupported TON bridge method %q", method))
	}
	if len(params) < 2 {
		return nil, domainerrors.BadRequest("TON bridge message needs a destination chain id and recipient")
	}
	destChainID, ok := params[0].(int32)
	if !ok {
		return nil, domainerrors.BadRequest("destination chain id must be a 32-bit integer")
	}
	recipient, ok := params[1].([]byte)
	if !ok || len(recipient) != 32 {
		return nil, domainerrors.BadRequest("recipient must be a 32-byte buffer")
	}

	body := cell.BeginCell().
		MustStoreUInt(op, 32).
		MustStoreUInt(uint64(tonNow().UnixNano()), 64).
		MustStoreUInt(uint64(uint32(destChainID)), 32).
		MustStoreSlice(recipient, 256).
		EndCell()
	return body, nil
}

// tonDenialMarkers are the connector-specific rejection substrings.
var tonDenialMarkers = []string{
	"reject request",
	"user rejected",
	"canceled by the user",
}
