package blockchain

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/dynamicpb"

	"bridge-kita.backend/internal/domain/entities"
	domainerrors "bridge-kita.backend/internal/domain/errors"
	"bridge-kita.backend/internal/domain/repositories"
	"bridge-kita.backend/pkg/logger"
	"go.uber.org/zap"
)

// AccountChainAdapter invokes account-chain contracts directly through a
// node session. It carries a read-only mirror node so view calls succeed
// before a writable session (wallet) exists, and lazily resolves method
// descriptors before any call is encoded.
type AccountChainAdapter struct {
	chainID     entities.ChainID
	address     string
	node        *AelfClient
	viewNode    *AelfClient
	wallet      repositories.AccountWallet
	descriptors *DescriptorCache
}

// NewAccountChainAdapter creates a direct adapter. viewNode may be nil, in
// which case the session node serves views too. wallet may be nil; sends
// then fail with a wallet-not-connected error.
func NewAccountChainAdapter(
	chainID entities.ChainID,
	contractAddress string,
	node *AelfClient,
	viewNode *AelfClient,
	wallet repositories.AccountWallet,
	descriptors *DescriptorCache,
) *AccountChainAdapter {
	if viewNode == nil {
		viewNode = node
	}
	return &AccountChainAdapter{
		chainID:     chainID,
		address:     contractAddress,
		node:        node,
		viewNode:    viewNode,
		wallet:      wallet,
		descriptors: descriptors,
	}
}

func (a *AccountChainAdapter) Kind() AdapterKind {
	return KindAccountChain
}

// encodeParams resolves the method descriptor and packs the positional
// parameters into the protobuf request message.
func (a *AccountChainAdapter) encodeParams(ctx context.Context, method string, params []any) (MethodDescriptor, []byte, error) {
	md, err := a.descriptors.Method(ctx, a.chainID, a.address, ToPascalCase(method))
	if err != nil {
		return MethodDescriptor{}, nil, err
	}
	if len(params) == 0 {
		return md, nil, nil
	}
	named := zipParams(md.Fields, params)
	raw, err := json.Marshal(named)
	if err != nil {
		return MethodDescriptor{}, nil, fmt.Errorf("encode params for %s: %w", md.Name, err)
	}
	msg := dynamicpb.NewMessage(md.Input)
	if err := protojson.Unmarshal(raw, msg); err != nil {
		return MethodDescriptor{}, nil, fmt.Errorf("params do not match %s request shape: %w", md.Name, err)
	}
	packed, err := proto.Marshal(msg)
	if err != nil {
		return MethodDescriptor{}, nil, fmt.Errorf("marshal %s request: %w", md.Name, err)
	}
	return md, packed, nil
}

// sender picks the from-address for encoding: the wallet when connected,
// otherwise the contract's own address so views stay possible.
func (a *AccountChainAdapter) sender() string {
	if a.wallet != nil {
		return a.wallet.Address()
	}
	return a.address
}

// EncodeTransaction builds the unsigned raw transaction for a method call
// without broadcasting it.
func (a *AccountChainAdapter) EncodeTransaction(ctx context.Context, method string, params []any) ([]byte, error) {
	md, packed, err := a.encodeParams(ctx, method, params)
	if err != nil {
		return nil, err
	}
	status, err := a.viewNode.GetChainStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain status for %s: %w", md.Name, err)
	}
	return EncodeRawTransaction(a.sender(), a.address, status, md.Name, packed)
}

func (a *AccountChainAdapter) CallView(ctx context.Context, method string, params []any) (*entities.CallResult, error) {
	rawTx, err := a.EncodeTransaction(ctx, method, params)
	if err != nil {
		return nil, err
	}
	data, err := a.viewNode.ExecuteRawTransaction(ctx, rawTx)
	if err != nil {
		return nil, fmt.Errorf("view %s on %s: %w", method, a.address, err)
	}
	return &entities.CallResult{Data: data}, nil
}

func (a *AccountChainAdapter) CallSend(ctx context.Context, method, account string, params []any, opts SendOptions) (*entities.CallResult, error) {
	txID, err := a.broadcast(ctx, method, params)
	if err != nil {
		return nil, err
	}
	if opts.granularity() == entities.GranularityTransactionHash {
		return &entities.CallResult{TransactionID: txID}, nil
	}
	res, err := a.node.WaitForResult(ctx, txID)
	if err != nil {
		return nil, err
	}
	return &entities.CallResult{
		TransactionID: txID,
		Status:        res.Status,
		Data: map[string]any{
			"BlockNumber": res.BlockNumber,
			"ReturnValue": res.ReturnValue,
		},
	}, nil
}

func (a *AccountChainAdapter) CallSendAsync(ctx context.Context, method, account string, params []any, opts SendOptions) (string, error) {
	return a.broadcast(ctx, method, params)
}

func (a *AccountChainAdapter) broadcast(ctx context.Context, method string, params []any) (string, error) {
	if a.wallet == nil {
		return "", domainerrors.WalletNotConnected("account-chain")
	}
	rawTx, err := a.EncodeTransaction(ctx, method, params)
	if err != nil {
		return "", err
	}
	signature, err := a.wallet.SignTransaction(ctx, rawTx)
	if err != nil {
		if containsAnyFold(err.Error(), accountChainDenialMarkers) {
			return "", domainerrors.UserDenied(err.Error())
		}
		return "", fmt.Errorf("sign %s: %w", method, err)
	}
	txID, err := a.node.SendRawTransaction(ctx, AppendSignature(rawTx, signature))
	if err != nil {
		return "", fmt.Errorf("broadcast %s on %s: %w", method, a.address, err)
	}
	logger.Debug(ctx, "account-chain transaction broadcast",
		zap.String("method", method), zap.String("contract", a.address), zap.String("txId", txID))
	return txID, nil
}

// accountChainDenialMarkers are the wallet-specific rejection substrings.
var accountChainDenialMarkers = []string{
	"user denied",
	"operation canceled",
	"request rejected",
}
