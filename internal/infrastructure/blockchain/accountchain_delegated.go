package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"bridge-kita.backend/internal/domain/entities"
	domainerrors "bridge-kita.backend/internal/domain/errors"
	"bridge-kita.backend/internal/domain/repositories"
	"bridge-kita.backend/pkg/logger"
	"go.uber.org/zap"
)

// DelegatedAdapter routes account-chain sends through a third-party
// signing/relay service instead of a direct session. Views and encoding
// reuse the direct adapter; only the send path differs.
//
// The approve method on the canonical token contract is special-cased: that
// token's approve path requires a guardian-approved signature bundle, so the
// adapter obtains one from the approval service before submitting. All other
// methods take the standard relay path.
type DelegatedAdapter struct {
	direct    *AccountChainAdapter
	relay     repositories.DelegatedWallet
	guardians repositories.GuardianApprovalService
	// canonicalTokenContract is the token contract whose approve needs
	// multi-party attestation.
	canonicalTokenContract string
}

// NewDelegatedAdapter wraps a direct adapter with a relay send path.
func NewDelegatedAdapter(
	direct *AccountChainAdapter,
	relay repositories.DelegatedWallet,
	guardians repositories.GuardianApprovalService,
	canonicalTokenContract string,
) *DelegatedAdapter {
	return &DelegatedAdapter{
		direct:                 direct,
		relay:                  relay,
		guardians:              guardians,
		canonicalTokenContract: canonicalTokenContract,
	}
}

func (a *DelegatedAdapter) Kind() AdapterKind {
	return KindAccountChainDelegated
}

func (a *DelegatedAdapter) CallView(ctx context.Context, method string, params []any) (*entities.CallResult, error) {
	return a.direct.CallView(ctx, method, params)
}

// EncodeTransaction delegates to the direct adapter's encoder.
func (a *DelegatedAdapter) EncodeTransaction(ctx context.Context, method string, params []any) ([]byte, error) {
	return a.direct.EncodeTransaction(ctx, method, params)
}

func (a *DelegatedAdapter) CallSend(ctx context.Context, method, account string, params []any, opts SendOptions) (*entities.CallResult, error) {
	txID, err := a.submit(ctx, method, account, params)
	if err != nil {
		return nil, err
	}
	if opts.granularity() == entities.GranularityTransactionHash {
		return &entities.CallResult{TransactionID: txID}, nil
	}
	res, err := a.direct.node.WaitForResult(ctx, txID)
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

func (a *DelegatedAdapter) CallSendAsync(ctx context.Context, method, account string, params []any, opts SendOptions) (string, error) {
	return a.submit(ctx, method, account, params)
}

func (a *DelegatedAdapter) submit(ctx context.Context, method, account string, params []any) (string, error) {
	if a.relay == nil {
		return "", domainerrors.WalletNotConnected("delegated account-chain")
	}

	md, _, err := a.direct.encodeParams(ctx, method, params)
	if err != nil {
		return "", err
	}
	named := zipParams(md.Fields, params)

	if a.isGuardedApprove(method) {
		if err := a.attachGuardianBundle(ctx, account, named); err != nil {
			return "", err
		}
	}

	txID, err := a.relay.CallSendMethod(ctx, a.direct.address, md.Name, named)
	if err != nil {
		if containsAnyFold(err.Error(), accountChainDenialMarkers) {
			return "", domainerrors.UserDenied(err.Error())
		}
		return "", fmt.Errorf("relay %s on %s: %w", md.Name, a.direct.address, err)
	}
	logger.Debug(ctx, "delegated transaction submitted",
		zap.String("method", md.Name), zap.String("contract", a.direct.address), zap.String("txId", txID))
	return txID, nil
}

func (a *DelegatedAdapter) isGuardedApprove(method string) bool {
	return strings.EqualFold(method, "approve") &&
		a.canonicalTokenContract != "" &&
		a.direct.address == a.canonicalTokenContract
}

func (a *DelegatedAdapter) attachGuardianBundle(ctx context.Context, owner string, named map[string]any) error {
	if a.guardians == nil {
		return domainerrors.BadRequest("guardian approval service is not configured")
	}
	spender, _ := named["spender"].(string)
	symbol, _ := named["symbol"].(string)
	amount := new(big.Int)
	if s, ok := named["amount"].(string); ok {
		amount.SetString(s, 10)
	}
	bundle, err := a.guardians.RequestApproval(ctx, owner, spender, amount, symbol)
	if err != nil {
		return fmt.Errorf("guardian approval for %s: %w", symbol, err)
	}
	named["guardiansApproved"] = bundle.Guardians
	named["signatures"] = bundle.Signatures
	return nil
}
