package usecases

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"bridge-kita.backend/internal/domain/entities"
	domainerrors "bridge-kita.backend/internal/domain/errors"
	"bridge-kita.backend/internal/domain/repositories"
	"bridge-kita.backend/internal/infrastructure/blockchain"
	"bridge-kita.backend/pkg/logger"
)

// ApprovalService is the approval step seen by the transfer orchestrator.
type ApprovalService interface {
	EnsureApproval(ctx context.Context, in ApprovalInput) (ApprovalOutcome, error)
}

// LimitService is the limit/liquidity gate seen by the transfer orchestrator.
type LimitService interface {
	GetReceiptLimit(ctx context.Context, q repositories.ReceiptLimitQuery, tokenAddress string) (*entities.LimitState, error)
	GetSwapLimit(ctx context.Context, q repositories.SwapLimitQuery, tokenAddress string) (*entities.LimitState, error)
	CheckDestinationLiquidity(ctx context.Context, destChain entities.ChainID, tokenAddress, symbol string, amount *big.Int) error
}

// FeeQuote is the bridge fee for one transfer.
type FeeQuote struct {
	Symbol string
	Amount *big.Int
}

// TransferConfig carries the per-chain wiring the orchestrator needs.
type TransferConfig struct {
	// BridgeContracts maps each chain to its bridge contract address.
	BridgeContracts map[entities.ChainID]string
	// FeeTokens maps each origin chain to the symbol its bridge fee is
	// denominated in.
	FeeTokens map[entities.ChainID]string
	// SwapIDs maps "from|to|symbol" to the destination-side swap id used by
	// the swap-leg limit views. Pairs without an entry skip that leg.
	SwapIDs map[string]string
	// TONNativeFee is the fixed TON-origin fee in nanotons.
	TONNativeFee *big.Int
}

// TransferUsecase runs one cross-chain transfer attempt as a linear state
// machine: limit gate, fee check, approvals, submit, await. No step is ever
// reordered past submission and a failed approval always aborts before it.
type TransferUsecase struct {
	dispatchers DispatcherProvider
	tokens      repositories.TokenRepository
	approvals   ApprovalService
	limits      LimitService
	attempts    repositories.TransferRepository
	cfg         TransferConfig
}

func NewTransferUsecase(
	dispatchers DispatcherProvider,
	tokens repositories.TokenRepository,
	approvals ApprovalService,
	limits LimitService,
	attempts repositories.TransferRepository,
	cfg TransferConfig,
) *TransferUsecase {
	return &TransferUsecase{
		dispatchers: dispatchers,
		tokens:      tokens,
		approvals:   approvals,
		limits:      limits,
		attempts:    attempts,
		cfg:         cfg,
	}
}

// Execute runs the transfer to a terminal state and records the attempt.
func (u *TransferUsecase) Execute(ctx context.Context, order entities.TransferOrder) (*entities.TransferAttempt, error) {
	if err := validateOrder(order); err != nil {
		return nil, err
	}

	token, err := u.tokens.GetBySymbol(ctx, order.FromChainID, order.Symbol)
	if err != nil {
		return nil, domainerrors.NotFound(fmt.Sprintf("token %s is not registered on chain %s", order.Symbol, order.FromChainID))
	}
	if !token.KnownDecimals() {
		return nil, domainerrors.MissingDecimals(order.Symbol, string(order.FromChainID))
	}

	attempt := &entities.TransferAttempt{Order: order, Status: entities.TransferStatusPending}
	if err := u.attempts.Create(ctx, attempt); err != nil {
		return nil, err
	}

	txID, err := u.run(ctx, order, token)
	if err != nil {
		u.finish(ctx, attempt, entities.TransferStatusFailed, txID, err.Error())
		return attempt, err
	}
	u.finish(ctx, attempt, entities.TransferStatusSucceeded, txID, "")
	return attempt, nil
}

func (u *TransferUsecase) run(ctx context.Context, order entities.TransferOrder, token *entities.Token) (string, error) {
	if err := u.checkLimits(ctx, order, token); err != nil {
		return "", err
	}

	fee, err := u.feeQuote(ctx, order)
	if err != nil {
		return "", err
	}

	family := blockchain.FamilyOf(order.FromChainID)
	if family != entities.FamilyTON {
		if err := u.runApprovals(ctx, order, token, fee); err != nil {
			return "", err
		}
	}

	return u.submit(ctx, order, token, fee)
}

func validateOrder(order entities.TransferOrder) error {
	if order.Amount == nil || order.Amount.Sign() <= 0 {
		return domainerrors.BadRequest("transfer amount must be positive")
	}
	if order.Sender == "" || order.Recipient == "" {
		return domainerrors.BadRequest("sender and recipient are required")
	}
	if order.FromChainID == order.ToChainID {
		return domainerrors.BadRequest("origin and destination chains must differ")
	}
	return nil
}

// checkLimits merges both legs and applies the capacity/daily gates, then
// the destination-liquidity gate. Runs before fees and approvals so a
// blocked transfer never signs anything.
func (u *TransferUsecase) checkLimits(ctx context.Context, order entities.TransferOrder, token *entities.Token) error {
	receipt, err := u.limits.GetReceiptLimit(ctx, repositories.ReceiptLimitQuery{
		FromChainID: order.FromChainID,
		ToChainID:   order.ToChainID,
		Symbol:      order.Symbol,
	}, token.Address)
	if err != nil {
		return err
	}

	var swap *entities.LimitState
	if swapID, ok := u.cfg.SwapIDs[swapKey(order.FromChainID, order.ToChainID, order.Symbol)]; ok {
		swap, err = u.limits.GetSwapLimit(ctx, repositories.SwapLimitQuery{
			FromChainID: order.FromChainID,
			ToChainID:   order.ToChainID,
			SwapID:      swapID,
			Symbol:      order.Symbol,
		}, token.Address)
		if err != nil {
			return err
		}
	}

	if err := CheckTransferAllowed(MergeLimits(receipt, swap), decimal.NewFromBigInt(order.Amount, 0)); err != nil {
		return err
	}

	destToken, err := u.tokens.GetBySymbol(ctx, order.ToChainID, order.Symbol)
	if err != nil {
		return domainerrors.NotFound(fmt.Sprintf("token %s is not registered on chain %s", order.Symbol, order.ToChainID))
	}
	return u.limits.CheckDestinationLiquidity(ctx, order.ToChainID, destToken.Address, order.Symbol, order.Amount)
}

func swapKey(from, to entities.ChainID, symbol string) string {
	return fmt.Sprintf("%s|%s|%s", from, to, symbol)
}

// feeQuote resolves the bridge fee for the origin chain. TON carries a fixed
// native fee; other families read it from the bridge contract.
func (u *TransferUsecase) feeQuote(ctx context.Context, order entities.TransferOrder) (FeeQuote, error) {
	family := blockchain.FamilyOf(order.FromChainID)
	if family == entities.FamilyTON {
		fee := u.cfg.TONNativeFee
		if fee == nil {
			fee = big.NewInt(0)
		}
		return FeeQuote{Symbol: "TON", Amount: fee}, nil
	}

	feeSymbol, ok := u.cfg.FeeTokens[order.FromChainID]
	if !ok {
		return FeeQuote{}, domainerrors.BadRequest(fmt.Sprintf("no fee token configured for chain %s", order.FromChainID))
	}
	bridge, err := u.bridgeDispatcher(order.FromChainID, order.Sender)
	if err != nil {
		return FeeQuote{}, err
	}
	encodedDest, err := blockchain.EncodeDestChainID(order.ToChainID)
	if err != nil {
		return FeeQuote{}, err
	}

	var params []any
	if bridge.ContractType() == entities.ContractTypeELF {
		params = []any{map[string]any{"targetChainId": encodedDest}}
	} else {
		params = []any{encodedDest}
	}
	res, err := bridge.CallViewMethod(ctx, "getFee", params)
	if err != nil {
		return FeeQuote{}, err
	}
	amount, err := bigFromAny(firstValue(res, "amount", "value"))
	if err != nil {
		return FeeQuote{}, fmt.Errorf("fee result: %w", err)
	}
	return FeeQuote{Symbol: feeSymbol, Amount: amount}, nil
}

// runApprovals issues the fee approval first, then the principal approval.
// When the transfer token is the fee token a single approval covers the
// combined amount. Any non-success outcome aborts the transfer.
func (u *TransferUsecase) runApprovals(ctx context.Context, order entities.TransferOrder, token *entities.Token, fee FeeQuote) error {
	spender, ok := u.cfg.BridgeContracts[order.FromChainID]
	if !ok {
		return domainerrors.BadRequest(fmt.Sprintf("no bridge contract configured for chain %s", order.FromChainID))
	}

	if fee.Symbol == order.Symbol {
		combined := new(big.Int).Add(order.Amount, fee.Amount)
		return u.approve(ctx, order, token, spender, combined)
	}

	if fee.Amount.Sign() > 0 {
		feeToken, err := u.tokens.GetBySymbol(ctx, order.FromChainID, fee.Symbol)
		if err != nil {
			return domainerrors.NotFound(fmt.Sprintf("fee token %s is not registered on chain %s", fee.Symbol, order.FromChainID))
		}
		if err := u.approve(ctx, order, feeToken, spender, fee.Amount); err != nil {
			return err
		}
	}
	return u.approve(ctx, order, token, spender, order.Amount)
}

func (u *TransferUsecase) approve(ctx context.Context, order entities.TransferOrder, token *entities.Token, spender string, amount *big.Int) error {
	outcome, err := u.approvals.EnsureApproval(ctx, ApprovalInput{
		ChainID:       order.FromChainID,
		TokenContract: token.Address,
		Symbol:        token.Symbol,
		Owner:         order.Sender,
		Spender:       spender,
		Amount:        amount,
	})
	if err != nil {
		return err
	}
	switch outcome.Status {
	case ApprovalSuccess:
		return nil
	case ApprovalUserDenied:
		return domainerrors.UserDenied(fmt.Sprintf("approval for %s was denied by the wallet", token.Symbol))
	default:
		return domainerrors.ApprovalAborted(token.Symbol, outcome.Err)
	}
}

// submit issues the family-specific bridge call. The destination chain id is
// encoded here, immediately before the call, and nowhere else.
func (u *TransferUsecase) submit(ctx context.Context, order entities.TransferOrder, token *entities.Token, fee FeeQuote) (string, error) {
	fromFamily := blockchain.FamilyOf(order.FromChainID)
	toFamily := blockchain.FamilyOf(order.ToChainID)

	if fromFamily == entities.FamilyAccountChain && toFamily == entities.FamilyAccountChain {
		return u.submitHomogeneous(ctx, order, token)
	}

	switch fromFamily {
	case entities.FamilyAccountChain:
		return u.submitAccountChain(ctx, order, token, fee)
	case entities.FamilyTON:
		return u.submitTON(ctx, order, fee)
	default:
		return u.submitEVM(ctx, order, token, fee)
	}
}

// submitHomogeneous moves a token between two account-chain shards with a
// single CrossChainTransfer on the token contract, awaiting full receipt.
func (u *TransferUsecase) submitHomogeneous(ctx context.Context, order entities.TransferOrder, token *entities.Token) (string, error) {
	destToken, err := u.tokens.GetBySymbol(ctx, order.ToChainID, order.Symbol)
	if err != nil {
		return "", domainerrors.NotFound(fmt.Sprintf("token %s is not registered on chain %s", order.Symbol, order.ToChainID))
	}
	if !destToken.IssuingChainID.Valid {
		return "", domainerrors.BadRequest(fmt.Sprintf("token %s has no issuing chain recorded", order.Symbol))
	}

	toChainID, err := blockchain.DestChainIntID(order.ToChainID)
	if err != nil {
		return "", err
	}
	issueChainID, err := blockchain.ConvertBase58ToChainID(destToken.IssuingChainID.String)
	if err != nil {
		return "", err
	}

	disp, err := u.dispatchers(token.Address, order.FromChainID, order.Sender)
	if err != nil {
		return "", err
	}
	res, err := disp.CallSendMethod(ctx, "crossChainTransfer", order.Sender, []any{
		order.Recipient,
		order.Symbol,
		order.Amount.String(),
		order.Memo,
		toChainID,
		issueChainID,
	}, blockchain.SendOptions{Granularity: entities.GranularityReceipt})
	if err != nil {
		return "", err
	}
	return res.TransactionID, nil
}

// submitAccountChain creates a receipt on the origin shard and waits for
// finality; downstream release needs the mined result immediately.
func (u *TransferUsecase) submitAccountChain(ctx context.Context, order entities.TransferOrder, token *entities.Token, fee FeeQuote) (string, error) {
	bridge, err := u.bridgeDispatcher(order.FromChainID, order.Sender)
	if err != nil {
		return "", err
	}
	destAddr, err := blockchain.FormatDestAddress(order.ToChainID, order.Recipient)
	if err != nil {
		return "", err
	}
	encodedDest, err := blockchain.EncodeDestChainID(order.ToChainID)
	if err != nil {
		return "", err
	}

	amount := order.Amount
	if fee.Symbol == order.Symbol {
		amount = new(big.Int).Add(order.Amount, fee.Amount)
	}
	isDestTON := 0
	if blockchain.FamilyOf(order.ToChainID) == entities.FamilyTON {
		isDestTON = 1
	}

	res, err := bridge.CallSendMethod(ctx, "createReceipt", order.Sender, []any{
		order.Symbol,
		order.Sender,
		destAddr,
		amount.String(),
		encodedDest,
		isDestTON,
	}, blockchain.SendOptions{Granularity: entities.GranularityReceipt})
	if err != nil {
		return "", err
	}
	logger.Info(ctx, "receipt created",
		zap.String("fromChainId", string(order.FromChainID)),
		zap.String("toChainId", string(order.ToChainID)),
		zap.String("transactionId", res.TransactionID))
	return res.TransactionID, nil
}

// submitEVM creates a receipt on an EVM origin and resolves on broadcast
// hash; the destination side proceeds from indexed events.
func (u *TransferUsecase) submitEVM(ctx context.Context, order entities.TransferOrder, token *entities.Token, fee FeeQuote) (string, error) {
	bridge, err := u.bridgeDispatcher(order.FromChainID, order.Sender)
	if err != nil {
		return "", err
	}
	destAddr, err := blockchain.FormatDestAddress(order.ToChainID, order.Recipient)
	if err != nil {
		return "", err
	}
	encodedDest, err := blockchain.EncodeDestChainID(order.ToChainID)
	if err != nil {
		return "", err
	}

	amount := order.Amount
	if fee.Symbol == order.Symbol {
		amount = new(big.Int).Add(order.Amount, fee.Amount)
	}

	res, err := bridge.CallSendMethod(ctx, "createReceipt", order.Sender, []any{
		common.HexToAddress(token.Address),
		amount,
		encodedDest,
		destAddr,
	}, blockchain.SendOptions{Granularity: entities.GranularityTransactionHash})
	if err != nil {
		return "", err
	}
	return res.TransactionID, nil
}

// submitTON locks native TON through the bridge, carrying the amount plus
// the fixed fee as the message value and resolving on broadcast.
func (u *TransferUsecase) submitTON(ctx context.Context, order entities.TransferOrder, fee FeeQuote) (string, error) {
	bridge, err := u.bridgeDispatcher(order.FromChainID, order.Sender)
	if err != nil {
		return "", err
	}
	destChainID, err := blockchain.DestChainIntID(order.ToChainID)
	if err != nil {
		return "", err
	}
	recipient, err := blockchain.AccountAddressToBytes(order.Recipient)
	if err != nil {
		return "", err
	}

	value := new(big.Int).Add(order.Amount, fee.Amount)
	res, err := bridge.CallSendMethod(ctx, "createNativeTokenReceipt", order.Sender, []any{
		destChainID,
		recipient,
	}, blockchain.SendOptions{
		Granularity:  entities.GranularityTransactionHash,
		NativeAmount: value,
	})
	if err != nil {
		return "", err
	}
	return res.TransactionID, nil
}

func (u *TransferUsecase) bridgeDispatcher(chainID entities.ChainID, account string) (ContractCaller, error) {
	contract, ok := u.cfg.BridgeContracts[chainID]
	if !ok {
		return nil, domainerrors.BadRequest(fmt.Sprintf("no bridge contract configured for chain %s", chainID))
	}
	return u.dispatchers(contract, chainID, account)
}

func (u *TransferUsecase) finish(ctx context.Context, attempt *entities.TransferAttempt, status entities.TransferStatus, txID, reason string) {
	attempt.Status = status
	attempt.TransactionID = txID
	attempt.FailureReason = reason
	if err := u.attempts.UpdateStatus(ctx, attempt.ID, status, txID, reason); err != nil {
		logger.Error(ctx, "failed to record transfer outcome",
			zap.String("attemptId", attempt.ID.String()),
			zap.Error(err))
	}
}

// GetAttempt returns a recorded transfer attempt.
func (u *TransferUsecase) GetAttempt(ctx context.Context, id string) (*entities.TransferAttempt, error) {
	parsed, err := parseAttemptID(id)
	if err != nil {
		return nil, err
	}
	return u.attempts.GetByID(ctx, parsed)
}

// ListAttempts returns a sender's recent transfer attempts.
func (u *TransferUsecase) ListAttempts(ctx context.Context, sender string, limit int) ([]*entities.TransferAttempt, error) {
	return u.attempts.ListBySender(ctx, sender, limit)
}
