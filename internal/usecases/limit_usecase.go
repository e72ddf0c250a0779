package usecases

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"bridge-kita.backend/internal/domain/entities"
	domainerrors "bridge-kita.backend/internal/domain/errors"
	"bridge-kita.backend/internal/domain/repositories"
	"bridge-kita.backend/internal/infrastructure/blockchain"
	"bridge-kita.backend/pkg/logger"
)

// LimitUsecase resolves daily-limit and token-bucket state for a transfer
// and enforces it against candidate amounts. State comes from the indexer
// when it has a record, otherwise from two parallel on-chain views.
type LimitUsecase struct {
	query           repositories.LimitQueryService
	dispatchers     DispatcherProvider
	bridgeContracts map[entities.ChainID]string
}

func NewLimitUsecase(query repositories.LimitQueryService, dispatchers DispatcherProvider, bridgeContracts map[entities.ChainID]string) *LimitUsecase {
	return &LimitUsecase{
		query:           query,
		dispatchers:     dispatchers,
		bridgeContracts: bridgeContracts,
	}
}

// GetReceiptLimit resolves the receipt-leg state on the origin chain.
// A nil state with nil error means no limit is configured for the pair.
func (u *LimitUsecase) GetReceiptLimit(ctx context.Context, q repositories.ReceiptLimitQuery, tokenAddress string) (*entities.LimitState, error) {
	if u.query != nil {
		state, err := u.query.ReceiptLimit(ctx, q)
		if err != nil {
			return nil, err
		}
		if state != nil {
			return state, nil
		}
	}

	disp, encodedDest, err := u.legDispatcher(q.FromChainID, q.ToChainID)
	if err != nil {
		return nil, err
	}
	dailyParams, bucketParams := u.receiptParams(disp, q.Symbol, tokenAddress, encodedDest)
	return u.readLeg(ctx, disp, "getReceiptDailyLimit", dailyParams, "getCurrentReceiptTokenBucketState", bucketParams)
}

// GetSwapLimit resolves the swap-leg state on the destination chain.
func (u *LimitUsecase) GetSwapLimit(ctx context.Context, q repositories.SwapLimitQuery, tokenAddress string) (*entities.LimitState, error) {
	if u.query != nil {
		state, err := u.query.SwapLimit(ctx, q)
		if err != nil {
			return nil, err
		}
		if state != nil {
			return state, nil
		}
	}

	disp, _, err := u.legDispatcher(q.ToChainID, q.FromChainID)
	if err != nil {
		return nil, err
	}
	params := u.swapParams(disp, q.SwapID)
	return u.readLeg(ctx, disp, "getSwapDailyLimit", params, "getCurrentSwapTokenBucketState", params)
}

func (u *LimitUsecase) legDispatcher(onChain, otherChain entities.ChainID) (ContractCaller, string, error) {
	contract, ok := u.bridgeContracts[onChain]
	if !ok {
		return nil, "", domainerrors.BadRequest(fmt.Sprintf("no bridge contract configured for chain %s", onChain))
	}
	disp, err := u.dispatchers(contract, onChain, "")
	if err != nil {
		return nil, "", err
	}
	encoded, err := blockchain.EncodeDestChainID(otherChain)
	if err != nil {
		return nil, "", err
	}
	return disp, encoded, nil
}

func (u *LimitUsecase) receiptParams(disp ContractCaller, symbol, tokenAddress, encodedDest string) ([]any, []any) {
	switch disp.ContractType() {
	case entities.ContractTypeELF:
		p := []any{map[string]any{"symbol": symbol, "targetChainId": encodedDest}}
		return p, p
	case entities.ContractTypeTON:
		return nil, nil
	default:
		p := []any{common.HexToAddress(tokenAddress), encodedDest}
		return p, p
	}
}

func (u *LimitUsecase) swapParams(disp ContractCaller, swapID string) []any {
	switch disp.ContractType() {
	case entities.ContractTypeELF:
		return []any{map[string]any{"swapId": swapID}}
	case entities.ContractTypeTON:
		return nil
	default:
		return []any{common.HexToHash(swapID)}
	}
}

// readLeg issues the daily-limit and bucket-state views together and
// normalizes their differing field names. Either call failing fails the leg.
func (u *LimitUsecase) readLeg(ctx context.Context, disp ContractCaller, dailyMethod string, dailyParams []any, bucketMethod string, bucketParams []any) (*entities.LimitState, error) {
	var daily, bucket *entities.CallResult

	p := pool.New().WithErrors()
	p.Go(func() error {
		res, err := disp.CallViewMethod(ctx, dailyMethod, dailyParams)
		if err != nil {
			return err
		}
		daily = res
		return nil
	})
	p.Go(func() error {
		res, err := disp.CallViewMethod(ctx, bucketMethod, bucketParams)
		if err != nil {
			return err
		}
		bucket = res
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	state := &entities.LimitState{}
	var err error
	if state.Remain, err = decimalField(daily, "tokenAmount", "remain"); err != nil {
		return nil, fmt.Errorf("daily limit result: %w", err)
	}
	if state.MaxCapacity, err = decimalField(bucket, "tokenCapacity", "maxCapacity"); err != nil {
		return nil, fmt.Errorf("bucket state result: %w", err)
	}
	if state.CurrentCapacity, err = decimalField(bucket, "currentTokenAmount", "currentCapacity"); err != nil {
		return nil, fmt.Errorf("bucket state result: %w", err)
	}
	if state.FillRate, err = decimalField(bucket, "rate", "fillRate"); err != nil {
		return nil, fmt.Errorf("bucket state result: %w", err)
	}
	state.IsEnable = boolField(bucket, "isEnabled", "isEnable")
	return state, nil
}

func decimalField(res *entities.CallResult, names ...string) (decimal.Decimal, error) {
	for _, name := range names {
		if v := res.Value(name); v != nil {
			return decimalFromAny(v)
		}
	}
	return decimal.Zero, fmt.Errorf("none of %v present", names)
}

func boolField(res *entities.CallResult, names ...string) bool {
	for _, name := range names {
		switch v := res.Value(name).(type) {
		case bool:
			return v
		case string:
			return v == "true"
		case int64:
			return v != 0
		case float64:
			return v != 0
		}
	}
	return false
}

// MergeLimits combines the receipt and swap legs into the effective
// constraint. A disabled leg imposes no capacity constraint of its own: when
// only the swap leg is enabled its maxCapacity is adopted, and a disabled
// receipt leg suppresses both capacity checks outright. Daily remain always
// merges to the minimum of the present legs.
func MergeLimits(receipt, swap *entities.LimitState) *entities.MergedLimit {
	if receipt == nil && swap == nil {
		return nil
	}
	if swap == nil {
		return singleLeg(receipt)
	}
	if receipt == nil {
		return singleLeg(swap)
	}

	merged := &entities.MergedLimit{
		Remain: decimal.Min(receipt.Remain, swap.Remain),
	}
	switch {
	case receipt.IsEnable && swap.IsEnable:
		merged.MaxCapacity = decimal.Min(receipt.MaxCapacity, swap.MaxCapacity)
		merged.CurrentCapacity = decimal.Min(receipt.CurrentCapacity, swap.CurrentCapacity)
		merged.FillRate = decimal.Min(receipt.FillRate, swap.FillRate)
		merged.CheckMaxCapacity = true
		merged.CheckCurrentCapacity = true
	case swap.IsEnable:
		merged.MaxCapacity = swap.MaxCapacity
		merged.CurrentCapacity = swap.CurrentCapacity
		merged.FillRate = swap.FillRate
		merged.CheckMaxCapacity = true
		merged.CheckCurrentCapacity = false
	case receipt.IsEnable:
		merged.MaxCapacity = receipt.MaxCapacity
		merged.CurrentCapacity = receipt.CurrentCapacity
		merged.FillRate = receipt.FillRate
		merged.CheckMaxCapacity = true
		merged.CheckCurrentCapacity = true
	}
	// A disabled receipt leg suppresses both capacity checks even when the
	// swap leg contributed capacity values above.
	if !receipt.IsEnable {
		merged.CheckMaxCapacity = false
		merged.CheckCurrentCapacity = false
	}
	return merged
}

func singleLeg(leg *entities.LimitState) *entities.MergedLimit {
	return &entities.MergedLimit{
		Remain:               leg.Remain,
		MaxCapacity:          leg.MaxCapacity,
		CurrentCapacity:      leg.CurrentCapacity,
		FillRate:             leg.FillRate,
		CheckMaxCapacity:     leg.IsEnable,
		CheckCurrentCapacity: leg.IsEnable,
	}
}

// CheckTransferAllowed enforces the merged constraint against a candidate
// base-unit amount. Checks run in a fixed order: max capacity, current
// capacity, daily remain exhausted, daily remain insufficient.
func CheckTransferAllowed(merged *entities.MergedLimit, amount decimal.Decimal) error {
	if merged == nil {
		return nil
	}
	if merged.CheckMaxCapacity && amount.GreaterThan(merged.MaxCapacity) {
		return capacityError(merged, amount)
	}
	if merged.CheckCurrentCapacity && amount.GreaterThan(merged.CurrentCapacity) {
		return capacityError(merged, amount)
	}
	if merged.Remain.IsZero() {
		return domainerrors.NewAppError(429, "DAILY_LIMIT_REACHED", "daily limit reached, retry after the next refresh", nil)
	}
	if merged.Remain.LessThan(amount) {
		return domainerrors.NewAppError(429, "DAILY_LIMIT_PARTIAL",
			fmt.Sprintf("daily limit partially available, max %s", merged.Remain.String()), nil)
	}
	return nil
}

func capacityError(merged *entities.MergedLimit, amount decimal.Decimal) error {
	return domainerrors.NewAppError(429, "CAPACITY_EXCEEDED",
		fmt.Sprintf("amount exceeds bridge capacity, retry in about %d minute(s)", RefillMinutes(merged, amount)), nil)
}

// RefillMinutes estimates how long the bucket needs to cover the amount:
// (amount - currentCapacity) / fillRate in whole minutes, never below 1.
func RefillMinutes(merged *entities.MergedLimit, amount decimal.Decimal) int64 {
	if merged.FillRate.IsZero() {
		return 1
	}
	minutes := amount.Sub(merged.CurrentCapacity).Div(merged.FillRate).Ceil().IntPart()
	if minutes < 1 {
		return 1
	}
	return minutes
}

// CheckDestinationLiquidity is the final gate: the destination pool must
// hold enough liquidity to release the requested amount.
func (u *LimitUsecase) CheckDestinationLiquidity(ctx context.Context, destChain entities.ChainID, tokenAddress, symbol string, amount *big.Int) error {
	contract, ok := u.bridgeContracts[destChain]
	if !ok {
		return domainerrors.BadRequest(fmt.Sprintf("no bridge contract configured for chain %s", destChain))
	}
	disp, err := u.dispatchers(contract, destChain, "")
	if err != nil {
		return err
	}

	var params []any
	switch disp.ContractType() {
	case entities.ContractTypeELF:
		params = []any{map[string]any{"symbol": symbol}}
	case entities.ContractTypeTON:
		params = nil
	default:
		params = []any{common.HexToAddress(tokenAddress)}
	}
	res, err := disp.CallViewMethod(ctx, "getPoolLiquidity", params)
	if err != nil {
		return err
	}
	liquidity, err := bigFromAny(firstValue(res, "liquidity", "value", "tokenAmount"))
	if err != nil {
		return fmt.Errorf("pool liquidity result: %w", err)
	}
	if liquidity.Cmp(amount) < 0 {
		logger.Warn(ctx, "destination pool lacks liquidity",
			zap.String("chainId", string(destChain)),
			zap.String("symbol", symbol),
			zap.String("liquidity", liquidity.String()),
			zap.String("amount", amount.String()))
		return domainerrors.NewAppError(409, "INSUFFICIENT_LIQUIDITY",
			"destination pool liquidity is insufficient for this amount", nil)
	}
	return nil
}

func firstValue(res *entities.CallResult, names ...string) any {
	for _, name := range names {
		if v := res.Value(name); v != nil {
			return v
		}
	}
	return nil
}
