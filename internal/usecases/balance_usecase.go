package usecases

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"bridge-kita.backend/internal/domain/entities"
	domainerrors "bridge-kita.backend/internal/domain/errors"
	"bridge-kita.backend/internal/domain/repositories"
)

// Balance pairs the raw base-unit value with its human representation.
type Balance struct {
	Symbol   string          `json:"symbol"`
	Raw      *big.Int        `json:"raw"`
	Amount   decimal.Decimal `json:"amount"`
	Decimals int             `json:"decimals"`
}

// BalanceUsecase reads token balances through the view path so they work
// without a connected wallet.
type BalanceUsecase struct {
	dispatchers DispatcherProvider
	tokens      repositories.TokenRepository
}

func NewBalanceUsecase(dispatchers DispatcherProvider, tokens repositories.TokenRepository) *BalanceUsecase {
	return &BalanceUsecase{dispatchers: dispatchers, tokens: tokens}
}

// GetBalance returns owner's balance of a registered token.
func (u *BalanceUsecase) GetBalance(ctx context.Context, chainID entities.ChainID, symbol, owner string) (*Balance, error) {
	token, err := u.tokens.GetBySymbol(ctx, chainID, symbol)
	if err != nil {
		return nil, domainerrors.NotFound(fmt.Sprintf("token %s is not registered on chain %s", symbol, chainID))
	}
	if !token.KnownDecimals() {
		return nil, domainerrors.MissingDecimals(symbol, string(chainID))
	}

	disp, err := u.dispatchers(token.Address, chainID, "")
	if err != nil {
		return nil, err
	}

	var res *entities.CallResult
	switch disp.ContractType() {
	case entities.ContractTypeELF:
		res, err = disp.CallViewMethod(ctx, "getBalance", []any{map[string]any{
			"symbol": symbol,
			"owner":  owner,
		}})
	case entities.ContractTypeTON:
		res, err = disp.CallViewMethod(ctx, "getBalance", nil)
	default:
		res, err = disp.CallViewMethod(ctx, "balanceOf", []any{common.HexToAddress(owner)})
	}
	if err != nil {
		return nil, err
	}

	raw, convErr := bigFromAny(firstValue(res, "balance", "value", "stack_0"))
	if convErr != nil {
		return nil, fmt.Errorf("balance result: %w", convErr)
	}
	decimals := int(token.Decimals.Int)
	return &Balance{
		Symbol:   symbol,
		Raw:      raw,
		Amount:   DivideByDecimals(raw, decimals),
		Decimals: decimals,
	}, nil
}
