package usecases

import (
	"context"
	"math"
	"math/big"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"bridge-kita.backend/internal/domain/entities"
	domainerrors "bridge-kita.backend/internal/domain/errors"
	"bridge-kita.backend/internal/infrastructure/blockchain"
	"bridge-kita.backend/pkg/logger"
)

// ApprovalStatus is the terminal outcome of one approval run.
type ApprovalStatus string

const (
	ApprovalSuccess    ApprovalStatus = "SUCCESS"
	ApprovalUserDenied ApprovalStatus = "USER_DENIED"
	ApprovalFailed     ApprovalStatus = "FAILED"
)

// maxUint256 is the unlimited-approval sentinel on EVM chains.
var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// ApprovalInput describes one allowance requirement.
type ApprovalInput struct {
	ChainID entities.ChainID
	// TokenContract is the token's contract address. On account chains this
	// is the multi-token contract; Symbol selects the token.
	TokenContract string
	Symbol        string
	Owner         string
	Spender       string
	// Amount is the explicit threshold in base units. When nil the threshold
	// is PivotMultiplier x 10^decimals.
	Amount *big.Int
	// PivotMultiplier defaults to 1 when Amount is nil.
	PivotMultiplier int64
}

// ApprovalOutcome reports how an approval run ended. Err carries the
// underlying failure for the non-success statuses.
type ApprovalOutcome struct {
	Status        ApprovalStatus
	TransactionID string
	Err           error
}

// ApprovalUsecase reads allowances and issues unlimited approvals when the
// current allowance falls short.
type ApprovalUsecase struct {
	dispatchers DispatcherProvider
}

func NewApprovalUsecase(dispatchers DispatcherProvider) *ApprovalUsecase {
	return &ApprovalUsecase{dispatchers: dispatchers}
}

// EnsureApproval guarantees spender can move at least the threshold amount
// of the token. When the existing allowance suffices no transaction is
// submitted. A denial by the wallet is reported distinctly so callers never
// auto-retry it.
func (u *ApprovalUsecase) EnsureApproval(ctx context.Context, in ApprovalInput) (ApprovalOutcome, error) {
	if in.TokenContract == "" {
		return ApprovalOutcome{}, domainerrors.BadRequest("token contract address is required")
	}
	disp, err := u.dispatchers(in.TokenContract, in.ChainID, in.Owner)
	if err != nil {
		return ApprovalOutcome{}, err
	}

	allowance, decimals, err := u.readAllowanceAndDecimals(ctx, disp, in)
	if err != nil {
		return ApprovalOutcome{}, err
	}

	threshold := in.Amount
	if threshold == nil {
		multiplier := in.PivotMultiplier
		if multiplier <= 0 {
			multiplier = 1
		}
		threshold = new(big.Int).Mul(
			big.NewInt(multiplier),
			new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil),
		)
	}

	if allowance.Cmp(threshold) >= 0 {
		logger.Debug(ctx, "allowance already sufficient",
			zap.String("chainId", string(in.ChainID)),
			zap.String("symbol", in.Symbol),
			zap.String("allowance", allowance.String()))
		return ApprovalOutcome{Status: ApprovalSuccess}, nil
	}

	result, err := u.submitApprove(ctx, disp, in)
	if err != nil {
		if domainerrors.ClassOf(err) == domainerrors.ClassUserDenied {
			return ApprovalOutcome{Status: ApprovalUserDenied, Err: err}, nil
		}
		return ApprovalOutcome{Status: ApprovalFailed, Err: err}, nil
	}
	return ApprovalOutcome{Status: ApprovalSuccess, TransactionID: result.TransactionID}, nil
}

// readAllowanceAndDecimals issues the two view calls together.
func (u *ApprovalUsecase) readAllowanceAndDecimals(ctx context.Context, disp ContractCaller, in ApprovalInput) (*big.Int, int, error) {
	var (
		allowance *big.Int
		decimals  int
	)

	p := pool.New().WithErrors()
	p.Go(func() error {
		v, err := u.readAllowance(ctx, disp, in)
		if err != nil {
			return err
		}
		allowance = v
		return nil
	})
	p.Go(func() error {
		v, err := u.readDecimals(ctx, disp, in)
		if err != nil {
			return err
		}
		decimals = v
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, 0, err
	}
	return allowance, decimals, nil
}

func (u *ApprovalUsecase) readAllowance(ctx context.Context, disp ContractCaller, in ApprovalInput) (*big.Int, error) {
	var (
		res *entities.CallResult
		err error
	)
	if disp.ContractType() == entities.ContractTypeELF {
		res, err = disp.CallViewMethod(ctx, "getAllowance", []any{map[string]any{
			"symbol":  in.Symbol,
			"owner":   in.Owner,
			"spender": in.Spender,
		}})
	} else {
		res, err = disp.CallViewMethod(ctx, "allowance", []any{in.Owner, in.Spender})
	}
	if err != nil {
		return nil, err
	}

	v := res.Value("allowance")
	if v == nil {
		v = res.Value("value")
	}
	n, convErr := bigFromAny(v)
	if convErr != nil {
		// An absent allowance field means no prior approval.
		return big.NewInt(0), nil
	}
	return n, nil
}

func (u *ApprovalUsecase) readDecimals(ctx context.Context, disp ContractCaller, in ApprovalInput) (int, error) {
	var (
		res *entities.CallResult
		err error
	)
	if disp.ContractType() == entities.ContractTypeELF {
		res, err = disp.CallViewMethod(ctx, "getTokenInfo", []any{map[string]any{"symbol": in.Symbol}})
	} else {
		res, err = disp.CallViewMethod(ctx, "decimals", nil)
	}
	if err != nil {
		return 0, err
	}

	v := res.Value("decimals")
	if v == nil {
		v = res.Value("value")
	}
	d, convErr := intFromAny(v)
	if convErr != nil {
		return 0, domainerrors.MissingDecimals(in.Symbol, string(in.ChainID))
	}
	return d, nil
}

// submitApprove issues one approve for the family's maximal sentinel: the
// full uint256 range on EVM, the int64 range on account chains.
func (u *ApprovalUsecase) submitApprove(ctx context.Context, disp ContractCaller, in ApprovalInput) (*entities.CallResult, error) {
	var params []any
	if disp.ContractType() == entities.ContractTypeELF {
		params = []any{map[string]any{
			"spender": in.Spender,
			"symbol":  in.Symbol,
			"amount":  big.NewInt(math.MaxInt64).String(),
		}}
	} else {
		params = []any{in.Spender, maxUint256}
	}

	logger.Info(ctx, "submitting unlimited approval",
		zap.String("chainId", string(in.ChainID)),
		zap.String("symbol", in.Symbol),
		zap.String("spender", in.Spender))
	return disp.CallSendMethod(ctx, "approve", in.Owner, params, blockchain.SendOptions{})
}
