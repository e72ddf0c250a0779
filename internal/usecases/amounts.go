package usecases

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// MultiplyByDecimals converts a human-entered amount to base units by
// shifting left by the token's decimals and truncating any residue.
func MultiplyByDecimals(amount decimal.Decimal, decimals int) *big.Int {
	return amount.Shift(int32(decimals)).Truncate(0).BigInt()
}

// DivideByDecimals converts base units back to the human representation.
func DivideByDecimals(amount *big.Int, decimals int) decimal.Decimal {
	return decimal.NewFromBigInt(amount, 0).Shift(int32(-decimals))
}

// bigFromAny coerces the loosely-typed values adapters return (ABI big.Ints,
// JSON strings and numbers, account-chain decoded integers) into a big.Int.
func bigFromAny(v any) (*big.Int, error) {
	switch t := v.(type) {
	case *big.Int:
		return new(big.Int).Set(t), nil
	case big.Int:
		return new(big.Int).Set(&t), nil
	case string:
		n, ok := new(big.Int).SetString(t, 10)
		if !ok {
			return nil, fmt.Errorf("value %q is not a base-10 integer", t)
		}
		return n, nil
	case float64:
		return new(big.Int).SetInt64(int64(t)), nil
	case int:
		return big.NewInt(int64(t)), nil
	case int64:
		return big.NewInt(t), nil
	case uint8:
		return big.NewInt(int64(t)), nil
	case uint64:
		return new(big.Int).SetUint64(t), nil
	case decimal.Decimal:
		return t.BigInt(), nil
	case nil:
		return nil, fmt.Errorf("value is missing")
	default:
		return nil, fmt.Errorf("cannot interpret %T as integer", v)
	}
}

// decimalFromAny coerces adapter return values into a decimal.
func decimalFromAny(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case decimal.Decimal:
		return t, nil
	case *big.Int:
		return decimal.NewFromBigInt(t, 0), nil
	case string:
		return decimal.NewFromString(t)
	case float64:
		return decimal.NewFromFloat(t), nil
	case int:
		return decimal.NewFromInt(int64(t)), nil
	case int64:
		return decimal.NewFromInt(t), nil
	case nil:
		return decimal.Zero, fmt.Errorf("value is missing")
	default:
		return decimal.Zero, fmt.Errorf("cannot interpret %T as decimal", v)
	}
}

// intFromAny coerces small integral values such as token decimals.
func intFromAny(v any) (int, error) {
	n, err := bigFromAny(v)
	if err != nil {
		return 0, err
	}
	if !n.IsInt64() {
		return 0, fmt.Errorf("value %s out of int range", n)
	}
	return int(n.Int64()), nil
}
