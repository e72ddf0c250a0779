package blockchain

import (
	"context"
	"math/big"
	"strings"
	"unicode"

	"bridge-kita.backend/internal/domain/entities"
)

// AdapterKind tags the concrete adapter behind a dispatcher. Dispatch
// branches on this tag, never on runtime type introspection.
type AdapterKind string

const (
	KindAccountChain          AdapterKind = "ACCOUNT_CHAIN"
	KindAccountChainDelegated AdapterKind = "ACCOUNT_CHAIN_DELEGATED"
	KindEVM                   AdapterKind = "EVM"
	KindTON                   AdapterKind = "TON"
)

// SendOptions tunes one send call.
type SendOptions struct {
	// Granularity selects broadcast-hash vs full-receipt completion.
	// Defaults to GranularityReceipt when empty.
	Granularity entities.CompletionGranularity
	// NativeAmount is the native-currency value attached to the transaction
	// (TON lock path); nil otherwise.
	NativeAmount *big.Int
}

func (o SendOptions) granularity() entities.CompletionGranularity {
	if o.Granularity == "" {
		return entities.GranularityReceipt
	}
	return o.Granularity
}

// ContractAdapter is the uniform call surface every chain family implements.
// Success values are normalized CallResults; recoverable failures are typed
// errors, with descriptor-resolution failures attributed for the layer above.
type ContractAdapter interface {
	Kind() AdapterKind
	CallView(ctx context.Context, method string, params []any) (*entities.CallResult, error)
	CallSend(ctx context.Context, method, account string, params []any, opts SendOptions) (*entities.CallResult, error)
	// CallSendAsync broadcasts without awaiting any completion; it returns
	// the transaction id when the family produces one at broadcast time.
	CallSendAsync(ctx context.Context, method, account string, params []any, opts SendOptions) (string, error)
}

// ToPascalCase maps a lower-camel call name to the PascalCase descriptor key
// ("crossChainTransfer" -> "CrossChainTransfer").
func ToPascalCase(name string) string {
	if name == "" {
		return name
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// zipParams turns an ordered positional parameter list into the named-field
// structure a method descriptor demands. A lone map parameter is already
// named and passes through; a single-field descriptor absorbs the lone
// element (or, when several were supplied, the whole list).
func zipParams(fields []string, params []any) map[string]any {
	if len(params) == 1 {
		if named, ok := params[0].(map[string]any); ok {
			return named
		}
	}
	named := make(map[string]any, len(fields))
	if len(fields) == 1 {
		if len(params) == 1 {
			named[fields[0]] = params[0]
		} else if len(params) > 1 {
			named[fields[0]] = params
		}
		return named
	}
	for i, field := range fields {
		if i >= len(params) {
			break
		}
		named[field] = params[i]
	}
	return named
}

// containsAnyFold reports whether s contains any of the needles,
// case-insensitively. Used for family-specific denial-message matching.
func containsAnyFold(s string, needles []string) bool {
	lower := strings.ToLower(s)
	for _, n := range needles {
		if strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
