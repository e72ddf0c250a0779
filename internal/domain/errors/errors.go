package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnsupportedChain   = errors.New("unsupported chain")
	ErrUnsupportedToken   = errors.New("unsupported token")
	ErrMissingDecimals    = errors.New("token decimals unknown")
	ErrWalletNotConnected = errors.New("wallet not connected")
	ErrPollingExhausted   = errors.New("transaction polling retries exhausted")
)

// Class partitions failures by how callers must react: transient conditions
// are retried, terminal ones surfaced, user denials never auto-retried, and
// configuration problems are developer-facing.
type Class string

const (
	ClassTransient     Class = "TRANSIENT"
	ClassTerminal      Class = "TERMINAL"
	ClassUserDenied    Class = "USER_DENIED"
	ClassConfiguration Class = "CONFIGURATION"
	ClassApproval      Class = "APPROVAL"
)

// AppError represents an application error with HTTP status and failure class
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Class   Class  `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, "NOT_FOUND", message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, "BAD_REQUEST", message, ErrInvalidInput)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "INTERNAL", "internal server error", err)
}

// TransactionFailed marks a contract-level terminal failure (revert,
// assertion, NotExisted after polling).
func TransactionFailed(txID, message string) *AppError {
	e := NewAppError(http.StatusBadGateway, "TX_FAILED", fmt.Sprintf("transaction %s failed: %s", txID, message), nil)
	e.Class = ClassTerminal
	return e
}

// TransactionStatus marks an unrecognized terminal transaction status.
func TransactionStatus(status string) *AppError {
	e := NewAppError(http.StatusBadGateway, "TX_STATUS", "Transaction: "+status, nil)
	e.Class = ClassTerminal
	return e
}

// UserDenied marks a wallet signature rejection; never auto-retried.
func UserDenied(message string) *AppError {
	e := NewAppError(http.StatusConflict, "USER_DENIED", message, nil)
	e.Class = ClassUserDenied
	return e
}

// DescriptorUnresolvable marks a method-descriptor resolution failure. The
// message must attribute: chain id, contract address and originating call.
func DescriptorUnresolvable(chainID, address, method string, err error) *AppError {
	e := NewAppError(http.StatusInternalServerError, "DESCRIPTOR_UNRESOLVABLE",
		fmt.Sprintf("cannot resolve method %q on contract %s (chain %s)", method, address, chainID), err)
	e.Class = ClassConfiguration
	return e
}

// WalletNotConnected marks a send attempted without a signing capability.
func WalletNotConnected(family string) *AppError {
	e := NewAppError(http.StatusBadRequest, "WALLET_NOT_CONNECTED",
		family+" wallet is not connected", ErrWalletNotConnected)
	e.Class = ClassConfiguration
	return e
}

// MissingDecimals marks an amount-bearing call on a token with unknown decimals.
func MissingDecimals(symbol string, chainID string) *AppError {
	e := NewAppError(http.StatusInternalServerError, "MISSING_DECIMALS",
		fmt.Sprintf("decimals unknown for token %s on chain %s", symbol, chainID), ErrMissingDecimals)
	e.Class = ClassConfiguration
	return e
}

// ApprovalAborted wraps a non-success approval outcome that aborts a transfer.
func ApprovalAborted(symbol string, err error) *AppError {
	e := NewAppError(http.StatusConflict, "APPROVAL_ABORTED",
		"approval for "+symbol+" did not succeed", err)
	e.Class = ClassApproval
	return e
}

// PollingExhausted marks a send whose status never went terminal within the
// configured retry ceiling.
func PollingExhausted(txID string, attempts int) *AppError {
	e := NewAppError(http.StatusGatewayTimeout, "POLLING_EXHAUSTED",
		fmt.Sprintf("transaction %s still pending after %d polls", txID, attempts), ErrPollingExhausted)
	e.Class = ClassTerminal
	return e
}

// ClassOf extracts the failure class, defaulting to terminal.
func ClassOf(err error) Class {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Class != "" {
		return appErr.Class
	}
	return ClassTerminal
}
