package repositories

import (
	"context"
	"math/big"
)

// AccountWallet is a connected account-chain signing session.
type AccountWallet interface {
	Address() string
	// SignTransaction signs a fully-encoded raw transaction and returns the
	// signed bytes ready for broadcast.
	SignTransaction(ctx context.Context, rawTx []byte) ([]byte, error)
}

// DelegatedWallet routes account-chain sends through a third-party
// signing/relay service instead of a direct session.
type DelegatedWallet interface {
	Address() string
	// CallSendMethod encodes, signs and broadcasts through the relay,
	// returning the transaction id.
	CallSendMethod(ctx context.Context, contractAddress, method string, params map[string]any) (string, error)
}

// GuardianApprovalService produces the multi-party attestation bundle the
// canonical token contract's approve path requires under delegated wallets.
type GuardianApprovalService interface {
	RequestApproval(ctx context.Context, owner, spender string, amount *big.Int, symbol string) (*GuardianBundle, error)
}

// GuardianBundle is a guardian-approved signature set attached to a
// delegated approve call.
type GuardianBundle struct {
	Signatures [][]byte
	Guardians  []string
	ExpiresAt  int64
}

// TONMessage is one outgoing TON internal message: a BOC-encoded body plus
// the native amount it carries.
type TONMessage struct {
	To     string
	Amount *big.Int
	// Payload is the BOC-serialized message body.
	Payload []byte
	// StateInit is optional deploy data, BOC-serialized.
	StateInit []byte
}

// TONConnector is a connected TON wallet's transaction-sending capability.
// SendTransaction returns the signed external message BOC; the transaction
// id is derived by hashing it.
type TONConnector interface {
	Address() string
	SendTransaction(ctx context.Context, msg TONMessage) ([]byte, error)
}
