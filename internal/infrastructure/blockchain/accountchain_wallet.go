package blockchain

import (
	"context"
	"crypto/ecdsa"
	"crypto/sha256"

	"github.com/ethereum/go-ethereum/crypto"

	domainerrors "bridge-kita.backend/internal/domain/errors"
)

// AccountChainKeyWallet signs account-chain transactions with a raw secp256k1
// key held by the server. It satisfies repositories.AccountWallet.
type AccountChainKeyWallet struct {
	key *ecdsa.PrivateKey
}

// NewAccountChainKeyWallet parses a hex-encoded secp256k1 private key.
func NewAccountChainKeyWallet(hexKey string) (*AccountChainKeyWallet, error) {
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, domainerrors.BadRequest("invalid signer private key")
	}
	return &AccountChainKeyWallet{key: key}, nil
}

// Address derives the textual account-chain address: the double-sha256 of the
// uncompressed public key, base58-encoded with a checksum.
func (w *AccountChainKeyWallet) Address() string {
	pub := crypto.FromECDSAPub(&w.key.PublicKey)
	first := sha256.Sum256(pub)
	second := sha256.Sum256(first[:])
	return AccountAddressFromBytes(second[:])
}

// SignTransaction produces the 65-byte recoverable signature over the
// sha256 digest of the serialized transaction.
func (w *AccountChainKeyWallet) SignTransaction(ctx context.Context, rawTx []byte) ([]byte, error) {
	digest := sha256.Sum256(rawTx)
	return crypto.Sign(digest[:], w.key)
}
