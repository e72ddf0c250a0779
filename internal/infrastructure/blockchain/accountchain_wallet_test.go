package blockchain

import (
	"context"
	"crypto/sha256"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSignerKey = "4f3edf983ac636a65a842ce7c78d9aa706d3b113bce9c46f30d7d21715b23b1d"

func TestAccountChainKeyWalletAddress(t *testing.T) {
	wallet, err := NewAccountChainKeyWallet(testSignerKey)
	require.NoError(t, err)

	addr := wallet.Address()
	require.NotEmpty(t, addr)

	// The textual form must carry a valid checksum and decode back to the
	// double-sha256 of the uncompressed public key.
	raw, err := AccountAddressToBytes(addr)
	require.NoError(t, err)
	require.Len(t, raw, 32)

	key, err := crypto.HexToECDSA(testSignerKey)
	require.NoError(t, err)
	pub := crypto.FromECDSAPub(&key.PublicKey)
	first := sha256.Sum256(pub)
	second := sha256.Sum256(first[:])
	assert.Equal(t, second[:], raw)
}

func TestAccountChainKeyWalletSignTransaction(t *testing.T) {
	wallet, err := NewAccountChainKeyWallet(testSignerKey)
	require.NoError(t, err)

	rawTx := []byte("serialized transaction bytes")
	sig, err := wallet.SignTransaction(context.Background(), rawTx)
	require.NoError(t, err)
	require.Len(t, sig, 65)

	digest := sha256.Sum256(rawTx)
	recovered, err := crypto.SigToPub(digest[:], sig)
	require.NoError(t, err)

	key, err := crypto.HexToECDSA(testSignerKey)
	require.NoError(t, err)
	assert.Equal(t, crypto.FromECDSAPub(&key.PublicKey), crypto.FromECDSAPub(recovered))
}

func TestAccountChainKeyWalletRejectsBadKey(t *testing.T) {
	_, err := NewAccountChainKeyWallet("not-hex")
	require.Error(t, err)
}

func TestPrivateKeyWalletAddressAndOpts(t *testing.T) {
	wallet := NewPrivateKeyWallet(testSignerKey)

	key, err := crypto.HexToECDSA(testSignerKey)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey).Hex(), wallet.Address())

	auth, err := wallet.TransactOpts(context.Background(), big.NewInt(11155111))
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), auth.From)

	bad := NewPrivateKeyWallet("zz")
	assert.Empty(t, bad.Address())
	_, err = bad.TransactOpts(context.Background(), big.NewInt(1))
	require.Error(t, err)
}
