package blockchain

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/ethereum/go-ethereum/common"

	"bridge-kita.backend/internal/domain/entities"
	domainerrors "bridge-kita.backend/internal/domain/errors"
)

// AccountAddressToBytes decodes an account-chain textual address (base58
// with a 4-byte double-sha256 checksum) into its raw form.
func AccountAddressToBytes(addr string) ([]byte, error) {
	trimmed := strings.TrimSpace(addr)
	raw := base58.Decode(trimmed)
	if len(raw) <= 4 {
		return nil, domainerrors.BadRequest(fmt.Sprintf("invalid account-chain address %q", addr))
	}
	payload, checksum := raw[:len(raw)-4], raw[len(raw)-4:]
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	if !bytes.Equal(second[:4], checksum) {
		return nil, domainerrors.BadRequest(fmt.Sprintf("account-chain address %q fails checksum", addr))
	}
	return payload, nil
}

// AccountAddressFromBytes is the inverse of AccountAddressToBytes.
func AccountAddressFromBytes(raw []byte) string {
	first := sha256.Sum256(raw)
	second := sha256.Sum256(first[:])
	return base58.Encode(append(append([]byte{}, raw...), second[:4]...))
}

// FormatDestAddress transcodes a recipient address into the form the origin
// chain's bridge contract expects for the given destination family.
//
// EVM destinations take the hex form as-is; account-chain destinations are
// reformatted from the textual base58 representation to 0x-prefixed hex of
// the base58-decoded bytes.
func FormatDestAddress(destChain entities.ChainID, addr string) (string, error) {
	switch FamilyOf(destChain) {
	case entities.FamilyEVM:
		if common.IsHexAddress(addr) {
			return addr, nil
		}
		raw := base58.Decode(strings.TrimSpace(addr))
		if len(raw) == 0 {
			return "", domainerrors.BadRequest(fmt.Sprintf("address %q is neither hex nor base58", addr))
		}
		return "0x" + hex.EncodeToString(raw), nil
	case entities.FamilyAccountChain:
		raw, err := AccountAddressToBytes(addr)
		if err != nil {
			return "", err
		}
		return "0x" + hex.EncodeToString(raw), nil
	default:
		// TON destinations keep the wallet-provided form.
		return addr, nil
	}
}
