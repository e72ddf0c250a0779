package blockchain

import (
	"encoding/binary"
	"fmt"

	"bridge-kita.backend/internal/domain/entities"
	domainerrors "bridge-kita.backend/internal/domain/errors"
	"github.com/btcsuite/btcutil/base58"
)

// Account-chain shard codes. The main chain and its side chains share one
// contract model; everything here classifies as FamilyAccountChain.
var accountChainIDs = map[entities.ChainID]struct{}{
	"AELF": {},
	"tDVV": {},
	"tDVW": {},
}

// TON network ids.
var tonChainIDs = map[entities.ChainID]struct{}{
	"1100": {},
	"2000": {},
}

// bridgeCodes maps a display chain id to the canonical identifier the bridge
// contracts embed in cross-chain payloads. Account chains use their shard
// code; other families use codes registered on the bridge contracts.
var bridgeCodes = map[entities.ChainID]string{
	"AELF":     "AELF",
	"tDVV":     "tDVV",
	"tDVW":     "tDVW",
	"1":        "Ethereum",
	"11155111": "Sepolia",
	"56":       "BSC",
	"97":       "BSCTest",
	"8453":     "Base",
	"84532":    "BaseSepolia",
	"1100":     "Ton",
	"2000":     "TonTest",
}

// FamilyOf classifies a chain id into its contract-invocation family.
// Unknown and empty ids deliberately classify as EVM: call sites ask with
// possibly-unset ids before a wallet connects, and the EVM family is the
// documented default, not an accidental fallthrough.
func FamilyOf(chainID entities.ChainID) entities.ChainFamily {
	if _, ok := accountChainIDs[chainID]; ok {
		return entities.FamilyAccountChain
	}
	if _, ok := tonChainIDs[chainID]; ok {
		return entities.FamilyTON
	}
	return entities.FamilyEVM
}

// ContractTypeOf maps a chain family to the dispatcher's public classification.
func ContractTypeOf(chainID entities.ChainID) entities.ContractType {
	switch FamilyOf(chainID) {
	case entities.FamilyAccountChain:
		return entities.ContractTypeELF
	case entities.FamilyTON:
		return entities.ContractTypeTON
	default:
		return entities.ContractTypeERC
	}
}

// EncodeDestChainID converts a display chain id to the canonical bridge code
// used inside cross-chain payloads. This conversion must happen exactly once,
// immediately before the contract call.
func EncodeDestChainID(chainID entities.ChainID) (string, error) {
	code, ok := bridgeCodes[chainID]
	if !ok {
		return "", domainerrors.BadRequest(fmt.Sprintf("no bridge code registered for chain %s", chainID))
	}
	return code, nil
}

// ConvertBase58ToChainID decodes an account-chain shard code into its
// numeric on-chain form: the base58 payload interpreted little-endian.
func ConvertBase58ToChainID(code string) (int32, error) {
	raw := base58.Decode(code)
	if len(raw) == 0 || len(raw) > 4 {
		return 0, domainerrors.BadRequest(fmt.Sprintf("invalid account-chain code %q", code))
	}
	var buf [4]byte
	copy(buf[:], raw)
	return int32(binary.LittleEndian.Uint32(buf[:])), nil
}

// ConvertChainIDToBase58 is the inverse of ConvertBase58ToChainID.
func ConvertChainIDToBase58(id int32) string {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(id))
	end := 4
	for end > 1 && buf[end-1] == 0 {
		end--
	}
	return base58.Encode(buf[:end])
}

// DestChainIntID resolves the numeric chain id embedded in homogeneous
// account-chain transfers and in TON message payloads. Only account-chain
// destinations carry a numeric form.
func DestChainIntID(chainID entities.ChainID) (int32, error) {
	if FamilyOf(chainID) != entities.FamilyAccountChain {
		return 0, domainerrors.BadRequest(fmt.Sprintf("chain %s has no numeric account-chain id", chainID))
	}
	return ConvertBase58ToChainID(string(chainID))
}
