package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	"bridge-kita.backend/internal/domain/entities"
	domainerrors "bridge-kita.backend/internal/domain/errors"
	"bridge-kita.backend/pkg/logger"
	"go.uber.org/zap"
)

// gasPriceBumpNum/Den apply the 15% safety multiplier on suggested gas price.
const (
	gasPriceBumpNum = 115
	gasPriceBumpDen = 100
)

// evmDenialMarkers are the provider-specific rejection substrings.
var evmDenialMarkers = []string{
	"user denied transaction signature",
	"user rejected",
}

// EVMWallet supplies the signing capability for EVM sends.
type EVMWallet interface {
	Address() string
	TransactOpts(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error)
}

// PrivateKeyWallet is an EVMWallet backed by a raw hex private key.
type PrivateKeyWallet struct {
	hexKey string
}

func NewPrivateKeyWallet(hexKey string) *PrivateKeyWallet {
	return &PrivateKeyWallet{hexKey: hexKey}
}

func (w *PrivateKeyWallet) Address() string {
	key, err := crypto.HexToECDSA(w.hexKey)
	if err != nil {
		return ""
	}
	return crypto.PubkeyToAddress(key.PublicKey).Hex()
}

func (w *PrivateKeyWallet) TransactOpts(ctx context.Context, chainID *big.Int) (*bind.TransactOpts, error) {
	key, err := crypto.HexToECDSA(w.hexKey)
	if err != nil {
		return nil, domainerrors.BadRequest("invalid signer private key")
	}
	auth, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, err
	}
	auth.Context = ctx
	return auth, nil
}

// transactContract is a seam for unit tests; production sends go through the
// bound contract.
var transactContract = func(client *EVMClient, address common.Address, parsedABI abi.ABI, auth *bind.TransactOpts, method string, args ...any) (*types.Transaction, error) {
	contract := bind.NewBoundContract(address, parsedABI, client.Backend(), client.Backend(), client.Backend())
	return contract.Transact(auth, method, args...)
}

// waitMined is a seam for unit tests around receipt waiting.
var waitMined = func(ctx context.Context, client *EVMClient, tx *types.Transaction) (*types.Receipt, error) {
	return bind.WaitMined(ctx, client.Backend(), tx)
}

// EVMAdapter invokes EVM contracts through ABI-encoded calls. It keeps a
// writable client (requires a signing provider) and an always-available
// read-only client on the chain's default RPC, so view calls work before a
// wallet connects.
type EVMAdapter struct {
	chainID    entities.ChainID
	address    common.Address
	parsedABI  abi.ABI
	client     *EVMClient
	readClient *EVMClient
	wallet     EVMWallet
}

// NewEVMAdapter creates an EVM adapter. client and wallet may be nil; views
// then run on readClient and sends fail with a wallet-not-connected error.
func NewEVMAdapter(
	chainID entities.ChainID,
	contractAddress string,
	parsedABI abi.ABI,
	client *EVMClient,
	readClient *EVMClient,
	wallet EVMWallet,
) *EVMAdapter {
	if readClient == nil {
		readClient = client
	}
	return &EVMAdapter{
		chainID:    chainID,
		address:    common.HexToAddress(contractAddress),
		parsedABI:  parsedABI,
		client:     client,
		readClient: readClient,
		wallet:     wallet,
	}
}

func (a *EVMAdapter) Kind() AdapterKind {
	return KindEVM
}

func (a *EVMAdapter) CallView(ctx context.Context, method string, params []any) (*entities.CallResult, error) {
	data, err := a.parsedABI.Pack(method, params...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	out, err := a.readClient.CallView(ctx, a.address.Hex(), data)
	if err != nil {
		return nil, fmt.Errorf("view %s on %s: %w", method, a.address.Hex(), err)
	}
	vals, err := a.parsedABI.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("decode %s result: %w", method, err)
	}
	return &entities.CallResult{Data: namedOutputs(a.parsedABI, method, vals)}, nil
}

func (a *EVMAdapter) CallSend(ctx context.Context, method, account string, params []any, opts SendOptions) (*entities.CallResult, error) {
	tx, err := a.transact(ctx, method, params, opts)
	if err != nil {
		return nil, err
	}
	txHash := tx.Hash().Hex()
	if opts.granularity() == entities.GranularityTransactionHash {
		return &entities.CallResult{TransactionID: txHash}, nil
	}

	receipt, err := waitMined(ctx, a.client, tx)
	if err != nil {
		return nil, fmt.Errorf("await %s receipt: %w", method, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, domainerrors.TransactionFailed(txHash, "reverted")
	}
	// Downstream code relies on a uniform TransactionId field regardless of
	// completion granularity.
	return &entities.CallResult{
		TransactionID: txHash,
		Status:        "MINED",
		Data: map[string]any{
			"transactionHash": txHash,
			"blockNumber":     receipt.BlockNumber.String(),
			"gasUsed":         strconv.FormatUint(receipt.GasUsed, 10),
			"TransactionId":   txHash,
		},
	}, nil
}

func (a *EVMAdapter) CallSendAsync(ctx context.Context, method, account string, params []any, opts SendOptions) (string, error) {
	tx, err := a.transact(ctx, method, params, opts)
	if err != nil {
		return "", err
	}
	return tx.Hash().Hex(), nil
}

func (a *EVMAdapter) transact(ctx context.Context, method string, params []any, opts SendOptions) (*types.Transaction, error) {
	if a.wallet == nil || a.client == nil {
		return nil, domainerrors.WalletNotConnected("EVM")
	}
	auth, err := a.wallet.TransactOpts(ctx, a.client.ChainID())
	if err != nil {
		return nil, err
	}
	gasPrice, err := a.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("gas price for %s: %w", method, err)
	}
	auth.GasPrice = new(big.Int).Div(new(big.Int).Mul(gasPrice, big.NewInt(gasPriceBumpNum)), big.NewInt(gasPriceBumpDen))
	if opts.NativeAmount != nil {
		auth.Value = opts.NativeAmount
	}

	tx, err := transactContract(a.client, a.address, a.parsedABI, auth, method, params...)
	if err != nil {
		if containsAnyFold(err.Error(), evmDenialMarkers) {
			return nil, domainerrors.UserDenied(err.Error())
		}
		return nil, fmt.Errorf("send %s on %s: %w", method, a.address.Hex(), err)
	}
	logger.Debug(ctx, "evm transaction broadcast",
		zap.String("method", method), zap.String("contract", a.address.Hex()), zap.String("txId", tx.Hash().Hex()))
	return tx, nil
}

// namedOutputs maps unpacked return values onto the ABI's declared output
// names; unnamed outputs fall back to positional keys, single unnamed
// results to "value".
func namedOutputs(parsedABI abi.ABI, method string, vals []any) map[string]any {
	out := make(map[string]any, len(vals))
	m, ok := parsedABI.Methods[method]
	if !ok {
		for i, v := range vals {
			out[strconv.Itoa(i)] = v
		}
		return out
	}
	if len(vals) == 1 {
		name := "value"
		if len(m.Outputs) == 1 && m.Outputs[0].Name != "" {
			name = m.Outputs[0].Name
		}
		out[name] = vals[0]
		return out
	}
	for i, v := range vals {
		name := strconv.Itoa(i)
		if i < len(m.Outputs) && m.Outputs[i].Name != "" {
			name = m.Outputs[i].Name
		}
		out[name] = v
	}
	return out
}
