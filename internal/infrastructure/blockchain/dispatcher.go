package blockchain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"bridge-kita.backend/internal/domain/entities"
	domainerrors "bridge-kita.backend/internal/domain/errors"
	"bridge-kita.backend/internal/domain/repositories"
)

// DispatcherDeps bundles everything adapter construction needs. Wallet
// fields may be nil; the resulting dispatchers then serve views only.
type DispatcherDeps struct {
	Descriptors *DescriptorCache
	Clients     *ClientFactory
	// RPCURLs maps every supported chain to its default node endpoint,
	// independent of wallet connection.
	RPCURLs map[entities.ChainID]string

	AccountWallet repositories.AccountWallet
	// DelegatedWallet, when present, routes account-chain sends through the
	// relay path instead of the direct session.
	DelegatedWallet repositories.DelegatedWallet
	Guardians       repositories.GuardianApprovalService
	// CanonicalTokenContract is the account-chain token contract whose
	// approve requires guardian attestation under delegated wallets.
	CanonicalTokenContract string

	EVMWallet EVMWallet
	EVMABIs   *abiRegistry

	TONReader    TONReader
	TONConnector repositories.TONConnector
}

// RegisterEVMABI registers a contract-specific ABI for an address.
func (d *DispatcherDeps) RegisterEVMABI(address string, parsed abi.ABI) {
	if d.EVMABIs == nil {
		d.EVMABIs = newABIRegistry(FallbackEVMABI)
	}
	d.EVMABIs.register(address, parsed)
}

// Dispatcher is the uniform contract handle the rest of the application
// uses. It selects exactly one adapter at construction time, tagged by
// AdapterKind; the selection is immutable, changing chain means
// constructing a new dispatcher.
type Dispatcher struct {
	contractAddress string
	chainID         entities.ChainID
	contractType    entities.ContractType
	kind            AdapterKind
	adapter         ContractAdapter
}

// NewDispatcher builds a dispatcher for a contract on a chain.
func NewDispatcher(contractAddress string, chainID entities.ChainID, deps DispatcherDeps) (*Dispatcher, error) {
	if contractAddress == "" {
		return nil, domainerrors.BadRequest("contract address is required")
	}

	var adapter ContractAdapter
	switch FamilyOf(chainID) {
	case entities.FamilyAccountChain:
		node, err := deps.aelfNode(chainID)
		if err != nil {
			return nil, err
		}
		direct := NewAccountChainAdapter(chainID, contractAddress, node, node, deps.AccountWallet, deps.Descriptors)
		if deps.DelegatedWallet != nil {
			adapter = NewDelegatedAdapter(direct, deps.DelegatedWallet, deps.Guardians, deps.CanonicalTokenContract)
		} else {
			adapter = direct
		}

	case entities.FamilyTON:
		adapter = NewTONAdapter(chainID, contractAddress, deps.TONReader, deps.TONConnector)

	default:
		rpcURL, ok := deps.RPCURLs[chainID]
		if !ok {
			return nil, domainerrors.BadRequest(fmt.Sprintf("no RPC endpoint configured for chain %s", chainID))
		}
		client, err := deps.Clients.GetEVMClient(rpcURL)
		if err != nil {
			return nil, err
		}
		registry := deps.EVMABIs
		if registry == nil {
			registry = newABIRegistry(FallbackEVMABI)
		}
		adapter = NewEVMAdapter(chainID, contractAddress, registry.resolve(contractAddress), client, client, deps.EVMWallet)
	}

	return &Dispatcher{
		contractAddress: contractAddress,
		chainID:         chainID,
		contractType:    ContractTypeOf(chainID),
		kind:            adapter.Kind(),
		adapter:         adapter,
	}, nil
}

func (deps *DispatcherDeps) aelfNode(chainID entities.ChainID) (*AelfClient, error) {
	rpcURL, ok := deps.RPCURLs[chainID]
	if !ok {
		return nil, domainerrors.BadRequest(fmt.Sprintf("no RPC endpoint configured for chain %s", chainID))
	}
	if node, ok := deps.Clients.GetAelfClient(rpcURL); ok {
		return node, nil
	}
	return nil, domainerrors.BadRequest(fmt.Sprintf("no account-chain node registered for %s", rpcURL))
}

// ContractType is the public classification clients branch on.
func (d *Dispatcher) ContractType() entities.ContractType {
	return d.contractType
}

// ChainID returns the chain the dispatcher is bound to.
func (d *Dispatcher) ChainID() entities.ChainID {
	return d.chainID
}

// Address returns the contract address the dispatcher is bound to.
func (d *Dispatcher) Address() string {
	return d.contractAddress
}

// Kind exposes the selected adapter variant.
func (d *Dispatcher) Kind() AdapterKind {
	return d.kind
}

// CallViewMethod issues a read-only call.
func (d *Dispatcher) CallViewMethod(ctx context.Context, method string, params []any) (*entities.CallResult, error) {
	result, err := d.adapter.CallView(ctx, method, params)
	observeCall(string(d.contractType), method, "view", err)
	return result, err
}

// CallSendMethod issues a state-changing call and resolves per the
// requested completion granularity.
func (d *Dispatcher) CallSendMethod(ctx context.Context, method, account string, params []any, opts SendOptions) (*entities.CallResult, error) {
	result, err := d.adapter.CallSend(ctx, method, account, params, opts)
	observeCall(string(d.contractType), method, "send", err)
	return result, err
}

// CallSendPromiseMethod broadcasts without awaiting completion.
func (d *Dispatcher) CallSendPromiseMethod(ctx context.Context, method, account string, params []any, opts SendOptions) (string, error) {
	txID, err := d.adapter.CallSendAsync(ctx, method, account, params, opts)
	observeCall(string(d.contractType), method, "send_async", err)
	return txID, err
}

// EncodedTx returns the raw unsigned transaction for a method call.
// Account-chain families only.
func (d *Dispatcher) EncodedTx(ctx context.Context, method string, params []any) ([]byte, error) {
	switch d.kind {
	case KindAccountChain:
		return d.adapter.(*AccountChainAdapter).EncodeTransaction(ctx, method, params)
	case KindAccountChainDelegated:
		return d.adapter.(*DelegatedAdapter).EncodeTransaction(ctx, method, params)
	default:
		return nil, domainerrors.BadRequest(fmt.Sprintf("encodedTx is not supported on %s contracts", d.contractType))
	}
}
