package usecases

import (
	"context"

	"bridge-kita.backend/internal/domain/entities"
	"bridge-kita.backend/internal/infrastructure/blockchain"
)

// ContractCaller is the dispatcher surface the orchestrators depend on.
// *blockchain.Dispatcher satisfies it; tests substitute mocks.
type ContractCaller interface {
	ContractType() entities.ContractType
	CallViewMethod(ctx context.Context, method string, params []any) (*entities.CallResult, error)
	CallSendMethod(ctx context.Context, method, account string, params []any, opts blockchain.SendOptions) (*entities.CallResult, error)
	CallSendPromiseMethod(ctx context.Context, method, account string, params []any, opts blockchain.SendOptions) (string, error)
}

// DispatcherProvider resolves the caller for a contract on a chain, bound to
// the requesting account. Production wiring backs it with the DispatcherPool.
type DispatcherProvider func(contractAddress string, chainID entities.ChainID, account string) (ContractCaller, error)

// PoolProvider adapts a DispatcherPool to the DispatcherProvider shape.
func PoolProvider(pool *blockchain.DispatcherPool) DispatcherProvider {
	return func(contractAddress string, chainID entities.ChainID, account string) (ContractCaller, error) {
		return pool.Get(contractAddress, chainID, account)
	}
}
