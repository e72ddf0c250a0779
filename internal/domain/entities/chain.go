package entities

// ChainFamily classifies how a chain's contracts are invoked
type ChainFamily string

const (
	FamilyAccountChain ChainFamily = "ACCOUNT_CHAIN"
	FamilyEVM          ChainFamily = "EVM"
	FamilyTON          ChainFamily = "TON"
)

// ContractType is the public classification a dispatcher exposes to callers
// that need family-specific branching (address formatting, parameter shapes).
type ContractType string

const (
	ContractTypeELF ContractType = "ELF"
	ContractTypeERC ContractType = "ERC"
	ContractTypeTON ContractType = "TON"
)

// ChainID identifies a chain: a numeric EVM chain id ("11155111"), a short
// account-chain shard code ("AELF", "tDVV") or a numeric TON network id.
type ChainID string

func (c ChainID) String() string {
	return string(c)
}

// Chain represents a supported chain and its node endpoint
type Chain struct {
	ID          ChainID     `json:"id"`
	Name        string      `json:"name"`
	Family      ChainFamily `json:"family"`
	RPCURL      string      `json:"rpcUrl"`
	ExplorerURL string      `json:"explorerUrl,omitempty"`
	// BridgeCode is the canonical identifier the bridge contracts use for this
	// chain inside cross-chain payloads. For account chains it equals the
	// shard code; other families have registered codes.
	BridgeCode string `json:"bridgeCode,omitempty"`
	IsActive   bool   `json:"isActive"`
}
