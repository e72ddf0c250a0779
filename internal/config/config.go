package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Bridge     BridgeConfig
	Contracts  ContractsConfig
	Blockchain BlockchainConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// BridgeConfig holds cross-chain bridge tuning values
type BridgeConfig struct {
	// LimitServiceURL serves daily-limit and token-bucket state.
	LimitServiceURL string
	// PollInterval is the delay between transaction-result polls.
	PollInterval time.Duration
	// PollCeiling bounds transaction-result polling; exceeding it surfaces a
	// timeout instead of hanging the caller forever. Product-tuned constant,
	// ~10 minutes at the default interval.
	PollCeiling int
	// DescriptorCacheTTL bounds the in-process descriptor cache.
	DescriptorCacheTTL time.Duration
}

// ContractsConfig holds the per-chain bridge contract wiring
type ContractsConfig struct {
	// BridgeAddresses maps a chain id to its bridge contract address.
	BridgeAddresses map[string]string
	// FeeTokens maps an origin chain id to the symbol its bridge fee is
	// denominated in. Chains without an entry charge no token fee.
	FeeTokens map[string]string
	// SwapIDs maps "from|to|symbol" to the destination-side swap id used by
	// the swap-leg limit views.
	SwapIDs map[string]string
	// TONNativeFeeNano is the fixed TON-origin fee in nanotons.
	TONNativeFeeNano int64
}

// BlockchainConfig holds per-chain RPC endpoints and the server-side
// signing keys. Empty keys leave the corresponding family view-only.
type BlockchainConfig struct {
	AccountChainMainRPC string
	AccountChainSideRPC string
	EthereumRPC         string
	SepoliaRPC          string
	BSCRPC              string
	BaseRPC             string
	TONConfigURL        string

	EVMPrivateKey          string
	AccountChainPrivateKey string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "bridge"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		Bridge: BridgeConfig{
			LimitServiceURL:    getEnv("LIMIT_SERVICE_URL", "https://indexer.ebridge.example/api/app/limits"),
			PollInterval:       getEnvAsDuration("TX_POLL_INTERVAL", 3*time.Second),
			PollCeiling:        getEnvAsInt("TX_POLL_CEILING", 200),
			DescriptorCacheTTL: getEnvAsDuration("DESCRIPTOR_CACHE_TTL", 12*time.Hour),
		},
		Contracts: ContractsConfig{
			BridgeAddresses: map[string]string{
				"AELF":     getEnv("BRIDGE_CONTRACT_AELF", "2dKF3svqDXrYtA5mYwKfADiHajo37mLZHPHVVuGbEDoD9jSgE8"),
				"tDVV":     getEnv("BRIDGE_CONTRACT_TDVV", "2M24EKAecggCnttZ9DUUMCXi4xC67rozA87kFgid9qEwRUMHTs"),
				"1":        getEnv("BRIDGE_CONTRACT_ETHEREUM", "0x04A34bdbC2E12880DdcC2250b9f255cC99C0a025"),
				"11155111": getEnv("BRIDGE_CONTRACT_SEPOLIA", "0x276A30c390e682eF2ef6f7D57Ba951e6EEb4f596"),
				"56":       getEnv("BRIDGE_CONTRACT_BSC", "0xE6d6f29b5a11b0510d8e46c91f313Ec62a1438B4"),
				"8453":     getEnv("BRIDGE_CONTRACT_BASE", "0x44b73b559CbC2b63e151c33eaf3c3f9b105aab56"),
				"1100":     getEnv("BRIDGE_CONTRACT_TON", "EQCW0ddLCQAn011bb8T2Xdoa40v6A_bL3cfjn0bplXdSKnWa"),
			},
			FeeTokens: map[string]string{
				"AELF": getEnv("BRIDGE_FEE_TOKEN_AELF", "ELF"),
				"tDVV": getEnv("BRIDGE_FEE_TOKEN_TDVV", "ELF"),
			},
			SwapIDs:          getEnvAsPairs("BRIDGE_SWAP_IDS"),
			TONNativeFeeNano: getEnvAsInt64("TON_NATIVE_FEE_NANO", 300_000_000),
		},
		Blockchain: BlockchainConfig{
			AccountChainMainRPC: getEnv("AELF_MAIN_RPC_URL", "https://aelf-public-node.aelf.io"),
			AccountChainSideRPC: getEnv("AELF_SIDE_RPC_URL", "https://tdvv-public-node.aelf.io"),
			EthereumRPC:         getEnv("ETHEREUM_RPC_URL", "https://ethereum-rpc.publicnode.com"),
			SepoliaRPC:          getEnv("SEPOLIA_RPC_URL", "https://sepolia.drpc.org"),
			BSCRPC:              getEnv("BSC_RPC_URL", "https://bsc-dataseed.binance.org"),
			BaseRPC:             getEnv("BASE_RPC_URL", "https://mainnet.base.org"),
			TONConfigURL:        getEnv("TON_CONFIG_URL", "https://ton.org/global.config.json"),

			EVMPrivateKey:          getEnv("EVM_PRIVATE_KEY", ""),
			AccountChainPrivateKey: getEnv("AELF_PRIVATE_KEY", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvAsPairs parses "key=value,key=value" lists.
func getEnvAsPairs(key string) map[string]string {
	out := map[string]string{}
	for _, pair := range strings.Split(os.Getenv(key), ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			continue
		}
		out[k] = v
	}
	return out
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
