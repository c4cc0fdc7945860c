package config

import (
	"time"

	"github.com/Klingon-tech/hashcase/pkg/tx"
)

// Public fullnode endpoints.
const (
	MainnetRPC  = "https://fullnode.mainnet.sui.io:443"
	TestnetRPC  = "https://fullnode.testnet.sui.io:443"
	DevnetRPC   = "https://fullnode.devnet.sui.io:443"
	LocalnetRPC = "http://127.0.0.1:9000"
)

// DefaultRPCURL returns the public fullnode for network.
func DefaultRPCURL(network NetworkType) string {
	switch network {
	case Testnet:
		return TestnetRPC
	case Devnet:
		return DevnetRPC
	case Localnet:
		return LocalnetRPC
	default:
		return MainnetRPC
	}
}

// DefaultMainnet returns the default configuration for mainnet.
func DefaultMainnet() *Config {
	return &Config{
		Network: Mainnet,
		DataDir: DefaultDataDir(),
		RPC: RPCConfig{
			URL:     MainnetRPC,
			Timeout: 30 * time.Second,
		},
		Points: PointsConfig{
			Merge:    "coin",
			PageSize: 50,
			CacheTTL: 24 * time.Hour,
		},
		Gas: GasConfig{
			Budget: tx.DefaultGasBudget,
		},
		Wallet: WalletConfig{
			Name: "default",
		},
		Refresh: RefreshConfig{
			Interval: 10 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// Default returns the default configuration for the given network.
// Unknown networks get mainnet defaults and fail Validate.
func Default(network NetworkType) *Config {
	cfg := DefaultMainnet()
	cfg.Network = network
	cfg.RPC.URL = DefaultRPCURL(network)
	return cfg
}
