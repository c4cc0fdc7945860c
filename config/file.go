package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadFile loads configuration values from a .conf file.
// Format: key = value (one per line, # for comments). A missing file
// yields no values.
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse key = value
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a config value by key.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	// Core
	case "network":
		cfg.Network = NetworkType(strings.ToLower(value))
	case "datadir":
		cfg.DataDir = value

	// RPC
	case "rpc.url", "rpc":
		cfg.RPC.URL = value
	case "rpc.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		cfg.RPC.Timeout = d

	// Contract
	case "contract.package", "package":
		cfg.Contract.Package = value

	// Points
	case "points.type":
		cfg.Points.Type = value
	case "points.merge":
		cfg.Points.Merge = strings.ToLower(value)
	case "points.join_fn":
		cfg.Points.JoinFn = value
	case "points.split_fn":
		cfg.Points.SplitFn = value
	case "points.page_size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Points.PageSize = n
	case "points.cache_ttl":
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		cfg.Points.CacheTTL = d

	// Gas
	case "gas.budget":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		cfg.Gas.Budget = n

	// Wallet
	case "wallet.name", "wallet":
		cfg.Wallet.Name = value
	case "wallet.index":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return err
		}
		cfg.Wallet.Index = uint32(n)

	// Refresh
	case "refresh.interval":
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		cfg.Refresh.Interval = d

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)

	default:
		// Unknown keys are ignored
	}
	return nil
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// WriteDefaultConfig writes a default configuration file. Network and RPC
// URL are left commented out so the --network flag selects both.
func WriteDefaultConfig(path string) error {
	content := `# hashcase-cli configuration
#
# Command-line flags override values in this file.

# Network: mainnet, testnet, devnet or localnet
# network = mainnet

# Data directory (default: ~/.hashcase)
# datadir = ~/.hashcase

# ============================================================================
# Fullnode RPC
# ============================================================================

# Defaults to the public fullnode of the selected network
# rpc.url = ` + MainnetRPC + `
rpc.timeout = 30s

# ============================================================================
# Hashcase package
# ============================================================================

# Package ID of the published hashcase_module / loyalty_points package
# contract.package = 0x...

# ============================================================================
# Loyalty points
# ============================================================================

# Full struct type of the points token
# points.type = 0x...::loyalty_points::LoyaltyToken

# How spends merge and split tokens: coin (MergeCoins/SplitCoins) or move
points.merge = coin

# Package functions used when points.merge = move ([package::]module::function)
# points.join_fn = loyalty_points::join
# points.split_fn = loyalty_points::split

# Listing page size (max 50) and last-known balance retention
points.page_size = 50
points.cache_ttl = 24h

# ============================================================================
# Gas and wallet
# ============================================================================

# Gas budget in MIST
gas.budget = 50000000

wallet.name = default
wallet.index = 0

# ============================================================================
# Watch
# ============================================================================

refresh.interval = 10s

# ============================================================================
# Logging
# ============================================================================

log.level = info
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0644)
}
