package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Flags holds parsed global command-line flags. Parsing stops at the first
// non-flag argument, which begins the command.
type Flags struct {
	// Commands
	Help    bool
	Version bool

	// Core
	Network string
	Testnet bool
	DataDir string
	Config  string

	// RPC
	RPCURL     string
	RPCTimeout time.Duration

	// Contract and points
	Package    string
	PointsType string
	Merge      string

	// Gas
	GasBudget uint64

	// Wallet
	Wallet      string
	WalletIndex uint

	// Watch
	Interval time.Duration

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	// Remaining args (command and its flags)
	Args []string

	// Explicitly-set flags (for zero-value overrides).
	SetWalletIndex bool
	SetLogJSON     bool
}

// ParseFlags parses global flags from args (without the program name).
func ParseFlags(args []string) (*Flags, error) {
	f := &Flags{}
	fs := flag.NewFlagSet("hashcase-cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	// Commands
	fs.BoolVar(&f.Help, "help", false, "Show help message")
	fs.BoolVar(&f.Help, "h", false, "Show help message (shorthand)")
	fs.BoolVar(&f.Version, "version", false, "Show version information")

	// Core
	fs.StringVar(&f.Network, "network", "", "Network (mainnet, testnet, devnet, localnet)")
	fs.BoolVar(&f.Testnet, "testnet", false, "Shorthand for --network=testnet")
	fs.StringVar(&f.DataDir, "datadir", "", "Data directory path")
	fs.StringVar(&f.Config, "config", "", "Config file path")
	fs.StringVar(&f.Config, "c", "", "Config file path (shorthand)")

	// RPC
	fs.StringVar(&f.RPCURL, "rpc", "", "Fullnode JSON-RPC URL")
	fs.DurationVar(&f.RPCTimeout, "rpc-timeout", 0, "RPC request timeout")

	// Contract and points
	fs.StringVar(&f.Package, "package", "", "Hashcase package ID")
	fs.StringVar(&f.PointsType, "points-type", "", "Points token struct type")
	fs.StringVar(&f.Merge, "merge", "", "Spend consolidation mode (coin or move)")

	// Gas
	fs.Uint64Var(&f.GasBudget, "gas-budget", 0, "Gas budget in MIST")

	// Wallet
	fs.StringVar(&f.Wallet, "wallet", "", "Wallet name")
	fs.UintVar(&f.WalletIndex, "index", 0, "Account index within the wallet")

	// Watch
	fs.DurationVar(&f.Interval, "interval", 0, "Balance refresh interval")

	// Logging
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Output logs as JSON")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			f.Help = true
			return f, nil
		}
		return nil, err
	}

	if f.Testnet {
		if f.Network != "" && f.Network != string(Testnet) {
			return nil, fmt.Errorf("--testnet conflicts with --network=%s", f.Network)
		}
		f.Network = string(Testnet)
	}
	f.SetWalletIndex = isFlagSet(fs, "index")
	f.SetLogJSON = isFlagSet(fs, "log-json")
	f.Args = fs.Args()

	return f, nil
}

// ApplyFlags applies command-line flags to a Config struct.
func ApplyFlags(cfg *Config, f *Flags) {
	// Core
	if f.Network != "" {
		cfg.Network = NetworkType(strings.ToLower(f.Network))
	}
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}

	// RPC
	if f.RPCURL != "" {
		cfg.RPC.URL = f.RPCURL
	}
	if f.RPCTimeout != 0 {
		cfg.RPC.Timeout = f.RPCTimeout
	}

	// Contract and points
	if f.Package != "" {
		cfg.Contract.Package = f.Package
	}
	if f.PointsType != "" {
		cfg.Points.Type = f.PointsType
	}
	if f.Merge != "" {
		cfg.Points.Merge = strings.ToLower(f.Merge)
	}

	// Gas
	if f.GasBudget != 0 {
		cfg.Gas.Budget = f.GasBudget
	}

	// Wallet
	if f.Wallet != "" {
		cfg.Wallet.Name = f.Wallet
	}
	if f.SetWalletIndex {
		cfg.Wallet.Index = uint32(f.WalletIndex)
	}

	// Watch
	if f.Interval != 0 {
		cfg.Refresh.Interval = f.Interval
	}

	// Logging
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.SetLogJSON {
		cfg.Log.JSON = f.LogJSON
	}
}

// isFlagSet checks if a flag was explicitly set.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// Load resolves configuration from args with the following precedence:
// 1. Network defaults
// 2. Config file (created with defaults on first run)
// 3. Command-line flags
//
// Help and version requests return early with the parsed flags and no config.
func Load(args []string) (*Config, *Flags, error) {
	flags, err := ParseFlags(args)
	if err != nil {
		return nil, nil, err
	}
	if flags.Help || flags.Version {
		return nil, flags, nil
	}

	cfg := DefaultMainnet()
	if flags.DataDir != "" {
		cfg.DataDir = flags.DataDir
	}

	configPath := flags.Config
	if configPath == "" {
		if err := ensureConfigFile(cfg); err != nil {
			return nil, nil, err
		}
		configPath = cfg.ConfigFile()
	}

	fileValues, err := LoadFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, nil, fmt.Errorf("applying config file: %w", err)
	}
	ApplyFlags(cfg, flags)

	// Without an explicit endpoint the RPC URL follows the final network.
	_, fileURL := fileValues["rpc.url"]
	_, fileShort := fileValues["rpc"]
	if !fileURL && !fileShort && flags.RPCURL == "" {
		cfg.RPC.URL = DefaultRPCURL(cfg.Network)
	}

	if err := Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := EnsureDataDirs(cfg); err != nil {
		return nil, nil, fmt.Errorf("ensuring data dirs: %w", err)
	}

	return cfg, flags, nil
}

func ensureConfigFile(cfg *Config) error {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return fmt.Errorf("creating directory %s: %w", cfg.DataDir, err)
	}
	configPath := cfg.ConfigFile()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := WriteDefaultConfig(configPath); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
	}
	return nil
}

// EnsureDataDirs creates the data directory structure for cfg.Network.
// Safe to call on every startup.
func EnsureDataDirs(cfg *Config) error {
	dirs := []string{
		cfg.DataDir,
		cfg.NetworkDataDir(),
		cfg.KeystoreDir(),
		cfg.LogsDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}
