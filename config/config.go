// Package config handles hashcase-cli configuration.
//
// Values are resolved in order of increasing precedence: network defaults,
// the <datadir>/hashcase.conf file, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/Klingon-tech/hashcase/pkg/tx"
	"github.com/Klingon-tech/hashcase/pkg/types"
)

// NetworkType identifies a Sui network.
type NetworkType string

const (
	Mainnet  NetworkType = "mainnet"
	Testnet  NetworkType = "testnet"
	Devnet   NetworkType = "devnet"
	Localnet NetworkType = "localnet"
)

// Networks lists every supported network.
var Networks = []NetworkType{Mainnet, Testnet, Devnet, Localnet}

// Decimals is the number of decimal places of SUI.
const Decimals = 9

// ErrNoPackage is returned when a command needs contract.package and it is unset.
var ErrNoPackage = errors.New("contract.package is not set")

// ErrNoPointsType is returned when a command needs points.type and it is unset.
var ErrNoPointsType = errors.New("points.type is not set")

// Config holds runtime configuration.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// Fullnode JSON-RPC
	RPC RPCConfig

	// Published Hashcase package
	Contract ContractConfig

	// Loyalty points token
	Points PointsConfig

	// Gas
	Gas GasConfig

	// Signing wallet
	Wallet WalletConfig

	// Balance refresh (watch)
	Refresh RefreshConfig

	// Logging
	Log LogConfig
}

// RPCConfig holds fullnode connection settings.
type RPCConfig struct {
	URL     string        `conf:"rpc.url"`
	Timeout time.Duration `conf:"rpc.timeout"`
}

// ContractConfig identifies the published package.
type ContractConfig struct {
	Package string `conf:"contract.package"`
}

// PointsConfig describes the loyalty points token and how spends
// consolidate it.
type PointsConfig struct {
	Type     string        `conf:"points.type"`      // Full struct type, e.g. 0x…::loyalty_points::Token
	Merge    string        `conf:"points.merge"`     // coin or move
	JoinFn   string        `conf:"points.join_fn"`   // [package::]module::function
	SplitFn  string        `conf:"points.split_fn"`  // [package::]module::function
	PageSize int           `conf:"points.page_size"` // Listing page size, at most 50
	CacheTTL time.Duration `conf:"points.cache_ttl"` // Last-known balance retention
}

// GasConfig holds gas settings.
type GasConfig struct {
	Budget uint64 `conf:"gas.budget"`
}

// WalletConfig selects the signing key.
type WalletConfig struct {
	Name  string `conf:"wallet.name"`
	Index uint32 `conf:"wallet.index"`
}

// RefreshConfig holds watch settings.
type RefreshConfig struct {
	Interval time.Duration `conf:"refresh.interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// PackageID parses contract.package.
func (c *Config) PackageID() (types.ObjectID, error) {
	if strings.TrimSpace(c.Contract.Package) == "" {
		return types.ObjectID{}, ErrNoPackage
	}
	return types.ParseObjectID(c.Contract.Package)
}

// PointsType returns points.type or ErrNoPointsType.
func (c *Config) PointsType() (string, error) {
	if strings.TrimSpace(c.Points.Type) == "" {
		return "", ErrNoPointsType
	}
	return strings.TrimSpace(c.Points.Type), nil
}

// MoveTarget parses a configured function reference. "module::function"
// is resolved against contract.package; "package::module::function" is
// used as is.
func (c *Config) MoveTarget(s string) (tx.MoveTarget, error) {
	s = strings.TrimSpace(s)
	if strings.Count(s, "::") == 1 {
		pkg, err := c.PackageID()
		if err != nil {
			return tx.MoveTarget{}, err
		}
		s = pkg.String() + "::" + s
	}
	return tx.ParseMoveTarget(s)
}

// =============================================================================
// Directory helpers
// =============================================================================

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.hashcase
//	macOS:   ~/Library/Application Support/Hashcase
//	Windows: %APPDATA%\Hashcase
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hashcase"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Hashcase")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "Hashcase")
		}
		return filepath.Join(home, "AppData", "Roaming", "Hashcase")
	default:
		return filepath.Join(home, ".hashcase")
	}
}

// NetworkDataDir returns the network-specific data directory.
func (c *Config) NetworkDataDir() string {
	return filepath.Join(c.DataDir, string(c.Network))
}

// KeystoreDir returns the keystore directory.
func (c *Config) KeystoreDir() string {
	return filepath.Join(c.NetworkDataDir(), "keystore")
}

// CacheDir returns the balance cache database directory.
func (c *Config) CacheDir() string {
	return filepath.Join(c.NetworkDataDir(), "cache")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "hashcase.conf")
}

// String summarizes the effective configuration for `config show`.
func (c *Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "network          = %s\n", c.Network)
	fmt.Fprintf(&b, "datadir          = %s\n", c.DataDir)
	fmt.Fprintf(&b, "rpc.url          = %s\n", c.RPC.URL)
	fmt.Fprintf(&b, "rpc.timeout      = %s\n", c.RPC.Timeout)
	fmt.Fprintf(&b, "contract.package = %s\n", c.Contract.Package)
	fmt.Fprintf(&b, "points.type      = %s\n", c.Points.Type)
	fmt.Fprintf(&b, "points.merge     = %s\n", c.Points.Merge)
	fmt.Fprintf(&b, "points.join_fn   = %s\n", c.Points.JoinFn)
	fmt.Fprintf(&b, "points.split_fn  = %s\n", c.Points.SplitFn)
	fmt.Fprintf(&b, "points.page_size = %d\n", c.Points.PageSize)
	fmt.Fprintf(&b, "points.cache_ttl = %s\n", c.Points.CacheTTL)
	fmt.Fprintf(&b, "gas.budget       = %d\n", c.Gas.Budget)
	fmt.Fprintf(&b, "wallet.name      = %s\n", c.Wallet.Name)
	fmt.Fprintf(&b, "wallet.index     = %d\n", c.Wallet.Index)
	fmt.Fprintf(&b, "refresh.interval = %s\n", c.Refresh.Interval)
	fmt.Fprintf(&b, "log.level        = %s\n", c.Log.Level)
	fmt.Fprintf(&b, "log.file         = %s\n", c.Log.File)
	fmt.Fprintf(&b, "log.json         = %t\n", c.Log.JSON)
	return b.String()
}
