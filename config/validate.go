package config

import (
	"fmt"
	"net/url"
	"strings"

	klog "github.com/Klingon-tech/hashcase/internal/log"
	"github.com/Klingon-tech/hashcase/pkg/types"
)

// MaxPageSize is the largest listing page the fullnode serves.
const MaxPageSize = 50

// Validate checks runtime config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if !validNetwork(cfg.Network) {
		return fmt.Errorf("network must be one of %s", networkList())
	}

	u, err := url.Parse(cfg.RPC.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("rpc.url must be an http(s) URL, got %q", cfg.RPC.URL)
	}
	if cfg.RPC.Timeout <= 0 {
		return fmt.Errorf("rpc.timeout must be positive")
	}

	if cfg.Contract.Package != "" {
		if _, err := types.ParseObjectID(cfg.Contract.Package); err != nil {
			return fmt.Errorf("contract.package: %w", err)
		}
	}

	switch cfg.Points.Merge {
	case "", "coin":
		cfg.Points.Merge = "coin"
	case "move":
		if cfg.Points.JoinFn == "" || cfg.Points.SplitFn == "" {
			return fmt.Errorf("points.merge=move requires points.join_fn and points.split_fn")
		}
	default:
		return fmt.Errorf("points.merge must be coin or move")
	}
	if cfg.Points.PageSize <= 0 || cfg.Points.PageSize > MaxPageSize {
		return fmt.Errorf("points.page_size must be in range [1, %d]", MaxPageSize)
	}
	if cfg.Points.CacheTTL < 0 {
		return fmt.Errorf("points.cache_ttl must not be negative")
	}

	if cfg.Gas.Budget == 0 {
		return fmt.Errorf("gas.budget must be positive")
	}
	if strings.TrimSpace(cfg.Wallet.Name) == "" {
		return fmt.Errorf("wallet.name is required")
	}
	if cfg.Refresh.Interval <= 0 {
		return fmt.Errorf("refresh.interval must be positive")
	}
	if !klog.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level %q is not a valid level", cfg.Log.Level)
	}
	return nil
}

func validNetwork(n NetworkType) bool {
	for _, known := range Networks {
		if n == known {
			return true
		}
	}
	return false
}

func networkList() string {
	names := make([]string, len(Networks))
	for i, n := range Networks {
		names[i] = string(n)
	}
	return strings.Join(names, ", ")
}
