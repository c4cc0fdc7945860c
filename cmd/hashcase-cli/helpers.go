package main

import (
	"fmt"
	"math"
	"math/big"
	"os"
	"syscall"

	"github.com/Klingon-tech/hashcase/config"
	"github.com/Klingon-tech/hashcase/internal/executor"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

// ── Result output ───────────────────────────────────────────────────────

func printResult(res *executor.Result) {
	if res.DryRun {
		fmt.Println("Dry run (not submitted)")
	}
	fmt.Printf("Digest:  %s\n", res.Digest)
	fmt.Printf("Status:  %s\n", res.Status)
	if res.Error != "" {
		fmt.Printf("Error:   %s\n", res.Error)
	}
	fmt.Printf("Gas:     %s SUI\n", formatSUI(res.GasUsed))
	for _, ch := range res.Created {
		fmt.Printf("Created: %s  %s\n", ch.ObjectID, ch.ObjectType)
	}
}

// ── Formatting helpers ─────────────────────────────────────────────────

var maxMist = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

// formatSUI converts MIST to a decimal SUI string with all decimals shown.
func formatSUI(mist uint64) string {
	d := decimal.NewFromBigInt(new(big.Int).SetUint64(mist), -config.Decimals)
	return d.StringFixed(config.Decimals)
}

// parseSUI converts a decimal SUI string to MIST.
func parseSUI(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("negative amount")
	}
	mist := d.Shift(config.Decimals)
	if !mist.Equal(mist.Truncate(0)) {
		return 0, fmt.Errorf("too many decimal places (max %d)", config.Decimals)
	}
	if mist.GreaterThan(maxMist) {
		return 0, fmt.Errorf("amount too large")
	}
	return mist.BigInt().Uint64(), nil
}

// ── Password helper ─────────────────────────────────────────────────────

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ── Error helper ────────────────────────────────────────────────────────

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
