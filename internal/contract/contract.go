// Package contract builds calls into the hashcase_module NFT module and the
// loyalty_points token module of a published Hashcase package.
//
// Every call is an immutable input struct. Validate checks it without
// touching the network; Build appends its commands to a transaction.
package contract

import (
	"fmt"

	"github.com/Klingon-tech/hashcase/internal/points"
	"github.com/Klingon-tech/hashcase/pkg/tx"
	"github.com/Klingon-tech/hashcase/pkg/types"
)

// Move module names.
const (
	NFTModule    = "hashcase_module"
	PointsModule = "loyalty_points"
)

// ErrInvalidInput is returned by Validate. It is the same sentinel the
// points package uses, so callers can test one error for bad input.
var ErrInvalidInput = points.ErrInvalidInput

// Call is one contract interaction.
type Call interface {
	Validate() error
	Build(b *tx.Builder, pkg types.ObjectID) error
}

// BuildFunc validates call and returns a function that adds it to a
// transaction, for use with the executor.
func BuildFunc(pkg types.ObjectID, call Call) func(b *tx.Builder) error {
	return func(b *tx.Builder) error {
		if pkg.IsZero() {
			return invalid("package id is required")
		}
		if err := call.Validate(); err != nil {
			return err
		}
		return call.Build(b, pkg)
	}
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func requireID(name string, id types.ObjectID) error {
	if id.IsZero() {
		return invalid("%s is required", name)
	}
	return nil
}

func requireAmount(name string, v uint64) error {
	if v == 0 {
		return invalid("%s must be positive", name)
	}
	return nil
}

// orSender returns addr, or the builder's sender when addr is zero.
func orSender(b *tx.Builder, addr types.Address) types.Address {
	if addr.IsZero() {
		return b.Sender()
	}
	return addr
}
