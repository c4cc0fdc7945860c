// Package points reads and spends a fungible loyalty-points token held as
// separate on-chain objects: it sums an owner's balance across all objects
// and plans how to merge and split them into one object of an exact amount.
package points

import (
	"context"
	"errors"
	"math/bits"

	klog "github.com/Klingon-tech/hashcase/internal/log"
	"github.com/Klingon-tech/hashcase/pkg/types"
)

// errOverflow marks a listing whose balances do not fit in a u64.
var errOverflow = errors.New("balance total overflows u64")

// Aggregator sums the balances of every token of one type held by an owner.
type Aggregator struct {
	lister  Lister
	typeTag string
	cache   Cache
}

// NewAggregator creates an aggregator. cache may be nil.
func NewAggregator(lister Lister, typeTag string, cache Cache) *Aggregator {
	return &Aggregator{lister: lister, typeTag: typeTag, cache: cache}
}

// TypeTag returns the token type being summed.
func (a *Aggregator) TypeTag() string {
	return a.typeTag
}

// TotalBalance returns the sum of the balance field across all of owner's
// tokens, independent of how the listing is paged.
//
// An empty or malformed owner yields 0 without querying. When the listing
// fails, the last cached total (or 0) is returned with a *QueryError.
func (a *Aggregator) TotalBalance(ctx context.Context, owner string) (uint64, error) {
	addr, err := types.ParseAddress(owner)
	if err != nil {
		return 0, nil
	}
	key := addr.String()

	var total uint64
	pages, err := walk(ctx, a.lister, addr, a.typeTag, func(o Object) error {
		sum, carry := bits.Add64(total, Balance(o), 0)
		if carry != 0 {
			return errOverflow
		}
		total = sum
		return nil
	})
	if err != nil {
		last := a.last(key)
		klog.Points.Warn().
			Err(err).
			Str("owner", key).
			Int("pages", pages).
			Uint64("last_known", last).
			Msg("Balance query failed")
		return last, &QueryError{Owner: key, Err: err}
	}

	if a.cache != nil {
		a.cache.Store(key, total)
	}
	klog.Points.Debug().
		Str("owner", key).
		Int("pages", pages).
		Uint64("total", total).
		Msg("Balance aggregated")
	return total, nil
}

// ListHandles lists all of owner's token handles in listing order.
func (a *Aggregator) ListHandles(ctx context.Context, owner string) ([]TokenHandle, error) {
	addr, err := parseOwner(owner)
	if err != nil {
		return nil, err
	}
	return ListHandles(ctx, a.lister, addr, a.typeTag)
}

func (a *Aggregator) last(owner string) uint64 {
	if a.cache == nil {
		return 0
	}
	v, _ := a.cache.Last(owner)
	return v
}
