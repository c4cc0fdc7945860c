package contract

import (
	"fmt"

	"github.com/Klingon-tech/hashcase/internal/points"
	"github.com/Klingon-tech/hashcase/pkg/tx"
	"github.com/Klingon-tech/hashcase/pkg/types"
)

func pointsTarget(pkg types.ObjectID, fn string) tx.MoveTarget {
	return tx.NewMoveTarget(pkg, PointsModule, fn)
}

// CreateUserPoints mints a new points token worth Amount to Recipient
// (the sender when zero).
type CreateUserPoints struct {
	TreasuryCap types.ObjectID
	Amount      uint64
	Recipient   types.Address
}

func (c CreateUserPoints) Validate() error {
	if err := requireID("treasury cap", c.TreasuryCap); err != nil {
		return err
	}
	return requireAmount("amount", c.Amount)
}

func (c CreateUserPoints) Build(b *tx.Builder, pkg types.ObjectID) error {
	b.MoveCall(pointsTarget(pkg, "create_user_points"),
		b.Object(c.TreasuryCap, true),
		b.PureU64(c.Amount),
		b.PureAddress(orSender(b, c.Recipient)),
	)
	return nil
}

// AddPoints increases the balance of an existing points token.
type AddPoints struct {
	TreasuryCap types.ObjectID
	UserToken   types.ObjectID
	Amount      uint64
}

func (c AddPoints) Validate() error {
	if err := requireID("treasury cap", c.TreasuryCap); err != nil {
		return err
	}
	if err := requireID("user token", c.UserToken); err != nil {
		return err
	}
	return requireAmount("amount", c.Amount)
}

func (c AddPoints) Build(b *tx.Builder, pkg types.ObjectID) error {
	b.MoveCall(pointsTarget(pkg, "add_points"),
		b.Object(c.TreasuryCap, true),
		b.Object(c.UserToken, true),
		b.PureU64(c.Amount),
	)
	return nil
}

// SpendPoints burns Amount from a single token.
type SpendPoints struct {
	TreasuryCap types.ObjectID
	Token       types.ObjectID
	Amount      uint64
}

func (c SpendPoints) Validate() error {
	if err := requireID("treasury cap", c.TreasuryCap); err != nil {
		return err
	}
	if err := requireID("token", c.Token); err != nil {
		return err
	}
	return requireAmount("amount", c.Amount)
}

func (c SpendPoints) Build(b *tx.Builder, pkg types.ObjectID) error {
	b.MoveCall(pointsTarget(pkg, "spend_points"),
		b.Object(c.TreasuryCap, true),
		b.Object(c.Token, true),
		b.PureU64(c.Amount),
	)
	return nil
}

// MergeMode selects how SpendExact merges and splits tokens.
type MergeMode string

const (
	// MergeCoin uses the built-in MergeCoins and SplitCoins commands. The
	// points token must be a Coin.
	MergeCoin MergeMode = "coin"
	// MergeMove calls the Join and Split functions of the package.
	MergeMove MergeMode = "move"
)

// ParseMergeMode accepts "coin" (also the empty string) or "move".
func ParseMergeMode(s string) (MergeMode, error) {
	switch MergeMode(s) {
	case "", MergeCoin:
		return MergeCoin, nil
	case MergeMove:
		return MergeMove, nil
	}
	return "", invalid("merge mode %q: want coin or move", s)
}

// Consolidation configures SpendExact. In move mode Join is called as
// join(a, b) and returns a new token holding both balances; Split is called
// as split(&mut acc, amount) and returns a new token holding amount.
type Consolidation struct {
	Mode  MergeMode
	Join  tx.MoveTarget
	Split tx.MoveTarget
}

func (c Consolidation) validate() error {
	switch c.Mode {
	case "", MergeCoin:
		return nil
	case MergeMove:
		if c.Join.Function == "" || c.Split.Function == "" {
			return invalid("move merge mode needs join and split functions")
		}
		return nil
	}
	return invalid("merge mode %q: want coin or move", c.Mode)
}

// SpendExact spends exactly Plan.Amount from the tokens the plan selected:
// it merges the selected tokens, splits off the amount when the total is
// larger, and calls spend_points on the result. Tokens produced along the
// way are returned to the sender.
type SpendExact struct {
	TreasuryCap   types.ObjectID
	Plan          *points.SpendPlan
	Consolidation Consolidation
}

func (c SpendExact) Validate() error {
	if err := requireID("treasury cap", c.TreasuryCap); err != nil {
		return err
	}
	if c.Plan == nil || len(c.Plan.Selected) == 0 {
		return invalid("spend plan is empty")
	}
	if c.Plan.Amount == 0 {
		return invalid("spend amount must be positive")
	}
	if c.Plan.Split && c.Plan.SplitAmount != c.Plan.Amount {
		return invalid("split amount %d does not match spend amount %d", c.Plan.SplitAmount, c.Plan.Amount)
	}
	return c.Consolidation.validate()
}

func (c SpendExact) Build(b *tx.Builder, pkg types.ObjectID) error {
	var cons interface {
		points.Consolidator[tx.Argument]
		leftovers() []tx.Argument
	}
	if c.Consolidation.Mode == MergeMove {
		cons = &moveConsolidator{b: b, join: c.Consolidation.Join, split: c.Consolidation.Split}
	} else {
		cons = &coinConsolidator{b: b}
	}

	token, err := points.Apply[tx.Argument](c.Plan, cons)
	if err != nil {
		return fmt.Errorf("consolidate: %w", err)
	}
	b.MoveCall(pointsTarget(pkg, "spend_points"),
		b.Object(c.TreasuryCap, true),
		token,
		b.PureU64(c.Plan.Amount),
	)
	if left := cons.leftovers(); len(left) > 0 {
		b.TransferObjects(left, b.PureAddress(b.Sender()))
	}
	return nil
}

// coinConsolidator merges in place with MergeCoins. Only a split produces
// a new value.
type coinConsolidator struct {
	b       *tx.Builder
	results []tx.Argument
}

func (c *coinConsolidator) Input(h points.TokenHandle) tx.Argument {
	return c.b.ObjectRef(h.Ref())
}

func (c *coinConsolidator) Merge(acc, src tx.Argument) tx.Argument {
	c.b.MergeCoins(acc, src)
	return acc
}

func (c *coinConsolidator) Split(acc tx.Argument, amount uint64) tx.Argument {
	out := c.b.SplitCoins(acc, c.b.PureU64(amount))[0]
	c.results = append(c.results, out)
	return out
}

func (c *coinConsolidator) leftovers() []tx.Argument { return c.results }

// moveConsolidator calls package functions. join consumes both tokens, so
// a joined accumulator stops being live; split leaves it live.
type moveConsolidator struct {
	b           *tx.Builder
	join, split tx.MoveTarget
	live        []tx.Argument
}

func (c *moveConsolidator) Input(h points.TokenHandle) tx.Argument {
	return c.b.ObjectRef(h.Ref())
}

func (c *moveConsolidator) Merge(acc, src tx.Argument) tx.Argument {
	out := c.b.MoveCall(c.join, acc, src)
	c.drop(acc)
	c.drop(src)
	c.live = append(c.live, out)
	return out
}

func (c *moveConsolidator) Split(acc tx.Argument, amount uint64) tx.Argument {
	out := c.b.MoveCall(c.split, acc, c.b.PureU64(amount))
	c.live = append(c.live, out)
	return out
}

func (c *moveConsolidator) drop(a tx.Argument) {
	for i, l := range c.live {
		if l == a {
			c.live = append(c.live[:i], c.live[i+1:]...)
			return
		}
	}
}

func (c *moveConsolidator) leftovers() []tx.Argument { return c.live }
