package points

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"

	klog "github.com/Klingon-tech/hashcase/internal/log"
	"github.com/Klingon-tech/hashcase/pkg/crypto"
	"github.com/Klingon-tech/hashcase/pkg/types"
)

// FinalKind says which handle carries exactly the plan's amount.
type FinalKind int

const (
	// FinalPrimary: the merged primary holds exactly Amount.
	FinalPrimary FinalKind = iota
	// FinalSplit: Amount is split off the merged primary.
	FinalSplit
)

func (k FinalKind) String() string {
	if k == FinalSplit {
		return "split"
	}
	return "primary"
}

// MergeOp merges Source into the running accumulator that started as Target.
type MergeOp struct {
	Target TokenHandle
	Source TokenHandle
}

// SpendPlan describes how to produce one token worth exactly Amount from the
// owner's tokens. It is built per transaction and never persisted.
type SpendPlan struct {
	Amount   uint64
	Selected []TokenHandle
	Primary  TokenHandle
	Merges   []MergeOp
	// Split is set when Total exceeds Amount; SplitAmount is then Amount.
	Split       bool
	SplitAmount uint64
	// Total is the sum of Selected, saturating at MaxUint64.
	Total uint64
	Final FinalKind
}

// ID returns a short fingerprint of the plan for log correlation.
func (p *SpendPlan) ID() string {
	buf := make([]byte, 8, 8+len(p.Selected)*types.AddressSize)
	binary.LittleEndian.PutUint64(buf, p.Amount)
	for _, h := range p.Selected {
		buf = append(buf, h.ID[:]...)
	}
	h := crypto.Hash(buf)
	return h.String()[:16]
}

// Select picks the shortest listing-order prefix of handles whose balances
// cover amount and derives the merge and split steps.
func Select(handles []TokenHandle, amount int64) (*SpendPlan, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if len(handles) == 0 {
		return nil, ErrNoTokens
	}
	need := uint64(amount)

	var (
		sum uint64
		n   int
	)
	for n < len(handles) && sum < need {
		s, carry := bits.Add64(sum, handles[n].Balance, 0)
		if carry != 0 {
			s = math.MaxUint64
		}
		sum = s
		n++
	}
	if sum < need {
		return nil, &InsufficientFundsError{Have: sum, Need: need}
	}

	selected := make([]TokenHandle, n)
	copy(selected, handles[:n])
	plan := &SpendPlan{
		Amount:   need,
		Selected: selected,
		Primary:  selected[0],
		Total:    sum,
		Final:    FinalPrimary,
	}
	for _, src := range selected[1:] {
		plan.Merges = append(plan.Merges, MergeOp{Target: plan.Primary, Source: src})
	}
	if sum > need {
		plan.Split = true
		plan.SplitAmount = need
		plan.Final = FinalSplit
	}
	return plan, nil
}

// Consolidator is the transaction-building capability Apply drives. H is
// whatever the builder uses to refer to a token within one transaction.
//
// Merge returns the accumulator to use from then on. A builder that merges
// in place returns acc; one whose join produces a new token returns that.
type Consolidator[H any] interface {
	Input(h TokenHandle) H
	Merge(acc, src H) H
	Split(acc H, amount uint64) H
}

// Apply enqueues the plan's merges and split on c and returns the handle
// holding exactly plan.Amount.
func Apply[H any](plan *SpendPlan, c Consolidator[H]) (H, error) {
	var zero H
	if plan == nil || len(plan.Selected) == 0 {
		return zero, fmt.Errorf("%w: empty spend plan", ErrInvalidInput)
	}
	acc := c.Input(plan.Primary)
	for _, m := range plan.Merges {
		acc = c.Merge(acc, c.Input(m.Source))
	}
	if plan.Split {
		return c.Split(acc, plan.SplitAmount), nil
	}
	return acc, nil
}

// Planner lists an owner's tokens and plans exact-amount spends.
type Planner struct {
	lister  Lister
	typeTag string
}

// NewPlanner creates a planner for tokens of typeTag.
func NewPlanner(lister Lister, typeTag string) *Planner {
	return &Planner{lister: lister, typeTag: typeTag}
}

// PlanSpend lists every token owner holds and selects enough of them to
// cover amount. Input is validated before any query.
func (p *Planner) PlanSpend(ctx context.Context, owner string, amount int64) (*SpendPlan, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	addr, err := parseOwner(owner)
	if err != nil {
		return nil, err
	}
	handles, err := ListHandles(ctx, p.lister, addr, p.typeTag)
	if err != nil {
		return nil, err
	}
	plan, err := Select(handles, amount)
	if err != nil {
		klog.Points.Info().
			Str("owner", addr.String()).
			Int64("amount", amount).
			Int("tokens", len(handles)).
			Err(err).
			Msg("Spend plan rejected")
		return nil, err
	}
	klog.Points.Debug().
		Str("owner", addr.String()).
		Uint64("amount", plan.Amount).
		Str("plan_id", plan.ID()).
		Int("selected", len(plan.Selected)).
		Bool("split", plan.Split).
		Msg("Spend plan built")
	return plan, nil
}

// ParseAmount parses a decimal integer amount. Non-numeric, zero and
// negative values are ErrInvalidAmount.
func ParseAmount(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidAmount, n)
	}
	return n, nil
}

func parseOwner(owner string) (types.Address, error) {
	addr, err := types.ParseAddress(owner)
	if err != nil {
		return types.Address{}, fmt.Errorf("%w: owner: %v", ErrInvalidInput, err)
	}
	return addr, nil
}
