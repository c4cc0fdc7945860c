// Package executor turns a set of transaction commands into a signed,
// submitted Sui transaction and reports its outcome.
package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	klog "github.com/Klingon-tech/hashcase/internal/log"
	"github.com/Klingon-tech/hashcase/internal/sui"
	"github.com/Klingon-tech/hashcase/pkg/crypto"
	"github.com/Klingon-tech/hashcase/pkg/tx"
	"github.com/Klingon-tech/hashcase/pkg/types"
)

// Client is the subset of the Sui API the executor needs. *sui.Client
// implements it.
type Client interface {
	ResolveObjects(ctx context.Context, ids []types.ObjectID) ([]tx.ObjectArg, error)
	ReferenceGasPrice(ctx context.Context) (uint64, error)
	AllCoins(ctx context.Context, owner types.Address, coinType string) ([]sui.Coin, error)
	ExecuteTransactionBlock(ctx context.Context, txBytes []byte, signatures []string, opts sui.TransactionBlockResponseOptions) (*sui.TransactionBlockResponse, error)
	DryRunTransactionBlock(ctx context.Context, txBytes []byte) (*sui.TransactionBlockResponse, error)
}

// Options tune how transactions are paid for and submitted.
type Options struct {
	// GasBudget caps gas spend in MIST. Zero uses tx.DefaultGasBudget.
	GasBudget uint64
	// GasPrice overrides the reference gas price when non-zero.
	GasPrice uint64
	// DryRun simulates instead of submitting; nothing is signed.
	DryRun bool
}

// BuildFunc adds commands to a transaction.
type BuildFunc func(b *tx.Builder) error

// Executor builds, signs and submits transactions for one sender.
type Executor struct {
	client Client
	signer crypto.Signer
	sender types.Address
	opts   Options
}

// New creates an executor that signs with signer.
func New(client Client, signer crypto.Signer, opts Options) *Executor {
	if opts.GasBudget == 0 {
		opts.GasBudget = tx.DefaultGasBudget
	}
	return &Executor{
		client: client,
		signer: signer,
		sender: crypto.SignerAddress(signer),
		opts:   opts,
	}
}

// NewSimulator creates an executor that can only dry-run transactions for
// sender. No key is needed, so the wallet stays locked.
func NewSimulator(client Client, sender types.Address, opts Options) *Executor {
	if opts.GasBudget == 0 {
		opts.GasBudget = tx.DefaultGasBudget
	}
	opts.DryRun = true
	return &Executor{client: client, sender: sender, opts: opts}
}

// Sender returns the address transactions are sent from.
func (e *Executor) Sender() types.Address {
	return e.sender
}

// Prepare runs build, resolves object inputs and attaches gas payment.
func (e *Executor) Prepare(ctx context.Context, build BuildFunc) (*tx.TransactionData, error) {
	b := tx.NewBuilder().SetSender(e.sender)
	if err := build(b); err != nil {
		return nil, txError(StageBuild, err)
	}
	if err := b.Err(); err != nil {
		return nil, txError(StageBuild, err)
	}
	if b.CommandCount() == 0 {
		return nil, txError(StageBuild, tx.ErrNoCommands)
	}

	if err := e.resolve(ctx, b); err != nil {
		return nil, txError(StageResolve, err)
	}

	gas, err := e.gasData(ctx, b.ObjectIDs())
	if err != nil {
		return nil, txError(StageGas, err)
	}

	data, err := b.Finish(e.sender, gas, 0)
	if err != nil {
		return nil, txError(StageBuild, err)
	}
	return data, nil
}

func (e *Executor) resolve(ctx context.Context, b *tx.Builder) error {
	pending := b.Unresolved()
	if len(pending) == 0 {
		return nil
	}
	ids := make([]types.ObjectID, len(pending))
	for i, u := range pending {
		ids[i] = u.ID
	}
	args, err := e.client.ResolveObjects(ctx, ids)
	if err != nil {
		return err
	}
	for _, arg := range args {
		if err := b.Resolve(arg); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) gasData(ctx context.Context, inputs []types.ObjectID) (tx.GasData, error) {
	price := e.opts.GasPrice
	if price == 0 {
		p, err := e.client.ReferenceGasPrice(ctx)
		if err != nil {
			return tx.GasData{}, err
		}
		price = p
	}

	coins, err := e.client.AllCoins(ctx, e.sender, sui.SuiCoinType)
	if err != nil {
		return tx.GasData{}, err
	}
	candidates := make([]tx.GasCoinCandidate, len(coins))
	for i, c := range coins {
		candidates[i] = tx.GasCoinCandidate{Ref: c.Ref(), Balance: uint64(c.Balance)}
	}
	exclude := make(map[types.ObjectID]bool, len(inputs))
	for _, id := range inputs {
		exclude[id] = true
	}
	coin, ok := tx.SelectGasCoin(candidates, e.opts.GasBudget, exclude)
	if !ok {
		return tx.GasData{}, fmt.Errorf("no SUI coin available for gas at %s", e.sender)
	}
	if coin.Balance < e.opts.GasBudget {
		klog.Tx.Warn().
			Uint64("balance", coin.Balance).
			Uint64("budget", e.opts.GasBudget).
			Msg("Gas coin balance below budget")
	}
	return tx.GasData{
		Payment: []types.ObjectRef{coin.Ref},
		Owner:   e.sender,
		Price:   price,
		Budget:  e.opts.GasBudget,
	}, nil
}

// Execute builds the transaction, signs it and submits it, or simulates it
// when DryRun is set. A failed execution returns both the Result and a
// *TransactionError carrying the digest.
func (e *Executor) Execute(ctx context.Context, build BuildFunc) (*Result, error) {
	if e.signer == nil && !e.opts.DryRun {
		return nil, txError(StageSign, ErrNoSigner)
	}
	data, err := e.Prepare(ctx, build)
	if err != nil {
		return nil, err
	}
	txBytes := data.Marshal()
	digest := data.Digest()

	if e.opts.DryRun {
		resp, err := e.client.DryRunTransactionBlock(ctx, txBytes)
		if err != nil {
			return nil, txError(StageSubmit, err)
		}
		res := newResult(resp)
		res.Digest = digest
		res.DryRun = true
		klog.Tx.Info().Str("digest", digest.String()).Str("status", res.Status).Msg("Dry run complete")
		return res, res.err()
	}

	sig, err := crypto.SignTransaction(e.signer, txBytes)
	if err != nil {
		return nil, txError(StageSign, err)
	}

	klog.Tx.Debug().
		Str("digest", digest.String()).
		Int("inputs", len(data.Kind.Inputs)).
		Int("commands", len(data.Kind.Commands)).
		Msg("Submitting transaction")

	resp, err := e.client.ExecuteTransactionBlock(ctx, txBytes, []string{sig}, sui.TransactionBlockResponseOptions{
		ShowEffects:       true,
		ShowEvents:        true,
		ShowObjectChanges: true,
	})
	if err != nil {
		return nil, &TransactionError{Stage: StageSubmit, Digest: digest, Err: err}
	}
	res := newResult(resp)
	if res.Digest.IsZero() {
		res.Digest = digest
	}
	klog.Tx.Info().
		Str("digest", res.Digest.String()).
		Str("status", res.Status).
		Uint64("gas", res.GasUsed).
		Msg("Transaction executed")
	return res, res.err()
}

// Result is the outcome of an executed or simulated transaction.
type Result struct {
	Digest    types.Digest
	Status    string
	Error     string
	GasUsed   uint64
	Gas       tx.GasCostSummary
	Created   []sui.ObjectChange
	Mutated   []sui.ObjectChange
	Events    []sui.Event
	DryRun    bool
	hasStatus bool
}

func newResult(resp *sui.TransactionBlockResponse) *Result {
	r := &Result{Digest: resp.Digest, Events: resp.Events}
	if resp.Effects != nil {
		r.hasStatus = true
		r.Status = resp.Effects.Status.Status
		r.Error = resp.Effects.Status.Error
		r.Gas = resp.Effects.GasUsed
		r.GasUsed = resp.Effects.GasUsed.Net()
	}
	for _, ch := range resp.ObjectChanges {
		switch ch.Type {
		case "created":
			r.Created = append(r.Created, ch)
		case "mutated":
			r.Mutated = append(r.Mutated, ch)
		}
	}
	return r
}

// Succeeded reports whether effects were returned with status success.
func (r *Result) Succeeded() bool {
	return r.hasStatus && r.Status == "success"
}

// CreatedOfType returns created objects whose type contains suffix, such
// as "::hashcase_module::NFT".
func (r *Result) CreatedOfType(suffix string) []sui.ObjectChange {
	var out []sui.ObjectChange
	for _, ch := range r.Created {
		if strings.HasSuffix(ch.ObjectType, suffix) {
			out = append(out, ch)
		}
	}
	return out
}

func (r *Result) err() error {
	if r.Succeeded() {
		return nil
	}
	msg := r.Error
	switch {
	case !r.hasStatus:
		msg = "no effects returned"
	case msg == "":
		msg = "status " + r.Status
	}
	return &TransactionError{Stage: StageExecute, Digest: r.Digest, Err: errors.New(msg)}
}
