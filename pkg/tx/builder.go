package tx

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/hashcase/pkg/bcs"
	"github.com/Klingon-tech/hashcase/pkg/types"
)

// ErrUnresolvedObject is returned by Finish while object inputs still lack
// a version and digest.
var ErrUnresolvedObject = errors.New("object input not resolved")

// UnresolvedObject is an object input known only by ID. The executor looks
// it up and fills in a reference or shared version before signing.
type UnresolvedObject struct {
	ID      types.ObjectID
	Mutable bool
}

type builderInput struct {
	arg        CallArg
	unresolved *UnresolvedObject
}

// Builder constructs a programmable transaction incrementally.
type Builder struct {
	sender   types.Address
	inputs   []builderInput
	commands []Command
	objects  map[types.ObjectID]uint16
	err      error
}

// NewBuilder creates a new transaction builder.
func NewBuilder() *Builder {
	return &Builder{objects: make(map[types.ObjectID]uint16)}
}

// SetSender records the address that will sign the transaction, so
// commands can default recipients to it.
func (b *Builder) SetSender(sender types.Address) *Builder {
	b.sender = sender
	return b
}

// Sender returns the address set with SetSender.
func (b *Builder) Sender() types.Address {
	return b.sender
}

// Err returns the first error recorded while building.
func (b *Builder) Err() error {
	return b.err
}

func (b *Builder) addInput(in builderInput) Argument {
	if len(b.inputs) >= MaxInputs {
		if b.err == nil {
			b.err = fmt.Errorf("%w: max %d", ErrTooManyInputs, MaxInputs)
		}
		return Argument{Kind: ArgInput, Index: uint16(len(b.inputs) - 1)}
	}
	b.inputs = append(b.inputs, in)
	return Argument{Kind: ArgInput, Index: uint16(len(b.inputs) - 1)}
}

func (b *Builder) addCommand(c Command) uint16 {
	if len(b.commands) >= MaxCommands && b.err == nil {
		b.err = fmt.Errorf("%w: max %d", ErrTooManyCommands, MaxCommands)
	}
	b.commands = append(b.commands, c)
	return uint16(len(b.commands) - 1)
}

// ── Pure inputs ─────────────────────────────────────────────────────────

// Pure adds raw BCS bytes as an input.
func (b *Builder) Pure(value []byte) Argument {
	if len(value) > MaxPureSize && b.err == nil {
		b.err = fmt.Errorf("%w: %d bytes, max %d", ErrPureTooLarge, len(value), MaxPureSize)
	}
	return b.addInput(builderInput{arg: CallArg{Pure: append([]byte(nil), value...)}})
}

// PureU64 adds a u64 input.
func (b *Builder) PureU64(v uint64) Argument {
	return b.Pure(bcs.NewEncoder().U64(v).Bytes())
}

// PureU8 adds a u8 input.
func (b *Builder) PureU8(v uint8) Argument {
	return b.Pure([]byte{v})
}

// PureBool adds a bool input.
func (b *Builder) PureBool(v bool) Argument {
	return b.Pure(bcs.NewEncoder().Bool(v).Bytes())
}

// PureAddress adds an address input.
func (b *Builder) PureAddress(a types.Address) Argument {
	return b.Pure(a[:])
}

// PureString adds a Move String (UTF-8) input.
func (b *Builder) PureString(s string) Argument {
	return b.Pure(bcs.NewEncoder().String(s).Bytes())
}

// PureBytes adds a vector<u8> input.
func (b *Builder) PureBytes(v []byte) Argument {
	return b.Pure(bcs.NewEncoder().ByteVector(v).Bytes())
}

// PureStrings adds a vector<String> input.
func (b *Builder) PureStrings(ss []string) Argument {
	return b.Pure(bcs.NewEncoder().Strings(ss).Bytes())
}

// ── Object inputs ───────────────────────────────────────────────────────

// Object adds an object input by ID, to be resolved before Finish. Passing
// the same ID twice returns the same input; mutability is sticky.
func (b *Builder) Object(id types.ObjectID, mutable bool) Argument {
	if idx, ok := b.objects[id]; ok {
		in := &b.inputs[idx]
		if in.unresolved != nil && mutable {
			in.unresolved.Mutable = true
		}
		if in.arg.Object != nil && in.arg.Object.Kind == ObjectShared && mutable {
			in.arg.Object.Mutable = true
		}
		return Argument{Kind: ArgInput, Index: idx}
	}
	arg := b.addInput(builderInput{unresolved: &UnresolvedObject{ID: id, Mutable: mutable}})
	b.objects[id] = arg.Index
	return arg
}

// ObjectRef adds an owned or immutable object at a known version.
func (b *Builder) ObjectRef(ref types.ObjectRef) Argument {
	if idx, ok := b.objects[ref.ObjectID]; ok {
		b.inputs[idx] = builderInput{arg: CallArg{Object: &ObjectArg{Kind: ObjectImmOrOwned, Ref: ref}}}
		return Argument{Kind: ArgInput, Index: idx}
	}
	arg := b.addInput(builderInput{arg: CallArg{Object: &ObjectArg{Kind: ObjectImmOrOwned, Ref: ref}}})
	b.objects[ref.ObjectID] = arg.Index
	return arg
}

// SharedObject adds a shared object input.
func (b *Builder) SharedObject(id types.ObjectID, initialVersion types.SequenceNumber, mutable bool) Argument {
	shared := &ObjectArg{Kind: ObjectShared, ID: id, InitialSharedVersion: initialVersion, Mutable: mutable}
	if idx, ok := b.objects[id]; ok {
		if prev := b.inputs[idx]; prev.unresolved != nil && prev.unresolved.Mutable {
			shared.Mutable = true
		}
		b.inputs[idx] = builderInput{arg: CallArg{Object: shared}}
		return Argument{Kind: ArgInput, Index: idx}
	}
	arg := b.addInput(builderInput{arg: CallArg{Object: shared}})
	b.objects[id] = arg.Index
	return arg
}

// Unresolved lists object inputs still awaiting resolution, in input order.
func (b *Builder) Unresolved() []UnresolvedObject {
	var out []UnresolvedObject
	for _, in := range b.inputs {
		if in.unresolved != nil {
			out = append(out, *in.unresolved)
		}
	}
	return out
}

// Resolve replaces the unresolved input for arg.ObjectID() with arg. A
// shared object keeps the mutability requested by its callers.
func (b *Builder) Resolve(arg ObjectArg) error {
	idx, ok := b.objects[arg.ObjectID()]
	if !ok {
		return fmt.Errorf("resolve %s: not an input of this transaction", arg.ObjectID())
	}
	in := b.inputs[idx]
	if in.unresolved == nil {
		return nil
	}
	if arg.Kind == ObjectShared {
		arg.Mutable = in.unresolved.Mutable
	}
	b.inputs[idx] = builderInput{arg: CallArg{Object: &arg}}
	return nil
}

// ── Commands ────────────────────────────────────────────────────────────

// MoveCall appends a Move call and returns its result argument.
func (b *Builder) MoveCall(target MoveTarget, args ...Argument) Argument {
	idx := b.addCommand(&MoveCall{Target: target, Arguments: args})
	return Argument{Kind: ArgResult, Index: idx}
}

// SplitCoins splits each amount off coin and returns one argument per new coin.
func (b *Builder) SplitCoins(coin Argument, amounts ...Argument) []Argument {
	idx := b.addCommand(&SplitCoins{Coin: coin, Amounts: amounts})
	out := make([]Argument, len(amounts))
	for i := range amounts {
		out[i] = Argument{Kind: ArgNestedResult, Index: idx, SubIndex: uint16(i)}
	}
	return out
}

// MergeCoins merges sources into destination.
func (b *Builder) MergeCoins(destination Argument, sources ...Argument) {
	b.addCommand(&MergeCoins{Destination: destination, Sources: sources})
}

// TransferObjects transfers objects to recipient.
func (b *Builder) TransferObjects(objects []Argument, recipient Argument) {
	b.addCommand(&TransferObjects{Objects: objects, Recipient: recipient})
}

// ObjectIDs returns the IDs of every object input, resolved or not.
func (b *Builder) ObjectIDs() []types.ObjectID {
	out := make([]types.ObjectID, 0, len(b.objects))
	for _, in := range b.inputs {
		switch {
		case in.unresolved != nil:
			out = append(out, in.unresolved.ID)
		case in.arg.Object != nil:
			out = append(out, in.arg.Object.ObjectID())
		}
	}
	return out
}

// CommandCount returns the number of commands added so far.
func (b *Builder) CommandCount() int {
	return len(b.commands)
}

// Programmable returns the built inputs and commands. Every object input
// must have been resolved.
func (b *Builder) Programmable() (ProgrammableTransaction, error) {
	if b.err != nil {
		return ProgrammableTransaction{}, b.err
	}
	pt := ProgrammableTransaction{
		Inputs:   make([]CallArg, len(b.inputs)),
		Commands: append([]Command(nil), b.commands...),
	}
	for i, in := range b.inputs {
		if in.unresolved != nil {
			return ProgrammableTransaction{}, fmt.Errorf("input %d (%s): %w", i, in.unresolved.ID, ErrUnresolvedObject)
		}
		pt.Inputs[i] = in.arg
	}
	return pt, nil
}

// Finish assembles and validates the transaction data.
func (b *Builder) Finish(sender types.Address, gas GasData, expirationEpoch uint64) (*TransactionData, error) {
	pt, err := b.Programmable()
	if err != nil {
		return nil, err
	}
	data := &TransactionData{Kind: pt, Sender: sender, Gas: gas, ExpirationEpoch: expirationEpoch}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return data, nil
}
