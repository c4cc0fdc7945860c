// Package tx builds and encodes Sui programmable transaction blocks.
package tx

import (
	"fmt"

	"github.com/Klingon-tech/hashcase/pkg/bcs"
	"github.com/Klingon-tech/hashcase/pkg/crypto"
	"github.com/Klingon-tech/hashcase/pkg/types"
)

// ArgumentKind selects which value a command argument refers to.
type ArgumentKind uint8

const (
	ArgGasCoin      ArgumentKind = 0
	ArgInput        ArgumentKind = 1
	ArgResult       ArgumentKind = 2
	ArgNestedResult ArgumentKind = 3
)

// Argument references a transaction input, the gas coin, or the result of
// an earlier command.
type Argument struct {
	Kind     ArgumentKind
	Index    uint16
	SubIndex uint16
}

// GasCoin is the argument for the transaction's gas payment coin.
var GasCoin = Argument{Kind: ArgGasCoin}

func (a Argument) String() string {
	switch a.Kind {
	case ArgGasCoin:
		return "GasCoin"
	case ArgInput:
		return fmt.Sprintf("Input(%d)", a.Index)
	case ArgResult:
		return fmt.Sprintf("Result(%d)", a.Index)
	case ArgNestedResult:
		return fmt.Sprintf("NestedResult(%d,%d)", a.Index, a.SubIndex)
	default:
		return fmt.Sprintf("Argument(kind=%d)", a.Kind)
	}
}

func (a Argument) encode(e *bcs.Encoder) {
	e.Variant(uint32(a.Kind))
	switch a.Kind {
	case ArgInput, ArgResult:
		e.U16(a.Index)
	case ArgNestedResult:
		e.U16(a.Index).U16(a.SubIndex)
	}
}

func encodeArgs(e *bcs.Encoder, args []Argument) {
	e.Length(len(args))
	for _, a := range args {
		a.encode(e)
	}
}

// ObjectArgKind distinguishes owned and shared object inputs.
type ObjectArgKind uint8

const (
	ObjectImmOrOwned ObjectArgKind = 0
	ObjectShared     ObjectArgKind = 1
	ObjectReceiving  ObjectArgKind = 2
)

// ObjectArg is a resolved object input.
type ObjectArg struct {
	Kind ObjectArgKind
	// Ref is used for owned, immutable and receiving objects.
	Ref types.ObjectRef
	// ID, InitialSharedVersion and Mutable describe a shared object.
	ID                   types.ObjectID
	InitialSharedVersion types.SequenceNumber
	Mutable              bool
}

// ObjectID returns the object's ID regardless of kind.
func (o ObjectArg) ObjectID() types.ObjectID {
	if o.Kind == ObjectShared {
		return o.ID
	}
	return o.Ref.ObjectID
}

func (o ObjectArg) encode(e *bcs.Encoder) {
	e.Variant(uint32(o.Kind))
	switch o.Kind {
	case ObjectShared:
		e.Fixed(o.ID[:]).U64(uint64(o.InitialSharedVersion)).Bool(o.Mutable)
	default:
		encodeObjectRef(e, o.Ref)
	}
}

func encodeObjectRef(e *bcs.Encoder, r types.ObjectRef) {
	e.Fixed(r.ObjectID[:]).U64(uint64(r.Version)).ByteVector(r.Digest[:])
}

// CallArg is a transaction input: either pure BCS bytes or an object.
type CallArg struct {
	Pure   []byte
	Object *ObjectArg
}

func (c CallArg) encode(e *bcs.Encoder) {
	if c.Object != nil {
		e.Variant(1)
		c.Object.encode(e)
		return
	}
	e.Variant(0).ByteVector(c.Pure)
}

// Command is one step of a programmable transaction.
type Command interface {
	encode(e *bcs.Encoder)
	arguments() []Argument
}

// MoveCall invokes a public Move function. Type arguments are not supported.
type MoveCall struct {
	Target    MoveTarget
	Arguments []Argument
}

func (c *MoveCall) encode(e *bcs.Encoder) {
	e.Variant(0)
	e.Fixed(c.Target.Package[:]).String(c.Target.Module).String(c.Target.Function)
	e.Length(0) // type arguments
	encodeArgs(e, c.Arguments)
}

func (c *MoveCall) arguments() []Argument { return c.Arguments }

// TransferObjects sends objects to a recipient address argument.
type TransferObjects struct {
	Objects   []Argument
	Recipient Argument
}

func (c *TransferObjects) encode(e *bcs.Encoder) {
	e.Variant(1)
	encodeArgs(e, c.Objects)
	c.Recipient.encode(e)
}

func (c *TransferObjects) arguments() []Argument {
	return append(append([]Argument(nil), c.Objects...), c.Recipient)
}

// SplitCoins splits amounts off a coin, producing one new coin per amount.
type SplitCoins struct {
	Coin    Argument
	Amounts []Argument
}

func (c *SplitCoins) encode(e *bcs.Encoder) {
	e.Variant(2)
	c.Coin.encode(e)
	encodeArgs(e, c.Amounts)
}

func (c *SplitCoins) arguments() []Argument {
	return append([]Argument{c.Coin}, c.Amounts...)
}

// MergeCoins merges sources into the destination coin in place.
type MergeCoins struct {
	Destination Argument
	Sources     []Argument
}

func (c *MergeCoins) encode(e *bcs.Encoder) {
	e.Variant(3)
	c.Destination.encode(e)
	encodeArgs(e, c.Sources)
}

func (c *MergeCoins) arguments() []Argument {
	return append([]Argument{c.Destination}, c.Sources...)
}

// ProgrammableTransaction is the inputs and commands of a transaction block.
type ProgrammableTransaction struct {
	Inputs   []CallArg
	Commands []Command
}

// GasData describes how the transaction pays for gas.
type GasData struct {
	Payment []types.ObjectRef
	Owner   types.Address
	Price   uint64
	Budget  uint64
}

// TransactionData is the unsigned transaction submitted for signing.
type TransactionData struct {
	Kind   ProgrammableTransaction
	Sender types.Address
	Gas    GasData
	// ExpirationEpoch, if non-zero, makes the transaction invalid after that epoch.
	ExpirationEpoch uint64
}

// Marshal returns the BCS encoding of TransactionData (V1).
func (t *TransactionData) Marshal() []byte {
	e := bcs.NewEncoder()
	e.Variant(0) // TransactionData::V1
	e.Variant(0) // TransactionKind::ProgrammableTransaction

	e.Length(len(t.Kind.Inputs))
	for _, in := range t.Kind.Inputs {
		in.encode(e)
	}
	e.Length(len(t.Kind.Commands))
	for _, c := range t.Kind.Commands {
		c.encode(e)
	}

	e.Fixed(t.Sender[:])

	e.Length(len(t.Gas.Payment))
	for _, r := range t.Gas.Payment {
		encodeObjectRef(e, r)
	}
	e.Fixed(t.Gas.Owner[:])
	e.U64(t.Gas.Price)
	e.U64(t.Gas.Budget)

	if t.ExpirationEpoch == 0 {
		e.Variant(0)
	} else {
		e.Variant(1).U64(t.ExpirationEpoch)
	}
	return e.Bytes()
}

// Digest returns the transaction digest the network assigns to this data.
func (t *TransactionData) Digest() types.Digest {
	return types.Digest(crypto.Blake2b256([]byte("TransactionData::"), t.Marshal()))
}
