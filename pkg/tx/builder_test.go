package tx

import (
	"errors"
	"testing"

	"github.com/Klingon-tech/hashcase/pkg/types"
)

func TestBuilder_ObjectDedup(t *testing.T) {
	b := NewBuilder()
	id := types.ObjectID{0x05}
	a1 := b.Object(id, false)
	a2 := b.Object(id, true)
	if a1 != a2 {
		t.Fatalf("same object should reuse input: %s vs %s", a1, a2)
	}
	un := b.Unresolved()
	if len(un) != 1 {
		t.Fatalf("Unresolved() = %d entries, want 1", len(un))
	}
	if !un[0].Mutable {
		t.Error("mutability should be sticky once requested")
	}
}

func TestBuilder_UnresolvedBlocksFinish(t *testing.T) {
	sender := types.Address{0x01}
	b := NewBuilder()
	obj := b.Object(types.ObjectID{0x09}, true)
	b.TransferObjects([]Argument{obj}, b.PureAddress(sender))

	_, err := b.Finish(sender, testGas(sender), 0)
	if !errors.Is(err, ErrUnresolvedObject) {
		t.Fatalf("Finish() err = %v, want ErrUnresolvedObject", err)
	}

	ref := types.ObjectRef{ObjectID: types.ObjectID{0x09}, Version: 4, Digest: types.Digest{0x01}}
	if err := b.Resolve(ObjectArg{Kind: ObjectImmOrOwned, Ref: ref}); err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	data, err := b.Finish(sender, testGas(sender), 0)
	if err != nil {
		t.Fatalf("Finish() after resolve: %v", err)
	}
	if got := data.Kind.Inputs[obj.Index].Object; got == nil || got.Ref != ref {
		t.Errorf("resolved input = %+v, want ref %s", got, ref)
	}
}

func TestBuilder_ResolveSharedKeepsMutability(t *testing.T) {
	b := NewBuilder()
	id := types.ObjectID{0x07}
	arg := b.Object(id, true)
	if err := b.Resolve(ObjectArg{Kind: ObjectShared, ID: id, InitialSharedVersion: 3}); err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	pt, err := b.Programmable()
	if err != nil {
		t.Fatalf("Programmable() error: %v", err)
	}
	obj := pt.Inputs[arg.Index].Object
	if obj.Kind != ObjectShared || !obj.Mutable || obj.InitialSharedVersion != 3 {
		t.Errorf("shared input = %+v, want mutable shared at version 3", obj)
	}
}

func TestBuilder_ResolveUnknown(t *testing.T) {
	b := NewBuilder()
	err := b.Resolve(ObjectArg{Kind: ObjectImmOrOwned, Ref: types.ObjectRef{ObjectID: types.ObjectID{0x42}}})
	if err == nil {
		t.Error("resolving an object that is not an input should fail")
	}
}

func TestBuilder_SplitCoinsResults(t *testing.T) {
	b := NewBuilder()
	b.MoveCall(NewMoveTarget(types.ObjectID{0x01}, "m", "f"))
	outs := b.SplitCoins(GasCoin, b.PureU64(1), b.PureU64(2))
	if len(outs) != 2 {
		t.Fatalf("SplitCoins() returned %d results, want 2", len(outs))
	}
	for i, o := range outs {
		if o.Kind != ArgNestedResult || o.Index != 1 || o.SubIndex != uint16(i) {
			t.Errorf("result %d = %s, want NestedResult(1,%d)", i, o, i)
		}
	}
	if b.CommandCount() != 2 {
		t.Errorf("CommandCount() = %d, want 2", b.CommandCount())
	}
}

func TestBuilder_PureTooLarge(t *testing.T) {
	b := NewBuilder()
	b.PureBytes(make([]byte, MaxPureSize+1))
	if !errors.Is(b.Err(), ErrPureTooLarge) {
		t.Errorf("Err() = %v, want ErrPureTooLarge", b.Err())
	}
	if _, err := b.Programmable(); !errors.Is(err, ErrPureTooLarge) {
		t.Errorf("Programmable() err = %v, want ErrPureTooLarge", err)
	}
}

func TestBuilder_PureEncodings(t *testing.T) {
	b := NewBuilder()
	b.PureU8(7)
	b.PureBool(true)
	b.PureString("hi")
	b.PureStrings([]string{"a", "bc"})
	b.PureBytes([]byte{0xff})
	b.MoveCall(NewMoveTarget(types.ObjectID{0x01}, "m", "f"))

	pt, err := b.Programmable()
	if err != nil {
		t.Fatalf("Programmable() error: %v", err)
	}
	want := [][]byte{
		{0x07},
		{0x01},
		{0x02, 'h', 'i'},
		{0x02, 0x01, 'a', 0x02, 'b', 'c'},
		{0x01, 0xff},
	}
	for i, w := range want {
		if string(pt.Inputs[i].Pure) != string(w) {
			t.Errorf("input %d = %x, want %x", i, pt.Inputs[i].Pure, w)
		}
	}
}

func TestBuilder_SenderAndObjectIDs(t *testing.T) {
	sender := types.Address{0x0a}
	b := NewBuilder().SetSender(sender)
	if b.Sender() != sender {
		t.Errorf("Sender() = %s", b.Sender())
	}
	b.PureU64(1)
	b.Object(types.ObjectID{0x01}, true)
	b.SharedObject(types.ObjectID{0x02}, 1, false)
	ids := b.ObjectIDs()
	if len(ids) != 2 || ids[0] != (types.ObjectID{0x01}) || ids[1] != (types.ObjectID{0x02}) {
		t.Errorf("ObjectIDs() = %v", ids)
	}
}
