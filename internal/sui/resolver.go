package sui

import (
	"context"
	"fmt"

	"github.com/Klingon-tech/hashcase/pkg/tx"
	"github.com/Klingon-tech/hashcase/pkg/types"
)

// ResolveObjects looks up object inputs by ID and returns the object
// arguments a transaction needs: a reference for owned and immutable
// objects, the initial shared version for shared ones. Mutability of shared
// objects is left for the builder to fill in.
func (c *Client) ResolveObjects(ctx context.Context, ids []types.ObjectID) ([]tx.ObjectArg, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	resps, err := c.MultiGetObjects(ctx, ids, ObjectDataOptions{ShowOwner: true})
	if err != nil {
		return nil, err
	}
	out := make([]tx.ObjectArg, len(ids))
	for i, r := range resps {
		if r.Data == nil {
			code := "notExists"
			if r.Error != nil {
				code = r.Error.Code
			}
			return nil, fmt.Errorf("resolve object %s: %s", ids[i], code)
		}
		arg, err := objectArg(r.Data)
		if err != nil {
			return nil, err
		}
		out[i] = arg
	}
	return out, nil
}

func objectArg(d *ObjectData) (tx.ObjectArg, error) {
	if d.Owner == nil {
		return tx.ObjectArg{}, fmt.Errorf("resolve object %s: owner not returned", d.ObjectID)
	}
	switch {
	case d.Owner.Shared != nil:
		return tx.ObjectArg{
			Kind:                 tx.ObjectShared,
			ID:                   d.ObjectID,
			InitialSharedVersion: d.Owner.Shared.InitialSharedVersion,
		}, nil
	case d.Owner.AddressOwner != nil, d.Owner.ObjectOwner != nil, d.Owner.Immutable:
		return tx.ObjectArg{Kind: tx.ObjectImmOrOwned, Ref: d.Ref()}, nil
	default:
		return tx.ObjectArg{}, fmt.Errorf("resolve object %s: unsupported owner kind", d.ObjectID)
	}
}
