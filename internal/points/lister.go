package points

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/Klingon-tech/hashcase/pkg/types"
)

// maxPages bounds a single exhaustive listing.
const maxPages = 10_000

// errCursorStuck is reported when a page claims more results but repeats
// the cursor it was given.
var errCursorStuck = errors.New("listing cursor did not advance")

// Object is one owned object as returned by a listing.
type Object struct {
	ID      types.ObjectID
	Version types.SequenceNumber
	Digest  types.Digest
	Type    string
	Fields  map[string]json.RawMessage
}

// Ref returns the object's reference at the listed version.
func (o Object) Ref() types.ObjectRef {
	return types.ObjectRef{ObjectID: o.ID, Version: o.Version, Digest: o.Digest}
}

// Page is one page of a paginated listing.
type Page struct {
	Items      []Object
	NextCursor string
	HasMore    bool
}

// Lister lists objects of one type owned by an address, one page at a time.
// An empty cursor requests the first page.
type Lister interface {
	ListOwned(ctx context.Context, owner types.Address, typeTag, cursor string) (Page, error)
}

// TokenHandle is a snapshot of one fungible token object. The balance is a
// hint; it may have changed on chain since it was read.
type TokenHandle struct {
	ID      types.ObjectID
	Version types.SequenceNumber
	Digest  types.Digest
	Balance uint64
}

// Ref returns the handle's object reference.
func (h TokenHandle) Ref() types.ObjectRef {
	return types.ObjectRef{ObjectID: h.ID, Version: h.Version, Digest: h.Digest}
}

// Balance reads the "balance" field of an object. The field may be a
// decimal string or a JSON number. Absent or non-numeric yields 0.
func Balance(o Object) uint64 {
	raw, ok := o.Fields["balance"]
	if !ok {
		return 0
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0
		}
		return n
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return 0
	}
	n, err := strconv.ParseUint(num.String(), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// HandleFromObject converts a listed object to a token handle.
func HandleFromObject(o Object) TokenHandle {
	return TokenHandle{ID: o.ID, Version: o.Version, Digest: o.Digest, Balance: Balance(o)}
}

// walk visits every page of owner's objects of typeTag in listing order.
func walk(ctx context.Context, l Lister, owner types.Address, typeTag string, visit func(Object) error) (int, error) {
	cursor := ""
	for pages := 1; ; pages++ {
		if err := ctx.Err(); err != nil {
			return pages - 1, err
		}
		if pages > maxPages {
			return pages - 1, fmt.Errorf("listing exceeded %d pages", maxPages)
		}
		page, err := l.ListOwned(ctx, owner, typeTag, cursor)
		if err != nil {
			return pages, err
		}
		for _, o := range page.Items {
			if err := visit(o); err != nil {
				return pages, err
			}
		}
		if !page.HasMore {
			return pages, nil
		}
		if page.NextCursor == "" || page.NextCursor == cursor {
			return pages, errCursorStuck
		}
		cursor = page.NextCursor
	}
}

// ListHandles lists every token handle of typeTag owned by owner, in
// listing order. Any listing failure is returned as a *QueryError.
func ListHandles(ctx context.Context, l Lister, owner types.Address, typeTag string) ([]TokenHandle, error) {
	var handles []TokenHandle
	_, err := walk(ctx, l, owner, typeTag, func(o Object) error {
		handles = append(handles, HandleFromObject(o))
		return nil
	})
	if err != nil {
		return nil, &QueryError{Owner: owner.String(), Err: err}
	}
	return handles, nil
}
