package points

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"

	"github.com/Klingon-tech/hashcase/pkg/types"
)

const testType = "0x2::coin::Coin<0xabc::loyalty_points::LOYALTY_POINTS>"

// fakeLister serves a fixed object list in pages of the given sizes. The
// last size repeats. Cursors are decimal offsets.
type fakeLister struct {
	mu      sync.Mutex
	objects []Object
	sizes   []int
	err     error
	calls   int
	owners  []types.Address
}

func (f *fakeLister) ListOwned(ctx context.Context, owner types.Address, typeTag, cursor string) (Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.owners = append(f.owners, owner)
	if f.err != nil {
		return Page{}, f.err
	}
	if typeTag != testType {
		return Page{}, errors.New("unexpected type tag " + typeTag)
	}
	start := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil {
			return Page{}, err
		}
		start = n
	}
	size := len(f.objects)
	if len(f.sizes) > 0 {
		idx := f.calls - 1
		if idx >= len(f.sizes) {
			idx = len(f.sizes) - 1
		}
		size = f.sizes[idx]
	}
	end := start + size
	if end > len(f.objects) {
		end = len(f.objects)
	}
	page := Page{Items: append([]Object(nil), f.objects[start:end]...)}
	if end < len(f.objects) {
		page.HasMore = true
		page.NextCursor = strconv.Itoa(end)
	}
	return page, nil
}

func (f *fakeLister) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func obj(id byte, balance interface{}) Object {
	o := Object{ID: types.ObjectID{id}, Version: types.SequenceNumber(id), Type: testType, Fields: map[string]json.RawMessage{}}
	if balance != nil {
		raw, _ := json.Marshal(balance)
		o.Fields["balance"] = raw
	}
	return o
}

func handle(id byte, balance uint64) TokenHandle {
	return TokenHandle{ID: types.ObjectID{id}, Version: types.SequenceNumber(id), Balance: balance}
}

const testOwner = "0x00000000000000000000000000000000000000000000000000000000000000a1"
