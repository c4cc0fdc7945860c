package sui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Klingon-tech/hashcase/internal/points"
	"github.com/Klingon-tech/hashcase/pkg/types"
)

// ErrObjectUnavailable is returned when the node lists an owned object but
// cannot return its data. A total that skipped it would be short.
var ErrObjectUnavailable = errors.New("owned object unavailable")

// OwnedLister lists owned objects of a struct type via suix_getOwnedObjects.
// It satisfies points.Lister.
type OwnedLister struct {
	client   *Client
	pageSize int
}

// NewOwnedLister creates a lister. pageSize <= 0 uses the node default.
func NewOwnedLister(client *Client, pageSize int) *OwnedLister {
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return &OwnedLister{client: client, pageSize: pageSize}
}

// ListOwned returns one page of owner's objects of typeTag with their fields.
func (l *OwnedLister) ListOwned(ctx context.Context, owner types.Address, typeTag, cursor string) (points.Page, error) {
	query := ObjectResponseQuery{
		Filter:  &ObjectFilter{StructType: typeTag},
		Options: &ObjectDataOptions{ShowType: true, ShowContent: true},
	}
	resp, err := l.client.GetOwnedObjects(ctx, owner, query, cursor, l.pageSize)
	if err != nil {
		return points.Page{}, err
	}

	page := points.Page{HasMore: resp.HasNextPage}
	if resp.NextCursor != nil {
		page.NextCursor = *resp.NextCursor
	}
	for _, item := range resp.Data {
		if item.Data == nil {
			if item.Error != nil {
				return points.Page{}, fmt.Errorf("%w: %s (%s)", ErrObjectUnavailable, item.Error.ObjectID, item.Error.Code)
			}
			return points.Page{}, fmt.Errorf("%w: entry without data", ErrObjectUnavailable)
		}
		obj := points.Object{
			ID:      item.Data.ObjectID,
			Version: item.Data.Version,
			Digest:  item.Data.Digest,
			Type:    item.Data.Type,
		}
		if item.Data.Content != nil {
			obj.Fields = item.Data.Content.Fields
			if obj.Type == "" {
				obj.Type = item.Data.Content.Type
			}
		}
		page.Items = append(page.Items, obj)
	}
	return page, nil
}
