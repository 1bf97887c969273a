// Package itemapi binds the transport client to the /items/ resource of the
// item service.
package itemapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/vbonduro/stockroom/internal/domain"
	"github.com/vbonduro/stockroom/internal/transport"
)

const itemsPath = "/items/"

type API struct {
	t *transport.Client
}

func New(t *transport.Client) *API {
	return &API{t: t}
}

func itemPath(id int64) string {
	return fmt.Sprintf("%s%d/", itemsPath, id)
}

func (a *API) ListItems(ctx context.Context) ([]domain.Item, error) {
	var items []domain.Item
	if err := a.t.Get(ctx, itemsPath, &items); err != nil {
		return nil, classify(err, 0, false)
	}
	if items == nil {
		return nil, &DecodeError{Op: "list", Err: errors.New("expected a JSON array")}
	}
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return nil, &DecodeError{Op: "list", Err: fmt.Errorf("item at index %d: %w", i, err)}
		}
	}
	return items, nil
}

func (a *API) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	var item domain.Item
	if err := a.t.Get(ctx, itemPath(id), &item); err != nil {
		return nil, classify(err, id, true)
	}
	return checked("get", &item)
}

func (a *API) CreateItem(ctx context.Context, draft domain.ItemDraft) (*domain.Item, error) {
	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("invalid item draft: %w", err)
	}
	var item domain.Item
	if err := a.t.Post(ctx, itemsPath, draft, &item); err != nil {
		return nil, classify(err, 0, false)
	}
	return checked("create", &item)
}

func (a *API) UpdateItem(ctx context.Context, id int64, patch domain.ItemPatch) (*domain.Item, error) {
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("invalid item patch: %w", err)
	}
	var item domain.Item
	if err := a.t.Patch(ctx, itemPath(id), patch, &item); err != nil {
		return nil, classify(err, id, true)
	}
	return checked("update", &item)
}

// DeleteItem removes an item. The store never calls it.
func (a *API) DeleteItem(ctx context.Context, id int64) error {
	if err := a.t.Delete(ctx, itemPath(id)); err != nil {
		return classify(err, id, true)
	}
	return nil
}

func checked(op string, item *domain.Item) (*domain.Item, error) {
	if err := item.Validate(); err != nil {
		return nil, &DecodeError{Op: op, Err: err}
	}
	return item, nil
}

// classify maps transport failures onto the item error taxonomy. single marks
// requests addressed to one item, where a 404 means the item is gone. Anything
// it does not recognise is returned unchanged.
func classify(err error, id int64, single bool) error {
	var terr *transport.Error
	if !errors.As(err, &terr) {
		return err
	}
	switch {
	case terr.StatusCode == http.StatusNotFound && single:
		return &NotFoundError{ID: id}
	case terr.StatusCode == http.StatusBadRequest && terr.HasBody():
		return &ValidationError{StatusCode: terr.StatusCode, Fields: parseFields(terr.Detail)}
	case terr.StatusCode >= 200 && terr.StatusCode < 300:
		return &DecodeError{Op: terr.Method + " " + terr.Path, Err: terr}
	}
	return err
}
