package service

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/stockroom/internal/db"
	"github.com/vbonduro/stockroom/internal/domain"
	"github.com/vbonduro/stockroom/internal/logging"
	"github.com/vbonduro/stockroom/internal/store"
)

func newTestService(t *testing.T) *ItemService {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })
	return NewItemService(store.NewItemStore(d), logging.Discard())
}

func fields(t *testing.T, body string) Fields {
	t.Helper()
	var f Fields
	require.NoError(t, json.Unmarshal([]byte(body), &f))
	return f
}

func validationFields(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr.Fields
}

func TestCreateItemDefaults(t *testing.T) {
	svc := newTestService(t)

	item, err := svc.CreateItem(context.Background(), fields(t, `{"name": "  Drill ", "group": "Primary"}`))

	require.NoError(t, err)
	assert.Equal(t, "Drill", item.Name)
	assert.Equal(t, domain.StatusActive, item.Status)
	assert.Equal(t, domain.PriorityMedium, item.Priority)
	assert.Equal(t, 1, item.Quantity)
	assert.Nil(t, item.Price)
}

func TestCreateItemAllFields(t *testing.T) {
	svc := newTestService(t)

	item, err := svc.CreateItem(context.Background(), fields(t, `{
		"name": "Ladder", "group": "Secondary", "status": "inactive",
		"priority": "urgent", "price": 49.9, "quantity": "3",
		"description": null, "location": "Shed", "tags": "tall, aluminium"
	}`))

	require.NoError(t, err)
	assert.Equal(t, domain.GroupSecondary, item.Group)
	assert.Equal(t, "49.90", item.Price.String())
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, []string{"tall", "aluminium"}, item.TagList)
	assert.True(t, item.IsUrgent)
	assert.False(t, item.IsActive)
}

func TestCreateItemValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
		msg   string
	}{
		{"missing name", `{"group": "Primary"}`, "name", "This field is required."},
		{"blank name", `{"name": "   ", "group": "Primary"}`, "name", "This field may not be blank."},
		{"null name", `{"name": null, "group": "Primary"}`, "name", "This field may not be null."},
		{"missing group", `{"name": "Drill"}`, "group", "This field is required."},
		{"bad group", `{"name": "Drill", "group": "primary"}`, "group", `"primary" is not a valid choice.`},
		{"bad status", `{"name": "Drill", "group": "Primary", "status": "deleted"}`, "status", `"deleted" is not a valid choice.`},
		{"bad priority", `{"name": "Drill", "group": "Primary", "priority": "critical"}`, "priority", `"critical" is not a valid choice.`},
		{"negative price", `{"name": "Drill", "group": "Primary", "price": "-1"}`, "price", "Ensure this value is greater than or equal to 0."},
		{"price places", `{"name": "Drill", "group": "Primary", "price": "1.234"}`, "price", "Ensure that there are no more than 2 decimal places."},
		{"price digits", `{"name": "Drill", "group": "Primary", "price": "123456789"}`, "price", "Ensure that there are no more than 10 digits in total."},
		{"price text", `{"name": "Drill", "group": "Primary", "price": "cheap"}`, "price", "A valid number is required."},
		{"zero quantity", `{"name": "Drill", "group": "Primary", "quantity": 0}`, "quantity", "Ensure this value is greater than or equal to 1."},
		{"fractional quantity", `{"name": "Drill", "group": "Primary", "quantity": 1.5}`, "quantity", "A valid integer is required."},
		{"long location", `{"name": "Drill", "group": "Primary", "location": "` + strings.Repeat("x", 201) + `"}`, "location", "Ensure this field has no more than 200 characters."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t)

			_, err := svc.CreateItem(context.Background(), fields(t, tt.body))

			got := validationFields(t, err)
			assert.Equal(t, []string{tt.msg}, got[tt.field])
		})
	}
}

func TestCreateItemCollectsEveryFieldError(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateItem(context.Background(), fields(t, `{"name": "", "quantity": 0}`))

	got := validationFields(t, err)
	assert.Contains(t, got, "name")
	assert.Contains(t, got, "group")
	assert.Contains(t, got, "quantity")
}

func TestCreateItemDuplicateName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateItem(ctx, fields(t, `{"name": "Drill", "group": "Primary"}`))
	require.NoError(t, err)

	_, err = svc.CreateItem(ctx, fields(t, `{"name": "Drill", "group": "Primary"}`))
	got := validationFields(t, err)
	assert.Equal(t, []string{"An item with name 'Drill' already exists in the Primary group."}, got["non_field_errors"])

	_, err = svc.CreateItem(ctx, fields(t, `{"name": "Drill", "group": "Secondary"}`))
	assert.NoError(t, err)
}

func TestUpdateItemPartial(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateItem(ctx, fields(t, `{"name": "Drill", "group": "Primary", "quantity": 5, "price": "10.00", "location": "Garage"}`))
	require.NoError(t, err)

	updated, err := svc.UpdateItem(ctx, created.ID, fields(t, `{"quantity": 9}`))
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Quantity)
	assert.Equal(t, "Garage", updated.Location)
	assert.Equal(t, "10.00", updated.Price.String())

	updated, err = svc.UpdateItem(ctx, created.ID, fields(t, `{"price": null, "location": null}`))
	require.NoError(t, err)
	assert.Nil(t, updated.Price)
	assert.Empty(t, updated.Location)
}

func TestUpdateItemValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateItem(ctx, fields(t, `{"name": "Drill", "group": "Primary"}`))
	require.NoError(t, err)

	_, err = svc.UpdateItem(ctx, created.ID, fields(t, `{"name": "  "}`))
	assert.Equal(t, []string{"This field may not be blank."}, validationFields(t, err)["name"])

	_, err = svc.UpdateItem(ctx, created.ID, fields(t, `{"status": "gone"}`))
	assert.Contains(t, validationFields(t, err), "status")
}

func TestUpdateItemDuplicateUsesEffectiveGroup(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateItem(ctx, fields(t, `{"name": "Saw", "group": "Primary"}`))
	require.NoError(t, err)
	drill, err := svc.CreateItem(ctx, fields(t, `{"name": "Drill", "group": "Primary"}`))
	require.NoError(t, err)

	_, err = svc.UpdateItem(ctx, drill.ID, fields(t, `{"name": "Saw"}`))
	got := validationFields(t, err)
	assert.Equal(t, []string{"An item with name 'Saw' already exists in the Primary group."}, got["non_field_errors"])

	// Renaming to its own name is not a conflict.
	_, err = svc.UpdateItem(ctx, drill.ID, fields(t, `{"name": "Drill"}`))
	assert.NoError(t, err)
}

// uncheckedRepo skips the pre-check so the database constraint is what
// rejects the duplicate.
type uncheckedRepo struct {
	*store.ItemStore
}

func (uncheckedRepo) ExistsByNameInGroup(context.Context, string, domain.Group, int64) (bool, error) {
	return false, nil
}

func TestUpdateItemConstraintErrorNamesPatchedValues(t *testing.T) {
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })
	svc := NewItemService(uncheckedRepo{store.NewItemStore(d)}, logging.Discard())
	ctx := context.Background()

	_, err = svc.CreateItem(ctx, fields(t, `{"name": "Saw", "group": "Secondary"}`))
	require.NoError(t, err)
	drill, err := svc.CreateItem(ctx, fields(t, `{"name": "Drill", "group": "Primary"}`))
	require.NoError(t, err)

	_, err = svc.UpdateItem(ctx, drill.ID, fields(t, `{"name": "Saw", "group": "Secondary"}`))

	got := validationFields(t, err)
	assert.Equal(t, []string{"An item with name 'Saw' already exists in the Secondary group."}, got["non_field_errors"])
}

func TestUpdateItemNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.UpdateItem(context.Background(), 999, fields(t, `{"quantity": 2}`))

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetAndDeleteItem(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetItem(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	created, err := svc.CreateItem(ctx, fields(t, `{"name": "Drill", "group": "Primary"}`))
	require.NoError(t, err)

	got, err := svc.GetItem(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	require.NoError(t, svc.DeleteItem(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteItem(ctx, created.ID), ErrNotFound)
}

func TestFilteredLists(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, body := range []string{
		`{"name": "A", "group": "Primary", "priority": "urgent"}`,
		`{"name": "B", "group": "Primary", "priority": "urgent", "status": "archived"}`,
		`{"name": "C", "group": "Secondary", "priority": "low"}`,
	} {
		_, err := svc.CreateItem(ctx, fields(t, body))
		require.NoError(t, err)
	}

	urgent, err := svc.ListUrgent(ctx)
	require.NoError(t, err)
	require.Len(t, urgent, 1)
	assert.Equal(t, "A", urgent[0].Name)

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	archived, err := svc.ListByStatus(ctx, "archived")
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, "B", archived[0].Name)

	low, err := svc.ListByPriority(ctx, "low")
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "C", low[0].Name)

	_, err = svc.ListByStatus(ctx, "bogus")
	assert.Contains(t, validationFields(t, err), "status")

	all, err := svc.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestConstants(t *testing.T) {
	svc := newTestService(t)

	c := svc.Constants()

	require.Len(t, c.Groups, 2)
	assert.Equal(t, Choice{Value: "Primary", Label: "Primary"}, c.Groups[0])
	require.Len(t, c.Statuses, 3)
	assert.Equal(t, Choice{Value: "active", Label: "Active"}, c.Statuses[0])
	assert.Len(t, c.Priorities, 4)
	assert.Equal(t, domain.DefaultQuantity, c.Defaults["quantity"])
	assert.Equal(t, "red", c.Colors["priority"]["urgent"])
}
