package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/vbonduro/stockroom/internal/domain"
)

var (
	ErrNotFound      = errors.New("item not found")
	ErrDuplicateName = errors.New("item name already exists in group")
)

// timeLayout sorts lexicographically in the same order as the instants it
// encodes.
const timeLayout = "2006-01-02T15:04:05.000000Z"

var itemColumns = []string{
	"id", "name", "description", "grp", "status", "priority", "price",
	"quantity", "location", "tags", "created_at", "updated_at",
}

// ListFilter narrows List; zero fields match everything.
type ListFilter struct {
	Group    domain.Group
	Status   domain.Status
	Priority domain.Priority
}

type ItemStore struct {
	db  *sql.DB
	sb  sq.StatementBuilderType
	now func() time.Time
}

func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{
		db:  db,
		sb:  sq.StatementBuilder.PlaceholderFormat(sq.Question),
		now: time.Now,
	}
}

func (s *ItemStore) timestamp() string {
	return s.now().UTC().Format(timeLayout)
}

func (s *ItemStore) Create(ctx context.Context, d domain.ItemDraft) (*domain.Item, error) {
	now := s.timestamp()
	query := s.sb.
		Insert("items").
		Columns("name", "description", "grp", "status", "priority", "price",
			"quantity", "location", "tags", "created_at", "updated_at").
		Values(d.Name, d.Description, string(d.Group), string(d.Status), string(d.Priority),
			priceValue(d.Price), d.Quantity, d.Location, d.Tags, now, now)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build item insert: %w", err)
	}

	result, err := s.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", mapConstraintErr(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID returns nil, nil when no item has the id.
func (s *ItemStore) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	sqlStr, args, err := s.sb.Select(itemColumns...).From("items").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build item query: %w", err)
	}

	item, err := scanItem(s.db.QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// List returns every item, newest first.
func (s *ItemStore) List(ctx context.Context) ([]*domain.Item, error) {
	return s.ListBy(ctx, ListFilter{})
}

func (s *ItemStore) ListBy(ctx context.Context, f ListFilter) ([]*domain.Item, error) {
	query := s.sb.Select(itemColumns...).From("items").OrderBy("created_at DESC", "id DESC")
	if f.Group != "" {
		query = query.Where(sq.Eq{"grp": string(f.Group)})
	}
	if f.Status != "" {
		query = query.Where(sq.Eq{"status": string(f.Status)})
	}
	if f.Priority != "" {
		query = query.Where(sq.Eq{"priority": string(f.Priority)})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build item list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	items := make([]*domain.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	return items, nil
}

// Update writes only the fields set in p and bumps updated_at.
func (s *ItemStore) Update(ctx context.Context, id int64, p domain.ItemPatch) (*domain.Item, error) {
	query := s.sb.Update("items").Where(sq.Eq{"id": id})
	if p.Name != nil {
		query = query.Set("name", *p.Name)
	}
	if p.Description != nil {
		query = query.Set("description", *p.Description)
	}
	if p.Group != nil {
		query = query.Set("grp", string(*p.Group))
	}
	if p.Status != nil {
		query = query.Set("status", string(*p.Status))
	}
	if p.Priority != nil {
		query = query.Set("priority", string(*p.Priority))
	}
	switch {
	case p.ClearPrice:
		query = query.Set("price", nil)
	case p.Price != nil:
		query = query.Set("price", p.Price.String())
	}
	if p.Quantity != nil {
		query = query.Set("quantity", *p.Quantity)
	}
	if p.Location != nil {
		query = query.Set("location", *p.Location)
	}
	if p.Tags != nil {
		query = query.Set("tags", *p.Tags)
	}
	query = query.Set("updated_at", s.timestamp())

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build item update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", mapConstraintErr(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return s.GetByID(ctx, id)
}

func (s *ItemStore) Delete(ctx context.Context, id int64) error {
	sqlStr, args, err := s.sb.Delete("items").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build item delete: %w", err)
	}

	result, err := s.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// ExistsByNameInGroup reports whether another item (not excludeID) already
// uses name in group.
func (s *ItemStore) ExistsByNameInGroup(ctx context.Context, name string, group domain.Group, excludeID int64) (bool, error) {
	query := s.sb.Select("COUNT(*)").From("items").
		Where(sq.Eq{"name": name, "grp": string(group)})
	if excludeID != 0 {
		query = query.Where(sq.NotEq{"id": excludeID})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build name check: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check item name: %w", err)
	}
	return count > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var (
		item                 domain.Item
		group, status, prio  string
		price                sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(&item.ID, &item.Name, &item.Description, &group, &status, &prio,
		&price, &item.Quantity, &item.Location, &item.Tags, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	item.Group = domain.Group(group)
	item.Status = domain.Status(status)
	item.Priority = domain.Priority(prio)
	if price.Valid {
		p, err := domain.ParsePrice(price.String)
		if err != nil {
			return nil, fmt.Errorf("invalid stored price for item %d: %w", item.ID, err)
		}
		item.Price = &p
	}
	if item.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at for item %d: %w", item.ID, err)
	}
	if item.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("invalid updated_at for item %d: %w", item.ID, err)
	}

	item.TagList = domain.ParseTags(item.Tags)
	item.IsUrgent = item.Priority == domain.PriorityUrgent
	item.IsActive = item.Status == domain.StatusActive
	return &item, nil
}

func priceValue(p *domain.Price) any {
	if p == nil {
		return nil
	}
	return p.String()
}

func mapConstraintErr(err error) error {
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", ErrDuplicateName, err)
	}
	return err
}
