package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vbonduro/stockroom/internal/domain"
	"github.com/vbonduro/stockroom/internal/store"
)

var ErrNotFound = store.ErrNotFound

// itemRepository is the subset of store.ItemStore that ItemService requires.
type itemRepository interface {
	Create(ctx context.Context, d domain.ItemDraft) (*domain.Item, error)
	GetByID(ctx context.Context, id int64) (*domain.Item, error)
	ListBy(ctx context.Context, f store.ListFilter) ([]*domain.Item, error)
	Update(ctx context.Context, id int64, p domain.ItemPatch) (*domain.Item, error)
	Delete(ctx context.Context, id int64) error
	ExistsByNameInGroup(ctx context.Context, name string, group domain.Group, excludeID int64) (bool, error)
}

type ItemService struct {
	items  itemRepository
	logger *slog.Logger
}

func NewItemService(items itemRepository, logger *slog.Logger) *ItemService {
	return &ItemService{items: items, logger: logger}
}

func (s *ItemService) ListItems(ctx context.Context) ([]*domain.Item, error) {
	return s.items.ListBy(ctx, store.ListFilter{})
}

func (s *ItemService) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return item, nil
}

// CreateItem validates a create body, applies defaults for omitted fields and
// stores the item.
func (s *ItemService) CreateItem(ctx context.Context, f Fields) (*domain.Item, error) {
	fe := fieldErrors{}
	d := domain.NewItemDraft("")

	if raw, ok := f["name"]; !ok {
		fe.add("name", msgRequired)
	} else if name, ok := parseName(fe, raw); ok {
		d.Name = name
	}
	if raw, ok := f["group"]; !ok {
		fe.add("group", msgRequired)
	} else if g, ok := parseChoice(fe, "group", raw, validGroup); ok {
		d.Group = domain.Group(g)
	}
	if raw, ok := f["status"]; ok {
		if v, ok := parseChoice(fe, "status", raw, validStatus); ok {
			d.Status = domain.Status(v)
		}
	}
	if raw, ok := f["priority"]; ok {
		if v, ok := parseChoice(fe, "priority", raw, validPriority); ok {
			d.Priority = domain.Priority(v)
		}
	}
	if raw, ok := f["description"]; ok {
		d.Description, _ = parseString(fe, "description", raw, true, 0)
	}
	if raw, ok := f["price"]; ok {
		d.Price, _ = parsePrice(fe, raw)
	}
	if raw, ok := f["quantity"]; ok {
		if q, ok := parseQuantity(fe, raw); ok {
			d.Quantity = q
		}
	}
	if raw, ok := f["location"]; ok {
		d.Location, _ = parseString(fe, "location", raw, true, maxLocationLen)
	}
	if raw, ok := f["tags"]; ok {
		d.Tags, _ = parseString(fe, "tags", raw, true, maxTagsLen)
	}
	if err := fe.err(); err != nil {
		return nil, err
	}

	if err := s.checkUnique(ctx, d.Name, d.Group, 0); err != nil {
		return nil, err
	}

	item, err := s.items.Create(ctx, d)
	if errors.Is(err, store.ErrDuplicateName) {
		return nil, duplicateError(d.Name, d.Group)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("item created", "id", item.ID, "name", item.Name, "group", item.Group)
	return item, nil
}

// UpdateItem applies a partial update. Only keys present in f change.
func (s *ItemService) UpdateItem(ctx context.Context, id int64, f Fields) (*domain.Item, error) {
	existing, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	fe := fieldErrors{}
	var p domain.ItemPatch

	if raw, ok := f["name"]; ok {
		if name, ok := parseName(fe, raw); ok {
			p.Name = &name
		}
	}
	if raw, ok := f["group"]; ok {
		if v, ok := parseChoice(fe, "group", raw, validGroup); ok {
			p.Group = domain.Ptr(domain.Group(v))
		}
	}
	if raw, ok := f["status"]; ok {
		if v, ok := parseChoice(fe, "status", raw, validStatus); ok {
			p.Status = domain.Ptr(domain.Status(v))
		}
	}
	if raw, ok := f["priority"]; ok {
		if v, ok := parseChoice(fe, "priority", raw, validPriority); ok {
			p.Priority = domain.Ptr(domain.Priority(v))
		}
	}
	if raw, ok := f["description"]; ok {
		if v, ok := parseString(fe, "description", raw, true, 0); ok {
			p.Description = &v
		}
	}
	if raw, ok := f["price"]; ok {
		if price, ok := parsePrice(fe, raw); ok {
			p.Price = price
			p.ClearPrice = price == nil
		}
	}
	if raw, ok := f["quantity"]; ok {
		if q, ok := parseQuantity(fe, raw); ok {
			p.Quantity = &q
		}
	}
	if raw, ok := f["location"]; ok {
		if v, ok := parseString(fe, "location", raw, true, maxLocationLen); ok {
			p.Location = &v
		}
	}
	if raw, ok := f["tags"]; ok {
		if v, ok := parseString(fe, "tags", raw, true, maxTagsLen); ok {
			p.Tags = &v
		}
	}
	if err := fe.err(); err != nil {
		return nil, err
	}

	name, group := existing.Name, existing.Group
	if p.Name != nil {
		name = *p.Name
	}
	if p.Group != nil {
		group = *p.Group
	}
	if p.Name != nil || p.Group != nil {
		if err := s.checkUnique(ctx, name, group, id); err != nil {
			return nil, err
		}
	}

	item, err := s.items.Update(ctx, id, p)
	if errors.Is(err, store.ErrDuplicateName) {
		return nil, duplicateError(name, group)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("item updated", "id", id)
	return item, nil
}

func (s *ItemService) DeleteItem(ctx context.Context, id int64) error {
	if err := s.items.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("item deleted", "id", id)
	return nil
}

func (s *ItemService) ListByStatus(ctx context.Context, status string) ([]*domain.Item, error) {
	st, err := domain.ParseStatus(status)
	if err != nil {
		return nil, &ValidationError{Fields: map[string][]string{"status": {invalidChoice(status)}}}
	}
	return s.items.ListBy(ctx, store.ListFilter{Status: st})
}

func (s *ItemService) ListByPriority(ctx context.Context, priority string) ([]*domain.Item, error) {
	pr, err := domain.ParsePriority(priority)
	if err != nil {
		return nil, &ValidationError{Fields: map[string][]string{"priority": {invalidChoice(priority)}}}
	}
	return s.items.ListBy(ctx, store.ListFilter{Priority: pr})
}

// ListUrgent returns active items with urgent priority.
func (s *ItemService) ListUrgent(ctx context.Context) ([]*domain.Item, error) {
	return s.items.ListBy(ctx, store.ListFilter{Status: domain.StatusActive, Priority: domain.PriorityUrgent})
}

func (s *ItemService) ListActive(ctx context.Context) ([]*domain.Item, error) {
	return s.items.ListBy(ctx, store.ListFilter{Status: domain.StatusActive})
}

func (s *ItemService) checkUnique(ctx context.Context, name string, group domain.Group, excludeID int64) error {
	exists, err := s.items.ExistsByNameInGroup(ctx, name, group, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check item name: %w", err)
	}
	if exists {
		return duplicateError(name, group)
	}
	return nil
}

func duplicateError(name string, group domain.Group) error {
	return &ValidationError{Fields: map[string][]string{
		nonFieldErrors: {duplicateMessage(name, group)},
	}}
}

type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Constants struct {
	Groups     []Choice                     `json:"groups"`
	Statuses   []Choice                     `json:"statuses"`
	Priorities []Choice                     `json:"priorities"`
	Defaults   map[string]any               `json:"defaults"`
	Colors     map[string]map[string]string `json:"colors"`
}

// Constants describes the choice sets and defaults that item forms use.
func (s *ItemService) Constants() Constants {
	c := Constants{
		Defaults: map[string]any{
			"group":    domain.DefaultGroup,
			"status":   domain.DefaultStatus,
			"priority": domain.DefaultPriority,
			"quantity": domain.DefaultQuantity,
		},
		Colors: map[string]map[string]string{
			"group":    {},
			"status":   {},
			"priority": {},
		},
	}
	for _, g := range domain.Groups() {
		c.Groups = append(c.Groups, choice(string(g)))
		c.Colors["group"][string(g)] = domain.GroupColors[g]
	}
	for _, st := range domain.Statuses() {
		c.Statuses = append(c.Statuses, choice(string(st)))
		c.Colors["status"][string(st)] = domain.StatusColors[st]
	}
	for _, p := range domain.Priorities() {
		c.Priorities = append(c.Priorities, choice(string(p)))
		c.Colors["priority"][string(p)] = domain.PriorityColors[p]
	}
	return c
}

func choice(v string) Choice {
	return Choice{Value: v, Label: strings.ToUpper(v[:1]) + v[1:]}
}
