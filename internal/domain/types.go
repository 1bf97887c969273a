package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var (
	ErrNameRequired     = errors.New("item name is required")
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
	ErrInvalidID        = errors.New("item id must be positive")
	ErrMissingTimestamp = errors.New("item timestamps are required")
)

type Item struct {
	ID          int64     `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description,omitempty"`
	Group       Group     `json:"group" yaml:"group"`
	Status      Status    `json:"status" yaml:"status"`
	Priority    Priority  `json:"priority" yaml:"priority"`
	Price       *Price    `json:"price" yaml:"price,omitempty"`
	Quantity    int       `json:"quantity" yaml:"quantity"`
	Location    string    `json:"location" yaml:"location,omitempty"`
	Tags        string    `json:"tags" yaml:"tags,omitempty"`
	TagList     []string  `json:"tag_list" yaml:"tag_list,omitempty"`
	IsUrgent    bool      `json:"is_urgent" yaml:"is_urgent"`
	IsActive    bool      `json:"is_active" yaml:"is_active"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// Clone returns a copy of it that shares no memory with the original.
func (it Item) Clone() Item {
	if it.Price != nil {
		p := *it.Price
		it.Price = &p
	}
	it.TagList = slices.Clone(it.TagList)
	return it
}

// Validate checks the invariants every item returned by the service must
// hold before it is allowed into a client-side collection.
func (it Item) Validate() error {
	var errs []error
	if it.ID <= 0 {
		errs = append(errs, ErrInvalidID)
	}
	if err := ValidateName(it.Name); err != nil {
		errs = append(errs, err)
	}
	if !it.Group.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidGroup, it.Group))
	}
	if !it.Status.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidStatus, it.Status))
	}
	if !it.Priority.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidPriority, it.Priority))
	}
	if it.Quantity < 1 {
		errs = append(errs, ErrInvalidQuantity)
	}
	if it.Price != nil && it.Price.IsNegative() {
		errs = append(errs, ErrNegativePrice)
	}
	if it.CreatedAt.IsZero() || it.UpdatedAt.IsZero() {
		errs = append(errs, ErrMissingTimestamp)
	}
	return errors.Join(errs...)
}

// ValidateName is the one check the client performs before talking to the
// service.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	return nil
}

// ParseTags splits a comma-separated tag string into trimmed, non-empty tags.
func ParseTags(tags string) []string {
	out := make([]string, 0)
	for _, t := range strings.Split(tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ItemDraft is the create payload.
type ItemDraft struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Group       Group    `json:"group"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`
	Price       *Price   `json:"price,omitempty"`
	Quantity    int      `json:"quantity"`
	Location    string   `json:"location,omitempty"`
	Tags        string   `json:"tags,omitempty"`
}

// NewItemDraft returns a draft with the form defaults filled in.
func NewItemDraft(name string) ItemDraft {
	return ItemDraft{
		Name:     name,
		Group:    DefaultGroup,
		Status:   DefaultStatus,
		Priority: DefaultPriority,
		Quantity: DefaultQuantity,
	}
}

// Validate checks that enum and quantity fields are inside their sets. Name
// is left to ValidateName so callers can decide where that check happens.
func (d ItemDraft) Validate() error {
	var errs []error
	if !d.Group.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidGroup, d.Group))
	}
	if !d.Status.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidStatus, d.Status))
	}
	if !d.Priority.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidPriority, d.Priority))
	}
	if d.Quantity < 1 {
		errs = append(errs, ErrInvalidQuantity)
	}
	if d.Price != nil && d.Price.IsNegative() {
		errs = append(errs, ErrNegativePrice)
	}
	return errors.Join(errs...)
}

// ItemPatch is a partial update. Nil fields are left unchanged; ClearPrice
// sends an explicit null for price.
type ItemPatch struct {
	Name        *string
	Description *string
	Group       *Group
	Status      *Status
	Priority    *Priority
	Price       *Price
	ClearPrice  bool
	Quantity    *int
	Location    *string
	Tags        *string
}

func (p ItemPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Group == nil &&
		p.Status == nil && p.Priority == nil && p.Price == nil && !p.ClearPrice &&
		p.Quantity == nil && p.Location == nil && p.Tags == nil
}

func (p ItemPatch) Validate() error {
	var errs []error
	if p.Group != nil && !p.Group.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidGroup, *p.Group))
	}
	if p.Status != nil && !p.Status.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidStatus, *p.Status))
	}
	if p.Priority != nil && !p.Priority.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidPriority, *p.Priority))
	}
	if p.Quantity != nil && *p.Quantity < 1 {
		errs = append(errs, ErrInvalidQuantity)
	}
	if p.Price != nil && p.Price.IsNegative() {
		errs = append(errs, ErrNegativePrice)
	}
	return errors.Join(errs...)
}

func (p ItemPatch) MarshalJSON() ([]byte, error) {
	m := make(map[string]any)
	if p.Name != nil {
		m["name"] = *p.Name
	}
	if p.Description != nil {
		m["description"] = *p.Description
	}
	if p.Group != nil {
		m["group"] = *p.Group
	}
	if p.Status != nil {
		m["status"] = *p.Status
	}
	if p.Priority != nil {
		m["priority"] = *p.Priority
	}
	switch {
	case p.ClearPrice:
		m["price"] = nil
	case p.Price != nil:
		m["price"] = *p.Price
	}
	if p.Quantity != nil {
		m["quantity"] = *p.Quantity
	}
	if p.Location != nil {
		m["location"] = *p.Location
	}
	if p.Tags != nil {
		m["tags"] = *p.Tags
	}
	return json.Marshal(m)
}

// Filter selects items by group and status; a zero field matches everything.
type Filter struct {
	Group  Group
	Status Status
}

func (f Filter) Match(it Item) bool {
	if f.Group != "" && it.Group != f.Group {
		return false
	}
	if f.Status != "" && it.Status != f.Status {
		return false
	}
	return true
}

func FilterItems(items []Item, f Filter) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if f.Match(it) {
			out = append(out, it)
		}
	}
	return out
}

// Ptr is a convenience for building patches.
func Ptr[T any](v T) *T {
	return &v
}
