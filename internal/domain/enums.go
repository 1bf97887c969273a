package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidGroup    = errors.New("invalid group")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPriority = errors.New("invalid priority")
)

type Group string

const (
	GroupPrimary   Group = "Primary"
	GroupSecondary Group = "Secondary"
)

func Groups() []Group {
	return []Group{GroupPrimary, GroupSecondary}
}

func (g Group) Valid() bool {
	switch g {
	case GroupPrimary, GroupSecondary:
		return true
	}
	return false
}

func ParseGroup(s string) (Group, error) {
	g := Group(s)
	if !g.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidGroup, s)
	}
	return g, nil
}

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusArchived Status = "archived"
)

func Statuses() []Status {
	return []Status{StatusActive, StatusInactive, StatusArchived}
}

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusArchived:
		return true
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	return p, nil
}

// Defaults applied by the item service when a field is omitted on create.
const (
	DefaultGroup    = GroupPrimary
	DefaultStatus   = StatusActive
	DefaultPriority = PriorityMedium
	DefaultQuantity = 1
)

// Colour names per enum value, shared by the CLI renderer and the
// service's constants endpoint.
var (
	GroupColors = map[Group]string{
		GroupPrimary:   "blue",
		GroupSecondary: "green",
	}
	StatusColors = map[Status]string{
		StatusActive:   "green",
		StatusInactive: "gray",
		StatusArchived: "red",
	}
	PriorityColors = map[Priority]string{
		PriorityLow:    "green",
		PriorityMedium: "yellow",
		PriorityHigh:   "orange",
		PriorityUrgent: "red",
	}
)
