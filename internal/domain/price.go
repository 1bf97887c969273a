package domain

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrNegativePrice = errors.New("price must be a positive number")

// Price is a non-negative amount with two decimal places. On the wire it is
// a quoted fixed-point string ("12.50").
type Price struct {
	decimal.Decimal
}

func NewPrice(d decimal.Decimal) Price {
	return Price{Decimal: d.Round(2)}
}

// ParsePrice accepts values such as "12", "12.5" or "12.50".
func ParsePrice(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, fmt.Errorf("failed to parse price %q: %w", s, err)
	}
	if d.IsNegative() {
		return Price{}, ErrNegativePrice
	}
	return NewPrice(d), nil
}

func MustParsePrice(s string) Price {
	p, err := ParsePrice(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Price) String() string {
	return p.StringFixed(2)
}

func (p Price) Equal(other Price) bool {
	return p.Decimal.Equal(other.Decimal)
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("failed to decode price: %w", err)
	}
	p.Decimal = d
	return nil
}

func (p Price) MarshalYAML() (any, error) {
	return p.String(), nil
}
