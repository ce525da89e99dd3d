package domain

import (
	"encoding/json"
	"fmt"
)

// Direction is the sign convention of a category: income adds to the account
// balance, outcome subtracts from it. Transaction amounts are always
// non-negative magnitudes; direction is derived from the category alone.
type Direction string

const (
	Income  Direction = "income"
	Outcome Direction = "outcome"
)

// Category is reference data describing a transaction kind. Categories are
// effectively immutable from the cache's point of view.
type Category struct {
	ID       int
	Name     string
	Emoji    rune // single display glyph
	IsIncome bool
}

// Direction derives the category direction from the IsIncome flag.
func (c Category) Direction() Direction {
	if c.IsIncome {
		return Income
	}
	return Outcome
}

// FilterByDirection returns the categories matching d, preserving order.
func FilterByDirection(categories []Category, d Direction) []Category {
	var out []Category
	for _, c := range categories {
		if c.Direction() == d {
			out = append(out, c)
		}
	}
	return out
}

// categoryJSON is the wire shape: the emoji travels as a one-character string.
type categoryJSON struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Emoji    string `json:"emoji"`
	IsIncome bool   `json:"isIncome"`
}

// MarshalJSON implements json.Marshaler.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(categoryJSON{
		ID:       c.ID,
		Name:     c.Name,
		Emoji:    string(c.Emoji),
		IsIncome: c.IsIncome,
	})
}

// UnmarshalJSON implements json.Unmarshaler. The emoji field must be a
// non-empty string; only its first rune is kept.
func (c *Category) UnmarshalJSON(data []byte) error {
	var w categoryJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	runes := []rune(w.Emoji)
	if len(runes) == 0 {
		return fmt.Errorf("category %d: empty emoji", w.ID)
	}

	*c = Category{
		ID:       w.ID,
		Name:     w.Name,
		Emoji:    runes[0],
		IsIncome: w.IsIncome,
	}
	return nil
}
