// Package catalog holds the menu item model and the pure filtering logic the
// menu view projects its visible items with.
package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// AllCategories is the synthetic category that selects every item.
const AllCategories = "All"

// MenuItem is a single dish offered by the store.
type MenuItem struct {
	ID          string          `json:"id" yaml:"id"`
	ItemName    string          `json:"itemname" yaml:"itemname"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string          `json:"category,omitempty" yaml:"category,omitempty"`
	Price       decimal.Decimal `json:"price" yaml:"price"`
	Image       string          `json:"image" yaml:"image"`
}

// UnmarshalJSON accepts both "id" and the Mongo-style "_id" key.
func (m *MenuItem) UnmarshalJSON(data []byte) error {
	type plain MenuItem
	var aux struct {
		plain
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*m = MenuItem(aux.plain)
	if m.ID == "" {
		m.ID = aux.MongoID
	}
	return nil
}

// Validate reports the first structural problem with the item.
func (m MenuItem) Validate() error {
	if m.ItemName == "" {
		return fmt.Errorf("menu item %q: itemname is required", m.ID)
	}
	if m.Price.IsNegative() {
		return fmt.Errorf("menu item %q: price must not be negative", m.ItemName)
	}
	return nil
}

// Key identifies the item for cart lines. Items without an id fall back to
// their name.
func (m MenuItem) Key() string {
	if m.ID != "" {
		return m.ID
	}
	return m.ItemName
}
