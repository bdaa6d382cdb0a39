// Package source loads the menu catalog from files or an HTTP endpoint.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"menucatalog/internal/catalog"
)

// Source produces the current catalog.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]catalog.MenuItem, error)
}

// decodeJSON accepts either a bare array of items or {"menuItems": [...]}.
func decodeJSON(data []byte) ([]catalog.MenuItem, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var items []catalog.MenuItem
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("decode menu array: %w", err)
		}
		return items, nil
	}

	var envelope struct {
		MenuItems []catalog.MenuItem `json:"menuItems"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("decode menu object: %w", err)
	}
	return envelope.MenuItems, nil
}

func validate(items []catalog.MenuItem) error {
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return err
		}
	}
	return nil
}
