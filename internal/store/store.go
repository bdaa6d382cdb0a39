// Package store owns the shared menu state: the catalog, its loading and error
// status, the signed-in viewer and the cart.
package store

import (
	"context"
	"errors"

	"menucatalog/internal/catalog"
)

var (
	// ErrNotAuthenticated is returned by cart operations without a signed-in viewer.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrUnknownItem is returned when adding an item that is not in the catalog.
	ErrUnknownItem = errors.New("item is not on the menu")
)

// Snapshot is a read-only view of the store at one instant.
type Snapshot struct {
	MenuItems       []catalog.MenuItem // nil until a catalog has been loaded
	Loading         bool
	Error           string // "" when there is no error
	IsAuthenticated bool
	User            string
}

// Store is what the menu view consumes.
type Store interface {
	Snapshot() Snapshot
	AddToCart(ctx context.Context, item catalog.MenuItem) error
}
