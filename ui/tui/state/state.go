package state

import (
	"menucatalog/internal/output"
	"menucatalog/internal/store"
)

type Page int

const (
	PageMenu Page = iota
	PageLogin
	PageCart
)

// Route paths understood by the router.
const (
	PathMenu  = "/menu"
	PathLogin = "/login"
	PathCart  = "/cart"
)

func (p Page) Path() string {
	switch p {
	case PageLogin:
		return PathLogin
	case PageCart:
		return PathCart
	default:
		return PathMenu
	}
}

func (p Page) String() string {
	switch p {
	case PageLogin:
		return "login"
	case PageCart:
		return "cart"
	default:
		return "menu"
	}
}

// PageForPath maps a route path to its page.
func PageForPath(path string) (Page, bool) {
	switch path {
	case PathMenu, "/":
		return PageMenu, true
	case PathLogin:
		return PageLogin, true
	case PathCart:
		return PageCart, true
	}
	return PageMenu, false
}

// AppState holds what the pages render from.
type AppState struct {
	Snapshot    store.Snapshot
	CurrentPage Page

	// Result of the last cart action, shown in the status line.
	Status      string
	StatusIsErr bool

	Cart    output.CartSummary
	CartErr string

	LoginErr string
}
