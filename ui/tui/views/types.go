package views

import (
	"menucatalog/internal/output"
	"menucatalog/ui/tui/state"
)

// ViewProps contains UI-specific properties provided by the Controller.
type ViewProps struct {
	Width, Height int

	SpinnerView string

	// Menu page
	Cards          []output.Card
	Categories     []string
	ActiveCategory string
	SearchView     string
	Searching      bool
	Cursor         int
	AnimCursor     float64

	// Login page
	UsernameView string
	PasswordView string
	LoginFocus   int
	LoginFrom    string

	// Cart page
	ChartView string
}

// View defines the contract for any renderable page in the TUI.
type View interface {
	Render(s state.AppState, props ViewProps) string
}
