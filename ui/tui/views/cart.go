package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"menucatalog/ui/tui/state"
	"menucatalog/ui/tui/styles"
)

const EmptyCartText = "Your cart is empty."

type CartView struct{}

func (v CartView) Render(s state.AppState, props ViewProps) string {
	header := renderHeader(s, props.Width, "CART")

	var body string
	switch {
	case s.CartErr != "":
		body = styles.ErrorPanelStyle.Render(s.CartErr)
	case s.Cart.Empty():
		body = styles.PanelStyle.Render(EmptyCartText)
	default:
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			styles.PanelStyle.Render(renderCartTable(s)),
			props.ChartView,
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		renderStatus(s),
		styles.HelpStyle.Render("[x] Clear cart • [b/Esc] Back to menu • [Q] Quit"),
	)
}

func renderCartTable(s state.AppState) string {
	var b strings.Builder
	bold := lipgloss.NewStyle().Bold(true)

	fmt.Fprintf(&b, "%s\n", bold.Render(fmt.Sprintf("%-24s %4s %12s %12s", "Item", "Qty", "Price", "Total")))
	for _, r := range s.Cart.Rows {
		name := runewidth.FillRight(runewidth.Truncate(r.Name, 24, "…"), 24)
		fmt.Fprintf(&b, "%s %4d %12s %12s\n", name, r.Quantity, r.UnitPrice, r.Total)
	}
	b.WriteString("\n")
	b.WriteString(bold.Render(fmt.Sprintf("%d items", s.Cart.ItemCount)))
	b.WriteString("   ")
	b.WriteString(styles.PriceStyle.Render("Total " + s.Cart.TotalText))
	return b.String()
}
