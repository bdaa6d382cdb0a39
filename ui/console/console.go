package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"menucatalog/internal/output"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

const labelWidth = 28

// Printer writes menu cards as a compact text listing.
type Printer struct {
	W     io.Writer
	Color bool
}

func (p Printer) c(code string) string {
	if !p.Color {
		return ""
	}
	return code
}

// Print lists the cards grouped by category in first-appearance order.
func (p Printer) Print(cards []output.Card) {
	w := p.W
	fmt.Fprintf(w, "%s■ %s%s\n", p.c(colorCyan), "MENU", p.c(colorReset))

	if len(cards) == 0 {
		fmt.Fprintf(w, "  %sNo items found%s\n\n", p.c(colorYellow), p.c(colorReset))
		return
	}

	var order []string
	groups := map[string][]output.Card{}
	for _, c := range cards {
		cat := c.Category
		if cat == "" {
			cat = "Other"
		}
		if _, ok := groups[cat]; !ok {
			order = append(order, cat)
		}
		groups[cat] = append(groups[cat], c)
	}

	for _, cat := range order {
		fmt.Fprintf(w, "%s─ %s%s\n", p.c(colorCyan), cat, p.c(colorReset))
		for _, c := range groups[cat] {
			label := runewidth.Truncate(c.Name, labelWidth-2, "…")
			dots := strings.Repeat("·", labelWidth-runewidth.StringWidth(label))
			fmt.Fprintf(w, "  %s%s%s%s %12s%s\n", label, p.c(colorCyan), dots, p.c(colorReset), c.Price, p.marker(c))
			if c.Description != "" {
				fmt.Fprintf(w, "    %s\n", runewidth.Truncate(strings.Join(strings.Fields(c.Description), " "), 60, "…"))
			}
		}
	}
	fmt.Fprintf(w, "%s─ Summary%s: %d items\n\n", p.c(colorCyan), p.c(colorReset), len(cards))
}

func (p Printer) marker(c output.Card) string {
	if c.AddDisabled {
		return fmt.Sprintf(" %s…%s", p.c(colorYellow), p.c(colorReset))
	}
	return ""
}

// PrintError writes a catalog error line.
func (p Printer) PrintError(msg string) {
	fmt.Fprintf(p.W, "%s✗ %s%s\n", p.c(colorRed), msg, p.c(colorReset))
}
