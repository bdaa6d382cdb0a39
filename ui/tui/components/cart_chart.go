package components

import (
	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"menucatalog/internal/output"
	"menucatalog/ui/tui/styles"
)

var barColors = []lipgloss.Color{"#f27b24", "#7D56F4", "#73F59F", "#f2c94c", "#56ccf2", "#eb5757"}

// CartChart draws cart spend per category as a bar chart.
type CartChart struct {
	Chart  barchart.Model
	Totals []output.CategoryTotal
	Width  int
	Height int
}

func NewCartChart(width, height int) *CartChart {
	return &CartChart{
		Chart:  barchart.New(width, height),
		Width:  width,
		Height: height,
	}
}

func (c *CartChart) Init() tea.Cmd {
	return nil
}

func (c *CartChart) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return c, nil
}

// SetTotals replaces the plotted categories.
func (c *CartChart) SetTotals(totals []output.CategoryTotal) {
	c.Totals = totals
	c.Chart.Clear()
	data := make([]barchart.BarData, 0, len(totals))
	for i, t := range totals {
		data = append(data, barchart.BarData{
			Label: t.Category,
			Values: []barchart.BarValue{{
				Name:  t.Category,
				Value: t.Amount.InexactFloat64(),
				Style: lipgloss.NewStyle().Foreground(barColors[i%len(barColors)]),
			}},
		})
	}
	c.Chart.PushAll(data)
	c.Chart.Draw()
}

func (c *CartChart) Resize(w, h int) {
	c.Width = w
	c.Height = h
	c.Chart.Resize(w, h)
	c.Chart.Draw()
}

func (c *CartChart) View() string {
	if len(c.Totals) == 0 {
		return ""
	}
	return styles.PanelStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render("Spend by category"),
			c.Chart.View(),
		),
	)
}
