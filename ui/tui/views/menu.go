package views

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"

	"menucatalog/internal/catalog"
	"menucatalog/internal/output"
	"menucatalog/ui/tui/state"
	"menucatalog/ui/tui/styles"
)

// Copy shown by the informational menu states.
const (
	LoadingText   = "Loading menu items..."
	EmptyText     = "No menu items are available right now. Please check back later."
	NoResultsText = "No items found"
	ResetText     = "View all items"
	ErrorTitle    = "Error"
	LoginHintText = "Please login to add items to your cart"
)

const (
	cardOuterWidth = 33
	cardTextWidth  = 28
)

// Zone IDs for clickable menu elements.
func CategoryZone(i int) string { return fmt.Sprintf("cat_%d", i) }
func AddZone(i int) string      { return fmt.Sprintf("add_%d", i) }

const ResetZone = "reset_all"

// GridColumns is how many cards fit side by side in width.
func GridColumns(width int) int {
	cols := (width - 4) / cardOuterWidth
	if cols < 1 {
		return 1
	}
	return cols
}

type MenuView struct{}

func (v MenuView) Render(s state.AppState, props ViewProps) string {
	header := renderHeader(s, props.Width, "MENU")
	snap := s.Snapshot

	var body string
	switch {
	case snap.Loading:
		body = styles.PanelStyle.Render(props.SpinnerView + " " + LoadingText)
	case snap.Error != "":
		body = styles.ErrorPanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render(ErrorTitle),
			snap.Error,
		))
	case len(snap.MenuItems) == 0:
		body = styles.PanelStyle.Render(EmptyText)
	default:
		parts := []string{
			renderCategoryBar(props.Categories, props.ActiveCategory),
			renderSearch(props),
		}
		if !snap.IsAuthenticated {
			parts = append(parts, styles.HelpStyle.Render(LoginHintText))
		}
		parts = append(parts, renderGrid(props))
		body = lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	help := "[/] Search • [Tab] Category • [←↑↓→] Move • [a] Add • [c] Cart • [Q] Quit"
	if snap.IsAuthenticated {
		help += " • [L] Logout"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		renderStatus(s),
		styles.HelpStyle.Render(help),
	)
}

func renderHeader(s state.AppState, width int, title string) string {
	who := "Guest"
	if s.Snapshot.IsAuthenticated {
		who = "Signed in as " + s.Snapshot.User
	}
	text := fmt.Sprintf("MENUCATALOG // %s   %s", title, who)
	return styles.HeaderStyle.Width(width).Render(text)
}

func renderStatus(s state.AppState) string {
	if s.Status == "" {
		return ""
	}
	st := styles.StatusStyle.PaddingLeft(2)
	if s.StatusIsErr {
		st = st.Foreground(styles.ErrorColor)
	}
	return st.Render(s.Status)
}

func renderCategoryBar(categories []string, active string) string {
	chips := make([]string, 0, len(categories))
	for i, c := range categories {
		st := styles.ChipStyle
		if c == active {
			st = styles.ActiveChipStyle
		}
		chips = append(chips, zone.Mark(CategoryZone(i), st.Render(c)))
	}
	return lipgloss.NewStyle().PaddingLeft(2).MarginTop(1).Render(
		lipgloss.JoinHorizontal(lipgloss.Top, chips...),
	)
}

func renderSearch(props ViewProps) string {
	label := "Search: "
	if props.Searching {
		label = lipgloss.NewStyle().Foreground(styles.BrandColor).Render(label)
	}
	return lipgloss.NewStyle().PaddingLeft(2).MarginTop(1).Render(label + props.SearchView)
}

func renderGrid(props ViewProps) string {
	if len(props.Cards) == 0 {
		content := NoResultsText
		if props.ActiveCategory != catalog.AllCategories {
			content = lipgloss.JoinVertical(lipgloss.Left,
				NoResultsText,
				"",
				zone.Mark(ResetZone, styles.ButtonStyle.Render(ResetText+" [r]")),
			)
		}
		return styles.PanelStyle.Render(content)
	}

	cols := GridColumns(props.Width)
	var rows []string
	for start := 0; start < len(props.Cards); start += cols {
		end := start + cols
		if end > len(props.Cards) {
			end = len(props.Cards)
		}
		row := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			row = append(row, renderCard(i, props.Cards[i], props))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.NewStyle().PaddingLeft(2).MarginTop(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func renderCard(i int, c output.Card, props ViewProps) string {
	// Highlight follows the spring-animated cursor.
	dist := math.Abs(float64(i) - props.AnimCursor)
	border := styles.BaseColor
	if dist < 0.5 || i == props.Cursor {
		border = styles.BrandColor
	}

	name := lipgloss.NewStyle().Bold(true).Render(runewidth.Truncate(c.Name, cardTextWidth, "…"))
	desc := lipgloss.NewStyle().Foreground(styles.MutedColor).Render(
		runewidth.Truncate(oneLine(c.Description), cardTextWidth, "…"),
	)
	category := ""
	if c.Category != "" {
		category = styles.ChipStyle.Render(c.Category)
	}
	image := lipgloss.NewStyle().Foreground(lipgloss.Color("#555")).Render(
		runewidth.Truncate("img "+c.Image, cardTextWidth, "…"),
	)

	button := styles.ButtonStyle.Render("+ Add")
	if c.AddDisabled {
		button = styles.DisabledButtonStyle.Render("+ Add")
	}
	button = zone.Mark(AddZone(i), button)

	footer := lipgloss.JoinHorizontal(lipgloss.Center,
		styles.PriceStyle.Render(c.Price), "  ", button,
	)

	card := styles.CardStyle.BorderForeground(border).Render(
		lipgloss.JoinVertical(lipgloss.Left, name, desc, category, image, footer),
	)
	return lipgloss.NewStyle().MarginRight(1).Render(card)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
