// Package output turns catalog and cart data into display-ready view models.
// Nothing here prints.
package output

import (
	"sort"

	"github.com/shopspring/decimal"

	"menucatalog/internal/catalog"
	"menucatalog/internal/database/relational"
)

// Card is one menu item as shown in the grid.
type Card struct {
	Key         string
	Name        string
	Description string
	Category    string
	Price       string
	Image       string
	AddDisabled bool
	Item        catalog.MenuItem
}

// ImageFunc maps an item's image URL to a displayable one.
type ImageFunc func(url string) string

// BuildCards converts items to cards. Add controls are disabled while the
// catalog is loading.
func BuildCards(items []catalog.MenuItem, prices catalog.PriceFormatter, image ImageFunc, loading bool) []Card {
	cards := make([]Card, 0, len(items))
	for _, it := range items {
		img := it.Image
		if image != nil {
			img = image(it.Image)
		}
		cards = append(cards, Card{
			Key:         it.Key(),
			Name:        it.ItemName,
			Description: it.Description,
			Category:    it.Category,
			Price:       prices.Format(it.Price),
			Image:       img,
			AddDisabled: loading,
			Item:        it,
		})
	}
	return cards
}

// CartRow is one cart line ready for display.
type CartRow struct {
	Name      string `json:"name"`
	Category  string `json:"category,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Total     string `json:"total"`
}

// CategoryTotal is the spend in one category.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}

type CartSummary struct {
	Rows       []CartRow
	Categories []CategoryTotal // largest spend first
	ItemCount  int
	Total      decimal.Decimal
	TotalText  string
}

// Empty reports whether the cart has no lines.
func (s CartSummary) Empty() bool { return len(s.Rows) == 0 }

// BuildCartSummary totals the cart per line and per category.
func BuildCartSummary(lines []relational.CartLine, prices catalog.PriceFormatter) CartSummary {
	sum := CartSummary{Total: decimal.Zero}
	byCat := map[string]decimal.Decimal{}
	var order []string

	for _, l := range lines {
		lineTotal := l.Total()
		sum.Rows = append(sum.Rows, CartRow{
			Name:      l.ItemName,
			Category:  l.Category,
			Quantity:  l.Quantity,
			UnitPrice: prices.Format(l.UnitPrice),
			Total:     prices.Format(lineTotal),
		})
		sum.ItemCount += l.Quantity
		sum.Total = sum.Total.Add(lineTotal)

		cat := l.Category
		if cat == "" {
			cat = "Other"
		}
		if _, ok := byCat[cat]; !ok {
			order = append(order, cat)
			byCat[cat] = decimal.Zero
		}
		byCat[cat] = byCat[cat].Add(lineTotal)
	}

	for _, c := range order {
		sum.Categories = append(sum.Categories, CategoryTotal{Category: c, Amount: byCat[c]})
	}
	sort.SliceStable(sum.Categories, func(i, j int) bool {
		return sum.Categories[i].Amount.GreaterThan(sum.Categories[j].Amount)
	})
	sum.TotalText = prices.Format(sum.Total)
	return sum
}
