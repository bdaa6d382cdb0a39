package catalog

import "strings"

// Categories derives the category bar from items: AllCategories first, then
// every distinct non-empty category in order of first appearance.
func Categories(items []MenuItem) []string {
	out := []string{AllCategories}
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it.Category == "" {
			continue
		}
		if _, ok := seen[it.Category]; ok {
			continue
		}
		seen[it.Category] = struct{}{}
		out = append(out, it.Category)
	}
	return out
}

// Search returns the items whose name, category or description contains query,
// ignoring case. An empty query matches every item.
func Search(items []MenuItem, query string) []MenuItem {
	term := strings.ToLower(query)
	out := make([]MenuItem, 0, len(items))
	for _, it := range items {
		if matches(it, term) {
			out = append(out, it)
		}
	}
	return out
}

func matches(it MenuItem, term string) bool {
	if strings.Contains(strings.ToLower(it.ItemName), term) {
		return true
	}
	// Absent optional fields never match, not even the empty term.
	if it.Category != "" && strings.Contains(strings.ToLower(it.Category), term) {
		return true
	}
	return it.Description != "" && strings.Contains(strings.ToLower(it.Description), term)
}

// FilterByCategory returns the items in category, or all items for
// AllCategories. The comparison is exact.
func FilterByCategory(items []MenuItem, category string) []MenuItem {
	out := make([]MenuItem, 0, len(items))
	for _, it := range items {
		if category == AllCategories || it.Category == category {
			out = append(out, it)
		}
	}
	return out
}

// FilterKind records which filter produced the visible list.
type FilterKind int

const (
	FilterCategory FilterKind = iota
	FilterSearch
)

// ViewState is the menu's local filter state. The zero value is not ready;
// use NewViewState.
//
// The two filters are never combined: a search ignores the active category,
// and selecting a category clears the search. Whichever ran last decides the
// visible list.
type ViewState struct {
	ActiveCategory string
	SearchQuery    string
	Last           FilterKind
}

// NewViewState returns the state a freshly mounted menu starts with.
func NewViewState() ViewState {
	return ViewState{ActiveCategory: AllCategories, Last: FilterCategory}
}

// Search records query as the last applied filter. The active category is
// left untouched.
func (v ViewState) Search(query string) ViewState {
	v.SearchQuery = query
	v.Last = FilterSearch
	return v
}

// SelectCategory records category as the last applied filter and clears the
// search query.
func (v ViewState) SelectCategory(category string) ViewState {
	v.ActiveCategory = category
	v.SearchQuery = ""
	v.Last = FilterCategory
	return v
}

// Project computes the visible items for the current catalog.
func (v ViewState) Project(items []MenuItem) []MenuItem {
	if v.Last == FilterSearch {
		return Search(items, v.SearchQuery)
	}
	category := v.ActiveCategory
	if category == "" {
		category = AllCategories
	}
	return FilterByCategory(items, category)
}
