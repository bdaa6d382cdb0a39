package components

import (
	"context"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/shopspring/decimal"

	"menucatalog/internal/catalog"
	"menucatalog/internal/store"
	"menucatalog/ui/tui/state"
	"menucatalog/ui/tui/views"
)

func TestMain(m *testing.M) {
	zone.NewGlobal()
	os.Exit(m.Run())
}

type fakeStore struct {
	snap store.Snapshot
	adds []catalog.MenuItem
}

func (f *fakeStore) Snapshot() store.Snapshot { return f.snap }

func (f *fakeStore) AddToCart(ctx context.Context, item catalog.MenuItem) error {
	f.adds = append(f.adds, item)
	return nil
}

type navCall struct {
	path string
	st   NavState
}

type fakeNav struct {
	calls []navCall
}

func (n *fakeNav) Navigate(path string, st NavState) {
	n.calls = append(n.calls, navCall{path, st})
}

func pizzaCola() []catalog.MenuItem {
	return []catalog.MenuItem{
		{ID: "1", ItemName: "Pizza", Category: "Main", Price: decimal.RequireFromString("9.5")},
		{ID: "2", ItemName: "Cola", Category: "Drink", Price: decimal.RequireFromString("1.2")},
	}
}

func names(items []catalog.MenuItem) string {
	var out []string
	for _, it := range items {
		out = append(out, it.ItemName)
	}
	return strings.Join(out, ",")
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newMenu(snap store.Snapshot) (*MenuView, *fakeStore, *fakeNav) {
	st := &fakeStore{snap: snap}
	nav := &fakeNav{}
	return NewMenuView(st, nav), st, nav
}

func TestMenuView_PizzaColaScenario(t *testing.T) {
	m, _, _ := newMenu(store.Snapshot{MenuItems: pizzaCola()})

	if got := strings.Join(m.Categories(), ","); got != "All,Main,Drink" {
		t.Errorf("Expected categories All,Main,Drink, got %s", got)
	}
	if got := names(m.Filtered()); got != "Pizza,Cola" {
		t.Errorf("Expected full list initially, got %s", got)
	}

	m.Search("piz")
	if got := names(m.Filtered()); got != "Pizza" {
		t.Errorf("Expected [Pizza] after search, got %s", got)
	}

	m.FilterByCategory("Drink")
	if got := names(m.Filtered()); got != "Cola" {
		t.Errorf("Expected [Cola] after category filter, got %s", got)
	}
	if q := m.ViewState().SearchQuery; q != "" {
		t.Errorf("Expected search query cleared, got %q", q)
	}
}

func TestMenuView_SearchIgnoresActiveCategory(t *testing.T) {
	m, _, _ := newMenu(store.Snapshot{MenuItems: pizzaCola()})

	m.FilterByCategory("Drink")
	m.Search("pizza")
	if got := names(m.Filtered()); got != "Pizza" {
		t.Errorf("Expected search across all categories, got %s", got)
	}
	if c := m.ViewState().ActiveCategory; c != "Drink" {
		t.Errorf("Expected active category to stay Drink, got %s", c)
	}
}

func TestMenuView_CatalogChangeKeepsFilter(t *testing.T) {
	m, _, _ := newMenu(store.Snapshot{MenuItems: pizzaCola()})
	m.FilterByCategory("Main")

	next := append(pizzaCola(), catalog.MenuItem{ID: "3", ItemName: "Pasta", Category: "Main"})
	m.SetSnapshot(store.Snapshot{MenuItems: next})

	if got := names(m.Filtered()); got != "Pizza,Pasta" {
		t.Errorf("Expected Main items of the new catalog, got %s", got)
	}
}

func TestMenuView_UnauthenticatedAddRedirects(t *testing.T) {
	m, st, nav := newMenu(store.Snapshot{MenuItems: pizzaCola()})

	if cmd := m.AddToCart(pizzaCola()[0]); cmd != nil {
		t.Error("Expected no command for unauthenticated add")
	}
	if len(st.adds) != 0 {
		t.Errorf("Expected cart untouched, got %d additions", len(st.adds))
	}
	if len(nav.calls) != 1 {
		t.Fatalf("Expected exactly one navigation, got %d", len(nav.calls))
	}
	if nav.calls[0].path != "/login" || nav.calls[0].st.From != "/menu" {
		t.Errorf("Expected /login from /menu, got %+v", nav.calls[0])
	}
}

func TestMenuView_AuthenticatedAddForwardsToStore(t *testing.T) {
	m, st, nav := newMenu(store.Snapshot{MenuItems: pizzaCola(), IsAuthenticated: true, User: "asha"})

	cmd := m.AddToCart(pizzaCola()[1])
	if cmd == nil {
		t.Fatal("Expected a command for authenticated add")
	}
	msg, ok := cmd().(CartResultMsg)
	if !ok {
		t.Fatalf("Expected CartResultMsg")
	}
	if msg.Err != nil || msg.Item.ItemName != "Cola" {
		t.Errorf("unexpected result %+v", msg)
	}
	if len(st.adds) != 1 || len(nav.calls) != 0 {
		t.Errorf("Expected one store add and no navigation, got %d adds, %d navs", len(st.adds), len(nav.calls))
	}
}

func TestMenuView_AddDisabledWhileLoading(t *testing.T) {
	m, st, nav := newMenu(store.Snapshot{MenuItems: pizzaCola(), Loading: true, IsAuthenticated: true})

	if cmd := m.AddToCart(pizzaCola()[0]); cmd != nil {
		t.Error("Expected add to be disabled while loading")
	}
	if len(st.adds) != 0 || len(nav.calls) != 0 {
		t.Error("Expected no side effects while loading")
	}
}

func TestMenuView_KeyboardSearchAndCategories(t *testing.T) {
	m, _, _ := newMenu(store.Snapshot{MenuItems: pizzaCola()})

	m.Update(runes("/"))
	if !m.Capturing() {
		t.Fatal("Expected search box to capture keys after /")
	}
	m.Update(runes("co"))
	if got := names(m.Filtered()); got != "Cola" {
		t.Errorf("Expected [Cola] after typing, got %s", got)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.Capturing() {
		t.Error("Expected esc to leave the search box")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if c := m.ViewState().ActiveCategory; c != "Main" {
		t.Errorf("Expected tab to select Main, got %s", c)
	}
	if got := names(m.Filtered()); got != "Pizza" {
		t.Errorf("Expected [Pizza] for Main, got %s", got)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if c := m.ViewState().ActiveCategory; c != "All" {
		t.Errorf("Expected shift+tab back to All, got %s", c)
	}
}

func TestMenuView_CursorMovement(t *testing.T) {
	m, _, _ := newMenu(store.Snapshot{MenuItems: pizzaCola()})

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.Cursor() != 1 {
		t.Errorf("Expected cursor 1, got %d", m.Cursor())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.Cursor() != 1 {
		t.Errorf("Expected cursor to stay on last card, got %d", m.Cursor())
	}

	m.FilterByCategory("Drink")
	if m.Cursor() != 0 {
		t.Errorf("Expected cursor clamped to 0, got %d", m.Cursor())
	}
}

func TestMenuView_ResetFromEmptyResult(t *testing.T) {
	m, _, _ := newMenu(store.Snapshot{MenuItems: pizzaCola()})

	m.FilterByCategory("Dessert")
	if len(m.Filtered()) != 0 {
		t.Fatal("Expected no items for Dessert")
	}
	m.Update(runes("r"))
	if c := m.ViewState().ActiveCategory; c != "All" {
		t.Errorf("Expected reset to All, got %s", c)
	}
	if len(m.Filtered()) != 2 {
		t.Errorf("Expected full list after reset, got %d", len(m.Filtered()))
	}
}

func TestMenuView_RenderStates(t *testing.T) {
	props := views.ViewProps{Width: 100, Height: 40}

	tests := []struct {
		name    string
		snap    store.Snapshot
		want    []string
		notWant []string
	}{
		{
			name:    "loading",
			snap:    store.Snapshot{Loading: true, MenuItems: pizzaCola()},
			want:    []string{views.LoadingText},
			notWant: []string{"Pizza"},
		},
		{
			name:    "error verbatim",
			snap:    store.Snapshot{Error: "menu service unavailable"},
			want:    []string{views.ErrorTitle, "menu service unavailable"},
			notWant: []string{views.LoadingText},
		},
		{
			name:    "empty catalog",
			snap:    store.Snapshot{MenuItems: []catalog.MenuItem{}},
			want:    []string{views.EmptyText},
			notWant: []string{"All"},
		},
		{
			name: "grid",
			snap: store.Snapshot{MenuItems: pizzaCola()},
			want: []string{"All", "Main", "Drink", "Pizza", "Cola", "₹9.50", "₹1.20", views.LoginHintText},
		},
		{
			name:    "grid signed in",
			snap:    store.Snapshot{MenuItems: pizzaCola(), IsAuthenticated: true, User: "asha"},
			want:    []string{"Pizza", "Cola"},
			notWant: []string{views.LoginHintText},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _ := newMenu(tt.snap)
			out := zone.Scan(m.Render(state.AppState{}, props))
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("Expected output to contain %q", w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("Expected output not to contain %q", w)
				}
			}
		})
	}
}

func TestMenuView_RenderNoResults(t *testing.T) {
	props := views.ViewProps{Width: 100, Height: 40}
	m, _, _ := newMenu(store.Snapshot{MenuItems: pizzaCola()})

	m.FilterByCategory("Dessert")
	out := zone.Scan(m.Render(state.AppState{}, props))
	if !strings.Contains(out, views.NoResultsText) || !strings.Contains(out, views.ResetText) {
		t.Error("Expected no-results panel with reset action")
	}

	m.FilterByCategory("All")
	m.Search("sushi")
	out = zone.Scan(m.Render(state.AppState{}, props))
	if !strings.Contains(out, views.NoResultsText) {
		t.Error("Expected no-results panel")
	}
	if strings.Contains(out, views.ResetText) {
		t.Error("Expected no reset action when the category is already All")
	}
}
