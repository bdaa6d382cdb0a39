package components

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"menucatalog/internal/catalog"
	"menucatalog/internal/metric"
	"menucatalog/internal/output"
	"menucatalog/internal/store"
	"menucatalog/ui/tui/state"
	"menucatalog/ui/tui/styles"
	"menucatalog/ui/tui/views"
)

// NavState travels with a navigation request.
type NavState struct {
	From string
}

// Navigator moves the app between routes.
type Navigator interface {
	Navigate(path string, st NavState)
}

// CartResultMsg reports the outcome of an add-to-cart request.
type CartResultMsg struct {
	Item catalog.MenuItem
	Err  error
}

// MenuView is the catalog page: category bar, search box and a grid of
// item cards. It reads the store and never mutates the catalog.
type MenuView struct {
	store  store.Store
	nav    Navigator
	rec    metric.Recorder
	prices catalog.PriceFormatter
	image  output.ImageFunc

	snap       store.Snapshot
	view       catalog.ViewState
	categories []string
	filtered   []catalog.MenuItem

	search    textinput.Model
	searching bool
	spinner   spinner.Model

	cursor     int
	animCursor float64
	velocity   float64
	spring     harmonica.Spring

	width, height int
}

type MenuOption func(*MenuView)

func WithRecorder(rec metric.Recorder) MenuOption {
	return func(m *MenuView) {
		if rec != nil {
			m.rec = rec
		}
	}
}

func WithPriceFormatter(p catalog.PriceFormatter) MenuOption {
	return func(m *MenuView) { m.prices = p }
}

// WithImages sets how card image URLs are resolved for display.
func WithImages(fn output.ImageFunc) MenuOption {
	return func(m *MenuView) { m.image = fn }
}

func NewMenuView(s store.Store, nav Navigator, opts ...MenuOption) *MenuView {
	ti := textinput.New()
	ti.Placeholder = "Search by name, category or description..."
	ti.CharLimit = 64
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.BrandColor)

	m := &MenuView{
		store:   s,
		nav:     nav,
		rec:     metric.Nop{},
		prices:  catalog.NewPriceFormatter(catalog.DefaultLocale, catalog.DefaultCurrencySymbol),
		view:    catalog.NewViewState(),
		search:  ti,
		spinner: sp,
		spring:  harmonica.NewSpring(harmonica.FPS(60), 12.0, 0.9),
		width:   80,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.SetSnapshot(s.Snapshot())
	return m
}

// SetSnapshot takes a new store snapshot and re-projects the current
// filter over its catalog.
func (m *MenuView) SetSnapshot(snap store.Snapshot) {
	m.snap = snap
	m.recompute()
}

func (m *MenuView) recompute() {
	m.categories = catalog.Categories(m.snap.MenuItems)
	m.filtered = m.view.Project(m.snap.MenuItems)
	m.clampCursor()
}

func (m *MenuView) clampCursor() {
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Search filters by query across the whole catalog. The active category is
// kept for display but does not narrow the result.
func (m *MenuView) Search(query string) {
	m.view = m.view.Search(query)
	m.rec.Search()
	m.recompute()
}

// FilterByCategory shows the items of one category ("All" for everything)
// and clears the search query.
func (m *MenuView) FilterByCategory(category string) {
	m.view = m.view.SelectCategory(category)
	m.search.SetValue("")
	m.rec.CategoryFilter(category)
	m.recompute()
}

// AddToCart sends item to the store. Without a signed-in viewer it
// redirects to the login page instead and touches nothing.
func (m *MenuView) AddToCart(item catalog.MenuItem) tea.Cmd {
	if m.snap.Loading {
		return nil
	}
	if !m.store.Snapshot().IsAuthenticated {
		m.rec.LoginRedirect()
		m.nav.Navigate(state.PathLogin, NavState{From: state.PathMenu})
		return nil
	}
	s := m.store
	return func() tea.Msg {
		return CartResultMsg{Item: item, Err: s.AddToCart(context.Background(), item)}
	}
}

func (m *MenuView) Filtered() []catalog.MenuItem { return m.filtered }
func (m *MenuView) Categories() []string         { return m.categories }
func (m *MenuView) ViewState() catalog.ViewState { return m.view }
func (m *MenuView) Cursor() int                  { return m.cursor }
func (m *MenuView) AnimCursor() float64          { return m.animCursor }

// Capturing reports whether the search box owns the keyboard.
func (m *MenuView) Capturing() bool { return m.searching }

func (m *MenuView) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Animate advances the cursor spring by one frame.
func (m *MenuView) Animate() {
	m.animCursor, m.velocity = m.spring.Update(m.animCursor, float64(m.cursor), m.velocity)
}

func (m *MenuView) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *MenuView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	}
	return m, nil
}

func (m *MenuView) gridVisible() bool {
	return !m.snap.Loading && m.snap.Error == "" && len(m.snap.MenuItems) > 0
}

func (m *MenuView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.searching {
		switch msg.String() {
		case "enter", "esc":
			m.searching = false
			m.search.Blur()
			return nil
		}
		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if v := m.search.Value(); v != before {
			m.Search(v)
		}
		return cmd
	}

	if !m.gridVisible() {
		return nil
	}

	cols := views.GridColumns(m.width)
	switch msg.String() {
	case "/":
		m.searching = true
		return m.search.Focus()
	case "tab":
		m.stepCategory(1)
	case "shift+tab":
		m.stepCategory(-1)
	case "left", "h":
		m.moveCursor(-1)
	case "right", "l":
		m.moveCursor(1)
	case "up", "k":
		m.moveCursor(-cols)
	case "down", "j":
		m.moveCursor(cols)
	case "a", "enter":
		if m.cursor < len(m.filtered) {
			return m.AddToCart(m.filtered[m.cursor])
		}
	case "r":
		if len(m.filtered) == 0 && m.view.ActiveCategory != catalog.AllCategories {
			m.FilterByCategory(catalog.AllCategories)
		}
	}
	return nil
}

func (m *MenuView) stepCategory(delta int) {
	if len(m.categories) == 0 {
		return
	}
	idx := 0
	for i, c := range m.categories {
		if c == m.view.ActiveCategory {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(m.categories)) % len(m.categories)
	m.FilterByCategory(m.categories[idx])
}

func (m *MenuView) moveCursor(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.filtered) {
		return
	}
	m.cursor = next
}

func (m *MenuView) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionRelease || !m.gridVisible() {
		return nil
	}
	for i, c := range m.categories {
		if zone.Get(views.CategoryZone(i)).InBounds(msg) {
			m.FilterByCategory(c)
			return nil
		}
	}
	for i, item := range m.filtered {
		if zone.Get(views.AddZone(i)).InBounds(msg) {
			m.cursor = i
			return m.AddToCart(item)
		}
	}
	if zone.Get(views.ResetZone).InBounds(msg) {
		m.FilterByCategory(catalog.AllCategories)
	}
	return nil
}

// Props fills the menu fields of the view props.
func (m *MenuView) Props(props views.ViewProps) views.ViewProps {
	props.Cards = output.BuildCards(m.filtered, m.prices, m.image, m.snap.Loading)
	props.Categories = m.categories
	props.ActiveCategory = m.view.ActiveCategory
	props.SearchView = m.search.View()
	props.Searching = m.searching
	props.Cursor = m.cursor
	props.AnimCursor = m.animCursor
	props.SpinnerView = m.spinner.View()
	return props
}

// Render draws the page for s, which carries the app-level status line.
func (m *MenuView) Render(s state.AppState, props views.ViewProps) string {
	s.Snapshot = m.snap
	return views.RenderMenu(s, m.Props(props))
}

func (m *MenuView) View() string {
	return m.Render(state.AppState{}, views.ViewProps{Width: m.width, Height: m.height})
}
