package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"go.uber.org/zap"

	"menucatalog/internal/catalog"
	"menucatalog/internal/database/relational"
	"menucatalog/internal/metric"
	"menucatalog/internal/output"
	"menucatalog/internal/store"
	"menucatalog/ui/tui/components"
	"menucatalog/ui/tui/state"
	"menucatalog/ui/tui/views"
)

// Backend is the store surface the app drives.
type Backend interface {
	store.Store
	Subscribe() (<-chan store.Snapshot, func())
	Login(ctx context.Context, username, password string) error
	Logout()
	Cart(ctx context.Context) ([]relational.CartLine, error)
	ClearCart(ctx context.Context) error
}

// Options carries the collaborators that have sensible defaults.
type Options struct {
	Prices   catalog.PriceFormatter
	Images   output.ImageFunc
	Recorder metric.Recorder
	Logger   *zap.Logger
}

// MainModel is the Bubble Tea Model acting as the Controller
type MainModel struct {
	backend     Backend
	router      *Router
	menu        *components.MenuView
	chart       *components.CartChart
	prices      catalog.PriceFormatter
	log         *zap.Logger
	state       state.AppState
	updates     <-chan store.Snapshot
	unsubscribe func()
	username    textinput.Model
	password    textinput.Model
	loginFocus  int
	quitting    bool
	width       int
	height      int
}

// Messages
type AnimateMsg time.Time
type SnapshotMsg store.Snapshot
type LoginResultMsg struct {
	User string
	Err  error
}
type CartLoadedMsg struct {
	Lines []relational.CartLine
	Err   error
}
type CartClearedMsg struct {
	Err error
}

func InitialModel(backend Backend, opts Options) MainModel {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	prices := opts.Prices
	if prices.Symbol == "" {
		prices = catalog.NewPriceFormatter(catalog.DefaultLocale, catalog.DefaultCurrencySymbol)
	}

	// Subscribe before the first read so a publish in between is not lost.
	updates, unsubscribe := backend.Subscribe()
	snap := backend.Snapshot()

	router := NewRouter(log)
	menu := components.NewMenuView(backend, router,
		components.WithRecorder(opts.Recorder),
		components.WithPriceFormatter(prices),
		components.WithImages(opts.Images),
	)
	menu.SetSnapshot(snap)

	user := textinput.New()
	user.Placeholder = "username"
	user.CharLimit = 64
	user.Width = 30

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.CharLimit = 128
	pass.Width = 30
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	return MainModel{
		backend:     backend,
		router:      router,
		menu:        menu,
		chart:       components.NewCartChart(40, 12),
		prices:      prices,
		log:         log.Named("tui"),
		updates:     updates,
		unsubscribe: unsubscribe,
		username:    user,
		password:    pass,
		state: state.AppState{
			Snapshot:    snap,
			CurrentPage: state.PageMenu,
		},
	}
}

func (m *MainModel) Init() tea.Cmd {
	zone.NewGlobal()
	return tea.Batch(
		m.menu.Init(),
		animateCmd(),
		waitForSnapshot(m.updates),
	)
}

// Commands
func animateCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*16, func(t time.Time) tea.Msg {
		return AnimateMsg(t)
	})
}

func waitForSnapshot(ch <-chan store.Snapshot) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return SnapshotMsg(snap)
	}
}

func loginCmd(b Backend, username, password string) tea.Cmd {
	return func() tea.Msg {
		err := b.Login(context.Background(), username, password)
		return LoginResultMsg{User: username, Err: err}
	}
}

func loadCartCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		lines, err := b.Cart(context.Background())
		return CartLoadedMsg{Lines: lines, Err: err}
	}
}

func clearCartCmd(b Backend) tea.Cmd {
	return func() tea.Msg {
		return CartClearedMsg{Err: b.ClearCart(context.Background())}
	}
}

func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	prev := m.router.Page()
	cmd := m.update(msg)
	if page := m.router.Page(); page != prev {
		m.state.CurrentPage = page
		cmd = tea.Batch(cmd, m.enterPage(page))
	}
	return m, cmd
}

func (m *MainModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case AnimateMsg:
		m.menu.Animate()
		return animateCmd()

	case tea.WindowSizeMsg:
		return m.handleWindowSizeMsg(msg)

	case SnapshotMsg:
		return m.handleSnapshotMsg(msg)

	case components.CartResultMsg:
		return m.handleCartResultMsg(msg)

	case LoginResultMsg:
		return m.handleLoginResultMsg(msg)

	case CartLoadedMsg:
		return m.handleCartLoadedMsg(msg)

	case CartClearedMsg:
		if msg.Err != nil {
			m.setStatus(msg.Err.Error(), true)
			return nil
		}
		m.setStatus("Cart cleared", false)
		return loadCartCmd(m.backend)

	case spinner.TickMsg:
		_, cmd := m.menu.Update(msg)
		return cmd

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	}
	return nil
}

func (m *MainModel) enterPage(page state.Page) tea.Cmd {
	switch page {
	case state.PageLogin:
		m.state.LoginErr = ""
		m.username.SetValue("")
		m.password.SetValue("")
		m.loginFocus = 0
		m.password.Blur()
		return m.username.Focus()
	case state.PageCart:
		return loadCartCmd(m.backend)
	}
	return nil
}

func (m *MainModel) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.router.Page() {
	case state.PageLogin:
		return m.handleLoginKey(msg)
	case state.PageCart:
		switch msg.String() {
		case "q":
			return m.quit()
		case "b", "esc", "backspace":
			m.router.Navigate(state.PathMenu, components.NavState{From: state.PathCart})
		case "x":
			return clearCartCmd(m.backend)
		}
		return nil
	}

	if !m.menu.Capturing() {
		switch msg.String() {
		case "q":
			return m.quit()
		case "c":
			m.openCart()
			return nil
		case "L":
			if m.state.Snapshot.IsAuthenticated {
				m.backend.Logout()
				m.setStatus("Signed out", false)
			}
			return nil
		}
	}
	_, cmd := m.menu.Update(msg)
	return cmd
}

func (m *MainModel) handleLoginKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.router.Navigate(state.PathMenu, components.NavState{From: state.PathLogin})
		return nil
	case "tab", "shift+tab", "up", "down":
		return m.setLoginFocus(1 - m.loginFocus)
	case "enter":
		if m.loginFocus == 0 {
			return m.setLoginFocus(1)
		}
		return loginCmd(m.backend, m.username.Value(), m.password.Value())
	}

	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return cmd
}

func (m *MainModel) setLoginFocus(i int) tea.Cmd {
	m.loginFocus = i
	if i == 0 {
		m.password.Blur()
		return m.username.Focus()
	}
	m.username.Blur()
	return m.password.Focus()
}

func (m *MainModel) openCart() {
	if !m.backend.Snapshot().IsAuthenticated {
		m.router.Navigate(state.PathLogin, components.NavState{From: state.PathCart})
		return
	}
	m.router.Navigate(state.PathCart, components.NavState{From: state.PathMenu})
}

func (m *MainModel) quit() tea.Cmd {
	m.quitting = true
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	return tea.Quit
}

func (m *MainModel) setStatus(text string, isErr bool) {
	m.state.Status = text
	m.state.StatusIsErr = isErr
}

func (m *MainModel) handleWindowSizeMsg(msg tea.WindowSizeMsg) tea.Cmd {
	m.width = msg.Width
	m.height = msg.Height
	m.menu.SetSize(msg.Width, msg.Height)
	newW := msg.Width/2 - 6
	if newW > 10 {
		m.chart.Resize(newW, 12)
	}
	return nil
}

func (m *MainModel) handleSnapshotMsg(msg SnapshotMsg) tea.Cmd {
	snap := store.Snapshot(msg)
	m.state.Snapshot = snap
	m.menu.SetSnapshot(snap)
	if !snap.IsAuthenticated && m.router.Page() == state.PageCart {
		m.router.Navigate(state.PathMenu, components.NavState{From: state.PathCart})
	}
	return waitForSnapshot(m.updates)
}

func (m *MainModel) handleCartResultMsg(msg components.CartResultMsg) tea.Cmd {
	switch {
	case msg.Err == nil:
		m.setStatus("Added "+msg.Item.ItemName+" to cart", false)
	case errors.Is(msg.Err, store.ErrNotAuthenticated):
		m.router.Navigate(state.PathLogin, components.NavState{From: state.PathMenu})
	default:
		m.log.Warn("add to cart failed", zap.String("item", msg.Item.Key()), zap.Error(msg.Err))
		m.setStatus(msg.Err.Error(), true)
	}
	return nil
}

func (m *MainModel) handleLoginResultMsg(msg LoginResultMsg) tea.Cmd {
	if msg.Err != nil {
		m.state.LoginErr = msg.Err.Error()
		m.password.SetValue("")
		return nil
	}
	m.state.LoginErr = ""
	m.state.Snapshot = m.backend.Snapshot()
	m.menu.SetSnapshot(m.state.Snapshot)
	m.setStatus("Signed in as "+msg.User, false)
	m.router.Navigate(m.router.ReturnPath(), components.NavState{From: state.PathLogin})
	return nil
}

func (m *MainModel) handleCartLoadedMsg(msg CartLoadedMsg) tea.Cmd {
	if msg.Err != nil {
		m.state.CartErr = msg.Err.Error()
		m.state.Cart = output.CartSummary{}
		m.chart.SetTotals(nil)
		return nil
	}
	m.state.CartErr = ""
	m.state.Cart = output.BuildCartSummary(msg.Lines, m.prices)
	m.chart.SetTotals(m.state.Cart.Categories)
	return nil
}

func (m *MainModel) handleMouseMsg(msg tea.MouseMsg) tea.Cmd {
	if m.router.Page() != state.PageMenu {
		return nil
	}
	_, cmd := m.menu.Update(msg)
	return cmd
}

func (m *MainModel) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	props := views.ViewProps{
		Width:  m.width,
		Height: m.height,
	}

	var out string
	switch m.router.Page() {
	case state.PageMenu:
		out = m.menu.Render(m.state, props)
	case state.PageLogin:
		props.UsernameView = m.username.View()
		props.PasswordView = m.password.View()
		props.LoginFocus = m.loginFocus
		props.LoginFrom = m.router.ReturnPath()
		out = views.RenderLogin(m.state, props)
	case state.PageCart:
		props.ChartView = m.chart.View()
		out = views.RenderCart(m.state, props)
	default:
		out = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Bold(true).Render("Page not found\n\nPress 'b' to go back"),
		)
	}
	return zone.Scan(out)
}

func Start(backend Backend, opts Options) error {
	m := InitialModel(backend, opts)
	defer m.unsubscribe()
	p := tea.NewProgram(
		&m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
