package views

import (
	"menucatalog/ui/tui/state"
)

func RenderMenu(s state.AppState, props ViewProps) string {
	return MenuView{}.Render(s, props)
}

func RenderLogin(s state.AppState, props ViewProps) string {
	return LoginView{}.Render(s, props)
}

func RenderCart(s state.AppState, props ViewProps) string {
	return CartView{}.Render(s, props)
}
