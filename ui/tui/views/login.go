package views

import (
	"github.com/charmbracelet/lipgloss"

	"menucatalog/ui/tui/state"
	"menucatalog/ui/tui/styles"
)

type LoginView struct{}

func (v LoginView) Render(s state.AppState, props ViewProps) string {
	header := renderHeader(s, props.Width, "SIGN IN")

	label := func(text string, focused bool) string {
		st := lipgloss.NewStyle().Width(10)
		if focused {
			st = st.Foreground(styles.BrandColor).Bold(true)
		}
		return st.Render(text)
	}

	lines := []string{
		styles.TitleStyle.UnsetPaddingLeft().Render("Sign in to add items to your cart"),
		"",
		label("Username", props.LoginFocus == 0) + props.UsernameView,
		label("Password", props.LoginFocus == 1) + props.PasswordView,
	}
	if props.LoginFrom != "" {
		lines = append(lines, "", styles.CopyStyle.UnsetPaddingLeft().Render("Continues to "+props.LoginFrom))
	}
	if s.LoginErr != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(styles.ErrorColor).Render(s.LoginErr))
	}
	form := styles.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		form,
		styles.HelpStyle.Render("[Tab] Next field • [Enter] Sign in • [Esc] Back"),
	)
}
