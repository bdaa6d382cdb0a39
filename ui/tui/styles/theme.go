package styles

import "github.com/charmbracelet/lipgloss"

var (
	BrandColor = lipgloss.Color("#f27b24")
	BaseColor  = lipgloss.Color("#444")
	MutedColor = lipgloss.Color("#888")
	ErrorColor = lipgloss.Color("196")

	Subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	Highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	Special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(BrandColor).
			Align(lipgloss.Left).
			Padding(1, 2)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			PaddingLeft(2).
			Foreground(BrandColor)

	CopyStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true).
			PaddingLeft(2)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BaseColor).
			Padding(0, 1).
			Width(30)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Subtle).
			Padding(1, 2).
			Margin(1, 2)

	ErrorPanelStyle = PanelStyle.
			BorderForeground(ErrorColor).
			Foreground(ErrorColor)

	ChipStyle = lipgloss.NewStyle().
			Padding(0, 1).
			MarginRight(1).
			Foreground(lipgloss.Color("#AAA")).
			Background(lipgloss.Color("#262626"))

	ActiveChipStyle = ChipStyle.
			Bold(true).
			Foreground(lipgloss.Color("#FFF")).
			Background(BrandColor)

	ButtonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFF")).
			Background(Highlight).
			Padding(0, 1)

	DisabledButtonStyle = ButtonStyle.
				Foreground(lipgloss.Color("#666")).
				Background(lipgloss.Color("#2a2a2a"))

	PriceStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Special)

	StatusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFF"))

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555")).
			PaddingLeft(2)
)
