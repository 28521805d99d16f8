package view

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jhoicas/catalog-api/internal/client/state"
)

// Paleta clara y oscura
var (
	lightForeground = lipgloss.Color("#101F38")
	lightAccent     = lipgloss.Color("#00467F")
	lightMuted      = lipgloss.Color("#6B7280")
	lightSelectedBg = lipgloss.Color("#E1E4E8")

	darkForeground = lipgloss.Color("#F2F2F2")
	darkAccent     = lipgloss.Color("#8BC34A")
	darkMuted      = lipgloss.Color("#9CA3AF")
	darkSelectedBg = lipgloss.Color("#2A3850")

	colorError  = lipgloss.Color("#E53935")
	colorNotice = lipgloss.Color("#2196F3")
)

// Styles estilos de la vista para un tema.
type Styles struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Notice   lipgloss.Style
	Form     lipgloss.Style
}

// StylesFor construye los estilos del tema indicado.
func StylesFor(mode state.ThemeMode) Styles {
	fg, accent, muted, selBg := lightForeground, lightAccent, lightMuted, lightSelectedBg
	if mode == state.ThemeDark {
		fg, accent, muted, selBg = darkForeground, darkAccent, darkMuted, darkSelectedBg
	}
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		Label:    lipgloss.NewStyle().Foreground(accent),
		Item:     lipgloss.NewStyle().Foreground(fg).PaddingLeft(2),
		Selected: lipgloss.NewStyle().Foreground(fg).Background(selBg).Bold(true).PaddingLeft(2),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Error:    lipgloss.NewStyle().Foreground(colorError),
		Notice:   lipgloss.NewStyle().Foreground(colorNotice).Italic(true),
		Form: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
	}
}
