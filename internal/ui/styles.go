package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nissyi-gh/socialdebt/internal/model"
)

type palette struct {
	accent, muted, danger, confirm, owe, owed, border, toast string
}

var palettes = map[model.Theme]palette{
	model.Light: {accent: "170", muted: "241", danger: "160", confirm: "205", owe: "166", owed: "28", border: "250", toast: "25"},
	model.Dark:  {accent: "213", muted: "245", danger: "203", confirm: "212", owe: "214", owed: "120", border: "238", toast: "81"},
}

type styles struct {
	app      lipgloss.Style
	title    lipgloss.Style
	status   lipgloss.Style
	err      lipgloss.Style
	confirm  lipgloss.Style
	owe      lipgloss.Style
	owed     lipgloss.Style
	toast    lipgloss.Style
	selected lipgloss.Style
	tab      lipgloss.Style
	tabOn    lipgloss.Style
	box      lipgloss.Style
	avatar   lipgloss.Style
}

func newStyles(t model.Theme) styles {
	p, ok := palettes[t]
	if !ok {
		p = palettes[model.Light]
	}
	return styles{
		app:      lipgloss.NewStyle().Padding(1, 2),
		title:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.accent)).Bold(true),
		status:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.danger)),
		confirm:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.confirm)).Bold(true),
		owe:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.owe)),
		owed:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.owed)),
		toast:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.toast)).Bold(true),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color(p.accent)),
		tab:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)).Padding(0, 1),
		tabOn:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.accent)).Bold(true).Underline(true).Padding(0, 1),
		box: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.border)),
		avatar: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.accent)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.accent)).
			Padding(0, 1),
	}
}

// balance colors n by who owes whom.
func (s styles) balance(n int, text string) string {
	switch {
	case n > 0:
		return s.owed.Render(text)
	case n < 0:
		return s.owe.Render(text)
	default:
		return text
	}
}
