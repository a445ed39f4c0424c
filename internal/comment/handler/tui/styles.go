package tui

import "github.com/charmbracelet/lipgloss"

var (
	Accent  = lipgloss.Color("#6366F1")
	Warning = lipgloss.Color("#EAB308")
	Muted   = lipgloss.Color("#6B7280")
)

type Styles struct {
	Header   lipgloss.Style
	Control  lipgloss.Style
	Composer lipgloss.Style
	Comment  lipgloss.Style
	Reply    lipgloss.Style
	Selected lipgloss.Style
	Star     lipgloss.Style
	Time     lipgloss.Style
	Empty    lipgloss.Style
	Help     lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(Accent),
		Control:  lipgloss.NewStyle().Foreground(Muted),
		Composer: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Accent).Padding(0, 1),
		Comment:  lipgloss.NewStyle().PaddingLeft(2),
		Reply:    lipgloss.NewStyle().PaddingLeft(6),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(Accent),
		Star:     lipgloss.NewStyle().Foreground(Warning),
		Time:     lipgloss.NewStyle().Foreground(Muted).Italic(true),
		Empty:    lipgloss.NewStyle().Foreground(Muted).PaddingLeft(2),
		Help:     lipgloss.NewStyle().Foreground(Muted),
	}
}
