package tui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Title       lipgloss.Style
	Board       lipgloss.Style
	Cell        lipgloss.Style
	CellX       lipgloss.Style
	CellO       lipgloss.Style
	CellEmpty   lipgloss.Style
	Cursor      lipgloss.Style
	Winning     lipgloss.Style
	Status      lipgloss.Style
	Scores      lipgloss.Style
	Timer       lipgloss.Style
	Error       lipgloss.Style
	Help        lipgloss.Style
	Overlay     lipgloss.Style
	OverlayText lipgloss.Style
}

func LightTheme() Theme {
	return Theme{
		Title:       lipgloss.NewStyle().Foreground(lipgloss.Color("25")).Bold(true),
		Board:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("245")),
		Cell:        lipgloss.NewStyle().Width(3).Align(lipgloss.Center),
		CellX:       lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true),
		CellO:       lipgloss.NewStyle().Foreground(lipgloss.Color("26")).Bold(true),
		CellEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Cursor:      lipgloss.NewStyle().Background(lipgloss.Color("254")),
		Winning:     lipgloss.NewStyle().Background(lipgloss.Color("157")),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
		Scores:      lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
		Timer:       lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		Help:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Overlay:     lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("25")).Padding(0, 2),
		OverlayText: lipgloss.NewStyle().Foreground(lipgloss.Color("25")).Bold(true),
	}
}

func DarkTheme() Theme {
	return Theme{
		Title:       lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		Board:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
		Cell:        lipgloss.NewStyle().Width(3).Align(lipgloss.Center),
		CellX:       lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		CellO:       lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		CellEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		Cursor:      lipgloss.NewStyle().Background(lipgloss.Color("237")),
		Winning:     lipgloss.NewStyle().Background(lipgloss.Color("22")),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		Scores:      lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
		Timer:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Help:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Overlay:     lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("226")).Padding(0, 2),
		OverlayText: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
	}
}

func themeFor(darkMode bool) Theme {
	if darkMode {
		return DarkTheme()
	}
	return LightTheme()
}
