package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rocketscienceinc/xo-engine/internal/entity"
)

const helpText = "←↑↓→/hjkl move • enter place • r new round • +/- size • c clear scores • x clear all • d theme • q quit"

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.theme.Title.Render(fmt.Sprintf("XO %dx%d", m.state.Size, m.state.Size)),
		m.theme.Scores.Render(fmt.Sprintf("X: %d   O: %d", m.state.Scores.X, m.state.Scores.O)) +
			"   " + m.theme.Timer.Render(m.state.Elapsed),
		m.theme.Board.Render(m.renderBoard()),
		m.theme.Status.Render(statusLine(m.state)),
	}

	if m.showOverlay() {
		sections = append(sections, m.theme.Overlay.Render(
			m.theme.OverlayText.Render(gameOverText(m.state))+"\n"+
				m.theme.Help.Render("enter play again • esc close"),
		))
	}

	if m.message != "" {
		style := m.theme.Status
		if m.isError {
			style = m.theme.Error
		}
		sections = append(sections, style.Render(m.message))
	}

	sections = append(sections, m.theme.Help.Render(helpText))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderBoard() string {
	size := m.state.Size
	rows := make([]string, 0, size)

	for row := 0; row < size; row++ {
		cells := make([]string, 0, size)
		for col := 0; col < size; col++ {
			cells = append(cells, m.renderCell(row*size+col))
		}
		rows = append(rows, strings.Join(cells, " "))
	}

	return strings.Join(rows, "\n")
}

func (m Model) renderCell(index int) string {
	mark := m.state.Board[index]

	var style lipgloss.Style
	text := string(mark)

	switch mark {
	case entity.MarkX:
		style = m.theme.CellX
	case entity.MarkO:
		style = m.theme.CellO
	default:
		style = m.theme.CellEmpty
		text = "·"
	}

	switch {
	case slices.Contains(m.state.WinningLine, index):
		style = style.Inherit(m.theme.Winning)
	case index == m.cursor && m.state.IsActive():
		style = style.Inherit(m.theme.Cursor)
	}

	return style.Inherit(m.theme.Cell).Render(text)
}

func statusLine(state entity.State) string {
	switch state.Status {
	case entity.StatusWon, entity.StatusDraw:
		return gameOverText(state)
	default:
		return fmt.Sprintf("Player %s's turn", state.CurrentPlayer)
	}
}

func gameOverText(state entity.State) string {
	if state.Status == entity.StatusDraw {
		return "It's a Draw!"
	}

	return fmt.Sprintf("%s Wins!", state.Winner)
}
