package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rocketscienceinc/xo-engine/internal/apperror"
	"github.com/rocketscienceinc/xo-engine/internal/entity"
	"github.com/rocketscienceinc/xo-engine/internal/tictactoe"
)

type gameSession interface {
	State() entity.State
	MakeMove(ctx context.Context, cell int) (entity.State, error)
	Reset(ctx context.Context) (entity.State, error)
	Resize(ctx context.Context, size int) (entity.State, error)
	ClearScores(ctx context.Context) (entity.State, error)
	ClearAll(ctx context.Context) (entity.State, error)
	Tick(now time.Time) bool
	DarkMode(ctx context.Context) (bool, error)
	ToggleDarkMode(ctx context.Context) (bool, error)
}

type Options struct {
	MaxSize      int
	TickInterval time.Duration
}

// Model is the Bubble Tea model for one game session.
type Model struct {
	ctx     context.Context
	session gameSession
	options Options

	state    entity.State
	cursor   int
	darkMode bool
	theme    Theme

	message   string
	isError   bool
	dismissed bool // game over overlay closed for the current round
	quitting  bool
}

func NewModel(ctx context.Context, session gameSession, options Options) Model {
	model := Model{
		ctx:     ctx,
		session: session,
		options: options,
		state:   session.State(),
	}

	darkMode, err := session.DarkMode(ctx)
	if err != nil {
		model.setError(fmt.Errorf("failed to read dark mode: %w", err))
	}

	model.darkMode = darkMode
	model.theme = themeFor(darkMode)
	model.cursor = centre(model.state.Size)

	return model
}

func (m Model) Init() tea.Cmd {
	return tickCmd(m.options.TickInterval)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		if m.session.Tick(time.Time(msg)) {
			m.state = m.session.State()
		}
		return m, tickCmd(m.options.TickInterval)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	size := m.state.Size

	if m.showOverlay() {
		switch msg.String() {
		case "enter", " ", "r":
			return m.apply(m.session.Reset(m.ctx)), nil
		case "esc":
			m.dismissed = true
			return m, nil
		}
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor >= size {
			m.cursor -= size
		}
	case "down", "j":
		if m.cursor < size*size-size {
			m.cursor += size
		}
	case "left", "h":
		if m.cursor%size > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor%size < size-1 {
			m.cursor++
		}

	case "enter", " ":
		return m.apply(m.session.MakeMove(m.ctx, m.cursor)), nil
	case "r":
		return m.apply(m.session.Reset(m.ctx)), nil
	case "+", "=":
		if size+1 > m.options.MaxSize {
			m.setInfo(fmt.Sprintf("%dx%d is the largest board", size, size))
			return m, nil
		}
		return m.apply(m.session.Resize(m.ctx, size+1)), nil
	case "-", "_":
		if size-1 < tictactoe.MinBoardSize {
			m.setInfo(fmt.Sprintf("%dx%d is the smallest board", size, size))
			return m, nil
		}
		return m.apply(m.session.Resize(m.ctx, size-1)), nil
	case "c":
		return m.apply(m.session.ClearScores(m.ctx)), nil
	case "x":
		m = m.apply(m.session.ClearAll(m.ctx))
		if !m.isError {
			m.setInfo("all saved data cleared")
		}
		return m, nil
	case "d":
		darkMode, err := m.session.ToggleDarkMode(m.ctx)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.darkMode = darkMode
		m.theme = themeFor(darkMode)
	}

	return m, nil
}

// apply takes the state returned by a session call. A finished round shows
// the overlay again; a new board size re-centres the cursor.
func (m Model) apply(state entity.State, err error) Model {
	if state.Size != m.state.Size {
		m.cursor = centre(state.Size)
	}

	if !state.IsFinished() || !m.state.IsFinished() {
		m.dismissed = false
	}

	m.state = state
	m.message = ""
	m.isError = false

	if err != nil {
		m.setError(err)
	}

	return m
}

func (m *Model) setError(err error) {
	m.isError = true
	m.message = err.Error()

	if !errors.Is(err, apperror.ErrIllegalMove) {
		return
	}

	for _, cause := range []error{apperror.ErrGameFinished, apperror.ErrCellOccupied, apperror.ErrInvalidCell} {
		if errors.Is(err, cause) {
			m.message = "illegal move: " + cause.Error()
			return
		}
	}
}

func (m *Model) setInfo(message string) {
	m.isError = false
	m.message = message
}

func (m Model) showOverlay() bool {
	return m.state.IsFinished() && !m.dismissed
}

func (m Model) State() entity.State {
	return m.state
}

func (m Model) Cursor() int {
	return m.cursor
}

func (m Model) DarkMode() bool {
	return m.darkMode
}

func (m Model) Message() string {
	return m.message
}

func centre(size int) int {
	return size/2*size + size/2
}

// Run starts the Bubble Tea program on the alternate screen.
func Run(ctx context.Context, session gameSession, options Options) error {
	program := tea.NewProgram(
		NewModel(ctx, session, options),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}
