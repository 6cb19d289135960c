package tictactoe

import (
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/xo-engine/internal/apperror"
	"github.com/rocketscienceinc/xo-engine/internal/entity"
)

// DefaultBoardSize is the classic 3x3 board.
const DefaultBoardSize = 3

var errNilSnapshot = errors.New("snapshot is nil")

// Notifier receives a notification after every engine state change and every rejected move.
type Notifier interface {
	Notify(notification entity.Notification)
}

type Option func(*Engine)

// WithClock replaces time.Now as the source of first-move and final-move times.
func WithClock(clock func() time.Time) Option {
	return func(engine *Engine) {
		engine.clock = clock
	}
}

func WithNotifier(notifier Notifier) Option {
	return func(engine *Engine) {
		engine.notifier = notifier
	}
}

// WithDefaultSize sets the size ClearAll and corrupt-snapshot recovery return to.
func WithDefaultSize(size int) Option {
	return func(engine *Engine) {
		engine.defaultSize = size
	}
}

// Engine owns the board, turn, status, scores and timer of a single game
// session. It is not safe for concurrent use; callers serialize access.
type Engine struct {
	size        int
	defaultSize int

	board       []entity.Cell
	lines       []Line
	current     entity.Player
	status      entity.Status
	winner      entity.Player
	winningLine []int

	scores entity.Scores
	timer  Timer

	clock    func() time.Time
	notifier Notifier
}

func NewEngine(size int, opts ...Option) (*Engine, error) {
	if size < MinBoardSize {
		return nil, fmt.Errorf("%w: %d", apperror.ErrInvalidSize, size)
	}

	engine := &Engine{
		defaultSize: DefaultBoardSize,
		clock:       time.Now,
	}

	for _, opt := range opts {
		opt(engine)
	}

	if engine.defaultSize < MinBoardSize {
		return nil, fmt.Errorf("%w: default size %d", apperror.ErrInvalidSize, engine.defaultSize)
	}

	engine.setSize(size)
	engine.newRound()

	return engine, nil
}

// ApplyMove places the current player's mark on cell. A rejected move leaves
// the state untouched and returns an error wrapping apperror.ErrIllegalMove.
func (that *Engine) ApplyMove(cell int) error {
	if err := that.validateMove(cell); err != nil {
		that.notifyIllegalMove(cell, err)
		return fmt.Errorf("%w: %w", apperror.ErrIllegalMove, err)
	}

	now := that.clock()

	that.board[cell] = that.current.Mark()
	that.timer.Start(now)
	that.updateStatus(cell, now)

	that.notifyState(&cell)

	return nil
}

// Reset starts a new round on the same board size. Scores are kept.
func (that *Engine) Reset() {
	that.newRound()
	that.notifyState(nil)
}

// Resize switches to a size x size board and starts a new round. Resizing to
// the current size is a no-op.
func (that *Engine) Resize(size int) error {
	if size < MinBoardSize {
		return fmt.Errorf("%w: %d", apperror.ErrInvalidSize, size)
	}

	if size == that.size {
		return nil
	}

	that.setSize(size)
	that.newRound()
	that.notifyState(nil)

	return nil
}

func (that *Engine) ClearScores() {
	that.scores = entity.Scores{}
	that.notifyState(nil)
}

// ClearAll returns to the default board size with a fresh round and zero scores.
func (that *Engine) ClearAll() {
	that.resetToDefault()
	that.notifyState(nil)
}

// Tick advances the round timer to now. Only an active round with a started
// timer moves; reports whether the elapsed seconds changed.
func (that *Engine) Tick(now time.Time) bool {
	if that.status != entity.StatusActive {
		return false
	}

	if !that.timer.Tick(now) {
		return false
	}

	that.notifyState(nil)

	return true
}

func (that *Engine) Snapshot() *entity.Snapshot {
	return &entity.Snapshot{
		Board:         append([]entity.Cell(nil), that.board...),
		CurrentPlayer: that.current,
		GameActive:    that.status == entity.StatusActive,
		Scores:        that.scores,
		BoardSize:     that.size,
		Timer:         that.timer.State(),
	}
}

// Restore replaces the whole engine state with the snapshot. On a structural
// mismatch the engine falls back to a fresh default state and the returned
// error wraps apperror.ErrCorruptSnapshot; the engine is playable either way.
func (that *Engine) Restore(snapshot *entity.Snapshot) error {
	if err := that.validateSnapshot(snapshot); err != nil {
		that.resetToDefault()
		that.notifyState(nil)

		return fmt.Errorf("%w: %w", apperror.ErrCorruptSnapshot, err)
	}

	that.setSize(snapshot.BoardSize)
	that.board = append([]entity.Cell(nil), snapshot.Board...)
	that.current = snapshot.CurrentPlayer
	that.scores = snapshot.Scores
	that.timer.restore(snapshot.Timer)
	that.winner = ""
	that.winningLine = nil
	that.status = entity.StatusActive

	if !snapshot.GameActive {
		that.status = entity.StatusDraw
		if line, ok := that.anyCompletedLine(); ok {
			that.status = entity.StatusWon
			that.winner = that.board[line[0]].Owner()
			that.winningLine = line.Indices()
		}

		that.timer.Stop(time.Time{})
	}

	that.notifyState(nil)

	return nil
}

func (that *Engine) State() entity.State {
	state := entity.State{
		Size:           that.size,
		Board:          append([]entity.Cell(nil), that.board...),
		CurrentPlayer:  that.current,
		Status:         that.status,
		Winner:         that.winner,
		Scores:         that.scores,
		ElapsedSeconds: that.timer.Elapsed(),
		Elapsed:        FormatElapsed(that.timer.Elapsed()),
	}

	if that.winningLine != nil {
		state.WinningLine = append([]int(nil), that.winningLine...)
	}

	return state
}

// HasGameStarted reports whether any mark is on the board.
func (that *Engine) HasGameStarted() bool {
	for _, cell := range that.board {
		if !cell.IsEmpty() {
			return true
		}
	}
	return false
}

func (that *Engine) Size() int {
	return that.size
}

func (that *Engine) DefaultSize() int {
	return that.defaultSize
}

func (that *Engine) Status() entity.Status {
	return that.status
}

func (that *Engine) CurrentPlayer() entity.Player {
	return that.current
}

func (that *Engine) Scores() entity.Scores {
	return that.scores
}

func (that *Engine) Lines() []Line {
	return append([]Line(nil), that.lines...)
}

// validateMove - checks if the move is legal.
func (that *Engine) validateMove(cell int) error {
	if that.status != entity.StatusActive {
		return apperror.ErrGameFinished
	}

	if cell < 0 || cell >= len(that.board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if !that.board[cell].IsEmpty() {
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
	}

	return nil
}

// updateStatus - checks for a win, then a draw, then passes the turn.
func (that *Engine) updateStatus(cell int, now time.Time) {
	if line, ok := that.completedLine(that.current.Mark(), cell); ok {
		that.status = entity.StatusWon
		that.winner = that.current
		that.winningLine = line.Indices()
		that.scores.Increment(that.current)
		that.timer.Stop(now)

		return
	}

	if that.isBoardFull() {
		that.status = entity.StatusDraw
		that.timer.Stop(now)

		return
	}

	that.current = that.current.Opponent()
}

// completedLine finds a line through cell holding three of mark.
func (that *Engine) completedLine(mark entity.Cell, cell int) (Line, bool) {
	for _, line := range that.lines {
		if !line.Contains(cell) {
			continue
		}

		if that.board[line[0]] == mark && that.board[line[1]] == mark && that.board[line[2]] == mark {
			return line, true
		}
	}

	return Line{}, false
}

func (that *Engine) anyCompletedLine() (Line, bool) {
	for _, line := range that.lines {
		a, b, c := that.board[line[0]], that.board[line[1]], that.board[line[2]]
		if !a.IsEmpty() && a == b && b == c {
			return line, true
		}
	}

	return Line{}, false
}

func (that *Engine) isBoardFull() bool {
	for _, cell := range that.board {
		if cell.IsEmpty() {
			return false
		}
	}
	return true
}

func (that *Engine) setSize(size int) {
	that.size = size
	that.lines = Lines(size)
}

func (that *Engine) newRound() {
	that.board = make([]entity.Cell, that.size*that.size)
	that.current = entity.PlayerX
	that.status = entity.StatusActive
	that.winner = ""
	that.winningLine = nil
	that.timer.Reset()
}

func (that *Engine) resetToDefault() {
	if that.size != that.defaultSize {
		that.setSize(that.defaultSize)
	}

	that.newRound()
	that.scores = entity.Scores{}
}

func (that *Engine) validateSnapshot(snapshot *entity.Snapshot) error {
	if snapshot == nil {
		return errNilSnapshot
	}

	if snapshot.BoardSize < MinBoardSize {
		return fmt.Errorf("%w: %d", apperror.ErrInvalidSize, snapshot.BoardSize)
	}

	if want := snapshot.BoardSize * snapshot.BoardSize; len(snapshot.Board) != want {
		return fmt.Errorf("board has %d cells, want %d", len(snapshot.Board), want)
	}

	for i, cell := range snapshot.Board {
		if !cell.IsValid() {
			return fmt.Errorf("unknown mark %q in cell %d", cell, i)
		}
	}

	if !snapshot.CurrentPlayer.IsValid() {
		return fmt.Errorf("unknown current player %q", snapshot.CurrentPlayer)
	}

	if !snapshot.Scores.IsValid() {
		return fmt.Errorf("negative scores %+v", snapshot.Scores)
	}

	if snapshot.Timer.ElapsedSeconds < 0 || snapshot.Timer.StartedAt < 0 {
		return fmt.Errorf("negative timer %+v", snapshot.Timer)
	}

	return nil
}

func (that *Engine) notifyState(cell *int) {
	if that.notifier == nil {
		return
	}

	that.notifier.Notify(entity.Notification{
		Kind:  entity.KindState,
		Cell:  cell,
		State: that.State(),
	})
}

func (that *Engine) notifyIllegalMove(cell int, reason error) {
	if that.notifier == nil {
		return
	}

	that.notifier.Notify(entity.Notification{
		Kind:   entity.KindIllegalMove,
		Cell:   &cell,
		Reason: reason.Error(),
		State:  that.State(),
	})
}
