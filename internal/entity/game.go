package entity

type Status string

const (
	StatusActive Status = "active"
	StatusWon    Status = "won"
	StatusDraw   Status = "draw"
)

const (
	KindState       = "state"
	KindIllegalMove = "illegal-move"
)

// Scores is the win tally. It survives rounds and is only lowered by an explicit clear.
type Scores struct {
	X int `json:"X"`
	O int `json:"O"`
}

// TimerState is the persisted part of the round timer. StartedAt is unix
// milliseconds of the first move while the timer runs, zero otherwise.
type TimerState struct {
	ElapsedSeconds int   `json:"elapsed_seconds"`
	StartedAt      int64 `json:"started_at"`
}

// Snapshot is the persisted projection of a game. Status is stored only as the
// active flag; won or drawn is derived from the board on restore.
type Snapshot struct {
	Board         []Cell     `json:"board"`
	CurrentPlayer Player     `json:"current_player"`
	GameActive    bool       `json:"game_active"`
	Scores        Scores     `json:"scores"`
	BoardSize     int        `json:"board_size"`
	Timer         TimerState `json:"timer"`
}

// State is the observable game state handed to UI layers.
type State struct {
	Size           int    `json:"size"`
	Board          []Cell `json:"board"`
	CurrentPlayer  Player `json:"current_player"`
	Status         Status `json:"status"`
	Winner         Player `json:"winner,omitempty"`
	WinningLine    []int  `json:"winning_line,omitempty"`
	Scores         Scores `json:"scores"`
	ElapsedSeconds int    `json:"elapsed_seconds"`
	Elapsed        string `json:"elapsed"`
}

// Notification is emitted by the engine after every state change and for every rejected move.
type Notification struct {
	Kind   string `json:"kind"`
	Cell   *int   `json:"cell,omitempty"`
	Reason string `json:"reason,omitempty"`
	State  State  `json:"state"`
}

func (that *Scores) Increment(player Player) {
	switch player {
	case PlayerX:
		that.X++
	case PlayerO:
		that.O++
	}
}

func (that Scores) Of(player Player) int {
	if player == PlayerO {
		return that.O
	}
	return that.X
}

func (that Scores) IsValid() bool {
	return that.X >= 0 && that.O >= 0
}

func (that *State) IsActive() bool {
	return that.Status == StatusActive
}

func (that *State) IsFinished() bool {
	return that.Status == StatusWon || that.Status == StatusDraw
}

func (that *Notification) IsIllegalMove() bool {
	return that.Kind == KindIllegalMove
}

// Clone returns a deep copy of the snapshot.
func (that *Snapshot) Clone() *Snapshot {
	clone := *that
	clone.Board = append([]Cell(nil), that.Board...)

	return &clone
}
