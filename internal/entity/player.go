package entity

// Player is one of the two sides. X always opens a round.
type Player string

const (
	PlayerX Player = "X"
	PlayerO Player = "O"
)

// Cell is the content of a single board square. The empty string keeps the
// persisted board compatible with records written as ["X", "", "O", ...].
type Cell string

const (
	EmptyCell Cell = ""
	MarkX     Cell = "X"
	MarkO     Cell = "O"
)

func (that Player) IsValid() bool {
	return that == PlayerX || that == PlayerO
}

// Mark returns the cell value the player places.
func (that Player) Mark() Cell {
	return Cell(that)
}

func (that Player) Opponent() Player {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (that Cell) IsValid() bool {
	return that == EmptyCell || that == MarkX || that == MarkO
}

func (that Cell) IsEmpty() bool {
	return that == EmptyCell
}

// Owner returns the player that placed the mark. Only meaningful for non-empty cells.
func (that Cell) Owner() Player {
	return Player(that)
}
