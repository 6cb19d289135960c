package tictactoe

import "sync"

// winLength is how many marks in a row win, independent of board size.
const winLength = 3

// MinBoardSize is the smallest board that admits a winning line.
const MinBoardSize = winLength

// Line is a potential win condition: three row-major cell indices.
type Line [winLength]int

var (
	linesMu    sync.Mutex
	linesCache = make(map[int][]Line)
)

// GenerateLines returns every three-in-a-row line of a size x size board, in
// the order rows, columns, down-right diagonals, down-left diagonals. Sizes
// below MinBoardSize have no lines.
func GenerateLines(size int) []Line {
	if size < MinBoardSize {
		return []Line{}
	}

	span := size - (winLength - 1)
	lines := make([]Line, 0, LineCount(size))

	index := func(row, col int) int {
		return row*size + col
	}

	for row := 0; row < size; row++ {
		for col := 0; col < span; col++ {
			lines = append(lines, Line{index(row, col), index(row, col+1), index(row, col+2)})
		}
	}

	for col := 0; col < size; col++ {
		for row := 0; row < span; row++ {
			lines = append(lines, Line{index(row, col), index(row+1, col), index(row+2, col)})
		}
	}

	for row := 0; row < span; row++ {
		for col := 0; col < span; col++ {
			lines = append(lines, Line{index(row, col), index(row+1, col+1), index(row+2, col+2)})
		}
	}

	for row := 0; row < span; row++ {
		for col := winLength - 1; col < size; col++ {
			lines = append(lines, Line{index(row, col), index(row+1, col-1), index(row+2, col-2)})
		}
	}

	return lines
}

// LineCount is the number of lines GenerateLines yields for size.
func LineCount(size int) int {
	if size < MinBoardSize {
		return 0
	}

	span := size - (winLength - 1)

	return 2*size*span + 2*span*span
}

// Lines returns the memoized line set for size. The slice is shared between
// callers and must not be modified.
func Lines(size int) []Line {
	linesMu.Lock()
	defer linesMu.Unlock()

	if lines, ok := linesCache[size]; ok {
		return lines
	}

	lines := GenerateLines(size)
	linesCache[size] = lines

	return lines
}

// Contains reports whether the line passes through cell.
func (that Line) Contains(cell int) bool {
	for _, index := range that {
		if index == cell {
			return true
		}
	}
	return false
}

func (that Line) Indices() []int {
	return []int{that[0], that[1], that[2]}
}
