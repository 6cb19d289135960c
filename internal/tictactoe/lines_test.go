package tictactoe

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLines(t *testing.T) {
	t.Run("Classic board yields the eight classic combos in order", func(t *testing.T) {
		// When: generating lines for a 3x3 board
		lines := GenerateLines(3)

		// Then: rows, columns, then both diagonals
		expected := []Line{
			{0, 1, 2},
			{3, 4, 5},
			{6, 7, 8},
			{0, 3, 6},
			{1, 4, 7},
			{2, 5, 8},
			{0, 4, 8},
			{2, 4, 6},
		}

		require.Equal(t, expected, lines)
	})

	t.Run("Sizes below three have no lines", func(t *testing.T) {
		for _, size := range []int{-1, 0, 1, 2} {
			// When: generating lines for a too small board
			lines := GenerateLines(size)

			// Then: the set is empty
			assert.Empty(t, lines, "size %d", size)
			assert.Zero(t, LineCount(size))
		}
	})

	t.Run("Four by four board", func(t *testing.T) {
		// When: generating lines for a 4x4 board
		lines := GenerateLines(4)

		// Then: 8 row lines, 8 column lines, 4 per diagonal family
		require.Len(t, lines, 24)
		assert.Equal(t, Line{0, 1, 2}, lines[0])
		assert.Equal(t, Line{1, 2, 3}, lines[1])
		assert.Equal(t, Line{0, 4, 8}, lines[8])
		assert.Equal(t, Line{0, 5, 10}, lines[16])
		assert.Equal(t, Line{2, 5, 8}, lines[20])
		assert.Equal(t, Line{7, 10, 13}, lines[23])
	})

	for size := 3; size <= 12; size++ {
		t.Run(fmt.Sprintf("Size %d matches the line formula and board geometry", size), func(t *testing.T) {
			// When: generating lines
			lines := GenerateLines(size)

			// Then: the count is N*(N-2)*2 + (N-2)^2*2
			span := size - 2
			require.Len(t, lines, size*span*2+span*span*2)
			require.Equal(t, len(lines), LineCount(size))

			seen := make(map[Line]bool, len(lines))
			for _, line := range lines {
				// Then: no duplicates
				require.False(t, seen[line], "duplicate line %v", line)
				seen[line] = true

				// Then: every cell is on the board and steps are one straight, unwrapped move
				for _, cell := range line {
					require.GreaterOrEqual(t, cell, 0)
					require.Less(t, cell, size*size)
				}

				dRow, dCol := line[1]/size-line[0]/size, line[1]%size-line[0]%size
				assert.Equal(t, dRow, line[2]/size-line[1]/size, "line %v", line)
				assert.Equal(t, dCol, line[2]%size-line[1]%size, "line %v", line)
				assert.LessOrEqual(t, abs(dRow), 1)
				assert.LessOrEqual(t, abs(dCol), 1)
				assert.False(t, dRow == 0 && dCol == 0)
			}
		})
	}

	t.Run("Generation is deterministic", func(t *testing.T) {
		assert.Equal(t, GenerateLines(7), GenerateLines(7))
	})
}

func TestLines(t *testing.T) {
	t.Run("Returns the cached set for repeated sizes", func(t *testing.T) {
		// Given: lines requested once
		first := Lines(6)

		// When: requesting the same size again
		second := Lines(6)

		// Then: the same backing slice is returned
		require.NotEmpty(t, first)
		assert.Same(t, &first[0], &second[0])
		assert.Equal(t, GenerateLines(6), second)
	})
}

func TestLine_Contains(t *testing.T) {
	line := Line{2, 4, 6}

	assert.True(t, line.Contains(4))
	assert.False(t, line.Contains(5))
	assert.Equal(t, []int{2, 4, 6}, line.Indices())
}

func abs(value int) int {
	if value < 0 {
		return -value
	}
	return value
}
