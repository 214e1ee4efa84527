package puzzle

// Difficulty selects a puzzle pool. Unknown tags fall back to Easy.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Normalize maps unknown difficulty tags to Easy, the pool they are
// served from.
func Normalize(d Difficulty) Difficulty {
	switch d {
	case Easy, Medium, Hard:
		return d
	}
	return Easy
}

const (
	// Cells is the canonical grid length.
	Cells = 81
	// Blank marks an empty cell in the canonical string.
	Blank = byte('0')
)

// Grid is an 81-character row-major board, '0' for blanks.
type Grid string

// Valid reports whether g is structurally a grid: 81 cells, each '0'..'9'.
func (g Grid) Valid() bool {
	if len(g) != Cells {
		return false
	}
	for i := 0; i < Cells; i++ {
		if g[i] < '0' || g[i] > '9' {
			return false
		}
	}
	return true
}

// Cell returns the raw byte at (row, col).
func (g Grid) Cell(row, col int) byte {
	return g[row*9+col]
}

// IsClue reports whether (row, col) is a pre-filled cell. Clue cells are
// immutable for the lifetime of a room.
func (g Grid) IsClue(row, col int) bool {
	return g.Cell(row, col) != Blank
}

// Givens counts the pre-filled cells.
func (g Grid) Givens() int {
	n := 0
	for i := 0; i < Cells; i++ {
		if g[i] != Blank {
			n++
		}
	}
	return n
}

func (g Grid) board() [9][9]uint8 {
	var b [9][9]uint8
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			b[r][c] = g[r*9+c] - '0'
		}
	}
	return b
}

func fromBoard(b *[9][9]uint8) Grid {
	buf := make([]byte, 0, Cells)
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			buf = append(buf, b[r][c]+'0')
		}
	}
	return Grid(buf)
}
