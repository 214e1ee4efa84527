package puzzle

func isValid(b *[9][9]uint8, r, c int, v uint8) bool {
	for i := 0; i < 9; i++ {
		if b[r][i] == v || b[i][c] == v {
			return false
		}
	}
	br, bc := (r/3)*3, (c/3)*3
	for dr := 0; dr < 3; dr++ {
		for dc := 0; dc < 3; dc++ {
			if b[br+dr][bc+dc] == v {
				return false
			}
		}
	}
	return true
}

func findEmpty(b *[9][9]uint8) (int, int, bool) {
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if b[r][c] == 0 {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

func solve(b *[9][9]uint8) bool {
	r, c, ok := findEmpty(b)
	if !ok {
		return true
	}
	for v := uint8(1); v <= 9; v++ {
		if isValid(b, r, c, v) {
			b[r][c] = v
			if solve(b) {
				return true
			}
			b[r][c] = 0
		}
	}
	return false
}

// countSolutions counts solutions up to the given cap.
func countSolutions(b *[9][9]uint8, limit int) int {
	r, c, ok := findEmpty(b)
	if !ok {
		return 1
	}
	n := 0
	for v := uint8(1); v <= 9; v++ {
		if isValid(b, r, c, v) {
			b[r][c] = v
			n += countSolutions(b, limit-n)
			b[r][c] = 0
			if n >= limit {
				break
			}
		}
	}
	return n
}

// Solve reports whether g has at least one completion that satisfies the
// row/column/box constraints. Pre-filled cells that already conflict make
// the grid unsolvable.
func Solve(g Grid) bool {
	if !g.Valid() {
		return false
	}
	b := g.board()
	// A given that violates the constraints can never be repaired by the
	// backtracker, which only fills blanks.
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			if b[r][c] == 0 {
				continue
			}
			v := b[r][c]
			b[r][c] = 0
			ok := isValid(&b, r, c, v)
			b[r][c] = v
			if !ok {
				return false
			}
		}
	}
	return solve(&b)
}
