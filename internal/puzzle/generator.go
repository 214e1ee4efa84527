package puzzle

import (
	"math/rand"
	"time"
)

func targetGivens(d Difficulty) int {
	switch d {
	case Easy:
		return 40
	case Medium:
		return 34
	case Hard:
		return 28
	default:
		return 40
	}
}

// Generate produces a puzzle at the target difficulty: fill a full random
// solution, then carve blanks while the solution stays unique. Carving is
// time-boxed, so an easy-leaning grid can come back when the budget runs
// out; the givens target is a goal, not a guarantee.
func Generate(rng *rand.Rand, d Difficulty) Grid {
	var full [9][9]uint8
	fillRandom(rng, &full)

	work := full
	positions := make([]int, Cells)
	for i := range positions {
		positions[i] = i
	}
	rng.Shuffle(len(positions), func(i, j int) {
		positions[i], positions[j] = positions[j], positions[i]
	})

	target := targetGivens(d)
	givens := Cells
	deadline := time.Now().Add(900 * time.Millisecond)

	for _, pos := range positions {
		if givens <= target || time.Now().After(deadline) {
			break
		}
		r, c := pos/9, pos%9
		old := work[r][c]
		work[r][c] = 0
		probe := work
		if countSolutions(&probe, 2) != 1 {
			work[r][c] = old
			continue
		}
		givens--
	}
	return fromBoard(&work)
}

// fillRandom solves an empty grid into a full valid solution by trying
// digits in random order.
func fillRandom(rng *rand.Rand, grid *[9][9]uint8) bool {
	var nums [9]uint8
	for i := 0; i < 9; i++ {
		nums[i] = uint8(i + 1)
	}
	var dfs func(r, c int) bool
	dfs = func(r, c int) bool {
		if r == 9 {
			return true
		}
		nr, nc := r, c+1
		if nc == 9 {
			nr, nc = r+1, 0
		}
		rng.Shuffle(9, func(i, j int) { nums[i], nums[j] = nums[j], nums[i] })
		for _, v := range nums {
			if isValid(grid, r, c, v) {
				grid[r][c] = v
				if dfs(nr, nc) {
					return true
				}
				grid[r][c] = 0
			}
		}
		return false
	}
	return dfs(0, 0)
}
