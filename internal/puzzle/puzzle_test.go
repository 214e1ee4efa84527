package puzzle

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const solvedGrid = "534678912" +
	"672195348" +
	"198342567" +
	"859761423" +
	"426853791" +
	"713924856" +
	"961537284" +
	"287419635" +
	"345286179"

func TestGridValid(t *testing.T) {
	require.True(t, Grid(solvedGrid).Valid())
	require.False(t, Grid("123").Valid())
	require.False(t, Grid(strings.Repeat("x", Cells)).Valid())
}

func TestGridClues(t *testing.T) {
	g := Grid("5" + strings.Repeat("0", 80))
	require.True(t, g.IsClue(0, 0))
	require.False(t, g.IsClue(0, 1))
	require.False(t, g.IsClue(8, 8))
	require.Equal(t, 1, g.Givens())
}

func TestSolve(t *testing.T) {
	require.True(t, Solve(Grid(solvedGrid)))

	// Blank out a few cells; still solvable.
	partial := []byte(solvedGrid)
	partial[0], partial[10], partial[80] = '0', '0', '0'
	require.True(t, Solve(Grid(partial)))

	// Duplicate 5 in the first row can never be repaired.
	broken := []byte(solvedGrid)
	broken[1] = '5'
	require.False(t, Solve(Grid(broken)))

	require.False(t, Solve(Grid("not a grid")))
}

func TestGenerate(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, d := range []Difficulty{Easy, Medium, Hard} {
		g := Generate(rng, d)
		require.True(t, g.Valid(), "difficulty %s", d)
		require.True(t, Solve(g), "difficulty %s", d)
		require.GreaterOrEqual(t, g.Givens(), targetGivens(d), "difficulty %s", d)

		b := g.board()
		require.Equal(t, 1, countSolutions(&b, 2), "generated puzzle must be unique")
	}
}

func TestSourceDeterministicForSeed(t *testing.T) {
	a := NewSource(7, 2)
	b := NewSource(7, 2)
	require.Equal(t, a.pools, b.pools)
}

func TestSourceUnknownDifficultyFallsBackToEasy(t *testing.T) {
	s := NewSource(7, 1)
	g := s.Random(Difficulty("nightmare"))
	require.Equal(t, s.pools[Easy][0], g)
}
