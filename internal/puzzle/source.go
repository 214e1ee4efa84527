package puzzle

import (
	"math/rand"
	"sync"
)

// Source holds pre-generated puzzle pools per difficulty. Pools are built
// once at construction; Random is safe for concurrent use.
type Source struct {
	mu    sync.Mutex
	rng   *rand.Rand
	pools map[Difficulty][]Grid
}

// NewSource builds perDifficulty puzzles for each known difficulty from the
// given seed. Generation is deterministic for a fixed seed and pool size.
func NewSource(seed int64, perDifficulty int) *Source {
	if perDifficulty < 1 {
		perDifficulty = 1
	}
	rng := rand.New(rand.NewSource(seed))
	pools := make(map[Difficulty][]Grid, 3)
	for _, d := range []Difficulty{Easy, Medium, Hard} {
		pool := make([]Grid, 0, perDifficulty)
		for i := 0; i < perDifficulty; i++ {
			pool = append(pool, Generate(rng, d))
		}
		pools[d] = pool
	}
	return &Source{rng: rng, pools: pools}
}

// Random returns a uniformly chosen puzzle from the difficulty's pool.
// Unknown difficulties fall back to the easy pool.
func (s *Source) Random(d Difficulty) Grid {
	pool := s.pools[Normalize(d)]
	s.mu.Lock()
	i := s.rng.Intn(len(pool))
	s.mu.Unlock()
	return pool[i]
}
