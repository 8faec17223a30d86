package tests

import (
	"math/rand"
	"testing"
	"time"
)

type Randomizer struct {
	Seed    int64
	Float64 func() float64
	Bool    func() bool
	Intn    func(n int) int
}

// NewRandomizer seeds from the clock and logs the seed, so a failing run can
// be replayed with NewSeededRandomizer.
func NewRandomizer(t testing.TB) Randomizer {
	t.Helper()

	seed := time.Now().UnixNano()
	t.Logf("randomizer seed: %d", seed)

	return NewSeededRandomizer(seed)
}

func NewSeededRandomizer(seed int64) Randomizer {
	random := rand.New(rand.NewSource(seed)) //nolint:gosec // for tests

	return Randomizer{
		Seed:    seed,
		Float64: random.Float64,
		Bool:    func() bool { return random.Intn(2) == 0 }, //nolint:mnd // skip
		Intn:    random.Intn,
	}
}
