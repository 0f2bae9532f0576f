package calculation

import (
	"math/rand"

	"github.com/rpgo/lifesim/internal/domain"
	"github.com/shopspring/decimal"
)

// RandomSource is the injectable source of randomness for one run.
// *rand.Rand satisfies it. A RandomSource must not be shared between runs.
type RandomSource interface {
	Float64() float64
	Intn(n int) int
}

// NewRandomSource returns a private generator seeded with seed.
func NewRandomSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// chance draws once and reports whether the draw fell under p.
// p is clamped to [0,1]; a zero probability never consumes a draw.
func chance(rng RandomSource, p decimal.Decimal) bool {
	if !p.IsPositive() {
		return false
	}
	if p.GreaterThanOrEqual(decimalOne) {
		rng.Float64()
		return true
	}
	return rng.Float64() < p.InexactFloat64()
}

// uniform draws from [r.Min, r.Max).
func uniform(rng RandomSource, r domain.Range) decimal.Decimal {
	u := decimal.NewFromFloat(rng.Float64())
	return r.Min.Add(r.Max.Sub(r.Min).Mul(u))
}

// intBetween draws an integer from the inclusive range.
func intBetween(rng RandomSource, r domain.IntRange) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Intn(r.Max-r.Min+1)
}

// mixSeed derives an independent seed per (cell, run) with a splitmix64 finalizer
// so neighbouring runs do not get correlated streams.
func mixSeed(base int64, cell, run int) int64 {
	z := uint64(base) + 0x9E3779B97F4A7C15*uint64(cell+1) + 0xBF58476D1CE4E5B9*uint64(run+1)
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z ^= z >> 31
	return int64(z)
}

var (
	decimalZero    = decimal.Zero
	decimalOne     = decimal.NewFromInt(1)
	decimalTwelve  = decimal.NewFromInt(12)
	decimalHundred = decimal.NewFromInt(100)
)
