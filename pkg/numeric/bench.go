package numeric

import (
	"math"
	"time"
)

// DefaultBurnIterations is the loop length of the reference benchmark.
const DefaultBurnIterations int64 = 100_000_000

// Burn runs the CPU-burn loop used to rank workers and returns its sum so the
// loop cannot be elided.
func Burn(iterations int64) float64 {
	var sum float64
	for i := int64(0); i < iterations; i++ {
		sum += float64(i) * 0.000001
	}

	return sum
}

// Score converts the duration of one Burn(DefaultBurnIterations) run into a
// relative speed score. Durations under 10µs count as 10µs.
func Score(elapsed time.Duration) float64 {
	ms := float64(elapsed) / float64(time.Millisecond)

	return 1000 / math.Max(0.01, ms)
}

func Add(a, b int32) int32 {
	return a + b
}
