package numeric

import "math/rand/v2"

const (
	seedSalt   uint64 = 0x5851f42d4c957f2d
	streamSalt uint64 = 0x14057b7ef767814f
)

// NewSource returns the generator an estimator call uses for seedOffset.
// Equal offsets yield identical streams; neighbouring offsets are spread
// apart by splitmix64 before they reach the PCG state.
func NewSource(seedOffset int32) rand.Source {
	return rand.NewPCG(splitmix64(uint64(int64(seedOffset))^seedSalt), streamSalt)
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb

	return x ^ (x >> 31)
}
