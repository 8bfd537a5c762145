// File: random.go
package captcha

import (
	"math/rand"
	"time"
)

// Random is the single source of randomness for generation and rendering.
// *rand.Rand satisfies it; tests supply scripted implementations.
type Random interface {
	// Intn returns a value in [0, n).
	Intn(n int) int
	// Float64 returns a value in [0, 1).
	Float64() float64
}

// NewRandom returns a seeded source. A zero seed uses the current time.
func NewRandom(seed int64) Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// between returns a uniform int in [lo, hi].
func between(rnd Random, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rnd.Intn(hi-lo+1)
}

// spread returns (r-0.5)*mag, a symmetric offset around zero.
func spread(rnd Random, mag float64) float64 {
	return (rnd.Float64() - 0.5) * mag
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
