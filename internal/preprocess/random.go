package preprocess

import (
	"math"
	"time"
)

// FallbackSeed is used when the wall clock cannot provide a usable seed.
const FallbackSeed uint64 = 12345

// randomSizes is the fixed set of reasonable resize targets the random
// generator draws from.
var randomSizes = [...]int{200, 250, 300, 350, 400, 450, 500, 550}

// Source is a xorshift64 pseudo-random generator with explicit state.
// It is intentionally not safe for concurrent use: callers generate the
// full parameter list sequentially before dispatching any parallel work.
type Source struct {
	state uint64
}

// NewSource returns a Source seeded with the given value.
// A zero seed would lock xorshift at zero forever, so it is replaced
// with FallbackSeed.
func NewSource(seed uint64) *Source {
	if seed == 0 {
		seed = FallbackSeed
	}
	return &Source{state: seed}
}

// TimeSeed derives a seed from wall-clock nanoseconds, falling back to
// FallbackSeed if the clock reports a non-positive value.
func TimeSeed() uint64 {
	ns := time.Now().UnixNano()
	if ns <= 0 {
		return FallbackSeed
	}
	return uint64(ns)
}

// Float64 advances the generator and returns a value in [0, 1).
func (s *Source) Float64() float64 {
	s.state ^= s.state << 13
	s.state ^= s.state >> 7
	s.state ^= s.state << 17
	return float64(s.state) / float64(math.MaxUint64)
}

// RandomParams generates n preprocessing parameter sets. The whole list is
// produced sequentially from this Source so parallel workers never contend
// over generator state.
func (s *Source) RandomParams(n int) []Params {
	params := make([]Params, 0, n)
	for range n {
		params = append(params, Params{
			Resize:     randomSizes[int(s.Float64()*float64(len(randomSizes)))%len(randomSizes)],
			Contrast:   1.0 + s.Float64()*3.0,
			Brightness: 0.8 + s.Float64()*0.6,
			Blur:       s.Float64() * 1.5,
			Grayscale:  s.Float64() > 0.3,
		})
	}
	return params
}
