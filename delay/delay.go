// Package delay provides the samplers that decide how long each simulated
// I/O task waits.
package delay

import (
	"math/rand/v2"
	"sync"
	"time"
)

// DefaultMax is the upper bound of the default uniform delay.
const DefaultMax = 5 * time.Second

// Sampler produces one delay per call. Implementations are safe for
// concurrent use.
type Sampler interface {
	Sample() time.Duration
}

// Uniform draws delays uniformly from [0, max).
type Uniform struct {
	max time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewUniform returns a sampler over [0, upper). A zero seed picks a random
// one; any other seed makes the sequence reproducible.
func NewUniform(upper time.Duration, seed uint64) *Uniform {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Uniform{max: upper, rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (u *Uniform) Max() time.Duration { return u.max }

func (u *Uniform) Sample() time.Duration {
	if u.max <= 0 {
		return 0
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return time.Duration(u.rng.Int64N(int64(u.max)))
}

// Fixed replays a fixed list of delays in order, wrapping around when it
// runs out.
type Fixed struct {
	mu     sync.Mutex
	delays []time.Duration
	next   int
}

func NewFixed(delays ...time.Duration) *Fixed {
	return &Fixed{delays: append([]time.Duration(nil), delays...)}
}

func (f *Fixed) Sample() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.delays) == 0 {
		return 0
	}
	d := f.delays[f.next]
	f.next = (f.next + 1) % len(f.delays)
	return d
}

// Sum adds up delays.
func Sum(delays []time.Duration) time.Duration {
	var total time.Duration
	for _, d := range delays {
		total += d
	}
	return total
}

// Max returns the largest delay, or zero for an empty slice.
func Max(delays []time.Duration) time.Duration {
	var m time.Duration
	for _, d := range delays {
		m = max(m, d)
	}
	return m
}
