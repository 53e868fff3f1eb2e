// Package rng is a tiny pure 32-bit pseudo-random generator. State is a
// plain value: Next never mutates anything, callers store the returned state.
package rng

import "hash/fnv"

const (
	increment  = 0x6D2B79F5
	seedMixer  = 0x9E3779B9
	twoPower32 = 4294967296.0
)

// State is the generator state threaded through callers.
type State uint32

// Derive turns a seed into an initial state distinct from the seed itself.
func Derive(seed int64) State {
	s := uint32(seed) ^ uint32(seed>>32)
	return State(s ^ seedMixer)
}

// Next returns a value in [0, 1) and the state to use for the following draw.
func Next(s State) (float64, State) {
	next := uint32(s) + increment
	t := next
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	t ^= t >> 14
	return float64(t) / twoPower32, State(next)
}

// Draws returns n consecutive values starting at s and the final state.
func Draws(s State, n int) ([]float64, State) {
	out := make([]float64, n)
	for i := range out {
		out[i], s = Next(s)
	}
	return out, s
}

// Seeded derives a state from an arbitrary string key using FNV-1a, so the
// same key always produces the same sequence.
func Seeded(key string) State {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return State(h.Sum32() ^ seedMixer)
}

// Hash32 is the stable FNV-1a hash of key.
func Hash32(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32()
}
