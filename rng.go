package ferrysim

// rng.go holds the random number sources a run draws from.  Every run
// threads exactly one stream through the arrival generator and the failure
// controller, so that a seeded stream reproduces a run exactly

import (
	"github.com/iti/rngstream"
)

// moduli of the two component generators of an rngstream stream; the first
// three words of a seed must lie below m1, the last three below m2
const (
	rngM1 uint64 = 4294967087
	rngM2 uint64 = 4294944443
)

// RandStream is satisfied by *rngstream.RngStream
type RandStream interface {
	RandU01() float64
}

// seedVector expands a single seed into the six-word state rngstream expects.
// Every word is non-zero, so neither triple can be all zero
func seedVector(seed int64) []uint64 {
	x := uint64(seed)
	words := make([]uint64, 6)
	for idx := range words {
		// splitmix64
		x += 0x9e3779b97f4a7c15
		z := x
		z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
		z = (z ^ (z >> 27)) * 0x94d049bb133111eb
		z ^= z >> 31

		modulus := rngM1
		if idx >= 3 {
			modulus = rngM2
		}
		words[idx] = 1 + z%(modulus-1)
	}
	return words
}

// NewSeededStream returns a reproducible stream: equal seeds give equal sequences,
// whatever other streams the process has created
func NewSeededStream(seed int64) RandStream {
	strm := rngstream.New("seeded")
	strm.SetSeed(seedVector(seed))
	return strm
}

// NewNamedStream returns a fresh rngstream stream.  Successive streams in a process
// are distinct and independent, but a run using one cannot be repeated by seed
func NewNamedStream(name string) RandStream {
	return rngstream.New(name)
}

// streamFor picks the stream a configuration asks for
func streamFor(cfg *SimConfig, name string) RandStream {
	if cfg.Seed != 0 {
		return NewSeededStream(cfg.Seed)
	}
	return NewNamedStream(name)
}

// uniformRV returns a sample uniformly distributed on [lo, hi)
func uniformRV(u01, lo, hi float64) float64 {
	return lo + u01*(hi-lo)
}

// bernoulliRV is true with probability p
func bernoulliRV(u01, p float64) bool {
	return u01 < p
}
