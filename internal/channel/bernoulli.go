package channel

import (
	"math/rand"
)

// Bernoulli implements a simple u<p hit decision.
type Bernoulli struct {
	p   float64
	rng *rand.Rand
}

func NewBernoulli(p float64, rng *rand.Rand) *Bernoulli { return &Bernoulli{p: p, rng: rng} }

func (b *Bernoulli) Hit() bool {
	if b.p <= 0 {
		return false
	}
	if b.p >= 1 {
		return true
	}
	return b.rng.Float64() < b.p
}

// Burst is a two-state (good/bad) frame loss model. A burst starts with
// probability rate on any good frame, including the one ending a burst, and
// each further frame stays bad with probability 1-1/meanLength.
type Burst struct {
	start *Bernoulli
	stay  *Bernoulli
	bad   bool
}

func NewBurst(rate, meanLength float64, rng *rand.Rand) *Burst {
	stay := 0.0
	if meanLength > 1 {
		stay = 1 - 1/meanLength
	}
	return &Burst{start: NewBernoulli(rate, rng), stay: NewBernoulli(stay, rng)}
}

// Next advances the model by one frame and reports whether that frame is lost.
func (b *Burst) Next() bool {
	if b.bad {
		b.bad = b.stay.Hit()
	}
	if !b.bad {
		b.bad = b.start.Hit()
	}
	return b.bad
}
