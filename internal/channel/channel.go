// Package channel damages interleaved C1 output frames the way a disc read
// would. Lost frames and single bad symbols arrive flagged; silent errors
// model symbols C1 failed to notice.
package channel

import (
	"fmt"
	"math/rand"
)

// Scenario holds the per-frame and per-symbol damage rates.
type Scenario struct {
	BurstRate   float64 // probability a burst of lost frames starts
	BurstLength float64 // mean burst length in frames
	ErasureRate float64 // per-symbol probability of a flagged erasure
	ErrorRate   float64 // per-symbol probability of an unflagged error
}

func (s Scenario) Validate() error {
	for name, p := range map[string]float64{
		"burst rate":   s.BurstRate,
		"erasure rate": s.ErasureRate,
		"error rate":   s.ErrorRate,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("channel: %s %v outside [0,1]", name, p)
		}
	}
	if s.BurstLength < 0 {
		return fmt.Errorf("channel: negative burst length %v", s.BurstLength)
	}
	return nil
}

// Stats counts the damage applied so far.
type Stats struct {
	Frames     int64
	LostFrames int64
	Erasures   int64 // flagged symbols, including those of lost frames
	Errors     int64 // unflagged corrupted symbols
}

// Channel applies a Scenario to a stream of frames. It is not safe for
// concurrent use; give each track its own Channel.
type Channel struct {
	rng     *rand.Rand
	burst   *Burst
	erasure *Bernoulli
	corrupt *Bernoulli
	stats   Stats
}

func New(s Scenario, rng *rand.Rand) (*Channel, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("channel: nil random source")
	}
	return &Channel{
		rng:     rng,
		burst:   NewBurst(s.BurstRate, s.BurstLength, rng),
		erasure: NewBernoulli(s.ErasureRate, rng),
		corrupt: NewBernoulli(s.ErrorRate, rng),
	}, nil
}

// Apply damages frame in place and writes the matching C1 erasure flags.
func (c *Channel) Apply(frame []byte, erasures []bool) error {
	if len(frame) != len(erasures) {
		return fmt.Errorf("channel: frame has %d symbols, %d erasure flags", len(frame), len(erasures))
	}
	c.stats.Frames++
	if c.burst.Next() {
		c.stats.LostFrames++
		c.stats.Erasures += int64(len(frame))
		for i := range frame {
			frame[i] = byte(c.rng.Intn(256))
			erasures[i] = true
		}
		return nil
	}
	for i := range frame {
		erasures[i] = false
		switch {
		case c.erasure.Hit():
			frame[i] = byte(c.rng.Intn(256))
			erasures[i] = true
			c.stats.Erasures++
		case c.corrupt.Hit():
			frame[i] ^= byte(1 + c.rng.Intn(255))
			c.stats.Errors++
		}
	}
	return nil
}

func (c *Channel) Stats() Stats { return c.stats }
