package circ

import (
	"errors"
	"fmt"
	"slices"
)

// Convolutional interleave over codewords of n symbols.
//
// At encode time symbol position i is delayed by D(i) codeword periods:
//
//	Out[t][i] = In[t-D(i)][i]
//
// The de-interleaver holds position i for Dmax-D(i) periods, so that
//
//	C2[m][i] = C1[m+D(i)][i]
//
// and every position of codeword m is available once input m+Dmax has been pushed.

// Symbol is one byte of payload plus its erasure flag.
type Symbol struct {
	Value  byte
	Erased bool
}

// ValidateDelays checks a per-position delay table.
func ValidateDelays(delays []int) error {
	if len(delays) == 0 {
		return errors.New("empty delay table")
	}
	for i, d := range delays {
		if d < 0 {
			return fmt.Errorf("delay %d at position %d is negative", d, i)
		}
	}
	return nil
}

// UniformDelays returns D(i) = step*i for n positions.
func UniformDelays(n, step int) []int {
	d := make([]int, n)
	for i := range d {
		d[i] = step * i
	}
	return d
}

// delayLines is the de-interleaver: one ring per position, sized to its
// decode-side depth and allocated once.
type delayLines struct {
	delays   []int
	depth    []int
	maxDelay int
	minDelay int
	lines    [][]Symbol
	pushes   int
}

func newDelayLines(delays []int) (*delayLines, error) {
	if err := ValidateDelays(delays); err != nil {
		return nil, err
	}
	dl := &delayLines{
		delays:   slices.Clone(delays),
		depth:    make([]int, len(delays)),
		maxDelay: slices.Max(delays),
		minDelay: slices.Min(delays),
		lines:    make([][]Symbol, len(delays)),
	}
	for i, d := range delays {
		dl.depth[i] = dl.maxDelay - d
		dl.lines[i] = make([]Symbol, dl.depth[i])
	}
	return dl, nil
}

// push shifts one C1 codeword into the lines. When a C2 codeword is complete
// it is written to out and push reports true. Symbols that precede the start
// of the stream in the interleave belong to no codeword and are dropped.
func (dl *delayLines) push(data []byte, erasures []bool, out []Symbol) bool {
	t := dl.pushes
	dl.pushes++
	for i, line := range dl.lines {
		in := Symbol{Value: data[i], Erased: erasures[i]}
		if len(line) == 0 {
			out[i] = in
			continue
		}
		slot := t % len(line)
		out[i] = line[slot]
		line[slot] = in
	}
	return t >= dl.maxDelay
}

// emitted returns how many complete codewords push has produced so far.
func (dl *delayLines) emitted() int {
	return max(0, dl.pushes-dl.maxDelay)
}

// formable returns how many codewords have at least one symbol in the input so far.
func (dl *delayLines) formable() int {
	return max(0, dl.pushes-dl.minDelay)
}

// drain walks the codewords still held in the lines, in order, filling out
// with whatever is present. present[i] reports whether position i was available.
// The lines are empty afterwards.
func (dl *delayLines) drain(out []Symbol, present []bool, fn func(m int, out []Symbol, present []bool)) {
	n := dl.pushes
	for m := dl.emitted(); m < dl.formable(); m++ {
		for i, line := range dl.lines {
			u := m + dl.delays[i]
			if u >= n {
				out[i] = Symbol{}
				present[i] = false
				continue
			}
			out[i] = line[u%len(line)]
			present[i] = true
		}
		fn(m, out, present)
	}
	dl.reset()
}

func (dl *delayLines) reset() {
	for _, line := range dl.lines {
		clear(line)
	}
	dl.pushes = 0
}

// buffered returns the number of symbols currently held.
func (dl *delayLines) buffered() int {
	total := 0
	for _, line := range dl.lines {
		total += min(dl.pushes, len(line))
	}
	return total
}

// capacity returns the sum of the line depths.
func (dl *delayLines) capacity() int {
	total := 0
	for _, d := range dl.depth {
		total += d
	}
	return total
}

// Interleaver applies the encode-side delays. It is used to build test
// vectors and synthetic streams; positions are filled with zeros until
// their delay has elapsed.
type Interleaver struct {
	lines  [][]byte
	pushes int
}

// NewInterleaver builds an interleaver for the given per-position delays.
func NewInterleaver(delays []int) (*Interleaver, error) {
	if err := ValidateDelays(delays); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	il := &Interleaver{lines: make([][]byte, len(delays))}
	for i, d := range delays {
		il.lines[i] = make([]byte, d)
	}
	return il, nil
}

// Push consumes one codeword and returns the interleaved frame for the same period.
func (il *Interleaver) Push(codeword []byte) ([]byte, error) {
	if len(codeword) != len(il.lines) {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrCodewordLength, len(codeword), len(il.lines))
	}
	t := il.pushes
	il.pushes++
	out := make([]byte, len(codeword))
	for i, line := range il.lines {
		if len(line) == 0 {
			out[i] = codeword[i]
			continue
		}
		slot := t % len(line)
		out[i] = line[slot]
		line[slot] = codeword[i]
	}
	return out, nil
}
