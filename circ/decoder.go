// Package circ implements the second (C2) stage of the cross-interleaved
// Reed-Solomon code used on CD and LaserDisc EFM data: a convolutional
// de-interleaver followed by an erasure-aware RS decoder.
//
// A Decoder is fed one C1 codeword at a time, in stream order, and queues
// the corrected data bytes together with a parallel slice of error flags.
// Because de-interleaving introduces latency, the last codewords of a stream
// are only released by Flush.
//
// A Decoder must not be used from several goroutines at once. Independent
// decoders share no mutable state.
package circ

import (
	"fmt"
)

// Decoder is a stateful C2 decoder. The zero value is not usable; use New.
type Decoder struct {
	cfg   *config
	code  *Code
	lines *delayLines

	// scratch for the codeword being decoded
	symbols  []Symbol
	present  []bool
	codeword []byte
	erasures []int

	data  []byte
	flags []bool

	stats   Statistics
	flushed bool
}

// New returns a decoder for the configured code and interleave.
func New(options ...Option) (*Decoder, error) {
	cfg, err := newConfig(options...)
	if err != nil {
		return nil, err
	}
	code, err := NewCode(cfg.codewordLength, cfg.codewordLength-cfg.parityLength)
	if err != nil {
		return nil, err
	}
	lines, err := newDelayLines(cfg.delays)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	n := cfg.codewordLength
	return &Decoder{
		cfg:      cfg,
		code:     code,
		lines:    lines,
		symbols:  make([]Symbol, n),
		present:  make([]bool, n),
		codeword: make([]byte, n),
		erasures: make([]int, 0, n),
	}, nil
}

// CodewordLength returns the number of symbols PushC1 expects.
func (d *Decoder) CodewordLength() int { return d.code.N() }

// DataLength returns the number of bytes each C2 codeword adds to the output.
func (d *Decoder) DataLength() int { return d.code.K() }

// Latency returns how many pushes are needed before the first codeword is decoded.
func (d *Decoder) Latency() int { return d.lines.maxDelay + 1 }

// PushC1 feeds one C1 codeword: its payload and a parallel slice of erasure
// flags. Codewords must be pushed in stream order. At most one C2 codeword
// is decoded per call.
func (d *Decoder) PushC1(data []byte, erasures []bool) error {
	if d.flushed {
		return ErrFlushed
	}
	n := d.code.N()
	if len(data) != n || len(erasures) != n {
		return fmt.Errorf("%w: got %d bytes and %d flags, want %d", ErrCodewordLength, len(data), len(erasures), n)
	}
	if !d.lines.push(data, erasures, d.symbols) {
		return nil
	}

	d.erasures = d.erasures[:0]
	for i, s := range d.symbols {
		d.codeword[i] = s.Value
		if s.Erased {
			d.erasures = append(d.erasures, i)
		}
	}
	res, err := d.code.Decode(d.codeword, d.erasures)
	if err != nil {
		return fmt.Errorf("decode codeword %d: %w", d.lines.emitted()-1, err)
	}
	d.emit(d.lines.emitted()-1, res)
	return nil
}

// emit appends the data part of d.codeword to the output queues.
func (d *Decoder) emit(index int, res Result) {
	data := d.codeword[:d.code.K()]
	switch res.Outcome {
	case Passed, Corrected:
		d.data = append(d.data, data...)
		for range data {
			d.flags = append(d.flags, false)
		}
	case Failed, Flushed:
		switch d.cfg.policy {
		case ZeroFill:
			d.data = append(d.data, make([]byte, len(data))...)
		default:
			d.data = append(d.data, data...)
		}
		for range data {
			d.flags = append(d.flags, true)
		}
	default:
		panic(fmt.Sprintf("circ: unknown outcome %d", uint8(res.Outcome)))
	}

	d.stats.add(res.Outcome)
	if d.cfg.sink != nil {
		d.cfg.sink(Event{Index: index, Result: res})
	}
}

// DataSymbols returns and clears the queued output bytes.
func (d *Decoder) DataSymbols() []byte {
	out := d.data
	d.data = nil
	return out
}

// ErrorSymbols returns and clears the queued error flags, one per byte
// returned by DataSymbols. A true flag marks a byte that must not be trusted.
func (d *Decoder) ErrorSymbols() []bool {
	out := d.flags
	d.flags = nil
	return out
}

// Pending returns the number of queued output bytes.
func (d *Decoder) Pending() int {
	return len(d.data)
}

// Statistics returns a snapshot of the outcome counters.
func (d *Decoder) Statistics() Statistics {
	return d.stats
}

// ResetStatistics zeroes the counters. Buffered symbols are untouched.
func (d *Decoder) ResetStatistics() {
	d.stats = Statistics{}
}

// ReportStatus hands the current statistics to the configured reporter.
func (d *Decoder) ReportStatus() {
	d.cfg.reporter.ReportStatus(d.stats)
}

// Buffered returns the number of symbols held by the delay lines.
func (d *Decoder) Buffered() int {
	return d.lines.buffered()
}

// Capacity returns the most symbols the delay lines can hold.
func (d *Decoder) Capacity() int {
	return d.lines.capacity()
}
