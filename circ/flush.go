package circ

import "fmt"

// Flush drains the delay lines at end of stream. Every codeword that has at
// least one symbol in the input is emitted. A codeword whose missing
// positions, counted as erasures together with the flagged ones, fit within
// the parity length is still decoded; any other is output as Flushed with
// all of its bytes flagged.
//
// After Flush the decoder rejects pushes until Reset. Output queues and
// statistics are kept. Calling Flush again is a no-op.
func (d *Decoder) Flush() error {
	if d.flushed {
		return nil
	}
	d.flushed = true

	var err error
	np := d.code.ParityLength()
	d.lines.drain(d.symbols, d.present, func(m int, symbols []Symbol, present []bool) {
		if err != nil {
			return
		}
		d.erasures = d.erasures[:0]
		for i, s := range symbols {
			d.codeword[i] = s.Value
			if !present[i] || s.Erased {
				d.erasures = append(d.erasures, i)
			}
		}
		if len(d.erasures) > np {
			d.emit(m, Result{Outcome: Flushed, Erasures: len(d.erasures)})
			return
		}
		res, derr := d.code.Decode(d.codeword, d.erasures)
		if derr != nil {
			err = fmt.Errorf("decode flushed codeword %d: %w", m, derr)
			return
		}
		d.emit(m, res)
	})
	return err
}

// Reset returns the decoder to its freshly constructed state: delay lines,
// output queues and statistics are cleared.
func (d *Decoder) Reset() {
	d.lines.reset()
	d.data = nil
	d.flags = nil
	d.stats = Statistics{}
	d.flushed = false
}
