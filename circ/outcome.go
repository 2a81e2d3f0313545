package circ

import "fmt"

// Outcome classifies what happened to one C2 codeword.
type Outcome uint8

const (
	// Passed means the codeword carried no erasures and its syndromes were zero.
	Passed Outcome = iota
	// Corrected means every erasure and error was resolved within capacity.
	Corrected
	// Failed means correction was attempted and 2*errors+erasures exceeded the parity length,
	// or the decode was inconsistent.
	Failed
	// Flushed means the codeword was emitted during Flush with more positions missing
	// or erased than the parity can fill, so no correction was attempted.
	Flushed
)

func (o Outcome) String() string {
	switch o {
	case Passed:
		return "passed"
	case Corrected:
		return "corrected"
	case Failed:
		return "failed"
	case Flushed:
		return "flushed"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
}

// Trusted reports whether bytes of a codeword with this outcome can be used as-is.
func (o Outcome) Trusted() bool {
	return o == Passed || o == Corrected
}

// Statistics counts C2 codewords by outcome.
type Statistics struct {
	Passed    int64
	Corrected int64
	Failed    int64
	Flushed   int64
}

// Total returns the number of codewords accounted for.
func (s Statistics) Total() int64 {
	return s.Passed + s.Corrected + s.Failed + s.Flushed
}

func (s *Statistics) add(o Outcome) {
	switch o {
	case Passed:
		s.Passed++
	case Corrected:
		s.Corrected++
	case Failed:
		s.Failed++
	case Flushed:
		s.Flushed++
	default:
		panic(fmt.Sprintf("circ: unknown outcome %d", uint8(o)))
	}
}
