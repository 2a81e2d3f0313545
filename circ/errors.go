package circ

import "errors"

var (
	// ErrConfig is returned by New and NewCode for parameters that cannot describe a valid code
	// or interleave.
	ErrConfig = errors.New("circ: invalid configuration")
	// ErrCodewordLength is returned when a pushed or decoded codeword does not match the
	// configured length. Nothing is modified when it is returned.
	ErrCodewordLength = errors.New("circ: wrong codeword length")
	// ErrErasureIndex is returned when an erasure position lies outside the codeword.
	ErrErasureIndex = errors.New("circ: erasure index out of range")
	// ErrFlushed is returned by PushC1 after Flush until Reset is called.
	ErrFlushed = errors.New("circ: decoder flushed, reset required")
)
