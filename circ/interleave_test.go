package circ

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// stream interleaves count codewords whose every symbol holds its own codeword index.
func stream(t *testing.T, delays []int, count int) [][]byte {
	t.Helper()
	il, err := NewInterleaver(delays)
	require.NoError(t, err)
	frames := make([][]byte, 0, count)
	for m := range count {
		cw := make([]byte, len(delays))
		for i := range cw {
			cw[i] = byte(m)
		}
		f, err := il.Push(cw)
		require.NoError(t, err)
		frames = append(frames, f)
	}
	return frames
}

func TestDelayLinesReconstruction(t *testing.T) {
	for _, delays := range [][]int{
		UniformDelays(28, 4),
		{3, 0, 7, 2, 5},
		{2, 2, 2},
		{1, 4, 4, 9},
	} {
		dl, err := newDelayLines(delays)
		require.NoError(t, err)

		const count = 200
		frames := stream(t, delays, count)
		flags := make([]bool, len(delays))
		out := make([]Symbol, len(delays))
		next := 0
		for tt, f := range frames {
			if !dl.push(f, flags, out) {
				require.Less(t, tt, dl.maxDelay)
				continue
			}
			for i, s := range out {
				if s.Value != byte(next) {
					t.Fatalf("delays %v: codeword %d position %d holds %d", delays, next, i, s.Value)
				}
			}
			next++
		}
		require.Equal(t, count-dl.maxDelay, next)
		require.Equal(t, next, dl.emitted())

		present := make([]bool, len(delays))
		dl.drain(out, present, func(m int, out []Symbol, present []bool) {
			require.Equal(t, next, m)
			for i, s := range out {
				if u := m + delays[i]; u < count {
					require.True(t, present[i])
					require.Equal(t, byte(m), s.Value)
				} else {
					require.False(t, present[i])
				}
			}
			next++
		})
		require.Equal(t, count-dl.minDelay, next)
		require.Zero(t, dl.buffered())
	}
}

func TestDelayLinesKeepFlags(t *testing.T) {
	delays := []int{0, 1, 2}
	dl, err := newDelayLines(delays)
	require.NoError(t, err)

	out := make([]Symbol, 3)
	// frame t carries codeword t at position 0, t-1 at 1, t-2 at 2
	frames := [][]byte{{10, 0, 0}, {11, 20, 0}, {12, 21, 30}, {13, 22, 31}}
	erased := [][]bool{{false, false, false}, {false, true, false}, {true, false, false}, {false, false, true}}
	var got [][]Symbol
	for i, f := range frames {
		if dl.push(f, erased[i], out) {
			got = append(got, append([]Symbol(nil), out...))
		}
	}
	require.Equal(t, [][]Symbol{
		{{10, false}, {20, true}, {30, false}},
		{{11, false}, {21, false}, {31, true}},
	}, got)
}

func TestDelayLinesBoundedMemory(t *testing.T) {
	delays := UniformDelays(28, 4)
	dl, err := newDelayLines(delays)
	require.NoError(t, err)
	require.Equal(t, 28*108/2, dl.capacity())

	data := make([]byte, 28)
	flags := make([]bool, 28)
	for i := range flags {
		flags[i] = true
	}
	out := make([]Symbol, 28)
	for tt := range 5000 {
		dl.push(data, flags, out)
		if dl.buffered() > dl.capacity() {
			t.Fatalf("push %d: %d symbols buffered, capacity %d", tt, dl.buffered(), dl.capacity())
		}
	}
	require.Equal(t, dl.capacity(), dl.buffered())
	for _, line := range dl.lines {
		require.LessOrEqual(t, len(line), 108)
	}
}

func TestValidateDelays(t *testing.T) {
	require.Error(t, ValidateDelays(nil))
	require.Error(t, ValidateDelays([]int{0, -1}))
	require.NoError(t, ValidateDelays([]int{0, 0}))

	_, err := NewInterleaver([]int{-2})
	require.ErrorIs(t, err, ErrConfig)

	il, err := NewInterleaver([]int{0, 1})
	require.NoError(t, err)
	_, err = il.Push([]byte{1})
	require.ErrorIs(t, err, ErrCodewordLength)
}

func TestInterleaverDelays(t *testing.T) {
	il, err := NewInterleaver([]int{0, 2})
	require.NoError(t, err)
	var frames [][]byte
	for _, cw := range [][]byte{{1, 2}, {3, 4}, {5, 6}} {
		f, err := il.Push(cw)
		require.NoError(t, err)
		frames = append(frames, f)
	}
	require.Equal(t, [][]byte{{1, 0}, {3, 0}, {5, 2}}, frames)
}
