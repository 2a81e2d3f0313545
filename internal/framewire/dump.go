package framewire

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

var ErrMalformed = errors.New("framewire: malformed dump")

// Writer appends codeword records after a header.
type Writer struct {
	w      *bufio.Writer
	k      int
	record []byte
}

func NewWriter(w io.Writer, h Header) (*Writer, error) {
	if h.K == 0 {
		return nil, fmt.Errorf("%w: zero K", ErrMalformed)
	}
	h.Version = Version
	bw := bufio.NewWriter(w)
	if _, err := bw.Write(h.MarshalBinary(nil)); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	return &Writer{w: bw, k: int(h.K), record: make([]byte, h.RecordLen())}, nil
}

// Write stores data and flags as consecutive records. Both must cover whole
// codewords.
func (w *Writer) Write(data []byte, flags []bool) error {
	if len(data) != len(flags) || len(data)%w.k != 0 {
		return fmt.Errorf("%w: %d data bytes, %d flags, K=%d", ErrMalformed, len(data), len(flags), w.k)
	}
	for off := 0; off < len(data); off += w.k {
		copy(w.record, data[off:off+w.k])
		bitmap := w.record[w.k:]
		clear(bitmap)
		for j, f := range flags[off : off+w.k] {
			if f {
				bitmap[j/8] |= 1 << (j % 8)
			}
		}
		if _, err := w.w.Write(w.record); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) Flush() error { return w.w.Flush() }

// Reader walks the records of a dump.
type Reader struct {
	r      *bufio.Reader
	header Header
	record []byte
	read   uint32
}

func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	b := make([]byte, HeaderLen)
	if _, err := io.ReadFull(br, b); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformed, err)
	}
	var h Header
	if !h.UnmarshalBinary(b) {
		return nil, fmt.Errorf("%w: bad magic", ErrMalformed)
	}
	if h.Version != Version {
		return nil, fmt.Errorf("%w: version %d", ErrMalformed, h.Version)
	}
	if h.K == 0 || h.K >= h.N {
		return nil, fmt.Errorf("%w: RS(%d,%d)", ErrMalformed, h.N, h.K)
	}
	return &Reader{r: br, header: h, record: make([]byte, h.RecordLen())}, nil
}

func (r *Reader) Header() Header { return r.header }

// Next returns the next codeword's data and flags, or io.EOF after the
// number of codewords announced in the header.
func (r *Reader) Next() ([]byte, []bool, error) {
	if r.read == r.header.Codewords {
		return nil, nil, io.EOF
	}
	if _, err := io.ReadFull(r.r, r.record); err != nil {
		return nil, nil, fmt.Errorf("%w: record %d: %v", ErrMalformed, r.read, err)
	}
	r.read++
	k := int(r.header.K)
	data := append([]byte(nil), r.record[:k]...)
	flags := make([]bool, k)
	for j := range flags {
		flags[j] = r.record[k+j/8]&(1<<(j%8)) != 0
	}
	return data, flags, nil
}
