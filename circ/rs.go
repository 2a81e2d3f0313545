package circ

import (
	"fmt"
	"slices"
)

// MaxCodewordLength is the full length of a Reed-Solomon code over GF(256).
// Shorter codewords are treated as shortened codes with implicit leading zeros.
const MaxCodewordLength = 255

// Code is a systematic Reed-Solomon code over GF(256) with generator roots
// alpha^0 .. alpha^(n-k-1). Symbol 0 of a codeword is the highest degree
// coefficient; the n-k parity symbols follow the k data symbols.
//
// A Code holds no mutable state and may be shared between goroutines.
type Code struct {
	n, k int
	// generator coefficients, highest degree first, gen[0] == 1
	gen []byte
}

// Result describes a single decode.
type Result struct {
	Outcome Outcome
	// Corrected lists the positions whose value was changed.
	Corrected []int
	// Errors is the number of error locations found outside the erasure set.
	Errors int
	// Erasures is the number of distinct erased positions supplied.
	Erasures int
}

// NewCode builds an RS(n, k) code. It requires 0 < k < n <= 255.
func NewCode(n, k int) (*Code, error) {
	if k <= 0 || n <= k || n > MaxCodewordLength {
		return nil, fmt.Errorf("%w: RS(%d,%d) requires 0<k<n<=%d", ErrConfig, n, k, MaxCodewordLength)
	}
	// g(x) = prod (x + alpha^i), built lowest degree first
	g := []byte{1}
	for i := 0; i < n-k; i++ {
		g = polyMul(g, []byte{alphaPow(i), 1})
	}
	slices.Reverse(g)
	return &Code{n: n, k: k, gen: g}, nil
}

// N returns the codeword length.
func (c *Code) N() int { return c.n }

// K returns the number of data symbols.
func (c *Code) K() int { return c.k }

// ParityLength returns n-k.
func (c *Code) ParityLength() int { return c.n - c.k }

// Encode returns the codeword for k data symbols.
func (c *Code) Encode(data []byte) ([]byte, error) {
	if len(data) != c.k {
		return nil, fmt.Errorf("%w: data length %d != k=%d", ErrCodewordLength, len(data), c.k)
	}
	np := c.n - c.k
	out := make([]byte, c.n)
	copy(out, data)
	parity := out[c.k:]
	// LFSR division of data(x)*x^np by g(x); the register ends up holding the remainder.
	for _, d := range data {
		fb := d ^ parity[0]
		for j := 0; j < np-1; j++ {
			parity[j] = parity[j+1] ^ gfMul(fb, c.gen[j+1])
		}
		parity[np-1] = gfMul(fb, c.gen[np])
	}
	return out, nil
}

// Syndromes evaluates the received word at the generator roots.
func (c *Code) Syndromes(codeword []byte) []byte {
	np := c.n - c.k
	s := make([]byte, np)
	for i := 0; i < np; i++ {
		x := alphaPow(i)
		var acc byte
		for _, v := range codeword {
			acc = gfMul(acc, x) ^ v
		}
		s[i] = acc
	}
	return s
}

// Decode corrects codeword in place using the erasure positions as known
// unreliable symbols. The codeword is only modified when the outcome is
// Corrected; a Passed or Failed codeword keeps the received values.
//
// The returned error is reserved for malformed input. Uncorrectable data is
// reported through Result.Outcome.
func (c *Code) Decode(codeword []byte, erasures []int) (Result, error) {
	if len(codeword) != c.n {
		return Result{}, fmt.Errorf("%w: codeword length %d != n=%d", ErrCodewordLength, len(codeword), c.n)
	}
	eras := make([]int, 0, len(erasures))
	for _, p := range erasures {
		if p < 0 || p >= c.n {
			return Result{}, fmt.Errorf("%w: %d not in [0,%d)", ErrErasureIndex, p, c.n)
		}
		if !slices.Contains(eras, p) {
			eras = append(eras, p)
		}
	}
	np := c.n - c.k
	res := Result{Erasures: len(eras)}
	if len(eras) > np {
		res.Outcome = Failed
		return res, nil
	}

	synd := c.Syndromes(codeword)
	if polyDegree(synd) < 0 {
		// The erased symbols happen to hold consistent values; they are now verified.
		if len(eras) == 0 {
			res.Outcome = Passed
		} else {
			res.Outcome = Corrected
		}
		return res, nil
	}

	lambda := c.locator(synd, eras)
	degLambda := polyDegree(lambda)
	res.Errors = degLambda - len(eras)
	if res.Errors < 0 || 2*res.Errors+len(eras) > np {
		res.Errors = 0
		res.Outcome = Failed
		return res, nil
	}

	// Chien search over the live positions only; a root in the shortened
	// prefix means the word is not decodable.
	locs := make([]int, 0, degLambda)
	for j := 0; j < c.n; j++ {
		if polyEval(lambda, alphaPow(-(c.n - 1 - j))) == 0 {
			locs = append(locs, j)
		}
	}
	if len(locs) != degLambda {
		res.Errors = 0
		res.Outcome = Failed
		return res, nil
	}

	// omega(x) = S(x)*lambda(x) mod x^np
	omega := polyMul(synd, lambda)[:np]
	// formal derivative: only odd powers survive in characteristic 2
	deriv := make([]byte, len(lambda))
	for i := 1; i < len(lambda); i += 2 {
		deriv[i-1] = lambda[i]
	}

	fixed := slices.Clone(codeword)
	corrected := make([]int, 0, len(locs))
	for _, j := range locs {
		x := alphaPow(c.n - 1 - j)
		xInv := gfInv(x)
		den := polyEval(deriv, xInv)
		if den == 0 {
			res.Errors = 0
			res.Outcome = Failed
			return res, nil
		}
		y := gfMul(x, gfDiv(polyEval(omega, xInv), den))
		if y != 0 {
			fixed[j] ^= y
			corrected = append(corrected, j)
		}
	}
	if polyDegree(c.Syndromes(fixed)) >= 0 {
		res.Errors = 0
		res.Outcome = Failed
		return res, nil
	}

	copy(codeword, fixed)
	res.Corrected = corrected
	res.Outcome = Corrected
	return res, nil
}

// locator runs Berlekamp-Massey with the locator seeded by the erasure
// positions and returns the combined errata locator, lowest degree first.
func (c *Code) locator(synd []byte, eras []int) []byte {
	np := c.n - c.k
	lambda := make([]byte, np+1)
	lambda[0] = 1
	for _, p := range eras {
		x := alphaPow(c.n - 1 - p)
		// lambda *= (1 + x*X)
		for i := np; i > 0; i-- {
			lambda[i] ^= gfMul(x, lambda[i-1])
		}
	}
	b := slices.Clone(lambda)
	t := make([]byte, np+1)
	l := len(eras)
	for r := len(eras) + 1; r <= np; r++ {
		var d byte
		for i := 0; i < r; i++ {
			d ^= gfMul(lambda[i], synd[r-1-i])
		}
		if d == 0 {
			shiftUp(b)
			continue
		}
		// t = lambda - d*x*b
		t[0] = lambda[0]
		for i := 1; i <= np; i++ {
			t[i] = lambda[i] ^ gfMul(d, b[i-1])
		}
		if 2*l <= r+len(eras)-1 {
			l = r + len(eras) - l
			dInv := gfInv(d)
			for i := range b {
				b[i] = gfMul(lambda[i], dInv)
			}
		} else {
			shiftUp(b)
		}
		copy(lambda, t)
	}
	return lambda
}

// shiftUp multiplies p by x, dropping the top coefficient.
func shiftUp(p []byte) {
	copy(p[1:], p[:len(p)-1])
	p[0] = 0
}
