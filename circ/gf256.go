package circ

// GF(256) arithmetic using log/antilog tables with primitive polynomial 0x11d
// and generator 0x02, the field used by the CD C1 and C2 codes.

const gfPoly = 0x11d

var (
	gfExp [512]byte
	gfLog [256]byte
)

// The tables are read-only after init, so decoders on separate goroutines
// can share them.
func init() {
	x := 1
	for i := 0; i < 255; i++ {
		gfExp[i] = byte(x)
		gfLog[byte(x)] = byte(i)
		x <<= 1
		if (x & 0x100) != 0 { // carry out from bit 8
			x ^= gfPoly
		}
	}
	for i := 255; i < 512; i++ {
		gfExp[i] = gfExp[i-255]
	}
}

func gfMul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return gfExp[int(gfLog[a])+int(gfLog[b])]
}

func gfInv(a byte) byte {
	if a == 0 {
		return 0
	}
	return gfExp[255-int(gfLog[a])]
}

// gfDiv panics on division by zero; callers check denominators first.
func gfDiv(a, b byte) byte {
	if b == 0 {
		panic("circ: gf256 division by zero")
	}
	if a == 0 {
		return 0
	}
	return gfExp[int(gfLog[a])+255-int(gfLog[b])]
}

// alphaPow returns generator^e, with e mod 255.
func alphaPow(e int) byte {
	e %= 255
	if e < 0 {
		e += 255
	}
	return gfExp[e]
}

// Polynomials below are stored lowest degree first: p[i] is the coefficient of x^i.

// polyEval evaluates p at x using Horner's rule.
func polyEval(p []byte, x byte) byte {
	var y byte
	for i := len(p) - 1; i >= 0; i-- {
		y = gfMul(y, x) ^ p[i]
	}
	return y
}

// polyMul returns a*b.
func polyMul(a, b []byte) []byte {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	out := make([]byte, len(a)+len(b)-1)
	for i, ca := range a {
		if ca == 0 {
			continue
		}
		for j, cb := range b {
			out[i+j] ^= gfMul(ca, cb)
		}
	}
	return out
}

// polyDegree returns the index of the highest non-zero coefficient, or -1 for the zero polynomial.
func polyDegree(p []byte) int {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] != 0 {
			return i
		}
	}
	return -1
}
