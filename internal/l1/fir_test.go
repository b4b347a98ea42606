package l1

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
)

func toC128(z complex64) complex128 {
	return complex(float64(real(z)), float64(imag(z)))
}

func assertClose(t *testing.T, want, got complex64) {
	t.Helper()
	assert.Lessf(t, cmplx.Abs(toC128(got)-toC128(want)), 1e-6, "want %v got %v", want, got)
}

// S3: FIR impulse response with taps [8,7,6,5,4,3,2,1].
func TestFirCf32Sym_Impulse(t *testing.T) {
	taps := []float32{8, 7, 6, 5, 4, 3, 2, 1}
	fir := NewFirCf32Sym(ConvertSymmetricRealTaps(taps))

	in := complex64(complex(0.1, 0.2))
	out := make([]complex64, 0, 103)
	out = append(out, fir.Sample(in))
	for i := 0; i < 102; i++ {
		out = append(out, fir.Sample(0))
	}

	for i := 0; i < len(taps); i++ {
		assertClose(t, in*complex64(complex(float64(taps[len(taps)-1-i]), 0)), out[i])
		assertClose(t, in*complex64(complex(float64(taps[i]), 0)), out[len(taps)+i])
	}
	for _, v := range out[len(taps)*2:] {
		assertClose(t, 0, v)
	}
}

// Invariant 3: symmetry/linearity confirmed for four different nonzero
// impulses spaced >= K samples apart.
func TestFirCf32Sym_MultipleImpulses(t *testing.T) {
	taps := []float32{8, 7, 6, 5, 4, 3, 2, 1}
	fir := NewFirCf32Sym(ConvertSymmetricRealTaps(taps))

	impulses := []complex64{
		complex64(complex(1.0, 0.0)),
		complex64(complex(0.0, 1.0)),
		complex64(complex(0.1, 0.2)),
		complex64(complex(-0.3, -0.4)),
	}
	spacings := []int{100, 101, 102, 123}

	for idx, in := range impulses {
		out := make([]complex64, 0, spacings[idx]+1)
		out = append(out, fir.Sample(in))
		for i := 0; i < spacings[idx]; i++ {
			out = append(out, fir.Sample(0))
		}
		for i := 0; i < len(taps); i++ {
			assertClose(t, in*complex64(complex(float64(taps[len(taps)-1-i]), 0)), out[i])
			assertClose(t, in*complex64(complex(float64(taps[i]), 0)), out[len(taps)+i])
		}
		for _, v := range out[len(taps)*2:] {
			assertClose(t, 0, v)
		}
	}
}
