package l1

import (
	"fmt"
	"math"
	"math/cmplx"
)

// iq64 is a complex sample with 64-bit integer components, used
// internally by the CIC stages and for the shared scratch buffer that
// carriers accumulate into (§3: CicDdc<N>/CicDuc<N>).
type iq64 struct {
	Re, Im int64
}

func (a iq64) add(b iq64) iq64 { return iq64{a.Re + b.Re, a.Im + b.Im} }
func (a iq64) sub(b iq64) iq64 { return iq64{a.Re - b.Re, a.Im - b.Im} }

// mulBufSine multiplies a buffer-domain sample by a sine table entry and
// shifts right after multiplying, preserving bits (§4.1 step 3).
func mulBufSine(v iq64, s sineSample) iq64 {
	sr, si := int64(s.Re), int64(s.Im)
	// Complex multiply (v.Re + i*v.Im) * (sr + i*si).
	re := v.Re*sr - v.Im*si
	im := v.Re*si + v.Im*sr
	return iq64{re >> sineShift, im >> sineShift}
}

// mulIntSine shifts its integrator-domain input right before
// multiplying, avoiding overflow on values that have already grown
// through the interpolator chain (§4.2).
func mulIntSine(v iq64, s sineSample) iq64 {
	vr, vi := v.Re>>sineShift, v.Im>>sineShift
	sr, si := int64(s.Re), int64(s.Im)
	return iq64{vr*sr - vi*si, vr*si + vi*sr}
}

// cf32ToBuf converts a slice of complex64 radio samples to the CIC
// integer buffer domain using the given input scaling factor.
func cf32ToBuf(input []complex64, output []iq64, scaling float32) {
	for i, v := range input {
		output[i] = iq64{
			Re: int64(real(v) * scaling),
			Im: int64(imag(v) * scaling),
		}
	}
}

// bufToCf32 converts a CIC integer buffer back to complex64 samples
// using the given output scaling factor.
func bufToCf32(input []iq64, output []complex64, scaling float32) {
	for i, v := range input {
		output[i] = complex(float32(v.Re)*scaling, float32(v.Im)*scaling)
	}
}

// cf32ToSample converts a single complex64 sample to the DUC input
// sample domain.
func cf32ToSample(v complex64, scaling float32) iq64 {
	return iq64{Re: int64(real(v) * scaling), Im: int64(imag(v) * scaling)}
}

// sampleToCf32 converts a single DDC output sample back to complex64.
func sampleToCf32(v iq64, scaling float32) complex64 {
	return complex(float32(v.Re)*scaling, float32(v.Im)*scaling)
}

// CicDdc is an (N+1)-stage cascaded integrator-comb digital
// down-converter with an embedded NCO mixer (§4.1). Minimum supported
// N is 1, i.e. a 2-stage CIC.
type CicDdc struct {
	n          int
	phase      int
	freqInc    int
	integrator []iq64
	comb       []iq64
	sine       *SineTable
}

// NewCicDdc constructs a CicDdc with N integrator/comb stages, sharing
// the given sine table and mixing at `freqOffset` channel-spacing units.
// For a down-converter the phase increment is the negated offset,
// reduced modulo the table length with Euclidean semantics so that
// negative offsets wrap correctly.
func NewCicDdc(sine *SineTable, n int, freqOffset int) *CicDdc {
	if n < 1 {
		panic(fmt.Sprintf("l1: CIC stage count must be >= 1, got %d", n))
	}
	return &CicDdc{
		n:          n,
		freqInc:    int(euclidMod(int32(-freqOffset), int32(sine.Len()))),
		integrator: make([]iq64, n),
		comb:       make([]iq64, n),
		sine:       sine,
	}
}

// Retune rebuilds the DDC's phase increment for a new mixing offset,
// in channel-spacing units, without resetting the running phase
// accumulator: a retune changes the NCO's rate, not its instantaneous
// phase (§4.8).
func (d *CicDdc) Retune(freqOffset int) {
	d.freqInc = int(euclidMod(int32(-freqOffset), int32(d.sine.Len())))
}

// Process consumes one decimation-ratio-sized block of input samples
// and returns a single decimated, mixed output sample (§4.1).
// len(input) must equal the decimation ratio R used by the caller.
func (d *CicDdc) Process(input []iq64) iq64 {
	var output iq64
	n := d.n
	for _, in := range input {
		// Last integrator and first comb are combined into `output`.
		output = output.add(d.integrator[0])
		for k := 0; k < n-1; k++ {
			d.integrator[k] = d.integrator[k].add(d.integrator[k+1])
		}
		d.integrator[n-1] = d.integrator[n-1].add(mulBufSine(in, d.sine.at(d.phase)))

		d.phase += d.freqInc
		if d.phase >= d.sine.Len() {
			d.phase -= d.sine.Len()
		}
	}
	for k := 0; k < n; k++ {
		prev := output
		output = output.sub(d.comb[k])
		d.comb[k] = prev
	}
	return output
}

// CicDdcScaling computes the (inputScaling, outputScaling) pair for a
// CIC DDC with N stages, decimation ratio `ratio` and maximum expected
// input magnitude `maxIn` (§4.1 scaling helper).
func CicDdcScaling(n, ratio int, maxIn float32) (inScale, outScale float32) {
	growth := math.Pow(float64(ratio), float64(n+1))
	cicInMax := float64(math.MaxInt64) / growth
	sineInMax := float64(int64(math.MaxInt64) >> sineShift)
	inScale = float32(math.Min(cicInMax, sineInMax) / float64(maxIn))
	outScale = float32(2.0 / (float64(inScale) * growth))
	return
}

// CicDuc is an (N+1)-stage cascaded integrator-comb digital
// up-converter/interpolator with an embedded NCO mixer (§4.2). Minimum
// supported N is 1.
type CicDuc struct {
	n          int
	phase      int
	freqInc    int
	integrator []iq64
	comb       []iq64
	sine       *SineTable
}

// NewCicDuc constructs a CicDuc with N integrator/comb stages. The
// phase increment for an up-converter is the offset itself (not
// negated), reduced modulo the table length.
func NewCicDuc(sine *SineTable, n int, freqOffset int) *CicDuc {
	if n < 1 {
		panic(fmt.Sprintf("l1: CIC stage count must be >= 1, got %d", n))
	}
	return &CicDuc{
		n:          n,
		freqInc:    int(euclidMod(int32(freqOffset), int32(sine.Len()))),
		integrator: make([]iq64, n),
		comb:       make([]iq64, n),
		sine:       sine,
	}
}

// Retune rebuilds the DUC's phase increment for a new mixing offset,
// in channel-spacing units, without resetting the running phase
// accumulator, mirroring CicDdc.Retune (§4.2, §4.9).
func (d *CicDuc) Retune(freqOffset int) {
	d.freqInc = int(euclidMod(int32(freqOffset), int32(d.sine.Len())))
}

// Process consumes one input sample and ADDS interpolated, mixed
// samples into output (§4.2). The caller is responsible for zeroing
// output between carriers; len(output) must equal the interpolation
// ratio R.
func (d *CicDuc) Process(input iq64, output []iq64) {
	sample := input
	n := d.n
	for k := 0; k < n; k++ {
		prev := sample
		sample = sample.sub(d.comb[k])
		d.comb[k] = prev
	}

	for i := range output {
		output[i] = output[i].add(mulIntSine(d.integrator[0], d.sine.at(d.phase)))
		d.phase += d.freqInc
		if d.phase >= d.sine.Len() {
			d.phase -= d.sine.Len()
		}
		for k := 0; k < n-1; k++ {
			d.integrator[k] = d.integrator[k].add(d.integrator[k+1])
		}
		d.integrator[n-1] = d.integrator[n-1].add(sample)
	}
}

// CicDucScaling computes the (inputScaling, outputScaling) pair for a
// CIC DUC with N stages, interpolation ratio `ratio` and maximum
// expected input magnitude `maxIn` (§4.2 scaling helper: growth uses
// ratio^N rather than ratio^(N+1), since the final integrator's growth
// is absorbed into the scaling of the stream driving it).
func CicDucScaling(n, ratio int, maxIn float32) (inScale, outScale float32) {
	growth := math.Pow(float64(ratio), float64(n))
	cicInMax := float64(math.MaxInt64) / growth
	inScale = float32(cicInMax / float64(maxIn))
	outScale = float32(2.0 / (float64(inScale) * growth))
	return
}

// magnitude is a small helper used by tests to compute |z| for a
// complex64 without importing math/cmplx at every call site.
func magnitude(z complex64) float64 {
	return cmplx.Abs(complex(float64(real(z)), float64(imag(z))))
}
