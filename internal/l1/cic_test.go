package l1

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// S1 / invariant 1: CIC DDC DC gain at offset 0 for several ratios.
func TestCicDdc_DCGain(t *testing.T) {
	const n = 4
	sine := NewSineTable(100)
	maxIn := float32(1.0)

	for _, ratio := range []int{1, 10, 100, 1000} {
		ddc := NewCicDdc(sine, n, 0)
		inScale, outScale := CicDdcScaling(n, ratio, maxIn)

		vIn := complex(float32(1.0), float32(1.0))
		floatBuf := make([]complex64, ratio)
		for i := range floatBuf {
			floatBuf[i] = vIn
		}
		cicBuf := make([]iq64, ratio)
		cf32ToBuf(floatBuf, cicBuf, inScale)

		for i := 0; i < 100; i++ {
			out := ddc.Process(cicBuf)
			o := sampleToCf32(out, outScale)
			if i > 10 {
				gain := magnitude(o) / magnitude(vIn)
				assert.Greaterf(t, gain, 0.99, "ratio=%d i=%d", ratio, i)
				assert.Lessf(t, gain, 1.01, "ratio=%d i=%d", ratio, i)
			}
		}
	}
}

// S2 / invariant 2: CIC DUC amplitude preservation at offset 1 for
// several ratios.
func TestCicDuc_Amplitude(t *testing.T) {
	const n = 4
	sine := NewSineTable(100)
	maxIn := float32(1.0)

	for _, ratio := range []int{1, 10, 100, 1000} {
		duc := NewCicDuc(sine, n, 1)
		inScale, outScale := CicDucScaling(n, ratio, maxIn)

		vIn := complex(float32(1.0), float32(1.0))
		for i := 0; i < 100; i++ {
			cicBuf := make([]iq64, ratio)
			floatBuf := make([]complex64, ratio)
			duc.Process(cf32ToSample(vIn, inScale), cicBuf)
			bufToCf32(cicBuf, floatBuf, outScale)
			if i > 10 {
				for _, o := range floatBuf {
					gain := magnitude(o) / magnitude(vIn)
					assert.Greaterf(t, gain, 0.99, "ratio=%d i=%d", ratio, i)
					assert.Lessf(t, gain, 1.01, "ratio=%d i=%d", ratio, i)
				}
			}
		}
	}
}

func TestCicDdc_PanicsOnZeroStages(t *testing.T) {
	assert.Panics(t, func() { NewCicDdc(NewSineTable(16), 0, 0) })
}

func TestCicDuc_PanicsOnZeroStages(t *testing.T) {
	assert.Panics(t, func() { NewCicDuc(NewSineTable(16), 0, 0) })
}

// Retune rebuilds freqInc from the new offset without touching phase.
func TestCicDdc_RetunePreservesPhase(t *testing.T) {
	sine := NewSineTable(100)
	ddc := NewCicDdc(sine, 2, 3)
	ddc.phase = 42

	ddc.Retune(7)

	assert.Equal(t, 42, ddc.phase)
	assert.Equal(t, int(euclidMod(-7, 100)), ddc.freqInc)
}

func TestCicDuc_RetunePreservesPhase(t *testing.T) {
	sine := NewSineTable(100)
	duc := NewCicDuc(sine, 2, 3)
	duc.phase = 17

	duc.Retune(11)

	assert.Equal(t, 17, duc.phase)
	assert.Equal(t, int(euclidMod(11, 100)), duc.freqInc)
}
