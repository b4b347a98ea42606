package l1

// lane is a group of 4 taps from the centre-outwards half of a
// symmetric impulse response, padded with zeros if the half isn't a
// multiple of 4 long (§4.3: "table of 4-lane vector taps").
type lane [4]float32

// SymmetricRealTaps is the tap table consumed by FirCf32Sym, shared
// (immutable after construction) by every carrier using the same
// channel filter.
type SymmetricRealTaps struct {
	lanes []lane
}

// ConvertSymmetricRealTaps packs halftaps (the centre-outwards half of
// a symmetric real impulse response, starting at the centre tap) into
// 4-wide lanes for FirCf32Sym.
func ConvertSymmetricRealTaps(halftaps []float32) *SymmetricRealTaps {
	n := (len(halftaps) + 3) / 4
	lanes := make([]lane, n)
	for i := range lanes {
		for j := 0; j < 4; j++ {
			idx := i*4 + j
			if idx < len(halftaps) {
				lanes[i][j] = halftaps[idx]
			}
		}
	}
	return &SymmetricRealTaps{lanes: lanes}
}

// FirCf32Sym is a FIR filter for a complex signal with real symmetric
// taps, exploiting the symmetry to halve the number of multiplies
// (§4.3). It is used both as the TX pulse-shaping/CIC-compensation
// filter and, on the RX side, as the matched filter.
type FirCf32Sym struct {
	i    int
	len  int // number of samples in one half of the double-written history (taps.lanes * 4)
	fwdR []float32
	fwdI []float32
	revR []float32
	revI []float32
	taps *SymmetricRealTaps
}

// NewFirCf32Sym constructs a filter from a shared tap table. History
// buffers are allocated once here; Sample never allocates.
func NewFirCf32Sym(taps *SymmetricRealTaps) *FirCf32Sym {
	l := len(taps.lanes) * 4
	return &FirCf32Sym{
		len:  l,
		fwdR: make([]float32, l*2),
		fwdI: make([]float32, l*2),
		revR: make([]float32, l*2),
		revI: make([]float32, l*2),
		taps: taps,
	}
}

// Sample feeds one complex input sample through the filter and returns
// one filtered output sample (§4.3).
func (f *FirCf32Sym) Sample(in complex64) complex64 {
	l := f.len
	i := f.i
	ir := l - 1 - i

	// Move the sample being evicted from the forward buffer's oldest
	// slot into the reversed mirror.
	f.revR[ir], f.revR[ir+l] = f.fwdR[i], f.fwdR[i]
	f.revI[ir], f.revI[ir+l] = f.fwdI[i], f.fwdI[i]

	// Double-write the new sample into the forward "fake circular" buffer.
	inR, inI := real(in), imag(in)
	f.fwdR[i], f.fwdR[i+l] = inR, inR
	f.fwdI[i], f.fwdI[i+l] = inI, inI

	var sumR, sumI float32
	base := i + 1
	revBase := ir
	for li, tap := range f.taps.lanes {
		off := li * 4
		for k := 0; k < 4; k++ {
			h := base + off + k
			r := revBase + off + k
			t := tap[k]
			sumR += (f.fwdR[h] + f.revR[r]) * t
			sumI += (f.fwdI[h] + f.revI[r]) * t
		}
	}

	if f.i < l-1 {
		f.i++
	} else {
		f.i = 0
	}

	return complex(sumR, sumI)
}
