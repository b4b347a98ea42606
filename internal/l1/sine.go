package l1

import "math"

// sineShift is the right shift mulBufSine/mulIntSine apply around a
// multiply by a Q15 sine table entry to keep the mixer multiplication in
// range; shifting by 16 rather than 15 leaves the mixed signal at half
// amplitude, which the CIC scaling helpers' factor 2 compensates (§4.1).
const sineShift = 16

// sineSample is one entry of a SineTable: a Q15 fixed-point complex
// exponential, amplitude 0.5 of full scale so that a complex multiply
// against it cannot itself cause integer growth.
type sineSample struct {
	Re, Im int16
}

// SineTable is a shared, read-only table of Q15 complex exponentials.
// It is built once at DspCommon construction time and referenced by
// every CicDdc/CicDuc for the lifetime of the L1Dsp that owns them
// (§3, §9: shared immutable tables).
type SineTable struct {
	entries []sineSample
}

// NewSineTable builds a table of `length` complex exponentials spanning
// one full turn, each entry approximately round(2^15 * e^(i*2*pi*k/length)).
func NewSineTable(length int) *SineTable {
	if length < 1 {
		panic("l1: sine table length must be positive")
	}
	entries := make([]sineSample, length)
	freq := 2 * math.Pi / float64(length)
	const scale = float64(math.MaxInt16)
	for i := range entries {
		phase := float64(i) * freq
		entries[i] = sineSample{
			Re: int16(math.Round(math.Cos(phase) * scale)),
			Im: int16(math.Round(math.Sin(phase) * scale)),
		}
	}
	return &SineTable{entries: entries}
}

// NewSineTableFreq builds a table sized for a given radio sample rate
// and channel spacing: L = round(radio_fs / channel_spacing) (§3).
func NewSineTableFreq(radioFs, channelSpacing float64) *SineTable {
	return NewSineTable(int(math.Round(radioFs / channelSpacing)))
}

// Len returns the number of entries in the table.
func (s *SineTable) Len() int { return len(s.entries) }

func (s *SineTable) at(phase int) sineSample { return s.entries[phase] }
