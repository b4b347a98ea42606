package l1

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// Invariant 6: DQPSK phase sequence (F,F),(T,F),(T,T),(F,T) returns to
// phase 0, with each intermediate point matching e^{i*pi/4*phase}.
func TestDqpskMapper_KnownSequence(t *testing.T) {
	m := NewDqpskMapper()

	dibits := [][2]bool{{false, false}, {true, false}, {true, true}, {false, true}}
	expectedPhase := 0
	deltas := map[[2]bool]int{
		{false, false}: 1,
		{true, false}:  -1,
		{true, true}:   -3,
		{false, true}:  3,
	}
	for _, d := range dibits {
		expectedPhase = ((expectedPhase + deltas[d]) % 8 + 8) % 8
		got := m.Symbol(d[0], d[1])
		wantPhase := float64(expectedPhase) * 3.141592653589793 / 4
		want := cmplx.Exp(complex(0, wantPhase))
		assert.Less(t, cmplx.Abs(toC128(got)-want), 1e-6)
	}
	assert.Equal(t, int8(0), m.phase)
}

// Invariant 6 (property form): a random sequence of dibits always
// produces a phase in [0,8) whose constellation point is unit
// magnitude and matches the accumulated phase delta.
func TestDqpskMapper_RandomSequence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := NewDqpskMapper()
		phase := 0
		n := rapid.IntRange(0, 64).Draw(t, "n")
		for i := 0; i < n; i++ {
			b0 := rapid.Bool().Draw(t, "b0")
			b1 := rapid.Bool().Draw(t, "b1")
			phase = ((phase + int(dqpskDelta(b0, b1))) % 8 + 8) % 8
			got := m.Symbol(b0, b1)
			want := cmplx.Exp(complex(0, float64(phase)*3.141592653589793/4))
			assert.Less(t, cmplx.Abs(toC128(got)-want), 1e-5)
		}
	})
}

// Invariant 7: hyperframe wrap-around symbol counting.
func TestHyperframeWrap(t *testing.T) {
	const totalSymbols = int32(SlotsPerHyperframe * SymbolsPerSlot)
	assert.Less(t, nsToSymbols(HyperframeNS-1), totalSymbols)
	assert.GreaterOrEqual(t, nsToSymbols(HyperframeNS), totalSymbols)
}

// S4: with a nil/None burst callback, the modulator emits silence at
// every modem sample instant.
func TestModulator_NoneBurstIsSilent(t *testing.T) {
	m := NewModulator()
	noneCb := func(slot SlotNumber, slotTimeNs int64, burst *TxBurst) {
		burst.Kind = TxBurstNone
	}
	for i := 0; i < 50; i++ {
		out := m.Sample(int64(i)*ModemSampleNS, noneCb)
		assert.Equal(t, complex64(0), out)
	}
}

// S4: called at the modem sample rate (t=0,13889,27778,...) with an
// all-zero-bits Dl burst loaded, the modulator emits a unit-magnitude
// symbol exactly at each symbol boundary and zero at every other
// modem sample in between.
func TestModulator_DlBurstEmitsUnitMagnitudeSymbols(t *testing.T) {
	m := NewModulator()
	loads := 0
	cb := func(slot SlotNumber, slotTimeNs int64, burst *TxBurst) {
		loads++
		burst.Kind = TxBurstDl
		for i := range burst.Dl {
			burst.Dl[i] = 0
		}
	}

	prevHsym := int32(-1)
	sawSymbol, sawSilence := false, false
	for i := int64(0); i < 40; i++ {
		time := i * ModemSampleNS
		out := m.Sample(time, cb)
		hsym := nsToSymbols(euclidMod64(time, HyperframeNS))
		if hsym != prevHsym {
			assert.InDelta(t, 1.0, cmplx.Abs(toC128(out)), 1e-6)
			sawSymbol = true
		} else {
			assert.Equal(t, complex64(0), out)
			sawSilence = true
		}
		prevHsym = hsym
	}
	assert.True(t, sawSymbol, "expected at least one symbol boundary")
	assert.True(t, sawSilence, "expected at least one silent sample between symbols")
	assert.Equal(t, 1, loads)
}

// With a non-zero KeyupMargin, tx is called once for the next slot's
// burst before that slot actually begins (in addition to the call that
// loads slot 0 itself), and Pending reports the prefetched burst's
// activity ahead of the crossing without a second tx call once it
// arrives.
func TestModulator_KeyupMarginPrefetchesNextSlotBurst(t *testing.T) {
	m := NewModulator()
	m.SetKeyupMargin(3 * ModemSampleNS)

	var loadedSlots []SlotNumber
	cb := func(slot SlotNumber, slotTimeNs int64, burst *TxBurst) {
		loadedSlots = append(loadedSlots, slot)
		burst.Kind = TxBurstDl
	}

	firstSlotEnd := symbolsToNs(SymbolsPerSlot)
	sawPendingBeforeCrossing := false
	for time := int64(0); time < firstSlotEnd+3*ModemSampleNS; time += ModemSampleNS {
		m.Sample(time, cb)
		if time < firstSlotEnd && m.Pending() {
			sawPendingBeforeCrossing = true
		}
	}

	assert.True(t, sawPendingBeforeCrossing, "expected Pending to report the prefetched burst before the slot boundary")
	assert.Len(t, loadedSlots, 2, "tx must be called once for slot 0 and once to prefetch slot 1, never a third time at the crossing")
}
