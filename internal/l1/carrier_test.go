package l1

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testTaps() []float32 { return []float32{1, 0, 0, 0} }

func newTestCommon() *DspCommon {
	return NewDspCommon(72000*4, 25000, 4, testTaps())
}

// A TxCarrier with nothing but None bursts loaded must never produce a
// nonzero output sample, and Active() must report false throughout.
func TestTxCarrier_NoneBurstIsSilentAndInactive(t *testing.T) {
	common := newTestCommon()
	c := NewTxCarrier(common, 0, 1, 2)
	noneCb := func(slot SlotNumber, slotTimeNs int64, burst *TxBurst) {
		burst.Kind = TxBurstNone
	}

	out := make([]iq64, 4*4)
	for block := 0; block < 5; block++ {
		for i := range out {
			out[i] = iq64{}
		}
		c.Process(int64(block)*4*4*ModemSampleNS, L1TxCommands{}, noneCb, out)
		for _, v := range out {
			assert.Equal(t, iq64{}, v)
		}
		assert.False(t, c.Active())
	}
}

// An RxCarrier invokes rx_burst exactly once per slot crossing, and
// the reported timestamp strictly increases across successive slots.
func TestRxCarrier_InvokesRxBurstOnSlotCrossing(t *testing.T) {
	common := newTestCommon()
	c := NewRxCarrier(common, 0, 2)
	c.SetAnchor(0)

	subBlockLen := common.cicFactor
	input := make([]iq64, subBlockLen)

	var timestamps []int64
	cb := func(slot SlotNumber, slotTimeNs int64, burst *RxBurst) {
		timestamps = append(timestamps, slotTimeNs)
		assert.Equal(t, RxBurstNone, burst.Kind)
	}

	// One RxCarrier.Process call decimates one sub-block to a single
	// matched-filter input sample, i.e. one modem sample period; step
	// through enough of them to cross several slot boundaries.
	stepNs := int64(ModemSampleNS)

	var cmd L1RxCommands
	for i := int64(0); i < int64(SymbolsPerSlot*SPS)*3; i++ {
		c.Process(i*stepNs, input, cmd, cb)
	}

	assert.GreaterOrEqual(t, len(timestamps), 2)
	for i := 1; i < len(timestamps); i++ {
		assert.Greater(t, timestamps[i], timestamps[i-1])
	}
}

// RealignSlots shifts the RX tracker's anchor so that the next
// reported slot timestamp reflects the shift.
func TestRxCarrier_RealignSlotsShiftsAnchor(t *testing.T) {
	tr := newRxTracker()
	tr.setAnchor(0)
	tr.realign(1)
	assert.Equal(t, -symbolsToNs(SymbolsPerSlot), tr.htime)
}

// A non-zero RetuneHz updates the carrier's stored offset and the
// DUC/DDC's phase increment, converting through the shared channel
// spacing; a repeat of the same RetuneHz is a no-op.
func TestTxCarrier_RetuneHzUpdatesFreqOffset(t *testing.T) {
	common := newTestCommon() // channel spacing 25000 Hz
	c := NewTxCarrier(common, 0, 1, 2)

	c.retune(50000)
	assert.Equal(t, 2, c.freqOffset)

	incAfterFirst := c.duc.freqInc
	c.retune(50000)
	assert.Equal(t, incAfterFirst, c.duc.freqInc)
}

func TestRxCarrier_RetuneHzUpdatesFreqOffset(t *testing.T) {
	common := newTestCommon()
	c := NewRxCarrier(common, 0, 2)

	cmd := L1RxCommands{RetuneHz: -75000}
	c.Process(0, make([]iq64, common.cicFactor), cmd, nil)

	assert.Equal(t, -3, c.freqOffset)
}
