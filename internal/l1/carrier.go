package l1

import "math"

// TxCarrier binds one Modulator to its pulse-shaping FIR and its CIC
// DUC, and holds the fixed-point scaling that bridges the Modulator's
// unit-magnitude constellation domain to the DUC's integer domain
// (§4.5). One TxCarrier exists per transmitted channel multiplexed
// onto the shared radio baseband.
type TxCarrier struct {
	modulator *Modulator
	fir       *FirCf32Sym
	duc       *CicDuc

	// channelSpacing and freqOffset let Process turn a requested
	// L1TxCommands.RetuneHz into the channel-spacing units CicDuc.Retune
	// expects, and skip the retune when it would be a no-op (§4.9).
	channelSpacing float64
	freqOffset     int

	// inScale folds the modulator's fixed headroom factor (0.68,
	// chosen empirically in the original source to keep the combined
	// FIR+DUC chain from clipping when several carriers are summed)
	// together with the DUC's own input scale, so Process does a single
	// multiply per sample rather than two.
	inScale float32
}

// NewTxCarrier constructs a TxCarrier sharing the given sine table,
// mixing at `freqOffset` channel-spacing units from the radio center,
// with `numCarriers` total carriers sharing the baseband (used to size
// headroom so the summed output doesn't clip) and `cicStages` DUC
// stages; the DUC's interpolation ratio is common's cicFactor.
func NewTxCarrier(common *DspCommon, freqOffset, numCarriers, cicStages int) *TxCarrier {
	duc := NewCicDuc(common.sine, cicStages, freqOffset)
	modulatorScaling := float32(0.68) * float32(SPS) / float32(numCarriers)

	return &TxCarrier{
		modulator:      NewModulator(),
		fir:            NewFirCf32Sym(common.txTaps),
		duc:            duc,
		channelSpacing: common.channelSpacing,
		freqOffset:     freqOffset,
		inScale:        modulatorScaling * ducInScaleOf(cicStages, common.cicFactor),
	}
}

// ducInScaleOf recomputes just the DUC's input-scale half of
// CicDucScaling; kept as a separate helper so NewTxCarrier can combine
// it with the modulator's own headroom factor in one multiply.
func ducInScaleOf(n, ratio int) float32 {
	inScale, _ := CicDucScaling(n, ratio, 1.0)
	return inScale
}

// SetAnchor rebases the carrier's modulator timing to `time`.
func (c *TxCarrier) SetAnchor(time int64) { c.modulator.SetAnchor(time) }

// Active reports whether the carrier's currently loaded burst is
// anything other than None, or a non-None burst has already been
// prefetched for the upcoming slot within its KeyupMargin window, i.e.
// whether PTT should be asserted right now (SPEC_FULL.md §3 [ADD]).
// L1 ORs this across every TX carrier to derive the PTT keying line
// state.
func (c *TxCarrier) Active() bool {
	return c.modulator.burst.Kind != TxBurstNone || c.modulator.Pending()
}

// Process advances the carrier by one sub-block: it applies any
// pending retune command, pulls SPS pre-shaping samples from the
// modulator (one per modem sample period within the sub-block),
// pulse-shapes each through the FIR, converts to the DUC's integer
// input domain, and interpolates/mixes each into len(output)/SPS
// radio-rate samples of `output`, which the caller has already sized to
// the sub-block's radio-sample-rate length (cicFactor*SPS, see NewL1Dsp)
// and must zero (or not, if accumulating multiple carriers) before the
// first carrier in a sum (§4.5, §4.6).
func (c *TxCarrier) Process(subBlockStart int64, cmd L1TxCommands, tx TxBurstCallback, output []iq64) {
	c.modulator.SetKeyupMargin(cmd.KeyupMargin)
	c.retune(cmd.RetuneHz)

	n := SPS
	ratio := len(output) / n
	for i := 0; i < n; i++ {
		time := subBlockStart + int64(i)*ModemSampleNS
		pre := c.modulator.Sample(time, tx)
		shaped := c.fir.Sample(pre)
		sample := cf32ToSample(shaped, c.inScale)
		c.duc.Process(sample, output[i*ratio:(i+1)*ratio])
	}
}

// retune converts a non-zero requested center-frequency change to
// channel-spacing units and pushes it into the DUC, skipping the call
// entirely when it would leave the offset unchanged (§4.9).
func (c *TxCarrier) retune(retuneHz float64) {
	if retuneHz == 0 || c.channelSpacing == 0 {
		return
	}
	offset := int(math.Round(retuneHz / c.channelSpacing))
	if offset == c.freqOffset {
		return
	}
	c.freqOffset = offset
	c.duc.Retune(offset)
}

// RxCarrier mirrors TxCarrier on the receive side: a CIC DDC pulls one
// decimated sample out of each sub-block, which is scaled and fed to a
// matched FIR (§4.8, added to supplement the original source's
// unwired RX path — see SPEC_FULL.md §4.8 and DESIGN.md).
type RxCarrier struct {
	ddc     *CicDdc
	fir     *FirCf32Sym
	tracker *rxTracker

	channelSpacing float64
	freqOffset     int

	ddcOutScale float32
}

// NewRxCarrier constructs an RxCarrier sharing the given sine table
// and matched-filter taps, mixing at `freqOffset` channel-spacing
// units, with DDC parameters (`cicStages`, `cicFactor` taken from
// common).
func NewRxCarrier(common *DspCommon, freqOffset, cicStages int) *RxCarrier {
	ddc := NewCicDdc(common.sine, cicStages, freqOffset)
	_, outScale := CicDdcScaling(cicStages, common.cicFactor, 1.0)
	return &RxCarrier{
		ddc:            ddc,
		fir:            NewFirCf32Sym(common.rxTaps),
		tracker:        newRxTracker(),
		channelSpacing: common.channelSpacing,
		freqOffset:     freqOffset,
		ddcOutScale:    outScale,
	}
}

// SetAnchor rebases the carrier's slot tracker to `time`.
func (c *RxCarrier) SetAnchor(time int64) { c.tracker.setAnchor(time) }

// Process consumes one sub-block of radio-rate integer samples
// (length equal to the decimation ratio), applies any pending realign
// or retune command, decimates it through the CIC DDC to a single
// matched-filter input sample, and invokes rx_burst whenever the
// tracker crosses a slot boundary within this sub-block (§4.8).
func (c *RxCarrier) Process(subBlockStart int64, input []iq64, cmd L1RxCommands, rx RxBurstCallback) {
	if cmd.RealignSlots != 0 {
		c.tracker.realign(cmd.RealignSlots)
	}
	c.retune(cmd.RetuneHz)

	decimated := c.ddc.Process(input)
	filtered := c.fir.Sample(sampleToCf32(decimated, c.ddcOutScale))
	_ = filtered // matched-filter output; demodulation is out of scope (§1 Non-goals)

	if slot, slotTime, crossed := c.tracker.advance(subBlockStart); crossed {
		if rx != nil {
			rx(slot, slotTime, &RxBurst{Kind: RxBurstNone, Info: RxBurstInfo{Timestamp: slotTime}})
		}
	}
}

// retune mirrors TxCarrier.retune on the DDC side (§4.8).
func (c *RxCarrier) retune(retuneHz float64) {
	if retuneHz == 0 || c.channelSpacing == 0 {
		return
	}
	offset := int(math.Round(retuneHz / c.channelSpacing))
	if offset == c.freqOffset {
		return
	}
	c.freqOffset = offset
	c.ddc.Retune(offset)
}

// RxBurstCallback is invoked once per slot, each time an RxCarrier
// crosses into a new slot, with an RxBurst already tagged for the
// upper layer (§6 rx_burst, §4.8).
type RxBurstCallback func(slot SlotNumber, slotTimeNs int64, burst *RxBurst)

// rxTracker decides slot boundaries on the receive side from elapsed
// time alone, since (unlike Modulator) there is no symbol stream to
// derive them from directly: demodulation, which would recover symbol
// timing from the signal itself, is out of scope (§1 Non-goals, §4.8).
type rxTracker struct {
	htime    int64
	prevHsym int32
	slot     SlotNumber
}

func newRxTracker() *rxTracker {
	return &rxTracker{prevHsym: 255, slot: NewSlotNumber(4, 18, 60)}
}

func (t *rxTracker) setAnchor(time int64) { t.htime = time }

// realign shifts the tracker's anchor by `slots` slot-periods, used
// when the upper layer reports the RX path has drifted relative to
// the on-air hyperframe (rx_cmd's RealignSlots, §4.8).
func (t *rxTracker) realign(slots int32) {
	t.htime -= symbolsToNs(slots * SymbolsPerSlot)
}

// advance reports whether absolute time `time` has crossed into a new
// slot since the tracker's last call, returning the new slot and its
// starting timestamp when it has.
func (t *rxTracker) advance(time int64) (SlotNumber, int64, bool) {
	elapsed := euclidMod64(time-t.htime, HyperframeNS)
	hsym := nsToSymbols(elapsed)
	if hsym == t.prevHsym {
		return SlotNumber{}, 0, false
	}
	t.prevHsym = hsym

	slotIndex := euclidDiv(hsym, SymbolsPerSlot)
	slot := SlotFromInt(slotIndex)
	if slot == t.slot {
		return SlotNumber{}, 0, false
	}
	t.slot = slot
	slotTime := t.htime + symbolsToNs(slotIndex*SymbolsPerSlot)
	return slot, slotTime, true
}
