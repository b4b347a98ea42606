package l1

// Air-interface timing constants (§4.4, §6).
const (
	SymbolRate = 18000.0            // symbols/second
	SPS        = 4                  // samples per symbol
	ModemFS    = SymbolRate * SPS    // 72 kHz modem sample rate

	// SymbolsPerSlot is the number of modulation symbol periods in one
	// timeslot, regardless of how many of them a given burst class
	// actually carries payload in.
	SymbolsPerSlot = 255

	// ModemSampleNS is 1/ModemFS rounded to integer nanoseconds; the
	// rounding error is an accepted, documented imperfection (§4.6, §9).
	ModemSampleNS = 13889

	// HyperframeNS is the duration of a full hyperframe in nanoseconds:
	// 255 symbols * 4 slots * 18 frames * 60 multiframes, at 18 symbols/ms.
	HyperframeNS int64 = 1_000_000 * (SymbolsPerSlot * TimeslotsPerFrame * FramesPerMultiframe * MultiframesPerHyper) / 18
)

// nsToSymbols converts a nanosecond duration to a count of modem
// symbol periods: delta_ns * SYMBOLRATE / 1e9, computed as an exact
// integer ratio (delta_ns * 9 / 500000) to avoid floating point drift.
func nsToSymbols(deltaNs int64) int32 {
	return int32(deltaNs * 9 / 500000)
}

// symbolsToNs is the inverse of nsToSymbols, used to turn symbol
// positions (slot boundaries, realign shifts) back into nanoseconds.
func symbolsToNs(symbols int32) int64 {
	return int64(symbols) * 500000 / 9
}

// TxBurstCallback is invoked once per slot, the first time a
// Modulator crosses into a new slot, to ask the upper layer which
// burst to transmit next (§4.4 step 3, §6 tx_burst).
type TxBurstCallback func(slot SlotNumber, slotTimeNs int64, burst *TxBurst)

// Modulator owns the hyperframe timing model, the currently loaded
// burst, and a DQPSK phase mapper. It emits one pre-shaping symbol per
// modem sample period and zero between symbols, producing an impulse
// train for the downstream FIR to pulse-shape (§4.4).
type Modulator struct {
	htime      int64 // anchor timestamp for the beginning of a hyperframe
	prevHsym   int32
	burstSlot  SlotNumber
	burst      TxBurst
	mapper     *DqpskMapper

	// keyupMarginNs, when non-zero, makes Sample call tx for the
	// upcoming slot early (once it is within keyupMarginNs of that
	// slot's boundary) instead of waiting for the crossing itself, so
	// the upper layer's PTT decision can lead the burst it controls
	// (L1TxCommands.KeyupMargin, §3, §4.9).
	keyupMarginNs int64
	pendingFetched bool
	pendingSlot    SlotNumber
	pendingBurst   TxBurst
}

// NewModulator constructs a Modulator anchored at hyperframe time 0.
// prevHsym starts at 255: since the very first real symbol index is
// always computed from (time - htime) mod HyperframeNS and htime is
// fixed at construction, hsym == 255 can only coincide with the
// sentinel if and only if time actually lands exactly on symbol 255 at
// construction, which does not suppress symbol 0 of slot 0 (DESIGN.md
// records this decision).
func NewModulator() *Modulator {
	return &Modulator{
		prevHsym:  255,
		burstSlot: NewSlotNumber(4, 18, 60),
		burst:     TxBurst{Kind: TxBurstNone},
		mapper:    NewDqpskMapper(),
	}
}

// SetAnchor rebases the hyperframe anchor to `time`; used when a
// carrier is (re)started so that slot boundaries line up with a known
// reference instant.
func (m *Modulator) SetAnchor(time int64) {
	m.htime = time
}

// SetKeyupMargin sets how far ahead of a slot boundary Sample should
// fetch that slot's burst, so TxCarrier.Active can report PTT early
// (0 disables prefetch entirely, §4.9).
func (m *Modulator) SetKeyupMargin(ns int64) {
	m.keyupMarginNs = ns
}

// Pending reports whether a non-None burst has already been prefetched
// for the slot about to begin, for TxCarrier.Active's early-PTT check.
func (m *Modulator) Pending() bool {
	return m.pendingFetched && m.pendingBurst.Kind != TxBurstNone
}

// Sample produces one pre-shaping transmit sample at absolute time
// `time` (§4.4). tx is invoked to prefetch the next slot's burst once
// within keyupMarginNs of its boundary, and when a new slot has just
// begun whose burst was not prefetched; both can happen in one call.
func (m *Modulator) Sample(time int64, tx TxBurstCallback) complex64 {
	elapsed := euclidMod64(time-m.htime, HyperframeNS)
	hsym := nsToSymbols(elapsed)

	if m.keyupMarginNs > 0 {
		m.maybePrefetch(elapsed, hsym, tx)
	}

	var output complex64
	if hsym != m.prevHsym {
		symnum := euclidMod(hsym, SymbolsPerSlot)
		slotIndex := euclidDiv(hsym, SymbolsPerSlot)
		slot := SlotFromInt(slotIndex)

		if slot != m.burstSlot {
			m.burstSlot = slot
			if m.pendingFetched && m.pendingSlot == slot {
				m.burst = m.pendingBurst
			} else {
				m.burst = TxBurst{Kind: TxBurstNone}
				if tx != nil {
					slotTime := m.htime + symbolsToNs(slotIndex*SymbolsPerSlot)
					tx(slot, slotTime, &m.burst)
				}
			}
			m.pendingFetched = false
		}

		output = m.emit(symnum)
		m.prevHsym = hsym
	}
	return output
}

// maybePrefetch calls tx for the slot following the current one once
// elapsed time is within keyupMarginNs of that slot's boundary,
// caching the result so the later crossing in Sample doesn't call tx
// again (§4.9).
func (m *Modulator) maybePrefetch(elapsed int64, hsym int32, tx TxBurstCallback) {
	slotIndex := euclidDiv(hsym, SymbolsPerSlot)
	nextSlotIndex := slotIndex + 1
	nextSlotStart := symbolsToNs(nextSlotIndex * SymbolsPerSlot)
	untilNext := nextSlotStart - elapsed
	if untilNext <= 0 || untilNext > m.keyupMarginNs {
		return
	}

	slot := SlotFromInt(nextSlotIndex)
	if m.pendingFetched && m.pendingSlot == slot {
		return
	}

	var burst TxBurst
	if tx != nil {
		slotTime := m.htime + nextSlotStart
		tx(slot, slotTime, &burst)
	}
	m.pendingSlot = slot
	m.pendingBurst = burst
	m.pendingFetched = true
}

// emit produces the symbol for position symnum within the currently
// loaded burst, dispatching on the burst's tag (§4.9 completes the
// dispatch the original source left as `_ => todo!()` for all classes
// but Dl).
func (m *Modulator) emit(symnum int32) complex64 {
	switch m.burst.Kind {
	case TxBurstNone:
		return 0
	case TxBurstDl:
		return m.dibitSymbol(m.burst.Dl[:], symnum, DlBurstBits/2)
	case TxBurstDmo:
		return m.dibitSymbol(m.burst.Dmo[:], symnum, DmoBurstBits/2)
	case TxBurstUlNormal:
		return m.dibitSymbol(m.burst.UlNormal[:], symnum, UlNormalBurstBits/2)
	case TxBurstUlControl:
		return m.ulControlSymbol(symnum)
	default:
		return 0
	}
}

// dibitSymbol maps symnum to a dibit in bits and advances the mapper,
// provided symnum is within the burst's payload length (symbols shorter
// than a full slot carry no symbol for the remaining guard/ramp time).
func (m *Modulator) dibitSymbol(bits []byte, symnum int32, numSymbols int) complex64 {
	if int(symnum) >= numSymbols {
		return 0
	}
	return m.mapper.Symbol(bits[symnum*2] != 0, bits[symnum*2+1] != 0)
}

// ulControlSymbol splits the slot into two subslots of SymbolsPerSlot/2
// symbols each (with the midpoint symbol left as a guard gap) and maps
// each subslot's leading UlControlBurstBits/2 symbols independently.
func (m *Modulator) ulControlSymbol(symnum int32) complex64 {
	const subslotLen = SymbolsPerSlot / 2
	var sub int
	var local int32
	switch {
	case symnum < subslotLen:
		sub, local = 0, symnum
	case symnum > subslotLen:
		sub, local = 1, symnum-subslotLen-1
	default:
		return 0 // guard symbol between subslots
	}
	return m.dibitSymbol(m.burst.UlControl[sub][:], local, UlControlBurstBits/2)
}

func euclidMod64(a, b int64) int64 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
