package l1

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// RadioIO is the collaborator L1 pulls radio-rate sub-blocks from and
// pushes transmit sub-blocks to. It is implemented by internal/radio;
// L1 never constructs one itself, matching spec.md §1's "RadioIO ...
// named interfaces only, not implemented here" for the DSP core.
type RadioIO interface {
	// Process exchanges one sub-block: it reads len(tx) samples worth
	// of radio time into rx (which L1 has sized to the sub-block
	// length) and writes tx out, returning the absolute start time of
	// the sub-block it just read/wrote. A transient or fatal error is
	// classified with IsTransient/IsFatal.
	Process(rx []complex64, tx []complex64) (subBlockStart int64, err error)

	Close() error
}

// GainSetter is an optional capability a RadioIO backend can implement
// to act on a per-carrier gain request from L1TxCommands/L1RxCommands
// (SPEC_FULL.md §3 [ADD]). carrierIndex matches the order carriers
// were added to L1Dsp; tx is true for a TX carrier's request, false
// for an RX carrier's. Backends with no gain control of their own
// (e.g. the file backend) simply don't implement this.
type GainSetter interface {
	SetGain(carrierIndex int, tx bool, gainDb float64) error
}

// Retuner is an optional capability a RadioIO backend can implement to
// move the RF front end itself in response to a RetuneHz request,
// distinct from the DSP-level mixer retune CicDdc/CicDuc.Retune always
// perform (SPEC_FULL.md §3 [ADD]). A backend with a single shared VFO
// for every carrier (e.g. Live's rig control) only makes sense to
// retune once per Process call, so applyRetuneCommands forwards the
// first non-zero request it finds rather than one per carrier.
type Retuner interface {
	Retune(hz float64) error
}

// L1 is the top-level façade described in §6: it owns a RadioIO
// backend and an L1Dsp, derives PTT state from the DSP core's carrier
// activity, and classifies RadioIO errors per the taxonomy in §7.
type L1 struct {
	radio RadioIO
	dsp   *L1Dsp
	log   *log.Logger

	rxBuf []complex64
	txBuf []complex64

	ptt bool
}

// New constructs an L1 over the given RadioIO backend and DSP core,
// with sub-blocks of subBlockLen radio-rate samples. logger may be nil,
// in which case a default logger writing to stderr is used. Unlike the
// DSP core and backend, callbacks are not fixed at construction: §6's
// C ABI passes a fresh L1Callbacks into every l1_process call, so
// Process takes one too.
func New(radio RadioIO, dsp *L1Dsp, subBlockLen int, logger *log.Logger) *L1 {
	if radio == nil {
		panic("l1: RadioIO must not be nil")
	}
	if dsp == nil {
		panic("l1: L1Dsp must not be nil")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &L1{
		radio: radio,
		dsp:   dsp,
		log:   logger,
		rxBuf: make([]complex64, subBlockLen),
		txBuf: make([]complex64, subBlockLen),
	}
}

// PTT reports whether any TX carrier is currently transmitting a
// burst, derived fresh after every Process call.
func (l *L1) PTT() bool { return l.ptt }

// Process drives exactly one radio/modem sub-block through the DSP
// core using cb's callbacks (§5: blocking confined to RadioIO.Process,
// nothing else in this loop spawns or blocks). A transient RadioIO
// error is logged and the sub-block dropped; a fatal one is wrapped
// and returned so the caller can tear the stream down (§7).
func (l *L1) Process(cb L1Callbacks) error {
	var txCmds []L1TxCommands
	if cb.TxCmd != nil {
		txCmds = cb.TxCmd()
	}
	var rxCmds []L1RxCommands
	if cb.RxCmd != nil {
		rxCmds = cb.RxCmd()
	}

	l.applyGainCommands(txCmds, rxCmds)
	l.applyRetuneCommands(txCmds, rxCmds)

	// radio.Process exchanges one sub-block: it hands back freshly
	// received samples in rxBuf and transmits whatever txBuf held from
	// the previous call. dsp.Process below then both consumes the new
	// rxBuf and refills txBuf for transmission on the *next* call,
	// so the TX side runs exactly one sub-block behind the RX side,
	// the same pipeline latency a live audio/SDR backend imposes.
	subBlockStart, err := l.radio.Process(l.rxBuf, l.txBuf)
	if err != nil {
		if IsTransient(err) {
			l.log.Warn("dropping sub-block after transient radio i/o error", "err", err)
			return nil
		}
		return fmt.Errorf("l1: fatal radio i/o error: %w", err)
	}

	l.dsp.Process(subBlockStart, l.rxBuf, rxCmds, cb.RxBurst, txCmds, cb.TxBurst, l.txBuf)

	active := false
	for _, c := range l.dsp.tx {
		if c.Active() {
			active = true
			break
		}
	}
	if active != l.ptt {
		l.log.Debug("ptt state changed", "active", active)
	}
	l.ptt = active

	return nil
}

// applyGainCommands forwards any non-zero GainDb request to the radio
// backend, if it implements GainSetter; backends that don't are simply
// skipped (§3 [ADD]).
func (l *L1) applyGainCommands(txCmds []L1TxCommands, rxCmds []L1RxCommands) {
	gs, ok := l.radio.(GainSetter)
	if !ok {
		return
	}
	for i, cmd := range txCmds {
		if cmd.GainDb == 0 {
			continue
		}
		if err := gs.SetGain(i, true, cmd.GainDb); err != nil {
			l.log.Warn("failed to set tx gain", "carrier", i, "err", err)
		}
	}
	for i, cmd := range rxCmds {
		if cmd.GainDb == 0 {
			continue
		}
		if err := gs.SetGain(i, false, cmd.GainDb); err != nil {
			l.log.Warn("failed to set rx gain", "carrier", i, "err", err)
		}
	}
}

// applyRetuneCommands forwards the first non-zero RetuneHz request
// found (TX carriers checked before RX) to the radio backend's RF-level
// Retune, if it implements Retuner. The DSP-level mixer retune in
// TxCarrier/RxCarrier.Process happens unconditionally regardless of
// whether a Retuner backend exists (§3 [ADD]).
func (l *L1) applyRetuneCommands(txCmds []L1TxCommands, rxCmds []L1RxCommands) {
	rt, ok := l.radio.(Retuner)
	if !ok {
		return
	}
	for i, cmd := range txCmds {
		if cmd.RetuneHz == 0 {
			continue
		}
		if err := rt.Retune(cmd.RetuneHz); err != nil {
			l.log.Warn("failed to retune rf front end", "carrier", i, "tx", true, "err", err)
		}
		return
	}
	for i, cmd := range rxCmds {
		if cmd.RetuneHz == 0 {
			continue
		}
		if err := rt.Retune(cmd.RetuneHz); err != nil {
			l.log.Warn("failed to retune rf front end", "carrier", i, "tx", false, "err", err)
		}
		return
	}
}

// Close releases the underlying RadioIO backend.
func (l *L1) Close() error { return l.radio.Close() }
