package l1

// L1TxCommands carries per-carrier transmit control, polled once per
// L1Dsp.Process call per TX carrier, before sub-block processing
// (§6, SPEC_FULL.md §3 [ADD]).
type L1TxCommands struct {
	Enabled     bool    // carrier should transmit at all
	GainDb      float64 // requested TX gain, forwarded to rig control
	RetuneHz    float64 // non-zero requests a center frequency change
	KeyupMargin int64   // ns of early PTT assertion before first burst
}

// L1RxCommands carries per-carrier receive control, polled once per
// L1Dsp.Process call per RX carrier, before sub-block processing
// (§6, §4.8, SPEC_FULL.md §3 [ADD]).
type L1RxCommands struct {
	Enabled      bool
	GainDb       float64
	RetuneHz     float64
	RealignSlots int32 // requests the RX slot tracker to shift by N slots
}

// L1Callbacks bundles the upper layer's hooks into one L1.Process call:
// tx_burst/rx_burst for burst exchange, and tx_cmd/rx_cmd for polling
// per-carrier control state (§6).
type L1Callbacks struct {
	TxBurst TxBurstCallback
	RxBurst RxBurstCallback

	// TxCmd/RxCmd are polled once per Process call and must return a
	// slice with one entry per TX/RX carrier, in the order the
	// carriers were added to L1Dsp.
	TxCmd func() []L1TxCommands
	RxCmd func() []L1RxCommands
}
