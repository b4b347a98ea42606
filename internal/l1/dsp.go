package l1

// DspCommon holds the resources shared read-only by every carrier
// owned by one L1Dsp: the sine table (one per radio sample rate /
// channel spacing pair), the fixed decimation/interpolation ratio
// between radio rate and modem rate, and the matched/pulse-shaping
// tap tables (§3: "shared immutable tables").
type DspCommon struct {
	sine      *SineTable
	cicFactor int

	// channelSpacing converts a requested RetuneHz into channel-spacing
	// units for CicDdc.Retune/CicDuc.Retune (§4.8, §4.9).
	channelSpacing float64

	txTaps *SymmetricRealTaps
	rxTaps *SymmetricRealTaps
}

// NewDspCommon builds the shared DSP resources for a radio running at
// `radioFs` Hz with `channelSpacing` Hz between adjacent carriers.
// cicFactor is radioFs / (SymbolRate*SPS), the DDC/DUC decimation
// ratio between the radio sample rate and the 72 kHz modem rate.
// halftaps is the centre-outwards half of the symmetric channel
// filter, shared by both TX pulse shaping and RX matched filtering
// (§4.5 TX paragraph, §4.8 RX paragraph).
func NewDspCommon(radioFs, channelSpacing float64, cicFactor int, halftaps []float32) *DspCommon {
	taps := ConvertSymmetricRealTaps(halftaps)
	return &DspCommon{
		sine:           NewSineTableFreq(radioFs, channelSpacing),
		cicFactor:      cicFactor,
		channelSpacing: channelSpacing,
		txTaps:         taps,
		rxTaps:         taps,
	}
}

// L1Dsp owns the shared DspCommon, a preallocated integer scratch
// buffer sized to one radio-rate sub-block (never reallocated per
// call — allocating per sub-block would put GC pressure on the
// streaming hot path, per §3's design note), and the lists of
// transmit and receive carriers multiplexed onto one radio.
type L1Dsp struct {
	common *DspCommon

	tx []*TxCarrier
	rx []*RxCarrier

	// scratch holds one sub-block's worth of radio-rate samples;
	// reused across carriers and across Process calls.
	scratch []iq64
}

// NewL1Dsp constructs an L1Dsp for the given shared resources, with
// scratch sized for a sub-block of `subBlockLen` radio-rate samples
// (typically cicFactor * SPS, one modem sample period's worth of
// radio samples per modem sample in the sub-block).
func NewL1Dsp(common *DspCommon, subBlockLen int) *L1Dsp {
	return &L1Dsp{
		common:  common,
		scratch: make([]iq64, subBlockLen),
	}
}

// AddTxCarrier appends a new TxCarrier mixing at freqOffset channel
// spacing units, sized for numCarriers total carriers, and returns it
// so the caller can wire SetAnchor / tx_cmd handling.
func (d *L1Dsp) AddTxCarrier(freqOffset, numCarriers, cicStages int) *TxCarrier {
	c := NewTxCarrier(d.common, freqOffset, numCarriers, cicStages)
	d.tx = append(d.tx, c)
	return c
}

// AddRxCarrier appends a new RxCarrier mixing at freqOffset channel
// spacing units and returns it.
func (d *L1Dsp) AddRxCarrier(freqOffset, cicStages int) *RxCarrier {
	c := NewRxCarrier(d.common, freqOffset, cicStages)
	d.rx = append(d.rx, c)
	return c
}

// Process runs one radio-rate sub-block through every carrier (§4.6):
// RX carriers decimate `input` first, one cicFactor-long chunk (one
// modem sample period) per RxCarrier.Process call, with a RealignSlots
// request applied on the first chunk only (a real RadioIO would split a
// larger block into cicFactor*SPS-sized sub-blocks and call Process
// once per sub-block), then every TX carrier's interpolated output is
// summed into `output`, which must already be sized to subBlockLen and
// is zeroed here before the first carrier accumulates into it.
func (d *L1Dsp) Process(subBlockStart int64, input []complex64, rxCmds []L1RxCommands, rx RxBurstCallback, txCmds []L1TxCommands, tx TxBurstCallback, output []complex64) {
	for k := range d.scratch {
		d.scratch[k] = iq64{}
	}

	if len(input) > 0 {
		cf32ToBuf(input, d.scratch, 1.0)
		ratio := d.common.cicFactor
		for i, carrier := range d.rx {
			var cmd L1RxCommands
			if i < len(rxCmds) {
				cmd = rxCmds[i]
			}
			if !cmd.Enabled {
				continue
			}
			for j := 0; j+ratio <= len(d.scratch); j += ratio {
				carrier.Process(subBlockStart+int64(j/ratio)*ModemSampleNS, d.scratch[j:j+ratio], cmd, rx)
				cmd.RealignSlots = 0
			}
		}
	}

	for k := range d.scratch {
		d.scratch[k] = iq64{}
	}
	for i, carrier := range d.tx {
		var cmd L1TxCommands
		if i < len(txCmds) {
			cmd = txCmds[i]
		}
		if cmd.Enabled {
			carrier.Process(subBlockStart, cmd, tx, d.scratch)
		}
	}
	bufToCf32(d.scratch, output, 1.0)
}
