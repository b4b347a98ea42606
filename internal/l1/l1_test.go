package l1

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeRadio is an in-memory RadioIO stub for exercising L1's sub-block
// loop without a real device.
type fakeRadio struct {
	subBlockLen int
	t           int64
	err         error
	closed      bool
}

func (f *fakeRadio) Process(rx []complex64, tx []complex64) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	for i := range rx {
		rx[i] = 0
	}
	start := f.t
	f.t += int64(len(tx)) / SPS * ModemSampleNS
	return start, nil
}

func (f *fakeRadio) Close() error {
	f.closed = true
	return nil
}

func TestL1_TransientErrorIsDroppedNotPropagated(t *testing.T) {
	radio := &fakeRadio{subBlockLen: 16, err: ErrUnderflow}
	dsp := NewL1Dsp(newTestCommon(), 16)
	l := New(radio, dsp, 16, nil)

	err := l.Process(L1Callbacks{})
	assert.NoError(t, err)
}

// Corruption is transient per §7: the sub-block is dropped, not
// propagated, even though the backend reported malformed data.
func TestL1_CorruptionIsTransientAndDropped(t *testing.T) {
	radio := &fakeRadio{subBlockLen: 16, err: ErrCorruption}
	dsp := NewL1Dsp(newTestCommon(), 16)
	l := New(radio, dsp, 16, nil)

	err := l.Process(L1Callbacks{})
	assert.NoError(t, err)
}

func TestL1_FatalErrorPropagates(t *testing.T) {
	radio := &fakeRadio{subBlockLen: 16, err: ErrDeviceGone}
	dsp := NewL1Dsp(newTestCommon(), 16)
	l := New(radio, dsp, 16, nil)

	err := l.Process(L1Callbacks{})
	assert.Error(t, err)
}

func TestL1_PTTFollowsTxCarrierActivity(t *testing.T) {
	radio := &fakeRadio{subBlockLen: 16}
	common := newTestCommon()
	dsp := NewL1Dsp(common, 16)
	dsp.AddTxCarrier(0, 1, 2)

	toggled := false
	cb := L1Callbacks{
		TxCmd: func() []L1TxCommands {
			return []L1TxCommands{{Enabled: true}}
		},
		TxBurst: func(slot SlotNumber, slotTimeNs int64, burst *TxBurst) {
			if !toggled {
				burst.Kind = TxBurstDl
				toggled = true
			} else {
				burst.Kind = TxBurstNone
			}
		},
	}
	l := New(radio, dsp, 16, nil)

	assert.False(t, l.PTT())
	sawTrue := false
	for i := 0; i < 2000; i++ {
		assert.NoError(t, l.Process(cb))
		if l.PTT() {
			sawTrue = true
		}
	}
	assert.True(t, sawTrue, "expected PTT to change state at least once across sub-blocks")
}

// gainSettingRadio records every SetGain call so tests can check L1
// forwards gain commands to a RadioIO backend that implements GainSetter.
type gainSettingRadio struct {
	fakeRadio
	sets []gainSet
}

type gainSet struct {
	carrier int
	tx      bool
	gainDb  float64
}

func (g *gainSettingRadio) SetGain(carrierIndex int, tx bool, gainDb float64) error {
	g.sets = append(g.sets, gainSet{carrierIndex, tx, gainDb})
	return nil
}

func TestL1_ForwardsGainCommandsToGainSetter(t *testing.T) {
	radio := &gainSettingRadio{fakeRadio: fakeRadio{subBlockLen: 16}}
	dsp := NewL1Dsp(newTestCommon(), 16)
	l := New(radio, dsp, 16, nil)

	cb := L1Callbacks{
		TxCmd: func() []L1TxCommands { return []L1TxCommands{{GainDb: 3.5}} },
		RxCmd: func() []L1RxCommands { return []L1RxCommands{{GainDb: 0}, {GainDb: -1.0}} },
	}
	assert.NoError(t, l.Process(cb))

	assert.Len(t, radio.sets, 2)
	assert.Equal(t, gainSet{0, true, 3.5}, radio.sets[0])
	assert.Equal(t, gainSet{1, false, -1.0}, radio.sets[1])
}

// retuningRadio records every Retune call so tests can check L1
// forwards the first non-zero RetuneHz request to a RadioIO backend
// that implements Retuner, and skips a second one in the same call.
type retuningRadio struct {
	fakeRadio
	retunes []float64
}

func (r *retuningRadio) Retune(hz float64) error {
	r.retunes = append(r.retunes, hz)
	return nil
}

func TestL1_ForwardsFirstNonZeroRetuneToRetuner(t *testing.T) {
	radio := &retuningRadio{fakeRadio: fakeRadio{subBlockLen: 16}}
	dsp := NewL1Dsp(newTestCommon(), 16)
	l := New(radio, dsp, 16, nil)

	cb := L1Callbacks{
		TxCmd: func() []L1TxCommands { return []L1TxCommands{{RetuneHz: 0}, {RetuneHz: 12500}} },
		RxCmd: func() []L1RxCommands { return []L1RxCommands{{RetuneHz: 99999}} },
	}
	assert.NoError(t, l.Process(cb))

	assert.Equal(t, []float64{12500}, radio.retunes)
}

func TestL1_NewPanicsOnNilRadioOrDsp(t *testing.T) {
	dsp := NewL1Dsp(newTestCommon(), 16)
	assert.Panics(t, func() { New(nil, dsp, 16, nil) })
	assert.Panics(t, func() { New(&fakeRadio{}, nil, 16, nil) })
}
