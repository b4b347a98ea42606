package l1

// dqpskConstellation maps an 8-valued phase (multiples of pi/4) to a
// unit-magnitude complex constellation point. Generated with:
//
//	import numpy as np
//	np.exp(1j*np.linspace(0, np.pi*2, 8, endpoint=False))
var dqpskConstellation = [8]complex64{
	complex64(complex(1.000000, 0.000000)),
	complex64(complex(0.707107, 0.707107)),
	complex64(complex(0.000000, 1.000000)),
	complex64(complex(-0.707107, 0.707107)),
	complex64(complex(-1.000000, 0.000000)),
	complex64(complex(-0.707107, -0.707107)),
	complex64(complex(-0.000000, -1.000000)),
	complex64(complex(0.707107, -0.707107)),
}

// dqpskDelta maps a dibit (bit0, bit1) to a phase increment in
// multiples of pi/4 (§4.4).
func dqpskDelta(bit0, bit1 bool) int8 {
	switch {
	case bit0 && bit1:
		return -3
	case bit0 && !bit1:
		return -1
	case !bit0 && !bit1:
		return 1
	default: // !bit0 && bit1
		return 3
	}
}

// DqpskMapper implements differential pi/4-QPSK: each dibit advances a
// phase accumulator, which indexes a constellation look-up table.
// Consecutive symbols never coincide because the phase delta is always
// odd.
type DqpskMapper struct {
	phase int8 // 0..7
}

// NewDqpskMapper returns a mapper with phase initialized to 0.
func NewDqpskMapper() *DqpskMapper {
	return &DqpskMapper{}
}

// ResetPhase sets the phase accumulator back to 0.
func (m *DqpskMapper) ResetPhase() { m.phase = 0 }

// Symbol advances the phase by the dibit's delta and returns the
// corresponding constellation point.
func (m *DqpskMapper) Symbol(bit0, bit1 bool) complex64 {
	m.phase = (m.phase + dqpskDelta(bit0, bit1)) & 7
	return dqpskConstellation[m.phase]
}
