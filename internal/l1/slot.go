package l1

import "fmt"

// Number of timeslots per frame, frames per multiframe and multiframes
// per hyperframe.
const (
	TimeslotsPerFrame     = 4
	FramesPerMultiframe   = 18
	MultiframesPerHyper   = 60
	SlotsPerHyperframe    = TimeslotsPerFrame * FramesPerMultiframe * MultiframesPerHyper
)

// SlotNumber identifies a timeslot within the hyperframe structure.
// Timeslot, Frame and Multiframe are all 1-based, matching air-interface
// numbering.
type SlotNumber struct {
	Timeslot   uint8 // 1-4
	Frame      uint8 // 1-18
	Multiframe uint8 // 1-60
}

// NewSlotNumber validates its arguments and constructs a SlotNumber.
// It panics on out-of-range components: malformed slot numbers are a
// programmer error, not a recoverable runtime condition (§7).
func NewSlotNumber(timeslot, frame, multiframe uint8) SlotNumber {
	if timeslot < 1 || timeslot > TimeslotsPerFrame {
		panic(fmt.Sprintf("l1: timeslot %d out of range [1,%d]", timeslot, TimeslotsPerFrame))
	}
	if frame < 1 || frame > FramesPerMultiframe {
		panic(fmt.Sprintf("l1: frame %d out of range [1,%d]", frame, FramesPerMultiframe))
	}
	if multiframe < 1 || multiframe > MultiframesPerHyper {
		panic(fmt.Sprintf("l1: multiframe %d out of range [1,%d]", multiframe, MultiframesPerHyper))
	}
	return SlotNumber{Timeslot: timeslot, Frame: frame, Multiframe: multiframe}
}

// ToInt returns the number of slots since the beginning of the
// hyperframe, in [0, SlotsPerHyperframe).
func (s SlotNumber) ToInt() int32 {
	return int32(s.Timeslot-1) +
		int32(s.Frame-1)*TimeslotsPerFrame +
		int32(s.Multiframe-1)*(TimeslotsPerFrame*FramesPerMultiframe)
}

// euclidMod returns the Euclidean remainder of a/b (always in [0,b)),
// so that negative slot offsets wrap around correctly.
func euclidMod(a, b int32) int32 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func euclidDiv(a, b int32) int32 {
	q := a / b
	if a%b < 0 {
		q--
	}
	return q
}

// SlotFromInt converts a hyperframe-relative slot index (may be negative
// or exceed one hyperframe) to a SlotNumber, wrapping modulo
// SlotsPerHyperframe using Euclidean division.
func SlotFromInt(i int32) SlotNumber {
	return SlotNumber{
		Timeslot:   uint8(euclidMod(i, TimeslotsPerFrame) + 1),
		Frame:      uint8(euclidMod(euclidDiv(i, TimeslotsPerFrame), FramesPerMultiframe) + 1),
		Multiframe: uint8(euclidMod(euclidDiv(i, TimeslotsPerFrame*FramesPerMultiframe), MultiframesPerHyper) + 1),
	}
}

// Plus returns the slot `slots` positions after s, wrapping around the
// hyperframe boundary.
func (s SlotNumber) Plus(slots int32) SlotNumber {
	return SlotFromInt(s.ToInt() + slots)
}

// Minus returns the slot `slots` positions before s.
func (s SlotNumber) Minus(slots int32) SlotNumber {
	return s.Plus(-slots)
}

func (s SlotNumber) String() string {
	return fmt.Sprintf("%d/%d/%d", s.Timeslot, s.Frame, s.Multiframe)
}
