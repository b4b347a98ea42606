package l1

// Bit-array payload sizes per burst class (§3, §6).
const (
	DlBurstBits         = 510
	UlNormalBurstBits   = 462
	UlControlBurstBits  = 206
	DmoBurstBits        = 470
)

// RxBurstInfo carries per-burst receive metadata. RSSI and CFO remain
// zero in this implementation since their estimators are out of scope
// (spec.md §1, §4.8): the fields exist so the callback contract is
// already shaped for when a demodulator is added.
type RxBurstInfo struct {
	Timestamp int64
	RSSI      float32
	CFO       float32
}

type RxDlBurst struct {
	Info RxBurstInfo
	Bits [DlBurstBits]byte
}

type RxUlNormalBurst struct {
	Info RxBurstInfo
	Bits [UlNormalBurstBits]byte
}

type RxUlControlBurst struct {
	Info RxBurstInfo
	Bits [UlControlBurstBits]byte
}

type RxDmoBurst struct {
	Info RxBurstInfo
	Bits [DmoBurstBits]byte
}

// RxSubslotKind tags which variant an RxSubslotBurst holds.
type RxSubslotKind uint8

const (
	RxSubslotNone RxSubslotKind = iota
	RxSubslotUlControl
)

// RxSubslotBurst is a tagged union: either no burst, or a control
// up-link burst, detected within one of a slot's two subslots.
type RxSubslotBurst struct {
	Kind      RxSubslotKind
	UlControl RxUlControlBurst
}

// RxBurstKind tags which variant an RxBurst holds.
type RxBurstKind uint8

const (
	RxBurstNone RxBurstKind = iota
	RxBurstDlNormal1
	RxBurstDlNormal2
	RxBurstDlSync
	RxBurstUlNormal
	RxBurstSubslots
	RxBurstDmoNormal1
	RxBurstDmoNormal2
	RxBurstDmoSync
)

// RxBurst is the tagged union passed to the rx_burst callback once per
// slot per carrier (§6). Exactly one of the payload fields is valid,
// selected by Kind; this mirrors the "discriminator + largest payload"
// C-ABI layout described in §9 at the idiomatic-Go layer (the cshared
// package does the C-layout translation at the ABI boundary).
type RxBurst struct {
	Kind RxBurstKind

	// Info carries timing (and, once a demodulator exists, RSSI/CFO)
	// for the slot boundary itself, valid regardless of Kind -- in
	// particular when Kind is None, the per-variant Info fields below
	// are not populated (§4.8).
	Info RxBurstInfo

	Dl       RxDlBurst
	UlNormal RxUlNormalBurst
	Subslots [2]RxSubslotBurst
	Dmo      RxDmoBurst
}

// TxBurstKind tags which variant a TxBurst holds.
type TxBurstKind uint8

const (
	TxBurstNone TxBurstKind = iota
	TxBurstDl
	TxBurstDmo
	TxBurstUlNormal
	TxBurstUlControl
)

// TxBurst is the tagged union filled in by the tx_burst callback once
// per slot per carrier (§6, §4.9). As with RxBurst, exactly one payload
// field is meaningful, selected by Kind.
type TxBurst struct {
	Kind       TxBurstKind
	Dl         [DlBurstBits]byte
	Dmo        [DmoBurstBits]byte
	UlNormal   [UlNormalBurstBits]byte
	UlControl  [2][UlControlBurstBits]byte
}
