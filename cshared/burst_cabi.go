// Package main: this file holds the C-layout struct definitions and
// conversion helpers for threading an L1Callbacks value across the C
// ABI into l1_process, per spec.md §6's L1Callbacks description
// (SPEC_FULL.md §6 [ADD]). Nothing here is exported Go API; main.go's
// l1_process is the only caller.
package main

/*
#include "mtetra_abi.h"
*/
import "C"

import (
	"unsafe"

	"github.com/tejeez/mtetra/internal/l1"
)

// copyBitsFromC copies a C uint8_t[n] bit array (one bit per byte) into
// a Go []byte of the same length.
func copyBitsFromC(dst []byte, src *C.uint8_t, n int) {
	s := unsafe.Slice((*byte)(unsafe.Pointer(src)), n)
	copy(dst, s)
}

// copyBitsToC is the inverse of copyBitsFromC.
func copyBitsToC(dst *C.uint8_t, src []byte) {
	d := unsafe.Slice((*byte)(unsafe.Pointer(dst)), len(src))
	copy(d, src)
}

// goTxCommandsFromC converts one polled TX command slot from its
// C layout into l1.L1TxCommands.
func goTxCommandsFromC(c *C.mtetra_tx_commands_t) l1.L1TxCommands {
	return l1.L1TxCommands{
		Enabled:     c.enabled != 0,
		GainDb:      float64(c.gain_db),
		RetuneHz:    float64(c.retune_hz),
		KeyupMargin: int64(c.keyup_margin_ns),
	}
}

func goRxCommandsFromC(c *C.mtetra_rx_commands_t) l1.L1RxCommands {
	return l1.L1RxCommands{
		Enabled:      c.enabled != 0,
		GainDb:       float64(c.gain_db),
		RetuneHz:     float64(c.retune_hz),
		RealignSlots: int32(c.realign_slots),
	}
}

// goRxBurstToC converts a Go l1.RxBurst into its C representation for a
// C caller's rx_burst hook.
func goRxBurstToC(dst *C.mtetra_rx_burst_t, b *l1.RxBurst) {
	dst.kind = C.uint8_t(b.Kind)
	dst.info.timestamp = C.int64_t(b.Info.Timestamp)
	dst.info.rssi = C.float(b.Info.RSSI)
	dst.info.cfo = C.float(b.Info.CFO)
	copyBitsToC(&dst.dl[0], b.Dl.Bits[:])
	copyBitsToC(&dst.ul_normal[0], b.UlNormal.Bits[:])
	copyBitsToC(&dst.dmo[0], b.Dmo.Bits[:])
	for i := range b.Subslots {
		dst.subslot_kind[i] = C.uint8_t(b.Subslots[i].Kind)
		copyBitsToC(&dst.subslot_ul_control[i][0], b.Subslots[i].UlControl.Bits[:])
	}
}

// goCallbacksFromC builds an l1.L1Callbacks backed by cbs's C function
// pointers: every TX/RX carrier shares the same Go closure (matching
// internal/l1's carrier-agnostic TxBurstCallback/RxBurstCallback, §6),
// which in turn calls the appropriate mtetra_call_* trampoline once per
// invocation. carrier_index is always 0 on the wire today since
// internal/l1 does not thread a carrier identity through its own
// callback signature (see DESIGN.md); num_tx_carriers/num_rx_carriers
// size the polled tx_cmd/rx_cmd slices.
func goCallbacksFromC(cbs C.mtetra_l1_callbacks_t) l1.L1Callbacks {
	return l1.L1Callbacks{
		TxBurst: func(slot l1.SlotNumber, slotTimeNs int64, burst *l1.TxBurst) {
			if cbs.tx_burst == nil {
				return
			}
			var cBurst C.mtetra_tx_burst_t
			C.mtetra_call_tx_burst(cbs.tx_burst, cbs.userdata, 0, C.int32_t(slot.ToInt()), C.int64_t(slotTimeNs), &cBurst)
			burst.Kind = l1.TxBurstKind(cBurst.kind)
			copyBitsFromC(burst.Dl[:], &cBurst.dl[0], len(burst.Dl))
			copyBitsFromC(burst.Dmo[:], &cBurst.dmo[0], len(burst.Dmo))
			copyBitsFromC(burst.UlNormal[:], &cBurst.ul_normal[0], len(burst.UlNormal))
			copyBitsFromC(burst.UlControl[0][:], &cBurst.ul_control[0][0], len(burst.UlControl[0]))
			copyBitsFromC(burst.UlControl[1][:], &cBurst.ul_control[1][0], len(burst.UlControl[1]))
		},
		RxBurst: func(slot l1.SlotNumber, slotTimeNs int64, burst *l1.RxBurst) {
			if cbs.rx_burst == nil {
				return
			}
			var cBurst C.mtetra_rx_burst_t
			goRxBurstToC(&cBurst, burst)
			C.mtetra_call_rx_burst(cbs.rx_burst, cbs.userdata, 0, C.int32_t(slot.ToInt()), C.int64_t(slotTimeNs), &cBurst)
		},
		TxCmd: func() []l1.L1TxCommands {
			n := int(cbs.num_tx_carriers)
			cmds := make([]l1.L1TxCommands, n)
			if cbs.tx_cmd == nil {
				return cmds
			}
			for i := 0; i < n; i++ {
				var c C.mtetra_tx_commands_t
				C.mtetra_call_tx_cmd(cbs.tx_cmd, cbs.userdata, C.int32_t(i), &c)
				cmds[i] = goTxCommandsFromC(&c)
			}
			return cmds
		},
		RxCmd: func() []l1.L1RxCommands {
			n := int(cbs.num_rx_carriers)
			cmds := make([]l1.L1RxCommands, n)
			if cbs.rx_cmd == nil {
				return cmds
			}
			for i := 0; i < n; i++ {
				var c C.mtetra_rx_commands_t
				C.mtetra_call_rx_cmd(cbs.rx_cmd, cbs.userdata, C.int32_t(i), &c)
				cmds[i] = goRxCommandsFromC(&c)
			}
			return cmds
		},
	}
}
