// Package main builds a C shared library exposing the stable ABI
// named in §6: l1_init, l1_free, l1_process. This is the only place
// fixed C-layout structs and runtime/cgo.Handle-based opaque pointers
// appear; internal/l1 never deals in C types (SPEC_FULL.md §6 [ADD]).
package main

/*
#include "mtetra_abi.h"
*/
import "C"

import (
	"runtime/cgo"

	"github.com/charmbracelet/log"

	"github.com/tejeez/mtetra/internal/bootstrap"
)

// l1_init loads configPath, builds the DSP core and its RadioIO
// backend, and returns an opaque handle for use with l1_process and
// l1_free. It returns 0 on failure (a nil handle is never valid, so a
// C caller can check for it directly).
//
//export l1_init
func l1_init(configPath *C.char) C.uintptr_t {
	defer recoverToZero("l1_init")

	built, err := bootstrap.Build(C.GoString(configPath), log.Default())
	if err != nil {
		log.Error("l1_init failed", "err", err)
		return 0
	}
	return C.uintptr_t(cgo.NewHandle(built))
}

// l1_free releases everything associated with a handle returned by
// l1_init. Calling it twice on the same handle, or with a handle not
// returned by l1_init, is a programmer error and panics inside Go
// before being turned into a no-op here; per §7, a C caller must never
// observe a Go panic.
//
//export l1_free
func l1_free(handlePtr C.uintptr_t) {
	defer recoverToZero("l1_free")

	h := cgo.Handle(handlePtr)
	built := h.Value().(*bootstrap.Built)
	built.Core.Close()
	h.Delete()
}

// l1_process runs one sub-block through the DSP core, using cbs to
// exchange bursts and poll per-carrier control state (§6's
// `int l1_process(L1*, L1Callbacks)`). It returns 0 on success, -1 on a
// fatal RadioIO error (§7), and -2 if the Go side panicked (a
// programmer error that must not cross the C ABI as an actual panic).
//
//export l1_process
func l1_process(handlePtr C.uintptr_t, cbs C.mtetra_l1_callbacks_t) (result C.int32_t) {
	result = -2
	defer func() {
		if r := recover(); r != nil {
			log.Error("l1_process panicked", "recovered", r)
		}
	}()

	h := cgo.Handle(handlePtr)
	built := h.Value().(*bootstrap.Built)
	if err := built.Core.Process(goCallbacksFromC(cbs)); err != nil {
		return -1
	}
	result = 0
	return result
}

// recoverToZero logs and swallows a panic from the named entrypoint,
// matching §7's requirement that programmer errors panic inside the
// Go core but never cross the C ABI.
func recoverToZero(where string) {
	if r := recover(); r != nil {
		log.Error("panic recovered at cshared boundary", "where", where, "recovered", r)
	}
}

func main() {} // required by -buildmode=c-shared, never actually runs
