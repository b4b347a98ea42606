package l1

import "errors"

// Sentinel stream errors classify RadioIO failures reported up through
// L1.Process (§5, §7). Timeout, underflow, overflow, time discontinuity
// and stream corruption are all transient: the backend logs them and
// drops the current sub-block, and the stream otherwise keeps running.
// Only a backend failure outside this named set (device disconnected,
// permission denied, or anything else the backend cannot recover from
// on its own) is fatal and tears the stream down.
var (
	// ErrTimeout indicates a read/write did not complete within the
	// backend's own deadline. Transient.
	ErrTimeout = errors.New("l1: radio i/o timeout")

	// ErrUnderflow indicates the backend could not supply a full
	// sub-block of samples in time (e.g. a live audio/SDR backend
	// starved by the OS scheduler). Transient.
	ErrUnderflow = errors.New("l1: radio i/o underflow")

	// ErrOverflow indicates incoming samples were dropped because the
	// backend's buffer filled faster than Process drained it.
	// Transient.
	ErrOverflow = errors.New("l1: radio i/o overflow")

	// ErrTimeError indicates the backend's timestamp went backwards or
	// jumped by an implausible amount. Transient: the affected
	// sub-block is dropped and slot timing resynchronizes from the
	// next one.
	ErrTimeError = errors.New("l1: radio i/o time discontinuity")

	// ErrCorruption indicates the backend returned malformed data (a
	// truncated file record, an impossible sample count). Transient:
	// the malformed sub-block is dropped.
	ErrCorruption = errors.New("l1: radio i/o corrupted stream")

	// ErrDeviceGone is the fatal category spec.md leaves unnamed: a
	// device disconnection, a permission failure, or any other backend
	// condition that dropping a sub-block cannot recover from.
	ErrDeviceGone = errors.New("l1: radio i/o device unavailable")
)

// IsTransient reports whether err should be logged and the current
// sub-block dropped, leaving the stream otherwise running, as opposed
// to propagating and tearing the stream down (§5, §7).
func IsTransient(err error) bool {
	return errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrUnderflow) ||
		errors.Is(err, ErrOverflow) ||
		errors.Is(err, ErrTimeError) ||
		errors.Is(err, ErrCorruption)
}

// IsFatal reports whether err must propagate out of L1.Process and
// terminate the stream (§7). Anything that isn't transient is fatal,
// whether or not it happens to be ErrDeviceGone specifically.
func IsFatal(err error) bool {
	return err != nil && !IsTransient(err)
}
