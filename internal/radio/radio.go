// Package radio implements the RadioIO backends referenced but left
// unimplemented by the L1 DSP core: a file-backed backend for offline
// testing/capture, and a live backend driving real hardware.
package radio

import (
	"encoding/binary"
	"fmt"
	"math"
)

// putComplex64 and getComplex64 serialize one sample as two
// little-endian float32s (real, imag), matching the raw host-endian
// dump format the original source uses for its debug capture files.
func putComplex64(buf []byte, v complex64) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(real(v)))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(imag(v)))
}

func getComplex64(buf []byte) complex64 {
	re := math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4]))
	im := math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8]))
	return complex(re, im)
}

const bytesPerSample = 8

// ErrShortRead describes a capture file that ends mid-sample. The file
// backend does not return it: on a short read it rewinds to the start
// of the capture, and any read error that remains is wrapped in
// l1.ErrCorruption.
var ErrShortRead = fmt.Errorf("radio: capture file ended mid-sample")
