package radio

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lestrrat-go/strftime"

	"github.com/tejeez/mtetra/internal/l1"
)

// File is a RadioIO backend that reads RX samples from, and writes TX
// samples to, plain raw I/Q capture files instead of real hardware —
// used for offline testing and for recording/replaying air captures.
// Output file names follow an strftime pattern so a long-running
// capture session rolls onto a new file at RotateEvery intervals,
// mirroring the timestamped debug-capture convention used elsewhere
// in the radio toolchain this project is descended from.
type File struct {
	rxPath string
	txPath *strftime.Strftime

	rx *os.File

	rotateEvery time.Duration
	lastRotate  time.Time
	tx          *os.File

	sampleRate  int64 // samples/second, used to turn a sub-block length into elapsed ns
	subBlockLen int

	t   int64
	buf []byte
}

// NewFile opens rxPath for reading (raw complex64 samples, looping at
// EOF) and prepares to write TX sub-blocks to files named by the
// txPattern strftime pattern, rotated every rotateEvery. rxPath may be
// empty to run TX-only (RX samples are all zero).
func NewFile(rxPath, txPattern string, rotateEvery time.Duration, sampleRate, subBlockLen int) (*File, error) {
	f := &File{
		rxPath:      rxPath,
		rotateEvery: rotateEvery,
		sampleRate:  int64(sampleRate),
		subBlockLen: subBlockLen,
		buf:         make([]byte, subBlockLen*bytesPerSample),
	}

	if rxPath != "" {
		rx, err := os.Open(rxPath)
		if err != nil {
			return nil, fmt.Errorf("radio: opening rx capture: %w", err)
		}
		f.rx = rx
	}

	if txPattern != "" {
		pattern, err := strftime.New(txPattern)
		if err != nil {
			return nil, fmt.Errorf("radio: parsing tx filename pattern: %w", err)
		}
		f.txPath = pattern
	}

	return f, nil
}

// Process implements l1.RadioIO: it reads one sub-block of samples
// from rx (looping back to the start of the file at EOF) and appends
// the tx sub-block to the current rotating output file.
func (f *File) Process(rx []complex64, tx []complex64) (int64, error) {
	start := f.t
	f.t += int64(len(tx)) * 1_000_000_000 / f.sampleRate

	if f.rx != nil {
		if err := f.readInto(rx); err != nil {
			return 0, fmt.Errorf("%w: %v", l1.ErrCorruption, err)
		}
	} else {
		for i := range rx {
			rx[i] = 0
		}
	}

	if f.txPath != nil {
		if err := f.writeFrom(tx); err != nil {
			return 0, fmt.Errorf("%w: %v", l1.ErrTimeout, err)
		}
	}

	return start, nil
}

func (f *File) readInto(rx []complex64) error {
	need := len(rx) * bytesPerSample
	buf := f.buf[:need]
	n, err := io.ReadFull(f.rx, buf)
	if err == io.ErrUnexpectedEOF || (err == io.EOF && n == 0) {
		if _, seekErr := f.rx.Seek(0, io.SeekStart); seekErr != nil {
			return seekErr
		}
		n, err = io.ReadFull(f.rx, buf)
	}
	if err != nil {
		return err
	}
	for i := range rx {
		rx[i] = getComplex64(buf[i*bytesPerSample:])
	}
	return nil
}

func (f *File) writeFrom(tx []complex64) error {
	now := time.Now()
	if f.tx == nil || now.Sub(f.lastRotate) >= f.rotateEvery {
		if f.tx != nil {
			f.tx.Close()
		}
		name := f.txPath.FormatString(now)
		fh, err := os.Create(name)
		if err != nil {
			return fmt.Errorf("rotating capture file: %w", err)
		}
		f.tx = fh
		f.lastRotate = now
	}

	need := len(tx) * bytesPerSample
	buf := f.buf[:need]
	for i, v := range tx {
		putComplex64(buf[i*bytesPerSample:], v)
	}
	_, err := f.tx.Write(buf)
	return err
}

// Close releases the underlying files.
func (f *File) Close() error {
	var firstErr error
	if f.rx != nil {
		if err := f.rx.Close(); err != nil {
			firstErr = err
		}
	}
	if f.tx != nil {
		if err := f.tx.Close(); firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
