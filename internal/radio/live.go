package radio

import (
	"fmt"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/warthog618/go-gpiocdev"
	hamlib "github.com/xylo04/goHamlib"

	"github.com/tejeez/mtetra/internal/l1"
)

// Live is a RadioIO backend driving real hardware: a sound-card-style
// sample stream standing in for the SDR front end (no SoapySDR Go
// binding exists in this stack, so a full-duplex audio interface at
// the radio's I/Q sample rate plays that role — see DESIGN.md), a GPIO
// line for PTT keying, and an optional rig-control collaborator for
// frequency and gain-level commands.
type Live struct {
	stream *portaudio.Stream
	ptt    *gpiocdev.Line
	rig    *hamlib.Rig

	rxRing chan []complex64
	txRing chan []complex64

	subBlockLen int
	sampleRate  int64
	t           int64
}

// LiveConfig names the hardware Live should open.
type LiveConfig struct {
	Device      string // portaudio device name, "" for default
	PTTChip     string // gpiocdev chip name, e.g. "gpiochip0"
	PTTLine     int
	PTTInvert   bool
	RigModel    int // hamlib rig model number, 0 disables rig control
	RigDevice   string
	SubBlockLen int
	SampleRate  int
}

// NewLive opens the sound interface, PTT line, and (if RigModel != 0)
// rig control described by cfg.
func NewLive(cfg LiveConfig) (*Live, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("radio: portaudio init: %w", err)
	}

	l := &Live{
		subBlockLen: cfg.SubBlockLen,
		sampleRate:  int64(cfg.SampleRate),
		rxRing:      make(chan []complex64, 4),
		txRing:      make(chan []complex64, 4),
	}

	params, err := liveStreamParams(cfg)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	stream, err := portaudio.OpenStream(params, l.audioCallback)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("radio: opening audio stream: %w", err)
	}
	l.stream = stream

	if cfg.PTTChip != "" {
		opts := []gpiocdev.LineReqOption{gpiocdev.AsOutput(0)}
		if cfg.PTTInvert {
			opts = append(opts, gpiocdev.AsActiveLow)
		}
		line, err := gpiocdev.RequestLine(cfg.PTTChip, cfg.PTTLine, opts...)
		if err != nil {
			l.Close()
			return nil, fmt.Errorf("radio: requesting ptt gpio line: %w", err)
		}
		l.ptt = line
	}

	if cfg.RigModel != 0 {
		rig := hamlib.NewRig(cfg.RigModel)
		if err := rig.Open(cfg.RigDevice); err != nil {
			l.Close()
			return nil, fmt.Errorf("radio: opening rig control: %w", err)
		}
		l.rig = rig
	}

	if err := l.stream.Start(); err != nil {
		l.Close()
		return nil, fmt.Errorf("radio: starting audio stream: %w", err)
	}

	return l, nil
}

// liveStreamParams builds full-duplex stereo-as-I/Q stream parameters:
// the left channel carries the real part, the right channel the
// imaginary part, at the radio's I/Q sample rate (cfg.SampleRate).
func liveStreamParams(cfg LiveConfig) (portaudio.StreamParameters, error) {
	var dev *portaudio.DeviceInfo
	if cfg.Device == "" {
		d, err := portaudio.DefaultInputDevice()
		if err != nil {
			return portaudio.StreamParameters{}, fmt.Errorf("radio: no default audio device: %w", err)
		}
		dev = d
	} else {
		devices, err := portaudio.Devices()
		if err != nil {
			return portaudio.StreamParameters{}, err
		}
		for _, d := range devices {
			if d.Name == cfg.Device {
				dev = d
				break
			}
		}
		if dev == nil {
			return portaudio.StreamParameters{}, fmt.Errorf("radio: audio device %q not found", cfg.Device)
		}
	}

	params := portaudio.LowLatencyParameters(dev, dev)
	params.Input.Channels = 2
	params.Output.Channels = 2
	params.SampleRate = float64(cfg.SampleRate)
	params.FramesPerBuffer = cfg.SubBlockLen
	return params, nil
}

// audioCallback is portaudio's real-time callback: in is interleaved
// stereo float32 (re, im), out likewise.
func (l *Live) audioCallback(in, out []float32) {
	rx := make([]complex64, len(in)/2)
	for i := range rx {
		rx[i] = complex(in[2*i], in[2*i+1])
	}
	select {
	case l.rxRing <- rx:
	default: // drop on overflow; Process does not detect or report this drop
	}

	select {
	case tx := <-l.txRing:
		for i, v := range tx {
			if 2*i+1 < len(out) {
				out[2*i] = real(v)
				out[2*i+1] = imag(v)
			}
		}
	default:
		for i := range out {
			out[i] = 0
		}
	}
}

// Process implements l1.RadioIO.
func (l *Live) Process(rx []complex64, tx []complex64) (int64, error) {
	start := l.t
	l.t += int64(len(tx)) * 1_000_000_000 / l.sampleRate

	select {
	case block := <-l.rxRing:
		copy(rx, block)
	case <-time.After(200 * time.Millisecond):
		return 0, fmt.Errorf("%w: no audio samples from live device", l1.ErrUnderflow)
	}

	select {
	case l.txRing <- append([]complex64(nil), tx...):
	default:
		return 0, fmt.Errorf("%w: live output ring full", l1.ErrOverflow)
	}

	return start, nil
}

// SetPTT keys or dekeys the PTT line, reflecting L1.PTT().
func (l *Live) SetPTT(active bool) error {
	if l.ptt == nil {
		return nil
	}
	v := 0
	if active {
		v = 1
	}
	return l.ptt.SetValue(v)
}

// Retune asks the rig control collaborator to change frequency, if one
// is configured (driven by polled L1TxCommands/L1RxCommands.RetuneHz).
// It implements l1.Retuner.
func (l *Live) Retune(hz float64) error {
	if l.rig == nil {
		return nil
	}
	return l.rig.SetFreq(hamlib.VFOCurrent, hz)
}

// SetGain asks the rig control collaborator to change TX drive or RX
// gain, if one is configured (driven by polled
// L1TxCommands/L1RxCommands.GainDb). It implements l1.GainSetter.
// carrierIndex is unused: like Retune, gain is a single rig-wide level
// on this backend, not per multiplexed carrier.
func (l *Live) SetGain(carrierIndex int, tx bool, gainDb float64) error {
	if l.rig == nil {
		return nil
	}
	level := hamlib.LevelAF
	if tx {
		level = hamlib.LevelRF
	}
	return l.rig.SetLevel(hamlib.VFOCurrent, level, gainDb)
}

// Close releases the audio stream, PTT line, and rig handle.
func (l *Live) Close() error {
	var firstErr error
	if l.stream != nil {
		if err := l.stream.Close(); err != nil {
			firstErr = err
		}
		portaudio.Terminate()
	}
	if l.ptt != nil {
		if err := l.ptt.Close(); firstErr == nil {
			firstErr = err
		}
	}
	if l.rig != nil {
		if err := l.rig.Close(); firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
