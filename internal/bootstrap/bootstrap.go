// Package bootstrap wires a config.Config into a running l1.L1,
// shared by cmd/mtetrad and the cshared C ABI so the two entrypoints
// never drift out of sync on how carriers/backends are constructed.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tejeez/mtetra/internal/config"
	"github.com/tejeez/mtetra/internal/l1"
	"github.com/tejeez/mtetra/internal/radio"
)

// discoverTimeout bounds how long openRadio waits for a sound device to
// appear via DiscoverSoundDevice when none is pinned in config.
const discoverTimeout = 10 * time.Second

// Built bundles everything Build constructs, so callers can reach the
// underlying RadioIO (e.g. to key PTT on a live backend) without
// reaching back into L1's private state. DefaultCallbacks is driven
// purely from the config file's per-carrier fields (Enabled, GainDb,
// RetuneHz, KeyupMargin) and an always-None/always-silent burst
// exchange; a caller that needs real burst exchange (e.g. cshared,
// threading callbacks through from a C-side MAC layer) builds its own
// l1.L1Callbacks per Process call instead.
type Built struct {
	Core             *l1.L1
	Radio            l1.RadioIO
	DefaultCallbacks l1.L1Callbacks
}

// Build loads configPath and constructs a ready-to-run L1 over the
// configured RadioIO backend.
func Build(configPath string, logger *log.Logger) (*Built, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: loading config: %w", err)
	}

	cicFactor := int(cfg.Radio.SampleRateHz / l1.ModemFS)
	subBlockLen := cicFactor * l1.SPS

	radioIO, err := openRadio(cfg, subBlockLen)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: opening radio i/o: %w", err)
	}

	common := l1.NewDspCommon(cfg.Radio.SampleRateHz, cfg.Radio.ChannelSpacing, cicFactor, cfg.Radio.HalfTaps)
	dsp := l1.NewL1Dsp(common, subBlockLen)

	numTx := len(cfg.Radio.TxCarriers)
	for _, c := range cfg.Radio.TxCarriers {
		dsp.AddTxCarrier(int(c.FreqOffsetHz/cfg.Radio.ChannelSpacing), numTx, c.CicStages)
	}
	for _, c := range cfg.Radio.RxCarriers {
		dsp.AddRxCarrier(int(c.FreqOffsetHz/cfg.Radio.ChannelSpacing), c.CicStages)
	}

	cb := l1.L1Callbacks{
		TxBurst: func(slot l1.SlotNumber, slotTimeNs int64, burst *l1.TxBurst) {
			burst.Kind = l1.TxBurstNone
		},
		RxBurst: func(slot l1.SlotNumber, slotTimeNs int64, burst *l1.RxBurst) {},
		TxCmd: func() []l1.L1TxCommands {
			cmds := make([]l1.L1TxCommands, numTx)
			for i, tc := range cfg.Radio.TxCarriers {
				cmds[i] = l1.L1TxCommands{
					Enabled:     tc.Enabled,
					GainDb:      tc.GainDb,
					RetuneHz:    tc.RetuneHz,
					KeyupMargin: tc.KeyupMargin.Nanoseconds(),
				}
			}
			return cmds
		},
		RxCmd: func() []l1.L1RxCommands {
			cmds := make([]l1.L1RxCommands, len(cfg.Radio.RxCarriers))
			for i, rc := range cfg.Radio.RxCarriers {
				cmds[i] = l1.L1RxCommands{
					Enabled:  rc.Enabled,
					GainDb:   rc.GainDb,
					RetuneHz: rc.RetuneHz,
				}
			}
			return cmds
		},
	}

	return &Built{
		Core:             l1.New(radioIO, dsp, subBlockLen, logger),
		Radio:            radioIO,
		DefaultCallbacks: cb,
	}, nil
}

func openRadio(cfg *config.Config, subBlockLen int) (l1.RadioIO, error) {
	switch cfg.IO.Kind {
	case "file":
		rotate := cfg.IO.RotateEvery
		if rotate <= 0 {
			rotate = time.Hour
		}
		return radio.NewFile(cfg.IO.RxCapturePath, cfg.IO.TxCapturePath, rotate, int(cfg.Radio.SampleRateHz), subBlockLen)
	case "live":
		device := cfg.IO.Device
		if device == "" {
			ctx, cancel := context.WithTimeout(context.Background(), discoverTimeout)
			defer cancel()
			found, err := radio.DiscoverSoundDevice(ctx)
			if err != nil {
				return nil, fmt.Errorf("discovering sound device: %w", err)
			}
			device = found
		}
		return radio.NewLive(radio.LiveConfig{
			Device:      device,
			PTTChip:     cfg.IO.PTTChip,
			PTTLine:     cfg.IO.PTTLine,
			PTTInvert:   cfg.IO.PTTInvert,
			RigModel:    cfg.IO.RigModel,
			RigDevice:   cfg.IO.RigDevice,
			SubBlockLen: subBlockLen,
			SampleRate:  int(cfg.Radio.SampleRateHz),
		})
	default:
		return nil, fmt.Errorf("unknown io.kind %q", cfg.IO.Kind)
	}
}
