package radio

import (
	"context"
	"fmt"

	"github.com/jochenvg/go-udev"
)

// DiscoverSoundDevice watches for a USB sound-card device to appear
// (e.g. a DMK-URI-style PTT/audio dongle being plugged in) and returns
// its ALSA card name once seen, for the case where the live backend's
// device isn't pinned in configuration. It returns when ctx is
// cancelled if nothing appears.
func DiscoverSoundDevice(ctx context.Context) (string, error) {
	u := udev.Udev{}
	mon := u.NewMonitorFromNetlink("udev")
	if err := mon.FilterAddMatchSubsystem("sound"); err != nil {
		return "", fmt.Errorf("radio: filtering udev monitor: %w", err)
	}

	devices, errs := mon.DeviceChan(ctx)
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case err := <-errs:
			return "", fmt.Errorf("radio: udev monitor: %w", err)
		case dev := <-devices:
			if dev.Action() != "add" {
				continue
			}
			if name := dev.PropertyValue("ID_ALSA_CARD_NAME"); name != "" {
				return name, nil
			}
		}
	}
}
