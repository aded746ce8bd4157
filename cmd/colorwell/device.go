package main

import (
	"context"
	"log"
	"time"

	"rafaelmartins.com/p/streamdeck"

	"github.com/phinze/colorwell/internal/config"
	"github.com/phinze/colorwell/internal/surface"
)

const deviceTimeout = 5 * time.Second

// tryGetDeviceWithTimeout gets and opens a Stream Deck, giving up after
// timeout. The USB stack can hang enumeration after sleep.
func tryGetDeviceWithTimeout(timeout time.Duration) *streamdeck.Device {
	type result struct {
		dev *streamdeck.Device
		err error
	}
	ch := make(chan result, 1)

	go func() {
		dev, err := streamdeck.GetDevice("")
		if err != nil {
			ch <- result{nil, err}
			return
		}
		if err := dev.Open(); err != nil {
			ch <- result{nil, err}
			return
		}
		ch <- result{dev, nil}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil
		}
		return r.dev
	case <-time.After(timeout):
		log.Println("Device detection timed out")
		return nil
	}
}

// waitForHardwareDevice polls for a Stream Deck until one is available.
// Wake signals and USB arrivals trigger a probe without waiting for the
// next poll. arrivals may be nil.
func waitForHardwareDevice(ctx context.Context, wakeCh, arrivals <-chan struct{}, cfg *config.Config) surface.Surface {
	wrap := func(dev *streamdeck.Device) surface.Surface {
		return surface.NewHardware(dev, byte(cfg.Surface.Brightness))
	}

	if dev := tryGetDeviceWithTimeout(deviceTimeout); dev != nil {
		return wrap(dev)
	}

	log.Println("Waiting for device...")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-wakeCh:
			// Devices can take several seconds to enumerate after wake.
			log.Println("Wake signal received, probing for device...")
			if dev := probeRepeatedly(ctx, 10); dev != nil {
				return wrap(dev)
			}
			log.Println("Device not found after wake, resuming polling...")
		case <-arrivals:
			log.Println("USB arrival, probing for device...")
			if dev := probeRepeatedly(ctx, 4); dev != nil {
				return wrap(dev)
			}
		case <-time.After(2 * time.Second):
		}

		if dev := tryGetDeviceWithTimeout(deviceTimeout); dev != nil {
			log.Println("Device connected!")
			return wrap(dev)
		}
	}
}

func probeRepeatedly(ctx context.Context, attempts int) *streamdeck.Device {
	for i := 0; i < attempts; i++ {
		if dev := tryGetDeviceWithTimeout(deviceTimeout); dev != nil {
			log.Println("Device connected!")
			return dev
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(500 * time.Millisecond):
		}
	}
	return nil
}
