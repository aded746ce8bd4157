package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prashantgupta24/mac-sleep-notifier/notifier"
	"github.com/spf13/cobra"

	"github.com/phinze/colorwell/internal/config"
	"github.com/phinze/colorwell/internal/coordinator"
	"github.com/phinze/colorwell/internal/rgba"
	"github.com/phinze/colorwell/internal/surface"
	"github.com/phinze/colorwell/internal/usbwatch"
)

var rootCmd = &cobra.Command{
	Use:   "colorwell",
	Short: "Color wells on a Stream Deck Plus touch strip",
	Long: `colorwell draws a row of color wells on the touch strip of a Stream Deck
Plus. Tap a well's color to pick from the palette, tap its wheel to make it
the active well, and swipe from one well onto another to copy a color.`,
	SilenceUsage: true,
	RunE:         runDaemon,
}

func main() {
	rootCmd.AddCommand(statusCmd, setupCmd, renderCmd, replayCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runDaemon(cmd *cobra.Command, args []string) error {
	log.Println("=== Color Well Daemon ===")
	log.Println("Press Ctrl+C to exit")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wakeCh := watchWake()

	arrivals, err := usbwatch.Watch(ctx, usbwatch.ElgatoVendorID)
	if err != nil {
		log.Printf("USB arrival watch unavailable, polling only: %v", err)
	}

	for {
		dev := waitForHardwareDevice(ctx, wakeCh, arrivals, cfg)
		if dev == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			log.Println("Exiting...")
			dev.Close()
			return nil
		default:
		}

		// A wake from before the device enumerated would tear the new
		// session down immediately.
		drain(wakeCh)

		// USB enumeration may not be complete even after the device opens.
		time.Sleep(500 * time.Millisecond)

		runWithSurface(ctx, cfg, dev, wakeCh)

		select {
		case <-ctx.Done():
			log.Println("Exiting...")
			return nil
		default:
			log.Println("Waiting for device reconnect...")
		}
	}
}

// runWithSurface runs a coordinator on surf until disconnect, wake, or
// context cancel.
func runWithSurface(ctx context.Context, cfg *config.Config, surf surface.Surface, wakeCh <-chan struct{}) {
	log.Printf("Connected to: %s", surf.Name())

	if err := surf.Open(); err != nil {
		log.Printf("Failed to open %s: %v", surf.Name(), err)
		surf.Close()
		return
	}

	coord, err := coordinator.New(surf, cfg)
	if err != nil {
		log.Printf("Failed to create coordinator: %v", err)
		surf.Close()
		return
	}
	coord.OnSelect = func(well string, c rgba.Color) {
		log.Printf("%s = %s", well, c.Hex())
	}

	runCtx, runCancel := context.WithCancel(ctx)
	defer runCancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- coord.Start(runCtx)
	}()

	log.Printf("Ready! %d wells on the strip", len(coord.Wells()))

	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case err := <-errChan:
		if err != nil {
			log.Printf("Device disconnected: %v", err)
		}
	case <-wakeCh:
		log.Println("Reconnecting device after wake...")
	}

	runCancel()

	done := make(chan struct{})
	go func() {
		coord.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		log.Println("Cleanup timed out")
	}

	// Let pending USB callbacks finish before the handle goes away.
	time.Sleep(200 * time.Millisecond)

	closeDone := make(chan struct{})
	go func() {
		surf.Close()
		close(closeDone)
	}()

	// Close may block forever on shutdown; exit instead of waiting.
	select {
	case <-ctx.Done():
		log.Println("Exiting...")
		os.Exit(0)
	case <-closeDone:
	case <-time.After(3 * time.Second):
		log.Println("Device close timed out")
	}
}

// watchWake forwards system wake notifications. Wakes that arrive while
// one is pending are folded into it.
func watchWake() <-chan struct{} {
	wakeCh := make(chan struct{}, 1)
	activity := notifier.GetInstance().Start()
	go func() {
		for a := range activity {
			if a.Type != notifier.Awake {
				continue
			}
			log.Println("System wake detected")
			select {
			case wakeCh <- struct{}{}:
			default:
			}
		}
	}()
	return wakeCh
}

// drain discards pending signals on ch.
func drain(ch <-chan struct{}) {
	for {
		select {
		case <-ch:
			log.Println("Draining stale wake signal")
		default:
			return
		}
	}
}
