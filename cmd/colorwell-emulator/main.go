package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phinze/colorwell/internal/config"
	"github.com/phinze/colorwell/internal/coordinator"
	"github.com/phinze/colorwell/internal/rgba"
	"github.com/phinze/colorwell/internal/surface"
	"github.com/phinze/colorwell/internal/surface/emulator"
)

func main() {
	log.Println("=== Color Well Emulator ===")
	log.Println("Close window or press Ctrl+C to exit")

	// Setup signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("\nReceived shutdown signal")
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Warning: config load: %v, using defaults", err)
		cfg = config.Default()
	}

	emu := emulator.New(cfg.Surface.Width, cfg.Surface.Height, byte(cfg.Surface.Brightness))
	if err := emu.Open(); err != nil {
		log.Fatalf("Failed to open emulator: %v", err)
	}

	// Start coordinator in background goroutine
	go runWithSurface(ctx, cfg, emu)

	// Run GUI on main thread (required for macOS)
	if err := emu.RunGUI(); err != nil {
		log.Printf("Emulator GUI error: %v", err)
	}
}

// runWithSurface runs the coordinator on surf until context cancel.
func runWithSurface(ctx context.Context, cfg *config.Config, surf surface.Surface) {
	log.Printf("Connected to: %s", surf.Name())

	coord, err := coordinator.New(surf, cfg)
	if err != nil {
		log.Printf("Failed to create coordinator: %v", err)
		surf.Close()
		return
	}
	coord.OnSelect = func(well string, c rgba.Color) {
		log.Printf("%s = %s", well, c.Hex())
	}
	coord.OnActivation = func(well string, active bool) {
		log.Printf("%s active: %v", well, active)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- coord.Start(ctx)
	}()

	log.Printf("Ready! %d wells on the strip", len(coord.Wells()))

	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case err := <-errChan:
		if err != nil {
			log.Printf("Coordinator error: %v", err)
		}
	}

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

	surf.Close()
}
