package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/phinze/colorwell/internal/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check config and device health",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Color Well Status ===")
	fmt.Println()

	allOK := true

	configPath := config.DefaultConfigPath()
	fmt.Printf("Config file: %s\n", configPath)
	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("  Status: found")
	} else {
		fmt.Println("  Status: not found, using defaults")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("  Load error: %v\n", err)
		allOK = false
	} else if err := cfg.Validate(); err != nil {
		fmt.Printf("  Invalid: %v\n", err)
		allOK = false
	}
	fmt.Println()

	if cfg != nil {
		fmt.Printf("Surface: %dx%d at %d%% brightness\n", cfg.Surface.Width, cfg.Surface.Height, cfg.Surface.Brightness)
		fmt.Printf("Accent: %s\n", cfg.Accent)
		fmt.Println("Wells:")
		for _, w := range cfg.Wells {
			fmt.Printf("  %-12s %v  %s\n", w.Name, w.Bounds(), w.Color)
		}
		fmt.Printf("Palette: %d colors, %d gradients, %d columns\n",
			len(cfg.Palette.Colors), len(cfg.Palette.Gradients), cfg.Palette.Columns)
		fmt.Println()
	}

	// Quick USB probe
	fmt.Println("Stream Deck:")
	dev := tryGetDeviceWithTimeout(2 * time.Second)
	if dev != nil {
		fmt.Printf("  Device: CONNECTED (%s)\n", dev.GetModelName())
		if !dev.GetTouchStripSupported() {
			fmt.Println("  Touch strip: NOT SUPPORTED")
			allOK = false
		}
		dev.Close()
	} else {
		fmt.Println("  Device: not detected")
	}
	fmt.Println()

	if allOK {
		fmt.Println("All checks passed.")
	} else {
		fmt.Println("Some checks failed. Run 'colorwell setup' to configure.")
	}
	return nil
}
