package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phinze/colorwell/internal/config"
	"github.com/phinze/colorwell/internal/coordinator"
	"github.com/phinze/colorwell/internal/replay"
	"github.com/phinze/colorwell/internal/rgba"
	"github.com/phinze/colorwell/internal/surface/memory"
)

var replayPNG string

var replayCmd = &cobra.Command{
	Use:   "replay SCRIPT",
	Short: "Run a scripted input session headlessly and report what the wells did",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func init() {
	replayCmd.Flags().StringVar(&replayPNG, "png", "", "save the final frame to this PNG path")
}

func runReplay(cmd *cobra.Command, args []string) error {
	script, err := replay.LoadFile(args[0])
	if err != nil {
		return err
	}
	src, err := script.Source()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	surf := memory.New(cfg.Surface.Width, cfg.Surface.Height)
	if err := surf.Open(); err != nil {
		return err
	}
	defer surf.Close()

	coord, err := coordinator.New(surf, cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	coord.OnSelect = func(well string, c rgba.Color) {
		fmt.Fprintf(out, "select %s %s\n", well, c.Hex())
	}
	coord.OnActivation = func(well string, active bool) {
		if active {
			fmt.Fprintf(out, "activate %s\n", well)
		} else {
			fmt.Fprintf(out, "deactivate %s\n", well)
		}
	}

	if script.Name != "" {
		fmt.Fprintf(out, "# %s\n", script.Name)
	}
	if err := coord.Replay(context.Background(), src); err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	for _, w := range coord.Wells() {
		fmt.Fprintf(out, "%-12s %s  %s\n", w.Name(), w.Color().Hex(), w.State())
	}
	if owner := coord.PopoverOwner(); owner != "" {
		fmt.Fprintf(out, "popover open on %s\n", owner)
	}
	fmt.Fprintf(out, "%d frames presented\n", surf.Presented())

	if replayPNG != "" {
		last := surf.Last()
		if last == nil {
			return fmt.Errorf("no frame was presented")
		}
		if err := writePNG(replayPNG, last); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s\n", replayPNG)
	}
	return nil
}
