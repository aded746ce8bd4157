package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phinze/colorwell/internal/colorwell"
	"github.com/phinze/colorwell/internal/config"
	"github.com/phinze/colorwell/internal/geom"
	"github.com/phinze/colorwell/internal/render"
	"github.com/phinze/colorwell/internal/swatch"
)

var (
	renderWell    string
	renderStates  []string
	renderPalette bool
	renderOut     string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a well or the palette popover to a PNG",
	Example: `  colorwell render --well foreground --state hover-color --state active
  colorwell render --palette --out palette.png`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderWell, "well", "", "well to render (default: the first configured well)")
	renderCmd.Flags().StringSliceVar(&renderStates, "state", nil,
		"state flags: hover-color, track-color, hover-wheel, track-wheel, drop, active")
	renderCmd.Flags().BoolVar(&renderPalette, "palette", false, "render the palette popover instead of a well")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "colorwell.png", "output PNG path")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	accent, err := cfg.AccentColor()
	if err != nil {
		return err
	}
	r, err := render.New()
	if err != nil {
		return err
	}

	var img image.Image
	if renderPalette {
		colors, err := cfg.Palette.Swatches()
		if err != nil {
			return err
		}
		gradients, err := cfg.Palette.GradientSpecs()
		if err != nil {
			return err
		}
		p := swatch.NewPalette(cfg.Palette.Layout(), colors, gradients, swatch.Callbacks{})
		img = r.Palette(p, accent)
	} else {
		frame, err := frameFor(cfg, renderWell, renderStates)
		if err != nil {
			return err
		}
		img = r.Well(frame)
	}

	if err := writePNG(renderOut, img); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%dx%d)\n", renderOut, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}

// frameFor builds the frame of a configured well with the given state
// flags applied.
func frameFor(cfg *config.Config, name string, states []string) (colorwell.Frame, error) {
	wc := cfg.Wells[0]
	if name != "" {
		found := false
		for _, w := range cfg.Wells {
			if w.Name == name {
				wc, found = w, true
				break
			}
		}
		if !found {
			return colorwell.Frame{}, fmt.Errorf("no well named %q", name)
		}
	}

	c, err := wc.InitialColor()
	if err != nil {
		return colorwell.Frame{}, err
	}
	accent, err := cfg.AccentColor()
	if err != nil {
		return colorwell.Frame{}, err
	}
	f := colorwell.Frame{
		Name:   wc.Name,
		Bounds: geom.R(0, 0, wc.Width, wc.Height),
		Accent: accent,
		Color:  c,
	}
	for _, s := range states {
		switch strings.ToLower(s) {
		case "hover-color":
			f.State.ColorHover = true
		case "track-color":
			f.State.ColorTrack = true
		case "hover-wheel":
			f.State.WheelHover = true
		case "track-wheel":
			f.State.WheelTrack = true
		case "drop":
			f.State.DragAccepting = true
		case "active":
			f.State.Active = true
		default:
			return colorwell.Frame{}, fmt.Errorf("unknown state %q", s)
		}
	}
	return f, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}
