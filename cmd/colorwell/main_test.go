package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phinze/colorwell/internal/config"
)

// useDefaults points config loading at a file that does not exist.
func useDefaults(t *testing.T) {
	t.Helper()
	t.Setenv("COLORWELL_CONFIG", filepath.Join(t.TempDir(), "none.yaml"))
	t.Setenv("COLORWELL_ACCENT", "")
	t.Setenv("COLORWELL_SURFACE", "")
}

func TestFrameFor(t *testing.T) {
	cfg := config.Default()

	tests := []struct {
		name    string
		well    string
		states  []string
		wantErr bool
	}{
		{name: "first well by default", well: ""},
		{name: "named well", well: "stroke"},
		{name: "states", well: "background", states: []string{"active", "Hover-Color", "drop"}},
		{name: "unknown well", well: "fill", wantErr: true},
		{name: "unknown state", states: []string{"glow"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := frameFor(cfg, tt.well, tt.states)
			if tt.wantErr {
				if err == nil {
					t.Fatal("frameFor() succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("frameFor() error = %v", err)
			}
			want := tt.well
			if want == "" {
				want = cfg.Wells[0].Name
			}
			if f.Name != want {
				t.Errorf("Name = %q, want %q", f.Name, want)
			}
			if f.Bounds.X != 0 || f.Bounds.Y != 0 || f.Bounds.W != 120 || f.Bounds.H != 40 {
				t.Errorf("Bounds = %v, want local 120x40", f.Bounds)
			}
			hasActive := len(tt.states) > 0
			if f.State.Active != hasActive || f.State.ColorHover != hasActive || f.State.DragAccepting != hasActive {
				t.Errorf("State = %s for states %v", f.State, tt.states)
			}
		})
	}
}

func TestReplayCommand(t *testing.T) {
	useDefaults(t)
	out := filepath.Join(t.TempDir(), "final.png")
	replayPNG = out
	t.Cleanup(func() { replayPNG = "" })

	var buf bytes.Buffer
	replayCmd.SetOut(&buf)
	t.Cleanup(func() { replayCmd.SetOut(nil) })

	if err := runReplay(replayCmd, []string{filepath.Join("testdata", "copy-color.yaml")}); err != nil {
		t.Fatalf("runReplay() error = %v", err)
	}

	got := buf.String()
	for _, want := range []string{
		"# activate foreground, then copy its color onto background",
		"activate foreground",
		"select background #ff3b30",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("PNG not written: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 100 {
		t.Errorf("PNG size = %dx%d, want 800x100", b.Dx(), b.Dy())
	}
}

func TestReplayCommandMissingScript(t *testing.T) {
	useDefaults(t)
	if err := runReplay(replayCmd, []string{filepath.Join(t.TempDir(), "nope.yaml")}); err == nil {
		t.Error("runReplay() with a missing script succeeded")
	}
}

func TestRenderCommand(t *testing.T) {
	useDefaults(t)
	t.Cleanup(func() {
		renderWell, renderStates, renderPalette, renderOut = "", nil, false, "colorwell.png"
	})

	dir := t.TempDir()
	tests := []struct {
		name    string
		palette bool
		states  []string
		w, h    int
	}{
		{name: "well", states: []string{"active"}, w: 120, h: 40},
		{name: "palette", palette: true, w: 188, h: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderPalette = tt.palette
			renderStates = tt.states
			renderOut = filepath.Join(dir, tt.name+".png")
			if err := runRender(renderCmd, nil); err != nil {
				t.Fatalf("runRender() error = %v", err)
			}
			f, err := os.Open(renderOut)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			cfg, err := png.DecodeConfig(f)
			if err != nil {
				t.Fatalf("png.DecodeConfig() error = %v", err)
			}
			if cfg.Width != tt.w || cfg.Height != tt.h {
				t.Errorf("size = %dx%d, want %dx%d", cfg.Width, cfg.Height, tt.w, tt.h)
			}
		})
	}
}
