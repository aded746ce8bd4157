package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phinze/colorwell/internal/config"
	"github.com/phinze/colorwell/internal/rgba"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup: choose the accent, brightness and well colors",
	RunE:  runSetup,
}

func runSetup(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println("=== Color Well Setup ===")
	fmt.Println()

	// Existing config provides the defaults
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Existing config unreadable (%v), starting from defaults\n", err)
		cfg = config.Default()
	}

	fmt.Println("-- Surface --")
	cfg.Accent = promptColor(reader, "Accent color", cfg.Accent)
	cfg.Surface.Brightness = promptInt(reader, "Brightness (0-100)", cfg.Surface.Brightness)
	fmt.Println()

	fmt.Println("-- Wells --")
	for i := range cfg.Wells {
		w := &cfg.Wells[i]
		w.Color = promptColor(reader, fmt.Sprintf("%s initial color", w.Name), w.Color)
	}
	fmt.Println()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config not written: %w", err)
	}
	if err := config.WriteConfigFile(cfg); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	fmt.Printf("Config written to %s\n", config.DefaultConfigPath())
	fmt.Println("Setup complete!")
	return nil
}

// prompt asks for a value with an optional default.
func prompt(reader *bufio.Reader, label, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("  %s [%s]: ", label, defaultVal)
	} else {
		fmt.Printf("  %s: ", label)
	}
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return defaultVal
	}
	return line
}

// promptColor repeats the question until it gets a parseable color.
func promptColor(reader *bufio.Reader, label, defaultVal string) string {
	for {
		v := prompt(reader, label, defaultVal)
		_, err := rgba.Parse(v)
		if err == nil || v == defaultVal {
			return v
		}
		fmt.Printf("  -> %v\n", err)
	}
}

func promptInt(reader *bufio.Reader, label string, defaultVal int) int {
	for {
		v := prompt(reader, label, strconv.Itoa(defaultVal))
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
		fmt.Printf("  -> not a number: %q\n", v)
	}
}
