// Package replay reads scripted input sessions from YAML and expands them
// into input events for a headless run.
package replay

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phinze/colorwell/internal/geom"
	"github.com/phinze/colorwell/internal/input"
)

// defaultDragSteps is how many Dragged events a drag step produces when
// frames is not given.
const defaultDragSteps = 4

// Step is one scripted action. Coordinates are in surface space.
type Step struct {
	Action string  `yaml:"action"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	ToX    float64 `yaml:"to_x"`
	ToY    float64 `yaml:"to_y"`
	Frames int     `yaml:"frames"`
	Key    string  `yaml:"key"`
	Shift  bool    `yaml:"shift"`
}

// Script is a parsed replay file.
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// LoadFile reads a script from path.
func LoadFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a YAML script and checks every step.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if _, err := s.Events(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Events expands the script into the events a surface would deliver.
func (s *Script) Events() ([]input.Event, error) {
	var events []input.Event
	for i, step := range s.Steps {
		evs, err := step.expand()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		events = append(events, evs...)
	}
	return events, nil
}

// Source returns the expanded events as an input.Script.
func (s *Script) Source() (*input.Script, error) {
	events, err := s.Events()
	if err != nil {
		return nil, err
	}
	return input.NewScript(events...), nil
}

func (st Step) modifiers() input.Modifiers {
	if st.Shift {
		return input.ModShift
	}
	return 0
}

func (st Step) expand() ([]input.Event, error) {
	at := geom.Pt(st.X, st.Y)
	mods := st.modifiers()
	single := func(t input.EventType) []input.Event {
		return []input.Event{{Type: t, Point: at, Modifiers: mods}}
	}

	switch strings.ToLower(st.Action) {
	case "press":
		return single(input.Pressed), nil
	case "move":
		return single(input.Moved), nil
	case "release":
		return single(input.Released), nil
	case "enter":
		return single(input.Entered), nil
	case "exit":
		return single(input.Exited), nil
	case "click":
		return input.Click(st.X, st.Y, mods), nil
	case "drag":
		steps := st.Frames
		if steps <= 0 {
			steps = defaultDragSteps
		}
		events := input.DragPath(at, geom.Pt(st.ToX, st.ToY), steps)
		for i := range events {
			events[i].Modifiers = mods
		}
		return events, nil
	case "key":
		key := st.Key
		if key == "" {
			key = input.KeyEscape
		}
		ev := input.Key(key)
		ev.Modifiers = mods
		return []input.Event{ev}, nil
	case "wait":
		if st.Frames < 0 {
			return nil, fmt.Errorf("wait: frames %d is negative", st.Frames)
		}
		events := make([]input.Event, st.Frames)
		for i := range events {
			events[i] = input.Event{Type: input.Tick}
		}
		return events, nil
	case "":
		return nil, fmt.Errorf("missing action")
	}
	return nil, fmt.Errorf("unknown action %q", st.Action)
}
