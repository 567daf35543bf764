package materialize

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in a lifecycle script.
type scriptStep struct {
	Action string `json:"action"`
	Label  string `json:"label,omitempty"`
	Frames int    `json:"frames,omitempty"`
}

type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

var scriptActions = map[string]bool{
	"tick": true, "wait": true, "pause": true, "resume": true,
	"reset": true, "restart": true, "screenshot": true,
}

// Script drives an Engine through a scripted sequence of lifecycle actions,
// one step per frame. Used for automated visual checks and demos.
//
//	{"steps": [
//		{"action": "wait", "frames": 30},
//		{"action": "pause"},
//		{"action": "screenshot", "label": "paused"},
//		{"action": "resume"}
//	]}
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON lifecycle script.
func LoadScript(jsonData []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range f.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// Done reports whether every step has run.
func (s *Script) Done() bool {
	return s.done
}

// Step runs at most one action against e. shoot is called for screenshot
// steps and may be nil.
func (s *Script) Step(e *Engine, shoot func(label string)) {
	if s.done {
		return
	}
	if s.waitCount > 0 {
		s.waitCount--
		return
	}
	if s.cursor >= len(s.steps) {
		s.done = true
		return
	}

	st := s.steps[s.cursor]
	s.cursor++

	switch st.Action {
	case "tick":
		for i := 0; i < max(st.Frames, 1); i++ {
			e.Tick(0)
		}
	case "wait":
		if st.Frames > 0 {
			s.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "pause":
		e.Pause()
	case "resume":
		e.Resume()
	case "reset":
		e.Reset()
	case "restart":
		e.Restart()
	case "screenshot":
		if shoot != nil {
			shoot(st.Label)
		}
	}

	if s.cursor >= len(s.steps) && s.waitCount == 0 {
		s.done = true
	}
}
