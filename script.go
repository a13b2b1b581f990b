package canopy

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ScriptStep is a single action in an input script.
type ScriptStep struct {
	Action string  `yaml:"action"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
	// Mode and Duration are used by the "morph" action.
	Mode     SceneMode `yaml:"mode,omitempty"`
	Duration float64   `yaml:"duration,omitempty"`
	// Label names the file written by the "screenshot" action.
	Label string `yaml:"label,omitempty"`
}

type script struct {
	Steps []ScriptStep `yaml:"steps"`
}

// ScriptRunner sequences injected input and morphs across frames. Attach to
// a Scene via SetScriptRunner.
type ScriptRunner struct {
	steps     []ScriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a YAML (or JSON) input script.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var sc script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse input script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse input script: no steps")
	}
	for i, st := range sc.Steps {
		switch st.Action {
		case "click", "rightclick", "move", "wait", "morph", "screenshot":
		default:
			return nil, fmt.Errorf("parse input script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: sc.Steps}, nil
}

// NewScriptRunner returns a runner for already-built steps.
func NewScriptRunner(steps ...ScriptStep) *ScriptRunner {
	return &ScriptRunner{steps: steps, done: len(steps) == 0}
}

// SetScriptRunner attaches a runner. Step advances it once per frame before
// Update; Run does this automatically.
func (s *Scene) SetScriptRunner(runner *ScriptRunner) {
	s.runner = runner
}

// Done reports whether every step has been executed and its input consumed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Step advances the attached runner by one frame. Call before Update when
// driving the scene without Run.
func (s *Scene) Step() {
	if s.runner != nil {
		s.runner.step(s)
	}
}

func (r *ScriptRunner) step(s *Scene) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "click":
		s.InjectClick(st.X, st.Y)
	case "rightclick":
		s.InjectPress(st.X, st.Y, MouseButtonRight)
		s.InjectRelease(st.X, st.Y, MouseButtonRight)
	case "move":
		s.InjectMove(st.X, st.Y)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "morph":
		s.morphTo(st.Mode, st.Duration)
	case "screenshot":
		s.Screenshot(st.Label)
	}
}
