package canopy

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// morphTransition animates Scene.MorphTime toward the target mode.
type morphTransition struct {
	tween *gween.Tween
	from  SceneMode
	to    SceneMode
}

// morphTimeFor returns the MorphTime value a settled mode has.
func morphTimeFor(mode SceneMode) float64 {
	if mode == SceneMode3D {
		return 1
	}
	return 0
}

// MorphTo2D morphs the scene to 2D over duration seconds. A duration of zero
// or less completes immediately.
func (s *Scene) MorphTo2D(duration float64) {
	s.morphTo(SceneMode2D, duration)
}

// MorphToColumbusView morphs the scene to Columbus view over duration seconds.
func (s *Scene) MorphToColumbusView(duration float64) {
	s.morphTo(SceneModeColumbusView, duration)
}

// MorphTo3D morphs the scene to 3D over duration seconds.
func (s *Scene) MorphTo3D(duration float64) {
	s.morphTo(SceneMode3D, duration)
}

// CompleteMorph jumps a running morph to its end.
func (s *Scene) CompleteMorph() {
	if s.morph == nil {
		return
	}
	s.finishMorph()
}

func (s *Scene) morphTo(mode SceneMode, duration float64) {
	if s.destroyed || mode == SceneModeMorphing {
		return
	}
	from := s.mode
	if s.morph != nil {
		if s.morph.to == mode {
			return
		}
		from = s.morph.from
		// Reversing to the starting mode is reported as leaving the morph.
		if from == mode {
			from = SceneModeMorphing
		}
	} else if from == mode {
		return
	}

	s.morph = &morphTransition{from: from, to: mode}
	s.mode = SceneModeMorphing
	s.renderPending = true
	s.MorphStart.RaiseEvent(s, from, mode)

	if duration <= 0 {
		s.finishMorph()
		return
	}
	target := morphTimeFor(mode)
	s.morph.tween = gween.New(float32(s.MorphTime), float32(target), float32(duration), ease.InOutSine)
}

// updateMorph advances a running morph by dt seconds. If the scene is
// destroyed mid-morph the transition is dropped without completing.
func (s *Scene) updateMorph(dt float64) {
	m := s.morph
	if m == nil || m.tween == nil {
		return
	}
	val, finished := m.tween.Update(float32(dt))
	s.MorphTime = float64(val)
	s.renderPending = true
	if finished {
		s.finishMorph()
	}
}

func (s *Scene) finishMorph() {
	m := s.morph
	s.morph = nil
	s.mode = m.to
	s.MorphTime = morphTimeFor(m.to)
	s.MorphComplete.RaiseEvent(s, m.from, m.to)
}
