package canopy

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// doubleClickFrames is the window, in frames, in which a second click on the
// same target counts as a double click.
const doubleClickFrames = 20

// pointerState tracks the single mouse pointer between frames.
type pointerState struct {
	down      bool
	button    MouseButton
	lastX     float64
	lastY     float64
	hitTarget Primitive // target under the pointer at press time
	hover     Primitive

	lastClickTarget Primitive
	lastClickFrame  uint64
}

// processInput is called from Scene.Update. Injected events take priority;
// real mouse input is only read while the scene is driven by Run.
func (s *Scene) processInput() {
	if s.processInjectedInput() {
		return
	}
	if !s.liveInput {
		return
	}
	mx, my := ebiten.CursorPosition()
	var pressed bool
	var button MouseButton
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	right := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	middle := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle)
	if left || right || middle {
		pressed = true
		switch {
		case left:
			button = MouseButtonLeft
		case right:
			button = MouseButtonRight
		default:
			button = MouseButtonMiddle
		}
	}
	s.processPointer(float64(mx), float64(my), pressed, button)
}

// processPointer runs the pointer state machine for one frame of input.
func (s *Scene) processPointer(x, y float64, pressed bool, button MouseButton) {
	ps := &s.pointer
	target := s.Pick(x, y)
	if ps.hover != nil && ps.hover.IsDestroyed() {
		ps.hover = nil
	}

	if target != ps.hover {
		if ps.hover != nil {
			s.emit(EventMouseLeave, ps.hover, x, y, button)
		}
		if target != nil {
			s.emit(EventMouseEnter, target, x, y, button)
		}
		ps.hover = target
	}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.hitTarget = target
		if s.CompleteMorphOnUserInput {
			s.CompleteMorph()
		}
		s.emit(EventMouseDown, target, x, y, button)
	case !pressed && ps.down:
		s.emit(EventMouseUp, target, x, y, ps.button)
		if ps.hitTarget != nil && ps.hitTarget == target {
			s.fireClick(target, x, y, ps.button)
		}
		ps.down = false
		ps.hitTarget = nil
	case x != ps.lastX || y != ps.lastY:
		s.emit(EventMouseMove, target, x, y, button)
	}
	ps.lastX, ps.lastY = x, y
}

func (s *Scene) fireClick(target Primitive, x, y float64, button MouseButton) {
	ps := &s.pointer
	switch button {
	case MouseButtonRight:
		s.emit(EventRightClick, target, x, y, button)
	case MouseButtonLeft:
		s.emit(EventClick, target, x, y, button)
		if ps.lastClickTarget == target && s.frameNumber-ps.lastClickFrame <= doubleClickFrames {
			s.emit(EventDoubleClick, target, x, y, button)
			ps.lastClickTarget = nil
			return
		}
		ps.lastClickTarget = target
		ps.lastClickFrame = s.frameNumber
	}
}

// emit delivers an interaction event to the sink. Events without a target
// are not delivered.
func (s *Scene) emit(eventType EventType, target Primitive, x, y float64, button MouseButton) {
	if s.sink == nil || target == nil {
		return
	}
	lon, lat := s.unproject(x, y)
	s.sink.EmitEvent(InteractionEvent{
		Type:     eventType,
		Target:   target,
		X:        x,
		Y:        y,
		Position: Cartographic{Longitude: lon, Latitude: lat},
		Button:   button,
	})
}
