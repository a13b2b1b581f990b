package canopy

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// skyBase is the limb color before atmosphere shifts are applied.
var skyBase = Color{0.35, 0.55, 0.9, 1}

// RenderError wraps a value recovered while drawing a frame.
type RenderError struct {
	Frame uint64
	Value any
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("canopy: render frame %d: %v", e.Frame, e.Value)
}

// Draw renders the scene onto screen. PreRender and PostRender are raised
// around the frame. A panic while drawing is recovered and raised on
// RenderError; it is re-panicked when RethrowRenderErrors is set.
//
// With RequestRenderMode set, frames are only drawn after something changed
// or RequestRender was called.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.destroyed {
		return
	}
	if s.RequestRenderMode && !s.renderPending {
		return
	}
	s.renderPending = false

	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.PreRender.RaiseEvent(s, s.frameNumber)
	drawn := s.safeRender(screen)
	if drawn {
		s.PostRender.RaiseEvent(s, s.frameNumber)
		s.flushScreenshots(screen)
	}

	if s.debug {
		s.debugLog(frameStats{
			frame:      s.frameNumber,
			renderTime: time.Since(t0),
			primitives: countPrimitives(s.Primitives),
		})
	}
}

func (s *Scene) safeRender(screen *ebiten.Image) (ok bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		ok = false
		err := &RenderError{Frame: s.frameNumber, Value: r}
		s.log.Error().Err(err).Msg("render failed")
		s.RenderError.RaiseEvent(s, err)
		if s.RethrowRenderErrors {
			panic(err)
		}
	}()
	s.render(screen)
	return true
}

func (s *Scene) render(screen *ebiten.Image) {
	screen.Fill(s.BackgroundColor.toRGBA())
	w, h := float32(s.width), float32(s.height)

	if s.mode == SceneMode3D || s.mode == SceneModeMorphing {
		if s.SkyAtmosphere != nil && s.SkyAtmosphere.Show {
			sky := s.SkyAtmosphere.tint(skyBase).WithAlpha(0.25 * s.MorphTime)
			vector.DrawFilledRect(screen, 0, 0, w, h*0.08, sky.toRGBA(), false)
		}
		if s.Moon != nil && s.Moon.Show && !s.Moon.IsDestroyed() {
			r := float32(s.Moon.Ellipsoid.Radii.X / EllipsoidWGS84.Radii.X * float64(h) * 0.1)
			vector.DrawFilledCircle(screen, w*0.9, h*0.1, r, Color{0.85, 0.85, 0.8, 1}.toRGBA(), true)
		}
	}
	s.drawCollection(screen, s.Primitives)

	if s.DebugShowFramesPerSecond {
		ebitenutil.DebugPrintAt(screen,
			fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()), 4, 4)
	}
}

func (s *Scene) drawCollection(screen *ebiten.Image, c *PrimitiveCollection) {
	if c == nil || c.destroyed || !c.Show {
		return
	}
	for _, p := range c.primitives {
		switch v := p.(type) {
		case *PrimitiveCollection:
			s.drawCollection(screen, v)
		case *GroundPrimitive:
			s.drawGround(screen, v)
		case *LabelCollection:
			s.drawLabels(screen, v)
		}
	}
}

func (s *Scene) drawGround(screen *ebiten.Image, p *GroundPrimitive) {
	if p.destroyed || !p.Show || !p.ready.resolved {
		return
	}
	for _, g := range p.built {
		c := g.Color
		if p.Appearance != nil {
			c = p.Appearance.Color
		}
		x0, y0 := s.project(g.Rectangle.West, g.Rectangle.North)
		x1, y1 := s.project(g.Rectangle.East, g.Rectangle.South)
		vector.DrawFilledRect(screen, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0), c.toRGBA(), false)
		if p.DebugShowBoundingVolume {
			vector.StrokeRect(screen, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0), 1, ColorWhite.toRGBA(), false)
		}
	}
}

func (s *Scene) drawLabels(screen *ebiten.Image, c *LabelCollection) {
	if c.destroyed {
		return
	}
	for _, l := range c.labels {
		if !l.Show || l.Text == "" {
			continue
		}
		x, y := s.project(l.Position.Longitude, l.Position.Latitude)
		drawLabel(screen, l, x+l.PixelOffset.X, y+l.PixelOffset.Y)
	}
}

func countPrimitives(c *PrimitiveCollection) int {
	if c == nil {
		return 0
	}
	n := 0
	for _, p := range c.primitives {
		n++
		if child, ok := p.(*PrimitiveCollection); ok {
			n += countPrimitives(child)
		}
	}
	return n
}
