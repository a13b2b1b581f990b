package canopy

import (
	"github.com/rs/zerolog"
)

const (
	defaultViewportWidth  = 800
	defaultViewportHeight = 600
)

// Scene is the top-level object that owns the primitives, the singleton
// environment objects (moon, sun, atmosphere, fog, light), render events and
// input state.
//
// Every exported field except Primitives and the events may be reassigned at
// any time; the scene notices on its next Update or Draw.
type Scene struct {
	BackgroundColor          Color             `prop:"backgroundColor"`
	CompleteMorphOnUserInput bool              `prop:"completeMorphOnUserInput"`
	DebugShowFramesPerSecond bool              `prop:"debugShowFramesPerSecond"`
	EyeSeparation            float64           `prop:"eyeSeparation"`
	FarToNearRatio           float64           `prop:"farToNearRatio"`
	FocalLength              float64           `prop:"focalLength"`
	Fog                      *Fog              `prop:"fog"`
	FXAA                     bool              `prop:"fxaa"`
	HighDynamicRange         bool              `prop:"highDynamicRange"`
	Light                    *DirectionalLight `prop:"light"`
	MaximumRenderTimeChange  float64           `prop:"maximumRenderTimeChange"`
	Moon                     *Moon             `prop:"moon"`
	// MorphTime is 0 in 2D or Columbus view, 1 in 3D, in between while morphing.
	MorphTime           float64         `prop:"morphTime"`
	RequestRenderMode   bool            `prop:"requestRenderMode"`
	RethrowRenderErrors bool            `prop:"rethrowRenderErrors"`
	SkyAtmosphere       *SkyAtmosphere  `prop:"skyAtmosphere"`
	Sun                 *Sun            `prop:"sun"`
	SunBloom            bool            `prop:"sunBloom"`
	TerrainProvider     TerrainProvider `prop:"terrainProvider"`
	UseDepthPicking     bool            `prop:"useDepthPicking"`

	// Primitives is the root primitive collection. It is never replaced.
	Primitives *PrimitiveCollection `prop:"primitives"`

	MorphComplete          *Event `prop:"morphComplete"`
	MorphStart             *Event `prop:"morphStart"`
	PostRender             *Event `prop:"postRender"`
	PreRender              *Event `prop:"preRender"`
	PreUpdate              *Event `prop:"preUpdate"`
	RenderError            *Event `prop:"renderError"`
	TerrainProviderChanged *Event `prop:"terrainProviderChanged"`

	width, height int
	mode          SceneMode
	morph         *morphTransition
	lastTerrain   TerrainProvider
	frameNumber   uint64
	renderPending bool
	updateFunc    func() error

	sink        InteractionSink
	pointer     pointerState
	injectQueue []syntheticPointerEvent
	liveInput   bool
	runner      *ScriptRunner

	screenshotQueue []string
	screenshotDir   string

	log       zerolog.Logger
	debug     bool
	destroyed bool
}

// NewScene creates a 3D scene with default environment objects and an empty
// primitive collection.
func NewScene() *Scene {
	terrain := &EllipsoidTerrainProvider{Ellipsoid: EllipsoidWGS84}
	return &Scene{
		BackgroundColor:         ColorBlack,
		EyeSeparation:           0,
		FarToNearRatio:          1000,
		FocalLength:             0,
		Fog:                     NewFog(),
		Light:                   NewSunLight(),
		MaximumRenderTimeChange: 0,
		Moon:                    NewMoon(DefaultMoonOptions()),
		MorphTime:               1,
		SkyAtmosphere:           NewSkyAtmosphere(),
		Sun:                     NewSun(),
		TerrainProvider:         terrain,
		UseDepthPicking:         true,

		Primitives: NewPrimitiveCollection(),

		MorphComplete:          NewEvent(),
		MorphStart:             NewEvent(),
		PostRender:             NewEvent(),
		PreRender:              NewEvent(),
		PreUpdate:              NewEvent(),
		RenderError:            NewEvent(),
		TerrainProviderChanged: NewEvent(),

		width:         defaultViewportWidth,
		height:        defaultViewportHeight,
		mode:          SceneMode3D,
		lastTerrain:   terrain,
		renderPending: true,
		log:           zerolog.Nop(),
	}
}

// Mode returns the current scene mode. While a morph is running this is
// SceneModeMorphing.
func (s *Scene) Mode() SceneMode {
	return s.mode
}

// FrameNumber returns the number of completed Update calls.
func (s *Scene) FrameNumber() uint64 {
	return s.frameNumber
}

// SetViewport sets the screen size used for projection and picking.
func (s *Scene) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width != s.width || height != s.height {
		s.renderPending = true
	}
	s.width, s.height = width, height
}

// Viewport returns the screen size used for projection and picking.
func (s *Scene) Viewport() (width, height int) {
	return s.width, s.height
}

// SetInteractionSink sets the receiver of pointer interaction events.
// A nil sink disables delivery.
func (s *Scene) SetInteractionSink(sink InteractionSink) {
	s.sink = sink
}

// SetUpdateFunc sets a function called at the start of every Update, before
// any scene processing. Run stops the loop when it returns an error.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// SetLogger sets the logger used for debug statistics.
func (s *Scene) SetLogger(log zerolog.Logger) {
	s.log = log
	debugLogger = log
}

// RequestRender marks the scene dirty when RequestRenderMode is set.
func (s *Scene) RequestRender() {
	s.renderPending = true
}

// Update advances the scene by dt seconds: raises PreUpdate, advances any
// morph, processes input, notices terrain changes and updates primitives
// (which resolves ready continuations).
func (s *Scene) Update(dt float64) {
	if s.destroyed {
		return
	}
	s.PreUpdate.RaiseEvent(s, s.frameNumber)

	s.updateMorph(dt)
	s.processInput()

	if s.TerrainProvider != s.lastTerrain {
		s.lastTerrain = s.TerrainProvider
		s.renderPending = true
		s.TerrainProviderChanged.RaiseEvent(s, s.TerrainProvider)
	}

	if s.Moon != nil {
		s.Moon.update()
	}
	s.frameNumber++
	frame := frameState{scene: s, dt: dt, frameNumber: s.frameNumber}
	s.Primitives.update(&frame)
}

// Destroy destroys every primitive and the moon, and drops all event
// listeners. A destroyed scene ignores Update and Draw.
func (s *Scene) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.morph = nil
	s.sink = nil
	s.injectQueue = nil
	s.Primitives.Destroy()
	if s.Moon != nil {
		s.Moon.Destroy()
	}
	for _, e := range []*Event{
		s.MorphComplete, s.MorphStart, s.PostRender, s.PreRender,
		s.PreUpdate, s.RenderError, s.TerrainProviderChanged,
	} {
		e.clear()
	}
}

// IsDestroyed reports whether Destroy has been called.
func (s *Scene) IsDestroyed() bool {
	return s.destroyed
}

// SetDebugMode enables or disables debug mode. When enabled, misuse of
// destroyed collections panics, oversized collections are reported, and
// per-frame timing stats are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that
// collection operations (which lack a Scene pointer) can check it cheaply.
var globalDebug bool

// project maps a geodetic position to screen coordinates (equirectangular).
func (s *Scene) project(lon, lat float64) (x, y float64) {
	x = (lon + 180) / 360 * float64(s.width)
	y = (90 - lat) / 180 * float64(s.height)
	return x, y
}

// unproject maps screen coordinates back to a geodetic position.
func (s *Scene) unproject(x, y float64) (lon, lat float64) {
	lon = x/float64(s.width)*360 - 180
	lat = 90 - y/float64(s.height)*180
	return lon, lat
}

// Pick returns the topmost pickable primitive at the screen position, or nil.
func (s *Scene) Pick(x, y float64) Primitive {
	if s.destroyed {
		return nil
	}
	lon, lat := s.unproject(x, y)
	return s.Primitives.pick(lon, lat)
}
