package canopy

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// Well-known colors.
var (
	ColorWhite       = Color{1, 1, 1, 1}
	ColorBlack       = Color{0, 0, 0, 1}
	ColorTransparent = Color{}
)

var namedColors = map[string]Color{
	"white":       ColorWhite,
	"black":       ColorBlack,
	"transparent": ColorTransparent,
	"red":         {1, 0, 0, 1},
	"green":       {0, 1, 0, 1},
	"blue":        {0, 0, 1, 1},
	"yellow":      {1, 1, 0, 1},
	"cyan":        {0, 1, 1, 1},
	"magenta":     {1, 0, 1, 1},
	"gray":        {0.5, 0.5, 0.5, 1},
}

// ParseColor parses "#rgb", "#rrggbb", "#rrggbbaa" or a color name.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return Color{}, fmt.Errorf("parse color %q: unknown name", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return Color{}, fmt.Errorf("parse color %q: want 3, 6 or 8 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

func (c Color) toRGBA() color.RGBA {
	clamp := func(v float64) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	a := clamp(c.A)
	// ebiten expects premultiplied alpha.
	return color.RGBA{
		R: clamp(c.R * c.A),
		G: clamp(c.G * c.A),
		B: clamp(c.B * c.A),
		A: a,
	}
}

// Vec2 is a 2D vector, used for screen-space offsets.
type Vec2 struct {
	X float64 `prop:"x"`
	Y float64 `prop:"y"`
}

// Vec3 is a Cartesian 3D vector.
type Vec3 struct {
	X float64 `prop:"x"`
	Y float64 `prop:"y"`
	Z float64 `prop:"z"`
}

// Cartographic is a geodetic position in degrees and meters.
type Cartographic struct {
	Longitude float64 `prop:"longitude"`
	Latitude  float64 `prop:"latitude"`
	Height    float64 `prop:"height"`
}

// Rectangle is a geodetic extent in degrees.
type Rectangle struct {
	West  float64 `prop:"west"`
	South float64 `prop:"south"`
	East  float64 `prop:"east"`
	North float64 `prop:"north"`
}

// Contains reports whether the position lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rectangle) Contains(lon, lat float64) bool {
	return lon >= r.West && lon <= r.East && lat >= r.South && lat <= r.North
}

// Ellipsoid is a quadratic surface defined by its radii in meters.
type Ellipsoid struct {
	Radii Vec3 `prop:"radii"`
}

// Reference ellipsoids.
var (
	EllipsoidWGS84 = Ellipsoid{Radii: Vec3{6378137.0, 6378137.0, 6356752.3142451793}}
	EllipsoidMoon  = Ellipsoid{Radii: Vec3{1737400.0, 1737400.0, 1737400.0}}
)

// Matrix4 is a column-major 4x4 matrix.
type Matrix4 [16]float64

// IdentityMatrix4 is the 4x4 identity.
var IdentityMatrix4 = Matrix4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 1, 0,
	0, 0, 0, 1,
}

// Translation returns the translation component of m.
func (m Matrix4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// SceneMode is the projection the scene renders with.
type SceneMode uint8

const (
	SceneMode3D           SceneMode = iota // globe
	SceneMode2D                            // flat map, top-down
	SceneModeColumbusView                  // flat map, perspective
	SceneModeMorphing                      // transitioning between two modes
)

var sceneModeNames = [...]string{"3d", "2d", "columbus", "morphing"}

func (m SceneMode) String() string {
	if int(m) < len(sceneModeNames) {
		return sceneModeNames[m]
	}
	return "SceneMode(" + strconv.Itoa(int(m)) + ")"
}

// UnmarshalText implements encoding.TextUnmarshaler. Morphing is not a valid target.
func (m *SceneMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "3d", "scene3d":
		*m = SceneMode3D
	case "2d", "scene2d":
		*m = SceneMode2D
	case "columbus", "columbus_view", "columbusview":
		*m = SceneModeColumbusView
	default:
		return fmt.Errorf("parse scene mode %q", text)
	}
	return nil
}

// BlendOption selects how a label or billboard collection blends.
type BlendOption uint8

const (
	BlendOpaqueAndTranslucent BlendOption = iota // two passes (default)
	BlendOpaque                                  // single opaque pass
	BlendTranslucent                             // single translucent pass
)

var blendOptionNames = [...]string{"opaque_and_translucent", "opaque", "translucent"}

func (b BlendOption) String() string {
	if int(b) < len(blendOptionNames) {
		return blendOptionNames[b]
	}
	return "BlendOption(" + strconv.Itoa(int(b)) + ")"
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *BlendOption) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, name := range blendOptionNames {
		if s == name {
			*b = BlendOption(i)
			return nil
		}
	}
	return fmt.Errorf("parse blend option %q", text)
}

// ClassificationType selects what a ground primitive drapes over.
type ClassificationType uint8

const (
	ClassifyBoth    ClassificationType = iota // terrain and tilesets
	ClassifyTerrain                           // terrain only
	ClassifyTiles                             // 3D tilesets only
)

var classificationNames = [...]string{"both", "terrain", "tiles"}

func (c ClassificationType) String() string {
	if int(c) < len(classificationNames) {
		return classificationNames[c]
	}
	return "ClassificationType(" + strconv.Itoa(int(c)) + ")"
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ClassificationType) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, name := range classificationNames {
		if s == name {
			*c = ClassificationType(i)
			return nil
		}
	}
	return fmt.Errorf("parse classification type %q", text)
}

// EventType identifies a kind of pointer interaction on a picked primitive.
type EventType uint8

const (
	EventMouseDown   EventType = iota // a button was pressed over the target
	EventMouseUp                      // a button was released over the target
	EventMouseMove                    // the pointer moved over the target
	EventClick                        // left press then release over the same target
	EventDoubleClick                  // two clicks on the same target within the double-click window
	EventRightClick                   // right press then release over the same target
	EventMouseEnter                   // the pointer entered the target
	EventMouseLeave                   // the pointer left the target
)

var eventTypeNames = [...]string{
	"mouseDown", "mouseUp", "mouseMove", "click",
	"doubleClick", "rightClick", "mouseEnter", "mouseLeave",
}

// String returns the event name used on shared event buses ("click", "mouseEnter", ...).
func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "EventType(" + strconv.Itoa(int(t)) + ")"
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)
