package canopy

import "math"

// DefaultMoonTextureURL is the texture a default Moon loads.
const DefaultMoonTextureURL = "assets/textures/moon-small.jpg"

// MoonOptions configures NewMoon.
type MoonOptions struct {
	Show            bool      `prop:"show"`
	TextureURL      string    `prop:"textureUrl"`
	OnlySunLighting bool      `prop:"onlySunLighting"`
	Ellipsoid       Ellipsoid `prop:"ellipsoid"`
}

// DefaultMoonOptions returns the library defaults.
func DefaultMoonOptions() MoonOptions {
	return MoonOptions{
		Show:            true,
		TextureURL:      DefaultMoonTextureURL,
		OnlySunLighting: true,
		Ellipsoid:       EllipsoidMoon,
	}
}

// Moon draws the moon. A scene always has exactly one.
type Moon struct {
	Show            bool   `prop:"show"`
	TextureURL      string `prop:"textureUrl"`
	OnlySunLighting bool   `prop:"onlySunLighting"`
	// Ellipsoid is fixed at construction.
	Ellipsoid Ellipsoid `prop:"ellipsoid"`

	loadedTexture string
	textureLoads  int
	destroyed     bool
}

// NewMoon creates a moon from opts.
func NewMoon(opts MoonOptions) *Moon {
	return &Moon{
		Show:            opts.Show,
		TextureURL:      opts.TextureURL,
		OnlySunLighting: opts.OnlySunLighting,
		Ellipsoid:       opts.Ellipsoid,
	}
}

// LoadedTexture returns the texture URL currently resident, which trails
// TextureURL until the next frame.
func (m *Moon) LoadedTexture() string {
	return m.loadedTexture
}

// Destroy releases the moon texture.
func (m *Moon) Destroy() {
	m.destroyed = true
	m.loadedTexture = ""
}

// IsDestroyed reports whether Destroy has been called.
func (m *Moon) IsDestroyed() bool {
	return m.destroyed
}

func (m *Moon) update() {
	if m.destroyed || !m.Show {
		return
	}
	if m.TextureURL != m.loadedTexture {
		m.loadedTexture = m.TextureURL
		m.textureLoads++
	}
}

// SkyAtmosphere draws the atmosphere around the globe limb. A scene always
// has exactly one.
type SkyAtmosphere struct {
	HueShift              float64 `prop:"hueShift"`
	SaturationShift       float64 `prop:"saturationShift"`
	BrightnessShift       float64 `prop:"brightnessShift"`
	Show                  bool    `prop:"show"`
	PerFragmentAtmosphere bool    `prop:"perFragmentAtmosphere"`
}

// NewSkyAtmosphere creates a visible atmosphere with no color shifts.
func NewSkyAtmosphere() *SkyAtmosphere {
	return &SkyAtmosphere{Show: true}
}

// tint returns the sky color after hue, saturation and brightness shifts.
func (a *SkyAtmosphere) tint(base Color) Color {
	h, s, v := rgbToHSV(base)
	if shift := a.HueShift; !math.IsInf(shift, 0) && !math.IsNaN(shift) {
		h = math.Mod(h+shift, 1)
		if h < 0 {
			h++
		}
		// h+1 rounds to 1 for tiny negative h.
		if h >= 1 {
			h = 0
		}
	}
	s = clamp01(s + a.SaturationShift)
	v = clamp01(v + a.BrightnessShift)
	c := hsvToRGB(h, s, v)
	c.A = base.A
	return c
}

// Sun draws the sun.
type Sun struct {
	Show       bool    `prop:"show"`
	GlowFactor float64 `prop:"glowFactor"`
}

// NewSun creates a visible sun with the default glow.
func NewSun() *Sun {
	return &Sun{Show: true, GlowFactor: 1}
}

// Fog blends distant geometry toward the sky color.
type Fog struct {
	Enabled                bool    `prop:"enabled"`
	Density                float64 `prop:"density"`
	ScreenSpaceErrorFactor float64 `prop:"screenSpaceErrorFactor"`
	MinimumBrightness      float64 `prop:"minimumBrightness"`
}

// NewFog creates the default fog.
func NewFog() *Fog {
	return &Fog{Enabled: true, Density: 2.0e-4, ScreenSpaceErrorFactor: 2, MinimumBrightness: 0.03}
}

// DirectionalLight lights the scene from a fixed direction.
type DirectionalLight struct {
	Direction Vec3    `prop:"direction"`
	Color     Color   `prop:"color"`
	Intensity float64 `prop:"intensity"`
}

// NewSunLight returns the light a scene starts with.
func NewSunLight() *DirectionalLight {
	return &DirectionalLight{Direction: Vec3{0, 0, -1}, Color: ColorWhite, Intensity: 2}
}

// TerrainProvider supplies surface heights.
type TerrainProvider interface {
	// Name identifies the provider in diagnostics.
	Name() string
	// HeightAt returns the surface height in meters.
	HeightAt(lon, lat float64) float64
}

// EllipsoidTerrainProvider is a flat provider with zero height everywhere.
type EllipsoidTerrainProvider struct {
	Ellipsoid Ellipsoid
}

// Name implements TerrainProvider.
func (p *EllipsoidTerrainProvider) Name() string { return "ellipsoid" }

// HeightAt implements TerrainProvider.
func (p *EllipsoidTerrainProvider) HeightAt(_, _ float64) float64 { return 0 }

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}

func rgbToHSV(c Color) (h, s, v float64) {
	hi := max(c.R, c.G, c.B)
	lo := min(c.R, c.G, c.B)
	v = hi
	d := hi - lo
	if hi > 0 {
		s = d / hi
	}
	if d == 0 {
		return 0, s, v
	}
	switch hi {
	case c.R:
		h = (c.G - c.B) / d
		if c.G < c.B {
			h += 6
		}
	case c.G:
		h = (c.B-c.R)/d + 2
	default:
		h = (c.R-c.G)/d + 4
	}
	return h / 6, s, v
}

func hsvToRGB(h, s, v float64) Color {
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)
	switch i % 6 {
	case 0:
		return Color{v, t, p, 1}
	case 1:
		return Color{q, v, p, 1}
	case 2:
		return Color{p, v, t, 1}
	case 3:
		return Color{p, q, v, 1}
	case 4:
		return Color{t, p, v, 1}
	default:
		return Color{v, p, q, 1}
	}
}
