package components

import (
	"github.com/phanxgames/canopy"
	"github.com/phanxgames/canopy/bind"
)

// DefaultMorphDuration is used when "mode" changes and "morphDuration" is unset.
const DefaultMorphDuration = 2.0

// Scene applies its props to the scene in context. It never creates or
// destroys the scene.
//
// Besides the native properties it accepts "mode" (a canopy.SceneMode or its
// name) and "morphDuration" in seconds; changing mode morphs the scene.
var Scene = bind.Define(&bind.Schema[*canopy.Scene]{
	Name: "Scene",
	Props: []string{
		"backgroundColor",
		"completeMorphOnUserInput",
		"debugShowFramesPerSecond",
		"eyeSeparation",
		"farToNearRatio",
		"focalLength",
		"fog",
		"fxaa",
		"highDynamicRange",
		"light",
		"maximumRenderTimeChange",
		"moon",
		"morphTime",
		"requestRenderMode",
		"rethrowRenderErrors",
		"skyAtmosphere",
		"sun",
		"sunBloom",
		"terrainProvider",
		"useDepthPicking",
	},
	EventProps: map[string]string{
		"onMorphComplete":         "morphComplete",
		"onMorphStart":            "morphStart",
		"onPostRender":            "postRender",
		"onPreRender":             "preRender",
		"onPreUpdate":             "preUpdate",
		"onRenderError":           "renderError",
		"onTerrainProviderChange": "terrainProviderChanged",
	},
	// The root collection is structural; children reach it through context.
	IgnoredProps:     []string{"primitives"},
	PropsAfterCreate: true,
	Create: func(ctx bind.Context, props bind.Props) (*canopy.Scene, bool) {
		scene, ok := sceneFrom(ctx)
		if !ok {
			return nil, false
		}
		if mode, ok := bind.As[canopy.SceneMode](props, "mode"); ok {
			morph(scene, mode, props)
		}
		return scene, true
	},
	Update: func(scene *canopy.Scene, props, prev bind.Props) {
		mode, ok := bind.As[canopy.SceneMode](props, "mode")
		if !ok {
			return
		}
		if old, had := bind.As[canopy.SceneMode](prev, "mode"); had && old == mode {
			return
		}
		morph(scene, mode, props)
	},
})

func morph(scene *canopy.Scene, mode canopy.SceneMode, props bind.Props) {
	duration, ok := bind.As[float64](props, "morphDuration")
	if !ok {
		duration = DefaultMorphDuration
	}
	switch mode {
	case canopy.SceneMode2D:
		scene.MorphTo2D(duration)
	case canopy.SceneModeColumbusView:
		scene.MorphToColumbusView(duration)
	case canopy.SceneMode3D:
		scene.MorphTo3D(duration)
	}
}
