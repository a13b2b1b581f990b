package components

import (
	"github.com/phanxgames/canopy"
	"github.com/phanxgames/canopy/bind"
)

// SkyAtmosphere configures the scene's existing atmosphere. On unmount the
// scene gets a default atmosphere back.
var SkyAtmosphere = bind.Define(&bind.Schema[*canopy.SkyAtmosphere]{
	Name: "SkyAtmosphere",
	Props: []string{
		"brightnessShift",
		"hueShift",
		"saturationShift",
		"show",
		"perFragmentAtmosphere",
	},
	PropsAfterCreate: true,
	Create: func(ctx bind.Context, _ bind.Props) (*canopy.SkyAtmosphere, bool) {
		scene, ok := sceneFrom(ctx)
		if !ok || scene.SkyAtmosphere == nil {
			return nil, false
		}
		return scene.SkyAtmosphere, true
	},
	Destroy: func(a *canopy.SkyAtmosphere, ctx bind.Context) {
		scene, ok := sceneFrom(ctx)
		if !ok || scene.SkyAtmosphere != a {
			return
		}
		scene.SkyAtmosphere = canopy.NewSkyAtmosphere()
	},
})
