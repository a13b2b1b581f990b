package components

import (
	"github.com/phanxgames/canopy"
	"github.com/phanxgames/canopy/bind"
)

// Moon replaces the scene's moon while mounted. On unmount the scene gets a
// default moon back.
var Moon = bind.Define(&bind.Schema[*canopy.Moon]{
	Name:          "Moon",
	Props:         []string{"onlySunLighting", "show", "textureUrl"},
	ReadonlyProps: []string{"ellipsoid"},
	Create: func(ctx bind.Context, props bind.Props) (*canopy.Moon, bool) {
		scene, ok := sceneFrom(ctx)
		if !ok {
			return nil, false
		}
		opts := canopy.DefaultMoonOptions()
		populate(ctx, "Moon", &opts, props)
		m := canopy.NewMoon(opts)
		scene.Moon = m
		return m, true
	},
	Destroy: func(m *canopy.Moon, ctx bind.Context) {
		scene, ok := sceneFrom(ctx)
		// Leave a moon installed by someone else alone.
		if !ok || scene.Moon != m {
			return
		}
		scene.Moon = canopy.NewMoon(canopy.DefaultMoonOptions())
	},
})
