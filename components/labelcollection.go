package components

import (
	"github.com/phanxgames/canopy"
	"github.com/phanxgames/canopy/bind"
)

// LabelCollection adds a label collection to the enclosing primitive
// collection. Label children attach to it.
var LabelCollection = bind.Define(&bind.Schema[*canopy.LabelCollection]{
	Name:  "LabelCollection",
	Props: []string{"blendOption", "debugShowBoundingVolume", "modelMatrix"},
	Create: func(ctx bind.Context, props bind.Props) (*canopy.LabelCollection, bool) {
		scene, ok := sceneFrom(ctx)
		if !ok {
			return nil, false
		}
		coll, ok := collectionFrom(ctx)
		if !ok {
			return nil, false
		}
		opts := canopy.DefaultLabelCollectionOptions()
		populate(ctx, "LabelCollection", &opts, props)
		opts.Scene = scene
		lc := canopy.NewLabelCollection(opts)
		coll.Add(lc)
		return lc, true
	},
	Destroy: func(lc *canopy.LabelCollection, ctx bind.Context) {
		detach(ctx, lc)
	},
	Provide: func(lc *canopy.LabelCollection, ctx bind.Context, _ bind.Props) bind.Context {
		return LabelCollectionKey.With(ctx, lc)
	},
})

// Label adds one label to the enclosing label collection.
var Label = bind.Define(&bind.Schema[*canopy.Label]{
	Name: "Label",
	Props: []string{
		"show",
		"text",
		"position",
		"fillColor",
		"outlineColor",
		"scale",
		"font",
		"pixelOffset",
		"id",
	},
	Create: func(ctx bind.Context, props bind.Props) (*canopy.Label, bool) {
		lc, ok := LabelCollectionKey.From(ctx)
		if !ok || lc.IsDestroyed() {
			return nil, false
		}
		opts := canopy.DefaultLabelOptions()
		populate(ctx, "Label", &opts, props)
		return lc.Add(opts), true
	},
	Destroy: func(l *canopy.Label, ctx bind.Context) {
		lc, ok := LabelCollectionKey.From(ctx)
		if ok && !lc.IsDestroyed() {
			lc.Remove(l)
		}
	},
})
