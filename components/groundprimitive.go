package components

import (
	"github.com/phanxgames/canopy"
	"github.com/phanxgames/canopy/bind"
)

// readyEvent is the bus event dispatched once a ground primitive is ready.
const readyEvent = "ready"

// GroundPrimitive drapes geometry over the globe inside the enclosing
// primitive collection.
//
// Pointer events and onReady are delivered through the shared event bus.
// Pointer callbacks receive (canopy.InteractionEvent, canopy.Primitive);
// onReady receives the *canopy.GroundPrimitive.
var GroundPrimitive = bind.Define(&bind.Schema[*canopy.GroundPrimitive]{
	Name: "GroundPrimitive",
	Props: []string{
		"appearance",
		"classificationType",
		"debugShowBoundingVolume",
		"debugShowShadowVolume",
		"depthFailAppearance",
		"show",
	},
	ReadonlyProps: []string{
		"allowPicking",
		"asynchronous",
		"compressVertices",
		"geometryInstances",
		"interleave",
		"releaseGeometryInstances",
		"vertexCacheOptimize",
	},
	EventProps: map[string]string{
		"onClick":       canopy.EventClick.String(),
		"onDoubleClick": canopy.EventDoubleClick.String(),
		"onMouseDown":   canopy.EventMouseDown.String(),
		"onMouseUp":     canopy.EventMouseUp.String(),
		"onMouseMove":   canopy.EventMouseMove.String(),
		"onMouseEnter":  canopy.EventMouseEnter.String(),
		"onMouseLeave":  canopy.EventMouseLeave.String(),
		"onRightClick":  canopy.EventRightClick.String(),
		"onReady":       readyEvent,
	},
	UseSharedEventBus: true,
	Create: func(ctx bind.Context, props bind.Props) (*canopy.GroundPrimitive, bool) {
		coll, ok := collectionFrom(ctx)
		if !ok {
			return nil, false
		}
		opts := canopy.DefaultGroundPrimitiveOptions()
		populate(ctx, "GroundPrimitive", &opts, props)
		p := canopy.NewGroundPrimitive(opts)
		if bus, ok := bind.EventBusKey.From(ctx); ok {
			// Dispatch rather than call onReady directly so the callback
			// current at ready time runs.
			p.WhenReady(func(p *canopy.GroundPrimitive) {
				bus.Dispatch(p, readyEvent, p)
			})
		}
		coll.Add(p)
		return p, true
	},
	Destroy: func(p *canopy.GroundPrimitive, ctx bind.Context) {
		detach(ctx, p)
	},
})
