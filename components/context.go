package components

import (
	"github.com/phanxgames/canopy"
	"github.com/phanxgames/canopy/bind"
)

// Context keys provided by Attach and by container components.
var (
	SceneKey               = bind.NewKey[*canopy.Scene]("scene")
	PrimitiveCollectionKey = bind.NewKey[*canopy.PrimitiveCollection]("primitiveCollection")
	LabelCollectionKey     = bind.NewKey[*canopy.LabelCollection]("labelCollection")
)

// Attach returns the root context for a component tree driving scene: the
// scene, its root primitive collection and a shared event bus. The scene's
// interaction sink is replaced so that pointer events reach the bus.
func Attach(scene *canopy.Scene) bind.Context {
	bus := bind.NewEventBus()
	scene.SetInteractionSink(busSink{bus: bus})
	ctx := SceneKey.With(bind.Background(), scene)
	ctx = PrimitiveCollectionKey.With(ctx, scene.Primitives)
	return bind.EventBusKey.With(ctx, bus)
}

// busSink forwards interaction events to the bus, keyed by the picked
// primitive and the event name. Handlers receive (event, target).
type busSink struct {
	bus *bind.EventBus
}

func (s busSink) EmitEvent(ev canopy.InteractionEvent) {
	s.bus.Dispatch(ev.Target, ev.Type.String(), ev, ev.Target)
}

// sceneFrom returns the live scene in ctx.
func sceneFrom(ctx bind.Context) (*canopy.Scene, bool) {
	scene, ok := SceneKey.From(ctx)
	if !ok || scene.IsDestroyed() {
		return nil, false
	}
	return scene, true
}

// collectionFrom returns the live primitive collection in ctx.
func collectionFrom(ctx bind.Context) (*canopy.PrimitiveCollection, bool) {
	c, ok := PrimitiveCollectionKey.From(ctx)
	if !ok || c.IsDestroyed() {
		return nil, false
	}
	return c, true
}

// populate fills opts from props, logging fields that could not be set.
func populate(ctx bind.Context, component string, opts any, props bind.Props) {
	if err := bind.Populate(opts, props); err != nil {
		log := bind.LoggerFrom(ctx)
		log.Warn().Str("component", component).Err(err).Msg("invalid props")
	}
}

// detach removes p from the collection in ctx, then destroys p. Both steps
// check liveness first.
func detach(ctx bind.Context, p canopy.Primitive) {
	if c, ok := collectionFrom(ctx); ok && c.Contains(p) {
		c.Remove(p)
	}
	if !p.IsDestroyed() {
		p.Destroy()
	}
}
