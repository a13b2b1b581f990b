package components

import (
	"github.com/phanxgames/canopy"
	"github.com/phanxgames/canopy/bind"
)

// PrimitiveCollection adds a nested collection to the enclosing one and
// becomes the enclosing collection of its children.
var PrimitiveCollection = bind.Define(&bind.Schema[*canopy.PrimitiveCollection]{
	Name:  "PrimitiveCollection",
	Props: []string{"show"},
	// Ownership of members is fixed when the collection is created.
	ReadonlyProps: []string{"destroyPrimitives"},
	Create: func(ctx bind.Context, props bind.Props) (*canopy.PrimitiveCollection, bool) {
		parent, ok := collectionFrom(ctx)
		if !ok {
			return nil, false
		}
		c := canopy.NewPrimitiveCollection()
		populate(ctx, "PrimitiveCollection", c, props)
		parent.Add(c)
		return c, true
	},
	Destroy: func(c *canopy.PrimitiveCollection, ctx bind.Context) {
		detach(ctx, c)
	},
	Provide: func(c *canopy.PrimitiveCollection, ctx bind.Context, _ bind.Props) bind.Context {
		return PrimitiveCollectionKey.With(ctx, c)
	},
})
