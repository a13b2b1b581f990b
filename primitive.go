package canopy

// Primitive is anything that can live in a PrimitiveCollection.
type Primitive interface {
	// IsDestroyed reports whether Destroy has been called.
	IsDestroyed() bool
	// Destroy releases the primitive. Further use other than IsDestroyed is invalid.
	Destroy()

	update(frame *frameState)
	pick(lon, lat float64) Primitive
}

// frameState is handed to every primitive once per Scene.Update.
type frameState struct {
	scene       *Scene
	dt          float64
	frameNumber uint64
}

// PrimitiveCollection is an ordered group of primitives. Collections nest.
type PrimitiveCollection struct {
	Show bool `prop:"show"`
	// DestroyPrimitives destroys primitives when they are removed or when the
	// collection itself is destroyed.
	DestroyPrimitives bool `prop:"destroyPrimitives"`

	primitives []Primitive
	parent     *PrimitiveCollection
	destroyed  bool
}

// NewPrimitiveCollection creates an empty, visible collection that destroys
// its primitives on removal.
func NewPrimitiveCollection() *PrimitiveCollection {
	return &PrimitiveCollection{Show: true, DestroyPrimitives: true}
}

// Add appends p and returns it.
// Panics if p is nil, already destroyed, or would create a cycle.
func (c *PrimitiveCollection) Add(p Primitive) Primitive {
	if p == nil {
		panic("canopy: cannot add nil primitive")
	}
	if globalDebug {
		debugCheckDestroyed(c, "Add (collection)")
	}
	if p.IsDestroyed() {
		panic("canopy: cannot add destroyed primitive")
	}
	if child, ok := p.(*PrimitiveCollection); ok {
		if isAncestor(child, c) {
			panic("canopy: adding collection would create a cycle")
		}
		if child.parent != nil {
			child.parent.removeByPtr(child)
		}
		child.parent = c
	}
	c.primitives = append(c.primitives, p)
	if globalDebug {
		debugCheckCount(c)
	}
	return p
}

// Remove detaches p and, if DestroyPrimitives is set, destroys it.
// Returns false if p is not in the collection.
func (c *PrimitiveCollection) Remove(p Primitive) bool {
	if globalDebug {
		debugCheckDestroyed(c, "Remove")
	}
	if !c.removeByPtr(p) {
		return false
	}
	if child, ok := p.(*PrimitiveCollection); ok {
		child.parent = nil
	}
	if c.DestroyPrimitives && !p.IsDestroyed() {
		p.Destroy()
	}
	return true
}

// RemoveAll removes every primitive, destroying them if DestroyPrimitives is set.
func (c *PrimitiveCollection) RemoveAll() {
	prims := c.primitives
	c.primitives = nil
	for _, p := range prims {
		if child, ok := p.(*PrimitiveCollection); ok {
			child.parent = nil
		}
		if c.DestroyPrimitives && !p.IsDestroyed() {
			p.Destroy()
		}
	}
}

// Contains reports whether p is a direct member of the collection.
func (c *PrimitiveCollection) Contains(p Primitive) bool {
	for _, q := range c.primitives {
		if q == p {
			return true
		}
	}
	return false
}

// Len returns the number of direct members.
func (c *PrimitiveCollection) Len() int {
	return len(c.primitives)
}

// Get returns the member at index.
func (c *PrimitiveCollection) Get(index int) Primitive {
	return c.primitives[index]
}

// Destroy detaches the collection from its parent, marks it destroyed and,
// if DestroyPrimitives is set, destroys every member.
func (c *PrimitiveCollection) Destroy() {
	if c.destroyed {
		return
	}
	if c.parent != nil {
		c.parent.removeByPtr(c)
		c.parent = nil
	}
	c.RemoveAll()
	c.destroyed = true
}

// IsDestroyed reports whether Destroy has been called.
func (c *PrimitiveCollection) IsDestroyed() bool {
	return c.destroyed
}

func (c *PrimitiveCollection) update(frame *frameState) {
	if c.destroyed {
		return
	}
	// Members may remove themselves from ready callbacks; iterate a snapshot.
	prims := append([]Primitive(nil), c.primitives...)
	for _, p := range prims {
		if !p.IsDestroyed() {
			p.update(frame)
		}
	}
}

// pick returns the topmost member under the position, last added first.
func (c *PrimitiveCollection) pick(lon, lat float64) Primitive {
	if c.destroyed || !c.Show {
		return nil
	}
	for i := len(c.primitives) - 1; i >= 0; i-- {
		if hit := c.primitives[i].pick(lon, lat); hit != nil {
			return hit
		}
	}
	return nil
}

// removeByPtr removes p from c.primitives without touching its state.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (c *PrimitiveCollection) removeByPtr(p Primitive) bool {
	for i, q := range c.primitives {
		if q == p {
			copy(c.primitives[i:], c.primitives[i+1:])
			c.primitives[len(c.primitives)-1] = nil
			c.primitives = c.primitives[:len(c.primitives)-1]
			return true
		}
	}
	return false
}

// isAncestor reports whether candidate is c or one of its ancestors.
func isAncestor(candidate, c *PrimitiveCollection) bool {
	for p := c; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}
