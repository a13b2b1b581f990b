package canopy

// LabelOptions configures a label added to a LabelCollection.
type LabelOptions struct {
	Show         bool         `prop:"show"`
	Text         string       `prop:"text"`
	Position     Cartographic `prop:"position"`
	FillColor    Color        `prop:"fillColor"`
	OutlineColor Color        `prop:"outlineColor"`
	Scale        float64      `prop:"scale"`
	Font         string       `prop:"font"`
	PixelOffset  Vec2         `prop:"pixelOffset"`
	ID           any          `prop:"id"`
}

// DefaultLabelOptions returns the library defaults.
func DefaultLabelOptions() LabelOptions {
	return LabelOptions{
		Show:         true,
		FillColor:    ColorWhite,
		OutlineColor: ColorBlack,
		Scale:        1,
		Font:         "30px sans-serif",
	}
}

// Label is a text label owned by a LabelCollection. Labels are created with
// LabelCollection.Add and are invalid once removed.
type Label struct {
	Show         bool         `prop:"show"`
	Text         string       `prop:"text"`
	Position     Cartographic `prop:"position"`
	FillColor    Color        `prop:"fillColor"`
	OutlineColor Color        `prop:"outlineColor"`
	Scale        float64      `prop:"scale"`
	Font         string       `prop:"font"`
	PixelOffset  Vec2         `prop:"pixelOffset"`
	ID           any          `prop:"id"`

	collection *LabelCollection
}

// Collection returns the owning collection, or nil once the label was removed.
func (l *Label) Collection() *LabelCollection {
	return l.collection
}

// LabelCollectionOptions configures NewLabelCollection.
type LabelCollectionOptions struct {
	Scene                   *Scene      `prop:"-"`
	ModelMatrix             Matrix4     `prop:"modelMatrix"`
	BlendOption             BlendOption `prop:"blendOption"`
	DebugShowBoundingVolume bool        `prop:"debugShowBoundingVolume"`
}

// DefaultLabelCollectionOptions returns the library defaults.
func DefaultLabelCollectionOptions() LabelCollectionOptions {
	return LabelCollectionOptions{ModelMatrix: IdentityMatrix4}
}

// LabelCollection is a primitive rendering a batch of labels.
type LabelCollection struct {
	BlendOption             BlendOption `prop:"blendOption"`
	DebugShowBoundingVolume bool        `prop:"debugShowBoundingVolume"`
	ModelMatrix             Matrix4     `prop:"modelMatrix"`

	scene     *Scene
	labels    []*Label
	destroyed bool
}

// NewLabelCollection creates an empty label collection.
func NewLabelCollection(opts LabelCollectionOptions) *LabelCollection {
	return &LabelCollection{
		BlendOption:             opts.BlendOption,
		DebugShowBoundingVolume: opts.DebugShowBoundingVolume,
		ModelMatrix:             opts.ModelMatrix,
		scene:                   opts.Scene,
	}
}

// Add creates a label from opts and appends it.
func (c *LabelCollection) Add(opts LabelOptions) *Label {
	if globalDebug {
		debugCheckDestroyed(c, "Add (label)")
	}
	l := &Label{
		Show:         opts.Show,
		Text:         opts.Text,
		Position:     opts.Position,
		FillColor:    opts.FillColor,
		OutlineColor: opts.OutlineColor,
		Scale:        opts.Scale,
		Font:         opts.Font,
		PixelOffset:  opts.PixelOffset,
		ID:           opts.ID,
		collection:   c,
	}
	c.labels = append(c.labels, l)
	return l
}

// Remove detaches l. Returns false if l is not in the collection.
func (c *LabelCollection) Remove(l *Label) bool {
	if l == nil || l.collection != c {
		return false
	}
	for i, q := range c.labels {
		if q == l {
			copy(c.labels[i:], c.labels[i+1:])
			c.labels[len(c.labels)-1] = nil
			c.labels = c.labels[:len(c.labels)-1]
			l.collection = nil
			return true
		}
	}
	return false
}

// RemoveAll removes every label.
func (c *LabelCollection) RemoveAll() {
	for _, l := range c.labels {
		l.collection = nil
	}
	c.labels = nil
}

// Contains reports whether l belongs to this collection.
func (c *LabelCollection) Contains(l *Label) bool {
	return l != nil && l.collection == c
}

// Len returns the number of labels.
func (c *LabelCollection) Len() int {
	return len(c.labels)
}

// Get returns the label at index.
func (c *LabelCollection) Get(index int) *Label {
	return c.labels[index]
}

// Destroy removes every label and marks the collection destroyed.
func (c *LabelCollection) Destroy() {
	if c.destroyed {
		return
	}
	c.RemoveAll()
	c.scene = nil
	c.destroyed = true
}

// IsDestroyed reports whether Destroy has been called.
func (c *LabelCollection) IsDestroyed() bool {
	return c.destroyed
}

func (c *LabelCollection) update(_ *frameState) {}

// Labels are not pickable.
func (c *LabelCollection) pick(_, _ float64) Primitive {
	return nil
}
