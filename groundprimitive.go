package canopy

// Appearance describes how a primitive is shaded.
type Appearance struct {
	Color       Color `prop:"color"`
	Translucent bool  `prop:"translucent"`
}

// GeometryInstance is one piece of geometry draped by a GroundPrimitive.
type GeometryInstance struct {
	ID        any       `prop:"id"`
	Rectangle Rectangle `prop:"rectangle"`
	Color     Color     `prop:"color"`
}

// GroundPrimitiveOptions configures NewGroundPrimitive.
type GroundPrimitiveOptions struct {
	Appearance               *Appearance        `prop:"appearance"`
	ClassificationType       ClassificationType `prop:"classificationType"`
	DebugShowBoundingVolume  bool               `prop:"debugShowBoundingVolume"`
	DebugShowShadowVolume    bool               `prop:"debugShowShadowVolume"`
	DepthFailAppearance      *Appearance        `prop:"depthFailAppearance"`
	Show                     bool               `prop:"show"`
	AllowPicking             bool               `prop:"allowPicking"`
	Asynchronous             bool               `prop:"asynchronous"`
	CompressVertices         bool               `prop:"compressVertices"`
	GeometryInstances        []GeometryInstance `prop:"geometryInstances"`
	Interleave               bool               `prop:"interleave"`
	ReleaseGeometryInstances bool               `prop:"releaseGeometryInstances"`
	VertexCacheOptimize      bool               `prop:"vertexCacheOptimize"`
}

// DefaultGroundPrimitiveOptions returns the library defaults.
func DefaultGroundPrimitiveOptions() GroundPrimitiveOptions {
	return GroundPrimitiveOptions{
		Show:                     true,
		AllowPicking:             true,
		Asynchronous:             true,
		CompressVertices:         true,
		ReleaseGeometryInstances: true,
		VertexCacheOptimize:      false,
	}
}

// GroundPrimitive drapes geometry instances over the globe surface.
//
// The construction fields (AllowPicking through VertexCacheOptimize) are read
// once, on the first update after construction, when the geometry is built.
// Changing them afterwards has no effect.
type GroundPrimitive struct {
	Appearance              *Appearance        `prop:"appearance"`
	ClassificationType      ClassificationType `prop:"classificationType"`
	DebugShowBoundingVolume bool               `prop:"debugShowBoundingVolume"`
	DebugShowShadowVolume   bool               `prop:"debugShowShadowVolume"`
	DepthFailAppearance     *Appearance        `prop:"depthFailAppearance"`
	Show                    bool               `prop:"show"`

	AllowPicking             bool               `prop:"allowPicking"`
	Asynchronous             bool               `prop:"asynchronous"`
	CompressVertices         bool               `prop:"compressVertices"`
	GeometryInstances        []GeometryInstance `prop:"geometryInstances"`
	Interleave               bool               `prop:"interleave"`
	ReleaseGeometryInstances bool               `prop:"releaseGeometryInstances"`
	VertexCacheOptimize      bool               `prop:"vertexCacheOptimize"`

	built     []GeometryInstance // geometry captured at build time
	pickable  bool
	frames    int
	ready     readiness[*GroundPrimitive]
	destroyed bool
}

// NewGroundPrimitive creates a ground primitive. Geometry is built on the
// first frame; with Asynchronous set it becomes ready one frame later.
func NewGroundPrimitive(opts GroundPrimitiveOptions) *GroundPrimitive {
	return &GroundPrimitive{
		Appearance:               opts.Appearance,
		ClassificationType:       opts.ClassificationType,
		DebugShowBoundingVolume:  opts.DebugShowBoundingVolume,
		DebugShowShadowVolume:    opts.DebugShowShadowVolume,
		DepthFailAppearance:      opts.DepthFailAppearance,
		Show:                     opts.Show,
		AllowPicking:             opts.AllowPicking,
		Asynchronous:             opts.Asynchronous,
		CompressVertices:         opts.CompressVertices,
		GeometryInstances:        opts.GeometryInstances,
		Interleave:               opts.Interleave,
		ReleaseGeometryInstances: opts.ReleaseGeometryInstances,
		VertexCacheOptimize:      opts.VertexCacheOptimize,
	}
}

// Ready reports whether the geometry has been built and uploaded.
func (p *GroundPrimitive) Ready() bool {
	return p.ready.resolved
}

// WhenReady registers fn to run once the primitive is ready. fn always runs
// during a later Scene.Update, never inside WhenReady, and runs at most once.
// Pending continuations are dropped when the primitive is destroyed.
func (p *GroundPrimitive) WhenReady(fn func(*GroundPrimitive)) {
	if p.destroyed || fn == nil {
		return
	}
	p.ready.then(fn)
}

// Bounds returns the union of the built geometry rectangles.
func (p *GroundPrimitive) Bounds() (Rectangle, bool) {
	if len(p.built) == 0 {
		return Rectangle{}, false
	}
	r := p.built[0].Rectangle
	for _, g := range p.built[1:] {
		r.West = min(r.West, g.Rectangle.West)
		r.South = min(r.South, g.Rectangle.South)
		r.East = max(r.East, g.Rectangle.East)
		r.North = max(r.North, g.Rectangle.North)
	}
	return r, true
}

// Destroy releases the geometry and drops pending ready continuations.
func (p *GroundPrimitive) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	p.built = nil
	p.GeometryInstances = nil
	p.ready.cancel()
}

// IsDestroyed reports whether Destroy has been called.
func (p *GroundPrimitive) IsDestroyed() bool {
	return p.destroyed
}

func (p *GroundPrimitive) update(_ *frameState) {
	if p.destroyed {
		return
	}
	p.frames++
	if p.frames == 1 {
		p.built = append([]GeometryInstance(nil), p.GeometryInstances...)
		p.pickable = p.AllowPicking
		if p.ReleaseGeometryInstances {
			p.GeometryInstances = nil
		}
	}
	if !p.ready.resolved && (!p.Asynchronous || p.frames >= 2) {
		p.ready.resolve(p)
	}
	p.ready.flush()
}

func (p *GroundPrimitive) pick(lon, lat float64) Primitive {
	if p.destroyed || !p.Show || !p.pickable || !p.ready.resolved {
		return nil
	}
	for i := range p.built {
		if p.built[i].Rectangle.Contains(lon, lat) {
			return p
		}
	}
	return nil
}

// readiness is a one-shot completion signal with queued continuations.
// Continuations only run from flush, which the owner calls once per frame.
type readiness[T any] struct {
	resolved bool
	value    T
	pending  []func(T)
}

func (r *readiness[T]) then(fn func(T)) {
	r.pending = append(r.pending, fn)
}

func (r *readiness[T]) resolve(v T) {
	r.resolved = true
	r.value = v
}

func (r *readiness[T]) flush() {
	if !r.resolved || len(r.pending) == 0 {
		return
	}
	pending := r.pending
	r.pending = nil
	for _, fn := range pending {
		fn(r.value)
	}
}

func (r *readiness[T]) cancel() {
	r.pending = nil
}
