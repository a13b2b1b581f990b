// Package tree reconciles a declarative element tree against mounted
// component instances.
//
// Each Render compares the new elements with the previous render, sibling
// by sibling. An element matches a previous one with the same component and
// key; unkeyed elements match by their position among unkeyed siblings of
// the same component. Matched instances are updated, unmatched previous
// instances are unmounted (children first) and new elements are mounted
// (parents first, so a child sees the context its parent provides).
package tree

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/phanxgames/canopy/bind"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/phanxgames/canopy/tree"

// ErrNilComponent is reported for elements without a component.
var ErrNilComponent = errors.New("element has no component")

// Element is one node of a declared tree.
type Element struct {
	Component bind.Component
	// Key distinguishes siblings of the same component across renders.
	Key      string
	Props    bind.Props
	Children []Element
}

// E builds an element.
func E(c bind.Component, props bind.Props, children ...Element) Element {
	return Element{Component: c, Props: props, Children: children}
}

// WithKey returns a copy of e with the given key.
func (e Element) WithKey(key string) Element {
	e.Key = key
	return e
}

// RenderStats counts what one Render did.
type RenderStats struct {
	Mounted   int
	Updated   int
	Unmounted int
	// Skipped elements could not mount; they are retried on the next Render.
	Skipped int
}

type node struct {
	id        string
	component bind.Component
	key       string
	inst      *bind.Instance
	children  []*node
}

// Root owns the instances of one declared tree. Its methods are safe for
// concurrent use.
type Root struct {
	mu     sync.Mutex
	engine *bind.Engine
	ctx    bind.Context
	tracer trace.Tracer
	nodes  []*node
}

// Option configures a Root.
type Option func(*Root)

// WithTracer sets the tracer used for render spans. The default comes from
// the global otel provider.
func WithTracer(t trace.Tracer) Option {
	return func(r *Root) { r.tracer = t }
}

// NewRoot returns an empty root that mounts top-level elements with ctx.
func NewRoot(engine *bind.Engine, ctx bind.Context, opts ...Option) *Root {
	r := &Root{engine: engine, ctx: ctx}
	for _, opt := range opts {
		opt(r)
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer(tracerName)
	}
	return r
}

// Render reconciles the tree against elems. Elements without a component
// are skipped and reported in the returned error.
func (r *Root) Render(ctx context.Context, elems ...Element) (RenderStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, span := r.tracer.Start(ctx, "canopy.tree.render",
		trace.WithAttributes(attribute.Int("canopy.elements", len(elems))))
	defer span.End()

	var rc reconciler
	rc.engine = r.engine
	r.nodes = rc.children(r.ctx, r.nodes, elems)
	err := errors.Join(rc.errs...)

	span.SetAttributes(
		attribute.Int("canopy.mounted", rc.stats.Mounted),
		attribute.Int("canopy.updated", rc.stats.Updated),
		attribute.Int("canopy.unmounted", rc.stats.Unmounted),
		attribute.Int("canopy.skipped", rc.stats.Skipped),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return rc.stats, err
}

// Unmount tears down every instance. The root can be rendered again.
func (r *Root) Unmount(ctx context.Context) RenderStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, span := r.tracer.Start(ctx, "canopy.tree.unmount")
	defer span.End()

	var rc reconciler
	rc.engine = r.engine
	for _, n := range r.nodes {
		rc.unmount(n)
	}
	r.nodes = nil
	span.SetAttributes(attribute.Int("canopy.unmounted", rc.stats.Unmounted))
	return rc.stats
}

type reconciler struct {
	engine *bind.Engine
	stats  RenderStats
	errs   []error
}

// children reconciles one sibling list and returns the new node list.
func (rc *reconciler) children(ctx bind.Context, old []*node, elems []Element) []*node {
	byID := make(map[string]*node, len(old))
	for _, n := range old {
		byID[n.id] = n
	}

	ids := make([]string, len(elems))
	seen := make(map[string]int, len(elems))
	for i, el := range elems {
		if el.Component == nil {
			continue
		}
		base := el.Component.ComponentName()
		if el.Key != "" {
			base += "#" + el.Key
		}
		ids[i] = base + "@" + strconv.Itoa(seen[base])
		seen[base]++
	}

	keep := make(map[*node]bool, len(elems))
	for _, id := range ids {
		if n, ok := byID[id]; ok {
			keep[n] = true
		}
	}
	for _, n := range old {
		if !keep[n] {
			rc.unmount(n)
		}
	}

	next := make([]*node, 0, len(elems))
	for i, el := range elems {
		if el.Component == nil {
			rc.errs = append(rc.errs, fmt.Errorf("element %d (key %q): %w", i, el.Key, ErrNilComponent))
			continue
		}
		n, ok := byID[ids[i]]
		if !ok {
			n = &node{id: ids[i], component: el.Component, key: el.Key}
		}
		rc.render(ctx, n, el)
		next = append(next, n)
	}
	return next
}

func (rc *reconciler) render(ctx bind.Context, n *node, el Element) {
	if n.inst != nil && n.inst.Mounted() {
		rc.engine.Update(n.inst, el.Props)
		rc.stats.Updated++
	} else {
		n.inst = rc.engine.Mount(n.component, ctx, el.Props)
		if n.inst == nil {
			rc.stats.Skipped++
			return
		}
		rc.stats.Mounted++
	}
	n.children = rc.children(n.inst.Context(), n.children, el.Children)
}

// unmount tears down n's subtree, children first.
func (rc *reconciler) unmount(n *node) {
	for i := len(n.children) - 1; i >= 0; i-- {
		rc.unmount(n.children[i])
	}
	n.children = nil
	if n.inst != nil && n.inst.Mounted() {
		rc.engine.Unmount(n.inst)
		rc.stats.Unmounted++
	}
	n.inst = nil
}
