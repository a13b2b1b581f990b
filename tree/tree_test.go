package tree

import (
	"context"
	"errors"
	"testing"

	"github.com/phanxgames/canopy"
	"github.com/phanxgames/canopy/bind"
	"github.com/phanxgames/canopy/components"
)

func newRoot() (*canopy.Scene, *Root) {
	s := canopy.NewScene()
	s.SetViewport(360, 180)
	return s, NewRoot(bind.NewEngine(), components.Attach(s))
}

func ground(west float64) Element {
	return E(components.GroundPrimitive, bind.Props{
		"asynchronous": false,
		"geometryInstances": []canopy.GeometryInstance{
			{Rectangle: canopy.Rectangle{West: west, South: 0, East: west + 10, North: 10}},
		},
	})
}

func mustRender(t *testing.T, r *Root, elems ...Element) RenderStats {
	t.Helper()
	stats, err := r.Render(context.Background(), elems...)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return stats
}

// --- Mount / update ---

func TestRenderMountsParentsFirst(t *testing.T) {
	s, r := newRoot()
	stats := mustRender(t, r,
		E(components.PrimitiveCollection, nil,
			ground(0),
			ground(20),
		),
	)
	if stats.Mounted != 3 || stats.Skipped != 0 {
		t.Fatalf("stats = %+v, want 3 mounted", stats)
	}
	if s.Primitives.Len() != 1 {
		t.Fatalf("root Len = %d, want 1", s.Primitives.Len())
	}
	c := s.Primitives.Get(0).(*canopy.PrimitiveCollection)
	if c.Len() != 2 {
		t.Errorf("nested Len = %d, want 2", c.Len())
	}
}

func TestRenderIdempotent(t *testing.T) {
	_, r := newRoot()
	tree := []Element{
		E(components.Scene, bind.Props{"fxaa": false}),
		E(components.LabelCollection, nil,
			E(components.Label, bind.Props{"text": "a"}),
		),
	}
	mustRender(t, r, tree...)
	before := r.Snapshot()
	stats := mustRender(t, r, tree...)
	if stats.Mounted != 0 || stats.Unmounted != 0 || stats.Updated != 3 {
		t.Errorf("stats = %+v, want 3 updates only", stats)
	}
	after := r.Snapshot()
	if len(before) != len(after) || after[1].Children[0].Native != "*canopy.Label" {
		t.Errorf("snapshot changed: %+v -> %+v", before, after)
	}
}

func TestRenderUpdatesMatchedInstance(t *testing.T) {
	s, r := newRoot()
	mustRender(t, r, E(components.LabelCollection, nil,
		E(components.Label, bind.Props{"text": "a"}),
	))
	lc := s.Primitives.Get(0).(*canopy.LabelCollection)
	l := lc.Get(0)

	mustRender(t, r, E(components.LabelCollection, nil,
		E(components.Label, bind.Props{"text": "b"}),
	))
	if lc.Len() != 1 || lc.Get(0) != l {
		t.Fatal("label should be updated in place")
	}
	if l.Text != "b" {
		t.Errorf("Text = %q, want b", l.Text)
	}
}

// --- Keys ---

func TestRenderKeyedReorder(t *testing.T) {
	s, r := newRoot()
	mustRender(t, r,
		ground(0).WithKey("a"),
		ground(20).WithKey("b"),
	)
	a := s.Primitives.Get(0)
	b := s.Primitives.Get(1)

	stats := mustRender(t, r,
		ground(20).WithKey("b"),
		ground(0).WithKey("a"),
	)
	if stats.Mounted != 0 || stats.Unmounted != 0 {
		t.Errorf("stats = %+v, want no remounts", stats)
	}
	if !s.Primitives.Contains(a) || !s.Primitives.Contains(b) {
		t.Error("keyed primitives should survive a reorder")
	}
}

func TestRenderKeyChangeRemounts(t *testing.T) {
	s, r := newRoot()
	mustRender(t, r, ground(0).WithKey("a"))
	old := s.Primitives.Get(0).(*canopy.GroundPrimitive)

	stats := mustRender(t, r, ground(0).WithKey("b"))
	if stats.Mounted != 1 || stats.Unmounted != 1 {
		t.Errorf("stats = %+v, want one remount", stats)
	}
	if !old.IsDestroyed() || s.Primitives.Contains(old) {
		t.Error("old primitive should be removed and destroyed")
	}
	if s.Primitives.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Primitives.Len())
	}
}

// --- Unmount ---

func TestRenderRemovesSubtree(t *testing.T) {
	s, r := newRoot()
	mustRender(t, r, E(components.PrimitiveCollection, nil, ground(0)))
	c := s.Primitives.Get(0).(*canopy.PrimitiveCollection)
	p := c.Get(0).(*canopy.GroundPrimitive)

	stats := mustRender(t, r)
	if stats.Unmounted != 2 {
		t.Errorf("Unmounted = %d, want 2", stats.Unmounted)
	}
	if !c.IsDestroyed() || !p.IsDestroyed() {
		t.Error("subtree should be destroyed")
	}
	if s.Primitives.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Primitives.Len())
	}
}

func TestUnmountRestoresSingletons(t *testing.T) {
	s, r := newRoot()
	mustRender(t, r,
		E(components.Moon, bind.Props{"show": false}),
		E(components.SkyAtmosphere, bind.Props{"hueShift": 0.25}),
	)
	if s.Moon.Show || s.SkyAtmosphere.HueShift != 0.25 {
		t.Fatal("singletons not configured")
	}
	stats := r.Unmount(context.Background())
	if stats.Unmounted != 2 {
		t.Errorf("Unmounted = %d, want 2", stats.Unmounted)
	}
	if !s.Moon.Show || s.SkyAtmosphere.HueShift != 0 {
		t.Error("singletons should be restored to defaults")
	}
	if got := r.Snapshot(); len(got) != 0 {
		t.Errorf("Snapshot after Unmount = %+v", got)
	}
	r.Unmount(context.Background())
}

func TestUnmountAfterSceneDestroyed(t *testing.T) {
	s, r := newRoot()
	mustRender(t, r,
		E(components.Moon, nil),
		E(components.PrimitiveCollection, nil, ground(0)),
	)
	s.Destroy()
	stats := r.Unmount(context.Background())
	if stats.Unmounted != 3 {
		t.Errorf("Unmounted = %d, want 3", stats.Unmounted)
	}
}

// --- Skips and errors ---

func TestRenderSkipsAndRetries(t *testing.T) {
	s := canopy.NewScene()
	r := NewRoot(bind.NewEngine(), bind.Background())
	stats := mustRender(t, r, E(components.Moon, nil))
	if stats.Skipped != 1 {
		t.Fatalf("Skipped = %d, want 1", stats.Skipped)
	}
	if info := r.Snapshot(); len(info) != 1 || info[0].Mounted {
		t.Errorf("Snapshot = %+v, want one unmounted node", info)
	}

	r.ctx = components.Attach(s)
	stats = mustRender(t, r, E(components.Moon, nil))
	if stats.Mounted != 1 {
		t.Errorf("Mounted = %d, want 1 on retry", stats.Mounted)
	}
}

func TestRenderSkippedParentRendersNoChildren(t *testing.T) {
	r := NewRoot(bind.NewEngine(), bind.Background())
	stats := mustRender(t, r, E(components.LabelCollection, nil,
		E(components.Label, bind.Props{"text": "x"}),
	))
	if stats.Skipped != 1 || stats.Mounted != 0 {
		t.Errorf("stats = %+v, want the parent skipped and no child attempted", stats)
	}
}

func TestRenderNilComponent(t *testing.T) {
	_, r := newRoot()
	stats, err := r.Render(context.Background(), Element{Key: "x"}, ground(0))
	if !errors.Is(err, ErrNilComponent) {
		t.Errorf("err = %v, want ErrNilComponent", err)
	}
	if stats.Mounted != 1 {
		t.Errorf("Mounted = %d, want 1", stats.Mounted)
	}
}

// --- Snapshot ---

func TestWalk(t *testing.T) {
	_, r := newRoot()
	mustRender(t, r, E(components.LabelCollection, nil,
		E(components.Label, bind.Props{"text": "a"}).WithKey("first"),
	))
	var got []string
	var depths []int
	r.Walk(func(depth int, info NodeInfo) {
		got = append(got, info.Component+"/"+info.Key)
		depths = append(depths, depth)
	})
	if len(got) != 2 || got[0] != "LabelCollection/" || got[1] != "Label/first" {
		t.Errorf("walk = %v", got)
	}
	if len(depths) != 2 || depths[0] != 0 || depths[1] != 1 {
		t.Errorf("depths = %v, want [0 1]", depths)
	}
}
