package canopy

import "testing"

func TestGroundPrimitiveReadyAsync(t *testing.T) {
	opts := DefaultGroundPrimitiveOptions()
	opts.GeometryInstances = []GeometryInstance{{Rectangle: Rectangle{0, 0, 1, 1}}}
	p := NewGroundPrimitive(opts)

	calls := 0
	p.WhenReady(func(got *GroundPrimitive) {
		calls++
		if got != p {
			t.Error("continuation received wrong primitive")
		}
	})
	if calls != 0 {
		t.Fatal("continuation ran synchronously")
	}

	p.update(&frameState{frameNumber: 1})
	if p.Ready() || calls != 0 {
		t.Fatalf("after frame 1: Ready = %v, calls = %d", p.Ready(), calls)
	}
	p.update(&frameState{frameNumber: 2})
	if !p.Ready() || calls != 1 {
		t.Fatalf("after frame 2: Ready = %v, calls = %d", p.Ready(), calls)
	}
	p.update(&frameState{frameNumber: 3})
	if calls != 1 {
		t.Errorf("continuation ran %d times, want 1", calls)
	}
}

func TestGroundPrimitiveWhenReadyAfterReady(t *testing.T) {
	p := readyGround(Rectangle{})
	p.update(&frameState{frameNumber: 1})
	calls := 0
	p.WhenReady(func(*GroundPrimitive) { calls++ })
	if calls != 0 {
		t.Fatal("continuation must not run inside WhenReady")
	}
	p.update(&frameState{frameNumber: 2})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestGroundPrimitiveDestroyDropsContinuation(t *testing.T) {
	opts := DefaultGroundPrimitiveOptions()
	p := NewGroundPrimitive(opts)
	calls := 0
	p.WhenReady(func(*GroundPrimitive) { calls++ })
	p.Destroy()
	p.update(&frameState{frameNumber: 1})
	p.update(&frameState{frameNumber: 2})
	if calls != 0 {
		t.Errorf("continuation ran on destroyed primitive")
	}
	p.WhenReady(func(*GroundPrimitive) { calls++ })
	if len(p.ready.pending) != 0 {
		t.Error("WhenReady on destroyed primitive should be ignored")
	}
}

func TestGroundPrimitiveConstructionFieldsFrozen(t *testing.T) {
	p := readyGround(Rectangle{0, 0, 10, 10})
	p.update(&frameState{frameNumber: 1})

	// Changing construction fields after build has no effect.
	p.AllowPicking = false
	p.GeometryInstances = []GeometryInstance{{Rectangle: Rectangle{50, 50, 60, 60}}}
	p.update(&frameState{frameNumber: 2})

	if got := p.pick(5, 5); got != p {
		t.Error("pick should still use build-time geometry and picking")
	}
	if got := p.pick(55, 55); got != nil {
		t.Error("geometry changed after build was used")
	}
}

func TestGroundPrimitiveReleaseGeometry(t *testing.T) {
	p := readyGround(Rectangle{0, 0, 1, 1})
	p.update(&frameState{frameNumber: 1})
	if p.GeometryInstances != nil {
		t.Error("GeometryInstances should be released after build")
	}
	if r, ok := p.Bounds(); !ok || r != (Rectangle{0, 0, 1, 1}) {
		t.Errorf("Bounds = %v, %v", r, ok)
	}
}

func TestGroundPrimitiveNotPickable(t *testing.T) {
	opts := DefaultGroundPrimitiveOptions()
	opts.Asynchronous = false
	opts.AllowPicking = false
	opts.GeometryInstances = []GeometryInstance{{Rectangle: Rectangle{0, 0, 1, 1}}}
	p := NewGroundPrimitive(opts)
	p.update(&frameState{frameNumber: 1})
	if p.pick(0.5, 0.5) != nil {
		t.Error("primitive built without picking should not be picked")
	}
}
