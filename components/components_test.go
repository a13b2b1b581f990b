package components

import (
	"testing"

	"github.com/phanxgames/canopy"
	"github.com/phanxgames/canopy/bind"
)

// attached returns a 360x180 scene (one pixel per degree), its root context
// and an engine.
func attached() (*canopy.Scene, bind.Context, *bind.Engine) {
	s := canopy.NewScene()
	s.SetViewport(360, 180)
	return s, Attach(s), bind.NewEngine()
}

func groundProps(rect canopy.Rectangle) bind.Props {
	return bind.Props{
		"asynchronous": false,
		"geometryInstances": []canopy.GeometryInstance{
			{Rectangle: rect, Color: canopy.ColorWhite},
		},
	}
}

// --- Registry ---

func TestRegistryNames(t *testing.T) {
	want := []string{
		"GroundPrimitive", "Label", "LabelCollection", "Moon",
		"PrimitiveCollection", "Scene", "SkyAtmosphere",
	}
	got := Names()
	if len(got) != len(want) {
		t.Fatalf("Names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if _, ok := Lookup("Moon"); !ok {
		t.Error("Lookup(Moon) failed")
	}
	if _, ok := Lookup("Globe"); ok {
		t.Error("Lookup(Globe) should fail")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("registering Moon twice should panic")
		}
	}()
	Register(Moon)
}

func TestSchemasClassifyEveryProperty(t *testing.T) {
	for _, name := range Names() {
		c, _ := Lookup(name)
		type checker interface{ Check() error }
		if err := c.(checker).Check(); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

// --- Moon ---

func TestMoonReplacesAndRestores(t *testing.T) {
	s, ctx, e := attached()
	original := s.Moon

	in := e.Mount(Moon, ctx, bind.Props{"textureUrl": "moon-big.jpg", "show": false})
	if in == nil {
		t.Fatal("Mount returned nil")
	}
	m := in.Native().(*canopy.Moon)
	if s.Moon != m || m == original {
		t.Fatal("scene moon should be the mounted moon")
	}
	if m.TextureURL != "moon-big.jpg" || m.Show {
		t.Errorf("moon = %+v", m)
	}

	e.Update(in, bind.Props{"textureUrl": "moon-big.jpg", "show": true})
	if !m.Show {
		t.Error("show not updated")
	}

	e.Unmount(in)
	if s.Moon == m || s.Moon == nil {
		t.Fatal("unmount should install a fresh moon")
	}
	if s.Moon.TextureURL != canopy.DefaultMoonTextureURL || !s.Moon.Show {
		t.Errorf("restored moon = %+v, want defaults", s.Moon)
	}
}

func TestMoonEllipsoidIsConstructionOnly(t *testing.T) {
	_, ctx, e := attached()
	custom := canopy.Ellipsoid{Radii: canopy.Vec3{X: 1, Y: 1, Z: 1}}
	in := e.Mount(Moon, ctx, bind.Props{"ellipsoid": custom})
	m := in.Native().(*canopy.Moon)
	if m.Ellipsoid != custom {
		t.Fatalf("Ellipsoid = %+v, want %+v", m.Ellipsoid, custom)
	}
	e.Update(in, bind.Props{"ellipsoid": canopy.EllipsoidWGS84})
	if m.Ellipsoid != custom {
		t.Errorf("Ellipsoid changed after mount to %+v", m.Ellipsoid)
	}
}

func TestMoonUnmountLeavesForeignMoon(t *testing.T) {
	s, ctx, e := attached()
	in := e.Mount(Moon, ctx, nil)
	other := canopy.NewMoon(canopy.DefaultMoonOptions())
	s.Moon = other
	e.Unmount(in)
	if s.Moon != other {
		t.Error("unmount replaced a moon it did not install")
	}
}

func TestMoonUnmountAfterSceneDestroyed(t *testing.T) {
	s, ctx, e := attached()
	in := e.Mount(Moon, ctx, nil)
	m := s.Moon
	s.Destroy()
	e.Unmount(in)
	if s.Moon != m {
		t.Error("unmount should not touch a destroyed scene")
	}
	e.Unmount(in)
}

func TestMoonWithoutScene(t *testing.T) {
	e := bind.NewEngine()
	if in := e.Mount(Moon, bind.Background(), nil); in != nil {
		t.Error("Moon mounted without a scene")
	}
}

// --- SkyAtmosphere ---

func TestSkyAtmosphereConfiguresAndRestores(t *testing.T) {
	s, ctx, e := attached()
	sky := s.SkyAtmosphere

	in := e.Mount(SkyAtmosphere, ctx, bind.Props{"hueShift": 0.5, "show": false})
	if in.Native() != sky {
		t.Fatal("SkyAtmosphere should borrow the scene's atmosphere")
	}
	if sky.HueShift != 0.5 || sky.Show {
		t.Errorf("sky = %+v", sky)
	}

	e.Update(in, bind.Props{"hueShift": 0.5})
	if sky.Show {
		t.Error("unchanged show was rewritten")
	}

	e.Unmount(in)
	if s.SkyAtmosphere == sky {
		t.Fatal("unmount should install a fresh atmosphere")
	}
	if s.SkyAtmosphere.HueShift != 0 || !s.SkyAtmosphere.Show {
		t.Errorf("restored sky = %+v, want defaults", s.SkyAtmosphere)
	}
}

func TestSkyAtmosphereUndefinedIsUnset(t *testing.T) {
	s, ctx, e := attached()
	in := e.Mount(SkyAtmosphere, ctx, bind.Props{"brightnessShift": 0.3})
	e.Update(in, bind.Props{})
	if s.SkyAtmosphere.BrightnessShift != 0 {
		t.Errorf("BrightnessShift = %v, want 0", s.SkyAtmosphere.BrightnessShift)
	}
}

// --- Scene ---

func TestSceneAppliesProps(t *testing.T) {
	s, ctx, e := attached()
	in := e.Mount(Scene, ctx, bind.Props{
		"backgroundColor":   "#102030",
		"requestRenderMode": true,
	})
	if in.Native() != s {
		t.Fatal("Scene should borrow the attached scene")
	}
	want, _ := canopy.ParseColor("#102030")
	if s.BackgroundColor != want {
		t.Errorf("BackgroundColor = %+v, want %+v", s.BackgroundColor, want)
	}
	if !s.RequestRenderMode {
		t.Error("RequestRenderMode not set")
	}
}

func TestSceneEvents(t *testing.T) {
	s, ctx, e := attached()
	var first, second int
	in := e.Mount(Scene, ctx, bind.Props{
		"onPreUpdate": func(...any) { first++ },
	})
	s.Update(0)
	e.Update(in, bind.Props{"onPreUpdate": func(...any) { second++ }})
	s.Update(0)
	if first != 1 || second != 1 {
		t.Errorf("first = %d, second = %d, want 1 and 1", first, second)
	}
	if n := s.PreUpdate.NumberOfListeners(); n != 1 {
		t.Errorf("listeners = %d, want 1", n)
	}
	e.Unmount(in)
	if n := s.PreUpdate.NumberOfListeners(); n != 0 {
		t.Errorf("listeners after unmount = %d, want 0", n)
	}
	if s.IsDestroyed() {
		t.Error("Scene component must not destroy the scene")
	}
}

func TestSceneModeMorphs(t *testing.T) {
	s, ctx, e := attached()
	var completed []canopy.SceneMode
	onComplete := func(_ *canopy.Scene, _, to canopy.SceneMode) {
		completed = append(completed, to)
	}
	in := e.Mount(Scene, ctx, bind.Props{
		"mode":            "2D",
		"morphDuration":   0,
		"onMorphComplete": onComplete,
	})
	if s.Mode() != canopy.SceneMode2D {
		t.Fatalf("Mode = %v, want 2D", s.Mode())
	}

	// The mount-time morph finishes inside Create, before events are bound.
	if len(completed) != 0 {
		t.Errorf("completed = %v, want none", completed)
	}

	// Unchanged mode does not morph again.
	e.Update(in, bind.Props{"mode": "2D", "morphDuration": 0, "onMorphComplete": onComplete})
	if len(completed) != 0 {
		t.Errorf("completed = %v, want none", completed)
	}

	e.Update(in, bind.Props{"mode": canopy.SceneMode3D, "onMorphComplete": onComplete})
	if s.Mode() != canopy.SceneModeMorphing {
		t.Fatalf("Mode = %v, want morphing with the default duration", s.Mode())
	}
	s.Update(DefaultMorphDuration)
	if s.Mode() != canopy.SceneMode3D {
		t.Errorf("Mode = %v, want 3D", s.Mode())
	}
	if len(completed) != 1 || completed[0] != canopy.SceneMode3D {
		t.Errorf("completed = %v", completed)
	}
}

// --- PrimitiveCollection ---

func TestPrimitiveCollectionNesting(t *testing.T) {
	s, ctx, e := attached()
	outer := e.Mount(PrimitiveCollection, ctx, bind.Props{"show": false})
	c := outer.Native().(*canopy.PrimitiveCollection)
	if !s.Primitives.Contains(c) {
		t.Fatal("collection not added to the scene")
	}
	if c.Show {
		t.Error("show = true, want false")
	}

	inner := e.Mount(GroundPrimitive, outer.Context(), groundProps(canopy.Rectangle{}))
	p := inner.Native().(*canopy.GroundPrimitive)
	if !c.Contains(p) || s.Primitives.Contains(p) {
		t.Error("primitive should be added to the nested collection")
	}

	e.Unmount(inner)
	e.Unmount(outer)
	if s.Primitives.Contains(c) || !c.IsDestroyed() {
		t.Error("collection should be removed and destroyed")
	}
}

func TestPrimitiveCollectionParentDestroyedFirst(t *testing.T) {
	s, ctx, e := attached()
	outer := e.Mount(PrimitiveCollection, ctx, nil)
	inner := e.Mount(GroundPrimitive, outer.Context(), groundProps(canopy.Rectangle{}))
	p := inner.Native().(*canopy.GroundPrimitive)
	e.Unmount(outer)
	e.Unmount(inner)
	e.Unmount(inner)
	if s.Primitives.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Primitives.Len())
	}
	if !p.IsDestroyed() {
		t.Error("primitive should be destroyed with its collection")
	}
}

// --- GroundPrimitive ---

func TestGroundPrimitiveReadonlyDropped(t *testing.T) {
	_, ctx, e := attached()
	in := e.Mount(GroundPrimitive, ctx, bind.Props{"allowPicking": false, "show": true})
	p := in.Native().(*canopy.GroundPrimitive)
	e.Update(in, bind.Props{"allowPicking": true, "show": false})
	if p.AllowPicking {
		t.Error("allowPicking changed after mount")
	}
	if p.Show {
		t.Error("show not updated")
	}
}

func TestGroundPrimitiveOnReadyLatestCallback(t *testing.T) {
	s, ctx, e := attached()
	var first, second int
	props := groundProps(canopy.Rectangle{})
	props["onReady"] = func(*canopy.GroundPrimitive) { first++ }
	in := e.Mount(GroundPrimitive, ctx, props)

	next := groundProps(canopy.Rectangle{})
	next["onReady"] = func(*canopy.GroundPrimitive) { second++ }
	e.Update(in, next)

	s.Update(0)
	s.Update(0)
	if first != 0 || second != 1 {
		t.Errorf("first = %d, second = %d, want 0 and 1", first, second)
	}
}

func TestGroundPrimitiveClick(t *testing.T) {
	s, ctx, e := attached()
	var clicks int
	var target canopy.Primitive
	props := groundProps(canopy.Rectangle{West: 0, South: 0, East: 10, North: 10})
	props["onClick"] = func(ev canopy.InteractionEvent, p canopy.Primitive) {
		clicks++
		target = p
	}
	in := e.Mount(GroundPrimitive, ctx, props)
	s.Update(0)

	s.InjectClick(185, 85)
	s.Update(0)
	s.Update(0)
	if clicks != 1 {
		t.Fatalf("clicks = %d, want 1", clicks)
	}
	if target != in.Native() {
		t.Errorf("target = %v, want mounted primitive", target)
	}

	// Rebinding the handler does not double fire.
	var rebound int
	props2 := groundProps(canopy.Rectangle{West: 0, South: 0, East: 10, North: 10})
	props2["onClick"] = func(...any) { rebound++ }
	e.Update(in, props2)
	s.InjectClick(185, 85)
	s.Update(0)
	s.Update(0)
	if clicks != 1 || rebound != 1 {
		t.Errorf("clicks = %d, rebound = %d, want 1 and 1", clicks, rebound)
	}

	e.Unmount(in)
	if n := in.Bindings(); n != 0 {
		t.Errorf("bindings after unmount = %d, want 0", n)
	}
}

func TestGroundPrimitiveEventsNeedBus(t *testing.T) {
	s := canopy.NewScene()
	ctx := PrimitiveCollectionKey.With(bind.Background(), s.Primitives)
	e := bind.NewEngine()
	props := groundProps(canopy.Rectangle{})
	props["onClick"] = func(...any) {}
	in := e.Mount(GroundPrimitive, ctx, props)
	if in == nil {
		t.Fatal("Mount returned nil")
	}
	if n := in.Bindings(); n != 0 {
		t.Errorf("bindings = %d, want 0 without a bus", n)
	}
}

// --- Labels ---

func TestLabels(t *testing.T) {
	s, ctx, e := attached()
	lcIn := e.Mount(LabelCollection, ctx, bind.Props{"blendOption": "opaque"})
	lc := lcIn.Native().(*canopy.LabelCollection)
	if !s.Primitives.Contains(lc) {
		t.Fatal("label collection not added to the scene")
	}
	if lc.BlendOption != canopy.BlendOpaque {
		t.Errorf("BlendOption = %v, want opaque", lc.BlendOption)
	}

	lIn := e.Mount(Label, lcIn.Context(), bind.Props{
		"text":     "Tokyo",
		"position": map[string]any{"longitude": 139.7, "latitude": 35.7},
	})
	l := lIn.Native().(*canopy.Label)
	if lc.Len() != 1 || l.Text != "Tokyo" || l.Position.Longitude != 139.7 {
		t.Fatalf("label = %+v, Len = %d", l, lc.Len())
	}

	e.Update(lIn, bind.Props{"text": "Kyoto"})
	if l.Text != "Kyoto" {
		t.Errorf("Text = %q, want Kyoto", l.Text)
	}

	e.Unmount(lIn)
	if lc.Len() != 0 || l.Collection() != nil {
		t.Error("label not removed")
	}
	e.Unmount(lcIn)
	if !lc.IsDestroyed() {
		t.Error("label collection not destroyed")
	}
}

func TestLabelWithoutCollection(t *testing.T) {
	_, ctx, e := attached()
	if in := e.Mount(Label, ctx, bind.Props{"text": "x"}); in != nil {
		t.Error("Label mounted outside a label collection")
	}
}
