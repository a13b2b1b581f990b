package tree

import (
	"context"
	"testing"

	"github.com/phanxgames/canopy/bind"
	"github.com/phanxgames/canopy/components"
)

// benchTree returns one PrimitiveCollection holding n keyed ground primitives.
func benchTree(n int, show bool) Element {
	children := make([]Element, n)
	for i := range children {
		el := ground(float64(i%36) * 10)
		el.Props["show"] = show
		children[i] = el.WithKey(string(rune('a'+i%26)) + string(rune('a'+i/26%26)))
	}
	return E(components.PrimitiveCollection, nil, children...)
}

// --- Render benchmarks ---

func BenchmarkRender_500Primitives_Unchanged(b *testing.B) {
	_, r := newRoot()
	el := benchTree(500, true)
	ctx := context.Background()
	if _, err := r.Render(ctx, el); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = r.Render(ctx, el)
	}
}

func BenchmarkRender_500Primitives_Toggle(b *testing.B) {
	_, r := newRoot()
	shown, hidden := benchTree(500, true), benchTree(500, false)
	ctx := context.Background()
	if _, err := r.Render(ctx, shown); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if i%2 == 0 {
			_, _ = r.Render(ctx, hidden)
		} else {
			_, _ = r.Render(ctx, shown)
		}
	}
}

func BenchmarkMountUnmount_GroundPrimitive(b *testing.B) {
	_, r := newRoot()
	engine, ctx := r.engine, r.ctx
	props := ground(0).Props

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		in := engine.Mount(components.GroundPrimitive, ctx, props)
		engine.Unmount(in)
	}
}

func BenchmarkDiff_20Props(b *testing.B) {
	names := make([]string, 20)
	prev, next := bind.Props{}, bind.Props{}
	for i := range names {
		names[i] = string(rune('a' + i))
		prev[names[i]] = i
		next[names[i]] = i
	}
	next["c"] = -1

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = bind.Diff(prev, next, names, nil)
	}
}
