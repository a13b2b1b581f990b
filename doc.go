// Package canopy is a retained-mode globe scene graph for [Ebitengine].
//
// A [Scene] owns a root [PrimitiveCollection], the environment singletons
// ([Moon], [Sun], [SkyAtmosphere], [Fog], [DirectionalLight]) and the render
// and morph events. Primitives such as [GroundPrimitive] and
// [LabelCollection] are added to collections and drawn with an
// equirectangular projection.
//
// Objects are plain structs with exported, writable fields. Fields tagged
// `prop:"name"` are the object's properties; the bind package uses the tags
// to drive objects from declarative component trees.
//
// # Quick start
//
//	scene := canopy.NewScene()
//	opts := canopy.DefaultGroundPrimitiveOptions()
//	opts.GeometryInstances = []canopy.GeometryInstance{{
//		Rectangle: canopy.Rectangle{West: -10, South: -10, East: 10, North: 10},
//		Color:     canopy.Color{R: 1, A: 0.5},
//	}}
//	scene.Primitives.Add(canopy.NewGroundPrimitive(opts))
//	canopy.Run(scene, canopy.RunConfig{Title: "globe", Width: 800, Height: 600})
//
// For headless use call [Scene.Update] and [Scene.Draw] directly and feed
// pointer input with [Scene.InjectClick] and friends.
//
// # Events
//
// Native events are [Event] values; listeners are added with
// [Event.AddEventListener], which returns a remover. Pointer interactions on
// picked primitives are delivered to a single [InteractionSink] per scene.
//
// [Ebitengine]: https://ebitengine.org
package canopy
